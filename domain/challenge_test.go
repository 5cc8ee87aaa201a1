package domain

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRollDailyChallenges(t *testing.T) {
	now := time.Date(2026, 3, 10, 17, 30, 0, 0, time.Local)
	rng := rand.New(rand.NewSource(7))

	challenges := RollDailyChallenges(now, rng)

	require.GreaterOrEqual(t, len(challenges), 2)
	require.LessOrEqual(t, len(challenges), 3)

	midnight := time.Date(2026, 3, 11, 0, 0, 0, 0, time.Local)
	seen := make(map[string]bool)
	for _, c := range challenges {
		assert.Equal(t, midnight, c.ExpiresAt)
		assert.Zero(t, c.Progress)
		assert.False(t, c.Completed)
		assert.NotEmpty(t, c.ID)
		assert.Positive(t, c.Target)
		assert.False(t, seen[c.Title], "challenges must be drawn without replacement")
		seen[c.Title] = true
	}
}

func TestChallengesExpired(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.Local)
	active := []DailyChallenge{{ExpiresAt: now.Add(6 * time.Hour)}}
	stale := []DailyChallenge{
		{ExpiresAt: now.Add(6 * time.Hour)},
		{ExpiresAt: now.Add(-time.Minute)},
	}

	assert.False(t, ChallengesExpired(active, now))
	assert.True(t, ChallengesExpired(stale, now))
	assert.False(t, ChallengesExpired(nil, now))
}
