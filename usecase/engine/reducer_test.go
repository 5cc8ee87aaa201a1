package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/questforge/backend/domain"
)

type bogusAction struct{}

func (bogusAction) isAction() {}

func TestReduce_UnknownActionIsNoop(t *testing.T) {
	s := domain.DefaultSnapshot("u1")
	out := Reduce(s, bogusAction{})
	assert.Equal(t, s, out)
}

func TestReduce_ToggleTaskCreditsRewards(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local)
	s := domain.DefaultSnapshot("u1")
	s = Reduce(s, AddTask{Title: "ship release", Priority: domain.PriorityHigh})
	require.Len(t, s.Tasks, 1)

	s = Reduce(s, ToggleTask{ID: s.Tasks[0].ID, At: now})

	require.True(t, s.Tasks[0].Completed)
	require.NotNil(t, s.Tasks[0].CompletedAt)
	assert.Equal(t, 1, s.Stats.TotalTasksCompleted)

	// first-task achievement fires in the same dispatch, so totals are at
	// least the task reward
	xp, coins := domain.TaskRewards(domain.PriorityHigh)
	assert.GreaterOrEqual(t, s.Stats.TotalXP, xp)
	assert.GreaterOrEqual(t, s.Stats.TotalCoins, coins)
	assert.Equal(t, domain.LevelFromXP(s.Stats.TotalXP), s.Stats.Level)

	unlockedIDs := make(map[string]bool)
	for _, a := range s.Achievements {
		unlockedIDs[a.ID] = true
	}
	assert.True(t, unlockedIDs["first-task"])
}

func TestReduce_UncompleteDoesNotReverseRewards(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local)
	s := domain.DefaultSnapshot("u1")
	s = Reduce(s, AddTask{Title: "water plants", Priority: domain.PriorityLow})
	id := s.Tasks[0].ID

	s = Reduce(s, ToggleTask{ID: id, At: now})
	xpAfterComplete := s.Stats.TotalXP
	completedCount := s.Stats.TotalTasksCompleted

	s = Reduce(s, ToggleTask{ID: id, At: now})

	assert.False(t, s.Tasks[0].Completed)
	assert.Nil(t, s.Tasks[0].CompletedAt)
	assert.Equal(t, xpAfterComplete, s.Stats.TotalXP)
	assert.Equal(t, completedCount, s.Stats.TotalTasksCompleted)

	// completing again is a fresh completion event
	s = Reduce(s, ToggleTask{ID: id, At: now})
	assert.Equal(t, completedCount+1, s.Stats.TotalTasksCompleted)
}

func TestReduce_StreakUpdateKeepsInvariants(t *testing.T) {
	s := domain.DefaultSnapshot("u1")
	res := domain.NextStreak(s.Streak, time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local))

	s = Reduce(s, UpdateStreak{Streak: res.Streak})

	assert.Equal(t, 1, s.Streak.Current)
	assert.Equal(t, 1, s.Stats.LongestStreak)
	assert.GreaterOrEqual(t, s.Streak.Longest, s.Streak.Current)
}

func TestReduce_ChallengeProgressLatchesAtTarget(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local)
	s := domain.DefaultSnapshot("u1")
	s.DailyChallenges = []domain.DailyChallenge{{
		ID:        "c1",
		Title:     "Clean Sweep",
		Type:      domain.ChallengeCompleteTasks,
		Target:    2,
		Reward:    domain.ChallengeReward{XP: 30, Coins: 15},
		ExpiresAt: now.Add(10 * time.Hour),
	}}

	for i := 0; i < 3; i++ {
		s = Reduce(s, AddTask{Title: "t", Priority: domain.PriorityMedium})
		s = Reduce(s, ToggleTask{ID: s.Tasks[i].ID, At: now})
	}

	c := s.DailyChallenges[0]
	assert.True(t, c.Completed)
	assert.Equal(t, 2, c.Progress, "progress must latch at target")
	assert.Equal(t, 1, s.Stats.TotalChallengesCompleted)
}

func TestReduce_MoodEntryAdvancesMoodChallenge(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local)
	s := domain.DefaultSnapshot("u1")
	s.DailyChallenges = []domain.DailyChallenge{{
		ID:        "m1",
		Type:      domain.ChallengeMoodCheckin,
		Target:    1,
		Reward:    domain.ChallengeReward{XP: 15, Coins: 8},
		ExpiresAt: now.Add(time.Hour),
	}}

	s = Reduce(s, AddMoodEntry{Mood: "great", At: now})

	require.Len(t, s.MoodEntries, 1)
	assert.True(t, s.DailyChallenges[0].Completed)
	assert.Equal(t, domain.XPRewards[domain.RewardMoodEntry]+15, s.Stats.TotalXP)
}

func TestReduce_UnlockAchievementIsIdempotent(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local)
	s := domain.DefaultSnapshot("u1")

	s = Reduce(s, UnlockAchievement{ID: "streak-7", At: now})
	require.Len(t, s.Achievements, 1)
	xp := s.Stats.TotalXP

	s = Reduce(s, UnlockAchievement{ID: "streak-7", At: now})
	assert.Len(t, s.Achievements, 1)
	assert.Equal(t, xp, s.Stats.TotalXP)
}

func TestReduce_BulkLoadRepairsCorruptSnapshot(t *testing.T) {
	incoming := domain.Snapshot{
		UserID: "u1",
		Stats:  domain.UserStats{TotalXP: 450, Level: domain.UserLevel{Level: 99, Title: "bogus"}},
		Streak: domain.Streak{Current: 6, Longest: 2},
	}

	s := Reduce(domain.DefaultSnapshot("u1"), SetAllData{Snapshot: incoming})

	require.GreaterOrEqual(t, len(s.AvailableAchievements), 15)
	for _, a := range s.AvailableAchievements {
		assert.NotEmpty(t, a.Title)
		assert.NotEqual(t, "???", a.Title)
	}
	assert.Equal(t, domain.LevelFromXP(450), s.Stats.Level, "stored level must never be trusted")
	assert.Equal(t, 6, s.Streak.Longest, "longest must be raised to current")
	assert.Equal(t, 6, s.Stats.LongestStreak)
	assert.NotNil(t, s.Tasks)
	assert.NotNil(t, s.DailyChallenges)
	assert.NotEmpty(t, s.Settings.Theme)
}

func TestReduce_DoesNotMutateInput(t *testing.T) {
	s := domain.DefaultSnapshot("u1")
	s = Reduce(s, AddTask{Title: "immutable check", Priority: domain.PriorityMedium})
	before := s.Tasks[0].Completed

	_ = Reduce(s, ToggleTask{ID: s.Tasks[0].ID, At: time.Now()})

	assert.Equal(t, before, s.Tasks[0].Completed, "reducer must not alias caller slices")
}
