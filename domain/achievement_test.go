package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckAchievements_UnlocksByStats(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.Local)
	stats := AchievementStats{
		TotalTasksCompleted: 12,
		LongestStreak:       7,
		Level:               5,
	}

	earned := CheckAchievements(stats, nil, now)

	ids := make(map[string]bool)
	for _, a := range earned {
		ids[a.ID] = true
		assert.True(t, a.Unlocked)
		assert.Equal(t, now.Format(DateLayout), a.Date)
	}

	assert.True(t, ids["first-task"])
	assert.True(t, ids["task-10"])
	assert.True(t, ids["streak-7"])
	assert.True(t, ids["level-5"])
	assert.False(t, ids["task-50"])
	assert.False(t, ids["streak-30"])
}

func TestCheckAchievements_Idempotent(t *testing.T) {
	now := time.Now()
	stats := AchievementStats{TotalTasksCompleted: 1, LongestStreak: 3}

	first := CheckAchievements(stats, nil, now)
	require.NotEmpty(t, first)

	second := CheckAchievements(stats, first, now)
	assert.Empty(t, second)
}

func TestAchievementCatalog_WellFormed(t *testing.T) {
	catalog := AchievementCatalog()
	require.GreaterOrEqual(t, len(catalog), 15)

	seen := make(map[string]bool)
	for _, a := range catalog {
		assert.False(t, achievementBroken(a), "catalog entry %q must be well formed", a.ID)
		assert.False(t, a.Unlocked)
		assert.Empty(t, a.Date)
		assert.False(t, seen[a.ID], "duplicate catalog id %q", a.ID)
		seen[a.ID] = true
	}
}

func TestRepairCatalog(t *testing.T) {
	assert.Len(t, RepairCatalog(nil), len(AchievementCatalog()))

	broken := AchievementCatalog()
	broken[3].Title = "???"
	repaired := RepairCatalog(broken)
	assert.Len(t, repaired, len(AchievementCatalog()))
	for _, a := range repaired {
		assert.False(t, achievementBroken(a))
	}

	good := AchievementCatalog()
	assert.Equal(t, good, RepairCatalog(good))
}

func TestSanitizeAchievements_KeepsUnlockState(t *testing.T) {
	unlocked := []Achievement{
		{ID: "first-task", Title: "undefined", Description: "", Unlocked: true, Date: "2026-01-05"},
		{ID: "streak-3", Title: "Warming Up", Description: "Hold a 3-day streak", Type: AchievementStreak, Points: 15, Rarity: RarityCommon, Icon: "spark", Unlocked: true, Date: "2026-01-07"},
		{ID: "ghost-entry", Title: "???", Description: "???"},
	}

	out := SanitizeAchievements(unlocked)

	require.Len(t, out, 2)
	assert.Equal(t, "first-task", out[0].ID)
	assert.Equal(t, "First Steps", out[0].Title)
	assert.True(t, out[0].Unlocked)
	assert.Equal(t, "2026-01-05", out[0].Date)
	assert.Equal(t, "streak-3", out[1].ID)
}
