package domain

import "math"

const (
	levelBaseXP = 100
	levelGrowth = 1.2
)

// RewardEvent identifies something the user did that earns XP and coins.
type RewardEvent string

const (
	RewardTaskComplete     RewardEvent = "task_complete"
	RewardHighPriorityTask RewardEvent = "high_priority_task"
	RewardStreakDay        RewardEvent = "streak_day"
	RewardDailyChallenge   RewardEvent = "daily_challenge"
	RewardMoodEntry        RewardEvent = "mood_entry"
	RewardKnowledgeEntry   RewardEvent = "knowledge_entry"
	RewardPerfectDay       RewardEvent = "perfect_day"
	RewardAchievement      RewardEvent = "achievement_unlock"
)

// XPRewards and CoinRewards are fixed lookup tables from event kind to amount.
var XPRewards = map[RewardEvent]int{
	RewardTaskComplete:     10,
	RewardHighPriorityTask: 25,
	RewardStreakDay:        15,
	RewardDailyChallenge:   30,
	RewardMoodEntry:        5,
	RewardKnowledgeEntry:   8,
	RewardPerfectDay:       50,
	RewardAchievement:      20,
}

var CoinRewards = map[RewardEvent]int{
	RewardTaskComplete:     5,
	RewardHighPriorityTask: 12,
	RewardStreakDay:        8,
	RewardDailyChallenge:   15,
	RewardMoodEntry:        2,
	RewardKnowledgeEntry:   3,
	RewardPerfectDay:       25,
	RewardAchievement:      10,
}

var levelTitles = []struct {
	minLevel int
	title    string
}{
	{100, "Deity"},
	{75, "Immortal"},
	{50, "Grandmaster"},
	{35, "Champion"},
	{25, "Veteran"},
	{15, "Adventurer"},
	{10, "Apprentice"},
	{5, "Novice"},
	{1, "Rookie"},
}

// XPThreshold returns the XP required to move past the given level.
// Thresholds grow geometrically from the base amount.
func XPThreshold(level int) int {
	if level < 1 {
		level = 1
	}
	return int(math.Floor(levelBaseXP * math.Pow(levelGrowth, float64(level-1))))
}

// LevelFromXP derives the full level record from total XP alone. The result
// is deterministic; stored level fields are never trusted without recomputing.
func LevelFromXP(totalXP int) UserLevel {
	if totalXP < 0 {
		totalXP = 0
	}

	level := 1
	remaining := totalXP
	for remaining >= XPThreshold(level) {
		remaining -= XPThreshold(level)
		level++
	}

	return UserLevel{
		Level:     level,
		CurrentXP: remaining,
		XPToNext:  XPThreshold(level) - remaining,
		TotalXP:   totalXP,
		Title:     titleForLevel(level),
	}
}

func titleForLevel(level int) string {
	for _, t := range levelTitles {
		if level >= t.minLevel {
			return t.title
		}
	}
	return levelTitles[len(levelTitles)-1].title
}

// TaskRewards returns the XP and coin credit for completing a task of the
// given priority.
func TaskRewards(p Priority) (xp, coins int) {
	if p == PriorityHigh {
		return XPRewards[RewardHighPriorityTask], CoinRewards[RewardHighPriorityTask]
	}
	return XPRewards[RewardTaskComplete], CoinRewards[RewardTaskComplete]
}
