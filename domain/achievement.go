package domain

import "time"

// AchievementType groups catalog entries by what they track.
type AchievementType string

const (
	AchievementTask      AchievementType = "task"
	AchievementStreak    AchievementType = "streak"
	AchievementMilestone AchievementType = "milestone"
	AchievementChallenge AchievementType = "daily_challenge"
	AchievementSpecial   AchievementType = "special"
)

// Rarity ranks achievements by how hard they are to earn.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// Achievement is either a catalog template (Unlocked=false, Date empty) or an
// earned instance appended to the user's unlocked list. Earned instances are
// immutable once created.
type Achievement struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Type        AchievementType `json:"type"`
	Points      int             `json:"points"`
	Rarity      Rarity          `json:"rarity"`
	Icon        string          `json:"icon"`
	Unlocked    bool            `json:"unlocked"`
	Date        string          `json:"date,omitempty"`
}

// AchievementStats is the cumulative view the unlock predicates evaluate.
type AchievementStats struct {
	TotalTasksCompleted int
	LongestStreak       int
	Level               int
	ChallengesCompleted int
	MoodEntries         int
}

type achievementRule struct {
	template Achievement
	unlocks  func(AchievementStats) bool
}

func taskRule(id, title, desc string, points int, rarity Rarity, icon string, min int) achievementRule {
	return achievementRule{
		template: Achievement{ID: id, Title: title, Description: desc, Type: AchievementTask, Points: points, Rarity: rarity, Icon: icon},
		unlocks:  func(s AchievementStats) bool { return s.TotalTasksCompleted >= min },
	}
}

func streakRule(id, title, desc string, points int, rarity Rarity, icon string, min int) achievementRule {
	return achievementRule{
		template: Achievement{ID: id, Title: title, Description: desc, Type: AchievementStreak, Points: points, Rarity: rarity, Icon: icon},
		unlocks:  func(s AchievementStats) bool { return s.LongestStreak >= min },
	}
}

func levelRule(id, title, desc string, points int, rarity Rarity, icon string, min int) achievementRule {
	return achievementRule{
		template: Achievement{ID: id, Title: title, Description: desc, Type: AchievementMilestone, Points: points, Rarity: rarity, Icon: icon},
		unlocks:  func(s AchievementStats) bool { return s.Level >= min },
	}
}

var achievementRules = []achievementRule{
	taskRule("first-task", "First Steps", "Complete your first task", 10, RarityCommon, "footprints", 1),
	taskRule("task-10", "Getting Things Done", "Complete 10 tasks", 20, RarityCommon, "checklist", 10),
	taskRule("task-50", "Task Machine", "Complete 50 tasks", 40, RarityRare, "gears", 50),
	taskRule("task-100", "Centurion", "Complete 100 tasks", 75, RarityEpic, "laurel", 100),
	taskRule("task-500", "Relentless", "Complete 500 tasks", 150, RarityLegendary, "comet", 500),
	streakRule("streak-3", "Warming Up", "Hold a 3-day streak", 15, RarityCommon, "spark", 3),
	streakRule("streak-7", "One Week Wonder", "Hold a 7-day streak", 25, RarityRare, "flame", 7),
	streakRule("streak-14", "Fortnight Focus", "Hold a 14-day streak", 40, RarityRare, "bonfire", 14),
	streakRule("streak-30", "Iron Will", "Hold a 30-day streak", 80, RarityEpic, "shield", 30),
	streakRule("streak-100", "Eternal Flame", "Hold a 100-day streak", 200, RarityLegendary, "phoenix", 100),
	levelRule("level-5", "Moving Up", "Reach level 5", 15, RarityCommon, "arrow-up", 5),
	levelRule("level-10", "Double Digits", "Reach level 10", 30, RarityRare, "star", 10),
	levelRule("level-25", "Quarter Century", "Reach level 25", 60, RarityEpic, "crown", 25),
	levelRule("level-50", "Halfway to Glory", "Reach level 50", 120, RarityLegendary, "trophy", 50),
	{
		template: Achievement{ID: "challenge-10", Title: "Challenger", Description: "Complete 10 daily challenges", Type: AchievementChallenge, Points: 35, Rarity: RarityRare, Icon: "target"},
		unlocks:  func(s AchievementStats) bool { return s.ChallengesCompleted >= 10 },
	},
	{
		template: Achievement{ID: "mood-7", Title: "Self Aware", Description: "Record 7 mood entries", Type: AchievementSpecial, Points: 20, Rarity: RarityCommon, Icon: "mirror"},
		unlocks:  func(s AchievementStats) bool { return s.MoodEntries >= 7 },
	},
}

// AchievementCatalog returns a fresh copy of every achievement template.
func AchievementCatalog() []Achievement {
	out := make([]Achievement, 0, len(achievementRules))
	for _, r := range achievementRules {
		out = append(out, r.template)
	}
	return out
}

// CheckAchievements evaluates every not-yet-unlocked template against the
// given stats and returns the newly earned instances, stamped with the date.
// Re-running with the result merged into unlocked yields nothing, so the
// sweep is safe to repeat after every state transition.
func CheckAchievements(stats AchievementStats, unlocked []Achievement, at time.Time) []Achievement {
	have := make(map[string]struct{}, len(unlocked))
	for _, a := range unlocked {
		have[a.ID] = struct{}{}
	}

	var earned []Achievement
	for _, rule := range achievementRules {
		if _, ok := have[rule.template.ID]; ok {
			continue
		}
		if !rule.unlocks(stats) {
			continue
		}
		a := rule.template
		a.Unlocked = true
		a.Date = at.Format(DateLayout)
		earned = append(earned, a)
	}
	return earned
}

// RepairCatalog validates a persisted template catalog. An empty list, or any
// entry with placeholder text, invalidates the whole catalog and regenerates
// it from the canonical rules. Unlocked achievements must always be a subset
// of well-formed templates, so a broken catalog is never kept.
func RepairCatalog(list []Achievement) []Achievement {
	if len(list) == 0 {
		return AchievementCatalog()
	}
	for _, a := range list {
		if achievementBroken(a) {
			return AchievementCatalog()
		}
	}
	return list
}

// SanitizeAchievements repairs a persisted unlocked-achievements list.
// Entries with missing or placeholder text are replaced from the canonical
// catalog; entries whose ID matches nothing in the catalog are dropped.
// Unlocked flags and dates survive the repair.
func SanitizeAchievements(list []Achievement) []Achievement {
	catalog := make(map[string]Achievement, len(achievementRules))
	for _, r := range achievementRules {
		catalog[r.template.ID] = r.template
	}

	var out []Achievement
	for _, a := range list {
		if !achievementBroken(a) {
			out = append(out, a)
			continue
		}
		tpl, ok := catalog[a.ID]
		if !ok {
			continue
		}
		tpl.Unlocked = a.Unlocked
		tpl.Date = a.Date
		out = append(out, tpl)
	}
	return out
}

func achievementBroken(a Achievement) bool {
	return badText(a.Title) || badText(a.Description) || a.ID == ""
}

func badText(s string) bool {
	return s == "" || s == "???" || s == "undefined"
}
