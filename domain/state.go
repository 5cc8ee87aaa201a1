package domain

import (
	"time"

	"github.com/google/uuid"
)

// Priority grades a task's weight for reward purposes.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Task represents a user-owned activity item inside the snapshot tree.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Completed   bool       `json:"completed"`
	Priority    Priority   `json:"priority"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Streak tracks consecutive-day completion state.
// Invariant: Longest >= Current at all times.
type Streak struct {
	Current           int    `json:"current"`
	Longest           int    `json:"longest"`
	LastCompletedDate string `json:"last_completed_date"`
	FreezeCount       int    `json:"freeze_count"`
}

// UserLevel is always derived from total XP, never stored authoritatively.
type UserLevel struct {
	Level     int    `json:"level"`
	CurrentXP int    `json:"current_xp"`
	XPToNext  int    `json:"xp_to_next"`
	TotalXP   int    `json:"total_xp"`
	Title     string `json:"title"`
}

// UserStats aggregates cumulative progression counters.
type UserStats struct {
	TotalTasksCompleted      int       `json:"total_tasks_completed"`
	TotalChallengesCompleted int       `json:"total_challenges_completed"`
	LongestStreak            int       `json:"longest_streak"`
	TotalXP                  int       `json:"total_xp"`
	TotalCoins               int       `json:"total_coins"`
	JoinedDate               time.Time `json:"joined_date"`
	Level                    UserLevel `json:"level"`
}

// ImportantDate is a calendar record owned by the user.
type ImportantDate struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Date      string    `json:"date"`
	Category  string    `json:"category,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Question is a free-form journal prompt record.
type Question struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Answer    string    `json:"answer,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// MoodEntry records a single mood check-in.
type MoodEntry struct {
	ID        string    `json:"id"`
	Mood      string    `json:"mood"`
	Note      string    `json:"note,omitempty"`
	Date      string    `json:"date"`
	CreatedAt time.Time `json:"created_at"`
}

// Settings holds user preferences carried inside the snapshot.
type Settings struct {
	Theme         string `json:"theme"`
	Notifications bool   `json:"notifications"`
	WeekStartsOn  string `json:"week_starts_on"`
}

// Snapshot is the full application state tree for one user. The persistence
// layer treats it as a single atomic document.
type Snapshot struct {
	UserID                string          `json:"user_id"`
	Tasks                 []Task          `json:"tasks"`
	Achievements          []Achievement   `json:"achievements"`
	AvailableAchievements []Achievement   `json:"available_achievements"`
	Streak                Streak          `json:"streak"`
	ImportantDates        []ImportantDate `json:"important_dates"`
	Questions             []Question      `json:"questions"`
	MoodEntries           []MoodEntry     `json:"mood_entries"`
	DailyChallenges       []DailyChallenge `json:"daily_challenges"`
	Stats                 UserStats       `json:"stats"`
	Settings              Settings        `json:"settings"`
	Coins                 int             `json:"coins"`
	LastUpdated           time.Time       `json:"last_updated"`
}

// DefaultSnapshot builds a fresh state tree for a new user.
func DefaultSnapshot(userID string) Snapshot {
	now := time.Now()
	return Snapshot{
		UserID:                userID,
		Tasks:                 []Task{},
		Achievements:          []Achievement{},
		AvailableAchievements: AchievementCatalog(),
		Streak:                Streak{},
		ImportantDates:        []ImportantDate{},
		Questions:             []Question{},
		MoodEntries:           []MoodEntry{},
		DailyChallenges:       []DailyChallenge{},
		Stats: UserStats{
			JoinedDate: now,
			Level:      LevelFromXP(0),
		},
		Settings: Settings{
			Theme:         "dark",
			Notifications: true,
			WeekStartsOn:  "monday",
		},
		LastUpdated: now,
	}
}

// NewTask constructs a task with generated ID and creation timestamp.
func NewTask(title, description string, priority Priority, due *time.Time) Task {
	if priority != PriorityLow && priority != PriorityHigh {
		priority = PriorityMedium
	}
	return Task{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		Priority:    priority,
		DueDate:     due,
		CreatedAt:   time.Now(),
	}
}
