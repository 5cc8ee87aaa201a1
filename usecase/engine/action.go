package engine

import (
	"time"

	"github.com/questforge/backend/domain"
)

// Action is the tagged union of every state transition the reducer accepts.
// One concrete type per action kind; the reducer matches exhaustively and
// treats anything else as a no-op.
type Action interface {
	isAction()
}

// AddTask appends a new task to the tree.
type AddTask struct {
	Title       string
	Description string
	Priority    domain.Priority
	DueDate     *time.Time
}

// ToggleTask flips a task's completed flag. The false-to-true transition is
// the completion event that credits rewards; true-to-false only clears the
// flag and never debits anything.
type ToggleTask struct {
	ID string
	At time.Time
}

// DeleteTask removes a task by ID.
type DeleteTask struct {
	ID string
}

// UnlockAchievement unlocks a catalog entry by ID, crediting its points.
type UnlockAchievement struct {
	ID string
	At time.Time
}

// UpdateStreak replaces the streak sub-state with a calculator result.
type UpdateStreak struct {
	Streak domain.Streak
}

// SetAllData is the bulk-load action: it merges a persisted snapshot over
// defaults and repairs known corruption patterns.
type SetAllData struct {
	Snapshot domain.Snapshot
}

// AddMoodEntry records a mood check-in and credits its reward.
type AddMoodEntry struct {
	Mood string
	Note string
	At   time.Time
}

// DeleteMoodEntry removes a mood record by ID.
type DeleteMoodEntry struct {
	ID string
}

// AddImportantDate appends a calendar record.
type AddImportantDate struct {
	Title    string
	Date     string
	Category string
}

// DeleteImportantDate removes a calendar record by ID.
type DeleteImportantDate struct {
	ID string
}

// AddQuestion records a knowledge entry and credits its reward.
type AddQuestion struct {
	Text   string
	Answer string
	At     time.Time
}

// DeleteQuestion removes a knowledge entry by ID.
type DeleteQuestion struct {
	ID string
}

// UpdateSettings replaces the settings block.
type UpdateSettings struct {
	Settings domain.Settings
}

// SetDailyChallenges replaces the active challenge set wholesale.
type SetDailyChallenges struct {
	Challenges []domain.DailyChallenge
}

func (AddTask) isAction()             {}
func (ToggleTask) isAction()          {}
func (DeleteTask) isAction()          {}
func (UnlockAchievement) isAction()   {}
func (UpdateStreak) isAction()        {}
func (SetAllData) isAction()          {}
func (AddMoodEntry) isAction()        {}
func (DeleteMoodEntry) isAction()     {}
func (AddImportantDate) isAction()    {}
func (DeleteImportantDate) isAction() {}
func (AddQuestion) isAction()         {}
func (DeleteQuestion) isAction()      {}
func (UpdateSettings) isAction()      {}
func (SetDailyChallenges) isAction()  {}
