package tracker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/questforge/backend/domain"
	"github.com/questforge/backend/usecase"
	"github.com/questforge/backend/usecase/engine"
)

// UseCase exposes the feature-level operations of the progression engine.
// Every operation is an action dispatched through the state store; the
// reducer decides what actually changes.
type UseCase struct {
	states usecase.StateStore
	logger *zap.Logger
}

func New(states usecase.StateStore, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		states: states,
		logger: logger,
	}
}

// GetState returns the user's full snapshot, loading it on first access.
func (uc *UseCase) GetState(ctx context.Context, userID string) (domain.Snapshot, error) {
	if state, ok := uc.states.State(userID); ok {
		return state, nil
	}
	return uc.states.Load(ctx, userID)
}

// Reload discards the in-memory cell and refetches from storage, the
// equivalent of the page regaining visibility in another session.
func (uc *UseCase) Reload(ctx context.Context, userID string) (domain.Snapshot, error) {
	return uc.states.Load(ctx, userID)
}

// Apply dispatches a pre-decoded action verbatim.
func (uc *UseCase) Apply(ctx context.Context, userID string, action engine.Action) (domain.Snapshot, error) {
	return uc.states.Dispatch(ctx, userID, action)
}

// CreateTask appends a new task.
func (uc *UseCase) CreateTask(ctx context.Context, userID string, a engine.AddTask) (domain.Snapshot, error) {
	if a.Title == "" {
		return domain.Snapshot{}, domain.ErrInvalidPayload
	}
	return uc.states.Dispatch(ctx, userID, a)
}

// ToggleResult reports what a completion changed beyond the task itself.
type ToggleResult struct {
	Snapshot       domain.Snapshot     `json:"snapshot"`
	Streak         domain.StreakResult `json:"streak"`
	NewlyCompleted bool                `json:"newly_completed"`
}

// ToggleTask flips a task's completion state. A fresh completion also runs
// the streak calculator and applies its result through the dedicated streak
// action, so the reducer never mutates the streak implicitly.
func (uc *UseCase) ToggleTask(ctx context.Context, userID, taskID string) (ToggleResult, error) {
	now := time.Now()
	state, err := uc.states.Dispatch(ctx, userID, engine.ToggleTask{ID: taskID, At: now})
	if err != nil {
		return ToggleResult{}, err
	}

	completed := false
	for _, t := range state.Tasks {
		if t.ID == taskID {
			completed = t.Completed
			break
		}
	}
	if !completed {
		return ToggleResult{Snapshot: state}, nil
	}

	res := domain.NextStreak(state.Streak, now)
	if res.Streak != state.Streak {
		state, err = uc.states.Dispatch(ctx, userID, engine.UpdateStreak{Streak: res.Streak})
		if err != nil {
			return ToggleResult{}, err
		}
		if res.IsMilestone {
			uc.logger.Info("streak milestone reached",
				zap.String("user_id", userID),
				zap.Int("days", res.Streak.Current),
				zap.String("label", res.MilestoneLabel))
		}
	}

	return ToggleResult{
		Snapshot:       state,
		Streak:         res,
		NewlyCompleted: true,
	}, nil
}

// DeleteTask removes a task by ID.
func (uc *UseCase) DeleteTask(ctx context.Context, userID, taskID string) (domain.Snapshot, error) {
	if taskID == "" {
		return domain.Snapshot{}, domain.ErrInvalidPayload
	}
	return uc.states.Dispatch(ctx, userID, engine.DeleteTask{ID: taskID})
}

// AddMoodEntry records a mood check-in.
func (uc *UseCase) AddMoodEntry(ctx context.Context, userID string, a engine.AddMoodEntry) (domain.Snapshot, error) {
	if a.Mood == "" {
		return domain.Snapshot{}, domain.ErrInvalidPayload
	}
	return uc.states.Dispatch(ctx, userID, a)
}

// AddImportantDate records a calendar entry.
func (uc *UseCase) AddImportantDate(ctx context.Context, userID string, a engine.AddImportantDate) (domain.Snapshot, error) {
	if a.Title == "" || a.Date == "" {
		return domain.Snapshot{}, domain.ErrInvalidPayload
	}
	return uc.states.Dispatch(ctx, userID, a)
}

// AddQuestion records a knowledge entry.
func (uc *UseCase) AddQuestion(ctx context.Context, userID string, a engine.AddQuestion) (domain.Snapshot, error) {
	if a.Text == "" {
		return domain.Snapshot{}, domain.ErrInvalidPayload
	}
	return uc.states.Dispatch(ctx, userID, a)
}

// UpdateSettings replaces the settings block.
func (uc *UseCase) UpdateSettings(ctx context.Context, userID string, s domain.Settings) (domain.Snapshot, error) {
	return uc.states.Dispatch(ctx, userID, engine.UpdateSettings{Settings: s})
}

// SignedOut flushes and evicts the user's state cell.
func (uc *UseCase) SignedOut(ctx context.Context, userID string) {
	uc.states.Unload(ctx, userID)
}
