package tracker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/questforge/backend/domain"
	"github.com/questforge/backend/usecase/engine"
)

// fakeStore runs the reducer directly over one in-memory snapshot, recording
// every dispatched action.
type fakeStore struct {
	state      domain.Snapshot
	dispatched []engine.Action
}

func newFakeStore(userID string) *fakeStore {
	state := engine.Reduce(domain.DefaultSnapshot(userID), engine.SetAllData{Snapshot: domain.DefaultSnapshot(userID)})
	return &fakeStore{state: state}
}

func (f *fakeStore) Load(_ context.Context, _ string) (domain.Snapshot, error) {
	return f.state, nil
}

func (f *fakeStore) Dispatch(_ context.Context, _ string, action engine.Action) (domain.Snapshot, error) {
	f.dispatched = append(f.dispatched, action)
	f.state = engine.Reduce(f.state, action)
	return f.state, nil
}

func (f *fakeStore) State(_ string) (domain.Snapshot, bool) {
	return f.state, true
}

func (f *fakeStore) Unload(_ context.Context, _ string) {}

func TestToggleTaskChainsStreakUpdate(t *testing.T) {
	store := newFakeStore("u1")
	uc := New(store, nil)

	state, err := uc.CreateTask(context.Background(), "u1", engine.AddTask{Title: "write report", Priority: domain.PriorityMedium})
	require.NoError(t, err)
	require.Len(t, state.Tasks, 1)
	taskID := state.Tasks[0].ID

	result, err := uc.ToggleTask(context.Background(), "u1", taskID)
	require.NoError(t, err)

	assert.True(t, result.NewlyCompleted)
	assert.Equal(t, 1, result.Snapshot.Streak.Current)
	assert.Equal(t, 1, result.Snapshot.Streak.Longest)
	assert.Equal(t, time.Now().Format(domain.DateLayout), result.Snapshot.Streak.LastCompletedDate)

	var sawStreakUpdate bool
	for _, a := range store.dispatched {
		if _, ok := a.(engine.UpdateStreak); ok {
			sawStreakUpdate = true
		}
	}
	assert.True(t, sawStreakUpdate, "completion should dispatch a streak update")
}

func TestToggleTaskUncompleteSkipsStreak(t *testing.T) {
	store := newFakeStore("u1")
	uc := New(store, nil)

	state, err := uc.CreateTask(context.Background(), "u1", engine.AddTask{Title: "stretch", Priority: domain.PriorityLow})
	require.NoError(t, err)
	taskID := state.Tasks[0].ID

	_, err = uc.ToggleTask(context.Background(), "u1", taskID)
	require.NoError(t, err)
	before := len(store.dispatched)

	result, err := uc.ToggleTask(context.Background(), "u1", taskID)
	require.NoError(t, err)

	assert.False(t, result.NewlyCompleted)
	// only the toggle itself, no streak action
	assert.Equal(t, before+1, len(store.dispatched))
	// uncompleting leaves the streak untouched
	assert.Equal(t, 1, result.Snapshot.Streak.Current)
}

func TestToggleTaskSameDayIdempotentStreak(t *testing.T) {
	store := newFakeStore("u1")
	uc := New(store, nil)

	state, err := uc.CreateTask(context.Background(), "u1", engine.AddTask{Title: "a", Priority: domain.PriorityLow})
	require.NoError(t, err)
	first := state.Tasks[0].ID
	state, err = uc.CreateTask(context.Background(), "u1", engine.AddTask{Title: "b", Priority: domain.PriorityLow})
	require.NoError(t, err)
	second := state.Tasks[1].ID

	_, err = uc.ToggleTask(context.Background(), "u1", first)
	require.NoError(t, err)
	result, err := uc.ToggleTask(context.Background(), "u1", second)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Snapshot.Streak.Current, "two completions on one day count once")
}

func TestCreateTaskRejectsEmptyTitle(t *testing.T) {
	store := newFakeStore("u1")
	uc := New(store, nil)

	_, err := uc.CreateTask(context.Background(), "u1", engine.AddTask{})
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
	assert.Empty(t, store.dispatched)
}
