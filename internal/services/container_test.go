package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/questforge/backend/domain"
	"github.com/questforge/backend/usecase/engine"
)

type memRepo struct {
	mu       sync.Mutex
	data     map[string]domain.Snapshot
	saves    int
	failSave bool
}

func newMemRepo() *memRepo {
	return &memRepo{data: map[string]domain.Snapshot{}}
}

func (m *memRepo) Get(_ context.Context, userID string) (*domain.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap, ok := m.data[userID]
	if !ok {
		return nil, domain.ErrSnapshotNotFound
	}
	out := snap
	return &out, nil
}

func (m *memRepo) Save(_ context.Context, snapshot *domain.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSave {
		return errors.New("store unavailable")
	}
	m.saves++
	m.data[snapshot.UserID] = *snapshot
	return nil
}

func (m *memRepo) Delete(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, userID)
	return nil
}

func (m *memRepo) saveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

func (m *memRepo) stored(userID string) (domain.Snapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap, ok := m.data[userID]
	return snap, ok
}

func newTestContainer(remote, localRepo *memRepo) *StateContainer {
	return NewStateContainer(remote, localRepo, nil, nil, ContainerConfig{
		Debounce: 40 * time.Millisecond,
	})
}

func settle() {
	time.Sleep(150 * time.Millisecond)
}

func TestContainer_DebounceCoalescesWrites(t *testing.T) {
	remote := newMemRepo()
	localRepo := newMemRepo()
	sc := newTestContainer(remote, localRepo)

	_, err := sc.Load(context.Background(), "u1")
	require.NoError(t, err)
	settle()
	base := remote.saveCount()

	for _, title := range []string{"one", "two", "three"} {
		_, err := sc.Dispatch(context.Background(), "u1", engine.AddTask{Title: title, Priority: domain.PriorityMedium})
		require.NoError(t, err)
	}
	settle()

	assert.Equal(t, base+1, remote.saveCount(), "a burst of actions must produce exactly one write")

	snap, ok := remote.stored("u1")
	require.True(t, ok)
	assert.Len(t, snap.Tasks, 3, "the write must contain the final state only")
}

func TestContainer_IdenticalStateSkipsWrite(t *testing.T) {
	remote := newMemRepo()
	localRepo := newMemRepo()
	sc := newTestContainer(remote, localRepo)

	_, err := sc.Load(context.Background(), "u1")
	require.NoError(t, err)
	settle()
	base := remote.saveCount()

	// unknown action leaves the state untouched
	_, err = sc.Dispatch(context.Background(), "u1", engine.DeleteTask{ID: "missing"})
	require.NoError(t, err)
	settle()

	assert.Equal(t, base, remote.saveCount())
}

func TestContainer_RemoteFailureFallsBackToLocal(t *testing.T) {
	remote := newMemRepo()
	remote.failSave = true
	localRepo := newMemRepo()
	sc := newTestContainer(remote, localRepo)

	_, err := sc.Load(context.Background(), "u1")
	require.NoError(t, err)

	_, err = sc.Dispatch(context.Background(), "u1", engine.AddTask{Title: "offline work", Priority: domain.PriorityLow})
	require.NoError(t, err)
	settle()

	snap, ok := localRepo.stored("u1")
	require.True(t, ok, "failed remote write must land in the local store")
	assert.Len(t, snap.Tasks, 1)
	assert.Equal(t, 0, remote.saveCount())
}

func TestContainer_OfflineModeNeverTouchesRemote(t *testing.T) {
	remote := newMemRepo()
	localRepo := newMemRepo()
	sc := NewStateContainer(remote, localRepo, nil, nil, ContainerConfig{
		Debounce:    40 * time.Millisecond,
		OfflineMode: true,
	})

	_, err := sc.Load(context.Background(), "u1")
	require.NoError(t, err)
	_, err = sc.Dispatch(context.Background(), "u1", engine.AddTask{Title: "local only", Priority: domain.PriorityLow})
	require.NoError(t, err)
	settle()

	assert.Equal(t, 0, remote.saveCount())
	_, ok := localRepo.stored("u1")
	assert.True(t, ok)
}

func TestContainer_LoadRepairsCorruptRemoteSnapshot(t *testing.T) {
	remote := newMemRepo()
	corrupt := domain.Snapshot{UserID: "u1", Stats: domain.UserStats{TotalXP: 120}}
	remote.data["u1"] = corrupt
	localRepo := newMemRepo()
	sc := newTestContainer(remote, localRepo)

	state, err := sc.Load(context.Background(), "u1")
	require.NoError(t, err)

	assert.GreaterOrEqual(t, len(state.AvailableAchievements), 15)
	assert.Equal(t, domain.LevelFromXP(120), state.Stats.Level)
	assert.NotEmpty(t, state.DailyChallenges, "load must roll fresh challenges")
}

func TestContainer_UnloadFlushesImmediately(t *testing.T) {
	remote := newMemRepo()
	localRepo := newMemRepo()
	sc := newTestContainer(remote, localRepo)

	_, err := sc.Load(context.Background(), "u1")
	require.NoError(t, err)
	_, err = sc.Dispatch(context.Background(), "u1", engine.AddTask{Title: "before signout", Priority: domain.PriorityHigh})
	require.NoError(t, err)

	sc.Unload(context.Background(), "u1")

	snap, ok := remote.stored("u1")
	require.True(t, ok)
	assert.Len(t, snap.Tasks, 1)

	_, loaded := sc.State("u1")
	assert.False(t, loaded)
}
