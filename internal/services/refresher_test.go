package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/questforge/backend/domain"
	"github.com/questforge/backend/internal/infrastructure/localstore"
	"github.com/questforge/backend/repository"
	"github.com/questforge/backend/repository/local"
)

type fakeHealth struct {
	online bool
}

func (f *fakeHealth) IsOnline() bool { return f.online }

func newDrainFixture(t *testing.T, online bool) (*Refresher, *memRepo, repository.SnapshotRepository, *StateContainer) {
	t.Helper()

	store, err := localstore.Open(filepath.Join(t.TempDir(), "local.db"), "snapshots")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	remote := newMemRepo()
	localRepo := local.NewSnapshotRepository(store)
	health := &fakeHealth{online: online}

	// long debounce so the container's own writes never race the drain
	container := NewStateContainer(remote, localRepo, health, nil, ContainerConfig{
		Debounce: time.Hour,
	})
	refresher := NewRefresher(container, store, remote, localRepo, health, nil, RefresherConfig{})
	return refresher, remote, localRepo, container
}

func bufferSnapshot(t *testing.T, localRepo repository.SnapshotRepository, userID, taskTitle string) {
	t.Helper()
	snap := domain.DefaultSnapshot(userID)
	snap.Tasks = append(snap.Tasks, domain.NewTask(taskTitle, "", domain.PriorityLow, nil))
	require.NoError(t, localRepo.Save(context.Background(), &snap))
}

func TestRefresher_DrainPushesAndPurgesBufferedSnapshots(t *testing.T) {
	refresher, remote, localRepo, _ := newDrainFixture(t, true)

	bufferSnapshot(t, localRepo, "u1", "written while offline")

	require.NoError(t, refresher.Drain(context.Background()))

	snap, ok := remote.stored("u1")
	require.True(t, ok, "buffered snapshot must reach the remote store")
	assert.Len(t, snap.Tasks, 1)

	_, err := localRepo.Get(context.Background(), "u1")
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound), "drained snapshot must be purged from the buffer")
}

func TestRefresher_DrainSkipsLoadedCells(t *testing.T) {
	refresher, remote, localRepo, container := newDrainFixture(t, true)

	_, err := container.Load(context.Background(), "u1")
	require.NoError(t, err)
	// Load persisted the fresh snapshot locally, so u1 sits in the buffer
	// while its cell is live; u2 is buffered only.
	bufferSnapshot(t, localRepo, "u2", "drain me")

	require.NoError(t, refresher.Drain(context.Background()))

	_, ok := remote.stored("u2")
	assert.True(t, ok)
	_, ok = remote.stored("u1")
	assert.False(t, ok, "a loaded cell's buffer belongs to the container, not the drain")
	_, err = localRepo.Get(context.Background(), "u1")
	assert.NoError(t, err, "skipped buffers must stay put")
}

func TestRefresher_DrainShortCircuitsOffline(t *testing.T) {
	refresher, remote, localRepo, _ := newDrainFixture(t, false)

	bufferSnapshot(t, localRepo, "u1", "still offline")

	require.NoError(t, refresher.Drain(context.Background()))

	assert.Equal(t, 0, remote.saveCount())
	_, err := localRepo.Get(context.Background(), "u1")
	assert.NoError(t, err, "buffer must survive an offline sweep")
}

func TestRefresher_DrainLeavesBufferOnRemoteFailure(t *testing.T) {
	refresher, remote, localRepo, _ := newDrainFixture(t, true)
	remote.failSave = true

	bufferSnapshot(t, localRepo, "u1", "retry later")

	require.NoError(t, refresher.Drain(context.Background()))

	_, err := localRepo.Get(context.Background(), "u1")
	assert.NoError(t, err, "failed push must keep the buffered snapshot for the next sweep")
}
