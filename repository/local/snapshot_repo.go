package local

import (
	"context"
	"encoding/json"

	"github.com/questforge/backend/domain"
	"github.com/questforge/backend/internal/infrastructure/localstore"
	"github.com/questforge/backend/repository"
)

const keyPrefix = "user_data_"

type snapshotRepository struct {
	store *localstore.Store
}

// NewSnapshotRepository adapts the BoltDB store to the snapshot contract so
// the synchronizer can swap it in transparently when the remote store is
// unreachable.
func NewSnapshotRepository(store *localstore.Store) repository.SnapshotRepository {
	return &snapshotRepository{store: store}
}

func (r *snapshotRepository) Get(_ context.Context, userID string) (*domain.Snapshot, error) {
	raw, err := r.store.Get(keyPrefix + userID)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, domain.ErrSnapshotNotFound
	}

	var snapshot domain.Snapshot
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		return nil, domain.WrapError(domain.ErrCodeInternal, "corrupt local snapshot", err)
	}
	snapshot.UserID = userID
	return &snapshot, nil
}

func (r *snapshotRepository) Save(_ context.Context, snapshot *domain.Snapshot) error {
	if snapshot == nil || snapshot.UserID == "" {
		return domain.ErrInvalidPayload
	}
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	return r.store.Put(keyPrefix+snapshot.UserID, payload)
}

func (r *snapshotRepository) Delete(_ context.Context, userID string) error {
	return r.store.Delete(keyPrefix + userID)
}

// BufferedUserIDs lists users with a locally buffered snapshot awaiting
// drain to the remote store.
func BufferedUserIDs(store *localstore.Store) ([]string, error) {
	keys, err := store.Keys()
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(keys))
	for _, k := range keys {
		if len(k) > len(keyPrefix) && k[:len(keyPrefix)] == keyPrefix {
			ids = append(ids, k[len(keyPrefix):])
		}
	}
	return ids, nil
}
