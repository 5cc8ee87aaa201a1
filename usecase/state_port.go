package usecase

import (
	"context"

	"github.com/questforge/backend/domain"
	"github.com/questforge/backend/usecase/engine"
)

// StateStore abstracts the persistence synchronizer so use cases stay
// storage-agnostic. The container behind it owns the single mutable state
// cell per user; use cases only dispatch actions and read results.
type StateStore interface {
	Load(ctx context.Context, userID string) (domain.Snapshot, error)
	Dispatch(ctx context.Context, userID string, action engine.Action) (domain.Snapshot, error)
	State(userID string) (domain.Snapshot, bool)
	Unload(ctx context.Context, userID string)
}
