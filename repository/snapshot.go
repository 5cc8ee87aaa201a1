package repository

import (
	"context"

	"github.com/questforge/backend/domain"
)

// SnapshotRepository stores the full state tree as one document per user.
// Save is a whole-document overwrite, never a partial patch.
type SnapshotRepository interface {
	Get(ctx context.Context, userID string) (*domain.Snapshot, error)
	Save(ctx context.Context, snapshot *domain.Snapshot) error
	Delete(ctx context.Context, userID string) error
}
