package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/questforge/backend/domain"
	"github.com/questforge/backend/repository"
)

type snapshotRepository struct {
	pool *pgxpool.Pool
}

// NewSnapshotRepository creates the Postgres-backed snapshot document store.
// One JSONB row per user holds the entire state tree.
func NewSnapshotRepository(pool *pgxpool.Pool) repository.SnapshotRepository {
	return &snapshotRepository{pool: pool}
}

func (r *snapshotRepository) Get(ctx context.Context, userID string) (*domain.Snapshot, error) {
	const query = `
	SELECT payload, updated_at
	FROM snapshots
	WHERE user_id = $1
	`

	var (
		payload   []byte
		updatedAt time.Time
	)
	if err := r.pool.QueryRow(ctx, query, userID).Scan(&payload, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSnapshotNotFound
		}
		return nil, err
	}

	var snapshot domain.Snapshot
	if err := json.Unmarshal(payload, &snapshot); err != nil {
		return nil, domain.WrapError(domain.ErrCodeInternal, "corrupt snapshot payload", err)
	}
	snapshot.UserID = userID
	snapshot.LastUpdated = updatedAt
	return &snapshot, nil
}

func (r *snapshotRepository) Save(ctx context.Context, snapshot *domain.Snapshot) error {
	if snapshot == nil || snapshot.UserID == "" {
		return domain.ErrInvalidPayload
	}

	payload, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}

	const query = `
	INSERT INTO snapshots (user_id, payload, updated_at)
	VALUES ($1, $2, NOW())
	ON CONFLICT (user_id) DO UPDATE
	SET payload = EXCLUDED.payload,
		updated_at = NOW()
	RETURNING updated_at
	`

	return r.pool.QueryRow(ctx, query, snapshot.UserID, payload).Scan(&snapshot.LastUpdated)
}

func (r *snapshotRepository) Delete(ctx context.Context, userID string) error {
	const query = `DELETE FROM snapshots WHERE user_id = $1`
	_, err := r.pool.Exec(ctx, query, userID)
	return err
}
