package repository

import (
	"context"
	"time"

	"github.com/questforge/backend/domain"
)

type SessionRepository interface {
	Get(ctx context.Context, id string) (*domain.Session, error)
	Save(ctx context.Context, session *domain.Session) error
	Delete(ctx context.Context, id string) error
	Extend(ctx context.Context, id string, ttl time.Duration) error
}

// ResetTokenRepository holds short-lived password-reset tokens.
type ResetTokenRepository interface {
	SaveToken(ctx context.Context, token, userID string, ttl time.Duration) error
	ConsumeToken(ctx context.Context, token string) (string, error)
}
