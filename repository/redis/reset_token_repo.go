package redis

import (
	"context"
	"time"

	redislib "github.com/redis/go-redis/v9"

	"github.com/questforge/backend/domain"
	"github.com/questforge/backend/repository"
)

type resetTokenRepository struct {
	client *redislib.Client
	prefix string
}

// NewResetTokenRepository stores single-use password reset tokens in Redis.
func NewResetTokenRepository(client *redislib.Client) repository.ResetTokenRepository {
	return &resetTokenRepository{
		client: client,
		prefix: "pwreset:",
	}
}

func (r *resetTokenRepository) SaveToken(ctx context.Context, token, userID string, ttl time.Duration) error {
	if token == "" || userID == "" {
		return domain.ErrInvalidPayload
	}
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return r.client.Set(ctx, r.prefix+token, userID, ttl).Err()
}

// ConsumeToken atomically fetches and deletes the token so it can only be
// used once.
func (r *resetTokenRepository) ConsumeToken(ctx context.Context, token string) (string, error) {
	userID, err := r.client.GetDel(ctx, r.prefix+token).Result()
	if err != nil {
		if err == redislib.Nil {
			return "", domain.ErrSessionNotFound
		}
		return "", err
	}
	return userID, nil
}
