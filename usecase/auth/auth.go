package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/questforge/backend/domain"
	"github.com/questforge/backend/repository"
)

const resetTokenTTL = 30 * time.Minute

// Config carries the token-signing settings.
type Config struct {
	Secret     string
	Issuer     string
	SessionTTL time.Duration
}

// UseCase implements the identity provider: email/password signup and signin,
// session revocation, and password resets.
type UseCase struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	resets   repository.ResetTokenRepository
	logger   *zap.Logger
	cfg      Config
}

func New(
	users repository.UserRepository,
	sessions repository.SessionRepository,
	resets repository.ResetTokenRepository,
	logger *zap.Logger,
	cfg Config,
) *UseCase {
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		users:    users,
		sessions: sessions,
		resets:   resets,
		logger:   logger,
		cfg:      cfg,
	}
}

// SignUp registers a new identity and opens its first session.
func (uc *UseCase) SignUp(ctx context.Context, email, password string) (*domain.Session, error) {
	if email == "" || len(password) < 8 {
		return nil, domain.ErrInvalidPayload
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		Status:       "active",
	}
	if err := uc.users.Create(ctx, user); err != nil {
		return nil, err
	}

	uc.logger.Info("user registered", zap.String("user_id", user.ID))
	return uc.openSession(ctx, user)
}

// SignIn verifies the password and opens a session.
func (uc *UseCase) SignIn(ctx context.Context, email, password string) (*domain.Session, error) {
	user, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return nil, domain.ErrBadCredentials
		}
		return nil, err
	}
	if !user.IsActive() {
		return nil, domain.ErrUnauthorized
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrBadCredentials
	}

	return uc.openSession(ctx, user)
}

// SignOut revokes the session.
func (uc *UseCase) SignOut(ctx context.Context, sessionID string) error {
	return uc.sessions.Delete(ctx, sessionID)
}

// SendPasswordReset issues a single-use reset token for the given email.
// An unknown email yields no error, so the endpoint can't be used to probe
// which addresses are registered.
func (uc *UseCase) SendPasswordReset(ctx context.Context, email string) (string, error) {
	user, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return "", nil
		}
		return "", err
	}

	token := uuid.NewString()
	if err := uc.resets.SaveToken(ctx, token, user.ID, resetTokenTTL); err != nil {
		return "", err
	}

	// delivery is out of band; the token is logged for operators until a
	// mailer is wired up
	uc.logger.Info("password reset issued", zap.String("user_id", user.ID))
	return token, nil
}

// ResetPassword consumes a reset token and installs the new password hash.
func (uc *UseCase) ResetPassword(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < 8 {
		return domain.ErrInvalidPayload
	}

	userID, err := uc.resets.ConsumeToken(ctx, token)
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return domain.ErrUnauthorized
		}
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return uc.users.UpdatePassword(ctx, userID, string(hash))
}

// GetSession validates a stored session, pruning it when expired.
func (uc *UseCase) GetSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	session, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.IsExpired(time.Now()) {
		_ = uc.sessions.Delete(ctx, sessionID)
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

func (uc *UseCase) openSession(ctx context.Context, user *domain.User) (*domain.Session, error) {
	now := time.Now()
	session := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(uc.cfg.SessionTTL),
	}

	claims := jwt.MapClaims{
		"user_id":    user.ID,
		"session_id": session.ID,
		"iss":        uc.cfg.Issuer,
		"exp":        session.ExpiresAt.Unix(),
		"iat":        now.Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(uc.cfg.Secret))
	if err != nil {
		return nil, err
	}
	session.Token = token

	if err := uc.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}
