package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/questforge/backend/domain"
)

type fakeUsers struct {
	byEmail map[string]*domain.User
	byID    map[string]*domain.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{
		byEmail: make(map[string]*domain.User),
		byID:    make(map[string]*domain.User),
	}
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUsers) Create(_ context.Context, user *domain.User) error {
	if _, ok := f.byEmail[user.Email]; ok {
		return domain.ErrEmailTaken
	}
	f.byEmail[user.Email] = user
	f.byID[user.ID] = user
	return nil
}

func (f *fakeUsers) UpdatePassword(_ context.Context, id, passwordHash string) error {
	u, ok := f.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

type fakeSessions struct {
	sessions map[string]*domain.Session
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{sessions: make(map[string]*domain.Session)}
}

func (f *fakeSessions) Get(_ context.Context, id string) (*domain.Session, error) {
	if s, ok := f.sessions[id]; ok {
		return s, nil
	}
	return nil, domain.ErrSessionNotFound
}

func (f *fakeSessions) Save(_ context.Context, session *domain.Session) error {
	f.sessions[session.ID] = session
	return nil
}

func (f *fakeSessions) Delete(_ context.Context, id string) error {
	delete(f.sessions, id)
	return nil
}

func (f *fakeSessions) Extend(_ context.Context, id string, ttl time.Duration) error {
	s, ok := f.sessions[id]
	if !ok {
		return domain.ErrSessionNotFound
	}
	s.ExpiresAt = time.Now().Add(ttl)
	return nil
}

type fakeResets struct {
	tokens map[string]string
}

func newFakeResets() *fakeResets {
	return &fakeResets{tokens: make(map[string]string)}
}

func (f *fakeResets) SaveToken(_ context.Context, token, userID string, _ time.Duration) error {
	f.tokens[token] = userID
	return nil
}

func (f *fakeResets) ConsumeToken(_ context.Context, token string) (string, error) {
	userID, ok := f.tokens[token]
	if !ok {
		return "", domain.NewError(domain.ErrCodeNotFound, "token not found")
	}
	delete(f.tokens, token)
	return userID, nil
}

func newTestUseCase() (*UseCase, *fakeUsers, *fakeSessions, *fakeResets) {
	users := newFakeUsers()
	sessions := newFakeSessions()
	resets := newFakeResets()
	uc := New(users, sessions, resets, nil, Config{
		Secret:     "test-secret",
		Issuer:     "questforge-test",
		SessionTTL: time.Hour,
	})
	return uc, users, sessions, resets
}

func TestSignUpOpensSession(t *testing.T) {
	uc, users, sessions, _ := newTestUseCase()

	session, err := uc.SignUp(context.Background(), "alice@example.com", "hunter2hunter2")
	require.NoError(t, err)
	require.NotNil(t, session)

	assert.NotEmpty(t, session.Token)
	assert.Len(t, sessions.sessions, 1)
	assert.Len(t, users.byEmail, 1)

	token, err := jwt.Parse(session.Token, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, session.UserID, claims["user_id"])
	assert.Equal(t, session.ID, claims["session_id"])
}

func TestSignUpRejectsShortPassword(t *testing.T) {
	uc, _, _, _ := newTestUseCase()

	_, err := uc.SignUp(context.Background(), "bob@example.com", "short")
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
}

func TestSignUpDuplicateEmail(t *testing.T) {
	uc, _, _, _ := newTestUseCase()

	_, err := uc.SignUp(context.Background(), "carol@example.com", "password123")
	require.NoError(t, err)

	_, err = uc.SignUp(context.Background(), "carol@example.com", "password456")
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeConflict))
}

func TestSignInWrongPassword(t *testing.T) {
	uc, _, _, _ := newTestUseCase()

	_, err := uc.SignUp(context.Background(), "dave@example.com", "password123")
	require.NoError(t, err)

	_, err = uc.SignIn(context.Background(), "dave@example.com", "wrong-password")
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeUnauthorized))
}

func TestSignInUnknownEmailSameError(t *testing.T) {
	uc, _, _, _ := newTestUseCase()

	_, err := uc.SignIn(context.Background(), "nobody@example.com", "whatever123")
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeUnauthorized))
}

func TestPasswordResetRoundTrip(t *testing.T) {
	uc, _, _, _ := newTestUseCase()

	_, err := uc.SignUp(context.Background(), "erin@example.com", "firstpassword")
	require.NoError(t, err)

	token, err := uc.SendPasswordReset(context.Background(), "erin@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	require.NoError(t, uc.ResetPassword(context.Background(), token, "secondpassword"))

	_, err = uc.SignIn(context.Background(), "erin@example.com", "firstpassword")
	assert.Error(t, err)
	_, err = uc.SignIn(context.Background(), "erin@example.com", "secondpassword")
	assert.NoError(t, err)

	// token is single use
	err = uc.ResetPassword(context.Background(), token, "thirdpassword")
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeUnauthorized))
}

func TestSendResetUnknownEmailNoProbe(t *testing.T) {
	uc, _, _, resets := newTestUseCase()

	token, err := uc.SendPasswordReset(context.Background(), "ghost@example.com")
	assert.NoError(t, err)
	assert.Empty(t, token)
	assert.Empty(t, resets.tokens)
}

func TestGetSessionPrunesExpired(t *testing.T) {
	uc, _, sessions, _ := newTestUseCase()

	session, err := uc.SignUp(context.Background(), "frank@example.com", "password123")
	require.NoError(t, err)

	sessions.sessions[session.ID].ExpiresAt = time.Now().Add(-time.Minute)

	_, err = uc.GetSession(context.Background(), session.ID)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))
	assert.Empty(t, sessions.sessions)
}
