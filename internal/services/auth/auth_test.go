package auth

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yamdb/proj/internal/domain/models"
	"yamdb/proj/internal/storage"
)

type fakeUserStorage struct {
	byEmail map[string]*models.User
	byID    map[int64]*models.User
	nextID  int64
}

func newFakeUserStorage() *fakeUserStorage {
	return &fakeUserStorage{byEmail: map[string]*models.User{}, byID: map[int64]*models.User{}}
}

func (s *fakeUserStorage) Insert(_ context.Context, user *models.User) (*models.User, error) {
	if _, ok := s.byEmail[user.Email]; ok {
		return nil, &storage.ConflictError{Constraint: "unique_user_email"}
	}
	s.nextID++
	u := *user
	u.ID = s.nextID
	s.byEmail[u.Email] = &u
	s.byID[u.ID] = &u
	return &u, nil
}

func (s *fakeUserStorage) GetByEmail(_ context.Context, email string) (*models.User, error) {
	u, ok := s.byEmail[email]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return u, nil
}

func (s *fakeUserStorage) GetByID(_ context.Context, id int64) (*models.User, error) {
	u, ok := s.byID[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return u, nil
}

type fakeMailer struct {
	sent []string
}

func (m *fakeMailer) Send(recipient string, tmplName string, tmplData any) error {
	m.sent = append(m.sent, recipient)
	return nil
}

type syncExecutor struct{}

func (syncExecutor) Add(task func()) { task() }

func newTestService(t *testing.T) (*AuthService, *fakeUserStorage, *fakeMailer) {
	t.Helper()
	users := newFakeUserStorage()
	mailer := &fakeMailer{}
	svc := New(slog.Default(), users, mailer, syncExecutor{}, "test-secret", time.Hour)
	return svc, users, mailer
}

func TestRequestConfirmation(t *testing.T) {
	svc, _, mailer := newTestService(t)
	user, err := svc.RequestConfirmation(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.Equal(t, DeriveUsername("a@x.com"), user.Username)
	assert.Equal(t, DeriveConfirmationCode("a@x.com"), user.ConfirmationCode)
	assert.Equal(t, []string{"a@x.com"}, mailer.sent)

	// derivation is reproducible, but the operation itself is a create
	_, err = svc.RequestConfirmation(context.Background(), "a@x.com")
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
}

func TestExchangeCodeForToken(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.ExchangeCodeForToken(context.Background(), "missing@x.com", "whatever")
	assert.ErrorIs(t, err, ErrUserNotFound)

	user, err := svc.RequestConfirmation(context.Background(), "a@x.com")
	require.NoError(t, err)

	_, err = svc.ExchangeCodeForToken(context.Background(), "a@x.com", "wrong-code")
	assert.ErrorIs(t, err, ErrInvalidConfirmationCode)

	token, err := svc.ExchangeCodeForToken(context.Background(), "a@x.com", user.ConfirmationCode)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	authenticated, err := svc.Authenticate(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, authenticated.ID)
}

func TestAuthenticateRejectsGarbage(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.Authenticate(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthenticateRejectsExpiredToken(t *testing.T) {
	users := newFakeUserStorage()
	svc := New(slog.Default(), users, &fakeMailer{}, syncExecutor{}, "test-secret", -time.Minute)
	user, err := svc.RequestConfirmation(context.Background(), "a@x.com")
	require.NoError(t, err)
	token, err := svc.ExchangeCodeForToken(context.Background(), "a@x.com", user.ConfirmationCode)
	require.NoError(t, err)
	_, err = svc.Authenticate(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
