package users

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yamdb/proj/internal/domain/filters"
	"yamdb/proj/internal/domain/models"
	"yamdb/proj/internal/storage"
)

type fakeStorage struct {
	byUsername map[string]*models.User
	nextID     int64
	insertErr  error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{byUsername: map[string]*models.User{}}
}

func (f *fakeStorage) Insert(_ context.Context, user *models.User) (*models.User, error) {
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	for _, existing := range f.byUsername {
		if existing.Email == user.Email {
			return nil, &storage.ConflictError{Constraint: storage.ConstraintUniqueUserEmail}
		}
	}
	if _, ok := f.byUsername[user.Username]; ok {
		return nil, &storage.ConflictError{Constraint: storage.ConstraintUniqueUsername}
	}
	f.nextID++
	u := *user
	u.ID = f.nextID
	f.byUsername[u.Username] = &u
	copied := u
	return &copied, nil
}

func (f *fakeStorage) GetByUsername(_ context.Context, username string) (*models.User, error) {
	u, ok := f.byUsername[username]
	if !ok {
		return nil, storage.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (f *fakeStorage) List(_ context.Context, _ string, _ *filters.Filters) ([]models.User, int, error) {
	out := []models.User{}
	for _, u := range f.byUsername {
		out = append(out, *u)
	}
	return out, len(out), nil
}

func (f *fakeStorage) Update(_ context.Context, user *models.User) (*models.User, error) {
	for username, existing := range f.byUsername {
		if existing.ID == user.ID {
			delete(f.byUsername, username)
			u := *user
			f.byUsername[u.Username] = &u
			copied := u
			return &copied, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (f *fakeStorage) Delete(_ context.Context, username string) error {
	if _, ok := f.byUsername[username]; !ok {
		return storage.ErrNotFound
	}
	delete(f.byUsername, username)
	return nil
}

func newTestService() (*UserService, *fakeStorage) {
	store := newFakeStorage()
	return New(slog.Default(), store), store
}

func TestCreateMapsUniquenessToFieldErrors(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	_, err := svc.Create(ctx, "alice", "alice@x.com", UserParams{})
	require.NoError(t, err)

	_, err = svc.Create(ctx, "bob", "alice@x.com", UserParams{})
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = svc.Create(ctx, "alice", "other@x.com", UserParams{})
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestCreateUnknownConstraintStaysGenericConflict(t *testing.T) {
	svc, store := newTestService()
	store.insertErr = &storage.ConflictError{Constraint: "some_other_constraint"}

	_, err := svc.Create(context.Background(), "alice", "alice@x.com", UserParams{})
	assert.ErrorIs(t, err, storage.ErrConflict)
	assert.NotErrorIs(t, err, ErrEmailTaken)
	assert.NotErrorIs(t, err, ErrUsernameTaken)
}

func TestUpdateSelfIgnoresRoleForPlainUsers(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	created, err := svc.Create(ctx, "alice", "alice@x.com", UserParams{})
	require.NoError(t, err)
	require.Equal(t, models.RoleUser, created.Role)

	admin := models.RoleAdmin
	bio := "escalation attempt"
	updated, err := svc.UpdateSelf(ctx, created, UserParams{Role: &admin, Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, updated.Role)
	require.NotNil(t, updated.Bio)
	assert.Equal(t, bio, *updated.Bio)
}

func TestUpdateSelfAllowsRoleForAdmins(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	created, err := svc.CreateSuperuser(ctx, "root@x.com", "root")
	require.NoError(t, err)
	require.True(t, created.IsAdmin())

	moderator := models.RoleModerator
	updated, err := svc.UpdateSelf(ctx, created, UserParams{Role: &moderator})
	require.NoError(t, err)
	assert.Equal(t, models.RoleModerator, updated.Role)
}

func TestAdminUpdateChangesRole(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	_, err := svc.Create(ctx, "alice", "alice@x.com", UserParams{})
	require.NoError(t, err)

	moderator := models.RoleModerator
	updated, err := svc.Update(ctx, "alice", UserParams{Role: &moderator})
	require.NoError(t, err)
	assert.Equal(t, models.RoleModerator, updated.Role)
}

func TestCreateSuperuser(t *testing.T) {
	svc, _ := newTestService()
	created, err := svc.CreateSuperuser(context.Background(), "root@x.com", "root")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, created.Role)
	assert.True(t, created.Staff)
}

func TestDeleteMissingUser(t *testing.T) {
	svc, _ := newTestService()
	assert.ErrorIs(t, svc.Delete(context.Background(), "ghost"), ErrUserNotFound)
}
