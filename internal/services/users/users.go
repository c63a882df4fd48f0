package users

import (
	"context"
	"errors"
	"log/slog"

	"yamdb/proj/internal/domain/filters"
	"yamdb/proj/internal/domain/models"
	"yamdb/proj/internal/services/auth"
	"yamdb/proj/internal/storage"
)

type UserStorage interface {
	Insert(ctx context.Context, user *models.User) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	List(ctx context.Context, search string, filters *filters.Filters) ([]models.User, int, error)
	Update(ctx context.Context, user *models.User) (*models.User, error)
	Delete(ctx context.Context, username string) error
}

type UserService struct {
	log     *slog.Logger
	storage UserStorage
}

func New(log *slog.Logger, storage UserStorage) *UserService {
	return &UserService{
		log:     log,
		storage: storage,
	}
}

func mapUserConflict(err error) error {
	switch storage.ConstraintName(err) {
	case storage.ConstraintUniqueUsername:
		return ErrUsernameTaken
	case storage.ConstraintUniqueUserEmail:
		return ErrEmailTaken
	}
	return err
}

func (s *UserService) List(ctx context.Context, search string, f *filters.Filters) ([]models.User, int, error) {
	const op = "users.UserService.List"
	users, total, err := s.storage.List(ctx, search, f)
	if err != nil {
		s.log.With("op", op).Error(err.Error())
		return nil, 0, err
	}
	return users, total, nil
}

func (s *UserService) Get(ctx context.Context, username string) (*models.User, error) {
	const op = "users.UserService.Get"
	log := s.log.With("op", op, "username", username)
	user, err := s.storage.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("user not found")
			return nil, ErrUserNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	return user, nil
}

type UserParams struct {
	Username  *string
	Email     *string
	Role      *models.Role
	FirstName *string
	LastName  *string
	Bio       *string
}

// Create is the admin-scope user creation path. The confirmation code is
// derived from the email so the new user can still obtain a token through
// the regular exchange.
func (s *UserService) Create(ctx context.Context, username, email string, params UserParams) (*models.User, error) {
	const op = "users.UserService.Create"
	log := s.log.With("op", op, "username", username, "email", email)
	user := &models.User{
		Username:         username,
		Email:            email,
		Role:             models.RoleUser,
		ConfirmationCode: auth.DeriveConfirmationCode(email),
		FirstName:        params.FirstName,
		LastName:         params.LastName,
		Bio:              params.Bio,
	}
	if params.Role != nil {
		user.Role = *params.Role
	}
	created, err := s.storage.Insert(ctx, user)
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			log.Info("uniqueness violation", "constraint", storage.ConstraintName(err))
			return nil, mapUserConflict(err)
		}
		log.Error(err.Error())
		return nil, err
	}
	return created, nil
}

// Update is the admin-scope edit path: every field including role is
// writable.
func (s *UserService) Update(ctx context.Context, username string, params UserParams) (*models.User, error) {
	const op = "users.UserService.Update"
	log := s.log.With("op", op, "username", username)
	user, err := s.Get(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.applyUpdate(ctx, log, user, params, true)
}

// UpdateSelf is the /users/me edit path. Role is immutable here unless the
// caller is already an admin, closing the self-escalation hole.
func (s *UserService) UpdateSelf(ctx context.Context, user *models.User, params UserParams) (*models.User, error) {
	const op = "users.UserService.UpdateSelf"
	log := s.log.With("op", op, "username", user.Username)
	updatable := *user
	return s.applyUpdate(ctx, log, &updatable, params, user.IsAdmin())
}

func (s *UserService) applyUpdate(ctx context.Context, log *slog.Logger, user *models.User, params UserParams, allowRole bool) (*models.User, error) {
	if params.Username != nil {
		user.Username = *params.Username
	}
	if params.Email != nil {
		user.Email = *params.Email
	}
	if params.Role != nil && allowRole {
		user.Role = *params.Role
	}
	if params.FirstName != nil {
		user.FirstName = params.FirstName
	}
	if params.LastName != nil {
		user.LastName = params.LastName
	}
	if params.Bio != nil {
		user.Bio = params.Bio
	}
	updated, err := s.storage.Update(ctx, user)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			return nil, ErrUserNotFound
		case errors.Is(err, storage.ErrConflict):
			log.Info("uniqueness violation", "constraint", storage.ConstraintName(err))
			return nil, mapUserConflict(err)
		}
		log.Error(err.Error())
		return nil, err
	}
	return updated, nil
}

func (s *UserService) Delete(ctx context.Context, username string) error {
	const op = "users.UserService.Delete"
	log := s.log.With("op", op, "username", username)
	if err := s.storage.Delete(ctx, username); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("user not found")
			return ErrUserNotFound
		}
		log.Error(err.Error())
		return err
	}
	return nil
}

// CreateSuperuser creates the elevated identity; models.NewSuperuser is the
// only constructor allowed to set role=admin together with the staff flag.
func (s *UserService) CreateSuperuser(ctx context.Context, email, username string) (*models.User, error) {
	const op = "users.UserService.CreateSuperuser"
	log := s.log.With("op", op, "email", email, "username", username)
	user, err := models.NewSuperuser(email, username, auth.DeriveConfirmationCode(email))
	if err != nil {
		return nil, err
	}
	created, err := s.storage.Insert(ctx, user)
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			log.Info("uniqueness violation", "constraint", storage.ConstraintName(err))
			return nil, mapUserConflict(err)
		}
		log.Error(err.Error())
		return nil, err
	}
	return created, nil
}
