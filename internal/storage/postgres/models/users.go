package models

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"yamdb/proj/internal/domain/filters"
	"yamdb/proj/internal/domain/models"
	"yamdb/proj/internal/storage"
	"yamdb/proj/internal/storage/postgres"
)

type UserModel struct {
	DB *pgxpool.Pool
}

const userColumns = "id, username, email, role, staff, confirmation_code, first_name, last_name, bio, created_at"

func (m *UserModel) Insert(ctx context.Context, user *models.User) (*models.User, error) {
	rows, _ := m.DB.Query(
		ctx,
		`INSERT INTO users (username, email, role, staff, confirmation_code, first_name, last_name, bio)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING `+userColumns,
		user.Username,
		user.Email,
		user.Role,
		user.Staff,
		user.ConfirmationCode,
		user.FirstName,
		user.LastName,
		user.Bio,
	)
	inserted, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.User])
	if err != nil {
		return nil, postgres.MapUniqueViolation(err)
	}
	return &inserted, nil
}

func (m *UserModel) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return m.getBy(ctx, "id", id)
}

func (m *UserModel) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return m.getBy(ctx, "email", email)
}

func (m *UserModel) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return m.getBy(ctx, "username", username)
}

func (m *UserModel) getBy(ctx context.Context, column string, value any) (*models.User, error) {
	rows, err := m.DB.Query(ctx, "SELECT "+userColumns+" FROM users WHERE "+column+" = $1", value)
	if err != nil {
		return nil, err
	}
	user, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.User])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (m *UserModel) List(ctx context.Context, search string, filters *filters.Filters) ([]models.User, int, error) {
	rows, _ := m.DB.Query(
		ctx,
		`SELECT count(*) OVER(), `+userColumns+` FROM users
		WHERE (username ILIKE '%' || $1 || '%' OR $1 = '')
		ORDER BY id DESC
		LIMIT $2 OFFSET $3`,
		search, filters.Limit(), filters.Offset(),
	)
	type row struct {
		Count int
		models.User
	}
	outputRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[row])
	if err != nil {
		return nil, 0, err
	}
	if len(outputRows) == 0 {
		return []models.User{}, 0, nil
	}
	users := make([]models.User, 0, len(outputRows))
	for _, r := range outputRows {
		users = append(users, r.User)
	}
	return users, outputRows[0].Count, nil
}

func (m *UserModel) Update(ctx context.Context, user *models.User) (*models.User, error) {
	rows, _ := m.DB.Query(
		ctx,
		`UPDATE users SET username = $1, email = $2, role = $3, first_name = $4, last_name = $5, bio = $6
		WHERE id = $7 RETURNING `+userColumns,
		user.Username,
		user.Email,
		user.Role,
		user.FirstName,
		user.LastName,
		user.Bio,
		user.ID,
	)
	updated, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.User])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, postgres.MapUniqueViolation(err)
	}
	return &updated, nil
}

func (m *UserModel) Delete(ctx context.Context, username string) error {
	status, err := m.DB.Exec(ctx, "DELETE FROM users WHERE username = $1", username)
	if err != nil {
		return err
	}
	if status.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}
