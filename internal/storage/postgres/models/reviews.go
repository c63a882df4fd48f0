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

type ReviewModel struct {
	DB *pgxpool.Pool
}

const reviewColumns = "r.id, r.title_id, r.text, r.author_id, u.username AS author, r.score, r.pub_date"

func (m *ReviewModel) Insert(ctx context.Context, titleID, authorID int64, text string, score int32) (*models.Review, error) {
	rows, _ := m.DB.Query(
		ctx,
		`WITH inserted AS (
			INSERT INTO reviews (title_id, author_id, text, score) VALUES ($1, $2, $3, $4)
			RETURNING id, title_id, text, author_id, score, pub_date
		)
		SELECT r.id, r.title_id, r.text, r.author_id, u.username AS author, r.score, r.pub_date
		FROM inserted r JOIN users u ON u.id = r.author_id`,
		titleID, authorID, text, score,
	)
	review, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Review])
	if err != nil {
		return nil, postgres.MapUniqueViolation(err)
	}
	return &review, nil
}

// Get resolves a review strictly within its title scope; an existing review
// attached to a different title is reported as absent.
func (m *ReviewModel) Get(ctx context.Context, titleID, id int64) (*models.Review, error) {
	rows, _ := m.DB.Query(
		ctx,
		"SELECT "+reviewColumns+" FROM reviews r JOIN users u ON u.id = r.author_id WHERE r.title_id = $1 AND r.id = $2",
		titleID, id,
	)
	review, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Review])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return &review, nil
}

func (m *ReviewModel) ListForTitle(ctx context.Context, titleID int64, filters *filters.Filters) ([]models.Review, int, error) {
	rows, _ := m.DB.Query(
		ctx,
		`SELECT count(*) OVER(), `+reviewColumns+` FROM reviews r
		JOIN users u ON u.id = r.author_id
		WHERE r.title_id = $1
		ORDER BY r.pub_date DESC
		LIMIT $2 OFFSET $3`,
		titleID, filters.Limit(), filters.Offset(),
	)
	type row struct {
		Count int
		models.Review
	}
	outputRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[row])
	if err != nil {
		return nil, 0, err
	}
	if len(outputRows) == 0 {
		return []models.Review{}, 0, nil
	}
	reviews := make([]models.Review, 0, len(outputRows))
	for _, r := range outputRows {
		reviews = append(reviews, r.Review)
	}
	return reviews, outputRows[0].Count, nil
}

func (m *ReviewModel) ExistsForAuthor(ctx context.Context, titleID, authorID int64) (bool, error) {
	var exists bool
	err := m.DB.QueryRow(
		ctx,
		"SELECT EXISTS (SELECT 1 FROM reviews WHERE title_id = $1 AND author_id = $2)",
		titleID, authorID,
	).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (m *ReviewModel) Update(ctx context.Context, review *models.Review) (*models.Review, error) {
	rows, _ := m.DB.Query(
		ctx,
		`WITH updated AS (
			UPDATE reviews SET text = $1, score = $2 WHERE title_id = $3 AND id = $4
			RETURNING id, title_id, text, author_id, score, pub_date
		)
		SELECT r.id, r.title_id, r.text, r.author_id, u.username AS author, r.score, r.pub_date
		FROM updated r JOIN users u ON u.id = r.author_id`,
		review.Text, review.Score, review.TitleID, review.ID,
	)
	updated, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Review])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, postgres.MapUniqueViolation(err)
	}
	return &updated, nil
}

// Delete cascades to the review's comments at the schema level.
func (m *ReviewModel) Delete(ctx context.Context, titleID, id int64) error {
	status, err := m.DB.Exec(ctx, "DELETE FROM reviews WHERE title_id = $1 AND id = $2", titleID, id)
	if err != nil {
		return err
	}
	if status.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}
