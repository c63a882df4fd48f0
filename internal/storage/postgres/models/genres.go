package models

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"yamdb/proj/internal/domain/filters"
	"yamdb/proj/internal/domain/models"
	"yamdb/proj/internal/storage"
	"yamdb/proj/internal/storage/postgres"
)

type GenreModel struct {
	DB *pgxpool.Pool
}

func (m *GenreModel) Insert(ctx context.Context, name, slug string) (*models.Genre, error) {
	rows, _ := m.DB.Query(
		ctx,
		"INSERT INTO genres (name, slug) VALUES ($1, $2) RETURNING id, name, slug",
		name, slug,
	)
	genre, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Genre])
	if err != nil {
		return nil, postgres.MapUniqueViolation(err)
	}
	return &genre, nil
}

// GetBySlugs returns the genres found for the given slugs; callers detect
// unresolvable slugs by comparing against what came back.
func (m *GenreModel) GetBySlugs(ctx context.Context, slugs []string) ([]models.Genre, error) {
	rows, _ := m.DB.Query(ctx, "SELECT id, name, slug FROM genres WHERE slug = ANY($1)", slugs)
	genres, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Genre])
	if err != nil {
		return nil, err
	}
	return genres, nil
}

func (m *GenreModel) List(ctx context.Context, search string, filters *filters.Filters) ([]models.Genre, int, error) {
	rows, _ := m.DB.Query(
		ctx,
		`SELECT count(*) OVER(), id, name, slug FROM genres
		WHERE (name ILIKE '%' || $1 || '%' OR $1 = '')
		ORDER BY name ASC
		LIMIT $2 OFFSET $3`,
		search, filters.Limit(), filters.Offset(),
	)
	type row struct {
		Count int
		models.Genre
	}
	outputRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[row])
	if err != nil {
		return nil, 0, err
	}
	if len(outputRows) == 0 {
		return []models.Genre{}, 0, nil
	}
	genres := make([]models.Genre, 0, len(outputRows))
	for _, r := range outputRows {
		genres = append(genres, r.Genre)
	}
	return genres, outputRows[0].Count, nil
}

func (m *GenreModel) Delete(ctx context.Context, slug string) error {
	status, err := m.DB.Exec(ctx, "DELETE FROM genres WHERE slug = $1", slug)
	if err != nil {
		return err
	}
	if status.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}
