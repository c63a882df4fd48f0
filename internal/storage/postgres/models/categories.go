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

type CategoryModel struct {
	DB *pgxpool.Pool
}

func (m *CategoryModel) Insert(ctx context.Context, name, slug string) (*models.Category, error) {
	rows, _ := m.DB.Query(
		ctx,
		"INSERT INTO categories (name, slug) VALUES ($1, $2) RETURNING id, name, slug",
		name, slug,
	)
	category, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Category])
	if err != nil {
		return nil, postgres.MapUniqueViolation(err)
	}
	return &category, nil
}

func (m *CategoryModel) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	rows, err := m.DB.Query(ctx, "SELECT id, name, slug FROM categories WHERE slug = $1", slug)
	if err != nil {
		return nil, err
	}
	category, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Category])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return &category, nil
}

func (m *CategoryModel) List(ctx context.Context, search string, filters *filters.Filters) ([]models.Category, int, error) {
	rows, _ := m.DB.Query(
		ctx,
		`SELECT count(*) OVER(), id, name, slug FROM categories
		WHERE (name ILIKE '%' || $1 || '%' OR $1 = '')
		ORDER BY name ASC
		LIMIT $2 OFFSET $3`,
		search, filters.Limit(), filters.Offset(),
	)
	type row struct {
		Count int
		models.Category
	}
	outputRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[row])
	if err != nil {
		return nil, 0, err
	}
	if len(outputRows) == 0 {
		return []models.Category{}, 0, nil
	}
	categories := make([]models.Category, 0, len(outputRows))
	for _, r := range outputRows {
		categories = append(categories, r.Category)
	}
	return categories, outputRows[0].Count, nil
}

// Delete removes the category; titles referencing it keep existing with a
// null category (FK is ON DELETE SET NULL).
func (m *CategoryModel) Delete(ctx context.Context, slug string) error {
	status, err := m.DB.Exec(ctx, "DELETE FROM categories WHERE slug = $1", slug)
	if err != nil {
		return err
	}
	if status.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}
