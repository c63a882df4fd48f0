package models

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"yamdb/proj/internal/domain/fields"
	"yamdb/proj/internal/domain/filters"
	"yamdb/proj/internal/domain/models"
	"yamdb/proj/internal/storage"
	"yamdb/proj/internal/storage/postgres"
)

type TitleModel struct {
	DB *pgxpool.Pool
}

// titleRow is the flat shape produced by the title select; the category and
// genre associations are assembled on top of it.
type titleRow struct {
	ID           int64
	Name         string
	Year         int32
	Description  *string
	Rating       fields.Rating
	CategoryID   *int64
	CategoryName *string
	CategorySlug *string
}

func (r titleRow) toTitle() models.Title {
	title := models.Title{
		ID:          r.ID,
		Name:        r.Name,
		Year:        r.Year,
		Description: r.Description,
		Rating:      r.Rating,
		Genres:      []models.Genre{},
	}
	if r.CategoryID != nil {
		title.Category = &models.Category{ID: *r.CategoryID, Name: *r.CategoryName, Slug: *r.CategorySlug}
	}
	return title
}

func titleSelect() sq.SelectBuilder {
	return sq.Select(
		"t.id", "t.name", "t.year", "t.description",
		"avg(r.score)::float AS rating",
		"c.id AS category_id", "c.name AS category_name", "c.slug AS category_slug",
	).
		From("titles t").
		LeftJoin("categories c ON c.id = t.category_id").
		LeftJoin("reviews r ON r.title_id = t.id").
		GroupBy("t.id", "c.id").
		PlaceholderFormat(sq.Dollar)
}

func (m *TitleModel) Get(ctx context.Context, id int64) (*models.Title, error) {
	query, args, err := titleSelect().Where(sq.Eq{"t.id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	rows, _ := m.DB.Query(ctx, query, args...)
	row, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[titleRow])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	title := row.toTitle()
	genresByTitle, err := m.genresFor(ctx, []int64{title.ID})
	if err != nil {
		return nil, err
	}
	if genres, ok := genresByTitle[title.ID]; ok {
		title.Genres = genres
	}
	return &title, nil
}

func (m *TitleModel) List(ctx context.Context, tf *filters.TitleFilters, f *filters.Filters) ([]models.Title, int, error) {
	builder := titleSelect().Column("count(*) OVER() AS count")
	if tf.Category != "" {
		builder = builder.Where(sq.ILike{"c.slug": "%" + tf.Category + "%"})
	}
	if tf.Genre != "" {
		builder = builder.
			Join("title_genres tg ON tg.title_id = t.id").
			Join("genres g ON g.id = tg.genre_id").
			Where(sq.ILike{"g.slug": "%" + tf.Genre + "%"})
	}
	if tf.Name != "" {
		builder = builder.Where(sq.ILike{"t.name": "%" + tf.Name + "%"})
	}
	if tf.Year != 0 {
		builder = builder.Where(sq.Eq{"t.year": tf.Year})
	}
	orderColumn := f.SortColumn()
	if orderColumn != "rating" {
		orderColumn = "t." + orderColumn
	}
	builder = builder.
		OrderBy(fmt.Sprintf("%s %s", orderColumn, f.SortDirection()), "t.id ASC").
		Limit(uint64(f.Limit())).
		Offset(uint64(f.Offset()))
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, err
	}
	rows, _ := m.DB.Query(ctx, query, args...)
	type row struct {
		Count int
		titleRow
	}
	outputRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[row])
	if err != nil {
		return nil, 0, err
	}
	if len(outputRows) == 0 {
		return []models.Title{}, 0, nil
	}
	ids := make([]int64, 0, len(outputRows))
	for _, r := range outputRows {
		ids = append(ids, r.ID)
	}
	genresByTitle, err := m.genresFor(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	titles := make([]models.Title, 0, len(outputRows))
	for _, r := range outputRows {
		title := r.toTitle()
		if genres, ok := genresByTitle[title.ID]; ok {
			title.Genres = genres
		}
		titles = append(titles, title)
	}
	return titles, outputRows[0].Count, nil
}

func (m *TitleModel) genresFor(ctx context.Context, titleIDs []int64) (map[int64][]models.Genre, error) {
	rows, _ := m.DB.Query(
		ctx,
		`SELECT tg.title_id, g.id, g.name, g.slug FROM title_genres tg
		JOIN genres g ON g.id = tg.genre_id
		WHERE tg.title_id = ANY($1)
		ORDER BY g.name ASC`,
		titleIDs,
	)
	type row struct {
		TitleID int64
		models.Genre
	}
	outputRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[row])
	if err != nil {
		return nil, err
	}
	genres := make(map[int64][]models.Genre)
	for _, r := range outputRows {
		genres[r.TitleID] = append(genres[r.TitleID], r.Genre)
	}
	return genres, nil
}

func (m *TitleModel) Insert(ctx context.Context, name string, year int32, description *string, categoryID *int64, genreIDs []int64) (*models.Title, error) {
	tx, err := m.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)
	var id int64
	err = tx.QueryRow(
		ctx,
		"INSERT INTO titles (name, year, description, category_id) VALUES ($1, $2, $3, $4) RETURNING id",
		name, year, description, categoryID,
	).Scan(&id)
	if err != nil {
		return nil, postgres.MapUniqueViolation(err)
	}
	if err := insertTitleGenres(ctx, tx, id, genreIDs); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return m.Get(ctx, id)
}

func (m *TitleModel) Update(ctx context.Context, id int64, name string, year int32, description *string, categoryID *int64, genreIDs []int64, replaceGenres bool) (*models.Title, error) {
	tx, err := m.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)
	status, err := tx.Exec(
		ctx,
		"UPDATE titles SET name = $1, year = $2, description = $3, category_id = $4 WHERE id = $5",
		name, year, description, categoryID, id,
	)
	if err != nil {
		return nil, postgres.MapUniqueViolation(err)
	}
	if status.RowsAffected() == 0 {
		return nil, storage.ErrNotFound
	}
	if replaceGenres {
		if _, err := tx.Exec(ctx, "DELETE FROM title_genres WHERE title_id = $1", id); err != nil {
			return nil, err
		}
		if err := insertTitleGenres(ctx, tx, id, genreIDs); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return m.Get(ctx, id)
}

func insertTitleGenres(ctx context.Context, tx pgx.Tx, titleID int64, genreIDs []int64) error {
	for _, genreID := range genreIDs {
		if _, err := tx.Exec(
			ctx,
			"INSERT INTO title_genres (title_id, genre_id) VALUES ($1, $2) ON CONFLICT DO NOTHING",
			titleID, genreID,
		); err != nil {
			return err
		}
	}
	return nil
}

// Delete cascades to the title's reviews and their comments at the schema
// level.
func (m *TitleModel) Delete(ctx context.Context, id int64) error {
	status, err := m.DB.Exec(ctx, "DELETE FROM titles WHERE id = $1", id)
	if err != nil {
		return err
	}
	if status.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}
