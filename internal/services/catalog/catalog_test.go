package catalog

import (
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yamdb/proj/internal/domain/filters"
	"yamdb/proj/internal/domain/models"
	"yamdb/proj/internal/storage"
)

type fakeCategories struct {
	items  map[string]*models.Category
	nextID int64
}

func (f *fakeCategories) Insert(_ context.Context, name, slug string) (*models.Category, error) {
	if _, ok := f.items[slug]; ok {
		return nil, &storage.ConflictError{Constraint: "unique_category_slug"}
	}
	f.nextID++
	c := &models.Category{ID: f.nextID, Name: name, Slug: slug}
	f.items[slug] = c
	return c, nil
}

func (f *fakeCategories) GetBySlug(_ context.Context, slug string) (*models.Category, error) {
	c, ok := f.items[slug]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return c, nil
}

func (f *fakeCategories) List(_ context.Context, search string, _ *filters.Filters) ([]models.Category, int, error) {
	out := []models.Category{}
	for _, c := range f.items {
		if search == "" || strings.Contains(strings.ToLower(c.Name), strings.ToLower(search)) {
			out = append(out, *c)
		}
	}
	return out, len(out), nil
}

func (f *fakeCategories) Delete(_ context.Context, slug string) error {
	if _, ok := f.items[slug]; !ok {
		return storage.ErrNotFound
	}
	delete(f.items, slug)
	return nil
}

type fakeGenres struct {
	items  map[string]*models.Genre
	nextID int64
}

func (f *fakeGenres) Insert(_ context.Context, name, slug string) (*models.Genre, error) {
	if _, ok := f.items[slug]; ok {
		return nil, &storage.ConflictError{Constraint: "unique_genre_slug"}
	}
	f.nextID++
	g := &models.Genre{ID: f.nextID, Name: name, Slug: slug}
	f.items[slug] = g
	return g, nil
}

func (f *fakeGenres) GetBySlugs(_ context.Context, slugs []string) ([]models.Genre, error) {
	out := []models.Genre{}
	for _, slug := range slugs {
		if g, ok := f.items[slug]; ok {
			out = append(out, *g)
		}
	}
	return out, nil
}

func (f *fakeGenres) List(_ context.Context, _ string, _ *filters.Filters) ([]models.Genre, int, error) {
	out := []models.Genre{}
	for _, g := range f.items {
		out = append(out, *g)
	}
	return out, len(out), nil
}

func (f *fakeGenres) Delete(_ context.Context, slug string) error {
	if _, ok := f.items[slug]; !ok {
		return storage.ErrNotFound
	}
	delete(f.items, slug)
	return nil
}

type fakeTitles struct {
	items  map[int64]*models.Title
	genres map[int64][]int64
	nextID int64
}

func (f *fakeTitles) Get(_ context.Context, id int64) (*models.Title, error) {
	t, ok := f.items[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	copied := *t
	return &copied, nil
}

func (f *fakeTitles) List(_ context.Context, _ *filters.TitleFilters, _ *filters.Filters) ([]models.Title, int, error) {
	out := []models.Title{}
	for _, t := range f.items {
		out = append(out, *t)
	}
	return out, len(out), nil
}

func (f *fakeTitles) Insert(_ context.Context, name string, year int32, description *string, categoryID *int64, genreIDs []int64) (*models.Title, error) {
	f.nextID++
	t := &models.Title{ID: f.nextID, Name: name, Year: year, Description: description, Genres: []models.Genre{}}
	if categoryID != nil {
		t.Category = &models.Category{ID: *categoryID}
	}
	f.items[t.ID] = t
	f.genres[t.ID] = genreIDs
	return t, nil
}

func (f *fakeTitles) Update(_ context.Context, id int64, name string, year int32, description *string, categoryID *int64, genreIDs []int64, replaceGenres bool) (*models.Title, error) {
	t, ok := f.items[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	t.Name = name
	t.Year = year
	t.Description = description
	t.Category = nil
	if categoryID != nil {
		t.Category = &models.Category{ID: *categoryID}
	}
	if replaceGenres {
		f.genres[id] = genreIDs
	}
	copied := *t
	return &copied, nil
}

func (f *fakeTitles) Delete(_ context.Context, id int64) error {
	if _, ok := f.items[id]; !ok {
		return storage.ErrNotFound
	}
	delete(f.items, id)
	return nil
}

func newTestService() (*CatalogService, *fakeCategories, *fakeGenres, *fakeTitles) {
	categories := &fakeCategories{items: map[string]*models.Category{}}
	genres := &fakeGenres{items: map[string]*models.Genre{}}
	titles := &fakeTitles{items: map[int64]*models.Title{}, genres: map[int64][]int64{}}
	return New(slog.Default(), categories, genres, titles), categories, genres, titles
}

func TestDeriveSlug(t *testing.T) {
	assert.Equal(t, "science-fiction", DeriveSlug("Science Fiction"))
	// transliterated, not dropped
	assert.Equal(t, "priklyucheniya", DeriveSlug("Приключения"))
	long := DeriveSlug(strings.Repeat("abcde ", 20))
	assert.LessOrEqual(t, len(long), 50)
}

func TestCreateCategorySlugRoundTrip(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()

	derived, err := svc.CreateCategory(ctx, "Feature Films", "")
	require.NoError(t, err)
	assert.Equal(t, "feature-films", derived.Slug)

	explicit, err := svc.CreateCategory(ctx, "Series", "tv")
	require.NoError(t, err)
	assert.Equal(t, "tv", explicit.Slug)

	_, err = svc.CreateCategory(ctx, "Other Films", "feature-films")
	assert.ErrorIs(t, err, ErrCategoryAlreadyExists)
}

func TestCreateTitleResolvesSlugs(t *testing.T) {
	svc, _, _, titles := newTestService()
	ctx := context.Background()
	_, err := svc.CreateCategory(ctx, "Movies", "")
	require.NoError(t, err)
	_, err = svc.CreateGenre(ctx, "Drama", "")
	require.NoError(t, err)

	category := "movies"
	title, err := svc.CreateTitle(ctx, TitleParams{
		Name:     "Solaris",
		Year:     1972,
		Category: &category,
		Genres:   []string{"drama"},
	})
	require.NoError(t, err)
	require.NotNil(t, title.Category)
	assert.Equal(t, []int64{1}, titles.genres[title.ID])

	unknown := "nope"
	_, err = svc.CreateTitle(ctx, TitleParams{Name: "X", Year: 2000, Category: &unknown})
	var slugErr *UnknownSlugError
	require.ErrorAs(t, err, &slugErr)
	assert.Equal(t, "category", slugErr.Field)
	assert.Equal(t, "nope", slugErr.Slug)

	_, err = svc.CreateTitle(ctx, TitleParams{Name: "X", Year: 2000, Genres: []string{"drama", "missing"}})
	require.ErrorAs(t, err, &slugErr)
	assert.Equal(t, "genre", slugErr.Field)
	assert.Equal(t, "missing", slugErr.Slug)
}

func TestUpdateTitlePartial(t *testing.T) {
	svc, _, _, titles := newTestService()
	ctx := context.Background()
	_, err := svc.CreateGenre(ctx, "Drama", "")
	require.NoError(t, err)
	created, err := svc.CreateTitle(ctx, TitleParams{Name: "Solaris", Year: 1972, Genres: []string{"drama"}})
	require.NoError(t, err)

	newName := "Solaris (restored)"
	updated, err := svc.UpdateTitle(ctx, created.ID, &newName, nil, nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, newName, updated.Name)
	assert.Equal(t, int32(1972), updated.Year)
	// genres untouched when not provided
	assert.Equal(t, []int64{1}, titles.genres[created.ID])

	_, err = svc.UpdateTitle(ctx, 999, &newName, nil, nil, nil, nil)
	assert.ErrorIs(t, err, ErrTitleNotFound)
}

func TestDeleteCategoryNotFound(t *testing.T) {
	svc, _, _, _ := newTestService()
	assert.ErrorIs(t, svc.DeleteCategory(context.Background(), "missing"), ErrCategoryNotFound)
}
