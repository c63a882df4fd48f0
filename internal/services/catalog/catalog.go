package catalog

import (
	"context"
	"errors"
	"log/slog"

	goslug "github.com/gosimple/slug"

	"yamdb/proj/internal/domain/filters"
	"yamdb/proj/internal/domain/models"
	"yamdb/proj/internal/storage"
)

const maxSlugLength = 50

type CategoryStorage interface {
	Insert(ctx context.Context, name, slug string) (*models.Category, error)
	GetBySlug(ctx context.Context, slug string) (*models.Category, error)
	List(ctx context.Context, search string, filters *filters.Filters) ([]models.Category, int, error)
	Delete(ctx context.Context, slug string) error
}

type GenreStorage interface {
	Insert(ctx context.Context, name, slug string) (*models.Genre, error)
	GetBySlugs(ctx context.Context, slugs []string) ([]models.Genre, error)
	List(ctx context.Context, search string, filters *filters.Filters) ([]models.Genre, int, error)
	Delete(ctx context.Context, slug string) error
}

type TitleStorage interface {
	Get(ctx context.Context, id int64) (*models.Title, error)
	List(ctx context.Context, tf *filters.TitleFilters, f *filters.Filters) ([]models.Title, int, error)
	Insert(ctx context.Context, name string, year int32, description *string, categoryID *int64, genreIDs []int64) (*models.Title, error)
	Update(ctx context.Context, id int64, name string, year int32, description *string, categoryID *int64, genreIDs []int64, replaceGenres bool) (*models.Title, error)
	Delete(ctx context.Context, id int64) error
}

type CatalogService struct {
	log        *slog.Logger
	categories CategoryStorage
	genres     GenreStorage
	titles     TitleStorage
}

func New(log *slog.Logger, categories CategoryStorage, genres GenreStorage, titles TitleStorage) *CatalogService {
	return &CatalogService{
		log:        log,
		categories: categories,
		genres:     genres,
		titles:     titles,
	}
}

// DeriveSlug transliterates a display name into a URL-safe slug capped at 50
// characters. An explicitly provided slug is preserved verbatim elsewhere.
func DeriveSlug(name string) string {
	s := goslug.Make(name)
	if len(s) > maxSlugLength {
		s = s[:maxSlugLength]
	}
	return s
}

func (s *CatalogService) CreateCategory(ctx context.Context, name, slug string) (*models.Category, error) {
	const op = "catalog.CatalogService.CreateCategory"
	log := s.log.With("op", op, "name", name)
	if slug == "" {
		slug = DeriveSlug(name)
	}
	category, err := s.categories.Insert(ctx, name, slug)
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			log.Info("slug already taken", "slug", slug)
			return nil, ErrCategoryAlreadyExists
		}
		log.Error(err.Error())
		return nil, err
	}
	return category, nil
}

func (s *CatalogService) ListCategories(ctx context.Context, search string, f *filters.Filters) ([]models.Category, int, error) {
	const op = "catalog.CatalogService.ListCategories"
	categories, total, err := s.categories.List(ctx, search, f)
	if err != nil {
		s.log.With("op", op).Error(err.Error())
		return nil, 0, err
	}
	return categories, total, nil
}

func (s *CatalogService) DeleteCategory(ctx context.Context, slug string) error {
	const op = "catalog.CatalogService.DeleteCategory"
	log := s.log.With("op", op, "slug", slug)
	if err := s.categories.Delete(ctx, slug); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("category not found")
			return ErrCategoryNotFound
		}
		log.Error(err.Error())
		return err
	}
	return nil
}

func (s *CatalogService) CreateGenre(ctx context.Context, name, slug string) (*models.Genre, error) {
	const op = "catalog.CatalogService.CreateGenre"
	log := s.log.With("op", op, "name", name)
	if slug == "" {
		slug = DeriveSlug(name)
	}
	genre, err := s.genres.Insert(ctx, name, slug)
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			log.Info("slug already taken", "slug", slug)
			return nil, ErrGenreAlreadyExists
		}
		log.Error(err.Error())
		return nil, err
	}
	return genre, nil
}

func (s *CatalogService) ListGenres(ctx context.Context, search string, f *filters.Filters) ([]models.Genre, int, error) {
	const op = "catalog.CatalogService.ListGenres"
	genres, total, err := s.genres.List(ctx, search, f)
	if err != nil {
		s.log.With("op", op).Error(err.Error())
		return nil, 0, err
	}
	return genres, total, nil
}

func (s *CatalogService) DeleteGenre(ctx context.Context, slug string) error {
	const op = "catalog.CatalogService.DeleteGenre"
	log := s.log.With("op", op, "slug", slug)
	if err := s.genres.Delete(ctx, slug); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("genre not found")
			return ErrGenreNotFound
		}
		log.Error(err.Error())
		return err
	}
	return nil
}

type TitleParams struct {
	Name        string
	Year        int32
	Description *string
	// Category is the category slug; nil leaves the title uncategorized.
	Category *string
	// Genres are genre slugs; nil on update means "keep as is".
	Genres []string
}

func (s *CatalogService) GetTitle(ctx context.Context, id int64) (*models.Title, error) {
	const op = "catalog.CatalogService.GetTitle"
	log := s.log.With("op", op, "id", id)
	title, err := s.titles.Get(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("title not found")
			return nil, ErrTitleNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	return title, nil
}

func (s *CatalogService) ListTitles(ctx context.Context, tf *filters.TitleFilters, f *filters.Filters) ([]models.Title, int, error) {
	const op = "catalog.CatalogService.ListTitles"
	titles, total, err := s.titles.List(ctx, tf, f)
	if err != nil {
		s.log.With("op", op).Error(err.Error())
		return nil, 0, err
	}
	return titles, total, nil
}

func (s *CatalogService) CreateTitle(ctx context.Context, params TitleParams) (*models.Title, error) {
	const op = "catalog.CatalogService.CreateTitle"
	log := s.log.With("op", op, "name", params.Name)
	categoryID, err := s.resolveCategory(ctx, params.Category)
	if err != nil {
		return nil, err
	}
	genreIDs, err := s.resolveGenres(ctx, params.Genres)
	if err != nil {
		return nil, err
	}
	title, err := s.titles.Insert(ctx, params.Name, params.Year, params.Description, categoryID, genreIDs)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}
	return title, nil
}

func (s *CatalogService) UpdateTitle(ctx context.Context, id int64, name *string, year *int32, description *string, category *string, genres []string) (*models.Title, error) {
	const op = "catalog.CatalogService.UpdateTitle"
	log := s.log.With("op", op, "id", id)
	title, err := s.GetTitle(ctx, id)
	if err != nil {
		return nil, err
	}
	if name != nil {
		title.Name = *name
	}
	if year != nil {
		title.Year = *year
	}
	if description != nil {
		title.Description = description
	}
	var categoryID *int64
	if category != nil {
		categoryID, err = s.resolveCategory(ctx, category)
		if err != nil {
			return nil, err
		}
	} else if title.Category != nil {
		categoryID = &title.Category.ID
	}
	var genreIDs []int64
	if genres != nil {
		genreIDs, err = s.resolveGenres(ctx, genres)
		if err != nil {
			return nil, err
		}
	}
	updated, err := s.titles.Update(ctx, id, title.Name, title.Year, title.Description, categoryID, genreIDs, genres != nil)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrTitleNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	return updated, nil
}

func (s *CatalogService) DeleteTitle(ctx context.Context, id int64) error {
	const op = "catalog.CatalogService.DeleteTitle"
	log := s.log.With("op", op, "id", id)
	if err := s.titles.Delete(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("title not found")
			return ErrTitleNotFound
		}
		log.Error(err.Error())
		return err
	}
	return nil
}

func (s *CatalogService) resolveCategory(ctx context.Context, slug *string) (*int64, error) {
	if slug == nil {
		return nil, nil
	}
	category, err := s.categories.GetBySlug(ctx, *slug)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, &UnknownSlugError{Field: "category", Slug: *slug}
		}
		return nil, err
	}
	return &category.ID, nil
}

func (s *CatalogService) resolveGenres(ctx context.Context, slugs []string) ([]int64, error) {
	if len(slugs) == 0 {
		return nil, nil
	}
	genres, err := s.genres.GetBySlugs(ctx, slugs)
	if err != nil {
		return nil, err
	}
	bySlug := make(map[string]models.Genre, len(genres))
	for _, g := range genres {
		bySlug[g.Slug] = g
	}
	ids := make([]int64, 0, len(slugs))
	for _, slug := range slugs {
		genre, ok := bySlug[slug]
		if !ok {
			return nil, &UnknownSlugError{Field: "genre", Slug: slug}
		}
		ids = append(ids, genre.ID)
	}
	return ids, nil
}
