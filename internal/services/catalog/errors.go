package catalog

import (
	"errors"
	"fmt"
)

var (
	ErrTitleNotFound         = errors.New("title not found")
	ErrCategoryNotFound      = errors.New("category not found")
	ErrGenreNotFound         = errors.New("genre not found")
	ErrCategoryAlreadyExists = errors.New("category with that slug already exists")
	ErrGenreAlreadyExists    = errors.New("genre with that slug already exists")
)

// UnknownSlugError reports a category/genre slug supplied in a title write
// that does not resolve to an existing entity.
type UnknownSlugError struct {
	Field string
	Slug  string
}

func (e *UnknownSlugError) Error() string {
	return fmt.Sprintf("unknown %s slug: %s", e.Field, e.Slug)
}
