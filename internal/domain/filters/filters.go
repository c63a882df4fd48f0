package filters

import (
	"errors"
	"strings"
)

const (
	AscSort  = "ASC"
	DescSort = "DESC"
)

// Filters carries pagination and ordering shared by every list endpoint.
// Sort accepts a column name with an optional leading '-' for descending
// order; anything outside SortSafelist is rejected before reaching SQL.
type Filters struct {
	Page         int      `schema:"page" validate:"omitempty,gt=0"`
	PageSize     int      `schema:"page_size" validate:"omitempty,gt=0,lte=100"`
	Sort         string   `schema:"sort"`
	SortSafelist []string `schema:"-" validate:"-"`
}

func (f *Filters) ValidSort() bool {
	if f.Sort == "" {
		return true
	}
	s := strings.TrimPrefix(f.Sort, "-")
	for _, safeValue := range f.SortSafelist {
		if strings.EqualFold(s, safeValue) {
			return true
		}
	}
	return false
}

func (f *Filters) SortColumn() string {
	s := strings.TrimPrefix(f.Sort, "-")
	for _, safeValue := range f.SortSafelist {
		if strings.EqualFold(s, safeValue) {
			return s
		}
	}
	panic(errors.New("Unknown sort column: " + f.Sort))
}

func (f *Filters) SortDirection() string {
	if strings.HasPrefix(f.Sort, "-") {
		return DescSort
	}
	return AscSort
}

func (f *Filters) Limit() int {
	if f.PageSize == 0 {
		return 20
	}
	return f.PageSize
}

func (f *Filters) Offset() int {
	if f.Page == 0 {
		return 0
	}
	return (f.Page - 1) * f.Limit()
}

// Metadata describes a page of results in list responses.
type Metadata struct {
	CurrentPage  int `json:"current_page"`
	PageSize     int `json:"page_size"`
	TotalRecords int `json:"total_records"`
}

func CalculateMetadata(totalRecords int, f *Filters) Metadata {
	if totalRecords == 0 {
		return Metadata{}
	}
	page := f.Page
	if page == 0 {
		page = 1
	}
	return Metadata{
		CurrentPage:  page,
		PageSize:     f.Limit(),
		TotalRecords: totalRecords,
	}
}

// TitleFilters is the explicit query shape for /titles: category and genre
// are matched by slug, name by substring, year exactly.
type TitleFilters struct {
	Category string `schema:"category"`
	Genre    string `schema:"genre"`
	Name     string `schema:"name"`
	Year     int32  `schema:"year" validate:"omitempty,gt=0"`
}
