package main

import (
	"errors"
	"net/http"

	"yamdb/proj/internal/domain/filters"
	"yamdb/proj/internal/services/catalog"
)

func (app *Application) getTitles(w http.ResponseWriter, r *http.Request) {
	query := struct {
		filters.TitleFilters
		filters.Filters
	}{}
	query.SortSafelist = []string{"id", "name", "year", "rating"}
	if !app.decodeQuery(w, r, &query) {
		return
	}
	if query.Sort == "" {
		query.Sort = "id"
	}
	if !query.ValidSort() {
		app.Http.UnprocessableEntity(w, r, map[string]string{"sort": "unsupported sort value"})
		return
	}
	titles, total, err := app.services.Catalog.ListTitles(r.Context(), &query.TitleFilters, &query.Filters)
	if err != nil {
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Ok(w, r, envelop{
		"titles":   titles,
		"metadata": filters.CalculateMetadata(total, &query.Filters),
	}, "")
}

func (app *Application) getTitle(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractIDParam(w, r, "id")
	if !ok {
		return
	}
	title, err := app.services.Catalog.GetTitle(r.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrTitleNotFound) {
			app.Http.NotFound(w, r, "Title not found")
			return
		}
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Ok(w, r, envelop{"title": title}, "")
}

// handleUnknownSlug maps a reference to a missing category or genre onto a
// field-level validation error.
func (app *Application) handleUnknownSlug(w http.ResponseWriter, r *http.Request, err error) bool {
	var unknownSlug *catalog.UnknownSlugError
	if errors.As(err, &unknownSlug) {
		app.Http.UnprocessableEntity(w, r, map[string]string{
			unknownSlug.Field: "Unknown slug: " + unknownSlug.Slug,
		})
		return true
	}
	return false
}

func (app *Application) createTitle(w http.ResponseWriter, r *http.Request) {
	input := struct {
		Name        string   `json:"name" validate:"required,max=256"`
		Year        int32    `json:"year" validate:"required,titleyear"`
		Description *string  `json:"description"`
		Category    *string  `json:"category"`
		Genre       []string `json:"genre" validate:"omitempty,dive,required"`
	}{}
	if !app.readValidatedJSON(w, r, &input) {
		return
	}
	title, err := app.services.Catalog.CreateTitle(r.Context(), catalog.TitleParams{
		Name:        input.Name,
		Year:        input.Year,
		Description: input.Description,
		Category:    input.Category,
		Genres:      input.Genre,
	})
	if err != nil {
		if app.handleUnknownSlug(w, r, err) {
			return
		}
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Created(w, r, envelop{"title": title}, "")
}

func (app *Application) updateTitle(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractIDParam(w, r, "id")
	if !ok {
		return
	}
	input := struct {
		Name        *string  `json:"name" validate:"omitempty,max=256"`
		Year        *int32   `json:"year" validate:"omitempty,titleyear"`
		Description *string  `json:"description"`
		Category    *string  `json:"category"`
		Genre       []string `json:"genre" validate:"omitempty,dive,required"`
	}{}
	if !app.readValidatedJSON(w, r, &input) {
		return
	}
	title, err := app.services.Catalog.UpdateTitle(r.Context(), id, input.Name, input.Year, input.Description, input.Category, input.Genre)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrTitleNotFound):
			app.Http.NotFound(w, r, "Title not found")
		case app.handleUnknownSlug(w, r, err):
		default:
			app.Http.ServerError(w, r, err, "")
		}
		return
	}
	app.Http.Ok(w, r, envelop{"title": title}, "")
}

func (app *Application) deleteTitle(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractIDParam(w, r, "id")
	if !ok {
		return
	}
	if err := app.services.Catalog.DeleteTitle(r.Context(), id); err != nil {
		if errors.Is(err, catalog.ErrTitleNotFound) {
			app.Http.NotFound(w, r, "Title not found")
			return
		}
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.NoContent(w, r, "")
}
