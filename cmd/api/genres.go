package main

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"yamdb/proj/internal/domain/filters"
	"yamdb/proj/internal/services/catalog"
)

func (app *Application) getGenres(w http.ResponseWriter, r *http.Request) {
	query := struct {
		Search string `schema:"search"`
		filters.Filters
	}{}
	if !app.decodeQuery(w, r, &query) {
		return
	}
	genres, total, err := app.services.Catalog.ListGenres(r.Context(), query.Search, &query.Filters)
	if err != nil {
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Ok(w, r, envelop{
		"genres":   genres,
		"metadata": filters.CalculateMetadata(total, &query.Filters),
	}, "")
}

func (app *Application) createGenre(w http.ResponseWriter, r *http.Request) {
	input := struct {
		Name string `json:"name" validate:"required,max=256"`
		Slug string `json:"slug" validate:"omitempty,slug,max=50"`
	}{}
	if !app.readValidatedJSON(w, r, &input) {
		return
	}
	genre, err := app.services.Catalog.CreateGenre(r.Context(), input.Name, input.Slug)
	if err != nil {
		if errors.Is(err, catalog.ErrGenreAlreadyExists) {
			app.Http.Conflict(w, r, "Genre with this slug already exists")
			return
		}
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Created(w, r, envelop{"genre": genre}, "")
}

func (app *Application) deleteGenre(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if err := app.services.Catalog.DeleteGenre(r.Context(), slug); err != nil {
		if errors.Is(err, catalog.ErrGenreNotFound) {
			app.Http.NotFound(w, r, "Genre not found")
			return
		}
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.NoContent(w, r, "")
}
