package main

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"yamdb/proj/internal/domain/filters"
	"yamdb/proj/internal/services/catalog"
)

func (app *Application) getCategories(w http.ResponseWriter, r *http.Request) {
	query := struct {
		Search string `schema:"search"`
		filters.Filters
	}{}
	if !app.decodeQuery(w, r, &query) {
		return
	}
	categories, total, err := app.services.Catalog.ListCategories(r.Context(), query.Search, &query.Filters)
	if err != nil {
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Ok(w, r, envelop{
		"categories": categories,
		"metadata":   filters.CalculateMetadata(total, &query.Filters),
	}, "")
}

func (app *Application) createCategory(w http.ResponseWriter, r *http.Request) {
	input := struct {
		Name string `json:"name" validate:"required,max=256"`
		Slug string `json:"slug" validate:"omitempty,slug,max=50"`
	}{}
	if !app.readValidatedJSON(w, r, &input) {
		return
	}
	category, err := app.services.Catalog.CreateCategory(r.Context(), input.Name, input.Slug)
	if err != nil {
		if errors.Is(err, catalog.ErrCategoryAlreadyExists) {
			app.Http.Conflict(w, r, "Category with this slug already exists")
			return
		}
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Created(w, r, envelop{"category": category}, "")
}

func (app *Application) deleteCategory(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if err := app.services.Catalog.DeleteCategory(r.Context(), slug); err != nil {
		if errors.Is(err, catalog.ErrCategoryNotFound) {
			app.Http.NotFound(w, r, "Category not found")
			return
		}
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.NoContent(w, r, "")
}
