package main

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"yamdb/proj/internal/domain/filters"
	"yamdb/proj/internal/domain/models"
	"yamdb/proj/internal/services/users"
)

type userInput struct {
	Username  *string `json:"username" validate:"omitempty,min=1,max=150"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Role      *string `json:"role" validate:"omitempty,oneof=user moderator admin"`
	FirstName *string `json:"first_name" validate:"omitempty,max=150"`
	LastName  *string `json:"last_name" validate:"omitempty,max=150"`
	Bio       *string `json:"bio"`
}

func (in *userInput) toParams() users.UserParams {
	params := users.UserParams{
		Username:  in.Username,
		Email:     in.Email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Bio:       in.Bio,
	}
	if in.Role != nil {
		role := models.Role(*in.Role)
		params.Role = &role
	}
	return params
}

func (app *Application) handleUserError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, users.ErrUserNotFound):
		app.Http.NotFound(w, r, "User not found")
	case errors.Is(err, users.ErrEmailTaken):
		app.Http.Conflict(w, r, "User with this email already exists")
	case errors.Is(err, users.ErrUsernameTaken):
		app.Http.Conflict(w, r, "User with this username already exists")
	default:
		app.Http.ServerError(w, r, err, "")
	}
}

func (app *Application) getUsers(w http.ResponseWriter, r *http.Request) {
	query := struct {
		Search string `schema:"search"`
		filters.Filters
	}{}
	if !app.decodeQuery(w, r, &query) {
		return
	}
	userList, total, err := app.services.Users.List(r.Context(), query.Search, &query.Filters)
	if err != nil {
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Ok(w, r, envelop{
		"users":    userList,
		"metadata": filters.CalculateMetadata(total, &query.Filters),
	}, "")
}

func (app *Application) createUser(w http.ResponseWriter, r *http.Request) {
	input := struct {
		Username  string  `json:"username" validate:"required,min=1,max=150"`
		Email     string  `json:"email" validate:"required,email"`
		Role      *string `json:"role" validate:"omitempty,oneof=user moderator admin"`
		FirstName *string `json:"first_name" validate:"omitempty,max=150"`
		LastName  *string `json:"last_name" validate:"omitempty,max=150"`
		Bio       *string `json:"bio"`
	}{}
	if !app.readValidatedJSON(w, r, &input) {
		return
	}
	params := users.UserParams{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Bio:       input.Bio,
	}
	if input.Role != nil {
		role := models.Role(*input.Role)
		params.Role = &role
	}
	user, err := app.services.Users.Create(r.Context(), input.Username, input.Email, params)
	if err != nil {
		app.handleUserError(w, r, err)
		return
	}
	app.Http.Created(w, r, envelop{"user": user}, "")
}

func (app *Application) getUser(w http.ResponseWriter, r *http.Request) {
	user, err := app.services.Users.Get(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		app.handleUserError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"user": user}, "")
}

func (app *Application) updateUser(w http.ResponseWriter, r *http.Request) {
	var input userInput
	if !app.readValidatedJSON(w, r, &input) {
		return
	}
	user, err := app.services.Users.Update(r.Context(), chi.URLParam(r, "username"), input.toParams())
	if err != nil {
		app.handleUserError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"user": user}, "")
}

func (app *Application) deleteUser(w http.ResponseWriter, r *http.Request) {
	if err := app.services.Users.Delete(r.Context(), chi.URLParam(r, "username")); err != nil {
		app.handleUserError(w, r, err)
		return
	}
	app.Http.NoContent(w, r, "")
}

func (app *Application) getCurrentUser(w http.ResponseWriter, r *http.Request) {
	app.Http.Ok(w, r, envelop{"user": app.currentUser(r)}, "")
}

// updateCurrentUser lets users edit their own profile. Role changes through
// this endpoint are ignored for everyone except admins.
func (app *Application) updateCurrentUser(w http.ResponseWriter, r *http.Request) {
	var input userInput
	if !app.readValidatedJSON(w, r, &input) {
		return
	}
	user, err := app.services.Users.UpdateSelf(r.Context(), app.currentUser(r), input.toParams())
	if err != nil {
		app.handleUserError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"user": user}, "")
}
