package main

import (
	"errors"
	"net/http"

	"yamdb/proj/internal/services/auth"
)

// signup registers an email and sends its confirmation code. The code never
// appears in the response body.
func (app *Application) signup(w http.ResponseWriter, r *http.Request) {
	input := struct {
		Email string `json:"email" validate:"required,email"`
	}{}
	if !app.readValidatedJSON(w, r, &input) {
		return
	}
	user, err := app.services.Auth.RequestConfirmation(r.Context(), input.Email)
	if err != nil {
		if errors.Is(err, auth.ErrEmailAlreadyExists) {
			app.Http.Conflict(w, r, "User with this email already exists")
			return
		}
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Ok(w, r, envelop{"email": user.Email, "username": user.Username}, "Confirmation code sent")
}

func (app *Application) getToken(w http.ResponseWriter, r *http.Request) {
	input := struct {
		Email            string `json:"email" validate:"required,email"`
		ConfirmationCode string `json:"confirmation_code" validate:"required"`
	}{}
	if !app.readValidatedJSON(w, r, &input) {
		return
	}
	token, err := app.services.Auth.ExchangeCodeForToken(r.Context(), input.Email, input.ConfirmationCode)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUserNotFound):
			app.Http.NotFound(w, r, "User with this email does not exist")
		case errors.Is(err, auth.ErrInvalidConfirmationCode):
			app.Http.UnprocessableEntity(w, r, map[string]string{"confirmation_code": "Invalid confirmation code"})
		default:
			app.Http.ServerError(w, r, err, "")
		}
		return
	}
	app.Http.Ok(w, r, envelop{"token": token}, "")
}
