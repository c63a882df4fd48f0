package main

import (
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	govalidator "github.com/go-playground/validator/v10"

	"yamdb/proj/internal/config"
	"yamdb/proj/internal/lib/validator"
)

func newTestRouter(handler http.HandlerFunc) http.Handler {
	router := chi.NewRouter()
	router.Get("/{id}", handler)
	return router
}

func newTestApplication(t *testing.T) *Application {
	t.Helper()
	cfg := &config.Config{}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	v := govalidator.New(govalidator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("titleyear", validator.ValidateTitleYear); err != nil {
		t.Fatal(err)
	}
	if err := v.RegisterValidation("slug", validator.ValidateSlug); err != nil {
		t.Fatal(err)
	}
	return &Application{
		cfg:       cfg,
		log:       log,
		validator: v,
		Http: &Http{
			log: log,
			cfg: cfg,
		},
	}
}
