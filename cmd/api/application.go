package main

import (
	"log/slog"

	govalidator "github.com/go-playground/validator/v10"

	"yamdb/proj/internal/api/tasks"
	"yamdb/proj/internal/config"
	"yamdb/proj/internal/lib/validator"
	"yamdb/proj/internal/services"
	"yamdb/proj/internal/storage/postgres/models"
)

type Application struct {
	cfg       *config.Config
	log       *slog.Logger
	Http      *Http
	services  *services.Services
	validator *govalidator.Validate
	tasks     *tasks.BackgroundTasks
}

func NewApplication(cfg *config.Config, log *slog.Logger, models *models.Models) *Application {
	bgTasks := tasks.New(log, cfg.Tasks.MaxWorkers, cfg.Tasks.MaxQueueSize)
	v := govalidator.New(govalidator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("titleyear", validator.ValidateTitleYear); err != nil {
		panic(err)
	}
	if err := v.RegisterValidation("slug", validator.ValidateSlug); err != nil {
		panic(err)
	}
	return &Application{
		cfg:       cfg,
		log:       log,
		validator: v,
		services:  services.New(log, cfg, models, bgTasks),
		tasks:     bgTasks,
		Http: &Http{
			log: log,
			cfg: cfg,
		},
	}
}
