package services

import (
	"log/slog"

	"yamdb/proj/internal/config"
	"yamdb/proj/internal/mails"
	"yamdb/proj/internal/services/auth"
	"yamdb/proj/internal/services/catalog"
	"yamdb/proj/internal/services/reviews"
	"yamdb/proj/internal/services/users"
	"yamdb/proj/internal/storage/postgres/models"
)

type Services struct {
	Auth    *auth.AuthService
	Catalog *catalog.CatalogService
	Reviews *reviews.ReviewService
	Users   *users.UserService
}

func New(log *slog.Logger, cfg *config.Config, models *models.Models, taskExecutor auth.TaskExecutor) *Services {
	mailer := mails.New(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Timeout,
		cfg.SMTP.Username,
		cfg.SMTP.Password,
		cfg.SMTP.Sender,
		cfg.SMTP.RetriesCount,
	)
	return &Services{
		Auth:    auth.New(log, models.User, mailer, taskExecutor, cfg.Auth.Secret, cfg.Auth.TokenTTL),
		Catalog: catalog.New(log, models.Category, models.Genre, models.Title),
		Reviews: reviews.New(log, models.Title, models.Review, models.Comment),
		Users:   users.New(log, models.User),
	}
}
