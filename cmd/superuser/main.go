package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"yamdb/proj/internal/config"
	"yamdb/proj/internal/lib/logger"
	"yamdb/proj/internal/services/auth"
	"yamdb/proj/internal/services/users"
	"yamdb/proj/internal/storage/postgres"
	"yamdb/proj/internal/storage/postgres/models"
)

// Creates an admin account directly in the database, bypassing the signup
// flow. The printed confirmation code is exchanged for a token through the
// regular /auth/token endpoint.
func main() {
	cfgPath := flag.String("config", "config/local.yml", "path to config file")
	email := flag.String("email", "", "superuser email")
	username := flag.String("username", "", "superuser username (derived from email when empty)")
	flag.Parse()
	if *email == "" {
		fmt.Fprintln(os.Stderr, "the -email flag is required")
		os.Exit(1)
	}
	if *username == "" {
		*username = auth.DeriveUsername(*email)
	}

	cfg := config.MustLoad(*cfgPath)
	log := logger.SetupLogger(cfg.Debug)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	storage, err := postgres.New(ctx, cfg.DB.Dsn, cfg.DB.MaxConns, cfg.DB.MaxConnIdleTime)
	if err != nil {
		panic(err)
	}
	defer storage.Conn.Close()

	svc := users.New(log, models.New(storage).User)
	user, err := svc.CreateSuperuser(ctx, *email, *username)
	if err != nil {
		log.Error("failed to create superuser", "error", err.Error())
		os.Exit(1)
	}
	fmt.Printf("superuser %q created\nconfirmation code: %s\n", user.Username, user.ConfirmationCode)
}
