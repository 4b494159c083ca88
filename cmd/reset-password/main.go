// Command reset-password sets a new password for an existing account and
// signs it out of every device.
package main

import (
	"context"
	"flag"
	"os"

	"lubricentro-ws/internal/config"
	"lubricentro-ws/internal/repository"
	"lubricentro-ws/pkg/database"
	"lubricentro-ws/pkg/logger"

	"github.com/google/uuid"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New(logger.Config{Env: "production"})
		bootLog.Fatal().Err(err).Msg("invalid configuration")
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	email := flag.String("email", cfg.Admin.Email, "account to reset")
	password := flag.String("password", os.Getenv("NEW_PASSWORD"), "new password (or NEW_PASSWORD)")
	flag.Parse()

	if len(*password) < 6 {
		log.Fatal().Msg("new password must be at least 6 characters")
	}

	db, err := database.ConnectDB(cfg.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}

	ctx := context.Background()
	users := repository.NewUserRepo(db)
	user, err := users.FindByEmail(ctx, *email)
	if err != nil {
		log.Fatal().Err(err).Str("email", *email).Msg("user not found")
	}
	if err := user.SetPassword(*password); err != nil {
		log.Fatal().Err(err).Msg("hash password")
	}
	user.TokenVersion = uuid.NewString()
	if err := users.Update(ctx, user); err != nil {
		log.Fatal().Err(err).Msg("update password")
	}

	log.Info().Str("email", user.Email).Msg("password reset, existing sessions revoked")
}
