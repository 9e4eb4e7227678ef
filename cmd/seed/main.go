// Command seed provisions the initial ADMIN account from SEED_ADMIN_USER /
// SEED_ADMIN_PASS. It is idempotent: an existing username leaves the
// database untouched.
package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/veriflow/field-verification-api/internal/config"
	"github.com/veriflow/field-verification-api/internal/database"
	"github.com/veriflow/field-verification-api/internal/model"
	"github.com/veriflow/field-verification-api/internal/repository"
	"github.com/veriflow/field-verification-api/internal/utils"
	applog "github.com/veriflow/field-verification-api/pkg/log"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := applog.New(cfg.Env)

	username := os.Getenv("SEED_ADMIN_USER")
	password := os.Getenv("SEED_ADMIN_PASS")
	if username == "" || password == "" {
		logger.Fatal().Msg("SEED_ADMIN_USER and SEED_ADMIN_PASS are required")
	}

	db, err := database.Open(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("database connect failed")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	users := repository.NewUserRepo(db)
	if _, err := users.GetByUsername(ctx, username); err == nil {
		logger.Info().Str("username", username).Msg("admin already present")
		return
	}

	hash, err := utils.HashPassword(password, cfg.BcryptCost)
	if err != nil {
		logger.Fatal().Err(err).Msg("hash password")
	}
	id, err := users.Create(ctx, &model.User{
		Username:     username,
		FullName:     "Administrator",
		Email:        os.Getenv("SEED_ADMIN_EMAIL"),
		PasswordHash: hash,
		Role:         model.RoleAdmin,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			logger.Info().Str("username", username).Msg("admin already present")
			return
		}
		logger.Fatal().Err(err).Msg("create admin")
	}
	logger.Info().Uint64("id", id).Str("username", username).Msg("admin created")
}
