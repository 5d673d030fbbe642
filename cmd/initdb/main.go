// Command initdb recreates the users table and loads the sample users.
package main

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"

	"github.com/vaughan-dsouza/usermgmt/internal/config"
	"github.com/vaughan-dsouza/usermgmt/internal/db"
	"github.com/vaughan-dsouza/usermgmt/internal/logger"
	"github.com/vaughan-dsouza/usermgmt/internal/service"
	"github.com/vaughan-dsouza/usermgmt/internal/utils"
)

var sampleUsers = []struct {
	name, email, password string
}{
	{"John Doe", "john@example.com", "password123"},
	{"Jane Smith", "jane@example.com", "secret456"},
	{"Bob Johnson", "bob@example.com", "qwerty789"},
}

func main() {
	_ = godotenv.Load()
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		l := logger.New(logger.Options{})
		l.Fatal().Err(err).Msg("config")
	}
	log := logger.New(logger.Options{Level: cfg.LogLevel, Pretty: cfg.Development()})

	dbConn, err := db.Connect(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect")
	}
	defer dbConn.Close()

	if _, err := dbConn.ExecContext(ctx, db.Schema); err != nil {
		log.Fatal().Err(err).Msg("apply schema")
	}

	users := service.NewUserService(db.NewGateway(dbConn), utils.NewPasswordCodec(cfg.BcryptCost))
	if err := seed(ctx, users); err != nil {
		log.Fatal().Err(err).Msg("seed users")
	}

	log.Info().Int("users", len(sampleUsers)).Msg("database initialized with hashed passwords for sample users")
}

func seed(ctx context.Context, users *service.UserService) error {
	for _, u := range sampleUsers {
		if _, err := users.Create(ctx, u.name, u.email, u.password); err != nil {
			return fmt.Errorf("seed %s: %w", u.email, err)
		}
	}
	return nil
}
