package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/vaughan-dsouza/usermgmt/internal/config"
	"github.com/vaughan-dsouza/usermgmt/internal/db"
	"github.com/vaughan-dsouza/usermgmt/internal/handlers"
	"github.com/vaughan-dsouza/usermgmt/internal/logger"
	"github.com/vaughan-dsouza/usermgmt/internal/router"
	"github.com/vaughan-dsouza/usermgmt/internal/service"
	"github.com/vaughan-dsouza/usermgmt/internal/utils"
)

func main() {
	envErr := godotenv.Load()

	cfg, err := config.Load(context.Background())
	if err != nil {
		l := logger.New(logger.Options{})
		l.Fatal().Err(err).Msg("config")
	}

	log := logger.New(logger.Options{Level: cfg.LogLevel, Pretty: cfg.Development()})
	if envErr != nil {
		log.Info().Msg("No .env file found")
	}

	dbConn, err := db.Connect(context.Background(), cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect")
	}
	defer dbConn.Close()

	gw := db.NewGateway(dbConn)
	users := service.NewUserService(gw, utils.NewPasswordCodec(cfg.BcryptCost))
	h := handlers.NewHandler(users, gw)

	srv := newServer(cfg, h, log)

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("listen")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		return
	}

	log.Info().Msg("server exited")
}

func newServer(cfg *config.Config, h *handlers.Handler, log zerolog.Logger) *http.Server {
	return &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router.New(h, log),
		ReadHeaderTimeout: 10 * time.Second,
	}
}
