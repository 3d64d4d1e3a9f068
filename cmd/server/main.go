package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/atlas-backend/storefront/app/api"
	"github.com/atlas-backend/storefront/app/config"
	"github.com/atlas-backend/storefront/app/database"
	"github.com/atlas-backend/storefront/app/router"
	"github.com/atlas-backend/storefront/app/storage"
)

func main() {
	logger := api.Logger

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	api.SetLevel(cfg.LogLevel)

	db, err := database.OpenAndMigrate(cfg.DSN())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to set up database")
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to get database handle")
	}
	defer sqlDB.Close()

	blobs, err := storage.NewFileStore(cfg.MediaRoot)
	if err != nil {
		logger.Fatal().Err(err).Str("media_root", cfg.MediaRoot).Msg("failed to prepare media root")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router.New(db, blobs),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("starting storefront server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}
