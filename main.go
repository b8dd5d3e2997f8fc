// main.go - scoutlink API server
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"scoutlink/config"
	"scoutlink/database"
	"scoutlink/logging"
	"scoutlink/server"
	"scoutlink/services"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, envLoaded := config.Load()

	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if !envLoaded {
		logging.Warn().Msg(".env file not found, using system environment variables")
	}

	if err := cfg.Validate(); err != nil {
		logging.Fatal().Err(err).Msg("invalid configuration")
	}

	db, err := database.Open(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to open database")
	}
	defer func() {
		if err := database.Close(db); err != nil {
			logging.Error().Err(err).Msg("failed to close database")
		}
	}()

	cleanup := services.NewCleanupService(services.NewGormStore(db))
	if _, err := cleanup.PurgeExpiredSessions(context.Background()); err != nil {
		logging.Warn().Err(err).Msg("startup session purge failed")
	}

	app := server.New(cfg, db)

	go func() {
		logging.Info().
			Str("port", cfg.Port).
			Str("env", cfg.AppEnv).
			Str("db_driver", cfg.DBDriver).
			Bool("metrics", cfg.MetricsEnabled).
			Bool("rate_limit", cfg.RateLimitEnabled).
			Msg("HTTP server starting")
		if err := app.Listen(":" + cfg.Port); err != nil {
			logging.Fatal().Err(err).Msg("failed to start HTTP server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logging.Info().Str("signal", sig.String()).Msg("shutting down")
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		logging.Error().Err(err).Msg("graceful shutdown failed")
	}
}
