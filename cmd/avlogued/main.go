package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Atrasoftware/avlogue/internal/app"
	"github.com/Atrasoftware/avlogue/internal/config"
	"github.com/Atrasoftware/avlogue/internal/db"
	"github.com/Atrasoftware/avlogue/internal/logger"
)

const shutdownTimeout = 30 * time.Second

func main() {
	logger.Init("info", false)

	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Pretty)

	database, err := db.New(cfg.Database.Path)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to connect to database")
	}

	sqlDB, err := database.GetSQLDB()
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to access underlying database connection")
	}
	if err := db.RunMigrations(sqlDB, "file://migrations"); err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to run database migrations")
	}

	application, err := app.New(context.Background(), cfg, database)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to initialize application")
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	logger.Log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := application.Shutdown(ctx); err != nil {
		logger.Log.Error().Err(err).Msg("Shutdown error")
		os.Exit(1)
	}
}
