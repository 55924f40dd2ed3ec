// Package main is the entry point for the PennyPal expense tracker server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pennypal/pennypal/internal/chat"
	"github.com/pennypal/pennypal/internal/config"
	"github.com/pennypal/pennypal/internal/database"
	"github.com/pennypal/pennypal/internal/logger"
	"github.com/pennypal/pennypal/internal/memory"
	"github.com/pennypal/pennypal/internal/repository"
	"github.com/pennypal/pennypal/internal/server"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "version" {
		fmt.Printf("pennypal %s (commit: %s, built: %s)\n", version, commit, date)
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to load config")
	}

	logger.Setup(cfg.LogLevel, cfg.LogJSON)

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pool.Close()

	if err := database.RunMigrations(ctx, pool); err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	repo := repository.NewExpenseRepository(pool)

	if cfg.SeedSampleData {
		if err := repo.SeedSampleExpenses(ctx, time.Now()); err != nil {
			logger.Log.Fatal().Err(err).Msg("Failed to seed sample expenses")
		}
	}

	logger.Log.Info().Msg("Database initialized successfully")

	router := chat.New(repo, repo, memory.NewInMemoryStore(), nil, nil)
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           server.New(repo, router, nil).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		logger.Log.Info().Msg("Shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Log.Error().Err(err).Msg("Graceful shutdown failed")
		}
		cancel()
	}()

	logger.Log.Info().Str("addr", cfg.HTTPAddr).Msg("Server listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Log.Fatal().Err(err).Msg("Server stopped unexpectedly")
	}
}
