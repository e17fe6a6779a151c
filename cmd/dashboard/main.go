package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/buzz39/expense-tracker/internal/backend"
	"github.com/buzz39/expense-tracker/internal/config"
	apphttp "github.com/buzz39/expense-tracker/internal/http"
	"github.com/buzz39/expense-tracker/internal/logger"
	"github.com/buzz39/expense-tracker/internal/store"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log := logger.New()
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	log, logCloser, err := logger.NewWithFile(cfg.LogFile)
	if err != nil {
		log = logger.New()
		log.Warn().Err(err).Str("path", cfg.LogFile).Msg("File logging disabled")
	} else {
		defer logCloser.Close()
	}

	factory := backend.NewDefaultFactory(log)
	result, err := factory.CreateSource(context.Background(), backend.Config{
		Type:             backend.BackendType(cfg.DataBackend),
		NotionToken:      cfg.NotionToken,
		NotionDatabaseID: cfg.NotionDatabaseID,
		Timezone:         cfg.Timezone,
		SQLiteDBPath:     cfg.SQLiteDBPath,
		SeedFile:         cfg.MemorySeedFile,
	})
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.DataBackend).Msg("Failed to initialize expense source")
	}
	if result.Cleanup != nil {
		defer func() {
			if err := result.Cleanup(); err != nil {
				log.Error().Err(err).Msg("Source cleanup failed")
			}
		}()
	}

	st := store.New(result.Source, cfg.CacheTTL)
	srv := apphttp.NewServer(":"+cfg.Port, st, log, cfg.CacheTTL, cfg.RecentLimit)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		log.Info().Str("signal", sig.String()).Msg("Shutdown signal received")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Server shutdown error")
		}
		cancel()
	}()

	log.Info().
		Str("port", cfg.Port).
		Str("backend", cfg.DataBackend).
		Dur("cache_ttl", cfg.CacheTTL).
		Msg("Starting dashboard server")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Str("port", cfg.Port).Msg("Server error")
	}

	<-ctx.Done()
	log.Info().Msg("Server stopped gracefully")
}
