// Command snapshot copies the full Notion expense table into a local
// SQLite database, so the dashboard can run against the sqlite backend
// when Notion is unreachable.
package main

import (
	"context"
	"time"

	"github.com/joho/godotenv"

	"github.com/buzz39/expense-tracker/internal/config"
	"github.com/buzz39/expense-tracker/internal/logger"
	"github.com/buzz39/expense-tracker/internal/notion"
	"github.com/buzz39/expense-tracker/internal/storage"
)

func main() {
	_ = godotenv.Load()
	log := logger.New()

	cfg := config.Load()
	if cfg.NotionToken == "" || cfg.NotionDatabaseID == "" {
		log.Fatal().Msg("NOTION_TOKEN and NOTION_DATABASE_ID are required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	client := notion.NewClient(cfg.NotionToken)
	ing := notion.NewIngestor(client, cfg.NotionDatabaseID, notion.LocalZone(cfg.Timezone))

	records, err := ing.FetchExpenses(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to fetch expenses from Notion")
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath, log)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.SQLiteDBPath).Msg("Failed to open snapshot database")
	}
	defer repo.Close()

	if err := repo.ReplaceAll(ctx, records); err != nil {
		log.Fatal().Err(err).Msg("Failed to write snapshot")
	}

	log.Info().
		Int("count", len(records)).
		Str("path", cfg.SQLiteDBPath).
		Msg("Snapshot complete")
}
