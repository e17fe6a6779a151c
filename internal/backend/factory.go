package backend

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/buzz39/expense-tracker/internal/memory"
	"github.com/buzz39/expense-tracker/internal/notion"
	"github.com/buzz39/expense-tracker/internal/storage"
)

// DefaultFactory is the default implementation of Factory.
type DefaultFactory struct {
	log zerolog.Logger
}

// NewDefaultFactory creates a new default source factory.
func NewDefaultFactory(log zerolog.Logger) *DefaultFactory {
	return &DefaultFactory{log: log}
}

// CreateSource creates an expense source based on the provided configuration.
func (f *DefaultFactory) CreateSource(ctx context.Context, config Config) (*SourceResult, error) {
	if !config.Type.IsValid() {
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}

	switch config.Type {
	case NotionBackend:
		return f.createNotionSource(config)
	case SQLiteBackend:
		return f.createSQLiteSource(config)
	case MemoryBackend:
		return f.createMemorySource(config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createNotionSource(config Config) (*SourceResult, error) {
	if config.NotionToken == "" {
		return nil, fmt.Errorf("notion backend requires a token")
	}
	if config.NotionDatabaseID == "" {
		return nil, fmt.Errorf("notion backend requires a database id")
	}

	client := notion.NewClient(config.NotionToken)
	loc := notion.LocalZone(config.Timezone)
	ing := notion.NewIngestor(client, config.NotionDatabaseID, loc)

	f.log.Info().
		Str("backend", config.Type.String()).
		Str("timezone", loc.String()).
		Msg("Expense source ready")

	return &SourceResult{Source: ing}, nil
}

func (f *DefaultFactory) createSQLiteSource(config Config) (*SourceResult, error) {
	if config.SQLiteDBPath == "" {
		return nil, fmt.Errorf("sqlite backend requires a database path")
	}

	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath, f.log)
	if err != nil {
		return nil, fmt.Errorf("create sqlite repository: %w", err)
	}

	f.log.Info().
		Str("backend", config.Type.String()).
		Str("path", config.SQLiteDBPath).
		Msg("Expense source ready")

	return &SourceResult{Source: repo, Cleanup: repo.Close}, nil
}

func (f *DefaultFactory) createMemorySource(config Config) (*SourceResult, error) {
	if config.SeedFile != "" {
		src, err := memory.NewFromFile(config.SeedFile)
		if err != nil {
			return nil, fmt.Errorf("load memory seed: %w", err)
		}
		return &SourceResult{Source: src}, nil
	}
	return &SourceResult{Source: memory.New(nil)}, nil
}
