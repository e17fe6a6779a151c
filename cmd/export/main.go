package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/buzz39/expense-tracker/internal/backend"
	"github.com/buzz39/expense-tracker/internal/config"
	"github.com/buzz39/expense-tracker/internal/core"
	"github.com/buzz39/expense-tracker/internal/export"
	"github.com/buzz39/expense-tracker/internal/logger"
	"github.com/buzz39/expense-tracker/internal/report"
)

func main() {
	var (
		from       = flag.String("from", "", "start date (YYYY-MM-DD, inclusive)")
		to         = flag.String("to", "", "end date (YYYY-MM-DD, inclusive)")
		categories = flag.String("categories", "", "comma-separated category names")
		format     = flag.String("format", "csv", "output format: csv or xlsx")
		out        = flag.String("out", "", "output file (default expenses.<format>)")
	)
	flag.Parse()

	_ = godotenv.Load()
	log := logger.New()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	if *format != "csv" && *format != "xlsx" {
		log.Fatal().Str("format", *format).Msg("Unknown format")
	}

	filter, err := buildFilter(*from, *to, *categories)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid filter")
	}

	ctx := context.Background()
	factory := backend.NewDefaultFactory(log)
	result, err := factory.CreateSource(ctx, backend.Config{
		Type:             backend.BackendType(cfg.DataBackend),
		NotionToken:      cfg.NotionToken,
		NotionDatabaseID: cfg.NotionDatabaseID,
		Timezone:         cfg.Timezone,
		SQLiteDBPath:     cfg.SQLiteDBPath,
		SeedFile:         cfg.MemorySeedFile,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize expense source")
	}
	if result.Cleanup != nil {
		defer result.Cleanup()
	}

	records, err := result.Source.FetchExpenses(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to fetch expenses")
	}
	records = filter.Apply(records)

	path := *out
	if path == "" {
		path = "expenses." + *format
	}
	f, err := os.Create(path)
	if err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("Failed to create output file")
	}
	defer f.Close()

	switch *format {
	case "csv":
		err = export.WriteCSV(f, records)
	case "xlsx":
		err = export.WriteXLSX(f, records)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Export failed")
	}

	log.Info().Int("count", len(records)).Str("path", path).Msg("Export complete")
}

func buildFilter(from, to, categories string) (report.Filter, error) {
	var f report.Filter
	if from != "" {
		d, err := parseDate(from)
		if err != nil {
			return f, fmt.Errorf("invalid -from: %w", err)
		}
		f.From = d
	}
	if to != "" {
		d, err := parseDate(to)
		if err != nil {
			return f, fmt.Errorf("invalid -to: %w", err)
		}
		f.To = d
	}
	if categories != "" {
		for _, c := range strings.Split(categories, ",") {
			f.Categories = append(f.Categories, strings.TrimSpace(c))
		}
	}
	return f, nil
}

func parseDate(raw string) (core.Date, error) {
	t, err := time.ParseInLocation("2006-01-02", raw, time.UTC)
	if err != nil {
		return core.Date{}, err
	}
	return core.DateOf(t), nil
}
