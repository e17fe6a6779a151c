// Package storage persists expense snapshots to a local SQLite database.
// A snapshot is a full copy of the Notion table, refreshed by replacing
// every row in a single transaction.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/buzz39/expense-tracker/internal/core"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db  *sql.DB
	log zerolog.Logger
}

func NewSQLiteRepository(dbPath string, log zerolog.Logger) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db, log: log}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// FetchExpenses implements backend.ExpenseSource against the local snapshot.
func (r *SQLiteRepository) FetchExpenses(ctx context.Context) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT name, amount_paise, category, expense_date, comment
		FROM expenses
		ORDER BY expense_date, name`)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	defer rows.Close()

	records := make([]core.Expense, 0)
	for rows.Next() {
		var (
			e       core.Expense
			paise   int64
			rawDate string
		)
		if err := rows.Scan(&e.Name, &paise, &e.Category, &rawDate, &e.Comment); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		t, err := time.ParseInLocation("2006-01-02", rawDate, time.UTC)
		if err != nil {
			r.log.Warn().Str("expense_date", rawDate).Msg("Skipping row with malformed date")
			continue
		}
		e.Amount = core.Money{Paise: paise}
		e.Date = core.DateOf(t)
		records = append(records, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}
	return records, nil
}

// ReplaceAll swaps the snapshot for the given table in one transaction.
func (r *SQLiteRepository) ReplaceAll(ctx context.Context, records []core.Expense) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM expenses`); err != nil {
		return fmt.Errorf("clear expenses: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO expenses (name, amount_paise, category, expense_date, comment)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range records {
		if _, err := stmt.ExecContext(ctx, e.Name, e.Amount.Paise, e.Category, e.Date.String(), e.Comment); err != nil {
			return fmt.Errorf("insert expense %q: %w", e.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}

	r.log.Info().Int("count", len(records)).Msg("Snapshot replaced")
	return nil
}
