package backend

import (
	"context"

	"github.com/buzz39/expense-tracker/internal/core"
)

// ExpenseSource is the port every data backend implements: produce the
// full normalized expense table, or fail with a connectivity error.
type ExpenseSource interface {
	FetchExpenses(ctx context.Context) ([]core.Expense, error)
}

// CleanupFunc releases resources held by a source.
type CleanupFunc func() error

// SourceResult contains the source instance and an optional cleanup function.
type SourceResult struct {
	Source  ExpenseSource
	Cleanup CleanupFunc
}

// Factory creates expense sources based on configuration.
type Factory interface {
	CreateSource(ctx context.Context, config Config) (*SourceResult, error)
}

// Config holds configuration for source creation.
type Config struct {
	Type BackendType

	// Notion specific
	NotionToken      string
	NotionDatabaseID string
	Timezone         string

	// SQLite snapshot specific
	SQLiteDBPath string

	// Memory backend specific
	SeedFile string
}

// BackendType represents the type of data backend.
type BackendType string

const (
	NotionBackend BackendType = "notion"
	SQLiteBackend BackendType = "sqlite"
	MemoryBackend BackendType = "memory"
)

// String implements fmt.Stringer.
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid.
func (bt BackendType) IsValid() bool {
	switch bt {
	case NotionBackend, SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
