package backend

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

func TestBackendTypeIsValid(t *testing.T) {
	tests := []struct {
		bt   BackendType
		want bool
	}{
		{NotionBackend, true},
		{SQLiteBackend, true},
		{MemoryBackend, true},
		{BackendType("sheets"), false},
		{BackendType(""), false},
	}
	for _, tt := range tests {
		if got := tt.bt.IsValid(); got != tt.want {
			t.Fatalf("IsValid(%q) = %v, want %v", tt.bt, got, tt.want)
		}
	}
}

func TestCreateSourceUnknownType(t *testing.T) {
	f := NewDefaultFactory(zerolog.Nop())
	if _, err := f.CreateSource(context.Background(), Config{Type: "dynamo"}); err == nil {
		t.Fatalf("CreateSource() accepted unknown backend type")
	}
}

func TestCreateNotionSourceRequiresCredentials(t *testing.T) {
	f := NewDefaultFactory(zerolog.Nop())

	_, err := f.CreateSource(context.Background(), Config{Type: NotionBackend})
	if err == nil {
		t.Fatalf("CreateSource() accepted notion config without token")
	}

	_, err = f.CreateSource(context.Background(), Config{Type: NotionBackend, NotionToken: "secret"})
	if err == nil {
		t.Fatalf("CreateSource() accepted notion config without database id")
	}

	result, err := f.CreateSource(context.Background(), Config{
		Type:             NotionBackend,
		NotionToken:      "secret",
		NotionDatabaseID: "db123",
	})
	if err != nil {
		t.Fatalf("CreateSource() error = %v", err)
	}
	if result.Source == nil {
		t.Fatalf("CreateSource() returned nil source")
	}
}

func TestCreateMemorySource(t *testing.T) {
	f := NewDefaultFactory(zerolog.Nop())

	result, err := f.CreateSource(context.Background(), Config{Type: MemoryBackend})
	if err != nil {
		t.Fatalf("CreateSource() error = %v", err)
	}
	got, err := result.Source.FetchExpenses(context.Background())
	if err != nil {
		t.Fatalf("FetchExpenses() error = %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("len = %d, want 0", len(got))
	}
}

func TestCreateMemorySourceFromSeed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.csv")
	if err := os.WriteFile(path, []byte("coffee,120,Food,2025-04-02\n"), 0o644); err != nil {
		t.Fatalf("write seed: %v", err)
	}

	f := NewDefaultFactory(zerolog.Nop())
	result, err := f.CreateSource(context.Background(), Config{Type: MemoryBackend, SeedFile: path})
	if err != nil {
		t.Fatalf("CreateSource() error = %v", err)
	}
	got, err := result.Source.FetchExpenses(context.Background())
	if err != nil {
		t.Fatalf("FetchExpenses() error = %v", err)
	}
	if len(got) != 1 || got[0].Name != "coffee" {
		t.Fatalf("got = %+v", got)
	}
}

func TestCreateSQLiteSource(t *testing.T) {
	f := NewDefaultFactory(zerolog.Nop())

	result, err := f.CreateSource(context.Background(), Config{
		Type:         SQLiteBackend,
		SQLiteDBPath: filepath.Join(t.TempDir(), "expenses.db"),
	})
	if err != nil {
		t.Fatalf("CreateSource() error = %v", err)
	}
	if result.Cleanup == nil {
		t.Fatalf("sqlite source should carry a cleanup function")
	}
	defer result.Cleanup()

	got, err := result.Source.FetchExpenses(context.Background())
	if err != nil {
		t.Fatalf("FetchExpenses() error = %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("len = %d, want 0", len(got))
	}
}
