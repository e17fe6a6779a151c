package logger

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewWithWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewWithWriter(buf)

	log.Info().Msg("test message")

	if !strings.Contains(buf.String(), "test message") {
		t.Fatalf("expected output to contain 'test message', got: %s", buf.String())
	}
}

func TestNewWithFileAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ops.log")

	log, closer, err := NewWithFile(path)
	if err != nil {
		t.Fatalf("NewWithFile: %v", err)
	}
	log.Warn().Str("raw", "bad-row").Msg("parse fallback")
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	log2, closer2, err := NewWithFile(path)
	if err != nil {
		t.Fatalf("NewWithFile reopen: %v", err)
	}
	log2.Error().Msg("row failure")
	_ = closer2.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, "parse fallback") || !strings.Contains(out, "row failure") {
		t.Fatalf("expected both entries in append-only file, got: %s", out)
	}
}

func TestFromContext(t *testing.T) {
	buf := &bytes.Buffer{}
	ctx := WithContext(context.Background(), NewWithWriter(buf))

	log := FromContext(ctx)
	log.Info().Msg("via context")

	if buf.Len() == 0 {
		t.Fatal("expected log output from context logger")
	}
}

func TestFromContextDefault(t *testing.T) {
	log := FromContext(context.Background())
	if log.GetLevel() == zerolog.Disabled {
		t.Fatal("expected default logger to be enabled")
	}
}
