// Package memory provides an in-memory expense source, used for tests
// and demo runs without external credentials.
package memory

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/buzz39/expense-tracker/internal/core"
)

// Source keeps the expense table in memory.
type Source struct {
	mu    sync.RWMutex
	items []core.Expense
}

// New creates a source seeded with the given records.
func New(items []core.Expense) *Source {
	s := &Source{items: make([]core.Expense, len(items))}
	copy(s.items, items)
	s.sortLocked()
	return s
}

// NewFromFile creates a source seeded from a CSV file with columns
// name,amount,category,date,comment. Malformed lines are skipped.
func NewFromFile(path string) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	var items []core.Expense
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read seed file: %w", err)
		}
		e, ok := parseRow(row)
		if !ok {
			continue
		}
		items = append(items, e)
	}
	return New(items), nil
}

func parseRow(row []string) (core.Expense, bool) {
	if len(row) < 4 {
		return core.Expense{}, false
	}
	amount, err := strconv.ParseFloat(row[1], 64)
	if err != nil {
		return core.Expense{}, false
	}
	t, err := time.ParseInLocation("2006-01-02", row[3], time.UTC)
	if err != nil {
		return core.Expense{}, false
	}
	e := core.Expense{
		Name:     row[0],
		Amount:   core.MoneyFromFloat(amount),
		Category: row[2],
		Date:     core.DateOf(t),
	}
	if len(row) > 4 {
		e.Comment = row[4]
	}
	if err := e.Validate(); err != nil {
		return core.Expense{}, false
	}
	return e, true
}

// Add appends a record to the table.
func (s *Source) Add(e core.Expense) error {
	if err := e.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, e)
	s.sortLocked()
	return nil
}

// FetchExpenses returns a copy of the table sorted by date, then name.
func (s *Source) FetchExpenses(ctx context.Context) ([]core.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Expense, len(s.items))
	copy(out, s.items)
	return out, nil
}

func (s *Source) sortLocked() {
	sort.SliceStable(s.items, func(i, j int) bool {
		di, dj := s.items[i].Date.Time, s.items[j].Date.Time
		if !di.Equal(dj) {
			return di.Before(dj)
		}
		return s.items[i].Name < s.items[j].Name
	})
}
