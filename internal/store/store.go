// Package store memoizes the normalized expense table. The whole table
// is treated as one value: a read either serves the cached copy or
// refetches everything from the source, deduplicating concurrent
// refetches so the upstream sees at most one query per expiry.
package store

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/buzz39/expense-tracker/internal/backend"
	"github.com/buzz39/expense-tracker/internal/core"
)

type Store struct {
	source backend.ExpenseSource
	ttl    time.Duration

	group singleflight.Group

	mu        sync.RWMutex
	records   []core.Expense
	fetchedAt time.Time
}

func New(source backend.ExpenseSource, ttl time.Duration) *Store {
	return &Store{source: source, ttl: ttl}
}

// Records returns the current table, refetching from the source when the
// cached copy is older than the TTL. Callers own the returned slice.
func (s *Store) Records(ctx context.Context) ([]core.Expense, error) {
	if records, ok := s.cached(); ok {
		return records, nil
	}

	v, err, _ := s.group.Do("records", func() (any, error) {
		// Another caller may have refreshed while we waited for the flight.
		if records, ok := s.cached(); ok {
			return records, nil
		}
		records, err := s.source.FetchExpenses(ctx)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.records = records
		s.fetchedAt = time.Now()
		s.mu.Unlock()
		return records, nil
	})
	if err != nil {
		return nil, err
	}
	// The flight result is shared between concurrent waiters.
	return copyRecords(v.([]core.Expense)), nil
}

// Invalidate drops the cached table so the next read refetches.
func (s *Store) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = nil
	s.fetchedAt = time.Time{}
}

// Age reports how long ago the cached table was fetched.
func (s *Store) Age() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.fetchedAt.IsZero() {
		return 0
	}
	return time.Since(s.fetchedAt)
}

func (s *Store) cached() ([]core.Expense, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.fetchedAt.IsZero() || time.Since(s.fetchedAt) >= s.ttl {
		return nil, false
	}
	return copyRecords(s.records), true
}

func copyRecords(records []core.Expense) []core.Expense {
	out := make([]core.Expense, len(records))
	copy(out, records)
	return out
}
