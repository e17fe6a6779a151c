package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/buzz39/expense-tracker/internal/core"
	"github.com/buzz39/expense-tracker/internal/memory"
	"github.com/buzz39/expense-tracker/internal/store"
)

func sampleTable() []core.Expense {
	return []core.Expense{
		{Name: "rent", Amount: core.MoneyFromFloat(15000), Category: "Housing", Date: core.NewDate(2025, time.June, 1)},
		{Name: "coffee", Amount: core.MoneyFromFloat(120), Category: "Food", Date: core.NewDate(2025, time.June, 2)},
		{Name: "groceries", Amount: core.MoneyFromFloat(2400), Category: "Food", Date: core.NewDate(2025, time.June, 3)},
	}
}

func newTestServer(t *testing.T, records []core.Expense) *Server {
	t.Helper()
	st := store.New(memory.New(records), time.Minute)
	return NewServer(":0", st, zerolog.Nop(), time.Minute, 10)
}

func doRequest(t *testing.T, s *Server, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) payload {
	t.Helper()
	var p payload
	if err := json.Unmarshal(rec.Body.Bytes(), &p); err != nil {
		t.Fatalf("decode response: %v\nbody: %s", err, rec.Body.String())
	}
	return p
}

func TestSummaryEndpoint(t *testing.T) {
	s := newTestServer(t, sampleTable())

	rec := doRequest(t, s, http.MethodGet, "/api/summary")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	p := decode(t, rec)
	if p.Status != "ok" {
		t.Fatalf("Status = %q, want ok", p.Status)
	}

	data := p.Data.(map[string]any)
	if data["count"].(float64) != 3 {
		t.Fatalf("count = %v, want 3", data["count"])
	}
	if data["top_name"].(string) != "rent" {
		t.Fatalf("top_name = %v", data["top_name"])
	}
}

func TestSummaryFilteredToZeroStaysOK(t *testing.T) {
	s := newTestServer(t, sampleTable())

	rec := doRequest(t, s, http.MethodGet, "/api/summary?categories=Nope")
	p := decode(t, rec)
	if rec.Code != http.StatusOK || p.Status != "ok" {
		t.Fatalf("status = %d %q, want 200 ok", rec.Code, p.Status)
	}
	data := p.Data.(map[string]any)
	if data["count"].(float64) != 0 {
		t.Fatalf("count = %v, want 0", data["count"])
	}
}

func TestEmptyTableNoData(t *testing.T) {
	s := newTestServer(t, nil)

	rec := doRequest(t, s, http.MethodGet, "/api/summary")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	p := decode(t, rec)
	if p.Status != "no_data" {
		t.Fatalf("Status = %q, want no_data", p.Status)
	}
}

func TestBadDateParam(t *testing.T) {
	s := newTestServer(t, sampleTable())

	rec := doRequest(t, s, http.MethodGet, "/api/summary?from=June+1st")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if p := decode(t, rec); p.Status != "error" {
		t.Fatalf("Status = %q, want error", p.Status)
	}
}

func TestInvertedRangeRejected(t *testing.T) {
	s := newTestServer(t, sampleTable())

	rec := doRequest(t, s, http.MethodGet, "/api/summary?from=2025-06-10&to=2025-06-01")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestRecentLimit(t *testing.T) {
	s := newTestServer(t, sampleTable())

	rec := doRequest(t, s, http.MethodGet, "/api/recent?limit=2")
	p := decode(t, rec)
	items := p.Data.([]any)
	if len(items) != 2 {
		t.Fatalf("len = %d, want 2", len(items))
	}
	first := items[0].(map[string]any)
	if first["date"].(string) != "2025-06-03" {
		t.Fatalf("first date = %v, want most recent", first["date"])
	}

	bad := doRequest(t, s, http.MethodGet, "/api/recent?limit=zero")
	if bad.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", bad.Code)
	}
}

func TestByCategoryFiltered(t *testing.T) {
	s := newTestServer(t, sampleTable())

	rec := doRequest(t, s, http.MethodGet, "/api/by-category?categories=Food")
	p := decode(t, rec)
	stats := p.Data.([]any)
	if len(stats) != 1 {
		t.Fatalf("len = %d, want 1", len(stats))
	}
	st := stats[0].(map[string]any)
	if st["category"].(string) != "Food" || st["count"].(float64) != 2 {
		t.Fatalf("stat = %v", st)
	}
}

func TestExportCSV(t *testing.T) {
	s := newTestServer(t, sampleTable())

	rec := doRequest(t, s, http.MethodGet, "/export/csv")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/csv" {
		t.Fatalf("Content-Type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "attachment") {
		t.Fatalf("Content-Disposition = %q", cd)
	}
	body := rec.Body.String()
	if !strings.HasPrefix(body, "Name,Amount,Category,Date,Comment\n") {
		t.Fatalf("missing header: %q", body)
	}
	if !strings.Contains(body, "groceries,2400.00,Food,2025-06-03,") {
		t.Fatalf("missing record: %q", body)
	}
}

type failingSource struct{}

func (failingSource) FetchExpenses(ctx context.Context) ([]core.Expense, error) {
	return nil, errors.New("upstream down")
}

func TestSourceFailureIsBadGateway(t *testing.T) {
	st := store.New(failingSource{}, time.Minute)
	s := NewServer(":0", st, zerolog.Nop(), time.Minute, 10)

	rec := doRequest(t, s, http.MethodGet, "/api/summary")
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
	if p := decode(t, rec); p.Status != "error" {
		t.Fatalf("Status = %q, want error", p.Status)
	}
}

func TestRefreshInvalidates(t *testing.T) {
	src := memory.New(sampleTable())
	st := store.New(src, time.Hour)
	s := NewServer(":0", st, zerolog.Nop(), time.Hour, 10)

	// Warm the table and the response cache.
	doRequest(t, s, http.MethodGet, "/api/summary")

	if err := src.Add(core.Expense{
		Name:   "cab",
		Amount: core.MoneyFromFloat(350),
		Date:   core.NewDate(2025, time.June, 4),
	}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	// Still served from cache.
	p := decode(t, doRequest(t, s, http.MethodGet, "/api/summary"))
	if p.Data.(map[string]any)["count"].(float64) != 3 {
		t.Fatalf("expected cached count 3")
	}

	rec := doRequest(t, s, http.MethodPost, "/api/refresh")
	if rec.Code != http.StatusOK {
		t.Fatalf("refresh status = %d", rec.Code)
	}

	p = decode(t, doRequest(t, s, http.MethodGet, "/api/summary"))
	if got := p.Data.(map[string]any)["count"].(float64); got != 4 {
		t.Fatalf("count after refresh = %v, want 4", got)
	}
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t, nil)

	for _, path := range []string{"/healthz", "/readyz"} {
		rec := doRequest(t, s, http.MethodGet, path)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s status = %d", path, rec.Code)
		}
	}
}
