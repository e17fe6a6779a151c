package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/buzz39/expense-tracker/internal/core"
	"github.com/buzz39/expense-tracker/internal/export"
	"github.com/buzz39/expense-tracker/internal/logger"
	"github.com/buzz39/expense-tracker/internal/report"
)

// payload is the response envelope for every JSON endpoint.
type payload struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, payload{Status: "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, payload{Status: "ok"})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	s.serveReport(w, r, "summary", func(records []core.Expense) any {
		return report.Summarize(records)
	})
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	s.serveReport(w, r, "categories", func(records []core.Expense) any {
		return report.Categories(records)
	})
}

func (s *Server) handleByCategory(w http.ResponseWriter, r *http.Request) {
	s.serveReport(w, r, "by-category", func(records []core.Expense) any {
		return report.ByCategory(records)
	})
}

func (s *Server) handleDaily(w http.ResponseWriter, r *http.Request) {
	s.serveReport(w, r, "daily", func(records []core.Expense) any {
		return report.DailyTotals(records)
	})
}

func (s *Server) handleMonthly(w http.ResponseWriter, r *http.Request) {
	s.serveReport(w, r, "monthly", func(records []core.Expense) any {
		return report.MonthlyByCategory(records)
	})
}

func (s *Server) handleRecent(w http.ResponseWriter, r *http.Request) {
	limit := s.recentLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeJSON(w, http.StatusBadRequest, payload{
				Status:  "error",
				Message: fmt.Sprintf("invalid limit %q: must be a positive integer", raw),
			})
			return
		}
		limit = n
	}
	s.serveReport(w, r, "recent", func(records []core.Expense) any {
		return report.Recent(records, limit)
	})
}

func (s *Server) handleExpenses(w http.ResponseWriter, r *http.Request) {
	s.serveReport(w, r, "expenses", func(records []core.Expense) any {
		return records
	})
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	records, ok := s.filteredRecords(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=expenses-%s.csv", time.Now().Format("2006-01-02")))
	if err := export.WriteCSV(w, records); err != nil {
		log := logger.FromContext(r.Context())
		log.Error().Err(err).Msg("CSV export failed")
	}
}

func (s *Server) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	records, ok := s.filteredRecords(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=expenses-%s.xlsx", time.Now().Format("2006-01-02")))
	if err := export.WriteXLSX(w, records); err != nil {
		log := logger.FromContext(r.Context())
		log.Error().Err(err).Msg("XLSX export failed")
	}
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	s.store.Invalidate()
	s.responseCache.Purge()
	log := logger.FromContext(r.Context())
	log.Info().Msg("Table cache invalidated")
	writeJSON(w, http.StatusOK, payload{Status: "ok", Message: "cache invalidated"})
}

// serveReport runs the shared read path: response cache, table fetch,
// empty-table short circuit, filter, aggregate, cache the result.
func (s *Server) serveReport(w http.ResponseWriter, r *http.Request, view string, build func([]core.Expense) any) {
	key := view + "?" + r.URL.RawQuery
	if body, ok := s.responseCache.Get(key); ok {
		writeJSONBytes(w, http.StatusOK, body)
		return
	}

	filter, err := parseFilter(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, payload{Status: "error", Message: err.Error()})
		return
	}

	records, err := s.store.Records(r.Context())
	if err != nil {
		log := logger.FromContext(r.Context())
		log.Error().Err(err).Msg("Fetching expense table failed")
		writeJSON(w, http.StatusBadGateway, payload{Status: "error", Message: "expense source unavailable"})
		return
	}

	// An empty table means nothing was ever recorded; a filter that
	// matches nothing still renders zero aggregates.
	if len(records) == 0 {
		writeJSON(w, http.StatusOK, payload{Status: "no_data", Message: "no expense records found"})
		return
	}

	body, err := json.Marshal(payload{Status: "ok", Data: build(filter.Apply(records))})
	if err != nil {
		log := logger.FromContext(r.Context())
		log.Error().Err(err).Msg("Encoding response failed")
		writeJSON(w, http.StatusInternalServerError, payload{Status: "error", Message: "internal error"})
		return
	}

	s.responseCache.Set(key, body)
	writeJSONBytes(w, http.StatusOK, body)
}

// filteredRecords is the export variant of serveReport: no response
// cache, and an empty table exports an empty file rather than an
// error envelope.
func (s *Server) filteredRecords(w http.ResponseWriter, r *http.Request) ([]core.Expense, bool) {
	filter, err := parseFilter(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, payload{Status: "error", Message: err.Error()})
		return nil, false
	}

	records, err := s.store.Records(r.Context())
	if err != nil {
		log := logger.FromContext(r.Context())
		log.Error().Err(err).Msg("Fetching expense table failed")
		writeJSON(w, http.StatusBadGateway, payload{Status: "error", Message: "expense source unavailable"})
		return nil, false
	}
	return filter.Apply(records), true
}

func parseFilter(r *http.Request) (report.Filter, error) {
	var f report.Filter
	q := r.URL.Query()

	if raw := q.Get("from"); raw != "" {
		d, err := parseDateParam(raw)
		if err != nil {
			return f, fmt.Errorf("invalid from %q: want YYYY-MM-DD", raw)
		}
		f.From = d
	}
	if raw := q.Get("to"); raw != "" {
		d, err := parseDateParam(raw)
		if err != nil {
			return f, fmt.Errorf("invalid to %q: want YYYY-MM-DD", raw)
		}
		f.To = d
	}
	if !f.From.IsZero() && !f.To.IsZero() && f.To.Time.Before(f.From.Time) {
		return f, fmt.Errorf("invalid range: from %s is after to %s", f.From, f.To)
	}
	if raw := q.Get("categories"); raw != "" {
		for _, c := range strings.Split(raw, ",") {
			f.Categories = append(f.Categories, strings.TrimSpace(c))
		}
	}
	return f, nil
}

func parseDateParam(raw string) (core.Date, error) {
	t, err := time.ParseInLocation("2006-01-02", raw, time.UTC)
	if err != nil {
		return core.Date{}, err
	}
	return core.DateOf(t), nil
}

func writeJSON(w http.ResponseWriter, status int, p payload) {
	body, err := json.Marshal(p)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSONBytes(w, status, body)
}

func writeJSONBytes(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}
