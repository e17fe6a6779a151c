// Package http serves the dashboard API. Aggregates are computed from
// the memoized expense table and marshaled responses are kept in a
// small LRU response cache keyed by view and query.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/buzz39/expense-tracker/internal/cache"
	"github.com/buzz39/expense-tracker/internal/logger"
	"github.com/buzz39/expense-tracker/internal/store"
)

type Server struct {
	http.Server

	store       *store.Store
	log         zerolog.Logger
	recentLimit int

	responseCache *cache.TTLCache[[]byte]

	stopSweep    chan struct{}
	shutdownOnce sync.Once
}

// NewServer configures routes and the response cache, returning a
// ready-to-run server.
func NewServer(addr string, st *store.Store, log zerolog.Logger, cacheTTL time.Duration, recentLimit int) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:           addr,
			Handler:        mux,
			ReadTimeout:    10 * time.Second,
			WriteTimeout:   30 * time.Second,
			IdleTimeout:    60 * time.Second,
			MaxHeaderBytes: 1 << 20,
		},
		store:         st,
		log:           log,
		recentLimit:   recentLimit,
		responseCache: cache.New[[]byte](100, cacheTTL),
		stopSweep:     make(chan struct{}),
	}

	go s.sweepLoop()

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /api/summary", s.trace(s.handleSummary))
	mux.HandleFunc("GET /api/categories", s.trace(s.handleCategories))
	mux.HandleFunc("GET /api/by-category", s.trace(s.handleByCategory))
	mux.HandleFunc("GET /api/daily", s.trace(s.handleDaily))
	mux.HandleFunc("GET /api/monthly", s.trace(s.handleMonthly))
	mux.HandleFunc("GET /api/recent", s.trace(s.handleRecent))
	mux.HandleFunc("GET /api/expenses", s.trace(s.handleExpenses))
	mux.HandleFunc("GET /export/csv", s.trace(s.handleExportCSV))
	mux.HandleFunc("GET /export/xlsx", s.trace(s.handleExportXLSX))
	mux.HandleFunc("POST /api/refresh", s.trace(s.handleRefresh))

	return s
}

// Shutdown stops the sweep goroutine and the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		close(s.stopSweep)
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func (s *Server) sweepLoop() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if removed := s.responseCache.Sweep(); removed > 0 {
				s.log.Debug().Int("entries_removed", removed).Msg("Response cache sweep")
			}
		case <-s.stopSweep:
			return
		}
	}
}

// trace attaches a request-scoped logger, sets security headers, and
// logs start and completion with the request id.
func (s *Server) trace(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := uuid.NewString()
		reqLog := s.log.With().Str("request_id", requestID).Logger()
		ctx := logger.WithContext(r.Context(), reqLog)
		r = r.WithContext(ctx)

		reqLog.Info().
			Str("method", r.Method).
			Str("url", r.URL.Path).
			Str("client_ip", clientIP(r)).
			Msg("Request started")

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		reqLog.Info().
			Str("method", r.Method).
			Str("url", r.URL.Path).
			Int("status", rw.statusCode).
			Int64("duration_ms", time.Since(start).Milliseconds()).
			Msg("Request completed")
	}
}

func clientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		return ip
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	return r.RemoteAddr
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
