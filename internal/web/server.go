// Package web serves lyrics lookups over HTTP and WebSocket.
package web

import (
	"bufio"
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"bestlyrics/internal/config"
	"bestlyrics/internal/logger"
	"bestlyrics/internal/lyrics"
	"bestlyrics/internal/metrics"

	"github.com/google/uuid"
)

// Finder runs one lyrics aggregation. *lyrics.Aggregator implements it.
type Finder interface {
	Aggregate(ctx context.Context, q lyrics.Query) (lyrics.Result, error)
	Sources() []lyrics.SourceID
}

type Server struct {
	ctx     context.Context
	finder  Finder
	config  config.Config
	logger  *logger.Logger
	metrics *metrics.Collector
}

// NewServer creates a Server. ctx bounds long-lived WebSocket sessions.
func NewServer(ctx context.Context, finder Finder, cfg config.Config, log *logger.Logger, m *metrics.Collector) *Server {
	return &Server{
		ctx:     ctx,
		finder:  finder,
		config:  cfg,
		logger:  log,
		metrics: m,
	}
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/best-lyrics", s.handleBestLyrics)
	mux.HandleFunc("GET /api/sources", s.handleSources)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", s.metrics.Handler())
	mux.HandleFunc("GET /ws", s.handleWebSocket)

	return s.loggingMiddleware(s.corsMiddleware(mux))
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)
		s.logger.Debug("%s %s %s -> %d (%s)", id, r.Method, r.URL.Path, rec.status, time.Since(start).Round(time.Millisecond))
	})
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin := s.config.AllowedOrigin; origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the response status for the access log.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Hijack lets the WebSocket upgrader take over the connection.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	r.status = http.StatusSwitchingProtocols
	return h.Hijack()
}

func (r *statusRecorder) Unwrap() http.ResponseWriter { return r.ResponseWriter }
