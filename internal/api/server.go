// Package api is a thin JSON-over-HTTP adapter over service.Service.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"enemyintel/internal/logging"
	"enemyintel/internal/service"
)

// Options configures the listener.
type Options struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Server serves the enemy intelligence API.
type Server struct {
	svc  *service.Service
	opts Options
	mux  *http.ServeMux
}

// New builds the route table for svc.
func New(svc *service.Service, opts Options) *Server {
	s := &Server{svc: svc, opts: opts, mux: http.NewServeMux()}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /api/health", s.handleHealth)
	s.mux.HandleFunc("GET /api/search", s.handleSearch)
	s.mux.HandleFunc("GET /api/enemy/{name...}", s.handleEnemy)
	s.mux.HandleFunc("GET /api/region/{region}", s.handleRegion)
	s.mux.HandleFunc("GET /api/region/{region}/enemies", s.handleRegionEnemies)
	s.mux.HandleFunc("GET /api/debug/columns", s.handleColumns)
	s.mux.HandleFunc("POST /api/reload", s.handleReload)
	s.mux.HandleFunc("GET /api/cache/stats", s.handleCacheStats)
	s.mux.HandleFunc("POST /api/cache/update", s.handleCacheUpdate)
	s.mux.HandleFunc("GET /api/cache/debug", s.handleCacheDebug)
	s.mux.HandleFunc("GET /api/cache/view/{name...}", s.handleCacheView)
	s.mux.Handle("GET /metrics", promhttp.Handler())
}

// Handler returns the routed handler with request-ID and access logging.
func (s *Server) Handler() http.Handler {
	return withRequestID(s.mux)
}

// ListenAndServe serves until ctx ends, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.opts.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.API("listening on %s", s.opts.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		logging.API("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.APIError("encode response: %v", err)
	}
}

type errorBody struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

// level reads the ng query parameter. Absent means NG.
func level(r *http.Request) string {
	return r.URL.Query().Get("ng")
}
