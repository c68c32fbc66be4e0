// Package httpapi exposes the JSON-RPC processor over HTTP. A single POST
// endpoint accepts request envelopes; liveness and Prometheus metrics ride
// alongside.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/drblury/ticketflow/internal/runtime/config"
	errspkg "github.com/drblury/ticketflow/internal/runtime/errors"
	"github.com/drblury/ticketflow/internal/runtime/jsonrpc"
	"github.com/drblury/ticketflow/internal/runtime/logging"
)

// maxBodyBytes caps the accepted request size.
const maxBodyBytes = 1 << 20

// Server serves the RPC endpoint.
type Server struct {
	cfg       *config.Config
	processor *jsonrpc.Processor
	logger    logging.ServiceLogger
	router    chi.Router
}

// NewServer wires the routes onto a chi router.
func NewServer(cfg *config.Config, processor *jsonrpc.Processor, logger logging.ServiceLogger) (*Server, error) {
	if cfg == nil {
		return nil, errspkg.ErrConfigRequired
	}
	if processor == nil {
		return nil, errspkg.ErrHandlerRequired
	}
	if logger == nil {
		logger = logging.NewSlogServiceLogger(slog.New(slog.DiscardHandler))
	}

	s := &Server{cfg: cfg, processor: processor, logger: logger}

	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(s.corsMiddleware)
	r.Post("/rpc", s.handleRPC)
	r.Get("/healthz", s.handleHealth)
	if cfg.MetricsEnabled {
		r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	}
	s.router = r

	return s, nil
}

// Router returns the HTTP handler, e.g. for mounting in tests.
func (s *Server) Router() http.Handler { return s.router }

// ListenAndServe runs the HTTP server until the context is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	port := s.cfg.HTTPAPIPort
	if port == 0 {
		port = 8080
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.logger.Info("http api listening", logging.LogFields{"port": port})

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) handleRPC(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		http.Error(w, "request body too large or unreadable", http.StatusBadRequest)
		return
	}

	out, err := s.processor.Handle(r.Context(), body)
	if err != nil {
		s.logger.Error("failed to encode rpc response", err, nil)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	// JSON-RPC errors are carried in the envelope; HTTP status stays 200.
	if _, err := w.Write(out); err != nil {
		s.logger.Error("failed to write rpc response", err, nil)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// corsMiddleware applies the configured origin allowlist. An empty list
// disables CORS headers entirely.
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if len(s.cfg.HTTPCORSAllowedOrigins) > 0 {
			if allowed := s.allowedCORSOrigin(r.Header.Get("Origin")); allowed != "" {
				w.Header().Set("Access-Control-Allow-Origin", allowed)
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			}
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// allowedCORSOrigin returns the Access-Control-Allow-Origin value for the
// request origin, or empty when the origin is not allowed.
func (s *Server) allowedCORSOrigin(requestOrigin string) string {
	for _, allowed := range s.cfg.HTTPCORSAllowedOrigins {
		if allowed == "*" {
			return "*"
		}
		if strings.EqualFold(allowed, requestOrigin) {
			return requestOrigin
		}
	}
	return ""
}
