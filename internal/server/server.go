package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	gql "github.com/99designs/gqlgen/graphql"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tournevent/dhlquote/internal/graphql"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

// Server is the HTTP server for the quote service.
type Server struct {
	port     int
	timeout  time.Duration
	executor *graphql.Executor
	gatherer prometheus.Gatherer
	logger   *otelzap.Logger
}

// Config holds server configuration.
type Config struct {
	Port    int
	Timeout time.Duration // Read and write timeout, 30s when zero
}

// New creates a new server instance. Metrics are served from gatherer.
func New(cfg Config, executor *graphql.Executor, gatherer prometheus.Gatherer, logger *otelzap.Logger) *Server {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Server{
		port:     cfg.Port,
		timeout:  cfg.Timeout,
		executor: executor,
		gatherer: gatherer,
		logger:   logger,
	}
}

// Handler returns the service routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("/health", s.handleHealth)

	// Prometheus metrics
	mux.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	// GraphQL endpoint
	mux.HandleFunc("/graphql", s.handleGraphQL)

	return mux
}

// Run starts the HTTP server and blocks until context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.Handler(),
		ReadTimeout:  s.timeout,
		WriteTimeout: s.timeout,
	}

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting server", zap.Int("port", s.port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Wait for context cancellation or error
	select {
	case <-ctx.Done():
		s.logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *Server) handleGraphQL(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		s.writeErrors(w, http.StatusMethodNotAllowed, "Method not allowed, use POST")
		return
	}

	var params gql.RawParams
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&params); err != nil {
		s.writeErrors(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}

	ctx := r.Context()
	resp := s.executor.Exec(ctx, &params)
	if len(resp.Errors) > 0 {
		s.logger.Ctx(ctx).Debug("GraphQL request failed",
			zap.String("operation", params.OperationName),
			zap.Error(resp.Errors),
		)
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Ctx(ctx).Error("Failed to write GraphQL response", zap.Error(err))
	}
}

func (s *Server) writeErrors(w http.ResponseWriter, status int, message string) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(&gql.Response{
		Errors: gqlerror.List{gqlerror.Errorf("%s", message)},
	})
}
