// Package server exposes the emissions calculator over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/rshade/vsme-emissions/internal/carbon"
	"github.com/rshade/vsme-emissions/internal/report"
)

const readHeaderTimeout = 5 * time.Second

// Server routes calculation requests and keeps their records in a Store.
type Server struct {
	calc    *carbon.Calculator
	builder *report.Builder
	store   report.Store
	metrics *Metrics
	logger  zerolog.Logger
	router  chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithStore replaces the in-memory record store.
func WithStore(store report.Store) Option {
	return func(s *Server) { s.store = store }
}

// WithBuilder replaces the record builder.
func WithBuilder(b *report.Builder) Option {
	return func(s *Server) { s.builder = b }
}

// WithLogger sets the request and error logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// New creates a Server. A nil calc selects carbon.DefaultCalculator.
func New(calc *carbon.Calculator, opts ...Option) *Server {
	if calc == nil {
		calc = carbon.DefaultCalculator()
	}
	s := &Server{
		calc:    calc,
		metrics: NewMetrics(),
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.store == nil {
		s.store = report.NewMemoryStore()
	}
	if s.builder == nil {
		s.builder = report.NewBuilder(calc.Registry())
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Get("/factors", s.handleFactors)
		r.Get("/factors/{key}/source", s.handleFactorSource)
		r.Get("/units/{category}", s.handleUnits)

		r.Post("/calculations/scope1", s.handleScope1)
		r.Post("/calculations/scope2", s.handleScope2)
		r.Post("/calculations/scope3", s.handleScope3)
		r.Post("/calculations/vehicle", s.handleVehicle)
		r.Get("/calculations", s.handleListCalculations)
		r.Get("/calculations/{id}", s.handleGetCalculation)

		r.Get("/totals", s.handleTotals)
	})

	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Metrics returns the service collectors.
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// ListenAndServe serves on addr until ctx is cancelled, then drains open
// requests for at most shutdownTimeout.
func (s *Server) ListenAndServe(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info().Str("addr", addr).Msg("starting emissions service")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving on %s: %w", addr, err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info().Msg("shutting down emissions service")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})
	return g.Wait()
}
