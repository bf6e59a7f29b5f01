// Package api serves a read-only HTTP view of the bridge: address checks,
// balances, recorded operations and metrics.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	xclient "github.com/openweb3-io/xcbridge/client"
	"github.com/openweb3-io/xcbridge/journal"
	xc "github.com/openweb3-io/xcbridge/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Endpoint is the part of a chain the API reads from.
type Endpoint interface {
	xclient.BalanceOracle
	Config() *xc.ChainConfig
}

type Server struct {
	chains   map[string]Endpoint
	order    []string
	journal  journal.Journal
	gatherer prometheus.Gatherer
	logger   *zap.Logger
}

type Option func(*Server)

func WithJournal(j journal.Journal) Option {
	return func(s *Server) { s.journal = j }
}

func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) { s.gatherer = g }
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

func NewServer(endpoints []Endpoint, opts ...Option) *Server {
	s := &Server{
		chains:   make(map[string]Endpoint, len(endpoints)),
		gatherer: prometheus.DefaultGatherer,
		logger:   zap.L(),
	}
	for _, endpoint := range endpoints {
		name := endpoint.Config().Name
		s.chains[name] = endpoint
		s.order = append(s.order, name)
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/health", s.health)
	r.Get("/address/{chain}/{address}", s.address)
	r.Get("/balance/{chain}/{address}", s.balance)
	r.Get("/operations", s.listOperations)
	r.Get("/operations/{id}", s.getOperation)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("took", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

// ListenAndServe runs until ctx is done, then shuts down within five seconds.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http service started", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Info("http service stopped")
	return nil
}
