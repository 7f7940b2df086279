// Package web serves the application form, the JSON prediction API and the
// health and metrics endpoints.
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"loan-predictor/internal/common/logger"
	"loan-predictor/internal/scoring"
)

//go:embed templates/*.html
var templateFS embed.FS

// Options configures the HTTP listener.
type Options struct {
	Address         string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	MaxBodyBytes    int64
	// Limiter throttles the prediction routes; nil disables throttling.
	Limiter *Limiter
	Version string
}

type Server struct {
	predictor *scoring.Predictor
	opts      Options
	logger    logger.Logger
	limiter   *Limiter
	templates *template.Template
	ready     atomic.Bool
	handler   http.Handler
}

func NewServer(predictor *scoring.Predictor, opts Options, log logger.Logger) (*Server, error) {
	if predictor == nil {
		return nil, errors.New("web: predictor is required")
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 64 << 10
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 30 * time.Second
	}

	tmpl, err := template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	s := &Server{
		predictor: predictor,
		opts:      opts,
		logger:    log.WithFields(map[string]interface{}{logger.FieldComponent: "web"}),
		limiter:   opts.Limiter,
		templates: tmpl,
	}
	s.handler = s.routes()
	s.ready.Store(true)

	return s, nil
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	s.handle(mux, "GET /{$}", http.HandlerFunc(s.handleForm))
	s.handle(mux, "POST /{$}", s.rateLimit(http.HandlerFunc(s.handleFormSubmit)))
	s.handle(mux, "POST /api/v1/predictions", s.rateLimit(http.HandlerFunc(s.handlePredict)))
	s.handle(mux, "GET /api/v1/schema", http.HandlerFunc(s.handleSchema))
	s.handle(mux, "GET /health", http.HandlerFunc(s.handleHealth))
	s.handle(mux, "GET /ready", http.HandlerFunc(s.handleReady))
	mux.Handle("GET /metrics", promhttp.Handler())

	return requestID(s.recoverer(mux))
}

func (s *Server) handle(mux *http.ServeMux, pattern string, h http.Handler) {
	mux.Handle(pattern, s.instrument(pattern, h))
}

// Handler exposes the full middleware chain, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// SetReady flips the /ready probe.
func (s *Server) SetReady(ready bool) {
	s.ready.Store(ready)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.opts.Address,
		Handler:      s.handler,
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", map[string]interface{}{"address": s.opts.Address})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.SetReady(false)
	s.logger.Info("shutting down http server", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return <-errCh
}
