// Package server exposes layout resolution, page composition and the page
// store over HTTP.
//
// Routes:
//
//	GET  /healthz          liveness and build info
//	GET  /metrics          Prometheus metrics
//	GET  /variants         the layout catalog
//	POST /resolve          resolve one layout request to a tree
//	POST /render           compose and render a page from the request body
//	GET  /pages            list stored pages
//	GET  /pages/{name}     fetch a stored page, or render it with ?render=<format>
//	PUT  /pages/{name}     store a page
package server

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/slotframe/pkg/buildinfo"
	"github.com/matzehuels/slotframe/pkg/cache"
	"github.com/matzehuels/slotframe/pkg/errors"
	"github.com/matzehuels/slotframe/pkg/observability"
	"github.com/matzehuels/slotframe/pkg/observability/prom"
	"github.com/matzehuels/slotframe/pkg/pipeline"
	"github.com/matzehuels/slotframe/pkg/store"
)

// Server is the HTTP front end. Create one with [New] or [Open].
type Server struct {
	cfg      *Config
	logger   *log.Logger
	store    store.Store
	runner   *pipeline.Runner
	registry *prometheus.Registry
	router   chi.Router
}

// New builds a server around an existing store and runner. A nil runner
// renders without caching.
func New(cfg *Config, st store.Store, runner *pipeline.Runner, logger *log.Logger) *Server {
	if cfg == nil {
		cfg = Default()
	}
	if logger == nil {
		logger = log.Default()
	}
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, logger)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := prom.New(reg)
	observability.SetComposeHooks(metrics)
	observability.SetCacheHooks(metrics)
	observability.SetHTTPHooks(metrics)

	s := &Server{
		cfg:      cfg,
		logger:   logger,
		store:    st,
		runner:   runner,
		registry: reg,
	}
	s.router = s.routes()
	return s
}

// Open connects the backends named by cfg and returns a ready server.
// MongoDB is used for pages when MongoURI is set, otherwise the file store
// under PagesDir. Redis caches documents and artifacts when RedisURL is set.
func Open(ctx context.Context, cfg *Config, logger *log.Logger) (*Server, error) {
	if cfg == nil {
		cfg = Default()
	}
	if logger == nil {
		logger = log.Default()
	}

	var st store.Store
	var err error
	if cfg.MongoURI != "" {
		st, err = store.NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDatabase)
		logger.Info("page store", "backend", "mongodb", "database", cfg.MongoDatabase)
	} else {
		st, err = store.NewFileStore(cfg.PagesDir)
		logger.Info("page store", "backend", "file", "dir", cfg.PagesDir)
	}
	if err != nil {
		return nil, fmt.Errorf("open page store: %w", err)
	}

	var c cache.Cache = cache.NewNullCache()
	if cfg.RedisURL != "" {
		rc, err := cache.NewRedisCache(ctx, cfg.RedisURL, cfg.CachePrefix)
		if err != nil {
			_ = st.Close()
			return nil, fmt.Errorf("open cache: %w", err)
		}
		c = rc
		logger.Info("cache", "backend", "redis", "prefix", cfg.CachePrefix)
	}

	runner := pipeline.NewRunner(c, cache.NewScopedKeyer(nil, "server:"), logger)
	return New(cfg, st, runner, logger), nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Registry returns the Prometheus registry served on /metrics.
func (s *Server) Registry() *prometheus.Registry { return s.registry }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(requestID(s.logger))
	r.Use(s.instrument)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, r, errors.New(errors.ErrCodeNotFound, "no route for %s", r.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{
			Code:    errors.ErrCodeInvalidInput,
			Message: r.Method + " not allowed on " + r.URL.Path,
		})
	})

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	r.Get("/variants", s.handleVariants)
	r.Post("/resolve", s.handleResolve)
	r.Post("/render", s.handleRender)

	r.Route("/pages", func(r chi.Router) {
		r.Get("/", s.handleListPages)
		r.Get("/{name}", s.handleGetPage)
		r.Put("/{name}", s.handlePutPage)
	})
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully
// within the configured shutdown timeout.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", srv.Addr, "version", buildinfo.Get())
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// Close releases the store and cache and resets the observability hooks.
func (s *Server) Close() error {
	observability.Reset()
	return stderrors.Join(s.runner.Close(), s.store.Close())
}
