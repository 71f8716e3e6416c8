package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/slidegraph/pkg/buildinfo"
	"github.com/matzehuels/slidegraph/pkg/observability"
	"github.com/matzehuels/slidegraph/pkg/pipeline"
	"github.com/matzehuels/slidegraph/pkg/session"
)

// Server handles API requests. It holds no per-request state; the runner's
// cache and the session store carry everything that persists.
type Server struct {
	runner    *pipeline.Runner
	sessions  session.Store
	logger    *log.Logger
	maxStates int
	walkTTL   time.Duration
}

// Option configures a Server.
type Option func(*Server)

// WithMaxStates caps the exploration budget a client may request.
func WithMaxStates(n int) Option {
	return func(s *Server) { s.maxStates = n }
}

// WithWalkTTL sets the expiry of walks created over HTTP.
func WithWalkTTL(d time.Duration) Option {
	return func(s *Server) { s.walkTTL = d }
}

// New creates a server. A nil store disables the walk routes; a nil logger
// uses log.Default().
func New(runner *pipeline.Runner, store session.Store, logger *log.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		runner:    runner,
		sessions:  store,
		logger:    logger,
		maxStates: pipeline.DefaultMaxStates,
		walkTTL:   session.DefaultTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.SetHeader("Server", buildinfo.UserAgent()))

	r.Get("/healthz", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/explore", s.handleExplore)
		r.Post("/layout", s.handleLayout)
		r.Post("/render", s.handleRender)
		r.Post("/neighbors", s.handleNeighbors)

		if s.sessions != nil {
			r.Route("/walks", func(r chi.Router) {
				r.Post("/", s.handleCreateWalk)
				r.Get("/{id}", s.handleGetWalk)
				r.Delete("/{id}", s.handleDeleteWalk)
				r.Post("/{id}/select", s.handleSelect)
				r.Post("/{id}/undo", s.handleUndo)
				r.Post("/{id}/reset", s.handleReset)
			})
		}
	})

	return r
}

// logRequests logs each request at debug level and reports it to the HTTP
// hooks under its route pattern.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		elapsed := time.Since(start)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		hooks.OnResponse(r.Context(), r.Method, route, status, elapsed)

		s.logger.Debug("request",
			"method", r.Method,
			"route", route,
			"status", status,
			"request_id", middleware.GetReqID(r.Context()),
			"duration", elapsed)
	})
}

// ListenAndServe serves until ctx is canceled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string, readTimeout, writeTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      writeTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}
