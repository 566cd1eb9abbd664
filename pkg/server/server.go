// Package server exposes boards and edge functions over HTTP.
//
// Routes:
//
//	POST   /functions/v1/{name}                      edge functions
//	GET    /api/tenants/{tenant}/boards              list boards
//	GET    /api/tenants/{tenant}/boards/{id}         fetch a board
//	PUT    /api/tenants/{tenant}/boards/{id}         create or replace a board
//	DELETE /api/tenants/{tenant}/boards/{id}         delete a board
//	GET    /api/tenants/{tenant}/boards/{id}/edges   routed edges
//	GET    /api/tenants/{tenant}/boards/{id}/svg     rendered SVG
//	GET    /api/tenants/{tenant}/boards/{id}/dot     Graphviz DOT
//	GET    /healthz
//	GET    /version
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/campaigncanvas/pkg/config"
	"github.com/matzehuels/campaigncanvas/pkg/functions"
	"github.com/matzehuels/campaigncanvas/pkg/store"
)

// Server wires the store and the edge functions to a chi router.
type Server struct {
	cfg    config.Server
	store  store.Store
	fns    *functions.Service
	logger *log.Logger
	router chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request and error logger.
func WithLogger(l *log.Logger) Option { return func(s *Server) { s.logger = l } }

// New builds the router. fns may be nil, in which case function routes
// answer 404.
func New(st store.Store, fns *functions.Service, cfg config.Server, opts ...Option) *Server {
	s := &Server{cfg: cfg, store: st, fns: fns, logger: log.Default()}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	if d := s.cfg.RequestTimeout.D(); d > 0 {
		r.Use(middleware.Timeout(d))
	}

	r.Get("/healthz", s.handleHealth)
	r.Get("/version", s.handleVersion)
	r.HandleFunc("/functions/v1/{name}", s.handleFunction)

	r.Route("/api/tenants/{tenant}/boards", func(r chi.Router) {
		r.Use(s.cors)
		r.Get("/", s.handleList)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGet)
			r.Put("/", s.handlePut)
			r.Delete("/", s.handleDelete)
			r.Get("/edges", s.handleEdges)
			r.Get("/svg", s.handleSVG)
			r.Get("/dot", s.handleDOT)
		})
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	return r
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	addr := s.cfg.Addr
	if addr == "" {
		addr = ":8080"
	}
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then shuts down
// gracefully within the configured shutdown timeout.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadTimeout:       s.cfg.ReadTimeout.D(),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      s.cfg.WriteTimeout.D(),
		BaseContext:       func(net.Listener) context.Context { return log.WithContext(context.Background(), s.logger) },
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		timeout := s.cfg.ShutdownTimeout.D()
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		sctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(sctx)
	})
	return g.Wait()
}
