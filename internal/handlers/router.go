package handlers

import (
	"fmt"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	custommw "finitefield.org/hanko-menu/internal/middleware"
	"finitefield.org/hanko-menu/internal/platform/httpx"
)

// RouteRegistrar registers a set of routes against the provided router.
type RouteRegistrar func(r chi.Router)

type routerConfig struct {
	middlewares []func(http.Handler) http.Handler
	health      *HealthHandlers
	menu        RouteRegistrar
	assets      fs.FS
}

// Option customises the router configuration before construction.
type Option func(*routerConfig)

const (
	defaultTimeout    = 30 * time.Second
	assetsPrefix      = "/assets/"
	errorNotFoundCode = "route_not_found"
)

// NewRouter constructs the chi router with shared middleware and the menu routes.
func NewRouter(opts ...Option) chi.Router {
	cfg := routerConfig{
		middlewares: []func(http.Handler) http.Handler{
			middleware.RequestID,
			middleware.RealIP,
			middleware.Timeout(defaultTimeout),
		},
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	r := chi.NewRouter()

	if cfg.health == nil {
		cfg.health = NewHealthHandlers()
	}

	for _, mw := range cfg.middlewares {
		if mw != nil {
			r.Use(mw)
		}
	}
	r.Use(custommw.HTMX())

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		httpx.WriteError(req.Context(), w, httpx.NewError(errorNotFoundCode, fmt.Sprintf("no route for %s", req.URL.Path), http.StatusNotFound))
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		httpx.WriteError(req.Context(), w, httpx.NewError("method_not_allowed", fmt.Sprintf("method %s not allowed on %s", req.Method, req.URL.Path), http.StatusMethodNotAllowed))
	})

	r.Get("/healthz", cfg.health.Healthz)
	r.Get("/readyz", cfg.health.Readyz)

	if cfg.assets != nil {
		r.Handle(assetsPrefix+"*", http.StripPrefix(strings.TrimSuffix(assetsPrefix, "/"), custommw.Assets(cfg.assets)))
	}

	if cfg.menu != nil {
		r.Group(func(group chi.Router) {
			cfg.menu(group)
		})
	}

	return r
}

// WithMiddlewares appends additional global middleware to the router.
func WithMiddlewares(mw ...func(http.Handler) http.Handler) Option {
	return func(cfg *routerConfig) {
		cfg.middlewares = append(cfg.middlewares, mw...)
	}
}

// WithHealthHandlers overrides the handlers used for /healthz and /readyz endpoints.
func WithHealthHandlers(h *HealthHandlers) Option {
	return func(cfg *routerConfig) {
		cfg.health = h
	}
}

// WithMenuRoutes configures the registrar responsible for the menu pages and JSON view.
func WithMenuRoutes(reg RouteRegistrar) Option {
	return func(cfg *routerConfig) {
		cfg.menu = reg
	}
}

// WithAssets serves static files from fsys under /assets/.
func WithAssets(fsys fs.FS) Option {
	return func(cfg *routerConfig) {
		cfg.assets = fsys
	}
}
