package web

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"finitefield.org/pokedex-web/internal/catalog"
	"finitefield.org/pokedex-web/internal/content"
	"finitefield.org/pokedex-web/internal/httpx"
	"finitefield.org/pokedex-web/internal/i18n"
	mw "finitefield.org/pokedex-web/internal/middleware"
	"finitefield.org/pokedex-web/internal/observability"
)

const (
	defaultTimeout = 30 * time.Second
	assetsPrefix   = "/assets"
)

// Deps are the collaborators the pages need.
type Deps struct {
	List    *catalog.ListLoader
	Pokemon *catalog.PokemonLoader
	Ability *catalog.AbilityLoader
	Bundle  *i18n.Bundle
	Content *content.Store
	Logger  *zap.Logger
}

type routerConfig struct {
	timeout     time.Duration
	dev         bool
	progressive bool
	templates   fs.FS
	static      fs.FS
	health      *HealthHandlers
	middlewares []func(http.Handler) http.Handler
}

// Option customises the router configuration before construction.
type Option func(*routerConfig)

// WithTimeout bounds every request; in-flight PokeAPI calls are cancelled with it.
func WithTimeout(d time.Duration) Option {
	return func(cfg *routerConfig) {
		if d > 0 {
			cfg.timeout = d
		}
	}
}

// WithDevMode reparses templates on every request.
func WithDevMode(dev bool) Option {
	return func(cfg *routerConfig) {
		cfg.dev = dev
	}
}

// WithProgressive renders a loading shell on full-page requests and loads the content over htmx.
func WithProgressive(progressive bool) Option {
	return func(cfg *routerConfig) {
		cfg.progressive = progressive
	}
}

// WithTemplates overrides the template filesystem, e.g. os.DirFS for live editing.
func WithTemplates(fsys fs.FS) Option {
	return func(cfg *routerConfig) {
		if fsys != nil {
			cfg.templates = fsys
		}
	}
}

// WithHealthHandlers overrides the handlers used for /healthz and /readyz endpoints.
func WithHealthHandlers(h *HealthHandlers) Option {
	return func(cfg *routerConfig) {
		cfg.health = h
	}
}

// WithMiddlewares appends additional global middleware to the router.
func WithMiddlewares(m ...func(http.Handler) http.Handler) Option {
	return func(cfg *routerConfig) {
		cfg.middlewares = append(cfg.middlewares, m...)
	}
}

// NewRouter constructs the chi router with the shared middleware stack and every page route.
func NewRouter(deps Deps, opts ...Option) (chi.Router, error) {
	if deps.List == nil || deps.Pokemon == nil || deps.Ability == nil {
		return nil, errors.New("web: catalog loaders are required")
	}
	if deps.Bundle == nil {
		return nil, errors.New("web: i18n bundle is required")
	}
	if deps.Content == nil {
		deps.Content = content.Default()
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	cfg := routerConfig{
		timeout:   defaultTimeout,
		templates: Templates(),
		static:    Static(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.health == nil {
		cfg.health = NewHealthHandlers()
	}

	renderer, err := NewRenderer(cfg.templates, cfg.dev)
	if err != nil {
		return nil, fmt.Errorf("web: parse templates: %w", err)
	}
	pages := &Pages{
		list:        deps.List,
		pokemon:     deps.Pokemon,
		ability:     deps.Ability,
		content:     deps.Content,
		bundle:      deps.Bundle,
		renderer:    renderer,
		progressive: cfg.progressive,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	// RealIP trusts X-Forwarded-For; deploy behind a proxy that sets it.
	r.Use(middleware.RealIP)
	r.Use(observability.TraceMiddleware)
	r.Use(observability.InjectLoggerMiddleware(deps.Logger))
	r.Use(observability.NavigationMiddleware)
	r.Use(observability.RequestLoggerMiddleware)
	r.Use(observability.RecoveryMiddleware(deps.Logger))
	r.Use(middleware.GetHead)
	r.Use(mw.HTMX)
	for _, m := range cfg.middlewares {
		if m != nil {
			r.Use(m)
		}
	}

	r.Get("/healthz", cfg.health.Healthz)
	r.Get("/readyz", cfg.health.Readyz)
	r.Handle(assetsPrefix+"/*", mw.AssetsWithCache(cfg.static, assetsPrefix))

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, "/", http.StatusFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		httpx.WriteError(req.Context(), w, req, httpx.NewError("method_not_allowed", fmt.Sprintf("method %s not allowed on %s", req.Method, req.URL.Path), http.StatusMethodNotAllowed))
	})

	r.Group(func(page chi.Router) {
		page.Use(middleware.Compress(5))
		page.Use(middleware.Timeout(cfg.timeout))
		page.Use(mw.VaryLocale)
		page.Use(mw.Locale(deps.Bundle))

		page.Get("/", pages.List)
		page.Get("/pokemon/", pages.Pokemon)
		page.Get("/pokemon/{name}", pages.Pokemon)
		page.Get("/ability/", pages.Ability)
		page.Get("/ability/{name}", pages.Ability)
		page.Get("/about", pages.About)
	})

	return r, nil
}
