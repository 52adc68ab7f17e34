package testutil

import (
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"finitefield.org/pokedex-web/internal/catalog"
	"finitefield.org/pokedex-web/internal/i18n"
	"finitefield.org/pokedex-web/internal/pokeapi"
	"finitefield.org/pokedex-web/internal/web"
)

type serverConfig struct {
	baseURL       string
	logger        *zap.Logger
	fetchTimeout  time.Duration
	routerOptions []web.Option
}

// ServerOption customises the HTTP server configuration for tests.
type ServerOption func(*serverConfig)

// WithPokeAPI points the catalog at a PokeAPI root, usually FakePokeAPI.BaseURL.
func WithPokeAPI(baseURL string) ServerOption {
	return func(cfg *serverConfig) {
		cfg.baseURL = baseURL
	}
}

// WithLogger replaces the no-op logger.
func WithLogger(logger *zap.Logger) ServerOption {
	return func(cfg *serverConfig) {
		cfg.logger = logger
	}
}

// WithRouterOptions forwards options to web.NewRouter.
func WithRouterOptions(opts ...web.Option) ServerOption {
	return func(cfg *serverConfig) {
		cfg.routerOptions = append(cfg.routerOptions, opts...)
	}
}

// NewServer constructs an httptest server running the full web stack against the configured PokeAPI.
func NewServer(t testing.TB, opts ...ServerOption) *httptest.Server {
	t.Helper()

	cfg := serverConfig{
		baseURL:      "http://127.0.0.1:1" + APIPrefix,
		logger:       zap.NewNop(),
		fetchTimeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	transport := pokeapi.NewHTTPTransport(
		pokeapi.WithTimeout(cfg.fetchTimeout),
		pokeapi.WithLogger(cfg.logger),
	)
	client, err := pokeapi.NewClient(transport, cfg.baseURL)
	if err != nil {
		t.Fatalf("pokeapi client: %v", err)
	}
	bundle, err := i18n.Default("en")
	if err != nil {
		t.Fatalf("i18n: %v", err)
	}
	router, err := web.NewRouter(web.Deps{
		List:    catalog.NewListLoader(client),
		Pokemon: catalog.NewPokemonLoader(client),
		Ability: catalog.NewAbilityLoader(client),
		Bundle:  bundle,
		Logger:  cfg.logger,
	}, cfg.routerOptions...)
	if err != nil {
		t.Fatalf("router: %v", err)
	}

	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)
	return ts
}
