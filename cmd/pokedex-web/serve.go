package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"finitefield.org/pokedex-web/internal/content"
	"finitefield.org/pokedex-web/internal/i18n"
	"finitefield.org/pokedex-web/internal/observability"
	"finitefield.org/pokedex-web/internal/web"
)

type serveOptions struct {
	addr      string
	templates string
}

func newServeCmd(root *rootOptions) *cobra.Command {
	opts := &serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long:  `Start the web server. It drains in-flight requests on SIGINT or SIGTERM.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), root, opts)
		},
	}
	cmd.Flags().StringVar(&opts.addr, "addr", "", "HTTP listen address (defaults to :$POKEDEX_WEB_PORT)")
	cmd.Flags().StringVar(&opts.templates, "templates", "", "read templates from this directory instead of the embedded copies")
	return cmd
}

func runServe(ctx context.Context, root *rootOptions, opts *serveOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := root.loadConfig(ctx)
	if err != nil {
		return err
	}

	baseLogger, err := observability.NewLogger(cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("initialise logger: %w", err)
	}
	defer func() {
		_ = baseLogger.Sync()
	}()
	logger := baseLogger.Named("web")

	l, err := newLoaders(cfg.PokeAPI, logger)
	if err != nil {
		return err
	}
	bundle, err := i18n.Default(cfg.UI.DefaultLang)
	if err != nil {
		return fmt.Errorf("load locales: %w", err)
	}

	var draining atomic.Bool
	health := web.NewHealthHandlers(web.WithReadinessCheck(web.ReadinessCheck{
		Name: "draining",
		Check: func(context.Context) error {
			if draining.Load() {
				return errors.New("server is shutting down")
			}
			return nil
		},
	}))

	routerOpts := []web.Option{
		web.WithTimeout(cfg.Server.RequestTimeout),
		web.WithDevMode(cfg.UI.DevMode),
		web.WithProgressive(cfg.UI.Progressive),
		web.WithHealthHandlers(health),
	}
	if opts.templates != "" {
		routerOpts = append(routerOpts, web.WithTemplates(os.DirFS(opts.templates)))
	}
	router, err := web.NewRouter(web.Deps{
		List:    l.list,
		Pokemon: l.pokemon,
		Ability: l.ability,
		Bundle:  bundle,
		Content: content.Default(),
		Logger:  logger,
	}, routerOpts...)
	if err != nil {
		return err
	}

	addr := opts.addr
	if addr == "" {
		addr = cfg.Server.Addr()
	}
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serverLogger := logger.Named("http").With(zap.String("addr", addr))
	errCh := make(chan error, 1)
	go func() {
		serverLogger.Info("pokedex-web listening",
			zap.String("pokeapi", cfg.PokeAPI.BaseURL),
			zap.Bool("dev", cfg.UI.DevMode),
			zap.Bool("progressive", cfg.UI.Progressive),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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

	logger.Info("shutdown signal received; draining requests")
	draining.Store(true)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
		return err
	}
	return nil
}
