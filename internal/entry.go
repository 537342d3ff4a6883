// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/starford/skein/internal/build"
	"github.com/starford/skein/internal/hooks"
	"github.com/starford/skein/internal/index"
	"github.com/starford/skein/internal/mcpserver"
	"github.com/starford/skein/internal/scanner"
	"github.com/starford/skein/internal/server"
	"github.com/starford/skein/internal/siteservice"
	"github.com/starford/skein/internal/sse"
	"github.com/starford/skein/internal/watcher"
)

// Listen hosts for the serve and serveany commands.
const (
	HostLocal = "127.0.0.1"
	HostAny   = "0.0.0.0"
)

func newApplication(opts []Option) (*application, error) {
	app := &application{root: ".", version: "dev"}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if app.logger == nil {
		app.logger = slog.Default()
	}

	root, err := filepath.Abs(app.root)
	if err != nil {
		return nil, fmt.Errorf("resolve project root: %w", err)
	}
	app.root = root

	reg := hooks.New()
	reg.Merge(app.hooks)
	plug, err := hooks.LoadPlugin(filepath.Join(root, hooks.PluginFile))
	if err != nil {
		return nil, err
	}
	reg.Merge(plug)
	app.hooks = reg
	return app, nil
}

func (a *application) buildConfig() build.Config {
	return build.Config{
		Root:     a.root,
		Options:  a.config.Build,
		Hooks:    a.hooks,
		Reporter: a.reporter,
		Logger:   a.logger,
	}
}

// Build builds the project once.
func Build(ctx context.Context, opts ...Option) (*build.Result, error) {
	app, err := newApplication(opts)
	if err != nil {
		return nil, err
	}
	app.logger.Info("Building site",
		slog.String("root", app.root),
		slog.String("site_dir", app.config.Build.SiteDir))
	return build.Run(ctx, app.buildConfig())
}

// Serve builds the project and serves it on host until ctx is cancelled or
// a shutdown signal arrives. With serve.watch the site is rebuilt on every
// change and clients are notified over SSE.
func Serve(ctx context.Context, host string, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config
	logger := app.logger

	// Initialize SQLite search index.
	db, err := index.Open(cfg.Serve.SearchDB)
	if err != nil {
		return fmt.Errorf("init index: %w", err)
	}
	defer db.Close()

	// SSE broker.
	broker := sse.NewBroker(500 * time.Millisecond)
	defer broker.Close()

	svc := siteservice.NewService(app.buildConfig(), db, broker)

	// A failed initial build still serves whatever output already exists.
	if err := svc.Rebuild(ctx); err != nil && !cfg.Serve.Watch {
		return err
	}

	router := server.NewRouter(svc, server.Options{
		SiteDir:   cfg.Build.SitePath(app.root),
		BaseURL:   cfg.Build.BaseURL,
		FileExt:   cfg.Build.FileExt,
		Events:    broker,
		AccessLog: logger.Enabled(ctx, slog.LevelDebug),
	})

	addr := cfg.Serve.Address(host)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	// Start file watcher with rebuild callback.
	if cfg.Serve.Watch {
		skip := watchSkip(app.root, cfg)
		g.Go(func() error {
			return watcher.Watch(gCtx, app.root, skip, logger, func() {
				_ = svc.Rebuild(gCtx)
			})
		})
	}

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}
		return errShutdown
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errShutdown) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// errShutdown cancels the group so the watcher stops with the server.
var errShutdown = errors.New("shutdown")

// ServeMCP builds the project and serves the MCP tools on stdin/stdout.
func ServeMCP(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}

	db, err := index.Open(index.Memory)
	if err != nil {
		return fmt.Errorf("init index: %w", err)
	}
	defer db.Close()

	svc := siteservice.NewService(app.buildConfig(), db, nil)
	if err := svc.Rebuild(ctx); err != nil {
		app.logger.Warn("initial build failed", slog.String("error", err.Error()))
	}

	return mcpserver.New(svc, app.version).ServeStdio()
}

// watchSkip excludes the output directory, hidden files and user ignore
// patterns from watching. Underscore names stay watched so that layouts and
// site metadata trigger rebuilds.
func watchSkip(root string, cfg *Config) watcher.SkipFunc {
	m := scanner.NewMatcher([]string{".*"}, cfg.Build.IgnorePatterns)
	siteRel := ""
	if rel, err := filepath.Rel(root, cfg.Build.SitePath(root)); err == nil && !strings.HasPrefix(rel, "..") {
		siteRel = filepath.ToSlash(rel)
	}
	return func(rel string, _ bool) bool {
		if siteRel != "" && (rel == siteRel || strings.HasPrefix(rel, siteRel+"/")) {
			return true
		}
		for _, part := range strings.Split(rel, "/") {
			if m.Match(part) {
				return true
			}
		}
		return false
	}
}
