package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/skein/internal"
	"github.com/starford/skein/internal/site"
	pkgconfig "github.com/starford/skein/pkg/config"
)

var version = "dev"

// load reads the project configuration and installs the JSON logger.
func load(cmd *cli.Command) (*internal.Config, []internal.Option, error) {
	root := cmd.String("root")
	configPath := cmd.String("config")
	if configPath == "" {
		configPath = filepath.Join(root, site.ConfigFile)
	}

	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadOptional(configPath, cfg); err != nil {
		return nil, nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Logs go to stderr; stdout carries the MCP stdio transport.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Debug("Configuration loaded",
		slog.String("root", root),
		slog.String("config", configPath),
		slog.String("log_level", cfg.LogLevel.String()))

	opts := []internal.Option{
		internal.WithConfig(cfg),
		internal.WithProjectRoot(root),
		internal.WithLogger(logger),
		internal.WithVersion(version),
	}
	return cfg, opts, nil
}

func build(ctx context.Context, cmd *cli.Command) error {
	_, opts, err := load(cmd)
	if err != nil {
		return err
	}
	if _, err := internal.Build(ctx, opts...); err != nil {
		return fmt.Errorf("build failed: %w", err)
	}
	return nil
}

func serveOn(host string) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		cfg, opts, err := load(cmd)
		if err != nil {
			return err
		}
		if cmd.IsSet("port") {
			cfg.Serve.Port = int(cmd.Int("port"))
		}
		if cmd.IsSet("watch") {
			cfg.Serve.Watch = cmd.Bool("watch")
		}
		if err := cfg.Serve.Validate(); err != nil {
			return fmt.Errorf("invalid serve options: %w", err)
		}
		return internal.Serve(ctx, host, opts...)
	}
}

func mcp(ctx context.Context, cmd *cli.Command) error {
	_, opts, err := load(cmd)
	if err != nil {
		return err
	}
	return internal.ServeMCP(ctx, opts...)
}

func main() {
	serveFlags := []cli.Flag{
		&cli.IntFlag{
			Name:    "port",
			Aliases: []string{"p"},
			Usage:   "Port to listen on (overrides serve.port)",
			Sources: cli.EnvVars("SKEIN_PORT"),
		},
		&cli.BoolFlag{
			Name:    "watch",
			Aliases: []string{"w"},
			Usage:   "Rebuild on changes and push live-reload events",
		},
	}

	cmd := &cli.Command{
		Name:    "skein",
		Usage:   "Static site generator for Markdown projects with reference-based navigation",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "root",
				Aliases: []string{"r"},
				Usage:   "Project directory",
				Value:   ".",
				Sources: cli.EnvVars("SKEIN_ROOT"),
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "<root>/" + site.ConfigFile,
				Sources:     cli.EnvVars("SKEIN_CONFIG"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "build",
				Usage:  "Build the site into the site directory",
				Action: build,
			},
			{
				Name:   "serve",
				Usage:  "Build and preview the site on localhost",
				Flags:  serveFlags,
				Action: serveOn(internal.HostLocal),
			},
			{
				Name:   "serveany",
				Usage:  "Build and preview the site on all interfaces",
				Flags:  serveFlags,
				Action: serveOn(internal.HostAny),
			},
			{
				Name:   "mcp",
				Usage:  "Build the site and serve its graph to MCP clients over stdio",
				Action: mcp,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
