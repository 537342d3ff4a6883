package internal

import (
	"log/slog"

	"github.com/starford/skein/internal/hooks"
	"github.com/starford/skein/internal/siteerr"
)

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config   *Config
	root     string
	hooks    *hooks.Registry
	reporter siteerr.Reporter
	logger   *slog.Logger
	version  string
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithProjectRoot sets the project directory (default ".").
func WithProjectRoot(root string) Option {
	return func(a *application) {
		a.root = root
	}
}

// WithHooks registers validators and template filters. Hooks loaded from
// the project's plugin file take precedence.
func WithHooks(reg *hooks.Registry) Option {
	return func(a *application) {
		a.hooks = reg
	}
}

// WithReporter sets the warning reporter; the default logs warnings.
func WithReporter(rep siteerr.Reporter) Option {
	return func(a *application) {
		a.reporter = rep
	}
}

// WithLogger sets the logger; the default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(a *application) {
		a.logger = logger
	}
}

// WithVersion sets the version reported to MCP clients.
func WithVersion(v string) Option {
	return func(a *application) {
		a.version = v
	}
}
