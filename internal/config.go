package internal

import (
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/skein/internal/site"
)

// Config represents the tool configuration read from <root>/_config.yml.
type Config struct {
	LogLevel slog.Level   `yaml:"log_level"`
	Build    site.Options `yaml:"build"`
	Serve    ServeConfig  `yaml:"serve"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.Build.Validate(); err != nil {
		return fmt.Errorf("build: %w", err)
	}
	if err := c.Serve.Validate(); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

// ServeConfig holds preview server configuration.
type ServeConfig struct {
	Port int `yaml:"port"`
	// Watch rebuilds on file changes and pushes live-reload events.
	Watch bool `yaml:"watch"`
	// SearchDB is the SQLite file backing the search API; empty keeps it in memory.
	SearchDB string `yaml:"search_db"`
}

// Address returns the listen address on host.
func (c *ServeConfig) Address(host string) string {
	return fmt.Sprintf("%s:%d", host, c.Port)
}

// Validate validates the serve configuration.
func (c *ServeConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		LogLevel: slog.LevelInfo,
		Build:    site.DefaultOptions(),
		Serve: ServeConfig{
			Port: 8000,
		},
	}
}
