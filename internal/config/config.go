// Package config provides application configuration from the environment.
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"

	"wakawaka/internal/wikiword"
)

// Config holds all environment-based configuration. Variables carry the
// WIKI_ prefix, e.g. WIKI_ADDR or WIKI_DEFAULT_INDEX.
type Config struct {
	// Addr is the address the HTTP server binds to.
	Addr string `envconfig:"ADDR" default:":8080"`

	// DSN is the sqlite database path.
	DSN string `envconfig:"DSN" default:"wakawaka.db"`

	// SessionKey signs the session cookies. Must be at least 32 bytes.
	SessionKey string `envconfig:"SESSION_KEY"`

	// DefaultIndex is the slug callers are redirected to from the root.
	DefaultIndex string `envconfig:"DEFAULT_INDEX" default:"WikiIndex"`

	// SlugPattern is the regular expression used by the WikiWord linker
	// and by slug validation. Empty selects the built-in CamelCase one.
	SlugPattern string `envconfig:"SLUG_PATTERN"`

	// Preprocessor selects how stored content becomes markup:
	// plain, markdown or org.
	Preprocessor string `envconfig:"PREPROCESSOR" default:"plain"`

	// LogLevel is the zerolog level name.
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// LogFormat is the log output format (pretty or json).
	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`
}

// Load reads the configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("wiki", &cfg); err != nil {
		return Config{}, fmt.Errorf("error reading configuration: %w", err)
	}
	return cfg, nil
}

// Pattern returns the configured slug pattern, falling back to the default.
func (c Config) Pattern() string {
	if c.SlugPattern == "" {
		return wikiword.DefaultPattern
	}
	return c.SlugPattern
}
