package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/tern-lang/ternc/internal/paths"
)

// Config is the optional per-user client configuration. Every field has a
// working default; a missing config file is not an error. Nothing in here
// can override a command-line directive.
type Config struct {
	// ServerPath replaces the derived server image path. Mainly useful for
	// pinning a build of the server during toolchain bring-up.
	ServerPath string `toml:"server_path"`

	// ExistingConnectTimeoutMS bounds connects to an already-running server.
	ExistingConnectTimeoutMS int `toml:"existing_connect_timeout_ms"`

	// SpawnConnectTimeoutMS bounds connects to a freshly spawned server.
	SpawnConnectTimeoutMS int `toml:"spawn_connect_timeout_ms"`

	// LogFile enables the client trace log. The TERNC_LOG_FILE environment
	// variable takes precedence.
	LogFile string `toml:"log_file"`
}

// Defaults from the reference client: existing servers answer fast, new
// servers get time to warm up.
const (
	DefaultExistingConnectTimeout = 2 * time.Second
	DefaultSpawnConnectTimeout    = 60 * time.Second
)

// Load reads the config file and returns the parsed Config.
// If the config file does not exist, it returns an empty Config (no error).
func Load() (*Config, error) {
	return LoadFrom(paths.ConfigFile())
}

// LoadFrom reads and parses a config file at the given path.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return &cfg, nil
}

// ExistingConnectTimeout returns the configured or default timeout for
// connecting to an already-running server.
func (c *Config) ExistingConnectTimeout() time.Duration {
	if c.ExistingConnectTimeoutMS > 0 {
		return time.Duration(c.ExistingConnectTimeoutMS) * time.Millisecond
	}
	return DefaultExistingConnectTimeout
}

// SpawnConnectTimeout returns the configured or default timeout for
// connecting to a freshly spawned server.
func (c *Config) SpawnConnectTimeout() time.Duration {
	if c.SpawnConnectTimeoutMS > 0 {
		return time.Duration(c.SpawnConnectTimeoutMS) * time.Millisecond
	}
	return DefaultSpawnConnectTimeout
}

// ResolvedLogFile returns the trace log path, with the environment variable
// taking precedence over the config file. Empty means no trace log.
func (c *Config) ResolvedLogFile() string {
	if v := os.Getenv("TERNC_LOG_FILE"); v != "" {
		return v
	}
	return c.LogFile
}
