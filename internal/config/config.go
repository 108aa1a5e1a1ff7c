// Package config handles the configuration directory, config file and
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	// AppName is the application directory name.
	AppName = "todo"

	// ConfigFile is the optional TOML config filename.
	ConfigFile = "config.toml"

	// DefaultAPIURL is the base URL of the todos API.
	DefaultAPIURL = "http://localhost:8000"

	// DefaultTimeout bounds each API request.
	DefaultTimeout = 5 * time.Second

	// DefaultServerAddr is the listen address for the dev server.
	DefaultServerAddr = "localhost:8000"
)

// Environment variables that override the config file.
const (
	EnvAPIURL   = "TODO_API_URL"
	EnvLogLevel = "TODO_LOG_LEVEL"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string `toml:"-"`

	// APIURL is the base URL; requests go to APIURL + "/api/todos".
	APIURL string `toml:"api_url"`

	// Timeout bounds each API request.
	Timeout Duration `toml:"timeout"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `toml:"log_level"`

	Server ServerConfig `toml:"server"`

	// Debug enables debug logging.
	Debug bool `toml:"-"`

	// Quiet suppresses informational output.
	Quiet bool `toml:"-"`
}

// ServerConfig configures the dev server.
type ServerConfig struct {
	Addr string `toml:"addr"`

	// Database is a SQLite file path. Empty keeps todos in memory.
	Database string `toml:"database"`
}

// Duration is a time.Duration decoded from a TOML string such as "5s".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	d.Duration = v
	return nil
}

// New creates a Config with defaults and the default or specified config
// directory. It does not read the config file; see Load.
// If configDir is empty, uses XDG_CONFIG_HOME/todo or $HOME/.config/todo.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	return &Config{
		Dir:     dir,
		APIURL:  DefaultAPIURL,
		Timeout: Duration{DefaultTimeout},
		Server:  ServerConfig{Addr: DefaultServerAddr},
	}, nil
}

// Load creates a Config, applies config.toml from the config directory if
// it exists, then applies environment overrides.
func Load(configDir string) (*Config, error) {
	cfg, err := New(configDir)
	if err != nil {
		return nil, err
	}

	if _, err := toml.DecodeFile(cfg.FilePath(), cfg); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading config file %s: %w", cfg.FilePath(), err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvAPIURL)); v != "" {
		c.APIURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		c.LogLevel = v
	}
}

// Validate checks derived values.
func (c *Config) Validate() error {
	c.APIURL = strings.TrimRight(strings.TrimSpace(c.APIURL), "/")
	if c.APIURL == "" {
		return fmt.Errorf("api_url must not be empty")
	}
	if !strings.HasPrefix(c.APIURL, "http://") && !strings.HasPrefix(c.APIURL, "https://") {
		return fmt.Errorf("api_url must start with http:// or https://: %s", c.APIURL)
	}
	if c.Timeout.Duration <= 0 {
		return fmt.Errorf("timeout must be positive: %s", c.Timeout.Duration)
	}
	return nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// FilePath returns the path to the config file.
func (c *Config) FilePath() string {
	return filepath.Join(c.Dir, ConfigFile)
}
