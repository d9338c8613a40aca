// Package config loads tock configuration from a TOML file, an optional
// .env file and TOCK_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dori/tock/internal/store"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Environment variables that override the file
const (
	EnvDataDir  = "TOCK_DATA_DIR"
	EnvStore    = "TOCK_STORE"
	EnvLogLevel = "TOCK_LOG_LEVEL"
	EnvNotify   = "TOCK_NOTIFY"
)

// FileName is the config file name inside the config directory
const FileName = "config.toml"

// Config holds application configuration
type Config struct {
	DataDir string       `toml:"data_dir"`
	Store   StoreConfig  `toml:"store"`
	Log     LogConfig    `toml:"log"`
	Notify  NotifyConfig `toml:"notify"`
	UI      UIConfig     `toml:"ui"`
}

type StoreConfig struct {
	Backend string `toml:"backend"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

type NotifyConfig struct {
	Enabled bool `toml:"enabled"`
}

type UIConfig struct {
	Theme string `toml:"theme"`
}

// Default returns the configuration used when no file exists
func Default() *Config {
	return &Config{
		DataDir: DefaultDataDir(),
		Store:   StoreConfig{Backend: store.BackendSQLite},
		Log:     LogConfig{Level: "info"},
		Notify:  NotifyConfig{Enabled: false},
		UI:      UIConfig{Theme: "nord"},
	}
}

// DefaultDataDir returns the default data directory path
func DefaultDataDir() string {
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, "tock")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".tock"
	}
	return filepath.Join(home, ".local", "share", "tock")
}

// DefaultPath returns the default config file path
func DefaultPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return FileName
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "tock", FileName)
}

// Loader loads configuration from its sources.
type Loader struct {
	path    string
	envFile string
}

// NewLoader creates a Loader for the given config file.
// An empty path uses DefaultPath.
func NewLoader(path string) *Loader {
	return NewLoaderWithEnvFile(path, ".env")
}

// NewLoaderWithEnvFile creates a Loader with a custom .env location.
// This is useful for testing.
func NewLoaderWithEnvFile(path, envFile string) *Loader {
	if path == "" {
		path = DefaultPath()
	}
	return &Loader{path: path, envFile: envFile}
}

// Path returns the config file the loader reads
func (l *Loader) Path() string {
	return l.path
}

// Load returns defaults <- file <- .env <- environment.
// A missing config file or .env file is not an error.
func (l *Loader) Load() (*Config, error) {
	cfg := Default()

	content, err := os.ReadFile(l.path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(content, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", l.path, err)
		}
	case !errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("read config file: %w", err)
	}

	dotenv := map[string]string{}
	if l.envFile != "" {
		dotenv, err = godotenv.Read(l.envFile)
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("read env file %s: %w", l.envFile, err)
			}
			dotenv = map[string]string{}
		}
	}

	lookup := func(key string) (string, bool) {
		if value, exists := os.LookupEnv(key); exists && value != "" {
			return value, true
		}
		value, exists := dotenv[key]
		return value, exists
	}
	if err := cfg.applyEnv(lookup); err != nil {
		return nil, err
	}

	cfg.DataDir = ExpandHome(cfg.DataDir)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvDataDir); ok && v != "" {
		c.DataDir = v
	}
	if v, ok := lookup(EnvStore); ok && v != "" {
		c.Store.Backend = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.Log.Level = v
	}
	if v, ok := lookup(EnvNotify); ok && v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s value %q: %w", EnvNotify, v, err)
		}
		c.Notify.Enabled = enabled
	}
	return nil
}

// Validate checks values that cannot be defaulted
func (c *Config) Validate() error {
	c.Store.Backend = strings.ToLower(strings.TrimSpace(c.Store.Backend))
	if !store.IsBackend(c.Store.Backend) {
		return fmt.Errorf("unknown store backend %q (want one of %s)",
			c.Store.Backend, strings.Join(store.Backends(), ", "))
	}
	if strings.TrimSpace(c.DataDir) == "" {
		return errors.New("data_dir cannot be empty")
	}
	return nil
}

// ExpandHome replaces a leading ~ with the user's home directory
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
