// Package config loads the per-project settings in .learnpath/config.yaml.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/felixgeelhaar/learnpath/internal/infrastructure/catalogapi"
	"github.com/felixgeelhaar/learnpath/pkg/storage"
	"gopkg.in/yaml.v3"
)

// Environment variables that override the file.
const (
	EnvAPI      = "LEARNPATH_API"
	EnvLogLevel = "LEARNPATH_LOG_LEVEL"
)

// DefaultLogLevel is used when nothing else is configured.
const DefaultLogLevel = "warn"

// ErrInvalidLogLevel is returned for an unknown log level name.
var ErrInvalidLogLevel = errors.New("invalid log level")

// Config stores project settings.
type Config struct {
	APIBaseURL     string        `yaml:"api_base_url"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	LogLevel       string        `yaml:"log_level"`
	StateFile      string        `yaml:"state_file"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		APIBaseURL:     catalogapi.DefaultBaseURL,
		RequestTimeout: catalogapi.DefaultTimeout,
		LogLevel:       DefaultLogLevel,
		StateFile:      storage.StateFile,
	}
}

// Load reads config.yaml under root. A missing file yields Default.
// Fields left empty in the file keep their defaults.
func Load(root string) (*Config, error) {
	cfg := Default()

	path, err := storage.NewFilesystemRepository(root).ResolvePath(storage.ConfigFile)
	if err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return cfg, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.merge(file)

	if _, err := ParseLevel(cfg.LogLevel); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Save writes cfg to config.yaml under root.
func Save(root string, cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	path, err := storage.NewFilesystemRepository(root).ResolvePath(storage.ConfigFile)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0600)
}

func (c *Config) merge(o Config) {
	if o.APIBaseURL != "" {
		c.APIBaseURL = o.APIBaseURL
	}
	if o.RequestTimeout > 0 {
		c.RequestTimeout = o.RequestTimeout
	}
	if o.LogLevel != "" {
		c.LogLevel = o.LogLevel
	}
	if o.StateFile != "" {
		c.StateFile = o.StateFile
	}
}

// ApplyEnv overlays the LEARNPATH_* variables found through getenv.
// A nil getenv means os.Getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if getenv == nil {
		getenv = os.Getenv
	}
	c.merge(Config{
		APIBaseURL: strings.TrimSpace(getenv(EnvAPI)),
		LogLevel:   strings.TrimSpace(getenv(EnvLogLevel)),
	})
}

// Overrides holds command-line values; empty fields are ignored.
type Overrides struct {
	APIBaseURL string
	LogLevel   string
}

// ApplyOverrides overlays flag values.
func (c *Config) ApplyOverrides(o Overrides) {
	c.merge(Config{APIBaseURL: o.APIBaseURL, LogLevel: o.LogLevel})
}

// Level returns the slog level for LogLevel.
func (c *Config) Level() slog.Level {
	lvl, err := ParseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelWarn
	}
	return lvl
}

// ParseLevel maps debug, info, warn and error to slog levels.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "", "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelWarn, fmt.Errorf("%w: %q", ErrInvalidLogLevel, s)
	}
}
