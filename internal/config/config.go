package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Config is the worklens configuration loaded from config.toml.
type Config struct {
	Database DatabaseConfig `toml:"database"`
	Log      LogConfig      `toml:"log"`
	Report   ReportConfig   `toml:"report"`
}

// DatabaseConfig locates the local activity store.
type DatabaseConfig struct {
	Path string `toml:"path"`
}

// LogConfig controls diagnostic output.
type LogConfig struct {
	Level  string `toml:"level"`  // debug | info | warn | error
	Format string `toml:"format"` // text | logfmt | json
}

// ReportConfig holds report defaults.
type ReportConfig struct {
	LookbackDays int    `toml:"lookback_days"` // 0 means unbounded
	EventType    string `toml:"event_type"`    // optional feed filter
}

var validLogLevels = []string{"debug", "info", "warn", "error"}
var validLogFormats = []string{"text", "logfmt", "json"}

// Default returns the baseline configuration for the given database path.
func Default(dbPath string) Config {
	return Config{
		Database: DatabaseConfig{Path: dbPath},
		Log:      LogConfig{Level: "info", Format: "text"},
		Report:   ReportConfig{LookbackDays: 0},
	}
}

// Load reads a TOML config file over the given defaults. A missing or empty
// file yields the defaults unchanged.
func Load(path string, defaults Config) (Config, error) {
	cfg := defaults
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if len(content) == 0 {
		return cfg, nil
	}

	if err := toml.Unmarshal(content, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode toml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for usable values.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Database.Path) == "" {
		return errors.New("database path is required")
	}
	if !slices.Contains(validLogLevels, strings.ToLower(strings.TrimSpace(c.Log.Level))) {
		return fmt.Errorf("invalid log.level: %q", c.Log.Level)
	}
	if !slices.Contains(validLogFormats, strings.ToLower(strings.TrimSpace(c.Log.Format))) {
		return fmt.Errorf("invalid log.format: %q", c.Log.Format)
	}
	if c.Report.LookbackDays < 0 {
		return fmt.Errorf("report.lookback_days must be >= 0, got %d", c.Report.LookbackDays)
	}
	return nil
}

// EnsureConfigDir creates the config file's parent directory.
func EnsureConfigDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
