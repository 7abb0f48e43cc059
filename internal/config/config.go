// Package config defines process configuration and its loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Functions that touch the environment accept context.Context first.
// - External errors are wrapped with this package's sentinel kinds.
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Default configuration constants.
const (
	appDirName      = "apex-stats"
	defaultLogFile  = "log.csv"
	dataDirPerm     = 0o755
	defaultAddr     = ":9080"
	defaultBackend  = "csv"
	defaultLogLevel = "info"

	defaultMetricsNamespace = "apexstats"
	defaultMetricsSubsystem = "recorder"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogJSON switches log output to JSON lines.
	LogJSON bool `koanf:"log_json"`

	// DataDir is the directory holding the record store.
	DataDir string `koanf:"data_dir"`

	// LogFile is the record store file name inside DataDir.
	LogFile string `koanf:"log_file"`

	// Backend selects the record store: csv, sqlite or memory.
	Backend string `koanf:"backend"`

	// Addr configures the HTTP listen address used by serve, e.g. ":9080".
	Addr string `koanf:"addr"`

	// Metrics configuration
	MetricsEnabled   bool              `koanf:"metrics_enabled"`
	MetricsNamespace string            `koanf:"metrics_namespace"`
	MetricsSubsystem string            `koanf:"metrics_subsystem"`
	MetricsBuckets   []float64         `koanf:"metrics_buckets"` // latency buckets in ms; empty keeps the Prometheus defaults
	MetricsLabels    map[string]string `koanf:"metrics_labels"`  // constant labels added to every metric
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel: defaultLogLevel,
		DataDir:  defaultDataDir(),
		LogFile:  defaultLogFile,
		Backend:  defaultBackend,
		Addr:     defaultAddr,

		MetricsEnabled:   true,
		MetricsNamespace: defaultMetricsNamespace,
		MetricsSubsystem: defaultMetricsSubsystem,
	}
}

// DataPath returns the full path of the record store.
func (c *Config) DataPath() string {
	return filepath.Join(c.DataDir, c.LogFile)
}

// EnsureDataDir creates DataDir and its parents if missing.
func (c *Config) EnsureDataDir(_ context.Context) error {
	if err := os.MkdirAll(c.DataDir, dataDirPerm); err != nil {
		return fmt.Errorf("%w: create data dir %s: %w", ErrLoadConfig, c.DataDir, err)
	}
	return nil
}

// defaultDataDir follows the XDG base directory layout, falling back to the
// working directory when no home is known.
func defaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, appDirName)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", appDirName)
	}
	return appDirName
}
