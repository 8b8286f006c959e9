// Package config loads the converter configuration: defaults, then an
// optional YAML file, then a .env file, then environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/twinfer/ricograph/mapping"
	"github.com/twinfer/ricograph/namespace"
	"github.com/twinfer/ricograph/rdf"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config is the full converter configuration.
type Config struct {
	BaseNamespace string          `yaml:"base_namespace"`
	Input         InputConfig     `yaml:"input"`
	Output        OutputConfig    `yaml:"output"`
	Store         StoreConfig     `yaml:"store"`
	Geocoding     GeocodingConfig `yaml:"geocoding"`
	Logging       LoggingConfig   `yaml:"logging"`
	Metrics       MetricsConfig   `yaml:"metrics"`
	IgnoreSheets  []string        `yaml:"ignore_sheets"`
}

// InputConfig names the two workbooks.
type InputConfig struct {
	Mapping   string `yaml:"mapping"`
	Instances string `yaml:"instances"`
}

// OutputConfig sets where and how the graph is written.
type OutputConfig struct {
	Path   string `yaml:"path"`
	Format string `yaml:"format"`
}

// Store backends.
const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// StoreConfig selects the statement store backend.
type StoreConfig struct {
	Backend string `yaml:"backend"`
	// DSN is a file path for sqlite and a connection string for postgres.
	DSN string `yaml:"dsn"`
}

// GeocodingConfig configures place enrichment.
type GeocodingConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Username  string        `yaml:"username"`
	Endpoint  string        `yaml:"endpoint"`
	Timeout   time.Duration `yaml:"timeout"`
	CacheSize int           `yaml:"cache_size"`
	// Gazetteer is an optional GeoNames dump searched before the web service.
	Gazetteer string `yaml:"gazetteer"`
}

// LoggingConfig configures log/slog.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig configures the run metrics export.
type MetricsConfig struct {
	// Textfile is a node-exporter textfile path; empty disables export.
	Textfile string `yaml:"textfile"`
}

// Default returns the configuration used when nothing else is set.
func Default() *Config {
	return &Config{
		BaseNamespace: namespace.DefaultBase,
		Input: InputConfig{
			Mapping:   "data/input/mapping1.xlsx",
			Instances: "data/input/instances.xlsx",
		},
		Output: OutputConfig{
			Path:   "data/output/output.ttl",
			Format: string(rdf.FormatTurtle),
		},
		Store: StoreConfig{Backend: BackendMemory},
		Geocoding: GeocodingConfig{
			Enabled:   true,
			Endpoint:  "http://api.geonames.org",
			Timeout:   5 * time.Second,
			CacheSize: 1024,
		},
		Logging:      LoggingConfig{Level: "info", Format: "text"},
		IgnoreSheets: append([]string(nil), mapping.DefaultIgnoredSheets...),
	}
}

// Load builds the configuration. path may be empty; a missing .env file is
// not an error. Values already set in the environment win over .env.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides fields from environment variables.
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	strs := []struct {
		key string
		dst *string
	}{
		{"RICOGRAPH_BASE_NAMESPACE", &c.BaseNamespace},
		{"RICOGRAPH_MAPPING", &c.Input.Mapping},
		{"RICOGRAPH_INSTANCES", &c.Input.Instances},
		{"RICOGRAPH_OUTPUT", &c.Output.Path},
		{"RICOGRAPH_FORMAT", &c.Output.Format},
		{"RICOGRAPH_STORE", &c.Store.Backend},
		{"RICOGRAPH_STORE_DSN", &c.Store.DSN},
		{"GEONAMES_USERNAME", &c.Geocoding.Username},
		{"GEONAMES_ENDPOINT", &c.Geocoding.Endpoint},
		{"GEONAMES_GAZETTEER", &c.Geocoding.Gazetteer},
		{"LOG_LEVEL", &c.Logging.Level},
		{"LOG_FORMAT", &c.Logging.Format},
		{"RICOGRAPH_METRICS_TEXTFILE", &c.Metrics.Textfile},
	}
	for _, s := range strs {
		if v, ok := lookup(s.key); ok {
			*s.dst = strings.TrimSpace(v)
		}
	}

	if v, ok := lookup("RICOGRAPH_GEOCODING"); ok {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%w: RICOGRAPH_GEOCODING: %v", ErrInvalidConfig, err)
		}
		c.Geocoding.Enabled = b
	}
	if v, ok := lookup("GEONAMES_TIMEOUT"); ok {
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%w: GEONAMES_TIMEOUT: %v", ErrInvalidConfig, err)
		}
		c.Geocoding.Timeout = d
	}
	if v, ok := lookup("RICOGRAPH_IGNORE_SHEETS"); ok {
		c.IgnoreSheets = nil
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				c.IgnoreSheets = append(c.IgnoreSheets, s)
			}
		}
	}
	return nil
}

// Validate checks the configuration for values the converter cannot use.
func (c *Config) Validate() error {
	var errs []error
	if c.BaseNamespace == "" {
		errs = append(errs, errors.New("base_namespace is required"))
	}
	if c.Input.Mapping == "" {
		errs = append(errs, errors.New("input.mapping is required"))
	}
	if c.Input.Instances == "" {
		errs = append(errs, errors.New("input.instances is required"))
	}
	if _, err := rdf.ParseFormat(c.Output.Format); err != nil {
		errs = append(errs, fmt.Errorf("output.format: %w", err))
	}
	switch c.Store.Backend {
	case BackendMemory:
	case BackendSQLite:
		if c.Store.DSN == "" {
			c.Store.DSN = ":memory:"
		}
	case BackendPostgres:
		if c.Store.DSN == "" {
			errs = append(errs, errors.New("store.dsn is required for postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("store.backend %q is not one of memory, sqlite, postgres", c.Store.Backend))
	}
	if c.Geocoding.Timeout <= 0 {
		errs = append(errs, errors.New("geocoding.timeout must be positive"))
	}
	if c.Geocoding.CacheSize < 0 {
		errs = append(errs, errors.New("geocoding.cache_size must not be negative"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}
