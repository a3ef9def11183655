// Package config loads crossjob settings from defaults, an optional YAML
// file, CROSSJOB_* environment variables and command-line flags, in that
// order of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// Config is the complete crossjob configuration.
type Config struct {
	DB       DBConfig       `yaml:"db"`
	Schema   SchemaConfig   `yaml:"schema"`
	Autosave AutosaveConfig `yaml:"autosave"`
	NATS     NATSConfig     `yaml:"nats"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Log      LogConfig      `yaml:"log"`
}

type DBConfig struct {
	// Path is the SQLite database file.
	Path string `yaml:"path"`
}

// SchemaConfig selects where visa field schemas come from.
type SchemaConfig struct {
	// TablePath overrides the embedded classification table. The file is
	// watched and reloaded on change.
	TablePath string `yaml:"table_path"`
	// RemoteURL is the schema service base URL (empty = offline only).
	RemoteURL string `yaml:"remote_url"`
	// RemoteTimeout bounds one remote lookup.
	RemoteTimeout time.Duration `yaml:"remote_timeout"`
	// LoadTimeout bounds one engine schema load across every source.
	LoadTimeout time.Duration `yaml:"load_timeout"`
}

type AutosaveConfig struct {
	Debounce    time.Duration `yaml:"debounce"`
	SavedRevert time.Duration `yaml:"saved_revert"`
}

// NATSConfig configures the completion event publisher.
type NATSConfig struct {
	// URL is the NATS server URL (empty = events are not published).
	URL string `yaml:"url"`
	// Subject is the prefix events are published under.
	Subject string `yaml:"subject"`
}

type MetricsConfig struct {
	// Addr serves /metrics when set, e.g. ":9464".
	Addr string `yaml:"addr"`
}

type LogConfig struct {
	// Calls logs autosave and schema loads to stderr.
	Calls bool `yaml:"calls"`
}

// DefaultConfig returns a Config with defaults. The database lives under
// the user's home directory when one can be found.
func DefaultConfig() *Config {
	dbPath := "crossjob.db"
	if home, err := os.UserHomeDir(); err == nil {
		dbPath = filepath.Join(home, ".crossjob", "crossjob.db")
	}
	return &Config{
		DB: DBConfig{Path: dbPath},
		Schema: SchemaConfig{
			RemoteTimeout: 3 * time.Second,
			LoadTimeout:   5 * time.Second,
		},
		Autosave: AutosaveConfig{
			Debounce:    800 * time.Millisecond,
			SavedRevert: 2 * time.Second,
		},
		NATS: NATSConfig{Subject: "crossjob.events"},
	}
}

// LoadFromFile loads configuration from a YAML file over the defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overrides fields from CROSSJOB_* environment variables. Values
// that fail to parse are ignored.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("CROSSJOB_DB"); v != "" {
		c.DB.Path = v
	}
	if v := os.Getenv("CROSSJOB_SCHEMA_TABLE"); v != "" {
		c.Schema.TablePath = v
	}
	if v := os.Getenv("CROSSJOB_SCHEMA_URL"); v != "" {
		c.Schema.RemoteURL = v
	}
	if v := os.Getenv("CROSSJOB_SCHEMA_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Schema.RemoteTimeout = time.Duration(n) * time.Millisecond
		}
	}
	if v := os.Getenv("CROSSJOB_AUTOSAVE_DEBOUNCE_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Autosave.Debounce = time.Duration(n) * time.Millisecond
		}
	}
	if v := os.Getenv("CROSSJOB_AUTOSAVE_REVERT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Autosave.SavedRevert = time.Duration(n) * time.Millisecond
		}
	}
	if v := os.Getenv("CROSSJOB_NATS_URL"); v != "" {
		c.NATS.URL = v
	}
	if v := os.Getenv("CROSSJOB_NATS_SUBJECT"); v != "" {
		c.NATS.Subject = v
	}
	if v := os.Getenv("CROSSJOB_METRICS_ADDR"); v != "" {
		c.Metrics.Addr = v
	}
	if v := os.Getenv("CROSSJOB_LOG_CALLS"); v != "" {
		c.Log.Calls, _ = strconv.ParseBool(v)
	}
}

// Merge merges another config into this one; other takes precedence for
// non-zero values.
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}
	if other.DB.Path != "" {
		c.DB.Path = other.DB.Path
	}
	if other.Schema.TablePath != "" {
		c.Schema.TablePath = other.Schema.TablePath
	}
	if other.Schema.RemoteURL != "" {
		c.Schema.RemoteURL = other.Schema.RemoteURL
	}
	if other.Schema.RemoteTimeout != 0 {
		c.Schema.RemoteTimeout = other.Schema.RemoteTimeout
	}
	if other.Schema.LoadTimeout != 0 {
		c.Schema.LoadTimeout = other.Schema.LoadTimeout
	}
	if other.Autosave.Debounce != 0 {
		c.Autosave.Debounce = other.Autosave.Debounce
	}
	if other.Autosave.SavedRevert != 0 {
		c.Autosave.SavedRevert = other.Autosave.SavedRevert
	}
	if other.NATS.URL != "" {
		c.NATS.URL = other.NATS.URL
	}
	if other.NATS.Subject != "" {
		c.NATS.Subject = other.NATS.Subject
	}
	if other.Metrics.Addr != "" {
		c.Metrics.Addr = other.Metrics.Addr
	}
	if other.Log.Calls {
		c.Log.Calls = true
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	var errs []error
	if c.DB.Path == "" {
		errs = append(errs, errors.New("db.path is required"))
	}
	if c.Autosave.Debounce <= 0 {
		errs = append(errs, errors.New("autosave.debounce must be positive"))
	}
	if c.Autosave.SavedRevert <= 0 {
		errs = append(errs, errors.New("autosave.saved_revert must be positive"))
	}
	if c.Schema.LoadTimeout <= 0 {
		errs = append(errs, errors.New("schema.load_timeout must be positive"))
	}
	if c.NATS.URL != "" && c.NATS.Subject == "" {
		errs = append(errs, errors.New("nats.subject is required when nats.url is set"))
	}
	return errors.Join(errs...)
}

// Flag names shared by RegisterFlags and ApplyFlags.
const (
	FlagConfig      = "config"
	FlagDB          = "db"
	FlagSchemaTable = "schema-table"
	FlagSchemaURL   = "schema-url"
	FlagNATSURL     = "nats-url"
	FlagMetricsAddr = "metrics-addr"
	FlagLogCalls    = "log-calls"
)

// RegisterFlags adds the global configuration flags to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String(FlagConfig, "", "path to a YAML config file")
	fs.String(FlagDB, "", "SQLite database path")
	fs.String(FlagSchemaTable, "", "visa classification table (YAML), watched for changes")
	fs.String(FlagSchemaURL, "", "schema service base URL")
	fs.String(FlagNATSURL, "", "NATS server URL for completion events")
	fs.String(FlagMetricsAddr, "", "address to serve Prometheus metrics on")
	fs.Bool(FlagLogCalls, false, "log autosave and schema loads to stderr")
}

// ApplyFlags overrides fields from flags the user set explicitly.
func (c *Config) ApplyFlags(fs *pflag.FlagSet) {
	str := func(name string, dst *string) {
		if f := fs.Lookup(name); f != nil && f.Changed {
			*dst = f.Value.String()
		}
	}
	str(FlagDB, &c.DB.Path)
	str(FlagSchemaTable, &c.Schema.TablePath)
	str(FlagSchemaURL, &c.Schema.RemoteURL)
	str(FlagNATSURL, &c.NATS.URL)
	str(FlagMetricsAddr, &c.Metrics.Addr)
	if f := fs.Lookup(FlagLogCalls); f != nil && f.Changed {
		c.Log.Calls, _ = fs.GetBool(FlagLogCalls)
	}
}

// Load builds the effective configuration: defaults, then the file named by
// --config or CROSSJOB_CONFIG, then the environment, then explicit flags.
func Load(fs *pflag.FlagSet) (*Config, error) {
	path := os.Getenv("CROSSJOB_CONFIG")
	if fs != nil {
		if f := fs.Lookup(FlagConfig); f != nil && f.Changed {
			path = f.Value.String()
		}
	}

	cfg := DefaultConfig()
	if path != "" {
		fileCfg, err := LoadFromFile(path)
		if err != nil {
			return nil, err
		}
		cfg = fileCfg
	}
	cfg.ApplyEnv()
	if fs != nil {
		cfg.ApplyFlags(fs)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
