// Package config provides configuration loading and validation for MVPMoral.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults applied by ApplyDefaults when a field is unset.
const (
	DefaultLookupTimeout  = 10 * time.Second
	DefaultCacheTTL       = 24 * time.Hour
	DefaultSweepInterval  = time.Hour
	DefaultMaxWorkers     = 4
	DefaultHistoryDBPath  = "mvpmoral.db"
	DefaultNVDEndpoint    = "https://services.nvd.nist.gov/rest/json/cves/2.0"
	maxConfigurableWorker = 64
)

// Duration wraps time.Duration so values like "30m" or "12h" parse from YAML.
type Duration time.Duration

// UnmarshalYAML parses a Go duration string.
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw string
	if err := unmarshal(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config represents the complete configuration for an analysis run.
type Config struct {
	NVD               NVDConfig         `yaml:"nvd,omitempty"`
	Cache             CacheConfig       `yaml:"cache,omitempty"`
	Pipeline          PipelineConfig    `yaml:"pipeline,omitempty"`
	History           HistoryConfig     `yaml:"history,omitempty"`
	SeverityOverrides map[string]string `yaml:"severity_overrides,omitempty"`
}

// NVDConfig controls CVSS score lookups against the NVD API.
type NVDConfig struct {
	Endpoint      string   `yaml:"endpoint,omitempty"`
	APIKey        string   `yaml:"api_key,omitempty"`
	LookupTimeout Duration `yaml:"lookup_timeout,omitempty"`
}

// CacheConfig controls the in-memory score cache.
type CacheConfig struct {
	TTL           Duration `yaml:"ttl,omitempty"`
	SweepInterval Duration `yaml:"sweep_interval,omitempty"`
}

// PipelineConfig controls the triage pipeline.
type PipelineConfig struct {
	MaxWorkers int `yaml:"max_workers,omitempty"`
}

// HistoryConfig controls analysis history persistence.
type HistoryConfig struct {
	DBPath string `yaml:"db_path,omitempty"`
}

// LoadConfig reads and parses a YAML configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // Path is from trusted source (config file)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	config.ApplyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// DefaultConfig returns a configuration with all defaults applied.
func DefaultConfig() *Config {
	config := &Config{}
	config.ApplyDefaults()
	return config
}

// ApplyDefaults fills unset fields with their default values.
func (c *Config) ApplyDefaults() {
	if c.NVD.Endpoint == "" {
		c.NVD.Endpoint = DefaultNVDEndpoint
	}
	if c.NVD.LookupTimeout == 0 {
		c.NVD.LookupTimeout = Duration(DefaultLookupTimeout)
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = Duration(DefaultCacheTTL)
	}
	if c.Cache.SweepInterval == 0 {
		c.Cache.SweepInterval = Duration(DefaultSweepInterval)
	}
	if c.Pipeline.MaxWorkers == 0 {
		c.Pipeline.MaxWorkers = DefaultMaxWorkers
	}
	if c.History.DBPath == "" {
		c.History.DBPath = DefaultHistoryDBPath
	}
}

// Validate ensures the configuration is valid.
func (c *Config) Validate() error {
	if c.NVD.LookupTimeout < 0 {
		return fmt.Errorf("nvd.lookup_timeout must not be negative")
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache.ttl must not be negative")
	}
	if c.Cache.SweepInterval < 0 {
		return fmt.Errorf("cache.sweep_interval must not be negative")
	}
	if c.Pipeline.MaxWorkers < 1 {
		return fmt.Errorf("pipeline.max_workers must be at least 1")
	}
	if c.Pipeline.MaxWorkers > maxConfigurableWorker {
		return fmt.Errorf("pipeline.max_workers must not exceed %d", maxConfigurableWorker)
	}

	for key, severity := range c.SeverityOverrides {
		switch severity {
		case "critical", "high", "medium", "low", "info",
			"CRITICAL", "HIGH", "MEDIUM", "LOW", "INFO":
		default:
			return fmt.Errorf("severity_overrides[%s]: unknown severity %q", key, severity)
		}
	}

	return nil
}

// GetSeverityOverride returns the overridden severity for a rule or finding
// name, if any.
func (c *Config) GetSeverityOverride(key string) (string, bool) {
	if c.SeverityOverrides == nil {
		return "", false
	}
	severity, ok := c.SeverityOverrides[key]
	return severity, ok
}
