// Package engineconfig holds process-wide tunables for the engine —
// default concurrency, progress log interval, progress registry capacity,
// tracing switch — loaded from a YAML file or environment variables, the same shape the
// teacher uses for its own Config (env-first, yaml for structured
// sections, Validate() before use). Per-algorithm configuration is NOT
// here: it is call-scoped JSON validated by pkg/core, not a process-wide
// setting.
package engineconfig

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config is the engine's process-wide tunables. These values are loaded
// and validated here; no other package in this module reads them.
type Config struct {
	// Concurrency is a process-wide default worker count. Algorithm specs
	// do not read it: each passes its own default to
	// core.ParseGraphSelection when a config omits `concurrency`.
	Concurrency int `yaml:"concurrency"`

	// ProgressLogIntervalItems is a progress log interval, in items
	// processed. The processing template does not read it and emits no
	// periodic progress log line.
	ProgressLogIntervalItems int64 `yaml:"progressLogIntervalItems"`

	// ProgressRegistryCapacity is a capacity for the pkg/progress Registry
	// LRU; callers construct progress.NewRegistry with their own value.
	ProgressRegistryCapacity int `yaml:"progressRegistryCapacity"`

	// EnableTracing is a tracing switch, off by default. The processing
	// template does not read it and opens its otel span on every call.
	EnableTracing bool `yaml:"enableTracing"`
}

// Default returns the engine's built-in defaults.
func Default() *Config {
	return &Config{
		Concurrency:              4,
		ProgressLogIntervalItems: 1024,
		ProgressRegistryCapacity: 256,
		EnableTracing:            false,
	}
}

// LoadFromYAML reads and parses a YAML file, starting from Default() so
// an omitted field keeps its default rather than zeroing out.
func LoadFromYAML(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading engine config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing engine config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadFromEnv overlays GDS_-prefixed environment variables onto Default().
func LoadFromEnv() *Config {
	cfg := Default()
	if v := os.Getenv("GDS_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Concurrency = n
		}
	}
	if v := os.Getenv("GDS_PROGRESS_LOG_INTERVAL_ITEMS"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.ProgressLogIntervalItems = n
		}
	}
	if v := os.Getenv("GDS_PROGRESS_REGISTRY_CAPACITY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.ProgressRegistryCapacity = n
		}
	}
	if v := os.Getenv("GDS_ENABLE_TRACING"); v != "" {
		cfg.EnableTracing = v == "true" || v == "1"
	}
	return cfg
}

// Validate reports the first configuration problem found, or nil.
func (c *Config) Validate() error {
	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be >= 1, got %d", c.Concurrency)
	}
	if c.ProgressLogIntervalItems < 1 {
		return fmt.Errorf("progressLogIntervalItems must be >= 1, got %d", c.ProgressLogIntervalItems)
	}
	if c.ProgressRegistryCapacity < 1 {
		return fmt.Errorf("progressRegistryCapacity must be >= 1, got %d", c.ProgressRegistryCapacity)
	}
	return nil
}
