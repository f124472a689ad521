package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/quartzlab/whisker/pkg/quartiles"
)

// Config holds all configuration options for whisker.
type Config struct {
	// Analysis settings
	Analysis AnalysisConfig `koanf:"analysis" toml:"analysis"`

	// Input handling
	Input InputConfig `koanf:"input" toml:"input"`

	// Cache settings
	Cache CacheConfig `koanf:"cache" toml:"cache"`

	// Output settings
	Output OutputConfig `koanf:"output" toml:"output"`
}

// AnalysisConfig controls how summaries are computed.
type AnalysisConfig struct {
	Policy      string `koanf:"policy" toml:"policy"`             // tukey, real, or fair
	MaxOutliers int    `koanf:"max_outliers" toml:"max_outliers"` // cap on listed outlier indices per series
}

// InputConfig controls dataset loading.
type InputConfig struct {
	Columns []string `koanf:"columns" toml:"columns"` // restrict to named series; empty means all
}

// CacheConfig controls caching behavior.
type CacheConfig struct {
	Enabled bool   `koanf:"enabled" toml:"enabled"`
	Dir     string `koanf:"dir" toml:"dir"`
	TTL     int    `koanf:"ttl" toml:"ttl"` // TTL in hours
}

// OutputConfig controls output formatting.
type OutputConfig struct {
	Format  string `koanf:"format" toml:"format"` // text, json, markdown, toon
	Color   bool   `koanf:"color" toml:"color"`
	Verbose bool   `koanf:"verbose" toml:"verbose"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			Policy:      string(quartiles.PolicyTukey),
			MaxOutliers: 20,
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     ".whisker/cache",
			TTL:     24,
		},
		Output: OutputConfig{
			Format:  "text",
			Color:   true,
			Verbose: false,
		},
	}
}

// Policy returns the configured quartile policy.
func (c *Config) Policy() (quartiles.Policy, error) {
	return quartiles.ParsePolicy(c.Analysis.Policy)
}

// Validate checks semantic constraints the schema cannot express.
func (c *Config) Validate() error {
	if _, err := c.Policy(); err != nil {
		return err
	}
	if c.Analysis.MaxOutliers < 0 {
		return fmt.Errorf("analysis.max_outliers must be >= 0, got %d", c.Analysis.MaxOutliers)
	}
	return nil
}

// Load loads configuration from a file, validating it against the config
// schema before unmarshaling.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	// Determine parser based on extension
	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		parser = toml.Parser()
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}

	if err := validateSchema(k.Raw()); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// LoadOrDefault tries to load config from standard locations or returns defaults.
func LoadOrDefault() *Config {
	configNames := []string{
		"whisker.toml",
		"whisker.yaml",
		"whisker.yml",
		"whisker.json",
		".whisker.toml",
		".whisker.yaml",
		".whisker.yml",
		".whisker.json",
	}

	searchDirs := []string{".", ".whisker"}

	for _, dir := range searchDirs {
		for _, name := range configNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				cfg, err := Load(path)
				if err == nil {
					return cfg
				}
			}
		}
	}

	return DefaultConfig()
}
