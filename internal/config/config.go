// Package config loads repopulse configuration from YAML files,
// .env files, and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/repopulse/repopulse-go/internal/analytics"
)

// Config holds all settings for a run.
type Config struct {
	// Storage configuration
	Storage StorageConfig `yaml:"storage" mapstructure:"storage"`

	// GitHub configuration
	GitHub GitHubConfig `yaml:"github" mapstructure:"github"`

	// Cache configuration
	Cache CacheConfig `yaml:"cache" mapstructure:"cache"`

	// Analysis knobs
	Analysis AnalysisConfig `yaml:"analysis" mapstructure:"analysis"`

	// Annotation (LLM briefing) configuration
	Annotate AnnotateConfig `yaml:"annotate" mapstructure:"annotate"`

	// Output configuration
	Output OutputConfig `yaml:"output" mapstructure:"output"`
}

type StorageConfig struct {
	Type        string `yaml:"type" mapstructure:"type"` // "sqlite", "postgres"
	PostgresDSN string `yaml:"postgres_dsn" mapstructure:"postgres_dsn"`
	LocalPath   string `yaml:"local_path" mapstructure:"local_path"`
}

type GitHubConfig struct {
	Token     string `yaml:"token" mapstructure:"token"`
	RateLimit int    `yaml:"rate_limit" mapstructure:"rate_limit"` // Requests per second
}

type CacheConfig struct {
	Path string        `yaml:"path" mapstructure:"path"`
	TTL  time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

type AnalysisConfig struct {
	WindowDays           int     `yaml:"window_days" mapstructure:"window_days"`
	HalfLifeDays         float64 `yaml:"half_life_days" mapstructure:"half_life_days"`
	FolderDepth          int     `yaml:"folder_depth" mapstructure:"folder_depth"`
	CoverageThreshold    float64 `yaml:"coverage_threshold" mapstructure:"coverage_threshold"`
	BottleneckPercentile float64 `yaml:"bottleneck_percentile" mapstructure:"bottleneck_percentile"`
	InactivityDays       int     `yaml:"inactivity_days" mapstructure:"inactivity_days"`
}

type AnnotateConfig struct {
	APIKey string `yaml:"api_key" mapstructure:"api_key"`
	Model  string `yaml:"model" mapstructure:"model"`
}

type OutputConfig struct {
	Format string `yaml:"format" mapstructure:"format"` // "text", "json", "yaml"
}

// Default returns the default configuration.
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	opts := analytics.DefaultOptions()
	return &Config{
		Storage: StorageConfig{
			Type:      "sqlite",
			LocalPath: filepath.Join(homeDir, ".repopulse", "pulse.db"),
		},
		GitHub: GitHubConfig{
			RateLimit: 5,
		},
		Cache: CacheConfig{
			Path: filepath.Join(homeDir, ".repopulse", "cache.db"),
			TTL:  24 * time.Hour,
		},
		Analysis: AnalysisConfig{
			WindowDays:           90,
			HalfLifeDays:         opts.DecayHalfLifeDays,
			FolderDepth:          opts.FolderDepth,
			CoverageThreshold:    opts.CoverageThreshold,
			BottleneckPercentile: opts.BottleneckPercentile,
			InactivityDays:       opts.InactivityDays,
		},
		Annotate: AnnotateConfig{
			Model: "gpt-4o-mini",
		},
		Output: OutputConfig{
			Format: "text",
		},
	}
}

// Load loads configuration: defaults, then a config file if present, then
// .env files, then environment variables (highest precedence).
func Load(path string) (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	v.SetConfigType("yaml")

	cfg := Default()
	v.SetDefault("storage", cfg.Storage)
	v.SetDefault("github", cfg.GitHub)
	v.SetDefault("cache", cfg.Cache)
	v.SetDefault("analysis", cfg.Analysis)
	v.SetDefault("annotate", cfg.Annotate)
	v.SetDefault("output", cfg.Output)

	v.SetEnvPrefix("PULSE")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".repopulse")
		v.AddConfigPath(".")
		homeDir, _ := os.UserHomeDir()
		v.AddConfigPath(filepath.Join(homeDir, ".repopulse"))
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
		// No config file is fine, defaults apply.
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the analysis engine would refuse anyway, so
// bad config fails at startup instead of mid-run.
func (c *Config) Validate() error {
	switch c.Storage.Type {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("storage.type must be sqlite or postgres, got %q", c.Storage.Type)
	}
	if c.Storage.Type == "postgres" && c.Storage.PostgresDSN == "" {
		return fmt.Errorf("storage.postgres_dsn is required when storage.type is postgres")
	}
	if c.Analysis.WindowDays <= 0 {
		return fmt.Errorf("analysis.window_days must be positive, got %d", c.Analysis.WindowDays)
	}
	if c.Analysis.HalfLifeDays < 0 {
		return fmt.Errorf("analysis.half_life_days must not be negative, got %v", c.Analysis.HalfLifeDays)
	}
	if c.Analysis.InactivityDays < 0 {
		return fmt.Errorf("analysis.inactivity_days must not be negative, got %d", c.Analysis.InactivityDays)
	}
	switch c.Output.Format {
	case "text", "json", "yaml":
	default:
		return fmt.Errorf("output.format must be text, json, or yaml, got %q", c.Output.Format)
	}
	return c.AnalysisOptions().Validate()
}

// AnalysisOptions bridges config to the engine's option set. Values copy
// over verbatim: Load seeds every knob from the defaults, so a zero here
// is a deliberate setting (decay off, zero coverage threshold), not an
// absent one.
func (c *Config) AnalysisOptions() analytics.Options {
	opts := analytics.DefaultOptions()
	opts.DecayHalfLifeDays = c.Analysis.HalfLifeDays
	opts.FolderDepth = c.Analysis.FolderDepth
	opts.CoverageThreshold = c.Analysis.CoverageThreshold
	opts.BottleneckPercentile = c.Analysis.BottleneckPercentile
	opts.InactivityDays = c.Analysis.InactivityDays
	return opts
}

// loadEnvFiles loads .env files in order of precedence.
func loadEnvFiles() {
	for _, file := range []string{".env.local", ".env"} {
		if _, err := os.Stat(file); err == nil {
			godotenv.Load(file)
		}
	}
	homeDir, _ := os.UserHomeDir()
	homeEnvFile := filepath.Join(homeDir, ".repopulse", ".env")
	if _, err := os.Stat(homeEnvFile); err == nil {
		godotenv.Load(homeEnvFile)
	}
}

// applyEnvOverrides applies environment variable overrides.
func applyEnvOverrides(cfg *Config) {
	if token := os.Getenv("PULSE_GITHUB_TOKEN"); token != "" {
		cfg.GitHub.Token = token
	}
	if rateLimit := os.Getenv("PULSE_GITHUB_RATE_LIMIT"); rateLimit != "" {
		if r, err := strconv.Atoi(rateLimit); err == nil {
			cfg.GitHub.RateLimit = r
		}
	}
	if key := os.Getenv("PULSE_OPENAI_API_KEY"); key != "" {
		cfg.Annotate.APIKey = key
	}
	if dsn := os.Getenv("PULSE_POSTGRES_DSN"); dsn != "" {
		cfg.Storage.Type = "postgres"
		cfg.Storage.PostgresDSN = dsn
	}
	if format := os.Getenv("PULSE_OUTPUT_FORMAT"); format != "" {
		cfg.Output.Format = format
	}
}
