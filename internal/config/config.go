// File: internal/config/config.go
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Interface defines the contract for accessing application configuration.
// This allows for dependency injection and mocking in tests.
type Interface interface {
	Logger() LoggerConfig
	Storage() StorageConfig
	Database() DatabaseConfig
	Analytics() AnalyticsConfig
	Render() RenderConfig

	// Analytics Setters
	SetAnalyticsWindowDays(int)
	SetAnalyticsTopK(int)
	SetAnalyticsEgoName(string)

	// Render Setters
	SetRenderOutput(string)
	SetRenderPNG(bool)
}

// Config holds the entire application configuration.
type Config struct {
	LoggerCfg    LoggerConfig    `mapstructure:"logger" yaml:"logger"`
	StorageCfg   StorageConfig   `mapstructure:"storage" yaml:"storage"`
	DatabaseCfg  DatabaseConfig  `mapstructure:"database" yaml:"database"`
	AnalyticsCfg AnalyticsConfig `mapstructure:"analytics" yaml:"analytics"`
	RenderCfg    RenderConfig    `mapstructure:"render" yaml:"render"`
}

// --- Interface Method Implementations (Getters) ---

func (c *Config) Logger() LoggerConfig       { return c.LoggerCfg }
func (c *Config) Storage() StorageConfig     { return c.StorageCfg }
func (c *Config) Database() DatabaseConfig   { return c.DatabaseCfg }
func (c *Config) Analytics() AnalyticsConfig { return c.AnalyticsCfg }
func (c *Config) Render() RenderConfig       { return c.RenderCfg }

// --- Interface Method Implementations (Setters) ---

// Analytics Setters
func (c *Config) SetAnalyticsWindowDays(d int)    { c.AnalyticsCfg.RecentWindowDays = d }
func (c *Config) SetAnalyticsTopK(k int)          { c.AnalyticsCfg.TopK = k }
func (c *Config) SetAnalyticsEgoName(name string) { c.AnalyticsCfg.EgoName = name }

// Render Setters
func (c *Config) SetRenderOutput(path string) { c.RenderCfg.Output = path }
func (c *Config) SetRenderPNG(b bool)         { c.RenderCfg.PNG = b }

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig defines the color codes for different log levels.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" yaml:"fatal"`
}

// Storage backends.
const (
	BackendCSV      = "csv"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// StorageConfig selects where the hero and link tables live.
type StorageConfig struct {
	Backend    string `mapstructure:"backend" yaml:"backend"`
	DataDir    string `mapstructure:"data_dir" yaml:"data_dir"`
	HeroesFile string `mapstructure:"heroes_file" yaml:"heroes_file"`
	LinksFile  string `mapstructure:"links_file" yaml:"links_file"`
}

// DatabaseConfig holds the database connection details.
type DatabaseConfig struct {
	URL string `mapstructure:"url" yaml:"url"`
}

// AnalyticsConfig tunes the statistics view.
type AnalyticsConfig struct {
	RecentWindowDays int    `mapstructure:"recent_window_days" yaml:"recent_window_days"`
	TopK             int    `mapstructure:"top_k" yaml:"top_k"`
	EgoName          string `mapstructure:"ego_name" yaml:"ego_name"`
}

// RenderConfig controls the network drawing.
type RenderConfig struct {
	Output     string        `mapstructure:"output" yaml:"output"`
	PNG        bool          `mapstructure:"png" yaml:"png"`
	PNGOutput  string        `mapstructure:"png_output" yaml:"png_output"`
	Seed       int64         `mapstructure:"seed" yaml:"seed"`
	Width      int           `mapstructure:"width" yaml:"width"`
	Height     int           `mapstructure:"height" yaml:"height"`
	Iterations int           `mapstructure:"iterations" yaml:"iterations"`
	Timeout    time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// NewDefaultConfig creates a new configuration struct populated with default values.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// SetDefaults initializes default values for various configuration parameters.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "heronet")
	v.SetDefault("logger.log_file", "heronet.log")
	v.SetDefault("logger.max_size", 10)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)

	// -- Storage --
	v.SetDefault("storage.backend", BackendCSV)
	v.SetDefault("storage.data_dir", ".")
	v.SetDefault("storage.heroes_file", "superheroes.csv")
	v.SetDefault("storage.links_file", "links.csv")

	// -- Analytics --
	v.SetDefault("analytics.recent_window_days", 3)
	v.SetDefault("analytics.top_k", 3)
	v.SetDefault("analytics.ego_name", "dataiskole")

	// -- Render --
	v.SetDefault("render.output", "superhero_network.svg")
	v.SetDefault("render.png", true)
	v.SetDefault("render.png_output", "superhero_network.png")
	v.SetDefault("render.seed", 42)
	v.SetDefault("render.width", 1200)
	v.SetDefault("render.height", 1000)
	v.SetDefault("render.iterations", 50)
	v.SetDefault("render.timeout", "30s")
}

// NewConfigFromViper creates a new configuration instance from a viper object.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config

	// Bind environment variables for sensitive data
	_ = v.BindEnv("database.url", "HERONET_DATABASE_URL")

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for required fields and sane values.
func (c *Config) Validate() error {
	if err := c.StorageCfg.Validate(); err != nil {
		return err
	}
	if c.StorageCfg.Backend == BackendPostgres && c.DatabaseCfg.URL == "" {
		return fmt.Errorf("database.url is required when storage.backend is %q", BackendPostgres)
	}
	if c.AnalyticsCfg.RecentWindowDays < 0 {
		return fmt.Errorf("analytics.recent_window_days must not be negative")
	}
	if c.AnalyticsCfg.TopK < 0 {
		return fmt.Errorf("analytics.top_k must not be negative")
	}
	if err := c.RenderCfg.Validate(); err != nil {
		return fmt.Errorf("render configuration invalid: %w", err)
	}
	return nil
}

// Validate checks the StorageConfig settings.
func (s *StorageConfig) Validate() error {
	switch s.Backend {
	case BackendCSV:
		if s.HeroesFile == "" || s.LinksFile == "" {
			return fmt.Errorf("storage.heroes_file and storage.links_file are required for the csv backend")
		}
	case BackendPostgres, BackendMemory:
	default:
		return fmt.Errorf("storage.backend must be one of %q, %q or %q, got %q", BackendCSV, BackendPostgres, BackendMemory, s.Backend)
	}
	return nil
}

// Validate checks the RenderConfig settings.
func (r *RenderConfig) Validate() error {
	if r.Width <= 0 || r.Height <= 0 {
		return fmt.Errorf("width and height must be positive integers")
	}
	if r.Iterations <= 0 {
		return fmt.Errorf("iterations must be a positive integer")
	}
	if r.Output == "" {
		return fmt.Errorf("output is required")
	}
	if r.PNG && r.PNGOutput == "" {
		return fmt.Errorf("png_output is required when png is enabled")
	}
	if r.Timeout <= 0 {
		return fmt.Errorf("timeout must be a positive duration")
	}
	return nil
}
