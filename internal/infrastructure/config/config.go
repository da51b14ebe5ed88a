package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App      AppConfig
	Data     DataConfig
	Export   ExportConfig
	Analysis AnalysisConfig
	HTTP     HTTPConfig
	Cache    CacheConfig
	Log      LogConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string `validate:"required"`
	Env  string `validate:"oneof=development production test"`
	Port string `validate:"required,numeric"`
}

// DataConfig points at the directory holding the eight CSV extracts
type DataConfig struct {
	Dir    string `validate:"required"`
	Source string // source label written into the export metadata
}

// ExportConfig holds batch export settings
type ExportConfig struct {
	OutputPath string `validate:"required"`
}

// AnalysisConfig bounds the analysis window. Months are "YYYY-MM" and the
// window is inclusive on both ends.
type AnalysisConfig struct {
	WindowStart string `validate:"required,datetime=2006-01"`
	WindowEnd   string `validate:"required,datetime=2006-01"`
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// CacheConfig holds dashboard snapshot cache settings
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `validate:"oneof=debug info warn error"`
	Format string `validate:"oneof=json console"`
	Output string `validate:"required"`
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with FINDASH_ prefix (e.g. FINDASH_DATA_DIR)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// no config file is fine, defaults and env vars apply
	}

	v.SetEnvPrefix("FINDASH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Data: DataConfig{
			Dir:    v.GetString("data.dir"),
			Source: v.GetString("data.source"),
		},
		Export: ExportConfig{
			OutputPath: v.GetString("export.output_path"),
		},
		Analysis: AnalysisConfig{
			WindowStart: v.GetString("analysis.window_start"),
			WindowEnd:   v.GetString("analysis.window_end"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:  v.GetDuration("http.read_timeout"),
			WriteTimeout: v.GetDuration("http.write_timeout"),
			IdleTimeout:  v.GetDuration("http.idle_timeout"),
		},
		Cache: CacheConfig{
			Enabled: v.GetBool("cache.enabled"),
			TTL:     v.GetDuration("cache.ttl"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setDefaults registers built-in defaults
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "findash")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")

	v.SetDefault("data.dir", "data")
	v.SetDefault("data.source", "Olist Brazilian E-Commerce Dataset (Kaggle)")

	v.SetDefault("export.output_path", "output/dashboard_data.json")

	v.SetDefault("analysis.window_start", "2017-01")
	v.SetDefault("analysis.window_end", "2018-08")

	v.SetDefault("http.read_timeout", 10*time.Second)
	v.SetDefault("http.write_timeout", 30*time.Second)
	v.SetDefault("http.idle_timeout", 60*time.Second)

	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.ttl", 15*time.Minute)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stdout")
}

// Validate checks the configuration for invalid values
func Validate(cfg *Config) error {
	validate := validator.New()
	if err := validate.Struct(cfg.App); err != nil {
		return fmt.Errorf("invalid app config: %w", err)
	}
	if err := validate.Struct(cfg.Data); err != nil {
		return fmt.Errorf("invalid data config: %w", err)
	}
	if err := validate.Struct(cfg.Export); err != nil {
		return fmt.Errorf("invalid export config: %w", err)
	}
	if err := validate.Struct(cfg.Analysis); err != nil {
		return fmt.Errorf("invalid analysis config: %w", err)
	}
	if err := validate.Struct(cfg.Log); err != nil {
		return fmt.Errorf("invalid log config: %w", err)
	}
	if cfg.Analysis.WindowStart > cfg.Analysis.WindowEnd {
		return fmt.Errorf("analysis window start %q is after end %q", cfg.Analysis.WindowStart, cfg.Analysis.WindowEnd)
	}
	return nil
}
