package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName  string `mapstructure:"app_name"`
	Env      string `mapstructure:"app_env"`
	LogLevel string `mapstructure:"log_level"`

	// Client side: where the hero API lives and how the service addresses it.
	APIBaseURL            string        `mapstructure:"api_base_url"`
	HeroesPath            string        `mapstructure:"heroes_path"`
	HTTPTimeoutSeconds    int64         `mapstructure:"http_timeout_seconds"`
	HTTPTimeout           time.Duration `mapstructure:"-"`
	PublishersFile        string        `mapstructure:"publishers_file"`
	PublishTimeoutSeconds int64         `mapstructure:"publish_timeout_seconds"`
	PublishTimeout        time.Duration `mapstructure:"-"`

	// Dev backend.
	APIAddr     string `mapstructure:"api_addr"`
	StorageType string `mapstructure:"storage_type"`
	BBoltPath   string `mapstructure:"bbolt_path"`
	SeedFile    string `mapstructure:"seed_file"`
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "tour-of-heroes")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("api_base_url", "http://localhost:8080")
	v.SetDefault("heroes_path", "api/heroes")
	v.SetDefault("http_timeout_seconds", 10)
	v.SetDefault("publishers_file", "")
	v.SetDefault("publish_timeout_seconds", 5)
	v.SetDefault("api_addr", ":8080")
	v.SetDefault("storage_type", "memory")
	v.SetDefault("bbolt_path", "./data/heroes.db")
	v.SetDefault("seed_file", "./configs/heroes.yaml")

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.finalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// finalize validates raw values and fills the derived durations.
func (c *Config) finalize() error {
	c.APIBaseURL = strings.TrimRight(strings.TrimSpace(c.APIBaseURL), "/")
	c.HeroesPath = strings.TrimSpace(c.HeroesPath)
	if c.HeroesPath == "" {
		return fmt.Errorf("invalid heroes_path (must not be empty)")
	}

	if c.HTTPTimeoutSeconds <= 0 {
		return fmt.Errorf("invalid http_timeout_seconds (must be positive seconds)")
	}
	c.HTTPTimeout = time.Duration(c.HTTPTimeoutSeconds) * time.Second

	if c.PublishTimeoutSeconds <= 0 {
		return fmt.Errorf("invalid publish_timeout_seconds (must be positive seconds)")
	}
	c.PublishTimeout = time.Duration(c.PublishTimeoutSeconds) * time.Second

	return nil
}
