// Package config loads service settings from the environment and an optional .env file.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 从环境变量读取
type Config struct {
	Port string `mapstructure:"PORT"`
	// GatewayBaseURL is the upstream inventory API, e.g. http://localhost:2021/api.
	GatewayBaseURL string        `mapstructure:"GATEWAY_BASE_URL"`
	GatewayTimeout time.Duration `mapstructure:"GATEWAY_TIMEOUT"`
	// AssetBaseURL prefixes relative item image paths.
	AssetBaseURL string `mapstructure:"ASSET_BASE_URL"`
	WebOrigin    string `mapstructure:"WEB_ORIGIN"`
	// RedisAddr empty keeps sessions in process memory.
	RedisAddr string `mapstructure:"REDIS_ADDR"`
	RedisPwd  string `mapstructure:"REDIS_PASSWORD"`
	// DatabaseURL empty disables the loan audit trail.
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	MaxUploadMB int64  `mapstructure:"MAX_UPLOAD_MB"`
}

var defaults = map[string]any{
	"PORT":             "3001",
	"GATEWAY_BASE_URL": "http://localhost:2021/api",
	"GATEWAY_TIMEOUT":  "10s",
	"ASSET_BASE_URL":   "http://localhost:2021/",
	"WEB_ORIGIN":       "http://localhost:5173",
	"REDIS_ADDR":       "",
	"REDIS_PASSWORD":   "",
	"DATABASE_URL":     "",
	"MAX_UPLOAD_MB":    10,
}

// LoadEnv reads .env into the process environment if present.
func LoadEnv() { _ = godotenv.Load() }

// Load reads .env (if any) and the environment, applying defaults.
func Load() (*Config, error) {
	LoadEnv()

	v := viper.New()
	v.AutomaticEnv()
	for k, def := range defaults {
		v.SetDefault(k, def)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	cfg.GatewayBaseURL = strings.TrimRight(strings.TrimSpace(cfg.GatewayBaseURL), "/")
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.GatewayBaseURL == "" {
		return errors.New("GATEWAY_BASE_URL is required")
	}
	if c.GatewayTimeout <= 0 {
		return errors.New("GATEWAY_TIMEOUT must be positive")
	}
	if c.MaxUploadMB <= 0 {
		return errors.New("MAX_UPLOAD_MB must be positive")
	}
	return nil
}
