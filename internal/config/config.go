// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type ServerConfig struct {
	Port            int           `yaml:"port" env:"PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	RequestTimeout  time.Duration `yaml:"request_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type LogConfig struct {
	Level    string `yaml:"level" env:"LOG_LEVEL"` // trace|debug|info|warn|error
	Format   string `yaml:"format"`                // json|console
	Sampling bool   `yaml:"sampling"`              // enable sampling in prod
}

type DatabaseConfig struct {
	URL      string `yaml:"url" env:"DATABASE_URL"`
	MaxConns int32  `yaml:"max_conns"`
}

type RedisConfig struct {
	URL      string        `yaml:"url" env:"REDIS_URL"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

type BillingConfig struct {
	SecretKey      string        `yaml:"secret_key" env:"STRIPE_SECRET_KEY"`
	WebhookSecret  string        `yaml:"webhook_secret" env:"STRIPE_WEBHOOK_SECRET"`
	MonthlyPriceID string        `yaml:"monthly_price_id" env:"STRIPE_MONTHLY_PRICE_ID"`
	AnnualPriceID  string        `yaml:"annual_price_id" env:"STRIPE_ANNUAL_PRICE_ID"`
	Timeout        time.Duration `yaml:"timeout"`
}

type AuthConfig struct {
	SessionSecret string        `yaml:"session_secret" env:"SESSION_SECRET"`
	CookieName    string        `yaml:"cookie_name"`
	SessionTTL    time.Duration `yaml:"session_ttl"`
}

type ProgressConfig struct {
	// Timezone is the IANA zone used for calendar days when a play carries none.
	Timezone string `yaml:"timezone"`
}

type StatsConfig struct {
	RefreshCron  string        `yaml:"refresh_cron"`
	Interval     time.Duration `yaml:"interval"`
	ActiveWindow time.Duration `yaml:"active_window"`
}

type RateLimitConfig struct {
	PlaysPerMinute int `yaml:"plays_per_minute"`
}

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Billing   BillingConfig   `yaml:"billing"`
	Auth      AuthConfig      `yaml:"auth"`
	Progress  ProgressConfig  `yaml:"progress"`
	Stats     StatsConfig     `yaml:"stats"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`

	Runtime RuntimeConfig `yaml:"-"`
}

// LoadConfig reads the YAML file at path (a missing file is allowed), overlays
// environment variables, applies defaults and validates the result.
func LoadConfig(path string, dev bool) (*Config, error) {
	var cfg Config
	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(b, &cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	applyDefaults(&cfg)
	cfg.Runtime.Dev = dev
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 5000
	}
	if cfg.Server.ReadTimeout <= 0 {
		cfg.Server.ReadTimeout = 10 * time.Second
	}
	if cfg.Server.WriteTimeout <= 0 {
		cfg.Server.WriteTimeout = 30 * time.Second
	}
	if cfg.Server.RequestTimeout <= 0 {
		cfg.Server.RequestTimeout = 20 * time.Second
	}
	if cfg.Server.ShutdownTimeout <= 0 {
		cfg.Server.ShutdownTimeout = 15 * time.Second
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Database.MaxConns <= 0 {
		cfg.Database.MaxConns = 10
	}
	cfg.Redis.TTL = normalizeTTL(cfg.Redis.TTL)
	if cfg.Billing.Timeout <= 0 {
		cfg.Billing.Timeout = 10 * time.Second
	}
	if cfg.Auth.CookieName == "" {
		cfg.Auth.CookieName = "sid"
	}
	if cfg.Auth.SessionTTL <= 0 {
		cfg.Auth.SessionTTL = 7 * 24 * time.Hour
	}
	if cfg.Progress.Timezone == "" {
		cfg.Progress.Timezone = "UTC"
	}
	if cfg.Stats.Interval <= 0 {
		cfg.Stats.Interval = 5 * time.Minute
	}
	if cfg.Stats.RefreshCron == "" {
		cfg.Stats.RefreshCron = "@every " + cfg.Stats.Interval.String()
	}
	if cfg.Stats.ActiveWindow <= 0 {
		cfg.Stats.ActiveWindow = 7 * 24 * time.Hour
	}
	if cfg.RateLimit.PlaysPerMinute <= 0 {
		cfg.RateLimit.PlaysPerMinute = 30
	}
}

// Validate checks the settings needed to boot. Price ids are checked per
// request so a missing plan only fails that plan.
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return errors.New("database.url is required")
	}
	if c.Redis.URL == "" {
		return errors.New("redis.url is required")
	}
	if c.Auth.SessionSecret == "" {
		return errors.New("auth.session_secret is required")
	}
	if c.Billing.SecretKey == "" && !c.Runtime.Dev {
		return errors.New("billing.secret_key is required")
	}
	if _, err := time.LoadLocation(c.Progress.Timezone); err != nil {
		return fmt.Errorf("progress.timezone: %w", err)
	}
	return nil
}

func normalizeTTL(d time.Duration) time.Duration {
	if d <= 0 {
		return time.Hour
	}
	return d
}
