// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v10"
	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type BotConfig struct {
	Token    string  `yaml:"token" env:"TELEGRAM_TOKEN"`
	Username string  `yaml:"username" env:"BOT_USERNAME"` // mention handle; resolved from the API when empty
	Workers  int     `yaml:"workers" env:"BOT_WORKERS"`   // polling workers
	AdminIDs []int64 `yaml:"admin_ids" env:"BOT_ADMIN_IDS" envSeparator:","`
}

type LogConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL"`   // trace|debug|info|warn|error
	Format string `yaml:"format" env:"LOG_FORMAT"` // json|console
}

type DatabaseConfig struct {
	Driver string `yaml:"driver" env:"DB_DRIVER"` // postgres | sqlite
	URL    string `yaml:"url" env:"DATABASE_URL"` // postgres only
	Path   string `yaml:"path" env:"DB_FILE"`     // sqlite only
}

type RedisConfig struct {
	URL      string        `yaml:"url" env:"REDIS_URL"` // empty disables the cache and rate limiter
	Password string        `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int           `yaml:"db" env:"REDIS_DB"`
	TTL      time.Duration `yaml:"ttl" env:"REDIS_TTL"`
}

type ShapesConfig struct {
	BaseURL string `yaml:"base_url" env:"SHAPES_API_URL"`
	Model   string `yaml:"model" env:"SHAPES_MODEL"`
}

type WebConfig struct {
	Port       int    `yaml:"port" env:"WEB_PORT"`
	AdminToken string `yaml:"admin_token" env:"ADMIN_TOKEN"` // empty disables the admin API
	JWTSecret  string `yaml:"jwt_secret" env:"JWT_SECRET"`
}

type Config struct {
	Bot      BotConfig      `yaml:"bot"`
	Log      LogConfig      `yaml:"log"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Shapes   ShapesConfig   `yaml:"shapes"`
	Web      WebConfig      `yaml:"web"`

	Runtime RuntimeConfig `yaml:"-"`
}

// LoadConfig reads the YAML file (optional), applies environment overrides,
// fills defaults and validates. The only fatal condition is a missing bot
// token: without it the relay cannot serve any traffic.
func LoadConfig(path string, dev bool) (*Config, error) {
	var cfg Config
	if b, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Environment wins over the file; 12-factor deployments ship no file at all.
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("env config: %w", err)
	}

	// defaults
	if cfg.Bot.Workers <= 0 {
		cfg.Bot.Workers = 8
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "sqlite"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "shape_bot.db"
	}
	if cfg.Redis.TTL <= 0 {
		cfg.Redis.TTL = time.Hour
	}
	if cfg.Shapes.BaseURL == "" {
		cfg.Shapes.BaseURL = "https://api.shapes.inc/v1"
	}
	if cfg.Shapes.Model == "" {
		cfg.Shapes.Model = "shapesinc/shape-username"
	}
	if cfg.Web.Port <= 0 {
		cfg.Web.Port = 8080
	}

	// Minimal validation
	if cfg.Bot.Token == "" {
		return nil, errors.New("bot.token is required")
	}
	switch cfg.Database.Driver {
	case "postgres":
		if cfg.Database.URL == "" {
			return nil, errors.New("database.url is required for the postgres driver")
		}
	case "sqlite":
	default:
		return nil, fmt.Errorf("unknown database.driver %q", cfg.Database.Driver)
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}
