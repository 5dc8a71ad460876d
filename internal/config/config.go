// Package config loads server settings from defaults, an optional
// config.yaml, a .env file and the process environment, in increasing order
// of precedence.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Store     StoreConfig     `mapstructure:"store"`
	Auth      AuthConfig      `mapstructure:"auth"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Log       LogConfig       `mapstructure:"log"`
	Content   ContentConfig   `mapstructure:"content"`
}

type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// StoreConfig selects the Forum State Store backend: memory, sqlite or postgres.
type StoreConfig struct {
	Driver      string `mapstructure:"driver"`
	DBPath      string `mapstructure:"db_path"`
	DatabaseURL string `mapstructure:"database_url"`
}

// AuthConfig holds GitHub OAuth settings. Sign-in is disabled unless
// JWTSecret and both GitHub credentials are set.
type AuthConfig struct {
	JWTSecret          string `mapstructure:"jwt_secret"`
	GitHubClientID     string `mapstructure:"github_client_id"`
	GitHubClientSecret string `mapstructure:"github_client_secret"`
	GitHubCallbackURL  string `mapstructure:"github_callback_url"`
}

// Enabled reports whether every credential sign-in needs is present.
func (a AuthConfig) Enabled() bool {
	return a.JWTSecret != "" && a.GitHubClientID != "" && a.GitHubClientSecret != ""
}

// RateLimitConfig bounds write requests per client IP. RPS <= 0 disables it.
type RateLimitConfig struct {
	RPS   float64 `mapstructure:"rps"`
	Burst int     `mapstructure:"burst"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// ContentConfig points at a catalogue file; empty means the built-in one.
type ContentConfig struct {
	Path string `mapstructure:"path"`
}

// envBindings maps config keys to the flat variable names used in deployment.
var envBindings = map[string]string{
	"server.port":               "PORT",
	"store.driver":              "STORE_DRIVER",
	"store.db_path":             "DB_PATH",
	"store.database_url":        "DATABASE_URL",
	"auth.jwt_secret":           "JWT_SECRET",
	"auth.github_client_id":     "GITHUB_CLIENT_ID",
	"auth.github_client_secret": "GITHUB_CLIENT_SECRET",
	"auth.github_callback_url":  "GITHUB_CALLBACK_URL",
	"rate_limit.rps":            "RATE_LIMIT_RPS",
	"rate_limit.burst":          "RATE_LIMIT_BURST",
	"log.level":                 "LOG_LEVEL",
	"content.path":              "CONTENT_PATH",
}

// Load reads configuration. configDirs are searched for config.yaml; when
// none are given the working directory and ./config are used.
func Load(configDirs ...string) (*Config, error) {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(configDirs) == 0 {
		configDirs = []string{".", "./config"}
	}
	for _, dir := range configDirs {
		v.AddConfigPath(dir)
	}

	v.SetDefault("server.port", 8080)
	v.SetDefault("store.driver", "memory")
	v.SetDefault("store.db_path", "data/climate-hub.db")
	v.SetDefault("rate_limit.rps", 1.0)
	v.SetDefault("rate_limit.burst", 5)
	v.SetDefault("log.level", "info")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("config: binding %s: %w", env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decoding: %w", err)
	}

	if cfg.Auth.GitHubCallbackURL == "" {
		cfg.Auth.GitHubCallbackURL = fmt.Sprintf("http://localhost:%d/auth/github/callback", cfg.Server.Port)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config: invalid port %d", c.Server.Port)
	}
	switch c.Store.Driver {
	case "memory", "sqlite":
	case "postgres":
		if c.Store.DatabaseURL == "" {
			return errors.New("config: store driver postgres requires DATABASE_URL")
		}
	default:
		return fmt.Errorf("config: unknown store driver %q", c.Store.Driver)
	}
	if c.RateLimit.RPS > 0 && c.RateLimit.Burst < 1 {
		return fmt.Errorf("config: rate limit burst must be at least 1, got %d", c.RateLimit.Burst)
	}
	return nil
}

// SlogLevel parses Log.Level, falling back to Info for unknown values.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo
	}
	return level
}
