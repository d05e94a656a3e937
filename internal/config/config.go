// Package config loads hearthd settings from a TOML file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// DefaultPath is read when HEARTH_CONFIG is not set.
const DefaultPath = "hearth.toml"

// devJWTSecret signs tokens in dev mode when no secret is configured.
const devJWTSecret = "hearth-dev-secret"

// Config holds all hearthd configuration.
type Config struct {
	Server      ServerConfig      `toml:"server"`
	Database    DatabaseConfig    `toml:"database"`
	Auth        AuthConfig        `toml:"auth"`
	Log         LogConfig         `toml:"log"`
	Settlements SettlementsConfig `toml:"settlements"`
	Cache       CacheConfig       `toml:"cache"`
	Display     DisplayConfig     `toml:"display"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Port              int           `toml:"port"`
	StaticPath        string        `toml:"static_path,omitempty"`
	ReadHeaderTimeout time.Duration `toml:"read_header_timeout"`
	// Dev relaxes checks that only matter in production.
	Dev bool `toml:"dev"`
}

// DatabaseConfig holds SQLite settings.
type DatabaseConfig struct {
	Path string `toml:"path"`
}

// AuthConfig holds token and login settings.
type AuthConfig struct {
	JWTSecret          string        `toml:"jwt_secret,omitempty"`
	TokenTTL           time.Duration `toml:"token_ttl"`
	LoginRatePerMinute int           `toml:"login_rate_per_minute"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "text" or "json"
}

// SettlementsConfig holds settlement settings.
type SettlementsConfig struct {
	HistoryLimit int `toml:"history_limit"`
}

// CacheConfig holds in-process cache settings.
type CacheConfig struct {
	MemberTTL time.Duration `toml:"member_ttl"`
}

// DisplayConfig holds presentation settings.
type DisplayConfig struct {
	Currency string `toml:"currency"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Port:              8080,
			ReadHeaderTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Path: "./data/hearth.db",
		},
		Auth: AuthConfig{
			TokenTTL:           24 * time.Hour,
			LoginRatePerMinute: 10,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Settlements: SettlementsConfig{
			HistoryLimit: 25,
		},
		Cache: CacheConfig{
			MemberTTL: time.Minute,
		},
		Display: DisplayConfig{
			Currency: "USD",
		},
	}
}

// Path returns the config file path: HEARTH_CONFIG or DefaultPath.
func Path() string {
	if p := os.Getenv("HEARTH_CONFIG"); p != "" {
		return p
	}
	return DefaultPath
}

// Load reads the config file at path, returning defaults if it doesn't exist,
// then applies environment overrides.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		md, err := toml.Decode(string(data), &cfg)
		if err != nil {
			return cfg, fmt.Errorf("parsing config: %w", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return cfg, fmt.Errorf("parsing config: unknown keys %v", undecoded)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// applyEnv overrides file settings with PORT, DB_PATH, STATIC_PATH,
// JWT_SECRET, LOG_LEVEL and LOG_FORMAT.
func applyEnv(cfg *Config) error {
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		cfg.Server.Port = port
	}
	cfg.Database.Path = getEnv("DB_PATH", cfg.Database.Path)
	cfg.Server.StaticPath = getEnv("STATIC_PATH", cfg.Server.StaticPath)
	cfg.Auth.JWTSecret = getEnv("JWT_SECRET", cfg.Auth.JWTSecret)
	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getEnv("LOG_FORMAT", cfg.Log.Format)
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// Validate checks the configuration and fills the dev-mode JWT secret.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Database.Path == "" {
		return errors.New("database.path is required")
	}
	if c.Auth.JWTSecret == "" {
		if !c.Server.Dev {
			return errors.New("auth.jwt_secret (or JWT_SECRET) is required outside dev mode")
		}
		c.Auth.JWTSecret = devJWTSecret
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth.token_ttl must be positive, got %s", c.Auth.TokenTTL)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	if c.Settlements.HistoryLimit <= 0 {
		return fmt.Errorf("settlements.history_limit must be positive, got %d", c.Settlements.HistoryLimit)
	}
	if len(c.Display.Currency) != 3 {
		return fmt.Errorf("display.currency must be an ISO 4217 code, got %q", c.Display.Currency)
	}
	c.Display.Currency = strings.ToUpper(c.Display.Currency)
	return nil
}
