package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hearth.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
[server]
port = 9090
read_header_timeout = "5s"

[auth]
jwt_secret = "from-file"
token_ttl = "2h"

[settlements]
history_limit = 10

[cache]
member_ttl = "30s"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadHeaderTimeout)
	assert.Equal(t, "from-file", cfg.Auth.JWTSecret)
	assert.Equal(t, 2*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, 10, cfg.Settlements.HistoryLimit)
	assert.Equal(t, 30*time.Second, cfg.Cache.MemberTTL)
	// Untouched sections keep their defaults.
	assert.Equal(t, "./data/hearth.db", cfg.Database.Path)
	require.NoError(t, cfg.Validate())
}

func TestLoad_UnknownKey(t *testing.T) {
	path := writeConfig(t, "[server]\nprot = 1\n")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "[server]\nport = 9090\n")
	t.Setenv("PORT", "7070")
	t.Setenv("DB_PATH", "/tmp/other.db")
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "/tmp/other.db", cfg.Database.Path)
	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
	assert.Equal(t, "json", cfg.Log.Format)

	t.Setenv("PORT", "eighty")
	_, err = Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Run("secret required outside dev", func(t *testing.T) {
		cfg := DefaultConfig()
		assert.Error(t, cfg.Validate())
	})

	t.Run("dev mode fills a secret", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Server.Dev = true
		require.NoError(t, cfg.Validate())
		assert.NotEmpty(t, cfg.Auth.JWTSecret)
	})

	t.Run("bad values", func(t *testing.T) {
		tests := []struct {
			name   string
			mutate func(*Config)
		}{
			{"port", func(c *Config) { c.Server.Port = 0 }},
			{"format", func(c *Config) { c.Log.Format = "xml" }},
			{"history", func(c *Config) { c.Settlements.HistoryLimit = 0 }},
			{"currency", func(c *Config) { c.Display.Currency = "dollars" }},
			{"ttl", func(c *Config) { c.Auth.TokenTTL = 0 }},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				cfg := DefaultConfig()
				cfg.Auth.JWTSecret = "secret"
				tt.mutate(&cfg)
				assert.Error(t, cfg.Validate())
			})
		}
	})
}
