package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// clientConfig is what hearthctl remembers between runs.
type clientConfig struct {
	Server    string `toml:"server"`
	Token     string `toml:"token,omitempty"`
	Household string `toml:"household,omitempty"`
}

const defaultServer = "http://localhost:8080"

// configDir returns the XDG-compliant config directory.
func configDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "hearth")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "hearth")
}

func configPath() string {
	return filepath.Join(configDir(), "client.toml")
}

// loadConfig reads the client config, returning defaults if it doesn't exist.
// HEARTH_TOKEN overrides the saved token.
func loadConfig() (clientConfig, error) {
	cfg := clientConfig{Server: defaultServer}

	data, err := os.ReadFile(configPath())
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return cfg, fmt.Errorf("reading config: %w", err)
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config: %w", err)
		}
	}

	if token := os.Getenv("HEARTH_TOKEN"); token != "" {
		cfg.Token = token
	}
	return cfg, nil
}

// saveConfig writes the client config with owner-only permissions.
func saveConfig(cfg clientConfig) error {
	if err := os.MkdirAll(configDir(), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(configPath(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}
