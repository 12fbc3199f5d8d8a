// Package config handles loading and saving mockshell configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config: ~/.config/mockshell/config.yaml
//   - State:  ~/.local/state/mockshell/ (dev server persistence)
//
// MOCKSHELL_CONFIG overrides the config path entirely. The SURREALDB_URL,
// SURREALDB_NS, SURREALDB_DB, SURREALDB_USER and SURREALDB_PASS
// environment variables override the database section, mirroring the
// variables the real shell reads.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// EnvConfigPath overrides where Load looks for the config file.
const EnvConfigPath = "MOCKSHELL_CONFIG"

// DiagConfig controls the diagnostic sink.
type DiagConfig struct {
	Level    string   `yaml:"level,omitempty"`    // trace, debug, info, warn, error
	Suppress []string `yaml:"suppress,omitempty"` // substrings that mute matching errors
}

// DatabaseConfig carries the database session defaults handed to stubs
// and reported by the dev server.
type DatabaseConfig struct {
	URL       string `yaml:"url,omitempty"`
	Namespace string `yaml:"namespace,omitempty"`
	Database  string `yaml:"database,omitempty"`
	Username  string `yaml:"username,omitempty"`
	Password  string `yaml:"password,omitempty"`
}

// ServerConfig configures the dev server.
type ServerConfig struct {
	Addr      string `yaml:"addr,omitempty"`       // listen address
	StatePath string `yaml:"state_path,omitempty"` // sqlite file; empty keeps state in memory
}

// Config is the top-level configuration for mockshell.
type Config struct {
	Diag     DiagConfig     `yaml:"diag,omitempty"`
	Database DatabaseConfig `yaml:"database,omitempty"`
	Server   ServerConfig   `yaml:"server,omitempty"`
	Fixtures string         `yaml:"fixtures,omitempty"` // fixture file applied at startup
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Diag: DiagConfig{
			Level: "debug",
			Suppress: []string{
				"lifecycle_outside_component",
				"hydration_mismatch",
			},
		},
		Database: DatabaseConfig{
			URL:       "ws://localhost:8000",
			Namespace: "emittiv",
			Database:  "projects",
			Username:  "root",
			Password:  "root",
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:7420",
		},
	}
}

// ConfigDir returns the XDG config directory for mockshell.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "mockshell")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "mockshell")
}

// StateDir returns the XDG state directory for mockshell.
func StateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "mockshell")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "state", "mockshell")
}

// ConfigPath returns the full path to config.yaml, honoring the
// MOCKSHELL_CONFIG override.
func ConfigPath() string {
	if path := os.Getenv(EnvConfigPath); path != "" {
		return expandHome(path)
	}
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config file, applies environment overrides and returns
// the result. A missing file yields the defaults.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		cfg := DefaultConfig()
		applyEnv(&cfg)
		return cfg, nil
	}
	cfg, err := LoadFrom(path)
	if err != nil {
		return cfg, err
	}
	applyEnv(&cfg)
	return cfg, nil
}

// LoadFrom reads config from a specific path.
// Returns DefaultConfig if the file doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	// Expand ~ in file paths
	cfg.Fixtures = expandHome(cfg.Fixtures)
	cfg.Server.StatePath = expandHome(cfg.Server.StatePath)

	return cfg, nil
}

// Save writes the config to the XDG config directory.
func Save(cfg Config) error {
	path := ConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config directory")
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("SURREALDB_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("SURREALDB_NS"); v != "" {
		cfg.Database.Namespace = v
	}
	if v := os.Getenv("SURREALDB_DB"); v != "" {
		cfg.Database.Database = v
	}
	if v := os.Getenv("SURREALDB_USER"); v != "" {
		cfg.Database.Username = v
	}
	if v := os.Getenv("SURREALDB_PASS"); v != "" {
		cfg.Database.Password = v
	}
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
