package model

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string `mapstructure:"addr" yaml:"addr"`
}

// DatabaseConfig holds persistence settings.
type DatabaseConfig struct {
	// Path is the SQLite database file path.
	Path string `mapstructure:"path" yaml:"path"`
}

// AuthConfig holds session-token settings.
type AuthConfig struct {
	// Secret signs session tokens. Must be set in production.
	Secret string `mapstructure:"secret" yaml:"secret"`

	// TokenTTLHours is how long an issued session token stays valid.
	TokenTTLHours int `mapstructure:"token_ttl_hours" yaml:"token_ttl_hours"`
}

// ClientConfig holds settings for the in-process todo client.
type ClientConfig struct {
	// BaseURL is the API root the client talks to.
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	// RefreshIntervalSec is how often (in seconds) the client replaces
	// its local state with the authoritative server list.
	RefreshIntervalSec int `mapstructure:"refresh_interval_sec" yaml:"refresh_interval_sec"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Server   ServerConfig   `mapstructure:"server" yaml:"server"`
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`
	Auth     AuthConfig     `mapstructure:"auth" yaml:"auth"`
	Client   ClientConfig   `mapstructure:"client" yaml:"client"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/todoboard/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "todoboard", "config.yaml")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		Server:   ServerConfig{Addr: ":8080"},
		Database: DatabaseConfig{Path: "todoboard.db"},
		Auth: AuthConfig{
			Secret:        "",
			TokenTTLHours: 30 * 24,
		},
		Client: ClientConfig{
			BaseURL:            "http://localhost:8080",
			RefreshIntervalSec: 120,
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Set defaults so missing keys resolve to sensible values.
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("database.path", "todoboard.db")
	v.SetDefault("auth.token_ttl_hours", 30*24)
	v.SetDefault("client.base_url", "http://localhost:8080")
	v.SetDefault("client.refresh_interval_sec", 120)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return defaultAppConfig(), nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaultAppConfig(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("server", cfg.Server)
	v.Set("database", cfg.Database)
	v.Set("auth", cfg.Auth)
	v.Set("client", cfg.Client)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
