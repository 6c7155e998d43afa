/*
Package config handles loading and saving catalog-search configuration.

Configuration is stored in ~/.catalog-search.json (override with the
CATALOG_SEARCH_CONFIG environment variable) and uses camelCase keys.

Schema:
  {
    "catalog": {
      "path": "/home/me/.catalog-search/catalog.yaml"
    },
    "settings": {
      "defaultLimit": 20,
      "historyEnabled": true,
      "historyRetentionDays": 30,
      "httpAddr": ":8080",
      "logLevel": "info",
      "logFormat": "console"
    }
  }
*/
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Environment variables that override file settings.
const (
	EnvConfigPath  = "CATALOG_SEARCH_CONFIG"
	EnvCatalogPath = "CATALOG_SEARCH_CATALOG"
)

// Config represents the root configuration structure.
type Config struct {
	// Catalog locates the corpus file.
	Catalog *CatalogConfig `json:"catalog"`

	// Settings contains global configuration options.
	Settings *Settings `json:"settings,omitempty"`
}

// CatalogConfig describes where the corpus lives.
type CatalogConfig struct {
	// Path is a YAML or JSON catalog file.
	Path string `json:"path"`
}

// Settings contains global configuration options.
type Settings struct {
	// DefaultLimit caps search results when the caller gives no limit.
	// 0 means unlimited.
	DefaultLimit int `json:"defaultLimit,omitempty"`

	// HistoryEnabled turns the sqlite search-history log on.
	HistoryEnabled bool `json:"historyEnabled"`

	// HistoryPath overrides ~/.catalog-search/history.db.
	HistoryPath string `json:"historyPath,omitempty"`

	// HistoryRetentionDays is how long history rows are kept.
	HistoryRetentionDays int `json:"historyRetentionDays,omitempty"`

	// HTTPAddr is the listen address of the HTTP API.
	HTTPAddr string `json:"httpAddr,omitempty"`

	// LogLevel is debug, info, warn or error.
	LogLevel string `json:"logLevel,omitempty"`

	// LogFormat is console or json.
	LogFormat string `json:"logFormat,omitempty"`
}

// Defaults applied by ApplyDefaults.
const (
	DefaultLimit                = 20
	DefaultHistoryRetentionDays = 30
	DefaultHTTPAddr             = ":8080"
	DefaultLogLevel             = "info"
	DefaultLogFormat            = "console"
)

// NewConfig creates a configuration with default settings pointing at
// the default catalog location.
func NewConfig() *Config {
	cfg := &Config{
		Catalog: &CatalogConfig{},
		Settings: &Settings{
			HistoryEnabled: true,
		},
	}
	if path, err := GetDefaultCatalogPath(); err == nil {
		cfg.Catalog.Path = path
	}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.Catalog == nil {
		c.Catalog = &CatalogConfig{}
	}
	if c.Settings == nil {
		c.Settings = &Settings{HistoryEnabled: true}
	}
	if c.Settings.DefaultLimit == 0 {
		c.Settings.DefaultLimit = DefaultLimit
	}
	if c.Settings.HistoryRetentionDays <= 0 {
		c.Settings.HistoryRetentionDays = DefaultHistoryRetentionDays
	}
	if c.Settings.HTTPAddr == "" {
		c.Settings.HTTPAddr = DefaultHTTPAddr
	}
	if c.Settings.LogLevel == "" {
		c.Settings.LogLevel = DefaultLogLevel
	}
	if c.Settings.LogFormat == "" {
		c.Settings.LogFormat = DefaultLogFormat
	}
}

// ApplyEnv applies environment overrides.
func (c *Config) ApplyEnv() {
	if path := os.Getenv(EnvCatalogPath); path != "" {
		if c.Catalog == nil {
			c.Catalog = &CatalogConfig{}
		}
		c.Catalog.Path = path
	}
}

// GetDefaultConfigPath returns the path to ~/.catalog-search.json, or the
// value of CATALOG_SEARCH_CONFIG when set.
func GetDefaultConfigPath() (string, error) {
	if path := os.Getenv(EnvConfigPath); path != "" {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".catalog-search.json"), nil
}

// GetDefaultCatalogPath returns ~/.catalog-search/catalog.yaml.
func GetDefaultCatalogPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".catalog-search", "catalog.yaml"), nil
}

// Load reads the configuration from the default path.
func Load() (*Config, error) {
	configPath, err := GetDefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(configPath)
}
