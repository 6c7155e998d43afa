/*
Package config provides validation for catalog-search configuration.
*/
package config

import (
	"fmt"
	"strings"
)

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true,
}

// Validate checks the configuration for correctness.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if cfg.Catalog == nil || strings.TrimSpace(cfg.Catalog.Path) == "" {
		return fmt.Errorf("catalog.path is required")
	}
	if cfg.Settings == nil {
		return nil
	}

	s := cfg.Settings
	if s.DefaultLimit < 0 {
		return fmt.Errorf("settings.defaultLimit must be >= 0, got %d", s.DefaultLimit)
	}
	if s.HistoryRetentionDays < 0 {
		return fmt.Errorf("settings.historyRetentionDays must be >= 0, got %d", s.HistoryRetentionDays)
	}
	if s.LogLevel != "" && !validLogLevels[s.LogLevel] {
		return fmt.Errorf("settings.logLevel must be one of debug, info, warn, error, got %q", s.LogLevel)
	}
	switch s.LogFormat {
	case "", "console", "json":
	default:
		return fmt.Errorf("settings.logFormat must be \"console\" or \"json\", got %q", s.LogFormat)
	}
	return nil
}
