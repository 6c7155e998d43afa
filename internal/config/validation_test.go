package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := &Config{Catalog: &CatalogConfig{Path: "catalog.yaml"}}
		cfg.ApplyDefaults()
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "nil settings", mutate: func(c *Config) { c.Settings = nil }},
		{name: "missing catalog", mutate: func(c *Config) { c.Catalog = nil }, wantErr: "catalog.path"},
		{name: "blank catalog path", mutate: func(c *Config) { c.Catalog.Path = "  " }, wantErr: "catalog.path"},
		{name: "negative limit", mutate: func(c *Config) { c.Settings.DefaultLimit = -1 }, wantErr: "defaultLimit"},
		{name: "negative retention", mutate: func(c *Config) { c.Settings.HistoryRetentionDays = -3 }, wantErr: "historyRetentionDays"},
		{name: "bad level", mutate: func(c *Config) { c.Settings.LogLevel = "trace" }, wantErr: "logLevel"},
		{name: "bad format", mutate: func(c *Config) { c.Settings.LogFormat = "xml" }, wantErr: "logFormat"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := Validate(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}

	assert.Error(t, Validate(nil))
}
