package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_DefaultsAreValid(t *testing.T) {
	cfg := NewConfig()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, "gpt-4o-mini", cfg.Model)
	assert.True(t, cfg.FabricateResearch)
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty model", func(c *Config) { c.Model = "" }},
		{"zero history window", func(c *Config) { c.HistoryWindow = 0 }},
		{"negative timeout", func(c *Config) { c.GatewayTimeout = -1 }},
		{"zero research capacity", func(c *Config) { c.ResearchCapacity = 0 }},
		{"temperature too high", func(c *Config) { c.CreativeTemperature = 2.5 }},
		{"negative temperature", func(c *Config) { c.FactualTemperature = -0.1 }},
		{"zero token budget", func(c *Config) { c.MaxTokensStandard = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
