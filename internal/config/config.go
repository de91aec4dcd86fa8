package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Completion backend settings
	APIKey         string
	BaseURL        string
	Model          string
	GatewayTimeout time.Duration

	// Temperature presets for different tasks
	FactualTemperature  float64
	BalancedTemperature float64
	CreativeTemperature float64

	// Token budget presets
	MaxTokensSmall    int64
	MaxTokensStandard int64
	MaxTokensLarge    int64

	// Conversation settings
	HistoryWindow int

	// Destination research settings
	FabricateResearch bool
	ResearchTTL       time.Duration
	ResearchCapacity  int

	// Diagnostics
	ActivityLogCap int
	Verbose        bool
}

// NewConfig creates a new configuration with default values
func NewConfig() *Config {
	return &Config{
		// Completion backend defaults
		APIKey:         GetEnv("OPENAI_API_KEY"),
		BaseURL:        GetEnv("OPENAI_BASE_URL"),
		Model:          "gpt-4o-mini",
		GatewayTimeout: 60 * time.Second,

		// Temperature defaults
		FactualTemperature:  0.2,
		BalancedTemperature: 0.5,
		CreativeTemperature: 0.7,

		// Token defaults
		MaxTokensSmall:    300,
		MaxTokensStandard: 800,
		MaxTokensLarge:    1000,

		// Conversation defaults
		HistoryWindow: 10,

		// Research defaults
		FabricateResearch: true,
		ResearchTTL:       1 * time.Hour,
		ResearchCapacity:  32,

		// Diagnostics defaults
		ActivityLogCap: 200,
		Verbose:        false,
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Model == "" {
		return fmt.Errorf("model name cannot be empty")
	}
	if c.HistoryWindow < 1 {
		return fmt.Errorf("history window must be at least 1")
	}
	if c.GatewayTimeout <= 0 {
		return fmt.Errorf("gateway timeout must be positive")
	}
	if c.ResearchCapacity < 1 {
		return fmt.Errorf("research capacity must be at least 1")
	}
	for _, temp := range []float64{c.FactualTemperature, c.BalancedTemperature, c.CreativeTemperature} {
		if temp < 0 || temp > 2 {
			return fmt.Errorf("temperature %.2f out of range [0, 2]", temp)
		}
	}
	if c.MaxTokensSmall < 1 || c.MaxTokensStandard < 1 || c.MaxTokensLarge < 1 {
		return fmt.Errorf("token budgets must be positive")
	}
	return nil
}

// GetEnv is a wrapper around os.Getenv for easier testing
var GetEnv = func(key string) string {
	// Will be replaced with os.Getenv in main
	return ""
}
