package app

import (
	"fmt"

	"github.com/vk/sectiongrid/internal/config"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	Settings config.Settings
	// Documents are .hcl files or directories to evaluate or serve.
	Documents []string
}

// NewConfig validates cfg.
func NewConfig(cfg Config) (*Config, error) {
	if err := cfg.Settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	return &cfg, nil
}
