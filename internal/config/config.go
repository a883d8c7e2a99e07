// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Input
	Business string `json:"business,omitempty"` // Business description text
	Scenes   int    `json:"scenes,omitempty"`   // Number of scenes to generate

	// Spend control
	Budget float64 `json:"budget,omitempty"` // Budget ceiling in USD (0 = unlimited)

	// Output
	Output     string `json:"output,omitempty"`     // Output root directory for run folders
	Transition string `json:"transition,omitempty"` // Merge transition: crossfade, fade_black, simple

	// Behavior
	APIKey      string `json:"api_key,omitempty"`      // Gemini API key
	VeoModel    string `json:"veo_model,omitempty"`    // Video generation model name
	AutoApprove bool   `json:"auto_approve,omitempty"` // Skip interactive review checkpoints
	Verbose     bool   `json:"verbose,omitempty"`      // Print detailed debug information
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
}

// maxScenes bounds the per-run scene count
const maxScenes = 12

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	if c.Scenes < 0 || c.Scenes > maxScenes {
		return fmt.Errorf("config error: 'scenes' must be between 1 and %d", maxScenes)
	}
	if c.Budget < 0 {
		return fmt.Errorf("config error: 'budget' must be non-negative")
	}

	switch c.Transition {
	case "", "crossfade", "fade_black", "simple":
	default:
		return fmt.Errorf("config error: 'transition' must be crossfade, fade_black or simple")
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.Business == "" {
		result.Business = defaults.Business
	}
	if result.Output == "" {
		result.Output = defaults.Output
	}
	if result.Transition == "" {
		result.Transition = defaults.Transition
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.VeoModel == "" {
		result.VeoModel = defaults.VeoModel
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}

	// Int/float fields: use default if zero
	if result.Scenes == 0 {
		result.Scenes = defaults.Scenes
	}
	if result.Budget == 0 {
		result.Budget = defaults.Budget
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
