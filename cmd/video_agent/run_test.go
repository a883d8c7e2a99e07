package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetRunFlags restores the run command's flags to their defaults so tests
// do not leak Changed state into each other.
func resetRunFlags(t *testing.T) {
	t.Helper()
	runCommand.Flags().VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
}

func TestLoadRunConfig_Defaults(t *testing.T) {
	resetRunFlags(t)
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("DATABASE_URL", "")

	require.NoError(t, runCommand.ParseFlags([]string{"--business", "a flower shop"}))

	cfg, err := loadRunConfig(runCommand)
	require.NoError(t, err)

	assert.Equal(t, "a flower shop", cfg.Business)
	assert.Equal(t, 4, cfg.Scenes)
	assert.Equal(t, "output", cfg.Output)
	assert.Equal(t, "crossfade", cfg.Transition)
	assert.Equal(t, "veo-3.1-fast-generate-001", cfg.VeoModel)
	assert.Equal(t, "test-key", cfg.APIKey)
}

func TestLoadRunConfig_FlagOverridesConfigFile(t *testing.T) {
	resetRunFlags(t)
	t.Setenv("GEMINI_API_KEY", "test-key")

	configPath := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(configPath,
		[]byte(`{"business": "from config", "scenes": 6, "budget": 2.5}`), 0o644))

	require.NoError(t, runCommand.ParseFlags([]string{
		"--config", configPath,
		"--scenes", "8",
	}))

	cfg, err := loadRunConfig(runCommand)
	require.NoError(t, err)

	// Explicit flags win; untouched fields come from the file.
	assert.Equal(t, 8, cfg.Scenes)
	assert.Equal(t, "from config", cfg.Business)
	assert.Equal(t, 2.5, cfg.Budget)
}

func TestLoadRunConfig_MissingBusiness(t *testing.T) {
	resetRunFlags(t)
	t.Setenv("GEMINI_API_KEY", "test-key")

	require.NoError(t, runCommand.ParseFlags(nil))

	_, err := loadRunConfig(runCommand)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--business is required")
}

func TestLoadRunConfig_MissingAPIKey(t *testing.T) {
	resetRunFlags(t)
	t.Setenv("GEMINI_API_KEY", "")

	require.NoError(t, runCommand.ParseFlags([]string{"--business", "a flower shop"}))

	_, err := loadRunConfig(runCommand)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")
}

func TestLoadRunConfig_InvalidTransition(t *testing.T) {
	resetRunFlags(t)
	t.Setenv("GEMINI_API_KEY", "test-key")

	require.NoError(t, runCommand.ParseFlags([]string{
		"--business", "a flower shop",
		"--transition", "wipe",
	}))

	_, err := loadRunConfig(runCommand)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "transition")
}
