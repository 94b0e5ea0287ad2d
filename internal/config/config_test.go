// internal/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetDefaults(t *testing.T) {
	var cfg Config
	cfg.SetDefaults()

	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "console", cfg.Logger.Format)
	assert.Equal(t, "visor", cfg.Logger.ServiceName)
	assert.Equal(t, 50, cfg.Logger.MaxSize)

	assert.Equal(t, 1280, cfg.Browser.WindowWidth)
	assert.Equal(t, 800, cfg.Browser.WindowHeight)
	assert.Equal(t, 45*time.Second, cfg.Browser.NavigationTimeout)

	assert.Equal(t, "gemini", cfg.Model.Provider)
	assert.Equal(t, "gemini-2.5-flash", cfg.Model.Model)
	assert.Equal(t, 1000.0, cfg.Model.WidthFactor)
	assert.Equal(t, 1000.0, cfg.Model.HeightFactor)
	assert.Equal(t, 1.0, cfg.Model.ScaleFactor)

	assert.Equal(t, 25, cfg.Agent.MaxSteps)
	assert.Equal(t, 30*time.Second, cfg.Agent.ActionTimeout)
}

func TestSetDefaultsKeepsExplicitValues(t *testing.T) {
	cfg := Config{
		Logger: LoggerConfig{Level: "debug"},
		Model:  ModelConfig{WidthFactor: 2000},
		Agent:  AgentConfig{MaxSteps: 5},
	}
	cfg.SetDefaults()

	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, 2000.0, cfg.Model.WidthFactor)
	assert.Equal(t, 5, cfg.Agent.MaxSteps)
	// Unset siblings still get their defaults.
	assert.Equal(t, "console", cfg.Logger.Format)
	assert.Equal(t, 1000.0, cfg.Model.HeightFactor)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
logger:
  level: debug
  format: json
browser:
  headless: true
  windowWidth: 1920
model:
  provider: gemini
  model: gemini-2.0-flash
  scaleFactor: 2
agent:
  maxSteps: 7
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, "json", cfg.Logger.Format)
	assert.True(t, cfg.Browser.Headless)
	assert.Equal(t, 1920, cfg.Browser.WindowWidth)
	assert.Equal(t, "gemini-2.0-flash", cfg.Model.Model)
	assert.Equal(t, 2.0, cfg.Model.ScaleFactor)
	assert.Equal(t, 7, cfg.Agent.MaxSteps)

	// Values the file does not set fall back to defaults.
	assert.Equal(t, 800, cfg.Browser.WindowHeight)
	assert.Equal(t, 1000.0, cfg.Model.WidthFactor)
	assert.Equal(t, 30*time.Second, cfg.Agent.ActionTimeout)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logger: [not a map"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
