// internal/config/config.go
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Config is the full application configuration.
type Config struct {
	Logger  LoggerConfig  `mapstructure:"logger" yaml:"logger"`
	Browser BrowserConfig `mapstructure:"browser" yaml:"browser"`
	Model   ModelConfig   `mapstructure:"model" yaml:"model"`
	Agent   AgentConfig   `mapstructure:"agent" yaml:"agent"`
}

// LoggerConfig holds the logging setup.
type LoggerConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Format      string `mapstructure:"format" yaml:"format"` // "console" or "json"
	ServiceName string `mapstructure:"serviceName" yaml:"serviceName"`
	AddSource   bool   `mapstructure:"addSource" yaml:"addSource"`

	// File rotation, handled by lumberjack. Empty LogFile disables it.
	LogFile    string `mapstructure:"logFile" yaml:"logFile"`
	MaxSize    int    `mapstructure:"maxSize" yaml:"maxSize"` // megabytes
	MaxBackups int    `mapstructure:"maxBackups" yaml:"maxBackups"`
	MaxAge     int    `mapstructure:"maxAge" yaml:"maxAge"` // days
	Compress   bool   `mapstructure:"compress" yaml:"compress"`
}

// SetDefaults applies defaults for unset logger fields.
func (c *LoggerConfig) SetDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Format == "" {
		c.Format = "console"
	}
	if c.ServiceName == "" {
		c.ServiceName = "visor"
	}
	if c.MaxSize <= 0 {
		c.MaxSize = 50
	}
	if c.MaxBackups <= 0 {
		c.MaxBackups = 3
	}
	if c.MaxAge <= 0 {
		c.MaxAge = 14
	}
}

// BrowserConfig holds the browser session setup.
type BrowserConfig struct {
	Headless          bool          `mapstructure:"headless" yaml:"headless"`
	WindowWidth       int           `mapstructure:"windowWidth" yaml:"windowWidth"`
	WindowHeight      int           `mapstructure:"windowHeight" yaml:"windowHeight"`
	NavigationTimeout time.Duration `mapstructure:"navigationTimeout" yaml:"navigationTimeout"`
	ChromePath        string        `mapstructure:"chromePath" yaml:"chromePath"`
}

// SetDefaults applies defaults for unset browser fields.
func (c *BrowserConfig) SetDefaults() {
	if c.WindowWidth <= 0 {
		c.WindowWidth = 1280
	}
	if c.WindowHeight <= 0 {
		c.WindowHeight = 800
	}
	if c.NavigationTimeout <= 0 {
		c.NavigationTimeout = 45 * time.Second
	}
}

// ModelConfig holds the vision model client setup.
type ModelConfig struct {
	Provider string        `mapstructure:"provider" yaml:"provider"`
	Model    string        `mapstructure:"model" yaml:"model"`
	APIKey   string        `mapstructure:"apiKey" yaml:"apiKey"`
	Timeout  time.Duration `mapstructure:"timeout" yaml:"timeout"`
	// RequestsPerSecond paces calls to the model API.
	RequestsPerSecond float64 `mapstructure:"requestsPerSecond" yaml:"requestsPerSecond"`

	// WidthFactor and HeightFactor are the integer scale the model emits raw
	// box coordinates in. ScaleFactor adjusts absolute coordinates for
	// scaled displays.
	WidthFactor  float64 `mapstructure:"widthFactor" yaml:"widthFactor"`
	HeightFactor float64 `mapstructure:"heightFactor" yaml:"heightFactor"`
	ScaleFactor  float64 `mapstructure:"scaleFactor" yaml:"scaleFactor"`
}

// SetDefaults applies defaults for unset model fields.
func (c *ModelConfig) SetDefaults() {
	if c.Provider == "" {
		c.Provider = "gemini"
	}
	if c.Model == "" {
		c.Model = "gemini-2.5-flash"
	}
	if c.Timeout <= 0 {
		c.Timeout = 2 * time.Minute
	}
	if c.RequestsPerSecond <= 0 {
		c.RequestsPerSecond = 0.5
	}
	if c.WidthFactor <= 0 {
		c.WidthFactor = 1000
	}
	if c.HeightFactor <= 0 {
		c.HeightFactor = 1000
	}
	if c.ScaleFactor <= 0 {
		c.ScaleFactor = 1
	}
}

// AgentConfig holds the agent loop setup.
type AgentConfig struct {
	MaxSteps      int           `mapstructure:"maxSteps" yaml:"maxSteps"`
	ActionTimeout time.Duration `mapstructure:"actionTimeout" yaml:"actionTimeout"`
}

// SetDefaults applies defaults for unset agent fields.
func (c *AgentConfig) SetDefaults() {
	if c.MaxSteps <= 0 {
		c.MaxSteps = 25
	}
	if c.ActionTimeout <= 0 {
		c.ActionTimeout = 30 * time.Second
	}
}

// SetDefaults applies defaults across all sections.
func (c *Config) SetDefaults() {
	c.Logger.SetDefaults()
	c.Browser.SetDefaults()
	c.Model.SetDefaults()
	c.Agent.SetDefaults()
}

// Load reads configuration from the given file, or from ./config.yaml and
// ~/.visor/config.yaml when none is given, with VISOR_* environment
// variables taking precedence. A missing config file is not an error; the
// defaults stand.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		if home, err := homedir.Dir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".visor"))
		}
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("VISOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("config: reading %s: %w", v.ConfigFileUsed(), err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	cfg.SetDefaults()
	return &cfg, nil
}
