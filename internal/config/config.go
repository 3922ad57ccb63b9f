// Package config handles configuration loading for switchboard.
// It supports XDG config paths, project-level overrides, and environment
// variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/ShayCichocki/switchboard/internal/catalog"
	"github.com/ShayCichocki/switchboard/pkg/models"
)

// Config holds all configuration for switchboard.
type Config struct {
	Anthropic AnthropicConfig `mapstructure:"anthropic"`
	Server    ServerConfig    `mapstructure:"server"`
	// CatalogueFile points at a standalone YAML catalogue applied over the
	// built-in defaults, below the per-integration overrides.
	CatalogueFile string                       `mapstructure:"catalogue_file"`
	Integrations  map[string]IntegrationConfig `mapstructure:"integrations"`
}

// AnthropicConfig holds text-generation credentials and model selection.
type AnthropicConfig struct {
	APIKey     string `mapstructure:"api_key"`
	Model      string `mapstructure:"model"`
	UseBedrock bool   `mapstructure:"use_bedrock"`
	AWSRegion  string `mapstructure:"aws_region"`
	AWSProfile string `mapstructure:"aws_profile"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// IntegrationConfig overrides one catalogue profile. Empty fields keep the
// built-in values.
type IntegrationConfig struct {
	Command      string        `mapstructure:"command"`
	Timeout      time.Duration `mapstructure:"timeout"`
	Instructions string        `mapstructure:"instructions"`
}

// Load loads configuration from XDG paths, project overrides, and environment
// variables. Precedence (highest to lowest):
// 1. Environment variables (ANTHROPIC_API_KEY)
// 2. Project config (.switchboard.yaml in current directory or parent)
// 3. User config (~/.config/switchboard/config.yaml)
// 4. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	userConfigDir := getUserConfigDir()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(userConfigDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	if projectConfig := findProjectConfig(); projectConfig != "" {
		projectViper := viper.New()
		projectViper.SetConfigFile(projectConfig)
		if err := projectViper.ReadInConfig(); err == nil {
			if err := v.MergeConfigMap(projectViper.AllSettings()); err != nil {
				return nil, fmt.Errorf("merging project config: %w", err)
			}
		}
	}

	v.AutomaticEnv()
	v.BindEnv("anthropic.api_key", "ANTHROPIC_API_KEY")
	v.BindEnv("anthropic.use_bedrock", "SWITCHBOARD_USE_BEDROCK")
	v.BindEnv("anthropic.aws_region", "AWS_REGION")
	v.BindEnv("server.addr", "SWITCHBOARD_ADDR")

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.Anthropic.APIKey = os.ExpandEnv(cfg.Anthropic.APIKey)
	return cfg, nil
}

// LoadFromPath loads configuration from a specific file (for testing).
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.Anthropic.APIKey = os.ExpandEnv(cfg.Anthropic.APIKey)
	return cfg, nil
}

// Catalogue assembles the capability catalogue. Precedence (highest to
// lowest): per-integration overrides, the standalone catalogue file when
// configured, built-in defaults. Unknown integration keys are rejected.
func (c *Config) Catalogue() (*catalog.Catalogue, error) {
	base := catalog.Default()
	if c.CatalogueFile != "" {
		var err error
		base, err = catalog.LoadFile(c.CatalogueFile)
		if err != nil {
			return nil, err
		}
	}

	profiles := base.Profiles()
	for i, p := range profiles {
		override, ok := c.Integrations[string(p.ID)]
		if !ok {
			continue
		}
		if override.Command != "" {
			p.Command = override.Command
		}
		if override.Timeout > 0 {
			p.Timeout = override.Timeout
		}
		if override.Instructions != "" {
			p.Instructions = override.Instructions
		}
		profiles[i] = p
	}

	for key := range c.Integrations {
		if _, err := models.ParseIntegration(key); err != nil {
			return nil, fmt.Errorf("integrations config: %w", err)
		}
	}

	return catalog.New(profiles...)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("anthropic.api_key", "")
	v.SetDefault("anthropic.model", "")
	v.SetDefault("anthropic.use_bedrock", false)
	v.SetDefault("server.addr", ":8000")
}

// getUserConfigDir returns the XDG config directory for switchboard.
func getUserConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "switchboard")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "switchboard")
	}
	return filepath.Join(home, ".config", "switchboard")
}

// findProjectConfig searches for .switchboard.yaml in the current directory
// and parents.
func findProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(cwd, ".switchboard.yaml")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(cwd)
		if parent == cwd {
			break
		}
		cwd = parent
	}

	return ""
}
