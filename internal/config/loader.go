// Package config provides configuration management for the bet-outlier application.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables that override configuration keys
const EnvPrefix = "BET_OUTLIER"

// DefaultConfigPath is used when no path is given
const DefaultConfigPath = "config/config.yaml"

// Load reads and parses the configuration from file and environment variables
// It expands environment variable placeholders in the YAML file (${VAR_NAME})
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = DefaultConfigPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	v := newViper()
	if err := v.ReadConfig(bytes.NewBufferString(os.ExpandEnv(string(data)))); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

// LoadWithDefaults loads configuration with default values for optional fields.
// A missing file is not an error; defaults and environment variables apply.
func LoadWithDefaults(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = DefaultConfigPath
	}

	v := newViper()
	setDefaults(v)

	if data, err := os.ReadFile(configPath); err == nil {
		if err := v.ReadConfig(bytes.NewBufferString(os.ExpandEnv(string(data)))); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

// LoadReference re-reads only the reference tables from the config file
func LoadReference(configPath string) (ReferenceConfig, error) {
	cfg, err := Load(configPath)
	if err != nil {
		return ReferenceConfig{}, err
	}
	if err := ValidateReference(cfg.Reference); err != nil {
		return ReferenceConfig{}, err
	}
	return cfg.Reference, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "bet-outlier")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("edge.max_defense_adjustment", 0.2)
	v.SetDefault("edge.rank_scale", 32)
	v.SetDefault("edge.default_defense_rank", 16)
	v.SetDefault("edge.favorable_threshold", 0.7)
	v.SetDefault("edge.high_confidence_threshold", 3.0)
	v.SetDefault("edge.high_confidence_score", 80)
	v.SetDefault("edge.base_confidence_score", 60)

	v.SetDefault("analysis.enrichment_timeout_seconds", 10)

	v.SetDefault("providers.timeout_seconds", 10)
	v.SetDefault("providers.max_retries", 3)
	v.SetDefault("providers.retry_wait_min_ms", 100)
	v.SetDefault("providers.retry_wait_max_ms", 2000)
	v.SetDefault("providers.rate_limit", 5.0)
	v.SetDefault("providers.breaker_max_failures", 5)

	v.SetDefault("cache.ttl_seconds", 900)
	v.SetDefault("cache.max_size", 1000)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
	v.SetDefault("health.port", "8080")
}
