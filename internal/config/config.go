// Package config provides configuration management for the bet-outlier application.
package config

import (
	"time"

	"github.com/yourusername/bet-outlier/internal/models"
)

// Provider names
const (
	ProviderSportsDataIO = "sportsdataio"
	ProviderTheSportsDB  = "thesportsdb"
)

// Config represents the complete application configuration
type Config struct {
	App       AppConfig       `mapstructure:"app" validate:"required"`
	Edge      EdgeConfig      `mapstructure:"edge" validate:"required"`
	Analysis  AnalysisConfig  `mapstructure:"analysis"`
	Providers ProvidersConfig `mapstructure:"providers" validate:"required"`
	Cache     CacheConfig     `mapstructure:"cache" validate:"required"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Health    HealthConfig    `mapstructure:"health"`
	Schedule  ScheduleConfig  `mapstructure:"schedule"`
	Reference ReferenceConfig `mapstructure:"reference" validate:"required"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// EdgeConfig holds the policy constants of the edge model
type EdgeConfig struct {
	MaxDefenseAdjustment    float64 `mapstructure:"max_defense_adjustment" validate:"gte=0,lt=1"`
	RankScale               int     `mapstructure:"rank_scale" validate:"required,gt=1"`
	DefaultDefenseRank      int     `mapstructure:"default_defense_rank" validate:"required,gt=0"`
	FavorableThreshold      float64 `mapstructure:"favorable_threshold" validate:"gte=0,lte=1"`
	HighConfidenceThreshold float64 `mapstructure:"high_confidence_threshold" validate:"gte=0"`
	HighConfidenceScore     int     `mapstructure:"high_confidence_score" validate:"required,gt=0,lte=100"`
	BaseConfidenceScore     int     `mapstructure:"base_confidence_score" validate:"required,gt=0,lte=100"`
}

// AnalysisConfig lists the matchups analyzed by default and how enrichment runs
type AnalysisConfig struct {
	Matchups []models.Matchup `mapstructure:"matchups" validate:"dive"`
	// Enrich turns on best-effort player lookups against the providers
	Enrich bool `mapstructure:"enrich"`
	// EnrichmentTimeoutSeconds bounds all provider lookups of one batch
	EnrichmentTimeoutSeconds int `mapstructure:"enrichment_timeout_seconds" validate:"gte=0"`
	// Strict rejects matchups whose player has no configured prop
	Strict bool `mapstructure:"strict"`
}

// ProvidersConfig configures the external player data providers
type ProvidersConfig struct {
	TimeoutSeconds     int              `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	MaxRetries         int              `mapstructure:"max_retries" validate:"gte=0"`
	RetryWaitMinMillis int              `mapstructure:"retry_wait_min_ms" validate:"gte=0"`
	RetryWaitMaxMillis int              `mapstructure:"retry_wait_max_ms" validate:"gte=0"`
	RateLimit          float64          `mapstructure:"rate_limit" validate:"required,gt=0"`
	BreakerMaxFailures int              `mapstructure:"breaker_max_failures" validate:"required,gt=0"`
	Sources            []ProviderConfig `mapstructure:"sources" validate:"dive"`
}

// ProviderConfig represents a single provider configuration
type ProviderConfig struct {
	Name    string `mapstructure:"name" validate:"required,oneof=sportsdataio thesportsdb"`
	Enabled bool   `mapstructure:"enabled"`
	BaseURL string `mapstructure:"base_url" validate:"required,url"`
	APIKey  string `mapstructure:"api_key"`
}

// CacheConfig configures the provider response cache
type CacheConfig struct {
	TTLSeconds int `mapstructure:"ttl_seconds" validate:"required,gt=0"`
	MaxSize    int `mapstructure:"max_size" validate:"required,gt=0"`
}

// MetricsConfig represents metrics configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path" validate:"required_if=Enabled true"`
}

// HealthConfig configures the health server started by the watch loop
type HealthConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    string `mapstructure:"port" validate:"omitempty,numeric"`
}

// ScheduleConfig configures periodic re-analysis
type ScheduleConfig struct {
	AnalysisCron string `mapstructure:"analysis_cron"`
	// ReloadReference re-reads the reference tables from the config file before each run
	ReloadReference bool `mapstructure:"reload_reference"`
}

// ReferenceConfig holds the reference tables consulted by the edge model
type ReferenceConfig struct {
	DefenseRankings []DefenseRankingEntry `mapstructure:"defense_rankings" validate:"dive"`
	Props           []PropEntry           `mapstructure:"props" validate:"dive"`
}

// DefenseRankingEntry is one team's defensive ranks
type DefenseRankingEntry struct {
	Team      string `mapstructure:"team" validate:"required,teamcode"`
	Passing   int    `mapstructure:"passing" validate:"min=1,max=32"`
	Rushing   int    `mapstructure:"rushing" validate:"min=1,max=32"`
	Receiving int    `mapstructure:"receiving" validate:"min=1,max=32"`
}

// PropEntry is one player prop: base projection and posted line
type PropEntry struct {
	Player         string  `mapstructure:"player" validate:"required"`
	PropType       string  `mapstructure:"prop_type" validate:"required,proptype"`
	BaseProjection float64 `mapstructure:"base_projection" validate:"gte=0"`
	Line           float64 `mapstructure:"line" validate:"gte=0"`
	OverOdds       int     `mapstructure:"over_odds" validate:"americanodds"`
	UnderOdds      int     `mapstructure:"under_odds" validate:"americanodds"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// Provider returns the configuration of the named provider, if present
func (c *Config) Provider(name string) (ProviderConfig, bool) {
	for _, p := range c.Providers.Sources {
		if p.Name == name {
			return p, true
		}
	}
	return ProviderConfig{}, false
}

// EnrichmentTimeout returns the per-batch enrichment deadline
func (c *Config) EnrichmentTimeout() time.Duration {
	if c.Analysis.EnrichmentTimeoutSeconds <= 0 {
		return time.Duration(c.Providers.TimeoutSeconds) * time.Second
	}
	return time.Duration(c.Analysis.EnrichmentTimeoutSeconds) * time.Second
}

// CacheTTL returns the provider cache TTL
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLSeconds) * time.Second
}
