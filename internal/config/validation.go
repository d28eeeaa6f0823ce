// Package config provides configuration management for the bet-outlier application.
package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/yourusername/bet-outlier/internal/models"
)

var teamCodePattern = regexp.MustCompile(`^[A-Za-z]{2,4}$`)

// CustomValidator wraps the validator with custom validation rules
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new validator with custom validation functions
func NewValidator() *CustomValidator {
	v := validator.New()

	v.RegisterValidation("environment", validateEnvironment)
	v.RegisterValidation("loglevel", validateLogLevel)
	v.RegisterValidation("teamcode", validateTeamCode)
	v.RegisterValidation("proptype", validatePropType)
	v.RegisterValidation("americanodds", validateAmericanOdds)

	return &CustomValidator{validator: v}
}

// Validate validates the entire configuration
func Validate(cfg *Config) error {
	return NewValidator().Validate(cfg)
}

// ValidateReference validates the reference tables on their own
func ValidateReference(ref ReferenceConfig) error {
	cv := NewValidator()
	if err := cv.validator.Struct(ref); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return formatValidationErrors(validationErrors)
		}
		return fmt.Errorf("validation failed: %w", err)
	}
	return validateReferenceUniqueness(ref)
}

// Validate validates the configuration using registered validation rules
func (cv *CustomValidator) Validate(cfg *Config) error {
	err := cv.validator.Struct(cfg)
	if err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return formatValidationErrors(validationErrors)
		}
		return fmt.Errorf("validation failed: %w", err)
	}

	return validateCrossField(cfg)
}

func validateEnvironment(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "development", "staging", "production":
		return true
	default:
		return false
	}
}

func validateLogLevel(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

// validateTeamCode accepts 2-4 letter team abbreviations such as SF or BUF
func validateTeamCode(fl validator.FieldLevel) bool {
	return teamCodePattern.MatchString(fl.Field().String())
}

func validatePropType(fl validator.FieldLevel) bool {
	return models.IsKnownPropType(fl.Field().String())
}

// validateAmericanOdds rejects odds in the open interval (-100, 100)
func validateAmericanOdds(fl validator.FieldLevel) bool {
	odds := fl.Field().Int()
	return odds <= -100 || odds >= 100
}

// validateCrossField performs cross-field validations
func validateCrossField(cfg *Config) error {
	if cfg.Edge.DefaultDefenseRank > cfg.Edge.RankScale {
		return fmt.Errorf("edge.default_defense_rank (%d) cannot exceed edge.rank_scale (%d)",
			cfg.Edge.DefaultDefenseRank, cfg.Edge.RankScale)
	}

	if cfg.Edge.HighConfidenceScore < cfg.Edge.BaseConfidenceScore {
		return fmt.Errorf("edge.high_confidence_score cannot be lower than edge.base_confidence_score")
	}

	if cfg.Providers.RetryWaitMinMillis > cfg.Providers.RetryWaitMaxMillis {
		return fmt.Errorf("providers.retry_wait_min_ms cannot exceed providers.retry_wait_max_ms")
	}

	if cfg.Health.Enabled && cfg.Health.Port == "" {
		return fmt.Errorf("health.port is required when the health server is enabled")
	}

	seen := make(map[string]bool)
	for _, p := range cfg.Providers.Sources {
		if seen[p.Name] {
			return fmt.Errorf("provider %s configured more than once", p.Name)
		}
		seen[p.Name] = true
	}

	if cfg.Analysis.Enrich && !hasEnabledProvider(cfg) {
		return fmt.Errorf("analysis.enrich requires at least one enabled provider")
	}

	if err := validateReferenceUniqueness(cfg.Reference); err != nil {
		return err
	}

	if cfg.Analysis.Strict {
		if err := validateMatchupsCovered(cfg); err != nil {
			return err
		}
	}

	return nil
}

func hasEnabledProvider(cfg *Config) bool {
	for _, p := range cfg.Providers.Sources {
		if p.Enabled {
			return true
		}
	}
	return false
}

func validateReferenceUniqueness(ref ReferenceConfig) error {
	teams := make(map[string]bool)
	for _, d := range ref.DefenseRankings {
		code := strings.ToUpper(d.Team)
		if teams[code] {
			return fmt.Errorf("duplicate defense ranking for team %s", code)
		}
		teams[code] = true
	}

	props := make(map[string]bool)
	for _, p := range ref.Props {
		key := strings.ToLower(p.Player) + "/" + p.PropType
		if props[key] {
			return fmt.Errorf("duplicate prop %s for player %s", p.PropType, p.Player)
		}
		props[key] = true
	}
	return nil
}

// validateMatchupsCovered ensures every configured matchup has a posted prop
func validateMatchupsCovered(cfg *Config) error {
	props := make(map[string]bool)
	for _, p := range cfg.Reference.Props {
		props[strings.ToLower(p.Player)+"/"+p.PropType] = true
	}
	for _, m := range cfg.Analysis.Matchups {
		if !props[strings.ToLower(m.Player)+"/"+string(m.PropType)] {
			return fmt.Errorf("strict analysis: no prop %s configured for player %s", m.PropType, m.Player)
		}
	}
	return nil
}

// formatValidationErrors formats validation errors into a readable string
func formatValidationErrors(validationErrors validator.ValidationErrors) error {
	var errMsg string
	for _, fieldError := range validationErrors {
		field := fieldError.Namespace()
		tag := fieldError.Tag()
		value := fieldError.Value()

		switch tag {
		case "required", "required_if":
			errMsg += fmt.Sprintf("- Field '%s' is required\n", field)
		case "url":
			errMsg += fmt.Sprintf("- Field '%s' must be a valid URL, got '%v'\n", field, value)
		case "min", "max":
			errMsg += fmt.Sprintf("- Field '%s' validation failed: %s constraint violated\n", field, tag)
		case "gt", "gte", "lt", "lte":
			errMsg += fmt.Sprintf("- Field '%s' validation failed: numeric constraint %s violated\n", field, tag)
		case "environment":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: development, staging, production\n", field)
		case "loglevel":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: debug, info, warn, error\n", field)
		case "teamcode":
			errMsg += fmt.Sprintf("- Field '%s' must be a 2-4 letter team code, got '%v'\n", field, value)
		case "proptype":
			errMsg += fmt.Sprintf("- Field '%s' has unknown prop type '%v'\n", field, value)
		case "americanodds":
			errMsg += fmt.Sprintf("- Field '%s' must be American odds <= -100 or >= 100, got '%v'\n", field, value)
		case "oneof":
			errMsg += fmt.Sprintf("- Field '%s' has invalid value '%v'\n", field, value)
		default:
			errMsg += fmt.Sprintf("- Field '%s' failed validation: %s\n", field, tag)
		}
	}
	return fmt.Errorf("configuration validation failed:\n%s", errMsg)
}

// ValidateEnvironment validates environment-specific requirements
func ValidateEnvironment(cfg *Config) error {
	if cfg.IsProduction() {
		for _, p := range cfg.Providers.Sources {
			if p.Enabled && p.Name == ProviderSportsDataIO && isTestCredential(p.APIKey) {
				return fmt.Errorf("production environment should not use a test %s API key", p.Name)
			}
		}
		if cfg.App.LogLevel == "debug" {
			return fmt.Errorf("debug logging should be disabled in production")
		}
	}

	return nil
}

// isTestCredential checks if a credential looks like a test credential
func isTestCredential(credential string) bool {
	if credential == "" {
		return true
	}

	testPatterns := []string{
		"test", "demo", "example", "placeholder", "YOUR_",
	}

	for _, pattern := range testPatterns {
		if match, _ := regexp.MatchString("(?i)"+pattern, credential); match {
			return true
		}
	}

	return false
}
