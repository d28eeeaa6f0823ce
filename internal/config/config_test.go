// Package config provides configuration management for the bet-outlier application.
package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

const (
	validConfigPath              = "testdata/valid_config.yaml"
	invalidReferencePath         = "testdata/invalid_reference.yaml"
	nonexistentConfigPath        = "testdata/nonexistent_config.yaml"
	expectedNoErrorLoadingConfig = "expected no error loading config, got %v"
	expectedNoErrorMsg           = "expected no error, got %v"
	betOutlierName               = "bet-outlier"
	developmentEnv               = "development"
	testAppName                  = "test-app"
)

func loadValid(t *testing.T) *Config {
	t.Helper()
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingConfig, err)
	}
	return cfg
}

// TestLoadConfigSuccess tests loading a valid configuration file
func TestLoadConfigSuccess(t *testing.T) {
	cfg := loadValid(t)

	if cfg.App.Name != betOutlierName {
		t.Errorf("expected app name '%s', got '%s'", betOutlierName, cfg.App.Name)
	}
	if cfg.App.Environment != developmentEnv {
		t.Errorf("expected environment '%s', got '%s'", developmentEnv, cfg.App.Environment)
	}
	if cfg.Edge.HighConfidenceScore != 80 || cfg.Edge.BaseConfidenceScore != 60 {
		t.Errorf("unexpected confidence scores: %+v", cfg.Edge)
	}
	if len(cfg.Reference.DefenseRankings) != 5 {
		t.Errorf("expected 5 defense rankings, got %d", len(cfg.Reference.DefenseRankings))
	}
	if len(cfg.Reference.Props) != 3 {
		t.Errorf("expected 3 props, got %d", len(cfg.Reference.Props))
	}
	if len(cfg.Analysis.Matchups) != 3 {
		t.Fatalf("expected 3 matchups, got %d", len(cfg.Analysis.Matchups))
	}
	if cfg.Analysis.Matchups[0].Opponent != "BUF" {
		t.Errorf("expected first opponent BUF, got %s", cfg.Analysis.Matchups[0].Opponent)
	}
}

// TestLoadConfigPreservesNameCase checks player names and team codes survive loading
func TestLoadConfigPreservesNameCase(t *testing.T) {
	cfg := loadValid(t)

	if cfg.Reference.Props[0].Player != "Patrick Mahomes" {
		t.Errorf("expected player name case to be preserved, got %q", cfg.Reference.Props[0].Player)
	}
	if cfg.Reference.DefenseRankings[1].Team != "BUF" {
		t.Errorf("expected team code BUF, got %q", cfg.Reference.DefenseRankings[1].Team)
	}
}

// TestLoadConfigFileNotFound tests handling of missing configuration file
func TestLoadConfigFileNotFound(t *testing.T) {
	_, err := Load(nonexistentConfigPath)
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected wrapped not-exist error, got %v", err)
	}
}

// TestLoadConfigEnvironmentVariables tests environment variable override
func TestLoadConfigEnvironmentVariables(t *testing.T) {
	t.Setenv("BET_OUTLIER_APP_NAME", testAppName)

	cfg := loadValid(t)
	if cfg.App.Name != testAppName {
		t.Errorf("expected app name '%s' from environment, got '%s'", testAppName, cfg.App.Name)
	}
}

// TestLoadConfigExpandsPlaceholders tests ${VAR} expansion in the YAML file
func TestLoadConfigExpandsPlaceholders(t *testing.T) {
	t.Setenv("TEST_SPORTSDATAIO_KEY", "expanded_secret_value")

	cfg := loadValid(t)
	provider, ok := cfg.Provider(ProviderSportsDataIO)
	if !ok {
		t.Fatal("expected sportsdataio provider")
	}
	if provider.APIKey != "expanded_secret_value" {
		t.Errorf("expected expanded API key, got %q", provider.APIKey)
	}
}

// TestLoadWithDefaultsMissingFile tests that defaults apply without a file
func TestLoadWithDefaultsMissingFile(t *testing.T) {
	cfg, err := LoadWithDefaults(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}

	if cfg.App.Environment != developmentEnv {
		t.Errorf("expected default environment, got %q", cfg.App.Environment)
	}
	if cfg.Edge.RankScale != 32 || cfg.Edge.DefaultDefenseRank != 16 {
		t.Errorf("expected default rank settings, got %+v", cfg.Edge)
	}
	if cfg.Edge.HighConfidenceThreshold != 3.0 {
		t.Errorf("expected default confidence threshold 3, got %v", cfg.Edge.HighConfidenceThreshold)
	}
	if err := Validate(cfg); err != nil {
		t.Errorf("expected defaults to validate, got %v", err)
	}
}

// TestValidateSuccess tests validation of a valid configuration
func TestValidateSuccess(t *testing.T) {
	cfg := loadValid(t)
	if err := Validate(cfg); err != nil {
		t.Fatalf("expected no validation error, got %v", err)
	}
}

// TestValidateInvalidEnvironment tests validation of invalid environment
func TestValidateInvalidEnvironment(t *testing.T) {
	cfg := loadValid(t)
	cfg.App.Environment = "invalid"
	if err := Validate(cfg); err == nil {
		t.Fatal("expected validation error for invalid environment")
	}
}

// TestValidateInvalidReference tests the custom reference table rules
func TestValidateInvalidReference(t *testing.T) {
	cfg, err := Load(invalidReferencePath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingConfig, err)
	}

	err = ValidateReference(cfg.Reference)
	if err == nil {
		t.Fatal("expected validation error for invalid reference tables")
	}

	for _, fragment := range []string{"team code", "prop type", "American odds", "Passing"} {
		if !strings.Contains(err.Error(), fragment) {
			t.Errorf("expected error to mention %q, got: %v", fragment, err)
		}
	}
}

// TestValidateDuplicateTeam tests rejection of duplicated defense rows
func TestValidateDuplicateTeam(t *testing.T) {
	cfg := loadValid(t)
	cfg.Reference.DefenseRankings = append(cfg.Reference.DefenseRankings, DefenseRankingEntry{
		Team: "buf", Passing: 1, Rushing: 1, Receiving: 1,
	})
	if err := Validate(cfg); err == nil {
		t.Fatal("expected validation error for duplicate team")
	}
}

// TestValidateConfidenceOrdering tests the cross-field confidence check
func TestValidateConfidenceOrdering(t *testing.T) {
	cfg := loadValid(t)
	cfg.Edge.HighConfidenceScore = 50
	if err := Validate(cfg); err == nil {
		t.Fatal("expected validation error when high score is below base score")
	}
}

// TestValidateStrictMatchups tests that strict mode requires configured props
func TestValidateStrictMatchups(t *testing.T) {
	cfg := loadValid(t)
	cfg.Analysis.Strict = true
	if err := Validate(cfg); err != nil {
		t.Fatalf("expected configured matchups to pass strict mode, got %v", err)
	}

	cfg.Analysis.Matchups = append(cfg.Analysis.Matchups, cfg.Analysis.Matchups[0])
	cfg.Analysis.Matchups[3].Player = "Unknown Player"
	if err := Validate(cfg); err == nil {
		t.Fatal("expected strict validation error for unknown player")
	}
}

// TestValidateEnrichRequiresProvider tests the enrichment cross-field check
func TestValidateEnrichRequiresProvider(t *testing.T) {
	cfg := loadValid(t)
	cfg.Analysis.Enrich = true
	for i := range cfg.Providers.Sources {
		cfg.Providers.Sources[i].Enabled = false
	}
	if err := Validate(cfg); err == nil {
		t.Fatal("expected validation error when enrichment has no provider")
	}
}

// TestValidateEnvironmentProduction tests production credential checks
func TestValidateEnvironmentProduction(t *testing.T) {
	cfg := loadValid(t)
	cfg.App.Environment = "production"
	cfg.Providers.Sources[0].APIKey = "test-key"
	if err := ValidateEnvironment(cfg); err == nil {
		t.Fatal("expected error for test credential in production")
	}

	cfg.Providers.Sources[0].APIKey = "a1b2c3d4e5"
	if err := ValidateEnvironment(cfg); err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}
}

// TestIsProduction tests production environment check
func TestIsProduction(t *testing.T) {
	cfg := &Config{App: AppConfig{Environment: "production"}}

	if !cfg.IsProduction() {
		t.Error("expected IsProduction() to return true")
	}
	if cfg.IsDevelopment() || cfg.IsStaging() {
		t.Error("expected only production to be reported")
	}
}

type fakeSecrets struct {
	output *secretsmanager.GetSecretValueOutput
	err    error
}

func (f *fakeSecrets) GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	return f.output, f.err
}

// TestLoadSecretsOverlay tests provider keys are applied from the secret
func TestLoadSecretsOverlay(t *testing.T) {
	cfg := loadValid(t)
	client := &fakeSecrets{output: &secretsmanager.GetSecretValueOutput{
		SecretString: aws.String(`{"sportsdataio_api_key":"sd-secret","thesportsdb_api_key":"tsdb-secret"}`),
	}}

	if err := LoadSecrets(context.Background(), cfg, client, "bet-outlier/providers"); err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}

	sd, _ := cfg.Provider(ProviderSportsDataIO)
	tsdb, _ := cfg.Provider(ProviderTheSportsDB)
	if sd.APIKey != "sd-secret" || tsdb.APIKey != "tsdb-secret" {
		t.Errorf("expected keys from secret, got %q and %q", sd.APIKey, tsdb.APIKey)
	}
}

// TestLoadSecretsEmpty tests a secret without payload
func TestLoadSecretsEmpty(t *testing.T) {
	cfg := loadValid(t)
	err := LoadSecrets(context.Background(), cfg, &fakeSecrets{output: &secretsmanager.GetSecretValueOutput{}}, "empty")
	if !errors.Is(err, errNoSecretDataFound) {
		t.Fatalf("expected errNoSecretDataFound, got %v", err)
	}
}
