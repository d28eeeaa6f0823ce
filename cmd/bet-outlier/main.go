package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/yourusername/bet-outlier/internal/config"
	"github.com/yourusername/bet-outlier/internal/datasource"
	"github.com/yourusername/bet-outlier/internal/edge"
	"github.com/yourusername/bet-outlier/internal/logger"
	"github.com/yourusername/bet-outlier/internal/reference"
	"github.com/yourusername/bet-outlier/internal/service"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	configFile string
	cfg        *config.Config
	appLog     *logrus.Logger
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", config.DefaultConfigPath, "Path to configuration file")
	rootCmd.PersistentFlags().String("log-level", "", "Override the configured log level (debug, info, warn, error)")
	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.AddCommand(newAnalyzeCmd(), newResearchCmd(), newWatchCmd())
}

var rootCmd = &cobra.Command{
	Use:     "bet-outlier",
	Short:   "Find edges in NFL player prop lines",
	Long:    `Compares defense-adjusted player projections against sportsbook lines and reports the side and size of each edge.`,
	Version: fmt.Sprintf("%s (commit %s, built %s)", Version, GitCommit, BuildDate),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := loadConfigWithSecrets(cmd.Context(), configFile)
		if err != nil {
			return err
		}
		cfg = loaded
		appLog = logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)
		return nil
	},
	SilenceUsage: true,
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfigWithSecrets loads the config file, overlays AWS Secrets Manager
// credentials when AWS_SECRETS_ENABLED is true, and validates the result.
func loadConfigWithSecrets(ctx context.Context, path string) (*config.Config, error) {
	loaded, err := config.LoadWithDefaults(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if level := viper.GetString("log_level"); level != "" {
		loaded.App.LogLevel = level
	}

	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			return nil, fmt.Errorf("AWS_REGION and AWS_SECRET_NAME environment variables must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(ctx, loaded, region, secretName); err != nil {
			return nil, fmt.Errorf("failed to load secrets: %w", err)
		}
	}

	if err := config.Validate(loaded); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if err := config.ValidateEnvironment(loaded); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return loaded, nil
}

// buildService wires the calculator, reference tables and, when withProviders
// is set, the enabled enrichment providers.
func buildService(cfg *config.Config, withProviders bool, log *logrus.Logger) (*service.AnalysisService, error) {
	calculator := edge.NewCalculator(edge.FromConfig(&cfg.Edge))
	if log != nil {
		log.WithFields(logrus.Fields(calculator.Policy().GetParameters())).Debug("Edge policy loaded")
	}

	tables, err := reference.FromConfig(cfg.Reference)
	if err != nil {
		return nil, fmt.Errorf("failed to build reference tables: %w", err)
	}

	var providers []datasource.Provider
	if withProviders {
		cache := datasource.NewResponseCache(cfg.CacheTTL(), cfg.Cache.MaxSize)
		providers = datasource.NewFactory(cfg.Providers, cache, log).NewProviders()
	}

	return service.NewAnalysisService(calculator, tables, providers, cfg.EnrichmentTimeout(), log), nil
}
