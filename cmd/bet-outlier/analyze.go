package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yourusername/bet-outlier/internal/models"
	"github.com/yourusername/bet-outlier/internal/report"
)

type analyzeOptions struct {
	player   string
	prop     string
	opponent string
	format   string
	output   string
	enrich   bool
}

func newAnalyzeCmd() *cobra.Command {
	opts := &analyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Compute edges for configured matchups or a single matchup",
		Example: `  bet-outlier analyze
  bet-outlier analyze --player "Patrick Mahomes" --prop passing_yards --opponent BUF --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			matchups, err := matchupsFromFlags(opts, cfg.Analysis.Matchups)
			if err != nil {
				return err
			}

			enrich := cfg.Analysis.Enrich
			if cmd.Flags().Changed("enrich") {
				enrich = opts.enrich
			}

			svc, err := buildService(cfg, enrich, appLog)
			if err != nil {
				return err
			}

			run, err := svc.Analyze(cmd.Context(), matchups, enrich)
			if err != nil {
				return fmt.Errorf("analysis failed: %w", err)
			}

			return writeRun(cmd, run, opts.format, opts.output)
		},
	}

	cmd.Flags().StringVar(&opts.player, "player", "", "Player name")
	cmd.Flags().StringVar(&opts.prop, "prop", "", "Prop type (e.g. passing_yards)")
	cmd.Flags().StringVar(&opts.opponent, "opponent", "", "Opponent team code (e.g. BUF)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", report.FormatConsole, "Output format: console, json or csv")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Write the report to this file instead of stdout")
	cmd.Flags().BoolVar(&opts.enrich, "enrich", false, "Attach player metadata from the enabled providers")

	return cmd
}

// matchupsFromFlags returns the single matchup named on the command line, or
// the configured matchups when no player was given.
func matchupsFromFlags(opts *analyzeOptions, configured []models.Matchup) ([]models.Matchup, error) {
	if opts.player == "" && opts.prop == "" && opts.opponent == "" {
		if len(configured) == 0 {
			return nil, fmt.Errorf("no matchups configured; pass --player, --prop and --opponent")
		}
		return configured, nil
	}

	if opts.player == "" || opts.prop == "" || opts.opponent == "" {
		return nil, fmt.Errorf("--player, --prop and --opponent must be given together")
	}

	prop := strings.ToLower(strings.TrimSpace(opts.prop))
	if !models.IsKnownPropType(prop) {
		return nil, fmt.Errorf("%w: %s", models.ErrInvalidPropType, opts.prop)
	}

	return []models.Matchup{{
		Player:   strings.TrimSpace(opts.player),
		PropType: models.PropType(prop),
		Opponent: strings.ToUpper(strings.TrimSpace(opts.opponent)),
	}}, nil
}

func writeRun(cmd *cobra.Command, run *models.AnalysisRun, format, output string) error {
	if output == "" {
		return report.Write(cmd.OutOrStdout(), run, format)
	}

	var err error
	switch format {
	case report.FormatJSON:
		err = report.ExportToJSON(run, output)
	case report.FormatCSV:
		err = report.GenerateCSVExport(run, output)
	case report.FormatConsole, "":
		err = os.WriteFile(output, []byte(report.GenerateConsoleReport(run)), 0o644)
	default:
		err = fmt.Errorf("unknown report format: %s", format)
	}
	if err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	appLog.WithField("path", output).Info("Report written")
	return nil
}
