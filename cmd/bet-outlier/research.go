package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yourusername/bet-outlier/internal/report"
)

func newResearchCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "research <player>...",
		Short: "Look up players across the enabled data providers",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := buildService(cfg, true, appLog)
			if err != nil {
				return err
			}

			results := svc.Research(cmd.Context(), args)
			out := cmd.OutOrStdout()

			if format == report.FormatJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(results)
			}

			for _, r := range results {
				fmt.Fprintf(out, "%s\n", r.Player)
				if r.Enrichment == nil {
					fmt.Fprintln(out, "   No provider data")
					continue
				}
				for _, p := range r.Enrichment.Sources {
					details := []string{p.Name}
					if p.Team != "" {
						details = append(details, p.Team)
					}
					if p.Position != "" {
						details = append(details, p.Position)
					}
					fmt.Fprintf(out, "   %s: %s\n", p.Source, strings.Join(details, " | "))
				}
				fmt.Fprintf(out, "   Data confidence: %s\n\n", r.Enrichment.DataConfidence)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", report.FormatConsole, "Output format: console or json")
	return cmd
}
