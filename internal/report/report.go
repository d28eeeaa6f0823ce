// Package report renders analysis runs for terminals, JSON consumers and spreadsheets.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/yourusername/bet-outlier/internal/models"
)

// Output formats
const (
	FormatConsole = "console"
	FormatJSON    = "json"
	FormatCSV     = "csv"
)

var csvHeader = []string{
	"run_id", "player", "prop_type", "opponent", "recommendation",
	"projected_value", "market_line", "edge_percentage", "confidence_score",
	"defense_matchup", "defense_rank", "best_odds", "implied_probability",
	"data_confidence", "sources",
}

// oneDecimal rounds half away from zero and always prints one decimal place
func oneDecimal(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(1)
}

// GenerateConsoleReport formats a run for terminal output
func GenerateConsoleReport(run *models.AnalysisRun) string {
	var builder strings.Builder
	builder.WriteString("BET OUTLIER ANALYSIS RESULTS\n")
	builder.WriteString("============================\n")
	builder.WriteString(fmt.Sprintf("Run: %s\n", run.ID))
	builder.WriteString(fmt.Sprintf("Matchups: %d | Actionable: %d\n\n", len(run.Results), run.ActionableCount()))

	for _, r := range run.Results {
		builder.WriteString(fmt.Sprintf("%s vs %s\n", r.Player, r.Opponent))
		builder.WriteString(fmt.Sprintf("   Prop: %s\n", r.PropType))
		if !r.Computable {
			builder.WriteString(fmt.Sprintf("   No edge computable (line %s)\n", oneDecimal(r.MarketLine)))
		} else {
			builder.WriteString(fmt.Sprintf("   Recommendation: %s\n", r.Recommendation))
			builder.WriteString(fmt.Sprintf("   Projected: %s vs Line: %s\n", oneDecimal(r.ProjectedValue), oneDecimal(r.MarketLine)))
			builder.WriteString(fmt.Sprintf("   Edge: %s%% | Confidence: %d%%\n", oneDecimal(r.EdgePercentage), r.ConfidenceScore))
			builder.WriteString(fmt.Sprintf("   Defense: %s (rank %d) | Best Odds: %s\n", r.DefenseMatchup, r.DefenseRank, formatOdds(r.BestOdds)))
		}
		if r.Enrichment != nil {
			builder.WriteString(fmt.Sprintf("   Sources: %s | Data confidence: %s\n", sourcesLabel(r.Enrichment), r.Enrichment.DataConfidence))
		}
		builder.WriteString("\n")
	}

	return builder.String()
}

// WriteJSON writes the run as indented JSON
func WriteJSON(w io.Writer, run *models.AnalysisRun) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(run)
}

// WriteCSV writes one row per result with values rounded for display
func WriteCSV(w io.Writer, run *models.AnalysisRun) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, r := range run.Results {
		confidence := ""
		if r.Enrichment != nil {
			confidence = string(r.Enrichment.DataConfidence)
		}
		row := []string{
			run.ID.String(),
			r.Player,
			string(r.PropType),
			r.Opponent,
			string(r.Recommendation),
			oneDecimal(r.ProjectedValue),
			oneDecimal(r.MarketLine),
			oneDecimal(r.EdgePercentage),
			strconv.Itoa(r.ConfidenceScore),
			r.DefenseMatchup,
			strconv.Itoa(r.DefenseRank),
			strconv.Itoa(r.BestOdds),
			decimal.NewFromFloat(r.ImpliedProbability).StringFixed(4),
			confidence,
			strings.Join(r.Enrichment.SourceNames(), ";"),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// ExportToJSON writes the run as JSON to outputPath
func ExportToJSON(run *models.AnalysisRun, outputPath string) error {
	return writeFile(outputPath, func(w io.Writer) error { return WriteJSON(w, run) })
}

// GenerateCSVExport writes the run as CSV to outputPath
func GenerateCSVExport(run *models.AnalysisRun, outputPath string) error {
	return writeFile(outputPath, func(w io.Writer) error { return WriteCSV(w, run) })
}

// Write renders the run in the given format
func Write(w io.Writer, run *models.AnalysisRun, format string) error {
	switch format {
	case FormatConsole, "":
		_, err := io.WriteString(w, GenerateConsoleReport(run))
		return err
	case FormatJSON:
		return WriteJSON(w, run)
	case FormatCSV:
		return WriteCSV(w, run)
	default:
		return fmt.Errorf("unknown report format: %s", format)
	}
}

func writeFile(outputPath string, render func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	if err := render(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func formatOdds(odds int) string {
	if odds > 0 {
		return "+" + strconv.Itoa(odds)
	}
	return strconv.Itoa(odds)
}

func sourcesLabel(e *models.Enrichment) string {
	names := e.SourceNames()
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ", ")
}
