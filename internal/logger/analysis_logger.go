// Package logger provides analysis-specific logging.
package logger

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/bet-outlier/internal/models"
)

// AnalysisLogger provides dedicated logging for edge analysis runs.
type AnalysisLogger struct {
	*logrus.Entry
}

// NewAnalysisLogger creates a new analysis logger.
func NewAnalysisLogger(baseLogger *logrus.Logger) *AnalysisLogger {
	return &AnalysisLogger{
		Entry: baseLogger.WithField("component", "analysis"),
	}
}

// LogEdgeResult logs a computed edge.
func (al *AnalysisLogger) LogEdgeResult(runID uuid.UUID, result models.EdgeResult) {
	al.WithFields(logrus.Fields{
		"run_id":           runID.String(),
		"player":           result.Player,
		"prop_type":        result.PropType,
		"opponent":         result.Opponent,
		"recommendation":   result.Recommendation,
		"edge_percentage":  result.EdgePercentage,
		"projected_value":  result.ProjectedValue,
		"market_line":      result.MarketLine,
		"confidence_score": result.ConfidenceScore,
		"best_odds":        result.BestOdds,
		"defense_rank":     result.DefenseRank,
	}).Info("Edge computed")
}

// LogNoEdge logs a matchup for which no edge could be computed.
func (al *AnalysisLogger) LogNoEdge(runID uuid.UUID, result models.EdgeResult) {
	al.WithFields(logrus.Fields{
		"run_id":      runID.String(),
		"player":      result.Player,
		"prop_type":   result.PropType,
		"opponent":    result.Opponent,
		"market_line": result.MarketLine,
	}).Warn("No edge computable")
}

// LogEnrichmentFailure logs a provider lookup that degraded to missing data.
func (al *AnalysisLogger) LogEnrichmentFailure(runID uuid.UUID, provider, player string, err error) {
	al.WithFields(logrus.Fields{
		"run_id":   runID.String(),
		"provider": provider,
		"player":   player,
	}).WithError(err).Warn("Player enrichment unavailable")
}

// LogBatchCompleted logs the summary of a run.
func (al *AnalysisLogger) LogBatchCompleted(runID uuid.UUID, matchups, actionable int, durationMs float64) {
	al.WithFields(logrus.Fields{
		"run_id":      runID.String(),
		"matchups":    matchups,
		"actionable":  actionable,
		"duration_ms": durationMs,
	}).Info("Analysis batch completed")
}

// LogReferenceReload logs a reload of the reference tables.
func (al *AnalysisLogger) LogReferenceReload(players, teams int) {
	al.WithFields(logrus.Fields{
		"event_type": "reference_reload",
		"players":    players,
		"teams":      teams,
	}).Info("Reference tables reloaded")
}
