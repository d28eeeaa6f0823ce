package models

import (
	"time"

	"github.com/google/uuid"
)

// Recommendation is the side of the prop the edge points to
type Recommendation string

const (
	RecommendationOver  Recommendation = "OVER"
	RecommendationUnder Recommendation = "UNDER"
	// RecommendationNone is reported when no edge is computable (zero line)
	RecommendationNone Recommendation = "NO_EDGE"
)

// Defense matchup labels
const (
	MatchupFavorable = "Favorable"
	MatchupNeutral   = "Neutral"
)

// EdgeResult is the derived edge analysis for a single matchup
type EdgeResult struct {
	Player             string         `json:"player"`
	PropType           PropType       `json:"prop_type"`
	Opponent           string         `json:"opponent"`
	Recommendation     Recommendation `json:"recommendation"`
	EdgeSigned         float64        `json:"edge_signed"`
	EdgePercentage     float64        `json:"edge_percentage"`
	ProjectedValue     float64        `json:"projected_value"`
	MarketLine         float64        `json:"market_line"`
	ConfidenceScore    int            `json:"confidence_score"`
	BestOdds           int            `json:"best_odds"`
	ImpliedProbability float64        `json:"implied_probability"`
	MarketHold         float64        `json:"market_hold"`
	DefenseRank        int            `json:"defense_rank"`
	DefenseMatchup     string         `json:"defense_matchup"`
	Computable         bool           `json:"computable"`
	Enrichment         *Enrichment    `json:"enrichment,omitempty"`
}

// IsActionable returns true if the result carries a directional recommendation
func (r *EdgeResult) IsActionable() bool {
	return r.Computable && (r.Recommendation == RecommendationOver || r.Recommendation == RecommendationUnder)
}

// AnalysisRun groups the results of one batch of matchups
type AnalysisRun struct {
	ID          uuid.UUID    `json:"id"`
	StartedAt   time.Time    `json:"started_at"`
	CompletedAt time.Time    `json:"completed_at"`
	Results     []EdgeResult `json:"results"`
}

// ActionableCount returns how many results carry a recommendation
func (r *AnalysisRun) ActionableCount() int {
	n := 0
	for i := range r.Results {
		if r.Results[i].IsActionable() {
			n++
		}
	}
	return n
}
