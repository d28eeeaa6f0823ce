package edge

import (
	"errors"
	"math"

	"github.com/yourusername/bet-outlier/internal/models"
)

// ErrNoEdge is returned when an edge cannot be computed for the given line
var ErrNoEdge = errors.New("no edge computable")

// Input carries everything needed to score one matchup
type Input struct {
	Player         string
	PropType       models.PropType
	Opponent       string
	BaseProjection float64
	// DefenseRank is the opponent rank for the prop's category; 0 means unknown
	DefenseRank int
	Line        models.PropLine
}

// Calculator scores prop edges under a fixed policy. It holds no mutable state
// and is safe for concurrent use.
type Calculator struct {
	policy Policy
}

// NewCalculator creates a calculator for the given policy
func NewCalculator(policy Policy) *Calculator {
	return &Calculator{policy: policy.withDefaults()}
}

// Policy returns the policy in effect
func (c *Calculator) Policy() Policy {
	return c.policy
}

// NormalizeRank substitutes the default rank for unknown ranks and clamps the
// rest into 1..RankScale.
func (c *Calculator) NormalizeRank(rank int) int {
	if rank == 0 {
		return c.policy.DefaultDefenseRank
	}
	if rank < 1 {
		return 1
	}
	if rank > c.policy.RankScale {
		return c.policy.RankScale
	}
	return rank
}

// MatchupAdvantage is the canonical normalization of a defense rank:
// 1 - rank/RankScale, in [0, 1). Both the projection adjustment and the
// matchup label are derived from it.
func (c *Calculator) MatchupAdvantage(rank int) float64 {
	rank = c.NormalizeRank(rank)
	return 1 - float64(rank)/float64(c.policy.RankScale)
}

// DefenseAdjustment returns the multiplicative projection bonus for a rank,
// in [0, MaxDefenseAdjustment). It decreases monotonically as rank grows.
func (c *Calculator) DefenseAdjustment(rank int) float64 {
	return c.MatchupAdvantage(rank) * c.policy.MaxDefenseAdjustment
}

// MatchupLabel classifies a defense rank as Favorable or Neutral
func (c *Calculator) MatchupLabel(rank int) string {
	if c.MatchupAdvantage(rank) > c.policy.FavorableThreshold {
		return models.MatchupFavorable
	}
	return models.MatchupNeutral
}

// ProjectPerformance applies a defense adjustment to a base projection
func ProjectPerformance(baseValue, defenseAdjustment float64) float64 {
	return baseValue * (1 + defenseAdjustment)
}

// ComputeEdge returns the signed edge (projection - line) and its magnitude as
// a percentage of the line. A non-positive or non-finite line yields ErrNoEdge.
func ComputeEdge(projection, line float64) (float64, float64, error) {
	if line <= 0 || math.IsNaN(line) || math.IsInf(line, 0) {
		return 0, 0, ErrNoEdge
	}
	if math.IsNaN(projection) || math.IsInf(projection, 0) {
		return 0, 0, ErrNoEdge
	}
	signed := projection - line
	return signed, math.Abs(signed) / line * 100, nil
}

// Classify maps an edge to a recommendation and confidence score.
// A projection exactly on the line is reported as UNDER.
func (c *Calculator) Classify(edgeSigned, edgePercentage float64) (models.Recommendation, int) {
	rec := models.RecommendationUnder
	if edgeSigned > 0 {
		rec = models.RecommendationOver
	}
	score := c.policy.BaseConfidenceScore
	if edgePercentage > c.policy.HighConfidenceThreshold {
		score = c.policy.HighConfidenceScore
	}
	return rec, score
}

// Evaluate scores a single matchup
func (c *Calculator) Evaluate(in Input) models.EdgeResult {
	rank := c.NormalizeRank(in.DefenseRank)
	projection := ProjectPerformance(in.BaseProjection, c.DefenseAdjustment(rank))

	result := models.EdgeResult{
		Player:          in.Player,
		PropType:        in.PropType,
		Opponent:        in.Opponent,
		ProjectedValue:  projection,
		MarketLine:      in.Line.Line,
		DefenseRank:     rank,
		DefenseMatchup:  c.MatchupLabel(rank),
		Recommendation:  models.RecommendationNone,
		ConfidenceScore: c.policy.BaseConfidenceScore,
	}

	signed, pct, err := ComputeEdge(projection, in.Line.Line)
	if err != nil {
		return result
	}

	rec, score := c.Classify(signed, pct)
	result.Computable = true
	result.Recommendation = rec
	result.EdgeSigned = signed
	result.EdgePercentage = pct
	result.ConfidenceScore = score
	result.BestOdds = BestOdds(rec, in.Line)
	if p, err := ImpliedProbability(result.BestOdds); err == nil {
		result.ImpliedProbability = p
	}
	if hold, err := MarketHold(in.Line); err == nil {
		result.MarketHold = hold
	}
	return result
}
