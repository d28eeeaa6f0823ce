package edge

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/bet-outlier/internal/config"
	"github.com/yourusername/bet-outlier/internal/models"
)

func TestDefenseAdjustment(t *testing.T) {
	calc := NewCalculator(DefaultPolicy())

	assert.InDelta(t, 0.15, calc.DefenseAdjustment(8), 1e-9)
	assert.InDelta(t, 0.0, calc.DefenseAdjustment(32), 1e-9)
	assert.InDelta(t, 0.19375, calc.DefenseAdjustment(1), 1e-9)

	// unknown rank falls back to the default of 16
	assert.InDelta(t, 0.1, calc.DefenseAdjustment(0), 1e-9)
}

func TestDefenseAdjustmentMonotonicAndBounded(t *testing.T) {
	calc := NewCalculator(DefaultPolicy())

	prev := math.Inf(1)
	for rank := 1; rank <= 32; rank++ {
		adj := calc.DefenseAdjustment(rank)
		assert.GreaterOrEqual(t, adj, 0.0, "rank %d", rank)
		assert.Less(t, adj, 0.2, "rank %d", rank)
		assert.Less(t, adj, prev, "rank %d should lower the adjustment", rank)
		prev = adj
	}
}

func TestNormalizeRankClamps(t *testing.T) {
	calc := NewCalculator(DefaultPolicy())

	assert.Equal(t, 16, calc.NormalizeRank(0))
	assert.Equal(t, 1, calc.NormalizeRank(-4))
	assert.Equal(t, 32, calc.NormalizeRank(40))
	assert.Equal(t, 12, calc.NormalizeRank(12))
}

func TestMatchupLabel(t *testing.T) {
	calc := NewCalculator(DefaultPolicy())

	tests := []struct {
		rank     int
		expected string
	}{
		{1, models.MatchupFavorable},
		{8, models.MatchupFavorable},
		{9, models.MatchupFavorable},
		{10, models.MatchupNeutral},
		{16, models.MatchupNeutral},
		{32, models.MatchupNeutral},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, calc.MatchupLabel(tt.rank), "rank %d", tt.rank)
	}
}

func TestProjectPerformance(t *testing.T) {
	assert.InDelta(t, 327.75, ProjectPerformance(285, 0.15), 1e-9)
	assert.InDelta(t, 100.0, ProjectPerformance(100, 0), 1e-9)
	assert.Equal(t, 0.0, ProjectPerformance(0, 0.19))
}

func TestComputeEdge(t *testing.T) {
	tests := []struct {
		name       string
		projection float64
		line       float64
		signed     float64
		pct        float64
	}{
		{"over", 327.75, 275.5, 52.25, 18.9655},
		{"under", 80, 100, -20, 20},
		{"on the line", 50, 50, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			signed, pct, err := ComputeEdge(tt.projection, tt.line)
			require.NoError(t, err)
			assert.InDelta(t, tt.signed, signed, 1e-9)
			assert.InDelta(t, tt.pct, pct, 1e-3)
			assert.GreaterOrEqual(t, pct, 0.0)
			assert.InDelta(t, math.Abs(tt.projection-tt.line)/tt.line*100, pct, 1e-9)
		})
	}
}

func TestComputeEdgeUncomputable(t *testing.T) {
	for _, line := range []float64{0, -1.5, math.NaN(), math.Inf(1)} {
		_, _, err := ComputeEdge(100, line)
		assert.True(t, errors.Is(err, ErrNoEdge), "line %v", line)
	}

	_, _, err := ComputeEdge(math.NaN(), 10)
	assert.ErrorIs(t, err, ErrNoEdge)
}

func TestClassify(t *testing.T) {
	calc := NewCalculator(DefaultPolicy())

	tests := []struct {
		name   string
		signed float64
		pct    float64
		rec    models.Recommendation
		score  int
	}{
		{"strong over", 10, 5, models.RecommendationOver, 80},
		{"weak over", 1, 2, models.RecommendationOver, 60},
		{"strong under", -10, 5, models.RecommendationUnder, 80},
		{"threshold is exclusive", 3, 3.0, models.RecommendationOver, 60},
		{"just above threshold", 3, 3.01, models.RecommendationOver, 80},
		{"tie goes under", 0, 0, models.RecommendationUnder, 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, score := calc.Classify(tt.signed, tt.pct)
			assert.Equal(t, tt.rec, rec)
			assert.Equal(t, tt.score, score)
		})
	}
}

func TestClassifyUsesPolicy(t *testing.T) {
	policy := DefaultPolicy()
	policy.HighConfidenceThreshold = 10
	policy.HighConfidenceScore = 90
	policy.BaseConfidenceScore = 50
	calc := NewCalculator(policy)

	_, score := calc.Classify(5, 8)
	assert.Equal(t, 50, score)
	_, score = calc.Classify(5, 12)
	assert.Equal(t, 90, score)
}

func TestEvaluateReferenceMatchup(t *testing.T) {
	calc := NewCalculator(DefaultPolicy())

	result := calc.Evaluate(Input{
		Player:         "Patrick Mahomes",
		PropType:       models.PropPassingYards,
		Opponent:       "BUF",
		BaseProjection: 285,
		DefenseRank:    8,
		Line:           models.PropLine{Line: 275.5, OverOdds: -115, UnderOdds: -105},
	})

	assert.True(t, result.Computable)
	assert.Equal(t, models.RecommendationOver, result.Recommendation)
	assert.InDelta(t, 327.75, result.ProjectedValue, 1e-9)
	assert.InDelta(t, 18.96, result.EdgePercentage, 0.01)
	assert.Equal(t, 80, result.ConfidenceScore)
	assert.Equal(t, -115, result.BestOdds)
	assert.Equal(t, models.MatchupFavorable, result.DefenseMatchup)
	assert.InDelta(t, 115.0/215.0, result.ImpliedProbability, 1e-9)
	assert.Greater(t, result.MarketHold, 0.0)
	assert.True(t, result.IsActionable())
}

func TestEvaluateUnderPicksUnderOdds(t *testing.T) {
	calc := NewCalculator(DefaultPolicy())

	result := calc.Evaluate(Input{
		Player:         "Backup QB",
		PropType:       models.PropPassingYards,
		Opponent:       "SF",
		BaseProjection: 150,
		DefenseRank:    32,
		Line:           models.PropLine{Line: 180.5, OverOdds: -120, UnderOdds: 100},
	})

	assert.Equal(t, models.RecommendationUnder, result.Recommendation)
	assert.Equal(t, 100, result.BestOdds)
	assert.Less(t, result.EdgeSigned, 0.0)
	assert.Greater(t, result.EdgePercentage, 0.0)
}

func TestEvaluateZeroLine(t *testing.T) {
	calc := NewCalculator(DefaultPolicy())

	result := calc.Evaluate(Input{
		Player:   "Unknown Player",
		PropType: models.PropRushingYards,
		Opponent: "XXX",
		Line:     models.PropLine{Line: 0, OverOdds: -110, UnderOdds: -110},
	})

	assert.False(t, result.Computable)
	assert.False(t, result.IsActionable())
	assert.Equal(t, models.RecommendationNone, result.Recommendation)
	assert.Equal(t, 0.0, result.EdgePercentage)
	assert.Equal(t, 0.0, result.ProjectedValue)
	assert.Equal(t, 16, result.DefenseRank)
	assert.Equal(t, 60, result.ConfidenceScore)
}

func TestNewCalculatorZeroPolicyUsesDefaults(t *testing.T) {
	calc := NewCalculator(Policy{})
	assert.Equal(t, DefaultPolicy(), calc.Policy())
}

func TestFromConfig(t *testing.T) {
	policy := FromConfig(&config.EdgeConfig{
		MaxDefenseAdjustment:    0.2,
		RankScale:               32,
		DefaultDefenseRank:      16,
		FavorableThreshold:      0.7,
		HighConfidenceThreshold: 3,
		HighConfidenceScore:     80,
		BaseConfidenceScore:     60,
	})
	assert.Equal(t, DefaultPolicy(), policy)
	assert.Equal(t, 0.7, policy.GetParameters()["favorable_threshold"])
}
