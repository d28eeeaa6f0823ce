package edge

import (
	"fmt"

	"github.com/yourusername/bet-outlier/internal/models"
)

// BestOdds returns the American odds for the recommended side
func BestOdds(rec models.Recommendation, line models.PropLine) int {
	if rec == models.RecommendationOver {
		return line.OverOdds
	}
	return line.UnderOdds
}

// AmericanToDecimal converts American odds to decimal odds.
// +150 -> 2.50, -150 -> 1.67
func AmericanToDecimal(american int) (float64, error) {
	if american > -100 && american < 100 {
		return 0, fmt.Errorf("invalid American odds %d: magnitude must be at least 100", american)
	}
	if american > 0 {
		return float64(american)/100.0 + 1.0, nil
	}
	return 100.0/float64(-american) + 1.0, nil
}

// ImpliedProbability converts American odds to the bookmaker's implied probability
func ImpliedProbability(american int) (float64, error) {
	dec, err := AmericanToDecimal(american)
	if err != nil {
		return 0, err
	}
	return 1.0 / dec, nil
}

// MarketHold returns the overround of a two-way market (sum of implied probabilities - 1)
func MarketHold(line models.PropLine) (float64, error) {
	over, err := ImpliedProbability(line.OverOdds)
	if err != nil {
		return 0, fmt.Errorf("over odds: %w", err)
	}
	under, err := ImpliedProbability(line.UnderOdds)
	if err != nil {
		return 0, fmt.Errorf("under odds: %w", err)
	}
	return over + under - 1, nil
}
