// Package edge computes betting edges for player props.
package edge

import "github.com/yourusername/bet-outlier/internal/config"

// Policy holds the tunable constants of the edge model. None of them are
// derived; they are supplied from configuration at construction.
type Policy struct {
	// MaxDefenseAdjustment caps the projection bonus granted by the matchup
	MaxDefenseAdjustment float64
	// RankScale is the number of teams ranked (ranks run 1..RankScale)
	RankScale int
	// DefaultDefenseRank is used when the opponent or category is unknown
	DefaultDefenseRank int
	// FavorableThreshold is the matchup advantage above which a defense is Favorable
	FavorableThreshold float64
	// HighConfidenceThreshold is the edge percentage above which confidence is high
	HighConfidenceThreshold float64
	HighConfidenceScore     int
	BaseConfidenceScore     int
}

// DefaultPolicy returns the reference policy
func DefaultPolicy() Policy {
	return Policy{
		MaxDefenseAdjustment:    0.2,
		RankScale:               32,
		DefaultDefenseRank:      16,
		FavorableThreshold:      0.7,
		HighConfidenceThreshold: 3.0,
		HighConfidenceScore:     80,
		BaseConfidenceScore:     60,
	}
}

// FromConfig builds a policy from the edge section of the configuration
func FromConfig(cfg *config.EdgeConfig) Policy {
	return Policy{
		MaxDefenseAdjustment:    cfg.MaxDefenseAdjustment,
		RankScale:               cfg.RankScale,
		DefaultDefenseRank:      cfg.DefaultDefenseRank,
		FavorableThreshold:      cfg.FavorableThreshold,
		HighConfidenceThreshold: cfg.HighConfidenceThreshold,
		HighConfidenceScore:     cfg.HighConfidenceScore,
		BaseConfidenceScore:     cfg.BaseConfidenceScore,
	}
}

// GetParameters returns the policy as a flat map for logging and export
func (p Policy) GetParameters() map[string]interface{} {
	return map[string]interface{}{
		"max_defense_adjustment":    p.MaxDefenseAdjustment,
		"rank_scale":                p.RankScale,
		"default_defense_rank":      p.DefaultDefenseRank,
		"favorable_threshold":       p.FavorableThreshold,
		"high_confidence_threshold": p.HighConfidenceThreshold,
		"high_confidence_score":     p.HighConfidenceScore,
		"base_confidence_score":     p.BaseConfidenceScore,
	}
}

func (p Policy) withDefaults() Policy {
	if p == (Policy{}) {
		return DefaultPolicy()
	}
	if p.RankScale <= 0 {
		p.RankScale = DefaultPolicy().RankScale
	}
	if p.DefaultDefenseRank <= 0 || p.DefaultDefenseRank > p.RankScale {
		p.DefaultDefenseRank = p.RankScale / 2
	}
	return p
}
