package models

import "strings"

// PropType is a wagerable statistical category for a player
type PropType string

const (
	PropPassingYards    PropType = "passing_yards"
	PropPassingTDs      PropType = "passing_tds"
	PropRushingYards    PropType = "rushing_yards"
	PropRushingAttempts PropType = "rushing_attempts"
	PropReceivingYards  PropType = "receiving_yards"
	PropReceptions      PropType = "receptions"
)

// KnownPropTypes lists the prop types accepted in configuration
var KnownPropTypes = []PropType{
	PropPassingYards,
	PropPassingTDs,
	PropRushingYards,
	PropRushingAttempts,
	PropReceivingYards,
	PropReceptions,
}

// IsKnownPropType reports whether s names a supported prop type
func IsKnownPropType(s string) bool {
	for _, p := range KnownPropTypes {
		if string(p) == s {
			return true
		}
	}
	return false
}

// DefenseCategory is the defensive unit a prop is measured against
type DefenseCategory string

const (
	DefensePassing   DefenseCategory = "passing"
	DefenseRushing   DefenseCategory = "rushing"
	DefenseReceiving DefenseCategory = "receiving"
)

// DefenseCategory maps the prop to the defensive ranking that applies to it.
// Anything that is neither passing nor receiving is ranked against the run defense.
func (p PropType) DefenseCategory() DefenseCategory {
	s := strings.ToLower(string(p))
	switch {
	case strings.Contains(s, "passing"):
		return DefensePassing
	case strings.Contains(s, "receiving"), strings.Contains(s, "reception"):
		return DefenseReceiving
	default:
		return DefenseRushing
	}
}

// PropLine is the sportsbook line and odds pair for a single player prop
type PropLine struct {
	Line      float64 `json:"line"`
	OverOdds  int     `json:"over_odds"`
	UnderOdds int     `json:"under_odds"`
}

// DefenseRanking holds a team's 1-32 ordinal ranks per defensive category
type DefenseRanking struct {
	PassingRank   int `json:"passing_rank"`
	RushingRank   int `json:"rushing_rank"`
	ReceivingRank int `json:"receiving_rank"`
}

// Rank returns the rank for the given category, or 0 if the category is unknown
func (d DefenseRanking) Rank(category DefenseCategory) int {
	switch category {
	case DefensePassing:
		return d.PassingRank
	case DefenseRushing:
		return d.RushingRank
	case DefenseReceiving:
		return d.ReceivingRank
	default:
		return 0
	}
}

// Matchup is one requested (player, prop, opponent) analysis tuple
type Matchup struct {
	Player   string   `json:"player" mapstructure:"player" validate:"required"`
	PropType PropType `json:"prop_type" mapstructure:"prop_type" validate:"required,proptype"`
	Opponent string   `json:"opponent" mapstructure:"opponent" validate:"required,teamcode"`
}
