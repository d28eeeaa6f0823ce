// Package reference holds the static lookup tables the edge model reads:
// defense rankings, base projections and sportsbook lines.
package reference

import (
	"fmt"
	"sort"
	"strings"

	"github.com/yourusername/bet-outlier/internal/config"
	"github.com/yourusername/bet-outlier/internal/models"
)

// DefaultOdds is quoted on both sides of a missing line
const DefaultOdds = -110

// UnknownRank is returned for teams or categories without a ranking. The edge
// calculator substitutes its configured default rank for it.
const UnknownRank = 0

// DefaultPropLine is returned for players or props without a posted line
var DefaultPropLine = models.PropLine{Line: 0, OverOdds: DefaultOdds, UnderOdds: DefaultOdds}

type propKey struct {
	player string
	prop   models.PropType
}

func newPropKey(player string, prop models.PropType) propKey {
	return propKey{
		player: strings.ToLower(strings.TrimSpace(player)),
		prop:   models.PropType(strings.ToLower(strings.TrimSpace(string(prop)))),
	}
}

func teamKey(team string) string {
	return strings.ToUpper(strings.TrimSpace(team))
}

// Tables is an immutable set of reference data. Lookups are case-insensitive.
type Tables struct {
	defense     map[string]models.DefenseRanking
	projections map[propKey]float64
	lines       map[propKey]models.PropLine
	players     map[string]string
}

// NewTables creates empty tables
func NewTables() *Tables {
	return &Tables{
		defense:     make(map[string]models.DefenseRanking),
		projections: make(map[propKey]float64),
		lines:       make(map[propKey]models.PropLine),
		players:     make(map[string]string),
	}
}

// FromConfig builds tables from the reference section of the configuration
func FromConfig(cfg config.ReferenceConfig) (*Tables, error) {
	t := NewTables()

	for _, d := range cfg.DefenseRankings {
		key := teamKey(d.Team)
		if _, exists := t.defense[key]; exists {
			return nil, fmt.Errorf("duplicate defense ranking for team %s", key)
		}
		t.SetDefense(key, models.DefenseRanking{
			PassingRank:   d.Passing,
			RushingRank:   d.Rushing,
			ReceivingRank: d.Receiving,
		})
	}

	for _, p := range cfg.Props {
		prop := models.PropType(p.PropType)
		key := newPropKey(p.Player, prop)
		if _, exists := t.lines[key]; exists {
			return nil, fmt.Errorf("duplicate prop %s for player %s", p.PropType, p.Player)
		}
		t.SetProp(p.Player, prop, p.BaseProjection, models.PropLine{
			Line:      p.Line,
			OverOdds:  p.OverOdds,
			UnderOdds: p.UnderOdds,
		})
	}

	return t, nil
}

// SetDefense records a team's defensive ranking
func (t *Tables) SetDefense(team string, ranking models.DefenseRanking) {
	t.defense[teamKey(team)] = ranking
}

// SetProp records a player's base projection and line for a prop
func (t *Tables) SetProp(player string, prop models.PropType, baseProjection float64, line models.PropLine) {
	key := newPropKey(player, prop)
	t.projections[key] = baseProjection
	t.lines[key] = line
	t.players[key.player] = strings.TrimSpace(player)
}

// LookupDefense returns the ranking for a team or ErrUnknownTeam
func (t *Tables) LookupDefense(team string) (models.DefenseRanking, error) {
	ranking, ok := t.defense[teamKey(team)]
	if !ok {
		return models.DefenseRanking{}, fmt.Errorf("%w: %s", models.ErrUnknownTeam, team)
	}
	return ranking, nil
}

// DefenseRank returns the opponent's rank for a category, or UnknownRank when
// the team or category is unknown.
func (t *Tables) DefenseRank(team string, category models.DefenseCategory) int {
	ranking, err := t.LookupDefense(team)
	if err != nil {
		return UnknownRank
	}
	rank := ranking.Rank(category)
	if rank <= 0 {
		return UnknownRank
	}
	return rank
}

// LookupProjection returns a player's base projection or ErrUnknownPlayer
func (t *Tables) LookupProjection(player string, prop models.PropType) (float64, error) {
	v, ok := t.projections[newPropKey(player, prop)]
	if !ok {
		return 0, fmt.Errorf("%w: %s/%s", models.ErrUnknownPlayer, player, prop)
	}
	return v, nil
}

// BaseProjection returns a player's base projection, or 0 when unknown
func (t *Tables) BaseProjection(player string, prop models.PropType) float64 {
	v, err := t.LookupProjection(player, prop)
	if err != nil {
		return 0
	}
	return v
}

// LookupPropLine returns the posted line for a player prop or ErrUnknownPlayer
func (t *Tables) LookupPropLine(player string, prop models.PropType) (models.PropLine, error) {
	line, ok := t.lines[newPropKey(player, prop)]
	if !ok {
		return models.PropLine{}, fmt.Errorf("%w: %s/%s", models.ErrUnknownPlayer, player, prop)
	}
	return line, nil
}

// PropLine returns the posted line, or DefaultPropLine when none is posted
func (t *Tables) PropLine(player string, prop models.PropType) models.PropLine {
	line, err := t.LookupPropLine(player, prop)
	if err != nil {
		return DefaultPropLine
	}
	return line
}

// Players returns the display names of all players with props, sorted
func (t *Tables) Players() []string {
	names := make([]string, 0, len(t.players))
	for _, name := range t.players {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Teams returns the team codes with a defense ranking, sorted
func (t *Tables) Teams() []string {
	teams := make([]string, 0, len(t.defense))
	for team := range t.defense {
		teams = append(teams, team)
	}
	sort.Strings(teams)
	return teams
}

// PropCount returns the number of player props loaded
func (t *Tables) PropCount() int {
	return len(t.lines)
}
