package models

import "time"

// DataConfidence describes how well a player was corroborated by external providers
type DataConfidence string

const (
	DataConfidenceHigh   DataConfidence = "HIGH"
	DataConfidenceMedium DataConfidence = "MEDIUM"
)

// PlayerProfile is player metadata returned by an external provider
type PlayerProfile struct {
	Source   string `json:"source"`
	Name     string `json:"name"`
	Team     string `json:"team,omitempty"`
	Position string `json:"position,omitempty"`
}

// Enrichment is best-effort provider metadata merged into an edge result.
// It never influences the recommendation.
type Enrichment struct {
	Sources        []PlayerProfile `json:"sources_used"`
	DataConfidence DataConfidence  `json:"data_confidence"`
	FetchedAt      time.Time       `json:"fetched_at"`
}

// SourceNames returns the provider names that contributed a profile
func (e *Enrichment) SourceNames() []string {
	if e == nil {
		return nil
	}
	names := make([]string, 0, len(e.Sources))
	for _, s := range e.Sources {
		names = append(names, s.Source)
	}
	return names
}
