// Package service orchestrates edge analysis: reference lookups, edge scoring
// and optional best-effort player enrichment.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/yourusername/bet-outlier/internal/config"
	"github.com/yourusername/bet-outlier/internal/datasource"
	"github.com/yourusername/bet-outlier/internal/edge"
	"github.com/yourusername/bet-outlier/internal/logger"
	"github.com/yourusername/bet-outlier/internal/metrics"
	"github.com/yourusername/bet-outlier/internal/models"
	"github.com/yourusername/bet-outlier/internal/reference"
)

const maxConcurrentLookups = 4

// AnalysisService scores matchups against the current reference tables
type AnalysisService struct {
	calculator     *edge.Calculator
	tables         atomic.Pointer[reference.Tables]
	providers      []datasource.Provider
	enrichTimeout  time.Duration
	logger         *logrus.Logger
	analysisLogger *logger.AnalysisLogger
}

// NewAnalysisService creates a new analysis service. providers may be empty.
func NewAnalysisService(
	calculator *edge.Calculator,
	tables *reference.Tables,
	providers []datasource.Provider,
	enrichTimeout time.Duration,
	log *logrus.Logger,
) *AnalysisService {
	if log == nil {
		log = logrus.New()
	}
	if enrichTimeout <= 0 {
		enrichTimeout = 10 * time.Second
	}

	s := &AnalysisService{
		calculator:     calculator,
		providers:      providers,
		enrichTimeout:  enrichTimeout,
		logger:         log,
		analysisLogger: logger.NewAnalysisLogger(log),
	}
	s.tables.Store(tables)
	return s
}

// Tables returns the reference tables currently in use
func (s *AnalysisService) Tables() *reference.Tables {
	return s.tables.Load()
}

// Ready reports whether reference tables are loaded
func (s *AnalysisService) Ready() error {
	t := s.tables.Load()
	if t == nil || t.PropCount() == 0 {
		return errors.New("reference tables not loaded")
	}
	return nil
}

// ReloadReference swaps in new reference tables. Runs in progress keep the
// snapshot they started with.
func (s *AnalysisService) ReloadReference(tables *reference.Tables) {
	if tables == nil {
		return
	}
	s.tables.Store(tables)
	metrics.RecordReferenceReload()
	s.analysisLogger.LogReferenceReload(len(tables.Players()), len(tables.Teams()))
}

// ReloadReferenceFromFile re-reads the reference section of the config file
func (s *AnalysisService) ReloadReferenceFromFile(configPath string) error {
	ref, err := config.LoadReference(configPath)
	if err != nil {
		return fmt.Errorf("failed to load reference tables: %w", err)
	}

	tables, err := reference.FromConfig(ref)
	if err != nil {
		return fmt.Errorf("failed to build reference tables: %w", err)
	}

	s.ReloadReference(tables)
	return nil
}

// AnalyzeMatchup scores a single matchup. Unknown players or teams fall back
// to the table defaults.
func (s *AnalysisService) AnalyzeMatchup(m models.Matchup) models.EdgeResult {
	return s.analyzeWith(s.tables.Load(), m)
}

func (s *AnalysisService) analyzeWith(tables *reference.Tables, m models.Matchup) models.EdgeResult {
	return s.calculator.Evaluate(edge.Input{
		Player:         m.Player,
		PropType:       m.PropType,
		Opponent:       m.Opponent,
		BaseProjection: tables.BaseProjection(m.Player, m.PropType),
		DefenseRank:    tables.DefenseRank(m.Opponent, m.PropType.DefenseCategory()),
		Line:           tables.PropLine(m.Player, m.PropType),
	})
}

// Analyze scores a batch of matchups in request order. With enrich set, player
// metadata from the providers is attached; it never alters a recommendation.
func (s *AnalysisService) Analyze(ctx context.Context, matchups []models.Matchup, enrich bool) (*models.AnalysisRun, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	run := &models.AnalysisRun{
		ID:        uuid.New(),
		StartedAt: time.Now().UTC(),
		Results:   make([]models.EdgeResult, 0, len(matchups)),
	}

	tables := s.tables.Load()
	for _, m := range matchups {
		run.Results = append(run.Results, s.analyzeWith(tables, m))
	}

	if enrich && len(s.providers) > 0 {
		s.enrichResults(ctx, run)
	}

	for i := range run.Results {
		result := run.Results[i]
		metrics.RecordAnalysis(string(result.Recommendation), result.EdgePercentage, result.Computable)
		if result.Computable {
			s.analysisLogger.LogEdgeResult(run.ID, result)
		} else {
			s.analysisLogger.LogNoEdge(run.ID, result)
		}
	}

	run.CompletedAt = time.Now().UTC()
	duration := run.CompletedAt.Sub(run.StartedAt)
	metrics.RecordBatch(duration.Seconds(), run.ActionableCount())
	s.analysisLogger.LogBatchCompleted(run.ID, len(run.Results), run.ActionableCount(), float64(duration.Microseconds())/1000)

	return run, nil
}

// enrichResults looks up each distinct player once under the batch deadline
func (s *AnalysisService) enrichResults(ctx context.Context, run *models.AnalysisRun) {
	ctx, cancel := context.WithTimeout(ctx, s.enrichTimeout)
	defer cancel()

	players := make([]string, 0, len(run.Results))
	seen := make(map[string]struct{})
	for _, r := range run.Results {
		key := playerKey(r.Player)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		players = append(players, r.Player)
	}

	enrichments := s.researchAll(ctx, run.ID, players)
	for i := range run.Results {
		run.Results[i].Enrichment = enrichments[playerKey(run.Results[i].Player)]
	}
}

// Research looks up each player across all enabled providers. Failures degrade
// to MEDIUM data confidence; the returned slice follows the order of players.
func (s *AnalysisService) Research(ctx context.Context, players []string) []PlayerResearch {
	ctx, cancel := context.WithTimeout(ctx, s.enrichTimeout)
	defer cancel()

	enrichments := s.researchAll(ctx, uuid.New(), players)
	out := make([]PlayerResearch, 0, len(players))
	for _, p := range players {
		out = append(out, PlayerResearch{Player: p, Enrichment: enrichments[playerKey(p)]})
	}
	return out
}

// PlayerResearch is the provider view of one player
type PlayerResearch struct {
	Player     string             `json:"player"`
	Enrichment *models.Enrichment `json:"enrichment"`
}

func (s *AnalysisService) researchAll(ctx context.Context, runID uuid.UUID, players []string) map[string]*models.Enrichment {
	var mu sync.Mutex
	out := make(map[string]*models.Enrichment, len(players))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLookups)
	for _, player := range players {
		player := player
		g.Go(func() error {
			e := s.enrichPlayer(gctx, runID, player)
			mu.Lock()
			out[playerKey(player)] = e
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return out
}

// enrichPlayer queries every provider. DataConfidence is HIGH only when
// SportsDataIO matched the player.
func (s *AnalysisService) enrichPlayer(ctx context.Context, runID uuid.UUID, player string) *models.Enrichment {
	enrichment := &models.Enrichment{
		Sources:        make([]models.PlayerProfile, 0, len(s.providers)),
		DataConfidence: models.DataConfidenceMedium,
		FetchedAt:      time.Now().UTC(),
	}

	for _, p := range s.providers {
		if !p.IsEnabled() {
			continue
		}

		profile, err := p.FetchPlayer(ctx, player)
		if err != nil {
			metrics.RecordProviderRequest(p.Name(), providerOutcome(err))
			s.analysisLogger.LogEnrichmentFailure(runID, p.Name(), player, err)
			continue
		}

		metrics.RecordProviderRequest(p.Name(), metrics.OutcomeSuccess)
		enrichment.Sources = append(enrichment.Sources, *profile)
		if p.Name() == config.ProviderSportsDataIO {
			enrichment.DataConfidence = models.DataConfidenceHigh
		}
	}

	return enrichment
}

func providerOutcome(err error) string {
	switch {
	case datasource.IsNotFound(err):
		return metrics.OutcomeNotFound
	case errors.Is(err, datasource.ErrBreakerOpen):
		return metrics.OutcomeBreakerOpen
	default:
		return metrics.OutcomeError
	}
}

func playerKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
