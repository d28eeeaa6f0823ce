package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/yourusername/bet-outlier/internal/config"
	"github.com/yourusername/bet-outlier/internal/models"
)

const rosterCacheQuery = "players"

// SportsDataIOClient implements Provider for the SportsDataIO NFL API.
// The whole player list is fetched once and cached; lookups match against it.
// Concurrent lookups on a cold cache share a single download.
type SportsDataIOClient struct {
	httpClient *RateLimitedHTTPClient
	fetches    singleflight.Group
	baseURL    string
	apiKey     string
	enabled    bool
	cache      *ResponseCache
	logger     *logrus.Logger
}

type sportsDataIOPlayer struct {
	Name     string `json:"Name"`
	Position string `json:"Position"`
	Team     string `json:"Team"`
}

// NewSportsDataIOClient creates a new SportsDataIO client
func NewSportsDataIOClient(httpClient *RateLimitedHTTPClient, cfg config.ProviderConfig, cache *ResponseCache, logger *logrus.Logger) *SportsDataIOClient {
	return &SportsDataIOClient{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		enabled:    cfg.Enabled,
		cache:      cache,
		logger:     logger,
	}
}

// FetchPlayer returns the first player whose name contains the query, case-insensitively
func (c *SportsDataIOClient) FetchPlayer(ctx context.Context, name string) (*models.PlayerProfile, error) {
	if !c.enabled {
		return nil, NewDataSourceError(c.Name(), ErrCodeDisabled, dataSourceDisabledMsg, nil)
	}

	query := strings.ToLower(strings.TrimSpace(name))
	if query == "" {
		return nil, NewDataSourceError(c.Name(), ErrCodeInvalidData, "empty player name", nil)
	}

	players, err := c.roster(ctx)
	if err != nil {
		return nil, err
	}

	for _, p := range players {
		if strings.Contains(strings.ToLower(p.Name), query) {
			return &models.PlayerProfile{
				Source:   c.Name(),
				Name:     p.Name,
				Team:     p.Team,
				Position: p.Position,
			}, nil
		}
	}

	return nil, notFoundError(c.Name(), name)
}

func (c *SportsDataIOClient) roster(ctx context.Context) ([]sportsDataIOPlayer, error) {
	key := CacheKey(c.Name(), rosterCacheQuery)
	if players, ok := c.cachedRoster(key); ok {
		return players, nil
	}

	v, err, _ := c.fetches.Do(key, func() (interface{}, error) {
		// A caller that waited on the previous flight finds it cached
		if players, ok := c.cachedRoster(key); ok {
			return players, nil
		}
		return c.fetchRoster(ctx, key)
	})
	if err != nil {
		return nil, err
	}
	return v.([]sportsDataIOPlayer), nil
}

func (c *SportsDataIOClient) cachedRoster(key string) ([]sportsDataIOPlayer, bool) {
	cached, ok := c.cache.Get(key)
	if !ok {
		return nil, false
	}
	players, ok := cached.([]sportsDataIOPlayer)
	return players, ok
}

func (c *SportsDataIOClient) fetchRoster(ctx context.Context, key string) ([]sportsDataIOPlayer, error) {
	endpoint := fmt.Sprintf("%s/scores/json/Players?key=%s", c.baseURL, url.QueryEscape(c.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, NewDataSourceError(c.Name(), ErrCodeNetworkError, "failed to create request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return nil, NewDataSourceError(c.Name(), ErrCodeNetworkError, "failed to fetch players", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, NewDataSourceError(c.Name(), ErrCodeAuthenticationFailed, "invalid API key", nil)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, NewDataSourceError(c.Name(), ErrCodeRateLimitExceeded, "rate limit exceeded", nil)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, NewDataSourceError(c.Name(), ErrCodeServerError, fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(body)), nil)
	}

	var players []sportsDataIOPlayer
	if err := json.NewDecoder(resp.Body).Decode(&players); err != nil {
		return nil, NewDataSourceError(c.Name(), ErrCodeInvalidData, "failed to parse response", err)
	}

	c.cache.Set(key, players)
	c.logger.WithFields(logrus.Fields{
		"provider": c.Name(),
		"players":  len(players),
	}).Debug("Cached provider player list")

	return players, nil
}

// Name returns the provider name
func (c *SportsDataIOClient) Name() string {
	return config.ProviderSportsDataIO
}

// IsEnabled returns whether this provider is enabled
func (c *SportsDataIOClient) IsEnabled() bool {
	return c.enabled
}
