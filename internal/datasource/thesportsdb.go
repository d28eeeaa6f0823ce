package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/bet-outlier/internal/config"
	"github.com/yourusername/bet-outlier/internal/models"
)

// TheSportsDBClient implements Provider for the TheSportsDB player search
type TheSportsDBClient struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	apiKey     string
	enabled    bool
	cache      *ResponseCache
	logger     *logrus.Logger
}

type theSportsDBResponse struct {
	Player []theSportsDBPlayer `json:"player"`
}

type theSportsDBPlayer struct {
	Name     string `json:"strPlayer"`
	Team     string `json:"strTeam"`
	Position string `json:"strPosition"`
}

// NewTheSportsDBClient creates a new TheSportsDB client
func NewTheSportsDBClient(httpClient *RateLimitedHTTPClient, cfg config.ProviderConfig, cache *ResponseCache, logger *logrus.Logger) *TheSportsDBClient {
	return &TheSportsDBClient{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		enabled:    cfg.Enabled,
		cache:      cache,
		logger:     logger,
	}
}

// FetchPlayer returns the first search result for the name
func (c *TheSportsDBClient) FetchPlayer(ctx context.Context, name string) (*models.PlayerProfile, error) {
	if !c.enabled {
		return nil, NewDataSourceError(c.Name(), ErrCodeDisabled, dataSourceDisabledMsg, nil)
	}

	query := strings.TrimSpace(name)
	if query == "" {
		return nil, NewDataSourceError(c.Name(), ErrCodeInvalidData, "empty player name", nil)
	}

	key := CacheKey(c.Name(), query)
	if cached, ok := c.cache.Get(key); ok {
		if profile, ok := cached.(*models.PlayerProfile); ok {
			return profile, nil
		}
	}

	endpoint := fmt.Sprintf("%s/searchplayers.php?p=%s", c.baseURL, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, NewDataSourceError(c.Name(), ErrCodeNetworkError, "failed to create request", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-KEY", c.apiKey)
	}

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return nil, NewDataSourceError(c.Name(), ErrCodeNetworkError, "failed to search players", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, NewDataSourceError(c.Name(), ErrCodeRateLimitExceeded, "rate limit exceeded", nil)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, NewDataSourceError(c.Name(), ErrCodeServerError, fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}

	var result theSportsDBResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, NewDataSourceError(c.Name(), ErrCodeInvalidData, "failed to parse response", err)
	}

	// An unmatched search returns {"player": null}
	if len(result.Player) == 0 {
		return nil, notFoundError(c.Name(), name)
	}

	first := result.Player[0]
	profile := &models.PlayerProfile{
		Source:   c.Name(),
		Name:     first.Name,
		Team:     first.Team,
		Position: first.Position,
	}
	c.cache.Set(key, profile)

	return profile, nil
}

// Name returns the provider name
func (c *TheSportsDBClient) Name() string {
	return config.ProviderTheSportsDB
}

// IsEnabled returns whether this provider is enabled
func (c *TheSportsDBClient) IsEnabled() bool {
	return c.enabled
}
