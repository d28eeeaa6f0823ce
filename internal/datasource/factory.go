package datasource

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/bet-outlier/internal/config"
)

const dataSourceDisabledMsg = "provider is disabled"

// Factory creates Provider implementations based on configuration
type Factory struct {
	logger *logrus.Logger
	config config.ProvidersConfig
	cache  *ResponseCache
}

// NewFactory creates a new provider factory sharing one response cache
func NewFactory(cfg config.ProvidersConfig, cache *ResponseCache, logger *logrus.Logger) *Factory {
	if logger == nil {
		logger = logrus.New()
	}
	return &Factory{
		logger: logger,
		config: cfg,
		cache:  cache,
	}
}

// NewProvider creates a Provider with its own rate-limited, breaker-guarded HTTP client
func (f *Factory) NewProvider(cfg config.ProviderConfig) (Provider, error) {
	switch cfg.Name {
	case config.ProviderSportsDataIO:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("SportsDataIO API key is required")
		}
		return NewSportsDataIOClient(f.httpClient(cfg.Name), cfg, f.cache, f.logger), nil

	case config.ProviderTheSportsDB:
		return NewTheSportsDBClient(f.httpClient(cfg.Name), cfg, f.cache, f.logger), nil

	default:
		return nil, fmt.Errorf("unknown provider: %s", cfg.Name)
	}
}

func (f *Factory) httpClient(name string) *RateLimitedHTTPClient {
	return NewRateLimitedHTTPClient(name, HTTPClientConfigFromProviders(f.config), f.logger)
}

// NewProviders creates all enabled providers from configuration. A provider
// that cannot be built is logged and skipped; enrichment runs with whatever
// remains, possibly nothing.
func (f *Factory) NewProviders() []Provider {
	var providers []Provider

	for _, srcCfg := range f.config.Sources {
		if !srcCfg.Enabled {
			f.logger.WithField("provider", srcCfg.Name).Debug("Skipping disabled provider")
			continue
		}

		provider, err := f.NewProvider(srcCfg)
		if err != nil {
			f.logger.WithError(err).WithField("provider", srcCfg.Name).Warn("Provider unavailable, continuing without it")
			continue
		}

		providers = append(providers, provider)
		f.logger.WithField("provider", srcCfg.Name).Info("Created provider")
	}

	return providers
}
