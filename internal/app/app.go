package app

import (
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/locus/internal/common"
	"github.com/ternarybob/locus/internal/handlers"
	"github.com/ternarybob/locus/internal/interfaces"
	"github.com/ternarybob/locus/internal/services/ranking"
	"github.com/ternarybob/locus/internal/services/search"
	"github.com/ternarybob/locus/internal/storage"
	"github.com/ternarybob/locus/internal/yelp"
)

// App holds all application components and dependencies
type App struct {
	Config *common.Config
	Logger arbor.ILogger

	Cache         interfaces.Cache
	YelpClient    interfaces.UpstreamClient
	SearchService interfaces.SearchService

	// HTTP handlers
	APIHandler    *handlers.APIHandler
	PlacesHandler *handlers.PlacesHandler
}

// New wires all services and handlers from the loaded configuration
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	if cfg.Yelp.APIKey == "" {
		return nil, fmt.Errorf("yelp api key is not configured (set yelp.api_key or YELP_API_KEY)")
	}

	cache, err := storage.NewCache(logger, &cfg.Cache)
	if err != nil {
		return nil, fmt.Errorf("failed to create cache: %w", err)
	}

	yelpClient := yelp.NewClient(cfg.Yelp.APIKey,
		yelp.WithBaseURL(cfg.Yelp.BaseURL),
		yelp.WithTimeout(cfg.Yelp.RequestTimeout.Duration),
		yelp.WithRateLimit(cfg.Yelp.RateLimit.Duration),
		yelp.WithLogger(logger),
	)

	scorer := ranking.NewScorer(cfg.Ranking.PriorRating, cfg.Ranking.DampingFactor)
	searchService := search.NewService(yelpClient, cache, scorer, &cfg.Search, logger)

	app := &App{
		Config:        cfg,
		Logger:        logger,
		Cache:         cache,
		YelpClient:    yelpClient,
		SearchService: searchService,
		APIHandler:    handlers.NewAPIHandler(cache, logger),
		PlacesHandler: handlers.NewPlacesHandler(searchService, logger),
	}

	logger.Info().
		Str("cache_backend", cfg.Cache.Backend).
		Str("environment", cfg.Environment).
		Msg("Application initialized")

	return app, nil
}

// Close releases the cache backend
func (a *App) Close() error {
	if a.Cache != nil {
		if err := a.Cache.Close(); err != nil {
			return fmt.Errorf("failed to close cache: %w", err)
		}
	}
	return nil
}
