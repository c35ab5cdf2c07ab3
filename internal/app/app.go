package app

import (
	"fmt"
	"net/http"

	"github.com/hoopsight/fantasy-basketball/external/nbastats"
	"github.com/hoopsight/fantasy-basketball/internal/config"
	"github.com/hoopsight/fantasy-basketball/internal/domain/team"
	"github.com/hoopsight/fantasy-basketball/internal/infrastructure/provider/memory"
	"github.com/hoopsight/fantasy-basketball/internal/interfaces/httpapi"
	"github.com/hoopsight/fantasy-basketball/internal/platform/cache"
	"github.com/hoopsight/fantasy-basketball/internal/platform/logging"
	"github.com/hoopsight/fantasy-basketball/internal/platform/resilience"
	"github.com/hoopsight/fantasy-basketball/internal/usecase"
)

func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, error) {
	if logger == nil {
		logger = logging.Default()
	}

	provider := newStatsProvider(cfg, logger)
	directory := team.NewDirectory()

	predictionSvc := usecase.NewPredictionService(
		provider,
		directory,
		usecase.PredictionConfig{
			Season:            cfg.Season,
			RecentGamesWindow: cfg.RecentGamesWindow,
			MatchupWindow:     cfg.MatchupWindow,
			SlateMaxWorkers:   cfg.SlateMaxWorkers,
		},
		logger,
	)
	statsSvc := usecase.NewStatsService(provider, directory, cfg.Season, logger)

	handler := httpapi.NewHandler(predictionSvc, statsSvc, logger)
	router := httpapi.NewRouter(handler, logger, cfg.SwaggerEnabled, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, nil
}

// newStatsProvider picks the live stats.nba.com client when enabled and
// falls back to the seeded in-memory league otherwise.
func newStatsProvider(cfg config.Config, logger *logging.Logger) usecase.StatsProvider {
	if !cfg.NBAStatsEnabled {
		logger.Info("stats provider ready", "provider", "memory", "season", cfg.Season)
		return memory.SeedLeague()
	}

	var store *cache.Store
	if cfg.CacheEnabled {
		store = cache.NewStore(cfg.CacheTTL)
	}

	client := nbastats.NewClient(nbastats.ClientConfig{
		BaseURL:            cfg.NBAStatsBaseURL,
		UserAgent:          cfg.NBAStatsUserAgent,
		Season:             cfg.Season,
		Timeout:            cfg.NBAStatsTimeout,
		MaxRetries:         cfg.NBAStatsMaxRetries,
		MinRequestInterval: cfg.NBAStatsMinRequestInterval,
		Logger:             logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.NBAStatsCircuitEnabled,
			FailureThreshold: cfg.NBAStatsCircuitFailureCount,
			OpenTimeout:      cfg.NBAStatsCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.NBAStatsCircuitHalfOpenMaxReq,
		},
		Cache: store,
	})
	logger.Info("stats provider ready",
		"provider", "nbastats",
		"season", cfg.Season,
		"cache_enabled", cfg.CacheEnabled,
	)

	return client
}
