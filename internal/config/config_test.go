package config

import (
	"testing"
	"time"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_DefaultsByEnv(t *testing.T) {
	t.Run("prod disables swagger by default", func(t *testing.T) {
		t.Setenv("APP_ENV", EnvProd)
		t.Setenv("UPTRACE_ENABLED", "false")
		t.Setenv("SWAGGER_ENABLED", "")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.SwaggerEnabled {
			t.Fatalf("expected SwaggerEnabled=false in prod by default")
		}
	})

	t.Run("dev enables swagger by default", func(t *testing.T) {
		t.Setenv("APP_ENV", EnvDev)
		t.Setenv("UPTRACE_ENABLED", "false")
		t.Setenv("SWAGGER_ENABLED", "")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if !cfg.SwaggerEnabled {
			t.Fatalf("expected SwaggerEnabled=true in dev by default")
		}
	})
}

func TestLoad_PprofDefaultsAddrWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("PPROF_ENABLED", "true")
	t.Setenv("PPROF_ADDR", "  ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PprofAddr != ":6060" {
		t.Fatalf("expected default pprof addr :6060, got %q", cfg.PprofAddr)
	}
}

func TestLoad_PyroscopeRequiresServerAddressWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when PYROSCOPE_ENABLED=true without PYROSCOPE_SERVER_ADDRESS")
	}
}

func TestLoad_PyroscopeAppNameDefaultsToServiceName(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("APP_SERVICE_NAME", "fantasy-basketball-api-test")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "http://localhost:4040")
	t.Setenv("PYROSCOPE_APP_NAME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PyroscopeAppName != "fantasy-basketball-api-test" {
		t.Fatalf("unexpected pyroscope app name: %q", cfg.PyroscopeAppName)
	}
}

func TestLoad_CORSOriginsDefaultAndParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	t.Run("default wildcard", func(t *testing.T) {
		t.Setenv("CORS_ALLOWED_ORIGINS", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
			t.Fatalf("unexpected default CORS origins: %+v", cfg.CORSAllowedOrigins)
		}
	})

	t.Run("comma separated parsing", func(t *testing.T) {
		t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example.com, http://localhost:5173 ")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if len(cfg.CORSAllowedOrigins) != 2 {
			t.Fatalf("unexpected CORS origins length: %d", len(cfg.CORSAllowedOrigins))
		}
		if cfg.CORSAllowedOrigins[0] != "https://a.example.com" {
			t.Fatalf("unexpected first CORS origin: %s", cfg.CORSAllowedOrigins[0])
		}
		if cfg.CORSAllowedOrigins[1] != "http://localhost:5173" {
			t.Fatalf("unexpected second CORS origin: %s", cfg.CORSAllowedOrigins[1])
		}
	})
}

func TestLoad_CacheConfigParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	t.Run("defaults", func(t *testing.T) {
		t.Setenv("CACHE_ENABLED", "")
		t.Setenv("CACHE_TTL", "")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if !cfg.CacheEnabled {
			t.Fatalf("expected cache enabled by default")
		}
		if cfg.CacheTTL != 5*time.Minute {
			t.Fatalf("unexpected default cache ttl: %s", cfg.CacheTTL)
		}
	})

	t.Run("invalid ttl", func(t *testing.T) {
		t.Setenv("CACHE_TTL", "bad")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for invalid CACHE_TTL")
		}
	})
}

func TestLoad_NBAStatsConfigParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	t.Run("disabled by default", func(t *testing.T) {
		t.Setenv("NBA_STATS_ENABLED", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.NBAStatsEnabled {
			t.Fatalf("expected NBAStatsEnabled=false by default")
		}
		if cfg.NBAStatsBaseURL != "https://stats.nba.com/stats" {
			t.Fatalf("unexpected default base url: %q", cfg.NBAStatsBaseURL)
		}
		if cfg.NBAStatsTimeout != 20*time.Second {
			t.Fatalf("unexpected default timeout: %s", cfg.NBAStatsTimeout)
		}
		if cfg.NBAStatsMinRequestInterval != 600*time.Millisecond {
			t.Fatalf("unexpected default min request interval: %s", cfg.NBAStatsMinRequestInterval)
		}
	})

	t.Run("enabled with overrides", func(t *testing.T) {
		t.Setenv("NBA_STATS_ENABLED", "true")
		t.Setenv("NBA_STATS_TIMEOUT", "15s")
		t.Setenv("NBA_STATS_MAX_RETRIES", "3")
		t.Setenv("NBA_STATS_MIN_REQUEST_INTERVAL", "1s")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if !cfg.NBAStatsEnabled {
			t.Fatalf("expected NBAStatsEnabled=true")
		}
		if cfg.NBAStatsTimeout != 15*time.Second {
			t.Fatalf("unexpected timeout: %s", cfg.NBAStatsTimeout)
		}
		if cfg.NBAStatsMaxRetries != 3 {
			t.Fatalf("unexpected max retries: %d", cfg.NBAStatsMaxRetries)
		}
		if cfg.NBAStatsMinRequestInterval != time.Second {
			t.Fatalf("unexpected min request interval: %s", cfg.NBAStatsMinRequestInterval)
		}
	})

	t.Run("negative retries rejected", func(t *testing.T) {
		t.Setenv("NBA_STATS_MAX_RETRIES", "-1")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for negative NBA_STATS_MAX_RETRIES")
		}
	})
}

func TestLoad_SeasonValidation(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	t.Run("default season", func(t *testing.T) {
		t.Setenv("NBA_SEASON", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.Season != "2024-25" {
			t.Fatalf("unexpected default season: %q", cfg.Season)
		}
	})

	t.Run("valid override", func(t *testing.T) {
		t.Setenv("NBA_SEASON", "2023-24")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.Season != "2023-24" {
			t.Fatalf("unexpected season: %q", cfg.Season)
		}
	})

	t.Run("invalid format rejected", func(t *testing.T) {
		t.Setenv("NBA_SEASON", "2024")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for invalid NBA_SEASON")
		}
	})
}

func TestLoad_PredictionWindows(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	t.Run("defaults", func(t *testing.T) {
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.RecentGamesWindow != 10 {
			t.Fatalf("unexpected default recent games window: %d", cfg.RecentGamesWindow)
		}
		if cfg.MatchupWindow != 50 {
			t.Fatalf("unexpected default matchup window: %d", cfg.MatchupWindow)
		}
		if cfg.SlateMaxWorkers != 4 {
			t.Fatalf("unexpected default slate workers: %d", cfg.SlateMaxWorkers)
		}
	})

	t.Run("window above season length rejected", func(t *testing.T) {
		t.Setenv("RECENT_GAMES_WINDOW", "83")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for RECENT_GAMES_WINDOW above 82")
		}
	})

	t.Run("zero workers rejected", func(t *testing.T) {
		t.Setenv("SLATE_MAX_WORKERS", "0")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for SLATE_MAX_WORKERS=0")
		}
	})
}
