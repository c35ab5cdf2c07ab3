package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hoopsight/fantasy-basketball/internal/platform/logging"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv                        string
	ServiceName                   string
	ServiceVersion                string
	HTTPAddr                      string
	ReadTimeout                   time.Duration
	WriteTimeout                  time.Duration
	CORSAllowedOrigins            []string
	CacheEnabled                  bool
	CacheTTL                      time.Duration
	PprofEnabled                  bool
	PprofAddr                     string
	SwaggerEnabled                bool
	UptraceEnabled                bool
	UptraceDSN                    string
	PyroscopeEnabled              bool
	PyroscopeServerAddress        string
	PyroscopeAppName              string
	PyroscopeAuthToken            string
	PyroscopeBasicAuthUser        string
	PyroscopeBasicAuthPassword    string
	PyroscopeUploadRate           time.Duration
	NBAStatsEnabled               bool
	NBAStatsBaseURL               string
	NBAStatsUserAgent             string
	NBAStatsTimeout               time.Duration
	NBAStatsMaxRetries            int
	NBAStatsMinRequestInterval    time.Duration
	NBAStatsCircuitEnabled        bool
	NBAStatsCircuitFailureCount   int
	NBAStatsCircuitOpenTimeout    time.Duration
	NBAStatsCircuitHalfOpenMaxReq int
	Season                        string
	RecentGamesWindow             int
	MatchupWindow                 int
	SlateMaxWorkers               int
	LogLevel                      logging.Level
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	swaggerDefault := "true"
	if appEnv == EnvProd {
		swaggerDefault = "false"
	}

	swaggerEnabled, err := strconv.ParseBool(getEnv("SWAGGER_ENABLED", swaggerDefault))
	if err != nil {
		return Config{}, fmt.Errorf("parse SWAGGER_ENABLED: %w", err)
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if pprofEnabled && pprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}
	if pyroscopeUploadRate <= 0 {
		return Config{}, fmt.Errorf("PYROSCOPE_UPLOAD_RATE must be > 0")
	}

	nbaStatsEnabled, err := strconv.ParseBool(getEnv("NBA_STATS_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse NBA_STATS_ENABLED: %w", err)
	}
	nbaStatsTimeout, err := time.ParseDuration(getEnv("NBA_STATS_TIMEOUT", "20s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse NBA_STATS_TIMEOUT: %w", err)
	}
	if nbaStatsTimeout <= 0 {
		return Config{}, fmt.Errorf("NBA_STATS_TIMEOUT must be > 0")
	}
	nbaStatsMaxRetries, err := getEnvAsInt("NBA_STATS_MAX_RETRIES", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse NBA_STATS_MAX_RETRIES: %w", err)
	}
	if nbaStatsMaxRetries < 0 {
		return Config{}, fmt.Errorf("NBA_STATS_MAX_RETRIES must be >= 0")
	}
	nbaStatsMinRequestInterval, err := time.ParseDuration(getEnv("NBA_STATS_MIN_REQUEST_INTERVAL", "600ms"))
	if err != nil {
		return Config{}, fmt.Errorf("parse NBA_STATS_MIN_REQUEST_INTERVAL: %w", err)
	}
	if nbaStatsMinRequestInterval < 0 {
		return Config{}, fmt.Errorf("NBA_STATS_MIN_REQUEST_INTERVAL must be >= 0")
	}
	nbaStatsCircuitEnabled, err := strconv.ParseBool(getEnv("NBA_STATS_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse NBA_STATS_CIRCUIT_ENABLED: %w", err)
	}
	nbaStatsCircuitFailureCount, err := getEnvAsInt("NBA_STATS_CIRCUIT_FAILURE_COUNT", 3)
	if err != nil {
		return Config{}, fmt.Errorf("parse NBA_STATS_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if nbaStatsCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("NBA_STATS_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	nbaStatsCircuitOpenTimeout, err := time.ParseDuration(getEnv("NBA_STATS_CIRCUIT_OPEN_TIMEOUT", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse NBA_STATS_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if nbaStatsCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("NBA_STATS_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	nbaStatsCircuitHalfOpenMaxReq, err := getEnvAsInt("NBA_STATS_CIRCUIT_HALF_OPEN_MAX_REQ", 1)
	if err != nil {
		return Config{}, fmt.Errorf("parse NBA_STATS_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if nbaStatsCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("NBA_STATS_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	season := strings.TrimSpace(getEnv("NBA_SEASON", "2024-25"))
	if !validSeason(season) {
		return Config{}, fmt.Errorf("invalid NBA_SEASON %q, expected YYYY-YY", season)
	}

	recentGamesWindow, err := getEnvAsInt("RECENT_GAMES_WINDOW", 10)
	if err != nil {
		return Config{}, fmt.Errorf("parse RECENT_GAMES_WINDOW: %w", err)
	}
	if recentGamesWindow < 1 || recentGamesWindow > 82 {
		return Config{}, fmt.Errorf("RECENT_GAMES_WINDOW must be between 1 and 82")
	}
	matchupWindow, err := getEnvAsInt("MATCHUP_WINDOW", 50)
	if err != nil {
		return Config{}, fmt.Errorf("parse MATCHUP_WINDOW: %w", err)
	}
	if matchupWindow < 1 || matchupWindow > 82 {
		return Config{}, fmt.Errorf("MATCHUP_WINDOW must be between 1 and 82")
	}
	slateMaxWorkers, err := getEnvAsInt("SLATE_MAX_WORKERS", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse SLATE_MAX_WORKERS: %w", err)
	}
	if slateMaxWorkers < 1 {
		return Config{}, fmt.Errorf("SLATE_MAX_WORKERS must be >= 1")
	}

	cacheEnabled, err := strconv.ParseBool(getEnv("CACHE_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_ENABLED: %w", err)
	}
	cacheTTL, err := time.ParseDuration(getEnv("CACHE_TTL", "5m"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_TTL: %w", err)
	}
	if cacheTTL <= 0 {
		return Config{}, fmt.Errorf("CACHE_TTL must be > 0")
	}

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}
	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}

	cfg := Config{
		AppEnv:                        appEnv,
		ServiceName:                   getEnv("APP_SERVICE_NAME", "fantasy-basketball-api"),
		ServiceVersion:                getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:                      getEnv("APP_HTTP_ADDR", ":8080"),
		ReadTimeout:                   readTimeout,
		WriteTimeout:                  writeTimeout,
		CORSAllowedOrigins:            splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		CacheEnabled:                  cacheEnabled,
		CacheTTL:                      cacheTTL,
		PprofEnabled:                  pprofEnabled,
		PprofAddr:                     pprofAddr,
		SwaggerEnabled:                swaggerEnabled,
		UptraceEnabled:                uptraceEnabled,
		UptraceDSN:                    uptraceDSN,
		PyroscopeEnabled:              pyroscopeEnabled,
		PyroscopeServerAddress:        pyroscopeServerAddress,
		PyroscopeAuthToken:            strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:        strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword:    strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:           pyroscopeUploadRate,
		NBAStatsEnabled:               nbaStatsEnabled,
		NBAStatsBaseURL:               strings.TrimSpace(getEnv("NBA_STATS_BASE_URL", "https://stats.nba.com/stats")),
		NBAStatsUserAgent:             strings.TrimSpace(getEnv("NBA_STATS_USER_AGENT", "")),
		NBAStatsTimeout:               nbaStatsTimeout,
		NBAStatsMaxRetries:            nbaStatsMaxRetries,
		NBAStatsMinRequestInterval:    nbaStatsMinRequestInterval,
		NBAStatsCircuitEnabled:        nbaStatsCircuitEnabled,
		NBAStatsCircuitFailureCount:   nbaStatsCircuitFailureCount,
		NBAStatsCircuitOpenTimeout:    nbaStatsCircuitOpenTimeout,
		NBAStatsCircuitHalfOpenMaxReq: nbaStatsCircuitHalfOpenMaxReq,
		Season:                        season,
		RecentGamesWindow:             recentGamesWindow,
		MatchupWindow:                 matchupWindow,
		SlateMaxWorkers:               slateMaxWorkers,
		LogLevel:                      parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}

	return cfg, nil
}

// validSeason accepts the stats API season format, e.g. "2024-25".
func validSeason(v string) bool {
	if len(v) != 7 || v[4] != '-' {
		return false
	}
	for i, r := range v {
		if i == 4 {
			continue
		}
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
