package nbastats

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"

	"github.com/hoopsight/fantasy-basketball/internal/domain/stats"
	"github.com/hoopsight/fantasy-basketball/internal/platform/cache"
	"github.com/hoopsight/fantasy-basketball/internal/platform/logging"
	"github.com/hoopsight/fantasy-basketball/internal/platform/resilience"
	"github.com/hoopsight/fantasy-basketball/internal/usecase"
)

const (
	defaultBaseURL     = "https://stats.nba.com/stats"
	defaultUserAgent   = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
	defaultSeason      = "2024-25"
	defaultMinInterval = 600 * time.Millisecond
	maxResponseBytes   = 6 << 20
	maxGameLogRows     = 82
)

var errNBAStatsTransient = crerr.New("nba stats transient failure")

type ClientConfig struct {
	HTTPClient         *http.Client
	BaseURL            string
	UserAgent          string
	Season             string
	Timeout            time.Duration
	MaxRetries         int
	MinRequestInterval time.Duration
	Logger             *logging.Logger
	CircuitBreaker     resilience.CircuitBreakerConfig
	Cache              *cache.Store
}

// Client reads player stat tables from the public stats.nba.com API.
// The provider is unauthenticated but aggressively throttles anonymous
// traffic, so requests are paced, retried, and cached.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	userAgent      string
	season         string
	maxRetries     int
	minInterval    time.Duration
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
	cache          *cache.Store

	paceMu      sync.Mutex
	nextRequest time.Time
}

var _ usecase.StatsProvider = (*Client)(nil)

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	season := strings.TrimSpace(cfg.Season)
	if season == "" {
		season = defaultSeason
	}
	minInterval := cfg.MinRequestInterval
	if minInterval <= 0 {
		minInterval = defaultMinInterval
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		userAgent:      userAgent,
		season:         season,
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		minInterval:    minInterval,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
		cache:          cfg.Cache,
	}
}

// SeasonTable returns one per-game season-aggregate row per player.
func (c *Client) SeasonTable(ctx context.Context, season string) (stats.Table, error) {
	season = strings.TrimSpace(season)
	if season == "" {
		season = c.season
	}

	value, err := c.cached(ctx, "nbastats:season:"+season, func(ctx context.Context) (any, error) {
		return c.fetchSeasonTable(ctx, season)
	})
	if err != nil {
		return stats.Table{}, err
	}

	table, ok := value.(stats.Table)
	if !ok {
		return stats.Table{}, fmt.Errorf("unexpected cached season table type %T", value)
	}
	return table, nil
}

// RecentGames returns up to count game rows for the player, most recent
// first. An unknown player yields an empty table, not an error.
func (c *Client) RecentGames(ctx context.Context, playerName string, count int) (stats.Table, error) {
	playerName = strings.Join(strings.Fields(playerName), " ")
	if playerName == "" {
		return stats.Table{Granularity: stats.GranularityGame}, nil
	}
	if count < 1 || count > maxGameLogRows {
		count = maxGameLogRows
	}

	playerID, found, err := c.lookupPlayerID(ctx, playerName)
	if err != nil {
		return stats.Table{}, err
	}
	if !found {
		return stats.Table{Granularity: stats.GranularityGame}, nil
	}

	key := "nbastats:gamelog:" + c.season + ":" + strconv.FormatInt(playerID, 10)
	value, err := c.cached(ctx, key, func(ctx context.Context) (any, error) {
		return c.fetchGameLog(ctx, playerName, playerID)
	})
	if err != nil {
		return stats.Table{}, err
	}

	table, ok := value.(stats.Table)
	if !ok {
		return stats.Table{}, fmt.Errorf("unexpected cached game log type %T", value)
	}
	return table.Head(count), nil
}

func (c *Client) fetchSeasonTable(ctx context.Context, season string) (stats.Table, error) {
	query := map[string]string{
		"Season":      season,
		"SeasonType":  "Regular Season",
		"PerMode":     "PerGame",
		"MeasureType": "Base",
		"LeagueID":    "00",
	}

	var envelope resultSetsEnvelope
	if err := c.doJSON(ctx, "/leaguedashplayerstats", query, &envelope); err != nil {
		return stats.Table{}, fmt.Errorf("fetch season table season=%s: %w", season, err)
	}

	set, ok := envelope.findResultSet("LeagueDashPlayerStats")
	if !ok && len(envelope.ResultSets) > 0 {
		set = envelope.ResultSets[0]
		ok = true
	}
	if !ok {
		return stats.Table{Granularity: stats.GranularitySeason}, nil
	}

	rows, err := parseSeasonRows(set)
	if err != nil {
		return stats.Table{}, fmt.Errorf("parse season table season=%s: %w", season, err)
	}
	return stats.Table{Granularity: stats.GranularitySeason, Rows: rows}, nil
}

func (c *Client) fetchGameLog(ctx context.Context, playerName string, playerID int64) (stats.Table, error) {
	query := map[string]string{
		"PlayerID":   strconv.FormatInt(playerID, 10),
		"Season":     c.season,
		"SeasonType": "Regular Season",
	}

	var envelope resultSetsEnvelope
	if err := c.doJSON(ctx, "/playergamelog", query, &envelope); err != nil {
		return stats.Table{}, fmt.Errorf("fetch game log player_id=%d: %w", playerID, err)
	}

	set, ok := envelope.findResultSet("PlayerGameLog")
	if !ok && len(envelope.ResultSets) > 0 {
		set = envelope.ResultSets[0]
		ok = true
	}
	if !ok {
		return stats.Table{Granularity: stats.GranularityGame}, nil
	}

	rows, err := parseGameLogRows(playerName, set)
	if err != nil {
		return stats.Table{}, fmt.Errorf("parse game log player_id=%d: %w", playerID, err)
	}
	return stats.Table{Granularity: stats.GranularityGame, Rows: rows}, nil
}

// lookupPlayerID resolves a display name to the provider's person id.
// The match is case-insensitive on the full name, falling back to a
// unique substring match.
func (c *Client) lookupPlayerID(ctx context.Context, playerName string) (int64, bool, error) {
	value, err := c.cached(ctx, "nbastats:players:"+c.season, func(ctx context.Context) (any, error) {
		return c.fetchPlayerIndex(ctx)
	})
	if err != nil {
		return 0, false, err
	}

	index, ok := value.([]playerIndexEntry)
	if !ok {
		return 0, false, fmt.Errorf("unexpected cached player index type %T", value)
	}

	want := strings.ToLower(playerName)
	for _, entry := range index {
		if strings.ToLower(entry.Name) == want {
			return entry.ID, true, nil
		}
	}

	var candidate playerIndexEntry
	matches := 0
	for _, entry := range index {
		if strings.Contains(strings.ToLower(entry.Name), want) {
			candidate = entry
			matches++
		}
	}
	if matches == 1 {
		return candidate.ID, true, nil
	}
	return 0, false, nil
}

func (c *Client) fetchPlayerIndex(ctx context.Context) ([]playerIndexEntry, error) {
	query := map[string]string{
		"Season":              c.season,
		"LeagueID":            "00",
		"IsOnlyCurrentSeason": "1",
	}

	var envelope resultSetsEnvelope
	if err := c.doJSON(ctx, "/commonallplayers", query, &envelope); err != nil {
		return nil, fmt.Errorf("fetch player index: %w", err)
	}

	set, ok := envelope.findResultSet("CommonAllPlayers")
	if !ok && len(envelope.ResultSets) > 0 {
		set = envelope.ResultSets[0]
		ok = true
	}
	if !ok {
		return []playerIndexEntry{}, nil
	}

	return parsePlayerIndex(set)
}

func (c *Client) cached(ctx context.Context, key string, loader func(context.Context) (any, error)) (any, error) {
	if c.cache == nil {
		return loader(ctx)
	}
	return c.cache.GetOrLoad(ctx, key, loader)
}

func (c *Client) doJSON(ctx context.Context, path string, query map[string]string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "nba stats circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: stats provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}

	fullURL := c.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	key := path + "?" + values.Encode()
	out, err, _ := c.flight.Do(key, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && isNBAStatsCircuitFailure(reqErr) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode provider payload: %w", err)
	}

	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	c.logRequestPreview(ctx, fullURL)

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := c.pace(ctx); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("Referer", "https://www.nba.com/")
		req.Header.Set("Origin", "https://www.nba.com")
		req.Header.Set("x-nba-stats-origin", "stats")
		req.Header.Set("x-nba-stats-token", "true")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %v", errNBAStatsTransient, err)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
			_ = resp.Body.Close()
			if readErr != nil {
				lastErr = fmt.Errorf("%w: read response body: %v", errNBAStatsTransient, readErr)
			} else if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return raw, nil
			} else {
				if isRetryableStatus(resp.StatusCode) {
					lastErr = fmt.Errorf("%w: provider status=%d body=%s", errNBAStatsTransient, resp.StatusCode, abbreviateBody(raw))
				} else {
					return nil, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
				}
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "nba stats request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

// pace spaces requests at least minInterval apart so the provider does
// not throttle the anonymous client.
func (c *Client) pace(ctx context.Context) error {
	c.paceMu.Lock()
	now := time.Now()
	wait := c.nextRequest.Sub(now)
	if wait < 0 {
		wait = 0
	}
	c.nextRequest = now.Add(wait + c.minInterval)
	c.paceMu.Unlock()

	if wait == 0 {
		return nil
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (c *Client) logRequestPreview(ctx context.Context, fullURL string) {
	buf := bytebufferpool.Get()
	_, _ = buf.WriteString(http.MethodGet)
	_, _ = buf.WriteString(" ")
	_, _ = buf.WriteString(fullURL)
	c.logger.DebugContext(ctx, "nba stats request", "request", buf.String())
	bytebufferpool.Put(buf)
}

func isNBAStatsCircuitFailure(err error) bool {
	if err == nil {
		return false
	}
	return stderrors.Is(err, errNBAStatsTransient)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}

func maxInt(left, right int) int {
	if left > right {
		return left
	}
	return right
}
