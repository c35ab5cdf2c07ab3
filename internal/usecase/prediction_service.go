package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/hoopsight/fantasy-basketball/internal/domain/prediction"
	"github.com/hoopsight/fantasy-basketball/internal/domain/stats"
	"github.com/hoopsight/fantasy-basketball/internal/domain/team"
	"github.com/hoopsight/fantasy-basketball/internal/platform/logging"
)

const (
	defaultRecentGamesWindow = 10
	defaultMatchupWindow     = 50
	maxGamesWindow           = 82
	defaultSlateMaxWorkers   = 4
	maxSlateGames            = 15

	slateStatusPredicted = "predicted"
	slateStatusFailed    = "failed"
)

// PredictionConfig carries the tunables of the prediction service.
type PredictionConfig struct {
	Season            string
	RecentGamesWindow int
	MatchupWindow     int
	SlateMaxWorkers   int
}

// PredictionService orchestrates provider fetches around the pure
// prediction engine and maps its sentinels onto the service taxonomy.
type PredictionService struct {
	provider StatsProvider
	teams    team.Directory
	cfg      PredictionConfig
	logger   *logging.Logger
}

func NewPredictionService(
	provider StatsProvider,
	teams team.Directory,
	cfg PredictionConfig,
	logger *logging.Logger,
) *PredictionService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.RecentGamesWindow < 1 {
		cfg.RecentGamesWindow = defaultRecentGamesWindow
	}
	if cfg.MatchupWindow < 1 {
		cfg.MatchupWindow = defaultMatchupWindow
	}
	if cfg.SlateMaxWorkers < 1 {
		cfg.SlateMaxWorkers = defaultSlateMaxWorkers
	}

	return &PredictionService{
		provider: provider,
		teams:    teams,
		cfg:      cfg,
		logger:   logger,
	}
}

// PredictGame predicts one game from the current season table.
func (s *PredictionService) PredictGame(ctx context.Context, homeTeam, awayTeam string) (prediction.GameOutcome, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.PredictGame")
	defer span.End()

	home, err := s.normalizeTeamCode(homeTeam)
	if err != nil {
		return prediction.GameOutcome{}, err
	}
	away, err := s.normalizeTeamCode(awayTeam)
	if err != nil {
		return prediction.GameOutcome{}, err
	}
	if home == away {
		return prediction.GameOutcome{}, fmt.Errorf("%w: a team cannot host itself: team=%s", ErrInvalidInput, home)
	}

	table, err := s.seasonTable(ctx)
	if err != nil {
		return prediction.GameOutcome{}, err
	}

	outcome, err := prediction.PredictGame(home, away, table)
	if err != nil {
		return prediction.GameOutcome{}, mapEngineError(err)
	}

	return outcome, nil
}

// PredictOverUnder predicts the game and converts the outcome into an
// over/under call against the typical total.
func (s *PredictionService) PredictOverUnder(ctx context.Context, homeTeam, awayTeam string) (prediction.OverUnderCall, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.PredictOverUnder")
	defer span.End()

	outcome, err := s.PredictGame(ctx, homeTeam, awayTeam)
	if err != nil {
		return prediction.OverUnderCall{}, err
	}

	return prediction.OverUnder(outcome), nil
}

// ForecastPlayer projects a player's next stat line from their recent
// games. A zero window uses the configured default.
func (s *PredictionService) ForecastPlayer(ctx context.Context, playerName string, window int) (prediction.PlayerForecast, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.ForecastPlayer")
	defer span.End()

	name, err := normalizePlayerName(playerName)
	if err != nil {
		return prediction.PlayerForecast{}, err
	}
	window, err = s.normalizeWindow(window, s.cfg.RecentGamesWindow)
	if err != nil {
		return prediction.PlayerForecast{}, err
	}

	games, err := s.recentGames(ctx, name, window)
	if err != nil {
		return prediction.PlayerForecast{}, err
	}

	forecast, err := prediction.ForecastPlayer(name, games)
	if err != nil {
		return prediction.PlayerForecast{}, mapEngineError(err)
	}

	return forecast, nil
}

// AnalyzeMatchup compares the player's scoring against one opponent
// over a wider window of recent games.
func (s *PredictionService) AnalyzeMatchup(ctx context.Context, playerName, opponent string, window int) (prediction.MatchupReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.AnalyzeMatchup")
	defer span.End()

	name, err := normalizePlayerName(playerName)
	if err != nil {
		return prediction.MatchupReport{}, err
	}
	opponentCode, err := s.normalizeTeamCode(opponent)
	if err != nil {
		return prediction.MatchupReport{}, err
	}
	window, err = s.normalizeWindow(window, s.cfg.MatchupWindow)
	if err != nil {
		return prediction.MatchupReport{}, err
	}

	games, err := s.recentGames(ctx, name, window)
	if err != nil {
		return prediction.MatchupReport{}, err
	}

	report, err := prediction.AnalyzeMatchup(name, opponentCode, games)
	if err != nil {
		return prediction.MatchupReport{}, mapEngineError(err)
	}

	return report, nil
}

// GamePair names one slate entry.
type GamePair struct {
	HomeTeam string
	AwayTeam string
}

type SlatePrediction struct {
	Index      int                     `json:"index"`
	HomeTeam   string                  `json:"home_team"`
	AwayTeam   string                  `json:"away_team"`
	Status     string                  `json:"status"`
	Outcome    *prediction.GameOutcome `json:"outcome,omitempty"`
	Message    string                  `json:"message,omitempty"`
	DurationMs int64                   `json:"duration_ms"`
}

type SlateResult struct {
	GameCount      int               `json:"game_count"`
	PredictedCount int               `json:"predicted_count"`
	FailedCount    int               `json:"failed_count"`
	WorkerCount    int               `json:"worker_count"`
	Games          []SlatePrediction `json:"games"`
}

// PredictSlate predicts several games over a single immutable season
// snapshot using a bounded worker pool. The result preserves request
// order regardless of completion order.
func (s *PredictionService) PredictSlate(ctx context.Context, games []GamePair) (SlateResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.PredictSlate")
	defer span.End()

	if len(games) == 0 {
		return SlateResult{}, fmt.Errorf("%w: slate must contain at least one game", ErrInvalidInput)
	}
	if len(games) > maxSlateGames {
		return SlateResult{}, fmt.Errorf("%w: slate must contain at most %d games, got %d", ErrInvalidInput, maxSlateGames, len(games))
	}

	table, err := s.seasonTable(ctx)
	if err != nil {
		return SlateResult{}, err
	}

	workerCount := s.cfg.SlateMaxWorkers
	if workerCount > len(games) {
		workerCount = len(games)
	}

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return SlateResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	results := make(chan SlatePrediction, len(games))

	var predictedCount atomic.Int32
	var failedCount atomic.Int32

	var workers sync.WaitGroup
	for i, game := range games {
		i, game := i, game
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			start := time.Now()
			row := SlatePrediction{
				Index:    i,
				HomeTeam: strings.ToUpper(strings.TrimSpace(game.HomeTeam)),
				AwayTeam: strings.ToUpper(strings.TrimSpace(game.AwayTeam)),
			}

			outcome, predictErr := s.predictFromSnapshot(game, table)
			if predictErr != nil {
				row.Status = slateStatusFailed
				row.Message = predictErr.Error()
				failedCount.Add(1)
			} else {
				row.Status = slateStatusPredicted
				row.Outcome = &outcome
				predictedCount.Add(1)
			}
			row.DurationMs = time.Since(start).Milliseconds()

			results <- row
		}); err != nil {
			workers.Done()
			return SlateResult{}, fmt.Errorf("submit game to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(results)

	result := SlateResult{
		GameCount:      len(games),
		WorkerCount:    workerCount,
		PredictedCount: int(predictedCount.Load()),
		FailedCount:    int(failedCount.Load()),
		Games:          make([]SlatePrediction, 0, len(games)),
	}
	for row := range results {
		result.Games = append(result.Games, row)
	}
	sort.SliceStable(result.Games, func(i, j int) bool {
		return result.Games[i].Index < result.Games[j].Index
	})

	return result, nil
}

func (s *PredictionService) predictFromSnapshot(game GamePair, table stats.Table) (prediction.GameOutcome, error) {
	home, err := s.normalizeTeamCode(game.HomeTeam)
	if err != nil {
		return prediction.GameOutcome{}, err
	}
	away, err := s.normalizeTeamCode(game.AwayTeam)
	if err != nil {
		return prediction.GameOutcome{}, err
	}
	if home == away {
		return prediction.GameOutcome{}, fmt.Errorf("%w: a team cannot host itself: team=%s", ErrInvalidInput, home)
	}

	outcome, err := prediction.PredictGame(home, away, table)
	if err != nil {
		return prediction.GameOutcome{}, mapEngineError(err)
	}
	return outcome, nil
}

func (s *PredictionService) seasonTable(ctx context.Context) (stats.Table, error) {
	if s.provider == nil {
		return stats.Table{}, fmt.Errorf("%w: stats provider is not configured", ErrDependencyUnavailable)
	}

	table, err := s.provider.SeasonTable(ctx, s.cfg.Season)
	if err != nil {
		s.logger.WarnContext(ctx, "fetch season table failed", "season", s.cfg.Season, "error", err)
		return stats.Table{}, fmt.Errorf("%w: fetch season table: %v", ErrDependencyUnavailable, err)
	}
	if table.Empty() {
		return stats.Table{}, fmt.Errorf("%w: season table for %s has no rows", ErrNotFound, s.cfg.Season)
	}

	return table, nil
}

func (s *PredictionService) recentGames(ctx context.Context, playerName string, window int) (stats.Table, error) {
	if s.provider == nil {
		return stats.Table{}, fmt.Errorf("%w: stats provider is not configured", ErrDependencyUnavailable)
	}

	games, err := s.provider.RecentGames(ctx, playerName, window)
	if err != nil {
		s.logger.WarnContext(ctx, "fetch recent games failed", "player", playerName, "error", err)
		return stats.Table{}, fmt.Errorf("%w: fetch recent games: %v", ErrDependencyUnavailable, err)
	}
	if games.Empty() {
		return stats.Table{}, fmt.Errorf("%w: player=%s", ErrNotFound, playerName)
	}

	return games, nil
}

func (s *PredictionService) normalizeTeamCode(raw string) (string, error) {
	code := strings.ToUpper(strings.TrimSpace(raw))
	if !stats.IsTeamCode(code) {
		return "", fmt.Errorf("%w: team code %q must be 2-3 letters", ErrInvalidInput, raw)
	}
	if !s.teams.Contains(code) {
		return "", fmt.Errorf("%w: unknown team: team=%s", ErrNotFound, code)
	}
	return code, nil
}

func (s *PredictionService) normalizeWindow(window, fallback int) (int, error) {
	if window == 0 {
		return fallback, nil
	}
	if window < 1 || window > maxGamesWindow {
		return 0, fmt.Errorf("%w: games window must be within [1,%d], got %d", ErrInvalidInput, maxGamesWindow, window)
	}
	return window, nil
}

func normalizePlayerName(raw string) (string, error) {
	name := strings.Join(strings.Fields(raw), " ")
	if name == "" {
		return "", fmt.Errorf("%w: player name is empty", ErrInvalidInput)
	}
	return name, nil
}

func mapEngineError(err error) error {
	switch {
	case errors.Is(err, prediction.ErrUnknownTeam):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	case errors.Is(err, prediction.ErrNoGames):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	default:
		return err
	}
}
