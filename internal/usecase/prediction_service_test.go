package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hoopsight/fantasy-basketball/internal/domain/prediction"
	"github.com/hoopsight/fantasy-basketball/internal/domain/stats"
	"github.com/hoopsight/fantasy-basketball/internal/domain/team"
	"github.com/hoopsight/fantasy-basketball/internal/platform/logging"
)

type fakeProvider struct {
	season    stats.Table
	seasonErr error
	games     stats.Table
	gamesErr  error
	lastCount int
}

func (f *fakeProvider) SeasonTable(_ context.Context, _ string) (stats.Table, error) {
	if f.seasonErr != nil {
		return stats.Table{}, f.seasonErr
	}
	return f.season, nil
}

func (f *fakeProvider) RecentGames(_ context.Context, playerName string, count int) (stats.Table, error) {
	f.lastCount = count
	if f.gamesErr != nil {
		return stats.Table{}, f.gamesErr
	}
	return f.games.FilterPlayer(playerName).Head(count), nil
}

func seasonRow(player, code string, points float64) stats.Row {
	return stats.Row{
		PlayerName:  player,
		TeamCode:    code,
		GamesPlayed: 70,
		Minutes:     34.0,
		Points:      points,
		Rebounds:    6.0,
		Assists:     5.0,
	}
}

func gameRowFor(player string, daysAgo int, matchup string, points float64) stats.Row {
	return stats.Row{
		PlayerName: player,
		TeamCode:   "LAL",
		Minutes:    36.0,
		Points:     points,
		Rebounds:   10,
		Assists:    5,
		Steals:     2,
		Blocks:     1,
		Turnovers:  3,
		Matchup:    matchup,
		GameDate:   time.Date(2025, 3, 30, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -daysAgo),
	}
}

func testSeasonTable() stats.Table {
	return stats.Table{
		Granularity: stats.GranularitySeason,
		Rows: []stats.Row{
			seasonRow("LeBron James", "LAL", 110),
			seasonRow("Jayson Tatum", "BOS", 105),
			seasonRow("Nikola Jokic", "DEN", 115),
			seasonRow("Devin Booker", "PHX", 112),
		},
	}
}

func newTestPredictionService(provider StatsProvider) *PredictionService {
	return NewPredictionService(provider, team.NewDirectory(), PredictionConfig{Season: "2024-25"}, logging.NewNop())
}

func TestPredictionServicePredictGame(t *testing.T) {
	t.Parallel()

	t.Run("normalizes codes and favors the stronger home team", func(t *testing.T) {
		t.Parallel()
		svc := newTestPredictionService(&fakeProvider{season: testSeasonTable()})

		outcome, err := svc.PredictGame(context.Background(), " lal ", "bos")
		if err != nil {
			t.Fatalf("PredictGame: %v", err)
		}
		if outcome.HomeTeam != "LAL" || outcome.AwayTeam != "BOS" {
			t.Fatalf("teams = %s vs %s, want LAL vs BOS", outcome.HomeTeam, outcome.AwayTeam)
		}
		if outcome.PredictedWinner != "LAL" {
			t.Errorf("winner = %s, want LAL", outcome.PredictedWinner)
		}
		if outcome.PredictedHomeScore != 113.5 {
			t.Errorf("home score = %v, want 113.5", outcome.PredictedHomeScore)
		}
	})

	t.Run("rejects a team hosting itself", func(t *testing.T) {
		t.Parallel()
		svc := newTestPredictionService(&fakeProvider{season: testSeasonTable()})

		_, err := svc.PredictGame(context.Background(), "LAL", "lal")
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("err = %v, want ErrInvalidInput", err)
		}
	})

	t.Run("rejects malformed team codes", func(t *testing.T) {
		t.Parallel()
		svc := newTestPredictionService(&fakeProvider{season: testSeasonTable()})

		_, err := svc.PredictGame(context.Background(), "L", "BOS")
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("err = %v, want ErrInvalidInput", err)
		}
	})

	t.Run("reports unknown teams as not found", func(t *testing.T) {
		t.Parallel()
		svc := newTestPredictionService(&fakeProvider{season: testSeasonTable()})

		_, err := svc.PredictGame(context.Background(), "ZZZ", "BOS")
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("err = %v, want ErrNotFound", err)
		}
	})

	t.Run("reports a team missing from the season table as not found", func(t *testing.T) {
		t.Parallel()
		svc := newTestPredictionService(&fakeProvider{season: testSeasonTable()})

		// MIA is a real team but has no rows in the fixture table.
		_, err := svc.PredictGame(context.Background(), "MIA", "BOS")
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("err = %v, want ErrNotFound", err)
		}
	})

	t.Run("wraps provider failures as dependency unavailable", func(t *testing.T) {
		t.Parallel()
		svc := newTestPredictionService(&fakeProvider{seasonErr: errors.New("connection refused")})

		_, err := svc.PredictGame(context.Background(), "LAL", "BOS")
		if !errors.Is(err, ErrDependencyUnavailable) {
			t.Fatalf("err = %v, want ErrDependencyUnavailable", err)
		}
	})

	t.Run("reports an empty season table as not found", func(t *testing.T) {
		t.Parallel()
		svc := newTestPredictionService(&fakeProvider{season: stats.Table{Granularity: stats.GranularitySeason}})

		_, err := svc.PredictGame(context.Background(), "LAL", "BOS")
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("err = %v, want ErrNotFound", err)
		}
	})
}

func TestPredictionServicePredictOverUnder(t *testing.T) {
	t.Parallel()

	svc := newTestPredictionService(&fakeProvider{season: testSeasonTable()})

	// DEN 115 + 3.5 at home against PHX 112 totals 230.5.
	call, err := svc.PredictOverUnder(context.Background(), "DEN", "PHX")
	if err != nil {
		t.Fatalf("PredictOverUnder: %v", err)
	}
	if call.Recommendation != "OVER" {
		t.Errorf("recommendation = %s, want OVER", call.Recommendation)
	}
	if call.Line != prediction.TypicalTotal {
		t.Errorf("line = %v, want %v", call.Line, prediction.TypicalTotal)
	}
	if call.PredictedTotal != 230.5 {
		t.Errorf("predicted total = %v, want 230.5", call.PredictedTotal)
	}
}

func TestPredictionServiceForecastPlayer(t *testing.T) {
	t.Parallel()

	constantGames := stats.Table{
		Granularity: stats.GranularityGame,
		Rows: []stats.Row{
			gameRowFor("LeBron James", 0, "LAL vs. BOS", 20),
			gameRowFor("LeBron James", 2, "LAL @ DEN", 20),
			gameRowFor("LeBron James", 4, "LAL vs. PHX", 20),
			gameRowFor("LeBron James", 6, "LAL @ BOS", 20),
		},
	}

	t.Run("projects the fantasy line from rounded averages", func(t *testing.T) {
		t.Parallel()
		svc := newTestPredictionService(&fakeProvider{season: testSeasonTable(), games: constantGames})

		forecast, err := svc.ForecastPlayer(context.Background(), "lebron james", 4)
		if err != nil {
			t.Fatalf("ForecastPlayer: %v", err)
		}
		if forecast.FantasyPoints != 45.5 {
			t.Errorf("fantasy points = %v, want 45.5", forecast.FantasyPoints)
		}
		if forecast.Trend != prediction.TrendSteady {
			t.Errorf("trend = %s, want steady", forecast.Trend)
		}
	})

	t.Run("zero window falls back to the configured default", func(t *testing.T) {
		t.Parallel()
		provider := &fakeProvider{season: testSeasonTable(), games: constantGames}
		svc := newTestPredictionService(provider)

		if _, err := svc.ForecastPlayer(context.Background(), "LeBron James", 0); err != nil {
			t.Fatalf("ForecastPlayer: %v", err)
		}
		if provider.lastCount != defaultRecentGamesWindow {
			t.Errorf("requested window = %d, want %d", provider.lastCount, defaultRecentGamesWindow)
		}
	})

	t.Run("rejects windows beyond a full season", func(t *testing.T) {
		t.Parallel()
		svc := newTestPredictionService(&fakeProvider{games: constantGames})

		_, err := svc.ForecastPlayer(context.Background(), "LeBron James", 83)
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("err = %v, want ErrInvalidInput", err)
		}
	})

	t.Run("unknown player is not found", func(t *testing.T) {
		t.Parallel()
		svc := newTestPredictionService(&fakeProvider{games: constantGames})

		_, err := svc.ForecastPlayer(context.Background(), "Nobody Atall", 4)
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("err = %v, want ErrNotFound", err)
		}
	})

	t.Run("blank player name is invalid", func(t *testing.T) {
		t.Parallel()
		svc := newTestPredictionService(&fakeProvider{games: constantGames})

		_, err := svc.ForecastPlayer(context.Background(), "   ", 4)
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("err = %v, want ErrInvalidInput", err)
		}
	})
}

func TestPredictionServiceAnalyzeMatchup(t *testing.T) {
	t.Parallel()

	games := stats.Table{
		Granularity: stats.GranularityGame,
		Rows: []stats.Row{
			gameRowFor("LeBron James", 0, "LAL vs. BOS", 30),
			gameRowFor("LeBron James", 2, "LAL @ DEN", 22),
			gameRowFor("LeBron James", 4, "LAL @ BOS", 28),
			gameRowFor("LeBron James", 6, "LAL vs. PHX", 24),
		},
	}

	t.Run("compares scoring against one opponent", func(t *testing.T) {
		t.Parallel()
		svc := newTestPredictionService(&fakeProvider{games: games})

		report, err := svc.AnalyzeMatchup(context.Background(), "LeBron James", "bos", 50)
		if err != nil {
			t.Fatalf("AnalyzeMatchup: %v", err)
		}
		if report.GamesVsOpponent != 2 {
			t.Errorf("games vs opponent = %d, want 2", report.GamesVsOpponent)
		}
		if report.UseOverallAverage {
			t.Error("use_overall_average set despite head-to-head history")
		}
	})

	t.Run("falls back to the overall average without history", func(t *testing.T) {
		t.Parallel()
		svc := newTestPredictionService(&fakeProvider{games: games})

		report, err := svc.AnalyzeMatchup(context.Background(), "LeBron James", "MIA", 50)
		if err != nil {
			t.Fatalf("AnalyzeMatchup: %v", err)
		}
		if !report.UseOverallAverage {
			t.Error("use_overall_average not set for an opponent never faced")
		}
		if report.Note == "" {
			t.Error("expected an explanatory note for the fallback")
		}
	})
}

func TestPredictionServicePredictSlate(t *testing.T) {
	t.Parallel()

	t.Run("predicts every pair and preserves request order", func(t *testing.T) {
		t.Parallel()
		svc := newTestPredictionService(&fakeProvider{season: testSeasonTable()})

		result, err := svc.PredictSlate(context.Background(), []GamePair{
			{HomeTeam: "LAL", AwayTeam: "BOS"},
			{HomeTeam: "DEN", AwayTeam: "PHX"},
			{HomeTeam: "BOS", AwayTeam: "DEN"},
		})
		if err != nil {
			t.Fatalf("PredictSlate: %v", err)
		}
		if result.PredictedCount != 3 || result.FailedCount != 0 {
			t.Fatalf("predicted=%d failed=%d, want 3/0", result.PredictedCount, result.FailedCount)
		}
		for i, row := range result.Games {
			if row.Index != i {
				t.Fatalf("games[%d].Index = %d, order not preserved", i, row.Index)
			}
			if row.Status != slateStatusPredicted || row.Outcome == nil {
				t.Fatalf("games[%d] = %+v, want a predicted outcome", i, row)
			}
		}
	})

	t.Run("keeps going when one pair fails", func(t *testing.T) {
		t.Parallel()
		svc := newTestPredictionService(&fakeProvider{season: testSeasonTable()})

		result, err := svc.PredictSlate(context.Background(), []GamePair{
			{HomeTeam: "LAL", AwayTeam: "BOS"},
			{HomeTeam: "MIA", AwayTeam: "DEN"},
		})
		if err != nil {
			t.Fatalf("PredictSlate: %v", err)
		}
		if result.PredictedCount != 1 || result.FailedCount != 1 {
			t.Fatalf("predicted=%d failed=%d, want 1/1", result.PredictedCount, result.FailedCount)
		}
		failed := result.Games[1]
		if failed.Status != slateStatusFailed || failed.Message == "" || failed.Outcome != nil {
			t.Fatalf("failed row = %+v, want failed status with a message", failed)
		}
	})

	t.Run("rejects an empty slate", func(t *testing.T) {
		t.Parallel()
		svc := newTestPredictionService(&fakeProvider{season: testSeasonTable()})

		_, err := svc.PredictSlate(context.Background(), nil)
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("err = %v, want ErrInvalidInput", err)
		}
	})

	t.Run("rejects oversized slates", func(t *testing.T) {
		t.Parallel()
		svc := newTestPredictionService(&fakeProvider{season: testSeasonTable()})

		games := make([]GamePair, maxSlateGames+1)
		for i := range games {
			games[i] = GamePair{HomeTeam: "LAL", AwayTeam: "BOS"}
		}
		_, err := svc.PredictSlate(context.Background(), games)
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("err = %v, want ErrInvalidInput", err)
		}
	})
}
