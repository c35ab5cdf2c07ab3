// Package prediction holds the scoring engine: pure functions from
// already-materialized stat tables to predictions. No I/O, no clocks,
// no shared state; identical inputs always produce identical outputs.
package prediction

import (
	"errors"
	"fmt"
	"math"

	"github.com/hoopsight/fantasy-basketball/internal/domain/stats"
)

var (
	ErrUnknownTeam = errors.New("team has no rows in season table")
	ErrNoGames     = errors.New("player has no recent games")
)

const (
	// HomeCourtAdvantage is added to the home side's average before
	// comparing strengths.
	HomeCourtAdvantage = 3.5
	// logisticScale flattens the win-probability curve: a 10-point edge
	// maps to ~73% win probability.
	logisticScale = 10.0
	// TypicalTotal is the league-typical combined score the over/under
	// call is measured against.
	TypicalTotal = 220.0

	reboundWeight  = 1.2
	assistWeight   = 1.5
	stealWeight    = 3.0
	blockWeight    = 3.0
	trendWindow    = 3
	overRecommend  = "OVER"
	underRecommend = "UNDER"
)

// ExtractTeamFeatures summarizes the team's season-aggregate rows.
// Values stay unrounded so downstream math sees full precision;
// GameOutcome rounds at presentation. The second return is false when
// the table holds no rows for the code.
func ExtractTeamFeatures(code string, seasonTable stats.Table) (TeamFeatures, bool) {
	roster := seasonTable.FilterTeam(code)
	if roster.Empty() {
		return TeamFeatures{}, false
	}

	return TeamFeatures{
		TeamCode:       code,
		AvgPoints:      stats.Mean(roster, points),
		TotalMinutes:   stats.Sum(roster, minutes),
		AvgGamesPlayed: stats.Mean(roster, gamesPlayed),
		NumPlayers:     roster.Len(),
	}, true
}

// PredictGame scores a single pairing from the season table. The home
// side gets HomeCourtAdvantage points on top of its average, the point
// differential runs through a logistic curve, and the home side wins
// only on a strictly greater than 0.5 probability.
func PredictGame(home, away string, seasonTable stats.Table) (GameOutcome, error) {
	homeFeatures, ok := ExtractTeamFeatures(home, seasonTable)
	if !ok {
		return GameOutcome{}, fmt.Errorf("%w: home_team=%s", ErrUnknownTeam, home)
	}
	awayFeatures, ok := ExtractTeamFeatures(away, seasonTable)
	if !ok {
		return GameOutcome{}, fmt.Errorf("%w: away_team=%s", ErrUnknownTeam, away)
	}

	homeScore := homeFeatures.AvgPoints + HomeCourtAdvantage
	awayScore := awayFeatures.AvgPoints
	diff := homeScore - awayScore
	homeWinProbability := 1.0 / (1.0 + math.Exp(-diff/logisticScale))

	winner := away
	if homeWinProbability > 0.5 {
		winner = home
	}

	return GameOutcome{
		HomeTeam:           home,
		AwayTeam:           away,
		PredictedHomeScore: round1(homeScore),
		PredictedAwayScore: round1(awayScore),
		PredictedWinner:    winner,
		HomeWinProbability: homeWinProbability,
		AwayWinProbability: 1.0 - homeWinProbability,
		PredictedTotal:     round1(homeScore + awayScore),
		PredictedSpread:    round1(diff),
	}, nil
}

// ForecastPlayer projects the next stat line as per-column means over
// the recent-game window. Fantasy points are computed from the rounded
// per-stat forecasts.
func ForecastPlayer(name string, gamesTable stats.Table) (PlayerForecast, error) {
	if gamesTable.Empty() {
		return PlayerForecast{}, fmt.Errorf("%w: player=%s", ErrNoGames, name)
	}

	forecast := PlayerForecast{
		PlayerName:         name,
		GamesAnalyzed:      gamesTable.Len(),
		PredictedPoints:    round1(stats.Mean(gamesTable, points)),
		PredictedRebounds:  round1(stats.Mean(gamesTable, rebounds)),
		PredictedAssists:   round1(stats.Mean(gamesTable, assists)),
		PredictedSteals:    round1(stats.Mean(gamesTable, steals)),
		PredictedBlocks:    round1(stats.Mean(gamesTable, blocks)),
		PredictedTurnovers: round1(stats.Mean(gamesTable, turnovers)),
		PredictedMinutes:   round1(stats.Mean(gamesTable, minutes)),
		PredictedFGPct:     round3(stats.Mean(gamesTable, fieldGoalPct)),
		Trend:              scoringTrend(gamesTable),
	}
	forecast.Consistency = consistency(gamesTable)
	forecast.FantasyPoints = round1(FantasyPoints(
		forecast.PredictedPoints,
		forecast.PredictedRebounds,
		forecast.PredictedAssists,
		forecast.PredictedSteals,
		forecast.PredictedBlocks,
		forecast.PredictedTurnovers,
	))

	return forecast, nil
}

// FantasyPoints applies the standard fantasy weighting to a stat line.
func FantasyPoints(pts, reb, ast, stl, blk, tov float64) float64 {
	return pts + reb*reboundWeight + ast*assistWeight + stl*stealWeight + blk*blockWeight - tov
}

// AnalyzeMatchup splits the recent-game window into games against the
// opponent versus all games. An empty opponent subset yields the
// no-history report variant, not an error.
func AnalyzeMatchup(name, opponent string, gamesTable stats.Table) (MatchupReport, error) {
	if gamesTable.Empty() {
		return MatchupReport{}, fmt.Errorf("%w: player=%s", ErrNoGames, name)
	}

	overallAvg := round1(stats.Mean(gamesTable, points))
	vsOpponent := gamesTable.FilterOpponent(opponent)
	if vsOpponent.Empty() {
		return MatchupReport{
			PlayerName:        name,
			Opponent:          opponent,
			OverallAvgPoints:  overallAvg,
			UseOverallAverage: true,
			Note:              "no recent games vs this opponent",
		}, nil
	}

	vsAvg := round1(stats.Mean(vsOpponent, points))
	return MatchupReport{
		PlayerName:          name,
		Opponent:            opponent,
		GamesVsOpponent:     vsOpponent.Len(),
		AvgPointsVsOpponent: vsAvg,
		OverallAvgPoints:    overallAvg,
		Differential:        round1(vsAvg - overallAvg),
		FavorableMatchup:    vsAvg > overallAvg,
	}, nil
}

// OverUnder converts a game outcome into a call against the typical
// total. Confidence grows with the distance from the line.
func OverUnder(outcome GameOutcome) OverUnderCall {
	recommendation := underRecommend
	if outcome.PredictedTotal > TypicalTotal {
		recommendation = overRecommend
	}

	return OverUnderCall{
		HomeTeam:       outcome.HomeTeam,
		AwayTeam:       outcome.AwayTeam,
		PredictedTotal: outcome.PredictedTotal,
		Line:           TypicalTotal,
		Recommendation: recommendation,
		Confidence:     round1(math.Abs(outcome.PredictedTotal-TypicalTotal) / 10.0),
	}
}

// scoringTrend compares the mean of the three most recent games with
// the mean of the remainder. Windows shorter than four games cannot
// split and are reported steady.
func scoringTrend(gamesTable stats.Table) Trend {
	if gamesTable.Len() <= trendWindow {
		return TrendSteady
	}

	recent := stats.Mean(gamesTable.Head(trendWindow), points)
	rest := stats.Mean(stats.Table{
		Granularity: gamesTable.Granularity,
		Rows:        gamesTable.Rows[trendWindow:],
	}, points)

	if recent > rest {
		return TrendUp
	}
	return TrendDown
}

// consistency is 1 - stddev/mean over the window's points, clamped at
// zero. It is undefined (nil) with fewer than two games or a zero mean.
func consistency(gamesTable stats.Table) *float64 {
	mean := stats.Mean(gamesTable, points)
	if mean == 0 {
		return nil
	}
	deviation, ok := stats.SampleStdDev(gamesTable, points)
	if !ok {
		return nil
	}

	value := round2(1.0 - deviation/mean)
	if value < 0 {
		value = 0
	}
	return &value
}

func points(r stats.Row) float64       { return r.Points }
func rebounds(r stats.Row) float64     { return r.Rebounds }
func assists(r stats.Row) float64      { return r.Assists }
func steals(r stats.Row) float64       { return r.Steals }
func blocks(r stats.Row) float64       { return r.Blocks }
func turnovers(r stats.Row) float64    { return r.Turnovers }
func minutes(r stats.Row) float64      { return r.Minutes }
func fieldGoalPct(r stats.Row) float64 { return r.FieldGoalPct }
func gamesPlayed(r stats.Row) float64  { return float64(r.GamesPlayed) }

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
