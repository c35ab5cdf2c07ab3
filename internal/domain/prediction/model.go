package prediction

// TeamFeatures summarizes one team's season-aggregate rows.
type TeamFeatures struct {
	TeamCode       string  `json:"team"`
	AvgPoints      float64 `json:"avg_points"`
	TotalMinutes   float64 `json:"total_minutes"`
	AvgGamesPlayed float64 `json:"avg_games_played"`
	NumPlayers     int     `json:"num_players"`
}

// GameOutcome is the full game prediction for one home/away pairing.
type GameOutcome struct {
	HomeTeam           string  `json:"home_team"`
	AwayTeam           string  `json:"away_team"`
	PredictedHomeScore float64 `json:"predicted_home_score"`
	PredictedAwayScore float64 `json:"predicted_away_score"`
	PredictedWinner    string  `json:"predicted_winner"`
	HomeWinProbability float64 `json:"home_win_probability"`
	AwayWinProbability float64 `json:"away_win_probability"`
	PredictedTotal     float64 `json:"predicted_total"`
	PredictedSpread    float64 `json:"predicted_spread"`
}

// Trend describes the direction of a player's recent scoring.
type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendSteady Trend = "steady"
)

// PlayerForecast projects a player's next-game stat line from a window
// of recent games. Consistency is nil when fewer than two games exist
// or the player averaged zero points over the window.
type PlayerForecast struct {
	PlayerName         string   `json:"player"`
	GamesAnalyzed      int      `json:"games_analyzed"`
	PredictedPoints    float64  `json:"predicted_points"`
	PredictedRebounds  float64  `json:"predicted_rebounds"`
	PredictedAssists   float64  `json:"predicted_assists"`
	PredictedSteals    float64  `json:"predicted_steals"`
	PredictedBlocks    float64  `json:"predicted_blocks"`
	PredictedTurnovers float64  `json:"predicted_turnovers"`
	PredictedMinutes   float64  `json:"predicted_minutes"`
	PredictedFGPct     float64  `json:"predicted_fg_pct"`
	Consistency        *float64 `json:"consistency,omitempty"`
	Trend              Trend    `json:"trend"`
	FantasyPoints      float64  `json:"fantasy_points"`
}

// MatchupReport compares a player's scoring against one opponent with
// their overall recent scoring. When the window holds no games against
// that opponent the report flags it instead of erroring.
type MatchupReport struct {
	PlayerName          string  `json:"player"`
	Opponent            string  `json:"opponent"`
	GamesVsOpponent     int     `json:"games_vs_opponent"`
	AvgPointsVsOpponent float64 `json:"avg_points_vs_opponent"`
	OverallAvgPoints    float64 `json:"overall_avg_points"`
	Differential        float64 `json:"differential"`
	FavorableMatchup    bool    `json:"favorable_matchup"`
	UseOverallAverage   bool    `json:"use_overall_average,omitempty"`
	Note                string  `json:"note,omitempty"`
}

// OverUnderCall recommends a side of the typical-total line for a game.
type OverUnderCall struct {
	HomeTeam       string  `json:"home_team"`
	AwayTeam       string  `json:"away_team"`
	PredictedTotal float64 `json:"predicted_total"`
	Line           float64 `json:"line"`
	Recommendation string  `json:"recommendation"`
	Confidence     float64 `json:"confidence"`
}
