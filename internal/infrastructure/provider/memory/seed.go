package memory

import (
	"time"

	"github.com/hoopsight/fantasy-basketball/internal/domain/stats"
)

type seedPlayer struct {
	name      string
	team      string
	points    float64
	rebounds  float64
	assists   float64
	steals    float64
	blocks    float64
	turnovers float64
	minutes   float64
	fgPct     float64
}

var seedPlayers = []seedPlayer{
	{"LeBron James", "LAL", 25.7, 7.3, 8.3, 1.3, 0.5, 3.5, 35.3, 0.540},
	{"Anthony Davis", "LAL", 24.7, 12.6, 3.5, 1.2, 2.3, 2.1, 35.5, 0.556},
	{"Jayson Tatum", "BOS", 26.9, 8.1, 4.9, 1.0, 0.6, 2.5, 35.7, 0.471},
	{"Jaylen Brown", "BOS", 23.0, 5.5, 3.6, 1.2, 0.5, 2.4, 33.5, 0.499},
	{"Nikola Jokic", "DEN", 26.4, 12.4, 9.0, 1.4, 0.9, 3.0, 34.6, 0.583},
	{"Jamal Murray", "DEN", 21.2, 4.1, 6.5, 1.0, 0.7, 2.1, 31.5, 0.481},
	{"Devin Booker", "PHX", 27.1, 4.5, 6.9, 0.9, 0.4, 2.6, 36.0, 0.492},
	{"Kevin Durant", "PHX", 27.3, 6.6, 5.0, 0.9, 1.2, 3.3, 37.2, 0.523},
	{"Giannis Antetokounmpo", "MIL", 30.4, 11.5, 6.5, 1.2, 1.1, 3.4, 35.2, 0.611},
	{"Damian Lillard", "MIL", 24.3, 4.4, 7.0, 1.0, 0.3, 2.6, 35.3, 0.424},
	{"Jalen Brunson", "NYK", 28.7, 3.6, 6.7, 0.9, 0.2, 2.4, 35.4, 0.479},
	{"Julius Randle", "NYK", 24.0, 9.2, 5.0, 0.5, 0.3, 3.0, 35.4, 0.472},
}

var seedOpponents = []string{"LAL", "BOS", "DEN", "PHX", "MIL", "NYK"}

// SeedLeague builds a Source holding a small league: two players per
// team, one season row each plus a deterministic fifteen-game log.
func SeedLeague() *Source {
	season := stats.Table{
		Granularity: stats.GranularitySeason,
		Rows:        make([]stats.Row, 0, len(seedPlayers)),
	}
	logs := make(map[string]stats.Table, len(seedPlayers))

	for i, p := range seedPlayers {
		season.Rows = append(season.Rows, stats.Row{
			PlayerName:    p.name,
			TeamCode:      p.team,
			GamesPlayed:   70,
			Minutes:       p.minutes,
			Points:        p.points,
			Rebounds:      p.rebounds,
			Assists:       p.assists,
			Steals:        p.steals,
			Blocks:        p.blocks,
			Turnovers:     p.turnovers,
			FieldGoalPct:  p.fgPct,
			FreeThrowPct:  0.78,
			ThreePointPct: 0.36,
		})
		logs[p.name] = buildGameLog(p, i)
	}

	return NewSource(season, logs)
}

// buildGameLog synthesizes fifteen games, most recent first, with a
// small deterministic swing around the player's season averages.
func buildGameLog(p seedPlayer, playerIndex int) stats.Table {
	const gameCount = 15
	lastGame := time.Date(2025, 4, 11, 0, 0, 0, 0, time.UTC)

	rows := make([]stats.Row, 0, gameCount)
	for g := 0; g < gameCount; g++ {
		opponent := pickOpponent(p.team, playerIndex+g)
		matchup := p.team + " vs. " + opponent
		if g%2 == 1 {
			matchup = p.team + " @ " + opponent
		}

		// Swing cycles through -2, 0, +2, +4 points around the average.
		swing := float64((playerIndex+g)%4)*2.0 - 2.0

		rows = append(rows, stats.Row{
			PlayerName:    p.name,
			TeamCode:      p.team,
			Minutes:       p.minutes,
			Points:        p.points + swing,
			Rebounds:      p.rebounds,
			Assists:       p.assists,
			Steals:        p.steals,
			Blocks:        p.blocks,
			Turnovers:     p.turnovers,
			FieldGoalPct:  p.fgPct,
			FreeThrowPct:  0.78,
			ThreePointPct: 0.36,
			Matchup:       matchup,
			GameDate:      lastGame.AddDate(0, 0, -2*g),
		})
	}

	return stats.Table{Granularity: stats.GranularityGame, Rows: rows}
}

func pickOpponent(team string, n int) string {
	for i := 0; i < len(seedOpponents); i++ {
		candidate := seedOpponents[(n+i)%len(seedOpponents)]
		if candidate != team {
			return candidate
		}
	}
	return seedOpponents[0]
}
