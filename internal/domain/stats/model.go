package stats

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Granularity tells whether rows carry season aggregates or single games.
type Granularity string

const (
	GranularitySeason Granularity = "season"
	GranularityGame   Granularity = "game"
)

var ErrInvalidRow = errors.New("invalid stat row")

// Row is one tabular observation: a player's season-aggregate line or a
// single game line, depending on the owning table's granularity.
type Row struct {
	PlayerName    string
	TeamCode      string
	GamesPlayed   int
	Minutes       float64
	Points        float64
	Rebounds      float64
	Assists       float64
	Steals        float64
	Blocks        float64
	Turnovers     float64
	FieldGoalPct  float64
	FreeThrowPct  float64
	ThreePointPct float64
	// Matchup holds both team codes for game rows, e.g. "LAL vs. BOS" or "LAL @ BOS".
	Matchup  string
	GameDate time.Time
}

func (r Row) Validate(granularity Granularity) error {
	if strings.TrimSpace(r.PlayerName) == "" {
		return fmt.Errorf("%w: player name is empty", ErrInvalidRow)
	}
	if !IsTeamCode(r.TeamCode) {
		return fmt.Errorf("%w: team code %q must be 2-3 uppercase letters", ErrInvalidRow, r.TeamCode)
	}
	for _, field := range []struct {
		name  string
		value float64
	}{
		{"minutes", r.Minutes},
		{"points", r.Points},
		{"rebounds", r.Rebounds},
		{"assists", r.Assists},
		{"steals", r.Steals},
		{"blocks", r.Blocks},
		{"turnovers", r.Turnovers},
	} {
		if field.value < 0 {
			return fmt.Errorf("%w: %s must be >= 0, got %v", ErrInvalidRow, field.name, field.value)
		}
	}
	for _, field := range []struct {
		name  string
		value float64
	}{
		{"fg_pct", r.FieldGoalPct},
		{"ft_pct", r.FreeThrowPct},
		{"fg3_pct", r.ThreePointPct},
	} {
		if field.value < 0 || field.value > 1 {
			return fmt.Errorf("%w: %s must be within [0,1], got %v", ErrInvalidRow, field.name, field.value)
		}
	}

	switch granularity {
	case GranularitySeason:
		if r.GamesPlayed <= 0 {
			return fmt.Errorf("%w: season row for %q must have games_played > 0", ErrInvalidRow, r.PlayerName)
		}
		if !r.GameDate.IsZero() {
			return fmt.Errorf("%w: season row for %q must not carry a game date", ErrInvalidRow, r.PlayerName)
		}
	case GranularityGame:
		if r.GameDate.IsZero() {
			return fmt.Errorf("%w: game row for %q must carry a game date", ErrInvalidRow, r.PlayerName)
		}
	default:
		return fmt.Errorf("%w: unknown granularity %q", ErrInvalidRow, granularity)
	}

	return nil
}

// Table is an ordered collection of rows sharing one granularity. Game
// tables are ordered most-recent-first. An empty table is the providers'
// "nothing found" signal and is always legal.
type Table struct {
	Granularity Granularity
	Rows        []Row
}

func (t Table) Len() int {
	return len(t.Rows)
}

func (t Table) Empty() bool {
	return len(t.Rows) == 0
}

func (t Table) Validate() error {
	for i, row := range t.Rows {
		if err := row.Validate(t.Granularity); err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
	}
	return nil
}

// FilterTeam keeps rows whose team code equals the given code.
func (t Table) FilterTeam(code string) Table {
	out := Table{Granularity: t.Granularity}
	for _, row := range t.Rows {
		if row.TeamCode == code {
			out.Rows = append(out.Rows, row)
		}
	}
	return out
}

// FilterPlayer keeps rows whose player name matches case-insensitively.
func (t Table) FilterPlayer(name string) Table {
	want := strings.ToLower(strings.TrimSpace(name))
	out := Table{Granularity: t.Granularity}
	for _, row := range t.Rows {
		if strings.ToLower(strings.TrimSpace(row.PlayerName)) == want {
			out.Rows = append(out.Rows, row)
		}
	}
	return out
}

// FilterOpponent keeps game rows whose matchup string names the opponent
// code as a whole token, so "AL" never matches "DAL".
func (t Table) FilterOpponent(code string) Table {
	out := Table{Granularity: t.Granularity}
	for _, row := range t.Rows {
		if MatchupContains(row.Matchup, code) {
			out.Rows = append(out.Rows, row)
		}
	}
	return out
}

// Head returns the first n rows. For game tables this is the n most
// recent games.
func (t Table) Head(n int) Table {
	if n < 0 {
		n = 0
	}
	if n > len(t.Rows) {
		n = len(t.Rows)
	}
	return Table{
		Granularity: t.Granularity,
		Rows:        t.Rows[:n],
	}
}

// MatchupContains reports whether a matchup string like "LAL @ BOS"
// names the team code as an exact token.
func MatchupContains(matchup, code string) bool {
	if code == "" {
		return false
	}
	for _, token := range strings.Fields(matchup) {
		if token == code {
			return true
		}
	}
	return false
}

// IsTeamCode reports whether the value looks like an NBA team
// abbreviation: 2 or 3 uppercase ASCII letters.
func IsTeamCode(code string) bool {
	if len(code) < 2 || len(code) > 3 {
		return false
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
