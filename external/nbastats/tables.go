package nbastats

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/hoopsight/fantasy-basketball/internal/domain/stats"
)

const gameDateLayout = "Jan 2, 2006"

// resultSetsEnvelope is the wire shape every stats.nba.com endpoint
// shares: named result sets carrying a header row plus value rows.
type resultSetsEnvelope struct {
	Resource   string      `json:"resource"`
	ResultSets []resultSet `json:"resultSets"`
}

type resultSet struct {
	Name    string   `json:"name"`
	Headers []string `json:"headers"`
	RowSet  [][]any  `json:"rowSet"`
}

func (e resultSetsEnvelope) findResultSet(name string) (resultSet, bool) {
	for _, set := range e.ResultSets {
		if strings.EqualFold(set.Name, name) {
			return set, true
		}
	}
	return resultSet{}, false
}

// columnIndex maps upper-cased header names to their row position.
func (r resultSet) columnIndex() map[string]int {
	out := make(map[string]int, len(r.Headers))
	for i, header := range r.Headers {
		out[strings.ToUpper(strings.TrimSpace(header))] = i
	}
	return out
}

func parseSeasonRows(set resultSet) ([]stats.Row, error) {
	cols := set.columnIndex()
	for _, required := range []string{"PLAYER_NAME", "TEAM_ABBREVIATION", "PTS"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("result set %q is missing column %s", set.Name, required)
		}
	}

	out := make([]stats.Row, 0, len(set.RowSet))
	for _, raw := range set.RowSet {
		row := stats.Row{
			PlayerName:    getString(raw, cols, "PLAYER_NAME"),
			TeamCode:      getString(raw, cols, "TEAM_ABBREVIATION"),
			GamesPlayed:   int(getFloat(raw, cols, "GP")),
			Minutes:       getFloat(raw, cols, "MIN"),
			Points:        getFloat(raw, cols, "PTS"),
			Rebounds:      getFloat(raw, cols, "REB"),
			Assists:       getFloat(raw, cols, "AST"),
			Steals:        getFloat(raw, cols, "STL"),
			Blocks:        getFloat(raw, cols, "BLK"),
			Turnovers:     getFloat(raw, cols, "TOV"),
			FieldGoalPct:  getFloat(raw, cols, "FG_PCT"),
			FreeThrowPct:  getFloat(raw, cols, "FT_PCT"),
			ThreePointPct: getFloat(raw, cols, "FG3_PCT"),
		}
		if row.PlayerName == "" || !stats.IsTeamCode(row.TeamCode) {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

func parseGameLogRows(playerName string, set resultSet) ([]stats.Row, error) {
	cols := set.columnIndex()
	for _, required := range []string{"GAME_DATE", "MATCHUP", "PTS"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("result set %q is missing column %s", set.Name, required)
		}
	}

	out := make([]stats.Row, 0, len(set.RowSet))
	for _, raw := range set.RowSet {
		matchup := getString(raw, cols, "MATCHUP")
		row := stats.Row{
			PlayerName:    playerName,
			TeamCode:      matchupOwnTeam(matchup),
			Minutes:       getFloat(raw, cols, "MIN"),
			Points:        getFloat(raw, cols, "PTS"),
			Rebounds:      getFloat(raw, cols, "REB"),
			Assists:       getFloat(raw, cols, "AST"),
			Steals:        getFloat(raw, cols, "STL"),
			Blocks:        getFloat(raw, cols, "BLK"),
			Turnovers:     getFloat(raw, cols, "TOV"),
			FieldGoalPct:  getFloat(raw, cols, "FG_PCT"),
			FreeThrowPct:  getFloat(raw, cols, "FT_PCT"),
			ThreePointPct: getFloat(raw, cols, "FG3_PCT"),
			Matchup:       matchup,
			GameDate:      parseGameDate(getString(raw, cols, "GAME_DATE")),
		}
		if row.GameDate.IsZero() {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

// playerIndexEntry is one roster row from the all-players endpoint.
type playerIndexEntry struct {
	ID   int64
	Name string
}

func parsePlayerIndex(set resultSet) ([]playerIndexEntry, error) {
	cols := set.columnIndex()
	for _, required := range []string{"PERSON_ID", "DISPLAY_FIRST_LAST"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("result set %q is missing column %s", set.Name, required)
		}
	}

	out := make([]playerIndexEntry, 0, len(set.RowSet))
	for _, raw := range set.RowSet {
		id := int64(getFloat(raw, cols, "PERSON_ID"))
		name := getString(raw, cols, "DISPLAY_FIRST_LAST")
		if id <= 0 || name == "" {
			continue
		}
		out = append(out, playerIndexEntry{ID: id, Name: name})
	}
	return out, nil
}

// matchupOwnTeam extracts the leading team code from "LAL vs. BOS" or
// "LAL @ BOS".
func matchupOwnTeam(matchup string) string {
	fields := strings.Fields(matchup)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToUpper(fields[0])
}

func parseGameDate(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range []string{gameDateLayout, "2006-01-02", time.RFC3339} {
		if parsed, err := time.Parse(layout, normalizeDateCase(raw, layout)); err == nil {
			return parsed.UTC()
		}
	}
	return time.Time{}
}

// normalizeDateCase maps the provider's "JAN 02, 2006" casing onto Go's
// title-case month layout.
func normalizeDateCase(raw, layout string) string {
	if layout != gameDateLayout {
		return raw
	}
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return raw
	}
	month := fields[0]
	if len(month) >= 2 {
		fields[0] = strings.ToUpper(month[:1]) + strings.ToLower(month[1:])
	}
	return strings.Join(fields, " ")
}

func getString(row []any, cols map[string]int, name string) string {
	idx, ok := cols[name]
	if !ok || idx < 0 || idx >= len(row) {
		return ""
	}
	value, ok := row[idx].(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(value)
}

func getFloat(row []any, cols map[string]int, name string) float64 {
	idx, ok := cols[name]
	if !ok || idx < 0 || idx >= len(row) {
		return 0
	}
	switch typed := row[idx].(type) {
	case float64:
		return typed
	case float32:
		return float64(typed)
	case int:
		return float64(typed)
	case int64:
		return float64(typed)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(typed), 64)
		if err != nil {
			return 0
		}
		return parsed
	default:
		return 0
	}
}
