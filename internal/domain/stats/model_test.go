package stats

import (
	"testing"
	"time"
)

func gameRow(player, team, matchup string, points float64, daysAgo int) Row {
	return Row{
		PlayerName: player,
		TeamCode:   team,
		Points:     points,
		Minutes:    34,
		Matchup:    matchup,
		GameDate:   time.Date(2025, time.March, 30, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -daysAgo),
	}
}

func TestMatchupContains_ExactTokenOnly(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		matchup string
		code    string
		want    bool
	}{
		{"home marker", "LAL vs. BOS", "BOS", true},
		{"away marker", "LAL @ BOS", "BOS", true},
		{"own team", "LAL @ BOS", "LAL", true},
		{"substring of longer code", "DAL vs. MIA", "AL", false},
		{"prefix of longer code", "LAL vs. MIN", "MI", false},
		{"absent team", "LAL vs. BOS", "GSW", false},
		{"empty code", "LAL vs. BOS", "", false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := MatchupContains(tc.matchup, tc.code); got != tc.want {
				t.Fatalf("MatchupContains(%q, %q) = %v, want %v", tc.matchup, tc.code, got, tc.want)
			}
		})
	}
}

func TestTable_FilterOpponent_RejectsSubstringCollisions(t *testing.T) {
	t.Parallel()

	table := Table{
		Granularity: GranularityGame,
		Rows: []Row{
			gameRow("Luka Doncic", "DAL", "DAL vs. BOS", 35, 0),
			gameRow("Luka Doncic", "DAL", "DAL @ MIA", 28, 2),
			gameRow("Luka Doncic", "DAL", "DAL vs. ORL", 31, 4),
		},
	}

	got := table.FilterOpponent("BOS")
	if got.Len() != 1 {
		t.Fatalf("expected 1 game vs BOS, got %d", got.Len())
	}
	if got.Rows[0].Points != 35 {
		t.Fatalf("wrong row selected: %+v", got.Rows[0])
	}

	// "AL" appears inside both DAL and ORL but is not a token anywhere.
	if got := table.FilterOpponent("AL"); got.Len() != 0 {
		t.Fatalf("expected no games for substring code, got %d", got.Len())
	}
}

func TestRow_Validate(t *testing.T) {
	t.Parallel()

	seasonRow := Row{
		PlayerName:   "Jayson Tatum",
		TeamCode:     "BOS",
		GamesPlayed:  74,
		Minutes:      35.7,
		Points:       26.9,
		FieldGoalPct: 0.471,
	}

	if err := seasonRow.Validate(GranularitySeason); err != nil {
		t.Fatalf("valid season row rejected: %v", err)
	}

	t.Run("negative counting stat", func(t *testing.T) {
		t.Parallel()
		row := seasonRow
		row.Points = -1
		if err := row.Validate(GranularitySeason); err == nil {
			t.Fatal("expected error for negative points")
		}
	})

	t.Run("percentage above one", func(t *testing.T) {
		t.Parallel()
		row := seasonRow
		row.FieldGoalPct = 1.2
		if err := row.Validate(GranularitySeason); err == nil {
			t.Fatal("expected error for fg_pct > 1")
		}
	})

	t.Run("lowercase team code", func(t *testing.T) {
		t.Parallel()
		row := seasonRow
		row.TeamCode = "bos"
		if err := row.Validate(GranularitySeason); err == nil {
			t.Fatal("expected error for lowercase team code")
		}
	})

	t.Run("season row with game date", func(t *testing.T) {
		t.Parallel()
		row := seasonRow
		row.GameDate = time.Now()
		if err := row.Validate(GranularitySeason); err == nil {
			t.Fatal("expected error for season row carrying a game date")
		}
	})

	t.Run("game row without date", func(t *testing.T) {
		t.Parallel()
		row := seasonRow
		row.GamesPlayed = 0
		if err := row.Validate(GranularityGame); err == nil {
			t.Fatal("expected error for game row without a date")
		}
	})

	t.Run("zero minutes game row is legal", func(t *testing.T) {
		t.Parallel()
		row := gameRow("Bench Player", "BOS", "BOS vs. NYK", 0, 1)
		row.Minutes = 0
		if err := row.Validate(GranularityGame); err != nil {
			t.Fatalf("zero-minute game row rejected: %v", err)
		}
	})
}

func TestTable_Head(t *testing.T) {
	t.Parallel()

	table := Table{
		Granularity: GranularityGame,
		Rows: []Row{
			gameRow("LeBron James", "LAL", "LAL vs. BOS", 30, 0),
			gameRow("LeBron James", "LAL", "LAL @ GSW", 25, 2),
			gameRow("LeBron James", "LAL", "LAL vs. PHX", 28, 4),
		},
	}

	if got := table.Head(2).Len(); got != 2 {
		t.Fatalf("Head(2) length = %d, want 2", got)
	}
	if got := table.Head(10).Len(); got != 3 {
		t.Fatalf("Head(10) length = %d, want 3", got)
	}
	if got := table.Head(-1).Len(); got != 0 {
		t.Fatalf("Head(-1) length = %d, want 0", got)
	}
	if table.Head(2).Rows[0].Points != 30 {
		t.Fatal("Head must preserve most-recent-first order")
	}
}
