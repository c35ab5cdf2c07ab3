package usecase

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/sourcegraph/conc"

	"github.com/hoopsight/fantasy-basketball/internal/domain/stats"
	"github.com/hoopsight/fantasy-basketball/internal/domain/team"
	"github.com/hoopsight/fantasy-basketball/internal/platform/logging"
)

const (
	defaultLeadersLimit = 20
	maxLeadersLimit     = 100
	overviewLimit       = 5
)

// StatsService serves read-side views over the season table: single
// player lines, league leaders, and per-team defensive rankings.
type StatsService struct {
	provider StatsProvider
	teams    team.Directory
	season   string
	logger   *logging.Logger
}

func NewStatsService(provider StatsProvider, teams team.Directory, season string, logger *logging.Logger) *StatsService {
	if logger == nil {
		logger = logging.Default()
	}
	return &StatsService{
		provider: provider,
		teams:    teams,
		season:   season,
		logger:   logger,
	}
}

// PlayerSeasonStats returns the player's season-aggregate row.
func (s *StatsService) PlayerSeasonStats(ctx context.Context, playerName string) (stats.Row, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.PlayerSeasonStats")
	defer span.End()

	name, err := normalizePlayerName(playerName)
	if err != nil {
		return stats.Row{}, err
	}

	table, err := s.seasonTable(ctx)
	if err != nil {
		return stats.Row{}, err
	}

	matched := table.FilterPlayer(name)
	if matched.Empty() {
		return stats.Row{}, fmt.Errorf("%w: player=%s", ErrNotFound, name)
	}

	return matched.Rows[0], nil
}

// LeaderEntry is one row of a league-leaders board.
type LeaderEntry struct {
	Rank       int     `json:"rank"`
	PlayerName string  `json:"player"`
	TeamCode   string  `json:"team"`
	Value      float64 `json:"value"`
}

// LeagueLeaders ranks players by one stat category, descending, with
// player name as the deterministic tie-breaker.
func (s *StatsService) LeagueLeaders(ctx context.Context, category string, limit int) ([]LeaderEntry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.LeagueLeaders")
	defer span.End()

	column, err := leaderColumn(category)
	if err != nil {
		return nil, err
	}
	limit, err = normalizeLeadersLimit(limit)
	if err != nil {
		return nil, err
	}

	table, err := s.seasonTable(ctx)
	if err != nil {
		return nil, err
	}

	return computeLeaders(table, column, limit), nil
}

// TeamDefenseRanking aggregates one team's defensive profile. Teams
// allowing fewer points through their roster average rank first.
type TeamDefenseRanking struct {
	Rank        int     `json:"rank"`
	TeamCode    string  `json:"team"`
	TeamName    string  `json:"team_name"`
	AvgPoints   float64 `json:"avg_points"`
	AvgRebounds float64 `json:"avg_rebounds"`
	AvgAssists  float64 `json:"avg_assists"`
	AvgSteals   float64 `json:"avg_steals"`
	AvgBlocks   float64 `json:"avg_blocks"`
	NumPlayers  int     `json:"num_players"`
}

// TeamDefenseRankings groups the season table by team and sorts by
// roster scoring average ascending.
func (s *StatsService) TeamDefenseRankings(ctx context.Context) ([]TeamDefenseRanking, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.TeamDefenseRankings")
	defer span.End()

	table, err := s.seasonTable(ctx)
	if err != nil {
		return nil, err
	}

	codes := make([]string, 0, 30)
	seen := make(map[string]struct{}, 30)
	for _, row := range table.Rows {
		if _, ok := seen[row.TeamCode]; ok {
			continue
		}
		seen[row.TeamCode] = struct{}{}
		codes = append(codes, row.TeamCode)
	}

	out := make([]TeamDefenseRanking, 0, len(codes))
	for _, code := range codes {
		roster := table.FilterTeam(code)
		out = append(out, TeamDefenseRanking{
			TeamCode:    code,
			TeamName:    s.teams.Name(code),
			AvgPoints:   round1(stats.Mean(roster, func(r stats.Row) float64 { return r.Points })),
			AvgRebounds: round1(stats.Mean(roster, func(r stats.Row) float64 { return r.Rebounds })),
			AvgAssists:  round1(stats.Mean(roster, func(r stats.Row) float64 { return r.Assists })),
			AvgSteals:   round1(stats.Mean(roster, func(r stats.Row) float64 { return r.Steals })),
			AvgBlocks:   round1(stats.Mean(roster, func(r stats.Row) float64 { return r.Blocks })),
			NumPlayers:  roster.Len(),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].AvgPoints != out[j].AvgPoints {
			return out[i].AvgPoints < out[j].AvgPoints
		}
		return out[i].TeamCode < out[j].TeamCode
	})
	for i := range out {
		out[i].Rank = i + 1
	}

	return out, nil
}

// LeagueOverview bundles the headline leader boards. The boards are
// computed concurrently over one immutable snapshot.
type LeagueOverview struct {
	Season   string        `json:"season"`
	Points   []LeaderEntry `json:"points"`
	Rebounds []LeaderEntry `json:"rebounds"`
	Assists  []LeaderEntry `json:"assists"`
}

func (s *StatsService) LeagueOverview(ctx context.Context) (LeagueOverview, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.LeagueOverview")
	defer span.End()

	table, err := s.seasonTable(ctx)
	if err != nil {
		return LeagueOverview{}, err
	}

	overview := LeagueOverview{Season: s.season}

	var wg conc.WaitGroup
	wg.Go(func() {
		overview.Points = computeLeaders(table, func(r stats.Row) float64 { return r.Points }, overviewLimit)
	})
	wg.Go(func() {
		overview.Rebounds = computeLeaders(table, func(r stats.Row) float64 { return r.Rebounds }, overviewLimit)
	})
	wg.Go(func() {
		overview.Assists = computeLeaders(table, func(r stats.Row) float64 { return r.Assists }, overviewLimit)
	})
	wg.Wait()

	return overview, nil
}

func (s *StatsService) seasonTable(ctx context.Context) (stats.Table, error) {
	if s.provider == nil {
		return stats.Table{}, fmt.Errorf("%w: stats provider is not configured", ErrDependencyUnavailable)
	}

	table, err := s.provider.SeasonTable(ctx, s.season)
	if err != nil {
		s.logger.WarnContext(ctx, "fetch season table failed", "season", s.season, "error", err)
		return stats.Table{}, fmt.Errorf("%w: fetch season table: %v", ErrDependencyUnavailable, err)
	}
	if table.Empty() {
		return stats.Table{}, fmt.Errorf("%w: season table for %s has no rows", ErrNotFound, s.season)
	}

	return table, nil
}

func computeLeaders(table stats.Table, column stats.Column, limit int) []LeaderEntry {
	rows := append([]stats.Row(nil), table.Rows...)
	sort.SliceStable(rows, func(i, j int) bool {
		left, right := column(rows[i]), column(rows[j])
		if left != right {
			return left > right
		}
		return rows[i].PlayerName < rows[j].PlayerName
	})

	if limit > len(rows) {
		limit = len(rows)
	}
	out := make([]LeaderEntry, 0, limit)
	for i := 0; i < limit; i++ {
		out = append(out, LeaderEntry{
			Rank:       i + 1,
			PlayerName: rows[i].PlayerName,
			TeamCode:   rows[i].TeamCode,
			Value:      column(rows[i]),
		})
	}
	return out
}

func leaderColumn(category string) (stats.Column, error) {
	switch strings.ToLower(strings.TrimSpace(category)) {
	case "pts", "points":
		return func(r stats.Row) float64 { return r.Points }, nil
	case "reb", "rebounds":
		return func(r stats.Row) float64 { return r.Rebounds }, nil
	case "ast", "assists":
		return func(r stats.Row) float64 { return r.Assists }, nil
	case "stl", "steals":
		return func(r stats.Row) float64 { return r.Steals }, nil
	case "blk", "blocks":
		return func(r stats.Row) float64 { return r.Blocks }, nil
	case "min", "minutes":
		return func(r stats.Row) float64 { return r.Minutes }, nil
	default:
		return nil, fmt.Errorf("%w: unknown leaders category %q", ErrInvalidInput, category)
	}
}

func normalizeLeadersLimit(limit int) (int, error) {
	if limit == 0 {
		return defaultLeadersLimit, nil
	}
	if limit < 1 || limit > maxLeadersLimit {
		return 0, fmt.Errorf("%w: leaders limit must be within [1,%d], got %d", ErrInvalidInput, maxLeadersLimit, limit)
	}
	return limit, nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
