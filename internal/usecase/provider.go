package usecase

import (
	"context"

	"github.com/hoopsight/fantasy-basketball/internal/domain/stats"
)

// StatsProvider is the outbound port for league stat tables. An empty
// table is the "nothing found" signal; providers return errors only for
// transport failures.
type StatsProvider interface {
	// SeasonTable returns one season-aggregate row per player for the
	// given season label (e.g. "2024-25").
	SeasonTable(ctx context.Context, season string) (stats.Table, error)
	// RecentGames returns up to count game rows for the player, most
	// recent first.
	RecentGames(ctx context.Context, playerName string, count int) (stats.Table, error)
}
