package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/hoopsight/fantasy-basketball/internal/domain/stats"
	"github.com/hoopsight/fantasy-basketball/internal/usecase"
)

// Source serves stat tables from memory. It backs local development and
// tests, and is the fallback when the upstream provider is disabled.
type Source struct {
	mu     sync.RWMutex
	season stats.Table
	logs   map[string]stats.Table
}

var _ usecase.StatsProvider = (*Source)(nil)

func NewSource(season stats.Table, logs map[string]stats.Table) *Source {
	normalized := make(map[string]stats.Table, len(logs))
	for name, table := range logs {
		normalized[normalizeName(name)] = table
	}
	return &Source{
		season: season,
		logs:   normalized,
	}
}

func (s *Source) SeasonTable(_ context.Context, _ string) (stats.Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyTable(s.season), nil
}

func (s *Source) RecentGames(_ context.Context, playerName string, count int) (stats.Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	table, ok := s.logs[normalizeName(playerName)]
	if !ok {
		return stats.Table{Granularity: stats.GranularityGame}, nil
	}
	return copyTable(table.Head(count)), nil
}

// ReplaceSeason swaps the season table, e.g. after reseeding.
func (s *Source) ReplaceSeason(table stats.Table) {
	s.mu.Lock()
	s.season = table
	s.mu.Unlock()
}

func normalizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

func copyTable(t stats.Table) stats.Table {
	out := stats.Table{
		Granularity: t.Granularity,
		Rows:        make([]stats.Row, len(t.Rows)),
	}
	copy(out.Rows, t.Rows)
	return out
}
