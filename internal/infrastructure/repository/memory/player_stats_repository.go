package memory

import (
	"context"

	"github.com/riskibarqy/football-stats/internal/domain/playerstats"
)

type PlayerStatsRepository struct {
	store *Store
}

func (r *PlayerStatsRepository) Upsert(_ context.Context, items []playerstats.MatchStat) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, item := range items {
		idx := indexOf(r.store.data.stats, func(s playerstats.MatchStat) bool {
			return s.MatchID == item.MatchID && s.PlayerID == item.PlayerID
		})
		if idx >= 0 {
			item.ID = r.store.data.stats[idx].ID
			r.store.data.stats[idx] = item
			continue
		}
		item.ID = r.store.id()
		r.store.data.stats = append(r.store.data.stats, item)
	}

	return len(items), nil
}

// All returns every stored stat row.
func (r *PlayerStatsRepository) All() []playerstats.MatchStat {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]playerstats.MatchStat, 0, len(r.store.data.stats))
	return append(out, r.store.data.stats...)
}
