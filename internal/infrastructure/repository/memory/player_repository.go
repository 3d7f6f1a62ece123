package memory

import (
	"context"

	"github.com/riskibarqy/football-stats/internal/domain/player"
)

type PlayerRepository struct {
	store *Store
}

func (r *PlayerRepository) Upsert(_ context.Context, items []player.Player) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, item := range items {
		idx := indexOf(r.store.data.players, func(p player.Player) bool { return p.ExternalID == item.ExternalID })
		if idx >= 0 {
			current := &r.store.data.players[idx]
			current.Name = item.Name
			current.Country = item.Country
			continue
		}
		item.ID = r.store.id()
		r.store.data.players = append(r.store.data.players, item)
	}

	return len(items), nil
}

func (r *PlayerRepository) ExternalIDMap(_ context.Context, externalIDs []string) (map[string]int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	wanted := make(map[string]struct{}, len(externalIDs))
	for _, id := range externalIDs {
		wanted[id] = struct{}{}
	}

	out := make(map[string]int64, len(externalIDs))
	for _, item := range r.store.data.players {
		if _, ok := wanted[item.ExternalID]; ok {
			out[item.ExternalID] = item.ID
		}
	}

	return out, nil
}

// All returns every stored player.
func (r *PlayerRepository) All() []player.Player {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]player.Player, 0, len(r.store.data.players))
	return append(out, r.store.data.players...)
}
