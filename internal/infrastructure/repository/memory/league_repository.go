package memory

import (
	"context"

	"github.com/riskibarqy/football-stats/internal/domain/league"
)

type LeagueRepository struct {
	store *Store
}

func (r *LeagueRepository) Upsert(_ context.Context, items []league.League) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, item := range items {
		idx := indexOf(r.store.data.leagues, func(l league.League) bool { return l.Slug == item.Slug })
		if idx >= 0 {
			current := &r.store.data.leagues[idx]
			current.Title = item.Title
			current.Country = item.Country
			current.ExternalID = item.ExternalID
			continue
		}
		item.ID = r.store.id()
		r.store.data.leagues = append(r.store.data.leagues, item)
	}

	return len(items), nil
}

func (r *LeagueRepository) List(_ context.Context) ([]league.League, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]league.League, 0, len(r.store.data.leagues))
	out = append(out, r.store.data.leagues...)

	return out, nil
}

func (r *LeagueRepository) Count(_ context.Context) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return len(r.store.data.leagues), nil
}

func indexOf[T any](items []T, match func(T) bool) int {
	for idx, item := range items {
		if match(item) {
			return idx
		}
	}
	return -1
}
