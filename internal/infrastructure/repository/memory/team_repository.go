package memory

import (
	"context"
	"sort"

	"github.com/riskibarqy/football-stats/internal/domain/player"
	"github.com/riskibarqy/football-stats/internal/domain/team"
)

type TeamRepository struct {
	store *Store
}

func (r *TeamRepository) Upsert(_ context.Context, items []team.Team) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	now := r.store.now()
	for _, item := range items {
		item.LastUpdated = now
		idx := indexOf(r.store.data.teams, func(t team.Team) bool { return t.ExternalID == item.ExternalID })
		if idx >= 0 {
			current := &r.store.data.teams[idx]
			current.Title = item.Title
			current.LogoURL = item.LogoURL
			current.LastUpdated = now
			continue
		}
		item.ID = r.store.id()
		r.store.data.teams = append(r.store.data.teams, item)
	}

	return len(items), nil
}

func (r *TeamRepository) List(_ context.Context, offset, limit int) ([]team.Team, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	sorted := make([]team.Team, 0, len(r.store.data.teams))
	sorted = append(sorted, r.store.data.teams...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Title == sorted[j].Title {
			return sorted[i].ID < sorted[j].ID
		}
		return sorted[i].Title < sorted[j].Title
	})

	return page(sorted, offset, limit), nil
}

func (r *TeamRepository) GetByTitle(_ context.Context, title string) (team.Team, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	idx := indexOf(r.store.data.teams, func(t team.Team) bool { return t.Title == title })
	if idx < 0 {
		return team.Team{}, false, nil
	}

	return r.store.data.teams[idx], true, nil
}

func (r *TeamRepository) ExternalIDMap(_ context.Context) (map[string]int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make(map[string]int64, len(r.store.data.teams))
	for _, item := range r.store.data.teams {
		out[item.ExternalID] = item.ID
	}

	return out, nil
}

func (r *TeamRepository) ListPlayers(_ context.Context, teamID int64) ([]team.Player, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	seen := make(map[int64]struct{})
	out := make([]team.Player, 0)
	for _, stat := range r.store.data.stats {
		if stat.TeamID != teamID {
			continue
		}
		if _, ok := seen[stat.PlayerID]; ok {
			continue
		}
		seen[stat.PlayerID] = struct{}{}

		idx := indexOf(r.store.data.players, func(p player.Player) bool { return p.ID == stat.PlayerID })
		if idx < 0 {
			continue
		}
		p := r.store.data.players[idx]
		out = append(out, team.Player{ID: p.ID, Name: p.Name, Country: p.Country})
	}

	return out, nil
}

func page[T any](items []T, offset, limit int) []T {
	if offset >= len(items) || limit <= 0 {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
