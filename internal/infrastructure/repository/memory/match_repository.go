package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"

	"github.com/riskibarqy/football-stats/internal/domain/match"
	"github.com/riskibarqy/football-stats/internal/domain/team"
)

type MatchRepository struct {
	store *Store
}

// Upsert refreshes everything except DetailsParsed, which only
// MarkDetailsParsed changes.
func (r *MatchRepository) Upsert(_ context.Context, items []match.Match) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	now := r.store.now()
	for _, item := range items {
		idx := indexOf(r.store.data.matches, func(m match.Match) bool { return m.ExternalID == item.ExternalID })
		if idx >= 0 {
			current := &r.store.data.matches[idx]
			current.Date = item.Date
			current.Season = item.Season
			current.HomeScore = item.HomeScore
			current.AwayScore = item.AwayScore
			current.HomeXG = item.HomeXG
			current.AwayXG = item.AwayXG
			current.IsFinished = item.IsFinished
			current.UpdatedAt = now
			continue
		}
		item.ID = r.store.id()
		item.DetailsParsed = false
		item.CreatedAt = now
		item.UpdatedAt = now
		r.store.data.matches = append(r.store.data.matches, item)
	}

	return len(items), nil
}

func (r *MatchRepository) ListPendingDetails(_ context.Context, limit int, excludeIDs []int64) ([]match.PendingDetail, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	if limit <= 0 {
		return []match.PendingDetail{}, nil
	}

	pending := make([]match.Match, 0)
	for _, item := range r.store.data.matches {
		if !item.IsFinished || item.DetailsParsed || slices.Contains(excludeIDs, item.ID) {
			continue
		}
		pending = append(pending, item)
	}
	sort.SliceStable(pending, func(i, j int) bool {
		if pending[i].Date.Equal(pending[j].Date) {
			return pending[i].ID < pending[j].ID
		}
		return pending[i].Date.Before(pending[j].Date)
	})

	out := make([]match.PendingDetail, 0, limit)
	for _, item := range page(pending, 0, limit) {
		home, homeOK := r.teamByID(item.HomeTeamID)
		away, awayOK := r.teamByID(item.AwayTeamID)
		if !homeOK || !awayOK {
			continue
		}
		out = append(out, match.PendingDetail{
			ID:                 item.ID,
			ExternalID:         item.ExternalID,
			HomeTeamID:         item.HomeTeamID,
			AwayTeamID:         item.AwayTeamID,
			HomeTeamExternalID: home.ExternalID,
			AwayTeamExternalID: away.ExternalID,
		})
	}

	return out, nil
}

func (r *MatchRepository) MarkDetailsParsed(_ context.Context, matchID int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	idx := indexOf(r.store.data.matches, func(m match.Match) bool { return m.ID == matchID })
	if idx < 0 {
		return fmt.Errorf("match id=%d not found", matchID)
	}
	r.store.data.matches[idx].DetailsParsed = true
	r.store.data.matches[idx].UpdatedAt = r.store.now()

	return nil
}

func (r *MatchRepository) ListFinishedByTeam(_ context.Context, teamID int64, offset, limit int) ([]match.TeamMatch, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	finished := make([]match.Match, 0)
	for _, item := range r.store.data.matches {
		if item.IsFinished && (item.HomeTeamID == teamID || item.AwayTeamID == teamID) {
			finished = append(finished, item)
		}
	}
	sort.SliceStable(finished, func(i, j int) bool {
		if finished[i].Date.Equal(finished[j].Date) {
			return finished[i].ID > finished[j].ID
		}
		return finished[i].Date.After(finished[j].Date)
	})

	items := page(finished, offset, limit)
	out := make([]match.TeamMatch, 0, len(items))
	for _, item := range items {
		home, _ := r.teamByID(item.HomeTeamID)
		away, _ := r.teamByID(item.AwayTeamID)
		out = append(out, match.TeamMatch{
			ID:           item.ID,
			Date:         item.Date,
			Season:       item.Season,
			HomeTeamName: home.Title,
			AwayTeamName: away.Title,
			HomeScore:    item.HomeScore,
			AwayScore:    item.AwayScore,
			HomeXG:       item.HomeXG,
			AwayXG:       item.AwayXG,
			IsFinished:   item.IsFinished,
		})
	}

	return out, nil
}

func (r *MatchRepository) CountPendingDetails(_ context.Context) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	count := 0
	for _, item := range r.store.data.matches {
		if item.IsFinished && !item.DetailsParsed {
			count++
		}
	}

	return count, nil
}

// Get returns a stored match by external id.
func (r *MatchRepository) Get(externalID string) (match.Match, bool) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	idx := indexOf(r.store.data.matches, func(m match.Match) bool { return m.ExternalID == externalID })
	if idx < 0 {
		return match.Match{}, false
	}
	return r.store.data.matches[idx], true
}

func (r *MatchRepository) teamByID(id int64) (team.Team, bool) {
	idx := indexOf(r.store.data.teams, func(t team.Team) bool { return t.ID == id })
	if idx < 0 {
		return team.Team{}, false
	}
	return r.store.data.teams[idx], true
}
