package cache

import (
	"context"
	"fmt"
	"slices"

	"github.com/riskibarqy/football-stats/internal/domain/league"
	"github.com/riskibarqy/football-stats/internal/domain/match"
	"github.com/riskibarqy/football-stats/internal/domain/team"
	basecache "github.com/riskibarqy/football-stats/internal/platform/cache"
)

// Read-side decorators for the API services. Ingestion never reads through
// them; it writes through the plain repositories and Transactor clears the
// cache after commit. Writes made through a decorator still drop the keys
// they can affect.
const (
	leaguePrefix      = "league:"
	teamPrefix        = "team:"
	teamPlayersPrefix = "team:players:"
	matchPrefix       = "match:"
)

type LeagueRepository struct {
	next  league.Repository
	cache *basecache.Store
}

func NewLeagueRepository(next league.Repository, cache *basecache.Store) *LeagueRepository {
	return &LeagueRepository{next: next, cache: cache}
}

func (r *LeagueRepository) Upsert(ctx context.Context, items []league.League) (int, error) {
	n, err := r.next.Upsert(ctx, items)
	if n > 0 {
		r.cache.DeletePrefix(ctx, leaguePrefix)
	}
	return n, err
}

func (r *LeagueRepository) List(ctx context.Context) ([]league.League, error) {
	items, err := basecache.GetOrLoad(ctx, r.cache, leaguePrefix+"list", r.next.List)
	return slices.Clone(items), err
}

func (r *LeagueRepository) Count(ctx context.Context) (int, error) {
	return r.next.Count(ctx)
}

type TeamRepository struct {
	next  team.Repository
	cache *basecache.Store
}

func NewTeamRepository(next team.Repository, cache *basecache.Store) *TeamRepository {
	return &TeamRepository{next: next, cache: cache}
}

// Team names appear in match listings, so team writes drop both.
func (r *TeamRepository) Upsert(ctx context.Context, items []team.Team) (int, error) {
	n, err := r.next.Upsert(ctx, items)
	if n > 0 {
		r.cache.DeletePrefix(ctx, teamPrefix, matchPrefix)
	}
	return n, err
}

func (r *TeamRepository) List(ctx context.Context, offset, limit int) ([]team.Team, error) {
	key := fmt.Sprintf("%slist:%d:%d", teamPrefix, offset, limit)
	items, err := basecache.GetOrLoad(ctx, r.cache, key, func(ctx context.Context) ([]team.Team, error) {
		return r.next.List(ctx, offset, limit)
	})
	return slices.Clone(items), err
}

type cachedTeam struct {
	value  team.Team
	exists bool
}

func (r *TeamRepository) GetByTitle(ctx context.Context, title string) (team.Team, bool, error) {
	cached, err := basecache.GetOrLoad(ctx, r.cache, teamPrefix+"title:"+title, func(ctx context.Context) (cachedTeam, error) {
		item, exists, err := r.next.GetByTitle(ctx, title)
		if err != nil {
			return cachedTeam{}, err
		}
		return cachedTeam{value: item, exists: exists}, nil
	})
	if err != nil {
		return team.Team{}, false, err
	}
	return cached.value, cached.exists, nil
}

func (r *TeamRepository) ExternalIDMap(ctx context.Context) (map[string]int64, error) {
	return r.next.ExternalIDMap(ctx)
}

func (r *TeamRepository) ListPlayers(ctx context.Context, teamID int64) ([]team.Player, error) {
	key := fmt.Sprintf("%s%d", teamPlayersPrefix, teamID)
	items, err := basecache.GetOrLoad(ctx, r.cache, key, func(ctx context.Context) ([]team.Player, error) {
		return r.next.ListPlayers(ctx, teamID)
	})
	return slices.Clone(items), err
}

type MatchRepository struct {
	next  match.Repository
	cache *basecache.Store
}

func NewMatchRepository(next match.Repository, cache *basecache.Store) *MatchRepository {
	return &MatchRepository{next: next, cache: cache}
}

func (r *MatchRepository) Upsert(ctx context.Context, items []match.Match) (int, error) {
	n, err := r.next.Upsert(ctx, items)
	if n > 0 {
		r.cache.DeletePrefix(ctx, matchPrefix)
	}
	return n, err
}

func (r *MatchRepository) ListPendingDetails(ctx context.Context, limit int, excludeIDs []int64) ([]match.PendingDetail, error) {
	return r.next.ListPendingDetails(ctx, limit, excludeIDs)
}

func (r *MatchRepository) MarkDetailsParsed(ctx context.Context, matchID int64) error {
	return r.next.MarkDetailsParsed(ctx, matchID)
}

func (r *MatchRepository) ListFinishedByTeam(ctx context.Context, teamID int64, offset, limit int) ([]match.TeamMatch, error) {
	key := fmt.Sprintf("%steam:%d:%d:%d", matchPrefix, teamID, offset, limit)
	items, err := basecache.GetOrLoad(ctx, r.cache, key, func(ctx context.Context) ([]match.TeamMatch, error) {
		return r.next.ListFinishedByTeam(ctx, teamID, offset, limit)
	})
	return slices.Clone(items), err
}

func (r *MatchRepository) CountPendingDetails(ctx context.Context) (int, error) {
	return r.next.CountPendingDetails(ctx)
}
