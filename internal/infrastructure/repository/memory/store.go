package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/riskibarqy/football-stats/internal/domain/league"
	"github.com/riskibarqy/football-stats/internal/domain/match"
	"github.com/riskibarqy/football-stats/internal/domain/player"
	"github.com/riskibarqy/football-stats/internal/domain/playerstats"
	"github.com/riskibarqy/football-stats/internal/domain/team"
)

// Store keeps every entity in process memory. It mirrors the Postgres
// upsert keys so pipeline tests can run without a database.
type Store struct {
	mu     sync.RWMutex
	nextID int64
	data   storeData
	now    func() time.Time
}

type storeData struct {
	leagues []league.League
	teams   []team.Team
	matches []match.Match
	players []player.Player
	stats   []playerstats.MatchStat
}

func NewStore() *Store {
	return &Store{now: time.Now}
}

func (s *Store) Leagues() *LeagueRepository {
	return &LeagueRepository{store: s}
}

func (s *Store) Teams() *TeamRepository {
	return &TeamRepository{store: s}
}

func (s *Store) Matches() *MatchRepository {
	return &MatchRepository{store: s}
}

func (s *Store) Players() *PlayerRepository {
	return &PlayerRepository{store: s}
}

func (s *Store) PlayerStats() *PlayerStatsRepository {
	return &PlayerStatsRepository{store: s}
}

// WithinTx restores the previous state when fn fails. Concurrent writers are
// not isolated from each other.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	s.mu.RLock()
	snapshot := s.data.clone()
	s.mu.RUnlock()

	if err := fn(ctx); err != nil {
		s.mu.Lock()
		s.data = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

func (d storeData) clone() storeData {
	return storeData{
		leagues: slices.Clone(d.leagues),
		teams:   slices.Clone(d.teams),
		matches: slices.Clone(d.matches),
		players: slices.Clone(d.players),
		stats:   slices.Clone(d.stats),
	}
}
