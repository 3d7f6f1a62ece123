package usecase

import (
	"context"

	"github.com/riskibarqy/football-stats/external/fbref"
)

// PageFetcher downloads one upstream page. Implementations hold pooled
// connections and must be closed once a run is over.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
	Close() error
}

// FetcherFactory opens a fresh fetcher for a single run.
type FetcherFactory func() (PageFetcher, error)

type PageParser interface {
	Leagues(html string) []fbref.LeagueRecord
	Teams(html string) []fbref.TeamRecord
	LeagueHistory(html string) []fbref.SeasonRecord
	Schedule(html string, leagueID int64, season string) []fbref.MatchRecord
	MatchDetails(html string, matchID int64, homeExternalID, awayExternalID string) fbref.MatchDetails
}

// Transactor runs fn inside one database transaction. Repositories called
// with the ctx passed to fn join that transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// RunObserver receives pipeline measurements, e.g. for Prometheus.
type RunObserver interface {
	ObserveUnit(kind, status string, records int, durationMs int64)
	ObserveRun(mode string, failed bool, durationMs int64)
}

type noopRunObserver struct{}

func (noopRunObserver) ObserveUnit(string, string, int, int64) {}

func (noopRunObserver) ObserveRun(string, bool, int64) {}
