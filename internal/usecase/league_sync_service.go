package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/football-stats/external/fbref"
	"github.com/riskibarqy/football-stats/internal/domain/league"
	"github.com/riskibarqy/football-stats/internal/platform/logging"
)

type LeagueSyncService struct {
	fetcher PageFetcher
	deps    SyncDeps
	units   unitRunner
	logger  *logging.Logger
}

func NewLeagueSyncService(fetcher PageFetcher, deps SyncDeps) *LeagueSyncService {
	deps = deps.normalized()
	return &LeagueSyncService{
		fetcher: fetcher,
		deps:    deps,
		units:   deps.runner(),
		logger:  deps.Logger,
	}
}

// UpdateLeagues refreshes the league table from the competitions index.
func (s *LeagueSyncService) UpdateLeagues(ctx context.Context) UnitResult {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueSyncService.UpdateLeagues")
	defer span.End()

	return s.units.run(ctx, UnitLeagues, "competitions", func(ctx context.Context) (int, error) {
		html, err := s.fetcher.Fetch(ctx, s.deps.URLs.Leagues())
		if err != nil {
			return 0, fmt.Errorf("fetch competitions: %w", err)
		}

		records := s.deps.Parser.Leagues(html)
		items := make([]league.League, 0, len(records))
		for _, record := range records {
			item := league.League{
				Title:      strings.TrimSpace(record.Title),
				Country:    strings.TrimSpace(record.Country),
				Slug:       strings.TrimSpace(record.Slug),
				ExternalID: strings.TrimSpace(record.ExternalID),
			}
			if item.Country == "" {
				item.Country = league.DefaultCountry
			}
			if err := item.Validate(); err != nil {
				s.logger.DebugContext(ctx, "drop invalid league record", "slug", record.Slug, "error", err)
				continue
			}
			items = append(items, item)
		}
		if len(items) == 0 {
			return 0, skipUnit("no leagues parsed")
		}

		var affected int
		err = s.deps.Tx.WithinTx(ctx, func(ctx context.Context) error {
			n, err := s.deps.Leagues.Upsert(ctx, items)
			if err != nil {
				return fmt.Errorf("upsert leagues: %w", err)
			}
			affected = n
			return nil
		})
		return affected, err
	})
}

// SeasonHistory returns the newest limit seasons listed on the league's
// history page, newest first.
func (s *LeagueSyncService) SeasonHistory(ctx context.Context, item league.League, limit int) ([]fbref.SeasonRecord, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueSyncService.SeasonHistory")
	defer span.End()

	if strings.TrimSpace(item.ExternalID) == "" {
		return nil, fmt.Errorf("%w: league=%s has no external id", ErrInvalidInput, item.Slug)
	}
	if limit <= 0 {
		return []fbref.SeasonRecord{}, nil
	}

	html, err := s.fetcher.Fetch(ctx, s.deps.URLs.History(item.ExternalID, item.Slug))
	if err != nil {
		return nil, fmt.Errorf("fetch season history league=%s: %w", item.Slug, err)
	}

	seasons := s.deps.Parser.LeagueHistory(html)
	if len(seasons) > limit {
		seasons = seasons[:limit]
	}
	return seasons, nil
}
