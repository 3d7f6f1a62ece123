package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/football-stats/internal/domain/league"
	"github.com/riskibarqy/football-stats/internal/domain/team"
)

type TeamSyncService struct {
	fetcher PageFetcher
	deps    SyncDeps
	units   unitRunner
}

func NewTeamSyncService(fetcher PageFetcher, deps SyncDeps) *TeamSyncService {
	deps = deps.normalized()
	return &TeamSyncService{
		fetcher: fetcher,
		deps:    deps,
		units:   deps.runner(),
	}
}

// UpdateTeams ingests the teams of every league, one unit per league.
// seasonURLs maps league ids to a season stats page; leagues without an entry
// use their current season page.
func (s *TeamSyncService) UpdateTeams(ctx context.Context, leagues []league.League, seasonURLs map[int64]string) []UnitResult {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamSyncService.UpdateTeams")
	defer span.End()

	results := make([]UnitResult, 0, len(leagues))
	for _, item := range leagues {
		url := strings.TrimSpace(seasonURLs[item.ID])
		target := item.Slug
		if url != "" {
			target = url
		}

		results = append(results, s.units.run(ctx, UnitTeams, target, func(ctx context.Context) (int, error) {
			if url == "" {
				if strings.TrimSpace(item.ExternalID) == "" {
					return 0, skipUnit("league %s has no external id", item.Slug)
				}
				url = s.deps.URLs.Season(item.ExternalID, item.Slug)
			}
			return s.ingestTeams(ctx, url)
		}))
	}

	return results
}

func (s *TeamSyncService) ingestTeams(ctx context.Context, url string) (int, error) {
	html, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return 0, fmt.Errorf("fetch teams: %w", err)
	}

	records := s.deps.Parser.Teams(html)
	items := make([]team.Team, 0, len(records))
	for _, record := range records {
		item := team.Team{
			Title:      strings.TrimSpace(record.Title),
			ExternalID: strings.TrimSpace(record.ExternalID),
			LogoURL:    strings.TrimSpace(record.LogoURL),
		}
		if err := item.Validate(); err != nil {
			continue
		}
		items = append(items, item)
	}
	if len(items) == 0 {
		return 0, skipUnit("no teams parsed")
	}

	var affected int
	err = s.deps.Tx.WithinTx(ctx, func(ctx context.Context) error {
		n, err := s.deps.Teams.Upsert(ctx, items)
		if err != nil {
			return fmt.Errorf("upsert teams: %w", err)
		}
		affected = n
		return nil
	})
	return affected, err
}
