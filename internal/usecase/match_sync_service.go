package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/football-stats/external/fbref"
	"github.com/riskibarqy/football-stats/internal/domain/league"
	"github.com/riskibarqy/football-stats/internal/domain/match"
	"github.com/riskibarqy/football-stats/internal/domain/player"
	"github.com/riskibarqy/football-stats/internal/domain/playerstats"
	"github.com/riskibarqy/football-stats/internal/platform/logging"
)

// SeasonTarget selects the season a league's schedule is read from. An empty
// URL means the league's current schedule page.
type SeasonTarget struct {
	URL   string
	Label string
}

type MatchSyncService struct {
	fetcher PageFetcher
	deps    SyncDeps
	units   unitRunner
	logger  *logging.Logger
}

func NewMatchSyncService(fetcher PageFetcher, deps SyncDeps) *MatchSyncService {
	deps = deps.normalized()
	return &MatchSyncService{
		fetcher: fetcher,
		deps:    deps,
		units:   deps.runner(),
		logger:  deps.Logger,
	}
}

// UpdateMatches ingests one schedule per league. Rows whose home or away team
// is not stored yet are dropped.
func (s *MatchSyncService) UpdateMatches(ctx context.Context, leagues []league.League, seasons map[int64]SeasonTarget) []UnitResult {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchSyncService.UpdateMatches")
	defer span.End()

	results := make([]UnitResult, 0, len(leagues))
	teamIDs, teamErr := s.deps.Teams.ExternalIDMap(ctx)

	for _, item := range leagues {
		target, ok := seasons[item.ID]
		unitTarget := item.Slug
		if ok && target.Label != "" {
			unitTarget = item.Slug + " " + target.Label
		}

		results = append(results, s.units.run(ctx, UnitMatches, unitTarget, func(ctx context.Context) (int, error) {
			if teamErr != nil {
				return 0, fmt.Errorf("load team ids: %w", teamErr)
			}
			if !ok || strings.TrimSpace(target.Label) == "" {
				return 0, skipUnit("no season selected for league %s", item.Slug)
			}
			if strings.TrimSpace(item.ExternalID) == "" {
				return 0, skipUnit("league %s has no external id", item.Slug)
			}

			url := s.deps.URLs.Schedule(item.ExternalID, item.Slug)
			if target.URL != "" {
				url = s.deps.URLs.SeasonSchedule(target.URL, item.ExternalID)
			}
			return s.ingestSchedule(ctx, item, url, target.Label, teamIDs)
		}))
	}

	return results
}

func (s *MatchSyncService) ingestSchedule(ctx context.Context, item league.League, url, season string, teamIDs map[string]int64) (int, error) {
	html, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return 0, fmt.Errorf("fetch schedule: %w", err)
	}

	records := dedupeMatchRecords(s.deps.Parser.Schedule(html, item.ID, season))
	if len(records) == 0 {
		return 0, skipUnit("no matches parsed")
	}

	items := make([]match.Match, 0, len(records))
	unresolved := 0
	for _, record := range records {
		homeID, homeOK := teamIDs[record.HomeTeamExternalID]
		awayID, awayOK := teamIDs[record.AwayTeamExternalID]
		if !homeOK || !awayOK {
			unresolved++
			continue
		}

		m := match.Match{
			ExternalID: record.ExternalID,
			Date:       record.Date,
			Season:     record.Season,
			LeagueID:   record.LeagueID,
			HomeTeamID: homeID,
			AwayTeamID: awayID,
			HomeScore:  record.HomeScore,
			AwayScore:  record.AwayScore,
			HomeXG:     record.HomeXG,
			AwayXG:     record.AwayXG,
			IsFinished: record.IsFinished,
		}
		if err := m.Validate(); err != nil {
			s.logger.DebugContext(ctx, "drop invalid match record", "match", record.ExternalID, "error", err)
			continue
		}
		items = append(items, m)
	}
	if unresolved > 0 {
		s.logger.InfoContext(ctx, "dropped matches with unknown teams", "league", item.Slug, "season", season, "count", unresolved)
	}
	if len(items) == 0 {
		return 0, skipUnit("no matches with known teams")
	}

	var affected int
	err = s.deps.Tx.WithinTx(ctx, func(ctx context.Context) error {
		n, err := s.deps.Matches.Upsert(ctx, items)
		if err != nil {
			return fmt.Errorf("upsert matches: %w", err)
		}
		affected = n
		return nil
	})
	return affected, err
}

// UpdateDetails stores player stats for up to limit finished matches that are
// not parsed yet, skipping the ids in exclude. One unit per match; a match is
// marked parsed in the same transaction that stored its stats.
func (s *MatchSyncService) UpdateDetails(ctx context.Context, limit int, exclude []int64) []UnitResult {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchSyncService.UpdateDetails")
	defer span.End()

	if limit <= 0 {
		return []UnitResult{}
	}

	pending, err := s.deps.Matches.ListPendingDetails(ctx, limit, exclude)
	if err != nil {
		return []UnitResult{s.units.run(ctx, UnitDetails, "pending", func(context.Context) (int, error) {
			return 0, fmt.Errorf("list pending matches: %w", err)
		})}
	}

	results := make([]UnitResult, 0, len(pending))
	for _, item := range pending {
		result := s.units.run(ctx, UnitDetails, item.ExternalID, func(ctx context.Context) (int, error) {
			return s.ingestDetails(ctx, item)
		})
		result.MatchID = item.ID
		results = append(results, result)
	}

	return results
}

func (s *MatchSyncService) ingestDetails(ctx context.Context, item match.PendingDetail) (int, error) {
	html, err := s.fetcher.Fetch(ctx, s.deps.URLs.Match(item.ExternalID))
	if err != nil {
		return 0, fmt.Errorf("fetch match: %w", err)
	}

	details := s.deps.Parser.MatchDetails(html, item.ID, item.HomeTeamExternalID, item.AwayTeamExternalID)
	if len(details.Stats) == 0 {
		return 0, skipUnit("no player stats parsed")
	}

	players := make([]player.Player, 0, len(details.Players))
	externalIDs := make([]string, 0, len(details.Players))
	for _, record := range details.Players {
		p := player.Player{
			Name:       strings.TrimSpace(record.Name),
			ExternalID: strings.TrimSpace(record.ExternalID),
			Country:    strings.TrimSpace(record.Country),
		}
		if err := p.Validate(); err != nil {
			continue
		}
		players = append(players, p)
		externalIDs = append(externalIDs, p.ExternalID)
	}
	if len(players) == 0 {
		return 0, skipUnit("no players parsed")
	}

	var affected int
	err = s.deps.Tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.deps.Players.Upsert(ctx, players); err != nil {
			return fmt.Errorf("upsert players: %w", err)
		}

		// Upsert then select: a concurrent writer could change the mapping
		// between the two statements. Runs are single-writer.
		playerIDs, err := s.deps.Players.ExternalIDMap(ctx, externalIDs)
		if err != nil {
			return fmt.Errorf("load player ids: %w", err)
		}

		stats := resolveStats(item, details.Stats, playerIDs)
		if len(stats) == 0 {
			return skipUnit("no stats with known players")
		}

		n, err := s.deps.Stats.Upsert(ctx, stats)
		if err != nil {
			return fmt.Errorf("upsert player stats: %w", err)
		}
		if err := s.deps.Matches.MarkDetailsParsed(ctx, item.ID); err != nil {
			return fmt.Errorf("mark match details parsed: %w", err)
		}
		affected = n
		return nil
	})
	return affected, err
}

func resolveStats(item match.PendingDetail, records []fbref.StatRecord, playerIDs map[string]int64) []playerstats.MatchStat {
	out := make([]playerstats.MatchStat, 0, len(records))
	for _, record := range records {
		playerID, ok := playerIDs[record.PlayerExternalID]
		if !ok {
			continue
		}

		var teamID int64
		switch record.TeamExternalID {
		case item.HomeTeamExternalID:
			teamID = item.HomeTeamID
		case item.AwayTeamExternalID:
			teamID = item.AwayTeamID
		default:
			continue
		}

		stat := playerstats.MatchStat{
			MatchID:            item.ID,
			PlayerID:           playerID,
			TeamID:             teamID,
			Minutes:            record.Minutes,
			Position:           record.Position,
			Rating:             record.Rating,
			Goals:              record.Goals,
			Assists:            record.Assists,
			Shots:              record.Shots,
			ShotsOnTarget:      record.ShotsOnTarget,
			XG:                 record.XG,
			NPXG:               record.NPXG,
			XA:                 record.XA,
			Touches:            record.Touches,
			PassesCompleted:    record.PassesCompleted,
			PassesAttempted:    record.PassesAttempted,
			ProgressiveCarries: record.ProgressiveCarries,
			Tackles:            record.Tackles,
			Interceptions:      record.Interceptions,
			Blocks:             record.Blocks,
			OtherStats:         record.OtherStats,
		}
		if stat.Validate() != nil {
			continue
		}
		out = append(out, stat)
	}
	return out
}

// dedupeMatchRecords keeps the last row per external id at the position of
// the first one.
func dedupeMatchRecords(records []fbref.MatchRecord) []fbref.MatchRecord {
	index := make(map[string]int, len(records))
	out := make([]fbref.MatchRecord, 0, len(records))
	for _, record := range records {
		if pos, ok := index[record.ExternalID]; ok {
			out[pos] = record
			continue
		}
		index[record.ExternalID] = len(out)
		out = append(out, record)
	}
	return out
}
