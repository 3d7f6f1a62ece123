package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/football-stats/internal/domain/league"
	"github.com/riskibarqy/football-stats/internal/platform/id"
	"github.com/riskibarqy/football-stats/internal/platform/logging"
)

const (
	RunModeCurrent    = "current"
	RunModeHistorical = "historical"
)

type OrchestratorConfig struct {
	// CurrentSeason overrides the season label derived from the clock,
	// e.g. "2025-2026".
	CurrentSeason       string
	HistoricalSeasons   int
	DetailBatchSize     int
	DetailMaxIterations int
	BatchPause          time.Duration
	LeaguePause         time.Duration
}

type RunInput struct {
	Historical bool
}

// PipelineStatus is a cheap snapshot of the stored data used by health
// checks and the scheduler's startup decision.
type PipelineStatus struct {
	Leagues        int `json:"leagues"`
	PendingDetails int `json:"pending_details"`
}

type OrchestratorService struct {
	deps       SyncDeps
	newFetcher FetcherFactory
	cfg        OrchestratorConfig
	logger     *logging.Logger
	runIDs     id.Generator
	now        func() time.Time
	sleep      func(ctx context.Context, d time.Duration) error
}

func NewOrchestratorService(deps SyncDeps, newFetcher FetcherFactory, cfg OrchestratorConfig) *OrchestratorService {
	deps = deps.normalized()
	if cfg.HistoricalSeasons <= 0 {
		cfg.HistoricalSeasons = 5
	}
	if cfg.DetailBatchSize <= 0 {
		cfg.DetailBatchSize = 5
	}
	if cfg.DetailMaxIterations <= 0 {
		cfg.DetailMaxIterations = 50
	}
	if cfg.BatchPause < 0 {
		cfg.BatchPause = 0
	}
	if cfg.LeaguePause < 0 {
		cfg.LeaguePause = 0
	}

	return &OrchestratorService{
		deps:       deps,
		newFetcher: newFetcher,
		cfg:        cfg,
		logger:     deps.Logger.Named("orchestrator"),
		runIDs:     id.NewRunIDGenerator(),
		now:        deps.Now,
		sleep:      sleepContext,
	}
}

// RunFullUpdate refreshes leagues, teams, matches and pending match details.
// Unit failures are recorded in the report; the returned error is reserved for
// failures that leave nothing to ingest.
func (s *OrchestratorService) RunFullUpdate(ctx context.Context, input RunInput) (RunReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.OrchestratorService.RunFullUpdate")
	defer span.End()

	mode := RunModeCurrent
	if input.Historical {
		mode = RunModeHistorical
	}
	report := RunReport{Mode: mode, StartedAt: s.now()}
	if runID, idErr := s.runIDs.NewID(); idErr == nil {
		report.RunID = runID
	}
	logger := s.logger.With("run_id", report.RunID)
	logger.InfoContext(ctx, "full update started", "mode", mode)

	err := s.run(ctx, input, &report)
	report.FinishedAt = s.now()
	s.deps.Observer.ObserveRun(mode, err != nil, report.Duration().Milliseconds())

	if err != nil {
		logger.ErrorContext(ctx, "full update failed", "mode", mode, "error", err)
		return report, err
	}
	logger.InfoContext(ctx, "full update finished",
		"mode", mode,
		"succeeded", report.Succeeded,
		"skipped", report.Skipped,
		"failed", report.Failed,
		"records", report.Records,
		"detail_iterations", report.DetailIterations,
		"duration", report.Duration().String(),
	)
	return report, nil
}

func (s *OrchestratorService) run(ctx context.Context, input RunInput, report *RunReport) error {
	if s.newFetcher == nil {
		return fmt.Errorf("%w: fetcher factory is not configured", ErrDependencyUnavailable)
	}
	fetcher, err := s.newFetcher()
	if err != nil {
		return fmt.Errorf("open fetcher: %w", err)
	}
	defer func() {
		if closeErr := fetcher.Close(); closeErr != nil {
			s.logger.WarnContext(ctx, "close fetcher failed", "error", closeErr)
		}
	}()

	deps := s.deps
	deps.Logger = deps.Logger.With("run_id", report.RunID)
	leagueSync := NewLeagueSyncService(fetcher, deps)
	teamSync := NewTeamSyncService(fetcher, deps)
	matchSync := NewMatchSyncService(fetcher, deps)

	report.Add(leagueSync.UpdateLeagues(ctx))

	leagues, err := s.deps.Leagues.List(ctx)
	if err != nil {
		return fmt.Errorf("list leagues: %w", err)
	}
	if len(leagues) == 0 {
		return ErrNoLeagues
	}

	if input.Historical {
		s.ingestHistorical(ctx, leagueSync, teamSync, matchSync, leagues, report)
	} else {
		s.ingestCurrent(ctx, teamSync, matchSync, leagues, report)
	}

	s.ingestDetails(ctx, matchSync, report)

	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("run interrupted: %w", ctxErr)
	}
	return nil
}

func (s *OrchestratorService) ingestCurrent(ctx context.Context, teamSync *TeamSyncService, matchSync *MatchSyncService, leagues []league.League, report *RunReport) {
	season := s.CurrentSeason()
	for idx, item := range leagues {
		if idx > 0 && s.sleep(ctx, s.cfg.LeaguePause) != nil {
			return
		}

		scope := []league.League{item}
		report.Add(teamSync.UpdateTeams(ctx, scope, nil)...)
		report.Add(matchSync.UpdateMatches(ctx, scope, map[int64]SeasonTarget{
			item.ID: {Label: season},
		})...)
	}
}

func (s *OrchestratorService) ingestHistorical(
	ctx context.Context,
	leagueSync *LeagueSyncService,
	teamSync *TeamSyncService,
	matchSync *MatchSyncService,
	leagues []league.League,
	report *RunReport,
) {
	for idx, item := range leagues {
		if idx > 0 && s.sleep(ctx, s.cfg.LeaguePause) != nil {
			return
		}

		startedAt := s.now()
		seasons, err := leagueSync.SeasonHistory(ctx, item, s.cfg.HistoricalSeasons)
		if err != nil {
			report.Add(s.failedUnit(ctx, UnitHistory, item.Slug, startedAt, err))
			continue
		}
		if len(seasons) == 0 {
			s.logger.InfoContext(ctx, "league has no season history", "league", item.Slug)
			continue
		}

		scope := []league.League{item}
		for _, season := range seasons {
			if ctx.Err() != nil {
				return
			}
			report.Add(teamSync.UpdateTeams(ctx, scope, map[int64]string{item.ID: season.URL})...)
			report.Add(matchSync.UpdateMatches(ctx, scope, map[int64]SeasonTarget{
				item.ID: {URL: season.URL, Label: season.Season},
			})...)
		}
	}
}

// ingestDetails drains pending match details in batches. Matches already
// attempted in this run are excluded so a page that keeps failing cannot
// starve the rest of the queue.
func (s *OrchestratorService) ingestDetails(ctx context.Context, matchSync *MatchSyncService, report *RunReport) {
	attempted := make(map[int64]struct{})
	exclude := make([]int64, 0)

	for iteration := 0; iteration < s.cfg.DetailMaxIterations; iteration++ {
		if ctx.Err() != nil {
			return
		}
		if iteration > 0 && s.sleep(ctx, s.cfg.BatchPause) != nil {
			return
		}

		units := matchSync.UpdateDetails(ctx, s.cfg.DetailBatchSize, exclude)
		report.DetailIterations++
		if len(units) == 0 {
			return
		}

		progressed := false
		for _, unit := range units {
			report.Add(unit)
			if unit.MatchID <= 0 {
				continue
			}
			if _, seen := attempted[unit.MatchID]; seen {
				continue
			}
			attempted[unit.MatchID] = struct{}{}
			exclude = append(exclude, unit.MatchID)
			progressed = true
		}
		if !progressed {
			return
		}
	}

	s.logger.WarnContext(ctx, "detail loop reached iteration cap", "max_iterations", s.cfg.DetailMaxIterations, "attempted", len(attempted))
}

func (s *OrchestratorService) failedUnit(ctx context.Context, kind UnitKind, target string, startedAt time.Time, err error) UnitResult {
	result := UnitResult{
		Kind:       kind,
		Target:     target,
		Status:     UnitFailed,
		DurationMs: s.now().Sub(startedAt).Milliseconds(),
		Message:    err.Error(),
	}
	s.logger.WarnContext(ctx, "ingestion unit failed", "kind", kind, "target", target, "error", err)
	s.deps.Observer.ObserveUnit(string(kind), string(result.Status), 0, result.DurationMs)
	return result
}

// CurrentSeason returns the configured season label, or derives it from the
// clock: seasons start in July, so 2025-10 belongs to "2025-2026".
func (s *OrchestratorService) CurrentSeason() string {
	if season := strings.TrimSpace(s.cfg.CurrentSeason); season != "" {
		return season
	}
	now := s.now()
	year := now.Year()
	if now.Month() < time.July {
		year--
	}
	return fmt.Sprintf("%d-%d", year, year+1)
}

func (s *OrchestratorService) Status(ctx context.Context) (PipelineStatus, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.OrchestratorService.Status")
	defer span.End()

	leagues, err := s.deps.Leagues.Count(ctx)
	if err != nil {
		return PipelineStatus{}, fmt.Errorf("count leagues: %w", err)
	}
	pending, err := s.deps.Matches.CountPendingDetails(ctx)
	if err != nil {
		return PipelineStatus{}, fmt.Errorf("count pending match details: %w", err)
	}

	return PipelineStatus{Leagues: leagues, PendingDetails: pending}, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
