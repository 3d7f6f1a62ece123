package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/football-stats/internal/config"
	"github.com/riskibarqy/football-stats/internal/platform/logging"
	"github.com/riskibarqy/football-stats/internal/usecase"
	"github.com/robfig/cron/v3"
	"github.com/sourcegraph/conc/panics"
)

// Runner is the part of the orchestrator the scheduler drives.
type Runner interface {
	RunFullUpdate(ctx context.Context, input usecase.RunInput) (usecase.RunReport, error)
	Status(ctx context.Context) (usecase.PipelineStatus, error)
}

// Scheduler triggers full current-season updates on a cron schedule.
// At most one run is active at a time; triggers that arrive while a run is
// in flight are dropped.
type Scheduler struct {
	cfg    config.SchedulerConfig
	runner Runner
	logger *logging.Logger
	cron   *cron.Cron
	pool   *ants.Pool

	mu      sync.Mutex
	runCtx  context.Context
	cancel  context.CancelFunc
	running sync.WaitGroup
}

func New(cfg config.SchedulerConfig, runner Runner, logger *logging.Logger) (*Scheduler, error) {
	if runner == nil {
		return nil, fmt.Errorf("scheduler requires a runner")
	}
	if logger == nil {
		logger = logging.Default()
	}
	logger = logger.Named("scheduler")

	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load scheduler timezone %q: %w", cfg.Timezone, err)
	}

	pool, err := ants.NewPool(1, ants.WithNonblocking(true))
	if err != nil {
		return nil, fmt.Errorf("create run pool: %w", err)
	}

	return &Scheduler{
		cfg:    cfg,
		runner: runner,
		logger: logger,
		cron: cron.New(
			cron.WithLocation(location),
			cron.WithLogger(cronLogger{logger: logger}),
		),
		pool: pool,
	}, nil
}

// Start registers the cron trigger and, when the database holds no leagues
// yet, submits one run immediately. Runs inherit ctx values but are only
// canceled through Stop.
func (s *Scheduler) Start(ctx context.Context) error {
	if !s.cfg.Enabled {
		s.logger.InfoContext(ctx, "scraper disabled, serving API only")
		return nil
	}

	s.mu.Lock()
	s.runCtx, s.cancel = context.WithCancel(context.WithoutCancel(ctx))
	s.mu.Unlock()

	entryID, err := s.cron.AddFunc(s.cfg.Cron, func() {
		s.Trigger("cron")
	})
	if err != nil {
		return fmt.Errorf("register scraper cron %q: %w", s.cfg.Cron, err)
	}

	if s.cfg.RunOnEmpty {
		s.triggerWhenEmpty(ctx)
	}

	s.cron.Start()
	s.logger.InfoContext(ctx, "scraper scheduled",
		"cron", s.cfg.Cron,
		"timezone", s.cfg.Timezone,
		"next_run", s.cron.Entry(entryID).Next,
	)
	return nil
}

func (s *Scheduler) triggerWhenEmpty(ctx context.Context) {
	status, err := s.runner.Status(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "read pipeline status failed, startup run skipped", "error", err)
		return
	}
	if status.Leagues > 0 {
		return
	}
	s.logger.InfoContext(ctx, "no leagues stored, starting initial run")
	s.Trigger("startup")
}

// Trigger submits one run. It returns false when a run is already active or
// the scheduler has not been started.
func (s *Scheduler) Trigger(reason string) bool {
	s.mu.Lock()
	runCtx := s.runCtx
	s.mu.Unlock()
	if runCtx == nil {
		s.logger.Warn("scheduler not started, trigger ignored", "trigger", reason)
		return false
	}

	s.running.Add(1)
	err := s.pool.Submit(func() {
		defer s.running.Done()
		s.runOnce(runCtx, reason)
	})
	if err == nil {
		return true
	}

	s.running.Done()
	if errors.Is(err, ants.ErrPoolOverload) {
		s.logger.Info("run already in progress, trigger skipped", "trigger", reason)
		return false
	}
	s.logger.Error("submit scrape run failed", "trigger", reason, "error", err)
	return false
}

func (s *Scheduler) runOnce(ctx context.Context, reason string) {
	var (
		catcher panics.Catcher
		report  usecase.RunReport
		err     error
	)
	catcher.Try(func() {
		report, err = s.runner.RunFullUpdate(ctx, usecase.RunInput{})
	})

	if recovered := catcher.Recovered(); recovered != nil {
		s.logger.ErrorContext(ctx, "scrape run panicked",
			"trigger", reason,
			"panic", recovered.Value,
			"stack", string(recovered.Stack),
		)
		return
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "scrape run failed", "trigger", reason, "error", err)
		return
	}

	s.logger.InfoContext(ctx, "scrape run finished",
		"trigger", reason,
		"succeeded", report.Succeeded,
		"skipped", report.Skipped,
		"failed", report.Failed,
		"records", report.Records,
		"duration", report.Duration(),
	)
}

// Stop halts the cron trigger and waits for the active run. When ctx expires
// first the run is canceled and ctx's error is returned.
func (s *Scheduler) Stop(ctx context.Context) error {
	<-s.cron.Stop().Done()

	done := make(chan struct{})
	go func() {
		s.running.Wait()
		close(done)
	}()

	var err error
	select {
	case <-done:
	case <-ctx.Done():
		err = ctx.Err()
		s.logger.WarnContext(ctx, "scrape run still active at shutdown, canceling")
	}

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()

	s.pool.Release()
	return err
}

type cronLogger struct {
	logger *logging.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
