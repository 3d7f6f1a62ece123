package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/football-stats/internal/config"
	"github.com/riskibarqy/football-stats/internal/platform/logging"
	"github.com/riskibarqy/football-stats/internal/usecase"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fakeRunner struct {
	leagues   int
	statusErr error
	runs      atomic.Int32
	run       func(ctx context.Context) (usecase.RunReport, error)
}

func (r *fakeRunner) RunFullUpdate(ctx context.Context, input usecase.RunInput) (usecase.RunReport, error) {
	r.runs.Add(1)
	if r.run != nil {
		return r.run(ctx)
	}
	return usecase.RunReport{Mode: usecase.RunModeCurrent}, nil
}

func (r *fakeRunner) Status(context.Context) (usecase.PipelineStatus, error) {
	return usecase.PipelineStatus{Leagues: r.leagues}, r.statusErr
}

func enabledConfig() config.SchedulerConfig {
	return config.SchedulerConfig{
		Enabled:    true,
		Cron:       "0 3 * * *",
		Timezone:   "UTC",
		RunOnEmpty: true,
	}
}

func stopWithin(t *testing.T, s *Scheduler, d time.Duration) error {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()
	return s.Stop(ctx)
}

func TestScheduler_DisabledServesAPIOnly(t *testing.T) {
	t.Parallel()

	cfg := enabledConfig()
	cfg.Enabled = false
	runner := &fakeRunner{}
	s, err := New(cfg, runner, logging.NewNop())
	require.NoError(t, err)

	require.NoError(t, s.Start(context.Background()))
	require.False(t, s.Trigger("manual"))
	require.NoError(t, stopWithin(t, s, time.Second))
	require.Zero(t, runner.runs.Load())
}

func TestScheduler_StartupRunWhenEmpty(t *testing.T) {
	t.Parallel()

	done := make(chan struct{})
	runner := &fakeRunner{run: func(context.Context) (usecase.RunReport, error) {
		close(done)
		return usecase.RunReport{}, nil
	}}
	s, err := New(enabledConfig(), runner, logging.NewNop())
	require.NoError(t, err)

	require.NoError(t, s.Start(context.Background()))
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("startup run did not happen")
	}
	require.NoError(t, stopWithin(t, s, 2*time.Second))
	require.EqualValues(t, 1, runner.runs.Load())
}

func TestScheduler_NoStartupRunWhenLeaguesExist(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{leagues: 3}
	s, err := New(enabledConfig(), runner, logging.NewNop())
	require.NoError(t, err)

	require.NoError(t, s.Start(context.Background()))
	require.NoError(t, stopWithin(t, s, time.Second))
	require.Zero(t, runner.runs.Load())
}

func TestScheduler_StatusErrorSkipsStartupRun(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{statusErr: errors.New("db down")}
	s, err := New(enabledConfig(), runner, logging.NewNop())
	require.NoError(t, err)

	require.NoError(t, s.Start(context.Background()))
	require.NoError(t, stopWithin(t, s, time.Second))
	require.Zero(t, runner.runs.Load())
}

func TestScheduler_OverlappingTriggerSkipped(t *testing.T) {
	t.Parallel()

	started := make(chan struct{})
	release := make(chan struct{})
	runner := &fakeRunner{leagues: 1, run: func(context.Context) (usecase.RunReport, error) {
		close(started)
		<-release
		return usecase.RunReport{}, nil
	}}
	s, err := New(enabledConfig(), runner, logging.NewNop())
	require.NoError(t, err)
	require.NoError(t, s.Start(context.Background()))

	require.True(t, s.Trigger("manual"))
	<-started
	require.False(t, s.Trigger("manual"))

	close(release)
	require.NoError(t, stopWithin(t, s, 2*time.Second))
	require.EqualValues(t, 1, runner.runs.Load())
}

func TestScheduler_PanicIsLogged(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.ErrorLevel)
	runner := &fakeRunner{leagues: 1, run: func(context.Context) (usecase.RunReport, error) {
		panic("parser exploded")
	}}
	s, err := New(enabledConfig(), runner, logging.FromZap(zap.New(core)))
	require.NoError(t, err)
	require.NoError(t, s.Start(context.Background()))

	require.True(t, s.Trigger("manual"))
	require.NoError(t, stopWithin(t, s, 2*time.Second))

	entries := logs.FilterMessage("scrape run panicked").All()
	require.Len(t, entries, 1)
	require.Equal(t, "parser exploded", entries[0].ContextMap()["panic"])
}

func TestScheduler_StopCancelsRunAfterDeadline(t *testing.T) {
	t.Parallel()

	started := make(chan struct{})
	canceled := make(chan struct{})
	runner := &fakeRunner{leagues: 1, run: func(ctx context.Context) (usecase.RunReport, error) {
		close(started)
		<-ctx.Done()
		close(canceled)
		return usecase.RunReport{}, ctx.Err()
	}}
	s, err := New(enabledConfig(), runner, logging.NewNop())
	require.NoError(t, err)
	require.NoError(t, s.Start(context.Background()))

	require.True(t, s.Trigger("manual"))
	<-started

	err = stopWithin(t, s, 50*time.Millisecond)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	select {
	case <-canceled:
	case <-time.After(2 * time.Second):
		t.Fatalf("run was not canceled")
	}
}

func TestScheduler_InvalidCron(t *testing.T) {
	t.Parallel()

	cfg := enabledConfig()
	cfg.Cron = "every now and then"
	s, err := New(cfg, &fakeRunner{leagues: 1}, logging.NewNop())
	require.NoError(t, err)

	require.Error(t, s.Start(context.Background()))
	require.NoError(t, stopWithin(t, s, time.Second))
}

func TestNew_InvalidTimezone(t *testing.T) {
	t.Parallel()

	cfg := enabledConfig()
	cfg.Timezone = "Mars/Olympus"
	_, err := New(cfg, &fakeRunner{}, logging.NewNop())
	require.Error(t, err)
}
