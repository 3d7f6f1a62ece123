package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/football-stats/internal/platform/logging"
	"github.com/stretchr/testify/require"
)

func TestUnitRunner_Statuses(t *testing.T) {
	t.Parallel()

	observer := &recordingObserver{}
	start := time.Date(2025, 10, 1, 3, 0, 0, 0, time.UTC)
	calls := 0
	runner := unitRunner{
		logger:   logging.NewNop(),
		observer: observer,
		now: func() time.Time {
			calls++
			return start.Add(time.Duration(calls) * 250 * time.Millisecond)
		},
	}

	ok := runner.run(context.Background(), UnitTeams, "Premier-League-Stats", func(context.Context) (int, error) {
		return 20, nil
	})
	require.Equal(t, UnitSuccess, ok.Status)
	require.Equal(t, 20, ok.Records)
	require.Equal(t, int64(250), ok.DurationMs)

	skipped := runner.run(context.Background(), UnitTeams, "La-Liga-Stats", func(context.Context) (int, error) {
		return 3, skipUnit("no teams parsed")
	})
	require.Equal(t, UnitSkipped, skipped.Status)
	require.Zero(t, skipped.Records)
	require.Equal(t, "no teams parsed", skipped.Message)

	failed := runner.run(context.Background(), UnitTeams, "Serie-A-Stats", func(context.Context) (int, error) {
		return 0, errors.New("fetch teams: boom")
	})
	require.Equal(t, UnitFailed, failed.Status)
	require.Equal(t, "fetch teams: boom", failed.Message)

	require.Equal(t, []string{"teams:success", "teams:skipped", "teams:failed"}, observer.units)
}

func TestRunReport_Add(t *testing.T) {
	t.Parallel()

	var report RunReport
	report.Add(
		UnitResult{Status: UnitSuccess, Records: 10},
		UnitResult{Status: UnitSuccess, Records: 5},
		UnitResult{Status: UnitSkipped},
		UnitResult{Status: UnitFailed},
	)

	require.Len(t, report.Units, 4)
	require.Equal(t, 2, report.Succeeded)
	require.Equal(t, 1, report.Skipped)
	require.Equal(t, 1, report.Failed)
	require.Equal(t, 15, report.Records)

	report.StartedAt = time.Date(2025, 10, 1, 3, 0, 0, 0, time.UTC)
	report.FinishedAt = report.StartedAt.Add(90 * time.Second)
	require.Equal(t, 90*time.Second, report.Duration())
}
