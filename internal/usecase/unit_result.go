package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/football-stats/internal/platform/logging"
)

type UnitKind string

const (
	UnitLeagues UnitKind = "leagues"
	UnitHistory UnitKind = "history"
	UnitTeams   UnitKind = "teams"
	UnitMatches UnitKind = "matches"
	UnitDetails UnitKind = "details"
)

type UnitStatus string

const (
	UnitSuccess UnitStatus = "success"
	UnitSkipped UnitStatus = "skipped"
	UnitFailed  UnitStatus = "failed"
)

// UnitResult is the outcome of one ingestion unit: a league listing, one
// league season of teams or matches, or one match detail page.
type UnitResult struct {
	Kind       UnitKind   `json:"kind"`
	Target     string     `json:"target"`
	MatchID    int64      `json:"match_id,omitempty"`
	Status     UnitStatus `json:"status"`
	Records    int        `json:"records"`
	DurationMs int64      `json:"duration_ms"`
	Message    string     `json:"message,omitempty"`
}

// RunReport aggregates the units of one RunFullUpdate call.
type RunReport struct {
	RunID            string       `json:"run_id,omitempty"`
	Mode             string       `json:"mode"`
	StartedAt        time.Time    `json:"started_at"`
	FinishedAt       time.Time    `json:"finished_at"`
	Units            []UnitResult `json:"units"`
	Succeeded        int          `json:"succeeded"`
	Skipped          int          `json:"skipped"`
	Failed           int          `json:"failed"`
	Records          int          `json:"records"`
	DetailIterations int          `json:"detail_iterations"`
}

func (r *RunReport) Add(units ...UnitResult) {
	for _, unit := range units {
		r.Units = append(r.Units, unit)
		r.Records += unit.Records
		switch unit.Status {
		case UnitSuccess:
			r.Succeeded++
		case UnitSkipped:
			r.Skipped++
		case UnitFailed:
			r.Failed++
		}
	}
}

func (r RunReport) Duration() time.Duration {
	if r.FinishedAt.Before(r.StartedAt) {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// errUnitSkipped marks a unit that found nothing to store. Returned from a
// transaction callback it also rolls the unit back.
var errUnitSkipped = errors.New("unit skipped")

func skipUnit(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errUnitSkipped, fmt.Sprintf(format, args...))
}

type unitRunner struct {
	logger   *logging.Logger
	observer RunObserver
	now      func() time.Time
}

// run executes fn as one unit and never propagates its error: failures become
// a failed UnitResult so the caller can continue with the next unit.
func (u unitRunner) run(ctx context.Context, kind UnitKind, target string, fn func(ctx context.Context) (int, error)) UnitResult {
	startedAt := u.now()
	records, err := fn(ctx)

	result := UnitResult{
		Kind:       kind,
		Target:     target,
		Status:     UnitSuccess,
		Records:    records,
		DurationMs: u.now().Sub(startedAt).Milliseconds(),
	}
	switch {
	case err == nil:
		u.logger.InfoContext(ctx, "ingestion unit finished", "kind", kind, "target", target, "records", records, "duration_ms", result.DurationMs)
	case errors.Is(err, errUnitSkipped):
		result.Status = UnitSkipped
		result.Records = 0
		result.Message = strings.TrimPrefix(err.Error(), errUnitSkipped.Error()+": ")
		u.logger.InfoContext(ctx, "ingestion unit skipped", "kind", kind, "target", target, "reason", result.Message)
	default:
		result.Status = UnitFailed
		result.Records = 0
		result.Message = err.Error()
		u.logger.WarnContext(ctx, "ingestion unit failed", "kind", kind, "target", target, "error", err)
	}

	u.observer.ObserveUnit(string(kind), string(result.Status), result.Records, result.DurationMs)
	return result
}
