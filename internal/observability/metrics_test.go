package observability

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_ObserveUnitAndRun(t *testing.T) {
	m := NewMetrics()

	m.ObserveUnit("matches", "success", 380, 1500)
	m.ObserveUnit("matches", "failed", 0, 200)
	m.ObserveRun("current", true, 60_000)

	if got := testutil.ToFloat64(m.units.WithLabelValues("matches", "success")); got != 1 {
		t.Fatalf("unexpected success units: %v", got)
	}
	if got := testutil.ToFloat64(m.unitRecords.WithLabelValues("matches")); got != 380 {
		t.Fatalf("unexpected records: %v", got)
	}
	if got := testutil.ToFloat64(m.lastRunSuccess); got != 0 {
		t.Fatalf("expected last run to be failed, got %v", got)
	}
	if got := testutil.ToFloat64(m.lastRunDuration); got != 60 {
		t.Fatalf("unexpected last run duration: %v", got)
	}
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics()
	m.ObserveFetch("rate_limited", 150*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), `football_stats_upstream_fetches_total{outcome="rate_limited"} 1`) {
		t.Fatalf("fetch counter missing from exposition:\n%s", body)
	}
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	m.ObserveUnit("teams", "success", 1, 1)
	m.ObserveRun("current", false, 1)
	m.ObserveFetch("success", time.Second)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if rec.Code != 404 {
		t.Fatalf("expected 404 for disabled metrics, got %d", rec.Code)
	}
}
