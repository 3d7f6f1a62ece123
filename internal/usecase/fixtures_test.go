package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/riskibarqy/football-stats/external/fbref"
	"github.com/riskibarqy/football-stats/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/football-stats/internal/platform/logging"
)

const testBaseURL = "https://fbref.test"

var errPageMissing = errors.New("page missing")

type fakeFetcher struct {
	mu     sync.Mutex
	pages  map[string]string
	calls  []string
	closed int
}

func newFakeFetcher(pages map[string]string) *fakeFetcher {
	return &fakeFetcher{pages: pages}
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, url)
	html, ok := f.pages[url]
	if !ok {
		return "", fmt.Errorf("%w: %s", errPageMissing, url)
	}
	return html, nil
}

func (f *fakeFetcher) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.closed++
	return nil
}

func (f *fakeFetcher) called(url string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, call := range f.calls {
		if call == url {
			return true
		}
	}
	return false
}

type passthroughTx struct{}

func (passthroughTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

var testURLs = fbref.NewURLs(testBaseURL)

func fixedClock() func() time.Time {
	now := time.Date(2025, time.October, 1, 3, 0, 0, 0, time.UTC)
	return func() time.Time { return now }
}

func memoryDeps(store *memory.Store) SyncDeps {
	return SyncDeps{
		Leagues: store.Leagues(),
		Teams:   store.Teams(),
		Matches: store.Matches(),
		Players: store.Players(),
		Stats:   store.PlayerStats(),
		Tx:      store,
		Parser:  fbref.NewParser(testURLs),
		URLs:    testURLs,
		Logger:  logging.NewNop(),
		Now:     fixedClock(),
	}
}

const (
	arsenalID = "18bb7c10"
	chelseaID = "cff3d9bb"
)

func leaguesPage() string {
	return `<html><body><table class="stats_table"><tbody>
<tr><th data-stat="league_name"><a href="/en/comps/9/Premier-League-Stats">Premier League</a></th><td data-stat="country">England</td></tr>
</tbody></table></body></html>`
}

func teamsPage() string {
	return `<html><body><table class="stats_table"><tbody>
<tr><td data-stat="team"><a href="/en/squads/` + arsenalID + `/Arsenal-Stats">Arsenal</a></td></tr>
<tr><td data-stat="team"><a href="/en/squads/` + chelseaID + `/Chelsea-Stats">Chelsea</a></td></tr>
</tbody></table></body></html>`
}

type scheduleRow struct {
	date    string
	matchID string
	home    string
	away    string
	score   string
}

func schedulePage(rows ...scheduleRow) string {
	var b strings.Builder
	b.WriteString(`<html><body><table id="sched_2025-2026_9_1" class="stats_table"><tbody>`)
	for _, row := range rows {
		report := ""
		if row.matchID != "" {
			report = `<a href="/en/matches/` + row.matchID + `/Report">Match Report</a>`
		}
		fmt.Fprintf(&b, `<tr><td data-stat="date">%s</td>`+
			`<td data-stat="home_team"><a href="/en/squads/%s/Home">Home</a></td>`+
			`<td data-stat="home_xg">1.4</td>`+
			`<td data-stat="score">%s</td>`+
			`<td data-stat="away_xg">0.6</td>`+
			`<td data-stat="away_team"><a href="/en/squads/%s/Away">Away</a></td>`+
			`<td data-stat="match_report">%s</td></tr>`,
			row.date, row.home, row.score, row.away, report)
	}
	b.WriteString(`</tbody></table></body></html>`)
	return b.String()
}

type statLine struct {
	playerID string
	name     string
	minutes  string
	goals    string
}

func matchPage(home string, homeLines []statLine, away string, awayLines []statLine) string {
	var b strings.Builder
	b.WriteString("<html><body>")
	for _, side := range []struct {
		team  string
		lines []statLine
	}{{home, homeLines}, {away, awayLines}} {
		fmt.Fprintf(&b, `<table id="stats_%s_summary"><tbody>`, side.team)
		for _, line := range side.lines {
			fmt.Fprintf(&b, `<tr><th data-stat="player"><a href="/en/players/%s/%s">%s</a></th>`+
				`<td data-stat="nationality"><a><span>eng</span> ENG</a></td>`+
				`<td data-stat="position">FW</td>`+
				`<td data-stat="minutes">%s</td>`+
				`<td data-stat="goals">%s</td>`+
				`<td data-stat="xg">0.4</td></tr>`,
				line.playerID, strings.ReplaceAll(line.name, " ", "-"), line.name, line.minutes, line.goals)
		}
		b.WriteString(`</tbody></table>`)
	}
	b.WriteString("</body></html>")
	return b.String()
}

func historyPage(seasons ...string) string {
	var b strings.Builder
	b.WriteString(`<html><body><table class="stats_table"><tbody>`)
	for _, season := range seasons {
		fmt.Fprintf(&b, `<tr><th data-stat="year_id"><a href="/en/comps/9/%s/%s-Premier-League-Stats">%s</a></th></tr>`, season, season, season)
	}
	b.WriteString(`</tbody></table></body></html>`)
	return b.String()
}

func requireNoFailedUnits(t *testing.T, units []UnitResult) {
	t.Helper()
	for _, unit := range units {
		if unit.Status == UnitFailed {
			t.Fatalf("unexpected failed unit: %+v", unit)
		}
	}
}
