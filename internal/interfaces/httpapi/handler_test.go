package httpapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/google/go-cmp/cmp"
	"github.com/riskibarqy/football-stats/internal/domain/league"
	"github.com/riskibarqy/football-stats/internal/domain/match"
	"github.com/riskibarqy/football-stats/internal/domain/team"
	leaguemock "github.com/riskibarqy/football-stats/internal/mocks/domain/league"
	matchmock "github.com/riskibarqy/football-stats/internal/mocks/domain/match"
	teammock "github.com/riskibarqy/football-stats/internal/mocks/domain/team"
	"github.com/riskibarqy/football-stats/internal/platform/logging"
	"github.com/riskibarqy/football-stats/internal/usecase"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type stubStatus struct {
	status usecase.PipelineStatus
	err    error
}

func (s stubStatus) Status(context.Context) (usecase.PipelineStatus, error) {
	return s.status, s.err
}

type apiFixture struct {
	leagues *leaguemock.Repository
	teams   *teammock.Repository
	matches *matchmock.Repository
	router  http.Handler
}

func newAPIFixture(t *testing.T, status StatusProvider, metrics http.Handler) apiFixture {
	t.Helper()

	f := apiFixture{
		leagues: leaguemock.NewRepository(t),
		teams:   teammock.NewRepository(t),
		matches: matchmock.NewRepository(t),
	}
	handler := NewHandler(
		usecase.NewLeagueService(f.leagues),
		usecase.NewTeamService(f.teams, f.matches),
		status,
		logging.NewNop(),
	)
	f.router = NewRouter(handler, metrics, logging.NewNop(), true, []string{"*"})
	return f
}

func (f apiFixture) get(t *testing.T, target string) *httptest.ResponseRecorder {
	t.Helper()

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

type envelope[T any] struct {
	APIVersion string `json:"apiVersion"`
	Data       T      `json:"data"`
	Error      *struct {
		Code   int    `json:"code"`
		Status string `json:"status"`
	} `json:"error"`
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) envelope[T] {
	t.Helper()

	var out envelope[T]
	if err := sonic.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal response body: %v (%s)", err, rec.Body.String())
	}
	return out
}

func TestHandler_Healthz(t *testing.T) {
	t.Parallel()

	f := newAPIFixture(t, nil, nil)
	rec := f.get(t, "/healthz")

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]string](t, rec)
	require.Equal(t, "ok", body.Data["status"])
}

func TestHandler_GetStatus(t *testing.T) {
	t.Parallel()

	f := newAPIFixture(t, stubStatus{status: usecase.PipelineStatus{Leagues: 12, PendingDetails: 40}}, nil)
	rec := f.get(t, "/v1/status")

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[pipelineStatusDTO](t, rec)
	require.Equal(t, pipelineStatusDTO{Leagues: 12, PendingDetails: 40}, body.Data)
}

func TestHandler_GetStatus_Unavailable(t *testing.T) {
	t.Parallel()

	f := newAPIFixture(t, stubStatus{err: usecase.ErrDependencyUnavailable}, nil)
	rec := f.get(t, "/v1/status")

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHandler_ListLeagues(t *testing.T) {
	t.Parallel()

	f := newAPIFixture(t, nil, nil)
	f.leagues.On("List", mock.Anything).Return([]league.League{
		{ID: 1, Title: "Premier League", Country: "England", Slug: "Premier-League-Stats", ExternalID: "9"},
		{ID: 2, Title: "Champions League", Country: league.DefaultCountry, Slug: "Champions-League-Stats"},
	}, nil).Once()

	rec := f.get(t, "/v1/leagues")

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[[]leagueDTO](t, rec)
	want := []leagueDTO{
		{ID: 1, Title: "Premier League", Country: "England", Slug: "Premier-League-Stats", ExternalID: "9"},
		{ID: 2, Title: "Champions League", Country: "International", Slug: "Champions-League-Stats"},
	}
	if diff := cmp.Diff(want, body.Data); diff != "" {
		t.Fatalf("leagues mismatch (-want +got):\n%s", diff)
	}
}

func TestHandler_ListLeagues_RepositoryFailure(t *testing.T) {
	t.Parallel()

	f := newAPIFixture(t, nil, nil)
	f.leagues.On("List", mock.Anything).Return(nil, errors.New("pq: connection reset")).Once()

	rec := f.get(t, "/v1/leagues")

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.NotContains(t, rec.Body.String(), "connection reset")
}

func TestHandler_ListTeams_DefaultPage(t *testing.T) {
	t.Parallel()

	f := newAPIFixture(t, nil, nil)
	f.teams.On("List", mock.Anything, 0, defaultPageLimit).Return([]team.Team{
		{ID: 3, Title: "Arsenal", LogoURL: "https://cdn.example/arsenal.png"},
	}, nil).Once()

	rec := f.get(t, "/v1/teams")

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[[]teamDTO](t, rec)
	require.Equal(t, []teamDTO{{ID: 3, Title: "Arsenal", LogoURL: "https://cdn.example/arsenal.png"}}, body.Data)
}

func TestHandler_ListTeams_ExplicitPage(t *testing.T) {
	t.Parallel()

	f := newAPIFixture(t, nil, nil)
	f.teams.On("List", mock.Anything, 20, 10).Return([]team.Team{}, nil).Once()

	rec := f.get(t, "/v1/teams?offset=20&limit=10")

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[[]teamDTO](t, rec)
	require.Empty(t, body.Data)
}

func TestHandler_ListTeams_InvalidPage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		query string
	}{
		{name: "limit above max", query: "?limit=501"},
		{name: "negative limit", query: "?limit=-1"},
		{name: "negative offset", query: "?offset=-5"},
		{name: "non numeric", query: "?offset=abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newAPIFixture(t, nil, nil)
			rec := f.get(t, "/v1/teams"+tt.query)

			require.Equal(t, http.StatusBadRequest, rec.Code)
			body := decode[any](t, rec)
			require.NotNil(t, body.Error)
			require.Equal(t, "INVALID_ARGUMENT", body.Error.Status)
		})
	}
}

func TestHandler_ListTeams_ZeroLimitSkipsRepository(t *testing.T) {
	t.Parallel()

	f := newAPIFixture(t, nil, nil)
	rec := f.get(t, "/v1/teams?limit=0")

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[[]teamDTO](t, rec)
	require.Empty(t, body.Data)
}

func TestHandler_GetTeamDetails(t *testing.T) {
	t.Parallel()

	f := newAPIFixture(t, nil, nil)
	updated := time.Date(2025, 10, 1, 3, 0, 0, 0, time.UTC)
	f.teams.On("GetByTitle", mock.Anything, "Manchester City").
		Return(team.Team{ID: 9, Title: "Manchester City", LastUpdated: updated}, true, nil).Once()
	f.teams.On("ListPlayers", mock.Anything, int64(9)).
		Return([]team.Player{{ID: 4, Name: "Erling Haaland", Country: "NOR"}}, nil).Once()

	rec := f.get(t, "/v1/teams/Manchester%20City")

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]any](t, rec)
	require.Equal(t, "Manchester City", body.Data["title"])
	require.Equal(t, "2025-10-01T03:00:00Z", body.Data["last_updated"])
	players, ok := body.Data["players"].([]any)
	require.True(t, ok)
	require.Len(t, players, 1)
}

func TestHandler_GetTeamDetails_NotFound(t *testing.T) {
	t.Parallel()

	f := newAPIFixture(t, nil, nil)
	f.teams.On("GetByTitle", mock.Anything, "Nowhere FC").Return(team.Team{}, false, nil).Once()

	rec := f.get(t, "/v1/teams/Nowhere%20FC")

	require.Equal(t, http.StatusNotFound, rec.Code)
	body := decode[any](t, rec)
	require.Equal(t, "NOT_FOUND", body.Error.Status)
}

func TestHandler_ListTeamMatches(t *testing.T) {
	t.Parallel()

	f := newAPIFixture(t, nil, nil)
	home, away := 2, 1
	xg := 1.7
	f.teams.On("GetByTitle", mock.Anything, "Arsenal").
		Return(team.Team{ID: 3, Title: "Arsenal"}, true, nil).Once()
	f.matches.On("ListFinishedByTeam", mock.Anything, int64(3), 0, 5).Return([]match.TeamMatch{
		{
			ID:           11,
			Date:         time.Date(2025, 8, 17, 0, 0, 0, 0, time.UTC),
			Season:       "2025-2026",
			HomeTeamName: "Arsenal",
			AwayTeamName: "Chelsea",
			HomeScore:    &home,
			AwayScore:    &away,
			HomeXG:       &xg,
			IsFinished:   true,
		},
	}, nil).Once()

	rec := f.get(t, "/v1/teams/Arsenal/matches?limit=5")

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[[]map[string]any](t, rec)
	require.Len(t, body.Data, 1)
	got := body.Data[0]
	require.Equal(t, "2025-08-17", got["date"])
	require.Equal(t, "Chelsea", got["away_team_name"])
	require.EqualValues(t, 2, got["home_score"])
	require.EqualValues(t, 1.7, got["home_xg"])
	require.Nil(t, got["away_xg"])
	require.Contains(t, got, "away_xg")
}

func TestHandler_ListTeamMatches_UnknownTeam(t *testing.T) {
	t.Parallel()

	f := newAPIFixture(t, nil, nil)
	f.teams.On("GetByTitle", mock.Anything, "Nowhere FC").Return(team.Team{}, false, nil).Once()

	rec := f.get(t, "/v1/teams/Nowhere%20FC/matches")

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_MetricsAndDocs(t *testing.T) {
	t.Parallel()

	metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("football_stats_runs_total 0\n"))
	})
	f := newAPIFixture(t, nil, metrics)

	rec := f.get(t, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "football_stats_runs_total")

	rec = f.get(t, "/openapi.yaml")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "/v1/teams/{teamTitle}/matches")

	rec = f.get(t, "/docs")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "swagger-ui")
}

func TestRouter_MetricsDisabled(t *testing.T) {
	t.Parallel()

	f := newAPIFixture(t, nil, nil)
	rec := f.get(t, "/metrics")

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_RecoversPanic(t *testing.T) {
	t.Parallel()

	handler := recoverPanic(logging.NewNop(), http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/leagues", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
}
