package usecase

import (
	"context"
	"testing"

	"github.com/riskibarqy/football-stats/internal/domain/league"
	"github.com/riskibarqy/football-stats/internal/domain/team"
	"github.com/riskibarqy/football-stats/internal/infrastructure/repository/memory"
	"github.com/stretchr/testify/require"
)

func seedLeagueAndTeams(t *testing.T, store *memory.Store) league.League {
	t.Helper()

	ctx := context.Background()
	_, err := store.Leagues().Upsert(ctx, []league.League{{
		Title:      "Premier League",
		Country:    "England",
		Slug:       "Premier-League-Stats",
		ExternalID: "9",
	}})
	require.NoError(t, err)
	_, err = store.Teams().Upsert(ctx, []team.Team{
		{Title: "Arsenal", ExternalID: arsenalID},
		{Title: "Chelsea", ExternalID: chelseaID},
	})
	require.NoError(t, err)

	leagues, err := store.Leagues().List(ctx)
	require.NoError(t, err)
	require.Len(t, leagues, 1)
	return leagues[0]
}

func TestPipeline_ScheduleStoresFinishedAndFutureMatches(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := memory.NewStore()
	item := seedLeagueAndTeams(t, store)

	fetcher := newFakeFetcher(map[string]string{
		testURLs.Schedule("9", "Premier-League-Stats"): schedulePage(
			scheduleRow{date: "2025-08-16", matchID: "aa11", home: arsenalID, away: chelseaID, score: "2–1"},
			scheduleRow{date: "2026-05-24", matchID: "bb22", home: chelseaID, away: arsenalID, score: ""},
			scheduleRow{date: "2026-05-24", matchID: "cc33", home: chelseaID, away: "unknown1", score: ""},
		),
	})
	service := NewMatchSyncService(fetcher, memoryDeps(store))

	units := service.UpdateMatches(ctx, []league.League{item}, map[int64]SeasonTarget{item.ID: {Label: "2025-2026"}})
	require.Len(t, units, 1)
	require.Equal(t, UnitSuccess, units[0].Status)
	require.Equal(t, 2, units[0].Records)

	finished, ok := store.Matches().Get("aa11")
	require.True(t, ok)
	require.True(t, finished.IsFinished)
	require.Equal(t, 2, *finished.HomeScore)
	require.Equal(t, 1, *finished.AwayScore)
	require.NotNil(t, finished.HomeXG)
	require.Equal(t, "2025-2026", finished.Season)

	future, ok := store.Matches().Get("bb22")
	require.True(t, ok)
	require.False(t, future.IsFinished)
	require.Nil(t, future.HomeScore)
	require.Nil(t, future.HomeXG)

	_, ok = store.Matches().Get("cc33")
	require.False(t, ok, "match with an unknown team must be dropped")

	pending, err := store.Matches().ListPendingDetails(ctx, 10, nil)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.Equal(t, "aa11", pending[0].ExternalID)
	require.Equal(t, arsenalID, pending[0].HomeTeamExternalID)
	require.Equal(t, chelseaID, pending[0].AwayTeamExternalID)
}

func TestPipeline_PlayerSharedAcrossMatches(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := memory.NewStore()
	item := seedLeagueAndTeams(t, store)

	saka := statLine{playerID: "bc7dc64d", name: "Bukayo Saka", minutes: "90", goals: "1"}
	palmer := statLine{playerID: "dc7f8a28", name: "Cole Palmer", minutes: "1,090", goals: "0"}

	fetcher := newFakeFetcher(map[string]string{
		testURLs.Schedule("9", "Premier-League-Stats"): schedulePage(
			scheduleRow{date: "2025-08-16", matchID: "aa11", home: arsenalID, away: chelseaID, score: "2–1"},
			scheduleRow{date: "2025-09-20", matchID: "bb22", home: chelseaID, away: arsenalID, score: "0–0"},
		),
		testURLs.Match("aa11"): matchPage(arsenalID, []statLine{saka}, chelseaID, []statLine{palmer}),
		testURLs.Match("bb22"): matchPage(chelseaID, []statLine{palmer}, arsenalID, []statLine{saka}),
	})
	service := NewMatchSyncService(fetcher, memoryDeps(store))

	requireNoFailedUnits(t, service.UpdateMatches(ctx, []league.League{item}, map[int64]SeasonTarget{item.ID: {Label: "2025-2026"}}))

	units := service.UpdateDetails(ctx, 5, nil)
	require.Len(t, units, 2)
	for _, unit := range units {
		require.Equal(t, UnitSuccess, unit.Status, unit.Message)
		require.Equal(t, 2, unit.Records)
		require.NotZero(t, unit.MatchID)
	}

	sakaRows := 0
	var sakaID int64
	for _, p := range store.Players().All() {
		if p.ExternalID == saka.playerID {
			sakaRows++
			sakaID = p.ID
			require.Equal(t, "ENG", p.Country)
		}
	}
	require.Equal(t, 1, sakaRows)

	sakaStats := 0
	arsenal, ok, err := store.Teams().GetByTitle(ctx, "Arsenal")
	require.NoError(t, err)
	require.True(t, ok)
	for _, stat := range store.PlayerStats().All() {
		if stat.PlayerID == sakaID {
			sakaStats++
			require.Equal(t, arsenal.ID, stat.TeamID)
		}
	}
	require.Equal(t, 2, sakaStats)

	pending, err := store.Matches().CountPendingDetails(ctx)
	require.NoError(t, err)
	require.Zero(t, pending)

	players, err := store.Teams().ListPlayers(ctx, arsenal.ID)
	require.NoError(t, err)
	require.Len(t, players, 1)
	require.Equal(t, "Bukayo Saka", players[0].Name)
}

func TestPipeline_DetailsWithoutStatsStayPending(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := memory.NewStore()
	item := seedLeagueAndTeams(t, store)

	fetcher := newFakeFetcher(map[string]string{
		testURLs.Schedule("9", "Premier-League-Stats"): schedulePage(
			scheduleRow{date: "2025-08-16", matchID: "aa11", home: arsenalID, away: chelseaID, score: "2–1"},
		),
		testURLs.Match("aa11"): "<html><body><p>Match report coming soon</p></body></html>",
	})
	service := NewMatchSyncService(fetcher, memoryDeps(store))
	requireNoFailedUnits(t, service.UpdateMatches(ctx, []league.League{item}, map[int64]SeasonTarget{item.ID: {Label: "2025-2026"}}))

	units := service.UpdateDetails(ctx, 5, nil)
	require.Len(t, units, 1)
	require.Equal(t, UnitSkipped, units[0].Status)
	require.Equal(t, "no player stats parsed", units[0].Message)

	pending, err := store.Matches().CountPendingDetails(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, pending)
}

func TestPipeline_RescrapeKeepsDetailsParsed(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := memory.NewStore()
	item := seedLeagueAndTeams(t, store)

	saka := statLine{playerID: "bc7dc64d", name: "Bukayo Saka", minutes: "90", goals: "1"}
	schedule := schedulePage(scheduleRow{date: "2025-08-16", matchID: "aa11", home: arsenalID, away: chelseaID, score: "2–1"})
	fetcher := newFakeFetcher(map[string]string{
		testURLs.Schedule("9", "Premier-League-Stats"): schedule,
		testURLs.Match("aa11"): matchPage(arsenalID, []statLine{saka}, chelseaID, nil),
	})
	service := NewMatchSyncService(fetcher, memoryDeps(store))
	seasons := map[int64]SeasonTarget{item.ID: {Label: "2025-2026"}}

	requireNoFailedUnits(t, service.UpdateMatches(ctx, []league.League{item}, seasons))
	requireNoFailedUnits(t, service.UpdateDetails(ctx, 5, nil))
	requireNoFailedUnits(t, service.UpdateMatches(ctx, []league.League{item}, seasons))

	stored, ok := store.Matches().Get("aa11")
	require.True(t, ok)
	require.True(t, stored.DetailsParsed)
	require.Empty(t, service.UpdateDetails(ctx, 5, nil))
}
