package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/football-stats/internal/domain/league"
	"github.com/riskibarqy/football-stats/internal/domain/match"
	"github.com/riskibarqy/football-stats/internal/domain/team"
	"github.com/stretchr/testify/require"
)

func TestStore_WithinTxRollsBack(t *testing.T) {
	t.Parallel()

	store := NewStore()
	ctx := context.Background()
	errBoom := errors.New("boom")

	err := store.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := store.Leagues().Upsert(ctx, []league.League{{Title: "Premier League", Slug: "Premier-League-Stats"}}); err != nil {
			return err
		}
		return errBoom
	})
	require.ErrorIs(t, err, errBoom)

	count, err := store.Leagues().Count(ctx)
	require.NoError(t, err)
	require.Zero(t, count)
}

func TestMatchRepository_UpsertKeepsDetailsParsed(t *testing.T) {
	t.Parallel()

	store := NewStore()
	ctx := context.Background()
	_, err := store.Teams().Upsert(ctx, []team.Team{
		{Title: "Arsenal", ExternalID: "18bb7c10"},
		{Title: "Chelsea", ExternalID: "cff3d9bb"},
	})
	require.NoError(t, err)
	teamIDs, err := store.Teams().ExternalIDMap(ctx)
	require.NoError(t, err)

	home, away := 2, 1
	item := match.Match{
		ExternalID: "aa11",
		Date:       time.Date(2025, 8, 16, 0, 0, 0, 0, time.UTC),
		Season:     "2025-2026",
		LeagueID:   1,
		HomeTeamID: teamIDs["18bb7c10"],
		AwayTeamID: teamIDs["cff3d9bb"],
		HomeScore:  &home,
		AwayScore:  &away,
		IsFinished: true,
	}
	_, err = store.Matches().Upsert(ctx, []match.Match{item})
	require.NoError(t, err)

	stored, ok := store.Matches().Get("aa11")
	require.True(t, ok)
	require.NoError(t, store.Matches().MarkDetailsParsed(ctx, stored.ID))

	_, err = store.Matches().Upsert(ctx, []match.Match{item})
	require.NoError(t, err)
	stored, _ = store.Matches().Get("aa11")
	require.True(t, stored.DetailsParsed)

	finished, err := store.Matches().ListFinishedByTeam(ctx, teamIDs["cff3d9bb"], 0, 10)
	require.NoError(t, err)
	require.Len(t, finished, 1)
	require.Equal(t, "Arsenal", finished[0].HomeTeamName)
	require.Equal(t, "Chelsea", finished[0].AwayTeamName)
}
