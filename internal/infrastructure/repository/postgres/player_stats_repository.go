package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/football-stats/internal/domain/playerstats"
	qb "github.com/riskibarqy/football-stats/internal/platform/querybuilder"
)

type PlayerStatsRepository struct {
	db *sqlx.DB
}

func NewPlayerStatsRepository(db *sqlx.DB) *PlayerStatsRepository {
	return &PlayerStatsRepository{db: db}
}

func (r *PlayerStatsRepository) Upsert(ctx context.Context, items []playerstats.MatchStat) (int, error) {
	type statKey struct {
		matchID  int64
		playerID int64
	}
	items = dedupeBy(items, func(item playerstats.MatchStat) statKey {
		return statKey{matchID: item.MatchID, playerID: item.PlayerID}
	})
	if len(items) == 0 {
		return 0, nil
	}

	rows := make([]playerMatchStatInsertModel, 0, len(items))
	for _, item := range items {
		rows = append(rows, playerMatchStatInsertModel{
			MatchID:            item.MatchID,
			PlayerID:           item.PlayerID,
			TeamID:             item.TeamID,
			Minutes:            item.Minutes,
			Position:           nullableString(item.Position),
			Rating:             item.Rating,
			Goals:              item.Goals,
			Assists:            item.Assists,
			Shots:              item.Shots,
			ShotsOnTarget:      item.ShotsOnTarget,
			XG:                 item.XG,
			NPXG:               item.NPXG,
			XA:                 item.XA,
			Touches:            item.Touches,
			PassesCompleted:    item.PassesCompleted,
			PassesAttempted:    item.PassesAttempted,
			ProgressiveCarries: item.ProgressiveCarries,
			Tackles:            item.Tackles,
			Interceptions:      item.Interceptions,
			Blocks:             item.Blocks,
			OtherStats:         encodeJSONMap(item.OtherStats),
		})
	}

	suffix := qb.UpsertSuffix("match_id, player_id", playerMatchStatMutableColumns, "updated_at = NOW()")
	affected := 0
	for _, batch := range chunk(rows, upsertChunkSize) {
		query, args, err := qb.InsertModels("player_match_stats", batch, suffix)
		if err != nil {
			return affected, fmt.Errorf("build upsert player match stats query: %w", err)
		}
		res, err := executor(ctx, r.db).ExecContext(ctx, query, args...)
		if err != nil {
			return affected, fmt.Errorf("upsert player match stats: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return affected, fmt.Errorf("upsert player match stats rows affected: %w", err)
		}
		affected += int(n)
	}

	return affected, nil
}
