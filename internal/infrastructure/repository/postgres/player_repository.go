package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/football-stats/internal/domain/player"
	qb "github.com/riskibarqy/football-stats/internal/platform/querybuilder"
)

type PlayerRepository struct {
	db *sqlx.DB
}

func NewPlayerRepository(db *sqlx.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

// Upsert refreshes name and country. birth_date is only set on insert.
func (r *PlayerRepository) Upsert(ctx context.Context, items []player.Player) (int, error) {
	items = dedupeBy(items, func(item player.Player) string { return item.ExternalID })
	if len(items) == 0 {
		return 0, nil
	}

	rows := make([]playerInsertModel, 0, len(items))
	for _, item := range items {
		var birthDate *string
		if item.BirthDate != nil {
			value := item.BirthDate.Format(matchDateLayout)
			birthDate = &value
		}
		rows = append(rows, playerInsertModel{
			Name:       item.Name,
			ExternalID: item.ExternalID,
			BirthDate:  birthDate,
			Country:    nullableString(item.Country),
		})
	}

	suffix := qb.UpsertSuffix("external_id", []string{"name", "country"}, "updated_at = NOW()")
	affected := 0
	for _, batch := range chunk(rows, upsertChunkSize) {
		query, args, err := qb.InsertModels("players", batch, suffix)
		if err != nil {
			return affected, fmt.Errorf("build upsert players query: %w", err)
		}
		res, err := executor(ctx, r.db).ExecContext(ctx, query, args...)
		if err != nil {
			return affected, fmt.Errorf("upsert players: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return affected, fmt.Errorf("upsert players rows affected: %w", err)
		}
		affected += int(n)
	}

	return affected, nil
}

// ExternalIDMap resolves the given external ids. Unknown ids are absent from the result.
func (r *PlayerRepository) ExternalIDMap(ctx context.Context, externalIDs []string) (map[string]int64, error) {
	if len(externalIDs) == 0 {
		return map[string]int64{}, nil
	}

	query, args, err := qb.Select("external_id", "id").
		From("players").
		Where(qb.In("external_id", qb.AnySlice(externalIDs))).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select player external ids query: %w", err)
	}

	var rows []externalIDRow
	if err := sqlx.SelectContext(ctx, executor(ctx, r.db), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select player external ids: %w", err)
	}

	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.ExternalID] = row.ID
	}
	return out, nil
}
