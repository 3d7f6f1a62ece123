package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/football-stats/internal/domain/league"
	qb "github.com/riskibarqy/football-stats/internal/platform/querybuilder"
)

type LeagueRepository struct {
	db *sqlx.DB
}

func NewLeagueRepository(db *sqlx.DB) *LeagueRepository {
	return &LeagueRepository{db: db}
}

func (r *LeagueRepository) Upsert(ctx context.Context, items []league.League) (int, error) {
	items = dedupeBy(items, func(item league.League) string { return item.Slug })
	if len(items) == 0 {
		return 0, nil
	}

	rows := make([]leagueInsertModel, 0, len(items))
	for _, item := range items {
		rows = append(rows, leagueInsertModel{
			Title:      item.Title,
			Country:    item.Country,
			Slug:       item.Slug,
			ExternalID: nullableString(item.ExternalID),
		})
	}

	suffix := qb.UpsertSuffix("slug", []string{"title", "country", "external_id"}, "updated_at = NOW()")
	affected := 0
	for _, batch := range chunk(rows, upsertChunkSize) {
		query, args, err := qb.InsertModels("leagues", batch, suffix)
		if err != nil {
			return affected, fmt.Errorf("build upsert leagues query: %w", err)
		}
		res, err := executor(ctx, r.db).ExecContext(ctx, query, args...)
		if err != nil {
			return affected, fmt.Errorf("upsert leagues: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return affected, fmt.Errorf("upsert leagues rows affected: %w", err)
		}
		affected += int(n)
	}

	return affected, nil
}

func (r *LeagueRepository) List(ctx context.Context) ([]league.League, error) {
	query, args, err := qb.Select("id", "title", "country", "slug", "external_id", "created_at", "updated_at").
		From("leagues").
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select leagues query: %w", err)
	}

	var rows []leagueTableModel
	if err := sqlx.SelectContext(ctx, executor(ctx, r.db), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select leagues: %w", err)
	}

	out := make([]league.League, 0, len(rows))
	for _, row := range rows {
		out = append(out, league.League{
			ID:         row.ID,
			Title:      row.Title,
			Country:    row.Country,
			Slug:       row.Slug,
			ExternalID: nullStringValue(row.ExternalID),
		})
	}

	return out, nil
}

func (r *LeagueRepository) Count(ctx context.Context) (int, error) {
	query, args, err := qb.Select("COUNT(1)").From("leagues").ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count leagues query: %w", err)
	}

	var count int
	if err := sqlx.GetContext(ctx, executor(ctx, r.db), &count, query, args...); err != nil {
		return 0, fmt.Errorf("count leagues: %w", err)
	}
	return count, nil
}
