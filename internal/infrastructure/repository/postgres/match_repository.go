package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/football-stats/internal/domain/match"
	qb "github.com/riskibarqy/football-stats/internal/platform/querybuilder"
)

const matchDateLayout = "2006-01-02"

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

// Upsert never writes details_parsed; only MarkDetailsParsed flips it.
func (r *MatchRepository) Upsert(ctx context.Context, items []match.Match) (int, error) {
	items = dedupeBy(items, func(item match.Match) string { return item.ExternalID })
	if len(items) == 0 {
		return 0, nil
	}

	rows := make([]matchInsertModel, 0, len(items))
	for _, item := range items {
		rows = append(rows, matchInsertModel{
			ExternalID: item.ExternalID,
			Date:       item.Date.Format(matchDateLayout),
			Season:     item.Season,
			LeagueID:   item.LeagueID,
			HomeTeamID: item.HomeTeamID,
			AwayTeamID: item.AwayTeamID,
			HomeScore:  item.HomeScore,
			AwayScore:  item.AwayScore,
			HomeXG:     item.HomeXG,
			AwayXG:     item.AwayXG,
			IsFinished: item.IsFinished,
		})
	}

	suffix := qb.UpsertSuffix(
		"external_id",
		[]string{"date", "home_score", "away_score", "home_xg", "away_xg", "is_finished"},
		"updated_at = NOW()",
	)
	affected := 0
	for _, batch := range chunk(rows, upsertChunkSize) {
		query, args, err := qb.InsertModels("matches", batch, suffix)
		if err != nil {
			return affected, fmt.Errorf("build upsert matches query: %w", err)
		}
		res, err := executor(ctx, r.db).ExecContext(ctx, query, args...)
		if err != nil {
			return affected, fmt.Errorf("upsert matches: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return affected, fmt.Errorf("upsert matches rows affected: %w", err)
		}
		affected += int(n)
	}

	return affected, nil
}

// ListPendingDetails returns finished matches without player stats, oldest first.
func (r *MatchRepository) ListPendingDetails(ctx context.Context, limit int, excludeIDs []int64) ([]match.PendingDetail, error) {
	if limit <= 0 {
		return []match.PendingDetail{}, nil
	}

	query, args, err := qb.Select(
		"m.id",
		"m.external_id",
		"m.home_team_id",
		"m.away_team_id",
		"h.external_id AS home_team_external_id",
		"a.external_id AS away_team_external_id",
	).From("matches m").
		Join("teams h", "h.id = m.home_team_id").
		Join("teams a", "a.id = m.away_team_id").
		Where(
			qb.IsTrue("m.is_finished"),
			qb.IsFalse("m.details_parsed"),
			qb.NotIn("m.id", qb.AnySlice(excludeIDs)),
		).
		OrderBy("m.date", "m.id").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select pending match details query: %w", err)
	}

	var rows []pendingDetailRow
	if err := sqlx.SelectContext(ctx, executor(ctx, r.db), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select pending match details: %w", err)
	}

	out := make([]match.PendingDetail, 0, len(rows))
	for _, row := range rows {
		out = append(out, match.PendingDetail(row))
	}
	return out, nil
}

func (r *MatchRepository) CountPendingDetails(ctx context.Context) (int, error) {
	query, args, err := qb.Select("COUNT(1)").
		From("matches").
		Where(qb.IsTrue("is_finished"), qb.IsFalse("details_parsed")).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count pending match details query: %w", err)
	}

	var count int
	if err := sqlx.GetContext(ctx, executor(ctx, r.db), &count, query, args...); err != nil {
		return 0, fmt.Errorf("count pending match details: %w", err)
	}
	return count, nil
}

func (r *MatchRepository) MarkDetailsParsed(ctx context.Context, matchID int64) error {
	query, args, err := qb.Update("matches").
		Set("details_parsed", true).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("id", matchID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build mark match details parsed query: %w", err)
	}

	res, err := executor(ctx, r.db).ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("mark match details parsed id=%d: %w", matchID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark match details parsed rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("mark match details parsed id=%d: match not found", matchID)
	}
	return nil
}

// ListFinishedByTeam returns the team's finished matches, newest first.
func (r *MatchRepository) ListFinishedByTeam(ctx context.Context, teamID int64, offset, limit int) ([]match.TeamMatch, error) {
	if limit <= 0 {
		return []match.TeamMatch{}, nil
	}

	query, args, err := qb.Select(
		"m.id",
		"m.date",
		"m.season",
		"h.title AS home_team_name",
		"a.title AS away_team_name",
		"m.home_score",
		"m.away_score",
		"m.home_xg",
		"m.away_xg",
		"m.is_finished",
	).From("matches m").
		Join("teams h", "h.id = m.home_team_id").
		Join("teams a", "a.id = m.away_team_id").
		Where(
			qb.Expr("(m.home_team_id = ? OR m.away_team_id = ?)", teamID, teamID),
			qb.IsTrue("m.is_finished"),
		).
		OrderBy("m.date DESC", "m.id DESC").
		Offset(offset).
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select team matches query: %w", err)
	}

	var rows []teamMatchRow
	if err := sqlx.SelectContext(ctx, executor(ctx, r.db), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select team matches team_id=%d: %w", teamID, err)
	}

	out := make([]match.TeamMatch, 0, len(rows))
	for _, row := range rows {
		out = append(out, match.TeamMatch{
			ID:           row.ID,
			Date:         row.Date,
			Season:       row.Season,
			HomeTeamName: row.HomeTeamName,
			AwayTeamName: row.AwayTeamName,
			HomeScore:    nullIntPtr(row.HomeScore),
			AwayScore:    nullIntPtr(row.AwayScore),
			HomeXG:       nullFloatPtr(row.HomeXG),
			AwayXG:       nullFloatPtr(row.AwayXG),
			IsFinished:   row.IsFinished,
		})
	}
	return out, nil
}
