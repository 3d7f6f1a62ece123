package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/football-stats/internal/domain/team"
	qb "github.com/riskibarqy/football-stats/internal/platform/querybuilder"
)

var teamSelectColumns = []string{"id", "title", "external_id", "logo_url", "last_updated"}

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) Upsert(ctx context.Context, items []team.Team) (int, error) {
	items = dedupeBy(items, func(item team.Team) string { return item.ExternalID })
	if len(items) == 0 {
		return 0, nil
	}

	rows := make([]teamInsertModel, 0, len(items))
	for _, item := range items {
		rows = append(rows, teamInsertModel{
			Title:      item.Title,
			ExternalID: item.ExternalID,
			LogoURL:    nullableString(item.LogoURL),
		})
	}

	suffix := qb.UpsertSuffix("external_id", []string{"title", "logo_url"}, "last_updated = NOW()")
	affected := 0
	for _, batch := range chunk(rows, upsertChunkSize) {
		query, args, err := qb.InsertModels("teams", batch, suffix)
		if err != nil {
			return affected, fmt.Errorf("build upsert teams query: %w", err)
		}
		res, err := executor(ctx, r.db).ExecContext(ctx, query, args...)
		if err != nil {
			return affected, fmt.Errorf("upsert teams: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return affected, fmt.Errorf("upsert teams rows affected: %w", err)
		}
		affected += int(n)
	}

	return affected, nil
}

func (r *TeamRepository) List(ctx context.Context, offset, limit int) ([]team.Team, error) {
	query, args, err := qb.Select(teamSelectColumns...).
		From("teams").
		OrderBy("title", "id").
		Offset(offset).
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select teams query: %w", err)
	}

	var rows []teamTableModel
	if err := sqlx.SelectContext(ctx, executor(ctx, r.db), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select teams: %w", err)
	}

	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, teamFromRow(row))
	}
	return out, nil
}

func (r *TeamRepository) GetByTitle(ctx context.Context, title string) (team.Team, bool, error) {
	query, args, err := qb.Select(teamSelectColumns...).
		From("teams").
		Where(qb.Eq("title", title)).
		OrderBy("id").
		Limit(1).
		ToSQL()
	if err != nil {
		return team.Team{}, false, fmt.Errorf("build get team by title query: %w", err)
	}

	var row teamTableModel
	if err := sqlx.GetContext(ctx, executor(ctx, r.db), &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, fmt.Errorf("get team by title: %w", err)
	}

	return teamFromRow(row), true, nil
}

func (r *TeamRepository) ExternalIDMap(ctx context.Context) (map[string]int64, error) {
	query, args, err := qb.Select("external_id", "id").From("teams").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select team external ids query: %w", err)
	}

	var rows []externalIDRow
	if err := sqlx.SelectContext(ctx, executor(ctx, r.db), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select team external ids: %w", err)
	}

	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.ExternalID] = row.ID
	}
	return out, nil
}

// ListPlayers returns every player that has a stat line for the team.
func (r *TeamRepository) ListPlayers(ctx context.Context, teamID int64) ([]team.Player, error) {
	query, args, err := qb.Select("p.id", "p.name", "p.country").
		Distinct().
		From("players p").
		Join("player_match_stats s", "s.player_id = p.id").
		Where(qb.Eq("s.team_id", teamID)).
		OrderBy("p.name", "p.id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select team players query: %w", err)
	}

	var rows []teamPlayerRow
	if err := sqlx.SelectContext(ctx, executor(ctx, r.db), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select team players team_id=%d: %w", teamID, err)
	}

	out := make([]team.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, team.Player{
			ID:      row.ID,
			Name:    row.Name,
			Country: nullStringValue(row.Country),
		})
	}
	return out, nil
}

func teamFromRow(row teamTableModel) team.Team {
	return team.Team{
		ID:          row.ID,
		Title:       row.Title,
		ExternalID:  row.ExternalID,
		LogoURL:     nullStringValue(row.LogoURL),
		LastUpdated: row.LastUpdated,
	}
}
