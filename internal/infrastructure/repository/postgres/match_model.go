package postgres

import (
	"database/sql"
	"time"
)

type matchInsertModel struct {
	ExternalID string   `db:"external_id"`
	Date       string   `db:"date"`
	Season     string   `db:"season"`
	LeagueID   int64    `db:"league_id"`
	HomeTeamID int64    `db:"home_team_id"`
	AwayTeamID int64    `db:"away_team_id"`
	HomeScore  *int     `db:"home_score"`
	AwayScore  *int     `db:"away_score"`
	HomeXG     *float64 `db:"home_xg"`
	AwayXG     *float64 `db:"away_xg"`
	IsFinished bool     `db:"is_finished"`
}

type pendingDetailRow struct {
	ID                 int64  `db:"id"`
	ExternalID         string `db:"external_id"`
	HomeTeamID         int64  `db:"home_team_id"`
	AwayTeamID         int64  `db:"away_team_id"`
	HomeTeamExternalID string `db:"home_team_external_id"`
	AwayTeamExternalID string `db:"away_team_external_id"`
}

type teamMatchRow struct {
	ID           int64           `db:"id"`
	Date         time.Time       `db:"date"`
	Season       string          `db:"season"`
	HomeTeamName string          `db:"home_team_name"`
	AwayTeamName string          `db:"away_team_name"`
	HomeScore    sql.NullInt64   `db:"home_score"`
	AwayScore    sql.NullInt64   `db:"away_score"`
	HomeXG       sql.NullFloat64 `db:"home_xg"`
	AwayXG       sql.NullFloat64 `db:"away_xg"`
	IsFinished   bool            `db:"is_finished"`
}
