package postgres

import (
	"database/sql"
	"time"
)

type leagueTableModel struct {
	ID         int64          `db:"id"`
	Title      string         `db:"title"`
	Country    string         `db:"country"`
	Slug       string         `db:"slug"`
	ExternalID sql.NullString `db:"external_id"`
	CreatedAt  time.Time      `db:"created_at"`
	UpdatedAt  time.Time      `db:"updated_at"`
}

type leagueInsertModel struct {
	Title      string  `db:"title"`
	Country    string  `db:"country"`
	Slug       string  `db:"slug"`
	ExternalID *string `db:"external_id"`
}

type externalIDRow struct {
	ExternalID string `db:"external_id"`
	ID         int64  `db:"id"`
}
