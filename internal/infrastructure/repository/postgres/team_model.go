package postgres

import (
	"database/sql"
	"time"
)

type teamTableModel struct {
	ID          int64          `db:"id"`
	Title       string         `db:"title"`
	ExternalID  string         `db:"external_id"`
	LogoURL     sql.NullString `db:"logo_url"`
	LastUpdated time.Time      `db:"last_updated"`
}

type teamInsertModel struct {
	Title      string  `db:"title"`
	ExternalID string  `db:"external_id"`
	LogoURL    *string `db:"logo_url"`
}

type teamPlayerRow struct {
	ID      int64          `db:"id"`
	Name    string         `db:"name"`
	Country sql.NullString `db:"country"`
}
