package postgres

type playerInsertModel struct {
	Name       string  `db:"name"`
	ExternalID string  `db:"external_id"`
	BirthDate  *string `db:"birth_date"`
	Country    *string `db:"country"`
}
