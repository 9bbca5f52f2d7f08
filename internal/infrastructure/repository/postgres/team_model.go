package postgres

import "database/sql"

type teamInsertModel struct {
	ID      int64         `db:"id"`
	Name    string        `db:"name"`
	LogoURL string        `db:"logo_url"`
	Country string        `db:"country"`
	Venue   string        `db:"venue"`
	Founded sql.NullInt32 `db:"founded"`
}
