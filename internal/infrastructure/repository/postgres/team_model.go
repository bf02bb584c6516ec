package postgres

import "time"

type teamTableModel struct {
	ID             int64     `db:"id"`
	Provider       string    `db:"provider"`
	ProviderTeamID string    `db:"provider_team_id"`
	Abbrev         string    `db:"abbrev"`
	Name           string    `db:"name"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

type teamInsertModel struct {
	Provider       string `db:"provider"`
	ProviderTeamID string `db:"provider_team_id"`
	Abbrev         string `db:"abbrev"`
	Name           string `db:"name"`
}
