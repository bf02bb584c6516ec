package postgres

import (
	"database/sql"
	"time"

	"github.com/hooplabs/nba-sync/internal/domain/player"
)

type playerTableModel struct {
	ID               int64           `db:"id"`
	Provider         string          `db:"provider"`
	ProviderPlayerID string          `db:"provider_player_id"`
	DisplayName      string          `db:"display_name"`
	FirstName        string          `db:"first_name"`
	LastName         string          `db:"last_name"`
	Position         string          `db:"position"`
	JerseyNumber     string          `db:"jersey_number"`
	HeightCm         sql.NullFloat64 `db:"height_cm"`
	WeightKg         sql.NullFloat64 `db:"weight_kg"`
	BirthDate        sql.NullTime    `db:"birth_date"`
	Country          string          `db:"country"`
	School           string          `db:"school"`
	BioFilledAt      sql.NullTime    `db:"bio_filled_at"`
	CreatedAt        time.Time       `db:"created_at"`
	UpdatedAt        time.Time       `db:"updated_at"`
}

type playerInsertModel struct {
	Provider         string          `db:"provider"`
	ProviderPlayerID string          `db:"provider_player_id"`
	DisplayName      string          `db:"display_name"`
	FirstName        string          `db:"first_name"`
	LastName         string          `db:"last_name"`
	Position         string          `db:"position"`
	JerseyNumber     string          `db:"jersey_number"`
	HeightCm         sql.NullFloat64 `db:"height_cm"`
	WeightKg         sql.NullFloat64 `db:"weight_kg"`
	BirthDate        sql.NullTime    `db:"birth_date"`
	Country          string          `db:"country"`
	School           string          `db:"school"`
	BioFilledAt      sql.NullTime    `db:"bio_filled_at"`
}

func mapPlayerRow(row playerTableModel) player.Player {
	return player.Player{
		ID:               row.ID,
		Provider:         row.Provider,
		ProviderPlayerID: row.ProviderPlayerID,
		DisplayName:      row.DisplayName,
		FirstName:        row.FirstName,
		LastName:         row.LastName,
		Position:         row.Position,
		JerseyNumber:     row.JerseyNumber,
		HeightCm:         nullFloat64ToFloatPtr(row.HeightCm),
		WeightKg:         nullFloat64ToFloatPtr(row.WeightKg),
		BirthDate:        nullTimeToTimePtr(row.BirthDate),
		Country:          row.Country,
		School:           row.School,
		BioFilledAt:      nullTimeToTimePtr(row.BioFilledAt),
		CreatedAt:        row.CreatedAt,
		UpdatedAt:        row.UpdatedAt,
	}
}
