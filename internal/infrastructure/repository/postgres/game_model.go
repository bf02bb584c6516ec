package postgres

import (
	"database/sql"
	"time"

	"github.com/hooplabs/nba-sync/internal/domain/game"
)

type gameTableModel struct {
	ID             int64         `db:"id"`
	Provider       string        `db:"provider"`
	ProviderGameID string        `db:"provider_game_id"`
	Season         int           `db:"season"`
	DateTimeUTC    time.Time     `db:"date_time_utc"`
	TimeConfirmed  bool          `db:"time_confirmed"`
	Status         string        `db:"status"`
	HomeTeamID     int64         `db:"home_team_id"`
	AwayTeamID     int64         `db:"away_team_id"`
	HomeScore      sql.NullInt64 `db:"home_score"`
	AwayScore      sql.NullInt64 `db:"away_score"`
	MarketEventID  string        `db:"market_event_id"`
	CreatedAt      time.Time     `db:"created_at"`
	UpdatedAt      time.Time     `db:"updated_at"`
}

type gameInsertModel struct {
	Provider       string        `db:"provider"`
	ProviderGameID string        `db:"provider_game_id"`
	Season         int           `db:"season"`
	DateTimeUTC    time.Time     `db:"date_time_utc"`
	TimeConfirmed  bool          `db:"time_confirmed"`
	Status         string        `db:"status"`
	HomeTeamID     int64         `db:"home_team_id"`
	AwayTeamID     int64         `db:"away_team_id"`
	HomeScore      sql.NullInt64 `db:"home_score"`
	AwayScore      sql.NullInt64 `db:"away_score"`
	MarketEventID  string        `db:"market_event_id"`
}

func mapGameRow(row gameTableModel) game.Game {
	return game.Game{
		ID:             row.ID,
		Provider:       row.Provider,
		ProviderGameID: row.ProviderGameID,
		Season:         row.Season,
		DateTimeUTC:    row.DateTimeUTC,
		TimeConfirmed:  row.TimeConfirmed,
		Status:         row.Status,
		HomeTeamID:     row.HomeTeamID,
		AwayTeamID:     row.AwayTeamID,
		HomeScore:      nullInt64ToIntPtr(row.HomeScore),
		AwayScore:      nullInt64ToIntPtr(row.AwayScore),
		MarketEventID:  row.MarketEventID,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}
}
