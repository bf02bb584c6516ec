package postgres

import (
	"database/sql"
	"time"

	"github.com/hooplabs/nba-sync/internal/domain/seasonteam"
)

type seasonTeamTableModel struct {
	ID        int64        `db:"id"`
	PlayerID  int64        `db:"player_id"`
	Season    int          `db:"season"`
	TeamID    int64        `db:"team_id"`
	FromUTC   time.Time    `db:"from_utc"`
	ToUTC     sql.NullTime `db:"to_utc"`
	CreatedAt time.Time    `db:"created_at"`
	UpdatedAt time.Time    `db:"updated_at"`
}

type seasonTeamInsertModel struct {
	PlayerID int64        `db:"player_id"`
	Season   int          `db:"season"`
	TeamID   int64        `db:"team_id"`
	FromUTC  time.Time    `db:"from_utc"`
	ToUTC    sql.NullTime `db:"to_utc"`
}

func mapSeasonTeamRow(row seasonTeamTableModel) seasonteam.Assignment {
	return seasonteam.Assignment{
		ID:        row.ID,
		PlayerID:  row.PlayerID,
		Season:    row.Season,
		TeamID:    row.TeamID,
		FromUTC:   row.FromUTC,
		ToUTC:     nullTimeToTimePtr(row.ToUTC),
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}
