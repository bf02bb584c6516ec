package postgres

import (
	"database/sql"
	"time"

	"github.com/hooplabs/nba-sync/internal/domain/conflict"
)

type conflictTableModel struct {
	ID        int64          `db:"id"`
	Type      string         `db:"type"`
	PlayerID  sql.NullInt64  `db:"player_id"`
	Season    sql.NullInt64  `db:"season"`
	JobID     sql.NullString `db:"job_id"`
	Details   string         `db:"details"`
	CreatedAt time.Time      `db:"created_at"`
}

type conflictInsertModel struct {
	Type     string         `db:"type"`
	PlayerID sql.NullInt64  `db:"player_id"`
	Season   sql.NullInt64  `db:"season"`
	JobID    sql.NullString `db:"job_id"`
	Details  string         `db:"details"`
}

func mapConflictRow(row conflictTableModel) conflict.Conflict {
	c := conflict.Conflict{
		ID:        row.ID,
		Type:      row.Type,
		PlayerID:  nullInt64ToInt64Ptr(row.PlayerID),
		Details:   row.Details,
		CreatedAt: row.CreatedAt,
	}
	if row.Season.Valid {
		season := int(row.Season.Int64)
		c.Season = &season
	}
	if row.JobID.Valid {
		jobID := row.JobID.String
		c.JobID = &jobID
	}
	return c
}
