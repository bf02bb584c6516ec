package postgres

import (
	"database/sql"
	"time"

	"github.com/hooplabs/nba-sync/internal/domain/injury"
)

type injuryReportTableModel struct {
	ID         int64     `db:"id"`
	SourceURL  string    `db:"source_url"`
	ReportDate string    `db:"report_date"`
	ReportTime string    `db:"report_time"`
	FetchedAt  time.Time `db:"fetched_at"`
	CreatedAt  time.Time `db:"created_at"`
}

type injuryReportInsertModel struct {
	SourceURL  string    `db:"source_url"`
	ReportDate string    `db:"report_date"`
	ReportTime string    `db:"report_time"`
	FetchedAt  time.Time `db:"fetched_at"`
}

type injuryEntryTableModel struct {
	ID         int64         `db:"id"`
	ReportID   int64         `db:"report_id"`
	GameDate   string        `db:"game_date"`
	GameTime   string        `db:"game_time"`
	Matchup    string        `db:"matchup"`
	TeamAbbrev string        `db:"team_abbrev"`
	PlayerName string        `db:"player_name"`
	TeamID     sql.NullInt64 `db:"team_id"`
	PlayerID   sql.NullInt64 `db:"player_id"`
	Status     string        `db:"status"`
	Reason     string        `db:"reason"`
	CreatedAt  time.Time     `db:"created_at"`
	UpdatedAt  time.Time     `db:"updated_at"`
}

type injuryEntryInsertModel struct {
	ReportID   int64         `db:"report_id"`
	GameDate   string        `db:"game_date"`
	GameTime   string        `db:"game_time"`
	Matchup    string        `db:"matchup"`
	TeamAbbrev string        `db:"team_abbrev"`
	PlayerName string        `db:"player_name"`
	TeamID     sql.NullInt64 `db:"team_id"`
	PlayerID   sql.NullInt64 `db:"player_id"`
	Status     string        `db:"status"`
	Reason     string        `db:"reason"`
}

func mapInjuryReportRow(row injuryReportTableModel) injury.Report {
	return injury.Report{
		ID:         row.ID,
		SourceURL:  row.SourceURL,
		ReportDate: row.ReportDate,
		ReportTime: row.ReportTime,
		FetchedAt:  row.FetchedAt,
		CreatedAt:  row.CreatedAt,
	}
}

func mapInjuryEntryRow(row injuryEntryTableModel) injury.Entry {
	return injury.Entry{
		ID:         row.ID,
		ReportID:   row.ReportID,
		GameDate:   row.GameDate,
		GameTime:   row.GameTime,
		Matchup:    row.Matchup,
		TeamAbbrev: row.TeamAbbrev,
		PlayerName: row.PlayerName,
		TeamID:     nullInt64ToInt64Ptr(row.TeamID),
		PlayerID:   nullInt64ToInt64Ptr(row.PlayerID),
		Status:     row.Status,
		Reason:     row.Reason,
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
	}
}
