package postgres

import (
	"database/sql"
	"time"

	"github.com/hooplabs/nba-sync/internal/domain/playerstats"
)

type playerStatTableModel struct {
	ID                int64           `db:"id"`
	GameID            int64           `db:"game_id"`
	PlayerID          int64           `db:"player_id"`
	TeamID            int64           `db:"team_id"`
	Minutes           sql.NullFloat64 `db:"minutes"`
	Points            sql.NullInt64   `db:"points"`
	FieldGoalsMade    sql.NullInt64   `db:"field_goals_made"`
	FieldGoalsAtt     sql.NullInt64   `db:"field_goals_att"`
	ThreePointersMade sql.NullInt64   `db:"three_pointers_made"`
	ThreePointersAtt  sql.NullInt64   `db:"three_pointers_att"`
	FreeThrowsMade    sql.NullInt64   `db:"free_throws_made"`
	FreeThrowsAtt     sql.NullInt64   `db:"free_throws_att"`
	ReboundsOffensive sql.NullInt64   `db:"rebounds_offensive"`
	ReboundsDefensive sql.NullInt64   `db:"rebounds_defensive"`
	ReboundsTotal     sql.NullInt64   `db:"rebounds_total"`
	Assists           sql.NullInt64   `db:"assists"`
	Steals            sql.NullInt64   `db:"steals"`
	Blocks            sql.NullInt64   `db:"blocks"`
	Turnovers         sql.NullInt64   `db:"turnovers"`
	FoulsPersonal     sql.NullInt64   `db:"fouls_personal"`
	PlusMinus         sql.NullInt64   `db:"plus_minus"`
	Starter           sql.NullBool    `db:"starter"`
	DidNotPlayReason  string          `db:"did_not_play_reason"`
	CreatedAt         time.Time       `db:"created_at"`
	UpdatedAt         time.Time       `db:"updated_at"`
}

type playerStatInsertModel struct {
	GameID            int64           `db:"game_id"`
	PlayerID          int64           `db:"player_id"`
	TeamID            int64           `db:"team_id"`
	Minutes           sql.NullFloat64 `db:"minutes"`
	Points            sql.NullInt64   `db:"points"`
	FieldGoalsMade    sql.NullInt64   `db:"field_goals_made"`
	FieldGoalsAtt     sql.NullInt64   `db:"field_goals_att"`
	ThreePointersMade sql.NullInt64   `db:"three_pointers_made"`
	ThreePointersAtt  sql.NullInt64   `db:"three_pointers_att"`
	FreeThrowsMade    sql.NullInt64   `db:"free_throws_made"`
	FreeThrowsAtt     sql.NullInt64   `db:"free_throws_att"`
	ReboundsOffensive sql.NullInt64   `db:"rebounds_offensive"`
	ReboundsDefensive sql.NullInt64   `db:"rebounds_defensive"`
	ReboundsTotal     sql.NullInt64   `db:"rebounds_total"`
	Assists           sql.NullInt64   `db:"assists"`
	Steals            sql.NullInt64   `db:"steals"`
	Blocks            sql.NullInt64   `db:"blocks"`
	Turnovers         sql.NullInt64   `db:"turnovers"`
	FoulsPersonal     sql.NullInt64   `db:"fouls_personal"`
	PlusMinus         sql.NullInt64   `db:"plus_minus"`
	Starter           sql.NullBool    `db:"starter"`
	DidNotPlayReason  string          `db:"did_not_play_reason"`
}

func mapPlayerStatRow(row playerStatTableModel) playerstats.PlayerGameStat {
	return playerstats.PlayerGameStat{
		ID:                row.ID,
		GameID:            row.GameID,
		PlayerID:          row.PlayerID,
		TeamID:            row.TeamID,
		Minutes:           nullFloat64ToFloatPtr(row.Minutes),
		Points:            nullInt64ToIntPtr(row.Points),
		FieldGoalsMade:    nullInt64ToIntPtr(row.FieldGoalsMade),
		FieldGoalsAtt:     nullInt64ToIntPtr(row.FieldGoalsAtt),
		ThreePointersMade: nullInt64ToIntPtr(row.ThreePointersMade),
		ThreePointersAtt:  nullInt64ToIntPtr(row.ThreePointersAtt),
		FreeThrowsMade:    nullInt64ToIntPtr(row.FreeThrowsMade),
		FreeThrowsAtt:     nullInt64ToIntPtr(row.FreeThrowsAtt),
		ReboundsOffensive: nullInt64ToIntPtr(row.ReboundsOffensive),
		ReboundsDefensive: nullInt64ToIntPtr(row.ReboundsDefensive),
		ReboundsTotal:     nullInt64ToIntPtr(row.ReboundsTotal),
		Assists:           nullInt64ToIntPtr(row.Assists),
		Steals:            nullInt64ToIntPtr(row.Steals),
		Blocks:            nullInt64ToIntPtr(row.Blocks),
		Turnovers:         nullInt64ToIntPtr(row.Turnovers),
		FoulsPersonal:     nullInt64ToIntPtr(row.FoulsPersonal),
		PlusMinus:         nullInt64ToIntPtr(row.PlusMinus),
		Starter:           nullBoolToBoolPtr(row.Starter),
		DidNotPlayReason:  row.DidNotPlayReason,
		CreatedAt:         row.CreatedAt,
		UpdatedAt:         row.UpdatedAt,
	}
}
