package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/hooplabs/nba-sync/internal/domain/playerstats"
	qb "github.com/hooplabs/nba-sync/internal/platform/querybuilder"
)

type PlayerStatsRepository struct {
	db *sqlx.DB
}

func NewPlayerStatsRepository(db *sqlx.DB) *PlayerStatsRepository {
	return &PlayerStatsRepository{db: db}
}

// Upsert replaces a player line by (game_id, player_id). Unlike team
// lines the whole line comes from a single feed, so a replay overwrites
// in full.
func (r *PlayerStatsRepository) Upsert(ctx context.Context, s playerstats.PlayerGameStat) (int64, error) {
	if err := s.Validate(); err != nil {
		return 0, err
	}

	insertModel := playerStatInsertModel{
		GameID:            s.GameID,
		PlayerID:          s.PlayerID,
		TeamID:            s.TeamID,
		Minutes:           floatPtrToNullFloat64(s.Minutes),
		Points:            intPtrToNullInt64(s.Points),
		FieldGoalsMade:    intPtrToNullInt64(s.FieldGoalsMade),
		FieldGoalsAtt:     intPtrToNullInt64(s.FieldGoalsAtt),
		ThreePointersMade: intPtrToNullInt64(s.ThreePointersMade),
		ThreePointersAtt:  intPtrToNullInt64(s.ThreePointersAtt),
		FreeThrowsMade:    intPtrToNullInt64(s.FreeThrowsMade),
		FreeThrowsAtt:     intPtrToNullInt64(s.FreeThrowsAtt),
		ReboundsOffensive: intPtrToNullInt64(s.ReboundsOffensive),
		ReboundsDefensive: intPtrToNullInt64(s.ReboundsDefensive),
		ReboundsTotal:     intPtrToNullInt64(s.ReboundsTotal),
		Assists:           intPtrToNullInt64(s.Assists),
		Steals:            intPtrToNullInt64(s.Steals),
		Blocks:            intPtrToNullInt64(s.Blocks),
		Turnovers:         intPtrToNullInt64(s.Turnovers),
		FoulsPersonal:     intPtrToNullInt64(s.FoulsPersonal),
		PlusMinus:         intPtrToNullInt64(s.PlusMinus),
		Starter:           boolPtrToNullBool(s.Starter),
		DidNotPlayReason:  s.DidNotPlayReason,
	}
	query, args, err := qb.InsertModel("player_game_stats", insertModel, `ON CONFLICT (game_id, player_id)
DO UPDATE SET team_id = EXCLUDED.team_id,
	minutes = EXCLUDED.minutes,
	points = EXCLUDED.points,
	field_goals_made = EXCLUDED.field_goals_made,
	field_goals_att = EXCLUDED.field_goals_att,
	three_pointers_made = EXCLUDED.three_pointers_made,
	three_pointers_att = EXCLUDED.three_pointers_att,
	free_throws_made = EXCLUDED.free_throws_made,
	free_throws_att = EXCLUDED.free_throws_att,
	rebounds_offensive = EXCLUDED.rebounds_offensive,
	rebounds_defensive = EXCLUDED.rebounds_defensive,
	rebounds_total = EXCLUDED.rebounds_total,
	assists = EXCLUDED.assists,
	steals = EXCLUDED.steals,
	blocks = EXCLUDED.blocks,
	turnovers = EXCLUDED.turnovers,
	fouls_personal = EXCLUDED.fouls_personal,
	plus_minus = EXCLUDED.plus_minus,
	starter = EXCLUDED.starter,
	did_not_play_reason = EXCLUDED.did_not_play_reason,
	updated_at = NOW()
RETURNING id`)
	if err != nil {
		return 0, fmt.Errorf("build upsert player stat query: %w", err)
	}

	var id int64
	if err := r.db.GetContext(ctx, &id, query, args...); err != nil {
		return 0, fmt.Errorf("upsert player stat game_id=%d player_id=%d: %w", s.GameID, s.PlayerID, err)
	}

	return id, nil
}

func (r *PlayerStatsRepository) ListByGame(ctx context.Context, gameID int64) ([]playerstats.PlayerGameStat, error) {
	return r.list(ctx, qb.Eq("game_id", gameID))
}

func (r *PlayerStatsRepository) ListByPlayer(ctx context.Context, playerID int64) ([]playerstats.PlayerGameStat, error) {
	return r.list(ctx, qb.Eq("player_id", playerID))
}

func (r *PlayerStatsRepository) list(ctx context.Context, cond qb.Condition) ([]playerstats.PlayerGameStat, error) {
	query, args, err := qb.Select("*").From("player_game_stats").
		Where(cond).
		OrderBy("game_id", "player_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select player stats query: %w", err)
	}

	var rows []playerStatTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select player stats: %w", err)
	}

	out := make([]playerstats.PlayerGameStat, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapPlayerStatRow(row))
	}

	return out, nil
}
