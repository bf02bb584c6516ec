package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/hooplabs/nba-sync/internal/domain/teamstats"
	qb "github.com/hooplabs/nba-sync/internal/platform/querybuilder"
)

type TeamStatsRepository struct {
	db *sqlx.DB
}

func NewTeamStatsRepository(db *sqlx.DB) *TeamStatsRepository {
	return &TeamStatsRepository{db: db}
}

// Upsert merges a team line by (game_id, team_id). Every stat column
// COALESCEs against the stored row, so a points-only scoreboard line and
// a later full box score accumulate instead of clobbering each other.
func (r *TeamStatsRepository) Upsert(ctx context.Context, s teamstats.TeamGameStat) (int64, error) {
	if err := s.Validate(); err != nil {
		return 0, err
	}

	insertModel := teamStatInsertModel{
		GameID:            s.GameID,
		TeamID:            s.TeamID,
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
		OffensiveRating:   floatPtrToNullFloat64(s.OffensiveRating),
		DefensiveRating:   floatPtrToNullFloat64(s.DefensiveRating),
		Pace:              floatPtrToNullFloat64(s.Pace),
	}
	query, args, err := qb.InsertModel("team_game_stats", insertModel, `ON CONFLICT (game_id, team_id)
DO UPDATE SET points = COALESCE(EXCLUDED.points, team_game_stats.points),
	field_goals_made = COALESCE(EXCLUDED.field_goals_made, team_game_stats.field_goals_made),
	field_goals_att = COALESCE(EXCLUDED.field_goals_att, team_game_stats.field_goals_att),
	three_pointers_made = COALESCE(EXCLUDED.three_pointers_made, team_game_stats.three_pointers_made),
	three_pointers_att = COALESCE(EXCLUDED.three_pointers_att, team_game_stats.three_pointers_att),
	free_throws_made = COALESCE(EXCLUDED.free_throws_made, team_game_stats.free_throws_made),
	free_throws_att = COALESCE(EXCLUDED.free_throws_att, team_game_stats.free_throws_att),
	rebounds_offensive = COALESCE(EXCLUDED.rebounds_offensive, team_game_stats.rebounds_offensive),
	rebounds_defensive = COALESCE(EXCLUDED.rebounds_defensive, team_game_stats.rebounds_defensive),
	rebounds_total = COALESCE(EXCLUDED.rebounds_total, team_game_stats.rebounds_total),
	assists = COALESCE(EXCLUDED.assists, team_game_stats.assists),
	steals = COALESCE(EXCLUDED.steals, team_game_stats.steals),
	blocks = COALESCE(EXCLUDED.blocks, team_game_stats.blocks),
	turnovers = COALESCE(EXCLUDED.turnovers, team_game_stats.turnovers),
	fouls_personal = COALESCE(EXCLUDED.fouls_personal, team_game_stats.fouls_personal),
	offensive_rating = COALESCE(EXCLUDED.offensive_rating, team_game_stats.offensive_rating),
	defensive_rating = COALESCE(EXCLUDED.defensive_rating, team_game_stats.defensive_rating),
	pace = COALESCE(EXCLUDED.pace, team_game_stats.pace),
	updated_at = NOW()
RETURNING id`)
	if err != nil {
		return 0, fmt.Errorf("build upsert team stat query: %w", err)
	}

	var id int64
	if err := r.db.GetContext(ctx, &id, query, args...); err != nil {
		return 0, fmt.Errorf("upsert team stat game_id=%d team_id=%d: %w", s.GameID, s.TeamID, err)
	}

	return id, nil
}

func (r *TeamStatsRepository) ListByGame(ctx context.Context, gameID int64) ([]teamstats.TeamGameStat, error) {
	query, args, err := qb.Select("*").From("team_game_stats").
		Where(qb.Eq("game_id", gameID)).
		OrderBy("team_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select team stats query: %w", err)
	}

	var rows []teamStatTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select team stats game_id=%d: %w", gameID, err)
	}

	out := make([]teamstats.TeamGameStat, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapTeamStatRow(row))
	}

	return out, nil
}
