package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/hooplabs/nba-sync/internal/domain/seasonteam"
	qb "github.com/hooplabs/nba-sync/internal/platform/querybuilder"
)

type SeasonTeamRepository struct {
	db *sqlx.DB
}

func NewSeasonTeamRepository(db *sqlx.DB) *SeasonTeamRepository {
	return &SeasonTeamRepository{db: db}
}

func (r *SeasonTeamRepository) GetActive(ctx context.Context, playerID int64, season int) (seasonteam.Assignment, bool, error) {
	query, args, err := qb.Select("*").From("player_season_teams").
		Where(
			qb.Eq("player_id", playerID),
			qb.Eq("season", season),
			qb.IsNull("to_utc"),
		).
		ToSQL()
	if err != nil {
		return seasonteam.Assignment{}, false, fmt.Errorf("build select active assignment query: %w", err)
	}

	var row seasonTeamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return seasonteam.Assignment{}, false, nil
		}
		return seasonteam.Assignment{}, false, fmt.Errorf("select active assignment player_id=%d season=%d: %w", playerID, season, err)
	}

	return mapSeasonTeamRow(row), true, nil
}

func (r *SeasonTeamRepository) Insert(ctx context.Context, a seasonteam.Assignment) (int64, error) {
	if err := a.Validate(); err != nil {
		return 0, err
	}

	insertModel := seasonTeamInsertModel{
		PlayerID: a.PlayerID,
		Season:   a.Season,
		TeamID:   a.TeamID,
		FromUTC:  a.FromUTC.UTC(),
		ToUTC:    timePtrToNullTime(a.ToUTC),
	}
	query, args, err := qb.InsertModel("player_season_teams", insertModel, "RETURNING id")
	if err != nil {
		return 0, fmt.Errorf("build insert assignment query: %w", err)
	}

	var id int64
	if err := r.db.GetContext(ctx, &id, query, args...); err != nil {
		return 0, fmt.Errorf("insert assignment player_id=%d season=%d: %w", a.PlayerID, a.Season, err)
	}

	return id, nil
}

func (r *SeasonTeamRepository) Close(ctx context.Context, id int64, at time.Time) error {
	query, args, err := qb.Update("player_season_teams").
		Set("to_utc", at.UTC()).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("id", id),
			qb.IsNull("to_utc"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build close assignment query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("close assignment id=%d: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected close assignment: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("assignment id=%d is not open", id)
	}

	return nil
}

func (r *SeasonTeamRepository) ListByPlayer(ctx context.Context, playerID int64) ([]seasonteam.Assignment, error) {
	return r.list(ctx, qb.Eq("player_id", playerID))
}

func (r *SeasonTeamRepository) ListBySeason(ctx context.Context, season int) ([]seasonteam.Assignment, error) {
	return r.list(ctx, qb.Eq("season", season))
}

func (r *SeasonTeamRepository) list(ctx context.Context, cond qb.Condition) ([]seasonteam.Assignment, error) {
	query, args, err := qb.Select("*").From("player_season_teams").
		Where(cond).
		OrderBy("from_utc", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select assignments query: %w", err)
	}

	var rows []seasonTeamTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select assignments: %w", err)
	}

	out := make([]seasonteam.Assignment, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapSeasonTeamRow(row))
	}

	return out, nil
}
