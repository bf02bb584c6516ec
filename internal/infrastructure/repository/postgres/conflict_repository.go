package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/hooplabs/nba-sync/internal/domain/conflict"
	qb "github.com/hooplabs/nba-sync/internal/platform/querybuilder"
)

// ConflictRepository is append-only: no update or delete paths exist.
type ConflictRepository struct {
	db *sqlx.DB
}

func NewConflictRepository(db *sqlx.DB) *ConflictRepository {
	return &ConflictRepository{db: db}
}

func (r *ConflictRepository) Insert(ctx context.Context, c conflict.Conflict) (int64, error) {
	if err := c.Validate(); err != nil {
		return 0, err
	}

	insertModel := conflictInsertModel{
		Type:     c.Type,
		PlayerID: int64PtrToNullInt64(c.PlayerID),
		Details:  c.Details,
	}
	if c.Season != nil {
		insertModel.Season = sql.NullInt64{Int64: int64(*c.Season), Valid: true}
	}
	if c.JobID != nil {
		insertModel.JobID = sql.NullString{String: *c.JobID, Valid: true}
	}

	query, args, err := qb.InsertModel("conflicts", insertModel, "RETURNING id")
	if err != nil {
		return 0, fmt.Errorf("build insert conflict query: %w", err)
	}

	var id int64
	if err := r.db.GetContext(ctx, &id, query, args...); err != nil {
		return 0, fmt.Errorf("insert conflict type=%s: %w", c.Type, err)
	}

	return id, nil
}

func (r *ConflictRepository) ListByType(ctx context.Context, conflictType string, limit int) ([]conflict.Conflict, error) {
	builder := qb.Select("*").From("conflicts")
	if conflictType != "" {
		builder = builder.Where(qb.Eq("type", conflictType))
	}
	query, args, err := builder.OrderBy("id DESC").Limit(limit).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select conflicts query: %w", err)
	}

	var rows []conflictTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select conflicts type=%s: %w", conflictType, err)
	}

	out := make([]conflict.Conflict, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapConflictRow(row))
	}

	return out, nil
}

func (r *ConflictRepository) ListByPlayer(ctx context.Context, playerID int64) ([]conflict.Conflict, error) {
	query, args, err := qb.Select("*").From("conflicts").
		Where(qb.Eq("player_id", playerID)).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select conflicts by player query: %w", err)
	}

	var rows []conflictTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select conflicts player_id=%d: %w", playerID, err)
	}

	out := make([]conflict.Conflict, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapConflictRow(row))
	}

	return out, nil
}
