package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/hooplabs/nba-sync/internal/domain/team"
	qb "github.com/hooplabs/nba-sync/internal/platform/querybuilder"
)

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) Upsert(ctx context.Context, t team.Team) (int64, error) {
	if err := t.Validate(); err != nil {
		return 0, err
	}

	insertModel := teamInsertModel{
		Provider:       t.Provider,
		ProviderTeamID: t.ProviderTeamID,
		Abbrev:         t.Abbrev,
		Name:           t.Name,
	}
	query, args, err := qb.InsertModel("teams", insertModel, `ON CONFLICT (provider, provider_team_id)
DO UPDATE SET abbrev = EXCLUDED.abbrev,
	name = EXCLUDED.name,
	updated_at = NOW()
RETURNING id`)
	if err != nil {
		return 0, fmt.Errorf("build upsert team query: %w", err)
	}

	var id int64
	if err := r.db.GetContext(ctx, &id, query, args...); err != nil {
		return 0, fmt.Errorf("upsert team provider_team_id=%s: %w", t.ProviderTeamID, err)
	}

	return id, nil
}

func (r *TeamRepository) GetByProviderID(ctx context.Context, provider, providerTeamID string) (team.Team, bool, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(
			qb.Eq("provider", provider),
			qb.Eq("provider_team_id", providerTeamID),
		).
		ToSQL()
	if err != nil {
		return team.Team{}, false, fmt.Errorf("build select team query: %w", err)
	}

	var row teamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, fmt.Errorf("select team provider_team_id=%s: %w", providerTeamID, err)
	}

	return mapTeamRow(row), true, nil
}

func (r *TeamRepository) List(ctx context.Context, provider string) ([]team.Team, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(qb.Eq("provider", provider)).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select teams query: %w", err)
	}

	var rows []teamTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select teams provider=%s: %w", provider, err)
	}

	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapTeamRow(row))
	}

	return out, nil
}

func mapTeamRow(row teamTableModel) team.Team {
	return team.Team{
		ID:             row.ID,
		Provider:       row.Provider,
		ProviderTeamID: row.ProviderTeamID,
		Abbrev:         row.Abbrev,
		Name:           row.Name,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}
}
