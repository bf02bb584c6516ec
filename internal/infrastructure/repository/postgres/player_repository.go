package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/hooplabs/nba-sync/internal/domain/player"
	qb "github.com/hooplabs/nba-sync/internal/platform/querybuilder"
)

type PlayerRepository struct {
	db *sqlx.DB
}

func NewPlayerRepository(db *sqlx.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

// Upsert writes a player by natural key. Empty and nil incoming fields
// keep whatever the row already holds, so a directory refresh never
// erases enrichment data.
func (r *PlayerRepository) Upsert(ctx context.Context, p player.Player) (int64, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}

	insertModel := playerInsertModel{
		Provider:         p.Provider,
		ProviderPlayerID: p.ProviderPlayerID,
		DisplayName:      p.DisplayName,
		FirstName:        p.FirstName,
		LastName:         p.LastName,
		Position:         p.Position,
		JerseyNumber:     p.JerseyNumber,
		HeightCm:         floatPtrToNullFloat64(p.HeightCm),
		WeightKg:         floatPtrToNullFloat64(p.WeightKg),
		BirthDate:        timePtrToNullTime(p.BirthDate),
		Country:          p.Country,
		School:           p.School,
		BioFilledAt:      timePtrToNullTime(p.BioFilledAt),
	}
	query, args, err := qb.InsertModel("players", insertModel, `ON CONFLICT (provider, provider_player_id)
DO UPDATE SET display_name = EXCLUDED.display_name,
	first_name = COALESCE(NULLIF(EXCLUDED.first_name, ''), players.first_name),
	last_name = COALESCE(NULLIF(EXCLUDED.last_name, ''), players.last_name),
	position = COALESCE(NULLIF(EXCLUDED.position, ''), players.position),
	jersey_number = COALESCE(NULLIF(EXCLUDED.jersey_number, ''), players.jersey_number),
	height_cm = COALESCE(EXCLUDED.height_cm, players.height_cm),
	weight_kg = COALESCE(EXCLUDED.weight_kg, players.weight_kg),
	birth_date = COALESCE(EXCLUDED.birth_date, players.birth_date),
	country = COALESCE(NULLIF(EXCLUDED.country, ''), players.country),
	school = COALESCE(NULLIF(EXCLUDED.school, ''), players.school),
	bio_filled_at = COALESCE(EXCLUDED.bio_filled_at, players.bio_filled_at),
	updated_at = NOW()
RETURNING id`)
	if err != nil {
		return 0, fmt.Errorf("build upsert player query: %w", err)
	}

	var id int64
	if err := r.db.GetContext(ctx, &id, query, args...); err != nil {
		return 0, fmt.Errorf("upsert player provider_player_id=%s: %w", p.ProviderPlayerID, err)
	}

	return id, nil
}

func (r *PlayerRepository) GetByProviderID(ctx context.Context, provider, providerPlayerID string) (player.Player, bool, error) {
	query, args, err := qb.Select("*").From("players").
		Where(
			qb.Eq("provider", provider),
			qb.Eq("provider_player_id", providerPlayerID),
		).
		ToSQL()
	if err != nil {
		return player.Player{}, false, fmt.Errorf("build select player query: %w", err)
	}

	var row playerTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return player.Player{}, false, nil
		}
		return player.Player{}, false, fmt.Errorf("select player provider_player_id=%s: %w", providerPlayerID, err)
	}

	return mapPlayerRow(row), true, nil
}

func (r *PlayerRepository) List(ctx context.Context, provider string) ([]player.Player, error) {
	query, args, err := qb.Select("*").From("players").
		Where(qb.Eq("provider", provider)).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select players query: %w", err)
	}

	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select players provider=%s: %w", provider, err)
	}

	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapPlayerRow(row))
	}

	return out, nil
}

func (r *PlayerRepository) ListMissingBio(ctx context.Context, provider string, limit int) ([]player.Player, error) {
	query, args, err := qb.Select("*").From("players").
		Where(
			qb.Eq("provider", provider),
			qb.IsNull("bio_filled_at"),
		).
		OrderBy("id").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select players missing bio query: %w", err)
	}

	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select players missing bio: %w", err)
	}

	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapPlayerRow(row))
	}

	return out, nil
}
