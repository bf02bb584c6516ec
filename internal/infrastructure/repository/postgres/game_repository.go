package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/hooplabs/nba-sync/internal/domain/game"
	qb "github.com/hooplabs/nba-sync/internal/platform/querybuilder"
)

type GameRepository struct {
	db *sqlx.DB
}

func NewGameRepository(db *sqlx.DB) *GameRepository {
	return &GameRepository{db: db}
}

// Upsert writes a game by its natural key. The conflict clause enforces
// two monotone rules in SQL so concurrent and replayed syncs cannot
// regress a row: a confirmed tipoff is never overwritten by a
// placeholder, and a finished game never returns to scheduled.
func (r *GameRepository) Upsert(ctx context.Context, g game.Game) (int64, error) {
	if err := g.Validate(); err != nil {
		return 0, err
	}

	insertModel := gameInsertModel{
		Provider:       g.Provider,
		ProviderGameID: g.ProviderGameID,
		Season:         g.Season,
		DateTimeUTC:    g.DateTimeUTC.UTC(),
		TimeConfirmed:  g.TimeConfirmed,
		Status:         g.Status,
		HomeTeamID:     g.HomeTeamID,
		AwayTeamID:     g.AwayTeamID,
		HomeScore:      intPtrToNullInt64(g.HomeScore),
		AwayScore:      intPtrToNullInt64(g.AwayScore),
		MarketEventID:  g.MarketEventID,
	}
	query, args, err := qb.InsertModel("games", insertModel, `ON CONFLICT (provider, provider_game_id)
DO UPDATE SET season = EXCLUDED.season,
	date_time_utc = CASE
		WHEN games.time_confirmed AND NOT EXCLUDED.time_confirmed THEN games.date_time_utc
		ELSE EXCLUDED.date_time_utc
	END,
	time_confirmed = games.time_confirmed OR EXCLUDED.time_confirmed,
	status = CASE
		WHEN games.status = 'finished' THEN games.status
		ELSE EXCLUDED.status
	END,
	home_team_id = EXCLUDED.home_team_id,
	away_team_id = EXCLUDED.away_team_id,
	home_score = COALESCE(EXCLUDED.home_score, games.home_score),
	away_score = COALESCE(EXCLUDED.away_score, games.away_score),
	market_event_id = CASE
		WHEN EXCLUDED.market_event_id <> '' THEN EXCLUDED.market_event_id
		ELSE games.market_event_id
	END,
	updated_at = NOW()
RETURNING id`)
	if err != nil {
		return 0, fmt.Errorf("build upsert game query: %w", err)
	}

	var id int64
	if err := r.db.GetContext(ctx, &id, query, args...); err != nil {
		return 0, fmt.Errorf("upsert game provider_game_id=%s: %w", g.ProviderGameID, err)
	}

	return id, nil
}

func (r *GameRepository) GetByProviderID(ctx context.Context, provider, providerGameID string) (game.Game, bool, error) {
	query, args, err := qb.Select("*").From("games").
		Where(
			qb.Eq("provider", provider),
			qb.Eq("provider_game_id", providerGameID),
		).
		ToSQL()
	if err != nil {
		return game.Game{}, false, fmt.Errorf("build select game query: %w", err)
	}

	var row gameTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return game.Game{}, false, nil
		}
		return game.Game{}, false, fmt.Errorf("select game provider_game_id=%s: %w", providerGameID, err)
	}

	return mapGameRow(row), true, nil
}

func (r *GameRepository) ListByDateRange(ctx context.Context, provider string, from, to time.Time) ([]game.Game, error) {
	query, args, err := qb.Select("*").From("games").
		Where(
			qb.Eq("provider", provider),
			qb.Gte("date_time_utc", from.UTC()),
			qb.Lte("date_time_utc", to.UTC()),
		).
		OrderBy("date_time_utc", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select games by date query: %w", err)
	}

	var rows []gameTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select games by date: %w", err)
	}

	out := make([]game.Game, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapGameRow(row))
	}

	return out, nil
}

func (r *GameRepository) ListDueForFinalization(ctx context.Context, provider string, cutoff time.Time) ([]game.Game, error) {
	query, args, err := qb.Select("*").From("games").
		Where(
			qb.Eq("provider", provider),
			qb.Eq("status", game.StatusScheduled),
			qb.Lte("date_time_utc", cutoff.UTC()),
		).
		OrderBy("date_time_utc", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select due games query: %w", err)
	}

	var rows []gameTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select games due for finalization: %w", err)
	}

	out := make([]game.Game, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapGameRow(row))
	}

	return out, nil
}
