package game

import (
	"context"
	"time"
)

// Repository describes game persistence needs from use cases.
type Repository interface {
	// Upsert inserts or refreshes a game by its (provider, provider_game_id)
	// natural key and returns the internal id. Stored tipoff precision and a
	// finished status never regress on replays of stale payloads.
	Upsert(ctx context.Context, g Game) (int64, error)
	GetByProviderID(ctx context.Context, provider, providerGameID string) (Game, bool, error)
	ListByDateRange(ctx context.Context, provider string, from, to time.Time) ([]Game, error)
	// ListDueForFinalization returns games still marked scheduled whose
	// tipoff is at or before the cutoff.
	ListDueForFinalization(ctx context.Context, provider string, cutoff time.Time) ([]Game, error)
}
