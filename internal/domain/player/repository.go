package player

import "context"

// Repository describes player persistence needs from use cases.
type Repository interface {
	// Upsert inserts or refreshes a player by the (provider,
	// provider_player_id) natural key and returns the internal id. Nil bio
	// fields leave any previously stored value untouched.
	Upsert(ctx context.Context, p Player) (int64, error)
	GetByProviderID(ctx context.Context, provider, providerPlayerID string) (Player, bool, error)
	List(ctx context.Context, provider string) ([]Player, error)
	// ListMissingBio returns players whose enrichment has not run yet,
	// oldest first, capped at limit.
	ListMissingBio(ctx context.Context, provider string, limit int) ([]Player, error)
}
