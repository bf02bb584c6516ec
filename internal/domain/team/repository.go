package team

import "context"

// Repository describes team persistence needs from use cases.
type Repository interface {
	// Upsert inserts or refreshes a team by its (provider, provider_team_id)
	// natural key and returns the internal id.
	Upsert(ctx context.Context, t Team) (int64, error)
	GetByProviderID(ctx context.Context, provider, providerTeamID string) (Team, bool, error)
	List(ctx context.Context, provider string) ([]Team, error)
}
