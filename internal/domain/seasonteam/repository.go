package seasonteam

import (
	"context"
	"time"
)

// Repository describes player-season-team persistence needs from use cases.
type Repository interface {
	// GetActive returns the open interval for (player, season), if any.
	GetActive(ctx context.Context, playerID int64, season int) (Assignment, bool, error)
	Insert(ctx context.Context, a Assignment) (int64, error)
	// Close stamps ToUTC on an open interval.
	Close(ctx context.Context, id int64, at time.Time) error
	ListByPlayer(ctx context.Context, playerID int64) ([]Assignment, error)
	ListBySeason(ctx context.Context, season int) ([]Assignment, error)
}
