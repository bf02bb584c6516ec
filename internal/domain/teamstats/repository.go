package teamstats

import "context"

// Repository describes team box score persistence needs from use cases.
type Repository interface {
	// Upsert inserts or refreshes a line by its (game_id, team_id) key.
	// Nil fields leave any previously stored value untouched.
	Upsert(ctx context.Context, s TeamGameStat) (int64, error)
	ListByGame(ctx context.Context, gameID int64) ([]TeamGameStat, error)
}
