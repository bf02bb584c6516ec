package playerstats

import "context"

// Repository describes player box score persistence needs from use cases.
type Repository interface {
	// Upsert inserts or refreshes a line by its (game_id, player_id) key.
	Upsert(ctx context.Context, s PlayerGameStat) (int64, error)
	ListByGame(ctx context.Context, gameID int64) ([]PlayerGameStat, error)
	ListByPlayer(ctx context.Context, playerID int64) ([]PlayerGameStat, error)
}
