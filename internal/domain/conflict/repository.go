package conflict

import "context"

// Repository describes conflict ledger persistence needs from use cases.
// Rows are never updated or deleted.
type Repository interface {
	Insert(ctx context.Context, c Conflict) (int64, error)
	ListByType(ctx context.Context, conflictType string, limit int) ([]Conflict, error)
	ListByPlayer(ctx context.Context, playerID int64) ([]Conflict, error)
}
