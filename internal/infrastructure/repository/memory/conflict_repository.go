package memory

import (
	"context"
	"sync"
	"time"

	"github.com/hooplabs/nba-sync/internal/domain/conflict"
)

type ConflictRepository struct {
	mu        sync.RWMutex
	nextID    int64
	conflicts []conflict.Conflict
}

func NewConflictRepository() *ConflictRepository {
	return &ConflictRepository{}
}

func (r *ConflictRepository) Insert(_ context.Context, c conflict.Conflict) (int64, error) {
	if err := c.Validate(); err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	c.ID = r.nextID
	c.CreatedAt = time.Now().UTC()
	r.conflicts = append(r.conflicts, c)

	return c.ID, nil
}

func (r *ConflictRepository) ListByType(_ context.Context, conflictType string, limit int) ([]conflict.Conflict, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []conflict.Conflict
	for _, c := range r.conflicts {
		if conflictType != "" && c.Type != conflictType {
			continue
		}
		out = append(out, c)
		if limit > 0 && len(out) == limit {
			break
		}
	}

	return out, nil
}

func (r *ConflictRepository) ListByPlayer(_ context.Context, playerID int64) ([]conflict.Conflict, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []conflict.Conflict
	for _, c := range r.conflicts {
		if c.PlayerID != nil && *c.PlayerID == playerID {
			out = append(out, c)
		}
	}

	return out, nil
}

// All returns every recorded conflict, oldest first.
func (r *ConflictRepository) All() []conflict.Conflict {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]conflict.Conflict, len(r.conflicts))
	copy(out, r.conflicts)

	return out
}
