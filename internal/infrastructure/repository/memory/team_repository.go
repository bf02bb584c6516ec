package memory

import (
	"context"
	"sync"
	"time"

	"github.com/hooplabs/nba-sync/internal/domain/team"
)

type TeamRepository struct {
	mu     sync.RWMutex
	nextID int64
	teams  map[int64]team.Team
}

func NewTeamRepository() *TeamRepository {
	return &TeamRepository{teams: make(map[int64]team.Team)}
}

func (r *TeamRepository) Upsert(_ context.Context, t team.Team) (int64, error) {
	if err := t.Validate(); err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	for id, existing := range r.teams {
		if existing.Provider == t.Provider && existing.ProviderTeamID == t.ProviderTeamID {
			t.ID = id
			t.CreatedAt = existing.CreatedAt
			t.UpdatedAt = now
			r.teams[id] = t
			return id, nil
		}
	}

	r.nextID++
	t.ID = r.nextID
	t.CreatedAt = now
	t.UpdatedAt = now
	r.teams[t.ID] = t

	return t.ID, nil
}

func (r *TeamRepository) GetByProviderID(_ context.Context, provider, providerTeamID string) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, t := range r.teams {
		if t.Provider == provider && t.ProviderTeamID == providerTeamID {
			return t, true, nil
		}
	}

	return team.Team{}, false, nil
}

func (r *TeamRepository) List(_ context.Context, provider string) ([]team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]team.Team, 0, len(r.teams))
	for _, t := range r.teams {
		if t.Provider == provider {
			out = append(out, t)
		}
	}

	return out, nil
}
