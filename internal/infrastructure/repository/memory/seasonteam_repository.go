package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/hooplabs/nba-sync/internal/domain/seasonteam"
)

type SeasonTeamRepository struct {
	mu          sync.RWMutex
	nextID      int64
	assignments map[int64]seasonteam.Assignment
}

func NewSeasonTeamRepository() *SeasonTeamRepository {
	return &SeasonTeamRepository{assignments: make(map[int64]seasonteam.Assignment)}
}

func (r *SeasonTeamRepository) GetActive(_ context.Context, playerID int64, season int) (seasonteam.Assignment, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.assignments {
		if a.PlayerID == playerID && a.Season == season && a.Open() {
			return a, true, nil
		}
	}

	return seasonteam.Assignment{}, false, nil
}

func (r *SeasonTeamRepository) Insert(_ context.Context, a seasonteam.Assignment) (int64, error) {
	if err := a.Validate(); err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	r.nextID++
	a.ID = r.nextID
	a.CreatedAt = now
	a.UpdatedAt = now
	r.assignments[a.ID] = a

	return a.ID, nil
}

func (r *SeasonTeamRepository) Close(_ context.Context, id int64, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.assignments[id]
	if !ok {
		return fmt.Errorf("assignment id=%d not found", id)
	}
	a.ToUTC = &at
	a.UpdatedAt = time.Now().UTC()
	r.assignments[id] = a

	return nil
}

func (r *SeasonTeamRepository) ListByPlayer(_ context.Context, playerID int64) ([]seasonteam.Assignment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []seasonteam.Assignment
	for _, a := range r.assignments {
		if a.PlayerID == playerID {
			out = append(out, a)
		}
	}
	sortAssignments(out)

	return out, nil
}

func (r *SeasonTeamRepository) ListBySeason(_ context.Context, season int) ([]seasonteam.Assignment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []seasonteam.Assignment
	for _, a := range r.assignments {
		if a.Season == season {
			out = append(out, a)
		}
	}
	sortAssignments(out)

	return out, nil
}

func sortAssignments(assignments []seasonteam.Assignment) {
	sort.Slice(assignments, func(i, j int) bool {
		if assignments[i].FromUTC.Equal(assignments[j].FromUTC) {
			return assignments[i].ID < assignments[j].ID
		}
		return assignments[i].FromUTC.Before(assignments[j].FromUTC)
	})
}
