package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/hooplabs/nba-sync/internal/domain/game"
)

type GameRepository struct {
	mu     sync.RWMutex
	nextID int64
	games  map[int64]game.Game
}

func NewGameRepository() *GameRepository {
	return &GameRepository{games: make(map[int64]game.Game)}
}

func (r *GameRepository) Upsert(_ context.Context, g game.Game) (int64, error) {
	if err := g.Validate(); err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	for id, existing := range r.games {
		if existing.Provider != g.Provider || existing.ProviderGameID != g.ProviderGameID {
			continue
		}
		// Confirmed tipoffs and finished results never regress.
		if existing.TimeConfirmed && !g.TimeConfirmed {
			g.DateTimeUTC = existing.DateTimeUTC
			g.TimeConfirmed = true
		}
		if existing.Status == game.StatusFinished && g.Status == game.StatusScheduled {
			g.Status = existing.Status
			if g.HomeScore == nil {
				g.HomeScore = existing.HomeScore
			}
			if g.AwayScore == nil {
				g.AwayScore = existing.AwayScore
			}
		}
		g.ID = id
		g.CreatedAt = existing.CreatedAt
		g.UpdatedAt = now
		r.games[id] = g
		return id, nil
	}

	r.nextID++
	g.ID = r.nextID
	g.CreatedAt = now
	g.UpdatedAt = now
	r.games[g.ID] = g

	return g.ID, nil
}

func (r *GameRepository) GetByProviderID(_ context.Context, provider, providerGameID string) (game.Game, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, g := range r.games {
		if g.Provider == provider && g.ProviderGameID == providerGameID {
			return g, true, nil
		}
	}

	return game.Game{}, false, nil
}

func (r *GameRepository) ListByDateRange(_ context.Context, provider string, from, to time.Time) ([]game.Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []game.Game
	for _, g := range r.games {
		if g.Provider != provider {
			continue
		}
		if g.DateTimeUTC.Before(from) || g.DateTimeUTC.After(to) {
			continue
		}
		out = append(out, g)
	}
	sortGames(out)

	return out, nil
}

func (r *GameRepository) ListDueForFinalization(_ context.Context, provider string, cutoff time.Time) ([]game.Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []game.Game
	for _, g := range r.games {
		if g.Provider != provider || g.Status != game.StatusScheduled {
			continue
		}
		if g.DateTimeUTC.After(cutoff) {
			continue
		}
		out = append(out, g)
	}
	sortGames(out)

	return out, nil
}

func sortGames(games []game.Game) {
	sort.Slice(games, func(i, j int) bool {
		if games[i].DateTimeUTC.Equal(games[j].DateTimeUTC) {
			return games[i].ID < games[j].ID
		}
		return games[i].DateTimeUTC.Before(games[j].DateTimeUTC)
	})
}
