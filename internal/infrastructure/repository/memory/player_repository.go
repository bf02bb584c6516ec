package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/hooplabs/nba-sync/internal/domain/player"
)

type PlayerRepository struct {
	mu      sync.RWMutex
	nextID  int64
	players map[int64]player.Player
}

func NewPlayerRepository() *PlayerRepository {
	return &PlayerRepository{players: make(map[int64]player.Player)}
}

func (r *PlayerRepository) Upsert(_ context.Context, p player.Player) (int64, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	for id, existing := range r.players {
		if existing.Provider != p.Provider || existing.ProviderPlayerID != p.ProviderPlayerID {
			continue
		}
		// Nil bio fields keep whatever was stored before.
		if p.FirstName == "" {
			p.FirstName = existing.FirstName
		}
		if p.LastName == "" {
			p.LastName = existing.LastName
		}
		if p.Position == "" {
			p.Position = existing.Position
		}
		if p.JerseyNumber == "" {
			p.JerseyNumber = existing.JerseyNumber
		}
		if p.Country == "" {
			p.Country = existing.Country
		}
		if p.School == "" {
			p.School = existing.School
		}
		if p.HeightCm == nil {
			p.HeightCm = existing.HeightCm
		}
		if p.WeightKg == nil {
			p.WeightKg = existing.WeightKg
		}
		if p.BirthDate == nil {
			p.BirthDate = existing.BirthDate
		}
		if p.BioFilledAt == nil {
			p.BioFilledAt = existing.BioFilledAt
		}
		p.ID = id
		p.CreatedAt = existing.CreatedAt
		p.UpdatedAt = now
		r.players[id] = p
		return id, nil
	}

	r.nextID++
	p.ID = r.nextID
	p.CreatedAt = now
	p.UpdatedAt = now
	r.players[p.ID] = p

	return p.ID, nil
}

func (r *PlayerRepository) GetByProviderID(_ context.Context, provider, providerPlayerID string) (player.Player, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.players {
		if p.Provider == provider && p.ProviderPlayerID == providerPlayerID {
			return p, true, nil
		}
	}

	return player.Player{}, false, nil
}

func (r *PlayerRepository) List(_ context.Context, provider string) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []player.Player
	for _, p := range r.players {
		if p.Provider == provider {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

func (r *PlayerRepository) ListMissingBio(_ context.Context, provider string, limit int) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []player.Player
	for _, p := range r.players {
		if p.Provider == provider && p.BioFilledAt == nil {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}

	return out, nil
}
