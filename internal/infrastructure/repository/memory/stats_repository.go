package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/hooplabs/nba-sync/internal/domain/playerstats"
	"github.com/hooplabs/nba-sync/internal/domain/teamstats"
)

type TeamStatsRepository struct {
	mu     sync.RWMutex
	nextID int64
	stats  map[int64]teamstats.TeamGameStat
}

func NewTeamStatsRepository() *TeamStatsRepository {
	return &TeamStatsRepository{stats: make(map[int64]teamstats.TeamGameStat)}
}

func (r *TeamStatsRepository) Upsert(_ context.Context, s teamstats.TeamGameStat) (int64, error) {
	if err := s.Validate(); err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	for id, existing := range r.stats {
		if existing.GameID != s.GameID || existing.TeamID != s.TeamID {
			continue
		}
		mergeTeamLine(&s, existing)
		s.ID = id
		s.CreatedAt = existing.CreatedAt
		s.UpdatedAt = now
		r.stats[id] = s
		return id, nil
	}

	r.nextID++
	s.ID = r.nextID
	s.CreatedAt = now
	s.UpdatedAt = now
	r.stats[s.ID] = s

	return s.ID, nil
}

func (r *TeamStatsRepository) ListByGame(_ context.Context, gameID int64) ([]teamstats.TeamGameStat, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []teamstats.TeamGameStat
	for _, s := range r.stats {
		if s.GameID == gameID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

// mergeTeamLine keeps stored values wherever the incoming line is nil, so
// a points-only scoreboard pass never wipes a full box score.
func mergeTeamLine(s *teamstats.TeamGameStat, existing teamstats.TeamGameStat) {
	keepInt := func(incoming **int, stored *int) {
		if *incoming == nil {
			*incoming = stored
		}
	}
	keepFloat := func(incoming **float64, stored *float64) {
		if *incoming == nil {
			*incoming = stored
		}
	}

	keepInt(&s.Points, existing.Points)
	keepInt(&s.FieldGoalsMade, existing.FieldGoalsMade)
	keepInt(&s.FieldGoalsAtt, existing.FieldGoalsAtt)
	keepInt(&s.ThreePointersMade, existing.ThreePointersMade)
	keepInt(&s.ThreePointersAtt, existing.ThreePointersAtt)
	keepInt(&s.FreeThrowsMade, existing.FreeThrowsMade)
	keepInt(&s.FreeThrowsAtt, existing.FreeThrowsAtt)
	keepInt(&s.ReboundsOffensive, existing.ReboundsOffensive)
	keepInt(&s.ReboundsDefensive, existing.ReboundsDefensive)
	keepInt(&s.ReboundsTotal, existing.ReboundsTotal)
	keepInt(&s.Assists, existing.Assists)
	keepInt(&s.Steals, existing.Steals)
	keepInt(&s.Blocks, existing.Blocks)
	keepInt(&s.Turnovers, existing.Turnovers)
	keepInt(&s.FoulsPersonal, existing.FoulsPersonal)
	keepFloat(&s.OffensiveRating, existing.OffensiveRating)
	keepFloat(&s.DefensiveRating, existing.DefensiveRating)
	keepFloat(&s.Pace, existing.Pace)
}

type PlayerStatsRepository struct {
	mu     sync.RWMutex
	nextID int64
	stats  map[int64]playerstats.PlayerGameStat
}

func NewPlayerStatsRepository() *PlayerStatsRepository {
	return &PlayerStatsRepository{stats: make(map[int64]playerstats.PlayerGameStat)}
}

func (r *PlayerStatsRepository) Upsert(_ context.Context, s playerstats.PlayerGameStat) (int64, error) {
	if err := s.Validate(); err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	for id, existing := range r.stats {
		if existing.GameID != s.GameID || existing.PlayerID != s.PlayerID {
			continue
		}
		s.ID = id
		s.CreatedAt = existing.CreatedAt
		s.UpdatedAt = now
		r.stats[id] = s
		return id, nil
	}

	r.nextID++
	s.ID = r.nextID
	s.CreatedAt = now
	s.UpdatedAt = now
	r.stats[s.ID] = s

	return s.ID, nil
}

func (r *PlayerStatsRepository) ListByGame(_ context.Context, gameID int64) ([]playerstats.PlayerGameStat, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []playerstats.PlayerGameStat
	for _, s := range r.stats {
		if s.GameID == gameID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

func (r *PlayerStatsRepository) ListByPlayer(_ context.Context, playerID int64) ([]playerstats.PlayerGameStat, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []playerstats.PlayerGameStat
	for _, s := range r.stats {
		if s.PlayerID == playerID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}
