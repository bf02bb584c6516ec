package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/sourcegraph/conc/pool"

	"github.com/hooplabs/nba-sync/internal/domain/conflict"
	"github.com/hooplabs/nba-sync/internal/domain/player"
	"github.com/hooplabs/nba-sync/internal/domain/team"
)

const (
	playerInfoWorkers  = 4
	rosterFetchWorkers = 4
)

// SyncPlayers refreshes the player directory for a season and enriches a
// bounded batch of players that still miss bio fields. Enrichment calls
// run in parallel; store writes stay sequential.
func (s *SyncService) SyncPlayers(ctx context.Context, params SyncParams) (map[string]int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.SyncPlayers")
	defer span.End()

	summary := newSummary()
	season := s.seasonOrCurrent(params.Season)
	label := SeasonLabel(season)

	recs, err := s.provider.FetchAllPlayers(ctx, label, true)
	if err != nil {
		s.conflicts.Record(ctx, conflict.TypeFetchFailed, map[string]any{
			"endpoint": "players/all",
			"season":   label,
			"error":    err.Error(),
		}, 0, season, params.JobID)
		return summary, fmt.Errorf("fetch players season=%s: %w", label, err)
	}
	if len(recs) == 0 {
		s.conflicts.Record(ctx, conflict.TypeEmptyPayload, map[string]any{
			"endpoint": "players/all",
			"season":   label,
		}, 0, season, params.JobID)
		summary["conflicts"]++
		return summary, nil
	}

	for _, rec := range recs {
		providerPlayerID := PickString(rec, "PERSON_ID", "personId")
		display := PickString(rec, "DISPLAY_FIRST_LAST", "name")
		if providerPlayerID == "" || display == "" {
			summary["conflicts"]++
			continue
		}
		_, err := s.playerRepo.Upsert(ctx, player.Player{
			Provider:         s.cfg.Provider,
			ProviderPlayerID: providerPlayerID,
			DisplayName:      display,
		})
		if err != nil {
			s.logger.WarnContext(ctx, "upsert player", "provider_player_id", providerPlayerID, "error", err)
			summary["conflicts"]++
			continue
		}
		summary["players"]++
	}

	if err := s.enrichPlayerBios(ctx, season, params.JobID, summary); err != nil {
		return summary, err
	}

	return summary, nil
}

type playerInfoResult struct {
	player player.Player
	info   []Record
	err    error
}

func (s *SyncService) enrichPlayerBios(ctx context.Context, season int, jobID string, summary map[string]int) error {
	limit := s.cfg.PlayerInfoLimit
	missing, err := s.playerRepo.ListMissingBio(ctx, s.cfg.Provider, limit+1)
	if err != nil {
		return fmt.Errorf("list players missing bio: %w", err)
	}
	if len(missing) == 0 {
		return nil
	}
	if len(missing) > limit {
		s.conflicts.Record(ctx, conflict.TypePlayerInfoLimit, map[string]any{
			"limit": limit,
		}, 0, season, jobID)
		summary["conflicts"]++
		missing = missing[:limit]
	}

	workers, err := ants.NewPool(playerInfoWorkers)
	if err != nil {
		return fmt.Errorf("start enrichment pool: %w", err)
	}
	defer workers.Release()

	results := make([]playerInfoResult, len(missing))
	var wg sync.WaitGroup
	for i, p := range missing {
		i, p := i, p
		wg.Add(1)
		if err := workers.Submit(func() {
			defer wg.Done()
			info, err := s.provider.FetchPlayerInfo(ctx, p.ProviderPlayerID)
			results[i] = playerInfoResult{player: p, info: info, err: err}
		}); err != nil {
			wg.Done()
			results[i] = playerInfoResult{player: p, err: err}
		}
	}
	wg.Wait()

	filledAt := s.clock().UTC()
	for _, res := range results {
		if res.err != nil {
			s.conflicts.Record(ctx, conflict.TypeFetchFailed, map[string]any{
				"endpoint": "players/info",
				"error":    res.err.Error(),
			}, res.player.ID, season, jobID)
			summary["conflicts"]++
			continue
		}
		if len(res.info) == 0 {
			s.conflicts.Record(ctx, conflict.TypeEmptyPayload, map[string]any{
				"endpoint": "players/info",
			}, res.player.ID, season, jobID)
			summary["conflicts"]++
			continue
		}

		p := applyPlayerBio(res.player, res.info[0], filledAt)
		if _, err := s.playerRepo.Upsert(ctx, p); err != nil {
			s.logger.WarnContext(ctx, "store player bio", "player_id", p.ID, "error", err)
			summary["conflicts"]++
			continue
		}
		summary["players_enriched"]++
	}

	return nil
}

func applyPlayerBio(p player.Player, info Record, filledAt time.Time) player.Player {
	if first := PickString(info, "FIRST_NAME"); first != "" {
		p.FirstName = first
	}
	if last := PickString(info, "LAST_NAME"); last != "" {
		p.LastName = last
	}
	if pos := PickString(info, "POSITION"); pos != "" {
		p.Position = pos
	}
	if jersey := PickString(info, "JERSEY"); jersey != "" {
		p.JerseyNumber = jersey
	}
	if country := PickString(info, "COUNTRY"); country != "" {
		p.Country = country
	}
	if school := PickString(info, "SCHOOL"); school != "" {
		p.School = school
	}
	p.HeightCm = ParseHeightCm(PickString(info, "HEIGHT"))
	p.WeightKg = ParseWeightKg(PickString(info, "WEIGHT"))
	p.BirthDate = ParseBirthDate(PickString(info, "BIRTHDATE"))
	p.BioFilledAt = &filledAt

	return p
}

type teamRosterResult struct {
	team   team.Team
	roster []Record
	err    error
}

// SyncPlayerSeasonTeams rebuilds current rosters into player-season-team
// intervals. Roster fetches fan out per team; interval writes run
// sequentially through the tracker so trades close and open cleanly.
func (s *SyncService) SyncPlayerSeasonTeams(ctx context.Context, params SyncParams) (map[string]int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.SyncPlayerSeasonTeams")
	defer span.End()

	summary := newSummary()
	season := s.seasonOrCurrent(params.Season)
	if _, ok := s.cfg.SeasonStarts[season]; !ok {
		s.conflicts.Record(ctx, conflict.TypeMissingConfig, map[string]any{
			"setting": fmt.Sprintf("SEASON_START_UTC_%d", season),
		}, 0, season, params.JobID)
		return summary, fmt.Errorf("%w: season start for %d is not configured", ErrMissingConfig, season)
	}
	label := SeasonLabel(season)

	teams, err := s.teamRepo.List(ctx, s.cfg.Provider)
	if err != nil {
		return summary, fmt.Errorf("list teams: %w", err)
	}
	if len(teams) == 0 {
		s.conflicts.Record(ctx, conflict.TypeEmptyPayload, map[string]any{
			"endpoint": "teams/roster",
			"reason":   "no teams known yet",
		}, 0, season, params.JobID)
		summary["conflicts"]++
		return summary, nil
	}

	fetches := pool.NewWithResults[teamRosterResult]().WithMaxGoroutines(rosterFetchWorkers)
	for _, t := range teams {
		t := t
		fetches.Go(func() teamRosterResult {
			roster, err := s.provider.FetchTeamRoster(ctx, t.ProviderTeamID, label)
			return teamRosterResult{team: t, roster: roster, err: err}
		})
	}
	rosters := fetches.Wait()

	tracker := NewAssignmentTracker(s.seasonTeamRepo, s.conflicts, s.cfg.SeasonStarts, params.JobID)
	for _, res := range rosters {
		if res.err != nil {
			s.conflicts.Record(ctx, conflict.TypeFetchFailed, map[string]any{
				"endpoint": "teams/roster",
				"team_id":  res.team.ProviderTeamID,
				"error":    res.err.Error(),
			}, 0, season, params.JobID)
			summary["conflicts"]++
			continue
		}
		for _, rec := range res.roster {
			if err := s.observeRosterSpot(ctx, tracker, res.team, season, rec, summary); err != nil {
				if errors.Is(err, ErrMissingConfig) {
					return summary, err
				}
				s.logger.WarnContext(ctx, "skip roster spot",
					"team_id", res.team.ProviderTeamID,
					"player", PickString(rec, "PLAYER"),
					"error", err,
				)
				summary["conflicts"]++
			}
		}
	}

	return summary, nil
}

func (s *SyncService) observeRosterSpot(ctx context.Context, tracker *AssignmentTracker, t team.Team, season int, rec Record, summary map[string]int) error {
	providerPlayerID := PickString(rec, "PLAYER_ID", "personId")
	if providerPlayerID == "" {
		return fmt.Errorf("%w: roster row without player id", ErrInvalidInput)
	}

	stored, found, err := s.playerRepo.GetByProviderID(ctx, s.cfg.Provider, providerPlayerID)
	if err != nil {
		return fmt.Errorf("load player provider_player_id=%s: %w", providerPlayerID, err)
	}
	playerID := stored.ID
	if !found {
		display := PickString(rec, "PLAYER", "DISPLAY_FIRST_LAST")
		if display == "" {
			return fmt.Errorf("%w: roster row without a name", ErrInvalidInput)
		}
		playerID, err = s.playerRepo.Upsert(ctx, player.Player{
			Provider:         s.cfg.Provider,
			ProviderPlayerID: providerPlayerID,
			DisplayName:      display,
			Position:         PickString(rec, "POSITION"),
			JerseyNumber:     PickString(rec, "NUM"),
		})
		if err != nil {
			return fmt.Errorf("create player provider_player_id=%s: %w", providerPlayerID, err)
		}
		summary["players"]++
	}

	if err := tracker.Observe(ctx, playerID, season, t.ID); err != nil {
		return err
	}
	summary["assignments"]++

	return nil
}

func (s *SyncService) seasonOrCurrent(season int) int {
	if season > 0 {
		return season
	}
	return SeasonYearForDate(s.clock().In(s.resolver.civilZone))
}
