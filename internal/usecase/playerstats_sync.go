package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hooplabs/nba-sync/internal/domain/conflict"
	"github.com/hooplabs/nba-sync/internal/domain/game"
	"github.com/hooplabs/nba-sync/internal/domain/player"
	"github.com/hooplabs/nba-sync/internal/domain/playerstats"
)

// SyncPlayerGameStats stores per-player box score lines. With an explicit
// game id it covers that game; otherwise it revisits finished games
// inside the lookback window. Unknown players carried by a box score are
// created from the line's name fields, since the provider id makes them
// unambiguous.
func (s *SyncService) SyncPlayerGameStats(ctx context.Context, params SyncParams) (map[string]int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.SyncPlayerGameStats")
	defer span.End()

	summary := newSummary()

	var games []game.Game
	if params.GameID != "" {
		g, found, err := s.gameRepo.GetByProviderID(ctx, s.cfg.Provider, params.GameID)
		if err != nil {
			return summary, fmt.Errorf("load game provider_game_id=%s: %w", params.GameID, err)
		}
		if !found {
			return summary, fmt.Errorf("%w: game provider_game_id=%s", ErrNotFound, params.GameID)
		}
		games = []game.Game{g}
	} else {
		from, to := s.lookbackWindow()
		recent, err := s.gameRepo.ListByDateRange(ctx, s.cfg.Provider, from, to)
		if err != nil {
			return summary, fmt.Errorf("list recent games: %w", err)
		}
		for _, g := range recent {
			if g.Status == game.StatusFinished {
				games = append(games, g)
			}
		}
	}

	tracker := NewAssignmentTracker(s.seasonTeamRepo, s.conflicts, s.cfg.SeasonStarts, params.JobID)
	for _, g := range games {
		box, err := s.provider.FetchBoxScoreTraditional(ctx, g.ProviderGameID)
		if err != nil {
			s.conflicts.Record(ctx, conflict.TypeFetchFailed, map[string]any{
				"endpoint": "boxscore/traditional",
				"game_id":  g.ProviderGameID,
				"error":    err.Error(),
			}, 0, g.Season, params.JobID)
			summary["conflicts"]++
			continue
		}
		if err := s.syncPlayerLines(ctx, g, box.PlayerStats, tracker, params.JobID, summary); err != nil {
			s.logger.WarnContext(ctx, "skip player lines",
				"provider_game_id", g.ProviderGameID,
				"error", err,
			)
			summary["conflicts"]++
		}
	}

	return summary, nil
}

func (s *SyncService) syncPlayerLines(ctx context.Context, g game.Game, lines []Record, tracker *AssignmentTracker, jobID string, summary map[string]int) error {
	for _, line := range lines {
		if err := s.syncPlayerLine(ctx, g, line, tracker, jobID, summary); err != nil {
			s.logger.WarnContext(ctx, "skip player line",
				"provider_game_id", g.ProviderGameID,
				"provider_player_id", PickString(line, "personId", "playerId", "PLAYER_ID"),
				"error", err,
			)
			summary["conflicts"]++
		}
	}
	return nil
}

func (s *SyncService) syncPlayerLine(ctx context.Context, g game.Game, line Record, tracker *AssignmentTracker, jobID string, summary map[string]int) error {
	providerPlayerID := PickString(line, "personId", "playerId", "PLAYER_ID")
	if providerPlayerID == "" {
		return fmt.Errorf("%w: player line without player id", ErrInvalidInput)
	}

	providerTeamID := PickString(line, "teamId", "TEAM_ID")
	storedTeam, found, err := s.teamRepo.GetByProviderID(ctx, s.cfg.Provider, providerTeamID)
	if err != nil {
		return fmt.Errorf("load team provider_team_id=%s: %w", providerTeamID, err)
	}
	if !found {
		s.conflicts.Record(ctx, conflict.TypeUnresolvedTeam, map[string]any{
			"game_id":          g.ProviderGameID,
			"provider_team_id": providerTeamID,
		}, 0, g.Season, jobID)
		return fmt.Errorf("%w: team provider_team_id=%s", ErrNotFound, providerTeamID)
	}

	playerID, err := s.ensurePlayer(ctx, providerPlayerID, line, summary)
	if err != nil {
		return err
	}

	stat := playerstats.PlayerGameStat{
		GameID:            g.ID,
		PlayerID:          playerID,
		TeamID:            storedTeam.ID,
		Minutes:           ParseMinutes(PickString(line, "minutes", "MIN")),
		Points:            PickIntPtr(line, "points", "PTS"),
		FieldGoalsMade:    PickIntPtr(line, "fieldGoalsMade"),
		FieldGoalsAtt:     PickIntPtr(line, "fieldGoalsAttempted"),
		ThreePointersMade: PickIntPtr(line, "threePointersMade"),
		ThreePointersAtt:  PickIntPtr(line, "threePointersAttempted"),
		FreeThrowsMade:    PickIntPtr(line, "freeThrowsMade"),
		FreeThrowsAtt:     PickIntPtr(line, "freeThrowsAttempted"),
		ReboundsOffensive: PickIntPtr(line, "reboundsOffensive"),
		ReboundsDefensive: PickIntPtr(line, "reboundsDefensive"),
		ReboundsTotal:     PickIntPtr(line, "reboundsTotal"),
		Assists:           PickIntPtr(line, "assists"),
		Steals:            PickIntPtr(line, "steals"),
		Blocks:            PickIntPtr(line, "blocks"),
		Turnovers:         PickIntPtr(line, "turnovers"),
		FoulsPersonal:     PickIntPtr(line, "foulsPersonal"),
		PlusMinus:         PickIntPtr(line, "plusMinusPoints", "plusMinus"),
		DidNotPlayReason:  PickString(line, "notPlayingReason", "didNotPlayReason", "comment"),
	}
	if starter, ok := PickBool(line, "starter", "START_POSITION"); ok {
		stat.Starter = &starter
	}

	if _, err := s.playerStatsRepo.Upsert(ctx, stat); err != nil {
		return fmt.Errorf("upsert player line game_id=%s player_id=%d: %w", g.ProviderGameID, playerID, err)
	}
	summary["player_stats"]++

	// Box score lines are assignment observations too, so trades surface
	// between roster runs. Seasons without a configured start are skipped;
	// only the season-scoped roster sync treats that as fatal.
	if err := tracker.Observe(ctx, playerID, g.Season, storedTeam.ID); err != nil {
		if errors.Is(err, ErrMissingConfig) || errors.Is(err, ErrInvalidInput) {
			s.logger.DebugContext(ctx, "skip assignment from box score",
				"provider_game_id", g.ProviderGameID,
				"player_id", playerID,
				"error", err,
			)
		} else {
			return fmt.Errorf("track assignment player_id=%d season=%d: %w", playerID, g.Season, err)
		}
	}

	return nil
}

// ensurePlayer resolves a box score line's player, creating a minimal
// record when the provider id is new.
func (s *SyncService) ensurePlayer(ctx context.Context, providerPlayerID string, line Record, summary map[string]int) (int64, error) {
	stored, found, err := s.playerRepo.GetByProviderID(ctx, s.cfg.Provider, providerPlayerID)
	if err != nil {
		return 0, fmt.Errorf("load player provider_player_id=%s: %w", providerPlayerID, err)
	}
	if found {
		return stored.ID, nil
	}

	first := PickString(line, "firstName", "FIRST_NAME")
	last := PickString(line, "familyName", "lastName", "LAST_NAME")
	display := PickString(line, "name", "DISPLAY_FIRST_LAST", "PLAYER_NAME")
	if display == "" {
		display = strings.TrimSpace(first + " " + last)
	}
	if display == "" {
		return 0, fmt.Errorf("%w: player line without a name", ErrInvalidInput)
	}

	id, err := s.playerRepo.Upsert(ctx, player.Player{
		Provider:         s.cfg.Provider,
		ProviderPlayerID: providerPlayerID,
		DisplayName:      display,
		FirstName:        first,
		LastName:         last,
		Position:         PickString(line, "position"),
		JerseyNumber:     PickString(line, "jerseyNum"),
	})
	if err != nil {
		return 0, fmt.Errorf("create player provider_player_id=%s: %w", providerPlayerID, err)
	}
	summary["players"]++

	return id, nil
}
