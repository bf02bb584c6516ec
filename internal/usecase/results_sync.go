package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hooplabs/nba-sync/internal/domain/conflict"
	"github.com/hooplabs/nba-sync/internal/domain/game"
	"github.com/hooplabs/nba-sync/internal/domain/teamstats"
)

// SyncFinalResults finalizes games whose tipoff has passed: it pulls the
// traditional box score, stores full team lines, stamps final scores, and
// merges advanced rates when that feed is available. A game whose box
// score fetch fails, 404 included, is recorded as a conflict and left for
// the next run; the rest of the batch still finalizes.
func (s *SyncService) SyncFinalResults(ctx context.Context, params SyncParams) (map[string]int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.SyncFinalResults")
	defer span.End()

	summary := newSummary()

	games, err := s.finalizationTargets(ctx, params)
	if err != nil {
		return summary, err
	}

	tracker := NewAssignmentTracker(s.seasonTeamRepo, s.conflicts, s.cfg.SeasonStarts, params.JobID)
	for _, g := range games {
		if err := s.finalizeGame(ctx, g, tracker, params, summary); err != nil {
			s.logger.WarnContext(ctx, "skip game finalization",
				"provider_game_id", g.ProviderGameID,
				"error", err,
			)
			summary["conflicts"]++
		}
	}

	return summary, nil
}

func (s *SyncService) finalizationTargets(ctx context.Context, params SyncParams) ([]game.Game, error) {
	if params.GameID != "" {
		g, found, err := s.gameRepo.GetByProviderID(ctx, s.cfg.Provider, params.GameID)
		if err != nil {
			return nil, fmt.Errorf("load game provider_game_id=%s: %w", params.GameID, err)
		}
		if !found {
			return nil, fmt.Errorf("%w: game provider_game_id=%s", ErrNotFound, params.GameID)
		}
		return []game.Game{g}, nil
	}

	now := s.clock().UTC()
	due, err := s.gameRepo.ListDueForFinalization(ctx, s.cfg.Provider, now)
	if err != nil {
		return nil, fmt.Errorf("list games due for finalization: %w", err)
	}

	floor := now.AddDate(0, 0, -s.cfg.FinalizeLookbackDays)
	targets := due[:0]
	for _, g := range due {
		if g.DateTimeUTC.Before(floor) {
			continue
		}
		targets = append(targets, g)
	}
	return targets, nil
}

func (s *SyncService) finalizeGame(ctx context.Context, g game.Game, tracker *AssignmentTracker, params SyncParams, summary map[string]int) error {
	box, err := s.provider.FetchBoxScoreTraditional(ctx, g.ProviderGameID)
	if err != nil {
		s.conflicts.Record(ctx, conflict.TypeFetchFailed, map[string]any{
			"endpoint": "boxscore/traditional",
			"game_id":  g.ProviderGameID,
			"error":    err.Error(),
		}, 0, g.Season, params.JobID)
		return err
	}
	if len(box.TeamStats) == 0 {
		s.conflicts.Record(ctx, conflict.TypeEmptyPayload, map[string]any{
			"endpoint": "boxscore/traditional",
			"game_id":  g.ProviderGameID,
		}, 0, g.Season, params.JobID)
		return fmt.Errorf("%w: box score has no team lines", ErrInvalidInput)
	}

	advanced := s.advancedLines(ctx, g, params.JobID)

	scores := make(map[int64]*int, 2)
	for _, line := range box.TeamStats {
		providerTeamID := PickString(line, "teamId", "TEAM_ID")
		stored, found, err := s.teamRepo.GetByProviderID(ctx, s.cfg.Provider, providerTeamID)
		if err != nil {
			return fmt.Errorf("load team provider_team_id=%s: %w", providerTeamID, err)
		}
		if !found {
			s.conflicts.Record(ctx, conflict.TypeUnresolvedTeam, map[string]any{
				"game_id":          g.ProviderGameID,
				"provider_team_id": providerTeamID,
				"team_tricode":     PickString(line, "teamTricode"),
			}, 0, g.Season, params.JobID)
			return fmt.Errorf("%w: team provider_team_id=%s", ErrNotFound, providerTeamID)
		}

		stat := traditionalTeamLine(g.ID, stored.ID, line)
		mergeAdvancedLine(&stat, advanced[providerTeamID])
		if _, err := s.teamStatsRepo.Upsert(ctx, stat); err != nil {
			return fmt.Errorf("upsert team line game_id=%s team_id=%d: %w", g.ProviderGameID, stored.ID, err)
		}
		summary["team_stats"]++
		scores[stored.ID] = stat.Points
	}

	homeScore, homeOK := scores[g.HomeTeamID]
	awayScore, awayOK := scores[g.AwayTeamID]
	if !homeOK || !awayOK || homeScore == nil || awayScore == nil {
		s.conflicts.Record(ctx, conflict.TypeMissingTeamStats, map[string]any{
			"game_id":    g.ProviderGameID,
			"team_lines": len(box.TeamStats),
		}, 0, g.Season, params.JobID)
		return fmt.Errorf("%w: box score missing a side for game %s", ErrInvalidInput, g.ProviderGameID)
	}

	g.Status = game.StatusFinished
	g.HomeScore = homeScore
	g.AwayScore = awayScore
	if _, err := s.gameRepo.Upsert(ctx, g); err != nil {
		return fmt.Errorf("finalize game provider_game_id=%s: %w", g.ProviderGameID, err)
	}
	summary["games_finalized"]++

	if params.IncludePlayers {
		if err := s.syncPlayerLines(ctx, g, box.PlayerStats, tracker, params.JobID, summary); err != nil {
			return err
		}
	}

	return nil
}

// advancedLines pulls the advanced box score, indexed by provider team
// id. The feed lags the traditional one, so absence is not a conflict.
func (s *SyncService) advancedLines(ctx context.Context, g game.Game, jobID string) map[string]Record {
	box, err := s.provider.FetchBoxScoreAdvanced(ctx, g.ProviderGameID)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.conflicts.Record(ctx, conflict.TypeFetchFailed, map[string]any{
				"endpoint": "boxscore/advanced",
				"game_id":  g.ProviderGameID,
				"error":    err.Error(),
			}, 0, g.Season, jobID)
		}
		return nil
	}

	lines := make(map[string]Record, len(box.TeamStats))
	for _, line := range box.TeamStats {
		if id := PickString(line, "teamId", "TEAM_ID"); id != "" {
			lines[id] = line
		}
	}
	return lines
}

func traditionalTeamLine(gameID, teamID int64, line Record) teamstats.TeamGameStat {
	return teamstats.TeamGameStat{
		GameID:            gameID,
		TeamID:            teamID,
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
	}
}

func mergeAdvancedLine(stat *teamstats.TeamGameStat, line Record) {
	if line == nil {
		return
	}
	stat.OffensiveRating = PickFloatPtr(line, "offensiveRating")
	stat.DefensiveRating = PickFloatPtr(line, "defensiveRating")
	stat.Pace = PickFloatPtr(line, "pace")
}

// lookbackWindow is the scan range for pipelines that revisit recent
// games without an explicit game id.
func (s *SyncService) lookbackWindow() (time.Time, time.Time) {
	now := s.clock().UTC()
	return now.AddDate(0, 0, -s.cfg.FinalizeLookbackDays), now
}
