package usecase

import (
	"context"
	"fmt"

	"github.com/hooplabs/nba-sync/internal/domain/conflict"
	"github.com/hooplabs/nba-sync/internal/domain/injury"
)

// SyncInjuryReport stores the latest published injury report and links
// its entries to known teams and players. Entries that cannot be matched
// are kept with their raw text and recorded as conflicts; the report is
// never dropped because of them.
func (s *SyncService) SyncInjuryReport(ctx context.Context, params SyncParams) (map[string]int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.SyncInjuryReport")
	defer span.End()

	summary := newSummary()

	payload, err := s.provider.FetchInjuryReport(ctx)
	if err != nil {
		s.conflicts.Record(ctx, conflict.TypeFetchFailed, map[string]any{
			"endpoint": "injury-report/latest",
			"error":    err.Error(),
		}, 0, 0, params.JobID)
		return summary, fmt.Errorf("fetch injury report: %w", err)
	}
	if payload.SourceURL == "" {
		s.conflicts.Record(ctx, conflict.TypeEmptyPayload, map[string]any{
			"endpoint": "injury-report/latest",
			"reason":   "report without source url",
		}, 0, 0, params.JobID)
		summary["conflicts"]++
		return summary, nil
	}

	reportID, err := s.injuryRepo.UpsertReport(ctx, injury.Report{
		SourceURL:  payload.SourceURL,
		ReportDate: payload.ReportDate,
		ReportTime: payload.ReportTime,
		FetchedAt:  s.clock().UTC(),
	})
	if err != nil {
		return summary, fmt.Errorf("upsert injury report source_url=%s: %w", payload.SourceURL, err)
	}
	summary["reports"]++

	teamMatcher, playerMatcher, err := s.buildMatchers(ctx)
	if err != nil {
		return summary, err
	}

	for _, rec := range payload.Entries {
		if err := s.syncInjuryEntry(ctx, reportID, rec, teamMatcher, playerMatcher, params.JobID, summary); err != nil {
			s.logger.WarnContext(ctx, "skip injury entry",
				"player_name", PickStringFold(rec, "playerName"),
				"error", err,
			)
			summary["conflicts"]++
		}
	}

	return summary, nil
}

func (s *SyncService) buildMatchers(ctx context.Context) (*TeamMatcher, *PlayerMatcher, error) {
	teams, err := s.teamRepo.List(ctx, s.cfg.Provider)
	if err != nil {
		return nil, nil, fmt.Errorf("list teams for matching: %w", err)
	}
	players, err := s.playerRepo.List(ctx, s.cfg.Provider)
	if err != nil {
		return nil, nil, fmt.Errorf("list players for matching: %w", err)
	}
	season := s.seasonOrCurrent(0)
	assignments, err := s.seasonTeamRepo.ListBySeason(ctx, season)
	if err != nil {
		return nil, nil, fmt.Errorf("list assignments season=%d: %w", season, err)
	}

	return NewTeamMatcher(teams), NewPlayerMatcher(players, assignments), nil
}

func (s *SyncService) syncInjuryEntry(
	ctx context.Context,
	reportID int64,
	rec Record,
	teams *TeamMatcher,
	players *PlayerMatcher,
	jobID string,
	summary map[string]int,
) error {
	playerName := PickStringFold(rec, "playerName", "player")
	if playerName == "" {
		return fmt.Errorf("%w: injury entry without a player name", ErrInvalidInput)
	}
	teamLabel := PickStringFold(rec, "team", "teamAbbrev")

	entry := injury.Entry{
		ReportID:   reportID,
		GameDate:   PickStringFold(rec, "gameDate"),
		GameTime:   PickStringFold(rec, "gameTime"),
		Matchup:    PickStringFold(rec, "matchup"),
		TeamAbbrev: teamLabel,
		PlayerName: playerName,
		Status:     PickStringFold(rec, "status"),
		Reason:     PickStringFold(rec, "reason"),
	}

	var teamHint int64
	if matched, ok := teams.Match(teamLabel); ok {
		entry.TeamID = &matched.ID
		teamHint = matched.ID
	} else if teamLabel != "" {
		s.conflicts.Record(ctx, conflict.TypeUnresolvedTeam, map[string]any{
			"source":      "injury-report",
			"team_label":  teamLabel,
			"player_name": playerName,
		}, 0, 0, jobID)
		summary["conflicts"]++
	}

	if matched, ok := players.Match(playerName, teamHint); ok {
		entry.PlayerID = &matched.ID
	} else {
		s.conflicts.Record(ctx, conflict.TypeUnresolvedPlayer, map[string]any{
			"source":      "injury-report",
			"player_name": playerName,
			"team_label":  teamLabel,
		}, 0, 0, jobID)
		summary["conflicts"]++
	}

	if _, err := s.injuryRepo.UpsertEntry(ctx, entry); err != nil {
		return fmt.Errorf("upsert injury entry player=%s: %w", playerName, err)
	}
	summary["entries"]++

	return nil
}
