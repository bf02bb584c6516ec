package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hooplabs/nba-sync/internal/domain/conflict"
	"github.com/hooplabs/nba-sync/internal/domain/game"
	"github.com/hooplabs/nba-sync/internal/domain/team"
	"github.com/hooplabs/nba-sync/internal/domain/teamstats"
)

// SyncScoreboard reconciles one day's scoreboard: teams from line scores,
// games from headers, and points-only team lines. A game that cannot be
// reconciled is recorded as a conflict and skipped; the run keeps going.
func (s *SyncService) SyncScoreboard(ctx context.Context, params SyncParams) (map[string]int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.SyncScoreboard")
	defer span.End()

	date := strings.TrimSpace(params.Date)
	if date == "" {
		date = s.clock().In(s.resolver.civilZone).Format("2006-01-02")
	}

	summary := newSummary()

	board, err := s.provider.FetchScoreboard(ctx, date)
	if err != nil {
		s.conflicts.Record(ctx, conflict.TypeFetchFailed, map[string]any{
			"endpoint": "scoreboard",
			"date":     date,
			"error":    err.Error(),
		}, 0, 0, params.JobID)
		return summary, fmt.Errorf("fetch scoreboard date=%s: %w", date, err)
	}
	if len(board.GameHeader) == 0 {
		s.conflicts.Record(ctx, conflict.TypeEmptyPayload, map[string]any{
			"endpoint": "scoreboard",
			"date":     date,
		}, 0, 0, params.JobID)
		summary["conflicts"]++
		return summary, nil
	}

	lines := groupLineScores(board.LineScore)

	// Teams first so game rows can reference them.
	teamIDs := make(map[string]int64)
	for _, line := range board.LineScore {
		providerTeamID := PickString(line, "TEAM_ID", "teamId")
		if providerTeamID == "" {
			continue
		}
		if _, ok := teamIDs[providerTeamID]; ok {
			continue
		}
		name := strings.TrimSpace(PickString(line, "TEAM_CITY_NAME") + " " + PickString(line, "TEAM_NAME"))
		id, err := s.teamRepo.Upsert(ctx, team.Team{
			Provider:       s.cfg.Provider,
			ProviderTeamID: providerTeamID,
			Abbrev:         PickString(line, "TEAM_ABBREVIATION"),
			Name:           name,
		})
		if err != nil {
			s.logger.WarnContext(ctx, "upsert team from line score", "provider_team_id", providerTeamID, "error", err)
			continue
		}
		teamIDs[providerTeamID] = id
		summary["teams"]++
	}

	schedule := s.scheduleForDate(ctx, date, board.GameHeader, params.JobID)

	for _, header := range board.GameHeader {
		if err := s.syncScoreboardGame(ctx, date, header, lines, teamIDs, schedule, params.JobID, summary); err != nil {
			s.logger.WarnContext(ctx, "skip scoreboard game",
				"game_id", PickString(header, "GAME_ID"),
				"date", date,
				"error", err,
			)
			summary["conflicts"]++
		}
	}

	return summary, nil
}

// scheduleForDate fetches the schedule feed only when some header still
// needs a confirmed tipoff, and indexes it by provider game id.
func (s *SyncService) scheduleForDate(ctx context.Context, date string, headers []Record, jobID string) map[string]ScheduleGame {
	needed := false
	for _, header := range headers {
		gameID := PickString(header, "GAME_ID")
		if gameID == "" {
			continue
		}
		if statusClockPattern.MatchString(PickString(header, "GAME_STATUS_TEXT")) {
			continue
		}
		prior, found, err := s.gameRepo.GetByProviderID(ctx, s.cfg.Provider, gameID)
		if err == nil && found && prior.TimeConfirmed {
			continue
		}
		needed = true
		break
	}
	if !needed {
		return nil
	}

	games, err := s.provider.FetchSchedule(ctx, date, date)
	if err != nil {
		s.conflicts.Record(ctx, conflict.TypeFetchFailed, map[string]any{
			"endpoint": "schedule",
			"date":     date,
			"error":    err.Error(),
		}, 0, 0, jobID)
		return nil
	}

	indexed := make(map[string]ScheduleGame, len(games))
	for _, g := range games {
		if g.GameID != "" {
			indexed[g.GameID] = g
		}
	}
	return indexed
}

func (s *SyncService) syncScoreboardGame(
	ctx context.Context,
	date string,
	header Record,
	lines map[string][]Record,
	teamIDs map[string]int64,
	schedule map[string]ScheduleGame,
	jobID string,
	summary map[string]int,
) error {
	providerGameID := PickString(header, "GAME_ID")
	if providerGameID == "" {
		s.conflicts.Record(ctx, conflict.TypeEmptyPayload, map[string]any{
			"endpoint": "scoreboard",
			"date":     date,
			"reason":   "header without GAME_ID",
		}, 0, 0, jobID)
		return fmt.Errorf("%w: scoreboard header without GAME_ID", ErrInvalidInput)
	}

	homeTeamID, err := s.resolveHeaderTeam(ctx, teamIDs, PickString(header, "HOME_TEAM_ID"))
	if err != nil {
		s.conflicts.Record(ctx, conflict.TypeUnresolvedTeam, map[string]any{
			"game_id":          providerGameID,
			"provider_team_id": PickString(header, "HOME_TEAM_ID"),
			"side":             "home",
		}, 0, 0, jobID)
		return err
	}
	awayTeamID, err := s.resolveHeaderTeam(ctx, teamIDs, PickString(header, "VISITOR_TEAM_ID"))
	if err != nil {
		s.conflicts.Record(ctx, conflict.TypeUnresolvedTeam, map[string]any{
			"game_id":          providerGameID,
			"provider_team_id": PickString(header, "VISITOR_TEAM_ID"),
			"side":             "away",
		}, 0, 0, jobID)
		return err
	}

	gameDate := civilDate(PickString(header, "GAME_DATE_EST"))
	if gameDate == "" {
		gameDate = date
	}
	statusText := PickString(header, "GAME_STATUS_TEXT")

	var prior *game.Game
	if stored, found, err := s.gameRepo.GetByProviderID(ctx, s.cfg.Provider, providerGameID); err == nil && found {
		prior = &stored
	}

	var sched *ScheduleGame
	if entry, ok := schedule[providerGameID]; ok {
		sched = &entry
	}
	tip, err := s.resolver.Resolve(gameDate, statusText, sched, prior)
	if err != nil {
		// An unparseable game date degrades to the run's own clock; the
		// ledger keeps the evidence.
		s.conflicts.Record(ctx, conflict.TypeEmptyPayload, map[string]any{
			"endpoint": "scoreboard",
			"game_id":  providerGameID,
			"reason":   "unparseable game date",
			"date":     gameDate,
		}, 0, 0, jobID)
		summary["conflicts"]++
		tip = TipoffResolution{TipOff: s.clock().UTC()}
	}

	status := game.StatusScheduled
	var homeScore, awayScore *int
	if scoreboardStatusFinished(statusText) {
		home := lineScorePoints(lines[providerGameID], PickString(header, "HOME_TEAM_ID"))
		away := lineScorePoints(lines[providerGameID], PickString(header, "VISITOR_TEAM_ID"))
		// A game finishes only once both scores are known; a "Final"
		// header without points stays scheduled until they arrive.
		if home != nil && away != nil {
			status = game.StatusFinished
			homeScore, awayScore = home, away
		}
	}

	season := seasonFromHeader(header, gameDate)

	g := game.Game{
		Provider:       s.cfg.Provider,
		ProviderGameID: providerGameID,
		Season:         season,
		DateTimeUTC:    tip.TipOff,
		TimeConfirmed:  tip.Confirmed,
		Status:         status,
		HomeTeamID:     homeTeamID,
		AwayTeamID:     awayTeamID,
		HomeScore:      homeScore,
		AwayScore:      awayScore,
	}
	if err := g.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	gameID, err := s.gameRepo.Upsert(ctx, g)
	if err != nil {
		return fmt.Errorf("upsert game provider_game_id=%s: %w", providerGameID, err)
	}
	summary["games"]++

	for _, line := range lines[providerGameID] {
		teamID, ok := teamIDs[PickString(line, "TEAM_ID")]
		if !ok {
			continue
		}
		stat := teamstats.TeamGameStat{
			GameID: gameID,
			TeamID: teamID,
			Points: PickIntPtr(line, "PTS"),
		}
		if _, err := s.teamStatsRepo.Upsert(ctx, stat); err != nil {
			s.logger.WarnContext(ctx, "upsert line score",
				"game_id", providerGameID,
				"team_id", teamID,
				"error", err,
			)
			continue
		}
		summary["team_stats"]++
	}

	return nil
}

func (s *SyncService) resolveHeaderTeam(ctx context.Context, teamIDs map[string]int64, providerTeamID string) (int64, error) {
	if providerTeamID == "" {
		return 0, fmt.Errorf("%w: scoreboard header without team id", ErrInvalidInput)
	}
	if id, ok := teamIDs[providerTeamID]; ok {
		return id, nil
	}
	stored, found, err := s.teamRepo.GetByProviderID(ctx, s.cfg.Provider, providerTeamID)
	if err != nil {
		return 0, fmt.Errorf("load team provider_team_id=%s: %w", providerTeamID, err)
	}
	if !found {
		return 0, fmt.Errorf("%w: team provider_team_id=%s", ErrNotFound, providerTeamID)
	}
	teamIDs[providerTeamID] = stored.ID
	return stored.ID, nil
}

func groupLineScores(lineScores []Record) map[string][]Record {
	grouped := make(map[string][]Record)
	for _, line := range lineScores {
		gameID := PickString(line, "GAME_ID")
		if gameID == "" {
			continue
		}
		grouped[gameID] = append(grouped[gameID], line)
	}
	return grouped
}

func lineScorePoints(lines []Record, providerTeamID string) *int {
	for _, line := range lines {
		if PickString(line, "TEAM_ID") == providerTeamID {
			return PickIntPtr(line, "PTS")
		}
	}
	return nil
}

func scoreboardStatusFinished(statusText string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(statusText)), "final")
}

func seasonFromHeader(header Record, gameDate string) int {
	if season, ok := PickInt(header, "SEASON"); ok && season > 0 {
		return season
	}
	if day, err := time.Parse("2006-01-02", gameDate); err == nil {
		return SeasonYearForDate(day)
	}
	return 0
}
