package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/hooplabs/nba-sync/internal/domain/conflict"
	"github.com/hooplabs/nba-sync/internal/domain/game"
	"github.com/hooplabs/nba-sync/internal/domain/injury"
	"github.com/hooplabs/nba-sync/internal/domain/playerstats"
	"github.com/hooplabs/nba-sync/internal/domain/seasonteam"
	"github.com/hooplabs/nba-sync/internal/domain/teamstats"
	"github.com/hooplabs/nba-sync/internal/platform/logging"
)

// QueryService exposes read paths over synced data for operators and
// downstream consumers.
type QueryService struct {
	gameRepo        game.Repository
	teamStatsRepo   teamstats.Repository
	playerStatsRepo playerstats.Repository
	seasonTeamRepo  seasonteam.Repository
	conflictRepo    conflict.Repository
	injuryRepo      injury.Repository
	logger          *logging.Logger
}

func NewQueryService(
	gameRepo game.Repository,
	teamStatsRepo teamstats.Repository,
	playerStatsRepo playerstats.Repository,
	seasonTeamRepo seasonteam.Repository,
	conflictRepo conflict.Repository,
	injuryRepo injury.Repository,
	logger *logging.Logger,
) *QueryService {
	if logger == nil {
		logger = logging.Default()
	}

	return &QueryService{
		gameRepo:        gameRepo,
		teamStatsRepo:   teamStatsRepo,
		playerStatsRepo: playerStatsRepo,
		seasonTeamRepo:  seasonTeamRepo,
		conflictRepo:    conflictRepo,
		injuryRepo:      injuryRepo,
		logger:          logger,
	}
}

// GameDetail bundles a game with its team and player lines.
type GameDetail struct {
	Game        game.Game
	TeamLines   []teamstats.TeamGameStat
	PlayerLines []playerstats.PlayerGameStat
}

func (s *QueryService) GetGameDetail(ctx context.Context, provider, providerGameID string) (GameDetail, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.QueryService.GetGameDetail")
	defer span.End()

	g, found, err := s.gameRepo.GetByProviderID(ctx, provider, providerGameID)
	if err != nil {
		return GameDetail{}, fmt.Errorf("load game provider_game_id=%s: %w", providerGameID, err)
	}
	if !found {
		return GameDetail{}, fmt.Errorf("%w: game provider_game_id=%s", ErrNotFound, providerGameID)
	}

	teamLines, err := s.teamStatsRepo.ListByGame(ctx, g.ID)
	if err != nil {
		return GameDetail{}, fmt.Errorf("list team lines game_id=%d: %w", g.ID, err)
	}
	playerLines, err := s.playerStatsRepo.ListByGame(ctx, g.ID)
	if err != nil {
		return GameDetail{}, fmt.Errorf("list player lines game_id=%d: %w", g.ID, err)
	}

	return GameDetail{Game: g, TeamLines: teamLines, PlayerLines: playerLines}, nil
}

func (s *QueryService) ListGamesByDate(ctx context.Context, provider string, from, to time.Time) ([]game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.QueryService.ListGamesByDate")
	defer span.End()

	games, err := s.gameRepo.ListByDateRange(ctx, provider, from, to)
	if err != nil {
		return nil, fmt.Errorf("list games from=%s to=%s: %w", from.Format(time.RFC3339), to.Format(time.RFC3339), err)
	}
	return games, nil
}

// GetPlayerSeasonHistory returns a player's team intervals, all seasons.
func (s *QueryService) GetPlayerSeasonHistory(ctx context.Context, playerID int64) ([]seasonteam.Assignment, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.QueryService.GetPlayerSeasonHistory")
	defer span.End()

	history, err := s.seasonTeamRepo.ListByPlayer(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("list assignments player_id=%d: %w", playerID, err)
	}
	return history, nil
}

func (s *QueryService) ListConflicts(ctx context.Context, conflictType string, limit int) ([]conflict.Conflict, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.QueryService.ListConflicts")
	defer span.End()

	if limit <= 0 {
		limit = 100
	}
	conflicts, err := s.conflictRepo.ListByType(ctx, conflictType, limit)
	if err != nil {
		return nil, fmt.Errorf("list conflicts type=%s: %w", conflictType, err)
	}
	return conflicts, nil
}

// GetInjuryReport returns a stored report and its entries by source URL.
func (s *QueryService) GetInjuryReport(ctx context.Context, sourceURL string) (injury.Report, []injury.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.QueryService.GetInjuryReport")
	defer span.End()

	report, found, err := s.injuryRepo.GetReportBySourceURL(ctx, sourceURL)
	if err != nil {
		return injury.Report{}, nil, fmt.Errorf("load injury report source_url=%s: %w", sourceURL, err)
	}
	if !found {
		return injury.Report{}, nil, fmt.Errorf("%w: injury report source_url=%s", ErrNotFound, sourceURL)
	}

	entries, err := s.injuryRepo.ListEntriesByReport(ctx, report.ID)
	if err != nil {
		return injury.Report{}, nil, fmt.Errorf("list injury entries report_id=%d: %w", report.ID, err)
	}

	return report, entries, nil
}
