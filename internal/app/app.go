package app

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/hooplabs/nba-sync/external/nbastats"
	"github.com/hooplabs/nba-sync/internal/config"
	"github.com/hooplabs/nba-sync/internal/infrastructure/repository/postgres"
	"github.com/hooplabs/nba-sync/internal/platform/logging"
	"github.com/hooplabs/nba-sync/internal/platform/resilience"
	"github.com/hooplabs/nba-sync/internal/usecase"
)

// App wires the provider client, repositories, and services.
type App struct {
	Config config.Config
	Logger *logging.Logger
	DB     *sqlx.DB

	Sync  *usecase.SyncService
	Query *usecase.QueryService
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	db, err := OpenDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	teamRepo := postgres.NewTeamRepository(db)
	gameRepo := postgres.NewGameRepository(db)
	teamStatsRepo := postgres.NewTeamStatsRepository(db)
	playerRepo := postgres.NewPlayerRepository(db)
	playerStatsRepo := postgres.NewPlayerStatsRepository(db)
	seasonTeamRepo := postgres.NewSeasonTeamRepository(db)
	conflictRepo := postgres.NewConflictRepository(db)
	injuryRepo := postgres.NewInjuryRepository(db)

	provider := nbastats.NewClient(nbastats.ClientConfig{
		BaseURL:    cfg.ProviderBaseURL,
		APIKey:     cfg.ProviderAPIKey,
		Timeout:    cfg.ProviderTimeout,
		MaxRetries: cfg.ProviderMaxRetries,
		Logger:     logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.ProviderCircuitEnabled,
			FailureThreshold: cfg.ProviderCircuitFailures,
			OpenTimeout:      cfg.ProviderCircuitOpenWait,
			HalfOpenMaxReq:   cfg.ProviderCircuitHalfOpen,
		},
	})

	syncSvc := usecase.NewSyncService(usecase.SyncServiceDeps{
		Provider:        provider,
		TeamRepo:        teamRepo,
		GameRepo:        gameRepo,
		TeamStatsRepo:   teamStatsRepo,
		PlayerRepo:      playerRepo,
		PlayerStatsRepo: playerStatsRepo,
		SeasonTeamRepo:  seasonTeamRepo,
		InjuryRepo:      injuryRepo,
		ConflictRepo:    conflictRepo,
		Config: usecase.SyncConfig{
			Provider:             cfg.ProviderName,
			SeasonStarts:         cfg.SeasonStarts,
			FinalizeLookbackDays: cfg.FinalizeLookbackDays,
			PlayerInfoLimit:      cfg.PlayerInfoLimit,
			CivilTZ:              cfg.CivilTZ,
		},
		Logger: logger,
	})

	querySvc := usecase.NewQueryService(
		gameRepo,
		teamStatsRepo,
		playerStatsRepo,
		seasonTeamRepo,
		conflictRepo,
		injuryRepo,
		logger,
	)

	return &App{
		Config: cfg,
		Logger: logger,
		DB:     db,
		Sync:   syncSvc,
		Query:  querySvc,
	}, nil
}

func (a *App) Close() error {
	if a == nil || a.DB == nil {
		return nil
	}
	if err := a.DB.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}

	return nil
}
