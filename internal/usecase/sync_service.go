package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hooplabs/nba-sync/internal/domain/conflict"
	"github.com/hooplabs/nba-sync/internal/domain/game"
	"github.com/hooplabs/nba-sync/internal/domain/injury"
	"github.com/hooplabs/nba-sync/internal/domain/player"
	"github.com/hooplabs/nba-sync/internal/domain/playerstats"
	"github.com/hooplabs/nba-sync/internal/domain/seasonteam"
	"github.com/hooplabs/nba-sync/internal/domain/team"
	"github.com/hooplabs/nba-sync/internal/domain/teamstats"
	"github.com/hooplabs/nba-sync/internal/platform/logging"
)

// Sync kinds accepted by RunSync.
const (
	SyncKindScoreboard        = "scoreboard"
	SyncKindFinalResults      = "final-results"
	SyncKindPlayerGameStats   = "player-game-stats"
	SyncKindPlayers           = "players"
	SyncKindPlayerSeasonTeams = "player-season-teams"
	SyncKindInjuryReport      = "injury-report"
)

// SyncConfig carries pipeline tuning.
type SyncConfig struct {
	// Provider namespaces every natural key, e.g. "nba".
	Provider string
	// SeasonStarts maps a season's starting year to its first-game
	// instant; assignments for a season cannot open without one.
	SeasonStarts map[int]time.Time
	// FinalizeLookbackDays bounds how far back final-results scans for
	// unfinished games.
	FinalizeLookbackDays int
	// PlayerInfoLimit caps bio enrichment calls per players run.
	PlayerInfoLimit int
	// CivilTZ is the league's civil time zone for game dates.
	CivilTZ string
}

// SyncParams selects what a single run covers. Zero values fall back to
// pipeline defaults (today's date, the current season, all due games).
type SyncParams struct {
	Date           string
	GameID         string
	Season         int
	JobID          string
	IncludePlayers bool
}

// SyncService runs the reconciliation pipelines against one provider.
type SyncService struct {
	provider StatsProvider

	teamRepo        team.Repository
	gameRepo        game.Repository
	teamStatsRepo   teamstats.Repository
	playerRepo      player.Repository
	playerStatsRepo playerstats.Repository
	seasonTeamRepo  seasonteam.Repository
	injuryRepo      injury.Repository

	conflicts *ConflictLedger
	resolver  *TipoffResolver
	cfg       SyncConfig
	logger    *logging.Logger
	now       func() time.Time
}

type SyncServiceDeps struct {
	Provider        StatsProvider
	TeamRepo        team.Repository
	GameRepo        game.Repository
	TeamStatsRepo   teamstats.Repository
	PlayerRepo      player.Repository
	PlayerStatsRepo playerstats.Repository
	SeasonTeamRepo  seasonteam.Repository
	InjuryRepo      injury.Repository
	ConflictRepo    conflict.Repository
	Config          SyncConfig
	Logger          *logging.Logger
}

func NewSyncService(deps SyncServiceDeps) *SyncService {
	logger := deps.Logger
	if logger == nil {
		logger = logging.Default()
	}
	cfg := deps.Config
	if cfg.Provider == "" {
		cfg.Provider = "nba"
	}
	if cfg.FinalizeLookbackDays <= 0 {
		cfg.FinalizeLookbackDays = 3
	}
	if cfg.PlayerInfoLimit <= 0 {
		cfg.PlayerInfoLimit = 25
	}
	if cfg.CivilTZ == "" {
		cfg.CivilTZ = "America/New_York"
	}

	return &SyncService{
		provider:        deps.Provider,
		teamRepo:        deps.TeamRepo,
		gameRepo:        deps.GameRepo,
		teamStatsRepo:   deps.TeamStatsRepo,
		playerRepo:      deps.PlayerRepo,
		playerStatsRepo: deps.PlayerStatsRepo,
		seasonTeamRepo:  deps.SeasonTeamRepo,
		injuryRepo:      deps.InjuryRepo,
		conflicts:       NewConflictLedger(deps.ConflictRepo, logger),
		resolver:        NewTipoffResolver(cfg.CivilTZ),
		cfg:             cfg,
		logger:          logger,
	}
}

// RunSync dispatches one sync run and returns per-entity upsert counts.
func (s *SyncService) RunSync(ctx context.Context, kind string, params SyncParams) (map[string]int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.RunSync")
	defer span.End()

	if s.provider == nil {
		return nil, fmt.Errorf("%w: stats provider is not configured", ErrDependencyUnavailable)
	}

	started := s.clock()
	var (
		summary map[string]int
		err     error
	)
	switch strings.TrimSpace(kind) {
	case SyncKindScoreboard:
		summary, err = s.SyncScoreboard(ctx, params)
	case SyncKindFinalResults:
		summary, err = s.SyncFinalResults(ctx, params)
	case SyncKindPlayerGameStats:
		summary, err = s.SyncPlayerGameStats(ctx, params)
	case SyncKindPlayers:
		summary, err = s.SyncPlayers(ctx, params)
	case SyncKindPlayerSeasonTeams:
		summary, err = s.SyncPlayerSeasonTeams(ctx, params)
	case SyncKindInjuryReport:
		summary, err = s.SyncInjuryReport(ctx, params)
	default:
		return nil, fmt.Errorf("%w: unknown sync kind %q", ErrInvalidInput, kind)
	}
	if err != nil {
		return summary, fmt.Errorf("run sync kind=%s: %w", kind, err)
	}

	s.logger.InfoContext(ctx, "sync run finished",
		"kind", kind,
		"job_id", params.JobID,
		"duration_ms", time.Since(started).Milliseconds(),
		"summary", summary,
	)

	return summary, nil
}

func (s *SyncService) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}

// civilDate normalizes the provider's game date variants
// ("2026-02-06T00:00:00" or "2026-02-06") to a bare date.
func civilDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if idx := strings.IndexByte(raw, 'T'); idx >= 0 {
		return raw[:idx]
	}
	return raw
}

func newSummary() map[string]int {
	return map[string]int{}
}
