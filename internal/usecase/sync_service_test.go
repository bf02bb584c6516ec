package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/hooplabs/nba-sync/internal/domain/team"
	"github.com/hooplabs/nba-sync/internal/infrastructure/repository/memory"
	"github.com/hooplabs/nba-sync/internal/platform/logging"
)

// fakeProvider satisfies StatsProvider with per-endpoint hooks. Unset
// hooks behave like an upstream 404 so pipelines exercise their
// missing-feed handling.
type fakeProvider struct {
	scoreboardFn     func(date string) (ScoreboardPayload, error)
	scheduleFn       func(from, to string) ([]ScheduleGame, error)
	boxTraditionalFn func(gameID string) (BoxScorePayload, error)
	boxAdvancedFn    func(gameID string) (BoxScorePayload, error)
	allPlayersFn     func(label string) ([]Record, error)
	playerInfoFn     func(playerID string) ([]Record, error)
	rosterFn         func(teamID, label string) ([]Record, error)
	injuryFn         func() (InjuryReportPayload, error)

	mu            sync.Mutex
	scheduleCalls int
}

func (f *fakeProvider) FetchScoreboard(_ context.Context, date string) (ScoreboardPayload, error) {
	if f.scoreboardFn == nil {
		return ScoreboardPayload{}, fmt.Errorf("%w: scoreboard", ErrNotFound)
	}
	return f.scoreboardFn(date)
}

func (f *fakeProvider) FetchSchedule(_ context.Context, from, to string) ([]ScheduleGame, error) {
	f.mu.Lock()
	f.scheduleCalls++
	f.mu.Unlock()
	if f.scheduleFn == nil {
		return nil, nil
	}
	return f.scheduleFn(from, to)
}

func (f *fakeProvider) FetchBoxScoreTraditional(_ context.Context, gameID string) (BoxScorePayload, error) {
	if f.boxTraditionalFn == nil {
		return BoxScorePayload{}, fmt.Errorf("%w: boxscore game_id=%s", ErrNotFound, gameID)
	}
	return f.boxTraditionalFn(gameID)
}

func (f *fakeProvider) FetchBoxScoreAdvanced(_ context.Context, gameID string) (BoxScorePayload, error) {
	if f.boxAdvancedFn == nil {
		return BoxScorePayload{}, fmt.Errorf("%w: advanced boxscore game_id=%s", ErrNotFound, gameID)
	}
	return f.boxAdvancedFn(gameID)
}

func (f *fakeProvider) FetchAllPlayers(_ context.Context, seasonLabel string, _ bool) ([]Record, error) {
	if f.allPlayersFn == nil {
		return nil, fmt.Errorf("%w: players season=%s", ErrNotFound, seasonLabel)
	}
	return f.allPlayersFn(seasonLabel)
}

func (f *fakeProvider) FetchPlayerInfo(_ context.Context, playerID string) ([]Record, error) {
	if f.playerInfoFn == nil {
		return nil, fmt.Errorf("%w: player info player_id=%s", ErrNotFound, playerID)
	}
	return f.playerInfoFn(playerID)
}

func (f *fakeProvider) FetchTeamRoster(_ context.Context, teamID, seasonLabel string) ([]Record, error) {
	if f.rosterFn == nil {
		return nil, fmt.Errorf("%w: roster team_id=%s", ErrNotFound, teamID)
	}
	return f.rosterFn(teamID, seasonLabel)
}

func (f *fakeProvider) FetchInjuryReport(_ context.Context) (InjuryReportPayload, error) {
	if f.injuryFn == nil {
		return InjuryReportPayload{}, fmt.Errorf("%w: injury report", ErrNotFound)
	}
	return f.injuryFn()
}

func (f *fakeProvider) scheduleFetchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.scheduleCalls
}

type testEnv struct {
	svc      *SyncService
	provider *fakeProvider

	teams       *memory.TeamRepository
	games       *memory.GameRepository
	teamStats   *memory.TeamStatsRepository
	players     *memory.PlayerRepository
	playerStats *memory.PlayerStatsRepository
	seasonTeams *memory.SeasonTeamRepository
	injuries    *memory.InjuryRepository
	conflicts   *memory.ConflictRepository
}

// testClock is a fixed instant every deterministic test runs at:
// 2026-02-07 12:00 UTC, mid-season.
var testClock = time.Date(2026, time.February, 7, 12, 0, 0, 0, time.UTC)

func newTestEnv(t *testing.T, cfg SyncConfig) *testEnv {
	t.Helper()

	env := &testEnv{
		provider:    &fakeProvider{},
		teams:       memory.NewTeamRepository(),
		games:       memory.NewGameRepository(),
		teamStats:   memory.NewTeamStatsRepository(),
		players:     memory.NewPlayerRepository(),
		playerStats: memory.NewPlayerStatsRepository(),
		seasonTeams: memory.NewSeasonTeamRepository(),
		injuries:    memory.NewInjuryRepository(),
		conflicts:   memory.NewConflictRepository(),
	}
	env.svc = NewSyncService(SyncServiceDeps{
		Provider:        env.provider,
		TeamRepo:        env.teams,
		GameRepo:        env.games,
		TeamStatsRepo:   env.teamStats,
		PlayerRepo:      env.players,
		PlayerStatsRepo: env.playerStats,
		SeasonTeamRepo:  env.seasonTeams,
		InjuryRepo:      env.injuries,
		ConflictRepo:    env.conflicts,
		Config:          cfg,
		Logger:          logging.NewNop(),
	})
	env.svc.now = func() time.Time { return testClock }

	return env
}

func (e *testEnv) seedTeam(t *testing.T, providerTeamID, abbrev, name string) int64 {
	t.Helper()
	id, err := e.teams.Upsert(context.Background(), team.Team{
		Provider:       "nba",
		ProviderTeamID: providerTeamID,
		Abbrev:         abbrev,
		Name:           name,
	})
	if err != nil {
		t.Fatalf("seed team %s: %v", abbrev, err)
	}
	return id
}

func (e *testEnv) conflictTypes() []string {
	var out []string
	for _, c := range e.conflicts.All() {
		out = append(out, c.Type)
	}
	return out
}

func (e *testEnv) countConflicts(conflictType string) int {
	n := 0
	for _, c := range e.conflicts.All() {
		if c.Type == conflictType {
			n++
		}
	}
	return n
}

func TestRunSyncRejectsUnknownKind(t *testing.T) {
	env := newTestEnv(t, SyncConfig{})

	_, err := env.svc.RunSync(context.Background(), "box-scores", SyncParams{})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("RunSync error = %v, want ErrInvalidInput", err)
	}
}

func TestRunSyncRequiresProvider(t *testing.T) {
	svc := NewSyncService(SyncServiceDeps{Logger: logging.NewNop()})

	_, err := svc.RunSync(context.Background(), SyncKindScoreboard, SyncParams{})
	if !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("RunSync error = %v, want ErrDependencyUnavailable", err)
	}
}

func TestRunSyncDispatchesScoreboard(t *testing.T) {
	env := newTestEnv(t, SyncConfig{})
	env.provider.scoreboardFn = func(date string) (ScoreboardPayload, error) {
		return ScoreboardPayload{GameDate: date}, nil
	}

	summary, err := env.svc.RunSync(context.Background(), SyncKindScoreboard, SyncParams{Date: "2026-02-06"})
	if err != nil {
		t.Fatalf("RunSync error = %v", err)
	}
	if summary["conflicts"] != 1 {
		t.Fatalf("summary = %v, want one empty-payload conflict", summary)
	}
}

func TestCivilDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2026-02-06T00:00:00", "2026-02-06"},
		{"2026-02-06", "2026-02-06"},
		{"  2026-02-06  ", "2026-02-06"},
		{"", ""},
	}
	for _, tc := range tests {
		if got := civilDate(tc.in); got != tc.want {
			t.Errorf("civilDate(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
