package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/hooplabs/nba-sync/internal/domain/conflict"
	"github.com/hooplabs/nba-sync/internal/domain/game"
)

func scoreboardFixture(statusText string, withPoints bool) ScoreboardPayload {
	home := Record{
		"GAME_ID":           "0022500001",
		"TEAM_ID":           float64(1610612747),
		"TEAM_ABBREVIATION": "LAL",
		"TEAM_CITY_NAME":    "Los Angeles",
		"TEAM_NAME":         "Lakers",
	}
	away := Record{
		"GAME_ID":           "0022500001",
		"TEAM_ID":           float64(1610612738),
		"TEAM_ABBREVIATION": "BOS",
		"TEAM_CITY_NAME":    "Boston",
		"TEAM_NAME":         "Celtics",
	}
	if withPoints {
		home["PTS"] = float64(112)
		away["PTS"] = float64(105)
	}

	return ScoreboardPayload{
		GameDate: "2026-02-06",
		GameHeader: []Record{{
			"GAME_ID":          "0022500001",
			"GAME_DATE_EST":    "2026-02-06T00:00:00",
			"GAME_STATUS_TEXT": statusText,
			"HOME_TEAM_ID":     float64(1610612747),
			"VISITOR_TEAM_ID":  float64(1610612738),
			"SEASON":           float64(2025),
		}},
		LineScore: []Record{home, away},
	}
}

func TestSyncScoreboardCreatesTeamsGamesAndLines(t *testing.T) {
	env := newTestEnv(t, SyncConfig{})
	env.provider.scoreboardFn = func(string) (ScoreboardPayload, error) {
		return scoreboardFixture("7:30 pm ET", false), nil
	}

	summary, err := env.svc.SyncScoreboard(context.Background(), SyncParams{Date: "2026-02-06"})
	if err != nil {
		t.Fatalf("SyncScoreboard error = %v", err)
	}

	if summary["teams"] != 2 || summary["games"] != 1 || summary["team_stats"] != 2 {
		t.Fatalf("summary = %v", summary)
	}
	if env.provider.scheduleFetchCount() != 0 {
		t.Fatal("schedule must not be fetched when the status text carries a clock")
	}

	g, found, err := env.games.GetByProviderID(context.Background(), "nba", "0022500001")
	if err != nil || !found {
		t.Fatalf("game not stored: found=%v err=%v", found, err)
	}
	wantTip := time.Date(2026, time.February, 7, 0, 30, 0, 0, time.UTC)
	if !g.DateTimeUTC.Equal(wantTip) || !g.TimeConfirmed {
		t.Errorf("tipoff = %v confirmed=%v, want %v confirmed", g.DateTimeUTC, g.TimeConfirmed, wantTip)
	}
	if g.Status != game.StatusScheduled || g.Season != 2025 {
		t.Errorf("status=%s season=%d", g.Status, g.Season)
	}

	lines, err := env.teamStats.ListByGame(context.Background(), g.ID)
	if err != nil || len(lines) != 2 {
		t.Fatalf("team lines = %d err=%v, want 2", len(lines), err)
	}
	for _, line := range lines {
		if line.Points != nil {
			t.Errorf("scheduled game line has points: %+v", line)
		}
	}
}

func TestSyncScoreboardFinalKeepsConfirmedTipoff(t *testing.T) {
	env := newTestEnv(t, SyncConfig{})
	env.provider.scoreboardFn = func(string) (ScoreboardPayload, error) {
		return scoreboardFixture("7:30 pm ET", false), nil
	}
	if _, err := env.svc.SyncScoreboard(context.Background(), SyncParams{Date: "2026-02-06"}); err != nil {
		t.Fatalf("first run error = %v", err)
	}

	env.provider.scoreboardFn = func(string) (ScoreboardPayload, error) {
		return scoreboardFixture("Final", true), nil
	}
	summary, err := env.svc.SyncScoreboard(context.Background(), SyncParams{Date: "2026-02-06"})
	if err != nil {
		t.Fatalf("second run error = %v", err)
	}
	if summary["games"] != 1 {
		t.Fatalf("summary = %v", summary)
	}
	if env.provider.scheduleFetchCount() != 0 {
		t.Fatal("schedule must not be fetched once the tipoff is confirmed")
	}

	g, _, _ := env.games.GetByProviderID(context.Background(), "nba", "0022500001")
	wantTip := time.Date(2026, time.February, 7, 0, 30, 0, 0, time.UTC)
	if !g.DateTimeUTC.Equal(wantTip) || !g.TimeConfirmed {
		t.Errorf("tipoff regressed: %v confirmed=%v", g.DateTimeUTC, g.TimeConfirmed)
	}
	if g.Status != game.StatusFinished {
		t.Errorf("status = %s, want finished", g.Status)
	}
	if g.HomeScore == nil || *g.HomeScore != 112 || g.AwayScore == nil || *g.AwayScore != 105 {
		t.Errorf("scores = %v/%v, want 112/105", g.HomeScore, g.AwayScore)
	}
}

func TestSyncScoreboardFetchesScheduleForUnconfirmedGames(t *testing.T) {
	env := newTestEnv(t, SyncConfig{})
	env.provider.scoreboardFn = func(string) (ScoreboardPayload, error) {
		return scoreboardFixture("Scheduled", false), nil
	}
	env.provider.scheduleFn = func(from, to string) ([]ScheduleGame, error) {
		if from != "2026-02-06" || to != "2026-02-06" {
			t.Errorf("schedule range = %s..%s", from, to)
		}
		return []ScheduleGame{{
			GameID:       "0022500001",
			StartTimeUTC: "2026-02-07T01:00:00Z",
		}}, nil
	}

	if _, err := env.svc.SyncScoreboard(context.Background(), SyncParams{Date: "2026-02-06"}); err != nil {
		t.Fatalf("SyncScoreboard error = %v", err)
	}
	if env.provider.scheduleFetchCount() != 1 {
		t.Fatalf("schedule calls = %d, want 1", env.provider.scheduleFetchCount())
	}

	g, _, _ := env.games.GetByProviderID(context.Background(), "nba", "0022500001")
	wantTip := time.Date(2026, time.February, 7, 1, 0, 0, 0, time.UTC)
	if !g.DateTimeUTC.Equal(wantTip) || !g.TimeConfirmed {
		t.Errorf("tipoff = %v confirmed=%v, want %v confirmed", g.DateTimeUTC, g.TimeConfirmed, wantTip)
	}
}

func TestSyncScoreboardPlaceholderWhenScheduleSilent(t *testing.T) {
	env := newTestEnv(t, SyncConfig{})
	env.provider.scoreboardFn = func(string) (ScoreboardPayload, error) {
		return scoreboardFixture("Scheduled", false), nil
	}

	if _, err := env.svc.SyncScoreboard(context.Background(), SyncParams{Date: "2026-02-06"}); err != nil {
		t.Fatalf("SyncScoreboard error = %v", err)
	}

	g, _, _ := env.games.GetByProviderID(context.Background(), "nba", "0022500001")
	if g.TimeConfirmed {
		t.Fatal("placeholder tipoff must stay unconfirmed")
	}
	// Midnight UTC of the game date.
	wantTip := time.Date(2026, time.February, 6, 0, 0, 0, 0, time.UTC)
	if !g.DateTimeUTC.Equal(wantTip) {
		t.Errorf("tipoff = %v, want %v", g.DateTimeUTC, wantTip)
	}
}

func TestSyncScoreboardFinalWithoutScoresStaysScheduled(t *testing.T) {
	env := newTestEnv(t, SyncConfig{})
	env.provider.scoreboardFn = func(string) (ScoreboardPayload, error) {
		return scoreboardFixture("Final", false), nil
	}

	summary, err := env.svc.SyncScoreboard(context.Background(), SyncParams{Date: "2026-02-06"})
	if err != nil {
		t.Fatalf("SyncScoreboard error = %v", err)
	}
	if summary["games"] != 1 {
		t.Fatalf("summary = %v", summary)
	}

	g, _, _ := env.games.GetByProviderID(context.Background(), "nba", "0022500001")
	if g.Status != game.StatusScheduled {
		t.Fatalf("status = %s, want scheduled until both scores are known", g.Status)
	}
	if g.HomeScore != nil || g.AwayScore != nil {
		t.Errorf("scores = %v/%v, want nil/nil", g.HomeScore, g.AwayScore)
	}
}

func TestSyncScoreboardHeaderWithoutGameID(t *testing.T) {
	env := newTestEnv(t, SyncConfig{})
	board := scoreboardFixture("7:30 pm ET", false)
	delete(board.GameHeader[0], "GAME_ID")
	env.provider.scoreboardFn = func(string) (ScoreboardPayload, error) {
		return board, nil
	}

	summary, err := env.svc.SyncScoreboard(context.Background(), SyncParams{Date: "2026-02-06"})
	if err != nil {
		t.Fatalf("run should continue past the bad header, got %v", err)
	}
	if summary["games"] != 0 || summary["conflicts"] != 1 {
		t.Fatalf("summary = %v", summary)
	}
	if n := env.countConflicts(conflict.TypeEmptyPayload); n != 1 {
		t.Fatalf("empty_payload conflicts = %d, want 1 (all: %v)", n, env.conflictTypes())
	}
}

func TestSyncScoreboardUnparseableDateDegradesToClock(t *testing.T) {
	env := newTestEnv(t, SyncConfig{})
	board := scoreboardFixture("7:30 pm ET", false)
	board.GameHeader[0]["GAME_DATE_EST"] = "02/06/2026T00:00:00"
	env.provider.scoreboardFn = func(string) (ScoreboardPayload, error) {
		return board, nil
	}

	summary, err := env.svc.SyncScoreboard(context.Background(), SyncParams{Date: "2026-02-06"})
	if err != nil {
		t.Fatalf("SyncScoreboard error = %v", err)
	}
	if summary["games"] != 1 || summary["conflicts"] != 1 {
		t.Fatalf("summary = %v, want the game stored and the date ledgered", summary)
	}
	if n := env.countConflicts(conflict.TypeEmptyPayload); n != 1 {
		t.Fatalf("empty_payload conflicts = %d, want 1", n)
	}

	g, _, _ := env.games.GetByProviderID(context.Background(), "nba", "0022500001")
	if !g.DateTimeUTC.Equal(testClock) || g.TimeConfirmed {
		t.Errorf("tipoff = %v confirmed=%v, want run clock unconfirmed", g.DateTimeUTC, g.TimeConfirmed)
	}
}

func TestSyncScoreboardFetchFailure(t *testing.T) {
	env := newTestEnv(t, SyncConfig{})
	env.provider.scoreboardFn = func(string) (ScoreboardPayload, error) {
		return ScoreboardPayload{}, fmt.Errorf("upstream 503")
	}

	_, err := env.svc.SyncScoreboard(context.Background(), SyncParams{Date: "2026-02-06", JobID: "job-9"})
	if err == nil {
		t.Fatal("SyncScoreboard should surface the fetch failure")
	}
	if n := env.countConflicts(conflict.TypeFetchFailed); n != 1 {
		t.Fatalf("fetch_failed conflicts = %d, want 1 (all: %v)", n, env.conflictTypes())
	}
}

func TestSyncScoreboardEmptyPayload(t *testing.T) {
	env := newTestEnv(t, SyncConfig{})
	env.provider.scoreboardFn = func(string) (ScoreboardPayload, error) {
		return ScoreboardPayload{GameDate: "2026-02-06"}, nil
	}

	summary, err := env.svc.SyncScoreboard(context.Background(), SyncParams{Date: "2026-02-06"})
	if err != nil {
		t.Fatalf("empty scoreboard is not an error, got %v", err)
	}
	if summary["conflicts"] != 1 {
		t.Fatalf("summary = %v", summary)
	}
	if n := env.countConflicts(conflict.TypeEmptyPayload); n != 1 {
		t.Fatalf("empty_payload conflicts = %d, want 1", n)
	}
}

func TestSyncScoreboardUnresolvedTeamSkipsGame(t *testing.T) {
	env := newTestEnv(t, SyncConfig{})
	board := scoreboardFixture("7:30 pm ET", false)
	// Home side references a team no line score or stored row explains.
	board.GameHeader[0]["HOME_TEAM_ID"] = float64(999)
	board.LineScore = board.LineScore[1:]
	env.provider.scoreboardFn = func(string) (ScoreboardPayload, error) {
		return board, nil
	}

	summary, err := env.svc.SyncScoreboard(context.Background(), SyncParams{Date: "2026-02-06"})
	if err != nil {
		t.Fatalf("run should continue past the bad game, got %v", err)
	}
	if summary["games"] != 0 || summary["conflicts"] != 1 {
		t.Fatalf("summary = %v", summary)
	}
	if n := env.countConflicts(conflict.TypeUnresolvedTeam); n != 1 {
		t.Fatalf("unresolved_team conflicts = %d, want 1", n)
	}

	if _, found, _ := env.games.GetByProviderID(context.Background(), "nba", "0022500001"); found {
		t.Fatal("game with an unresolved side must not be stored")
	}
}
