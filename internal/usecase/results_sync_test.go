package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/hooplabs/nba-sync/internal/domain/conflict"
	"github.com/hooplabs/nba-sync/internal/domain/game"
)

func (e *testEnv) seedScheduledGame(t *testing.T, providerGameID string, tip time.Time, homeTeamID, awayTeamID int64) game.Game {
	t.Helper()
	id, err := e.games.Upsert(context.Background(), game.Game{
		Provider:       "nba",
		ProviderGameID: providerGameID,
		Season:         2025,
		DateTimeUTC:    tip,
		TimeConfirmed:  true,
		Status:         game.StatusScheduled,
		HomeTeamID:     homeTeamID,
		AwayTeamID:     awayTeamID,
	})
	if err != nil {
		t.Fatalf("seed game %s: %v", providerGameID, err)
	}
	g, _, err := e.games.GetByProviderID(context.Background(), "nba", providerGameID)
	if err != nil {
		t.Fatalf("load seeded game: %v", err)
	}
	g.ID = id
	return g
}

func traditionalBoxFixture(gameID string) BoxScorePayload {
	return BoxScorePayload{
		GameID: gameID,
		TeamStats: []Record{
			{
				"teamId":              "1610612747",
				"teamTricode":         "LAL",
				"points":              float64(112),
				"fieldGoalsMade":      float64(42),
				"fieldGoalsAttempted": float64(88),
				"reboundsTotal":       float64(44),
				"assists":             float64(27),
				"turnovers":           float64(12),
			},
			{
				"teamId":              "1610612738",
				"teamTricode":         "BOS",
				"points":              float64(105),
				"fieldGoalsMade":      float64(39),
				"fieldGoalsAttempted": float64(90),
				"reboundsTotal":       float64(41),
				"assists":             float64(24),
				"turnovers":           float64(15),
			},
		},
	}
}

func TestSyncFinalResultsFinalizesDueGame(t *testing.T) {
	env := newTestEnv(t, SyncConfig{})
	homeID := env.seedTeam(t, "1610612747", "LAL", "Los Angeles Lakers")
	awayID := env.seedTeam(t, "1610612738", "BOS", "Boston Celtics")
	tip := time.Date(2026, time.February, 7, 0, 30, 0, 0, time.UTC)
	seeded := env.seedScheduledGame(t, "0022500001", tip, homeID, awayID)

	env.provider.boxTraditionalFn = func(gameID string) (BoxScorePayload, error) {
		return traditionalBoxFixture(gameID), nil
	}
	env.provider.boxAdvancedFn = func(gameID string) (BoxScorePayload, error) {
		return BoxScorePayload{GameID: gameID, TeamStats: []Record{
			{"teamId": "1610612747", "offensiveRating": 118.2, "defensiveRating": 110.9, "pace": 99.1},
			{"teamId": "1610612738", "offensiveRating": 110.9, "defensiveRating": 118.2, "pace": 99.1},
		}}, nil
	}

	summary, err := env.svc.SyncFinalResults(context.Background(), SyncParams{})
	if err != nil {
		t.Fatalf("SyncFinalResults error = %v", err)
	}
	if summary["games_finalized"] != 1 || summary["team_stats"] != 2 {
		t.Fatalf("summary = %v", summary)
	}

	g, _, _ := env.games.GetByProviderID(context.Background(), "nba", "0022500001")
	if g.Status != game.StatusFinished {
		t.Fatalf("status = %s, want finished", g.Status)
	}
	if g.HomeScore == nil || *g.HomeScore != 112 || g.AwayScore == nil || *g.AwayScore != 105 {
		t.Errorf("scores = %v/%v, want 112/105", g.HomeScore, g.AwayScore)
	}

	lines, _ := env.teamStats.ListByGame(context.Background(), seeded.ID)
	if len(lines) != 2 {
		t.Fatalf("team lines = %d, want 2", len(lines))
	}
	for _, line := range lines {
		if line.OffensiveRating == nil || line.Pace == nil {
			t.Errorf("advanced rates missing on line %+v", line)
		}
		if line.FieldGoalsMade == nil {
			t.Errorf("traditional columns missing on line %+v", line)
		}
	}
}

func TestSyncFinalResultsMissingBoxIsConflictAndIsolated(t *testing.T) {
	env := newTestEnv(t, SyncConfig{})
	homeID := env.seedTeam(t, "1610612747", "LAL", "Los Angeles Lakers")
	awayID := env.seedTeam(t, "1610612738", "BOS", "Boston Celtics")
	tip := time.Date(2026, time.February, 7, 0, 30, 0, 0, time.UTC)
	env.seedScheduledGame(t, "0022500001", tip, homeID, awayID)
	env.seedScheduledGame(t, "0022500002", tip.Add(time.Hour), homeID, awayID)

	// The first game's box score answers like an upstream 404; the second
	// is published.
	env.provider.boxTraditionalFn = func(gameID string) (BoxScorePayload, error) {
		if gameID == "0022500001" {
			return BoxScorePayload{}, fmt.Errorf("%w: upstream status 404", ErrNotFound)
		}
		return traditionalBoxFixture(gameID), nil
	}

	summary, err := env.svc.SyncFinalResults(context.Background(), SyncParams{})
	if err != nil {
		t.Fatalf("SyncFinalResults error = %v", err)
	}
	if summary["games_finalized"] != 1 || summary["conflicts"] != 1 {
		t.Fatalf("summary = %v, want the published game finalized and one conflict", summary)
	}
	if n := env.countConflicts(conflict.TypeFetchFailed); n != 1 {
		t.Fatalf("fetch_failed conflicts = %d, want exactly one for the 404 game", n)
	}

	g, _, _ := env.games.GetByProviderID(context.Background(), "nba", "0022500001")
	if g.Status != game.StatusScheduled {
		t.Fatalf("status = %s, want still scheduled", g.Status)
	}
	g, _, _ = env.games.GetByProviderID(context.Background(), "nba", "0022500002")
	if g.Status != game.StatusFinished {
		t.Fatalf("status = %s, want the other game finished", g.Status)
	}
}

func TestSyncFinalResultsMissingSide(t *testing.T) {
	env := newTestEnv(t, SyncConfig{})
	homeID := env.seedTeam(t, "1610612747", "LAL", "Los Angeles Lakers")
	awayID := env.seedTeam(t, "1610612738", "BOS", "Boston Celtics")
	tip := time.Date(2026, time.February, 7, 0, 30, 0, 0, time.UTC)
	env.seedScheduledGame(t, "0022500001", tip, homeID, awayID)

	env.provider.boxTraditionalFn = func(gameID string) (BoxScorePayload, error) {
		box := traditionalBoxFixture(gameID)
		box.TeamStats = box.TeamStats[:1]
		return box, nil
	}

	summary, err := env.svc.SyncFinalResults(context.Background(), SyncParams{})
	if err != nil {
		t.Fatalf("SyncFinalResults error = %v", err)
	}
	if summary["games_finalized"] != 0 || summary["conflicts"] != 1 {
		t.Fatalf("summary = %v", summary)
	}
	if n := env.countConflicts(conflict.TypeMissingTeamStats); n != 1 {
		t.Fatalf("missing_team_stats conflicts = %d, want 1 (all: %v)", n, env.conflictTypes())
	}

	g, _, _ := env.games.GetByProviderID(context.Background(), "nba", "0022500001")
	if g.Status != game.StatusScheduled {
		t.Fatalf("status = %s, want still scheduled", g.Status)
	}
}

func TestSyncFinalResultsAdvancedFeedFailureIsIsolated(t *testing.T) {
	env := newTestEnv(t, SyncConfig{})
	homeID := env.seedTeam(t, "1610612747", "LAL", "Los Angeles Lakers")
	awayID := env.seedTeam(t, "1610612738", "BOS", "Boston Celtics")
	tip := time.Date(2026, time.February, 7, 0, 30, 0, 0, time.UTC)
	env.seedScheduledGame(t, "0022500001", tip, homeID, awayID)

	env.provider.boxTraditionalFn = func(gameID string) (BoxScorePayload, error) {
		return traditionalBoxFixture(gameID), nil
	}
	env.provider.boxAdvancedFn = func(string) (BoxScorePayload, error) {
		return BoxScorePayload{}, fmt.Errorf("upstream 502")
	}

	summary, err := env.svc.SyncFinalResults(context.Background(), SyncParams{})
	if err != nil {
		t.Fatalf("SyncFinalResults error = %v", err)
	}
	if summary["games_finalized"] != 1 {
		t.Fatalf("summary = %v, want finalization despite advanced failure", summary)
	}
	if n := env.countConflicts(conflict.TypeFetchFailed); n != 1 {
		t.Fatalf("fetch_failed conflicts = %d, want 1", n)
	}
}

func TestSyncFinalResultsHonorsLookbackFloor(t *testing.T) {
	env := newTestEnv(t, SyncConfig{FinalizeLookbackDays: 3})
	homeID := env.seedTeam(t, "1610612747", "LAL", "Los Angeles Lakers")
	awayID := env.seedTeam(t, "1610612738", "BOS", "Boston Celtics")
	stale := time.Date(2026, time.February, 1, 0, 30, 0, 0, time.UTC)
	env.seedScheduledGame(t, "0022500001", stale, homeID, awayID)

	env.provider.boxTraditionalFn = func(gameID string) (BoxScorePayload, error) {
		return traditionalBoxFixture(gameID), nil
	}

	summary, err := env.svc.SyncFinalResults(context.Background(), SyncParams{})
	if err != nil {
		t.Fatalf("SyncFinalResults error = %v", err)
	}
	if summary["games_finalized"] != 0 {
		t.Fatalf("summary = %v, want stale game left alone", summary)
	}
}

func TestSyncFinalResultsExplicitUnknownGame(t *testing.T) {
	env := newTestEnv(t, SyncConfig{})

	_, err := env.svc.SyncFinalResults(context.Background(), SyncParams{GameID: "0029999999"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestSyncFinalResultsIncludePlayers(t *testing.T) {
	env := newTestEnv(t, SyncConfig{})
	homeID := env.seedTeam(t, "1610612747", "LAL", "Los Angeles Lakers")
	awayID := env.seedTeam(t, "1610612738", "BOS", "Boston Celtics")
	tip := time.Date(2026, time.February, 7, 0, 30, 0, 0, time.UTC)
	seeded := env.seedScheduledGame(t, "0022500001", tip, homeID, awayID)

	env.provider.boxTraditionalFn = func(gameID string) (BoxScorePayload, error) {
		box := traditionalBoxFixture(gameID)
		box.PlayerStats = []Record{
			{
				"personId":        float64(2544),
				"firstName":       "LeBron",
				"familyName":      "James",
				"teamId":          "1610612747",
				"minutes":         "PT34M12.00S",
				"points":          float64(28),
				"assists":         float64(9),
				"plusMinusPoints": float64(7),
				"starter":         "1",
			},
			{
				"personId":         float64(1628369),
				"name":             "Jayson Tatum",
				"teamId":           "1610612738",
				"minutes":          "",
				"notPlayingReason": "INACTIVE_INJURY",
			},
		}
		return box, nil
	}

	summary, err := env.svc.SyncFinalResults(context.Background(), SyncParams{IncludePlayers: true})
	if err != nil {
		t.Fatalf("SyncFinalResults error = %v", err)
	}
	if summary["player_stats"] != 2 || summary["players"] != 2 {
		t.Fatalf("summary = %v, want 2 lines and 2 created players", summary)
	}

	lines, _ := env.playerStats.ListByGame(context.Background(), seeded.ID)
	if len(lines) != 2 {
		t.Fatalf("player lines = %d, want 2", len(lines))
	}
	for _, line := range lines {
		switch {
		case line.Points != nil && *line.Points == 28:
			if line.Minutes == nil || math.Abs(*line.Minutes-34.2) > 0.001 {
				t.Errorf("minutes = %v, want 34.2", line.Minutes)
			}
			if line.Starter == nil || !*line.Starter {
				t.Errorf("starter = %v, want true", line.Starter)
			}
			if line.PlusMinus == nil || *line.PlusMinus != 7 {
				t.Errorf("plus minus = %v, want 7", line.PlusMinus)
			}
		default:
			if line.DidNotPlayReason != "INACTIVE_INJURY" {
				t.Errorf("dnp reason = %q", line.DidNotPlayReason)
			}
			if line.Minutes != nil {
				t.Errorf("dnp minutes = %v, want nil", line.Minutes)
			}
		}
	}

	p, found, _ := env.players.GetByProviderID(context.Background(), "nba", "2544")
	if !found || p.DisplayName != "LeBron James" {
		t.Fatalf("created player = %+v found=%v", p, found)
	}
}

func TestSyncFinalResultsIncludePlayersFeedsAssignments(t *testing.T) {
	env := newTestEnv(t, SyncConfig{SeasonStarts: seasonStarts2025()})
	homeID := env.seedTeam(t, "1610612747", "LAL", "Los Angeles Lakers")
	awayID := env.seedTeam(t, "1610612738", "BOS", "Boston Celtics")
	tip := time.Date(2026, time.February, 7, 0, 30, 0, 0, time.UTC)
	env.seedScheduledGame(t, "0022500001", tip, homeID, awayID)

	env.provider.boxTraditionalFn = func(gameID string) (BoxScorePayload, error) {
		box := traditionalBoxFixture(gameID)
		box.PlayerStats = []Record{{
			"personId": float64(2544),
			"name":     "LeBron James",
			"teamId":   "1610612747",
			"minutes":  "36:30",
		}}
		return box, nil
	}

	if _, err := env.svc.SyncFinalResults(context.Background(), SyncParams{IncludePlayers: true}); err != nil {
		t.Fatalf("SyncFinalResults error = %v", err)
	}

	p, found, _ := env.players.GetByProviderID(context.Background(), "nba", "2544")
	if !found {
		t.Fatal("player not created from box score line")
	}
	history, _ := env.seasonTeams.ListByPlayer(context.Background(), p.ID)
	if len(history) != 1 {
		t.Fatalf("len(history) = %d, want the box score to open an assignment", len(history))
	}
	if history[0].TeamID != homeID || history[0].Season != 2025 || !history[0].Open() {
		t.Errorf("assignment = %+v", history[0])
	}
}
