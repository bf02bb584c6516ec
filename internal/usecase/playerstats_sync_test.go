package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/hooplabs/nba-sync/internal/domain/conflict"
	"github.com/hooplabs/nba-sync/internal/domain/game"
)

func (e *testEnv) seedFinishedGame(t *testing.T, providerGameID string, tip time.Time, homeTeamID, awayTeamID int64) game.Game {
	t.Helper()
	g := e.seedScheduledGame(t, providerGameID, tip, homeTeamID, awayTeamID)
	g.Status = game.StatusFinished
	home, away := 112, 105
	g.HomeScore, g.AwayScore = &home, &away
	if _, err := e.games.Upsert(context.Background(), g); err != nil {
		t.Fatalf("finish seeded game: %v", err)
	}
	return g
}

func TestSyncPlayerGameStatsExplicitGame(t *testing.T) {
	env := newTestEnv(t, SyncConfig{})
	homeID := env.seedTeam(t, "1610612747", "LAL", "Los Angeles Lakers")
	awayID := env.seedTeam(t, "1610612738", "BOS", "Boston Celtics")
	tip := time.Date(2026, time.February, 7, 0, 30, 0, 0, time.UTC)
	seeded := env.seedFinishedGame(t, "0022500001", tip, homeID, awayID)

	env.provider.boxTraditionalFn = func(gameID string) (BoxScorePayload, error) {
		return BoxScorePayload{
			GameID: gameID,
			PlayerStats: []Record{
				{
					"personId": float64(2544),
					"name":     "LeBron James",
					"teamId":   "1610612747",
					"minutes":  "36:30",
					"points":   float64(28),
				},
			},
		}, nil
	}

	summary, err := env.svc.SyncPlayerGameStats(context.Background(), SyncParams{GameID: "0022500001"})
	if err != nil {
		t.Fatalf("SyncPlayerGameStats error = %v", err)
	}
	if summary["player_stats"] != 1 || summary["players"] != 1 {
		t.Fatalf("summary = %v", summary)
	}

	lines, _ := env.playerStats.ListByGame(context.Background(), seeded.ID)
	if len(lines) != 1 {
		t.Fatalf("player lines = %d, want 1", len(lines))
	}
	if lines[0].Minutes == nil || *lines[0].Minutes != 36.5 {
		t.Errorf("minutes = %v, want 36.5", lines[0].Minutes)
	}
}

func TestSyncPlayerGameStatsScansFinishedGamesOnly(t *testing.T) {
	env := newTestEnv(t, SyncConfig{})
	homeID := env.seedTeam(t, "1610612747", "LAL", "Los Angeles Lakers")
	awayID := env.seedTeam(t, "1610612738", "BOS", "Boston Celtics")
	env.seedFinishedGame(t, "0022500001", time.Date(2026, time.February, 6, 0, 30, 0, 0, time.UTC), homeID, awayID)
	env.seedScheduledGame(t, "0022500002", time.Date(2026, time.February, 7, 0, 0, 0, 0, time.UTC), homeID, awayID)

	var fetched []string
	env.provider.boxTraditionalFn = func(gameID string) (BoxScorePayload, error) {
		fetched = append(fetched, gameID)
		return BoxScorePayload{GameID: gameID, PlayerStats: []Record{
			{"personId": float64(2544), "name": "LeBron James", "teamId": "1610612747"},
		}}, nil
	}

	summary, err := env.svc.SyncPlayerGameStats(context.Background(), SyncParams{})
	if err != nil {
		t.Fatalf("SyncPlayerGameStats error = %v", err)
	}
	if len(fetched) != 1 || fetched[0] != "0022500001" {
		t.Fatalf("fetched = %v, want only the finished game", fetched)
	}
	if summary["player_stats"] != 1 {
		t.Fatalf("summary = %v", summary)
	}
}

func TestSyncPlayerGameStatsUnresolvedTeam(t *testing.T) {
	env := newTestEnv(t, SyncConfig{})
	homeID := env.seedTeam(t, "1610612747", "LAL", "Los Angeles Lakers")
	awayID := env.seedTeam(t, "1610612738", "BOS", "Boston Celtics")
	env.seedFinishedGame(t, "0022500001", time.Date(2026, time.February, 6, 0, 30, 0, 0, time.UTC), homeID, awayID)

	env.provider.boxTraditionalFn = func(gameID string) (BoxScorePayload, error) {
		return BoxScorePayload{GameID: gameID, PlayerStats: []Record{
			{"personId": float64(2544), "name": "LeBron James", "teamId": "424242"},
		}}, nil
	}

	summary, err := env.svc.SyncPlayerGameStats(context.Background(), SyncParams{})
	if err != nil {
		t.Fatalf("SyncPlayerGameStats error = %v", err)
	}
	if summary["player_stats"] != 0 || summary["conflicts"] != 1 {
		t.Fatalf("summary = %v", summary)
	}
	if n := env.countConflicts(conflict.TypeUnresolvedTeam); n != 1 {
		t.Fatalf("unresolved_team conflicts = %d, want 1", n)
	}
}

func TestSyncPlayerGameStatsMissingBoxIsConflictAndIsolated(t *testing.T) {
	env := newTestEnv(t, SyncConfig{})
	homeID := env.seedTeam(t, "1610612747", "LAL", "Los Angeles Lakers")
	awayID := env.seedTeam(t, "1610612738", "BOS", "Boston Celtics")
	env.seedFinishedGame(t, "0022500001", time.Date(2026, time.February, 6, 0, 30, 0, 0, time.UTC), homeID, awayID)
	env.seedFinishedGame(t, "0022500002", time.Date(2026, time.February, 6, 1, 30, 0, 0, time.UTC), homeID, awayID)

	env.provider.boxTraditionalFn = func(gameID string) (BoxScorePayload, error) {
		if gameID == "0022500001" {
			return BoxScorePayload{}, fmt.Errorf("%w: upstream status 404", ErrNotFound)
		}
		return BoxScorePayload{GameID: gameID, PlayerStats: []Record{
			{"personId": float64(2544), "name": "LeBron James", "teamId": "1610612747"},
		}}, nil
	}

	summary, err := env.svc.SyncPlayerGameStats(context.Background(), SyncParams{})
	if err != nil {
		t.Fatalf("SyncPlayerGameStats error = %v", err)
	}
	if summary["player_stats"] != 1 || summary["conflicts"] != 1 {
		t.Fatalf("summary = %v, want the published game stored and one conflict", summary)
	}
	if n := env.countConflicts(conflict.TypeFetchFailed); n != 1 {
		t.Fatalf("fetch_failed conflicts = %d, want exactly one for the 404 game", n)
	}
}

func TestSyncPlayerGameStatsFeedsAssignments(t *testing.T) {
	env := newTestEnv(t, SyncConfig{SeasonStarts: seasonStarts2025()})
	homeID := env.seedTeam(t, "1610612747", "LAL", "Los Angeles Lakers")
	awayID := env.seedTeam(t, "1610612738", "BOS", "Boston Celtics")
	env.seedFinishedGame(t, "0022500001", time.Date(2026, time.February, 6, 0, 30, 0, 0, time.UTC), homeID, awayID)

	env.provider.boxTraditionalFn = func(gameID string) (BoxScorePayload, error) {
		return BoxScorePayload{GameID: gameID, PlayerStats: []Record{
			{"personId": float64(2544), "name": "LeBron James", "teamId": "1610612747", "minutes": "36:30"},
		}}, nil
	}

	if _, err := env.svc.SyncPlayerGameStats(context.Background(), SyncParams{}); err != nil {
		t.Fatalf("SyncPlayerGameStats error = %v", err)
	}

	p, found, _ := env.players.GetByProviderID(context.Background(), "nba", "2544")
	if !found {
		t.Fatal("player not created from box score line")
	}
	history, _ := env.seasonTeams.ListByPlayer(context.Background(), p.ID)
	if len(history) != 1 {
		t.Fatalf("len(history) = %d, want the box score to open an assignment", len(history))
	}
	if history[0].TeamID != homeID || !history[0].Open() {
		t.Errorf("assignment = %+v", history[0])
	}
}

func TestSyncPlayerGameStatsExplicitUnknownGame(t *testing.T) {
	env := newTestEnv(t, SyncConfig{})

	_, err := env.svc.SyncPlayerGameStats(context.Background(), SyncParams{GameID: "0029999999"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}
