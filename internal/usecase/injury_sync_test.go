package usecase

import (
	"context"
	"fmt"
	"testing"

	"github.com/hooplabs/nba-sync/internal/domain/conflict"
	"github.com/hooplabs/nba-sync/internal/domain/player"
	"github.com/hooplabs/nba-sync/internal/domain/seasonteam"
)

func (e *testEnv) seedPlayer(t *testing.T, providerPlayerID, displayName string) int64 {
	t.Helper()
	id, err := e.players.Upsert(context.Background(), player.Player{
		Provider:         "nba",
		ProviderPlayerID: providerPlayerID,
		DisplayName:      displayName,
	})
	if err != nil {
		t.Fatalf("seed player %s: %v", displayName, err)
	}
	return id
}

func injuryReportFixture() InjuryReportPayload {
	return InjuryReportPayload{
		SourceURL:  "https://official.example.com/reports/2026-02-07_02PM.pdf",
		ReportDate: "2026-02-07",
		ReportTime: "02PM",
		Entries: []Record{
			{
				"gameDate":   "02/07/2026",
				"gameTime":   "07:30 (ET)",
				"matchup":    "BOS@LAL",
				"team":       "Lakers",
				"playerName": "James, LeBron",
				"status":     "Questionable",
				"reason":     "Injury/Illness - Left Ankle; Sprain",
			},
			{
				"gameDate":   "02/07/2026",
				"gameTime":   "07:30 (ET)",
				"matchup":    "BOS@LAL",
				"team":       "Celtics",
				"playerName": "Nobody, Famous",
				"status":     "Out",
				"reason":     "G League - Two-Way",
			},
		},
	}
}

func TestSyncInjuryReportLinksEntries(t *testing.T) {
	env := newTestEnv(t, SyncConfig{SeasonStarts: seasonStarts2025()})
	lalID := env.seedTeam(t, "1610612747", "LAL", "Los Angeles Lakers")
	env.seedTeam(t, "1610612738", "BOS", "Boston Celtics")
	lebronID := env.seedPlayer(t, "2544", "LeBron James")
	if _, err := env.seasonTeams.Insert(context.Background(), seasonteam.Assignment{
		PlayerID: lebronID,
		Season:   2025,
		TeamID:   lalID,
		FromUTC:  seasonStart2025,
	}); err != nil {
		t.Fatalf("seed assignment: %v", err)
	}

	env.provider.injuryFn = func() (InjuryReportPayload, error) {
		return injuryReportFixture(), nil
	}

	summary, err := env.svc.SyncInjuryReport(context.Background(), SyncParams{JobID: "job-2"})
	if err != nil {
		t.Fatalf("SyncInjuryReport error = %v", err)
	}
	if summary["reports"] != 1 || summary["entries"] != 2 {
		t.Fatalf("summary = %v", summary)
	}
	// One unknown player.
	if summary["conflicts"] != 1 {
		t.Fatalf("summary = %v, want one conflict", summary)
	}
	if n := env.countConflicts(conflict.TypeUnresolvedPlayer); n != 1 {
		t.Fatalf("unresolved_player conflicts = %d, want 1 (all: %v)", n, env.conflictTypes())
	}

	report, found, _ := env.injuries.GetReportBySourceURL(context.Background(), injuryReportFixture().SourceURL)
	if !found {
		t.Fatal("report not stored")
	}
	entries, _ := env.injuries.ListEntriesByReport(context.Background(), report.ID)
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	for _, e := range entries {
		switch e.PlayerName {
		case "James, LeBron":
			if e.PlayerID == nil || *e.PlayerID != lebronID {
				t.Errorf("lebron entry player = %v, want %d", e.PlayerID, lebronID)
			}
			if e.TeamID == nil || *e.TeamID != lalID {
				t.Errorf("lebron entry team = %v, want %d", e.TeamID, lalID)
			}
			if e.Status != "Questionable" {
				t.Errorf("status = %q", e.Status)
			}
		default:
			if e.PlayerID != nil {
				t.Errorf("unknown player should stay unlinked: %+v", e)
			}
			if e.TeamID == nil {
				t.Errorf("celtics entry should still link its team: %+v", e)
			}
		}
	}
}

func TestSyncInjuryReportIsIdempotent(t *testing.T) {
	env := newTestEnv(t, SyncConfig{SeasonStarts: seasonStarts2025()})
	env.seedTeam(t, "1610612747", "LAL", "Los Angeles Lakers")
	env.seedTeam(t, "1610612738", "BOS", "Boston Celtics")
	env.provider.injuryFn = func() (InjuryReportPayload, error) {
		return injuryReportFixture(), nil
	}

	for i := 0; i < 2; i++ {
		if _, err := env.svc.SyncInjuryReport(context.Background(), SyncParams{}); err != nil {
			t.Fatalf("run #%d error = %v", i, err)
		}
	}

	report, _, _ := env.injuries.GetReportBySourceURL(context.Background(), injuryReportFixture().SourceURL)
	entries, _ := env.injuries.ListEntriesByReport(context.Background(), report.ID)
	if len(entries) != 2 {
		t.Fatalf("entries = %d after replay, want 2", len(entries))
	}
}

func TestSyncInjuryReportFetchFailure(t *testing.T) {
	env := newTestEnv(t, SyncConfig{})
	env.provider.injuryFn = func() (InjuryReportPayload, error) {
		return InjuryReportPayload{}, fmt.Errorf("upstream 500")
	}

	_, err := env.svc.SyncInjuryReport(context.Background(), SyncParams{})
	if err == nil {
		t.Fatal("fetch failure should surface")
	}
	if n := env.countConflicts(conflict.TypeFetchFailed); n != 1 {
		t.Fatalf("fetch_failed conflicts = %d, want 1", n)
	}
}

func TestSyncInjuryReportWithoutSourceURL(t *testing.T) {
	env := newTestEnv(t, SyncConfig{})
	env.provider.injuryFn = func() (InjuryReportPayload, error) {
		return InjuryReportPayload{ReportDate: "2026-02-07"}, nil
	}

	summary, err := env.svc.SyncInjuryReport(context.Background(), SyncParams{})
	if err != nil {
		t.Fatalf("missing source url is not an error, got %v", err)
	}
	if summary["reports"] != 0 || summary["conflicts"] != 1 {
		t.Fatalf("summary = %v", summary)
	}
	if n := env.countConflicts(conflict.TypeEmptyPayload); n != 1 {
		t.Fatalf("empty_payload conflicts = %d, want 1", n)
	}
}
