package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hooplabs/nba-sync/internal/domain/conflict"
	"github.com/hooplabs/nba-sync/internal/infrastructure/repository/memory"
	"github.com/hooplabs/nba-sync/internal/platform/logging"
)

var seasonStart2025 = time.Date(2025, time.October, 21, 23, 0, 0, 0, time.UTC)

func newTestTracker(t *testing.T, now time.Time) (*AssignmentTracker, *memory.SeasonTeamRepository, *memory.ConflictRepository) {
	t.Helper()

	repo := memory.NewSeasonTeamRepository()
	conflicts := memory.NewConflictRepository()
	tracker := NewAssignmentTracker(
		repo,
		NewConflictLedger(conflicts, logging.NewNop()),
		map[int]time.Time{2025: seasonStart2025},
		"job-1",
	)
	tracker.now = func() time.Time { return now }

	return tracker, repo, conflicts
}

func TestObserveOpensIntervalAtSeasonStart(t *testing.T) {
	tracker, repo, _ := newTestTracker(t, testClock)
	ctx := context.Background()

	if err := tracker.Observe(ctx, 10, 2025, 1); err != nil {
		t.Fatalf("Observe error = %v", err)
	}

	history, err := repo.ListByPlayer(ctx, 10)
	if err != nil {
		t.Fatalf("ListByPlayer error = %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("len(history) = %d, want 1", len(history))
	}
	if !history[0].FromUTC.Equal(seasonStart2025) {
		t.Errorf("FromUTC = %v, want season start %v", history[0].FromUTC, seasonStart2025)
	}
	if !history[0].Open() {
		t.Error("first interval should be open")
	}
}

func TestObserveSameTeamIsIdempotent(t *testing.T) {
	tracker, repo, _ := newTestTracker(t, testClock)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := tracker.Observe(ctx, 10, 2025, 1); err != nil {
			t.Fatalf("Observe #%d error = %v", i, err)
		}
	}

	// A fresh tracker replays the same roster without widening history.
	replay, _, _ := newTestTracker(t, testClock)
	replay.repo = tracker.repo
	if err := replay.Observe(ctx, 10, 2025, 1); err != nil {
		t.Fatalf("replay Observe error = %v", err)
	}

	history, _ := repo.ListByPlayer(ctx, 10)
	if len(history) != 1 {
		t.Fatalf("len(history) = %d, want 1", len(history))
	}
}

func TestObserveTradeClosesAndReopens(t *testing.T) {
	tracker, repo, conflicts := newTestTracker(t, testClock)
	ctx := context.Background()

	if err := tracker.Observe(ctx, 10, 2025, 1); err != nil {
		t.Fatalf("Observe team 1 error = %v", err)
	}
	if err := tracker.Observe(ctx, 10, 2025, 2); err != nil {
		t.Fatalf("Observe team 2 error = %v", err)
	}

	all := conflicts.All()
	if len(all) != 1 || all[0].Type != conflict.TypeSeasonTeamOverlap {
		t.Fatalf("conflicts = %+v, want one season-team overlap audit row", all)
	}
	if all[0].PlayerID == nil || *all[0].PlayerID != 10 {
		t.Errorf("conflict player = %v, want 10", all[0].PlayerID)
	}

	history, _ := repo.ListByPlayer(ctx, 10)
	if len(history) != 2 {
		t.Fatalf("len(history) = %d, want 2", len(history))
	}

	closeAt := testClock.Truncate(time.Second)
	old, current := history[0], history[1]
	if old.TeamID == 2 {
		old, current = current, old
	}
	if old.Open() {
		t.Error("old interval should be closed after a trade")
	}
	if old.ToUTC == nil || !old.ToUTC.Equal(closeAt) {
		t.Errorf("old ToUTC = %v, want %v", old.ToUTC, closeAt)
	}
	if !current.Open() {
		t.Error("new interval should be open")
	}
	if !current.FromUTC.Equal(closeAt.Add(time.Second)) {
		t.Errorf("new FromUTC = %v, want %v", current.FromUTC, closeAt.Add(time.Second))
	}
}

func TestObserveMissingSeasonStart(t *testing.T) {
	tracker, repo, _ := newTestTracker(t, testClock)
	ctx := context.Background()

	err := tracker.Observe(ctx, 10, 2024, 1)
	if !errors.Is(err, ErrMissingConfig) {
		t.Fatalf("Observe error = %v, want ErrMissingConfig", err)
	}

	history, _ := repo.ListByPlayer(ctx, 10)
	if len(history) != 0 {
		t.Fatalf("len(history) = %d, want 0", len(history))
	}
}

func TestObserveRefusesOverlappingClose(t *testing.T) {
	// Observation clock sits before the season start the open interval is
	// anchored at, so closing would invert the interval.
	before := seasonStart2025.Add(-time.Hour)
	tracker, repo, conflicts := newTestTracker(t, before)
	ctx := context.Background()

	if err := tracker.Observe(ctx, 10, 2025, 1); err != nil {
		t.Fatalf("Observe team 1 error = %v", err)
	}
	if err := tracker.Observe(ctx, 10, 2025, 2); err != nil {
		t.Fatalf("Observe team 2 error = %v", err)
	}

	history, _ := repo.ListByPlayer(ctx, 10)
	if len(history) != 1 {
		t.Fatalf("len(history) = %d, want 1 (trade refused)", len(history))
	}
	if history[0].TeamID != 1 || !history[0].Open() {
		t.Errorf("open interval = %+v, want team 1 still open", history[0])
	}

	all := conflicts.All()
	if len(all) != 1 || all[0].Type != conflict.TypeSeasonTeamOverlap {
		t.Fatalf("conflicts = %+v, want one season-team overlap", all)
	}
	if all[0].PlayerID == nil || *all[0].PlayerID != 10 {
		t.Errorf("conflict player = %v, want 10", all[0].PlayerID)
	}
}

func TestObserveRejectsZeroIdentifiers(t *testing.T) {
	tracker, _, _ := newTestTracker(t, testClock)

	for _, tc := range []struct{ playerID, teamID int64 }{{0, 1}, {10, 0}} {
		err := tracker.Observe(context.Background(), tc.playerID, 2025, tc.teamID)
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("Observe(%d, %d) error = %v, want ErrInvalidInput", tc.playerID, tc.teamID, err)
		}
	}
}
