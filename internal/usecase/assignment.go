package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/hooplabs/nba-sync/internal/domain/conflict"
	"github.com/hooplabs/nba-sync/internal/domain/seasonteam"
)

// AssignmentTracker maintains player-season-team intervals during one
// sync run. A player seen on a new team closes the open interval and
// opens a new one; seeing the same pairing again is a no-op, so replays
// never widen history.
type AssignmentTracker struct {
	repo         seasonteam.Repository
	conflicts    *ConflictLedger
	seasonStarts map[int]time.Time
	seen         map[string]struct{}
	jobID        string
	now          func() time.Time
}

func NewAssignmentTracker(repo seasonteam.Repository, conflicts *ConflictLedger, seasonStarts map[int]time.Time, jobID string) *AssignmentTracker {
	return &AssignmentTracker{
		repo:         repo,
		conflicts:    conflicts,
		seasonStarts: seasonStarts,
		seen:         make(map[string]struct{}),
		jobID:        jobID,
		now:          time.Now,
	}
}

// Observe records that a player appeared on a team within a season.
// First sight of a (player, season) opens an interval anchored at the
// configured season start. A team change closes the open interval at the
// observation instant and opens the new one a second later so intervals
// never overlap.
func (t *AssignmentTracker) Observe(ctx context.Context, playerID int64, season int, teamID int64) error {
	if playerID == 0 || teamID == 0 || season == 0 {
		return fmt.Errorf("%w: assignment observation needs player, team and season", ErrInvalidInput)
	}

	key := fmt.Sprintf("%d:%d:%d", playerID, season, teamID)
	if _, ok := t.seen[key]; ok {
		return nil
	}
	t.seen[key] = struct{}{}

	active, found, err := t.repo.GetActive(ctx, playerID, season)
	if err != nil {
		return fmt.Errorf("load active assignment player_id=%d season=%d: %w", playerID, season, err)
	}

	if found && active.TeamID == teamID {
		return nil
	}

	if !found {
		start, ok := t.seasonStarts[season]
		if !ok {
			return fmt.Errorf("%w: season start for %d is not configured", ErrMissingConfig, season)
		}
		_, err := t.repo.Insert(ctx, seasonteam.Assignment{
			PlayerID: playerID,
			Season:   season,
			TeamID:   teamID,
			FromUTC:  start,
		})
		if err != nil {
			return fmt.Errorf("open assignment player_id=%d season=%d team_id=%d: %w", playerID, season, teamID, err)
		}
		return nil
	}

	// Trade: close the old interval, open the new one just after it.
	// Every team change leaves an audit row pairing the two teams.
	closeAt := t.now().UTC().Truncate(time.Second)
	details := map[string]any{
		"active_team_id": active.TeamID,
		"new_team_id":    teamID,
		"active_from":    active.FromUTC.Format(time.RFC3339),
		"observed_at":    closeAt.Format(time.RFC3339),
	}
	if closeAt.Before(active.FromUTC) {
		details["reason"] = "observation predates active interval"
		t.conflicts.Record(ctx, conflict.TypeSeasonTeamOverlap, details, playerID, season, t.jobID)
		return nil
	}
	t.conflicts.Record(ctx, conflict.TypeSeasonTeamOverlap, details, playerID, season, t.jobID)
	if err := t.repo.Close(ctx, active.ID, closeAt); err != nil {
		return fmt.Errorf("close assignment id=%d: %w", active.ID, err)
	}
	_, err = t.repo.Insert(ctx, seasonteam.Assignment{
		PlayerID: playerID,
		Season:   season,
		TeamID:   teamID,
		FromUTC:  closeAt.Add(time.Second),
	})
	if err != nil {
		return fmt.Errorf("open assignment after trade player_id=%d season=%d team_id=%d: %w", playerID, season, teamID, err)
	}

	return nil
}
