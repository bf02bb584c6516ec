package conflict

import (
	"fmt"
	"time"
)

// Conflict types. The ledger is append-only: a sync run records what it
// could not reconcile and moves on, leaving the row for operators.
const (
	TypeFetchFailed       = "fetch_failed"
	TypeEmptyPayload      = "empty_payload"
	TypeMissingConfig     = "missing_config"
	TypeUnresolvedTeam    = "unresolved_team"
	TypeUnresolvedPlayer  = "unresolved_player"
	TypeSeasonTeamOverlap = "player_season_team_overlap"
	TypePlayerInfoLimit   = "player_info_limit"
	TypeMissingTeamStats  = "missing_team_stats"
)

// Conflict is one unresolved reconciliation event.
type Conflict struct {
	ID        int64
	Type      string
	PlayerID  *int64
	Season    *int
	JobID     *string
	Details   string
	CreatedAt time.Time
}

func (c Conflict) Validate() error {
	if c.Type == "" {
		return fmt.Errorf("conflict type is required")
	}

	return nil
}
