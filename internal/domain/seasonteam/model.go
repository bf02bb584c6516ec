package seasonteam

import (
	"fmt"
	"time"
)

// Assignment is one player's stay on one team within one season. An open
// interval (ToUTC nil) is the player's current team for that season; a
// trade closes the old interval and opens a new one, so a season's
// history is the ordered list of its intervals.
type Assignment struct {
	ID        int64
	PlayerID  int64
	Season    int
	TeamID    int64
	FromUTC   time.Time
	ToUTC     *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (a Assignment) Validate() error {
	if a.PlayerID == 0 {
		return fmt.Errorf("assignment player reference is required")
	}
	if a.TeamID == 0 {
		return fmt.Errorf("assignment team reference is required")
	}
	if a.Season == 0 {
		return fmt.Errorf("assignment season is required")
	}
	if a.FromUTC.IsZero() {
		return fmt.Errorf("assignment start is required")
	}
	if a.ToUTC != nil && a.ToUTC.Before(a.FromUTC) {
		return fmt.Errorf("assignment closes before it starts")
	}

	return nil
}

// Open reports whether the interval is still the player's current team.
func (a Assignment) Open() bool {
	return a.ToUTC == nil
}
