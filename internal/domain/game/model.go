package game

import (
	"fmt"
	"time"
)

const (
	StatusScheduled = "scheduled"
	StatusFinished  = "finished"
)

// Game is a single matchup as known by a single stats provider.
//
// DateTimeUTC starts out as a civil-date placeholder (midnight of the
// eastern game date) until a confirmed tipoff time is seen; TimeConfirmed
// records which of the two it currently holds.
type Game struct {
	ID             int64
	Provider       string
	ProviderGameID string
	Season         int
	DateTimeUTC    time.Time
	TimeConfirmed  bool
	Status         string
	HomeTeamID     int64
	AwayTeamID     int64
	HomeScore      *int
	AwayScore      *int
	MarketEventID  string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (g Game) Validate() error {
	if g.Provider == "" {
		return fmt.Errorf("game provider is required")
	}
	if g.ProviderGameID == "" {
		return fmt.Errorf("game provider id is required")
	}
	if g.Status != StatusScheduled && g.Status != StatusFinished {
		return fmt.Errorf("game status %q is not valid", g.Status)
	}
	if g.HomeTeamID == 0 || g.AwayTeamID == 0 {
		return fmt.Errorf("game team references are required")
	}
	if g.DateTimeUTC.IsZero() {
		return fmt.Errorf("game date is required")
	}

	return nil
}

// Finished reports whether both final scores are present.
func (g Game) Finished() bool {
	return g.Status == StatusFinished && g.HomeScore != nil && g.AwayScore != nil
}
