package playerstats

import (
	"fmt"
	"time"
)

// PlayerGameStat is one player's line for one game. A player who dressed
// but did not play keeps a zeroed line with DidNotPlayReason set.
type PlayerGameStat struct {
	ID       int64
	GameID   int64
	PlayerID int64
	TeamID   int64

	Minutes           *float64
	Points            *int
	FieldGoalsMade    *int
	FieldGoalsAtt     *int
	ThreePointersMade *int
	ThreePointersAtt  *int
	FreeThrowsMade    *int
	FreeThrowsAtt     *int
	ReboundsOffensive *int
	ReboundsDefensive *int
	ReboundsTotal     *int
	Assists           *int
	Steals            *int
	Blocks            *int
	Turnovers         *int
	FoulsPersonal     *int
	PlusMinus         *int

	Starter          *bool
	DidNotPlayReason string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (s PlayerGameStat) Validate() error {
	if s.GameID == 0 {
		return fmt.Errorf("player stat game reference is required")
	}
	if s.PlayerID == 0 {
		return fmt.Errorf("player stat player reference is required")
	}
	if s.TeamID == 0 {
		return fmt.Errorf("player stat team reference is required")
	}

	return nil
}
