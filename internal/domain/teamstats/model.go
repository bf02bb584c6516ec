package teamstats

import (
	"fmt"
	"time"
)

// TeamGameStat is one team's line for one game. Traditional counting
// columns and advanced rates arrive from different box score feeds, so
// everything beyond the key is nullable and merged on upsert.
type TeamGameStat struct {
	ID     int64
	GameID int64
	TeamID int64

	Points             *int
	FieldGoalsMade     *int
	FieldGoalsAtt      *int
	ThreePointersMade  *int
	ThreePointersAtt   *int
	FreeThrowsMade     *int
	FreeThrowsAtt      *int
	ReboundsOffensive  *int
	ReboundsDefensive  *int
	ReboundsTotal      *int
	Assists            *int
	Steals             *int
	Blocks             *int
	Turnovers          *int
	FoulsPersonal      *int

	OffensiveRating *float64
	DefensiveRating *float64
	Pace            *float64

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (s TeamGameStat) Validate() error {
	if s.GameID == 0 {
		return fmt.Errorf("team stat game reference is required")
	}
	if s.TeamID == 0 {
		return fmt.Errorf("team stat team reference is required")
	}

	return nil
}
