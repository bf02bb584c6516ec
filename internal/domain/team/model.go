package team

import (
	"fmt"
	"time"
)

// Team is one franchise as known by a single stats provider.
type Team struct {
	ID             int64
	Provider       string
	ProviderTeamID string
	Abbrev         string
	Name           string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (t Team) Validate() error {
	if t.Provider == "" {
		return fmt.Errorf("team provider is required")
	}
	if t.ProviderTeamID == "" {
		return fmt.Errorf("team provider id is required")
	}
	if t.Abbrev == "" {
		return fmt.Errorf("team abbreviation is required")
	}

	return nil
}
