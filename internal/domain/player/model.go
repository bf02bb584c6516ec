package player

import (
	"fmt"
	"time"
)

// Player is one person as known by a single stats provider. Bio fields
// come from a secondary enrichment endpoint and stay nil until filled;
// BioFilledAt marks when that happened.
type Player struct {
	ID               int64
	Provider         string
	ProviderPlayerID string
	DisplayName      string
	FirstName        string
	LastName         string
	Position         string
	JerseyNumber     string
	HeightCm         *float64
	WeightKg         *float64
	BirthDate        *time.Time
	Country          string
	School           string
	BioFilledAt      *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (p Player) Validate() error {
	if p.Provider == "" {
		return fmt.Errorf("player provider is required")
	}
	if p.ProviderPlayerID == "" {
		return fmt.Errorf("player provider id is required")
	}
	if p.DisplayName == "" {
		return fmt.Errorf("player display name is required")
	}

	return nil
}
