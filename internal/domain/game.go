package domain

import "fmt"

// GameCondition enumerates the physical condition of a video game.
type GameCondition string

const (
	ConditionMint GameCondition = "mint"
	ConditionGood GameCondition = "good"
	ConditionFair GameCondition = "fair"
	ConditionPoor GameCondition = "poor"
)

// Valid reports whether the condition is one of the known values.
func (c GameCondition) Valid() bool {
	switch c {
	case ConditionMint, ConditionGood, ConditionFair, ConditionPoor:
		return true
	}
	return false
}

// VideoGame is a tradable game owned by exactly one user at any time.
type VideoGame struct {
	ID             int64         `json:"id" db:"id"`
	Name           string        `json:"name" db:"name"`
	Publisher      string        `json:"publisher" db:"publisher"`
	YearPublished  int           `json:"year_published" db:"year_published"`
	GamingSystem   string        `json:"gaming_system" db:"gaming_system"`
	Condition      GameCondition `json:"condition" db:"condition"`
	PreviousOwners *int          `json:"previous_owners" db:"previous_owners"`
	OwnerID        int64         `json:"owner_id" db:"owner_id"`
}

// DisplayName returns the human-readable label used in notifications,
// e.g. "Chrono Trigger (SNES, mint)".
func (g VideoGame) DisplayName() string {
	return fmt.Sprintf("%s (%s, %s)", g.Name, g.GamingSystem, g.Condition)
}
