package game

import (
	"context"

	"github.com/ignite/gametrade/internal/domain"
)

// Repository defines the data access contract for video games.
// Implementations must be safe for concurrent use.
type Repository interface {
	// Get returns a single game. Returns ErrNotFound if it doesn't exist.
	Get(ctx context.Context, id int64) (*domain.VideoGame, error)

	// List returns games ordered by id ascending.
	List(ctx context.Context, f ListFilter) ([]domain.VideoGame, error)

	// ListByOwner returns the games owned by the given user, ordered by id.
	ListByOwner(ctx context.Context, ownerID int64, f ListFilter) ([]domain.VideoGame, error)

	// Create inserts a new game and fills its ID.
	Create(ctx context.Context, g *domain.VideoGame) error

	// Update applies the given fields. Nil fields are left unchanged.
	Update(ctx context.Context, id int64, u UpdateFields) (*domain.VideoGame, error)

	// Delete removes a game. Trade offers referencing it on either side are
	// removed with it (schema-level cascade), so references never dangle.
	Delete(ctx context.Context, id int64) error
}

// ListFilter controls pagination for game lists.
type ListFilter struct {
	Skip  int
	Limit int
}

// UpdateFields holds the mutable fields for a game update.
// Nil fields are not applied.
type UpdateFields struct {
	Name           *string
	Publisher      *string
	YearPublished  *int
	GamingSystem   *string
	Condition      *domain.GameCondition
	PreviousOwners *int
}

// UserReader checks that a prospective owner exists.
type UserReader interface {
	// UserExists reports whether the user id is known.
	UserExists(ctx context.Context, id int64) (bool, error)
}
