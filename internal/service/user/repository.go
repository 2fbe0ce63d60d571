package user

import (
	"context"

	"github.com/ignite/gametrade/internal/domain"
)

// Repository defines the data access contract for users.
// Implementations must be safe for concurrent use.
type Repository interface {
	// Get returns a single user. Returns ErrNotFound if it doesn't exist.
	Get(ctx context.Context, id int64) (*domain.User, error)

	// GetByEmail returns the user registered under the given email, or
	// ErrNotFound.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// List returns users ordered by id ascending.
	List(ctx context.Context, f ListFilter) ([]domain.User, error)

	// Create inserts a new user and fills its ID. Returns ErrEmailTaken if
	// the email is already registered.
	Create(ctx context.Context, u *domain.User) error

	// Update applies the given fields. Nil fields are left unchanged.
	Update(ctx context.Context, id int64, u UpdateFields) (*domain.User, error)

	// UpdatePassword replaces the stored password hash.
	UpdatePassword(ctx context.Context, id int64, hashed string) error

	// Delete removes a user. Owned games, offers touching those games, and
	// offers where the user is a party are removed by schema-level cascade.
	Delete(ctx context.Context, id int64) error
}

// ListFilter controls pagination for user lists.
type ListFilter struct {
	Skip  int
	Limit int
}

// UpdateFields holds the mutable profile fields.
// Nil fields are not applied.
type UpdateFields struct {
	Name          *string
	StreetAddress *string
}
