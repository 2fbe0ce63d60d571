package trade

import (
	"context"

	"github.com/ignite/gametrade/internal/domain"
)

// Repository defines the data access contract for trade offers.
// Implementations must be safe for concurrent use.
type Repository interface {
	// Get returns a single offer. Returns ErrOfferNotFound if it doesn't exist.
	Get(ctx context.Context, id int64) (*domain.TradeOffer, error)

	// List returns offers matching the filter, oldest first (ascending id).
	List(ctx context.Context, f ListFilter) ([]domain.TradeOffer, error)

	// ListByOfferer returns offers sent by the given user, oldest first.
	ListByOfferer(ctx context.Context, userID int64, f ListFilter) ([]domain.TradeOffer, error)

	// ListByReceiver returns offers received by the given user, oldest first.
	ListByReceiver(ctx context.Context, userID int64, f ListFilter) ([]domain.TradeOffer, error)

	// PendingExists reports whether a pending offer already exists for the
	// exact ordered (offered, requested) game pair.
	PendingExists(ctx context.Context, offeredGameID, requestedGameID int64) (bool, error)

	// Create inserts a new pending offer, filling ID and timestamps.
	// Returns ErrDuplicatePending if a pending offer for the same ordered
	// pair was inserted concurrently.
	Create(ctx context.Context, o *domain.TradeOffer) error

	// TransitionStatus atomically moves the offer from pending to target and
	// refreshes updated_at, as a single compare-and-set: of any number of
	// concurrent calls for the same offer, exactly one succeeds. Returns the
	// updated offer, ErrOfferNotFound for an unknown id, or *StateError
	// naming the current status when the offer is no longer pending.
	TransitionStatus(ctx context.Context, id int64, target domain.TradeOfferStatus) (*domain.TradeOffer, error)
}

// ListFilter controls filtering and pagination for offer lists.
type ListFilter struct {
	Status domain.TradeOfferStatus
	Skip   int
	Limit  int
}

// GameReader is the slice of the game store the trade service needs:
// live ownership lookups at offer-creation time.
type GameReader interface {
	// GetGame returns a game by id, or game.ErrNotFound.
	GetGame(ctx context.Context, id int64) (*domain.VideoGame, error)
}

// UserReader resolves the parties of an offer for notification payloads.
type UserReader interface {
	// GetUser returns a user by id, or user.ErrNotFound.
	GetUser(ctx context.Context, id int64) (*domain.User, error)
}
