package trade

import (
	"context"
	"errors"
	"log"

	"github.com/ignite/gametrade/internal/domain"
	"github.com/ignite/gametrade/internal/notify"
	"github.com/ignite/gametrade/internal/service/game"
)

// Service implements the trade offer engine. All public methods are safe
// for concurrent use; transition atomicity is delegated to the repository's
// compare-and-set.
type Service struct {
	repo      Repository
	games     GameReader
	users     UserReader
	publisher notify.Publisher
}

// NewService creates a trade service. publisher may be nil; offers then
// trade without notifications.
func NewService(repo Repository, games GameReader, users UserReader, publisher notify.Publisher) *Service {
	return &Service{repo: repo, games: games, users: users, publisher: publisher}
}

// Get returns a single offer.
func (s *Service) Get(ctx context.Context, id int64) (*domain.TradeOffer, error) {
	return s.repo.Get(ctx, id)
}

// List returns offers matching the filter, insertion order.
func (s *Service) List(ctx context.Context, f ListFilter) ([]domain.TradeOffer, error) {
	return s.repo.List(ctx, f)
}

// ListByOfferer returns offers sent by the given user.
func (s *Service) ListByOfferer(ctx context.Context, userID int64, f ListFilter) ([]domain.TradeOffer, error) {
	if _, err := s.users.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.repo.ListByOfferer(ctx, userID, f)
}

// ListByReceiver returns offers received by the given user.
func (s *Service) ListByReceiver(ctx context.Context, userID int64, f ListFilter) ([]domain.TradeOffer, error) {
	if _, err := s.users.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.repo.ListByReceiver(ctx, userID, f)
}

// Create validates and persists a new pending offer. Offerer and receiver
// are derived from live game ownership, never taken from the client, so
// trade identity cannot be forged. On success a trade_offer_created event
// is emitted for both parties.
func (s *Service) Create(ctx context.Context, offeredGameID, requestedGameID int64) (*domain.TradeOffer, error) {
	offered, err := s.games.GetGame(ctx, offeredGameID)
	if errors.Is(err, game.ErrNotFound) {
		return nil, ErrOfferedGameNotFound
	}
	if err != nil {
		return nil, err
	}

	requested, err := s.games.GetGame(ctx, requestedGameID)
	if errors.Is(err, game.ErrNotFound) {
		return nil, ErrRequestedGameNotFound
	}
	if err != nil {
		return nil, err
	}

	if offered.ID == requested.ID {
		return nil, ErrSelfTrade
	}
	if offered.OwnerID == requested.OwnerID {
		return nil, ErrSameOwner
	}

	// Pre-check gives a clean conflict message; the partial unique index in
	// the store closes the race between check and insert. The reverse pair
	// (requested, offered) is a distinct offer and is allowed.
	exists, err := s.repo.PendingExists(ctx, offeredGameID, requestedGameID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicatePending
	}

	o := &domain.TradeOffer{
		OfferedGameID:   offeredGameID,
		RequestedGameID: requestedGameID,
		OffererID:       offered.OwnerID,
		ReceiverID:      requested.OwnerID,
		Status:          domain.OfferPending,
	}
	if err := s.repo.Create(ctx, o); err != nil {
		return nil, err
	}

	s.publishOfferEvent(ctx, notify.EventTradeOfferCreated, o, offered, requested)
	log.Printf("[trade.Service] Offer %d created: game %d (user %d) for game %d (user %d)",
		o.ID, offeredGameID, o.OffererID, requestedGameID, o.ReceiverID)
	return o, nil
}

// Accept resolves a pending offer in the offerer's favor.
func (s *Service) Accept(ctx context.Context, id int64) (*domain.TradeOffer, error) {
	return s.Transition(ctx, id, domain.OfferAccepted)
}

// Reject declines a pending offer.
func (s *Service) Reject(ctx context.Context, id int64) (*domain.TradeOffer, error) {
	return s.Transition(ctx, id, domain.OfferRejected)
}

// Cancel withdraws a pending offer. No notification is emitted for
// cancellations.
func (s *Service) Cancel(ctx context.Context, id int64) (*domain.TradeOffer, error) {
	return s.Transition(ctx, id, domain.OfferCancelled)
}

// Transition atomically moves a pending offer to the target terminal state.
// Exactly one of any number of concurrent calls succeeds; the rest get a
// *StateError naming the status the winner set.
func (s *Service) Transition(ctx context.Context, id int64, target domain.TradeOfferStatus) (*domain.TradeOffer, error) {
	if !target.Terminal() {
		return nil, &StateError{Target: target, Current: domain.OfferPending}
	}

	o, err := s.repo.TransitionStatus(ctx, id, target)
	if err != nil {
		return nil, err
	}

	switch target {
	case domain.OfferAccepted:
		s.notifyResolution(ctx, notify.EventTradeOfferAccepted, o)
	case domain.OfferRejected:
		s.notifyResolution(ctx, notify.EventTradeOfferRejected, o)
	}
	log.Printf("[trade.Service] Offer %d -> %s", id, target)
	return o, nil
}

// notifyResolution loads the display data for a resolved offer and emits
// the corresponding event. Lookup failure only costs the notification.
func (s *Service) notifyResolution(ctx context.Context, eventType string, o *domain.TradeOffer) {
	if s.publisher == nil {
		return
	}
	offered, err := s.games.GetGame(ctx, o.OfferedGameID)
	if err != nil {
		log.Printf("[trade.Service] Skipping %s notification for offer %d: %v", eventType, o.ID, err)
		return
	}
	requested, err := s.games.GetGame(ctx, o.RequestedGameID)
	if err != nil {
		log.Printf("[trade.Service] Skipping %s notification for offer %d: %v", eventType, o.ID, err)
		return
	}
	s.publishOfferEvent(ctx, eventType, o, offered, requested)
}

func (s *Service) publishOfferEvent(ctx context.Context, eventType string, o *domain.TradeOffer, offered, requested *domain.VideoGame) {
	if s.publisher == nil {
		return
	}
	offerer, err := s.users.GetUser(ctx, o.OffererID)
	if err != nil {
		log.Printf("[trade.Service] Skipping %s notification for offer %d: %v", eventType, o.ID, err)
		return
	}
	receiver, err := s.users.GetUser(ctx, o.ReceiverID)
	if err != nil {
		log.Printf("[trade.Service] Skipping %s notification for offer %d: %v", eventType, o.ID, err)
		return
	}
	s.publisher.Publish(ctx, eventType, notify.TradeOfferData(offerer, receiver, offered, requested))
}

// CreateInput holds the client-supplied fields for a new offer.
type CreateInput struct {
	OfferedGameID   int64 `json:"offered_game_id"`
	RequestedGameID int64 `json:"requested_game_id"`
}
