package trade

import (
	"errors"
	"fmt"

	"github.com/ignite/gametrade/internal/domain"
)

// Sentinel errors for the trade service layer.
var (
	ErrOfferNotFound         = errors.New("trade offer not found")
	ErrOfferedGameNotFound   = errors.New("offered game not found")
	ErrRequestedGameNotFound = errors.New("requested game not found")
	ErrSelfTrade             = errors.New("cannot trade a game for itself")
	ErrSameOwner             = errors.New("cannot trade with yourself")
	ErrDuplicatePending      = errors.New("a pending trade offer already exists for these games")
)

// StateError reports a transition attempted from a non-pending status. It
// names the status the offer actually had, so a losing concurrent request
// can see who won.
type StateError struct {
	Target  domain.TradeOfferStatus
	Current domain.TradeOfferStatus
}

func (e *StateError) Error() string {
	return fmt.Sprintf("cannot %s trade offer with status: %s", transitionVerb(e.Target), e.Current)
}

func transitionVerb(target domain.TradeOfferStatus) string {
	switch target {
	case domain.OfferAccepted:
		return "accept"
	case domain.OfferRejected:
		return "reject"
	case domain.OfferCancelled:
		return "cancel"
	}
	return "transition"
}
