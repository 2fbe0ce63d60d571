package domain

import "time"

// TradeOfferStatus enumerates the lifecycle states of a trade offer.
// An offer starts pending and moves to exactly one terminal state.
type TradeOfferStatus string

const (
	OfferPending   TradeOfferStatus = "pending"
	OfferAccepted  TradeOfferStatus = "accepted"
	OfferRejected  TradeOfferStatus = "rejected"
	OfferCancelled TradeOfferStatus = "cancelled"
)

// Valid reports whether the status is one of the known values.
func (s TradeOfferStatus) Valid() bool {
	switch s {
	case OfferPending, OfferAccepted, OfferRejected, OfferCancelled:
		return true
	}
	return false
}

// Terminal reports whether the status permits no further transitions.
func (s TradeOfferStatus) Terminal() bool {
	return s == OfferAccepted || s == OfferRejected || s == OfferCancelled
}

// TradeOffer proposes exchanging the offerer's game for the receiver's game.
// Offerer and receiver are derived from game ownership at creation time,
// never supplied by the client.
type TradeOffer struct {
	ID              int64            `json:"id" db:"id"`
	OfferedGameID   int64            `json:"offered_game_id" db:"offered_game_id"`
	RequestedGameID int64            `json:"requested_game_id" db:"requested_game_id"`
	OffererID       int64            `json:"offerer_id" db:"offerer_id"`
	ReceiverID      int64            `json:"receiver_id" db:"receiver_id"`
	Status          TradeOfferStatus `json:"status" db:"status"`
	CreatedAt       time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at" db:"updated_at"`
}

// IsTerminal returns true if the offer is in a final state.
func (o *TradeOffer) IsTerminal() bool {
	return o.Status.Terminal()
}
