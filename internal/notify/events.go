package notify

import (
	"encoding/json"
	"fmt"

	"github.com/ignite/gametrade/internal/domain"
)

// Event types understood by the notification worker.
const (
	EventPasswordChanged    = "password_changed"
	EventTradeOfferCreated  = "trade_offer_created"
	EventTradeOfferAccepted = "trade_offer_accepted"
	EventTradeOfferRejected = "trade_offer_rejected"
)

// Event is the wire format of a queue message: an event type plus a flat
// key/value payload.
type Event struct {
	EventType string            `json:"event_type"`
	Data      map[string]string `json:"data"`
}

// Encode serializes the event to its JSON wire form.
func (e Event) Encode() ([]byte, error) {
	b, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("encode event %s: %w", e.EventType, err)
	}
	return b, nil
}

// DecodeEvent parses a queue message back into an Event.
func DecodeEvent(payload []byte) (Event, error) {
	var e Event
	if err := json.Unmarshal(payload, &e); err != nil {
		return Event{}, fmt.Errorf("decode event: %w", err)
	}
	return e, nil
}

// PasswordChangedData builds the payload for a password_changed event.
func PasswordChangedData(u *domain.User) map[string]string {
	return map[string]string{
		"user_email": u.Email,
		"user_name":  u.Name,
	}
}

// TradeOfferData builds the payload shared by all trade offer events. Both
// parties and display strings for both games are included so the worker can
// render mails without further lookups.
func TradeOfferData(offerer, receiver *domain.User, offered, requested *domain.VideoGame) map[string]string {
	return map[string]string{
		"offerer_email":  offerer.Email,
		"offerer_name":   offerer.Name,
		"receiver_email": receiver.Email,
		"receiver_name":  receiver.Name,
		"offered_game":   offered.DisplayName(),
		"requested_game": requested.DisplayName(),
	}
}
