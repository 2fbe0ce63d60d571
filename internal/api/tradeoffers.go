package api

import (
	"context"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/ignite/gametrade/internal/domain"
	"github.com/ignite/gametrade/internal/service/trade"
)

type offerResource struct {
	domain.TradeOffer
	Links []Link `json:"links"`
}

func newOfferResource(r *http.Request, o domain.TradeOffer) offerResource {
	return offerResource{TradeOffer: o, Links: offerLinks(r, &o)}
}

type createOfferRequest struct {
	OfferedGameID   int64 `json:"offered_game_id"`
	RequestedGameID int64 `json:"requested_game_id"`
}

func (req createOfferRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.OfferedGameID, validation.Required, validation.Min(1)),
		validation.Field(&req.RequestedGameID, validation.Required, validation.Min(1)),
	)
}

func (h *Handlers) CreateTradeOffer(w http.ResponseWriter, r *http.Request) {
	var req createOfferRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	o, err := h.trades.Create(r.Context(), req.OfferedGameID, req.RequestedGameID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, newOfferResource(r, *o))
}

func (h *Handlers) ListTradeOffers(w http.ResponseWriter, r *http.Request) {
	p := parseListParams(r)
	filter := trade.ListFilter{Skip: p.Skip, Limit: p.Limit}
	if s := r.URL.Query().Get("status"); s != "" {
		status := domain.TradeOfferStatus(s)
		if !status.Valid() {
			respondError(w, http.StatusBadRequest, "invalid status filter: "+s)
			return
		}
		filter.Status = status
	}
	offers, err := h.trades.List(r.Context(), filter)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, collectionResponse{
		Items: h.offerResources(r, offers),
		Links: collectionLinks(r, p, len(offers)),
	})
}

func (h *Handlers) GetTradeOffer(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid trade offer id")
		return
	}
	o, err := h.trades.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, newOfferResource(r, *o))
}

func (h *Handlers) ListSentTradeOffers(w http.ResponseWriter, r *http.Request) {
	h.listUserOffers(w, r, h.trades.ListByOfferer)
}

func (h *Handlers) ListReceivedTradeOffers(w http.ResponseWriter, r *http.Request) {
	h.listUserOffers(w, r, h.trades.ListByReceiver)
}

// AcceptTradeOffer resolves a pending offer in the receiver's favor.
func (h *Handlers) AcceptTradeOffer(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.trades.Accept)
}

func (h *Handlers) RejectTradeOffer(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.trades.Reject)
}

func (h *Handlers) CancelTradeOffer(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.trades.Cancel)
}

func (h *Handlers) listUserOffers(w http.ResponseWriter, r *http.Request,
	list func(ctx context.Context, userID int64, f trade.ListFilter) ([]domain.TradeOffer, error)) {
	id, ok := parseID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	p := parseListParams(r)
	offers, err := list(r.Context(), id, trade.ListFilter{Skip: p.Skip, Limit: p.Limit})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, collectionResponse{
		Items: h.offerResources(r, offers),
		Links: collectionLinks(r, p, len(offers)),
	})
}

func (h *Handlers) transition(w http.ResponseWriter, r *http.Request,
	do func(ctx context.Context, id int64) (*domain.TradeOffer, error)) {
	id, ok := parseID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid trade offer id")
		return
	}
	o, err := do(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, newOfferResource(r, *o))
}

func (h *Handlers) offerResources(r *http.Request, offers []domain.TradeOffer) []offerResource {
	items := make([]offerResource, 0, len(offers))
	for _, o := range offers {
		items = append(items, newOfferResource(r, o))
	}
	return items
}
