package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/ignite/gametrade/internal/auth"
	"github.com/ignite/gametrade/internal/service/game"
	"github.com/ignite/gametrade/internal/service/trade"
	"github.com/ignite/gametrade/internal/service/user"
)

// Handlers holds the services the HTTP layer dispatches into.
type Handlers struct {
	users  *user.Service
	games  *game.Service
	trades *trade.Service
	tokens *auth.Manager
}

// NewHandlers wires the services into the HTTP layer.
func NewHandlers(users *user.Service, games *game.Service, trades *trade.Service, tokens *auth.Manager) *Handlers {
	return &Handlers{users: users, games: games, trades: trades, tokens: tokens}
}

// HealthCheck reports liveness.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// Response helpers

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

type errorBody struct {
	Error      string `json:"error"`
	Detail     string `json:"detail"`
	StatusCode int    `json:"status_code"`
}

func respondError(w http.ResponseWriter, status int, detail string) {
	respondJSON(w, status, errorBody{
		Error:      http.StatusText(status),
		Detail:     detail,
		StatusCode: status,
	})
}

// respondServiceError maps service errors onto HTTP statuses. Anything not
// in the taxonomy is a 500 with a generic detail so internals never leak.
func respondServiceError(w http.ResponseWriter, err error) {
	var stateErr *trade.StateError
	switch {
	case errors.Is(err, user.ErrNotFound),
		errors.Is(err, game.ErrNotFound),
		errors.Is(err, game.ErrOwnerNotFound),
		errors.Is(err, trade.ErrOfferNotFound),
		errors.Is(err, trade.ErrOfferedGameNotFound),
		errors.Is(err, trade.ErrRequestedGameNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, trade.ErrSelfTrade),
		errors.Is(err, trade.ErrSameOwner),
		errors.Is(err, user.ErrEmailTaken):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, trade.ErrDuplicatePending):
		respondError(w, http.StatusConflict, err.Error())
	case errors.As(err, &stateErr):
		respondError(w, http.StatusBadRequest, stateErr.Error())
	case errors.Is(err, user.ErrBadCredentials):
		w.Header().Set("WWW-Authenticate", "Bearer")
		respondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, game.ErrNotOwner):
		respondError(w, http.StatusForbidden, err.Error())
	default:
		log.Printf("[API] Internal error: %v", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// decodeJSON parses a request body into dst and, when dst implements
// validation.Validatable, validates it. Returns false after writing the
// error response, so callers can bail with a bare return.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	if v, ok := dst.(validation.Validatable); ok {
		if err := v.Validate(); err != nil {
			respondError(w, http.StatusUnprocessableEntity, err.Error())
			return false
		}
	}
	return true
}
