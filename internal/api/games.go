package api

import (
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/ignite/gametrade/internal/auth"
	"github.com/ignite/gametrade/internal/domain"
	"github.com/ignite/gametrade/internal/service/game"
)

type gameResource struct {
	domain.VideoGame
	Links []Link `json:"links"`
}

func newGameResource(r *http.Request, g domain.VideoGame) gameResource {
	return gameResource{VideoGame: g, Links: gameLinks(r, &g)}
}

var validConditions = []interface{}{
	domain.ConditionMint, domain.ConditionGood, domain.ConditionFair, domain.ConditionPoor,
}

type createGameRequest struct {
	Name           string               `json:"name"`
	Publisher      string               `json:"publisher"`
	YearPublished  int                  `json:"year_published"`
	GamingSystem   string               `json:"gaming_system"`
	Condition      domain.GameCondition `json:"condition"`
	PreviousOwners *int                 `json:"previous_owners"`
}

func (req createGameRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&req.Publisher, validation.Length(0, 200)),
		validation.Field(&req.YearPublished, validation.Required, validation.Min(1950), validation.Max(2100)),
		validation.Field(&req.GamingSystem, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.Condition, validation.Required, validation.In(validConditions...)),
		validation.Field(&req.PreviousOwners, validation.Min(0)),
	)
}

type updateGameRequest struct {
	Name           *string               `json:"name"`
	Publisher      *string               `json:"publisher"`
	YearPublished  *int                  `json:"year_published"`
	GamingSystem   *string               `json:"gaming_system"`
	Condition      *domain.GameCondition `json:"condition"`
	PreviousOwners *int                  `json:"previous_owners"`
}

func (req updateGameRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Name, validation.Length(1, 200)),
		validation.Field(&req.Publisher, validation.Length(0, 200)),
		validation.Field(&req.YearPublished, validation.Min(1950), validation.Max(2100)),
		validation.Field(&req.GamingSystem, validation.Length(1, 100)),
		validation.Field(&req.Condition, validation.In(validConditions...)),
		validation.Field(&req.PreviousOwners, validation.Min(0)),
	)
}

func (h *Handlers) CreateGame(w http.ResponseWriter, r *http.Request) {
	callerID, ok := auth.UserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	var req createGameRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	g, err := h.games.Create(r.Context(), callerID, game.CreateInput{
		Name:           req.Name,
		Publisher:      req.Publisher,
		YearPublished:  req.YearPublished,
		GamingSystem:   req.GamingSystem,
		Condition:      req.Condition,
		PreviousOwners: req.PreviousOwners,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, newGameResource(r, *g))
}

func (h *Handlers) ListGames(w http.ResponseWriter, r *http.Request) {
	p := parseListParams(r)
	games, err := h.games.List(r.Context(), game.ListFilter{Skip: p.Skip, Limit: p.Limit})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	items := make([]gameResource, 0, len(games))
	for _, g := range games {
		items = append(items, newGameResource(r, g))
	}
	respondJSON(w, http.StatusOK, collectionResponse{Items: items, Links: collectionLinks(r, p, len(games))})
}

func (h *Handlers) GetGame(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid game id")
		return
	}
	g, err := h.games.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, newGameResource(r, *g))
}

func (h *Handlers) UpdateGame(w http.ResponseWriter, r *http.Request) {
	callerID, ok := auth.UserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	id, ok := parseID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid game id")
		return
	}
	var req updateGameRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	g, err := h.games.Update(r.Context(), callerID, id, game.UpdateFields{
		Name:           req.Name,
		Publisher:      req.Publisher,
		YearPublished:  req.YearPublished,
		GamingSystem:   req.GamingSystem,
		Condition:      req.Condition,
		PreviousOwners: req.PreviousOwners,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, newGameResource(r, *g))
}

func (h *Handlers) DeleteGame(w http.ResponseWriter, r *http.Request) {
	callerID, ok := auth.UserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	id, ok := parseID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid game id")
		return
	}
	if err := h.games.Delete(r.Context(), callerID, id); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
