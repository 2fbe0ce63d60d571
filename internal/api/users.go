package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/ignite/gametrade/internal/auth"
	"github.com/ignite/gametrade/internal/domain"
	"github.com/ignite/gametrade/internal/service/game"
	"github.com/ignite/gametrade/internal/service/user"
)

type userResource struct {
	domain.User
	Links []Link `json:"links"`
}

func newUserResource(r *http.Request, u domain.User) userResource {
	return userResource{User: u, Links: userLinks(r, u.ID)}
}

type registerRequest struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	StreetAddress string `json:"street_address"`
	Password      string `json:"password"`
}

func (req registerRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.Email, validation.Required, is.Email),
		validation.Field(&req.StreetAddress, validation.Length(0, 200)),
		validation.Field(&req.Password, validation.Required, validation.Length(8, 72)),
	)
}

type updateUserRequest struct {
	Name          *string `json:"name"`
	StreetAddress *string `json:"street_address"`
}

func (req updateUserRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Name, validation.Length(1, 100)),
		validation.Field(&req.StreetAddress, validation.Length(0, 200)),
	)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (req changePasswordRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.CurrentPassword, validation.Required),
		validation.Field(&req.NewPassword, validation.Required, validation.Length(8, 72)),
	)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (req loginRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Email, validation.Required, is.Email),
		validation.Field(&req.Password, validation.Required),
	)
}

// parseID reads a numeric chi URL parameter.
func parseID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	return id, err == nil && id > 0
}

// requireSelf ensures the authenticated caller is operating on their own
// account. Writes the response on failure.
func requireSelf(w http.ResponseWriter, r *http.Request, id int64) bool {
	callerID, ok := auth.UserID(r.Context())
	if !ok || callerID != id {
		respondError(w, http.StatusForbidden, "cannot modify another user's account")
		return false
	}
	return true
}

func (h *Handlers) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	u, err := h.users.Register(r.Context(), user.RegisterInput{
		Name:          req.Name,
		Email:         req.Email,
		StreetAddress: req.StreetAddress,
		Password:      req.Password,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, newUserResource(r, *u))
}

func (h *Handlers) ListUsers(w http.ResponseWriter, r *http.Request) {
	p := parseListParams(r)
	users, err := h.users.List(r.Context(), user.ListFilter{Skip: p.Skip, Limit: p.Limit})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	items := make([]userResource, 0, len(users))
	for _, u := range users {
		items = append(items, newUserResource(r, u))
	}
	respondJSON(w, http.StatusOK, collectionResponse{Items: items, Links: collectionLinks(r, p, len(users))})
}

func (h *Handlers) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	u, err := h.users.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, newUserResource(r, *u))
}

func (h *Handlers) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	if !requireSelf(w, r, id) {
		return
	}
	var req updateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	u, err := h.users.Update(r.Context(), id, user.UpdateFields{
		Name:          req.Name,
		StreetAddress: req.StreetAddress,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, newUserResource(r, *u))
}

func (h *Handlers) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	if !requireSelf(w, r, id) {
		return
	}
	if err := h.users.Delete(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) ChangePassword(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	if !requireSelf(w, r, id) {
		return
	}
	var req changePasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.users.ChangePassword(r.Context(), id, req.CurrentPassword, req.NewPassword); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "password updated"})
}

func (h *Handlers) ListUserGames(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	p := parseListParams(r)
	games, err := h.games.ListByOwner(r.Context(), id, game.ListFilter{Skip: p.Skip, Limit: p.Limit})
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

// Login authenticates a user and returns a bearer token with auth links.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	u, err := h.users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	token, err := h.tokens.Issue(u)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"access_token": token,
		"token_type":   "bearer",
		"links":        userLinks(r, u.ID),
	})
}
