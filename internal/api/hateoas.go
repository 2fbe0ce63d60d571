package api

import (
	"fmt"
	"net/http"

	"github.com/ignite/gametrade/internal/domain"
)

// Link is a hypermedia reference attached to every resource representation.
type Link struct {
	Rel    string `json:"rel"`
	Href   string `json:"href"`
	Method string `json:"method"`
}

// baseURL reconstructs the external URL prefix for the request so links
// are absolute. Honors X-Forwarded-Proto for deployments behind a proxy.
func baseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + r.Host
}

func userLinks(r *http.Request, id int64) []Link {
	base := baseURL(r)
	return []Link{
		{Rel: "self", Href: fmt.Sprintf("%s/users/%d", base, id), Method: "GET"},
		{Rel: "update", Href: fmt.Sprintf("%s/users/%d", base, id), Method: "PUT"},
		{Rel: "delete", Href: fmt.Sprintf("%s/users/%d", base, id), Method: "DELETE"},
		{Rel: "games", Href: fmt.Sprintf("%s/users/%d/games", base, id), Method: "GET"},
		{Rel: "change-password", Href: fmt.Sprintf("%s/users/%d/password", base, id), Method: "PUT"},
	}
}

func gameLinks(r *http.Request, g *domain.VideoGame) []Link {
	base := baseURL(r)
	return []Link{
		{Rel: "self", Href: fmt.Sprintf("%s/games/%d", base, g.ID), Method: "GET"},
		{Rel: "update", Href: fmt.Sprintf("%s/games/%d", base, g.ID), Method: "PUT"},
		{Rel: "delete", Href: fmt.Sprintf("%s/games/%d", base, g.ID), Method: "DELETE"},
		{Rel: "owner", Href: fmt.Sprintf("%s/users/%d", base, g.OwnerID), Method: "GET"},
	}
}

// offerLinks includes the transition links only while the offer can still
// move; terminal offers link to their parties and games alone.
func offerLinks(r *http.Request, o *domain.TradeOffer) []Link {
	base := baseURL(r)
	links := []Link{
		{Rel: "self", Href: fmt.Sprintf("%s/trade-offers/%d", base, o.ID), Method: "GET"},
		{Rel: "offered-game", Href: fmt.Sprintf("%s/games/%d", base, o.OfferedGameID), Method: "GET"},
		{Rel: "requested-game", Href: fmt.Sprintf("%s/games/%d", base, o.RequestedGameID), Method: "GET"},
		{Rel: "offerer", Href: fmt.Sprintf("%s/users/%d", base, o.OffererID), Method: "GET"},
		{Rel: "receiver", Href: fmt.Sprintf("%s/users/%d", base, o.ReceiverID), Method: "GET"},
	}
	if o.Status == domain.OfferPending {
		links = append(links,
			Link{Rel: "accept", Href: fmt.Sprintf("%s/trade-offers/%d/accept", base, o.ID), Method: "PUT"},
			Link{Rel: "reject", Href: fmt.Sprintf("%s/trade-offers/%d/reject", base, o.ID), Method: "PUT"},
			Link{Rel: "cancel", Href: fmt.Sprintf("%s/trade-offers/%d/cancel", base, o.ID), Method: "PUT"},
		)
	}
	return links
}

// RootIndex is the discovery document: the API's entry points as links.
func (h *Handlers) RootIndex(w http.ResponseWriter, r *http.Request) {
	base := baseURL(r)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Video Game Trading API",
		"links": []Link{
			{Rel: "self", Href: base + "/", Method: "GET"},
			{Rel: "health", Href: base + "/health", Method: "GET"},
			{Rel: "users", Href: base + "/users", Method: "GET"},
			{Rel: "register", Href: base + "/users", Method: "POST"},
			{Rel: "login", Href: base + "/auth/login", Method: "POST"},
			{Rel: "games", Href: base + "/games", Method: "GET"},
			{Rel: "trade-offers", Href: base + "/trade-offers", Method: "GET"},
		},
	})
}
