package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ignite/gametrade/internal/auth"
)

// SetupRoutes configures the router. Reads are open; writes that act on
// behalf of a user require a bearer token.
func SetupRoutes(h *Handlers, tokens *auth.Manager) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/", h.RootIndex)
	r.Get("/health", h.HealthCheck)

	r.Post("/auth/login", h.Login)

	r.Route("/users", func(r chi.Router) {
		r.Post("/", h.RegisterUser)
		r.Get("/", h.ListUsers)
		r.Get("/{id}", h.GetUser)
		r.Get("/{id}/games", h.ListUserGames)

		r.Group(func(r chi.Router) {
			r.Use(tokens.RequireAuth)
			r.Put("/{id}", h.UpdateUser)
			r.Delete("/{id}", h.DeleteUser)
			r.Put("/{id}/password", h.ChangePassword)
		})
	})

	r.Route("/games", func(r chi.Router) {
		r.Get("/", h.ListGames)
		r.Get("/{id}", h.GetGame)

		r.Group(func(r chi.Router) {
			r.Use(tokens.RequireAuth)
			r.Post("/", h.CreateGame)
			r.Put("/{id}", h.UpdateGame)
			r.Delete("/{id}", h.DeleteGame)
		})
	})

	r.Route("/trade-offers", func(r chi.Router) {
		r.Get("/", h.ListTradeOffers)
		r.Get("/{id}", h.GetTradeOffer)
		r.Get("/user/{id}/sent", h.ListSentTradeOffers)
		r.Get("/user/{id}/received", h.ListReceivedTradeOffers)

		r.Group(func(r chi.Router) {
			r.Use(tokens.RequireAuth)
			r.Post("/", h.CreateTradeOffer)
			r.Put("/{id}/accept", h.AcceptTradeOffer)
			r.Put("/{id}/reject", h.RejectTradeOffer)
			r.Put("/{id}/cancel", h.CancelTradeOffer)
		})
	})

	return r
}
