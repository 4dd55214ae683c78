package handlers

import (
	"github.com/go-chi/chi"
)

func (h *Handler) SetRoutes(r chi.Router) {
	r.Get("/health", h.HealthHandler)

	r.Route("/game", func(r chi.Router) {
		r.Post("/", h.CreateGame)
		r.Post("/players", h.EnrollPlayer)
		r.Post("/eliminate", h.EliminateCorner)
		r.Get("/{gameId}/status", h.GameStatus)
	})
}
