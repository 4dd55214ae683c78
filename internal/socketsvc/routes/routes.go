package routes

import (
	"net/http"

	"github.com/avvvet/fourcorners-services/internal/socketsvc/handlers"
	"github.com/avvvet/fourcorners-services/internal/socketsvc/ws"
	"github.com/go-chi/chi"
)

func SetRoutes(r chi.Router, ws *ws.Ws, checkOrigin func(r *http.Request) bool) {
	h := handlers.NewHandler(ws, checkOrigin)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/ws", h.HandleWebSocket)
		r.Get("/health", h.HealthHandler)
	})
}
