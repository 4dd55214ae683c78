package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/avvvet/fourcorners-services/internal/archivesvc/store"
	"github.com/go-chi/chi"
	log "github.com/sirupsen/logrus"
)

const (
	defaultLimit = 100
	maxLimit     = 1000
)

type EventLister interface {
	ListByGame(ctx context.Context, gameID int64, limit int64) ([]store.EventRecord, error)
}

type Handler struct {
	events EventLister
}

func NewHandler(events EventLister) *Handler {
	return &Handler{events: events}
}

type Response struct {
	Message string      `json:"message"`
	Code    int         `json:"code"`
	Data    interface{} `json:"data"`
	Error   string      `json:"error,omitempty"`
}

func (h *Handler) CreateResponse(w http.ResponseWriter, rsp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(rsp.Code)
	if err := json.NewEncoder(w).Encode(rsp); err != nil {
		log.Errorf("Failed to encode response: %v", err)
	}
}

func (h *Handler) SetRoutes(r chi.Router) {
	r.Route("/v1", func(r chi.Router) {
		r.Get("/health", h.HealthHandler)
		r.Get("/games/{gameId}/events", h.GameEvents)
	})
}

// GameEvents lists archived events of a game; ?limit= caps the page.
func (h *Handler) GameEvents(w http.ResponseWriter, r *http.Request) {
	gameID, err := strconv.ParseInt(chi.URLParam(r, "gameId"), 10, 64)
	if err != nil {
		h.CreateResponse(w, Response{Message: "Bad Request", Code: http.StatusBadRequest, Error: "invalid game id"})
		return
	}

	limit := int64(defaultLimit)
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err = strconv.ParseInt(v, 10, 64)
		if err != nil || limit <= 0 {
			h.CreateResponse(w, Response{Message: "Bad Request", Code: http.StatusBadRequest, Error: "invalid limit"})
			return
		}
		if limit > maxLimit {
			limit = maxLimit
		}
	}

	events, err := h.events.ListByGame(r.Context(), gameID, limit)
	if err != nil {
		log.Errorf("Error [ListByGame] %s", err)
		h.CreateResponse(w, Response{Message: "Internal Server Error", Code: http.StatusInternalServerError, Error: "unable to load events"})
		return
	}

	h.CreateResponse(w, Response{
		Message: "ok",
		Code:    http.StatusOK,
		Data:    events,
	})
}

func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	h.CreateResponse(w, Response{
		Message: "archive service is running",
		Code:    http.StatusOK,
	})
}
