package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/avvvet/fourcorners-services/internal/gamesvc/service"
	"github.com/go-chi/chi"
	log "github.com/sirupsen/logrus"
)

const maxBodyBytes = 1 << 20

type Handler struct {
	games *service.GameService
}

func NewHandler(games *service.GameService) *Handler {
	return &Handler{games: games}
}

type Response struct {
	Message string      `json:"message"`
	Code    int         `json:"code"`
	Data    interface{} `json:"data"`
	Error   string      `json:"error,omitempty"`
}

type enrollRequest struct {
	Name   string `json:"name"`
	Corner int    `json:"corner"`
	GameID *int64 `json:"gameId"`
}

type eliminateRequest struct {
	GameID *int64 `json:"gameId"`
}

func (h *Handler) CreateResponse(w http.ResponseWriter, rsp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(rsp.Code)
	if err := json.NewEncoder(w).Encode(rsp); err != nil {
		log.Errorf("Failed to encode response: %v", err)
	}
}

// CreateError maps engine errors onto status codes.
func (h *Handler) CreateError(w http.ResponseWriter, r *http.Request, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrValidation):
		code = http.StatusBadRequest
	case errors.Is(err, service.ErrNoActiveGame):
		code = http.StatusBadRequest
	case errors.Is(err, service.ErrGameNotFound):
		code = http.StatusNotFound
	default:
		log.Errorf("Error %s %s: %s", r.Method, r.URL.Path, err)
	}

	h.CreateResponse(w, Response{
		Message: http.StatusText(code),
		Code:    code,
		Error:   err.Error(),
	})
}

// decodeBody reads an optional JSON body into v. An empty body is not an error.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	err := json.NewDecoder(r.Body).Decode(v)
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (h *Handler) badRequest(w http.ResponseWriter, msg string) {
	h.CreateResponse(w, Response{
		Message: http.StatusText(http.StatusBadRequest),
		Code:    http.StatusBadRequest,
		Error:   msg,
	})
}

func (h *Handler) CreateGame(w http.ResponseWriter, r *http.Request) {
	game, err := h.games.CreateGame(r.Context())
	if err != nil {
		h.CreateError(w, r, err)
		return
	}

	h.CreateResponse(w, Response{
		Message: "Game started!",
		Code:    http.StatusCreated,
		Data:    map[string]int64{"gameId": game.ID},
	})
}

func (h *Handler) EnrollPlayer(w http.ResponseWriter, r *http.Request) {
	var req enrollRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.badRequest(w, "invalid request body: "+err.Error())
		return
	}

	enrollment, err := h.games.EnrollPlayer(r.Context(), req.Name, req.Corner, req.GameID)
	if err != nil {
		h.CreateError(w, r, err)
		return
	}

	h.CreateResponse(w, Response{
		Message: enrollment.Message,
		Code:    http.StatusCreated,
		Data:    enrollment,
	})
}

func (h *Handler) EliminateCorner(w http.ResponseWriter, r *http.Request) {
	var req eliminateRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.badRequest(w, "invalid request body: "+err.Error())
		return
	}

	round, err := h.games.EliminateCorner(r.Context(), req.GameID)
	if err != nil {
		h.CreateError(w, r, err)
		return
	}

	h.CreateResponse(w, Response{
		Message: round.Message,
		Code:    http.StatusOK,
		Data:    round,
	})
}

func (h *Handler) GameStatus(w http.ResponseWriter, r *http.Request) {
	gameID, err := strconv.ParseInt(chi.URLParam(r, "gameId"), 10, 64)
	if err != nil {
		h.badRequest(w, "invalid game id")
		return
	}

	status, err := h.games.GetStatus(r.Context(), gameID)
	if err != nil {
		h.CreateError(w, r, err)
		return
	}

	h.CreateResponse(w, Response{
		Message: "ok",
		Code:    http.StatusOK,
		Data:    status,
	})
}

func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	h.CreateResponse(w, Response{
		Message: "game service is running",
		Code:    http.StatusOK,
		Data:    nil,
	})
}
