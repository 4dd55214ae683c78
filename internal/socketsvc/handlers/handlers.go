package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/avvvet/fourcorners-services/internal/socketsvc/ws"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	upgrader websocket.Upgrader
	ws       *ws.Ws
}

type Response struct {
	Message string      `json:"message"`
	Code    int         `json:"code"`
	Data    interface{} `json:"data"`
	Error   string      `json:"error,omitempty"`
}

func NewHandler(s *ws.Ws, checkOrigin func(r *http.Request) bool) *Handler {
	h := &Handler{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
		ws: s,
	}
	return h
}

// HandleWebSocket registers a watcher. ?game_id= limits the feed to one game.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	var gameID int64
	if v := r.URL.Query().Get("game_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			h.CreateResponse(w, Response{Message: "Bad Request", Code: http.StatusBadRequest, Error: "invalid game_id"})
			return
		}
		gameID = id
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Errorf("Failed to upgrade to WebSocket: %v", err)
		return
	}

	socketId := uuid.New().String()
	h.ws.StoreConnection(socketId, conn, gameID)

	log.Infof("New WebSocket connection established: %s (game %d)", socketId, gameID)

	// Handle WebSocket connection
	go h.handleConnection(conn, socketId)
}

// handleConnection drains client frames so close and ping frames are processed.
func (h *Handler) handleConnection(conn *websocket.Conn, socketId string) {
	// Ensure cleanup happens when connection closes
	defer func() {
		log.Infof("Closing WebSocket connection: %s", socketId)
		conn.Close()
		h.ws.HandleDisconnect(socketId)
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			// Check if it's a normal close or unexpected error
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Errorf("WebSocket unexpected close error for socket %s: %v", socketId, err)
			}
			return
		}
	}
}

func (h *Handler) CreateResponse(w http.ResponseWriter, rsp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(rsp.Code)
	if err := json.NewEncoder(w).Encode(rsp); err != nil {
		log.Errorf("Failed to encode response: %v", err)
	}
}

func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	h.CreateResponse(w, Response{
		Message: "socket service is running",
		Code:    http.StatusOK,
		Data:    map[string]int{"sockets": h.ws.Count()},
	})
}
