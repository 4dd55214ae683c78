package routes

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/avvvet/fourcorners-services/internal/comm"
	"github.com/avvvet/fourcorners-services/internal/socketsvc/ws"
	"github.com/go-chi/chi"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allowAll(*http.Request) bool { return true }

func startServer(t *testing.T) (*ws.Ws, string) {
	t.Helper()
	s := ws.NewWs()
	r := chi.NewRouter()
	SetRoutes(r, s, allowAll)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return s, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func broadcast(t *testing.T, s *ws.Ws, ev comm.GameEvent) {
	t.Helper()
	payload, err := comm.EncodeEvent(ev)
	require.NoError(t, err)
	s.Broadcast(&ev, payload)
}

func readEvent(t *testing.T, conn *websocket.Conn) *comm.GameEvent {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	ev, err := comm.DecodeEvent(data)
	require.NoError(t, err)
	return ev
}

func TestBroadcastFiltersByGame(t *testing.T) {
	s, base := startServer(t)

	all := dial(t, base+"/v1/ws")
	game2 := dial(t, base+"/v1/ws?game_id=2")
	require.Eventually(t, func() bool { return s.Count() == 2 }, 2*time.Second, 10*time.Millisecond)

	broadcast(t, s, comm.GameEvent{Type: comm.EventCornerEliminated, GameID: 1, Corner: 3})
	broadcast(t, s, comm.GameEvent{Type: comm.EventCornerEliminated, GameID: 2, Corner: 4})

	assert.EqualValues(t, 1, readEvent(t, all).GameID)
	assert.EqualValues(t, 2, readEvent(t, all).GameID)

	ev := readEvent(t, game2)
	assert.EqualValues(t, 2, ev.GameID)
	assert.Equal(t, 4, ev.Corner)
}

func TestBroadcastFollowsNextGame(t *testing.T) {
	s, base := startServer(t)

	watcher := dial(t, base+"/v1/ws?game_id=5")
	require.Eventually(t, func() bool { return s.Count() == 1 }, 2*time.Second, 10*time.Millisecond)

	broadcast(t, s, comm.GameEvent{Type: comm.EventGameFinished, GameID: 4, NextGameID: 5, Winner: "E"})

	ev := readEvent(t, watcher)
	assert.Equal(t, comm.EventGameFinished, ev.Type)
	assert.Equal(t, "E", ev.Winner)
}

func TestDisconnectRemovesSocket(t *testing.T) {
	s, base := startServer(t)

	conn := dial(t, base+"/v1/ws")
	require.Eventually(t, func() bool { return s.Count() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")))
	assert.Eventually(t, func() bool { return s.Count() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestInvalidGameFilter(t *testing.T) {
	_, base := startServer(t)

	_, rsp, err := websocket.DefaultDialer.Dial(base+"/v1/ws?game_id=x", nil)
	require.Error(t, err)
	require.NotNil(t, rsp)
	assert.Equal(t, http.StatusBadRequest, rsp.StatusCode)
}
