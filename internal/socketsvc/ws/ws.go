package ws

import (
	"sync"
	"time"

	"github.com/avvvet/fourcorners-services/internal/comm"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

const writeWait = 10 * time.Second

// client is one websocket watcher. gameID 0 receives every game.
type client struct {
	conn   *websocket.Conn
	gameID int64
	mu     sync.Mutex // gorilla allows one concurrent writer
}

type Ws struct {
	connMap sync.Map // to keep track of socket connection with socketId
}

func NewWs() *Ws {
	return &Ws{}
}

func (s *Ws) StoreConnection(socketId string, conn *websocket.Conn, gameID int64) {
	s.connMap.Store(socketId, &client{conn: conn, gameID: gameID})
}

func (s *Ws) GetConnection(socketId string) (*websocket.Conn, bool) {
	c, ok := s.connMap.Load(socketId)
	if !ok {
		return nil, false
	}
	return c.(*client).conn, true
}

func (s *Ws) HandleDisconnect(socketId string) {
	s.connMap.Delete(socketId)
}

// Count returns the number of open sockets.
func (s *Ws) Count() int {
	count := 0
	s.connMap.Range(func(key, value any) bool {
		count++
		return true
	})
	return count
}

func (c *client) wants(ev *comm.GameEvent) bool {
	return c.gameID == 0 || c.gameID == ev.GameID || (ev.NextGameID != 0 && c.gameID == ev.NextGameID)
}

// Broadcast writes payload to every socket watching ev's game. Sockets
// that fail to receive are dropped.
func (s *Ws) Broadcast(ev *comm.GameEvent, payload []byte) {
	s.connMap.Range(func(key, value any) bool {
		socketId := key.(string)
		c := value.(*client)
		if !c.wants(ev) {
			return true
		}

		c.mu.Lock()
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		err := c.conn.WriteMessage(websocket.TextMessage, payload)
		c.mu.Unlock()

		if err != nil {
			log.Warnf("dropping socket %s after write error: %v", socketId, err)
			c.conn.Close()
			s.HandleDisconnect(socketId)
		}
		return true
	})
}
