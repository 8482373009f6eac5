package monitor

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Handler upgrades to WebSocket and registers the connection with mgr.
func Handler(mgr *Manager, bufferSize int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			mgr.log.Warn().Err(err).Msg("monitor: websocket upgrade failed")
			return
		}
		c := NewClient(conn, bufferSize)
		mgr.RegisterClient(c)

		go writePump(c)
		go readPump(c, mgr)
	}
}

// readPump discards any inbound client traffic but keeps the read deadline
// alive for pong handling; viewers are read-only.
func readPump(c *Client, mgr *Manager) {
	defer mgr.Unregister(c)

	c.Conn.SetReadLimit(4096)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			return
		}
	}
}

func writePump(c *Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case data, ok := <-c.SendCh():
			if !ok {
				return
			}
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.Done():
			return
		}
	}
}

// statusResponse is the read-only monitoring surface's health payload.
type statusResponse struct {
	ConnectedViewers int       `json:"connected_viewers"`
	ServerTime       time.Time `json:"server_time"`
}

// Routes mounts the monitor's HTTP surface (status + WebSocket feed) onto r.
func Routes(r chi.Router, mgr *Manager, bufferSize int) {
	r.Get("/ws", Handler(mgr, bufferSize))
	r.Get("/status", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(statusResponse{
			ConnectedViewers: mgr.ClientCount(),
			ServerTime:       time.Now(),
		})
	})
}
