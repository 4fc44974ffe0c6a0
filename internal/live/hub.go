// Package live broadcasts suggestion run summaries to connected dashboard
// clients over WebSocket.
package live

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// WebSocket upgrader configuration
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for development
	},
}

// RunSummary is the message pushed to clients after each pipeline run.
type RunSummary struct {
	CustomerID       string `json:"customer_id"`
	Items            int    `json:"items"`
	Applied          int    `json:"suggestions_applied"`
	HighConfidence   int    `json:"high_confidence_suggestions"`
	HistoricalOrders int    `json:"historical_orders"`
	DurationMillis   int64  `json:"duration_ms"`
	Success          bool   `json:"success"`
}

// Hub tracks connected clients and fans run summaries out to them.
type Hub struct {
	mu          sync.Mutex
	connections map[*connection]struct{}
}

// connection maintains one WebSocket client.
type connection struct {
	conn *websocket.Conn
	send chan []byte
	hub  *Hub
}

// NewHub creates an empty hub
func NewHub() *Hub {
	return &Hub{connections: make(map[*connection]struct{})}
}

// HandleWS upgrades the request and registers the client with the hub
func (h *Hub) HandleWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn().Err(err).Msg("failed to upgrade websocket connection")
		return
	}

	client := &connection{
		conn: conn,
		send: make(chan []byte, 256),
		hub:  h,
	}

	h.mu.Lock()
	h.connections[client] = struct{}{}
	h.mu.Unlock()

	go client.writePump()
	go client.readPump()
}

// BroadcastRun sends a run summary to every connected client. Slow clients
// drop the message rather than blocking the pipeline.
func (h *Hub) BroadcastRun(summary RunSummary) {
	data, err := json.Marshal(summary)
	if err != nil {
		log.Warn().Err(err).Msg("failed to marshal run summary")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.connections {
		select {
		case client.send <- data:
		default:
			log.Debug().Msg("websocket buffer full, dropping run summary")
		}
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.connections)
}

func (h *Hub) unregister(client *connection) {
	h.mu.Lock()
	delete(h.connections, client)
	h.mu.Unlock()
	client.conn.Close()
}

// readPump drains client messages; the hub is broadcast-only, so incoming
// frames only serve keepalive.
func (c *connection) readPump() {
	defer c.hub.unregister(c)

	c.conn.SetReadLimit(4 * 1024)
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Debug().Err(err).Msg("websocket closed unexpectedly")
			}
			return
		}
	}
}

// writePump pumps messages from the hub to the WebSocket connection
func (c *connection) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
