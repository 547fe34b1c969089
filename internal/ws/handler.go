package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/playpool/kolkhoz/internal/store"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
	readLimit  = 4096
)

var errHubStopped = errors.New("websocket hub stopped")

// Origins are checked by middleware.WebSocketCORSCheck before the upgrade
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Client is one watcher of a table feed
type Client struct {
	hub     *Hub
	conn    *websocket.Conn
	id      string
	tableID string
	send    chan []byte
}

// Hub maintains the watchers of every table
type Hub struct {
	rooms      map[string]map[*Client]bool // tableID -> clients
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	sendBuffer int
	mu         sync.RWMutex
}

// NewHub creates a hub; sendBuffer is the per-client queue length
func NewHub(sendBuffer int) *Hub {
	if sendBuffer <= 0 {
		sendBuffer = 256
	}
	return &Hub{
		rooms:      make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		sendBuffer: sendBuffer,
	}
}

// Run processes registrations until ctx is done
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			room, exists := h.rooms[client.tableID]
			if !exists {
				room = make(map[*Client]bool)
				h.rooms[client.tableID] = room
			}
			room[client] = true
			size := len(room)
			h.mu.Unlock()
			log.Printf("[WS] watcher %s joined table %s (room_size=%d)", client.id, client.tableID, size)

		case client := <-h.unregister:
			h.mu.Lock()
			if room, exists := h.rooms[client.tableID]; exists && room[client] {
				delete(room, client)
				close(client.send)
				if len(room) == 0 {
					delete(h.rooms, client.tableID)
				}
			}
			h.mu.Unlock()
			log.Printf("[WS] watcher %s left table %s", client.id, client.tableID)

		case <-ctx.Done():
			close(h.done)
			h.mu.Lock()
			for tableID, room := range h.rooms {
				for client := range room {
					close(client.send)
				}
				delete(h.rooms, tableID)
			}
			h.mu.Unlock()
			log.Println("[WS] hub stopped")
			return
		}
	}
}

// BroadcastRaw sends an encoded message to every watcher of a table
func (h *Hub) BroadcastRaw(tableID string, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.rooms[tableID] {
		select {
		case client.send <- data:
		default:
			log.Printf("[WS] send buffer full for watcher %s on table %s, dropping message", client.id, tableID)
		}
	}
}

// Publish broadcasts a table update to the local watchers
func (h *Hub) Publish(update store.Update) {
	data, err := json.Marshal(update)
	if err != nil {
		log.Printf("[WS] error marshaling update for table %s: %v", update.TableID, err)
		return
	}
	h.BroadcastRaw(update.TableID, data)
}

// RoomSize returns the number of watchers of a table
func (h *Hub) RoomSize(tableID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[tableID])
}

// ServeTable upgrades the request and streams tableID's updates to it.
// initial is written before any broadcast.
func (h *Hub) ServeTable(w http.ResponseWriter, r *http.Request, tableID string, initial []byte) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	client := &Client{
		hub:     h,
		conn:    conn,
		id:      uuid.NewString(),
		tableID: tableID,
		send:    make(chan []byte, h.sendBuffer),
	}
	if initial != nil {
		client.send <- initial
	}

	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return errHubStopped
	}

	go client.writePump()
	go client.readPump()
	return nil
}

// writePump writes queued messages and keeps the connection alive
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("[WS] write error for watcher %s: %v", c.id, err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Printf("[WS] ping error for watcher %s: %v", c.id, err)
				return
			}
		}
	}
}

// readPump drains the connection. The feed is read-only; anything the
// watcher sends is ignored.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(readLimit)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[WS] unexpected close for watcher %s: %v", c.id, err)
			}
			return
		}
	}
}
