// Package ws tracks websocket listeners per room. The hub only counts
// presence; it never relays one client's traffic to another.
package ws

import (
	"context"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Vasu1712/vibe-rooms-backend/internal/models"
)

// Client is one websocket connection. Send is owned by the connection's
// reader: it is the only writer and closes it when the reader exits.
type Client struct {
	ID   string
	Send chan []byte
	Conn *websocket.Conn
}

// NewClient returns a client with a buffered Send queue.
func NewClient(id string, conn *websocket.Conn) *Client {
	return &Client{ID: id, Send: make(chan []byte, 16), Conn: conn}
}

type placement struct {
	client *Client
	room   models.RoomID
}

// Hub is the room-keyed listener registry. Run owns all mutations.
type Hub struct {
	clients    map[models.RoomID]map[*Client]bool // room -> clients
	rooms      map[*Client]models.RoomID
	register   chan placement
	unregister chan *Client
	move       chan placement
	done       chan struct{}
	mu         sync.RWMutex
	logger     *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients:    make(map[models.RoomID]map[*Client]bool),
		rooms:      make(map[*Client]models.RoomID),
		register:   make(chan placement),
		unregister: make(chan *Client),
		move:       make(chan placement),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Register adds c as a listener of room. It reports false once Run has
// exited, in which case c was not placed.
func (h *Hub) Register(c *Client, room models.RoomID) bool {
	select {
	case h.register <- placement{c, room}:
		return true
	case <-h.done:
		return false
	}
}

// Unregister drops c from whatever room it is in.
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Move re-homes a registered client to room.
func (h *Hub) Move(c *Client, room models.RoomID) {
	select {
	case h.move <- placement{c, room}:
	case <-h.done:
	}
}

// Run processes registry changes until ctx is cancelled, then closes every
// remaining connection so their readers unwind.
func (h *Hub) Run(ctx context.Context) {
	defer h.shutdown()
	for {
		select {
		case p := <-h.register:
			h.mu.Lock()
			h.place(p.client, p.room)
			h.mu.Unlock()
			h.logger.Debug("listener joined", zap.String("client", p.client.ID), zap.String("room", string(p.room)))
		case c := <-h.unregister:
			h.mu.Lock()
			h.remove(c)
			h.mu.Unlock()
			h.logger.Debug("listener left", zap.String("client", c.ID))
		case p := <-h.move:
			h.mu.Lock()
			if _, ok := h.rooms[p.client]; ok {
				h.remove(p.client)
				h.place(p.client, p.room)
			}
			h.mu.Unlock()
			h.logger.Debug("listener moved", zap.String("client", p.client.ID), zap.String("room", string(p.room)))
		case <-ctx.Done():
			return
		}
	}
}

// place and remove require h.mu held for writing.
func (h *Hub) place(c *Client, room models.RoomID) {
	if h.clients[room] == nil {
		h.clients[room] = make(map[*Client]bool)
	}
	h.clients[room][c] = true
	h.rooms[c] = room
}

func (h *Hub) remove(c *Client) {
	room, ok := h.rooms[c]
	if !ok {
		return
	}
	delete(h.rooms, c)
	delete(h.clients[room], c)
	if len(h.clients[room]) == 0 {
		delete(h.clients, room)
	}
}

func (h *Hub) shutdown() {
	close(h.done)
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.rooms {
		if c.Conn != nil {
			c.Conn.Close()
		}
	}
	h.clients = make(map[models.RoomID]map[*Client]bool)
	h.rooms = make(map[*Client]models.RoomID)
}

// ListenerCount returns how many clients are in room.
func (h *Hub) ListenerCount(room models.RoomID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[room])
}

// RoomOf reports the room c is registered in.
func (h *Hub) RoomOf(c *Client) (models.RoomID, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	room, ok := h.rooms[c]
	return room, ok
}
