package ws

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
)

type membership struct {
	client *Client
	join   bool
}

// Hub fans lobby events out to every connected client. Membership changes
// and broadcasts are serialized through Run.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}

	members   chan membership
	broadcast chan []byte
	logger    *log.Logger

	delivered atomic.Int64
	dropped   atomic.Int64
}

func NewHub(logger *log.Logger) *Hub {
	return &Hub{
		clients:   make(map[*Client]struct{}),
		members:   make(chan membership, 256),
		broadcast: make(chan []byte, 1024),
		logger:    logger,
	}
}

func (h *Hub) logf(format string, args ...any) {
	if h.logger != nil {
		h.logger.Printf(format, args...)
	}
}

func (h *Hub) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for c := range h.clients {
				h.removeLocked(c)
			}
			h.mu.Unlock()
			return nil

		case m := <-h.members:
			if m.client == nil {
				continue
			}
			h.mu.Lock()
			if m.join {
				h.clients[m.client] = struct{}{}
			} else {
				h.removeLocked(m.client)
			}
			total := len(h.clients)
			h.mu.Unlock()
			if m.join {
				h.logf("[WS] lobby joined | clients=%d", total)
			} else {
				h.logf("[WS] lobby left | clients=%d", total)
			}

		case msg := <-h.broadcast:
			h.fanOut(msg)
		}
	}
}

// fanOut drops any client whose buffer is full rather than blocking the rest.
func (h *Hub) fanOut(msg []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	var sent, slow int
	for c := range h.clients {
		select {
		case c.send <- msg:
			sent++
		default:
			h.removeLocked(c)
			slow++
		}
	}
	h.delivered.Add(int64(sent))
	h.dropped.Add(int64(slow))
	h.logf("[WS] lobby broadcast | sent=%d dropped=%d", sent, slow)
}

func (h *Hub) removeLocked(c *Client) {
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

func (h *Hub) Register(client *Client) {
	if h == nil {
		return
	}
	h.members <- membership{client: client, join: true}
}

func (h *Hub) Unregister(client *Client) {
	if h == nil {
		return
	}
	select {
	case h.members <- membership{client: client}:
	default:
		h.mu.Lock()
		h.removeLocked(client)
		h.mu.Unlock()
	}
}

func (h *Hub) Broadcast(message []byte) {
	if h == nil {
		return
	}
	select {
	case h.broadcast <- message:
	default:
		h.logf("[WS] lobby broadcast dropped | reason=buffer_full")
	}
}

func (h *Hub) ClientCount() int {
	if h == nil {
		return 0
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Dropped counts clients disconnected for falling behind.
func (h *Hub) Dropped() int64 {
	if h == nil {
		return 0
	}
	return h.dropped.Load()
}
