package ws

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/immxrtalbeast/classroom_live/internal/domain"
	"github.com/immxrtalbeast/classroom_live/lib/logger/sl"
)

// Hub tracks which connections have joined which room, split by audience.
// It implements service.Publisher.
type Hub struct {
	mu    sync.RWMutex
	rooms map[uint]map[domain.Role]map[*Conn]struct{}
	log   *slog.Logger
}

func NewHub(log *slog.Logger) *Hub {
	if log == nil {
		log = slog.Default()
	}
	return &Hub{
		rooms: make(map[uint]map[domain.Role]map[*Conn]struct{}),
		log:   log,
	}
}

func (h *Hub) Join(roomID uint, c *Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	audiences, ok := h.rooms[roomID]
	if !ok {
		audiences = make(map[domain.Role]map[*Conn]struct{})
		h.rooms[roomID] = audiences
	}
	conns, ok := audiences[c.Role()]
	if !ok {
		conns = make(map[*Conn]struct{})
		audiences[c.Role()] = conns
	}
	conns[c] = struct{}{}
}

func (h *Hub) Leave(roomID uint, c *Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	audiences, ok := h.rooms[roomID]
	if !ok {
		return
	}
	delete(audiences[c.Role()], c)
	if len(audiences[c.Role()]) == 0 {
		delete(audiences, c.Role())
	}
	if len(audiences) == 0 {
		delete(h.rooms, roomID)
	}
}

// Count returns how many connections of every audience joined the room.
func (h *Hub) Count(roomID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	n := 0
	for _, conns := range h.rooms[roomID] {
		n += len(conns)
	}
	return n
}

func (h *Hub) PublishToRoom(roomID uint, event string, payload any) {
	h.publish(roomID, nil, event, payload)
}

// PublishToOthers fans out to the room without the given connection.
func (h *Hub) PublishToOthers(roomID uint, except *Conn, event string, payload any) {
	h.publish(roomID, except, event, payload)
}

func (h *Hub) publish(roomID uint, except *Conn, event string, payload any) {
	const op = "ws.hub.publish"

	data, err := json.Marshal(domain.Envelope{Event: event, Data: payload})
	if err != nil {
		h.log.Error("failed to encode event", slog.String("op", op), slog.String("event", event), sl.Err(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, conns := range h.rooms[roomID] {
		for c := range conns {
			if c == except {
				continue
			}
			if !c.enqueue(data) {
				h.log.Warn("dropping slow connection", slog.String("op", op), slog.String("conn_id", c.ID()))
			}
		}
	}
}
