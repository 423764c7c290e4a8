// internal/gateway/hub.go
package gateway

import (
	"sync"

	"github.com/google/uuid"
	"github.com/smackdown/crazy8/internal/game"
	"github.com/sirupsen/logrus"
)

const sendBuffer = 64

// client is one connection's outbound queue. closeSlow is called when the
// queue overflows; the connection is dropped rather than stalling a room.
type client struct {
	send      chan interface{}
	closeSlow func()
	once      sync.Once
}

func newClient(closeSlow func()) *client {
	return &client{send: make(chan interface{}, sendBuffer), closeSlow: closeSlow}
}

// enqueue never blocks. Rooms call it with their lock held.
func (c *client) enqueue(msg interface{}) bool {
	select {
	case c.send <- msg:
		return true
	default:
		if c.closeSlow != nil {
			c.once.Do(c.closeSlow)
		}
		return false
	}
}

// Hub routes room events to the connections subscribed to each room. It
// implements game.Broadcaster.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[uuid.UUID]*client
	log   logrus.FieldLogger
}

// NewHub returns an empty hub.
func NewHub(log logrus.FieldLogger) *Hub {
	return &Hub{rooms: make(map[string]map[uuid.UUID]*client), log: log}
}

func (h *Hub) subscribe(code string, playerID uuid.UUID, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	members, ok := h.rooms[code]
	if !ok {
		members = make(map[uuid.UUID]*client)
		h.rooms[code] = members
	}
	members[playerID] = c
}

func (h *Hub) unsubscribe(code string, playerID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	members := h.rooms[code]
	delete(members, playerID)
	if len(members) == 0 {
		delete(h.rooms, code)
	}
}

// Broadcast sends ev to every connection in the room.
func (h *Hub) Broadcast(code string, ev game.GameEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for id, c := range h.rooms[code] {
		if !c.enqueue(ev) {
			h.log.WithFields(logrus.Fields{"room": code, "player": id}).Warnf("dropping slow client on %s", ev.Type)
		}
	}
}

// SendTo sends ev to one player's connection, if it is still subscribed.
func (h *Hub) SendTo(code string, playerID uuid.UUID, ev game.GameEvent) {
	h.mu.RLock()
	c, ok := h.rooms[code][playerID]
	h.mu.RUnlock()
	if !ok {
		return
	}
	if !c.enqueue(ev) {
		h.log.WithFields(logrus.Fields{"room": code, "player": playerID}).Warnf("dropping slow client on %s", ev.Type)
	}
}

// members returns how many connections are subscribed to the room.
func (h *Hub) members(code string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[code])
}
