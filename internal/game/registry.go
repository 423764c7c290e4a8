// internal/game/registry.go
package game

import (
	"crypto/rand"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/smackdown/crazy8/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	codeLen      = 8
	codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789" // 32 symbols, no 0/O/1/I
	minCodeLen   = 4
	maxCodeLen   = 12
)

// Broadcaster delivers room events to connected clients.
type Broadcaster interface {
	Broadcast(code string, ev GameEvent)
	SendTo(code string, playerID uuid.UUID, ev GameEvent)
}

// Registry owns every live room, keyed by code.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*Room

	opts        Options
	log         logrus.FieldLogger
	broadcaster Broadcaster
}

// NewRegistry returns an empty registry. b may be nil, in which case rooms
// emit nothing.
func NewRegistry(log logrus.FieldLogger, opts Options, b Broadcaster) *Registry {
	return &Registry{
		rooms:       make(map[string]*Room),
		opts:        opts,
		log:         log,
		broadcaster: b,
	}
}

// Create opens a new room. An empty code gets a random one; a supplied code is
// normalized to upper case and must be 4-12 letters or digits.
func (reg *Registry) Create(code string) (*Room, error) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if code == "" {
		for {
			c, err := newCode()
			if err != nil {
				return nil, fmt.Errorf("generating room code: %w", err)
			}
			if _, taken := reg.rooms[c]; !taken {
				code = c
				break
			}
		}
	} else {
		c, ok := NormalizeCode(code)
		if !ok {
			return nil, fmt.Errorf("%q: %w", code, ErrInvalidRoomCode)
		}
		if _, taken := reg.rooms[c]; taken {
			return nil, fmt.Errorf("%s: %w", c, ErrRoomExists)
		}
		code = c
	}

	room := NewRoom(reg.log, code, reg.opts)
	if b := reg.broadcaster; b != nil {
		room.BroadcastFn = func(ev GameEvent) { b.Broadcast(code, ev) }
		room.BroadcastToPlayerFn = func(id uuid.UUID, ev GameEvent) { b.SendTo(code, id, ev) }
	}
	room.OnGameEnd = func(code string, winner uuid.UUID, reason string) {
		reg.log.WithFields(logrus.Fields{"room": code, "winner": winner, "reason": reason}).Info("game finished")
	}
	reg.rooms[code] = room
	reg.log.WithField("room", code).Infof("room created (%d live)", len(reg.rooms))
	return room, nil
}

// Get looks a room up by code.
func (reg *Registry) Get(code string) (*Room, error) {
	c, ok := NormalizeCode(code)
	if !ok {
		return nil, fmt.Errorf("%q: %w", code, ErrInvalidRoomCode)
	}
	reg.mu.RLock()
	room, ok := reg.rooms[c]
	reg.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%s: %w", c, ErrRoomNotFound)
	}
	return room, nil
}

// Join adds p to the room with the given code.
func (reg *Registry) Join(code string, p *models.Player) (*Room, error) {
	room, err := reg.Get(code)
	if err != nil {
		return nil, err
	}
	if err := room.Join(p); err != nil {
		return nil, fmt.Errorf("%s: %w", room.Code, err)
	}
	return room, nil
}

// Leave removes the player from the room and drops the room once no connected
// humans remain.
func (reg *Registry) Leave(code string, playerID uuid.UUID) error {
	room, err := reg.Get(code)
	if err != nil {
		return err
	}
	empty, err := room.Leave(playerID)
	if empty {
		reg.Remove(room.Code)
	}
	return err
}

// Remove closes and forgets a room. Unknown codes are ignored.
func (reg *Registry) Remove(code string) {
	reg.mu.Lock()
	room, ok := reg.rooms[code]
	delete(reg.rooms, code)
	n := len(reg.rooms)
	reg.mu.Unlock()
	if !ok {
		return
	}
	room.Close()
	reg.log.WithField("room", code).Infof("room removed (%d live)", n)
}

// Len returns the number of live rooms.
func (reg *Registry) Len() int {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return len(reg.rooms)
}

// Close shuts every room down.
func (reg *Registry) Close() {
	reg.mu.Lock()
	rooms := reg.rooms
	reg.rooms = make(map[string]*Room)
	reg.mu.Unlock()
	for _, room := range rooms {
		room.Close()
	}
}

// NormalizeCode upper-cases a client supplied code and checks its shape.
func NormalizeCode(code string) (string, bool) {
	c := strings.ToUpper(strings.TrimSpace(code))
	if len(c) < minCodeLen || len(c) > maxCodeLen {
		return "", false
	}
	for _, r := range c {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return "", false
		}
	}
	return c, true
}

func newCode() (string, error) {
	var b [codeLen]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	out := make([]byte, codeLen)
	for i, v := range b {
		out[i] = codeAlphabet[v&31]
	}
	return string(out), nil
}
