// internal/models/player.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Player is the identity and lobby side of a seat. Hands and countdown scores
// live in the engine; Room.Players[i] owns engine seat i once a game starts.
type Player struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Cosmetic string    `json:"cosmetic,omitempty"` // client-side card back / avatar key

	Ready     bool `json:"ready"`
	Confirmed bool `json:"confirmed"`
	IsBot     bool `json:"isBot"`
	Connected bool `json:"connected"`

	JoinedAt time.Time `json:"joinedAt"`
}

// NewPlayer returns a connected human player with a fresh ID.
func NewPlayer(name, cosmetic string) *Player {
	return &Player{
		ID:        uuid.New(),
		Name:      name,
		Cosmetic:  cosmetic,
		Connected: true,
		JoinedAt:  time.Now(),
	}
}

// NewBot returns a bot player. Bots are always ready and never disconnect.
func NewBot(name string) *Player {
	p := NewPlayer(name, "bot")
	p.IsBot = true
	p.Ready = true
	return p
}
