// internal/game/snapshot.go
package game

import (
	"github.com/google/uuid"
)

// ObfPlayerState is one player as seen by a particular viewer. Only the
// viewer's own entry carries card faces.
type ObfPlayerState struct {
	PlayerID      uuid.UUID `json:"playerId"`
	Name          string    `json:"name"`
	Cosmetic      string    `json:"cosmetic,omitempty"`
	IsBot         bool      `json:"isBot"`
	Ready         bool      `json:"ready"`
	Confirmed     bool      `json:"confirmed"`
	Connected     bool      `json:"connected"`
	HandSize      int       `json:"handSize"`
	Countdown     int       `json:"countdown"`
	IsCurrentTurn bool      `json:"isCurrentTurn"`
	// Hand is populated only for the viewer.
	Hand []EventCard `json:"hand,omitempty"`
	// Drawn is the viewer's pending playable draw, if any.
	Drawn *EventCard `json:"drawn,omitempty"`
}

// ObfRoomState is the room state tailored to one viewer, sent on request.
type ObfRoomState struct {
	RoomID          uuid.UUID        `json:"roomId"`
	Code            string           `json:"code"`
	Phase           Phase            `json:"phase"`
	Seq             int              `json:"seq"`
	TurnNumber      int              `json:"turnNumber"`
	CurrentPlayerID uuid.UUID        `json:"currentPlayerId,omitempty"`
	InPlay          *EventCard       `json:"inPlay,omitempty"`
	Direction       string           `json:"direction,omitempty"`
	DrawPileSize    int              `json:"drawPileSize"`
	Players         []ObfPlayerState `json:"players"`
}

// Snapshot returns the room as viewer sees it.
func (r *Room) Snapshot(viewer uuid.UUID) ObfRoomState {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	return r.snapshot(viewer)
}

// snapshot assumes the room lock is HELD by the caller.
func (r *Room) snapshot(viewer uuid.UUID) ObfRoomState {
	obf := ObfRoomState{
		RoomID: r.ID,
		Code:   r.Code,
		Phase:  r.Phase,
		Seq:    r.Seq,
	}
	g := r.Engine
	live := g != nil && r.Phase != PhaseLobby && r.Phase != PhaseCountdown
	if live {
		obf.TurnNumber = g.TurnNumber
		obf.InPlay = currentToEventCard(g.InPlay)
		obf.Direction = g.Direction.String()
		obf.DrawPileSize = len(g.Deck.DrawPile)
		if !g.Over && g.TurnIndex < len(r.Players) {
			obf.CurrentPlayerID = r.Players[g.TurnIndex].ID
		}
	}

	obf.Players = make([]ObfPlayerState, len(r.Players))
	for i, p := range r.Players {
		ps := ObfPlayerState{
			PlayerID:  p.ID,
			Name:      p.Name,
			Cosmetic:  p.Cosmetic,
			IsBot:     p.IsBot,
			Ready:     p.Ready,
			Confirmed: p.Confirmed,
			Connected: p.Connected,
		}
		if live && i < len(g.Seats) {
			seat := g.Seats[i]
			ps.HandSize = len(seat.Hand)
			ps.Countdown = seat.Countdown
			ps.IsCurrentTurn = p.ID == obf.CurrentPlayerID
			if p.ID == viewer {
				ps.Hand = toEventCards(seat.Hand)
				if g.Drawn != nil && i == g.TurnIndex {
					ps.Drawn = toEventCard(*g.Drawn)
				}
			}
		}
		obf.Players[i] = ps
	}
	return obf
}

// SyncState sends the viewer a private snapshot event.
func (r *Room) SyncState(viewer uuid.UUID) error {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	if r.getPlayerByID(viewer) == nil {
		return ErrNotInRoom
	}
	st := r.snapshot(viewer)
	r.fireEventToPlayer(viewer, GameEvent{Type: EventStateSync, State: &st})
	return nil
}
