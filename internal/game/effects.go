// internal/game/effects.go
package game

import (
	engine "github.com/smackdown/crazy8/engine"
)

// fireEffectEvents announces what a play did to the flow of the game: reverse,
// forced draws (public counts plus private faces to the drawer), then skip.
// This function assumes the room lock is HELD by the caller.
func (r *Room) fireEffectEvents(seat int, res engine.PlayResult) {
	actor := r.Players[seat]

	if res.Reversed {
		r.fireEvent(GameEvent{
			Type:    EventReverse,
			User:    eventUser(actor),
			Payload: map[string]interface{}{"direction": r.Engine.Direction.String()},
		})
	}

	for _, fr := range res.Forced {
		target := r.Players[fr.Seat]
		r.fireEvent(GameEvent{
			Type: EventForcedDraw,
			User: eventUser(target),
			Payload: map[string]interface{}{
				"count": len(fr.Cards),
				"by":    actor.ID.String(),
			},
		})
		r.fireEventToPlayer(target.ID, GameEvent{
			Type:    EventPrivateCardsDrawn,
			Cards:   toEventCards(fr.Cards),
			Payload: map[string]interface{}{"reason": "forced"},
		})
		r.logAction(target.ID, string(EventForcedDraw), map[string]interface{}{"count": len(fr.Cards)})
	}

	if res.Skipped >= 0 {
		r.fireEvent(GameEvent{Type: EventSkip, User: eventUser(r.Players[res.Skipped])})
	}
}
