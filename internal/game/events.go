// internal/game/events.go
package game

import (
	"github.com/google/uuid"
	engine "github.com/smackdown/crazy8/engine"
)

// GameEventType names a room event sent to clients.
type GameEventType string

// Events prefixed "private_" go to a single player; the rest go to the room.
const (
	EventRosterSnapshot        GameEventType = "roster_snapshot"         // Private: players already in the room, sent on join.
	EventPlayerJoined          GameEventType = "player_joined"           // Public
	EventPlayerReady           GameEventType = "player_ready"            // Public
	EventCountdownStarted      GameEventType = "countdown_started"       // Public: everyone is ready, waiting for confirmations.
	EventPlayerConfirmed       GameEventType = "player_confirmed"        // Public
	EventGameStarted           GameEventType = "game_started"            // Public: includes the shuffled turn order.
	EventPrivateHandDealt      GameEventType = "private_hand_dealt"      // Private: the player's opening hand.
	EventFirstCardInPlay       GameEventType = "first_card_in_play"      // Public
	EventTurnStarted           GameEventType = "turn_started"            // Public: whose turn, and the sequence number to act with.
	EventCardPlayed            GameEventType = "card_played"             // Public
	EventHandCountUpdated      GameEventType = "hand_count_updated"      // Public: card counts for every player.
	EventCardInPlayUpdated     GameEventType = "card_in_play_updated"    // Public: literal card or ace wildcard.
	EventSkip                  GameEventType = "skip"                    // Public
	EventReverse               GameEventType = "reverse"                 // Public
	EventForcedDraw            GameEventType = "forced_draw"             // Public: who draws how many (no faces).
	EventPrivateCardsDrawn     GameEventType = "private_cards_drawn"     // Private: faces of forced or refill cards.
	EventCardDrawn             GameEventType = "card_drawn"              // Public: a voluntary draw (no face).
	EventPrivateCardDrawn      GameEventType = "private_card_drawn"      // Private: face of the voluntary draw.
	EventPrivateMayPlayDrawn   GameEventType = "private_may_play_drawn"  // Private: the drawn card is playable; play it or pass.
	EventTurnPassed            GameEventType = "turn_passed"             // Public
	EventDeckReshuffled        GameEventType = "deck_reshuffled"         // Public
	EventCountdownUpdated      GameEventType = "countdown_updated"       // Public: a hand emptied.
	EventGameOver              GameEventType = "game_over"               // Public: reason, winner, standings.
	EventPlayerLeft            GameEventType = "player_left"             // Public
	EventChatMessage           GameEventType = "chat_message"            // Public
	EventPrivateActionRejected GameEventType = "private_action_rejected" // Private: why an action was refused.
	EventStateSync             GameEventType = "private_state_sync"      // Private: full obfuscated room state.
)

// EventUser identifies a player within a GameEvent.
type EventUser struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name,omitempty"`
}

// EventCard is the wire form of a card. A wildcard set by an ace has Wild set,
// a Suit and no Rank.
type EventCard struct {
	Rank string `json:"rank,omitempty"`
	Suit string `json:"suit"`
	Name string `json:"name,omitempty"`
	Wild bool   `json:"wild,omitempty"`
}

// GameEvent is the standard structure for broadcasting room state changes.
type GameEvent struct {
	Type  GameEventType `json:"type"`
	User  *EventUser    `json:"user,omitempty"`  // The player acting or affected.
	Card  *EventCard    `json:"card,omitempty"`  // Primary card involved.
	Cards []EventCard   `json:"cards,omitempty"` // Several cards (private draws, hands).

	Payload map[string]interface{} `json:"payload,omitempty"`

	State *ObfRoomState `json:"state,omitempty"`
}

func toEventCard(c engine.Card) *EventCard {
	return &EventCard{Rank: c.Rank().String(), Suit: c.Suit().String(), Name: c.Name()}
}

func toEventCards(cards []engine.Card) []EventCard {
	out := make([]EventCard, len(cards))
	for i, c := range cards {
		out[i] = *toEventCard(c)
	}
	return out
}

func currentToEventCard(cc engine.CurrentCard) *EventCard {
	if cc.Wild {
		return &EventCard{Suit: cc.Suit().String(), Wild: true}
	}
	if cc.Card == engine.EmptyCard {
		return nil
	}
	return toEventCard(cc.Card)
}

// ParseEventCard is the inverse of the wire form for inbound plays.
func ParseEventCard(ec EventCard) (engine.Card, error) {
	s, err := engine.ParseSuit(ec.Suit)
	if err != nil {
		return engine.EmptyCard, err
	}
	r, err := engine.ParseRank(ec.Rank)
	if err != nil {
		return engine.EmptyCard, err
	}
	return engine.NewCard(s, r), nil
}
