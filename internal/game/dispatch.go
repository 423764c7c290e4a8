// internal/game/dispatch.go
package game

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	engine "github.com/smackdown/crazy8/engine"
	"github.com/smackdown/crazy8/engine/agent"
	"github.com/sirupsen/logrus"
)

// ActionKind names an in-game player action.
type ActionKind string

const (
	ActionPlayCard ActionKind = "play_card"
	ActionDrawCard ActionKind = "draw_card"
	ActionPassTurn ActionKind = "pass_turn"
)

// Action is one inbound turn action. Seq must equal the room's current Seq or
// the action is dropped. Suit is only read for an ace.
type Action struct {
	Kind ActionKind
	Seq  int
	Card engine.Card
	Suit engine.Suit
}

// HandleAction applies a play, draw or pass from playerID. Rule violations are
// reported privately to the player and returned; stale sequence numbers are
// dropped without a reply.
func (r *Room) HandleAction(playerID uuid.UUID, a Action) error {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	return r.handleAction(playerID, a)
}

// handleAction assumes the lock is held.
func (r *Room) handleAction(playerID uuid.UUID, a Action) error {
	if r.closed {
		return ErrRoomClosed
	}
	// Once a game has been dealt, redeliveries are dropped even after it ends.
	if r.Engine != nil && a.Seq != r.Seq {
		r.log.WithFields(logrus.Fields{"player": playerID, "seq": a.Seq, "want": r.Seq}).
			Debugf("dropping stale %s", a.Kind)
		return nil
	}
	if r.Phase != PhaseInProgress {
		r.reject(playerID, ErrWrongPhase)
		return ErrWrongPhase
	}
	seat := r.playerIndex(playerID)
	if seat < 0 {
		return ErrNotInRoom
	}

	var err error
	switch a.Kind {
	case ActionPlayCard:
		err = r.play(seat, a.Card, a.Suit)
	case ActionDrawCard:
		err = r.draw(seat)
	case ActionPassTurn:
		err = r.pass(seat)
	default:
		err = fmt.Errorf("%q: %w", a.Kind, ErrUnknownAction)
	}
	if err == nil {
		return nil
	}
	if errors.Is(err, engine.ErrDeckExhausted) {
		r.log.WithError(err).WithField("player", playerID).Error("deck exhausted")
		r.finish(ReasonDeckExhausted)
		return nil
	}
	r.log.WithError(err).WithField("player", playerID).Debugf("rejected %s", a.Kind)
	r.reject(playerID, err)
	return err
}

func (r *Room) play(seat int, card engine.Card, suit engine.Suit) error {
	res, err := r.Engine.ApplyPlay(seat, card, suit)
	if err != nil {
		return err
	}
	r.Seq++
	p := r.Players[seat]
	r.logAction(p.ID, string(EventCardPlayed), map[string]interface{}{"card": card.Name(), "suit": suitName(res)})

	played := GameEvent{Type: EventCardPlayed, User: eventUser(p), Card: toEventCard(card)}
	if res.Effects.SuitOverride != nil {
		played.Payload = map[string]interface{}{"suit": res.Effects.SuitOverride.String()}
	}
	r.fireEvent(played)

	if res.HandEmptied {
		r.fireEvent(GameEvent{
			Type:    EventCountdownUpdated,
			User:    eventUser(p),
			Payload: map[string]interface{}{"countdown": res.Countdown},
		})
		if res.GameOver {
			r.broadcastHandCounts()
			r.finish(ReasonCountdownZero)
			return nil
		}
		r.fireEventToPlayer(p.ID, GameEvent{
			Type:    EventPrivateCardsDrawn,
			Cards:   toEventCards(res.Refill),
			Payload: map[string]interface{}{"reason": "refill"},
		})
	}

	r.fireEffectEvents(seat, res)
	r.fireEvent(GameEvent{Type: EventCardInPlayUpdated, Card: currentToEventCard(r.Engine.InPlay)})
	r.broadcastHandCounts()
	if res.Recycled {
		r.fireReshuffle()
	}
	r.startTurn()
	return nil
}

func (r *Room) draw(seat int) error {
	res, err := r.Engine.ApplyDraw(seat)
	if err != nil {
		return err
	}
	r.Seq++
	p := r.Players[seat]
	r.logAction(p.ID, string(EventCardDrawn), map[string]interface{}{"card": res.Card.Name(), "playable": res.Playable})

	if res.Recycled {
		r.fireReshuffle()
	}
	r.fireEvent(GameEvent{Type: EventCardDrawn, User: eventUser(p)})
	r.fireEventToPlayer(p.ID, GameEvent{Type: EventPrivateCardDrawn, Card: toEventCard(res.Card)})
	r.broadcastHandCounts()

	if res.Playable {
		r.fireEventToPlayer(p.ID, GameEvent{
			Type:    EventPrivateMayPlayDrawn,
			Card:    toEventCard(res.Card),
			Payload: map[string]interface{}{"seq": r.Seq},
		})
		r.stopBotTimer()
		r.scheduleBot()
		return nil
	}
	r.startTurn()
	return nil
}

func (r *Room) pass(seat int) error {
	if _, err := r.Engine.Pass(seat); err != nil {
		return err
	}
	r.Seq++
	p := r.Players[seat]
	r.logAction(p.ID, string(EventTurnPassed), nil)
	r.fireEvent(GameEvent{Type: EventTurnPassed, User: eventUser(p)})
	r.startTurn()
	return nil
}

// startTurn announces the current seat and schedules a bot if it is one.
// Assumes lock is held.
func (r *Room) startTurn() {
	r.stopBotTimer()
	if r.Phase != PhaseInProgress || r.Engine == nil {
		return
	}
	seat := r.Engine.CurrentSeat()
	if seat < 0 {
		return
	}
	p := r.Players[seat]
	r.fireEvent(GameEvent{
		Type: EventTurnStarted,
		User: eventUser(p),
		Payload: map[string]interface{}{
			"seq":       r.Seq,
			"turn":      r.Engine.TurnNumber,
			"direction": r.Engine.Direction.String(),
		},
	})
	r.scheduleBot()
}

func (r *Room) fireReshuffle() {
	r.fireEvent(GameEvent{Type: EventDeckReshuffled, Payload: map[string]interface{}{
		"drawPile": len(r.Engine.Deck.DrawPile),
	}})
}

// ---------------------------------------------------------------------------
// Bots
// ---------------------------------------------------------------------------

// scheduleBot arms the bot timer if the current seat is a bot. The callback
// re-checks Seq under the lock, so a superseded timer does nothing.
// Assumes lock is held.
func (r *Room) scheduleBot() {
	if r.closed || r.Phase != PhaseInProgress || r.Engine == nil {
		return
	}
	seat := r.Engine.CurrentSeat()
	if seat < 0 {
		return
	}
	p := r.Players[seat]
	if !p.IsBot {
		return
	}
	seq := r.Seq
	id := p.ID
	r.botTimer = time.AfterFunc(r.BotDelay, func() {
		r.Mu.Lock()
		defer r.Mu.Unlock()
		if r.closed || r.Phase != PhaseInProgress || r.Seq != seq {
			return
		}
		r.runBot(id)
	})
}

// runBot decides and applies the bot's move. Assumes lock is held.
func (r *Room) runBot(id uuid.UUID) {
	seat := r.playerIndex(id)
	if seat < 0 || seat != r.Engine.CurrentSeat() {
		return
	}
	d := agent.DecideFor(r.Engine, seat)
	a := Action{Seq: r.Seq, Card: d.Card, Suit: d.Suit}
	switch d.Kind {
	case agent.KindPlay:
		a.Kind = ActionPlayCard
	case agent.KindDraw:
		a.Kind = ActionDrawCard
	case agent.KindPass:
		a.Kind = ActionPassTurn
	}
	r.log.WithField("player", id).Debugf("bot %s %s", d.Kind, d.Card)
	if err := r.handleAction(id, a); err != nil {
		r.log.WithError(err).WithField("player", id).Warn("bot action rejected")
	}
}

func (r *Room) stopBotTimer() {
	if r.botTimer != nil {
		r.botTimer.Stop()
		r.botTimer = nil
	}
}

// BotPending reports whether a bot move is scheduled.
func (r *Room) BotPending() bool {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	return r.botTimer != nil
}

func suitName(res engine.PlayResult) string {
	if res.Effects.SuitOverride == nil {
		return ""
	}
	return res.Effects.SuitOverride.String()
}
