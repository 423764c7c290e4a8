// Package agent implements the computer player: a deterministic, greedy
// policy over the legal plays.
package agent

import engine "github.com/smackdown/crazy8/engine"

// Kind is what the bot wants to do with its turn.
type Kind uint8

const (
	KindPlay Kind = iota
	KindDraw
	KindPass
)

func (k Kind) String() string {
	switch k {
	case KindPlay:
		return "play"
	case KindDraw:
		return "draw"
	case KindPass:
		return "pass"
	}
	return "?"
}

// Action is a bot decision. Card and Suit are only set for KindPlay; Suit is
// engine.NoSuit unless Card is an ace.
type Action struct {
	Kind Kind
	Card engine.Card
	Suit engine.Suit
}

// priority lists the ranks the bot gets rid of first. Anything else comes
// after, in hand order.
var priority = [...]engine.Rank{
	engine.RankTwo,
	engine.RankThree,
	engine.RankFour,
	engine.RankAce,
	engine.RankKing,
	engine.RankQueen,
	engine.RankJack,
}

// suitTieOrder breaks ties when nominating a suit.
var suitTieOrder = [...]engine.Suit{
	engine.SuitSpades,
	engine.SuitHearts,
	engine.SuitDiamonds,
	engine.SuitClubs,
}

// Decide picks a move for hand against inPlay using the plain legality rule.
func Decide(hand []engine.Card, inPlay engine.CurrentCard) Action {
	return choose(hand, engine.LegalCards(hand, inPlay), KindDraw)
}

// DecideAfterDraw handles the turn after a draw: the drawn card is played if
// the engine reported it playable, otherwise the bot passes.
func DecideAfterDraw(drawn engine.Card, hand []engine.Card, playable bool) Action {
	if !playable {
		return Action{Kind: KindPass, Card: engine.EmptyCard, Suit: engine.NoSuit}
	}
	return play(drawn, hand)
}

// DecideFor picks a move for seat in g, honoring the house rules and any
// pending drawn card.
func DecideFor(g *engine.GameState, seat int) Action {
	if seat < 0 || seat >= len(g.Seats) {
		return Action{Kind: KindDraw, Card: engine.EmptyCard, Suit: engine.NoSuit}
	}
	hand := g.Seats[seat].Hand
	if g.Drawn != nil && seat == g.CurrentSeat() {
		return DecideAfterDraw(*g.Drawn, hand, len(g.LegalFor(seat)) > 0)
	}
	return choose(hand, g.LegalFor(seat), KindDraw)
}

func choose(hand, legal []engine.Card, fallback Kind) Action {
	if len(legal) == 0 {
		return Action{Kind: fallback, Card: engine.EmptyCard, Suit: engine.NoSuit}
	}
	for _, r := range priority {
		for _, c := range legal {
			if c.Rank() == r {
				return play(c, hand)
			}
		}
	}
	return play(legal[0], hand)
}

func play(c engine.Card, hand []engine.Card) Action {
	a := Action{Kind: KindPlay, Card: c, Suit: engine.NoSuit}
	if c.Rank() == engine.RankAce {
		a.Suit = NominateSuit(without(hand, c))
	}
	return a
}

// NominateSuit returns the most common suit in hand. Ties go spades, hearts,
// diamonds, clubs; an empty hand nominates spades.
func NominateSuit(hand []engine.Card) engine.Suit {
	var counts [4]int
	for _, c := range hand {
		if c.Suit() <= engine.SuitSpades {
			counts[c.Suit()]++
		}
	}
	best := suitTieOrder[0]
	for _, s := range suitTieOrder[1:] {
		if counts[s] > counts[best] {
			best = s
		}
	}
	return best
}

// without returns hand minus the first copy of c.
func without(hand []engine.Card, c engine.Card) []engine.Card {
	out := make([]engine.Card, 0, len(hand))
	removed := false
	for _, h := range hand {
		if !removed && h == c {
			removed = true
			continue
		}
		out = append(out, h)
	}
	return out
}
