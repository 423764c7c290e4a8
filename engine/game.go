// Package engine implements the Crazy Eights countdown rules.
//
// The engine is transport-free and single-threaded: callers serialize access
// (the service holds one lock per room). Everything here is deterministic for
// a given seed, which keeps rules, effects and bot choices unit-testable.
package engine

import "fmt"

// Direction of play around the table.
type Direction int8

const (
	Forward Direction = 1
	Reverse Direction = -1
)

func (d Direction) String() string {
	if d == Reverse {
		return "reverse"
	}
	return "forward"
}

// NoSuit marks an absent suit choice.
const NoSuit Suit = 0xFF

// Seat holds one player's hand and countdown score.
type Seat struct {
	Hand      []Card
	Countdown int
}

// GameState holds the complete, self-contained state of one game.
type GameState struct {
	Seats     []Seat
	Deck      Deck
	TurnIndex int
	Direction Direction
	InPlay    CurrentCard
	// Drawn is the card the current seat just drew and may still play.
	Drawn *Card
	// Order maps seat index to the caller's original player index; it is the
	// shuffled turn order fixed at game start.
	Order      []int
	TurnNumber int
	Over       bool
	Winner     int // -1 while nobody has won
	Rules      HouseRules
}

// NewGame builds and shuffles the deck and shuffles the turn order for
// numPlayers seats. Nothing is dealt yet.
func NewGame(seed uint64, rules HouseRules, numPlayers int) (GameState, error) {
	if !rules.numPlayersOK(numPlayers) {
		return GameState{}, fmt.Errorf("need %d-%d players, got %d", rules.MinPlayers, rules.MaxPlayers, numPlayers)
	}
	g := GameState{
		Seats:     make([]Seat, numPlayers),
		Deck:      NewDeck(seed),
		Direction: Forward,
		InPlay:    InPlay(EmptyCard),
		Winner:    -1,
		Rules:     rules,
	}
	g.Order = make([]int, numPlayers)
	for i := range g.Order {
		g.Order[i] = i
	}
	orderRNG := NewRand(seed ^ 0x9E3779B97F4A7C15)
	for i := numPlayers - 1; i > 0; i-- {
		j := orderRNG.Intn(i + 1)
		g.Order[i], g.Order[j] = g.Order[j], g.Order[i]
	}
	for i := range g.Seats {
		g.Seats[i].Countdown = int(rules.StartingCountdown)
	}
	return g, nil
}

// DealHands gives every seat HandSize cards, one card at a time in turn order.
func (g *GameState) DealHands() error {
	need := int(g.Rules.HandSize) * len(g.Seats)
	if len(g.Deck.DrawPile) < need {
		return fmt.Errorf("deal %d cards from %d: %w", need, len(g.Deck.DrawPile), ErrDeckExhausted)
	}
	for c := 0; c < int(g.Rules.HandSize); c++ {
		for p := range g.Seats {
			g.Seats[p].Hand = append(g.Seats[p].Hand, g.Deck.DrawPile[0])
			g.Deck.DrawPile = g.Deck.DrawPile[1:]
		}
	}
	return nil
}

// TurnUpFirst flips the next draw-pile card face up to seed the card in play.
func (g *GameState) TurnUpFirst() (Card, error) {
	if len(g.Deck.DrawPile) == 0 {
		return EmptyCard, ErrDeckExhausted
	}
	c := g.Deck.DrawPile[0]
	g.Deck.DrawPile = g.Deck.DrawPile[1:]
	g.Deck.PlaceOnTop(c)
	g.InPlay = InPlay(c)
	return c, nil
}

// Deal runs DealHands then TurnUpFirst.
func (g *GameState) Deal() (Card, error) {
	if err := g.DealHands(); err != nil {
		return EmptyCard, err
	}
	return g.TurnUpFirst()
}

// ---------------------------------------------------------------------------
// Turn order
// ---------------------------------------------------------------------------

// offset walks k steps from seat in the current direction, wrapping at both ends.
func (g *GameState) offset(seat, k int) int {
	n := len(g.Seats)
	if n == 0 {
		return 0
	}
	i := (seat + k*int(g.Direction)) % n
	if i < 0 {
		i += n
	}
	return i
}

// Next returns the seat after seat in the direction of play.
func (g *GameState) Next(seat int) int { return g.offset(seat, 1) }

// Previous returns the seat before seat in the direction of play.
func (g *GameState) Previous(seat int) int { return g.offset(seat, -1) }

// FlipDirection reverses the direction of play.
func (g *GameState) FlipDirection() { g.Direction = -g.Direction }

// CurrentSeat returns the seat that must act, or -1 once the game is over.
func (g *GameState) CurrentSeat() int {
	if g.Over {
		return -1
	}
	return g.TurnIndex
}

// advanceTo hands the turn to seat and clears any pending drawn card.
func (g *GameState) advanceTo(seat int) {
	g.TurnIndex = seat
	g.Drawn = nil
	g.TurnNumber++
}

// ---------------------------------------------------------------------------
// Seat removal
// ---------------------------------------------------------------------------

// RemoveSeat takes seat out of the game. Its hand goes under the top of the
// play pile and TurnIndex is re-clamped. If the seat held the turn, the turn
// passes to the next seat in the direction of play and turnMoved is true. When
// a single seat remains, it wins.
func (g *GameState) RemoveSeat(seat int) (turnMoved bool, err error) {
	if seat < 0 || seat >= len(g.Seats) {
		return false, ErrBadSeat
	}
	wasCurrent := seat == g.TurnIndex
	g.Deck.Bury(g.Seats[seat].Hand)
	g.Seats = append(g.Seats[:seat], g.Seats[seat+1:]...)
	g.Order = append(g.Order[:seat], g.Order[seat+1:]...)
	n := len(g.Seats)

	switch {
	case n == 0:
		g.TurnIndex = 0
	case seat < g.TurnIndex:
		g.TurnIndex--
	case wasCurrent:
		// Forward: the seat that slid into this index is next. Reverse: the
		// one before it.
		if g.Direction == Forward {
			g.TurnIndex = seat % n
		} else {
			g.TurnIndex = (seat - 1 + n) % n
		}
		g.Drawn = nil
		g.TurnNumber++
		turnMoved = true
	}
	if g.TurnIndex >= n && n > 0 {
		g.TurnIndex = 0
	}

	if n == 1 && !g.Over {
		g.Over = true
		g.Winner = 0
	}
	return turnMoved, nil
}

// ---------------------------------------------------------------------------
// Invariants and snapshots
// ---------------------------------------------------------------------------

// CardCount returns draw pile + play pile + every hand. It equals DeckSize for
// any dealt game.
func (g *GameState) CardCount() int {
	n := g.Deck.Count()
	for _, s := range g.Seats {
		n += len(s.Hand)
	}
	return n
}

// HandLen returns the number of cards in the given seat's hand.
func (g *GameState) HandLen(seat int) int {
	if seat < 0 || seat >= len(g.Seats) {
		return 0
	}
	return len(g.Seats[seat].Hand)
}

// Snapshot is a deep copy of GameState used to roll back a failed action.
type Snapshot GameState

// Save returns a snapshot of the current game state.
func (g *GameState) Save() Snapshot {
	c := *g
	c.Deck = g.Deck.clone()
	c.Seats = make([]Seat, len(g.Seats))
	for i, s := range g.Seats {
		c.Seats[i] = Seat{Hand: append([]Card(nil), s.Hand...), Countdown: s.Countdown}
	}
	c.Order = append([]int(nil), g.Order...)
	if g.Drawn != nil {
		d := *g.Drawn
		c.Drawn = &d
	}
	return Snapshot(c)
}

// Restore replaces the game state with the given snapshot.
func (g *GameState) Restore(s Snapshot) { *g = GameState(s) }
