package engine

import (
	"fmt"
	"strings"
)

// Suit is packed into the upper 4 bits of Card.
type Suit uint8

const (
	SuitHearts   Suit = 0
	SuitDiamonds Suit = 1
	SuitClubs    Suit = 2
	SuitSpades   Suit = 3
)

// Suits lists the four suits in deck-building order.
var Suits = [4]Suit{SuitHearts, SuitDiamonds, SuitClubs, SuitSpades}

// Rank is packed into the lower 4 bits of Card.
type Rank uint8

const (
	RankTwo   Rank = 2
	RankThree Rank = 3
	RankFour  Rank = 4
	RankFive  Rank = 5
	RankSix   Rank = 6
	RankSeven Rank = 7
	RankEight Rank = 8
	RankNine  Rank = 9
	RankTen   Rank = 10
	RankJack  Rank = 11
	RankQueen Rank = 12
	RankKing  Rank = 13
	RankAce   Rank = 14
)

// Card is a packed uint8: upper 4 bits = suit, lower 4 bits = rank.
// Two cards are equal iff suit and rank match, so plain == works.
type Card uint8

// EmptyCard represents the absence of a card.
const EmptyCard Card = 0xFF

// NewCard constructs a Card from suit and rank.
func NewCard(suit Suit, rank Rank) Card {
	return Card((uint8(suit) << 4) | (uint8(rank) & 0x0F))
}

// Suit returns the suit bits (upper 4).
func (c Card) Suit() Suit { return Suit(uint8(c) >> 4) }

// Rank returns the rank bits (lower 4).
func (c Card) Rank() Rank { return Rank(uint8(c) & 0x0F) }

// Valid reports whether c is one of the 52 standard cards.
func (c Card) Valid() bool {
	return c != EmptyCard && c.Suit() <= SuitSpades && c.Rank() >= RankTwo && c.Rank() <= RankAce
}

// Name returns the display name, e.g. "queen of hearts".
func (c Card) Name() string {
	return c.Rank().String() + " of " + c.Suit().String()
}

func (c Card) String() string { return c.Name() }

func (s Suit) String() string {
	switch s {
	case SuitHearts:
		return "hearts"
	case SuitDiamonds:
		return "diamonds"
	case SuitClubs:
		return "clubs"
	case SuitSpades:
		return "spades"
	default:
		return "?"
	}
}

func (r Rank) String() string {
	switch r {
	case RankJack:
		return "jack"
	case RankQueen:
		return "queen"
	case RankKing:
		return "king"
	case RankAce:
		return "ace"
	}
	if r >= RankTwo && r <= RankTen {
		return fmt.Sprintf("%d", r)
	}
	return "?"
}

// ParseSuit accepts a suit name ("hearts") or its initial ("H"), case-insensitively.
func ParseSuit(s string) (Suit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "hearts", "h":
		return SuitHearts, nil
	case "diamonds", "d":
		return SuitDiamonds, nil
	case "clubs", "c":
		return SuitClubs, nil
	case "spades", "s":
		return SuitSpades, nil
	}
	return 0, fmt.Errorf("invalid suit %q", s)
}

// ParseRank accepts "2".."10", "jack"/"j", "queen"/"q", "king"/"k", "ace"/"a".
func ParseRank(s string) (Rank, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch v {
	case "jack", "j":
		return RankJack, nil
	case "queen", "q":
		return RankQueen, nil
	case "king", "k":
		return RankKing, nil
	case "ace", "a":
		return RankAce, nil
	}
	for r := RankTwo; r <= RankTen; r++ {
		if v == r.String() {
			return r, nil
		}
	}
	return 0, fmt.Errorf("invalid rank %q", s)
}

// CurrentCard is the card that plays are matched against. After an ace it is a
// wildcard: a suit with no rank.
type CurrentCard struct {
	Card Card
	Wild bool
	suit Suit
}

// InPlay wraps a literal card as the current card.
func InPlay(c Card) CurrentCard { return CurrentCard{Card: c} }

// Wildcard returns the synthetic current card established by an ace.
func Wildcard(s Suit) CurrentCard { return CurrentCard{Card: EmptyCard, Wild: true, suit: s} }

// Suit returns the suit to match, which for a wildcard is the nominated suit.
func (cc CurrentCard) Suit() Suit {
	if cc.Wild {
		return cc.suit
	}
	return cc.Card.Suit()
}

// Rank returns the rank to match and false for a wildcard.
func (cc CurrentCard) Rank() (Rank, bool) {
	if cc.Wild {
		return 0, false
	}
	return cc.Card.Rank(), true
}

func (cc CurrentCard) String() string {
	if cc.Wild {
		return "wild " + cc.suit.String()
	}
	return cc.Card.Name()
}
