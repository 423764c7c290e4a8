package engine

// ForcedDraw makes the seat at Offset (relative to the player who just played,
// +1 next, -1 previous, in the current direction of play) draw Count cards.
type ForcedDraw struct {
	Offset int
	Count  int
}

// EffectSet is everything a played card does to the flow of the game.
type EffectSet struct {
	SuitOverride  *Suit // set by an ace: the card in play becomes this suit's wildcard
	DirectionFlip bool
	SkipCount     int // 0 or 1
	ForcedDraws   []ForcedDraw
}

// Resolve maps a played card to its effects. suit is the nominated suit and
// only matters for an ace. numPlayers gates the king direction flip, which is
// meaningless with two players.
func Resolve(card Card, suit Suit, numPlayers int) EffectSet {
	var fx EffectSet
	switch card.Rank() {
	case RankTwo:
		fx.ForcedDraws = []ForcedDraw{{Offset: 1, Count: 2}}
	case RankThree:
		fx.ForcedDraws = []ForcedDraw{{Offset: 1, Count: 3}}
	case RankFour:
		fx.SkipCount = 1
	case RankKing:
		switch card.Suit() {
		case SuitHearts:
			fx.ForcedDraws = []ForcedDraw{{Offset: 1, Count: 5}}
		case SuitSpades:
			fx.ForcedDraws = []ForcedDraw{{Offset: -1, Count: 5}}
		default:
			fx.DirectionFlip = numPlayers >= 3
		}
	case RankAce:
		s := suit
		fx.SuitOverride = &s
	}
	return fx
}

// AlwaysWild reports whether a card can be played on anything.
func AlwaysWild(c Card) bool {
	switch c.Rank() {
	case RankQueen, RankJack, RankAce:
		return true
	}
	return false
}
