package engine

import "fmt"

// ForcedResult records the cards a seat was made to draw by an effect.
type ForcedResult struct {
	Seat  int
	Cards []Card
}

// PlayResult describes everything a successful play changed.
type PlayResult struct {
	Seat    int
	Card    Card
	Effects EffectSet
	Forced  []ForcedResult
	Skipped int // seat that lost its turn, -1 if none
	// Reversed is true when the direction of play flipped.
	Reversed bool
	// HandEmptied is true when the card was the seat's last. Countdown is the
	// seat's new countdown score and Refill its freshly dealt hand (empty on a
	// win).
	HandEmptied bool
	Countdown   int
	Refill      []Card
	Recycled    bool
	GameOver    bool
	Winner      int
	NextSeat    int
}

// DrawResult describes a voluntary single-card draw.
type DrawResult struct {
	Seat     int
	Card     Card
	Playable bool // the seat keeps the turn and may play Card
	Recycled bool
	NextSeat int
}

func (g *GameState) checkTurn(seat int) error {
	if g.Over {
		return ErrGameOver
	}
	if seat < 0 || seat >= len(g.Seats) {
		return ErrBadSeat
	}
	if seat != g.TurnIndex {
		return ErrNotYourTurn
	}
	return nil
}

// ApplyPlay plays card from seat's hand. suit is the nominated suit for an ace
// and is ignored otherwise (pass NoSuit). The play is atomic: any error leaves
// the state exactly as it was.
func (g *GameState) ApplyPlay(seat int, card Card, suit Suit) (PlayResult, error) {
	if err := g.checkTurn(seat); err != nil {
		return PlayResult{}, err
	}
	if g.Drawn != nil && card != *g.Drawn {
		return PlayResult{}, ErrMustPlayDrawn
	}
	s := &g.Seats[seat]
	idx := indexOf(s.Hand, card)
	if idx < 0 {
		return PlayResult{}, ErrCardNotInHand
	}
	if !g.legalForSeat(card, s) {
		return PlayResult{}, fmt.Errorf("%s on %s: %w", card, g.InPlay, ErrIllegalMove)
	}
	if card.Rank() == RankAce && suit > SuitSpades {
		return PlayResult{}, ErrSuitRequired
	}

	snap := g.Save()
	res, err := g.play(seat, idx, card, suit)
	if err != nil {
		g.Restore(snap)
		return PlayResult{}, err
	}
	return res, nil
}

func (g *GameState) play(seat, idx int, card Card, suit Suit) (PlayResult, error) {
	res := PlayResult{Seat: seat, Card: card, Skipped: -1, Winner: -1}
	s := &g.Seats[seat]
	s.Hand = append(s.Hand[:idx], s.Hand[idx+1:]...)
	g.Deck.PlaceOnTop(card)
	g.Drawn = nil

	if len(s.Hand) == 0 {
		res.HandEmptied = true
		s.Countdown--
		res.Countdown = s.Countdown
		if s.Countdown <= 0 {
			g.InPlay = InPlay(card)
			g.Over = true
			g.Winner = seat
			res.GameOver = true
			res.Winner = seat
			res.NextSeat = -1
			return res, nil
		}
		cards, rec, err := g.Deck.Draw(s.Countdown)
		if err != nil {
			return res, fmt.Errorf("refill %d cards: %w", s.Countdown, err)
		}
		s.Hand = cards
		res.Refill = append([]Card(nil), cards...)
		res.Recycled = res.Recycled || rec
	}

	fx := Resolve(card, suit, len(g.Seats))
	res.Effects = fx
	if fx.DirectionFlip {
		g.FlipDirection()
		res.Reversed = true
	}
	for _, fd := range fx.ForcedDraws {
		target := g.offset(seat, fd.Offset)
		cards, rec, err := g.Deck.Draw(fd.Count)
		if err != nil {
			return res, fmt.Errorf("forced draw of %d: %w", fd.Count, err)
		}
		g.Seats[target].Hand = append(g.Seats[target].Hand, cards...)
		res.Forced = append(res.Forced, ForcedResult{Seat: target, Cards: cards})
		res.Recycled = res.Recycled || rec
	}
	if fx.SuitOverride != nil {
		g.InPlay = Wildcard(*fx.SuitOverride)
	} else {
		g.InPlay = InPlay(card)
	}

	next := g.Next(seat)
	if fx.SkipCount > 0 {
		res.Skipped = next
		next = g.Next(next)
	}
	g.advanceTo(next)
	res.NextSeat = next
	return res, nil
}

// ApplyDraw draws one card for seat. If the card is playable the seat keeps
// the turn and must either play that card or Pass. Otherwise the turn moves on.
func (g *GameState) ApplyDraw(seat int) (DrawResult, error) {
	if err := g.checkTurn(seat); err != nil {
		return DrawResult{}, err
	}
	if g.Drawn != nil {
		return DrawResult{}, ErrAlreadyDrew
	}
	cards, rec, err := g.Deck.Draw(1)
	if err != nil {
		return DrawResult{}, err
	}
	c := cards[0]
	s := &g.Seats[seat]
	s.Hand = append(s.Hand, c)
	res := DrawResult{Seat: seat, Card: c, Recycled: rec}
	if g.legalForSeat(c, s) {
		g.Drawn = &c
		res.Playable = true
		res.NextSeat = seat
		return res, nil
	}
	g.advanceTo(g.Next(seat))
	res.NextSeat = g.TurnIndex
	return res, nil
}

// Pass declines to play a freshly drawn card and ends the turn.
func (g *GameState) Pass(seat int) (next int, err error) {
	if err := g.checkTurn(seat); err != nil {
		return -1, err
	}
	if g.Drawn == nil {
		return -1, ErrNothingToPass
	}
	g.advanceTo(g.Next(seat))
	return g.TurnIndex, nil
}

func indexOf(hand []Card, c Card) int {
	for i, h := range hand {
		if h == c {
			return i
		}
	}
	return -1
}
