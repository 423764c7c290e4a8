package engine

import (
	"errors"
	"testing"
)

// rigGame builds a game with fixed hands and a fixed top card. The remaining
// cards form the draw pile in canonical order, so forced draws are predictable.
func rigGame(t *testing.T, top Card, hands ...[]Card) *GameState {
	t.Helper()
	g, err := NewGame(1, DefaultHouseRules(), len(hands))
	if err != nil {
		t.Fatal(err)
	}
	used := map[Card]bool{top: true}
	for i, h := range hands {
		g.Seats[i].Hand = append([]Card(nil), h...)
		for _, c := range h {
			used[c] = true
		}
	}
	g.Deck.DrawPile = g.Deck.DrawPile[:0]
	for _, c := range Build() {
		if !used[c] {
			g.Deck.DrawPile = append(g.Deck.DrawPile, c)
		}
	}
	g.Deck.PlayPile = []Card{top}
	g.InPlay = InPlay(top)
	if g.CardCount() != DeckSize {
		t.Fatalf("rigged game holds %d cards", g.CardCount())
	}
	return &g
}

func c(s Suit, r Rank) Card { return NewCard(s, r) }

func TestApplyPlayRejections(t *testing.T) {
	g := rigGame(t, c(SuitHearts, RankSix),
		[]Card{c(SuitHearts, RankNine), c(SuitClubs, RankTen), c(SuitClubs, RankAce)},
		[]Card{c(SuitDiamonds, RankNine)},
	)
	before := g.Save()
	tests := []struct {
		name string
		seat int
		card Card
		suit Suit
		want error
	}{
		{"not your turn", 1, c(SuitDiamonds, RankNine), NoSuit, ErrNotYourTurn},
		{"not in hand", 0, c(SuitHearts, RankTwo), NoSuit, ErrCardNotInHand},
		{"illegal", 0, c(SuitClubs, RankTen), NoSuit, ErrIllegalMove},
		{"ace without suit", 0, c(SuitClubs, RankAce), NoSuit, ErrSuitRequired},
		{"bad seat", 5, c(SuitHearts, RankNine), NoSuit, ErrBadSeat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := g.ApplyPlay(tt.seat, tt.card, tt.suit)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if g.TurnIndex != before.TurnIndex || len(g.Seats[0].Hand) != 3 || g.Deck.Top() != c(SuitHearts, RankSix) {
				t.Error("rejected play mutated state")
			}
		})
	}
}

func TestApplyPlayPlain(t *testing.T) {
	g := rigGame(t, c(SuitHearts, RankSix),
		[]Card{c(SuitHearts, RankNine), c(SuitClubs, RankTen)},
		[]Card{c(SuitDiamonds, RankNine)},
	)
	res, err := g.ApplyPlay(0, c(SuitHearts, RankNine), NoSuit)
	if err != nil {
		t.Fatal(err)
	}
	if res.NextSeat != 1 || g.TurnIndex != 1 {
		t.Errorf("next = %d, turn = %d, want 1", res.NextSeat, g.TurnIndex)
	}
	if g.Deck.Top() != c(SuitHearts, RankNine) || g.InPlay.Card != c(SuitHearts, RankNine) {
		t.Errorf("top = %s, in play = %s", g.Deck.Top(), g.InPlay)
	}
	if len(g.Seats[0].Hand) != 1 {
		t.Errorf("hand size %d", len(g.Seats[0].Hand))
	}
	if g.CardCount() != DeckSize {
		t.Errorf("CardCount = %d", g.CardCount())
	}
}

func TestForcedDraws(t *testing.T) {
	filler := []Card{c(SuitDiamonds, RankNine)}
	tests := []struct {
		name   string
		card   Card
		target int
		count  int
	}{
		{"two", c(SuitHearts, RankTwo), 1, 2},
		{"three", c(SuitHearts, RankThree), 1, 3},
		{"king of hearts", c(SuitHearts, RankKing), 1, 5},
		{"king of spades hits previous", c(SuitSpades, RankKing), 2, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := rigGame(t, c(SuitHearts, RankSix),
				[]Card{tt.card, c(SuitClubs, RankTen)},
				filler,
				[]Card{c(SuitSpades, RankNine)},
			)
			if tt.card.Suit() == SuitSpades {
				g.InPlay = InPlay(c(SuitSpades, RankSix))
			}
			res, err := g.ApplyPlay(0, tt.card, NoSuit)
			if err != nil {
				t.Fatal(err)
			}
			if len(res.Forced) != 1 || res.Forced[0].Seat != tt.target || len(res.Forced[0].Cards) != tt.count {
				t.Fatalf("forced = %+v, want seat %d drawing %d", res.Forced, tt.target, tt.count)
			}
			if got := len(g.Seats[tt.target].Hand); got != 1+tt.count {
				t.Errorf("target hand = %d, want %d", got, 1+tt.count)
			}
			if g.TurnIndex != 1 {
				t.Errorf("turn = %d, want 1", g.TurnIndex)
			}
			if g.CardCount() != DeckSize {
				t.Errorf("CardCount = %d", g.CardCount())
			}
		})
	}
}

// TestFourSkips: with two players the skip hands the turn straight back.
func TestFourSkips(t *testing.T) {
	g := rigGame(t, c(SuitHearts, RankSix),
		[]Card{c(SuitHearts, RankFour), c(SuitClubs, RankTen)},
		[]Card{c(SuitDiamonds, RankNine)},
	)
	res, err := g.ApplyPlay(0, c(SuitHearts, RankFour), NoSuit)
	if err != nil {
		t.Fatal(err)
	}
	if res.Skipped != 1 || g.TurnIndex != 0 {
		t.Errorf("skipped = %d, turn = %d; want 1, 0", res.Skipped, g.TurnIndex)
	}

	g = rigGame(t, c(SuitHearts, RankSix),
		[]Card{c(SuitHearts, RankFour), c(SuitClubs, RankTen)},
		[]Card{c(SuitDiamonds, RankNine)},
		[]Card{c(SuitDiamonds, RankTen)},
	)
	if _, err := g.ApplyPlay(0, c(SuitHearts, RankFour), NoSuit); err != nil {
		t.Fatal(err)
	}
	if g.TurnIndex != 2 {
		t.Errorf("turn = %d, want 2", g.TurnIndex)
	}
}

func TestKingReverses(t *testing.T) {
	g := rigGame(t, c(SuitClubs, RankSix),
		[]Card{c(SuitClubs, RankKing), c(SuitClubs, RankTen)},
		[]Card{c(SuitDiamonds, RankNine)},
		[]Card{c(SuitDiamonds, RankTen)},
	)
	res, err := g.ApplyPlay(0, c(SuitClubs, RankKing), NoSuit)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Reversed || g.Direction != Reverse || g.TurnIndex != 2 {
		t.Errorf("reversed=%v dir=%s turn=%d, want true reverse 2", res.Reversed, g.Direction, g.TurnIndex)
	}

	g = rigGame(t, c(SuitClubs, RankSix),
		[]Card{c(SuitClubs, RankKing), c(SuitClubs, RankTen)},
		[]Card{c(SuitDiamonds, RankNine)},
	)
	res, _ = g.ApplyPlay(0, c(SuitClubs, RankKing), NoSuit)
	if res.Reversed || g.Direction != Forward {
		t.Error("king reversed a two-player game")
	}
}

func TestAceSetsWildcard(t *testing.T) {
	g := rigGame(t, c(SuitHearts, RankSix),
		[]Card{c(SuitSpades, RankAce), c(SuitClubs, RankTen)},
		[]Card{c(SuitDiamonds, RankNine), c(SuitSpades, RankSix)},
	)
	if _, err := g.ApplyPlay(0, c(SuitSpades, RankAce), SuitDiamonds); err != nil {
		t.Fatal(err)
	}
	if !g.InPlay.Wild || g.InPlay.Suit() != SuitDiamonds {
		t.Fatalf("in play = %s, want wild diamonds", g.InPlay)
	}
	if g.Deck.Top() != c(SuitSpades, RankAce) {
		t.Errorf("top = %s", g.Deck.Top())
	}
	if _, err := g.ApplyPlay(1, c(SuitSpades, RankSix), NoSuit); !errors.Is(err, ErrIllegalMove) {
		t.Errorf("six of spades on wild diamonds: err = %v", err)
	}
	if _, err := g.ApplyPlay(1, c(SuitDiamonds, RankNine), NoSuit); err != nil {
		t.Errorf("nine of diamonds on wild diamonds: %v", err)
	}
}

func TestEmptyHandRefills(t *testing.T) {
	g := rigGame(t, c(SuitHearts, RankSix),
		[]Card{c(SuitHearts, RankTwo)},
		[]Card{c(SuitDiamonds, RankNine)},
	)
	g.Seats[0].Countdown = 4
	res, err := g.ApplyPlay(0, c(SuitHearts, RankTwo), NoSuit)
	if err != nil {
		t.Fatal(err)
	}
	if !res.HandEmptied || res.Countdown != 3 || res.GameOver {
		t.Fatalf("emptied=%v countdown=%d over=%v", res.HandEmptied, res.Countdown, res.GameOver)
	}
	if len(res.Refill) != 3 || len(g.Seats[0].Hand) != 3 {
		t.Errorf("refill = %d, hand = %d, want 3", len(res.Refill), len(g.Seats[0].Hand))
	}
	// The two still applies after the refill.
	if len(g.Seats[1].Hand) != 3 {
		t.Errorf("next hand = %d, want 3", len(g.Seats[1].Hand))
	}
	if g.CardCount() != DeckSize {
		t.Errorf("CardCount = %d", g.CardCount())
	}
}

func TestCountdownZeroWins(t *testing.T) {
	g := rigGame(t, c(SuitHearts, RankSix),
		[]Card{c(SuitHearts, RankTwo)},
		[]Card{c(SuitDiamonds, RankNine)},
	)
	g.Seats[0].Countdown = 1
	res, err := g.ApplyPlay(0, c(SuitHearts, RankTwo), NoSuit)
	if err != nil {
		t.Fatal(err)
	}
	if !res.GameOver || res.Winner != 0 || !g.Over || g.Winner != 0 {
		t.Fatalf("over=%v winner=%d", g.Over, g.Winner)
	}
	if len(g.Seats[1].Hand) != 1 {
		t.Error("effects applied after the winning play")
	}
	if _, err := g.ApplyDraw(1); !errors.Is(err, ErrGameOver) {
		t.Errorf("draw after game over: err = %v", err)
	}
}

func TestDrawPlayable(t *testing.T) {
	g := rigGame(t, c(SuitHearts, RankSix),
		[]Card{c(SuitClubs, RankTen), c(SuitHearts, RankNine)},
		[]Card{c(SuitDiamonds, RankNine)},
	)
	// First card of the canonical draw pile is the two of hearts.
	res, err := g.ApplyDraw(0)
	if err != nil {
		t.Fatal(err)
	}
	if res.Card != c(SuitHearts, RankTwo) || !res.Playable || res.NextSeat != 0 {
		t.Fatalf("draw = %+v", res)
	}
	if _, err := g.ApplyDraw(0); !errors.Is(err, ErrAlreadyDrew) {
		t.Errorf("second draw: err = %v", err)
	}
	if _, err := g.ApplyPlay(0, c(SuitHearts, RankNine), NoSuit); !errors.Is(err, ErrMustPlayDrawn) {
		t.Errorf("other card: err = %v", err)
	}
	if _, err := g.ApplyPlay(0, c(SuitHearts, RankTwo), NoSuit); err != nil {
		t.Fatalf("play drawn: %v", err)
	}
	if g.Drawn != nil || g.TurnIndex != 1 {
		t.Errorf("drawn=%v turn=%d", g.Drawn, g.TurnIndex)
	}
}

func TestDrawThenPass(t *testing.T) {
	g := rigGame(t, c(SuitHearts, RankSix),
		[]Card{c(SuitClubs, RankTen)},
		[]Card{c(SuitDiamonds, RankNine)},
	)
	if _, err := g.Pass(0); !errors.Is(err, ErrNothingToPass) {
		t.Errorf("pass before draw: err = %v", err)
	}
	if _, err := g.ApplyDraw(0); err != nil {
		t.Fatal(err)
	}
	next, err := g.Pass(0)
	if err != nil {
		t.Fatal(err)
	}
	if next != 1 || g.Drawn != nil || len(g.Seats[0].Hand) != 2 {
		t.Errorf("next=%d drawn=%v hand=%d", next, g.Drawn, len(g.Seats[0].Hand))
	}
}

func TestDrawUnplayableAdvances(t *testing.T) {
	g := rigGame(t, c(SuitClubs, RankSix),
		[]Card{c(SuitDiamonds, RankTen)},
		[]Card{c(SuitDiamonds, RankNine)},
	)
	res, err := g.ApplyDraw(0)
	if err != nil {
		t.Fatal(err)
	}
	// Two of hearts on six of clubs.
	if res.Playable || res.NextSeat != 1 || g.TurnIndex != 1 {
		t.Errorf("draw = %+v turn = %d", res, g.TurnIndex)
	}
}

func TestForcedDrawExhaustionRestores(t *testing.T) {
	g := rigGame(t, c(SuitHearts, RankSix),
		[]Card{c(SuitHearts, RankKing), c(SuitClubs, RankTen)},
		[]Card{c(SuitDiamonds, RankNine)},
	)
	// Park most of the draw pile in seat 1's hand. Three draw-pile cards plus
	// the recyclable six of hearts leave four reachable.
	g.Seats[1].Hand = append(g.Seats[1].Hand, g.Deck.DrawPile[3:]...)
	g.Deck.DrawPile = g.Deck.DrawPile[:3]
	before := g.Save()

	_, err := g.ApplyPlay(0, c(SuitHearts, RankKing), NoSuit)
	if !errors.Is(err, ErrDeckExhausted) {
		t.Fatalf("err = %v, want ErrDeckExhausted", err)
	}
	if len(g.Seats[0].Hand) != len(before.Seats[0].Hand) || g.Deck.Top() != c(SuitHearts, RankSix) ||
		len(g.Deck.DrawPile) != 3 || g.TurnIndex != 0 {
		t.Error("failed play left partial mutations")
	}
}

// TestRandomPlayConservesCards drives many seeded games with a naive policy
// and checks the 52-card invariant after every action.
func TestRandomPlayConservesCards(t *testing.T) {
	for seed := uint64(1); seed <= 60; seed++ {
		n := 2 + int(seed%3)
		g, err := NewGame(seed, DefaultHouseRules(), n)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := g.Deal(); err != nil {
			t.Fatal(err)
		}
		for step := 0; step < 3000 && !g.Over; step++ {
			seat := g.TurnIndex
			legal := g.LegalFor(seat)
			switch {
			case len(legal) > 0:
				_, err = g.ApplyPlay(seat, legal[0], SuitHearts)
			case g.Drawn != nil:
				_, err = g.Pass(seat)
			default:
				_, err = g.ApplyDraw(seat)
			}
			if errors.Is(err, ErrDeckExhausted) {
				break
			}
			if err != nil {
				t.Fatalf("seed %d step %d: %v", seed, step, err)
			}
			if got := g.CardCount(); got != DeckSize {
				t.Fatalf("seed %d step %d: CardCount = %d", seed, step, got)
			}
		}
	}
}
