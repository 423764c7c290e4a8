package agent

import (
	"testing"

	engine "github.com/smackdown/crazy8/engine"
)

func card(s engine.Suit, r engine.Rank) engine.Card { return engine.NewCard(s, r) }

// TestDecidePrefersTwoOverAce: a 2 of clubs outranks an ace of spades in the
// bot's priority list.
func TestDecidePrefersTwoOverAce(t *testing.T) {
	hand := []engine.Card{
		card(engine.SuitSpades, engine.RankAce),
		card(engine.SuitClubs, engine.RankTwo),
		card(engine.SuitHearts, engine.RankNine),
	}
	inPlay := engine.InPlay(card(engine.SuitClubs, engine.RankSeven))

	a := Decide(hand, inPlay)
	if a.Kind != KindPlay {
		t.Fatalf("Kind = %s, want play", a.Kind)
	}
	if a.Card != card(engine.SuitClubs, engine.RankTwo) {
		t.Errorf("Card = %s, want 2 of clubs", a.Card)
	}
	if a.Suit != engine.NoSuit {
		t.Errorf("Suit = %v, want NoSuit", a.Suit)
	}
}

func TestDecidePriorityOrder(t *testing.T) {
	inPlay := engine.InPlay(card(engine.SuitHearts, engine.RankSix))
	tests := []struct {
		name string
		hand []engine.Card
		want engine.Card
	}{
		{
			name: "three before four",
			hand: []engine.Card{card(engine.SuitHearts, engine.RankFour), card(engine.SuitHearts, engine.RankThree)},
			want: card(engine.SuitHearts, engine.RankThree),
		},
		{
			name: "king before queen",
			hand: []engine.Card{card(engine.SuitClubs, engine.RankQueen), card(engine.SuitHearts, engine.RankKing)},
			want: card(engine.SuitHearts, engine.RankKing),
		},
		{
			name: "queen before jack",
			hand: []engine.Card{card(engine.SuitClubs, engine.RankJack), card(engine.SuitClubs, engine.RankQueen)},
			want: card(engine.SuitClubs, engine.RankQueen),
		},
		{
			name: "plain cards in hand order",
			hand: []engine.Card{card(engine.SuitHearts, engine.RankNine), card(engine.SuitDiamonds, engine.RankSix)},
			want: card(engine.SuitHearts, engine.RankNine),
		},
		{
			name: "illegal priority card ignored",
			hand: []engine.Card{card(engine.SuitClubs, engine.RankTwo), card(engine.SuitHearts, engine.RankTen)},
			want: card(engine.SuitHearts, engine.RankTen),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Decide(tt.hand, inPlay)
			if a.Kind != KindPlay || a.Card != tt.want {
				t.Errorf("Decide = %s %s, want play %s", a.Kind, a.Card, tt.want)
			}
		})
	}
}

func TestDecideDrawsWithoutLegalCard(t *testing.T) {
	hand := []engine.Card{card(engine.SuitClubs, engine.RankFive), card(engine.SuitDiamonds, engine.RankNine)}
	a := Decide(hand, engine.InPlay(card(engine.SuitHearts, engine.RankSix)))
	if a.Kind != KindDraw {
		t.Errorf("Kind = %s, want draw", a.Kind)
	}
}

func TestAceNominatesMostCommonRemainingSuit(t *testing.T) {
	hand := []engine.Card{
		card(engine.SuitSpades, engine.RankAce),
		card(engine.SuitDiamonds, engine.RankFive),
		card(engine.SuitDiamonds, engine.RankNine),
		card(engine.SuitClubs, engine.RankSix),
	}
	a := Decide(hand, engine.InPlay(card(engine.SuitHearts, engine.RankTen)))
	if a.Card.Rank() != engine.RankAce {
		t.Fatalf("Card = %s, want the ace", a.Card)
	}
	if a.Suit != engine.SuitDiamonds {
		t.Errorf("Suit = %s, want diamonds", a.Suit)
	}
}

func TestNominateSuitTies(t *testing.T) {
	tests := []struct {
		name string
		hand []engine.Card
		want engine.Suit
	}{
		{"empty hand", nil, engine.SuitSpades},
		{"hearts beats diamonds", []engine.Card{card(engine.SuitDiamonds, engine.RankTwo), card(engine.SuitHearts, engine.RankTwo)}, engine.SuitHearts},
		{"diamonds beats clubs", []engine.Card{card(engine.SuitClubs, engine.RankTwo), card(engine.SuitDiamonds, engine.RankTwo)}, engine.SuitDiamonds},
		{"spades beats all", []engine.Card{card(engine.SuitClubs, engine.RankTwo), card(engine.SuitSpades, engine.RankTwo)}, engine.SuitSpades},
		{"count wins over order", []engine.Card{card(engine.SuitClubs, engine.RankTwo), card(engine.SuitClubs, engine.RankThree), card(engine.SuitSpades, engine.RankTwo)}, engine.SuitClubs},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NominateSuit(tt.hand); got != tt.want {
				t.Errorf("NominateSuit = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestDecideAfterDraw(t *testing.T) {
	inPlay := engine.InPlay(card(engine.SuitHearts, engine.RankSix))
	drawn := card(engine.SuitHearts, engine.RankNine)
	hand := []engine.Card{card(engine.SuitHearts, engine.RankTwo), drawn}

	a := DecideAfterDraw(drawn, hand, engine.IsLegal(drawn, inPlay))
	if a.Kind != KindPlay || a.Card != drawn {
		t.Errorf("DecideAfterDraw = %s %s, want play %s", a.Kind, a.Card, drawn)
	}

	dead := card(engine.SuitClubs, engine.RankNine)
	if a := DecideAfterDraw(dead, hand, engine.IsLegal(dead, inPlay)); a.Kind != KindPass {
		t.Errorf("Kind = %s, want pass", a.Kind)
	}
}

// TestDecideForPendingDraw: with a drawn card pending only that card counts,
// even if the hand holds a better one.
func TestDecideForPendingDraw(t *testing.T) {
	g, err := engine.NewGame(7, engine.DefaultHouseRules(), 2)
	if err != nil {
		t.Fatal(err)
	}
	drawn := card(engine.SuitHearts, engine.RankNine)
	g.Seats[0].Hand = []engine.Card{card(engine.SuitHearts, engine.RankTwo), drawn}
	g.InPlay = engine.InPlay(card(engine.SuitHearts, engine.RankSix))
	g.Drawn = &drawn

	a := DecideFor(&g, 0)
	if a.Kind != KindPlay || a.Card != drawn {
		t.Errorf("DecideFor = %s %s, want play %s", a.Kind, a.Card, drawn)
	}

	g.InPlay = engine.InPlay(card(engine.SuitClubs, engine.RankSix))
	g.Seats[0].Hand = []engine.Card{card(engine.SuitClubs, engine.RankTwo), drawn}
	if a := DecideFor(&g, 0); a.Kind != KindPass {
		t.Errorf("Kind = %s, want pass", a.Kind)
	}
}

// TestDecideForPendingDrawCountdownWild: a drawn card that is only playable
// through the countdown rule is still played.
func TestDecideForPendingDrawCountdownWild(t *testing.T) {
	rules := engine.DefaultHouseRules()
	rules.CountdownWild = true
	g, err := engine.NewGame(7, rules, 2)
	if err != nil {
		t.Fatal(err)
	}
	drawn := card(engine.SuitClubs, engine.RankFive)
	g.TurnIndex = 0
	g.Seats[0].Countdown = 5
	g.Seats[0].Hand = []engine.Card{card(engine.SuitDiamonds, engine.RankTwo), drawn}
	g.InPlay = engine.InPlay(card(engine.SuitHearts, engine.RankSix))
	g.Drawn = &drawn

	if a := DecideFor(&g, 0); a.Kind != KindPlay || a.Card != drawn {
		t.Errorf("DecideFor = %s %s, want play %s", a.Kind, a.Card, drawn)
	}
}
