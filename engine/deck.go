package engine

// DeckSize is the number of cards in circulation for the whole game.
const DeckSize = 52

// Rand is an inline xorshift64 generator. Deck and turn-order shuffles do not
// need cryptographic strength, only uniformity and speed.
type Rand struct {
	state uint64
}

// NewRand seeds a generator. xorshift can't start at 0, so 0 becomes 1.
func NewRand(seed uint64) Rand {
	if seed == 0 {
		seed = 1
	}
	return Rand{state: seed}
}

func (r *Rand) next() uint64 {
	x := r.state
	x ^= x << 13
	x ^= x >> 7
	x ^= x << 17
	r.state = x
	return x
}

// Intn returns a number in [0, n).
func (r *Rand) Intn(n int) int {
	return int(r.next() % uint64(n))
}

// Build returns the canonical 52-card set.
func Build() []Card {
	cards := make([]Card, 0, DeckSize)
	for _, s := range Suits {
		for r := RankTwo; r <= RankAce; r++ {
			cards = append(cards, NewCard(s, r))
		}
	}
	return cards
}

// Shuffle permutes cards in place (Fisher-Yates).
func Shuffle(cards []Card, rng *Rand) {
	for i := len(cards) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		cards[i], cards[j] = cards[j], cards[i]
	}
}

// Deck holds the face-down draw pile (next card first) and the face-up play
// pile (most recent first).
type Deck struct {
	DrawPile []Card
	PlayPile []Card
	Rand     Rand
}

// NewDeck builds and shuffles a full deck into the draw pile.
func NewDeck(seed uint64) Deck {
	d := Deck{DrawPile: Build(), Rand: NewRand(seed)}
	Shuffle(d.DrawPile, &d.Rand)
	return d
}

// Top returns the top of the play pile, or EmptyCard.
func (d *Deck) Top() Card {
	if len(d.PlayPile) == 0 {
		return EmptyCard
	}
	return d.PlayPile[0]
}

// Available returns how many cards a draw can reach, counting what a recycle
// would bring back.
func (d *Deck) Available() int {
	n := len(d.DrawPile)
	if len(d.PlayPile) > 1 {
		n += len(d.PlayPile) - 1
	}
	return n
}

// Draw removes n cards from the front of the draw pile, recycling the play pile
// when the draw pile runs out. It is all-or-nothing: if fewer than n cards are
// reachable it returns ErrDeckExhausted and leaves the deck untouched.
// recycled reports whether a reshuffle happened.
func (d *Deck) Draw(n int) (cards []Card, recycled bool, err error) {
	if n <= 0 {
		return nil, false, nil
	}
	if d.Available() < n {
		return nil, false, ErrDeckExhausted
	}
	cards = make([]Card, 0, n)
	for len(cards) < n {
		if len(d.DrawPile) == 0 {
			d.recycle()
			recycled = true
		}
		cards = append(cards, d.DrawPile[0])
		d.DrawPile = d.DrawPile[1:]
	}
	return cards, recycled, nil
}

// PlaceOnTop puts c face up as the new top of the play pile.
func (d *Deck) PlaceOnTop(c Card) {
	d.PlayPile = append([]Card{c}, d.PlayPile...)
}

// Bury slides cards under the current top of the play pile, where the next
// recycle picks them up.
func (d *Deck) Bury(cards []Card) {
	d.PlayPile = append(d.PlayPile, cards...)
}

// recycle turns everything but the top of the play pile into a freshly
// shuffled draw pile.
func (d *Deck) recycle() {
	if len(d.PlayPile) <= 1 {
		return
	}
	rest := make([]Card, len(d.PlayPile)-1)
	copy(rest, d.PlayPile[1:])
	d.PlayPile = d.PlayPile[:1]
	Shuffle(rest, &d.Rand)
	d.DrawPile = append(d.DrawPile, rest...)
}

// Count returns the cards held by the deck (both piles).
func (d *Deck) Count() int { return len(d.DrawPile) + len(d.PlayPile) }

func (d Deck) clone() Deck {
	return Deck{
		DrawPile: append([]Card(nil), d.DrawPile...),
		PlayPile: append([]Card(nil), d.PlayPile...),
		Rand:     d.Rand,
	}
}
