package engine

import "sort"

// Standing is one seat's final position.
type Standing struct {
	Seat      int
	Place     int // 1 = winner
	Countdown int
	HandSize  int
}

// Standings ranks every seat: the winner first, then lowest countdown, then
// fewest cards in hand, then seat order. A game without a winner (deck
// exhausted) is ranked by the same rules.
func (g *GameState) Standings() []Standing {
	out := make([]Standing, len(g.Seats))
	for i, s := range g.Seats {
		out[i] = Standing{Seat: i, Countdown: s.Countdown, HandSize: len(s.Hand)}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if (a.Seat == g.Winner) != (b.Seat == g.Winner) {
			return a.Seat == g.Winner
		}
		if a.Countdown != b.Countdown {
			return a.Countdown < b.Countdown
		}
		return a.HandSize < b.HandSize
	})
	for i := range out {
		out[i].Place = i + 1
	}
	return out
}
