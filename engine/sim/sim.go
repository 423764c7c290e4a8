// Package sim plays bot-only games end to end and checks the engine
// invariants after every action.
package sim

import (
	"errors"
	"fmt"
	"strings"

	engine "github.com/smackdown/crazy8/engine"
	"github.com/smackdown/crazy8/engine/agent"
)

// ActionRecord is one applied action, kept for failure reports.
type ActionRecord struct {
	Step   int
	Seat   int
	Action agent.Action
}

// Result summarizes one finished self-play game.
type Result struct {
	Seed       uint64
	Players    int
	Steps      int
	Winner     int // seat index, -1 if the deck ran out
	Exhausted  bool
	Reshuffles int
	Standings  []engine.Standing
}

// RunSelfPlay plays one game with numPlayers bots. It returns an error if an
// action the bot chose is rejected, an invariant breaks, or the game does not
// finish within maxSteps.
func RunSelfPlay(seed uint64, numPlayers, maxSteps int, rules engine.HouseRules) (Result, error) {
	res := Result{Seed: seed, Players: numPlayers, Winner: -1}
	g, err := engine.NewGame(seed, rules, numPlayers)
	if err != nil {
		return res, err
	}
	if _, err := g.Deal(); err != nil {
		return res, err
	}

	var records []ActionRecord
	for step := 0; step < maxSteps; step++ {
		if g.Over {
			break
		}
		seat := g.TurnIndex
		a := agent.DecideFor(&g, seat)
		recycled, err := apply(&g, seat, a)
		if errors.Is(err, engine.ErrDeckExhausted) {
			res.Exhausted = true
			res.Steps = step
			res.Standings = g.Standings()
			return res, nil
		}
		if err != nil {
			return res, failure(seed, step, seat, records, fmt.Sprintf("apply %s: %v", a.Kind, err))
		}
		if recycled {
			res.Reshuffles++
		}
		records = append(records, ActionRecord{Step: step, Seat: seat, Action: a})
		if err := CheckInvariants(&g); err != nil {
			return res, failure(seed, step, seat, records, err.Error())
		}
		res.Steps = step + 1
	}
	if !g.Over {
		return res, failure(seed, res.Steps, g.TurnIndex, records, "game did not finish")
	}
	res.Winner = g.Winner
	res.Standings = g.Standings()
	return res, nil
}

func apply(g *engine.GameState, seat int, a agent.Action) (recycled bool, err error) {
	switch a.Kind {
	case agent.KindPlay:
		r, err := g.ApplyPlay(seat, a.Card, a.Suit)
		return r.Recycled, err
	case agent.KindDraw:
		r, err := g.ApplyDraw(seat)
		return r.Recycled, err
	case agent.KindPass:
		_, err := g.Pass(seat)
		return false, err
	}
	return false, fmt.Errorf("unknown action kind %d", a.Kind)
}

// CheckInvariants verifies card conservation and turn bookkeeping.
func CheckInvariants(g *engine.GameState) error {
	seen := make(map[engine.Card]bool, engine.DeckSize)
	total := 0
	dup := false
	add := func(cards []engine.Card) {
		for _, c := range cards {
			total++
			if seen[c] || !c.Valid() {
				dup = true
			}
			seen[c] = true
		}
	}
	add(g.Deck.DrawPile)
	add(g.Deck.PlayPile)
	for _, s := range g.Seats {
		add(s.Hand)
	}
	if total != engine.DeckSize {
		return fmt.Errorf("card count mismatch: %d", total)
	}
	if dup {
		return fmt.Errorf("duplicate or invalid card detected")
	}
	if len(g.Deck.PlayPile) == 0 {
		return fmt.Errorf("play pile empty")
	}
	if g.TurnIndex < 0 || g.TurnIndex >= len(g.Seats) {
		return fmt.Errorf("turn index %d out of range", g.TurnIndex)
	}
	for i, s := range g.Seats {
		if s.Countdown < 0 || s.Countdown > int(g.Rules.StartingCountdown) {
			return fmt.Errorf("seat %d countdown %d out of range", i, s.Countdown)
		}
	}
	if g.Drawn != nil {
		found := false
		for _, c := range g.Seats[g.TurnIndex].Hand {
			if c == *g.Drawn {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("pending drawn card %s not in hand", *g.Drawn)
		}
	}
	return nil
}

// Summary aggregates a batch of self-play games.
type Summary struct {
	Games      int
	Wins       map[int]int // by seat
	Exhausted  int
	TotalSteps int
	Reshuffles int
	Failures   []error
}

// AvgSteps returns the mean number of actions per game.
func (s Summary) AvgSteps() float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.TotalSteps) / float64(s.Games)
}

// RunBatch plays games seeded seed, seed+1, ... and collects the results.
func RunBatch(seed uint64, games, numPlayers, maxSteps int, rules engine.HouseRules) Summary {
	sum := Summary{Wins: make(map[int]int)}
	for i := 0; i < games; i++ {
		res, err := RunSelfPlay(seed+uint64(i), numPlayers, maxSteps, rules)
		sum.Games++
		if err != nil {
			sum.Failures = append(sum.Failures, err)
			continue
		}
		sum.TotalSteps += res.Steps
		sum.Reshuffles += res.Reshuffles
		if res.Exhausted {
			sum.Exhausted++
		} else {
			sum.Wins[res.Winner]++
		}
	}
	return sum
}

func failure(seed uint64, step, seat int, records []ActionRecord, reason string) error {
	start := 0
	if len(records) > 20 {
		start = len(records) - 20
	}
	var b strings.Builder
	for _, r := range records[start:] {
		fmt.Fprintf(&b, "[s%d seat%d] %s %s %s\n", r.Step, r.Seat, r.Action.Kind, r.Action.Card, r.Action.Suit)
	}
	return fmt.Errorf("seed=%d step=%d seat=%d reason=%s\nlast actions:\n%s", seed, step, seat, reason, b.String())
}
