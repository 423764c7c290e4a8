// Command simulate plays bot-only games and reports invariant failures and
// win rates by seat.
package main

import (
	"flag"
	"os"
	"time"

	"github.com/pterm/pterm"
	engine "github.com/smackdown/crazy8/engine"
	"github.com/smackdown/crazy8/engine/sim"
)

func main() {
	games := flag.Int("games", 1000, "number of games to play")
	players := flag.Int("players", 4, "players per game (2-4)")
	seed := flag.Uint64("seed", uint64(time.Now().UnixNano()), "first seed; game i uses seed+i")
	maxSteps := flag.Int("max-steps", 5000, "abort a game after this many actions")
	countdownWild := flag.Bool("countdown-wild", false, "treat the rank equal to a player's countdown as wild")
	verbose := flag.Bool("v", false, "print every failure in full")
	flag.Parse()

	rules := engine.DefaultHouseRules()
	rules.CountdownWild = *countdownWild

	pterm.Info.Printfln("Playing %d games with %d bots (seed %d)", *games, *players, *seed)
	spinner, _ := pterm.DefaultSpinner.Start("Simulating ...")
	start := time.Now()
	sum := sim.RunBatch(*seed, *games, *players, *maxSteps, rules)
	elapsed := time.Since(start)
	if len(sum.Failures) == 0 {
		spinner.Success("Done in ", elapsed.Round(time.Millisecond))
	} else {
		spinner.Fail(len(sum.Failures), " games failed")
	}

	data := pterm.TableData{{"Seat", "Wins", "Share"}}
	for s := 0; s < *players; s++ {
		share := 0.0
		if sum.Games > 0 {
			share = 100 * float64(sum.Wins[s]) / float64(sum.Games)
		}
		data = append(data, []string{
			pterm.Sprint(s),
			pterm.Sprint(sum.Wins[s]),
			pterm.Sprintf("%.1f%%", share),
		})
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()

	pterm.Info.Printfln("avg actions/game: %.1f  reshuffles: %d  deck exhausted: %d",
		sum.AvgSteps(), sum.Reshuffles, sum.Exhausted)

	if len(sum.Failures) == 0 {
		pterm.Success.Println("All invariants held")
		return
	}
	shown := sum.Failures
	if !*verbose && len(shown) > 3 {
		shown = shown[:3]
	}
	for _, err := range shown {
		pterm.Error.Println(err)
	}
	os.Exit(1)
}
