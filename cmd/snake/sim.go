package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-snake/internal/clock"
	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/games/snake"
	"github.com/vovakirdan/tui-snake/internal/registry"
)

var (
	flagTicks     int
	flagRealtime  bool
	flagTurnEvery int
	flagVariant   string
)

var errGameOver = errors.New("game over")

var simCmd = &cobra.Command{
	Use:   "sim",
	Short: "Run a headless game and print the final snapshot",
	Long: `Run the simulation without a terminal UI and print the final state
as JSON. With the same --seed and flags, two runs print the same output.

By default ticks run back to back. --realtime paces them at the tick rate.

Examples:
  snake sim --ticks 1000 --seed 42
  snake sim --variant snake_walls --turn-every 5
  snake sim --ticks 40 --realtime --fps 10`,
	Run: runSim,
}

func init() {
	simCmd.Flags().IntVar(&flagTicks, "ticks", 100, "Number of ticks to run")
	simCmd.Flags().BoolVar(&flagRealtime, "realtime", false, "Pace ticks at the tick rate")
	simCmd.Flags().IntVar(&flagTurnEvery, "turn-every", 0, "Turn clockwise every N ticks (0 = never)")
	simCmd.Flags().StringVar(&flagVariant, "variant", string(snake.VariantClassic), "Variant to simulate")
}

// newSnakeGame creates a registered variant and resets it for headless use.
func newSnakeGame(id string, seed int64) (*snake.Game, error) {
	g, err := registry.Create(id)
	if err != nil {
		return nil, err
	}
	sg, ok := g.(*snake.Game)
	if !ok {
		return nil, fmt.Errorf("%s is not a snake variant", id)
	}
	sg.Reset(core.RuntimeConfig{Seed: seed})
	return sg, nil
}

func runSim(cmd *cobra.Command, _ []string) {
	g, err := newSnakeGame(flagVariant, seed())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	heading := snakeConf.Heading()
	tick := func() error {
		n := g.State().Tick
		if flagTurnEvery > 0 && n > 0 && n%uint64(flagTurnEvery) == 0 {
			heading = (heading + 1) % 4
			g.Steer(heading)
		}
		if err := g.Tick(); err != nil {
			return err
		}
		if g.State().GameOver {
			return errGameOver
		}
		return nil
	}

	if flagRealtime {
		err = runPaced(ctx, flagTicks, tick)
	} else {
		err = clock.RunN(ctx, flagTicks, tick)
	}

	switch {
	case err == nil, errors.Is(err, errGameOver):
	case errors.Is(err, context.Canceled):
		logger.Warn("interrupted", "tick", g.State().Tick)
	default:
		logger.Error("simulation stopped", "err", err)
		os.Exit(1)
	}

	out, err := json.MarshalIndent(g.Snapshot(), "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}

// runPaced runs n ticks on a clock at the configured rate.
func runPaced(ctx context.Context, n int, tick func() error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := 0
	err := clock.New(tickRate(), logger).Run(ctx, func() error {
		if err := tick(); err != nil {
			return err
		}
		done++
		if done >= n {
			cancel()
		}
		return nil
	})
	if done >= n && errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
