package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-snake/internal/games/snake"
	"github.com/vovakirdan/tui-snake/internal/platform/tui"
	"github.com/vovakirdan/tui-snake/internal/registry"
)

var playCmd = &cobra.Command{
	Use:   "play [variant]",
	Short: "Play a snake variant",
	Long: `Start a game directly, without the menu.

Variants:
  snake        - Classic: no walls, the game never ends
  snake_walls  - Leaving the board or biting yourself ends the game

Controls:
  Arrows/WASD/HJKL  - Steer
  P/Space           - Pause
  R                 - Restart after game over
  Esc/B             - Pause, then leave
  Ctrl+S            - Save a screenshot
  Q                 - Quit

Examples:
  snake play
  snake play snake_walls
  snake play --fps 12 --seed 42`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func runPlay(_ *cobra.Command, args []string) {
	gameID := string(snake.VariantClassic)
	if len(args) > 0 {
		gameID = args[0]
	}

	game, err := registry.Create(gameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr, "Run 'snake list' to see available variants.")
		os.Exit(1)
	}

	store := openStore()
	if store != nil {
		defer store.Close()
	}

	err = tui.Run(game, runtimeConfig(), tui.GameOptions{
		Store:  store,
		Logger: logger,
	})
	if err != nil {
		logger.Error("game stopped", "game", gameID, "err", err)
		os.Exit(1)
	}
}
