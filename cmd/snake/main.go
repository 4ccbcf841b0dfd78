// snake is the classic snake game for the terminal.
//
// Usage:
//
//	snake list               - List game variants
//	snake play [variant]     - Play a variant (default: snake)
//	snake menu               - Pick variants interactively
//	snake serve              - Start SSH server for remote play
//	snake spectate           - Stream a headless game over websockets
//	snake sim                - Run a headless game and print the result
//	snake scores [variant]   - Show high scores
//
// Global flags:
//
//	--fps <rate>        - Tick rate (default: from config, 8)
//	--seed <value>      - RNG seed for reproducible gameplay
//	--db <path>         - Database path (default: ~/.arcade/scores.db)
//	--config <path>     - Custom snake config YAML
//	--log-level <lvl>   - debug, info, warn or error
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-snake/internal/config"
	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/games/snake"
	"github.com/vovakirdan/tui-snake/internal/storage"
)

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagConfig   string
	flagLogLevel string
)

var (
	logger    *log.Logger
	snakeConf config.SnakeConfig
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "snake",
	Short: "Snake - the classic game in your terminal",
	Long: `Snake is a terminal take on the classic game: steer the snake to the
food, grow one segment per bite, and watch the points climb.

Available commands:
  list      - Show game variants
  play      - Play a variant directly
  menu      - Interactive variant picker
  serve     - Start SSH server for remote play
  spectate  - Stream a headless game to websocket clients
  sim       - Run a headless game
  scores    - View high scores

Examples:
  snake play
  snake play snake_walls --fps 12
  snake menu
  snake serve --ssh :2222
  snake spectate --addr :8080
  snake sim --ticks 1000 --seed 42`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 0, "Tick rate (0 = use config)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.arcade/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom snake config YAML")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(spectateCmd)
	rootCmd.AddCommand(simCmd)
	rootCmd.AddCommand(scoresCmd)
}

// setup builds the logger and installs the snake config for every command.
func setup(_ *cobra.Command, _ []string) error {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return fmt.Errorf("invalid --log-level: %w", err)
	}
	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Level:           level,
		Prefix:          "snake",
	})

	snakeConf, err = config.LoadSnake(flagConfig)
	if err != nil {
		return err
	}
	snake.SetConfig(snakeConf)
	logger.Debug("config loaded", "path", flagConfig, "tick_rate", snakeConf.Clock.TickRate)
	return nil
}

// tickRate returns --fps when set, otherwise the configured rate.
func tickRate() int {
	if flagFPS > 0 {
		return flagFPS
	}
	return snakeConf.Clock.TickRate
}

// runtimeConfig builds a RuntimeConfig sized to the current terminal.
func runtimeConfig() core.RuntimeConfig {
	cfg := core.DefaultConfig()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		cfg.ScreenW = w
		cfg.ScreenH = h
	}
	cfg.TickRate = tickRate()
	cfg.Seed = flagSeed
	return cfg
}

// openStore opens the scores database. Play continues without it.
func openStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open scores database, runs will not be saved", "err", err)
		return nil
	}
	return store
}

// seed returns --seed, or a time-based seed when unset.
func seed() int64 {
	if flagSeed != 0 {
		return flagSeed
	}
	return time.Now().UnixNano()
}
