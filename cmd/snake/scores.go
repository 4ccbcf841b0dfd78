package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-snake/internal/registry"
	"github.com/vovakirdan/tui-snake/internal/storage"
)

var (
	flagClear bool
	flagLimit int
)

var scoresCmd = &cobra.Command{
	Use:   "scores [variant]",
	Short: "Show high scores",
	Long: `Display the best runs for a variant, or a summary of every variant
when none is given.

Examples:
  snake scores
  snake scores snake_walls
  snake scores snake --limit 20
  snake scores snake --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete all runs for the variant")
	scoresCmd.Flags().IntVar(&flagLimit, "limit", storage.DefaultLimit, "Number of runs to show")
}

func runScores(cmd *cobra.Command, args []string) {
	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
	defer cancel()

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening scores database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if len(args) == 0 {
		if flagClear {
			fmt.Fprintln(os.Stderr, "Error: --clear needs a variant")
			os.Exit(1)
		}
		if err := printSummary(ctx, store); err != nil {
			fmt.Fprintf(os.Stderr, "Error retrieving stats: %v\n", err)
			os.Exit(1)
		}
		return
	}

	gameID := args[0]
	game, err := registry.Create(gameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr, "Run 'snake list' to see available variants.")
		os.Exit(1)
	}

	if flagClear {
		n, err := store.ClearRuns(ctx, gameID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error clearing runs: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Removed %d runs for %s.\n", n, game.Title())
		return
	}

	runs, err := store.TopRuns(ctx, gameID, flagLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving runs: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("High Scores - %s\n", game.Title())
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'snake play %s' to set the first high score!\n", gameID)
		return
	}

	fmt.Printf("  %-4s  %-6s  %-6s  %-7s  %s\n", "Rank", "Points", "Length", "Ticks", "Date")
	fmt.Printf("  %-4s  %-6s  %-6s  %-7s  %s\n", "----", "------", "------", "-----", "----")
	for i, r := range runs {
		fmt.Printf("  %-4d  %-6d  %-6d  %-7d  %s\n",
			i+1, r.Score, r.Length, r.Ticks, r.CreatedAt.Local().Format("2006-01-02 15:04"))
	}

	stats, err := store.Stats(ctx, gameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving stats: %v\n", err)
		os.Exit(1)
	}
	fmt.Println()
	fmt.Printf("Runs: %d  |  Best: %d  |  Average: %.1f  |  Longest: %d\n",
		stats.RunsCount, stats.HighScore, stats.AvgScore, stats.MaxLength)
}

// printSummary prints one line per registered variant.
func printSummary(ctx context.Context, store *storage.Store) error {
	all, err := store.AllStats(ctx)
	if err != nil {
		return err
	}

	fmt.Println("High Scores")
	fmt.Println()
	fmt.Printf("  %-12s  %-4s  %-4s  %-7s  %s\n", "Variant", "Runs", "Best", "Longest", "Last played")
	fmt.Printf("  %-12s  %-4s  %-4s  %-7s  %s\n", "-------", "----", "----", "-------", "-----------")
	for _, g := range registry.List() {
		st, ok := all[g.ID]
		if !ok {
			fmt.Printf("  %-12s  %-4d  %-4s  %-7s  %s\n", g.ID, 0, "-", "-", "never")
			continue
		}
		fmt.Printf("  %-12s  %-4d  %-4d  %-7d  %s\n",
			g.ID, st.RunsCount, st.HighScore, st.MaxLength, st.LastPlayed.Local().Format("2006-01-02 15:04"))
	}
	return nil
}
