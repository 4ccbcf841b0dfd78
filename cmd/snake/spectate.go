package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-snake/internal/clock"
	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/games/snake"
	"github.com/vovakirdan/tui-snake/internal/transport/websocket"
)

var (
	flagHTTPAddr     string
	flagRestartAfter int
)

var spectateCmd = &cobra.Command{
	Use:   "spectate",
	Short: "Stream a headless game to websocket clients",
	Long: `Run one shared game and broadcast a snapshot after every tick to
clients connected on /ws. Any client may steer by sending
{"heading":"up"}.

When a walls game ends it restarts after --restart-after ticks.

Examples:
  snake spectate
  snake spectate --addr :9000 --variant snake_walls`,
	Run: runSpectate,
}

func init() {
	spectateCmd.Flags().StringVar(&flagHTTPAddr, "addr", ":8080", "HTTP listen address")
	spectateCmd.Flags().StringVar(&flagVariant, "variant", string(snake.VariantClassic), "Variant to run")
	spectateCmd.Flags().IntVar(&flagRestartAfter, "restart-after", 16, "Ticks to wait before restarting a finished game")
}

func runSpectate(_ *cobra.Command, _ []string) {
	g, err := newSnakeGame(flagVariant, seed())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := websocket.NewHub(g, logger)
	go hub.Run(ctx)

	mux := http.NewServeMux()
	mux.Handle("/ws", hub)
	srv := &http.Server{
		Addr:              flagHTTPAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("spectator server listening", "addr", flagHTTPAddr, "variant", flagVariant)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			stop()
		}
		close(errCh)
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("http shutdown", "err", err)
		}
	}()

	over := 0
	err = clock.New(tickRate(), logger).Run(ctx, func() error {
		if g.State().GameOver {
			over++
			if over >= flagRestartAfter {
				logger.Info("restarting", "points", g.Score())
				g.Reset(core.RuntimeConfig{Seed: seed()})
				over = 0
			}
		}
		if err := g.Tick(); err != nil {
			return err
		}
		if err := hub.Broadcast(g.Snapshot()); err != nil {
			return err
		}
		return nil
	})

	stop()
	if srvErr := <-errCh; srvErr != nil {
		logger.Error("http server", "err", srvErr)
		os.Exit(1)
	}
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, websocket.ErrClosed) {
		logger.Error("simulation stopped", "err", err)
		os.Exit(1)
	}
}
