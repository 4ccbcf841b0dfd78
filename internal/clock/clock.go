// Package clock drives a simulation at a fixed tick rate outside the
// terminal UI (headless runs and network spectating).
package clock

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
)

// DefaultRate is the tick rate used when a non-positive rate is given.
const DefaultRate = 8

// Clock calls a tick function once per interval.
type Clock struct {
	rate   int
	logger *log.Logger
}

// New creates a clock running at rate ticks per second.
func New(rate int, logger *log.Logger) *Clock {
	if rate <= 0 {
		rate = DefaultRate
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Clock{
		rate:   rate,
		logger: logger.WithPrefix("clock"),
	}
}

// Rate returns ticks per second.
func (c *Clock) Rate() int {
	return c.rate
}

// Interval returns the time between ticks.
func (c *Clock) Interval() time.Duration {
	return time.Second / time.Duration(c.rate)
}

// Run calls tick once per interval until ctx is done or tick fails.
// Ticks never overlap: a slow tick delays the next one and missed
// intervals are dropped, not replayed.
func (c *Clock) Run(ctx context.Context, tick func() error) error {
	ticker := time.NewTicker(c.Interval())
	defer ticker.Stop()

	c.logger.Debug("started", "rate", c.rate, "interval", c.Interval())

	var n uint64
	for {
		select {
		case <-ctx.Done():
			c.logger.Debug("stopped", "ticks", n)
			return ctx.Err()

		case <-ticker.C:
			n++
			if err := tick(); err != nil {
				c.logger.Error("tick failed", "tick", n, "err", err)
				return fmt.Errorf("clock: tick %d: %w", n, err)
			}
		}
	}
}

// RunN calls tick n times back to back, without waiting. It checks ctx
// between ticks.
func RunN(ctx context.Context, n int, tick func() error) error {
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := tick(); err != nil {
			return fmt.Errorf("clock: tick %d: %w", i+1, err)
		}
	}
	return nil
}
