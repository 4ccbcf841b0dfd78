package snake

import (
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"

	"github.com/vovakirdan/tui-snake/internal/config"
	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/registry"
)

// Variant selects the rule set.
type Variant string

const (
	// VariantClassic never ends: no walls, no self-collision.
	VariantClassic Variant = "snake"
	// VariantWalls ends the game on leaving the board or biting the body.
	VariantWalls Variant = "snake_walls"
)

// Game implements the Snake game. It owns the snake, the food and the score
// and is their only mutator. Steer may be called from any goroutine; every
// other method belongs to the goroutine driving the ticks.
type Game struct {
	variant Variant
	cfg     config.SnakeConfig
	rng     *rand.Rand
	bounds  Bounds
	rules   config.RulesConfig

	snake *Snake
	food  *Food
	score Score
	tick  uint64

	// pending is the latest accepted heading, applied is the heading used by
	// the last tick. Both hold a core.Direction.
	pending atomic.Int32
	applied atomic.Int32

	markerColor core.Color
	foodColor   core.Color

	screenW int
	screenH int

	gameOver bool
	paused   bool
	err      error // sticky invariant violation
}

var (
	configMu     sync.RWMutex
	activeConfig = config.DefaultSnakeConfig()
)

// SetConfig sets the configuration used by games created afterwards.
func SetConfig(cfg config.SnakeConfig) {
	configMu.Lock()
	defer configMu.Unlock()
	activeConfig = cfg
}

func currentConfig() config.SnakeConfig {
	configMu.RLock()
	defer configMu.RUnlock()
	return activeConfig
}

// New creates a classic (endless) Snake game.
func New() *Game {
	return &Game{variant: VariantClassic}
}

// NewWalls creates a Snake game with wall and self collision.
func NewWalls() *Game {
	return &Game{variant: VariantWalls}
}

func init() {
	registry.Register(string(VariantClassic), func() registry.Game {
		return New()
	})
	registry.Register(string(VariantWalls), func() registry.Game {
		return NewWalls()
	})
}

// ID returns the game identifier.
func (g *Game) ID() string {
	return string(g.variant)
}

// Title returns the display name.
func (g *Game) Title() string {
	if g.variant == VariantWalls {
		return "Snake (Walls)"
	}
	return "Snake"
}

// Reset initializes/restarts the game.
func (g *Game) Reset(rc core.RuntimeConfig) {
	g.cfg = currentConfig()
	g.rng = rand.New(rand.NewSource(rc.Seed))
	g.screenW = rc.ScreenW
	g.screenH = rc.ScreenH
	g.tick = 0
	g.score = Score{}
	g.gameOver = false
	g.paused = false
	g.err = nil

	g.bounds = Bounds{
		Width:    g.cfg.Board.Width,
		Height:   g.cfg.Board.Height,
		CellSize: g.cfg.Board.CellSize,
	}
	g.rules = g.cfg.Rules
	if g.variant == VariantWalls {
		g.rules = config.RulesConfig{WallCollision: true, SelfCollision: true}
	}

	bodyColor, marker, food := g.cfg.Colors()
	g.markerColor = marker
	g.foodColor = food

	heading := g.cfg.Heading()
	s, err := NewSnake(g.cfg.BodyPoints(), heading, bodyColor)
	if err != nil {
		g.snake, g.food = nil, nil
		g.err = err
		return
	}
	g.snake = s
	g.pending.Store(int32(heading))
	g.applied.Store(int32(heading))

	if start := g.cfg.Food.Start; start != nil {
		g.food = NewFood(core.Point{X: start[0], Y: start[1]})
	} else {
		g.food = NewFood(core.Point{})
		g.food.Respawn(g.rng, g.bounds)
	}
}

// Steer requests a heading change for the next tick. A reversal of the
// heading in effect is ignored and leaves any earlier request in place.
func (g *Game) Steer(requested core.Direction) {
	applied := core.Direction(g.applied.Load())
	if core.ProposeHeading(applied, requested) == requested {
		g.pending.Store(int32(requested))
	}
}

// Tick runs one simulation step: food check, growth and respawn, then
// movement. The returned error is an invariant violation and is sticky.
func (g *Game) Tick() error {
	if g.err != nil {
		return g.err
	}
	if g.snake == nil {
		g.err = fmt.Errorf("%w: tick before reset", ErrInvariantViolation)
		return g.err
	}
	if g.gameOver {
		return nil
	}
	g.tick++

	// Steer ran against the applied heading of its time; validate again.
	heading := core.ProposeHeading(g.snake.Heading(), core.Direction(g.pending.Load()))
	g.snake.SetHeading(heading)
	g.applied.Store(int32(heading))

	// Collision phase: uses the head before this tick's move.
	if g.food.CheckConsumption(g.snake.Head()) {
		g.snake.GrowAt(1, g.markerColor)
		g.food.Respawn(g.rng, g.bounds)
		g.score.RecordConsumption()
	}

	if g.rules.WallCollision || g.rules.SelfCollision {
		next := g.snake.Head().Add(heading.Vector())
		if (g.rules.WallCollision && CheckBounds(next, g.bounds)) ||
			(g.rules.SelfCollision && CheckSelfCollision(g.snake, next)) {
			g.gameOver = true
			return nil
		}
	}

	// Movement phase
	if err := g.snake.Advance(); err != nil {
		g.err = fmt.Errorf("tick %d: %w", g.tick, err)
		return g.err
	}
	return nil
}

// Step advances the game by one tick.
func (g *Game) Step(input core.InputFrame) core.StepResult {
	// Handle restart
	if input.Has(core.ActionRestart) && g.gameOver {
		g.Reset(core.RuntimeConfig{
			Seed:    g.rng.Int63(),
			ScreenW: g.screenW,
			ScreenH: g.screenH,
		})
		return core.StepResult{State: g.State()}
	}

	// Handle pause toggle
	if input.Has(core.ActionPause) {
		g.paused = !g.paused
	}

	if d, ok := input.LastMove().Direction(); ok {
		g.Steer(d)
	}

	if g.paused || g.gameOver {
		return core.StepResult{State: g.State(), Err: g.err}
	}

	err := g.Tick()
	return core.StepResult{State: g.State(), Err: err}
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	st := core.GameState{
		Score:    g.score.Eaten(),
		Tick:     g.tick,
		GameOver: g.gameOver,
		Paused:   g.paused,
	}
	if g.snake != nil {
		st.Length = g.snake.Len()
	}
	return st
}

// Score returns the number of food eaten.
func (g *Game) Score() int {
	return g.score.Eaten()
}
