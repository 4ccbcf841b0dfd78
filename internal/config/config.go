// Package config provides YAML-based game configuration loading for the
// snake game.
package config

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/tui-snake/internal/core"
)

// SnakeConfig contains all configuration for the Snake game.
type SnakeConfig struct {
	Board BoardConfig `yaml:"board"`
	Snake SnakeSetup  `yaml:"snake"`
	Food  FoodSetup   `yaml:"food"`
	Clock ClockConfig `yaml:"clock"`
	Rules RulesConfig `yaml:"rules"`
}

// BoardConfig describes the playfield in viewport units. The grid is
// Width/CellSize by Height/CellSize cells.
type BoardConfig struct {
	Width    int `yaml:"width"`
	Height   int `yaml:"height"`
	CellSize int `yaml:"cell_size"`
}

// SnakeSetup defines the initial snake geometry and colors.
type SnakeSetup struct {
	Body        [][2]int `yaml:"body"` // Head first
	Heading     string   `yaml:"heading"`
	BodyColor   string   `yaml:"body_color"`
	MarkerColor string   `yaml:"marker_color"`
}

// FoodSetup defines the initial food placement.
type FoodSetup struct {
	Start *[2]int `yaml:"start"` // nil means random
	Color string  `yaml:"color"`
}

// ClockConfig defines the simulation rate.
type ClockConfig struct {
	TickRate int `yaml:"tick_rate"`
}

// RulesConfig enables termination rules the classic game does not have.
type RulesConfig struct {
	WallCollision bool `yaml:"wall_collision"`
	SelfCollision bool `yaml:"self_collision"`
}

// Validate checks the config for values the game cannot run with.
func (c SnakeConfig) Validate() error {
	var errs []error

	if c.Board.CellSize <= 0 {
		errs = append(errs, fmt.Errorf("board.cell_size must be positive, got %d", c.Board.CellSize))
	}
	if c.Board.Width <= 0 || c.Board.Height <= 0 {
		errs = append(errs, fmt.Errorf("board size must be positive, got %dx%d", c.Board.Width, c.Board.Height))
	}
	if len(c.Snake.Body) == 0 {
		errs = append(errs, errors.New("snake.body must have at least one segment"))
	}
	if _, err := core.ParseDirection(c.Snake.Heading); err != nil {
		errs = append(errs, fmt.Errorf("snake.heading: %w", err))
	}
	for field, name := range map[string]string{
		"snake.body_color":   c.Snake.BodyColor,
		"snake.marker_color": c.Snake.MarkerColor,
		"food.color":         c.Food.Color,
	} {
		if _, err := core.ParseColor(name); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", field, err))
		}
	}
	if c.Snake.BodyColor == c.Snake.MarkerColor {
		errs = append(errs, errors.New("snake.marker_color must differ from snake.body_color"))
	}
	if c.Clock.TickRate <= 0 {
		errs = append(errs, fmt.Errorf("clock.tick_rate must be positive, got %d", c.Clock.TickRate))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: invalid snake config: %w", errors.Join(errs...))
	}
	return nil
}

// GridSize returns the board size in cells.
func (c SnakeConfig) GridSize() (w, h int) {
	if c.Board.CellSize <= 0 {
		return 0, 0
	}
	return c.Board.Width / c.Board.CellSize, c.Board.Height / c.Board.CellSize
}

// BodyPoints returns the initial body as grid points, head first.
func (c SnakeConfig) BodyPoints() []core.Point {
	pts := make([]core.Point, len(c.Snake.Body))
	for i, p := range c.Snake.Body {
		pts[i] = core.Point{X: p[0], Y: p[1]}
	}
	return pts
}

// Heading returns the initial heading, defaulting to right.
func (c SnakeConfig) Heading() core.Direction {
	d, err := core.ParseDirection(c.Snake.Heading)
	if err != nil {
		return core.DirRight
	}
	return d
}

// Colors returns the body, marker and food colors, falling back to defaults
// for names that do not parse.
func (c SnakeConfig) Colors() (body, marker, food core.Color) {
	body = parseColorOr(c.Snake.BodyColor, core.ColorBlue)
	marker = parseColorOr(c.Snake.MarkerColor, core.ColorBrightYellow)
	food = parseColorOr(c.Food.Color, core.ColorRed)
	return body, marker, food
}

func parseColorOr(name string, fallback core.Color) core.Color {
	c, err := core.ParseColor(name)
	if err != nil {
		return fallback
	}
	return c
}
