package config

import (
	_ "embed"
)

//go:embed defaults/snake.yaml
var defaultSnakeYAML []byte

// DefaultSnakeConfig returns the default Snake configuration.
func DefaultSnakeConfig() SnakeConfig {
	return SnakeConfig{
		Board: BoardConfig{
			Width:    600,
			Height:   600,
			CellSize: 20,
		},
		Snake: SnakeSetup{
			Body:        [][2]int{{2, 0}, {1, 0}, {0, 0}},
			Heading:     "right",
			BodyColor:   "blue",
			MarkerColor: "bright_yellow",
		},
		Food: FoodSetup{
			Color: "red",
		},
		Clock: ClockConfig{
			TickRate: 8,
		},
	}
}

// GetDefaultYAML returns the embedded default YAML.
func GetDefaultYAML() []byte {
	return defaultSnakeYAML
}
