package snake

import "github.com/vovakirdan/tui-snake/internal/core"

// GameStateType represents the current game state.
type GameStateType string

const (
	StatePlaying  GameStateType = "playing"
	StatePaused   GameStateType = "paused"
	StateGameOver GameStateType = "game_over"
)

// BodyCell is one snake segment as seen by renderers.
type BodyCell struct {
	Pos   core.Point `json:"pos"`
	Color core.Color `json:"color"`
}

// Snapshot is the post-tick state handed to render collaborators. It shares
// no memory with the game.
type Snapshot struct {
	Tick    uint64        `json:"tick"`
	Variant string        `json:"variant"`
	Score   int           `json:"score"`
	Heading string        `json:"heading"`
	Body    []BodyCell    `json:"body"` // Head first
	Food    core.Point    `json:"food"`
	GridW   int           `json:"grid_w"`
	GridH   int           `json:"grid_h"`
	State   GameStateType `json:"state"`
}

// Head returns the head position, or the zero point for an empty body.
func (s Snapshot) Head() core.Point {
	if len(s.Body) == 0 {
		return core.Point{}
	}
	return s.Body[0].Pos
}

// Snapshot returns the current game snapshot.
func (g *Game) Snapshot() Snapshot {
	state := StatePlaying
	switch {
	case g.gameOver:
		state = StateGameOver
	case g.paused:
		state = StatePaused
	}

	gw, gh := g.bounds.Grid()
	snap := Snapshot{
		Tick:    g.tick,
		Variant: string(g.variant),
		Score:   g.score.Eaten(),
		GridW:   gw,
		GridH:   gh,
		State:   state,
	}

	if g.snake != nil {
		snap.Heading = g.snake.Heading().String()
		snap.Body = make([]BodyCell, len(g.snake.body))
		for i, seg := range g.snake.body {
			snap.Body[i] = BodyCell{Pos: seg.Pos, Color: seg.Color}
		}
	}
	if g.food != nil {
		snap.Food = g.food.Position()
	}
	return snap
}
