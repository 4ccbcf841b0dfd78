package snake

import "github.com/vovakirdan/tui-snake/internal/core"

// CheckBounds reports whether p lies outside the board.
func CheckBounds(p core.Point, b Bounds) bool {
	gw, gh := b.Grid()
	return p.X < 0 || p.Y < 0 || p.X >= gw || p.Y >= gh
}

// CheckSelfCollision reports whether moving the head onto next would hit the
// body. The tail is skipped since it leaves its cell on the same move.
func CheckSelfCollision(s *Snake, next core.Point) bool {
	for i := 0; i < len(s.body)-1; i++ {
		if s.body[i].Pos == next {
			return true
		}
	}
	return false
}
