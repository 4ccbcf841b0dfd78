package snake

import (
	"math/rand"

	"github.com/vovakirdan/tui-snake/internal/core"
)

// Bounds is the playfield in viewport units; CellSize units make one grid cell.
type Bounds struct {
	Width    int
	Height   int
	CellSize int
}

// Grid returns the playfield size in cells.
func (b Bounds) Grid() (w, h int) {
	if b.CellSize <= 0 {
		return 0, 0
	}
	return b.Width / b.CellSize, b.Height / b.CellSize
}

// Food is the single active pickup.
type Food struct {
	pos core.Point
}

// NewFood places food at pos.
func NewFood(pos core.Point) *Food {
	return &Food{pos: pos}
}

// Position returns the food cell.
func (f *Food) Position() core.Point {
	return f.pos
}

// CheckConsumption reports whether head sits on the food.
func (f *Food) CheckConsumption(head core.Point) bool {
	return head == f.pos
}

// Respawn moves the food to a uniformly random cell in
// [1, gridW) x [1, gridH). Row and column 0 are never used. When more than one
// cell is available the food always moves; with no cells it stays put.
// The snake body is not avoided.
func (f *Food) Respawn(rng *rand.Rand, b Bounds) {
	gw, gh := b.Grid()
	cols, rows := gw-1, gh-1
	if cols <= 0 || rows <= 0 {
		return
	}

	n := cols * rows
	if n == 1 {
		f.pos = core.Point{X: 1, Y: 1}
		return
	}

	var k int
	if f.pos.X >= 1 && f.pos.X <= cols && f.pos.Y >= 1 && f.pos.Y <= rows {
		// Draw from the other n-1 cells.
		old := (f.pos.Y-1)*cols + (f.pos.X - 1)
		k = rng.Intn(n - 1)
		if k >= old {
			k++
		}
	} else {
		k = rng.Intn(n)
	}

	f.pos = core.Point{X: 1 + k%cols, Y: 1 + k/cols}
}
