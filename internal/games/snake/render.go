package snake

import (
	"fmt"

	"github.com/vovakirdan/tui-snake/internal/core"
)

const (
	hudHeight   = 2
	cellColumns = 2 // terminal columns per grid cell
	minScreenW  = 20
	minScreenH  = hudHeight + 5
)

// view is the part of the grid that fits on screen.
type view struct {
	originX, originY int // top-left grid cell shown
	cols, rows       int // grid cells shown
	offX, offY       int // screen position of the first cell
}

// Render draws the current game state into dst.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	g.renderHUD(dst)

	if dst.Width() < minScreenW || dst.Height() < minScreenH {
		g.renderOverlay(dst, "Window too small", "Resize to continue")
		return
	}
	if g.snake == nil {
		return
	}

	v := g.camera(dst.Width(), dst.Height())
	dst.DrawBox(core.NewRect(v.offX-1, v.offY-1, v.cols*cellColumns+2, v.rows+2))

	g.renderFood(dst, v)
	g.renderSnake(dst, v)

	switch {
	case g.err != nil:
		g.renderOverlay(dst, "Simulation error", "Press Q to quit")
	case g.gameOver:
		g.renderOverlay(dst, "Game Over", fmt.Sprintf("Points: %d  Press R to restart", g.score.Eaten()))
	case g.paused:
		g.renderOverlay(dst, "Paused", "Press P to continue")
	}
}

// camera fits the board into the area below the HUD. A board larger than
// the screen is scrolled to keep the head in view.
func (g *Game) camera(screenW, screenH int) view {
	gw, gh := g.bounds.Grid()
	availCols := (screenW - 2) / cellColumns
	availRows := screenH - hudHeight - 2

	v := view{
		cols: min(gw, availCols),
		rows: min(gh, availRows),
	}
	head := g.snake.Head()
	v.originX = follow(head.X, gw, v.cols)
	v.originY = follow(head.Y, gh, v.rows)

	v.offX = (screenW - v.cols*cellColumns) / 2
	v.offY = hudHeight + 1 + (availRows-v.rows)/2
	return v
}

// follow centers pos within a window of size n over [0, total).
func follow(pos, total, n int) int {
	if n >= total {
		return 0
	}
	origin := pos - n/2
	return max(0, min(origin, total-n))
}

// toScreen maps a grid cell to its screen column and row.
func (v view) toScreen(p core.Point) (x, y int, ok bool) {
	gx, gy := p.X-v.originX, p.Y-v.originY
	if gx < 0 || gy < 0 || gx >= v.cols || gy >= v.rows {
		return 0, 0, false
	}
	return v.offX + gx*cellColumns, v.offY + gy, true
}

func (v view) fill(dst *core.Screen, p core.Point, r rune, c core.Color) {
	x, y, ok := v.toScreen(p)
	if !ok {
		return
	}
	for i := range cellColumns {
		dst.SetColored(x+i, y, r, c)
	}
}

// renderHUD draws the top status bar.
func (g *Game) renderHUD(dst *core.Screen) {
	dst.DrawText(0, 0, " "+g.Title())
	points := fmt.Sprintf("Points: %d ", g.score.Eaten())
	dst.DrawText(dst.Width()-len(points), 0, points)
	dst.DrawHLine(0, 1, dst.Width(), '─')
}

func (g *Game) renderFood(dst *core.Screen, v view) {
	v.fill(dst, g.food.Position(), '█', g.foodColor)
}

// renderSnake draws the body tail to head, then growth markers on top so
// an overlapping segment never hides one.
func (g *Game) renderSnake(dst *core.Screen, v view) {
	body := g.snake.body
	for i := len(body) - 1; i >= 0; i-- {
		if body[i].Color != g.markerColor {
			v.fill(dst, body[i].Pos, '█', body[i].Color)
		}
	}
	for i := len(body) - 1; i >= 0; i-- {
		if body[i].Color == g.markerColor {
			v.fill(dst, body[i].Pos, '█', body[i].Color)
		}
	}
}

// renderOverlay draws a centered two-line message box.
func (g *Game) renderOverlay(dst *core.Screen, line1, line2 string) {
	boxW := max(len([]rune(line1)), len([]rune(line2))) + 4
	boxH := 5
	boxX := (dst.Width() - boxW) / 2
	boxY := (dst.Height() - boxH) / 2

	dst.DrawBox(core.NewRect(boxX, boxY, boxW, boxH))
	dst.DrawTextCentered(boxY+1, line1)
	dst.DrawTextCentered(boxY+3, line2)
}
