// Package snake implements the classic snake game: a fixed-rate simulation
// of a snake that grows by eating food on a grid.
package snake

import (
	"errors"
	"fmt"
	"slices"

	"github.com/vovakirdan/tui-snake/internal/core"
)

// ErrInvariantViolation reports a logic defect inside the simulation, such as
// advancing a snake with no body. It is fatal to the tick loop.
var ErrInvariantViolation = errors.New("snake: invariant violation")

// Segment is one cell of the snake body.
type Segment struct {
	Pos   core.Point
	Color core.Color

	// fresh marks a segment inserted during the current tick.
	fresh bool
}

// Snake is an ordered body, head first, plus the heading it moves in.
type Snake struct {
	body      []Segment
	heading   core.Direction
	bodyColor core.Color
}

// NewSnake creates a snake from head-first positions.
func NewSnake(body []core.Point, heading core.Direction, bodyColor core.Color) (*Snake, error) {
	if len(body) == 0 {
		return nil, fmt.Errorf("%w: snake needs at least one segment", ErrInvariantViolation)
	}

	s := &Snake{
		body:      make([]Segment, len(body)),
		heading:   heading,
		bodyColor: bodyColor,
	}
	for i, p := range body {
		s.body[i] = Segment{Pos: p, Color: bodyColor}
	}
	return s, nil
}

// Head returns the head position.
func (s *Snake) Head() core.Point {
	if len(s.body) == 0 {
		return core.Point{}
	}
	return s.body[0].Pos
}

// Len returns the number of segments.
func (s *Snake) Len() int {
	return len(s.body)
}

// Heading returns the direction the snake moves on the next Advance.
func (s *Snake) Heading() core.Direction {
	return s.heading
}

// SetHeading sets the heading for the next Advance. Callers validate it.
func (s *Snake) SetHeading(d core.Direction) {
	s.heading = d
}

// BodyColor returns the normal segment color.
func (s *Snake) BodyColor() core.Color {
	return s.bodyColor
}

// Body returns a copy of the segments, head first.
func (s *Snake) Body() []Segment {
	return slices.Clone(s.body)
}

// Occupies reports whether any segment sits on p.
func (s *Snake) Occupies(p core.Point) bool {
	for _, seg := range s.body {
		if seg.Pos == p {
			return true
		}
	}
	return false
}

// GrowAt inserts a segment carrying marker at index without touching the
// tail, so the next Advance nets one extra segment. The new segment sits on
// the cell of the segment in front of it. index is clamped to [1, Len()].
func (s *Snake) GrowAt(index int, marker core.Color) {
	if len(s.body) == 0 {
		return
	}
	index = max(1, min(index, len(s.body)))

	seg := Segment{Pos: s.body[index-1].Pos, Color: marker, fresh: true}
	s.body = slices.Insert(s.body, index, seg)
}

// Advance moves the snake one cell along its heading: a new head is pushed
// and the tail is dropped. Markers set before this tick revert to the body
// color; markers set during it stay visible until the next Advance.
func (s *Snake) Advance() error {
	if len(s.body) == 0 {
		return fmt.Errorf("%w: advance on empty body", ErrInvariantViolation)
	}

	for i := range s.body {
		if !s.body[i].fresh {
			s.body[i].Color = s.bodyColor
		}
	}

	newHead := Segment{
		Pos:   s.body[0].Pos.Add(s.heading.Vector()),
		Color: s.bodyColor,
	}
	s.body = append([]Segment{newHead}, s.body...)

	// A fresh tail shares its cell with its neighbour; drop the neighbour
	// instead so the marker survives.
	last := len(s.body) - 1
	if s.body[last].fresh && last > 1 {
		s.body = append(s.body[:last-1], s.body[last])
	} else {
		s.body = s.body[:last]
	}

	for i := range s.body {
		s.body[i].fresh = false
	}
	return nil
}
