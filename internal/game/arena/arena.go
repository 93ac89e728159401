// Package arena models the fighting stage: axis-aligned body rectangles,
// the horizontally wrapping world, and shortest-path distance across the seam.
package arena

// Rect is an axis-aligned rectangle in world pixels. Y grows downward.
type Rect struct {
	X, Y, W, H int
}

// Left returns the left edge.
func (r Rect) Left() int { return r.X }

// Right returns the right edge (exclusive).
func (r Rect) Right() int { return r.X + r.W }

// Top returns the top edge.
func (r Rect) Top() int { return r.Y }

// Bottom returns the bottom edge (exclusive).
func (r Rect) Bottom() int { return r.Y + r.H }

// CenterX returns the horizontal center, truncated toward the left.
func (r Rect) CenterX() int { return r.X + r.W/2 }

// SetRight moves r so its right edge sits at x.
func (r *Rect) SetRight(x int) { r.X = x - r.W }

// Overlaps reports whether r and o share interior area.
// Edges that merely touch do not overlap, and empty rectangles never overlap.
func (r Rect) Overlaps(o Rect) bool {
	if r.W <= 0 || r.H <= 0 || o.W <= 0 || o.H <= 0 {
		return false
	}
	return r.X < o.Right() && o.X < r.Right() && r.Y < o.Bottom() && o.Y < r.Bottom()
}

// Arena is the world the two fighters occupy.
type Arena struct {
	Width        int
	Height       int
	GroundOffset int
}

// Default returns the standard 1000x600 arena with the ground 110px above the bottom edge.
func Default() Arena {
	return Arena{Width: 1000, Height: 600, GroundOffset: 110}
}

// GroundY returns the y coordinate bodies rest on.
func (a Arena) GroundY() int { return a.Height - a.GroundOffset }

// Wrap teleports a body that has left the world horizontally to the opposite edge.
// A body fully past the left edge reappears with its left edge at Width; a body
// fully past the right edge reappears with its right edge at 0.
//
// Postcondition: r.Right() >= 0 and r.Left() <= Width.
func (a Arena) Wrap(r *Rect) {
	switch {
	case r.Right() < 0:
		r.X = a.Width
	case r.Left() > a.Width:
		r.SetRight(0)
	}
}

// Delta is the shortest horizontal relation between two points in the wrapping world.
type Delta struct {
	// Distance is the unsigned shortest distance.
	Distance int
	// Direction is +1 when the shortest path runs rightward, -1 leftward.
	Direction int
	// Wrapped is true when the path crosses the seam.
	Wrapped bool
}

// Shortest computes the shortest horizontal path from fromX to toX.
// A tie between the direct and wrapped paths resolves to the wrapped path.
//
// Postcondition: Distance <= Width/2 when both points lie in [0, Width].
func (a Arena) Shortest(fromX, toX int) Delta {
	direct := abs(toX - fromX)
	wrapped := a.Width - direct
	dir := 1
	if toX < fromX {
		dir = -1
	}
	if wrapped <= direct {
		return Delta{Distance: wrapped, Direction: -dir, Wrapped: true}
	}
	return Delta{Distance: direct, Direction: dir}
}

// FacingLeft reports whether a body centered at selfX should face left to look at
// a target centered at targetX along the shortest path.
func (a Arena) FacingLeft(selfX, targetX int) bool {
	return a.Shortest(selfX, targetX).Direction < 0
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
