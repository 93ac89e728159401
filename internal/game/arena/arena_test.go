package arena_test

import (
	"testing"

	"github.com/cory-johannsen/duel/internal/game/arena"
	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestRect_Edges(t *testing.T) {
	r := arena.Rect{X: 300, Y: 310, W: 80, H: 180}
	assert.Equal(t, 300, r.Left())
	assert.Equal(t, 380, r.Right())
	assert.Equal(t, 310, r.Top())
	assert.Equal(t, 490, r.Bottom())
	assert.Equal(t, 340, r.CenterX())
}

func TestRect_Overlaps(t *testing.T) {
	a := arena.Rect{X: 0, Y: 0, W: 10, H: 10}
	cases := []struct {
		name string
		b    arena.Rect
		want bool
	}{
		{"inside", arena.Rect{X: 2, Y: 2, W: 2, H: 2}, true},
		{"partial", arena.Rect{X: 5, Y: 5, W: 10, H: 10}, true},
		{"touching edge", arena.Rect{X: 10, Y: 0, W: 5, H: 5}, false},
		{"disjoint", arena.Rect{X: 50, Y: 50, W: 5, H: 5}, false},
		{"empty", arena.Rect{X: 2, Y: 2, W: 0, H: 5}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, a.Overlaps(tc.b))
			assert.Equal(t, tc.want, tc.b.Overlaps(a), "overlap must be symmetric")
		})
	}
}

func TestArena_GroundY(t *testing.T) {
	assert.Equal(t, 490, arena.Default().GroundY())
}

func TestArena_Wrap(t *testing.T) {
	a := arena.Default()

	left := arena.Rect{X: -81, Y: 310, W: 80, H: 180}
	a.Wrap(&left)
	assert.Equal(t, 1000, left.Left(), "exiting left reappears at the right edge")

	right := arena.Rect{X: 1001, Y: 310, W: 80, H: 180}
	a.Wrap(&right)
	assert.Equal(t, 0, right.Right(), "exiting right reappears at the left edge")

	inside := arena.Rect{X: 500, Y: 310, W: 80, H: 180}
	a.Wrap(&inside)
	assert.Equal(t, 500, inside.X)
}

func TestArena_Shortest(t *testing.T) {
	a := arena.Default()

	d := a.Shortest(100, 300)
	assert.Equal(t, arena.Delta{Distance: 200, Direction: 1}, d)

	d = a.Shortest(100, 950)
	assert.Equal(t, arena.Delta{Distance: 150, Direction: -1, Wrapped: true}, d)

	d = a.Shortest(950, 100)
	assert.Equal(t, arena.Delta{Distance: 150, Direction: 1, Wrapped: true}, d)
}

func TestArena_FacingLeft(t *testing.T) {
	a := arena.Default()
	assert.False(t, a.FacingLeft(340, 640))
	assert.True(t, a.FacingLeft(640, 340))
	assert.False(t, a.FacingLeft(900, 50), "target across the seam to the right")
}

func TestArena_Shortest_Property(t *testing.T) {
	a := arena.Default()
	rapid.Check(t, func(rt *rapid.T) {
		from := rapid.IntRange(0, a.Width).Draw(rt, "from")
		to := rapid.IntRange(0, a.Width).Draw(rt, "to")
		d := a.Shortest(from, to)
		assert.LessOrEqual(rt, d.Distance, a.Width/2)
		assert.GreaterOrEqual(rt, d.Distance, 0)
		assert.Contains(rt, []int{-1, 1}, d.Direction)
		back := a.Shortest(to, from)
		assert.Equal(rt, d.Distance, back.Distance, "distance must be symmetric")
	})
}

func TestArena_Wrap_Property(t *testing.T) {
	a := arena.Default()
	rapid.Check(t, func(rt *rapid.T) {
		r := arena.Rect{X: rapid.IntRange(-200, 1200).Draw(rt, "x"), Y: 0, W: 80, H: 180}
		a.Wrap(&r)
		assert.GreaterOrEqual(rt, r.Right(), 0)
		assert.LessOrEqual(rt, r.Left(), a.Width)
	})
}
