package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRectFromCorners(t *testing.T) {
	want := Rect{X: 10, Y: 10, Width: 40, Height: 40}
	assert.Equal(t, want, RectFromCorners(Pt(50, 50), Pt(10, 10)))
	assert.Equal(t, want, RectFromCorners(Pt(10, 50), Pt(50, 10)))
	assert.Equal(t, want, RectFromCorners(Pt(10, 10), Pt(50, 50)))
}

func TestRectNormalizeAndContains(t *testing.T) {
	r := Rect{X: 50, Y: 50, Width: -40, Height: -20}
	assert.Equal(t, Rect{X: 10, Y: 30, Width: 40, Height: 20}, r.Normalize())

	assert.True(t, r.Contains(Pt(10, 30)), "edges are inside")
	assert.True(t, r.Contains(Pt(25, 40)))
	assert.False(t, r.Contains(Pt(5, 40)))
}

func TestRectCorners(t *testing.T) {
	r := Rect{X: 1, Y: 2, Width: 4, Height: 6}
	assert.Equal(t, Pt(1, 2), r.TopLeft())
	assert.Equal(t, Pt(5, 2), r.TopRight())
	assert.Equal(t, Pt(5, 8), r.BottomRight())
	assert.Equal(t, Pt(1, 8), r.BottomLeft())
	assert.Equal(t, Pt(3, 5), r.Center())
	assert.Equal(t, Pt(3, 8), r.BottomCenter())
}

func TestRectUnion(t *testing.T) {
	a := Rect{X: 0, Y: 0, Width: 10, Height: 10}
	b := Rect{X: 5, Y: -5, Width: 10, Height: 10}
	assert.Equal(t, Rect{X: 0, Y: -5, Width: 15, Height: 15}, a.Union(b))
	assert.Equal(t, a, a.Union(Rect{}))
}

func TestPointAngleTo(t *testing.T) {
	assert.InDelta(t, math.Pi/2, Pt(1, 0).AngleTo(Pt(0, 1)), tol)
	assert.InDelta(t, -math.Pi/2, Pt(0, 1).AngleTo(Pt(1, 0)), tol)
	assert.InDelta(t, math.Pi, math.Abs(Pt(1, 0).AngleTo(Pt(-1, 0))), tol)
	assert.InDelta(t, 5, Pt(0, 0).Distance(Pt(3, 4)), tol)
}
