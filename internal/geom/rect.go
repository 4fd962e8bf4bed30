package geom

// Rect represents an axis-aligned rectangle. Width and Height may be
// negative; use Normalize to flip them.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// RectFromCorners returns the normalized rect spanned by two opposite corners.
func RectFromCorners(a, b Point) Rect {
	left, right := min(a.X, b.X), max(a.X, b.X)
	top, bottom := min(a.Y, b.Y), max(a.Y, b.Y)
	return Rect{X: left, Y: top, Width: right - left, Height: bottom - top}
}

// Contains checks if a point is inside the rect (edges included).
func (r Rect) Contains(p Point) bool {
	n := r.Normalize()
	return p.X >= n.X && p.X <= n.X+n.Width && p.Y >= n.Y && p.Y <= n.Y+n.Height
}

// IsEmpty checks if the rect has zero or negative area.
func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Normalize returns an equivalent rect with non-negative width and height.
func (r Rect) Normalize() Rect {
	if r.Width < 0 {
		r.X += r.Width
		r.Width = -r.Width
	}
	if r.Height < 0 {
		r.Y += r.Height
		r.Height = -r.Height
	}
	return r
}

// Union returns the smallest rect containing both rects.
func (r Rect) Union(other Rect) Rect {
	if r.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return r
	}

	minX := min(r.X, other.X)
	minY := min(r.Y, other.Y)
	maxX := max(r.X+r.Width, other.X+other.Width)
	maxY := max(r.Y+r.Height, other.Y+other.Height)

	return Rect{
		X:      minX,
		Y:      minY,
		Width:  maxX - minX,
		Height: maxY - minY,
	}
}

// Center returns the center point of the rect.
func (r Rect) Center() Point {
	return Point{r.X + r.Width/2, r.Y + r.Height/2}
}

// Size returns the width and height as a vector.
func (r Rect) Size() Point {
	return Point{r.Width, r.Height}
}

func (r Rect) TopLeft() Point     { return Point{r.X, r.Y} }
func (r Rect) TopRight() Point    { return Point{r.X + r.Width, r.Y} }
func (r Rect) BottomRight() Point { return Point{r.X + r.Width, r.Y + r.Height} }
func (r Rect) BottomLeft() Point  { return Point{r.X, r.Y + r.Height} }

// BottomCenter returns the midpoint of the bottom edge.
func (r Rect) BottomCenter() Point {
	return Point{r.X + r.Width/2, r.Y + r.Height}
}
