// Package shape holds the geometric primitives a drawing is made of.
//
// Shape is a closed variant: only Path, Rect and Circle implement it, and
// every consumer switches over the three kinds explicitly. All geometry is
// in the shape's own untransformed space.
package shape

import (
	"slices"

	"github.com/inamate/paint/internal/geom"
)

type Kind string

const (
	KindPath   Kind = "Path"
	KindRect   Kind = "Rect"
	KindCircle Kind = "Circle"
)

// Shape is implemented by Path, Rect and Circle.
type Shape interface {
	Kind() Kind
	ShapeColor() Color
	isShape()
}

// Path is a freehand polyline stroked with Width.
type Path struct {
	Points []geom.Point
	Color  Color
	Width  float64
}

// Rect is a filled rectangle. Bounds may have negative extents while the
// rect is still being dragged out.
type Rect struct {
	Bounds geom.Rect
	Color  Color
}

// Circle is a filled circle.
type Circle struct {
	Center geom.Point
	Radius float64
	Color  Color
}

func (Path) Kind() Kind   { return KindPath }
func (Rect) Kind() Kind   { return KindRect }
func (Circle) Kind() Kind { return KindCircle }

func (p Path) ShapeColor() Color   { return p.Color }
func (r Rect) ShapeColor() Color   { return r.Color }
func (c Circle) ShapeColor() Color { return c.Color }

func (Path) isShape()   {}
func (Rect) isShape()   {}
func (Circle) isShape() {}

// Clone returns a copy of s that shares no memory with it.
func Clone(s Shape) Shape {
	switch v := s.(type) {
	case Path:
		v.Points = slices.Clone(v.Points)
		return v
	case Rect:
		return v
	case Circle:
		return v
	default:
		return s
	}
}

// ParseKind maps a serialized type name onto a Kind.
func ParseKind(s string) (Kind, bool) {
	switch k := Kind(s); k {
	case KindPath, KindRect, KindCircle:
		return k, true
	default:
		return "", false
	}
}
