package engine

import (
	"math"

	"github.com/inamate/paint/internal/document"
	"github.com/inamate/paint/internal/geom"
)

// MinScale is the smallest magnitude a scale factor may take. Keeping
// scales away from zero keeps every object matrix invertible.
const MinScale = 1e-6

// ClampScale pushes s away from zero, keeping its sign. Zero and NaN
// become +MinScale.
func ClampScale(s float64) float64 {
	switch {
	case math.IsNaN(s) || s == 0:
		return MinScale
	case math.Abs(s) < MinScale:
		return math.Copysign(MinScale, s)
	default:
		return s
	}
}

// ComposeMatrix returns the object-to-screen matrix for t:
//
//	T(tx,ty) · T(p) · R(θ) · T(-p) · T(p) · S(sx,sy) · T(-p)
//
// Rotation and scale share the pivot p, which collapses the product to
// T(t+p) · R · S · T(-p).
func ComposeMatrix(t document.Transformation, pivot geom.Point) geom.Matrix2D {
	return geom.Compose(
		t.TranslationX+pivot.X, t.TranslationY+pivot.Y,
		ClampScale(t.ScaleX), ClampScale(t.ScaleY),
		t.Rotation,
		pivot.X, pivot.Y,
	)
}

// InverseMatrix returns the screen-to-object matrix for t.
func InverseMatrix(t document.Transformation, pivot geom.Point) geom.Matrix2D {
	inv, _ := ComposeMatrix(t, pivot).Invert()
	return inv
}

// ObjectMatrix is ComposeMatrix for a placed object.
func ObjectMatrix(obj *document.CanvasObject) geom.Matrix2D {
	return ComposeMatrix(obj.Transform, obj.Pivot())
}

// ObjectInverse is InverseMatrix for a placed object.
func ObjectInverse(obj *document.CanvasObject) geom.Matrix2D {
	return InverseMatrix(obj.Transform, obj.Pivot())
}

func ToScreen(obj *document.CanvasObject, p geom.Point) geom.Point {
	return ObjectMatrix(obj).TransformPoint(p)
}

func ToObject(obj *document.CanvasObject, p geom.Point) geom.Point {
	return ObjectInverse(obj).TransformPoint(p)
}

// ToScreenDistance maps a vector, ignoring translation.
func ToScreenDistance(obj *document.CanvasObject, v geom.Point) geom.Point {
	return ObjectMatrix(obj).TransformDistance(v)
}

// ToObjectDistance maps a vector, ignoring translation.
func ToObjectDistance(obj *document.CanvasObject, v geom.Point) geom.Point {
	return ObjectInverse(obj).TransformDistance(v)
}
