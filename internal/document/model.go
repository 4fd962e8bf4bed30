// Package document holds the placed objects of a drawing.
package document

import (
	"github.com/inamate/paint/internal/geom"
	"github.com/inamate/paint/internal/shape"
	"github.com/inamate/paint/internal/typeid"
)

// Transformation places an object on the canvas. Rotation and scale are
// applied around the center of the object's bounding box, then the
// translation.
type Transformation struct {
	TranslationX float64 `json:"translationX"`
	TranslationY float64 `json:"translationY"`
	Rotation     float64 `json:"rotation"` // radians
	ScaleX       float64 `json:"scaleX"`
	ScaleY       float64 `json:"scaleY"`
}

// IdentityTransformation leaves an object where its shape was drawn.
func IdentityTransformation() Transformation {
	return Transformation{ScaleX: 1, ScaleY: 1}
}

// IsIdentity reports whether t moves nothing.
func (t Transformation) IsIdentity() bool {
	return t == IdentityTransformation()
}

// CanvasObject is a shape placed on the canvas. The shape and its bounding
// box are fixed at construction; only Transform changes afterwards.
type CanvasObject struct {
	ID        string
	Transform Transformation

	shape shape.Shape
	bbox  geom.Rect
}

// NewCanvasObject wraps a copy of s with an identity transformation.
func NewCanvasObject(s shape.Shape) *CanvasObject {
	return NewCanvasObjectWithTransform(s, IdentityTransformation())
}

// NewCanvasObjectWithTransform wraps a copy of s with the given transformation.
func NewCanvasObjectWithTransform(s shape.Shape, t Transformation) *CanvasObject {
	s = shape.Clone(s)
	return &CanvasObject{
		ID:        typeid.NewObjectID(),
		Transform: t,
		shape:     s,
		bbox:      shape.BoundingBox(s),
	}
}

// Shape returns the object's shape in local coordinates.
func (o *CanvasObject) Shape() shape.Shape {
	return shape.Clone(o.shape)
}

func (o *CanvasObject) Kind() shape.Kind {
	return o.shape.Kind()
}

// BoundingBox returns the untransformed bounding box computed at construction.
func (o *CanvasObject) BoundingBox() geom.Rect {
	return o.bbox
}

// Pivot is the point rotation and scale are applied around.
func (o *CanvasObject) Pivot() geom.Point {
	return o.bbox.Center()
}
