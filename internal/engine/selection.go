package engine

import (
	"math"

	"github.com/inamate/paint/internal/document"
	"github.com/inamate/paint/internal/geom"
)

// DefaultHandleSize is the side of a handle square in screen pixels.
const DefaultHandleSize = 8

// DragTarget is the part of the selection box a drag moves.
type DragTarget int

const (
	DragNone DragTarget = iota
	DragTopLeft
	DragTopRight
	DragBottomRight
	DragBottomLeft
	DragRotation
	DragFullBox
)

func (d DragTarget) String() string {
	switch d {
	case DragTopLeft:
		return "topLeft"
	case DragTopRight:
		return "topRight"
	case DragBottomRight:
		return "bottomRight"
	case DragBottomLeft:
		return "bottomLeft"
	case DragRotation:
		return "rotation"
	case DragFullBox:
		return "fullBox"
	default:
		return "none"
	}
}

// Handles are the selection box control points in screen space.
type Handles struct {
	TopLeft     geom.Point `json:"topLeft"`
	TopRight    geom.Point `json:"topRight"`
	BottomRight geom.Point `json:"bottomRight"`
	BottomLeft  geom.Point `json:"bottomLeft"`
	Rotation    geom.Point `json:"rotation"`
	// RotationStem is where the line to the rotation handle starts.
	RotationStem geom.Point `json:"rotationStem"`
}

// SelectionBox manipulates the transformation of one object.
//
// The object is referenced by id and looked up in the document on every
// call, so deleting it invalidates the selection instead of leaving it
// pointing at a removed object.
type SelectionBox struct {
	doc        *document.Document
	objectID   string
	handleSize float64

	target   DragTarget
	lastDrag geom.Point
}

func NewSelectionBox(doc *document.Document, objectID string, handleSize float64) *SelectionBox {
	if handleSize <= 0 {
		handleSize = DefaultHandleSize
	}
	return &SelectionBox{doc: doc, objectID: objectID, handleSize: handleSize}
}

func (s *SelectionBox) ObjectID() string { return s.objectID }

func (s *SelectionBox) HandleSize() float64 { return s.handleSize }

// Object returns the selected object, or nil once it has been removed.
func (s *SelectionBox) Object() *document.CanvasObject {
	return s.doc.Lookup(s.objectID)
}

// Valid reports whether the selected object is still in the document.
func (s *SelectionBox) Valid() bool {
	return s.Object() != nil
}

func (s *SelectionBox) Target() DragTarget { return s.target }

func (s *SelectionBox) IsDragging() bool {
	return s.target != DragNone
}

// Handles returns the handle positions for the current transformation.
func (s *SelectionBox) Handles() (Handles, error) {
	obj := s.Object()
	if obj == nil {
		return Handles{}, ErrSelectionGone
	}
	return s.handles(obj), nil
}

func (s *SelectionBox) handles(obj *document.CanvasObject) Handles {
	box := obj.BoundingBox()
	bottom := box.BottomCenter()

	// The stem length is fixed in object space and divided by the vertical
	// scale only, so it stays constant on screen under y scaling.
	stem := s.handleSize * 2 / math.Abs(ClampScale(obj.Transform.ScaleY))

	m := ObjectMatrix(obj)
	return Handles{
		TopLeft:      m.TransformPoint(box.TopLeft()),
		TopRight:     m.TransformPoint(box.TopRight()),
		BottomRight:  m.TransformPoint(box.BottomRight()),
		BottomLeft:   m.TransformPoint(box.BottomLeft()),
		Rotation:     m.TransformPoint(geom.Pt(bottom.X, bottom.Y+stem)),
		RotationStem: m.TransformPoint(bottom),
	}
}

// StartDragIfClicked picks the drag target under p: the rotation handle,
// then the corner handles, then the box itself. A miss clears the target.
// p becomes the last drag point either way.
func (s *SelectionBox) StartDragIfClicked(p geom.Point) (DragTarget, error) {
	s.lastDrag = p
	s.target = DragNone

	obj := s.Object()
	if obj == nil {
		return DragNone, ErrSelectionGone
	}

	h := s.handles(obj)
	candidates := []struct {
		target DragTarget
		center geom.Point
	}{
		{DragRotation, h.Rotation},
		{DragTopLeft, h.TopLeft},
		{DragTopRight, h.TopRight},
		{DragBottomRight, h.BottomRight},
		{DragBottomLeft, h.BottomLeft},
	}
	for _, c := range candidates {
		if s.handleHit(obj, p, c.center) {
			s.target = c.target
			return s.target, nil
		}
	}

	if obj.BoundingBox().Contains(ToObject(obj, p)) {
		s.target = DragFullBox
	}
	return s.target, nil
}

// handleHit tests p against a handle square that turns with the object.
func (s *SelectionBox) handleHit(obj *document.CanvasObject, p, center geom.Point) bool {
	toHandle, _ := geom.Translate(center.X, center.Y).
		Multiply(geom.Rotate(obj.Transform.Rotation)).
		Invert()
	local := toHandle.TransformPoint(p)

	half := s.handleSize / 2
	return geom.Rect{X: -half, Y: -half, Width: s.handleSize, Height: s.handleSize}.Contains(local)
}

// Drag applies the pointer movement since the last drag point to the
// selected object's transformation.
func (s *SelectionBox) Drag(p geom.Point) error {
	if s.target == DragNone {
		return ErrNotDragging
	}
	obj := s.Object()
	if obj == nil {
		s.target = DragNone
		return ErrSelectionGone
	}

	h := s.handles(obj)
	switch s.target {
	case DragTopLeft:
		s.scale(obj, h.TopLeft, p)
	case DragTopRight:
		s.scale(obj, h.TopRight, p)
	case DragBottomRight:
		s.scale(obj, h.BottomRight, p)
	case DragBottomLeft:
		s.scale(obj, h.BottomLeft, p)
	case DragRotation:
		s.rotate(obj, p)
	case DragFullBox:
		s.translate(obj, p)
	}

	s.lastDrag = p
	return nil
}

// FinishDrag ends the current drag.
func (s *SelectionBox) FinishDrag() {
	s.target = DragNone
}

// scale grows or shrinks the object so the dragged handle follows the
// pointer. Each step is measured against the unscaled half extent.
func (s *SelectionBox) scale(obj *document.CanvasObject, handle, p geom.Point) {
	box := obj.BoundingBox()
	dir := ToObject(obj, handle).Sub(box.Center())
	delta := ToObjectDistance(obj, p.Sub(s.lastDrag))

	halfW, halfH := box.Width/2, box.Height/2
	adjX, adjY := delta.X, delta.Y
	if dir.X <= 0 {
		adjX = -adjX
	}
	if dir.Y <= 0 {
		adjY = -adjY
	}

	t := &obj.Transform
	if halfW != 0 {
		t.ScaleX = ClampScale(t.ScaleX * (halfW + adjX) / halfW)
	}
	if halfH != 0 {
		t.ScaleY = ClampScale(t.ScaleY * (halfH + adjY) / halfH)
	}
}

// rotate turns the object by the signed angle the pointer swept around
// the object's on-screen center.
func (s *SelectionBox) rotate(obj *document.CanvasObject, p geom.Point) {
	center := ToScreen(obj, obj.Pivot())
	from := s.lastDrag.Sub(center)
	to := p.Sub(center)
	obj.Transform.Rotation += from.AngleTo(to)
}

func (s *SelectionBox) translate(obj *document.CanvasObject, p geom.Point) {
	d := p.Sub(s.lastDrag)
	obj.Transform.TranslationX += d.X
	obj.Transform.TranslationY += d.Y
}
