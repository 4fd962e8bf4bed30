package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inamate/paint/internal/geom"
	"github.com/inamate/paint/internal/shape"
)

func TestNewCanvasObject(t *testing.T) {
	pts := []geom.Point{{X: 10, Y: 10}, {X: 20, Y: 10}, {X: 20, Y: 20}}
	p := shape.Path{Points: pts, Width: 2}
	obj := NewCanvasObject(p)

	assert.NotEmpty(t, obj.ID)
	assert.True(t, obj.Transform.IsIdentity())
	assert.Equal(t, geom.Rect{X: 9, Y: 9, Width: 12, Height: 12}, obj.BoundingBox())
	assert.Equal(t, geom.Pt(15, 15), obj.Pivot())

	// Later edits to the caller's slice do not move the object.
	pts[0] = geom.Pt(-100, -100)
	assert.Equal(t, geom.Pt(10, 10), obj.Shape().(shape.Path).Points[0])
	assert.Equal(t, geom.Rect{X: 9, Y: 9, Width: 12, Height: 12}, obj.BoundingBox())
}

func TestBoundingBoxContainsShape(t *testing.T) {
	shapes := []shape.Shape{
		shape.Path{Points: []geom.Point{{X: 1, Y: 2}, {X: -5, Y: 9}, {X: 3, Y: 3}}, Width: 1},
		shape.Rect{Bounds: geom.Rect{X: 4, Y: 4, Width: 10, Height: 2}},
		shape.Circle{Center: geom.Pt(0, 0), Radius: 7},
	}
	for _, s := range shapes {
		obj := NewCanvasObject(s)
		box := obj.BoundingBox()
		switch v := s.(type) {
		case shape.Path:
			for _, pt := range v.Points {
				assert.True(t, box.Contains(pt))
			}
		case shape.Rect:
			assert.True(t, box.Contains(v.Bounds.TopLeft()))
			assert.True(t, box.Contains(v.Bounds.BottomRight()))
		case shape.Circle:
			assert.True(t, box.Contains(v.Center))
			assert.True(t, box.Contains(geom.Pt(v.Center.X+v.Radius, v.Center.Y)))
		}
	}
}

func TestDocumentOrder(t *testing.T) {
	a := NewCanvasObject(shape.Circle{Radius: 1})
	b := NewCanvasObject(shape.Circle{Radius: 2})
	c := NewCanvasObject(shape.Circle{Radius: 3})

	doc := New(a, b)
	doc.Append(c)
	require.Equal(t, 3, doc.Len())
	assert.Equal(t, 2, doc.IndexOf(c.ID))
	assert.Same(t, b, doc.Lookup(b.ID))

	assert.True(t, doc.Remove(b.ID))
	assert.False(t, doc.Remove(b.ID))
	assert.Nil(t, doc.Lookup(b.ID))
	assert.Equal(t, []*CanvasObject{a, c}, doc.Objects())

	doc.Clear()
	assert.Zero(t, doc.Len())
	assert.Equal(t, -1, doc.IndexOf(a.ID))
}

func TestSampleDocument(t *testing.T) {
	doc := NewSampleDocument()
	require.Equal(t, 3, doc.Len())
	kinds := []shape.Kind{}
	for _, o := range doc.Objects() {
		kinds = append(kinds, o.Kind())
	}
	assert.Equal(t, []shape.Kind{shape.KindRect, shape.KindCircle, shape.KindPath}, kinds)
}
