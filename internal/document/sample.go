package document

import (
	"math"

	"github.com/inamate/paint/internal/geom"
	"github.com/inamate/paint/internal/shape"
)

// NewSampleDocument returns a small drawing with one object of each kind,
// used as the starting canvas for demos and smoke tests.
func NewSampleDocument() *Document {
	rect := NewCanvasObject(shape.Rect{
		Bounds: geom.Rect{X: 200, Y: 200, Width: 200, Height: 150},
		Color:  shape.RGB(0xe9, 0x45, 0x60),
	})

	circle := NewCanvasObject(shape.Circle{
		Center: geom.Pt(640, 360),
		Radius: 80,
		Color:  shape.RGB(0x0f, 0x34, 0x60),
	})
	circle.Transform.ScaleX = 1.5

	wave := shape.Path{Color: shape.RGB(0x16, 0x21, 0x3e), Width: 4}
	for i := range 25 {
		x := 800 + float64(i)*15
		wave.Points = append(wave.Points, geom.Pt(x, 200+40*math.Sin(float64(i)/3)))
	}
	path := NewCanvasObject(wave)
	path.Transform.Rotation = math.Pi / 12

	return New(rect, circle, path)
}
