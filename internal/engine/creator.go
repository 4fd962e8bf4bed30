package engine

import (
	"fmt"

	"github.com/inamate/paint/internal/document"
	"github.com/inamate/paint/internal/geom"
	"github.com/inamate/paint/internal/shape"
)

// ShapeCreator grows a new shape from a pointer drag.
type ShapeCreator struct {
	shape shape.Shape // nil while idle
	start geom.Point
}

// Start begins a shape of the settings' tool at origin.
func (c *ShapeCreator) Start(settings ToolSettings, origin geom.Point) error {
	if c.shape != nil {
		return ErrAlreadyCreating
	}

	switch settings.Tool {
	case ToolPen:
		c.shape = shape.Path{
			Points: []geom.Point{origin},
			Color:  settings.Color,
			Width:  float64(settings.Width),
		}
	case ToolRect:
		c.shape = shape.Rect{
			Bounds: geom.Rect{X: origin.X, Y: origin.Y},
			Color:  settings.Color,
		}
	case ToolCircle:
		c.shape = shape.Circle{Center: origin, Color: settings.Color}
	default:
		return fmt.Errorf("start %s: %w", settings.Tool, ErrNoShapeTool)
	}

	c.start = origin
	return nil
}

// Update grows the in-progress shape towards p.
func (c *ShapeCreator) Update(p geom.Point) error {
	switch s := c.shape.(type) {
	case shape.Path:
		s.Points = append(s.Points, p)
		c.shape = s
	case shape.Rect:
		s.Bounds = geom.RectFromCorners(c.start, p)
		c.shape = s
	case shape.Circle:
		s.Radius = s.Center.Distance(p)
		c.shape = s
	default:
		return ErrNotCreating
	}
	return nil
}

// FinishAndGenerateObject wraps the finished shape in a new object with an
// identity transformation.
func (c *ShapeCreator) FinishAndGenerateObject() (*document.CanvasObject, error) {
	if c.shape == nil {
		return nil, ErrNotCreating
	}
	obj := document.NewCanvasObject(c.shape)
	c.shape = nil
	return obj, nil
}

// Cancel drops the in-progress shape.
func (c *ShapeCreator) Cancel() {
	c.shape = nil
}

func (c *ShapeCreator) IsCreating() bool {
	return c.shape != nil
}

// InProgress returns the shape being built, or nil.
func (c *ShapeCreator) InProgress() shape.Shape {
	if c.shape == nil {
		return nil
	}
	return shape.Clone(c.shape)
}
