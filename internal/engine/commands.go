package engine

import (
	"encoding/json"

	"github.com/inamate/paint/internal/document"
	"github.com/inamate/paint/internal/geom"
	"github.com/inamate/paint/internal/shape"
)

// Draw operations.
const (
	OpPath   = "path"   // stroked polyline, Points in local space
	OpRect   = "rect"   // filled rect, Rect in local space
	OpCircle = "circle" // filled circle, Center/Radius in local space
	OpLine   = "line"   // screen-space polyline
	OpHandle = "handle" // screen-space square of Size centered on Center, turned by Rotation
)

const (
	outlineColor = "#808080"
	handleColor  = "#FF0000"
)

// DrawCommand represents a single drawing operation for the frontend to execute.
// Shape ops carry the object's matrix; the frontend sets it before drawing
// the local geometry. Overlay ops are already in screen space.
type DrawCommand struct {
	Op          string       `json:"op"`
	ObjectID    string       `json:"objectId,omitempty"`  // For hit correlation
	Transform   []float64    `json:"transform,omitempty"` // [a, b, c, d, e, f] affine matrix
	Points      []geom.Point `json:"points,omitempty"`
	Rect        *geom.Rect   `json:"rect,omitempty"`
	Center      *geom.Point  `json:"center,omitempty"`
	Radius      float64      `json:"radius,omitempty"`
	Size        float64      `json:"size,omitempty"`
	Rotation    float64      `json:"rotation,omitempty"`
	Fill        string       `json:"fill,omitempty"`
	Stroke      string       `json:"stroke,omitempty"`
	StrokeWidth float64      `json:"strokeWidth,omitempty"`
}

// CompileDrawCommands generates the draw commands for a document in
// painter's order (back to front).
func CompileDrawCommands(doc *document.Document) []DrawCommand {
	var commands []DrawCommand
	for _, obj := range doc.Objects() {
		if cmd, ok := shapeCommand(obj.Shape(), ObjectMatrix(obj)); ok {
			cmd.ObjectID = obj.ID
			commands = append(commands, cmd)
		}
	}
	return commands
}

// shapeCommand draws s under m. Paths need at least two points to show.
func shapeCommand(s shape.Shape, m geom.Matrix2D) (DrawCommand, bool) {
	cmd := DrawCommand{Transform: m.ToSlice()}
	color := s.ShapeColor().String()

	switch v := s.(type) {
	case shape.Path:
		if len(v.Points) < 2 {
			return DrawCommand{}, false
		}
		cmd.Op = OpPath
		cmd.Points = v.Points
		cmd.Stroke = color
		cmd.StrokeWidth = v.Width
	case shape.Rect:
		r := v.Bounds
		cmd.Op = OpRect
		cmd.Rect = &r
		cmd.Fill = color
		cmd.Stroke = color
		cmd.StrokeWidth = 1
	case shape.Circle:
		c := v.Center
		cmd.Op = OpCircle
		cmd.Center = &c
		cmd.Radius = v.Radius
		cmd.Fill = color
		cmd.Stroke = color
		cmd.StrokeWidth = 1
	default:
		return DrawCommand{}, false
	}
	return cmd, true
}

// overlayCommands draws a selection box: outline, rotation stem and the
// five handles, all in screen space.
func overlayCommands(h Handles, handleSize, rotation float64) []DrawCommand {
	commands := []DrawCommand{
		{
			Op:          OpLine,
			Points:      []geom.Point{h.TopLeft, h.TopRight, h.BottomRight, h.BottomLeft, h.TopLeft},
			Stroke:      outlineColor,
			StrokeWidth: 1,
		},
		{
			Op:          OpLine,
			Points:      []geom.Point{h.RotationStem, h.Rotation},
			Stroke:      outlineColor,
			StrokeWidth: 1,
		},
	}
	for _, c := range []geom.Point{h.TopLeft, h.TopRight, h.BottomRight, h.BottomLeft, h.Rotation} {
		center := c
		commands = append(commands, DrawCommand{
			Op:       OpHandle,
			Center:   &center,
			Size:     handleSize,
			Rotation: rotation,
			Fill:     handleColor,
		})
	}
	return commands
}

// DrawCommandsToJSON serializes draw commands to JSON.
func DrawCommandsToJSON(commands []DrawCommand) (string, error) {
	if commands == nil {
		return "[]", nil
	}
	data, err := json.Marshal(commands)
	if err != nil {
		return "[]", err
	}
	return string(data), nil
}

// HitTest returns the topmost object whose bounding box contains the
// screen point p, tested in the object's own space, or nil.
func HitTest(doc *document.Document, p geom.Point) *document.CanvasObject {
	objects := doc.Objects()
	// Traverse in reverse order (front to back) to get topmost hit
	for i := len(objects) - 1; i >= 0; i-- {
		obj := objects[i]
		if obj.BoundingBox().Contains(ToObject(obj, p)) {
			return obj
		}
	}
	return nil
}

// SelectionBounds returns the screen-space axis-aligned box of an object.
func SelectionBounds(obj *document.CanvasObject) geom.Rect {
	return ObjectMatrix(obj).TransformRect(obj.BoundingBox())
}
