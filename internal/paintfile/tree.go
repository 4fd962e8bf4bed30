package paintfile

import (
	"encoding/xml"
	"fmt"
	"math"
	"strconv"

	"github.com/inamate/paint/internal/document"
	"github.com/inamate/paint/internal/geom"
	"github.com/inamate/paint/internal/shape"
)

// Tree is the XML form of a drawing.
//
// Numeric attributes are kept as text so that a missing attribute can be
// told apart from a zero one.
type Tree struct {
	XMLName xml.Name     `xml:"PaintDocument"`
	Version string       `xml:"version,attr,omitempty"`
	Objects []ObjectNode `xml:"Object"`
}

// ObjectNode is one drawn object. Which children are present depends on Type.
type ObjectNode struct {
	Type   string `xml:"type,attr"`
	Color  string `xml:"color,attr"`
	Width  string `xml:"width,attr,omitempty"`
	Radius string `xml:"radius,attr,omitempty"`

	Center         *PointNode          `xml:"Center"`
	Rect           *RectNode           `xml:"Rect"`
	Points         []PointNode         `xml:"Point"`
	Transformation *TransformationNode `xml:"Transformation"`
}

type PointNode struct {
	X string `xml:"x,attr"`
	Y string `xml:"y,attr"`
}

type RectNode struct {
	X      string `xml:"x,attr"`
	Y      string `xml:"y,attr"`
	Width  string `xml:"width,attr"`
	Height string `xml:"height,attr"`
}

type TransformationNode struct {
	TranslationX string `xml:"translationX,attr"`
	TranslationY string `xml:"translationY,attr"`
	Rotation     string `xml:"rotation,attr"`
	ScaleX       string `xml:"scaleX,attr"`
	ScaleY       string `xml:"scaleY,attr"`
}

// BuildTree converts objects into the current (versioned) tree.
func BuildTree(objects []*document.CanvasObject) *Tree {
	tree := &Tree{Version: Version, Objects: make([]ObjectNode, 0, len(objects))}
	for _, obj := range objects {
		node := shapeNode(obj.Shape())
		t := obj.Transform
		node.Transformation = &TransformationNode{
			TranslationX: formatFloat(t.TranslationX),
			TranslationY: formatFloat(t.TranslationY),
			Rotation:     formatFloat(t.Rotation),
			ScaleX:       formatFloat(t.ScaleX),
			ScaleY:       formatFloat(t.ScaleY),
		}
		tree.Objects = append(tree.Objects, node)
	}
	return tree
}

// BuildLegacyTree converts shapes into the unversioned tree older readers
// understand. Transformations are not representable there.
func BuildLegacyTree(shapes []shape.Shape) *Tree {
	tree := &Tree{Objects: make([]ObjectNode, 0, len(shapes))}
	for _, s := range shapes {
		tree.Objects = append(tree.Objects, shapeNode(s))
	}
	return tree
}

func shapeNode(s shape.Shape) ObjectNode {
	node := ObjectNode{
		Type:  string(s.Kind()),
		Color: s.ShapeColor().String(),
	}

	switch v := s.(type) {
	case shape.Circle:
		node.Radius = formatFloat(v.Radius)
		node.Center = pointNode(v.Center)
	case shape.Rect:
		node.Rect = &RectNode{
			X:      formatFloat(v.Bounds.X),
			Y:      formatFloat(v.Bounds.Y),
			Width:  formatFloat(v.Bounds.Width),
			Height: formatFloat(v.Bounds.Height),
		}
	case shape.Path:
		node.Width = formatFloat(v.Width)
		node.Points = make([]PointNode, 0, len(v.Points))
		for _, p := range v.Points {
			node.Points = append(node.Points, *pointNode(p))
		}
	}
	return node
}

func pointNode(p geom.Point) *PointNode {
	return &PointNode{X: formatFloat(p.X), Y: formatFloat(p.Y)}
}

// CanvasObjects converts the tree back into canvas objects. Nothing is
// returned unless every object converts.
func (t *Tree) CanvasObjects() ([]*document.CanvasObject, error) {
	format, err := detectFormat(t.Version)
	if err != nil {
		return nil, err
	}

	objects := make([]*document.CanvasObject, 0, len(t.Objects))
	for i, node := range t.Objects {
		s, err := node.shape()
		if err != nil {
			return nil, fmt.Errorf("object %d: %w", i, err)
		}

		transform := document.IdentityTransformation()
		if format == formatTransformed && node.Transformation != nil {
			transform, err = node.Transformation.transformation()
			if err != nil {
				return nil, fmt.Errorf("object %d: %w", i, err)
			}
		}

		objects = append(objects, document.NewCanvasObjectWithTransform(s, transform))
	}
	return objects, nil
}

func (n ObjectNode) shape() (shape.Shape, error) {
	kind, ok := shape.ParseKind(n.Type)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, n.Type)
	}

	if n.Color == "" {
		return nil, missing("color")
	}
	color, err := shape.ParseColor(n.Color)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	switch kind {
	case shape.KindCircle:
		if n.Center == nil {
			return nil, missing("Center")
		}
		c := shape.Circle{Color: color}
		if c.Radius, err = parseNonNegative("radius", n.Radius); err != nil {
			return nil, err
		}
		if c.Center, err = n.Center.point(); err != nil {
			return nil, err
		}
		return c, nil

	case shape.KindRect:
		if n.Rect == nil {
			return nil, missing("Rect")
		}
		bounds, err := n.Rect.rect()
		if err != nil {
			return nil, err
		}
		return shape.Rect{Bounds: bounds.Normalize(), Color: color}, nil

	default:
		p := shape.Path{Color: color, Points: make([]geom.Point, 0, len(n.Points))}
		if p.Width, err = parseNonNegative("width", n.Width); err != nil {
			return nil, err
		}
		for _, pn := range n.Points {
			pt, err := pn.point()
			if err != nil {
				return nil, err
			}
			p.Points = append(p.Points, pt)
		}
		return p, nil
	}
}

func (n PointNode) point() (geom.Point, error) {
	x, err := parseFloat("x", n.X)
	if err != nil {
		return geom.Point{}, err
	}
	y, err := parseFloat("y", n.Y)
	if err != nil {
		return geom.Point{}, err
	}
	return geom.Pt(x, y), nil
}

func (n RectNode) rect() (geom.Rect, error) {
	var r geom.Rect
	var err error
	if r.X, err = parseFloat("x", n.X); err != nil {
		return r, err
	}
	if r.Y, err = parseFloat("y", n.Y); err != nil {
		return r, err
	}
	if r.Width, err = parseFloat("width", n.Width); err != nil {
		return r, err
	}
	if r.Height, err = parseFloat("height", n.Height); err != nil {
		return r, err
	}
	return r, nil
}

func (n TransformationNode) transformation() (document.Transformation, error) {
	var t document.Transformation
	fields := []struct {
		name  string
		value string
		dst   *float64
	}{
		{"translationX", n.TranslationX, &t.TranslationX},
		{"translationY", n.TranslationY, &t.TranslationY},
		{"rotation", n.Rotation, &t.Rotation},
		{"scaleX", n.ScaleX, &t.ScaleX},
		{"scaleY", n.ScaleY, &t.ScaleY},
	}
	for _, f := range fields {
		v, err := parseFloat(f.name, f.value)
		if err != nil {
			return t, err
		}
		*f.dst = v
	}
	return t, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func parseFloat(name, s string) (float64, error) {
	if s == "" {
		return 0, missing(name)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: attribute %s=%q is not a finite number", ErrMalformed, name, s)
	}
	return v, nil
}

func parseNonNegative(name, s string) (float64, error) {
	v, err := parseFloat(name, s)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, fmt.Errorf("%w: attribute %s=%q is negative", ErrMalformed, name, s)
	}
	return v, nil
}

func missing(name string) error {
	return fmt.Errorf("%w: missing %s", ErrMalformed, name)
}
