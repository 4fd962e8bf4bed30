// Package render paints draw commands onto gonum vg canvases, producing
// SVG or PDF output of a drawing.
package render

import (
	"fmt"
	"image/color"
	"io"
	"math"

	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/vgpdf"
	"gonum.org/v1/plot/vg/vgsvg"

	"github.com/inamate/paint/internal/engine"
	"github.com/inamate/paint/internal/geom"
	"github.com/inamate/paint/internal/shape"
)

// Size is the canvas area in pixels. One pixel is drawn as one point.
type Size struct {
	Width, Height float64
}

// Draw paints commands onto c. The canvas is expected to have its origin
// at the bottom left with y up, as vg canvases do; Draw flips it so the
// commands' y-down screen coordinates land where they belong.
func Draw(c vg.Canvas, size Size, background color.Color, commands []engine.DrawCommand) {
	c.Push()
	defer c.Pop()

	c.Translate(vg.Point{Y: vg.Length(size.Height)})
	c.Scale(1, -1)

	if background != nil {
		c.SetColor(background)
		c.Fill(rectPath(geom.Rect{Width: size.Width, Height: size.Height}))
	}

	for _, cmd := range commands {
		drawCommand(c, cmd)
	}
}

func drawCommand(c vg.Canvas, cmd engine.DrawCommand) {
	c.Push()
	defer c.Pop()

	if len(cmd.Transform) == 6 {
		if m := geom.Matrix2D(cmd.Transform); !m.IsIdentity() {
			applyMatrix(c, m)
		}
	}

	switch cmd.Op {
	case engine.OpPath, engine.OpLine:
		if len(cmd.Points) < 2 {
			return
		}
		stroke(c, cmd, polylinePath(cmd.Points))

	case engine.OpRect:
		if cmd.Rect == nil {
			return
		}
		p := rectPath(cmd.Rect.Normalize())
		fill(c, cmd, p)
		stroke(c, cmd, p)

	case engine.OpCircle:
		if cmd.Center == nil {
			return
		}
		p := circlePath(*cmd.Center, cmd.Radius)
		fill(c, cmd, p)
		stroke(c, cmd, p)

	case engine.OpHandle:
		if cmd.Center == nil {
			return
		}
		c.Translate(point(*cmd.Center))
		c.Rotate(cmd.Rotation)
		half := cmd.Size / 2
		fill(c, cmd, rectPath(geom.Rect{X: -half, Y: -half, Width: cmd.Size, Height: cmd.Size}))
	}
}

// applyMatrix sets a translate-rotate-scale matrix on c. Object matrices
// never skew, so the three factors recover the matrix exactly.
func applyMatrix(c vg.Canvas, m geom.Matrix2D) {
	sx := math.Hypot(m[0], m[1])
	if sx == 0 {
		return
	}
	sy := m.Determinant() / sx
	rotation := math.Atan2(m[1], m[0])

	c.Translate(vg.Point{X: vg.Length(m[4]), Y: vg.Length(m[5])})
	c.Rotate(rotation)
	c.Scale(sx, sy)
}

func fill(c vg.Canvas, cmd engine.DrawCommand, p vg.Path) {
	col, ok := parseColor(cmd.Fill)
	if !ok {
		return
	}
	c.SetColor(col)
	c.Fill(p)
}

func stroke(c vg.Canvas, cmd engine.DrawCommand, p vg.Path) {
	col, ok := parseColor(cmd.Stroke)
	if !ok || cmd.StrokeWidth <= 0 {
		return
	}
	c.SetColor(col)
	c.SetLineWidth(vg.Length(cmd.StrokeWidth))
	c.Stroke(p)
}

func parseColor(s string) (color.Color, bool) {
	if s == "" {
		return nil, false
	}
	col, err := shape.ParseColor(s)
	if err != nil {
		return nil, false
	}
	return col.NRGBA(), true
}

func point(p geom.Point) vg.Point {
	return vg.Point{X: vg.Length(p.X), Y: vg.Length(p.Y)}
}

func polylinePath(points []geom.Point) vg.Path {
	var p vg.Path
	p.Move(point(points[0]))
	for _, pt := range points[1:] {
		p.Line(point(pt))
	}
	return p
}

func rectPath(r geom.Rect) vg.Path {
	var p vg.Path
	p.Move(point(r.TopLeft()))
	p.Line(point(r.TopRight()))
	p.Line(point(r.BottomRight()))
	p.Line(point(r.BottomLeft()))
	p.Close()
	return p
}

func circlePath(center geom.Point, radius float64) vg.Path {
	var p vg.Path
	p.Move(point(geom.Pt(center.X+radius, center.Y)))
	p.Arc(point(center), vg.Length(radius), 0, 2*math.Pi)
	p.Close()
	return p
}

// WriteSVG renders commands as an SVG document.
func WriteSVG(w io.Writer, size Size, commands []engine.DrawCommand) error {
	c := vgsvg.New(vg.Length(size.Width), vg.Length(size.Height))
	Draw(c, size, color.White, commands)
	if _, err := c.WriteTo(w); err != nil {
		return fmt.Errorf("write svg: %w", err)
	}
	return nil
}

// WritePDF renders commands as a single-page PDF.
func WritePDF(w io.Writer, size Size, commands []engine.DrawCommand) error {
	c := vgpdf.New(vg.Length(size.Width), vg.Length(size.Height))
	Draw(c, size, color.White, commands)
	if _, err := c.WriteTo(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}
