package shape

import (
	"math"

	"github.com/inamate/paint/internal/geom"
)

// BoundingBox returns the axis-aligned box of s in its own space.
//
// Rect bounds are returned as stored, without normalization. Path boxes
// grow by half the stroke width on every side. A path without points has
// no extent and yields the zero Rect.
func BoundingBox(s Shape) geom.Rect {
	switch v := s.(type) {
	case Circle:
		return geom.Rect{
			X:      v.Center.X - v.Radius,
			Y:      v.Center.Y - v.Radius,
			Width:  v.Radius * 2,
			Height: v.Radius * 2,
		}

	case Rect:
		return v.Bounds

	case Path:
		if len(v.Points) == 0 {
			return geom.Rect{}
		}

		minX, minY := math.MaxFloat64, math.MaxFloat64
		maxX, maxY := -math.MaxFloat64, -math.MaxFloat64
		for _, pt := range v.Points {
			minX = min(minX, pt.X)
			minY = min(minY, pt.Y)
			maxX = max(maxX, pt.X)
			maxY = max(maxY, pt.Y)
		}

		return geom.Rect{
			X:      minX - v.Width/2,
			Y:      minY - v.Width/2,
			Width:  maxX - minX + v.Width,
			Height: maxY - minY + v.Width,
		}
	}

	return geom.Rect{}
}
