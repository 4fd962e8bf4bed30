package geom

import "math"

// Matrix2D is an affine map stored column-major as [a b c d e f]:
//
//	x' = a*x + c*y + e
//	y' = b*x + d*y + f
type Matrix2D [6]float64

// Identity returns the identity matrix.
func Identity() Matrix2D {
	return Matrix2D{1, 0, 0, 1, 0, 0}
}

// Translate returns a translation matrix.
func Translate(tx, ty float64) Matrix2D {
	return Matrix2D{1, 0, 0, 1, tx, ty}
}

// Scale returns a scale matrix.
func Scale(sx, sy float64) Matrix2D {
	return Matrix2D{sx, 0, 0, sy, 0, 0}
}

// Rotate returns a rotation matrix (angle in radians). With y pointing
// down, positive angles turn clockwise on screen.
func Rotate(radians float64) Matrix2D {
	sin, cos := math.Sincos(radians)
	return Matrix2D{cos, sin, -sin, cos, 0, 0}
}

// Multiply returns m·n, the map that applies n and then m.
func (m Matrix2D) Multiply(n Matrix2D) Matrix2D {
	a, b, c, d, e, f := m[0], m[1], m[2], m[3], m[4], m[5]
	return Matrix2D{
		a*n[0] + c*n[1],
		b*n[0] + d*n[1],
		a*n[2] + c*n[3],
		b*n[2] + d*n[3],
		a*n[4] + c*n[5] + e,
		b*n[4] + d*n[5] + f,
	}
}

// TransformPoint applies the matrix to a point.
func (m Matrix2D) TransformPoint(p Point) Point {
	return Point{m[0]*p.X + m[2]*p.Y + m[4], m[1]*p.X + m[3]*p.Y + m[5]}
}

// TransformDistance applies only the linear part of the matrix, so
// translation does not affect the result.
func (m Matrix2D) TransformDistance(v Point) Point {
	return Point{m[0]*v.X + m[2]*v.Y, m[1]*v.X + m[3]*v.Y}
}

// TransformRect maps the corners of r and returns the axis-aligned box
// around them.
func (m Matrix2D) TransformRect(r Rect) Rect {
	corners := [4]Point{r.TopLeft(), r.TopRight(), r.BottomRight(), r.BottomLeft()}
	lo := m.TransformPoint(corners[0])
	hi := lo
	for _, c := range corners[1:] {
		p := m.TransformPoint(c)
		lo = Pt(min(lo.X, p.X), min(lo.Y, p.Y))
		hi = Pt(max(hi.X, p.X), max(hi.Y, p.Y))
	}
	return RectFromCorners(lo, hi)
}

// Determinant is the area scale of the linear part; negative when the map
// mirrors.
func (m Matrix2D) Determinant() float64 {
	return m[0]*m[3] - m[1]*m[2]
}

// Invert returns the inverse of the matrix. The second result is false when
// the matrix is singular (or not finite), in which case Identity is returned.
func (m Matrix2D) Invert() (Matrix2D, bool) {
	det := m.Determinant()
	if det == 0 || math.IsNaN(det) || math.IsInf(det, 0) {
		return Identity(), false
	}

	invDet := 1.0 / det
	return Matrix2D{
		m[3] * invDet,
		-m[1] * invDet,
		-m[2] * invDet,
		m[0] * invDet,
		(m[2]*m[5] - m[3]*m[4]) * invDet,
		(m[1]*m[4] - m[0]*m[5]) * invDet,
	}, true
}

// Compose builds Translate(x, y) * Rotate(r) * Scale(sx, sy) * Translate(-ax, -ay)
// in closed form. The anchor point (ax, ay) is the rotation/scale center.
func Compose(x, y, sx, sy, radians, ax, ay float64) Matrix2D {
	sin, cos := math.Sincos(radians)

	// First translate by (-ax, -ay): point becomes (px-ax, py-ay)
	// Scale: ((px-ax)*sx, (py-ay)*sy)
	// Rotate: (cos*...-sin*..., sin*...+cos*...)
	// Translate by (x,y): add (x, y)
	return Matrix2D{
		cos * sx,                  // a
		sin * sx,                  // b
		-sin * sy,                 // c
		cos * sy,                  // d
		x - cos*sx*ax + sin*sy*ay, // e
		y - sin*sx*ax - cos*sy*ay, // f
	}
}

// ToSlice copies m into a slice, the form draw commands carry.
func (m Matrix2D) ToSlice() []float64 {
	return m[:]
}

// IsIdentity reports whether m is the identity up to rounding.
func (m Matrix2D) IsIdentity() bool {
	const eps = 1e-10
	for i, v := range Identity() {
		if math.Abs(m[i]-v) >= eps {
			return false
		}
	}
	return true
}
