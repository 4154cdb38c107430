package scene

import "math"

// Bounds is an axis-aligned box in scene coordinates.
type Bounds struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Contains checks if a point is inside the box, edges included.
func (b Bounds) Contains(x, y float64) bool {
	return x >= b.X && x <= b.X+b.Width && y >= b.Y && y <= b.Y+b.Height
}

// IsEmpty checks if the box has zero or negative area.
func (b Bounds) IsEmpty() bool {
	return b.Width <= 0 || b.Height <= 0
}

func (b Bounds) Right() float64  { return b.X + b.Width }
func (b Bounds) Bottom() float64 { return b.Y + b.Height }

func (b Bounds) Translate(dx, dy float64) Bounds {
	b.X += dx
	b.Y += dy
	return b
}

// Union returns the smallest box containing both boxes. Degenerate boxes
// such as horizontal lines still contribute their extent.
func (b Bounds) Union(other Bounds) Bounds {
	minX := min(b.X, other.X)
	minY := min(b.Y, other.Y)
	maxX := max(b.Right(), other.Right())
	maxY := max(b.Bottom(), other.Bottom())

	return Bounds{
		X:      minX,
		Y:      minY,
		Width:  maxX - minX,
		Height: maxY - minY,
	}
}

func (b Bounds) finite() bool {
	for _, v := range []float64{b.X, b.Y, b.Width, b.Height} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Matrix2D is a 2D affine transform laid out as [a, b, c, d, e, f]:
//
//	| a  c  e |
//	| b  d  f |
//	| 0  0  1 |
type Matrix2D [6]float64

func Translate(tx, ty float64) Matrix2D {
	return Matrix2D{1, 0, 0, 1, tx, ty}
}

func Scale(sx, sy float64) Matrix2D {
	return Matrix2D{sx, 0, 0, sy, 0, 0}
}

// Multiply returns m * other, which applies other first.
func (m Matrix2D) Multiply(other Matrix2D) Matrix2D {
	return Matrix2D{
		m[0]*other[0] + m[2]*other[1],
		m[1]*other[0] + m[3]*other[1],
		m[0]*other[2] + m[2]*other[3],
		m[1]*other[2] + m[3]*other[3],
		m[0]*other[4] + m[2]*other[5] + m[4],
		m[1]*other[4] + m[3]*other[5] + m[5],
	}
}

func (m Matrix2D) TransformPoint(x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// TransformBounds transforms a box and returns its axis-aligned bounding box.
func (m Matrix2D) TransformBounds(b Bounds) Bounds {
	x0, y0 := m.TransformPoint(b.X, b.Y)
	x1, y1 := m.TransformPoint(b.Right(), b.Y)
	x2, y2 := m.TransformPoint(b.Right(), b.Bottom())
	x3, y3 := m.TransformPoint(b.X, b.Bottom())

	minX := min(x0, x1, x2, x3)
	minY := min(y0, y1, y2, y3)
	maxX := max(x0, x1, x2, x3)
	maxY := max(y0, y1, y2, y3)

	return Bounds{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Refit returns the transform that maps box from onto box to.
func Refit(from, to Bounds) Matrix2D {
	sx, sy := 1.0, 1.0
	if from.Width > 0 {
		sx = to.Width / from.Width
	}
	if from.Height > 0 {
		sy = to.Height / from.Height
	}
	return Translate(to.X, to.Y).Multiply(Scale(sx, sy)).Multiply(Translate(-from.X, -from.Y))
}
