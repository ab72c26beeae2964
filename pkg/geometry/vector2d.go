package geometry

import (
	"fmt"
	"math"
)

// Epsilon Precision constant used for float64 comparisons.
const (
	Epsilon = 1e-9
)

// Vector2D represents a 2D vector or point in arena space.
// Fields are public so literals stay short: v := Vector2D{1, 2}
type Vector2D struct {
	X float64 `json:"x" msgpack:"x"`
	Y float64 `json:"y" msgpack:"y"`
}

// NewVector creates a new Vector2D.
func NewVector(x, y float64) Vector2D {
	return Vector2D{X: x, Y: y}
}

// NewVectorPolar creates a new Vector2D from polar coordinates.
// theta is in radians.
func NewVectorPolar(radius, theta float64) Vector2D {
	x := radius * math.Cos(theta)
	y := radius * math.Sin(theta)

	// Handle standard floating point precision issues near zero
	if math.Abs(x) < Epsilon {
		x = 0
	}
	if math.Abs(y) < Epsilon {
		y = 0
	}

	return Vector2D{X: x, Y: y}
}

// String implements the fmt.Stringer interface.
func (v Vector2D) String() string {
	return fmt.Sprintf("(%.2f, %.2f)", v.X, v.Y)
}

// ---------------------------------------------------------------------
// Arithmetic Operations
// Value receivers, new values returned.
// ---------------------------------------------------------------------

// Add adds two vectors and returns the result.
func (v Vector2D) Add(other Vector2D) Vector2D {
	return Vector2D{v.X + other.X, v.Y + other.Y}
}

// Sub subtracts the other vector from the current vector.
func (v Vector2D) Sub(other Vector2D) Vector2D {
	return Vector2D{v.X - other.X, v.Y - other.Y}
}

// Mul scales the vector by a scalar value.
func (v Vector2D) Mul(scalar float64) Vector2D {
	return Vector2D{v.X * scalar, v.Y * scalar}
}

// Dot calculates the dot product of two vectors.
func (v Vector2D) Dot(other Vector2D) float64 {
	return v.X*other.X + v.Y*other.Y
}

// ---------------------------------------------------------------------
// Magnitude and Normalization
// ---------------------------------------------------------------------

// LenSqr calculates the squared magnitude of the vector.
// Use it for comparisons, it avoids the square root.
func (v Vector2D) LenSqr() float64 {
	return v.X*v.X + v.Y*v.Y
}

// Len calculates the magnitude (length) of the vector.
func (v Vector2D) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// Direction returns the unit vector of v and false when v is too short to
// carry a direction.
func (v Vector2D) Direction() (Vector2D, bool) {
	l := v.Len()
	if l < Epsilon {
		return Vector2D{}, false
	}
	return v.Mul(1 / l), true
}

// ---------------------------------------------------------------------
// Geometric Utilities
// ---------------------------------------------------------------------

// DistanceTo calculates the Euclidean distance to another vector.
func (v Vector2D) DistanceTo(other Vector2D) float64 {
	return v.Sub(other).Len()
}

// DistanceSquaredTo calculates the squared Euclidean distance to another vector.
func (v Vector2D) DistanceSquaredTo(other Vector2D) float64 {
	return v.Sub(other).LenSqr()
}

// Clamp keeps the point inside the rectangle [minX, maxX] x [minY, maxY].
// When a range is inverted (arena smaller than the margin) the midpoint wins.
func (v Vector2D) Clamp(minX, minY, maxX, maxY float64) Vector2D {
	return Vector2D{X: clampRange(v.X, minX, maxX), Y: clampRange(v.Y, minY, maxY)}
}

func clampRange(x, lo, hi float64) float64 {
	if lo > hi {
		return (lo + hi) / 2
	}
	return math.Max(lo, math.Min(hi, x))
}

// SegmentProjection projects p on the segment from a to b.
// t is the signed distance along the segment measured from a (in length units,
// not normalised), length is |b-a| and dist the perpendicular distance from p
// to the infinite line through a and b.
// A degenerate segment reports length 0 and the plain distance a-p.
func SegmentProjection(p, a, b Vector2D) (t, length, dist float64) {
	ab := b.Sub(a)
	length = ab.Len()
	if length < Epsilon {
		return 0, 0, p.DistanceTo(a)
	}
	dir := ab.Mul(1 / length)
	ap := p.Sub(a)
	t = ap.Dot(dir)
	closest := a.Add(dir.Mul(t))
	return t, length, p.DistanceTo(closest)
}
