package geometry

import (
	"fmt"
	"math"
)

// Epsilon is the length under which a vector is treated as zero.
const (
	Epsilon = 1e-9
)

// Vector2D is a 2D vector or point in world coordinates (y grows downwards on screen).
// Fields are public so literals stay short: Vector2D{X: 1, Y: 2}.
type Vector2D struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Zero is the null vector.
var Zero = Vector2D{}

// NewVector creates a new Vector2D.
func NewVector(x, y float64) Vector2D {
	return Vector2D{X: x, Y: y}
}

// NewVectorPolar creates a vector of the given length pointing at theta radians.
// Components smaller than Epsilon are snapped to 0 so that headings like Pi/2 give clean axes.
func NewVectorPolar(radius, theta float64) Vector2D {
	x := radius * math.Cos(theta)
	y := radius * math.Sin(theta)

	if math.Abs(x) < Epsilon {
		x = 0
	}
	if math.Abs(y) < Epsilon {
		y = 0
	}

	return Vector2D{X: x, Y: y}
}

// String implements fmt.Stringer.
func (v Vector2D) String() string {
	return fmt.Sprintf("(%.2f, %.2f)", v.X, v.Y)
}

// Add returns v + other.
func (v Vector2D) Add(other Vector2D) Vector2D {
	return Vector2D{v.X + other.X, v.Y + other.Y}
}

// Sub returns v - other.
func (v Vector2D) Sub(other Vector2D) Vector2D {
	return Vector2D{v.X - other.X, v.Y - other.Y}
}

// Mul scales the vector by a scalar value.
func (v Vector2D) Mul(scalar float64) Vector2D {
	return Vector2D{v.X * scalar, v.Y * scalar}
}

// Div scales the vector by 1/scalar. Dividing by zero yields the zero vector
// and ok=false, callers averaging over an empty neighbourhood rely on it.
func (v Vector2D) Div(scalar float64) (Vector2D, bool) {
	if scalar == 0 {
		return Zero, false
	}
	return Vector2D{v.X / scalar, v.Y / scalar}, true
}

// Dot calculates the dot product of two vectors.
func (v Vector2D) Dot(other Vector2D) float64 {
	return v.X*other.X + v.Y*other.Y
}

// LenSqr is the squared length, cheaper than Len for comparisons.
func (v Vector2D) LenSqr() float64 {
	return v.X*v.X + v.Y*v.Y
}

// Len is the euclidean length of the vector.
func (v Vector2D) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// IsZero reports whether the vector is too short to have a direction.
func (v Vector2D) IsZero() bool {
	return v.Len() < Epsilon
}

// Normalize returns the unit vector with the same direction,
// or the zero vector when v has no usable direction.
func (v Vector2D) Normalize() Vector2D {
	l := v.Len()
	if l < Epsilon {
		return Zero
	}
	return v.Mul(1 / l)
}

// WithLength returns v rescaled to length l. A degenerate v stays zero.
func (v Vector2D) WithLength(l float64) Vector2D {
	return v.Normalize().Mul(l)
}

// DistanceTo calculates the euclidean distance between two points.
func (v Vector2D) DistanceTo(other Vector2D) float64 {
	return v.Sub(other).Len()
}

// DistanceSquaredTo calculates the squared euclidean distance between two points.
func (v Vector2D) DistanceSquaredTo(other Vector2D) float64 {
	return v.Sub(other).LenSqr()
}

// Angle returns the angle of the vector relative to the X axis, in [-Pi, Pi].
func (v Vector2D) Angle() float64 {
	return math.Atan2(v.Y, v.X)
}

// Lerp returns the point at t in [0, 1] on the segment from v to target.
func (v Vector2D) Lerp(target Vector2D, t float64) Vector2D {
	return v.Add(target.Sub(v).Mul(t))
}

// Eq reports whether both components differ by at most Epsilon.
func (v Vector2D) Eq(other Vector2D) bool {
	return math.Abs(v.X-other.X) <= Epsilon && math.Abs(v.Y-other.Y) <= Epsilon
}
