package geometry

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

// Epsilon is the tolerance used by approximate comparisons (Eq).
// Intersection tests never use it: they compare exactly.
const (
	Epsilon = 1e-9
)

// Point represents a 2D coordinate in screen space (y grows downward).
// Public fields keep literals short: p := Point{X: 1, Y: 2}
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// NewPoint creates a new Point.
func NewPoint(x, y float64) Point {
	return Point{X: x, Y: y}
}

// String implements the fmt.Stringer interface.
func (p Point) String() string {
	return fmt.Sprintf("(%.2f, %.2f)", p.X, p.Y)
}

// ---------------------------------------------------------------------
// Arithmetic Operations
// Value receivers returning new values, like the rest of the package.
// ---------------------------------------------------------------------

// Add adds two points component-wise.
func (p Point) Add(other Point) Point {
	return Point{p.X + other.X, p.Y + other.Y}
}

// Sub subtracts the other point from the current one.
func (p Point) Sub(other Point) Point {
	return Point{p.X - other.X, p.Y - other.Y}
}

// Mul scales the point by a scalar value.
func (p Point) Mul(scalar float64) Point {
	return Point{p.X * scalar, p.Y * scalar}
}

// Len calculates the distance of the point to the origin.
func (p Point) Len() float64 {
	return math.Hypot(p.X, p.Y)
}

// DistanceTo calculates the Euclidean distance to another point.
func (p Point) DistanceTo(other Point) float64 {
	return p.Sub(other).Len()
}

// Lerp interpolates component-wise between p and target.
// t is not clamped.
func (p Point) Lerp(target Point, t float64) Point {
	return Point{Lerp(p.X, target.X, t), Lerp(p.Y, target.Y, t)}
}

// Eq checks if two points are approximately equal using the Epsilon constant.
func (p Point) Eq(other Point) bool {
	return math.Abs(p.X-other.X) <= Epsilon && math.Abs(p.Y-other.Y) <= Epsilon
}

// Orb converts the point for use with github.com/paulmach/orb.
func (p Point) Orb() orb.Point {
	return orb.Point{p.X, p.Y}
}

// Lerp returns a + (b - a) * t. Callers may extrapolate with t outside [0, 1].
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
