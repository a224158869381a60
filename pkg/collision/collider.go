package collision

import (
	"errors"
	"fmt"
	"math"

	"github.com/lao-tseu-is-alive/go-selfdriving-simulation/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-selfdriving-simulation/pkg/kinematics"
)

// ErrInvalidDimensions is returned for non-positive vehicle sizes.
var ErrInvalidDimensions = errors.New("vehicle width and height must be > 0")

// BoundingPolygon returns the 4 corners of the oriented rectangle of size
// width x height centered on the pose. It must be recomputed whenever the pose changes.
func BoundingPolygon(pose kinematics.Pose, width, height float64) (geometry.Polygon, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: got %vx%v", ErrInvalidDimensions, width, height)
	}
	r := math.Hypot(width, height) / 2
	alpha := math.Atan2(width, height)
	corner := func(theta float64) geometry.Point {
		return geometry.Point{
			X: pose.X - math.Sin(theta)*r,
			Y: pose.Y - math.Cos(theta)*r,
		}
	}
	return geometry.Polygon{
		corner(pose.Heading - alpha),
		corner(pose.Heading + alpha),
		corner(math.Pi + pose.Heading - alpha),
		corner(math.Pi + pose.Heading + alpha),
	}, nil
}

// CheckCollision reports whether own touches any obstacle,
// stopping at the first one found.
func CheckCollision(own geometry.Polygon, obstacles []geometry.Shape) (bool, error) {
	for _, o := range obstacles {
		hit, err := geometry.ShapesIntersect(own, o)
		if err != nil {
			return false, fmt.Errorf("failed to test collision: %w", err)
		}
		if hit {
			return true, nil
		}
	}
	return false, nil
}
