// Package road describes a straight multi-lane road running along the y axis.
package road

import (
	"errors"
	"fmt"
	"math"

	"github.com/lao-tseu-is-alive/go-selfdriving-simulation/pkg/geometry"
)

// Extent is how far the borders reach up and down the road. Large enough to be
// treated as infinite at simulation speeds.
const Extent = 1e6

var ErrInvalidRoad = errors.New("invalid road")

type Road struct {
	CenterX   float64
	Width     float64
	LaneCount int

	left, right float64
	top, bottom float64
}

func New(centerX, width float64, laneCount int) (*Road, error) {
	if width <= 0 || laneCount < 1 || math.IsNaN(centerX) {
		return nil, fmt.Errorf("%w: width=%v lanes=%d", ErrInvalidRoad, width, laneCount)
	}
	return &Road{
		CenterX:   centerX,
		Width:     width,
		LaneCount: laneCount,
		left:      centerX - width/2,
		right:     centerX + width/2,
		top:       -Extent,
		bottom:    Extent,
	}, nil
}

// Left and Right are the x coordinates of the road edges.
func (r *Road) Left() float64  { return r.left }
func (r *Road) Right() float64 { return r.right }

// LaneWidth is the width of a single lane.
func (r *Road) LaneWidth() float64 { return r.Width / float64(r.LaneCount) }

// LaneCenter returns the x coordinate of the middle of lane i. Out of range
// indexes are clamped to the first or last lane.
func (r *Road) LaneCenter(i int) float64 {
	i = max(0, min(i, r.LaneCount-1))
	return r.left + r.LaneWidth()/2 + float64(i)*r.LaneWidth()
}

// Borders are the two edges of the road, used as static obstacles.
func (r *Road) Borders() []geometry.Segment {
	return []geometry.Segment{
		{A: geometry.NewPoint(r.left, r.top), B: geometry.NewPoint(r.left, r.bottom)},
		{A: geometry.NewPoint(r.right, r.top), B: geometry.NewPoint(r.right, r.bottom)},
	}
}

// LaneDividers are the markings between lanes. They are not obstacles.
func (r *Road) LaneDividers() []geometry.Segment {
	dividers := make([]geometry.Segment, 0, r.LaneCount-1)
	for i := 1; i < r.LaneCount; i++ {
		x := geometry.Lerp(r.left, r.right, float64(i)/float64(r.LaneCount))
		dividers = append(dividers, geometry.Segment{
			A: geometry.NewPoint(x, r.top),
			B: geometry.NewPoint(x, r.bottom),
		})
	}
	return dividers
}
