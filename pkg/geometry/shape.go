package geometry

import (
	"errors"
	"fmt"

	"github.com/paulmach/orb"
)

var (
	// ErrTooFewVertices is returned for polygons with fewer than 3 vertices.
	ErrTooFewVertices = errors.New("polygon needs at least 3 vertices")
	// ErrDegenerateEdge is returned when an edge has zero length.
	ErrDegenerateEdge = errors.New("zero-length edge")
)

// Shape is anything made of straight edges that can act as an obstacle:
// a closed Polygon or a single Segment (road borders).
type Shape interface {
	Edges() []Segment
	Bound() orb.Bound
	Validate() error
}

// Segment is an ordered pair of points, used for rays, borders and polygon edges.
type Segment struct {
	A Point `json:"a"`
	B Point `json:"b"`
}

// NewSegment creates a segment from A to B.
func NewSegment(a, b Point) Segment {
	return Segment{A: a, B: b}
}

// Edges returns the segment itself.
func (s Segment) Edges() []Segment {
	return []Segment{s}
}

// Bound returns the axis-aligned bounding box of the segment.
func (s Segment) Bound() orb.Bound {
	return s.A.Orb().Bound().Extend(s.B.Orb())
}

// Validate rejects zero-length segments.
func (s Segment) Validate() error {
	if s.A == s.B {
		return fmt.Errorf("segment %s-%s: %w", s.A, s.B, ErrDegenerateEdge)
	}
	return nil
}

// Len is the length of the segment.
func (s Segment) Len() float64 {
	return s.A.DistanceTo(s.B)
}

// Polygon is a closed loop of vertices. Edges are consecutive pairs,
// the last vertex connects back to the first. Winding order is free.
type Polygon []Point

// Edges returns the edges of the polygon, wrapping at the end.
func (p Polygon) Edges() []Segment {
	edges := make([]Segment, len(p))
	for i := range p {
		edges[i] = Segment{A: p[i], B: p[(i+1)%len(p)]}
	}
	return edges
}

// Bound returns the axis-aligned bounding box of the polygon.
func (p Polygon) Bound() orb.Bound {
	if len(p) == 0 {
		return orb.Bound{}
	}
	b := p[0].Orb().Bound()
	for _, v := range p[1:] {
		b = b.Extend(v.Orb())
	}
	return b
}

// Validate fails fast on polygons the intersection tests cannot trust.
func (p Polygon) Validate() error {
	if len(p) < 3 {
		return fmt.Errorf("polygon with %d vertices: %w", len(p), ErrTooFewVertices)
	}
	for i := range p {
		if p[i] == p[(i+1)%len(p)] {
			return fmt.Errorf("polygon edge %d at %s: %w", i, p[i], ErrDegenerateEdge)
		}
	}
	return nil
}

// Clone returns a copy that does not share the backing array.
func (p Polygon) Clone() Polygon {
	if p == nil {
		return nil
	}
	return append(Polygon(nil), p...)
}
