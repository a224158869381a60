package geometry

// Intersection is a hit between two segments.
// Offset is the fraction along the first segment (the ray) where the hit lies.
type Intersection struct {
	Point
	Offset float64 `json:"offset"`
}

// SegmentIntersection computes where segment AB crosses segment CD,
// using the parametric cross-product form. Parallel or collinear segments
// (zero denominator) are reported as no intersection.
// Both parameters must lie in [0, 1] for a hit.
func SegmentIntersection(a, b, c, d Point) (Intersection, bool) {
	tTop := (d.X-c.X)*(a.Y-c.Y) - (d.Y-c.Y)*(a.X-c.X)
	uTop := (c.Y-a.Y)*(a.X-b.X) - (c.X-a.X)*(a.Y-b.Y)
	bottom := (d.Y-c.Y)*(b.X-a.X) - (d.X-c.X)*(b.Y-a.Y)

	if bottom == 0 {
		return Intersection{}, false
	}
	t := tTop / bottom
	u := uTop / bottom
	if t < 0 || t > 1 || u < 0 || u > 1 {
		return Intersection{}, false
	}
	return Intersection{
		Point:  Point{X: Lerp(a.X, b.X, t), Y: Lerp(a.Y, b.Y, t)},
		Offset: t,
	}, true
}

// Intersect is SegmentIntersection on two Segment values.
func (s Segment) Intersect(other Segment) (Intersection, bool) {
	return SegmentIntersection(s.A, s.B, other.A, other.B)
}

// PolygonsIntersect reports whether any edge of p crosses any edge of q.
// It is O(|p|*|q|), which is fine for the 4-vertex vehicle polygons.
// Containment without crossing edges is not reported.
func PolygonsIntersect(p, q Polygon) (bool, error) {
	return ShapesIntersect(p, q)
}

// ShapesIntersect is PolygonsIntersect generalised to any Shape.
// Both shapes are validated first; a bounding-box rejection avoids the
// edge-pair loop for shapes that are far apart.
func ShapesIntersect(p, q Shape) (bool, error) {
	if err := p.Validate(); err != nil {
		return false, err
	}
	if err := q.Validate(); err != nil {
		return false, err
	}
	if !p.Bound().Intersects(q.Bound()) {
		return false, nil
	}
	qEdges := q.Edges()
	for _, e := range p.Edges() {
		for _, f := range qEdges {
			if _, ok := e.Intersect(f); ok {
				return true, nil
			}
		}
	}
	return false, nil
}
