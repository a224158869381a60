package geometry

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func square(x, y, size float64) Polygon {
	return Polygon{{x, y}, {x + size, y}, {x + size, y + size}, {x, y + size}}
}

func TestSegmentIntersection(t *testing.T) {
	tests := []struct {
		name       string
		a, b, c, d Point
		wantHit    bool
		wantPoint  Point
		wantOffset float64
	}{
		{"cross in the middle", Point{0, 0}, Point{10, 0}, Point{5, -5}, Point{5, 5}, true, Point{5, 0}, 0.5},
		{"cross near start", Point{0, 0}, Point{0, 100}, Point{-1, 10}, Point{1, 10}, true, Point{0, 10}, 0.1},
		{"touching endpoint", Point{0, 0}, Point{10, 0}, Point{10, 0}, Point{10, 10}, true, Point{10, 0}, 1},
		{"lines cross outside AB", Point{0, 0}, Point{4, 0}, Point{5, -5}, Point{5, 5}, false, Point{}, 0},
		{"lines cross outside CD", Point{0, 0}, Point{10, 0}, Point{5, 1}, Point{5, 5}, false, Point{}, 0},
		{"parallel", Point{0, 0}, Point{10, 0}, Point{0, 1}, Point{10, 1}, false, Point{}, 0},
		{"collinear overlapping", Point{0, 0}, Point{10, 0}, Point{5, 0}, Point{15, 0}, false, Point{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, ok := SegmentIntersection(tt.a, tt.b, tt.c, tt.d)
			require.Equal(t, tt.wantHit, ok)
			if !ok {
				return
			}
			assert.True(t, hit.Point.Eq(tt.wantPoint), "point %s, want %s", hit.Point, tt.wantPoint)
			assert.InDelta(t, tt.wantOffset, hit.Offset, Epsilon)
		})
	}
}

func TestSegmentIntersection_SymmetricExistence(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	pt := func() Point { return Point{rng.Float64()*20 - 10, rng.Float64()*20 - 10} }
	for i := 0; i < 2000; i++ {
		a, b, c, d := pt(), pt(), pt(), pt()
		_, ab := SegmentIntersection(a, b, c, d)
		_, cd := SegmentIntersection(c, d, a, b)
		require.Equal(t, ab, cd, "AB=%s-%s CD=%s-%s", a, b, c, d)
	}
}

func TestSegmentIntersection_OffsetPerParameterization(t *testing.T) {
	ab := Segment{Point{0, 0}, Point{10, 0}}
	cd := Segment{Point{2, -1}, Point{2, 3}}

	hit1, ok1 := ab.Intersect(cd)
	hit2, ok2 := cd.Intersect(ab)
	require.True(t, ok1)
	require.True(t, ok2)
	assert.InDelta(t, 0.2, hit1.Offset, Epsilon)
	assert.InDelta(t, 0.25, hit2.Offset, Epsilon)
	assert.True(t, hit1.Point.Eq(hit2.Point))
}

func TestPolygonsIntersect(t *testing.T) {
	tests := []struct {
		name string
		p, q Polygon
		want bool
	}{
		{"unit squares offset by half width", square(0, 0, 1), square(0.5, 0, 1), true},
		{"disjoint squares", square(0, 0, 1), square(5, 5, 1), false},
		{"separated on x only", square(0, 0, 1), square(1.5, 0, 1), false},
		{"diamond crossing square", square(0, 0, 2), Polygon{{1, -1}, {2.5, 1}, {1, 3}, {-0.5, 1}}, true},
		{"triangle near square without contact", square(0, 0, 1), Polygon{{2, 0}, {3, 0}, {1.1, 2}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PolygonsIntersect(tt.p, tt.q)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			got, err = PolygonsIntersect(tt.q, tt.p)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got, "swapped operands")
		})
	}
}

func TestShapesIntersect_Segment(t *testing.T) {
	border := Segment{Point{0, -1000}, Point{0, 1000}}

	hit, err := ShapesIntersect(square(-0.5, 0, 1), border)
	require.NoError(t, err)
	assert.True(t, hit)

	hit, err = ShapesIntersect(square(1, 0, 1), border)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestShapesIntersect_DegenerateGeometry(t *testing.T) {
	valid := square(0, 0, 1)

	_, err := PolygonsIntersect(valid, Polygon{{0, 0}, {1, 1}})
	assert.ErrorIs(t, err, ErrTooFewVertices)

	_, err = PolygonsIntersect(Polygon{{0, 0}, {0, 0}, {1, 1}}, valid)
	assert.ErrorIs(t, err, ErrDegenerateEdge)

	_, err = ShapesIntersect(valid, Segment{Point{3, 3}, Point{3, 3}})
	assert.ErrorIs(t, err, ErrDegenerateEdge)
}

func TestPolygon_Edges(t *testing.T) {
	p := Polygon{{0, 0}, {1, 0}, {1, 1}}
	edges := p.Edges()
	require.Len(t, edges, 3)
	assert.Equal(t, Segment{Point{1, 1}, Point{0, 0}}, edges[2])
}

func TestPolygon_Bound(t *testing.T) {
	b := Polygon{{-1, 2}, {3, -4}, {0, 5}}.Bound()
	assert.Equal(t, -1.0, b.Min[0])
	assert.Equal(t, -4.0, b.Min[1])
	assert.Equal(t, 3.0, b.Max[0])
	assert.Equal(t, 5.0, b.Max[1])
}

func BenchmarkPolygonsIntersect(b *testing.B) {
	p := square(0, 0, 1)
	q := square(0.5, 0.5, 1)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = PolygonsIntersect(p, q)
	}
}
