package collision

import (
	"testing"

	"github.com/lao-tseu-is-alive/go-selfdriving-simulation/pkg/geometry"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndex_Query(t *testing.T) {
	left := geometry.Segment{A: geometry.Point{X: 0, Y: -1000}, B: geometry.Point{X: 0, Y: 1000}}
	right := geometry.Segment{A: geometry.Point{X: 300, Y: -1000}, B: geometry.Point{X: 300, Y: 1000}}
	cone := geometry.Polygon{{X: 140, Y: 0}, {X: 160, Y: 0}, {X: 150, Y: -20}}

	idx, err := NewIndex([]geometry.Shape{left, right, cone})
	require.NoError(t, err)
	assert.Equal(t, 3, idx.Len())

	tests := []struct {
		name  string
		bound orb.Bound
		want  int
	}{
		{"near left border", orb.Bound{Min: orb.Point{-10, 0}, Max: orb.Point{10, 10}}, 1},
		{"middle of the road", orb.Bound{Min: orb.Point{100, 100}, Max: orb.Point{200, 200}}, 0},
		{"around the cone", orb.Bound{Min: orb.Point{100, -50}, Max: orb.Point{200, 50}}, 1},
		{"whole road", orb.Bound{Min: orb.Point{-10, -10}, Max: orb.Point{310, 10}}, 3},
		{"touching the right border", orb.Bound{Min: orb.Point{250, 0}, Max: orb.Point{300, 10}}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := idx.Query(nil, tt.bound)
			require.NoError(t, err)
			assert.Len(t, got, tt.want)
		})
	}
}

func TestIndex_RejectsDegenerateShapes(t *testing.T) {
	_, err := NewIndex([]geometry.Shape{geometry.Segment{}})
	assert.ErrorIs(t, err, geometry.ErrDegenerateEdge)
}

func TestIndex_Empty(t *testing.T) {
	idx, err := NewIndex(nil)
	require.NoError(t, err)
	got, err := idx.Query(nil, orb.Bound{Max: orb.Point{1, 1}})
	require.NoError(t, err)
	assert.Empty(t, got)
}
