package sensor

import (
	"math"
	"testing"

	"github.com/lao-tseu-is-alive/go-selfdriving-simulation/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-selfdriving-simulation/pkg/kinematics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_RayAngles_SingleRayPointsAhead(t *testing.T) {
	for _, spread := range []float64{0, 0.3, math.Pi / 2, math.Pi, 2 * math.Pi} {
		for _, heading := range []float64{0, 0.7, -2.1, math.Pi} {
			c := Config{RayCount: 1, RayLength: 100, RaySpread: spread}
			angles := c.RayAngles(heading)
			require.Len(t, angles, 1)
			assert.Equal(t, heading, angles[0], "spread %v heading %v", spread, heading)
		}
	}
}

func TestConfig_RayAngles_Fan(t *testing.T) {
	c := DefaultConfig()
	angles := c.RayAngles(0)
	require.Len(t, angles, 5)
	want := []float64{math.Pi / 4, math.Pi / 8, 0, -math.Pi / 8, -math.Pi / 4}
	for i := range want {
		assert.InDelta(t, want[i], angles[i], 1e-12, "ray %d", i)
	}
}

func TestConfig_CastRays(t *testing.T) {
	c := Config{RayCount: 3, RayLength: 100, RaySpread: math.Pi}
	rays := c.CastRays(kinematics.Pose{X: 10, Y: 20})
	require.Len(t, rays, 3)

	// leftmost ray points toward -x in screen space
	assert.True(t, rays[0].B.Eq(geometry.Point{X: -90, Y: 20}), "got %s", rays[0].B)
	assert.True(t, rays[1].B.Eq(geometry.Point{X: 10, Y: -80}), "got %s", rays[1].B)
	assert.True(t, rays[2].B.Eq(geometry.Point{X: 110, Y: 20}), "got %s", rays[2].B)
	for _, r := range rays {
		assert.Equal(t, geometry.Point{X: 10, Y: 20}, r.A)
	}
}

func TestGetReading_Nearest(t *testing.T) {
	ray := geometry.Segment{A: geometry.Point{X: 0, Y: 0}, B: geometry.Point{X: 0, Y: -100}}
	far := geometry.Segment{A: geometry.Point{X: -10, Y: -80}, B: geometry.Point{X: 10, Y: -80}}
	near := geometry.Polygon{{X: -5, Y: -30}, {X: 5, Y: -30}, {X: 5, Y: -40}, {X: -5, Y: -40}}

	r, err := GetReading(ray, []geometry.Shape{far, near})
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.InDelta(t, 0.3, r.Offset, 1e-12)
	assert.True(t, r.Point.Eq(geometry.Point{X: 0, Y: -30}))
}

func TestGetReading_None(t *testing.T) {
	ray := geometry.Segment{A: geometry.Point{X: 0, Y: 0}, B: geometry.Point{X: 0, Y: -100}}
	beyond := geometry.Segment{A: geometry.Point{X: -10, Y: -120}, B: geometry.Point{X: 10, Y: -120}}

	r, err := GetReading(ray, []geometry.Shape{beyond})
	require.NoError(t, err)
	assert.Nil(t, r)

	r, err = GetReading(ray, nil)
	require.NoError(t, err)
	assert.Nil(t, r)
}

func TestSensor_UpdateAndInputs(t *testing.T) {
	s, err := New(Config{RayCount: 3, RayLength: 100, RaySpread: math.Pi})
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 0}, s.Inputs())

	wallAhead := geometry.Segment{A: geometry.Point{X: -50, Y: -25}, B: geometry.Point{X: 50, Y: -25}}
	require.NoError(t, s.Update(kinematics.Pose{}, []geometry.Shape{wallAhead}))

	readings := s.Readings()
	require.Len(t, readings, 3)
	assert.Nil(t, readings[0])
	require.NotNil(t, readings[1])
	assert.Nil(t, readings[2])
	assert.InDelta(t, 0.25, readings[1].Offset, 1e-12)

	inputs := s.Inputs()
	assert.Equal(t, 0.0, inputs[0])
	assert.InDelta(t, 0.75, inputs[1], 1e-12)
	assert.Equal(t, 0.0, inputs[2])
	assert.Len(t, s.Rays(), 3)
}

func TestSensor_UpdateRejectsDegenerateObstacle(t *testing.T) {
	s, err := New(DefaultConfig())
	require.NoError(t, err)
	err = s.Update(kinematics.Pose{}, []geometry.Shape{geometry.Polygon{{X: 1, Y: 1}}})
	assert.ErrorIs(t, err, geometry.ErrTooFewVertices)
}

func TestNew_InvalidConfig(t *testing.T) {
	tests := []Config{
		{RayCount: 0, RayLength: 10},
		{RayCount: 3, RayLength: 0},
		{RayCount: 3, RayLength: 10, RaySpread: -1},
	}
	for _, c := range tests {
		_, err := New(c)
		assert.ErrorIs(t, err, ErrInvalidConfig)
	}
}

func BenchmarkSensor_Update(b *testing.B) {
	s, _ := New(DefaultConfig())
	obstacles := []geometry.Shape{
		geometry.Segment{A: geometry.Point{X: -150, Y: -1e6}, B: geometry.Point{X: -150, Y: 1e6}},
		geometry.Segment{A: geometry.Point{X: 150, Y: -1e6}, B: geometry.Point{X: 150, Y: 1e6}},
		geometry.Polygon{{X: -15, Y: -100}, {X: 15, Y: -100}, {X: 15, Y: -150}, {X: -15, Y: -150}},
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = s.Update(kinematics.Pose{}, obstacles)
	}
}
