package simulation

import (
	"sync"
	"testing"

	"github.com/lao-tseu-is-alive/go-selfdriving-simulation/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-selfdriving-simulation/pkg/kinematics"
	"github.com/lao-tseu-is-alive/go-selfdriving-simulation/pkg/network"
	"github.com/lao-tseu-is-alive/go-selfdriving-simulation/pkg/sensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixed(t *testing.T) {
	c, err := Fixed{Forward: true, Left: true}.Control(nil)
	require.NoError(t, err)
	assert.Equal(t, kinematics.Controls{Forward: true, Left: true}, c)
}

func TestManualConcurrentSet(t *testing.T) {
	m := &Manual{}
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Set(kinematics.Controls{Forward: true})
			_, _ = m.Control(nil)
		}()
	}
	wg.Wait()
	c, err := m.Control(nil)
	require.NoError(t, err)
	assert.Equal(t, kinematics.Controls{Forward: true}, c)
}

// singleRayPilot has one ray and a 1->4 brain firing forward only when
// the ray sees something closer than half its length.
func singleRayPilot(t *testing.T) *Agent {
	t.Helper()
	level, err := network.NewLevelFromWeights(
		[][]float64{{1, 0, 0, 0}},
		[]float64{0.5, -1, 1, 1},
	)
	require.NoError(t, err)
	brain, err := network.FromLevels(level)
	require.NoError(t, err)

	o := carOptions(kinematics.Pose{})
	o.Sensor = &sensor.Config{RayCount: 1, RayLength: 100}
	o.Brain = brain
	o.Control = NetworkDriven{}
	a, err := NewAgent(o)
	require.NoError(t, err)
	return a
}

func TestNetworkDriven(t *testing.T) {
	a := singleRayPilot(t)

	// no reading yet: input 0 only clears the negative bias
	c, err := NetworkDriven{}.Control(a)
	require.NoError(t, err)
	assert.Equal(t, kinematics.Controls{Left: true}, c)

	wall := []geometry.Shape{geometry.NewSegment(geometry.NewPoint(-50, -20), geometry.NewPoint(50, -20))}
	require.NoError(t, a.Sensor.Update(a.Body.Pose, wall))
	assert.InDelta(t, 0.8, a.Sensor.Inputs()[0], 1e-12)

	c, err = NetworkDriven{}.Control(a)
	require.NoError(t, err)
	assert.Equal(t, kinematics.Controls{Forward: true, Left: true}, c)
}

func TestNetworkDrivenWithoutBrain(t *testing.T) {
	a, err := NewAgent(carOptions(kinematics.Pose{}))
	require.NoError(t, err)
	_, err = NetworkDriven{}.Control(a)
	assert.ErrorIs(t, err, ErrNoBrain)
}

func TestControlsFromOutputs(t *testing.T) {
	c, err := ControlsFromOutputs([]float64{1, 0, 1, 0})
	require.NoError(t, err)
	assert.Equal(t, kinematics.Controls{Forward: true, Right: true}, c)

	c, err = ControlsFromOutputs([]float64{0, 1, 0, 1})
	require.NoError(t, err)
	assert.Equal(t, kinematics.Controls{Left: true, Reverse: true}, c)

	_, err = ControlsFromOutputs([]float64{1, 1})
	assert.ErrorIs(t, err, network.ErrShapeMismatch)
}
