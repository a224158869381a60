package simulation

import (
	"fmt"
	"sync"

	"github.com/lao-tseu-is-alive/go-selfdriving-simulation/pkg/kinematics"
	"github.com/lao-tseu-is-alive/go-selfdriving-simulation/pkg/network"
)

// ControlSource decides the controls of an agent for the coming tick.
type ControlSource interface {
	Control(a *Agent) (kinematics.Controls, error)
}

// Fixed always returns the same controls. Fixed{Forward: true} is the
// scripted traffic car, Fixed{} an agent with no input at all.
type Fixed kinematics.Controls

func (f Fixed) Control(*Agent) (kinematics.Controls, error) {
	return kinematics.Controls(f), nil
}

// Manual holds controls set from outside the simulation loop, typically a
// keyboard adapter running on the render goroutine.
type Manual struct {
	mu sync.RWMutex
	c  kinematics.Controls
}

// Set replaces the current controls.
func (m *Manual) Set(c kinematics.Controls) {
	m.mu.Lock()
	m.c = c
	m.mu.Unlock()
}

func (m *Manual) Control(*Agent) (kinematics.Controls, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.c, nil
}

// NetworkDriven feeds the agent's latest sensor inputs through its brain.
type NetworkDriven struct{}

func (NetworkDriven) Control(a *Agent) (kinematics.Controls, error) {
	if a.Brain == nil || a.Sensor == nil {
		return kinematics.Controls{}, fmt.Errorf("%w: agent %s", ErrNoBrain, a.ID)
	}
	out, err := a.Brain.FeedForward(a.Sensor.Inputs())
	if err != nil {
		return kinematics.Controls{}, fmt.Errorf("agent %s: %w", a.ID, err)
	}
	return ControlsFromOutputs(out)
}

// ControlsFromOutputs maps a brain output vector {forward, left, right, reverse}
// onto controls. Any non-zero output sets the flag.
func ControlsFromOutputs(out []float64) (kinematics.Controls, error) {
	if len(out) != ControlCount {
		return kinematics.Controls{}, fmt.Errorf("%w: got %d outputs, want %d",
			network.ErrShapeMismatch, len(out), ControlCount)
	}
	return kinematics.Controls{
		Forward: out[0] != 0,
		Left:    out[1] != 0,
		Right:   out[2] != 0,
		Reverse: out[3] != 0,
	}, nil
}
