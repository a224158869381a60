package simulation

import (
	"github.com/lao-tseu-is-alive/go-selfdriving-simulation/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-selfdriving-simulation/pkg/kinematics"
	"github.com/lao-tseu-is-alive/go-selfdriving-simulation/pkg/sensor"
)

// AgentSnapshot is what renderers need to draw one agent.
type AgentSnapshot struct {
	ID        string             `json:"id"`
	Label     string             `json:"label,omitempty"`
	Role      Role               `json:"role"`
	Team      string             `json:"team,omitempty"`
	Pose      kinematics.Pose    `json:"pose"`
	Speed     float64            `json:"speed"`
	Polygon   geometry.Polygon   `json:"polygon"`
	Damaged   bool               `json:"damaged"`
	DamagedAt uint64             `json:"damagedAt,omitempty"`
	Rays      []geometry.Segment `json:"rays,omitempty"`
	Readings  []*sensor.Reading  `json:"readings,omitempty"`
}

// Snapshot is an immutable copy of the world state after a tick.
type Snapshot struct {
	Tick    uint64          `json:"tick"`
	Agents  []AgentSnapshot `json:"agents"`
	Leader  string          `json:"leader,omitempty"`
	Damaged int             `json:"damaged"`
}

// Snapshot copies the current state so it can be handed to another goroutine.
func (w *World) Snapshot() *Snapshot {
	s := &Snapshot{
		Tick:   w.tick,
		Agents: make([]AgentSnapshot, 0, len(w.agents)),
	}
	if l := w.Leader(); l != nil {
		s.Leader = l.ID
	}
	for _, a := range w.agents {
		as := AgentSnapshot{
			ID:        a.ID,
			Label:     a.Label,
			Role:      a.Role,
			Team:      a.Team,
			Pose:      a.Body.Pose,
			Speed:     a.Body.Speed,
			Polygon:   a.polygon.Clone(),
			Damaged:   a.damaged,
			DamagedAt: a.damagedAt,
		}
		if a.Sensor != nil {
			// the sensor replaces these slices on every update and never
			// mutates them, so they can be shared
			as.Rays = a.Sensor.Rays()
			as.Readings = a.Sensor.Readings()
		}
		if a.damaged {
			s.Damaged++
		}
		s.Agents = append(s.Agents, as)
	}
	return s
}
