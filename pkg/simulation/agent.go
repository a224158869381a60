package simulation

import (
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/lao-tseu-is-alive/go-selfdriving-simulation/pkg/collision"
	"github.com/lao-tseu-is-alive/go-selfdriving-simulation/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-selfdriving-simulation/pkg/kinematics"
	"github.com/lao-tseu-is-alive/go-selfdriving-simulation/pkg/network"
	"github.com/lao-tseu-is-alive/go-selfdriving-simulation/pkg/sensor"
	"github.com/paulmach/orb"
)

var (
	ErrInvalidAgent = errors.New("invalid agent")
	ErrSourceCount  = errors.New("control source count does not match agent count")
	ErrNoBrain      = errors.New("network-driven agent needs a brain and a sensor")
)

// Role tells pilots (the cars being evaluated) from scripted traffic.
type Role string

const (
	RolePilot   Role = "pilot"
	RoleTraffic Role = "traffic"
)

// ControlCount is the size of the control vector produced by a brain:
// forward, left, right, reverse.
const ControlCount = 4

// AgentOptions describes an agent to build with NewAgent.
type AgentOptions struct {
	ID    string // a random uuid when empty
	Label string
	Role  Role
	// Agents sharing a non-empty Team neither collide with nor sense each other.
	Team string
	// IgnoreAgents makes the agent collide with static obstacles only.
	IgnoreAgents bool

	Pose   kinematics.Pose
	Params kinematics.Params
	Width  float64
	Height float64

	Sensor  *sensor.Config   // nil for a blind agent
	Brain   *network.Network // owned by the agent, clone before sharing
	Control ControlSource    // Fixed{} when nil
}

// Agent is one vehicle in the world: a body, its collider outline, an
// optional ray sensor and an optional brain.
type Agent struct {
	ID           string
	Label        string
	Role         Role
	Team         string
	IgnoreAgents bool
	Width        float64
	Height       float64

	Body    *kinematics.Body
	Sensor  *sensor.Sensor
	Brain   *network.Network
	Control ControlSource

	polygon   geometry.Polygon
	damaged   bool
	damagedAt uint64

	// scratch buffer for obstacle gathering, only touched by the goroutine
	// handling this agent in the current phase
	scratch []geometry.Shape
}

// NewAgent validates the options and places the agent at its starting pose.
func NewAgent(opts AgentOptions) (*Agent, error) {
	body, err := kinematics.NewBody(opts.Pose, opts.Params)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAgent, err)
	}
	polygon, err := collision.BoundingPolygon(opts.Pose, opts.Width, opts.Height)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAgent, err)
	}

	a := &Agent{
		ID:           opts.ID,
		Label:        opts.Label,
		Role:         opts.Role,
		Team:         opts.Team,
		IgnoreAgents: opts.IgnoreAgents,
		Width:        opts.Width,
		Height:       opts.Height,
		Body:         body,
		Brain:        opts.Brain,
		Control:      opts.Control,
		polygon:      polygon,
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.Role == "" {
		a.Role = RolePilot
	}
	if a.Control == nil {
		a.Control = Fixed{}
	}

	if opts.Sensor != nil {
		s, err := sensor.New(*opts.Sensor)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidAgent, err)
		}
		a.Sensor = s
	}

	if _, ok := a.Control.(NetworkDriven); ok {
		if a.Brain == nil || a.Sensor == nil {
			return nil, fmt.Errorf("%w: agent %s", ErrNoBrain, a.ID)
		}
	}
	if a.Brain != nil {
		if a.Sensor == nil {
			return nil, fmt.Errorf("%w: agent %s has a brain but no sensor", ErrNoBrain, a.ID)
		}
		if err := a.Brain.Expect(a.Sensor.Config().RayCount, ControlCount); err != nil {
			return nil, fmt.Errorf("%w: agent %s: %w", ErrInvalidAgent, a.ID, err)
		}
	}
	return a, nil
}

// Polygon is the collider outline from the last completed move.
func (a *Agent) Polygon() geometry.Polygon { return a.polygon }

// Damaged reports whether the agent has crashed. Damage is terminal.
func (a *Agent) Damaged() bool { return a.damaged }

// DamagedAt is the World tick on which the agent crashed, 0 when intact or
// when the crash happened through Advance.
func (a *Agent) DamagedAt() uint64 { return a.damagedAt }

// Pose is a shortcut for the body pose.
func (a *Agent) Pose() kinematics.Pose { return a.Body.Pose }

// Update runs one full tick for a lone agent: move, check damage against
// obstacles, then refresh the sensor. A damaged agent does not move but its
// sensor is still refreshed.
func (a *Agent) Update(c kinematics.Controls, obstacles []geometry.Shape) error {
	if !a.damaged {
		if err := a.drive(c); err != nil {
			return err
		}
		if err := a.assessDamage(obstacles); err != nil {
			return err
		}
	}
	return a.sense(obstacles)
}

func (a *Agent) drive(c kinematics.Controls) error {
	a.Body.Update(c)
	polygon, err := collision.BoundingPolygon(a.Body.Pose, a.Width, a.Height)
	if err != nil {
		return fmt.Errorf("agent %s: %w", a.ID, err)
	}
	a.polygon = polygon
	return nil
}

func (a *Agent) assessDamage(obstacles []geometry.Shape) error {
	hit, err := collision.CheckCollision(a.polygon, obstacles)
	if err != nil {
		return fmt.Errorf("agent %s: %w", a.ID, err)
	}
	a.damaged = hit
	return nil
}

func (a *Agent) sense(obstacles []geometry.Shape) error {
	if a.Sensor == nil {
		return nil
	}
	if err := a.Sensor.Update(a.Body.Pose, obstacles); err != nil {
		return fmt.Errorf("agent %s: %w", a.ID, err)
	}
	return nil
}

// interactsWith reports whether other is an obstacle for a.
func (a *Agent) interactsWith(other *Agent) bool {
	if other == a || a.IgnoreAgents {
		return false
	}
	return a.Team == "" || a.Team != other.Team
}

// halfDiagonal is the distance from the center to any corner of the outline.
func (a *Agent) halfDiagonal() float64 {
	return math.Hypot(a.Width, a.Height) / 2
}

// senseArea is the box the sensor can reach from the current pose.
func (a *Agent) senseArea() orb.Bound {
	return a.Sensor.Config().Reach(a.Body.Pose)
}
