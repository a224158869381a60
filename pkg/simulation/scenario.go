package simulation

import (
	"fmt"
	"math/rand/v2"

	"github.com/lao-tseu-is-alive/go-selfdriving-simulation/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-selfdriving-simulation/pkg/kinematics"
	"github.com/lao-tseu-is-alive/go-selfdriving-simulation/pkg/network"
	"github.com/lao-tseu-is-alive/go-selfdriving-simulation/pkg/road"
	"go.uber.org/zap"
)

const pilotTeam = "pilots"

// NewHighway builds the classic scenario: a straight road, a pack of pilots
// in one lane and scripted traffic ahead of them. Pilots share a team so they
// only crash into (and see) traffic and the road borders.
func NewHighway(cfg *Config, opts ...Option) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	r, err := road.New(cfg.Road.CenterX, cfg.Road.Width, cfg.Road.LaneCount)
	if err != nil {
		return nil, err
	}

	var seed *network.Network
	if cfg.BrainFile != "" {
		seed, err = network.LoadFile(cfg.BrainFile)
		if err != nil {
			return nil, err
		}
	}
	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed+1))

	agents := make([]*Agent, 0, cfg.Pilots+len(cfg.Traffic))
	for i := 0; i < cfg.Pilots; i++ {
		ao := AgentOptions{
			Label:  fmt.Sprintf("pilot-%03d", i),
			Role:   RolePilot,
			Team:   pilotTeam,
			Pose:   kinematics.Pose{X: r.LaneCenter(cfg.PilotLane), Y: cfg.StartY},
			Params: cfg.Physics,
			Width:  cfg.Car.Width,
			Height: cfg.Car.Height,
			Sensor: &cfg.Sensor,
		}
		switch {
		case cfg.Manual && i == 0:
			ao.Control = &Manual{}
		case seed != nil:
			ao.Brain = seed.Clone()
			ao.Control = NetworkDriven{}
		default:
			ao.Brain, err = network.New(rng, cfg.Topology()...)
			if err != nil {
				return nil, err
			}
			ao.Control = NetworkDriven{}
		}
		a, err := NewAgent(ao)
		if err != nil {
			return nil, err
		}
		agents = append(agents, a)
	}

	trafficParams := cfg.Physics
	trafficParams.MaxSpeed = cfg.TrafficMaxSpeed
	for i, t := range cfg.Traffic {
		a, err := NewAgent(AgentOptions{
			Label:        fmt.Sprintf("traffic-%03d", i),
			Role:         RoleTraffic,
			IgnoreAgents: true,
			Pose:         kinematics.Pose{X: r.LaneCenter(t.Lane), Y: t.Y},
			Params:       trafficParams,
			Width:        cfg.Car.Width,
			Height:       cfg.Car.Height,
			Control:      Fixed{Forward: true},
		})
		if err != nil {
			return nil, err
		}
		agents = append(agents, a)
	}

	borders := r.Borders()
	static := make([]geometry.Shape, len(borders))
	for i, b := range borders {
		static[i] = b
	}

	opts = append([]Option{WithWorkers(cfg.Workers), WithRoad(r)}, opts...)
	w, err := NewWorld(agents, static, opts...)
	if err != nil {
		return nil, err
	}
	if seed != nil {
		w.logger.Info("pilots seeded from brain file",
			zap.String("file", cfg.BrainFile),
			zap.Ints("topology", seed.Topology()),
			zap.Uint64("fingerprint", seed.Fingerprint()))
	}
	return w, nil
}

// Manual returns the keyboard-driven control source, or nil when every
// agent is autonomous.
func (w *World) Manual() *Manual {
	for _, a := range w.agents {
		if m, ok := a.Control.(*Manual); ok {
			return m
		}
	}
	return nil
}
