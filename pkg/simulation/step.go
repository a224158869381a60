package simulation

import (
	"context"
	"fmt"

	"github.com/lao-tseu-is-alive/go-selfdriving-simulation/pkg/geometry"
	"github.com/paulmach/orb"
	"golang.org/x/sync/errgroup"
)

// environment yields the obstacles an agent has to consider inside an area.
// Both implementations must return a superset of what can touch the area.
type environment interface {
	refresh(agents []*Agent)
	obstacles(dst []geometry.Shape, a *Agent, area orb.Bound) ([]geometry.Shape, error)
}

// everything hands every static shape and every other agent to every agent.
type everything struct {
	static []geometry.Shape
	agents []*Agent
}

func (e *everything) refresh([]*Agent) {}

func (e *everything) obstacles(dst []geometry.Shape, a *Agent, _ orb.Bound) ([]geometry.Shape, error) {
	dst = append(dst, e.static...)
	for _, o := range e.agents {
		if a.interactsWith(o) {
			dst = append(dst, o.polygon)
		}
	}
	return dst, nil
}

// step advances agents by one tick in three phases separated by barriers:
//  1. every intact agent picks its controls, moves and rebuilds its outline
//  2. every agent that moved is checked against this tick's outlines
//  3. every agent with a sensor refreshes it, wrecks included
//
// The outcome does not depend on agent order. It returns the agents that
// crashed during this tick.
func step(ctx context.Context, agents []*Agent, sources []ControlSource, env environment, workers int, tick uint64) ([]*Agent, error) {
	if sources != nil && len(sources) != len(agents) {
		return nil, ErrSourceCount
	}
	for i, a := range agents {
		if a == nil {
			return nil, fmt.Errorf("%w: agent %d is nil", ErrInvalidAgent, i)
		}
	}
	// a tick is never abandoned half way, cancellation only prevents it
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	moving := make([]*Agent, 0, len(agents))
	movingSources := make([]ControlSource, 0, len(agents))
	sensing := make([]*Agent, 0, len(agents))
	for i, a := range agents {
		if a.Sensor != nil {
			sensing = append(sensing, a)
		}
		if a.damaged {
			continue
		}
		src := a.Control
		if sources != nil && sources[i] != nil {
			src = sources[i]
		}
		moving = append(moving, a)
		movingSources = append(movingSources, src)
	}

	err := forEach(workers, moving, func(i int, a *Agent) error {
		c, err := movingSources[i].Control(a)
		if err != nil {
			return err
		}
		return a.drive(c)
	})
	if err != nil {
		return nil, err
	}

	env.refresh(agents)

	err = forEach(workers, moving, func(_ int, a *Agent) error {
		var err error
		a.scratch, err = env.obstacles(a.scratch[:0], a, a.polygon.Bound())
		if err != nil {
			return err
		}
		if err := a.assessDamage(a.scratch); err != nil {
			return err
		}
		if a.damaged {
			a.damagedAt = tick
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = forEach(workers, sensing, func(_ int, a *Agent) error {
		var err error
		a.scratch, err = env.obstacles(a.scratch[:0], a, a.senseArea())
		if err != nil {
			return err
		}
		return a.sense(a.scratch)
	})
	if err != nil {
		return nil, err
	}

	var crashed []*Agent
	for _, a := range moving {
		if a.damaged {
			crashed = append(crashed, a)
		}
	}
	return crashed, nil
}

// forEach runs fn over agents, serially or on up to workers goroutines.
// It returns once every call has finished, which makes it a phase barrier.
func forEach(workers int, agents []*Agent, fn func(i int, a *Agent) error) error {
	if workers <= 1 {
		for i, a := range agents {
			if err := fn(i, a); err != nil {
				return err
			}
		}
		return nil
	}
	var g errgroup.Group
	g.SetLimit(workers)
	for i, a := range agents {
		g.Go(func() error {
			return fn(i, a)
		})
	}
	return g.Wait()
}

// Advance steps agents by one tick against static borders, checking every
// agent against everything. sources may be nil, in which case each agent
// uses its own ControlSource; otherwise it must have one entry per agent
// and nil entries fall back to the agent's own source.
//
// Advance keeps no tick count: agents it damages report DamagedAt 0, so use
// Damaged to tell them from intact ones. World.Step numbers ticks from 1.
func Advance(agents []*Agent, borders []geometry.Shape, sources []ControlSource) error {
	env := &everything{static: borders, agents: agents}
	_, err := step(context.Background(), agents, sources, env, 1, 0)
	return err
}
