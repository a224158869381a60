package simulation

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/lao-tseu-is-alive/go-selfdriving-simulation/pkg/collision"
	"github.com/lao-tseu-is-alive/go-selfdriving-simulation/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-selfdriving-simulation/pkg/road"
	"github.com/paulmach/orb"
	"go.uber.org/zap"
)

// World owns a population of agents and the static obstacles around them,
// and advances them one tick at a time. It is not safe for concurrent use;
// the WorldActor serializes access when it is driven from several goroutines.
type World struct {
	agents  []*Agent
	byID    map[string]*Agent
	static  []geometry.Shape
	road    *road.Road
	env     *indexed
	workers int
	tick    uint64
	logger  *zap.Logger
}

type Option func(*World)

// WithLogger sets the logger used for damage events and step timings.
func WithLogger(l *zap.Logger) Option {
	return func(w *World) { w.logger = l }
}

// WithWorkers runs each tick phase on up to n goroutines. n <= 1 is serial.
func WithWorkers(n int) Option {
	return func(w *World) { w.workers = n }
}

// WithRoad attaches the road the static obstacles were built from, for viewers.
func WithRoad(r *road.Road) Option {
	return func(w *World) { w.road = r }
}

// NewWorld validates the population and indexes static obstacles.
func NewWorld(agents []*Agent, static []geometry.Shape, opts ...Option) (*World, error) {
	w := &World{
		agents: agents,
		byID:   make(map[string]*Agent, len(agents)),
		static: static,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}

	maxHalfDiag, maxReach := 0.0, 0.0
	for i, a := range agents {
		if a == nil {
			return nil, fmt.Errorf("%w: agent %d is nil", ErrInvalidAgent, i)
		}
		if _, dup := w.byID[a.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %s", ErrInvalidAgent, a.ID)
		}
		w.byID[a.ID] = a
		maxHalfDiag = math.Max(maxHalfDiag, a.halfDiagonal())
		maxReach = math.Max(maxReach, a.halfDiagonal())
		if a.Sensor != nil {
			maxReach = math.Max(maxReach, a.Sensor.Config().RayLength)
		}
	}

	index, err := collision.NewIndex(static)
	if err != nil {
		return nil, fmt.Errorf("failed to index static obstacles: %w", err)
	}
	w.env = &indexed{
		static: index,
		grid:   newSpatialGrid(maxReach),
		pad:    maxHalfDiag,
	}
	w.env.refresh(agents)

	w.logger.Info("world created",
		zap.Int("agents", len(agents)),
		zap.Int("static", index.Len()),
		zap.Float64("cellSize", w.env.grid.cellSize),
		zap.Int("workers", w.workers))
	return w, nil
}

// Step advances every agent by one tick. On error the tick counter is not
// advanced and the error names the failing tick.
func (w *World) Step(ctx context.Context) error {
	start := time.Now()
	next := w.tick + 1
	crashed, err := step(ctx, w.agents, nil, w.env, w.workers, next)
	if err != nil {
		return fmt.Errorf("tick %d: %w", next, err)
	}
	w.tick = next

	for _, a := range crashed {
		w.logger.Info("agent damaged",
			zap.String("id", a.ID),
			zap.String("label", a.Label),
			zap.String("role", string(a.Role)),
			zap.Uint64("tick", next),
			zap.Float64("x", a.Body.X),
			zap.Float64("y", a.Body.Y))
	}
	w.logger.Debug("world stepped",
		zap.Uint64("tick", next),
		zap.Int("crashed", len(crashed)),
		zap.Duration("took", time.Since(start)))
	return nil
}

// Tick is the number of completed steps.
func (w *World) Tick() uint64 { return w.tick }

// Agents returns the population in construction order.
func (w *World) Agents() []*Agent { return w.agents }

// Agent looks an agent up by id.
func (w *World) Agent(id string) (*Agent, bool) {
	a, ok := w.byID[id]
	return a, ok
}

// Static returns the static obstacles.
func (w *World) Static() []geometry.Shape { return w.static }

// Road returns the road set by WithRoad, or nil.
func (w *World) Road() *road.Road { return w.road }

// Leader is the pilot furthest up the road (smallest y), wrecked or not.
// It returns nil when there are no pilots.
func (w *World) Leader() *Agent {
	var best *Agent
	for _, a := range w.agents {
		if a.Role != RolePilot {
			continue
		}
		if best == nil || a.Body.Y < best.Body.Y {
			best = a
		}
	}
	return best
}

// Damaged counts the wrecked agents.
func (w *World) Damaged() int {
	n := 0
	for _, a := range w.agents {
		if a.damaged {
			n++
		}
	}
	return n
}

// indexed narrows obstacles with an R-tree over static shapes and a spatial
// grid over agents.
type indexed struct {
	static *collision.Index
	grid   *spatialGrid
	// largest agent half diagonal: an agent whose center is farther than this
	// from an area cannot overlap it
	pad float64
}

func (x *indexed) refresh(agents []*Agent) {
	x.grid.rebuild(agents)
}

func (x *indexed) obstacles(dst []geometry.Shape, a *Agent, area orb.Bound) ([]geometry.Shape, error) {
	dst, err := x.static.Query(dst, area)
	if err != nil {
		return dst, err
	}
	if a.IgnoreAgents {
		return dst, nil
	}
	x.grid.visit(area.Pad(x.pad), func(o *Agent) {
		if a.interactsWith(o) && o.polygon.Bound().Intersects(area) {
			dst = append(dst, o.polygon)
		}
	})
	return dst, nil
}
