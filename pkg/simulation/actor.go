package simulation

import (
	"context"
	"fmt"
	"time"

	"github.com/tochemey/goakt/v3/actor"
	"github.com/tochemey/goakt/v3/goaktpb"
	golog "github.com/tochemey/goakt/v3/log"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// WorldActor owns a World and is its only writer. Each tick message
// (a wrapperspb.UInt32Value holding the number of steps) advances the world
// and pushes a snapshot to the UI channel without blocking.
type WorldActor struct {
	world      *World
	snapshotCh chan<- *Snapshot
	errCh      chan<- error
	failed     bool

	// --- Benchmark Stats ---
	stepCount   int
	lastLogTime time.Time
}

var _ actor.Actor = (*WorldActor)(nil)

// NewWorldActor creates the world logic unit.
func NewWorldActor(w *World, snapshotCh chan<- *Snapshot, errCh chan<- error) *WorldActor {
	return &WorldActor{
		world:       w,
		snapshotCh:  snapshotCh,
		errCh:       errCh,
		lastLogTime: time.Now(),
	}
}

func (w *WorldActor) PreStart(ctx *actor.Context) error {
	ctx.ActorSystem().Logger().Infof("World is starting with %d agents", len(w.world.Agents()))
	return nil
}

func (w *WorldActor) Receive(ctx *actor.ReceiveContext) {
	switch msg := ctx.Message().(type) {
	case *goaktpb.PostStart:
		ctx.Logger().Info("World started")
		w.pushSnapshot()

	case *wrapperspb.UInt32Value:
		if w.failed {
			return
		}
		for i := uint32(0); i < max(msg.GetValue(), 1); i++ {
			if err := w.world.Step(context.Background()); err != nil {
				w.failed = true
				ctx.Logger().Errorf("World step failed: %v", err)
				w.pushError(err)
				return
			}
			w.stepCount++
		}
		w.logBenchmarks(ctx)
		w.pushSnapshot()

	default:
		ctx.Unhandled()
	}
}

func (w *WorldActor) PostStop(ctx *actor.Context) error {
	ctx.ActorSystem().Logger().Infof("World is shutdown at tick %d", w.world.Tick())
	return nil
}

func (w *WorldActor) logBenchmarks(ctx *actor.ReceiveContext) {
	if time.Since(w.lastLogTime) >= time.Second {
		ctx.Logger().Infof("STEP RATE: %d/sec | Tick: %d | Damaged: %d/%d",
			w.stepCount, w.world.Tick(), w.world.Damaged(), len(w.world.Agents()))
		w.stepCount = 0
		w.lastLogTime = time.Now()
	}
}

func (w *WorldActor) pushSnapshot() {
	if w.snapshotCh == nil {
		return
	}
	select {
	case w.snapshotCh <- w.world.Snapshot():
	default:
		// UI busy, skip frame
	}
}

func (w *WorldActor) pushError(err error) {
	if w.errCh == nil {
		return
	}
	select {
	case w.errCh <- err:
	default:
	}
}

// Runner hosts a WorldActor in its own actor system.
type Runner struct {
	system    actor.ActorSystem
	pid       *actor.PID
	snapshots chan *Snapshot
	errs      chan error
}

// NewRunner starts an actor system and spawns the world actor in it.
func NewRunner(ctx context.Context, w *World, logger golog.Logger) (*Runner, error) {
	system, err := actor.NewActorSystem("SelfDriving",
		actor.WithLogger(logger),
		actor.WithActorInitMaxRetries(3))
	if err != nil {
		return nil, fmt.Errorf("failed to create actor system: %w", err)
	}
	if err := system.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start actor system: %w", err)
	}

	r := &Runner{
		system:    system,
		snapshots: make(chan *Snapshot, 10), // Buffer to avoid blocking
		errs:      make(chan error, 1),
	}
	r.pid, err = system.Spawn(ctx, "world", NewWorldActor(w, r.snapshots, r.errs))
	if err != nil {
		_ = system.Stop(ctx)
		return nil, fmt.Errorf("failed to spawn world: %w", err)
	}
	return r, nil
}

// Tick asks the world to advance n steps.
func (r *Runner) Tick(ctx context.Context, n uint32) error {
	return actor.Tell(ctx, r.pid, wrapperspb.UInt32(n))
}

// Run sends one tick per period until ctx is done or the world fails.
func (r *Runner) Run(ctx context.Context, ticksPerSecond int) error {
	ticker := time.NewTicker(time.Second / time.Duration(max(ticksPerSecond, 1)))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-r.errs:
			return err
		case <-ticker.C:
			if err := r.Tick(ctx, 1); err != nil {
				return err
			}
		}
	}
}

// Snapshots delivers the state after each tick. Frames are dropped when the
// reader falls behind.
func (r *Runner) Snapshots() <-chan *Snapshot { return r.snapshots }

// Errors delivers the step error that stopped the world, if any.
func (r *Runner) Errors() <-chan error { return r.errs }

// Stop shuts the actor system down.
func (r *Runner) Stop(ctx context.Context) error {
	return r.system.Stop(ctx)
}
