// Package viewer renders a running highway with ebiten and feeds keyboard
// input back into the simulation.
package viewer

import (
	"context"
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/lao-tseu-is-alive/go-selfdriving-simulation/pkg/network"
	"github.com/lao-tseu-is-alive/go-selfdriving-simulation/pkg/simulation"
	"github.com/lao-tseu-is-alive/go-selfdriving-simulation/pkg/ui"
	"go.uber.org/zap"
)

// PanelWidth is the width of the control panel right of the road.
const PanelWidth = 240

// Options tune the viewer.
type Options struct {
	// BrainOut is where the leader's brain is written by the save button.
	BrainOut string
	Logger   *zap.Logger
}

type Game struct {
	ctx    context.Context
	runner *simulation.Runner
	world  *simulation.World
	manual *simulation.Manual
	cfg    *simulation.Config
	opts   Options

	lastState *simulation.Snapshot
	err       error
	paused    bool
	status    string

	// UI Controls
	panel               *ui.Panel
	widgetTicksPerFrame *ui.Slider
	widgetShowSensors   *ui.Checkbox
	widgetShowNetwork   *ui.Checkbox
	widgetFollowLeader  *ui.Checkbox

	// Timing instrumentation
	updateAvg float64 // Rolling average in ms
	drawAvg   float64 // Rolling average in ms
}

// NewGame wires a viewer to a runner driving world. The world is only read
// for data that never changes after construction (road, brains).
func NewGame(ctx context.Context, cfg *simulation.Config, world *simulation.World, runner *simulation.Runner, opts Options) *Game {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	g := &Game{
		ctx:       ctx,
		runner:    runner,
		world:     world,
		manual:    world.Manual(),
		cfg:       cfg,
		opts:      opts,
		lastState: &simulation.Snapshot{},
	}

	panel := ui.NewPanel("Self-driving highway", float64(cfg.WindowWidth), 0, PanelWidth, float64(cfg.WindowHeight))
	panel.AddSection("Simulation")
	g.widgetTicksPerFrame = panel.AddSlider("Ticks per frame", 1, 20, 1, 1)
	panel.AddButton("Pause / resume (P)", func() { g.paused = !g.paused })
	if opts.BrainOut != "" {
		panel.AddButton("Save leader brain", g.saveLeaderBrain)
	}

	panel.AddSection("Visualization")
	g.widgetShowSensors = panel.AddCheckbox("Show sensors", true)
	g.widgetFollowLeader = panel.AddCheckbox("Follow leader", true)
	g.widgetShowNetwork = panel.AddCheckbox("Show leader network", false)

	panel.AddSection("Stats")
	panel.AddLabel(func() string { return fmt.Sprintf("Tick: %d", g.lastState.Tick) })
	panel.AddLabel(func() string {
		return fmt.Sprintf("Damaged: %d/%d", g.lastState.Damaged, len(g.lastState.Agents))
	})
	panel.AddLabel(func() string {
		if l := g.leader(); l != nil {
			return fmt.Sprintf("Leader speed: %.2f", l.Speed)
		}
		return "Leader: none"
	})
	panel.AddLabel(func() string { return g.status })
	g.panel = panel
	return g
}

func (g *Game) Update() error {
	start := time.Now()
	defer func() {
		g.updateAvg = g.updateAvg*0.95 + float64(time.Since(start).Microseconds())/1000.0*0.05
	}()
	if g.err != nil {
		return g.err
	}

	g.panel.Update()
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.paused = !g.paused
	}
	if g.manual != nil {
		g.manual.Set(KeyboardControls())
	}

	// keep only the freshest snapshot
	for drained := false; !drained; {
		select {
		case snap := <-g.runner.Snapshots():
			g.lastState = snap
		default:
			drained = true
		}
	}
	select {
	case err := <-g.runner.Errors():
		g.opts.Logger.Error("simulation stopped", zap.Error(err))
		g.err = err
		return err
	default:
	}

	if !g.paused {
		if err := g.runner.Tick(g.ctx, uint32(g.widgetTicksPerFrame.Value)); err != nil {
			return fmt.Errorf("failed to send tick: %w", err)
		}
	}
	return nil
}

func (g *Game) leader() *simulation.AgentSnapshot {
	for i := range g.lastState.Agents {
		if g.lastState.Agents[i].ID == g.lastState.Leader {
			return &g.lastState.Agents[i]
		}
	}
	return nil
}

func (g *Game) camera() camera {
	h := float64(g.cfg.WindowHeight)
	if l := g.leader(); l != nil && g.widgetFollowLeader.Value {
		return camera{offsetY: l.Pose.Y - h*0.7}
	}
	return camera{offsetY: g.cfg.StartY - h*0.7}
}

func (g *Game) Draw(screen *ebiten.Image) {
	start := time.Now()
	defer func() {
		g.drawAvg = g.drawAvg*0.95 + float64(time.Since(start).Microseconds())/1000.0*0.05
	}()

	cam := g.camera()
	if r := g.world.Road(); r != nil {
		drawRoad(screen, r, cam, float64(g.cfg.WindowHeight))
	}

	leader := g.leader()
	for i := range g.lastState.Agents {
		a := &g.lastState.Agents[i]
		if a == leader {
			continue
		}
		alpha := float32(1)
		if a.Role == simulation.RolePilot {
			alpha = 0.2
		}
		drawCar(screen, a, cam, alpha)
	}
	if leader != nil {
		drawCar(screen, leader, cam, 1)
		if g.widgetShowSensors.Value {
			drawRays(screen, leader, cam)
		}
	}

	g.panel.Draw(screen)
	if g.widgetShowNetwork.Value && leader != nil {
		if a, ok := g.world.Agent(leader.ID); ok && a.Brain != nil {
			drawNetwork(screen, a.Brain, float64(g.cfg.WindowWidth)+10, float64(g.cfg.WindowHeight)-260, PanelWidth-20, 240)
		}
	}

	msg := fmt.Sprintf("FPS: %.2f\nTPS: %.2f\nUpdate: %.2fms\nDraw:   %.2fms",
		ebiten.ActualFPS(), ebiten.ActualTPS(), g.updateAvg, g.drawAvg)
	if g.paused {
		msg += "\nPAUSED"
	}
	ebitenutil.DebugPrintAt(screen, msg, 10, 10)
}

func (g *Game) saveLeaderBrain() {
	l := g.leader()
	if l == nil {
		g.status = "no leader to save"
		return
	}
	a, ok := g.world.Agent(l.ID)
	if !ok || a.Brain == nil {
		g.status = "leader has no brain"
		return
	}
	if err := network.SaveFile(g.opts.BrainOut, a.Brain); err != nil {
		g.opts.Logger.Error("failed to save brain", zap.Error(err))
		g.status = "save failed"
		return
	}
	g.opts.Logger.Info("leader brain saved",
		zap.String("file", g.opts.BrainOut),
		zap.String("agent", a.Label),
		zap.Uint64("fingerprint", a.Brain.Fingerprint()))
	g.status = "saved " + a.Label
}

func (g *Game) Layout(w, h int) (int, int) {
	return g.cfg.WindowWidth + PanelWidth, g.cfg.WindowHeight
}
