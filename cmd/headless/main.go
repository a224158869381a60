package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lao-tseu-is-alive/go-selfdriving-simulation/internal/logging"
	"github.com/lao-tseu-is-alive/go-selfdriving-simulation/pkg/network"
	"github.com/lao-tseu-is-alive/go-selfdriving-simulation/pkg/simulation"
	"github.com/lao-tseu-is-alive/go-selfdriving-simulation/pkg/telemetry"
	golog "github.com/tochemey/goakt/v3/log"
	"go.uber.org/zap"
)

// ticks sent per actor message when running a fixed number of ticks
const batch = 100

func main() {
	configFile := flag.String("config", "", "path to a json or yaml config file")
	logLevel := flag.String("log-level", "info", "debug, info, warn or error")
	jsonLogs := flag.Bool("json", false, "log as json")
	ticks := flag.Uint("ticks", 0, "run this many ticks as fast as possible, 0 runs in real time until interrupted")
	addr := flag.String("addr", "", "serve snapshots over websocket on this address, e.g. :8080")
	brainOut := flag.String("brain-out", "", "write the leader's brain here when done")
	flag.Parse()

	logger, err := logging.New(*logLevel, *jsonLogs)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(logger, *configFile, uint32(*ticks), *addr, *brainOut); err != nil {
		logger.Error("simulation failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(logger *zap.Logger, configFile string, ticks uint32, addr, brainOut string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := simulation.DefaultConfig()
	if configFile != "" {
		var err error
		if cfg, err = simulation.LoadConfig(configFile); err != nil {
			return err
		}
	}

	world, err := simulation.NewHighway(cfg, simulation.WithLogger(logger))
	if err != nil {
		return err
	}

	hub := telemetry.NewHub(logger)
	defer hub.Close()
	if addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/ws", hub)
		srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("telemetry server stopped", zap.Error(err))
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
		logger.Info("serving telemetry", zap.String("addr", addr), zap.String("path", "/ws"))
	}

	runner, err := simulation.NewRunner(ctx, world, golog.DefaultLogger)
	if err != nil {
		return err
	}

	if ticks > 0 {
		err = runFixed(ctx, runner, hub, ticks)
	} else {
		err = runRealTime(ctx, runner, hub, cfg.TicksPerSecond)
	}
	// the world is only safe to read once its actor is gone
	if stopErr := runner.Stop(context.Background()); stopErr != nil {
		logger.Warn("failed to stop actor system", zap.Error(stopErr))
	}
	if err != nil {
		return err
	}

	report(logger, world)
	if brainOut != "" {
		return saveLeader(logger, world, brainOut)
	}
	return nil
}

func runFixed(ctx context.Context, runner *simulation.Runner, hub *telemetry.Hub, ticks uint32) error {
	var sent uint32
	for sent < ticks && ctx.Err() == nil {
		n := min(batch, ticks-sent)
		if err := runner.Tick(ctx, n); err != nil {
			return err
		}
		sent += n
		if err := waitFor(ctx, runner, hub, uint64(sent)); err != nil {
			return err
		}
	}
	return nil
}

// waitFor forwards snapshots until one reaches tick.
func waitFor(ctx context.Context, runner *simulation.Runner, hub *telemetry.Hub, tick uint64) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-runner.Errors():
			return err
		case s := <-runner.Snapshots():
			_ = hub.Broadcast(s)
			if s.Tick >= tick {
				return nil
			}
		}
	}
}

func runRealTime(ctx context.Context, runner *simulation.Runner, hub *telemetry.Hub, tps int) error {
	done := make(chan error, 1)
	go func() { done <- runner.Run(ctx, tps) }()
	for {
		select {
		case err := <-done:
			return err
		case s := <-runner.Snapshots():
			_ = hub.Broadcast(s)
		}
	}
}

func report(logger *zap.Logger, world *simulation.World) {
	fields := []zap.Field{
		zap.Uint64("tick", world.Tick()),
		zap.Int("damaged", world.Damaged()),
		zap.Int("agents", len(world.Agents())),
	}
	if l := world.Leader(); l != nil {
		fields = append(fields,
			zap.String("leader", l.Label),
			zap.Float64("leader_y", l.Body.Pose.Y),
			zap.Bool("leader_damaged", l.Damaged()))
	}
	logger.Info("simulation finished", fields...)
}

func saveLeader(logger *zap.Logger, world *simulation.World, path string) error {
	l := world.Leader()
	if l == nil || l.Brain == nil {
		logger.Warn("no leader brain to save")
		return nil
	}
	if err := network.SaveFile(path, l.Brain); err != nil {
		return err
	}
	logger.Info("leader brain saved",
		zap.String("file", path),
		zap.String("leader", l.Label),
		zap.Uint64("fingerprint", l.Brain.Fingerprint()))
	return nil
}
