package main

import (
	"context"
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/lao-tseu-is-alive/go-selfdriving-simulation/internal/logging"
	"github.com/lao-tseu-is-alive/go-selfdriving-simulation/pkg/simulation"
	"github.com/lao-tseu-is-alive/go-selfdriving-simulation/pkg/viewer"
	golog "github.com/tochemey/goakt/v3/log"
	"go.uber.org/zap"
)

func main() {
	configFile := flag.String("config", "", "path to a json or yaml config file")
	logLevel := flag.String("log-level", "info", "debug, info, warn or error")
	brainOut := flag.String("brain-out", "best-brain.json", "where the save button writes the leader's brain")
	flag.Parse()

	logger, err := logging.New(*logLevel, false)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	cfg := simulation.DefaultConfig()
	if *configFile != "" {
		if cfg, err = simulation.LoadConfig(*configFile); err != nil {
			logger.Fatal("failed to load config", zap.Error(err))
		}
	}

	ctx := context.Background()
	world, err := simulation.NewHighway(cfg, simulation.WithLogger(logger))
	if err != nil {
		logger.Fatal("failed to build highway", zap.Error(err))
	}
	runner, err := simulation.NewRunner(ctx, world, golog.DefaultLogger)
	if err != nil {
		logger.Fatal("failed to start world", zap.Error(err))
	}
	defer func() { _ = runner.Stop(ctx) }()

	ebiten.SetWindowSize(cfg.WindowWidth+viewer.PanelWidth, cfg.WindowHeight)
	ebiten.SetWindowTitle("Self-driving cars")

	game := viewer.NewGame(ctx, cfg, world, runner, viewer.Options{BrainOut: *brainOut, Logger: logger})
	if err := ebiten.RunGame(game); err != nil {
		logger.Error("game stopped", zap.Error(err))
	}
}
