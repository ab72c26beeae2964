package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/lao-tseu-is-alive/go-cell-arena/internal/arena"
	"github.com/lao-tseu-is-alive/go-cell-arena/pkg/policy"
	"github.com/lao-tseu-is-alive/go-cell-arena/pkg/recorder"
	"github.com/lao-tseu-is-alive/go-cell-arena/pkg/simulation"
	"github.com/lao-tseu-is-alive/go-cell-arena/pkg/viewer"
	golog "github.com/tochemey/goakt/v3/log"
)

func main() {
	configPath := flag.String("config", "", "arena config file (JSON); defaults are used when empty")
	seed := flag.Uint64("seed", 0, "random seed, 0 picks one")
	modelsDir := flag.String("models", "models", "directory holding <archetype>.onnx policy models")
	recordDir := flag.String("record", "", "write model decisions as parquet files to this directory")
	batch := flag.Int("batch", 4096, "decisions per parquet file")
	tps := flag.Int("tps", 60, "frames per second")
	debug := flag.Bool("debug", false, "debug logging")
	flag.Parse()

	level := golog.InfoLevel
	if *debug {
		level = golog.DebugLevel
	}
	logger := golog.New(level, os.Stderr)

	cfg := simulation.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = simulation.LoadConfig(*configPath); err != nil {
			log.Fatal(err)
		}
	}

	models := policy.LoadRegistry(*modelsDir, policy.Archetypes, policy.OnnxLoader(cfg.ObsSize, cfg.StackDepth), logger)
	defer models.Close()

	simOpts := []simulation.Option{
		simulation.WithLogger(logger),
		simulation.WithArchetypes(models.Available()...),
	}
	if *seed != 0 {
		simOpts = append(simOpts, simulation.WithSeed(*seed))
	}
	sim, err := simulation.New(cfg, simOpts...)
	if err != nil {
		log.Fatal(err)
	}

	arenaOpts := []arena.Option{arena.WithModels(models)}
	if *recordDir != "" {
		rec, err := recorder.New(*recordDir, *batch, logger)
		if err != nil {
			log.Fatal(err)
		}
		arenaOpts = append(arenaOpts, arena.WithRecorder(rec))
	}

	ctx := context.Background()
	engine, err := arena.Start(ctx, sim, logger, arenaOpts...)
	if err != nil {
		log.Fatal(err)
	}
	defer engine.Stop(ctx)

	settings := viewer.NewSettings(cfg, policy.Archetypes, cfg.WorldHeight-20, nil)
	game := viewer.NewGame(ctx, engine, cfg, settings, logger)

	ebiten.SetWindowSize(int(cfg.WorldWidth), int(cfg.WorldHeight))
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowTitle("Cell Arena")
	ebiten.SetTPS(*tps)
	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
