package main

import (
	"context"
	"flag"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lao-tseu-is-alive/go-cell-arena/internal/arena"
	"github.com/lao-tseu-is-alive/go-cell-arena/pkg/policy"
	"github.com/lao-tseu-is-alive/go-cell-arena/pkg/recorder"
	"github.com/lao-tseu-is-alive/go-cell-arena/pkg/simulation"
	"github.com/lao-tseu-is-alive/go-cell-arena/pkg/spectate"
	golog "github.com/tochemey/goakt/v3/log"
)

func main() {
	configPath := flag.String("config", "", "arena config file (JSON); defaults are used when empty")
	seed := flag.Uint64("seed", 0, "random seed, 0 picks one")
	modelsDir := flag.String("models", "models", "directory holding <archetype>.onnx policy models")
	recordDir := flag.String("record", "", "write model decisions as parquet files to this directory")
	batch := flag.Int("batch", 4096, "decisions per parquet file")
	tps := flag.Int("tps", 60, "frames per second")
	spectateAddr := flag.String("spectate", "", "serve a websocket snapshot feed on this address, e.g. :8080")
	useTUI := flag.Bool("tui", true, "show the leaderboard dashboard; logs go to -log")
	logPath := flag.String("log", "arena-headless.log", "log file used while the dashboard is shown")
	flag.Parse()

	var logOut io.Writer = os.Stderr
	if *useTUI {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		logOut = f
	}
	logger := golog.New(golog.InfoLevel, logOut)

	cfg := simulation.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = simulation.LoadConfig(*configPath); err != nil {
			log.Fatal(err)
		}
	}
	// nobody steers a human cell here
	cfg.HumanPlayer = false

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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine, err := arena.Start(ctx, sim, logger, arenaOpts...)
	if err != nil {
		log.Fatal(err)
	}
	defer func() {
		// the signal context is gone by now
		stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := engine.Stop(stopCtx); err != nil {
			log.Printf("stop arena: %v", err)
		}
	}()

	var hub *spectate.Hub
	var spectators func() int
	if *spectateAddr != "" {
		hub = spectate.NewHub(logger)
		spectators = hub.Clients
		go func() {
			if err := hub.ListenAndServe(ctx, *spectateAddr); err != nil {
				logger.Warnf("spectator feed stopped: %v", err)
			}
		}()
	}

	updates := make(chan *simulation.WorldSnapshot, 1)
	go fanOut(ctx, engine.Snapshots(), hub, updates, logger)

	runErr := make(chan error, 1)
	go func() { runErr <- engine.Run(ctx, *tps) }()

	if !*useTUI {
		logStandings(ctx, updates, logger)
	} else {
		p := tea.NewProgram(initialModel(updates, spectators), tea.WithAltScreen(), tea.WithContext(ctx))
		if _, err := p.Run(); err != nil && ctx.Err() == nil {
			log.Printf("dashboard: %v", err)
		}
	}
	stop()
	if err := <-runErr; err != nil {
		log.Printf("arena loop: %v", err)
	}
}

// fanOut forwards every snapshot to the spectator hub and, when it keeps up,
// to out. out is closed when ctx ends.
func fanOut(ctx context.Context, in <-chan *simulation.WorldSnapshot, hub *spectate.Hub, out chan<- *simulation.WorldSnapshot, logger golog.Logger) {
	defer close(out)
	for {
		select {
		case <-ctx.Done():
			return
		case snap := <-in:
			if hub != nil {
				if err := hub.Publish(snap); err != nil {
					logger.Warnf("publish frame %d: %v", snap.Frame, err)
				}
			}
			select {
			case out <- snap:
			default:
			}
		}
	}
}

// logStandings replaces the dashboard with one log line per second.
func logStandings(ctx context.Context, updates <-chan *simulation.WorldSnapshot, logger golog.Logger) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	var last *simulation.WorldSnapshot
	for {
		select {
		case <-ctx.Done():
			return
		case snap, ok := <-updates:
			if !ok {
				return
			}
			last = snap
		case <-ticker.C:
			if last == nil || len(last.Leaderboard) == 0 {
				continue
			}
			top := last.Leaderboard[0]
			logger.Infof("frame %d | %d controllers | leader %s (%s) mass %.0f in %d blobs",
				last.Frame, len(last.Leaderboard), top.Name, top.Kind, top.Mass, top.Blobs)
		}
	}
}
