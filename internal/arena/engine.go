package arena

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lao-tseu-is-alive/go-cell-arena/pkg/simulation"
	"github.com/tochemey/goakt/v3/actor"
	golog "github.com/tochemey/goakt/v3/log"
)

// Engine is the actor system hosting one world actor, plus the channel the
// world publishes snapshots on.
type Engine struct {
	System    actor.ActorSystem
	world     *actor.PID
	snapshots chan *simulation.WorldSnapshot
}

// Start boots an actor system and spawns the world actor around sim.
// sim must not be used by the caller afterwards.
func Start(ctx context.Context, sim *simulation.Simulation, logger golog.Logger, opts ...Option) (*Engine, error) {
	if logger == nil {
		logger = golog.DiscardLogger
	}
	system, err := actor.NewActorSystem("CellArena",
		actor.WithLogger(logger),
		actor.WithActorInitMaxRetries(3))
	if err != nil {
		return nil, fmt.Errorf("create actor system: %w", err)
	}
	if err := system.Start(ctx); err != nil {
		return nil, fmt.Errorf("start actor system: %w", err)
	}

	// Buffer to avoid blocking
	snapshots := make(chan *simulation.WorldSnapshot, 10)
	pid, err := system.Spawn(ctx, "world", NewWorldActor(sim, snapshots, opts...))
	if err != nil {
		_ = system.Stop(ctx)
		return nil, fmt.Errorf("spawn world: %w", err)
	}
	return &Engine{System: system, world: pid, snapshots: snapshots}, nil
}

// Snapshots delivers the world after each frame. Frames are dropped while
// nobody reads.
func (e *Engine) Snapshots() <-chan *simulation.WorldSnapshot { return e.snapshots }

// Tick asks the world for one frame.
func (e *Engine) Tick(ctx context.Context, in simulation.HumanInput) error {
	return actor.Tell(ctx, e.world, NewTick(in))
}

// Reset asks the world to rebuild its populations.
func (e *Engine) Reset(ctx context.Context, rs simulation.ResetSettings) error {
	msg, err := NewReset(rs)
	if err != nil {
		return fmt.Errorf("encode reset: %w", err)
	}
	return actor.Tell(ctx, e.world, msg)
}

// Run ticks the world tps times per second until ctx is done. It is the
// frame clock of front ends without their own game loop.
func (e *Engine) Run(ctx context.Context, tps int) error {
	if tps <= 0 {
		return fmt.Errorf("tps must be positive, got %d", tps)
	}
	ticker := time.NewTicker(time.Second / time.Duration(tps))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()
		case <-ticker.C:
			if err := e.Tick(ctx, simulation.HumanInput{}); err != nil {
				return fmt.Errorf("tick: %w", err)
			}
		}
	}
}

// Stop shuts the actor system down; the world flushes its recorder.
func (e *Engine) Stop(ctx context.Context) error {
	return e.System.Stop(ctx)
}
