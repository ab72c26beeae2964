// Package arena runs a simulation inside a goakt actor: the world actor's
// mailbox serialises frames, resets and model inference.
package arena

import (
	"errors"
	"fmt"
	"time"

	"github.com/lao-tseu-is-alive/go-cell-arena/pkg/policy"
	"github.com/lao-tseu-is-alive/go-cell-arena/pkg/recorder"
	"github.com/lao-tseu-is-alive/go-cell-arena/pkg/simulation"
	"github.com/tochemey/goakt/v3/actor"
	"github.com/tochemey/goakt/v3/goaktpb"
	golog "github.com/tochemey/goakt/v3/log"
	"google.golang.org/protobuf/types/known/structpb"
)

// WorldActor owns the simulation. Nothing else touches it once spawned.
type WorldActor struct {
	sim        *simulation.Simulation
	models     *policy.Registry
	recorder   *recorder.Recorder
	snapshotCh chan<- *simulation.WorldSnapshot

	warned map[string]bool // archetypes whose inference failure was reported

	// --- Benchmark Stats ---
	frames      int
	stepTime    time.Duration
	inferTime   time.Duration
	lastLogTime time.Time
}

type Option func(*WorldActor)

// WithModels sets the registry used for model-driven opponents.
func WithModels(r *policy.Registry) Option {
	return func(w *WorldActor) { w.models = r }
}

// WithRecorder records every model decision.
func WithRecorder(r *recorder.Recorder) Option {
	return func(w *WorldActor) { w.recorder = r }
}

// NewWorldActor creates the world logic unit. Snapshots are pushed to
// snapshotCh after every frame without blocking; a nil channel disables them.
func NewWorldActor(sim *simulation.Simulation, snapshotCh chan<- *simulation.WorldSnapshot, opts ...Option) *WorldActor {
	w := &WorldActor{
		sim:         sim,
		snapshotCh:  snapshotCh,
		warned:      make(map[string]bool),
		lastLogTime: time.Now(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *WorldActor) PreStart(ctx *actor.Context) error {
	ctx.ActorSystem().Logger().Infof("World is starting: %d controllers", len(w.sim.World().Controllers))
	return nil
}

func (w *WorldActor) Receive(ctx *actor.ReceiveContext) {
	switch msg := ctx.Message().(type) {
	case *goaktpb.PostStart:
		ctx.Logger().Info("World started")
		w.pushSnapshot()

	case *structpb.Struct:
		if err := w.handle(msg, ctx.Logger()); err != nil {
			ctx.Logger().Warnf("world: %v", err)
		}

	default:
		ctx.Unhandled()
	}
}

func (w *WorldActor) PostStop(ctx *actor.Context) error {
	if w.recorder == nil {
		return nil
	}
	if err := w.recorder.Close(); err != nil {
		return fmt.Errorf("flush recorder: %w", err)
	}
	ctx.ActorSystem().Logger().Infof("recorded %d decisions in %d files", w.recorder.Total(), len(w.recorder.Files()))
	return nil
}

// handle applies one envelope. It is the whole message protocol, kept free
// of actor plumbing.
func (w *WorldActor) handle(msg *structpb.Struct, logger golog.Logger) error {
	cmd, err := decode(msg)
	if err != nil {
		return err
	}
	switch cmd := cmd.(type) {
	case tickCmd:
		w.step(cmd.human, logger)
	case resetCmd:
		w.sim.Reset(cmd.settings)
		w.pushSnapshot()
	}
	return nil
}

// step runs one frame: observe, infer, advance, record, publish.
func (w *WorldActor) step(human simulation.HumanInput, logger golog.Logger) simulation.FrameStats {
	obs := w.sim.Observe()

	start := time.Now()
	actions, err := w.infer(obs)
	w.inferTime += time.Since(start)
	if err != nil {
		logger.Warnf("inference: %v", err)
	}

	stats := w.sim.Step(simulation.FrameInput{Human: human, Actions: actions})
	w.stepTime += stats.Duration
	w.frames++

	if w.recorder != nil && len(obs) > 0 {
		if err := w.recorder.Add(w.decisions(stats.Frame, obs, actions)...); err != nil {
			logger.Warnf("recorder: %v", err)
		}
	}

	w.logBenchmarks(logger)
	w.pushSnapshot()
	return stats
}

// infer batches observations per archetype. A failing archetype is reported
// once and its controllers get the zero action.
func (w *WorldActor) infer(obs []simulation.Observation) (map[simulation.ControllerID]policy.Action, error) {
	actions := make(map[simulation.ControllerID]policy.Action, len(obs))
	if len(obs) == 0 {
		return actions, nil
	}

	batches := make(map[string][]int)
	var order []string
	for i, o := range obs {
		if _, seen := batches[o.Archetype]; !seen {
			order = append(order, o.Archetype)
		}
		batches[o.Archetype] = append(batches[o.Archetype], i)
	}

	var errs []error
	for _, name := range order {
		idx := batches[name]
		out, err := w.predict(name, obs, idx)
		if err != nil {
			if !w.warned[name] {
				w.warned[name] = true
				errs = append(errs, fmt.Errorf("%s: %w", name, err))
			}
			continue
		}
		for k, i := range idx {
			actions[obs[i].Controller] = out[k]
		}
	}
	return actions, errors.Join(errs...)
}

func (w *WorldActor) predict(name string, obs []simulation.Observation, idx []int) ([]policy.Action, error) {
	m, err := w.models.Model(name)
	if err != nil {
		return nil, err
	}
	batch := make([][]float32, len(idx))
	for k, i := range idx {
		batch[k] = obs[i].Data
	}
	out, err := m.Predict(batch)
	if err != nil {
		return nil, err
	}
	if len(out) != len(batch) {
		return nil, fmt.Errorf("model returned %d actions for %d observations", len(out), len(batch))
	}
	return out, nil
}

func (w *WorldActor) decisions(frame uint64, obs []simulation.Observation, actions map[simulation.ControllerID]policy.Action) []recorder.Decision {
	cfg := w.sim.Config()
	rows := make([]recorder.Decision, 0, len(obs))
	for _, o := range obs {
		a := actions[o.Controller].Clamped()
		mass := 0.0
		if c, err := w.sim.World().Controller(o.Controller); err == nil {
			mass = c.Mass()
		}
		rows = append(rows, recorder.Decision{
			Frame:      int64(frame),
			Controller: int32(o.Controller),
			Archetype:  o.Archetype,
			Mass:       float32(mass),
			MoveX:      a.MoveX,
			MoveY:      a.MoveY,
			Special:    int32(a.Special),
			ObsDepth:   int32(cfg.StackDepth),
			ObsSize:    int32(cfg.ObsSize),
			Obs:        recorder.Quantize(o.Data),
		})
	}
	return rows
}

func (w *WorldActor) logBenchmarks(logger golog.Logger) {
	elapsed := time.Since(w.lastLogTime)
	if elapsed < time.Second || w.frames == 0 {
		return
	}
	logger.Infof("📊 FRAMES: %.1f/sec | step %.2fms | inference %.2fms | controllers %d | blobs %d",
		float64(w.frames)/elapsed.Seconds(),
		float64(w.stepTime.Microseconds())/1000/float64(w.frames),
		float64(w.inferTime.Microseconds())/1000/float64(w.frames),
		len(w.sim.World().Controllers),
		w.sim.World().BlobCount())
	w.frames = 0
	w.stepTime = 0
	w.inferTime = 0
	w.lastLogTime = time.Now()
}

func (w *WorldActor) pushSnapshot() {
	if w.snapshotCh == nil {
		return
	}
	select {
	case w.snapshotCh <- w.sim.Snapshot():
	default:
		// UI busy, skip frame
	}
}
