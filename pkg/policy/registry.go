package policy

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	golog "github.com/tochemey/goakt/v3/log"
)

// Archetypes known to the arena settings.
var Archetypes = []string{"aggressor", "farmer", "survivor"}

// Loader opens the model stored at path.
type Loader func(path string) (Model, error)

// Registry maps archetype names to loaded models.
// Archetypes whose model could not be loaded are remembered with the reason
// and reported once, when the registry is built.
type Registry struct {
	models  map[string]Model
	missing map[string]error
}

// NewRegistry builds a registry from already constructed models.
func NewRegistry(models map[string]Model) *Registry {
	r := &Registry{models: make(map[string]Model, len(models)), missing: map[string]error{}}
	for name, m := range models {
		if m != nil {
			r.models[name] = m
		}
	}
	return r
}

// LoadRegistry loads <dir>/<archetype>.onnx for every archetype using load.
// A missing or broken model is not fatal: the archetype is skipped and a
// single warning is logged here.
func LoadRegistry(dir string, archetypes []string, load Loader, logger golog.Logger) *Registry {
	if logger == nil {
		logger = golog.DiscardLogger
	}
	r := NewRegistry(nil)
	for _, name := range archetypes {
		path := filepath.Join(dir, name+".onnx")
		if _, err := os.Stat(path); err != nil {
			r.missing[name] = fmt.Errorf("%w: %s: %w", ErrModelUnavailable, name, err)
			logger.Warnf("model for archetype %q not found at %s, archetype disabled", name, path)
			continue
		}
		m, err := load(path)
		if err != nil {
			r.missing[name] = fmt.Errorf("%w: %s: %w", ErrModelUnavailable, name, err)
			logger.Warnf("model for archetype %q failed to load: %v, archetype disabled", name, err)
			continue
		}
		r.models[name] = m
		logger.Infof("loaded model for archetype %q from %s", name, path)
	}
	return r
}

// Model returns the model of an archetype or an error wrapping
// ErrModelUnavailable.
func (r *Registry) Model(archetype string) (Model, error) {
	if r == nil {
		return nil, fmt.Errorf("%w: %s", ErrModelUnavailable, archetype)
	}
	if m, ok := r.models[archetype]; ok {
		return m, nil
	}
	if err, ok := r.missing[archetype]; ok {
		return nil, err
	}
	return nil, fmt.Errorf("%w: %s", ErrModelUnavailable, archetype)
}

// Available lists the loaded archetypes in sorted order.
func (r *Registry) Available() []string {
	if r == nil {
		return nil
	}
	out := make([]string, 0, len(r.models))
	for name := range r.models {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

// Close releases every model.
func (r *Registry) Close() error {
	if r == nil {
		return nil
	}
	var errs []error
	for name, m := range r.models {
		if err := m.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", name, err))
		}
	}
	clear(r.models)
	return errors.Join(errs...)
}
