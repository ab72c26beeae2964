package policy

import "errors"

// ErrModelUnavailable is returned when an archetype has no usable model.
var ErrModelUnavailable = errors.New("policy: model unavailable")

// Model turns a batch of stacked observations into one action per row.
// Implementations must return exactly len(batch) actions or an error.
type Model interface {
	Predict(batch [][]float32) ([]Action, error)
	Close() error
}

// ModelFunc adapts a plain function to Model.
type ModelFunc func(batch [][]float32) ([]Action, error)

func (f ModelFunc) Predict(batch [][]float32) ([]Action, error) { return f(batch) }

func (f ModelFunc) Close() error { return nil }
