// Package distribution provides the random-value generators used by sources
// and reactions. Every variant draws from a core.Sampler, so a deterministic
// sampler gives deterministic values.
package distribution

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-particle-transport/pkg/core"
)

// ErrInvalidParameter is returned by constructors given unusable parameters
var ErrInvalidParameter = errors.New("invalid distribution parameter")

// Distribution produces values of type T from uniform draws
type Distribution[T any] interface {
	Name() string
	Sample(sampler core.Sampler) T
}

type named struct {
	name string
}

// Name returns the configured name of the distribution
func (n named) Name() string {
	return n.name
}

func invalid(name, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidParameter, name, fmt.Sprintf(format, args...))
}

func finite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Delta always returns the same value
type Delta[T any] struct {
	named
	Value T
}

// NewDelta creates a distribution that always returns value
func NewDelta[T any](name string, value T) *Delta[T] {
	return &Delta[T]{named: named{name}, Value: value}
}

// Sample returns the fixed value without consuming a draw
func (d *Delta[T]) Sample(core.Sampler) T {
	return d.Value
}

// Discrete samples from an explicit table of values and probabilities
type Discrete[T any] struct {
	named
	Values        []T
	Probabilities []float64 // normalized to sum to one
}

// NewDiscrete creates a discrete distribution. Probabilities are normalized.
func NewDiscrete[T any](name string, values []T, probabilities []float64) (*Discrete[T], error) {
	if len(values) == 0 || len(values) != len(probabilities) {
		return nil, invalid(name, "need matching non-empty values and probabilities (got %d and %d)", len(values), len(probabilities))
	}

	total := 0.0
	for _, p := range probabilities {
		if p < 0 || !finite(p) {
			return nil, invalid(name, "probability %v must be a non-negative number", p)
		}
		total += p
	}
	if total <= 0 {
		return nil, invalid(name, "probabilities sum to zero")
	}

	normalized := make([]float64, len(probabilities))
	for i, p := range probabilities {
		normalized[i] = p / total
	}

	return &Discrete[T]{
		named:         named{name},
		Values:        append([]T(nil), values...),
		Probabilities: normalized,
	}, nil
}

// Sample selects a value by cumulative search with one draw
func (d *Discrete[T]) Sample(sampler core.Sampler) T {
	i := core.SelectWeighted(d.Probabilities, sampler.Get1D())
	return d.Values[i]
}
