// Package transport runs particle histories through a resolved problem.
package transport

import (
	"github.com/df07/go-particle-transport/pkg/core"
	"github.com/df07/go-particle-transport/pkg/distribution"
	"github.com/df07/go-particle-transport/pkg/geometry"
	"github.com/df07/go-particle-transport/pkg/material"
)

// Problem is the fully resolved object graph of one simulation input.
// It is not modified once built.
type Problem struct {
	Name      string
	Histories uint64 // requested history count, 0 if the input names none

	Surfaces   []geometry.Surface
	Cells      []*geometry.Cell // residency is resolved in this order
	Materials  []*material.Material
	Nuclides   []*material.Nuclide
	Estimators []core.Estimator
	Source     *Source
}

// Source emits the first particle of every history
type Source struct {
	Position  distribution.Distribution[core.Vec3]
	Direction distribution.Distribution[core.Vec3]
}

// NewSource creates a source from position and direction distributions
func NewSource(position, direction distribution.Distribution[core.Vec3]) *Source {
	return &Source{Position: position, Direction: direction}
}

// Sample draws a unit-weight particle, position first, then direction
func (s *Source) Sample(sampler core.Sampler) core.Particle {
	pos := s.Position.Sample(sampler)
	dir := s.Direction.Sample(sampler)
	return core.NewParticle(pos, dir)
}
