package transport

import (
	"math"

	"github.com/df07/go-particle-transport/pkg/core"
	"github.com/df07/go-particle-transport/pkg/geometry"
)

// roulette keeps the particle with probability ir and scales the survivor's
// weight by 1/ir
func (s *Simulation) roulette(p *core.Particle, ir float64) {
	if s.sampler.Get1D() < ir {
		p.AdjustWeight(1.0 / ir)
		s.stats.roulette(true)
		return
	}
	p.Kill()
	s.stats.roulette(false)
}

// split turns the particle into floor(ir + U) particles sharing its weight.
// The extra copies go to the bank, the original continues.
func (s *Simulation) split(p *core.Particle, ir float64, bank *core.Bank) {
	n := math.Floor(ir + s.sampler.Get1D())
	if n <= 1 {
		return
	}

	w := p.Weight / n
	for i := 1; i < int(n); i++ {
		c := p.Clone()
		c.Weight = w
		bank.Push(c)
	}
	p.Weight = w
	s.stats.split(uint64(n) - 1)
}

// changeResidency resolves the cell a particle moved into after crossing a
// surface and plays the importance game between the old and new cell.
// Returns the new cell, or nil if the particle is lost.
func (s *Simulation) changeResidency(p *core.Particle, from *geometry.Cell, bank *core.Bank) *geometry.Cell {
	i1 := from.Importance

	to := s.FindResidency(p)
	if to == nil {
		s.lose(p, from)
		return nil
	}

	ir := to.Importance / i1
	switch {
	case ir == 0:
		p.Kill()
		s.stats.importanceKill()
	case ir < 1:
		s.roulette(p, ir)
	case ir > 1:
		s.split(p, ir, bank)
	}

	if p.Alive() && to != from {
		to.ScoreEstimators(p, core.EventEnter)
	}
	return to
}

// lose kills a particle that is in no cell
func (s *Simulation) lose(p *core.Particle, last *geometry.Cell) {
	lastCell := ""
	if last != nil {
		lastCell = last.Name()
	}
	s.logger.Warn("particle lost",
		"position", p.Position.String(),
		"direction", p.Direction.String(),
		"lastCell", lastCell)
	p.Kill()
	s.stats.lost()
}
