package material

import (
	"github.com/df07/go-particle-transport/pkg/core"
)

// Component is a nuclide and its atom fraction within a material
type Component struct {
	Nuclide  *Nuclide
	Fraction float64
}

// Material is a homogeneous mixture of nuclides
type Material struct {
	Name        string
	AtomDensity float64 // atoms per barn-cm
	Components  []Component
}

// NewMaterial creates a material with the given atom density and no nuclides
func NewMaterial(name string, atomDensity float64) *Material {
	return &Material{Name: name, AtomDensity: atomDensity}
}

// AddNuclide appends a nuclide with its atom fraction
func (m *Material) AddNuclide(n *Nuclide, fraction float64) {
	m.Components = append(m.Components, Component{Nuclide: n, Fraction: fraction})
}

// MicroXS returns the fraction-weighted total microscopic cross section
func (m *Material) MicroXS() float64 {
	xs := 0.0
	for _, c := range m.Components {
		xs += c.Fraction * c.Nuclide.TotalXS()
	}
	return xs
}

// MacroXS returns the macroscopic total cross section
func (m *Material) MacroXS() float64 {
	return m.AtomDensity * m.MicroXS()
}

// SampleNuclide selects a nuclide with probability proportional to
// fraction times total cross section using one draw
func (m *Material) SampleNuclide(sampler core.Sampler) *Nuclide {
	weights := make([]float64, len(m.Components))
	for i, c := range m.Components {
		weights[i] = c.Fraction * c.Nuclide.TotalXS()
	}

	i := core.SelectWeighted(weights, sampler.Get1D())
	if i < 0 {
		return nil
	}
	return m.Components[i].Nuclide
}

// SampleCollision samples a nuclide, then one of its reactions, and applies
// it. Returns the name of the reaction, or "" if nothing could react.
func (m *Material) SampleCollision(p *core.Particle, sampler core.Sampler, bank *core.Bank) string {
	n := m.SampleNuclide(sampler)
	if n == nil {
		return ""
	}
	r := n.SampleReaction(sampler)
	if r == nil {
		return ""
	}
	r.Sample(p, sampler, bank)
	return r.Name()
}
