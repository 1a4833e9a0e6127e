package material

import (
	"github.com/df07/go-particle-transport/pkg/core"
)

// Nuclide is a target species with a list of reaction channels
type Nuclide struct {
	Name      string
	Reactions []Reaction
}

// NewNuclide creates a nuclide with no reactions
func NewNuclide(name string) *Nuclide {
	return &Nuclide{Name: name}
}

// AddReaction appends a reaction channel
func (n *Nuclide) AddReaction(r Reaction) {
	n.Reactions = append(n.Reactions, r)
}

// TotalXS returns the sum of the reaction cross sections
func (n *Nuclide) TotalXS() float64 {
	total := 0.0
	for _, r := range n.Reactions {
		total += r.CrossSection()
	}
	return total
}

// SampleReaction selects a reaction with probability proportional to its
// cross section using one draw. Returns nil for a nuclide with no reactions.
func (n *Nuclide) SampleReaction(sampler core.Sampler) Reaction {
	weights := make([]float64, len(n.Reactions))
	for i, r := range n.Reactions {
		weights[i] = r.CrossSection()
	}

	i := core.SelectWeighted(weights, sampler.Get1D())
	if i < 0 {
		return nil
	}
	return n.Reactions[i]
}
