package material

import (
	"github.com/df07/go-particle-transport/pkg/core"
)

// Reaction is one interaction channel of a nuclide with a constant
// microscopic cross section
type Reaction interface {
	Name() string
	CrossSection() float64
	// Sample applies the reaction to the particle, pushing any secondaries
	// onto the bank
	Sample(p *core.Particle, sampler core.Sampler, bank *core.Bank)
}
