package material

import (
	"math"

	"github.com/df07/go-particle-transport/pkg/core"
	"github.com/df07/go-particle-transport/pkg/distribution"
)

// Reaction names as reported in logs and metrics
const (
	ReactionCapture = "capture"
	ReactionScatter = "scatter"
	ReactionFission = "fission"
)

// Capture absorbs the particle
type Capture struct {
	XS float64
}

// NewCapture creates a capture reaction
func NewCapture(xs float64) *Capture {
	return &Capture{XS: xs}
}

func (c *Capture) Name() string          { return ReactionCapture }
func (c *Capture) CrossSection() float64 { return c.XS }

// Sample kills the particle
func (c *Capture) Sample(p *core.Particle, _ core.Sampler, _ *core.Bank) {
	p.Kill()
}

// Scatter changes the particle's direction
type Scatter struct {
	XS     float64
	Cosine distribution.Distribution[float64] // scattering cosine in the particle frame
}

// NewScatter creates a scatter reaction with the given cosine distribution
func NewScatter(xs float64, cosine distribution.Distribution[float64]) *Scatter {
	return &Scatter{XS: xs, Cosine: cosine}
}

func (s *Scatter) Name() string          { return ReactionScatter }
func (s *Scatter) CrossSection() float64 { return s.XS }

// Sample draws the cosine, then a uniform azimuth, and turns the particle
func (s *Scatter) Sample(p *core.Particle, sampler core.Sampler, _ *core.Bank) {
	mu := s.Cosine.Sample(sampler)
	phi := 2.0 * math.Pi * sampler.Get1D()
	p.SetDirection(core.RotateDirection(p.Direction, mu, phi))
}

// Fission absorbs the particle and emits a sampled number of secondaries
type Fission struct {
	XS           float64
	Multiplicity distribution.Distribution[int]
	// Direction of each secondary; nil means isotropic
	Direction distribution.Distribution[core.Vec3]
}

// NewFission creates a fission reaction with isotropic secondaries
func NewFission(xs float64, multiplicity distribution.Distribution[int]) *Fission {
	return &Fission{XS: xs, Multiplicity: multiplicity}
}

func (f *Fission) Name() string          { return ReactionFission }
func (f *Fission) CrossSection() float64 { return f.XS }

// Sample pushes the secondaries, each with the parent's weight and position,
// then kills the parent
func (f *Fission) Sample(p *core.Particle, sampler core.Sampler, bank *core.Bank) {
	n := f.Multiplicity.Sample(sampler)
	for i := 0; i < n; i++ {
		child := p.Clone()
		if f.Direction != nil {
			child.SetDirection(f.Direction.Sample(sampler))
		} else {
			child.SetDirection(core.SampleOnUnitSphere(sampler))
		}
		bank.Push(child)
	}
	p.Kill()
}
