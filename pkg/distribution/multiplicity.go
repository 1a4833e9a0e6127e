package distribution

import (
	"math"

	"github.com/df07/go-particle-transport/pkg/core"
)

// MeanMultiplicity returns floor(nubar) or ceil(nubar) so that the mean is nubar
type MeanMultiplicity struct {
	named
	NuBar float64
}

// NewMeanMultiplicity creates a two-point multiplicity distribution
func NewMeanMultiplicity(name string, nubar float64) (*MeanMultiplicity, error) {
	if !finite(nubar) || nubar < 0 {
		return nil, invalid(name, "mean multiplicity must be non-negative (got %v)", nubar)
	}
	return &MeanMultiplicity{named: named{name}, NuBar: nubar}, nil
}

// Sample draws one multiplicity
func (m *MeanMultiplicity) Sample(sampler core.Sampler) int {
	return int(math.Floor(m.NuBar + sampler.Get1D()))
}

const (
	terrellTolerance = 1e-12
	terrellMaxBins   = 100
)

// TerrellFission is the discretized Gaussian multiplicity of Terrell
type TerrellFission struct {
	named
	NuBar, Sigma, B float64
	cdf             []float64
}

// NewTerrellFission tabulates the Terrell CDF for mean nubar, width sigma and shift b
func NewTerrellFission(name string, nubar, sigma, b float64) (*TerrellFission, error) {
	if !finite(nubar, sigma, b) || nubar < 0 {
		return nil, invalid(name, "mean multiplicity must be non-negative (got %v)", nubar)
	}
	if sigma <= 0 {
		return nil, invalid(name, "width must be positive (got %v)", sigma)
	}

	cdf := make([]float64, 0, 16)
	for nu := 0; nu < terrellMaxBins; nu++ {
		c := 0.5 * (1.0 + math.Erf((float64(nu)-nubar+0.5+b)/(sigma*math.Sqrt2)))
		cdf = append(cdf, c)
		if c >= 1.0-terrellTolerance {
			break
		}
	}

	// Truncated tail mass goes to the last bin
	last := cdf[len(cdf)-1]
	if last <= 0 {
		return nil, invalid(name, "parameters put no probability on non-negative counts")
	}
	for i := range cdf {
		cdf[i] /= last
	}

	return &TerrellFission{named: named{name}, NuBar: nubar, Sigma: sigma, B: b, cdf: cdf}, nil
}

// Sample draws one multiplicity by cumulative search
func (t *TerrellFission) Sample(sampler core.Sampler) int {
	u := sampler.Get1D()
	for nu, c := range t.cdf {
		if u < c {
			return nu
		}
	}
	return len(t.cdf) - 1
}

// Probabilities returns P(nu = n) for every tabulated n
func (t *TerrellFission) Probabilities() []float64 {
	p := make([]float64, len(t.cdf))
	prev := 0.0
	for i, c := range t.cdf {
		p[i] = c - prev
		prev = c
	}
	return p
}
