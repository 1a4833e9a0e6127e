package distribution

import (
	"math"

	"github.com/df07/go-particle-transport/pkg/core"
)

// Uniform returns values uniformly in [A, B]
type Uniform struct {
	named
	A, B float64
}

// NewUniform creates a uniform distribution on [a, b]
func NewUniform(name string, a, b float64) (*Uniform, error) {
	if !finite(a, b) || b < a {
		return nil, invalid(name, "need a <= b (got a=%v b=%v)", a, b)
	}
	return &Uniform{named: named{name}, A: a, B: b}, nil
}

// Sample draws one value
func (u *Uniform) Sample(sampler core.Sampler) float64 {
	return u.A + sampler.Get1D()*(u.B-u.A)
}

// Linear has a density varying linearly from FA at A to FB at B
type Linear struct {
	named
	A, B   float64
	FA, FB float64
}

// NewLinear creates a piecewise-linear distribution on [a, b]
func NewLinear(name string, a, b, fa, fb float64) (*Linear, error) {
	if !finite(a, b, fa, fb) || b < a {
		return nil, invalid(name, "need a <= b (got a=%v b=%v)", a, b)
	}
	if fa < 0 || fb < 0 || fa+fb <= 0 {
		return nil, invalid(name, "density ordinates must be non-negative and not both zero (got fa=%v fb=%v)", fa, fb)
	}
	return &Linear{named: named{name}, A: a, B: b, FA: fa, FB: fb}, nil
}

// Sample inverts the CDF of the linear density with one draw
func (l *Linear) Sample(sampler core.Sampler) float64 {
	u := sampler.Get1D()

	// Root of (fb-fa)/2 t^2 + fa t = u (fa+fb)/2, rationalized so that
	// fa == fb needs no special case
	root := math.Sqrt(l.FA*l.FA + (l.FB*l.FB-l.FA*l.FA)*u)
	t := 0.0
	if denom := l.FA + root; denom > 0 {
		t = u * (l.FA + l.FB) / denom
	}
	return l.A + t*(l.B-l.A)
}

// HenyeyGreenstein samples a scattering cosine with asymmetry factor G
type HenyeyGreenstein struct {
	named
	G float64
}

// NewHenyeyGreenstein creates a Henyey-Greenstein cosine distribution, |g| < 1
func NewHenyeyGreenstein(name string, g float64) (*HenyeyGreenstein, error) {
	if !finite(g) || math.Abs(g) >= 1 {
		return nil, invalid(name, "asymmetry factor must satisfy |g| < 1 (got %v)", g)
	}
	return &HenyeyGreenstein{named: named{name}, G: g}, nil
}

// Sample draws a cosine in [-1, 1]
func (h *HenyeyGreenstein) Sample(sampler core.Sampler) float64 {
	u := sampler.Get1D()
	g := h.G
	if math.Abs(g) < 1e-6 {
		return 2.0*u - 1.0
	}
	frac := (1.0 - g*g) / (1.0 - g + 2.0*g*u)
	mu := (1.0 + g*g - frac*frac) / (2.0 * g)
	return math.Max(-1.0, math.Min(1.0, mu))
}
