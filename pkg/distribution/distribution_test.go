package distribution

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-particle-transport/pkg/core"
)

const statSamples = 50000

func sampleMean(d Distribution[float64], sampler core.Sampler, n int) (mean, variance float64) {
	var s1, s2 float64
	for i := 0; i < n; i++ {
		x := d.Sample(sampler)
		s1 += x
		s2 += x * x
	}
	mean = s1 / float64(n)
	variance = s2/float64(n) - mean*mean
	return mean, variance
}

func TestDelta(t *testing.T) {
	s := core.NewSequenceSampler(0.3)
	d := NewDelta("origin", core.NewVec3(1, 2, 3))
	assert.Equal(t, core.NewVec3(1, 2, 3), d.Sample(s))
	assert.Equal(t, 0, s.Drawn(), "delta consumes no draws")
	assert.Equal(t, "origin", d.Name())

	assert.Equal(t, 4, NewDelta("four", 4).Sample(s))
}

func TestUniform(t *testing.T) {
	d, err := NewUniform("u", -2, 6)
	require.NoError(t, err)

	assert.Equal(t, -2.0, d.Sample(core.NewSequenceSampler(0)))
	assert.Equal(t, 2.0, d.Sample(core.NewSequenceSampler(0.5)))

	mean, variance := sampleMean(d, core.NewSeededSampler(1), statSamples)
	assert.InDelta(t, 2.0, mean, 0.05)
	assert.InDelta(t, 64.0/12.0, variance, 0.1)

	_, err = NewUniform("bad", 1, 0)
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestLinear(t *testing.T) {
	tests := []struct {
		name         string
		a, b, fa, fb float64
		expectedMean float64
	}{
		{"flat", 0, 1, 2, 2, 0.5},
		{"rising from zero", 0, 1, 0, 1, 2.0 / 3.0},
		{"falling to zero", 0, 1, 1, 0, 1.0 / 3.0},
		{"shifted rising", 1, 3, 1, 3, 1 + 2*7.0/12.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := NewLinear(tt.name, tt.a, tt.b, tt.fa, tt.fb)
			require.NoError(t, err)

			assert.InDelta(t, tt.a, d.Sample(core.NewSequenceSampler(0)), 1e-12)
			assert.InDelta(t, tt.b, d.Sample(core.NewSequenceSampler(1)), 1e-12)

			mean, _ := sampleMean(d, core.NewSeededSampler(3), statSamples)
			assert.InDelta(t, tt.expectedMean, mean, 0.01)
		})
	}

	_, err := NewLinear("negative", 0, 1, -1, 1)
	assert.ErrorIs(t, err, ErrInvalidParameter)
	_, err = NewLinear("zero", 0, 1, 0, 0)
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestHenyeyGreenstein(t *testing.T) {
	for _, g := range []float64{-0.6, 0, 0.3, 0.9} {
		d, err := NewHenyeyGreenstein("hg", g)
		require.NoError(t, err)

		assert.InDelta(t, -1.0, d.Sample(core.NewSequenceSampler(0)), 1e-9)
		assert.InDelta(t, 1.0, d.Sample(core.NewSequenceSampler(1)), 1e-9)

		// The mean cosine of Henyey-Greenstein is g
		mean, _ := sampleMean(d, core.NewSeededSampler(5), statSamples)
		assert.InDelta(t, g, mean, 0.02, "g=%v", g)
	}

	// Tiny g degenerates to uniform on [-1, 1]
	d, err := NewHenyeyGreenstein("flat", 1e-9)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, d.Sample(core.NewSequenceSampler(0.75)), 1e-12)

	_, err = NewHenyeyGreenstein("bad", 1)
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestMeanMultiplicity(t *testing.T) {
	d, err := NewMeanMultiplicity("nu", 2.4)
	require.NoError(t, err)

	assert.Equal(t, 2, d.Sample(core.NewSequenceSampler(0.59)))
	assert.Equal(t, 3, d.Sample(core.NewSequenceSampler(0.61)))

	s := core.NewSeededSampler(11)
	total := 0
	for i := 0; i < statSamples; i++ {
		total += d.Sample(s)
	}
	assert.InDelta(t, 2.4, float64(total)/statSamples, 0.01)
}

func TestTerrellFission(t *testing.T) {
	d, err := NewTerrellFission("terrell", 2.5, 1.08, 0)
	require.NoError(t, err)

	probs := d.Probabilities()
	sum, mean := 0.0, 0.0
	for n, p := range probs {
		assert.GreaterOrEqual(t, p, 0.0)
		sum += p
		mean += float64(n) * p
	}
	assert.InDelta(t, 1.0, sum, 1e-12)
	// The half-integer shift keeps the discretized mean close to nubar
	assert.InDelta(t, 2.5, mean, 0.05)

	s := core.NewSeededSampler(13)
	total := 0
	for i := 0; i < statSamples; i++ {
		total += d.Sample(s)
	}
	assert.InDelta(t, mean, float64(total)/statSamples, 0.03)

	_, err = NewTerrellFission("bad", 2.5, 0, 0)
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestIsotropicDirection(t *testing.T) {
	d := NewIsotropicDirection("iso")
	s := core.NewSeededSampler(17)
	for i := 0; i < 1000; i++ {
		require.True(t, d.Sample(s).IsUnit(1e-9))
	}
}

func TestAnisotropicDirection(t *testing.T) {
	cosine := NewDelta("mu", 0.5)
	d, err := NewAnisotropicDirection("beam", core.NewVec3(0, 2, 0), cosine)
	require.NoError(t, err)

	s := core.NewSeededSampler(19)
	for i := 0; i < 200; i++ {
		dir := d.Sample(s)
		require.True(t, dir.IsUnit(1e-9))
		assert.InDelta(t, 0.5, dir.Dot(core.NewVec3(0, 1, 0)), 1e-9)
	}

	_, err = NewAnisotropicDirection("bad", core.Vec3{}, cosine)
	assert.ErrorIs(t, err, ErrInvalidParameter)
	_, err = NewAnisotropicDirection("bad", core.NewVec3(1, 0, 0), nil)
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestIndependentXYZ(t *testing.T) {
	x, _ := NewUniform("x", 0, 10)
	y := NewDelta("y", -1.0)
	z, _ := NewUniform("z", 5, 7)

	d, err := NewIndependentXYZ("box", x, y, z)
	require.NoError(t, err)

	p := d.Sample(core.NewSequenceSampler(0.1, 0.5))
	assert.InDelta(t, 1.0, p.X, 1e-12)
	assert.Equal(t, -1.0, p.Y)
	assert.InDelta(t, 6.0, p.Z, 1e-12)

	_, err = NewIndependentXYZ("bad", x, nil, z)
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestDiscrete(t *testing.T) {
	points := []core.Vec3{core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(2, 0, 0)}
	d, err := NewDiscrete("spots", points, []float64{1, 2, 1})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, d.Probabilities[0]+d.Probabilities[1]+d.Probabilities[2], 1e-12)

	counts := make([]int, 3)
	s := core.NewSeededSampler(23)
	for i := 0; i < statSamples; i++ {
		counts[int(d.Sample(s).X)]++
	}
	assert.InDelta(t, 0.25, float64(counts[0])/statSamples, 0.01)
	assert.InDelta(t, 0.50, float64(counts[1])/statSamples, 0.01)
	assert.InDelta(t, 0.25, float64(counts[2])/statSamples, 0.01)

	_, err = NewDiscrete[int]("empty", nil, nil)
	assert.ErrorIs(t, err, ErrInvalidParameter)
	_, err = NewDiscrete("negative", []int{1}, []float64{-1})
	assert.ErrorIs(t, err, ErrInvalidParameter)
	_, err = NewDiscrete("nan", []int{1}, []float64{math.NaN()})
	assert.ErrorIs(t, err, ErrInvalidParameter)
}
