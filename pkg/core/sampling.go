package core

import (
	"math"
	"math/rand"
)

// Sampler is the single uniform-random stream consumed by every sampling
// operation. Can be swapped out for deterministic testing.
type Sampler interface {
	// Get1D returns a uniform float64 in [0, 1)
	Get1D() float64
}

// RandomSampler wraps a standard Go random generator
type RandomSampler struct {
	random *rand.Rand
}

// NewRandomSampler creates a sampler from a Go random generator
func NewRandomSampler(random *rand.Rand) *RandomSampler {
	return &RandomSampler{random: random}
}

// NewSeededSampler creates a sampler whose stream is fully determined by seed
func NewSeededSampler(seed int64) *RandomSampler {
	return NewRandomSampler(rand.New(rand.NewSource(seed)))
}

// Get1D returns a random float64 in [0, 1)
func (r *RandomSampler) Get1D() float64 {
	return r.random.Float64()
}

// SequenceSampler replays a fixed list of draws, wrapping around at the end.
type SequenceSampler struct {
	values []float64
	next   int
	drawn  int
}

// NewSequenceSampler creates a sampler that returns values in order
func NewSequenceSampler(values ...float64) *SequenceSampler {
	if len(values) == 0 {
		values = []float64{0.5}
	}
	return &SequenceSampler{values: values}
}

// Get1D returns the next value of the sequence
func (s *SequenceSampler) Get1D() float64 {
	v := s.values[s.next]
	s.next = (s.next + 1) % len(s.values)
	s.drawn++
	return v
}

// Drawn returns how many values have been consumed
func (s *SequenceSampler) Drawn() int {
	return s.drawn
}

// SampleOnUnitSphere generates a uniform random direction on the unit sphere.
// The first draw is the polar cosine, the second the azimuth.
func SampleOnUnitSphere(sampler Sampler) Vec3 {
	mu := 2.0*sampler.Get1D() - 1.0
	phi := 2.0 * math.Pi * sampler.Get1D()
	r := math.Sqrt(math.Max(0, 1.0-mu*mu))
	return NewVec3(r*math.Cos(phi), r*math.Sin(phi), mu)
}

// RotateDirection turns the unit direction dir by the polar cosine mu and
// azimuth phi measured about dir itself.
func RotateDirection(dir Vec3, mu, phi float64) Vec3 {
	mu = math.Max(-1.0, math.Min(1.0, mu))
	sinTheta := math.Sqrt(math.Max(0, 1.0-mu*mu))
	cosPhi := math.Cos(phi)
	sinPhi := math.Sin(phi)

	// Near the z axis the general formula divides by ~0, so build the
	// new direction in the lab frame instead
	if math.Abs(dir.Z) > 0.99999 {
		return NewVec3(
			sinTheta*cosPhi,
			sinTheta*sinPhi,
			math.Copysign(mu, dir.Z),
		).Normalize()
	}

	s := math.Sqrt(1.0 - dir.Z*dir.Z)
	return NewVec3(
		mu*dir.X+sinTheta*(dir.X*dir.Z*cosPhi-dir.Y*sinPhi)/s,
		mu*dir.Y+sinTheta*(dir.Y*dir.Z*cosPhi+dir.X*sinPhi)/s,
		mu*dir.Z-sinTheta*s*cosPhi,
	).Normalize()
}

// SelectWeighted picks an index with probability proportional to its weight
// using a single uniform draw u. Returns -1 if no weight is positive.
func SelectWeighted(weights []float64, u float64) int {
	total := 0.0
	last := -1
	for i, w := range weights {
		if w > 0 {
			total += w
			last = i
		}
	}
	if last < 0 {
		return -1
	}

	// Search the cumulative distribution
	target := u * total
	var cumulative float64
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		cumulative += w
		if target < cumulative {
			return i
		}
	}

	// Rounding can leave target just above the final sum
	return last
}
