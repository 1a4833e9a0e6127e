package distribution

import (
	"math"

	"github.com/df07/go-particle-transport/pkg/core"
)

// IsotropicDirection returns directions uniform on the unit sphere
type IsotropicDirection struct {
	named
}

// NewIsotropicDirection creates an isotropic direction distribution
func NewIsotropicDirection(name string) *IsotropicDirection {
	return &IsotropicDirection{named: named{name}}
}

// Sample draws one unit direction
func (i *IsotropicDirection) Sample(sampler core.Sampler) core.Vec3 {
	return core.SampleOnUnitSphere(sampler)
}

// AnisotropicDirection samples directions about a reference axis using a
// cosine drawn from another distribution and a uniform azimuth
type AnisotropicDirection struct {
	named
	Axis   core.Vec3
	Cosine Distribution[float64]
}

// NewAnisotropicDirection creates a direction distribution about axis
func NewAnisotropicDirection(name string, axis core.Vec3, cosine Distribution[float64]) (*AnisotropicDirection, error) {
	if !finite(axis.X, axis.Y, axis.Z) || axis.Length() == 0 {
		return nil, invalid(name, "reference axis must be a non-zero vector (got %v)", axis)
	}
	if cosine == nil {
		return nil, invalid(name, "cosine distribution is required")
	}
	return &AnisotropicDirection{named: named{name}, Axis: axis.Normalize(), Cosine: cosine}, nil
}

// Sample draws the cosine first, then the azimuth
func (a *AnisotropicDirection) Sample(sampler core.Sampler) core.Vec3 {
	mu := a.Cosine.Sample(sampler)
	phi := 2.0 * math.Pi * sampler.Get1D()
	return core.RotateDirection(a.Axis, mu, phi)
}

// IndependentXYZ combines one real distribution per coordinate
type IndependentXYZ struct {
	named
	X, Y, Z Distribution[float64]
}

// NewIndependentXYZ creates a point distribution from three coordinate distributions
func NewIndependentXYZ(name string, x, y, z Distribution[float64]) (*IndependentXYZ, error) {
	if x == nil || y == nil || z == nil {
		return nil, invalid(name, "all three coordinate distributions are required")
	}
	return &IndependentXYZ{named: named{name}, X: x, Y: y, Z: z}, nil
}

// Sample draws x, y and z in that order
func (d *IndependentXYZ) Sample(sampler core.Sampler) core.Vec3 {
	x := d.X.Sample(sampler)
	y := d.Y.Sample(sampler)
	z := d.Z.Sample(sampler)
	return core.NewVec3(x, y, z)
}
