package geometry

import (
	"math"

	"github.com/df07/go-particle-transport/pkg/core"
)

// Plane represents the infinite plane A x + B y + C z = D
type Plane struct {
	surfaceBase
	A, B, C, D float64

	normal core.Vec3 // cached unit normal (A, B, C)
}

// NewPlane creates a new plane
func NewPlane(name string, a, b, c, d float64) *Plane {
	return &Plane{
		surfaceBase: surfaceBase{name: name},
		A:           a,
		B:           b,
		C:           c,
		D:           d,
		normal:      core.NewVec3(a, b, c).Normalize(),
	}
}

// Eval returns A x + B y + C z - D
func (p *Plane) Eval(pt core.Vec3) float64 {
	return p.A*pt.X + p.B*pt.Y + p.C*pt.Z - p.D
}

// Distance returns the distance along the ray to the plane
func (p *Plane) Distance(ray core.Ray) float64 {
	// Ray parallel to plane never intersects
	denominator := p.A*ray.Direction.X + p.B*ray.Direction.Y + p.C*ray.Direction.Z
	if denominator == 0 {
		return math.Inf(1)
	}

	t := -p.Eval(ray.Origin) / denominator
	if t <= 0 {
		return math.Inf(1)
	}
	return t
}

// Normal returns the plane's unit normal, the same everywhere
func (p *Plane) Normal(core.Vec3) core.Vec3 {
	return p.normal
}

// Reflect mirrors the ray direction about the plane
func (p *Plane) Reflect(ray core.Ray) core.Vec3 {
	return reflect(ray.Direction, p.normal)
}

// Cross scores, reflects and nudges a particle crossing the plane
func (p *Plane) Cross(particle *core.Particle) {
	p.cross(p, particle)
}
