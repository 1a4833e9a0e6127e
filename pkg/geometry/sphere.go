package geometry

import (
	"github.com/df07/go-particle-transport/pkg/core"
)

// Sphere represents a sphere surface
type Sphere struct {
	surfaceBase
	Center core.Vec3
	Radius float64
}

// NewSphere creates a new sphere
func NewSphere(name string, center core.Vec3, radius float64) *Sphere {
	return &Sphere{
		surfaceBase: surfaceBase{name: name},
		Center:      center,
		Radius:      radius,
	}
}

// Eval returns |p - center|^2 - radius^2, negative inside
func (s *Sphere) Eval(p core.Vec3) float64 {
	return p.Subtract(s.Center).LengthSquared() - s.Radius*s.Radius
}

// Distance returns the distance along the ray to the sphere
func (s *Sphere) Distance(ray core.Ray) float64 {
	// Vector from sphere center to ray origin
	oc := ray.Origin.Subtract(s.Center)

	// Quadratic equation coefficients: at² + 2 halfB t + c = 0
	a := ray.Direction.Dot(ray.Direction)
	halfB := oc.Dot(ray.Direction)
	c := oc.Dot(oc) - s.Radius*s.Radius

	return smallestPositiveRoot(a, halfB, c)
}

// Normal returns the outward normal through p
func (s *Sphere) Normal(p core.Vec3) core.Vec3 {
	return p.Subtract(s.Center).Normalize()
}

// Reflect mirrors the ray direction about the normal at the ray origin
func (s *Sphere) Reflect(ray core.Ray) core.Vec3 {
	return reflect(ray.Direction, s.Normal(ray.Origin))
}

// Cross scores, reflects and nudges a particle crossing the sphere
func (s *Sphere) Cross(p *core.Particle) {
	s.cross(s, p)
}
