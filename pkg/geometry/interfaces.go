package geometry

import (
	"math"

	"github.com/df07/go-particle-transport/pkg/core"
)

// SurfaceNudge is how far a particle is pushed past a surface after crossing
// it, so that it is unambiguously on one side (float32 machine epsilon)
const SurfaceNudge = 1.1920929e-07

// Surface is an implicit surface f(p) = 0 whose sign splits space in two
type Surface interface {
	Name() string
	// Eval returns the signed implicit-function value at p
	Eval(p core.Vec3) float64
	// Distance returns the smallest strictly positive distance along r to
	// the surface, or +Inf if the ray never reaches it
	Distance(r core.Ray) float64
	// Normal returns the unit gradient direction at p
	Normal(p core.Vec3) core.Vec3
	// Reflect returns the specular reflection of r's direction at r's origin
	Reflect(r core.Ray) core.Vec3

	Reflecting() bool
	SetReflecting()
	AttachEstimator(e core.Estimator)
	// Cross scores the attached estimators, reflects the particle if this
	// is a reflecting boundary, and nudges it off the surface
	Cross(p *core.Particle)
}

// surfaceBase carries the bookkeeping shared by every surface type
type surfaceBase struct {
	name       string
	reflecting bool
	estimators []core.Estimator
}

// Name returns the surface name
func (s *surfaceBase) Name() string {
	return s.name
}

// Reflecting reports whether the surface is a reflecting boundary
func (s *surfaceBase) Reflecting() bool {
	return s.reflecting
}

// SetReflecting makes the surface a reflecting boundary
func (s *surfaceBase) SetReflecting() {
	s.reflecting = true
}

// AttachEstimator adds an estimator scored on every crossing
func (s *surfaceBase) AttachEstimator(e core.Estimator) {
	s.estimators = append(s.estimators, e)
}

// Estimators returns the attached estimators
func (s *surfaceBase) Estimators() []core.Estimator {
	return s.estimators
}

// cross implements Surface.Cross for the surface that embeds the base
func (s *surfaceBase) cross(surface Surface, p *core.Particle) {
	for _, e := range s.estimators {
		e.Score(p, core.EventCross)
	}

	if s.reflecting {
		p.SetDirection(surface.Reflect(p.Ray()))
	}

	p.Move(SurfaceNudge)
}

// reflect mirrors direction about the unit normal n
func reflect(direction, n core.Vec3) core.Vec3 {
	return direction.Subtract(n.Multiply(2.0 * direction.Dot(n))).Normalize()
}

// smallestPositiveRoot solves a t^2 + 2 halfB t + c = 0 and returns the
// smallest strictly positive root, or +Inf
func smallestPositiveRoot(a, halfB, c float64) float64 {
	if a == 0 {
		// Ray parallel to the surface's generator
		return math.Inf(1)
	}

	discriminant := halfB*halfB - a*c
	if discriminant < 0 {
		return math.Inf(1)
	}

	sqrtD := math.Sqrt(discriminant)
	near := (-halfB - sqrtD) / a
	far := (-halfB + sqrtD) / a
	if near > far {
		near, far = far, near
	}

	if near > 0 {
		return near
	}
	if far > 0 {
		return far
	}
	return math.Inf(1)
}

// SenseOf returns the half-space sense of an implicit-function value:
// +1, -1, or 0 exactly on the surface
func SenseOf(value float64) int {
	switch {
	case value > 0:
		return 1
	case value < 0:
		return -1
	default:
		return 0
	}
}
