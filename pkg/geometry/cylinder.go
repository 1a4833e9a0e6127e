package geometry

import (
	"github.com/df07/go-particle-transport/pkg/core"
)

// CylinderX is an infinite cylinder parallel to the x axis
type CylinderX struct {
	surfaceBase
	Y0, Z0 float64
	Radius float64
}

// NewCylinderX creates a cylinder of the given radius about the line (y0, z0)
func NewCylinderX(name string, y0, z0, radius float64) *CylinderX {
	return &CylinderX{
		surfaceBase: surfaceBase{name: name},
		Y0:          y0,
		Z0:          z0,
		Radius:      radius,
	}
}

// Eval returns (y - y0)^2 + (z - z0)^2 - radius^2
func (c *CylinderX) Eval(p core.Vec3) float64 {
	dy := p.Y - c.Y0
	dz := p.Z - c.Z0
	return dy*dy + dz*dz - c.Radius*c.Radius
}

// Distance returns the distance along the ray to the cylinder
func (c *CylinderX) Distance(ray core.Ray) float64 {
	dy := ray.Origin.Y - c.Y0
	dz := ray.Origin.Z - c.Z0

	// Only the components across the axis matter
	a := ray.Direction.Y*ray.Direction.Y + ray.Direction.Z*ray.Direction.Z
	halfB := dy*ray.Direction.Y + dz*ray.Direction.Z
	cc := dy*dy + dz*dz - c.Radius*c.Radius

	return smallestPositiveRoot(a, halfB, cc)
}

// Normal returns the radial outward normal through p
func (c *CylinderX) Normal(p core.Vec3) core.Vec3 {
	return core.NewVec3(0, p.Y-c.Y0, p.Z-c.Z0).Normalize()
}

// Reflect mirrors the ray direction about the normal at the ray origin
func (c *CylinderX) Reflect(ray core.Ray) core.Vec3 {
	return reflect(ray.Direction, c.Normal(ray.Origin))
}

// Cross scores, reflects and nudges a particle crossing the cylinder
func (c *CylinderX) Cross(p *core.Particle) {
	c.cross(c, p)
}

// CylinderZ is an infinite cylinder parallel to the z axis
type CylinderZ struct {
	surfaceBase
	X0, Y0 float64
	Radius float64
}

// NewCylinderZ creates a cylinder of the given radius about the line (x0, y0)
func NewCylinderZ(name string, x0, y0, radius float64) *CylinderZ {
	return &CylinderZ{
		surfaceBase: surfaceBase{name: name},
		X0:          x0,
		Y0:          y0,
		Radius:      radius,
	}
}

// Eval returns (x - x0)^2 + (y - y0)^2 - radius^2
func (c *CylinderZ) Eval(p core.Vec3) float64 {
	dx := p.X - c.X0
	dy := p.Y - c.Y0
	return dx*dx + dy*dy - c.Radius*c.Radius
}

// Distance returns the distance along the ray to the cylinder
func (c *CylinderZ) Distance(ray core.Ray) float64 {
	dx := ray.Origin.X - c.X0
	dy := ray.Origin.Y - c.Y0

	a := ray.Direction.X*ray.Direction.X + ray.Direction.Y*ray.Direction.Y
	halfB := dx*ray.Direction.X + dy*ray.Direction.Y
	cc := dx*dx + dy*dy - c.Radius*c.Radius

	return smallestPositiveRoot(a, halfB, cc)
}

// Normal returns the radial outward normal through p
func (c *CylinderZ) Normal(p core.Vec3) core.Vec3 {
	return core.NewVec3(p.X-c.X0, p.Y-c.Y0, 0).Normalize()
}

// Reflect mirrors the ray direction about the normal at the ray origin
func (c *CylinderZ) Reflect(ray core.Ray) core.Vec3 {
	return reflect(ray.Direction, c.Normal(ray.Origin))
}

// Cross scores, reflects and nudges a particle crossing the cylinder
func (c *CylinderZ) Cross(p *core.Particle) {
	c.cross(c, p)
}
