package geometry

import (
	"math"

	"github.com/df07/go-particle-transport/pkg/core"
	"github.com/df07/go-particle-transport/pkg/material"
)

// Bound is one half-space of a cell: the side of Surface where
// sign(Eval) == Sense
type Bound struct {
	Surface Surface
	Sense   int
}

// Cell is a region of space formed by intersecting half-spaces, filled with
// a material or void
type Cell struct {
	name       string
	Material   *material.Material // nil means void
	Importance float64
	bounds     []Bound
	estimators []core.Estimator
}

// NewCell creates an empty void cell with unit importance
func NewCell(name string) *Cell {
	return &Cell{
		name:       name,
		Importance: 1.0,
	}
}

// Name returns the cell name
func (c *Cell) Name() string {
	return c.name
}

// AddSurface adds a bounding half-space
func (c *Cell) AddSurface(s Surface, sense int) {
	c.bounds = append(c.bounds, Bound{Surface: s, Sense: sense})
}

// Bounds returns the defining half-spaces in configuration order
func (c *Cell) Bounds() []Bound {
	return c.bounds
}

// AttachEstimator adds an estimator scored for tracks in and entries into the cell
func (c *Cell) AttachEstimator(e core.Estimator) {
	c.estimators = append(c.estimators, e)
}

// Estimators returns the attached estimators
func (c *Cell) Estimators() []core.Estimator {
	return c.estimators
}

// ScoreEstimators scores every attached estimator for the event
func (c *Cell) ScoreEstimators(p *core.Particle, ev core.Event) {
	for _, e := range c.estimators {
		e.Score(p, ev)
	}
}

// TestPoint reports whether p is inside the cell
func (c *Cell) TestPoint(p core.Vec3) bool {
	for _, b := range c.bounds {
		if SenseOf(b.Surface.Eval(p)) != b.Sense {
			return false
		}
	}
	return true
}

// SurfaceIntersect returns the first bounding surface hit along the ray and
// the distance to it. Equal distances resolve to the surface listed first.
// Returns nil and +Inf if the ray leaves through no surface.
func (c *Cell) SurfaceIntersect(r core.Ray) (Surface, float64) {
	var nearest Surface
	distance := math.Inf(1)
	for _, b := range c.bounds {
		d := b.Surface.Distance(r)
		if d < distance {
			nearest = b.Surface
			distance = d
		}
	}
	return nearest, distance
}

// BoundaryDistance returns the distance along r to the nearest bounding surface
func (c *Cell) BoundaryDistance(r core.Ray) float64 {
	_, d := c.SurfaceIntersect(r)
	return d
}

// MacroXS returns the macroscopic total cross section, zero for void
func (c *Cell) MacroXS() float64 {
	if c.Material == nil {
		return 0
	}
	return c.Material.MacroXS()
}
