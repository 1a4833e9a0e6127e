package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/df07/go-particle-transport/pkg/core"
	"github.com/df07/go-particle-transport/pkg/material"
)

// slab builds the cell 0 < x < width
func slab(width float64) (*Cell, *Plane, *Plane) {
	left := NewPlane("left", 1, 0, 0, 0)
	right := NewPlane("right", 1, 0, 0, width)
	cell := NewCell("slab")
	cell.AddSurface(left, 1)
	cell.AddSurface(right, -1)
	return cell, left, right
}

func TestCell_TestPoint(t *testing.T) {
	cell, _, _ := slab(2)

	tests := []struct {
		name     string
		point    core.Vec3
		expected bool
	}{
		{"inside", core.NewVec3(1, 5, -3), true},
		{"left of slab", core.NewVec3(-1, 0, 0), false},
		{"right of slab", core.NewVec3(3, 0, 0), false},
		{"on left surface", core.NewVec3(0, 0, 0), false},
		{"on right surface", core.NewVec3(2, 0, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, cell.TestPoint(tt.point))
		})
	}
}

func TestCell_ContainmentMatchesSenses(t *testing.T) {
	sphere := NewSphere("ball", core.NewVec3(0, 0, 0), 3)
	cyl := NewCylinderZ("pipe", 0, 0, 1)
	shell := NewCell("shell")
	shell.AddSurface(sphere, -1)
	shell.AddSurface(cyl, 1)

	sampler := core.NewSeededSampler(41)
	for i := 0; i < 500; i++ {
		p := core.NewVec3(
			8*sampler.Get1D()-4,
			8*sampler.Get1D()-4,
			8*sampler.Get1D()-4,
		)
		expected := SenseOf(sphere.Eval(p)) == -1 && SenseOf(cyl.Eval(p)) == 1
		assert.Equal(t, expected, shell.TestPoint(p), "point %v", p)
	}
}

func TestCell_SurfaceIntersect(t *testing.T) {
	t.Run("nearest surface", func(t *testing.T) {
		cell, left, right := slab(2)

		s, d := cell.SurfaceIntersect(core.NewRay(core.NewVec3(0.5, 0, 0), core.NewVec3(1, 0, 0)))
		assert.Same(t, right, s)
		assert.InDelta(t, 1.5, d, 1e-12)

		s, d = cell.SurfaceIntersect(core.NewRay(core.NewVec3(0.5, 0, 0), core.NewVec3(-1, 0, 0)))
		assert.Same(t, left, s)
		assert.InDelta(t, 0.5, d, 1e-12)
	})

	t.Run("parallel to every surface", func(t *testing.T) {
		cell, _, _ := slab(2)
		s, d := cell.SurfaceIntersect(core.NewRay(core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0)))
		assert.Nil(t, s)
		assert.True(t, math.IsInf(d, 1))
		assert.True(t, math.IsInf(cell.BoundaryDistance(core.NewRay(core.NewVec3(1, 0, 0), core.NewVec3(0, 0, 1))), 1))
	})

	t.Run("ties go to the first surface", func(t *testing.T) {
		first := NewPlane("first", 1, 0, 0, 1)
		second := NewPlane("second", 2, 0, 0, 2)
		cell := NewCell("tie")
		cell.AddSurface(first, -1)
		cell.AddSurface(second, -1)

		s, d := cell.SurfaceIntersect(core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0)))
		assert.Same(t, first, s)
		assert.InDelta(t, 1.0, d, 1e-12)
	})
}

func TestCell_MacroXS(t *testing.T) {
	void := NewCell("void")
	assert.Equal(t, 0.0, void.MacroXS())
	assert.Equal(t, 1.0, void.Importance)

	n := material.NewNuclide("absorber")
	n.AddReaction(material.NewCapture(2.0))
	m := material.NewMaterial("mat", 0.5)
	m.AddNuclide(n, 1.0)

	filled := NewCell("filled")
	filled.Material = m
	assert.InDelta(t, 1.0, filled.MacroXS(), 1e-12)
}

func TestCell_ScoreEstimators(t *testing.T) {
	cell := NewCell("c")
	a, b := &recordingEstimator{}, &recordingEstimator{}
	cell.AttachEstimator(a)
	cell.AttachEstimator(b)

	p := core.NewParticle(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1))
	cell.ScoreEstimators(&p, core.EventEnter)
	cell.ScoreEstimators(&p, core.EventTrack)

	assert.Equal(t, []core.Event{core.EventEnter, core.EventTrack}, a.events)
	assert.Equal(t, a.events, b.events)
}
