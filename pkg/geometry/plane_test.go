package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-particle-transport/pkg/core"
)

func TestPlane_Distance(t *testing.T) {
	// The plane x = 2
	plane := NewPlane("px", 1, 0, 0, 2)

	tests := []struct {
		name      string
		origin    core.Vec3
		direction core.Vec3
		expected  float64
	}{
		{"toward", core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), 2.0},
		{"toward from other side", core.NewVec3(5, 0, 0), core.NewVec3(-1, 0, 0), 3.0},
		{"oblique", core.NewVec3(0, 0, 0), core.NewVec3(1, 1, 0).Normalize(), 2 * math.Sqrt2},
		{"parallel", core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), math.Inf(1)},
		{"behind", core.NewVec3(0, 0, 0), core.NewVec3(-1, 0, 0), math.Inf(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := plane.Distance(core.NewRay(tt.origin, tt.direction))
			if math.IsInf(tt.expected, 1) {
				if !math.IsInf(got, 1) {
					t.Errorf("Expected +Inf, got %f", got)
				}
				return
			}
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("Expected distance %f, got %f", tt.expected, got)
			}
		})
	}
}

func TestPlane_Reflect(t *testing.T) {
	plane := NewPlane("pz", 0, 0, 1, 0)
	incoming := core.NewVec3(1, 0, -1).Normalize()

	got := plane.Reflect(core.NewRay(core.NewVec3(0, 0, 0), incoming))
	expected := core.NewVec3(1, 0, 1).Normalize()
	if got.Subtract(expected).Length() > 1e-12 {
		t.Errorf("Expected %v, got %v", expected, got)
	}
}
