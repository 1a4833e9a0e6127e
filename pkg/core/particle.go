package core

import "math"

// Particle is a single neutral particle being transported
type Particle struct {
	Position  Vec3
	Direction Vec3 // always unit length
	Weight    float64
	Cell      Region // cell the particle currently resides in, nil until resolved
	alive     bool
}

// NewParticle creates a live particle with unit weight
func NewParticle(position, direction Vec3) Particle {
	return Particle{
		Position:  position,
		Direction: direction.Normalize(),
		Weight:    1.0,
		alive:     true,
	}
}

// Alive reports whether the particle is still being transported
func (p *Particle) Alive() bool {
	return p.alive
}

// Kill terminates the particle
func (p *Particle) Kill() {
	p.alive = false
}

// Move advances the particle s units along its direction
func (p *Particle) Move(s float64) {
	if math.IsInf(s, 1) {
		return
	}
	p.Position = p.Position.Add(p.Direction.Multiply(s))
}

// SetDirection changes the direction of flight, normalizing it
func (p *Particle) SetDirection(d Vec3) {
	p.Direction = d.Normalize()
}

// AdjustWeight multiplies the statistical weight by f
func (p *Particle) AdjustWeight(f float64) {
	p.Weight *= f
}

// Ray returns the particle's position and direction as a ray
func (p *Particle) Ray() Ray {
	return NewRay(p.Position, p.Direction)
}

// Clone returns an independent live copy of the particle
func (p *Particle) Clone() Particle {
	return Particle{
		Position:  p.Position,
		Direction: p.Direction,
		Weight:    p.Weight,
		Cell:      p.Cell,
		alive:     true,
	}
}

// Bank is the LIFO work list of particles still to be processed in a history
type Bank struct {
	particles []Particle
}

// Push adds a particle to the top of the bank
func (b *Bank) Push(p Particle) {
	b.particles = append(b.particles, p)
}

// Pop removes and returns the most recently pushed particle
func (b *Bank) Pop() (Particle, bool) {
	n := len(b.particles)
	if n == 0 {
		return Particle{}, false
	}
	p := b.particles[n-1]
	b.particles = b.particles[:n-1]
	return p, true
}

// Len returns the number of waiting particles
func (b *Bank) Len() int {
	return len(b.particles)
}

// Empty reports whether the bank has no particles left
func (b *Bank) Empty() bool {
	return len(b.particles) == 0
}
