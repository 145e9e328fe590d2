package render

import (
	"image/color"
	"math"
	"math/rand"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"driftline/game"
)

// Particle is a single piece of crash debris
type Particle struct {
	x, z     float64 // world position
	vx, vz   float64 // velocity
	age      float64 // seconds
	lifetime float64 // seconds
	size     float64 // metres
	color    color.NRGBA
}

// IsAlive returns true if the particle is still alive
func (p *Particle) IsAlive() bool {
	return p.age < p.lifetime
}

// Debris is the burst emitted when the vehicle hits a wall
type Debris struct {
	particles []Particle
	rng       *rand.Rand

	count          int
	velocityMin    float64
	velocityMax    float64
	spreadAngle    float64 // half-angle around the heading
	lifetimeMin    float64
	lifetimeMax    float64
	sizeMin        float64
	sizeMax        float64
	colorBase      color.NRGBA
	colorVariation color.NRGBA
	drag           float64 // velocity fraction lost per second
}

// NewDebris creates a crash debris system
func NewDebris(rng *rand.Rand) *Debris {
	return &Debris{
		rng:            rng,
		count:          48,
		velocityMin:    6,
		velocityMax:    22,
		spreadAngle:    math.Pi * 0.6,
		lifetimeMin:    0.4,
		lifetimeMax:    1.2,
		sizeMin:        0.15,
		sizeMax:        0.45,
		colorBase:      color.NRGBA{R: 255, G: 170, B: 40, A: 255},
		colorVariation: color.NRGBA{R: 0, G: 70, B: 40, A: 0},
		drag:           2.5,
	}
}

// Burst throws debris forward from the pose
func (d *Debris) Burst(p game.Pose) {
	for i := 0; i < d.count; i++ {
		angle := p.Heading + (d.rng.Float64()-0.5)*d.spreadAngle*2
		speed := d.velocityMin + d.rng.Float64()*(d.velocityMax-d.velocityMin)
		d.particles = append(d.particles, Particle{
			x:        p.X,
			z:        p.Z,
			vx:       math.Sin(angle) * speed,
			vz:       -math.Cos(angle) * speed,
			lifetime: d.lifetimeMin + d.rng.Float64()*(d.lifetimeMax-d.lifetimeMin),
			size:     d.sizeMin + d.rng.Float64()*(d.sizeMax-d.sizeMin),
			color: color.NRGBA{
				R: vary(d.colorBase.R, d.colorVariation.R, d.rng),
				G: vary(d.colorBase.G, d.colorVariation.G, d.rng),
				B: vary(d.colorBase.B, d.colorVariation.B, d.rng),
				A: d.colorBase.A,
			},
		})
	}
}

func vary(base, spread uint8, rng *rand.Rand) uint8 {
	v := float64(base) + rng.Float64()*float64(spread)*2 - float64(spread)
	return uint8(math.Max(0, math.Min(255, v)))
}

// Update moves and ages the particles, dropping dead ones
func (d *Debris) Update(dt float64) {
	k := 0
	damp := math.Max(0, 1-d.drag*dt)
	for i := range d.particles {
		p := &d.particles[i]
		p.age += dt
		p.x += p.vx * dt
		p.z += p.vz * dt
		p.vx *= damp
		p.vz *= damp
		if p.IsAlive() {
			d.particles[k] = *p
			k++
		}
	}
	d.particles = d.particles[:k]
}

// Clear drops every particle
func (d *Debris) Clear() {
	d.particles = d.particles[:0]
}

// Len returns the number of live particles
func (d *Debris) Len() int {
	return len(d.particles)
}

// Draw renders the particles, fading with age
func (d *Debris) Draw(screen *ebiten.Image, cam *Camera) {
	for _, p := range d.particles {
		sx, sy := cam.WorldToScreen(p.x, p.z)
		alpha := math.Max(0, math.Min(1, 1-p.age/p.lifetime))
		clr := p.color
		clr.A = uint8(float64(clr.A) * alpha)
		vector.DrawFilledCircle(screen, float32(sx), float32(sy), float32(math.Max(1, p.size*cam.Zoom)), clr, true)
	}
}
