// Package hazard models the secondary slide: a lethal circle that grows at a
// phase-dependent rate on a fixed timestep.
package hazard

import (
	"math"

	"github.com/vovakirdan/tui-avalanche/internal/core"
)

// Phase selects the growth rate and pulse speed.
type Phase int

const (
	Idle Phase = iota
	AfterStrike
	AfterSecure
)

// String returns the display name of the phase.
func (p Phase) String() string {
	switch p {
	case Idle:
		return "IDLE"
	case AfterStrike:
		return "AFTER_STRIKE"
	case AfterSecure:
		return "AFTER_SECURE"
	default:
		return "UNKNOWN"
	}
}

// Params tunes the hazard.
type Params struct {
	Center          core.Vec2
	InitialRadius   float64
	Growth          map[Phase]float64 // Radius units per second
	PulseSpeed      map[Phase]float64 // Pulse cycles per second
	KillMargin      float64
	WarningOffset   float64
	PressureFalloff float64
	FixedStep       float64
	MaxStepsPerTick int
}

// DefaultParams returns the tuning used by the built-in scenarios.
func DefaultParams() Params {
	return Params{
		Center:        core.V(1200, 300),
		InitialRadius: 120,
		Growth: map[Phase]float64{
			Idle:        4,
			AfterStrike: 9,
			AfterSecure: 14,
		},
		PulseSpeed: map[Phase]float64{
			Idle:        0.6,
			AfterStrike: 1.1,
			AfterSecure: 1.6,
		},
		KillMargin:      6,
		WarningOffset:   10,
		PressureFalloff: 240,
		FixedStep:       1.0 / 60,
		MaxStepsPerTick: 10,
	}
}

// Snapshot is a read-only view of the hazard for one tick.
type Snapshot struct {
	Center        core.Vec2
	Radius        float64
	KillRadius    float64
	WarningRadius float64
	Phase         Phase
	Pulse         float64
	GrowthPerSec  float64
}

// Zone owns the hazard state for one mission attempt.
type Zone struct {
	params      Params
	radius      float64
	phase       Phase
	pulse       float64
	accumulator float64
	steps       int // Fixed steps applied since creation
}

// New creates a hazard at its initial radius in the Idle phase.
func New(params Params) *Zone {
	if params.FixedStep <= 0 {
		params.FixedStep = 1.0 / 60
	}
	if params.MaxStepsPerTick < 1 {
		params.MaxStepsPerTick = 1
	}
	return &Zone{
		params: params,
		radius: math.Max(0, params.InitialRadius),
	}
}

// Update advances the hazard by dt seconds. At most MaxStepsPerTick fixed
// steps run per call; any larger backlog is dropped down to less than one step.
func (z *Zone) Update(dt float64) int {
	if !(dt > 0) || math.IsInf(dt, 0) {
		return 0
	}

	step := z.params.FixedStep
	growth := z.GrowthRate()

	z.accumulator += dt
	n := 0
	for z.accumulator >= step && n < z.params.MaxStepsPerTick {
		z.radius += growth * step
		z.accumulator -= step
		n++
	}
	if z.accumulator >= step {
		z.accumulator = math.Mod(z.accumulator, step)
	}
	z.steps += n

	z.pulse = math.Mod(z.pulse+dt*z.params.PulseSpeed[z.phase], 1)
	if z.pulse < 0 || z.pulse >= 1 {
		z.pulse = 0
	}
	return n
}

// SetPhase switches the growth and pulse lookup. Radius is unaffected.
func (z *Zone) SetPhase(p Phase) {
	z.phase = p
}

// Phase returns the current phase.
func (z *Zone) Phase() Phase {
	return z.phase
}

// GrowthRate returns the radius growth per second for the current phase.
func (z *Zone) GrowthRate() float64 {
	return math.Max(0, z.params.Growth[z.phase])
}

// Radius returns the raw radius.
func (z *Zone) Radius() float64 {
	return z.radius
}

// KillRadius is the lethal boundary.
func (z *Zone) KillRadius() float64 {
	return math.Max(0, z.radius-z.params.KillMargin)
}

// WarningRadius is an advisory ring outside the kill radius.
func (z *Zone) WarningRadius() float64 {
	return z.KillRadius() + math.Max(0, z.params.WarningOffset)
}

// Center returns the epicenter.
func (z *Zone) Center() core.Vec2 {
	return z.params.Center
}

// Steps returns the number of fixed steps applied so far.
func (z *Zone) Steps() int {
	return z.steps
}

// IsWithin reports whether (x, z) is inside the kill radius.
func (z *Zone) IsWithin(x, zz float64) bool {
	return core.Dist(core.V(x, zz), z.params.Center) <= z.KillRadius()
}

// DistanceToEdge returns the signed distance to the kill radius; negative is inside.
func (z *Zone) DistanceToEdge(x, zz float64) float64 {
	return core.Dist(core.V(x, zz), z.params.Center) - z.KillRadius()
}

// Pressure is 1 at or inside the kill edge, falling linearly to 0 over
// PressureFalloff outside it.
func (z *Zone) Pressure(x, zz float64) float64 {
	d := z.DistanceToEdge(x, zz)
	if d <= 0 {
		return 1
	}
	if z.params.PressureFalloff <= 0 {
		return 0
	}
	return core.ClampF(1-d/z.params.PressureFalloff, 0, 1)
}

// Snapshot returns the current read-only view.
func (z *Zone) Snapshot() Snapshot {
	return Snapshot{
		Center:        z.params.Center,
		Radius:        z.radius,
		KillRadius:    z.KillRadius(),
		WarningRadius: z.WarningRadius(),
		Phase:         z.phase,
		Pulse:         z.pulse,
		GrowthPerSec:  z.GrowthRate(),
	}
}
