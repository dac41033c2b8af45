// Package locomotion integrates the rescuer's movement over terrain, slope
// and obstacles.
package locomotion

import (
	"math"

	"github.com/vovakirdan/tui-avalanche/internal/core"
	"github.com/vovakirdan/tui-avalanche/internal/sim/terrain"
)

// InitialHeading faces north.
const InitialHeading = -math.Pi / 2

// State is the player's kinematic state. Locomotion is its only writer.
type State struct {
	Pos       core.Vec2 // Ground-plane position (x, z)
	Y         float64   // Smoothed elevation
	Vel       core.Vec2 // Ground-plane velocity (vx, vz)
	VY        float64   // Elevation change rate, informational only
	Heading   float64   // Radians, atan2(vz, vx)
	Stamina   float64
	Sprinting bool
	Terrain   terrain.Category
}

// NewState returns a resting state at (x, z) with full stamina.
func NewState(x, z, stamina float64) State {
	return State{
		Pos:     core.V(x, z),
		Heading: InitialHeading,
		Stamina: stamina,
	}
}

// Speed returns the horizontal speed.
func (s State) Speed() float64 {
	return s.Vel.Len()
}

// Intent is the per-tick movement request published by the input collaborator.
type Intent struct {
	Move   core.Vec2 // Raw direction; any length
	Sprint bool
}

// IntentFromInput converts an input frame into a locomotion intent.
func IntentFromInput(in core.InputFrame) Intent {
	return Intent{Move: in.Intent(), Sprint: in.SprintHeld}
}

// Constraints are the mission-supplied permissions for one step.
type Constraints struct {
	InputEnabled    bool
	SprintEnabled   bool
	SpeedMultiplier float64
}

// Free returns constraints that allow full control.
func Free() Constraints {
	return Constraints{InputEnabled: true, SprintEnabled: true, SpeedMultiplier: 1}
}

// Params tunes the movement model.
type Params struct {
	BaseSpeed        float64
	SprintMultiplier float64
	Accel            float64
	Decel            float64

	StaminaMax       float64
	StaminaDrain     float64 // Per second while sprinting
	StaminaRegen     float64 // Per second otherwise
	StaminaMinSprint float64 // Sprint requires stamina strictly above this

	TerrainSpeed    map[terrain.Category]float64
	GullyStickiness float64 // 0 turns freely, 1 keeps the previous heading

	SlopeInfluence float64
	SlopeMinFactor float64
	SlopeMaxFactor float64
	DriftAccel     float64

	MaxStepDistance float64
	MaxSubSteps     int
	Radius          float64

	HeightSmoothing  float64
	ContactOffset    float64
	HeadingMinSpeed  float64 // |vx|+|vz| needed before heading follows velocity
	CollisionDamping float64 // Velocity factor applied after any hit
}

// DefaultParams returns the tuning used by the built-in scenarios.
func DefaultParams() Params {
	return Params{
		BaseSpeed:        240,
		SprintMultiplier: 1.55,
		Accel:            1800,
		Decel:            1700,

		StaminaMax:       100,
		StaminaDrain:     38,
		StaminaRegen:     24,
		StaminaMinSprint: 8,

		TerrainSpeed: map[terrain.Category]float64{
			terrain.OpenSnow:  1.0,
			terrain.Powder:    0.72,
			terrain.Trees:     0.68,
			terrain.RidgeRock: 0.78,
			terrain.Gully:     1.16,
		},
		GullyStickiness: 0.22,

		SlopeInfluence: 0.35,
		SlopeMinFactor: 0.7,
		SlopeMaxFactor: 1.32,
		DriftAccel:     30,

		MaxStepDistance: 6,
		MaxSubSteps:     8,
		Radius:          12,

		HeightSmoothing:  10,
		ContactOffset:    6,
		HeadingMinSpeed:  0.01,
		CollisionDamping: 0.98,
	}
}

// terrainSpeed returns the speed factor for a category; missing entries are 1.
func (p Params) terrainSpeed(c terrain.Category) float64 {
	if f, ok := p.TerrainSpeed[c]; ok {
		return f
	}
	return 1
}
