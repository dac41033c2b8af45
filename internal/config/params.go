package config

import (
	"github.com/vovakirdan/tui-avalanche/internal/core"
	"github.com/vovakirdan/tui-avalanche/internal/sim/collision"
	"github.com/vovakirdan/tui-avalanche/internal/sim/hazard"
	"github.com/vovakirdan/tui-avalanche/internal/sim/locomotion"
	"github.com/vovakirdan/tui-avalanche/internal/sim/mission"
	"github.com/vovakirdan/tui-avalanche/internal/sim/terrain"
)

// Bounds returns the world rectangle.
func (c MissionConfig) Bounds() core.WorldRect {
	return core.WorldRect{W: c.World.Width, H: c.World.Height}
}

// Start returns the player's spawn point.
func (c MissionConfig) Start() core.Vec2 {
	return core.V(c.Player.StartX, c.Player.StartZ)
}

// TerrainZones converts the zone list, skipping unknown categories.
func (c MissionConfig) TerrainZones() []terrain.Zone {
	zones := make([]terrain.Zone, 0, len(c.Zones))
	for _, z := range c.Zones {
		cat, err := terrain.ParseCategory(z.Type)
		if err != nil {
			continue
		}
		zones = append(zones, terrain.Zone{
			Category: cat,
			Rect:     core.WorldRect{X: z.X, Z: z.Z, W: z.W, H: z.H},
			Label:    z.Label,
		})
	}
	return zones
}

// FieldParams builds the elevation field tuning.
func (c MissionConfig) FieldParams() terrain.FieldParams {
	return terrain.FieldParams{
		WorldHeight:    c.World.Height,
		GlobalGradient: c.Slope.GlobalGradient,
		SampleDistance: c.Slope.SampleDistance,
		MaxGrade:       c.Slope.MaxGrade,
		Bias:           categoryTable(c.Terrain.Bias),
	}
}

// CollisionObstacles converts the obstacle list, skipping unknown kinds.
func (c MissionConfig) CollisionObstacles() []collision.Obstacle {
	obs := make([]collision.Obstacle, 0, len(c.Obstacles))
	for _, o := range c.Obstacles {
		kind, err := parseObstacleKind(o.Kind)
		if err != nil {
			continue
		}
		obs = append(obs, collision.NewObstacle(kind, o.X, o.Z, o.W, o.H))
	}
	return obs
}

// LocomotionParams builds the movement tuning.
func (c MissionConfig) LocomotionParams() locomotion.Params {
	p := locomotion.DefaultParams()
	p.BaseSpeed = c.Player.BaseSpeed
	p.SprintMultiplier = c.Player.SprintMultiplier
	p.Accel = c.Player.Accel
	p.Decel = c.Player.Decel
	p.StaminaMax = c.Player.Stamina.Max
	p.StaminaDrain = c.Player.Stamina.Drain
	p.StaminaRegen = c.Player.Stamina.Regen
	p.StaminaMinSprint = c.Player.Stamina.MinToSprint
	p.TerrainSpeed = categoryTable(c.Terrain.Speed)
	p.GullyStickiness = c.Terrain.GullyStickiness
	p.SlopeInfluence = c.Slope.Influence
	p.SlopeMinFactor = c.Slope.MinFactor
	p.SlopeMaxFactor = c.Slope.MaxFactor
	p.DriftAccel = c.Slope.DriftAccel
	p.MaxStepDistance = c.Collision.MaxStepDistance
	p.MaxSubSteps = c.Collision.MaxSubSteps
	p.CollisionDamping = c.Collision.Damping
	p.Radius = c.Player.Radius
	p.HeightSmoothing = c.Player.HeightSmoothing
	p.ContactOffset = c.Player.ContactOffset
	return p
}

// HazardParams builds the secondary slide tuning.
func (c MissionConfig) HazardParams() hazard.Params {
	h := c.Hazard
	return hazard.Params{
		Center:        core.V(h.CenterX, h.CenterZ),
		InitialRadius: h.InitialRadius,
		Growth: map[hazard.Phase]float64{
			hazard.Idle:        h.Growth.Idle,
			hazard.AfterStrike: h.Growth.AfterStrike,
			hazard.AfterSecure: h.Growth.AfterSecure,
		},
		PulseSpeed: map[hazard.Phase]float64{
			hazard.Idle:        h.Pulse.Idle,
			hazard.AfterStrike: h.Pulse.AfterStrike,
			hazard.AfterSecure: h.Pulse.AfterSecure,
		},
		KillMargin:      h.KillMargin,
		WarningOffset:   h.WarningOffset,
		PressureFalloff: h.PressureFalloff,
		FixedStep:       h.FixedStep,
		MaxStepsPerTick: h.MaxStepsPerTick,
	}
}

// MissionParams builds the state machine tuning.
func (c MissionConfig) MissionParams() mission.Params {
	m := c.Mission
	victims := make([]core.Vec2, len(c.Victims))
	for i, v := range c.Victims {
		victims[i] = core.V(v.X, v.Z)
	}
	return mission.Params{
		TimerSec:             m.TimerSec,
		DispatchSec:          m.DispatchSec,
		ProbeCount:           m.ProbeCount,
		ProbeSuccessRadius:   m.ProbeSuccessRadius,
		DigDurationSec:       m.DigDurationSec,
		SignalMaxDistance:    m.SignalMaxDistance,
		SignalExponent:       m.SignalExponent,
		BannerSec:            m.BannerSec,
		CarrySpeedMultiplier: m.CarrySpeedMultiplier,
		CarrySprintEnabled:   m.CarrySprint,
		VictimCandidates:     victims,
		Evac:                 core.WorldRect{X: c.Evac.X, Z: c.Evac.Z, W: c.Evac.W, H: c.Evac.H},
	}
}

func categoryTable(in map[string]float64) map[terrain.Category]float64 {
	out := make(map[terrain.Category]float64, len(in))
	for name, v := range in {
		if cat, err := terrain.ParseCategory(name); err == nil {
			out[cat] = v
		}
	}
	return out
}
