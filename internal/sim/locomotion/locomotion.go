package locomotion

import (
	"math"

	"github.com/vovakirdan/tui-avalanche/internal/core"
	"github.com/vovakirdan/tui-avalanche/internal/sim/collision"
	"github.com/vovakirdan/tui-avalanche/internal/sim/terrain"
)

// Locomotion owns the player state and advances it one tick at a time.
type Locomotion struct {
	state    State
	params   Params
	field    *terrain.Field
	world    *collision.World
	lastMove core.Vec2
}

// New places a rested player at (x, z).
func New(x, z float64, field *terrain.Field, world *collision.World, params Params) *Locomotion {
	l := &Locomotion{
		state:    NewState(x, z, params.StaminaMax),
		params:   params,
		field:    field,
		world:    world,
		lastMove: core.V(0, -1),
	}
	l.state.Terrain = field.Classifier().Classify(x, z)
	l.state.Y = field.Elevation(x, z)
	return l
}

// Step advances the player by dt seconds. Negative or NaN dt is ignored.
func (l *Locomotion) Step(dt float64, intent Intent, c Constraints) {
	if dt < 0 || math.IsNaN(dt) || math.IsInf(dt, 0) {
		return
	}
	p := l.params
	s := &l.state

	dir := core.Vec2{}
	if c.InputEnabled {
		dir = intent.Move
		if dir.LenSq() > 0 {
			dir = dir.Normalize()
		}
	}

	s.Terrain = l.field.Classifier().Classify(s.Pos.X, s.Pos.Z)

	moving := dir.LenSq() > 0
	s.Sprinting = moving && intent.Sprint && s.Stamina > p.StaminaMinSprint && c.SprintEnabled
	if s.Sprinting {
		s.Stamina = math.Max(0, s.Stamina-p.StaminaDrain*dt)
	} else {
		s.Stamina = math.Min(p.StaminaMax, s.Stamina+p.StaminaRegen*dt)
	}

	sprint := 1.0
	if s.Sprinting {
		sprint = p.SprintMultiplier
	}
	downhill := l.field.Downhill(s.Pos.X, s.Pos.Z)
	grade := l.field.Grade(s.Pos.X, s.Pos.Z)

	if moving {
		desired := l.steer(dir)
		l.lastMove = desired

		align := core.ClampF(desired.Dot(downhill), -1, 1)
		slope := core.ClampF(1+align*grade*p.SlopeInfluence*5, p.SlopeMinFactor, p.SlopeMaxFactor)
		speed := p.BaseSpeed * p.terrainSpeed(s.Terrain) * sprint * c.SpeedMultiplier * slope

		step := p.Accel * dt
		s.Vel.X = core.MoveTowards(s.Vel.X, desired.X*speed, step)
		s.Vel.Z = core.MoveTowards(s.Vel.Z, desired.Z*speed, step)
	} else {
		step := p.Decel * dt
		s.Vel.X = core.MoveTowards(s.Vel.X, 0, step)
		s.Vel.Z = core.MoveTowards(s.Vel.Z, 0, step)
	}

	if c.InputEnabled {
		drift := p.DriftAccel * (0.3 + grade*3.6)
		s.Vel = s.Vel.Add(downhill.Scale(drift * dt))
	}

	l.integrate(dt)

	if math.Abs(s.Vel.X)+math.Abs(s.Vel.Z) > p.HeadingMinSpeed {
		s.Heading = math.Atan2(s.Vel.Z, s.Vel.X)
	}

	target := l.field.Elevation(s.Pos.X, s.Pos.Z)
	alpha := 1 - math.Exp(-p.HeightSmoothing*dt)
	next := core.Lerp(s.Y, target, alpha)
	if dt > 0 {
		s.VY = (next - s.Y) / dt
	} else {
		s.VY = 0
	}
	s.Y = next
}

// steer applies the gully channelling to a unit input direction.
func (l *Locomotion) steer(dir core.Vec2) core.Vec2 {
	if l.state.Terrain != terrain.Gully {
		return dir
	}
	blended := l.lastMove.Lerp(dir, 1-l.params.GullyStickiness).Normalize()
	if blended.LenSq() == 0 {
		return dir
	}
	return blended
}

// integrate sub-steps the frame displacement through the collision world.
func (l *Locomotion) integrate(dt float64) {
	p := l.params
	s := &l.state

	frame := s.Vel.Scale(dt)
	maxStep := p.MaxStepDistance
	if maxStep <= 0 {
		maxStep = math.Inf(1)
	}
	steps := core.Clamp(int(math.Ceil(frame.Len()/maxStep)), 1, core.Max(p.MaxSubSteps, 1))
	delta := frame.Scale(1 / float64(steps))

	pos := s.Pos
	collided := false
	for i := 0; i < steps; i++ {
		r := l.world.ResolveMotion(pos.X, pos.Z, delta.X, delta.Z, p.Radius)
		pos = r.Pos()
		if !r.Hit {
			continue
		}
		collided = true
		if into := s.Vel.Dot(r.Normal); into < 0 {
			s.Vel = s.Vel.Sub(r.Normal.Scale(into))
		}
	}
	s.Pos = pos

	if collided {
		s.Vel = s.Vel.Scale(p.CollisionDamping)
	}
}

// StopMotion zeroes velocity and the sprint flag, keeping position.
func (l *Locomotion) StopMotion() {
	l.state.Vel = core.Vec2{}
	l.state.Sprinting = false
}

// State returns a copy of the player state.
func (l *Locomotion) State() State {
	return l.state
}

// Terrain returns the category under the player as of the last step.
func (l *Locomotion) Terrain() terrain.Category {
	return l.state.Terrain
}

// StaminaRatio returns stamina as a fraction of the maximum.
func (l *Locomotion) StaminaRatio() float64 {
	if l.params.StaminaMax <= 0 {
		return 0
	}
	return l.state.Stamina / l.params.StaminaMax
}

// Sprinting reports whether the last step was a sprint.
func (l *Locomotion) Sprinting() bool {
	return l.state.Sprinting
}

// ContactPoint returns where the player's feet touch the ground plane.
func (l *Locomotion) ContactPoint() core.Vec2 {
	return core.V(l.state.Pos.X, l.state.Pos.Z+l.params.ContactOffset)
}

// Radius returns the collision radius.
func (l *Locomotion) Radius() float64 {
	return l.params.Radius
}
