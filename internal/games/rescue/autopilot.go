package rescue

import (
	"math"

	"github.com/vovakirdan/tui-avalanche/internal/core"
	"github.com/vovakirdan/tui-avalanche/internal/sim/mission"
)

// Autopilot tuning.
const (
	creepSignal    = 99   // Signal at which the pilot slows to short pulses
	probeSignal    = 100  // Signal at which a probe is worth placing
	stopSpeed      = 4.0  // Speed considered stationary
	missCreep      = 20   // Pulses to creep after a missed probe
	stuckWindow    = 45   // Ticks between progress checks
	stuckDistance  = 6.0  // Minimum progress per window
	sidestepTicks  = 30   // Ticks spent sidestepping after getting stuck
	hazardClear    = 80.0 // Distance from the kill edge the pilot tries to keep
	hazardRepulse  = 2.0  // Weight of the push away from the slide
	defaultSimStep = 1.0 / 60
)

// Autopilot plays a mission using only what the HUD shows: signal, bearing,
// submode, the evac zone and the slide. The sim command and tests use it.
type Autopilot struct {
	pulse     bool
	creepLeft int
	probed    bool

	anchor     core.Vec2
	anchorTick int
	tick       int
	sidestep   int
	side       float64
}

// NewAutopilot creates a pilot for one attempt.
func NewAutopilot() *Autopilot {
	return &Autopilot{side: 1}
}

// Next returns the input for the coming tick.
func (a *Autopilot) Next(g *Game) core.InputFrame {
	in := core.NewInputFrame()
	ms := g.Mission()
	player := g.Player()
	a.tick++

	if ms.RunState != mission.Active {
		a.anchor = player.Pos
		a.anchorTick = a.tick
		return in
	}

	switch ms.Submode {
	case mission.Search, mission.Probe:
		a.search(g, ms, &in)
	case mission.Dig:
		in.UseHeld = true
	case mission.Carry:
		evac := g.Evac().Center()
		a.steer(g, evac.Sub(player.Pos), &in)
	}
	return in
}

func (a *Autopilot) search(g *Game, ms mission.Snapshot, in *core.InputFrame) {
	player := g.Player()
	toward := core.V(math.Cos(ms.Bearing), math.Sin(ms.Bearing))

	// A probe was placed last tick and did not strike.
	if a.probed && ms.Submode == mission.Probe {
		a.probed = false
		a.creepLeft = missCreep
		in.Set(core.ActionToggle)
		return
	}
	a.probed = false

	if ms.Signal < creepSignal {
		if ms.Submode == mission.Probe {
			in.Set(core.ActionToggle)
			return
		}
		a.steer(g, toward, in)
		return
	}

	if ms.Signal >= probeSignal && a.creepLeft <= 0 && player.Speed() <= stopSpeed {
		if ms.Submode == mission.Search {
			in.Set(core.ActionToggle)
			return
		}
		if ms.ProbesRemaining > 0 {
			in.Set(core.ActionUse)
			a.probed = true
		}
		return
	}

	if ms.Submode == mission.Probe {
		in.Set(core.ActionToggle)
		return
	}

	// Creep: one tick of input, then coast to a stop.
	a.pulse = !a.pulse
	if a.pulse && player.Speed() <= stopSpeed {
		setMove(in, toward)
		if a.creepLeft > 0 {
			a.creepLeft--
		}
	}
}

// steer moves toward dir, away from the slide, and around whatever it is stuck on.
func (a *Autopilot) steer(g *Game, dir core.Vec2, in *core.InputFrame) {
	pos := g.Player().Pos
	dir = dir.Normalize()

	hz := g.Hazard()
	if edge := core.Dist(pos, hz.Center) - hz.KillRadius; edge < hazardClear {
		away := pos.Sub(hz.Center).Normalize()
		w := hazardRepulse * (1 - math.Max(0, edge)/hazardClear)
		dir = dir.Add(away.Scale(w)).Normalize()
	}

	if a.tick-a.anchorTick >= stuckWindow {
		if core.Dist(pos, a.anchor) < stuckDistance {
			a.sidestep = sidestepTicks
			a.side = -a.side
		}
		a.anchor = pos
		a.anchorTick = a.tick
	}
	if a.sidestep > 0 {
		a.sidestep--
		dir = core.V(-dir.Z*a.side, dir.X*a.side)
	}

	setMove(in, dir)
}

// setMove quantizes a direction to the eight-way input axes.
func setMove(in *core.InputFrame, dir core.Vec2) {
	if dir.LenSq() == 0 {
		return
	}
	angle := math.Atan2(dir.Z, dir.X)
	oct := int(math.Round(angle / (math.Pi / 4)))
	in.MoveX = int(math.Round(math.Cos(float64(oct) * math.Pi / 4)))
	in.MoveZ = int(math.Round(math.Sin(float64(oct) * math.Pi / 4)))
}

// Simulate plays one attempt with the autopilot at a fixed step until the
// run ends or maxTicks pass. observe, if set, sees every tick's snapshot.
func Simulate(g *Game, dt float64, maxTicks int, observe func(*Snapshot) error) (Report, error) {
	if !(dt > 0) {
		dt = defaultSimStep
	}
	pilot := NewAutopilot()

	for range maxTicks {
		g.Step(dt, pilot.Next(g))
		if observe != nil {
			snap := g.Snapshot()
			if err := observe(&snap); err != nil {
				return Report{}, err
			}
		}
		if g.Mission().RunState.Terminal() {
			break
		}
	}

	return g.Report(), nil
}
