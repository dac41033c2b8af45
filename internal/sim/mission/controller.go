package mission

import (
	"math"
	"math/rand"

	"github.com/vovakirdan/tui-avalanche/internal/core"
	"github.com/vovakirdan/tui-avalanche/internal/sim/hazard"
)

// digSnap absorbs float drift when dig progress is summed from many ticks.
const digSnap = 1e-9

// Controller is the mission state machine for one attempt.
type Controller struct {
	params Params

	runState   RunState
	submode    Submode
	objective  string
	timer      float64
	dispatch   float64
	probesLeft int
	dig        float64
	signal     int
	bearing    float64
	elapsed    float64

	banner          string
	bannerRemaining float64

	victim        core.Vec2
	probes        []core.Vec2
	secured       bool
	restart       bool
	hazardPhase   hazard.Phase
	dangerTrigger bool
	loseReason    LoseReason
}

// New starts a mission in Dispatch. The victim is drawn from the candidate
// list with rng; a nil rng picks the first candidate.
func New(params Params, rng *rand.Rand) *Controller {
	c := &Controller{
		params:     params,
		runState:   Dispatch,
		submode:    Search,
		objective:  ObjectiveStandBy,
		timer:      math.Max(0, params.TimerSec),
		dispatch:   math.Max(0, params.DispatchSec),
		probesLeft: core.Max(params.ProbeCount, 0),
		bearing:    -math.Pi / 2,
	}
	if n := len(params.VictimCandidates); n > 0 {
		i := 0
		if rng != nil {
			i = rng.Intn(n)
		}
		c.victim = params.VictimCandidates[i]
	}
	return c
}

// Update advances the mission by dt seconds with the player at pos.
// Negative or NaN dt is treated as zero.
func (c *Controller) Update(dt float64, in Input, pos core.Vec2) {
	if !(dt > 0) || math.IsInf(dt, 0) {
		dt = 0
	}

	c.restart = false
	c.updateBanner(dt)
	c.updateSignal(pos)

	switch c.runState {
	case Dispatch:
		c.dispatch = math.Max(0, c.dispatch-dt)
		c.objective = ObjectiveDispatch
		if c.dispatch <= 0 {
			c.runState = Active
			c.submode = Search
			c.objective = ObjectiveSearch
		}
		return
	case Win, Lose:
		if in.RestartPressed {
			c.restart = true
		}
		return
	}

	c.elapsed += dt
	c.timer = math.Max(0, c.timer-dt)
	if c.timer <= 0 {
		c.ForceLose(Timer)
		return
	}

	if (c.submode == Search || c.submode == Probe) && in.TogglePressed {
		if c.submode == Search {
			c.submode = Probe
			c.objective = ObjectiveProbe
		} else {
			c.submode = Search
			c.objective = ObjectiveTrack
		}
	}

	switch c.submode {
	case Probe:
		c.placeProbe(in, pos)
	case Dig:
		c.digIn(dt, in)
	case Carry:
		c.objective = ObjectiveEvac
		if c.params.Evac.Contains(pos.X, pos.Z) {
			c.runState = Win
			c.pushBanner(BannerComplete)
		}
	}
}

func (c *Controller) placeProbe(in Input, pos core.Vec2) {
	if !in.ActionPressed || c.probesLeft <= 0 {
		return
	}
	c.probesLeft--
	c.probes = append(c.probes, pos)

	if core.Dist(pos, c.victim) <= c.params.ProbeSuccessRadius {
		c.submode = Dig
		c.dig = 0
		c.objective = ObjectiveDig
		c.hazardPhase = hazard.AfterStrike
		c.pushBanner(BannerStrike)
	}
}

func (c *Controller) digIn(dt float64, in Input) {
	if !in.ActionHeld {
		return
	}
	if c.params.DigDurationSec > 0 {
		c.dig = math.Min(1, c.dig+dt/c.params.DigDurationSec)
	} else {
		c.dig = 1
	}
	if c.dig >= 1-digSnap {
		c.dig = 1
		c.secured = true
		c.submode = Carry
		c.objective = ObjectiveEvac
		c.hazardPhase = hazard.AfterSecure
		c.pushBanner(BannerSecured)
	}
}

// ForceLose ends an unfinished run with the given reason.
// It does nothing once the run is already won or lost.
func (c *Controller) ForceLose(reason LoseReason) {
	if c.runState.Terminal() {
		return
	}
	c.runState = Lose
	c.loseReason = reason
	c.dangerTrigger = reason == Danger
	if reason == Danger {
		c.objective = ObjectiveCaught
		c.pushBanner(BannerSlide)
	} else {
		c.objective = ObjectiveLost
		c.pushBanner(BannerTimeout)
	}
}

func (c *Controller) updateSignal(pos core.Vec2) {
	d := c.victim.Sub(pos)
	c.bearing = math.Atan2(d.Z, d.X)
	c.signal = SignalStrength(d.Len(), c.params.SignalMaxDistance, c.params.SignalExponent)
}

// SignalStrength maps a distance to a 0-100 transceiver reading.
func SignalStrength(distance, maxRange, exponent float64) int {
	if maxRange <= 0 {
		if distance <= 0 {
			return 100
		}
		return 0
	}
	n := core.ClampF(distance/maxRange, 0, 1)
	s := core.ClampF(1-math.Pow(n, exponent), 0, 1)
	return int(math.Round(s * 100))
}

func (c *Controller) updateBanner(dt float64) {
	if c.bannerRemaining <= 0 {
		c.banner = ""
		return
	}
	c.bannerRemaining = math.Max(0, c.bannerRemaining-dt)
	if c.bannerRemaining <= 0 {
		c.banner = ""
	}
}

func (c *Controller) pushBanner(text string) {
	c.banner = text
	c.bannerRemaining = c.params.BannerSec
}

// RunState returns the current run state.
func (c *Controller) RunState() RunState {
	return c.runState
}

// Probes returns the points where probes were placed, oldest first.
func (c *Controller) Probes() []core.Vec2 {
	cp := make([]core.Vec2, len(c.probes))
	copy(cp, c.probes)
	return cp
}

// Victim returns the hidden victim point. Hosts reveal it only after the run ends.
func (c *Controller) Victim() core.Vec2 {
	return c.victim
}

// Evac returns the evacuation rectangle.
func (c *Controller) Evac() core.WorldRect {
	return c.params.Evac
}

// Snapshot returns the mission view for the current tick.
func (c *Controller) Snapshot() Snapshot {
	active := c.runState == Active
	sprint := active && (c.submode != Carry || c.params.CarrySprintEnabled)
	speed := 1.0
	if active && c.submode == Carry {
		speed = c.params.CarrySpeedMultiplier
	}
	return Snapshot{
		RunState:          c.runState,
		Submode:           c.submode,
		Objective:         c.objective,
		Timer:             c.timer,
		DispatchRemaining: c.dispatch,
		ProbesRemaining:   c.probesLeft,
		DigProgress:       c.dig,
		Signal:            c.signal,
		Bearing:           c.bearing,
		Banner:            c.banner,
		VictimSecured:     c.secured,
		CanInput:          active,
		SprintEnabled:     sprint,
		SpeedMultiplier:   speed,
		RestartRequested:  c.restart,
		HazardPhase:       c.hazardPhase,
		DangerTriggered:   c.dangerTrigger,
		LoseReason:        c.loseReason,
		Elapsed:           c.elapsed,
	}
}
