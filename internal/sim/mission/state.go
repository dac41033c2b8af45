// Package mission sequences a rescue attempt: dispatch, search, probe, dig,
// carry, and the terminal win/lose outcomes.
package mission

import (
	"github.com/vovakirdan/tui-avalanche/internal/core"
	"github.com/vovakirdan/tui-avalanche/internal/sim/hazard"
)

// RunState is the top-level mission state.
type RunState int

const (
	Dispatch RunState = iota
	Active
	Win
	Lose
)

// String returns the display name of the run state.
func (s RunState) String() string {
	switch s {
	case Dispatch:
		return "DISPATCH"
	case Active:
		return "ACTIVE"
	case Win:
		return "WIN"
	case Lose:
		return "LOSE"
	default:
		return "UNKNOWN"
	}
}

// Terminal reports whether the run has ended.
func (s RunState) Terminal() bool {
	return s == Win || s == Lose
}

// Submode is the player's activity while Active.
type Submode int

const (
	Search Submode = iota
	Probe
	Dig
	Carry
)

// String returns the display name of the submode.
func (m Submode) String() string {
	switch m {
	case Search:
		return "SEARCH"
	case Probe:
		return "PROBE"
	case Dig:
		return "DIG"
	case Carry:
		return "CARRY"
	default:
		return "UNKNOWN"
	}
}

// LoseReason distinguishes the two ways a run is lost.
type LoseReason int

const (
	NoReason LoseReason = iota
	Timer
	Danger
)

// String returns the display name of the reason.
func (r LoseReason) String() string {
	switch r {
	case NoReason:
		return "NONE"
	case Timer:
		return "TIMER"
	case Danger:
		return "DANGER"
	default:
		return "UNKNOWN"
	}
}

// Objective lines shown to the player.
const (
	ObjectiveStandBy  = "Stand by for dispatch"
	ObjectiveDispatch = "Dispatch incoming"
	ObjectiveSearch   = "Find strongest transceiver signal"
	ObjectiveTrack    = "Track signal and close distance"
	ObjectiveProbe    = "Place probes near strongest signal"
	ObjectiveDig      = "Hold E to DIG"
	ObjectiveEvac     = "Get to EVAC"
	ObjectiveCaught   = "Caught by secondary slide"
	ObjectiveLost     = "Victim lost"
)

// Banner texts.
const (
	BannerStrike   = "STRIKE!"
	BannerSecured  = "VICTIM SECURED"
	BannerComplete = "RESCUE COMPLETE"
	BannerSlide    = "SECONDARY SLIDE!"
	BannerTimeout  = "TIME EXPIRED"
)

// Params tunes the mission.
type Params struct {
	TimerSec             float64
	DispatchSec          float64
	ProbeCount           int
	ProbeSuccessRadius   float64
	DigDurationSec       float64
	SignalMaxDistance    float64
	SignalExponent       float64
	BannerSec            float64
	CarrySpeedMultiplier float64
	CarrySprintEnabled   bool
	VictimCandidates     []core.Vec2
	Evac                 core.WorldRect
}

// DefaultParams returns the tuning used by the built-in scenarios.
func DefaultParams() Params {
	return Params{
		TimerSec:             180,
		DispatchSec:          3,
		ProbeCount:           8,
		ProbeSuccessRadius:   26,
		DigDurationSec:       4,
		SignalMaxDistance:    900,
		SignalExponent:       1.65,
		BannerSec:            1.6,
		CarrySpeedMultiplier: 0.72,
		CarrySprintEnabled:   false,
		VictimCandidates: []core.Vec2{
			core.V(1180, 940),
			core.V(1640, 760),
			core.V(820, 1180),
			core.V(1450, 1240),
		},
		Evac: core.WorldRect{X: 2050, Z: 1470, W: 190, H: 130},
	}
}

// Input is the mission-relevant slice of one input frame.
type Input struct {
	TogglePressed  bool // Edge: switch SEARCH/PROBE
	ActionPressed  bool // Edge: place a probe
	ActionHeld     bool // Level: dig
	RestartPressed bool // Edge: request a restart after WIN/LOSE
}

// InputFromFrame extracts mission input from an input frame.
func InputFromFrame(in core.InputFrame) Input {
	return Input{
		TogglePressed:  in.Has(core.ActionToggle),
		ActionPressed:  in.Has(core.ActionUse),
		ActionHeld:     in.UseHeld || in.Has(core.ActionUse),
		RestartPressed: in.Has(core.ActionRestart),
	}
}

// Snapshot is the single consistent view of the mission for one tick.
type Snapshot struct {
	RunState          RunState
	Submode           Submode
	Objective         string
	Timer             float64
	DispatchRemaining float64
	ProbesRemaining   int
	DigProgress       float64
	Signal            int
	Bearing           float64 // Radians from player to victim, atan2(dz, dx)
	Banner            string
	VictimSecured     bool
	CanInput          bool
	SprintEnabled     bool
	SpeedMultiplier   float64
	RestartRequested  bool
	HazardPhase       hazard.Phase
	DangerTriggered   bool
	LoseReason        LoseReason
	Elapsed           float64 // Seconds spent Active
}
