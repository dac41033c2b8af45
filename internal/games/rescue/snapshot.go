package rescue

import (
	"math"

	"github.com/vovakirdan/tui-avalanche/internal/sim/hazard"
	"github.com/vovakirdan/tui-avalanche/internal/sim/locomotion"
	"github.com/vovakirdan/tui-avalanche/internal/sim/mission"
)

// Snapshot captures the complete per-tick view for determinism tests and traces.
type Snapshot struct {
	Tick     uint64
	Attempt  int
	Score    int
	Paused   bool
	Player   locomotion.State
	Stamina  float64 // 0..1
	Mission  mission.Snapshot
	Hazard   hazard.Snapshot
	Pressure float64
	Probes   int
}

// Snapshot returns the current snapshot.
func (g *Game) Snapshot() Snapshot {
	p := g.loco.State()
	return Snapshot{
		Tick:     g.tick,
		Attempt:  g.attempts,
		Score:    g.score,
		Paused:   g.paused,
		Player:   p,
		Stamina:  g.loco.StaminaRatio(),
		Mission:  g.last,
		Hazard:   g.hazard.Snapshot(),
		Pressure: g.pressure(),
		Probes:   len(g.mission.Probes()),
	}
}

// pressure samples the hazard at the contact point the breach check uses.
func (g *Game) pressure() float64 {
	c := g.loco.ContactPoint()
	return g.hazard.Pressure(c.X, c.Z)
}

// Hash computes a simple hash of the snapshot for determinism verification.
func (s *Snapshot) Hash() uint64 {
	var h uint64 = 17
	h = h*31 + s.Tick
	h = h*31 + uint64(s.Attempt) //#nosec G115 -- hash computation
	h = h*31 + uint64(s.Score)   //#nosec G115 -- hash computation
	h = h*31 + fbits(s.Player.Pos.X)
	h = h*31 + fbits(s.Player.Pos.Z)
	h = h*31 + fbits(s.Player.Y)
	h = h*31 + fbits(s.Player.Vel.X)
	h = h*31 + fbits(s.Player.Vel.Z)
	h = h*31 + fbits(s.Player.Heading)
	h = h*31 + fbits(s.Player.Stamina)
	h = h*31 + uint64(s.Player.Terrain)          //#nosec G115 -- hash computation
	h = h*31 + uint64(s.Mission.RunState)        //#nosec G115 -- hash computation
	h = h*31 + uint64(s.Mission.Submode)         //#nosec G115 -- hash computation
	h = h*31 + uint64(s.Mission.ProbesRemaining) //#nosec G115 -- hash computation
	h = h*31 + uint64(s.Mission.Signal)          //#nosec G115 -- hash computation
	h = h*31 + uint64(s.Mission.LoseReason)      //#nosec G115 -- hash computation
	h = h*31 + uint64(s.Hazard.Phase)            //#nosec G115 -- hash computation
	h = h*31 + uint64(s.Probes)                  //#nosec G115 -- hash computation
	h = h*31 + fbits(s.Mission.Timer)
	h = h*31 + fbits(s.Mission.DigProgress)
	h = h*31 + fbits(s.Hazard.Radius)
	h = h*31 + fbits(s.Hazard.Pulse)
	return h
}

func fbits(f float64) uint64 {
	return math.Float64bits(f)
}

// Frame is the flat, JSON-friendly form of a snapshot written to traces.
type Frame struct {
	Tick      uint64  `json:"tick"`
	Attempt   int     `json:"attempt"`
	RunState  string  `json:"run_state"`
	Submode   string  `json:"submode"`
	X         float64 `json:"x"`
	Z         float64 `json:"z"`
	Y         float64 `json:"y"`
	Speed     float64 `json:"speed"`
	Heading   float64 `json:"heading"`
	Stamina   float64 `json:"stamina"`
	Sprinting bool    `json:"sprinting"`
	Terrain   string  `json:"terrain"`
	Timer     float64 `json:"timer"`
	Probes    int     `json:"probes_left"`
	Dig       float64 `json:"dig"`
	Signal    int     `json:"signal"`
	Bearing   float64 `json:"bearing"`
	Banner    string  `json:"banner,omitempty"`
	Hazard    float64 `json:"hazard_radius"`
	Phase     string  `json:"hazard_phase"`
	Pressure  float64 `json:"pressure"`
	Reason    string  `json:"lose_reason,omitempty"`
}

// Frame flattens the snapshot for trace output.
func (s *Snapshot) Frame() Frame {
	f := Frame{
		Tick:      s.Tick,
		Attempt:   s.Attempt,
		RunState:  s.Mission.RunState.String(),
		Submode:   s.Mission.Submode.String(),
		X:         s.Player.Pos.X,
		Z:         s.Player.Pos.Z,
		Y:         s.Player.Y,
		Speed:     s.Player.Speed(),
		Heading:   s.Player.Heading,
		Stamina:   s.Stamina,
		Sprinting: s.Player.Sprinting,
		Terrain:   s.Player.Terrain.String(),
		Timer:     s.Mission.Timer,
		Probes:    s.Mission.ProbesRemaining,
		Dig:       s.Mission.DigProgress,
		Signal:    s.Mission.Signal,
		Bearing:   s.Mission.Bearing,
		Banner:    s.Mission.Banner,
		Hazard:    s.Hazard.Radius,
		Phase:     s.Hazard.Phase.String(),
		Pressure:  s.Pressure,
	}
	if s.Mission.RunState == mission.Lose {
		f.Reason = s.Mission.LoseReason.String()
	}
	return f
}
