package mission

import (
	"math"
	"math/rand"
	"testing"

	"github.com/vovakirdan/tui-avalanche/internal/core"
	"github.com/vovakirdan/tui-avalanche/internal/sim/hazard"
)

var (
	start  = core.V(150, 160)
	victim = core.V(1180, 940) // First default candidate
	inEvac = core.V(2100, 1500)
)

// activeController returns a controller that has finished dispatch.
func activeController(t *testing.T) *Controller {
	t.Helper()
	c := New(DefaultParams(), nil)
	c.Update(DefaultParams().DispatchSec, Input{}, start)
	if got := c.RunState(); got != Active {
		t.Fatalf("RunState = %v after dispatch, expected ACTIVE", got)
	}
	return c
}

// strike puts an active controller into DIG.
func strike(t *testing.T, c *Controller) {
	t.Helper()
	c.Update(0.01, Input{TogglePressed: true}, victim)
	c.Update(0.01, Input{ActionPressed: true}, victim)
	if s := c.Snapshot(); s.Submode != Dig {
		t.Fatalf("Submode = %v after probing the victim, expected DIG", s.Submode)
	}
}

func TestNewController(t *testing.T) {
	c := New(DefaultParams(), nil)
	s := c.Snapshot()

	if s.RunState != Dispatch || s.Submode != Search {
		t.Errorf("state = %v/%v, expected DISPATCH/SEARCH", s.RunState, s.Submode)
	}
	if s.Objective != ObjectiveStandBy {
		t.Errorf("Objective = %q", s.Objective)
	}
	if s.Timer != 180 || s.ProbesRemaining != 8 || s.DispatchRemaining != 3 {
		t.Errorf("unexpected initial resources %+v", s)
	}
	if s.CanInput || s.SprintEnabled {
		t.Error("input must be disabled during dispatch")
	}
	if s.SpeedMultiplier != 1 {
		t.Errorf("SpeedMultiplier = %v, expected 1", s.SpeedMultiplier)
	}
	if c.Victim() != victim {
		t.Errorf("Victim = %v, expected first candidate with nil rng", c.Victim())
	}
}

func TestVictimDrawnFromCandidates(t *testing.T) {
	p := DefaultParams()
	for seed := int64(0); seed < 20; seed++ {
		c := New(p, rand.New(rand.NewSource(seed)))
		found := false
		for _, v := range p.VictimCandidates {
			if c.Victim() == v {
				found = true
			}
		}
		if !found {
			t.Fatalf("seed %d: victim %v not a candidate", seed, c.Victim())
		}
	}
}

func TestDispatchOnlyLeadsToActive(t *testing.T) {
	c := New(DefaultParams(), nil)
	all := Input{TogglePressed: true, ActionPressed: true, ActionHeld: true, RestartPressed: true}

	c.Update(1, all, victim)
	s := c.Snapshot()
	if s.RunState != Dispatch || s.Submode != Search || s.ProbesRemaining != 8 {
		t.Errorf("dispatch should ignore input, got %v/%v probes=%d", s.RunState, s.Submode, s.ProbesRemaining)
	}
	if s.Objective != ObjectiveDispatch {
		t.Errorf("Objective = %q, expected %q", s.Objective, ObjectiveDispatch)
	}
	if s.DispatchRemaining != 2 {
		t.Errorf("DispatchRemaining = %v, expected 2", s.DispatchRemaining)
	}

	c.Update(2, all, victim)
	s = c.Snapshot()
	if s.RunState != Active || s.Submode != Search || s.Objective != ObjectiveSearch {
		t.Errorf("expected ACTIVE/SEARCH after dispatch, got %v/%v %q", s.RunState, s.Submode, s.Objective)
	}
	if s.Timer != 180 {
		t.Errorf("Timer = %v, expected untouched until the first active tick", s.Timer)
	}
	if !s.CanInput || !s.SprintEnabled {
		t.Error("ACTIVE should enable input and sprint")
	}
}

func TestToggleSearchProbe(t *testing.T) {
	c := activeController(t)

	c.Update(0.01, Input{TogglePressed: true}, start)
	if s := c.Snapshot(); s.Submode != Probe || s.Objective != ObjectiveProbe {
		t.Errorf("after toggle: %v %q", s.Submode, s.Objective)
	}
	c.Update(0.01, Input{TogglePressed: true}, start)
	if s := c.Snapshot(); s.Submode != Search || s.Objective != ObjectiveTrack {
		t.Errorf("after second toggle: %v %q", s.Submode, s.Objective)
	}
}

func TestProbeActionIgnoredInSearch(t *testing.T) {
	c := activeController(t)
	c.Update(0.01, Input{ActionPressed: true}, victim)

	s := c.Snapshot()
	if s.Submode != Search || s.ProbesRemaining != 8 || len(c.Probes()) != 0 {
		t.Errorf("probe in SEARCH changed state: %v probes=%d", s.Submode, s.ProbesRemaining)
	}
}

func TestProbeStrike(t *testing.T) {
	c := activeController(t)
	c.Update(0.01, Input{TogglePressed: true}, victim)
	c.Update(0.01, Input{ActionPressed: true}, victim)

	s := c.Snapshot()
	if s.Submode != Dig {
		t.Fatalf("Submode = %v, expected DIG", s.Submode)
	}
	if s.DigProgress != 0 {
		t.Errorf("DigProgress = %v, expected 0", s.DigProgress)
	}
	if s.HazardPhase != hazard.AfterStrike {
		t.Errorf("HazardPhase = %v, expected AFTER_STRIKE", s.HazardPhase)
	}
	if s.Banner != BannerStrike || s.Objective != ObjectiveDig {
		t.Errorf("Banner/Objective = %q/%q", s.Banner, s.Objective)
	}
	if s.ProbesRemaining != 7 {
		t.Errorf("ProbesRemaining = %d, expected 7", s.ProbesRemaining)
	}
	if p := c.Probes(); len(p) != 1 || p[0] != victim {
		t.Errorf("Probes = %v, expected one marker at the victim", p)
	}
}

func TestProbeMissAndExhaustion(t *testing.T) {
	c := activeController(t)
	far := core.V(victim.X+100, victim.Z)
	c.Update(0.01, Input{TogglePressed: true}, far)

	for i := 0; i < 12; i++ {
		c.Update(0.01, Input{ActionPressed: true}, far)
	}
	s := c.Snapshot()
	if s.Submode != Probe || s.RunState != Active {
		t.Errorf("missed probes should stay in PROBE, got %v/%v", s.RunState, s.Submode)
	}
	if s.ProbesRemaining != 0 {
		t.Errorf("ProbesRemaining = %d, expected 0", s.ProbesRemaining)
	}
	if n := len(c.Probes()); n != 8 {
		t.Errorf("recorded %d probes, expected 8", n)
	}

	// An exhausted kit cannot strike even on the victim.
	c.Update(0.01, Input{ActionPressed: true}, victim)
	if s := c.Snapshot(); s.Submode != Probe {
		t.Errorf("Submode = %v, expected PROBE with no probes left", s.Submode)
	}
}

func TestProbeSuccessRadiusBoundary(t *testing.T) {
	tests := []struct {
		name   string
		offset float64
		strike bool
	}{
		{"inside", 25, true},
		{"on radius", 26, true},
		{"outside", 26.5, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := activeController(t)
			p := core.V(victim.X, victim.Z+tt.offset)
			c.Update(0.01, Input{TogglePressed: true}, p)
			c.Update(0.01, Input{ActionPressed: true}, p)
			if got := c.Snapshot().Submode == Dig; got != tt.strike {
				t.Errorf("strike = %v, expected %v", got, tt.strike)
			}
		})
	}
}

func TestDigCompletion(t *testing.T) {
	c := activeController(t)
	strike(t, c)

	for i := 0; i < 8; i++ {
		c.Update(0.5, Input{ActionHeld: true}, victim)
		if i < 7 && c.Snapshot().Submode != Dig {
			t.Fatalf("tick %d: left DIG early", i)
		}
	}

	s := c.Snapshot()
	if s.DigProgress != 1 {
		t.Errorf("DigProgress = %v, expected exactly 1", s.DigProgress)
	}
	if s.Submode != Carry || !s.VictimSecured {
		t.Errorf("Submode = %v secured=%v, expected CARRY/true", s.Submode, s.VictimSecured)
	}
	if s.HazardPhase != hazard.AfterSecure {
		t.Errorf("HazardPhase = %v, expected AFTER_SECURE", s.HazardPhase)
	}
	if s.Banner != BannerSecured || s.Objective != ObjectiveEvac {
		t.Errorf("Banner/Objective = %q/%q", s.Banner, s.Objective)
	}
}

func TestDigCompletionAtFrameRate(t *testing.T) {
	c := activeController(t)
	strike(t, c)

	for i := 0; i < 240; i++ {
		c.Update(1.0/60, Input{ActionHeld: true}, victim)
	}
	if s := c.Snapshot(); s.Submode != Carry || s.DigProgress != 1 {
		t.Errorf("after 4s of 60 Hz digging: %v progress=%v", s.Submode, s.DigProgress)
	}
}

func TestDigRequiresHeldAction(t *testing.T) {
	c := activeController(t)
	strike(t, c)

	c.Update(1, Input{}, victim)
	if p := c.Snapshot().DigProgress; p != 0 {
		t.Errorf("DigProgress = %v without holding, expected 0", p)
	}
	c.Update(1, Input{ActionHeld: true}, victim)
	if p := c.Snapshot().DigProgress; p != 0.25 {
		t.Errorf("DigProgress = %v, expected 0.25", p)
	}
}

func TestCarryAndEvac(t *testing.T) {
	c := activeController(t)
	strike(t, c)
	c.Update(4, Input{ActionHeld: true}, victim)

	s := c.Snapshot()
	if s.Submode != Carry {
		t.Fatalf("Submode = %v, expected CARRY", s.Submode)
	}
	if s.SpeedMultiplier != 0.72 || s.SprintEnabled {
		t.Errorf("carry permissions speed=%v sprint=%v", s.SpeedMultiplier, s.SprintEnabled)
	}

	c.Update(0.01, Input{}, victim)
	if c.RunState() != Active {
		t.Fatal("should not win outside evac")
	}

	c.Update(0.01, Input{}, inEvac)
	s = c.Snapshot()
	if s.RunState != Win || s.Banner != BannerComplete {
		t.Errorf("expected WIN with banner, got %v %q", s.RunState, s.Banner)
	}
	if s.CanInput || s.SprintEnabled || s.SpeedMultiplier != 1 {
		t.Errorf("WIN should lock input, got %+v", s)
	}
}

func TestCarrySprintConfigurable(t *testing.T) {
	p := DefaultParams()
	p.CarrySprintEnabled = true
	c := New(p, nil)
	c.Update(p.DispatchSec, Input{}, start)
	strike(t, c)
	c.Update(4, Input{ActionHeld: true}, victim)

	if s := c.Snapshot(); !s.SprintEnabled {
		t.Error("carry sprint should follow params")
	}
}

func TestEvacIgnoredBeforeCarry(t *testing.T) {
	c := activeController(t)
	c.Update(0.01, Input{}, inEvac)
	if c.RunState() != Active {
		t.Errorf("RunState = %v, evac should only matter while carrying", c.RunState())
	}
}

func TestTimerExpiry(t *testing.T) {
	c := activeController(t)
	c.timer = 0.016

	c.Update(0.02, Input{}, start)
	s := c.Snapshot()
	if s.RunState != Lose || s.LoseReason != Timer {
		t.Errorf("expected LOSE/TIMER, got %v/%v", s.RunState, s.LoseReason)
	}
	if s.Timer != 0 {
		t.Errorf("Timer = %v, expected clamped to 0", s.Timer)
	}
	if s.Banner != BannerTimeout || s.Objective != ObjectiveLost {
		t.Errorf("Banner/Objective = %q/%q", s.Banner, s.Objective)
	}
	if s.DangerTriggered {
		t.Error("timer loss is not a danger loss")
	}
}

func TestForceLose(t *testing.T) {
	c := activeController(t)
	c.ForceLose(Danger)

	s := c.Snapshot()
	if s.RunState != Lose || s.LoseReason != Danger || !s.DangerTriggered {
		t.Errorf("expected LOSE/DANGER, got %+v", s)
	}
	if s.Banner != BannerSlide || s.Objective != ObjectiveCaught {
		t.Errorf("Banner/Objective = %q/%q", s.Banner, s.Objective)
	}

	c.ForceLose(Timer)
	if r := c.Snapshot().LoseReason; r != Danger {
		t.Errorf("second ForceLose changed reason to %v", r)
	}
}

func TestForceLoseNoopAfterWin(t *testing.T) {
	c := activeController(t)
	strike(t, c)
	c.Update(4, Input{ActionHeld: true}, victim)
	c.Update(0.01, Input{}, inEvac)

	c.ForceLose(Danger)
	if c.RunState() != Win {
		t.Errorf("RunState = %v, ForceLose must not override WIN", c.RunState())
	}
}

func TestForceLoseDuringDispatch(t *testing.T) {
	c := New(DefaultParams(), nil)
	c.ForceLose(Danger)
	if c.RunState() != Lose {
		t.Errorf("RunState = %v, expected LOSE", c.RunState())
	}
}

func TestRestartRequestedOneShot(t *testing.T) {
	c := activeController(t)
	strike(t, c)
	c.Update(4, Input{ActionHeld: true}, victim)
	c.Update(0.01, Input{}, inEvac)

	c.Update(0.01, Input{RestartPressed: true}, inEvac)
	if !c.Snapshot().RestartRequested {
		t.Fatal("restart should be requested on the restart tick")
	}
	c.Update(0.01, Input{}, inEvac)
	if c.Snapshot().RestartRequested {
		t.Error("restart flag should clear on the next update")
	}

	fresh := New(DefaultParams(), nil)
	s := fresh.Snapshot()
	if s.RunState != Dispatch || s.Timer != 180 || s.ProbesRemaining != 8 {
		t.Errorf("fresh mission not at defaults: %+v", s)
	}
}

func TestRestartIgnoredWhileActive(t *testing.T) {
	c := activeController(t)
	c.Update(0.01, Input{RestartPressed: true}, start)
	if c.Snapshot().RestartRequested {
		t.Error("restart must only be honoured after the run ends")
	}
}

func TestBannerExpires(t *testing.T) {
	c := activeController(t)
	strike(t, c)

	c.Update(1.0, Input{}, victim)
	if b := c.Snapshot().Banner; b != BannerStrike {
		t.Errorf("Banner = %q after 1s, expected still shown", b)
	}
	c.Update(0.7, Input{}, victim)
	if b := c.Snapshot().Banner; b != "" {
		t.Errorf("Banner = %q after 1.7s, expected cleared", b)
	}
}

func TestSignalStrength(t *testing.T) {
	if s := SignalStrength(0, 900, 1.65); s != 100 {
		t.Errorf("at victim = %d, expected 100", s)
	}
	if s := SignalStrength(900, 900, 1.65); s != 0 {
		t.Errorf("at max range = %d, expected 0", s)
	}
	if s := SignalStrength(5000, 900, 1.65); s != 0 {
		t.Errorf("beyond range = %d, expected 0", s)
	}

	prev := 101
	for d := 0.0; d <= 1200; d += 0.5 {
		s := SignalStrength(d, 900, 1.65)
		if s > prev {
			t.Fatalf("signal rose from %d to %d at distance %v", prev, s, d)
		}
		if s < 0 || s > 100 {
			t.Fatalf("signal %d out of range", s)
		}
		prev = s
	}
}

func TestSignalAndBearingTracked(t *testing.T) {
	c := New(DefaultParams(), nil)
	c.Update(0.01, Input{}, core.V(victim.X-300, victim.Z))

	s := c.Snapshot()
	if math.Abs(s.Bearing) > 1e-12 {
		t.Errorf("Bearing = %v, expected 0 (victim due east)", s.Bearing)
	}
	if want := SignalStrength(300, 900, 1.65); s.Signal != want {
		t.Errorf("Signal = %d, expected %d", s.Signal, want)
	}
}

func TestNegativeDtIsZero(t *testing.T) {
	c := activeController(t)
	before := c.Snapshot()
	c.Update(-5, Input{}, start)
	c.Update(math.NaN(), Input{}, start)

	after := c.Snapshot()
	if after.Timer != before.Timer || after.Elapsed != before.Elapsed {
		t.Errorf("negative dt changed timers: %v -> %v", before.Timer, after.Timer)
	}
}

func TestInputFromFrame(t *testing.T) {
	f := core.NewInputFrame()
	f.Set(core.ActionToggle)
	f.Set(core.ActionRestart)
	f.UseHeld = true

	in := InputFromFrame(f)
	if !in.TogglePressed || !in.RestartPressed || !in.ActionHeld || in.ActionPressed {
		t.Errorf("InputFromFrame = %+v", in)
	}
}
