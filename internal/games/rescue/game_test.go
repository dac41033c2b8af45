package rescue

import (
	"math"
	"strings"
	"testing"

	"github.com/vovakirdan/tui-avalanche/internal/config"
	"github.com/vovakirdan/tui-avalanche/internal/core"
	"github.com/vovakirdan/tui-avalanche/internal/registry"
	"github.com/vovakirdan/tui-avalanche/internal/sim/hazard"
	"github.com/vovakirdan/tui-avalanche/internal/sim/mission"
)

// testConfig is an open field with the victim under the start point and
// the evac zone just to the east.
func testConfig() config.MissionConfig {
	cfg := config.DefaultMissionConfig()
	cfg.Name = "test"
	cfg.Title = "Test Field"
	cfg.Zones = nil
	cfg.Obstacles = nil
	cfg.Player.StartX = 400
	cfg.Player.StartZ = 400
	cfg.Victims = []config.PointConfig{{X: 400, Z: 400}}
	cfg.Evac = config.RectConfig{X: 500, Z: 380, W: 100, H: 60}
	return cfg
}

func newTestGame(t *testing.T, cfg config.MissionConfig) *Game {
	t.Helper()
	g := New(cfg)
	g.Reset(core.RuntimeConfig{ScreenW: 100, ScreenH: 30, Seed: 7})
	return g
}

func frame(actions ...core.Action) core.InputFrame {
	in := core.NewInputFrame()
	for _, a := range actions {
		in.Set(a)
	}
	return in
}

// stepUntil steps with in until cond holds, collecting events.
func stepUntil(t *testing.T, g *Game, dt float64, in core.InputFrame, limit int, cond func(mission.Snapshot) bool) []core.Event {
	t.Helper()
	var events []core.Event
	for range limit {
		res := g.Step(dt, in)
		events = append(events, res.Events...)
		if cond(g.Mission()) {
			return events
		}
	}
	t.Fatalf("condition not reached after %d steps (state %s/%s)", limit, g.Mission().RunState, g.Mission().Submode)
	return nil
}

func hasEvent(events []core.Event, kind core.EventKind) bool {
	for _, e := range events {
		if e.Kind == kind {
			return true
		}
	}
	return false
}

func isActive(s mission.Snapshot) bool { return s.RunState == mission.Active }

func TestRegisteredScenarios(t *testing.T) {
	for _, name := range config.Scenarios() {
		if !registry.Exists(name) {
			t.Errorf("scenario %q not registered", name)
			continue
		}
		g, err := registry.Create(name)
		if err != nil {
			t.Fatalf("Create(%q): %v", name, err)
		}
		if g.ID() != name {
			t.Errorf("ID = %q, want %q", g.ID(), name)
		}
		if g.Title() == "" {
			t.Errorf("scenario %q has no title", name)
		}
	}
}

func TestResetStartsInDispatch(t *testing.T) {
	cfg := testConfig()
	g := newTestGame(t, cfg)

	ms := g.Mission()
	if ms.RunState != mission.Dispatch {
		t.Errorf("RunState = %s, want DISPATCH", ms.RunState)
	}
	if ms.ProbesRemaining != cfg.Mission.ProbeCount {
		t.Errorf("ProbesRemaining = %d, want %d", ms.ProbesRemaining, cfg.Mission.ProbeCount)
	}
	if p := g.Player().Pos; p != core.V(400, 400) {
		t.Errorf("player at %v, want start", p)
	}
	if g.State().GameOver || g.State().Paused {
		t.Errorf("fresh game state = %+v", g.State())
	}
	if g.Attempts() != 1 {
		t.Errorf("Attempts = %d, want 1", g.Attempts())
	}
}

func TestDispatchHoldsPlayer(t *testing.T) {
	g := newTestGame(t, testConfig())

	in := core.NewInputFrame()
	in.MoveX = 1
	for range 10 {
		g.Step(0.1, in)
	}
	if g.Mission().RunState != mission.Dispatch {
		t.Fatalf("RunState = %s, want DISPATCH", g.Mission().RunState)
	}
	if p := g.Player(); p.Pos != core.V(400, 400) || p.Speed() != 0 {
		t.Errorf("player moved during dispatch: %+v", p)
	}
	if g.Hazard().Radius <= 120 {
		t.Error("hazard should grow during dispatch")
	}
}

func TestFullRescue(t *testing.T) {
	g := newTestGame(t, testConfig())

	events := stepUntil(t, g, 0.1, core.NewInputFrame(), 40, isActive)
	if !hasEvent(events, core.EventDispatched) {
		t.Error("missing dispatched event")
	}

	g.Step(0.1, frame(core.ActionToggle))
	if g.Mission().Submode != mission.Probe {
		t.Fatalf("Submode = %s, want PROBE", g.Mission().Submode)
	}

	res := g.Step(0.1, frame(core.ActionUse))
	ms := g.Mission()
	if ms.Submode != mission.Dig {
		t.Fatalf("Submode = %s, want DIG after probing on the victim", ms.Submode)
	}
	if !hasEvent(res.Events, core.EventStrike) || !hasEvent(res.Events, core.EventBanner) {
		t.Errorf("strike events = %v", res.Events)
	}
	if g.Hazard().Phase != hazard.AfterStrike {
		t.Errorf("hazard phase = %s, want after_strike", g.Hazard().Phase)
	}

	dig := core.NewInputFrame()
	dig.UseHeld = true
	events = stepUntil(t, g, 0.1, dig, 50, func(s mission.Snapshot) bool { return s.Submode == mission.Carry })
	if !hasEvent(events, core.EventSecured) {
		t.Error("missing secured event")
	}
	if g.Hazard().Phase != hazard.AfterSecure {
		t.Errorf("hazard phase = %s, want after_secure", g.Hazard().Phase)
	}

	east := core.NewInputFrame()
	east.MoveX = 1
	events = stepUntil(t, g, 1.0/60, east, 600, func(s mission.Snapshot) bool { return s.RunState == mission.Win })
	if !hasEvent(events, core.EventWin) {
		t.Error("missing win event")
	}

	st := g.State()
	if !st.GameOver {
		t.Error("game should be over after the rescue")
	}
	if want := WinScore(g.Mission()); st.Score != want || want <= 0 {
		t.Errorf("Score = %d, want %d", st.Score, want)
	}
}

func TestHazardBreachLoses(t *testing.T) {
	cfg := testConfig()
	cfg.Hazard.CenterX = 400
	cfg.Hazard.CenterZ = 400
	cfg.Hazard.InitialRadius = 60
	g := newTestGame(t, cfg)

	var events []core.Event
	for range 40 {
		res := g.Step(0.1, core.NewInputFrame())
		events = append(events, res.Events...)
		if g.Mission().RunState.Terminal() {
			break
		}
	}

	ms := g.Mission()
	if ms.RunState != mission.Lose || ms.LoseReason != mission.Danger {
		t.Fatalf("state = %s/%s, want LOSE/danger", ms.RunState, ms.LoseReason)
	}
	if !ms.DangerTriggered {
		t.Error("DangerTriggered should be set")
	}
	if !hasEvent(events, core.EventDangerHit) {
		t.Error("missing danger_hit event")
	}
	if hasEvent(events, core.EventLose) {
		t.Error("danger loss should not also emit a timer loss")
	}
	if g.Player().Speed() != 0 {
		t.Error("player should be stopped after the breach")
	}

	radius := g.Hazard().Radius
	g.Step(1, core.NewInputFrame())
	if g.Hazard().Radius != radius {
		t.Error("hazard should freeze once the run is over")
	}
}

func TestTimerLoss(t *testing.T) {
	cfg := testConfig()
	cfg.Mission.TimerSec = 1
	g := newTestGame(t, cfg)

	events := stepUntil(t, g, 0.1, core.NewInputFrame(), 100, func(s mission.Snapshot) bool { return s.RunState.Terminal() })
	ms := g.Mission()
	if ms.LoseReason != mission.Timer {
		t.Errorf("LoseReason = %s, want timer", ms.LoseReason)
	}
	if !hasEvent(events, core.EventLose) {
		t.Error("missing lose event")
	}
	if g.State().Score != 0 {
		t.Errorf("Score = %d, want 0 after a loss", g.State().Score)
	}
}

func TestRestartRebuildsState(t *testing.T) {
	cfg := testConfig()
	cfg.Mission.TimerSec = 1
	g := newTestGame(t, cfg)
	stepUntil(t, g, 0.1, core.NewInputFrame(), 100, func(s mission.Snapshot) bool { return s.RunState.Terminal() })

	g.Step(0.1, frame(core.ActionRestart))

	ms := g.Mission()
	if ms.RunState != mission.Dispatch {
		t.Errorf("RunState after restart = %s, want DISPATCH", ms.RunState)
	}
	if ms.Timer != cfg.Mission.TimerSec {
		t.Errorf("Timer = %v, want %v", ms.Timer, cfg.Mission.TimerSec)
	}
	if g.Hazard().Radius != cfg.Hazard.InitialRadius {
		t.Errorf("hazard radius = %v, want %v", g.Hazard().Radius, cfg.Hazard.InitialRadius)
	}
	if g.Attempts() != 2 {
		t.Errorf("Attempts = %d, want 2", g.Attempts())
	}
	if g.State().GameOver {
		t.Error("restart should clear game over")
	}
}

func TestRestartIgnoredWhileActive(t *testing.T) {
	g := newTestGame(t, testConfig())
	stepUntil(t, g, 0.1, core.NewInputFrame(), 40, isActive)

	g.Step(0.1, frame(core.ActionRestart))
	if g.Attempts() != 1 || g.Mission().RunState != mission.Active {
		t.Error("restart should only apply after the run ends")
	}
}

func TestPauseFreezesSimulation(t *testing.T) {
	g := newTestGame(t, testConfig())
	g.Step(0.1, core.NewInputFrame())

	g.Step(0.1, frame(core.ActionPause))
	if !g.State().Paused {
		t.Fatal("game should be paused")
	}
	before := g.Mission().DispatchRemaining
	radius := g.Hazard().Radius
	for range 20 {
		g.Step(0.1, core.NewInputFrame())
	}
	if g.Mission().DispatchRemaining != before || g.Hazard().Radius != radius {
		t.Error("paused game should not advance")
	}

	g.Step(0.1, frame(core.ActionPause))
	if g.State().Paused {
		t.Error("second pause should resume")
	}
}

func TestDegenerateDt(t *testing.T) {
	g := newTestGame(t, testConfig())
	before := g.Snapshot()

	for _, dt := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		g.Step(dt, core.NewInputFrame())
	}

	after := g.Snapshot()
	if after.Mission.DispatchRemaining != before.Mission.DispatchRemaining {
		t.Error("degenerate dt should not advance the mission")
	}
	if after.Hazard.Radius != before.Hazard.Radius {
		t.Error("degenerate dt should not grow the hazard")
	}
}

func TestSameSeedSameVictim(t *testing.T) {
	cfg := config.DefaultMissionConfig()
	rt := core.RuntimeConfig{ScreenW: 100, ScreenH: 30, Seed: 99}

	g1 := New(cfg)
	g1.Reset(rt)
	g2 := New(cfg)
	g2.Reset(rt)

	if g1.Victim() != g2.Victim() {
		t.Errorf("victims differ: %v vs %v", g1.Victim(), g2.Victim())
	}
}

func TestDeterminism(t *testing.T) {
	cfg := config.DefaultMissionConfig()
	rt := core.RuntimeConfig{ScreenW: 100, ScreenH: 30, Seed: 12345}

	g1 := New(cfg)
	g1.Reset(rt)
	g2 := New(cfg)
	g2.Reset(rt)
	p1 := NewAutopilot()
	p2 := NewAutopilot()

	for i := range 1200 {
		g1.Step(1.0/60, p1.Next(g1))
		g2.Step(1.0/60, p2.Next(g2))

		s1 := g1.Snapshot()
		s2 := g2.Snapshot()
		if s1.Hash() != s2.Hash() {
			t.Fatalf("Determinism failed at tick %d: %d != %d", i, s1.Hash(), s2.Hash())
		}
	}
}

func TestPressureAtContactPoint(t *testing.T) {
	cfg := testConfig()
	cfg.Player.ContactOffset = 60
	cfg.Hazard.CenterX = 400
	cfg.Hazard.CenterZ = 700
	cfg.Hazard.InitialRadius = 200
	g := newTestGame(t, cfg)

	snap := g.Snapshot()
	c := g.loco.ContactPoint()
	want := g.hazard.Pressure(c.X, c.Z)
	if math.Abs(snap.Pressure-want) > 1e-9 {
		t.Errorf("Pressure = %v, want %v at the contact point", snap.Pressure, want)
	}
	atPos := g.hazard.Pressure(snap.Player.Pos.X, snap.Player.Pos.Z)
	if !(want > atPos) {
		t.Errorf("contact pressure %v should exceed pressure at the body %v", want, atPos)
	}
}

func TestSnapshotFrame(t *testing.T) {
	cfg := testConfig()
	cfg.Mission.TimerSec = 1
	g := newTestGame(t, cfg)
	stepUntil(t, g, 0.1, core.NewInputFrame(), 100, func(s mission.Snapshot) bool { return s.RunState.Terminal() })

	snap := g.Snapshot()
	f := snap.Frame()
	if f.RunState != "LOSE" || f.Reason != "TIMER" {
		t.Errorf("frame state = %s/%s", f.RunState, f.Reason)
	}
	if f.Tick != snap.Tick || f.X != snap.Player.Pos.X {
		t.Errorf("frame does not mirror snapshot: %+v", f)
	}
	if f.Phase != "IDLE" {
		t.Errorf("Phase = %q, want IDLE", f.Phase)
	}
}

func TestAutopilotFinishesRun(t *testing.T) {
	for _, name := range config.Scenarios() {
		t.Run(name, func(t *testing.T) {
			g, err := NewScenario(name)
			if err != nil {
				t.Fatal(err)
			}
			g.Reset(core.RuntimeConfig{ScreenW: 100, ScreenH: 30, Seed: 42})

			frames := 0
			maxTicks := int((g.Config().Mission.TimerSec + g.Config().Mission.DispatchSec + 5) * 60)
			report, err := Simulate(g, 1.0/60, maxTicks, func(*Snapshot) error {
				frames++
				return nil
			})
			if err != nil {
				t.Fatal(err)
			}
			if report.Outcome != "WIN" && report.Outcome != "LOSE" {
				t.Fatalf("run did not finish: %+v", report)
			}
			if frames != report.Ticks {
				t.Errorf("observed %d frames, report has %d ticks", frames, report.Ticks)
			}
			if report.Outcome == "WIN" && (report.Score <= 0 || report.ProbesUsed < 1) {
				t.Errorf("inconsistent win report: %+v", report)
			}
		})
	}
}

func TestRender(t *testing.T) {
	g := newTestGame(t, testConfig())
	stepUntil(t, g, 0.1, core.NewInputFrame(), 40, isActive)

	scr := core.NewScreen(100, 30)
	g.Render(scr)
	out := scr.String()

	for _, want := range []string{"Test Field", "SIG [", "STA [", "@", "="} {
		if !strings.Contains(out, want) {
			t.Errorf("render missing %q", want)
		}
	}
}

func TestRenderTooSmall(t *testing.T) {
	g := New(testConfig())
	g.Reset(core.RuntimeConfig{ScreenW: 20, ScreenH: 8, Seed: 1})

	if !g.State().Paused {
		t.Error("too-small screen should pause")
	}
	scr := core.NewScreen(20, 8)
	g.Render(scr)
	if !strings.Contains(scr.String(), "Window too small") {
		t.Error("expected too-small message")
	}
}

func TestBearingArrow(t *testing.T) {
	tests := []struct {
		bearing float64
		want    rune
	}{
		{0, '→'},
		{math.Pi / 2, '↓'},
		{math.Pi, '←'},
		{-math.Pi, '←'},
		{-math.Pi / 2, '↑'},
		{math.Pi / 4, '↘'},
		{-3 * math.Pi / 4, '↖'},
	}
	for _, tt := range tests {
		if got := bearingArrow(tt.bearing); got != tt.want {
			t.Errorf("bearingArrow(%v) = %c, want %c", tt.bearing, got, tt.want)
		}
	}
}

func TestSetMoveQuantizes(t *testing.T) {
	tests := []struct {
		dir    core.Vec2
		mx, mz int
	}{
		{core.V(1, 0), 1, 0},
		{core.V(0, -3), 0, -1},
		{core.V(1, 1), 1, 1},
		{core.V(-1, 0.1), -1, 0},
		{core.V(0, 0), 0, 0},
	}
	for _, tt := range tests {
		in := core.NewInputFrame()
		setMove(&in, tt.dir)
		if in.MoveX != tt.mx || in.MoveZ != tt.mz {
			t.Errorf("setMove(%v) = (%d,%d), want (%d,%d)", tt.dir, in.MoveX, in.MoveZ, tt.mx, tt.mz)
		}
	}
}
