// Package rescue drives one avalanche-rescue mission per frame.
// It composes terrain, collision, locomotion, hazard and mission state
// and turns host input into a single consistent snapshot per tick.
package rescue

import (
	"fmt"
	"io"
	"math"
	"math/rand"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-avalanche/internal/config"
	"github.com/vovakirdan/tui-avalanche/internal/core"
	"github.com/vovakirdan/tui-avalanche/internal/registry"
	"github.com/vovakirdan/tui-avalanche/internal/sim/collision"
	"github.com/vovakirdan/tui-avalanche/internal/sim/hazard"
	"github.com/vovakirdan/tui-avalanche/internal/sim/locomotion"
	"github.com/vovakirdan/tui-avalanche/internal/sim/mission"
	"github.com/vovakirdan/tui-avalanche/internal/sim/terrain"
)

// Score weights applied on a successful rescue.
const (
	scorePerSecondLeft = 10
	scorePerProbeLeft  = 50
)

// Game is one rescue mission. Terrain, elevation and collision are built
// once from the config; player, hazard and mission state are rebuilt on
// every restart.
type Game struct {
	cfg    config.MissionConfig
	logger *log.Logger

	classifier *terrain.Classifier
	field      *terrain.Field
	world      *collision.World

	loco    *locomotion.Locomotion
	mission *mission.Controller
	hazard  *hazard.Zone

	rng          *rand.Rand
	tick         uint64
	attempts     int
	attemptTicks int

	last mission.Snapshot

	screenW  int
	screenH  int
	score    int
	paused   bool
	tooSmall bool
	flash    int // Frames left of the event highlight
}

// Option configures a Game.
type Option func(*Game)

// WithLogger routes run-state and banner logs to l.
func WithLogger(l *log.Logger) Option {
	return func(g *Game) {
		if l != nil {
			g.logger = l
		}
	}
}

// New creates a mission from a fully resolved config.
// Call Reset before the first Step.
func New(cfg config.MissionConfig, opts ...Option) *Game {
	g := &Game{
		cfg:    cfg,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(g)
	}

	g.classifier = terrain.NewClassifier(cfg.TerrainZones())
	g.field = terrain.NewField(g.classifier, cfg.FieldParams())
	g.world = collision.NewWorld(cfg.Bounds(), cfg.CollisionObstacles())
	g.rng = rand.New(rand.NewSource(core.DefaultConfig().Seed))
	g.rebuild()
	return g
}

// NewScenario creates a mission from an embedded scenario.
func NewScenario(name string, opts ...Option) (*Game, error) {
	cfg, err := config.Load(name, "")
	if err != nil {
		return nil, fmt.Errorf("rescue: %w", err)
	}
	return New(cfg, opts...), nil
}

// Load creates a mission from a scenario, an optional YAML override and a
// difficulty preset.
func Load(scenario, customPath string, preset config.DifficultyPreset, opts ...Option) (*Game, error) {
	cfg, err := config.Load(scenario, customPath)
	if err != nil {
		return nil, fmt.Errorf("rescue: %w", err)
	}
	config.ApplyPreset(&cfg, preset)
	return New(cfg, opts...), nil
}

func init() {
	for _, name := range config.Scenarios() {
		registry.Register(name, func() registry.Game {
			g, err := NewScenario(name)
			if err != nil {
				panic(err)
			}
			return g
		})
	}
}

// ID returns the scenario identifier.
func (g *Game) ID() string {
	return g.cfg.Name
}

// Title returns the display name.
func (g *Game) Title() string {
	if g.cfg.Title != "" {
		return g.cfg.Title
	}
	return g.cfg.Name
}

// Config returns the mission config the game was built from.
func (g *Game) Config() config.MissionConfig {
	return g.cfg
}

// Reset starts a fresh attempt. The seed picks the victim location.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	g.rng = rand.New(rand.NewSource(cfg.Seed))
	g.tick = 0
	g.attempts = 0
	g.score = 0
	g.paused = false
	g.Resize(cfg.ScreenW, cfg.ScreenH)
	g.rebuild()
}

// Resize updates the screen size used by Render.
func (g *Game) Resize(w, h int) {
	g.screenW = w
	g.screenH = h
	g.checkScreenSize()
}

// rebuild replaces every piece of mutable state.
func (g *Game) rebuild() {
	start := g.cfg.Start()
	g.loco = locomotion.New(start.X, start.Z, g.field, g.world, g.cfg.LocomotionParams())
	g.mission = mission.New(g.cfg.MissionParams(), g.rng)
	g.hazard = hazard.New(g.cfg.HazardParams())
	g.last = g.mission.Snapshot()
	g.flash = 0
	g.attemptTicks = 0
	g.attempts++
	g.logger.Info("mission ready", "scenario", g.cfg.Name, "attempt", g.attempts)
}

// checkScreenSize checks if the screen can hold the map and HUD.
func (g *Game) checkScreenSize() {
	g.tooSmall = g.screenW < minScreenW || g.screenH < minScreenH
}

// Step advances the mission by dt seconds.
func (g *Game) Step(dt float64, in core.InputFrame) core.StepResult {
	if !(dt > 0) || math.IsInf(dt, 0) {
		dt = 0
	}
	g.tick++
	if g.flash > 0 {
		g.flash--
	}

	if in.Has(core.ActionPause) && !g.last.RunState.Terminal() {
		g.paused = !g.paused
	}
	if g.paused || g.tooSmall {
		return core.StepResult{State: g.State()}
	}

	g.attemptTicks++
	pos := g.loco.State().Pos
	g.mission.Update(dt, mission.InputFromFrame(in), pos)
	ms := g.mission.Snapshot()

	if ms.RestartRequested {
		g.logger.Info("restart requested", "scenario", g.cfg.Name)
		g.score = 0
		g.rebuild()
		return core.StepResult{State: g.State()}
	}

	if ms.RunState == mission.Active {
		g.loco.Step(dt, locomotion.IntentFromInput(in), locomotion.Constraints{
			InputEnabled:    ms.CanInput,
			SprintEnabled:   ms.SprintEnabled,
			SpeedMultiplier: ms.SpeedMultiplier,
		})
	} else {
		g.loco.StopMotion()
	}

	g.hazard.SetPhase(ms.HazardPhase)
	if !ms.RunState.Terminal() {
		g.hazard.Update(dt)
	}

	contact := g.loco.ContactPoint()
	if ms.RunState == mission.Active && g.hazard.DistanceToEdge(contact.X, contact.Z) <= 0 {
		g.mission.ForceLose(mission.Danger)
		g.loco.StopMotion()
		ms = g.mission.Snapshot()
	}

	events := g.diff(g.last, ms)
	g.last = ms
	if len(events) > 0 {
		g.flash = flashFrames
	}

	return core.StepResult{State: g.State(), Events: events}
}

// diff reports the feedback triggers between two consecutive snapshots.
func (g *Game) diff(prev, cur mission.Snapshot) []core.Event {
	var events []core.Event

	if cur.Banner != "" && cur.Banner != prev.Banner {
		g.logger.Debug("banner", "text", cur.Banner)
		events = append(events, core.Event{Kind: core.EventBanner, Text: cur.Banner})
	}

	if cur.Submode != prev.Submode {
		switch cur.Submode {
		case mission.Dig:
			events = append(events, core.Event{Kind: core.EventStrike})
		case mission.Carry:
			events = append(events, core.Event{Kind: core.EventSecured})
		}
	}

	if cur.RunState != prev.RunState {
		g.logger.Info("run state", "from", prev.RunState, "to", cur.RunState,
			"timer", fmt.Sprintf("%.1f", cur.Timer), "probes", cur.ProbesRemaining)

		switch cur.RunState {
		case mission.Active:
			events = append(events, core.Event{Kind: core.EventDispatched})
		case mission.Win:
			g.score = WinScore(cur)
			g.logger.Info("rescue complete", "score", g.score, "elapsed", fmt.Sprintf("%.1f", cur.Elapsed))
			events = append(events, core.Event{Kind: core.EventWin})
		case mission.Lose:
			g.logger.Info("rescue failed", "reason", cur.LoseReason)
			if cur.DangerTriggered {
				events = append(events, core.Event{Kind: core.EventDangerHit})
			} else {
				events = append(events, core.Event{Kind: core.EventLose})
			}
		}
	}

	return events
}

// Report summarizes one attempt.
type Report struct {
	Scenario   string
	Outcome    string
	Reason     string
	Ticks      int
	Elapsed    float64
	TimeLeft   float64
	ProbesUsed int
	Score      int
}

// Report summarizes the current attempt.
func (g *Game) Report() Report {
	ms := g.last
	r := Report{
		Scenario:   g.ID(),
		Outcome:    ms.RunState.String(),
		Ticks:      g.attemptTicks,
		Elapsed:    ms.Elapsed,
		TimeLeft:   ms.Timer,
		ProbesUsed: g.cfg.Mission.ProbeCount - ms.ProbesRemaining,
		Score:      g.score,
	}
	if ms.RunState == mission.Lose {
		r.Reason = ms.LoseReason.String()
	}
	return r
}

// WinScore rewards time and probes left over.
func WinScore(s mission.Snapshot) int {
	return int(s.Timer)*scorePerSecondLeft + s.ProbesRemaining*scorePerProbeLeft
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.score,
		GameOver: g.last.RunState.Terminal(),
		Paused:   g.paused || g.tooSmall,
	}
}

// Mission returns the current mission view.
func (g *Game) Mission() mission.Snapshot {
	return g.last
}

// Player returns the rescuer state.
func (g *Game) Player() locomotion.State {
	return g.loco.State()
}

// Hazard returns the secondary slide view.
func (g *Game) Hazard() hazard.Snapshot {
	return g.hazard.Snapshot()
}

// Probes returns placed probe points.
func (g *Game) Probes() []core.Vec2 {
	return g.mission.Probes()
}

// Victim returns the buried victim point.
func (g *Game) Victim() core.Vec2 {
	return g.mission.Victim()
}

// Evac returns the evacuation rectangle.
func (g *Game) Evac() core.WorldRect {
	return g.mission.Evac()
}

// Field returns the elevation field.
func (g *Game) Field() *terrain.Field {
	return g.field
}

// World returns the collision world.
func (g *Game) World() *collision.World {
	return g.world
}

// Attempts returns how many attempts were started since Reset.
func (g *Game) Attempts() int {
	return g.attempts
}
