package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-avalanche/internal/core"
	"github.com/vovakirdan/tui-avalanche/internal/games/rescue"
	"github.com/vovakirdan/tui-avalanche/internal/registry"
	"github.com/vovakirdan/tui-avalanche/internal/storage"
)

const (
	maxFrameDt   = 0.25 // Longest host frame fed to the simulation, in seconds
	flashTicks   = 8
	helpHeight   = 1
	bellSequence = "\a"
)

// resizer is implemented by games that keep their state across resizes.
type resizer interface {
	Resize(w, h int)
}

// reporter is implemented by games that can summarize a finished attempt.
type reporter interface {
	Report() rescue.Report
}

// Model is the Bubble Tea model for running a rescue mission.
type Model struct {
	game       registry.Game
	screen     *core.Screen
	store      *storage.Store
	logger     *log.Logger
	config     core.RuntimeConfig
	input      *InputTracker
	keys       GameKeyMap
	help       help.Model
	gameState  core.GameState
	lastTick   time.Time
	difficulty string
	source     string
	flash      int
	bell       bool
	quitting   bool
	backToMenu bool
	runSaved   bool // Whether the current attempt has been recorded
}

// ModelOption configures a Model.
type ModelOption func(*Model)

// WithLogger sets the session logger.
func WithLogger(l *log.Logger) ModelOption {
	return func(m *Model) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithDifficulty labels saved runs with a difficulty preset name.
func WithDifficulty(name string) ModelOption {
	return func(m *Model) {
		m.difficulty = name
	}
}

// WithSource labels saved runs with where they were played ("play", "ssh").
func WithSource(name string) ModelOption {
	return func(m *Model) {
		m.source = name
	}
}

// NewModel creates a new Bubble Tea model for the given mission.
func NewModel(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, opts ...ModelOption) Model {
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = core.DefaultConfig().TickRate
	}

	keys := DefaultGameKeyMap()
	h := help.New()
	h.Width = cfg.ScreenW

	m := Model{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, max(cfg.ScreenH-helpHeight, 1)),
		store:      store,
		logger:     log.New(io.Discard),
		config:     cfg,
		input:      NewInputTracker(keys),
		keys:       keys,
		help:       h,
		difficulty: "normal",
		source:     "play",
	}
	for _, opt := range opts {
		opt(&m)
	}

	m.game.Reset(m.gameConfig())
	m.gameState = m.game.State()
	return m
}

// gameConfig is the runtime config with the help line taken off the height.
func (m Model) gameConfig() core.RuntimeConfig {
	cfg := m.config
	cfg.ScreenH = max(cfg.ScreenH-helpHeight, 1)
	return cfg
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick(time.Time(msg))
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}
	// B leaves a finished or paused mission.
	if msg.String() == "b" && (m.gameState.GameOver || m.gameState.Paused) {
		m.backToMenu = true
		return m, tea.Quit
	}
	if m.input.HandleKey(msg, time.Now()) {
		m.quitting = true
		m.logger.Info("session quit", "scenario", m.game.ID())
		return m, tea.Quit
	}
	return m, nil
}

// handleResize keeps the mission running at the new size.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	gc := m.gameConfig()
	m.screen.Resize(gc.ScreenW, gc.ScreenH)
	m.help.Width = msg.Width

	if r, ok := m.game.(resizer); ok {
		r.Resize(gc.ScreenW, gc.ScreenH)
	} else if !m.gameState.GameOver {
		m.game.Reset(gc)
	}

	return m, nil
}

// handleTick advances the mission by the real time since the last tick.
func (m Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	dt := 1.0 / float64(m.config.TickRate)
	if !m.lastTick.IsZero() {
		dt = core.ClampF(now.Sub(m.lastTick).Seconds(), 0, maxFrameDt)
	}
	m.lastTick = now

	result := m.game.Step(dt, m.input.Frame(now))
	m.gameState = result.State

	if m.flash > 0 {
		m.flash--
	}
	m.bell = false
	for _, ev := range result.Events {
		m.feedback(ev)
	}

	if m.gameState.GameOver && !m.runSaved {
		m.saveRun()
		m.runSaved = true
	}
	if !m.gameState.GameOver && m.runSaved {
		// The mission restarted itself.
		m.runSaved = false
		m.input.Reset()
	}

	return m, tickCmd(m.config.TickRate)
}

// feedback turns a mission event into a bell and a screen flash.
func (m *Model) feedback(ev core.Event) {
	switch ev.Kind {
	case core.EventStrike, core.EventSecured, core.EventWin:
		m.bell = true
		m.flash = flashTicks / 2
	case core.EventDangerHit, core.EventLose:
		m.bell = true
		m.flash = flashTicks
	case core.EventBanner:
		m.logger.Debug("banner", "scenario", m.game.ID(), "text", ev.Text)
	}
}

// saveRun records the finished attempt.
func (m *Model) saveRun() {
	rep, ok := m.game.(reporter)
	if !ok {
		return
	}
	r := rep.Report()
	m.logger.Info("run finished",
		"scenario", r.Scenario,
		"outcome", r.Outcome,
		"reason", r.Reason,
		"score", r.Score,
		"elapsed", fmt.Sprintf("%.1fs", r.Elapsed),
	)
	if m.store == nil {
		return
	}
	_, err := m.store.SaveRun(storage.RunRecord{
		Scenario:   r.Scenario,
		Difficulty: m.difficulty,
		Outcome:    r.Outcome,
		Reason:     r.Reason,
		Score:      r.Score,
		TimeLeft:   r.TimeLeft,
		Elapsed:    r.Elapsed,
		ProbesUsed: r.ProbesUsed,
		Seed:       m.config.Seed,
		Source:     m.source,
	})
	if err != nil {
		m.logger.Warn("cannot save run", "err", err)
	}
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.game.Render(m.screen)

	dir := filepath.Join(os.Getenv("HOME"), ".avalanche", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.logger.Warn("cannot create screenshot directory", "err", err)
		return
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("cannot save screenshot", "err", err)
		return
	}
	m.logger.Info("screenshot saved", "path", path)
}

var helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting || m.backToMenu {
		return ""
	}

	m.game.Render(m.screen)

	view := RenderScreen(m.screen, m.flash > 0) + "\n" + helpStyle.Render(m.help.View(m.keys))
	if m.bell {
		view = bellSequence + view
	}
	return view
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// Run starts the Bubble Tea program with the given mission.
// It reports whether the player asked to go back to the menu.
func Run(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, opts ...ModelOption) (backToMenu bool, err error) {
	p := tea.NewProgram(
		NewModel(game, store, cfg, opts...),
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}
	m, ok := finalModel.(Model)
	return ok && m.BackToMenu(), nil
}
