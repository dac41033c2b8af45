package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-avalanche/internal/core"
)

// Terminals report presses and auto-repeats but never releases, so a key
// counts as held until no repeat arrives within these windows. The first
// window covers the OS delay before auto-repeat starts.
const (
	firstHoldWindow  = 550 * time.Millisecond
	repeatHoldWindow = 150 * time.Millisecond
)

// GameKeyMap defines the in-mission key bindings.
type GameKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Left    key.Binding
	Right   key.Binding
	Sprint  key.Binding
	Toggle  key.Binding
	Use     key.Binding
	Pause   key.Binding
	Restart key.Binding
	Quit    key.Binding
}

// ShortHelp returns bindings for the short help view.
func (k GameKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Sprint, k.Toggle, k.Use, k.Pause, k.Restart, k.Quit}
}

// FullHelp returns bindings for the full help view.
func (k GameKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.Sprint},
		{k.Toggle, k.Use},
		{k.Pause, k.Restart, k.Quit},
	}
}

// DefaultGameKeyMap returns the default in-mission bindings.
// Shifted keys move and sprint at once.
func DefaultGameKeyMap() GameKeyMap {
	return GameKeyMap{
		Up: key.NewBinding(
			key.WithKeys("w", "up", "W", "shift+up"),
			key.WithHelp("wasd/arrows", "move"),
		),
		Down: key.NewBinding(
			key.WithKeys("s", "down", "S", "shift+down"),
		),
		Left: key.NewBinding(
			key.WithKeys("a", "left", "A", "shift+left"),
		),
		Right: key.NewBinding(
			key.WithKeys("d", "right", "D", "shift+right"),
		),
		Sprint: key.NewBinding(
			key.WithKeys("W", "A", "S", "D", "shift+up", "shift+down", "shift+left", "shift+right"),
			key.WithHelp("shift", "sprint"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "search/probe"),
		),
		Use: key.NewBinding(
			key.WithKeys("e", "E", " ", "enter"),
			key.WithHelp("e", "probe/dig"),
		),
		Pause: key.NewBinding(
			key.WithKeys("p", "esc"),
			key.WithHelp("p", "pause"),
		),
		Restart: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "restart"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

type holdKey int

const (
	holdUp holdKey = iota
	holdDown
	holdLeft
	holdRight
	holdSprint
	holdUse
	holdCount
)

type holdState struct {
	first time.Time
	last  time.Time
}

func (h holdState) active(now time.Time) bool {
	if h.last.IsZero() {
		return false
	}
	window := repeatHoldWindow
	if h.last.Equal(h.first) {
		window = firstHoldWindow
	}
	return now.Sub(h.last) <= window
}

// InputTracker turns key messages into per-tick input frames.
type InputTracker struct {
	keys    GameKeyMap
	holds   [holdCount]holdState
	pending core.InputFrame
}

// NewInputTracker creates a tracker with the given bindings.
func NewInputTracker(keys GameKeyMap) *InputTracker {
	return &InputTracker{keys: keys, pending: core.NewInputFrame()}
}

// HandleKey records a key press. It reports whether the key asks to quit.
func (t *InputTracker) HandleKey(msg tea.KeyMsg, now time.Time) bool {
	k := t.keys
	switch {
	case key.Matches(msg, k.Quit):
		return true
	case key.Matches(msg, k.Toggle):
		t.pending.Set(core.ActionToggle)
	case key.Matches(msg, k.Pause):
		t.pending.Set(core.ActionPause)
	case key.Matches(msg, k.Restart):
		t.pending.Set(core.ActionRestart)
	case key.Matches(msg, k.Use):
		t.pending.Set(core.ActionUse)
		t.press(holdUse, now)
	}

	if key.Matches(msg, k.Up) {
		t.press(holdUp, now)
		t.release(holdDown)
	}
	if key.Matches(msg, k.Down) {
		t.press(holdDown, now)
		t.release(holdUp)
	}
	if key.Matches(msg, k.Left) {
		t.press(holdLeft, now)
		t.release(holdRight)
	}
	if key.Matches(msg, k.Right) {
		t.press(holdRight, now)
		t.release(holdLeft)
	}
	if key.Matches(msg, k.Sprint) {
		t.press(holdSprint, now)
	} else if key.Matches(msg, k.Up, k.Down, k.Left, k.Right) {
		t.release(holdSprint)
	}
	return false
}

func (t *InputTracker) press(k holdKey, now time.Time) {
	h := &t.holds[k]
	if !h.active(now) {
		h.first = now
	}
	h.last = now
}

func (t *InputTracker) release(k holdKey) {
	t.holds[k] = holdState{}
}

// Frame returns the input for a tick at now and clears the pressed actions.
func (t *InputTracker) Frame(now time.Time) core.InputFrame {
	f := t.pending.Clone()
	t.pending.Clear()

	if t.holds[holdUp].active(now) {
		f.MoveZ--
	}
	if t.holds[holdDown].active(now) {
		f.MoveZ++
	}
	if t.holds[holdLeft].active(now) {
		f.MoveX--
	}
	if t.holds[holdRight].active(now) {
		f.MoveX++
	}
	f.SprintHeld = t.holds[holdSprint].active(now)
	f.UseHeld = t.holds[holdUse].active(now)
	return f
}

// Reset forgets every held key and pending action.
func (t *InputTracker) Reset() {
	t.holds = [holdCount]holdState{}
	t.pending.Clear()
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionLeft
	MenuActionRight
	MenuActionSelect
	MenuActionBack
	MenuActionQuit
)

// MapKeyToMenuAction translates a key to a menu action.
func MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	switch msg.String() {
	case "ctrl+c", "q":
		return MenuActionQuit
	case "w", "up", "k": // vim-style k for up
		return MenuActionUp
	case "s", "down", "j": // vim-style j for down
		return MenuActionDown
	case "a", "left", "h":
		return MenuActionLeft
	case "d", "right", "l":
		return MenuActionRight
	case "enter", " ":
		return MenuActionSelect
	case "b", "esc":
		return MenuActionBack
	}

	return MenuActionNone
}
