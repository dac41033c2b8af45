package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-avalanche/internal/core"
)

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestInputTrackerActionsAreEdges(t *testing.T) {
	tr := NewInputTracker(DefaultGameKeyMap())
	now := time.Unix(100, 0)

	tests := []struct {
		msg    tea.KeyMsg
		action core.Action
	}{
		{tea.KeyMsg{Type: tea.KeyTab}, core.ActionToggle},
		{runeKey("e"), core.ActionUse},
		{runeKey("p"), core.ActionPause},
		{runeKey("r"), core.ActionRestart},
	}

	for _, tt := range tests {
		if tr.HandleKey(tt.msg, now) {
			t.Fatalf("%s should not quit", tt.msg)
		}
		f := tr.Frame(now)
		if !f.Has(tt.action) {
			t.Errorf("%s: frame missing %v", tt.msg, tt.action)
		}
		if next := tr.Frame(now); next.Has(tt.action) {
			t.Errorf("%s: %v repeated on the following frame", tt.msg, tt.action)
		}
	}
}

func TestInputTrackerQuit(t *testing.T) {
	tr := NewInputTracker(DefaultGameKeyMap())
	if !tr.HandleKey(runeKey("q"), time.Now()) {
		t.Error("q should quit")
	}
	if !tr.HandleKey(tea.KeyMsg{Type: tea.KeyCtrlC}, time.Now()) {
		t.Error("ctrl+c should quit")
	}
}

func TestInputTrackerHoldWindows(t *testing.T) {
	tr := NewInputTracker(DefaultGameKeyMap())
	start := time.Unix(100, 0)

	tr.HandleKey(runeKey("w"), start)

	// A single press survives the auto-repeat delay.
	if f := tr.Frame(start.Add(500 * time.Millisecond)); f.MoveZ != -1 {
		t.Errorf("MoveZ = %d during first hold window, want -1", f.MoveZ)
	}
	if f := tr.Frame(start.Add(600 * time.Millisecond)); f.MoveZ != 0 {
		t.Errorf("MoveZ = %d after first hold window, want 0", f.MoveZ)
	}

	// Once repeats arrive the shorter window applies.
	tr.HandleKey(runeKey("w"), start.Add(time.Second))
	tr.HandleKey(runeKey("w"), start.Add(time.Second+30*time.Millisecond))
	if f := tr.Frame(start.Add(time.Second + 150*time.Millisecond)); f.MoveZ != -1 {
		t.Errorf("MoveZ = %d while repeating, want -1", f.MoveZ)
	}
	if f := tr.Frame(start.Add(time.Second + 200*time.Millisecond)); f.MoveZ != 0 {
		t.Errorf("MoveZ = %d after repeats stopped, want 0", f.MoveZ)
	}
}

func TestInputTrackerOppositeKeysCancel(t *testing.T) {
	tr := NewInputTracker(DefaultGameKeyMap())
	now := time.Unix(100, 0)

	tr.HandleKey(runeKey("a"), now)
	tr.HandleKey(runeKey("d"), now)
	if f := tr.Frame(now); f.MoveX != 1 {
		t.Errorf("MoveX = %d, want the latest direction 1", f.MoveX)
	}

	tr.HandleKey(runeKey("s"), now)
	if f := tr.Frame(now); f.MoveX != 1 || f.MoveZ != 1 {
		t.Errorf("diagonal = (%d,%d), want (1,1)", f.MoveX, f.MoveZ)
	}
}

func TestInputTrackerSprint(t *testing.T) {
	tr := NewInputTracker(DefaultGameKeyMap())
	now := time.Unix(100, 0)

	tr.HandleKey(runeKey("W"), now)
	f := tr.Frame(now)
	if f.MoveZ != -1 || !f.SprintHeld {
		t.Errorf("shifted W = move %d sprint %v, want -1 true", f.MoveZ, f.SprintHeld)
	}

	// Dropping shift ends the sprint at once.
	tr.HandleKey(runeKey("w"), now.Add(20*time.Millisecond))
	if f := tr.Frame(now.Add(20 * time.Millisecond)); f.SprintHeld {
		t.Error("sprint should end on an unshifted move key")
	}
}

func TestInputTrackerUseHeld(t *testing.T) {
	tr := NewInputTracker(DefaultGameKeyMap())
	now := time.Unix(100, 0)

	tr.HandleKey(runeKey("e"), now)
	f := tr.Frame(now)
	if !f.UseHeld || !f.Has(core.ActionUse) {
		t.Errorf("e press = held %v use %v, want both", f.UseHeld, f.Has(core.ActionUse))
	}
	f = tr.Frame(now.Add(100 * time.Millisecond))
	if !f.UseHeld || f.Has(core.ActionUse) {
		t.Errorf("e hold = held %v use %v, want held only", f.UseHeld, f.Has(core.ActionUse))
	}
}

func TestInputTrackerReset(t *testing.T) {
	tr := NewInputTracker(DefaultGameKeyMap())
	now := time.Unix(100, 0)

	tr.HandleKey(runeKey("d"), now)
	tr.HandleKey(runeKey("r"), now)
	tr.Reset()

	f := tr.Frame(now)
	if f.MoveX != 0 || f.Has(core.ActionRestart) {
		t.Errorf("frame after Reset = %+v, want empty", f)
	}
}

func TestMapKeyToMenuAction(t *testing.T) {
	tests := []struct {
		msg  tea.KeyMsg
		want MenuAction
	}{
		{runeKey("k"), MenuActionUp},
		{tea.KeyMsg{Type: tea.KeyDown}, MenuActionDown},
		{runeKey("h"), MenuActionLeft},
		{runeKey("d"), MenuActionRight},
		{tea.KeyMsg{Type: tea.KeyEnter}, MenuActionSelect},
		{tea.KeyMsg{Type: tea.KeyEsc}, MenuActionBack},
		{runeKey("q"), MenuActionQuit},
		{runeKey("x"), MenuActionNone},
	}

	for _, tt := range tests {
		if got := MapKeyToMenuAction(tt.msg); got != tt.want {
			t.Errorf("MapKeyToMenuAction(%s) = %d, want %d", tt.msg, got, tt.want)
		}
	}
}
