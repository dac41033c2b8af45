package core

// Action represents a semantic edge-triggered action, abstracted from physical key presses.
// This allows the simulation to work with high-level intents rather than raw input.
type Action int

const (
	ActionNone    Action = iota
	ActionToggle         // Tab - switch between SEARCH and PROBE
	ActionUse            // E - place a probe (edge) / dig (held)
	ActionRestart        // R key - restart after WIN/LOSE
	ActionPause          // P, Escape - pause/unpause (host only)
	ActionQuit           // Q, Ctrl+C - exit game/session
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionToggle:
		return "Toggle"
	case ActionUse:
		return "Use"
	case ActionRestart:
		return "Restart"
	case ActionPause:
		return "Pause"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// InputFrame is everything the input collaborator publishes for one frame:
// a movement intent with axis values in {-1, 0, 1}, held flags, and the set
// of actions that were pressed this frame.
type InputFrame struct {
	MoveX      int
	MoveZ      int
	SprintHeld bool
	UseHeld    bool

	// Actions maps action types to whether they were triggered this frame.
	Actions map[Action]bool
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
	}
}

// Set marks an action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	if f.Actions == nil {
		return false
	}
	return f.Actions[a]
}

// Intent returns the raw (unnormalized) movement vector.
func (f InputFrame) Intent() Vec2 {
	return Vec2{X: float64(sign(f.MoveX)), Z: float64(sign(f.MoveZ))}
}

// Clear resets all actions and held state for the next frame.
func (f *InputFrame) Clear() {
	f.MoveX, f.MoveZ = 0, 0
	f.SprintHeld, f.UseHeld = false, false
	for k := range f.Actions {
		delete(f.Actions, k)
	}
}

// Clone creates a copy of this input frame.
func (f InputFrame) Clone() InputFrame {
	clone := NewInputFrame()
	clone.MoveX, clone.MoveZ = f.MoveX, f.MoveZ
	clone.SprintHeld, clone.UseHeld = f.SprintHeld, f.UseHeld
	for k, v := range f.Actions {
		clone.Actions[k] = v
	}
	return clone
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
