package core

// EventKind classifies one-shot feedback the host may react to.
type EventKind int

const (
	EventBanner     EventKind = iota // Banner text changed to a non-empty value
	EventDispatched                  // DISPATCH -> ACTIVE
	EventStrike                      // Probe hit the victim
	EventSecured                     // Dig completed
	EventWin                         // Run reached WIN
	EventLose                        // Run reached LOSE on the timer
	EventDangerHit                   // Run reached LOSE inside the hazard
)

// String returns a human-readable name for the event kind.
func (k EventKind) String() string {
	switch k {
	case EventBanner:
		return "banner"
	case EventDispatched:
		return "dispatched"
	case EventStrike:
		return "strike"
	case EventSecured:
		return "secured"
	case EventWin:
		return "win"
	case EventLose:
		return "lose"
	case EventDangerHit:
		return "danger_hit"
	default:
		return "unknown"
	}
}

// Event is a single feedback trigger produced by diffing consecutive snapshots.
type Event struct {
	Kind EventKind
	Text string
}
