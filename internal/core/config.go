package core

// RuntimeConfig contains configuration passed to the mission at initialization.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Host frames per second (default 60)
	Seed     int64 // RNG seed for victim placement
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     0, // 0 means use current time in platform layer
	}
}

// GameState is the coarse status the platform needs from a running mission.
type GameState struct {
	Score    int  // Score of a finished run, 0 while running or lost
	GameOver bool // Whether the run reached WIN or LOSE
	Paused   bool // Whether the host paused the simulation
}

// StepResult is returned by Game.Step() after each frame.
type StepResult struct {
	State  GameState
	Events []Event
}
