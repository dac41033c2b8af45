// Package config provides YAML-based mission configuration loading,
// validation and difficulty presets for the rescue simulation.
package config

// MissionConfig contains every tunable of one rescue scenario.
type MissionConfig struct {
	Name        string `yaml:"name"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`

	World     WorldConfig      `yaml:"world"`
	Player    PlayerConfig     `yaml:"player"`
	Terrain   TerrainConfig    `yaml:"terrain"`
	Slope     SlopeConfig      `yaml:"slope"`
	Collision CollisionConfig  `yaml:"collision"`
	Hazard    HazardConfig     `yaml:"hazard"`
	Mission   RulesConfig      `yaml:"mission"`
	Zones     []ZoneConfig     `yaml:"zones"`
	Obstacles []ObstacleConfig `yaml:"obstacles"`
	Victims   []PointConfig    `yaml:"victims"`
	Evac      RectConfig       `yaml:"evac"`
}

// WorldConfig defines the ground-plane extent.
type WorldConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// PlayerConfig defines the rescuer's movement and stamina.
type PlayerConfig struct {
	StartX           float64       `yaml:"start_x"`
	StartZ           float64       `yaml:"start_z"`
	BaseSpeed        float64       `yaml:"base_speed"`
	SprintMultiplier float64       `yaml:"sprint_multiplier"`
	Accel            float64       `yaml:"accel"`
	Decel            float64       `yaml:"decel"`
	Radius           float64       `yaml:"radius"`
	ContactOffset    float64       `yaml:"contact_offset"`
	HeightSmoothing  float64       `yaml:"height_smoothing"`
	Stamina          StaminaConfig `yaml:"stamina"`
}

// StaminaConfig defines the sprint budget.
type StaminaConfig struct {
	Max         float64 `yaml:"max"`
	Drain       float64 `yaml:"drain_per_sec"`
	Regen       float64 `yaml:"regen_per_sec"`
	MinToSprint float64 `yaml:"min_to_sprint"`
}

// TerrainConfig defines per-category speed factors and elevation biases.
// Map keys are category names: open, powder, trees, ridge, gully.
type TerrainConfig struct {
	Speed           map[string]float64 `yaml:"speed"`
	Bias            map[string]float64 `yaml:"bias"`
	GullyStickiness float64            `yaml:"gully_stickiness"`
}

// SlopeConfig defines the elevation field and its effect on movement.
type SlopeConfig struct {
	GlobalGradient float64 `yaml:"global_gradient"`
	SampleDistance float64 `yaml:"sample_distance"`
	MaxGrade       float64 `yaml:"max_grade"`
	Influence      float64 `yaml:"speed_influence"`
	MinFactor      float64 `yaml:"min_factor"`
	MaxFactor      float64 `yaml:"max_factor"`
	DriftAccel     float64 `yaml:"drift_accel"`
}

// CollisionConfig defines movement sub-stepping.
type CollisionConfig struct {
	MaxStepDistance float64 `yaml:"max_step_distance"`
	MaxSubSteps     int     `yaml:"max_substeps"`
	Damping         float64 `yaml:"damping"`
}

// PhaseRates holds one value per hazard phase.
type PhaseRates struct {
	Idle        float64 `yaml:"idle"`
	AfterStrike float64 `yaml:"after_strike"`
	AfterSecure float64 `yaml:"after_secure"`
}

// HazardConfig defines the secondary slide.
type HazardConfig struct {
	CenterX         float64    `yaml:"center_x"`
	CenterZ         float64    `yaml:"center_z"`
	InitialRadius   float64    `yaml:"initial_radius"`
	Growth          PhaseRates `yaml:"growth"`
	Pulse           PhaseRates `yaml:"pulse"`
	KillMargin      float64    `yaml:"kill_margin"`
	WarningOffset   float64    `yaml:"warning_offset"`
	PressureFalloff float64    `yaml:"pressure_falloff"`
	FixedStep       float64    `yaml:"fixed_step"`
	MaxStepsPerTick int        `yaml:"max_steps_per_tick"`
}

// RulesConfig defines the mission timers and resources.
type RulesConfig struct {
	TimerSec             float64 `yaml:"timer_sec"`
	DispatchSec          float64 `yaml:"dispatch_sec"`
	ProbeCount           int     `yaml:"probe_count"`
	ProbeSuccessRadius   float64 `yaml:"probe_success_radius"`
	DigDurationSec       float64 `yaml:"dig_duration_sec"`
	SignalMaxDistance    float64 `yaml:"signal_max_distance"`
	SignalExponent       float64 `yaml:"signal_exponent"`
	BannerSec            float64 `yaml:"banner_sec"`
	CarrySpeedMultiplier float64 `yaml:"carry_speed_multiplier"`
	CarrySprint          bool    `yaml:"carry_sprint"`
}

// ZoneConfig is one terrain region. Later zones override earlier ones.
type ZoneConfig struct {
	Type  string  `yaml:"type"`
	Label string  `yaml:"label,omitempty"`
	X     float64 `yaml:"x"`
	Z     float64 `yaml:"z"`
	W     float64 `yaml:"w"`
	H     float64 `yaml:"h"`
}

// ObstacleConfig is one static obstacle, positioned by its center.
type ObstacleConfig struct {
	Kind string  `yaml:"kind"`
	X    float64 `yaml:"x"`
	Z    float64 `yaml:"z"`
	W    float64 `yaml:"w"`
	H    float64 `yaml:"h"`
}

// PointConfig is a ground-plane point.
type PointConfig struct {
	X float64 `yaml:"x"`
	Z float64 `yaml:"z"`
}

// RectConfig is a ground-plane rectangle by its minimum corner.
type RectConfig struct {
	X float64 `yaml:"x"`
	Z float64 `yaml:"z"`
	W float64 `yaml:"w"`
	H float64 `yaml:"h"`
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
)

// Presets lists the accepted difficulty names.
var Presets = []DifficultyPreset{DifficultyEasy, DifficultyNormal, DifficultyHard}
