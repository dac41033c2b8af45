package config

import (
	_ "embed"
	"sort"
)

//go:embed defaults/couloir.yaml
var defaultCouloirYAML []byte

//go:embed defaults/treeline.yaml
var defaultTreelineYAML []byte

//go:embed defaults/mission.schema.json
var missionSchemaJSON string

// DefaultScenario is played when no scenario is named.
const DefaultScenario = "couloir"

var embeddedScenarios = map[string][]byte{
	"couloir":  defaultCouloirYAML,
	"treeline": defaultTreelineYAML,
}

// Scenarios returns the names of the built-in scenarios, sorted.
func Scenarios() []string {
	names := make([]string, 0, len(embeddedScenarios))
	for name := range embeddedScenarios {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HasScenario reports whether name is a built-in scenario.
func HasScenario(name string) bool {
	_, ok := embeddedScenarios[name]
	return ok
}

// DefaultMissionConfig returns the couloir scenario without reading any file.
func DefaultMissionConfig() MissionConfig {
	return MissionConfig{
		Name:        "couloir",
		Title:       "Couloir",
		Description: "Open bowl, powder fields and a fast gully under a loaded ridge.",
		World: WorldConfig{
			Width:  2400,
			Height: 1800,
		},
		Player: PlayerConfig{
			StartX:           150,
			StartZ:           160,
			BaseSpeed:        240,
			SprintMultiplier: 1.55,
			Accel:            1800,
			Decel:            1700,
			Radius:           12,
			ContactOffset:    6,
			HeightSmoothing:  10,
			Stamina: StaminaConfig{
				Max:         100,
				Drain:       38,
				Regen:       24,
				MinToSprint: 8,
			},
		},
		Terrain: TerrainConfig{
			Speed: map[string]float64{
				"open":   1.0,
				"powder": 0.72,
				"trees":  0.68,
				"ridge":  0.78,
				"gully":  1.16,
			},
			Bias: map[string]float64{
				"open":   0,
				"powder": 3,
				"trees":  1.5,
				"ridge":  12,
				"gully":  -10,
			},
			GullyStickiness: 0.22,
		},
		Slope: SlopeConfig{
			GlobalGradient: 0.05,
			SampleDistance: 18,
			MaxGrade:       0.35,
			Influence:      0.35,
			MinFactor:      0.7,
			MaxFactor:      1.32,
			DriftAccel:     30,
		},
		Collision: CollisionConfig{
			MaxStepDistance: 6,
			MaxSubSteps:     8,
			Damping:         0.98,
		},
		Hazard: HazardConfig{
			CenterX:         1200,
			CenterZ:         300,
			InitialRadius:   120,
			Growth:          PhaseRates{Idle: 4, AfterStrike: 9, AfterSecure: 14},
			Pulse:           PhaseRates{Idle: 0.6, AfterStrike: 1.1, AfterSecure: 1.6},
			KillMargin:      6,
			WarningOffset:   10,
			PressureFalloff: 240,
			FixedStep:       1.0 / 60,
			MaxStepsPerTick: 10,
		},
		Mission: RulesConfig{
			TimerSec:             180,
			DispatchSec:          3,
			ProbeCount:           8,
			ProbeSuccessRadius:   26,
			DigDurationSec:       4,
			SignalMaxDistance:    900,
			SignalExponent:       1.65,
			BannerSec:            1.6,
			CarrySpeedMultiplier: 0.72,
			CarrySprint:          false,
		},
		Zones: []ZoneConfig{
			{Type: "powder", Label: "Powder field", X: 250, Z: 260, W: 560, H: 410},
			{Type: "trees", Label: "Larch stand", X: 360, Z: 480, W: 410, H: 620},
			{Type: "ridge", Label: "Rock ridge", X: 900, Z: 650, W: 1180, H: 220},
			{Type: "gully", Label: "Couloir", X: 1310, Z: 240, W: 260, H: 1240},
		},
		Obstacles: []ObstacleConfig{
			{Kind: "tree", X: 520, Z: 560, W: 30, H: 30},
			{Kind: "tree", X: 565, Z: 612, W: 28, H: 28},
			{Kind: "tree", X: 612, Z: 546, W: 32, H: 32},
			{Kind: "tree", X: 450, Z: 910, W: 34, H: 34},
			{Kind: "tree", X: 503, Z: 962, W: 30, H: 30},
			{Kind: "tree", X: 572, Z: 920, W: 36, H: 36},
			{Kind: "tree", X: 1470, Z: 430, W: 30, H: 30},
			{Kind: "tree", X: 1540, Z: 486, W: 28, H: 28},
			{Kind: "tree", X: 1600, Z: 450, W: 32, H: 32},
			{Kind: "rock", X: 980, Z: 740, W: 56, H: 40},
			{Kind: "rock", X: 1070, Z: 780, W: 58, H: 42},
			{Kind: "rock", X: 1710, Z: 1020, W: 64, H: 48},
			{Kind: "rock", X: 1785, Z: 1080, W: 66, H: 50},
		},
		Victims: []PointConfig{
			{X: 1180, Z: 940},
			{X: 1640, Z: 760},
			{X: 820, Z: 1180},
			{X: 1450, Z: 1240},
		},
		Evac: RectConfig{X: 2050, Z: 1470, W: 190, H: 130},
	}
}
