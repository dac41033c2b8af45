package config

import (
	"fmt"
	"math"
	"strings"
)

// ParsePreset converts a flag value into a DifficultyPreset.
// The empty string means normal.
func ParsePreset(s string) (DifficultyPreset, error) {
	switch DifficultyPreset(strings.ToLower(strings.TrimSpace(s))) {
	case "", DifficultyNormal:
		return DifficultyNormal, nil
	case DifficultyEasy:
		return DifficultyEasy, nil
	case DifficultyHard:
		return DifficultyHard, nil
	default:
		return "", fmt.Errorf("config: unknown difficulty %q (want easy, normal or hard)", s)
	}
}

// presetScale describes how a preset bends a scenario.
type presetScale struct {
	timer      float64
	probeDelta int
	growth     float64
}

func scaleFor(preset DifficultyPreset) presetScale {
	switch preset {
	case DifficultyEasy:
		return presetScale{timer: 4.0 / 3, probeDelta: 4, growth: 0.7}
	case DifficultyHard:
		return presetScale{timer: 0.75, probeDelta: -3, growth: 1.35}
	default:
		return presetScale{timer: 1, probeDelta: 0, growth: 1}
	}
}

// ApplyPreset modifies the config based on a difficulty preset. Easy gives
// more time and probes and a slower slide; hard the reverse. Normal leaves
// the scenario untouched.
func ApplyPreset(cfg *MissionConfig, preset DifficultyPreset) {
	s := scaleFor(preset)

	cfg.Mission.TimerSec = math.Round(cfg.Mission.TimerSec * s.timer)
	cfg.Mission.ProbeCount += s.probeDelta
	if cfg.Mission.ProbeCount < 1 {
		cfg.Mission.ProbeCount = 1
	}
	cfg.Hazard.Growth.Idle *= s.growth
	cfg.Hazard.Growth.AfterStrike *= s.growth
	cfg.Hazard.Growth.AfterSecure *= s.growth
}
