package config

import (
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/vovakirdan/tui-avalanche/internal/sim/hazard"
	"github.com/vovakirdan/tui-avalanche/internal/sim/terrain"
)

func TestScenarios(t *testing.T) {
	got := Scenarios()
	want := []string{"couloir", "treeline"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Scenarios() = %v, expected %v", got, want)
	}
	if !HasScenario("treeline") || HasScenario("lava") {
		t.Error("HasScenario gave wrong answers")
	}
}

func TestLoadEmbeddedScenarios(t *testing.T) {
	for _, name := range Scenarios() {
		t.Run(name, func(t *testing.T) {
			cfg, err := Load(name, "")
			if err != nil {
				t.Fatalf("Load(%q) error: %v", name, err)
			}
			if cfg.Name != name {
				t.Errorf("Name = %q, expected %q", cfg.Name, name)
			}
			if cfg.Title == "" {
				t.Error("Title should be set")
			}
			if err := cfg.Validate(); err != nil {
				t.Errorf("Validate() error: %v", err)
			}
		})
	}
}

func TestLoadDefaultsToCouloir(t *testing.T) {
	cfg, err := Load("", "")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Name != DefaultScenario {
		t.Errorf("Name = %q, expected %q", cfg.Name, DefaultScenario)
	}
}

func TestEmbeddedCouloirMatchesDefault(t *testing.T) {
	cfg, err := Parse(defaultCouloirYAML)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	def := DefaultMissionConfig()

	if math.Abs(cfg.Hazard.FixedStep-def.Hazard.FixedStep) > 1e-9 {
		t.Errorf("FixedStep = %v, expected %v", cfg.Hazard.FixedStep, def.Hazard.FixedStep)
	}
	cfg.Hazard.FixedStep = def.Hazard.FixedStep

	if !reflect.DeepEqual(cfg, def) {
		t.Errorf("embedded couloir differs from DefaultMissionConfig:\n%+v\n%+v", cfg, def)
	}
}

func TestLoadUnknownScenario(t *testing.T) {
	if _, err := Load("no-such-scenario", ""); err == nil {
		t.Error("expected error for unknown scenario")
	}
}

func TestLoadCustomPathPartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mine.yaml")
	doc := "mission:\n  timer_sec: 90\n  probe_count: 3\nhazard:\n  growth:\n    idle: 1\n"
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("custom", path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Mission.TimerSec != 90 || cfg.Mission.ProbeCount != 3 {
		t.Errorf("overrides not applied: %+v", cfg.Mission)
	}
	if cfg.Hazard.Growth.Idle != 1 || cfg.Hazard.Growth.AfterStrike != 9 {
		t.Errorf("growth = %+v, expected idle overridden and the rest default", cfg.Hazard.Growth)
	}
	if len(cfg.Zones) != 4 || cfg.Player.BaseSpeed != 240 {
		t.Error("omitted sections should keep defaults")
	}
	if cfg.Name != "custom" || cfg.Title != "custom" {
		t.Errorf("Name/Title = %q/%q, expected scenario name", cfg.Name, cfg.Title)
	}
}

func TestLoadCustomPathErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := Load("x", filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("mission:\n  timer_sec: -5\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load("x", bad); err == nil {
		t.Error("expected error for negative timer")
	}
}

func TestValidateDocument(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr bool
	}{
		{"empty document", "", false},
		{"partial document", "mission:\n  timer_sec: 120\n", false},
		{"unknown top-level key", "weather: stormy\n", true},
		{"unknown zone type", "zones:\n  - { type: lava, x: 0, z: 0, w: 10, h: 10 }\n", true},
		{"unknown obstacle kind", "obstacles:\n  - { kind: hut, x: 0, z: 0, w: 10, h: 10 }\n", true},
		{"zero-size zone", "zones:\n  - { type: powder, x: 0, z: 0, w: 0, h: 10 }\n", true},
		{"string where number expected", "world:\n  width: wide\n", true},
		{"empty victim list", "victims: []\n", true},
		{"stickiness above one", "terrain:\n  gully_stickiness: 1.5\n", true},
		{"stamina max within range", "player:\n  stamina:\n    max: 80\n", false},
		{"stamina max above 100", "player:\n  stamina:\n    max: 150\n", true},
		{"bad terrain table key", "terrain:\n  speed:\n    swamp: 0.5\n", true},
		{"malformed yaml", "mission: [\n", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDocument([]byte(tt.doc))
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDocument() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateSemantic(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *MissionConfig)
		substr string
	}{
		{"no victims", func(c *MissionConfig) { c.Victims = nil }, "victims"},
		{"victim outside world", func(c *MissionConfig) { c.Victims[0].X = 9999 }, "victims[0]"},
		{"evac outside world", func(c *MissionConfig) { c.Evac.X = 2300 }, "evac"},
		{"start outside world", func(c *MissionConfig) { c.Player.StartZ = -1 }, "player"},
		{"sprint threshold above max", func(c *MissionConfig) { c.Player.Stamina.MinToSprint = 200 }, "min_to_sprint"},
		{"stamina max above 100", func(c *MissionConfig) { c.Player.Stamina.Max = 150 }, "stamina max"},
		{"inverted slope band", func(c *MissionConfig) { c.Slope.MinFactor = 2 }, "slope"},
		{"bad zone type", func(c *MissionConfig) { c.Zones[1].Type = "lava" }, "zones[1]"},
		{"bad obstacle kind", func(c *MissionConfig) { c.Obstacles[0].Kind = "hut" }, "obstacles[0]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultMissionConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.substr) {
				t.Errorf("error %q should mention %q", err, tt.substr)
			}
		})
	}

	if err := DefaultMissionConfig().Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestMarshalParseRoundTrip(t *testing.T) {
	def := DefaultMissionConfig()
	data, err := Marshal(def)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	got, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse of marshalled default failed: %v", err)
	}
	if !reflect.DeepEqual(got, def) {
		t.Error("round trip changed the config")
	}
}

func TestParsePreset(t *testing.T) {
	tests := []struct {
		in      string
		want    DifficultyPreset
		wantErr bool
	}{
		{"", DifficultyNormal, false},
		{"easy", DifficultyEasy, false},
		{"HARD", DifficultyHard, false},
		{" normal ", DifficultyNormal, false},
		{"nightmare", "", true},
	}

	for _, tt := range tests {
		got, err := ParsePreset(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParsePreset(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParsePreset(%q) = %q, expected %q", tt.in, got, tt.want)
		}
	}
}

func TestApplyPreset(t *testing.T) {
	tests := []struct {
		preset DifficultyPreset
		timer  float64
		probes int
		idle   float64
	}{
		{DifficultyEasy, 240, 12, 4 * 0.7},
		{DifficultyNormal, 180, 8, 4},
		{DifficultyHard, 135, 5, 4 * 1.35},
	}

	for _, tt := range tests {
		t.Run(string(tt.preset), func(t *testing.T) {
			cfg := DefaultMissionConfig()
			ApplyPreset(&cfg, tt.preset)
			if cfg.Mission.TimerSec != tt.timer {
				t.Errorf("TimerSec = %v, expected %v", cfg.Mission.TimerSec, tt.timer)
			}
			if cfg.Mission.ProbeCount != tt.probes {
				t.Errorf("ProbeCount = %v, expected %v", cfg.Mission.ProbeCount, tt.probes)
			}
			if math.Abs(cfg.Hazard.Growth.Idle-tt.idle) > 1e-9 {
				t.Errorf("Growth.Idle = %v, expected %v", cfg.Hazard.Growth.Idle, tt.idle)
			}
		})
	}

	cfg := DefaultMissionConfig()
	cfg.Mission.ProbeCount = 2
	ApplyPreset(&cfg, DifficultyHard)
	if cfg.Mission.ProbeCount != 1 {
		t.Errorf("hard preset should keep at least one probe, got %d", cfg.Mission.ProbeCount)
	}
}

func TestParamsConversion(t *testing.T) {
	cfg := DefaultMissionConfig()

	if n := len(cfg.TerrainZones()); n != 4 {
		t.Errorf("TerrainZones = %d, expected 4", n)
	}
	if n := len(cfg.CollisionObstacles()); n != 13 {
		t.Errorf("CollisionObstacles = %d, expected 13", n)
	}

	lp := cfg.LocomotionParams()
	if lp.TerrainSpeed[terrain.Gully] != 1.16 || lp.BaseSpeed != 240 || lp.MaxSubSteps != 8 {
		t.Errorf("unexpected locomotion params %+v", lp)
	}

	fp := cfg.FieldParams()
	if fp.Bias[terrain.RidgeRock] != 12 || fp.WorldHeight != 1800 {
		t.Errorf("unexpected field params %+v", fp)
	}

	hp := cfg.HazardParams()
	if hp.Growth[hazard.AfterSecure] != 14 || hp.Center.X != 1200 {
		t.Errorf("unexpected hazard params %+v", hp)
	}

	mp := cfg.MissionParams()
	if len(mp.VictimCandidates) != 4 || mp.Evac.W != 190 || mp.CarrySprintEnabled {
		t.Errorf("unexpected mission params %+v", mp)
	}

	if b := cfg.Bounds(); b.W != 2400 || b.H != 1800 {
		t.Errorf("Bounds = %+v", b)
	}
}
