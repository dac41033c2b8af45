package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tui-avalanche/internal/sim/collision"
	"github.com/vovakirdan/tui-avalanche/internal/sim/terrain"
)

const schemaURL = "mission.schema.json"

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func missionSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, strings.NewReader(missionSchemaJSON)); err != nil {
			schemaErr = fmt.Errorf("config: load schema: %w", err)
			return
		}
		compiledSchema, schemaErr = c.Compile(schemaURL)
		if schemaErr != nil {
			schemaErr = fmt.Errorf("config: compile schema: %w", schemaErr)
		}
	})
	return compiledSchema, schemaErr
}

// ValidateDocument checks a raw YAML mission document against the schema.
// An empty document is valid and means "all defaults".
func ValidateDocument(data []byte) error {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("config: decode: %w", err)
	}
	if doc == nil {
		doc = map[string]any{}
	}

	// Round-trip through JSON so numbers and maps have the shapes the
	// validator expects.
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("config: document is not JSON-compatible: %w", err)
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("config: document is not JSON-compatible: %w", err)
	}

	schema, err := missionSchema()
	if err != nil {
		return err
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("config: schema: %w", err)
	}
	return nil
}

// Validate performs the semantic checks a schema cannot express.
func (c MissionConfig) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	w, h := c.World.Width, c.World.Height
	if w <= 0 || h <= 0 {
		add("world: size %vx%v must be positive", w, h)
	}
	inside := func(x, z float64) bool {
		return x >= 0 && x <= w && z >= 0 && z <= h
	}

	if !inside(c.Player.StartX, c.Player.StartZ) {
		add("player: start (%v, %v) outside world", c.Player.StartX, c.Player.StartZ)
	}
	if c.Player.Radius*2 >= w || c.Player.Radius*2 >= h {
		add("player: radius %v does not fit the world", c.Player.Radius)
	}
	if c.Player.Stamina.Max <= 0 || c.Player.Stamina.Max > 100 {
		add("player: stamina max %v outside (0, 100]", c.Player.Stamina.Max)
	}
	if c.Player.Stamina.MinToSprint >= c.Player.Stamina.Max {
		add("player: min_to_sprint %v must be below max %v", c.Player.Stamina.MinToSprint, c.Player.Stamina.Max)
	}
	if c.Slope.MinFactor > c.Slope.MaxFactor {
		add("slope: min_factor %v above max_factor %v", c.Slope.MinFactor, c.Slope.MaxFactor)
	}
	if c.Collision.MaxStepDistance <= 0 || c.Collision.MaxSubSteps < 1 {
		add("collision: step distance and substeps must be positive")
	}
	if c.Hazard.FixedStep <= 0 || c.Hazard.MaxStepsPerTick < 1 {
		add("hazard: fixed_step and max_steps_per_tick must be positive")
	}
	if c.Mission.TimerSec <= 0 {
		add("mission: timer_sec must be positive")
	}

	for name := range c.Terrain.Speed {
		if _, err := terrain.ParseCategory(name); err != nil {
			add("terrain.speed: %w", err)
		}
	}
	for name := range c.Terrain.Bias {
		if _, err := terrain.ParseCategory(name); err != nil {
			add("terrain.bias: %w", err)
		}
	}
	for i, z := range c.Zones {
		if _, err := terrain.ParseCategory(z.Type); err != nil {
			add("zones[%d]: %w", i, err)
		}
		if z.W <= 0 || z.H <= 0 {
			add("zones[%d]: size must be positive", i)
		}
	}
	for i, o := range c.Obstacles {
		if _, err := parseObstacleKind(o.Kind); err != nil {
			add("obstacles[%d]: %w", i, err)
		}
		if o.W <= 0 || o.H <= 0 {
			add("obstacles[%d]: size must be positive", i)
		}
	}

	if len(c.Victims) == 0 {
		add("victims: at least one candidate is required")
	}
	for i, v := range c.Victims {
		if !inside(v.X, v.Z) {
			add("victims[%d]: (%v, %v) outside world", i, v.X, v.Z)
		}
	}

	e := c.Evac
	if e.W <= 0 || e.H <= 0 {
		add("evac: size must be positive")
	} else if !inside(e.X, e.Z) || !inside(e.X+e.W, e.Z+e.H) {
		add("evac: rectangle outside world")
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("config: invalid mission %q: %w", c.Name, errors.Join(errs...))
}

func parseObstacleKind(s string) (collision.ObstacleKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "tree":
		return collision.Tree, nil
	case "rock":
		return collision.Rock, nil
	default:
		return collision.Tree, fmt.Errorf("unknown obstacle kind %q", s)
	}
}
