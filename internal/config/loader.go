package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load loads a scenario's mission configuration.
// Search order: customPath -> ~/.avalanche/configs/<scenario>.yaml ->
// ./configs/<scenario>.yaml -> embedded default.
// Fields a file omits keep the built-in couloir values.
func Load(scenario, customPath string) (MissionConfig, error) {
	if scenario == "" {
		scenario = DefaultScenario
	}

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return MissionConfig{}, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := Parse(data)
		if err != nil {
			return MissionConfig{}, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return withName(cfg, scenario), nil
	}

	filename := scenario + ".yaml"

	// Try user config directory
	if userCfgPath := userConfigPath(filename); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := Parse(data); err == nil {
				return withName(cfg, scenario), nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", filename)); err == nil {
		if cfg, err := Parse(data); err == nil {
			return withName(cfg, scenario), nil
		}
	}

	data, ok := embeddedScenarios[scenario]
	if !ok {
		return MissionConfig{}, fmt.Errorf("config: unknown scenario %q", scenario)
	}
	cfg, err := Parse(data)
	if err != nil {
		if scenario == DefaultScenario {
			return DefaultMissionConfig(), nil // Fallback to hardcoded if embed fails
		}
		return MissionConfig{}, fmt.Errorf("config: embedded scenario %q: %w", scenario, err)
	}
	return withName(cfg, scenario), nil
}

// Parse decodes and validates a YAML mission document on top of the defaults.
func Parse(data []byte) (MissionConfig, error) {
	if err := ValidateDocument(data); err != nil {
		return MissionConfig{}, err
	}
	cfg := DefaultMissionConfig()
	cfg.Name, cfg.Title, cfg.Description = "", "", ""
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return MissionConfig{}, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return MissionConfig{}, err
	}
	return cfg, nil
}

// Marshal encodes a mission configuration as YAML.
func Marshal(cfg MissionConfig) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("config: encode: %w", err)
	}
	return data, nil
}

func withName(cfg MissionConfig, scenario string) MissionConfig {
	if cfg.Name == "" {
		cfg.Name = scenario
	}
	if cfg.Title == "" {
		cfg.Title = cfg.Name
	}
	return cfg
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".avalanche", "configs", filename)
}
