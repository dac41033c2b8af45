package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-avalanche/internal/config"
	"github.com/vovakirdan/tui-avalanche/internal/core"
	"github.com/vovakirdan/tui-avalanche/internal/games/rescue"
	"github.com/vovakirdan/tui-avalanche/internal/platform/tui"
	"github.com/vovakirdan/tui-avalanche/internal/registry"
	"github.com/vovakirdan/tui-avalanche/internal/storage"
)

var (
	flagConfig     string
	flagDifficulty string
)

var playCmd = &cobra.Command{
	Use:   "play [scenario]",
	Short: "Run a rescue mission",
	Long: `Start a rescue mission on the given scenario (default: couloir).

Controls:
  WASD/Arrows  - Move (hold Shift to sprint)
  Tab          - Switch between search and probe
  E/Space      - Place a probe, hold to dig
  P/Esc        - Pause
  R            - Restart (after the run ends)
  B            - Back (after the run ends or while paused)
  Ctrl+S       - Save a screenshot
  Q/Ctrl+C     - Quit

Difficulty options:
  easy   - More time and probes, slower secondary slide
  normal - The scenario as written
  hard   - Less time and probes, faster secondary slide

Examples:
  avalanche play
  avalanche play treeline --difficulty easy
  avalanche play couloir --config ./my-couloir.yaml`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom mission config YAML")
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard")
}

// scenarioArg returns the scenario named on the command line and checks
// it exists unless a config file supplies it.
func scenarioArg(args []string, customPath string) (string, error) {
	scenario := config.DefaultScenario
	if len(args) > 0 {
		scenario = args[0]
	}
	if customPath == "" && !registry.Exists(scenario) {
		return "", fmt.Errorf("unknown scenario %q", scenario)
	}
	return scenario, nil
}

// terminalSize returns the size of stdout, or 80x24 when it is not a terminal.
func terminalSize() (int, int) {
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width, height = w, h
	}
	return width, height
}

func runPlay(cmd *cobra.Command, args []string) {
	scenario, err := scenarioArg(args, flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr, "Run 'avalanche list' to see available scenarios.")
		os.Exit(1)
	}

	preset, err := config.ParsePreset(flagDifficulty)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger, closeLog := tuiLogger()
	defer closeLog()

	game, err := rescue.Load(scenario, flagConfig, preset, rescue.WithLogger(logger))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading scenario: %v\n", err)
		os.Exit(1)
	}

	width, height := terminalSize()
	cfg := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}

	// Open run storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open runs database: %v\n", err)
		// Continue without storage - the mission still works
		store = nil
	}

	_, runErr := tui.Run(game, store, cfg,
		tui.WithLogger(logger),
		tui.WithDifficulty(string(preset)),
	)

	// Close store before potential exit
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running mission: %v\n", runErr)
		os.Exit(1)
	}
}
