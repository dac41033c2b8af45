package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-avalanche/internal/core"
	"github.com/vovakirdan/tui-avalanche/internal/games/rescue"
	"github.com/vovakirdan/tui-avalanche/internal/platform/tui"
	"github.com/vovakirdan/tui-avalanche/internal/storage"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Pick scenarios from an interactive menu",
	Long: `Start in interactive menu mode.

Use arrow keys or j/k to pick a scenario, left/right to pick the
difficulty and Enter to start. Press B after a run to return to the menu.

Controls:
  Up/Down/j/k     - Navigate scenarios
  Left/Right/h/l  - Change difficulty
  Enter/Space     - Start mission
  Tab             - Records
  Q               - Quit

Examples:
  avalanche menu
  avalanche menu --fps 30
  avalanche menu --db ./runs.db`,
	Run: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open runs database: %v\n", err)
		store = nil
	}

	logger, closeLog := tuiLogger()
	defer closeLog()

	width, height := terminalSize()
	cfg := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}

	for {
		menuResult, err := tui.RunMenu(store, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			break
		}

		// Update config with any size changes
		cfg = menuResult.Config

		if menuResult.Quit {
			break
		}

		if menuResult.WantsRecord {
			goBack, recErr := tui.RunRecords(store, cfg.ScreenW, cfg.ScreenH)
			if recErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", recErr)
			}
			if goBack {
				continue // Back to menu
			}
			break // User quit from records
		}

		game, err := rescue.Load(menuResult.Scenario, "", menuResult.Difficulty, rescue.WithLogger(logger))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading scenario: %v\n", err)
			continue
		}

		// Fresh victim placement for every mission unless pinned
		if flagSeed == 0 {
			cfg.Seed = time.Now().UnixNano()
		}

		back, err := tui.Run(game, store, cfg,
			tui.WithLogger(logger),
			tui.WithDifficulty(string(menuResult.Difficulty)),
		)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error running mission: %v\n", err)
		}
		if !back {
			break
		}
	}

	if store != nil {
		store.Close()
	}
}
