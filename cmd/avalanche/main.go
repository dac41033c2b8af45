// avalanche is a terminal avalanche-rescue simulation.
//
// Usage:
//
//	avalanche list                 - List available scenarios
//	avalanche play [scenario]      - Run a rescue mission
//	avalanche menu                 - Pick scenarios interactively
//	avalanche sim [scenario]       - Run a mission headless with the autopilot
//	avalanche trace <file>         - Summarize a recorded sim trace
//	avalanche records [scenario]   - Show recorded runs
//	avalanche serve                - Start SSH server for remote play
//
// Global flags:
//
//	--fps <rate>         - Set tick rate (default: 60)
//	--seed <value>       - Set RNG seed for reproducible victim placement
//	--db <path>          - Set database path (default: ~/.avalanche/runs.db)
//	--log-level <level>  - debug, info, warn or error
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Import missions to register them
	_ "github.com/vovakirdan/tui-avalanche/internal/games/rescue"
)

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "avalanche",
	Short: "Avalanche Rescue - find, dig out and carry a buried victim",
	Long: `Avalanche Rescue is a terminal simulation of a search on an avalanche
debris field. Follow the beacon signal, probe for the victim, dig them
out and carry them to the evacuation zone before time runs out or the
secondary slide catches you.

Available commands:
  list     - Show all scenarios
  play     - Run a mission directly
  menu     - Interactive scenario picker
  sim      - Headless run driven by the autopilot
  trace    - Summarize a sim trace file
  records  - View recorded runs
  serve    - Start SSH server for remote play

Examples:
  avalanche list
  avalanche play couloir
  avalanche play treeline --difficulty hard
  avalanche sim couloir --seed 42 --trace ./couloir.jsonl.zst
  avalanche records couloir
  avalanche serve --ssh :2222`,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.avalanche/runs.db", "Path to runs database")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(simCmd)
	rootCmd.AddCommand(traceCmd)
	rootCmd.AddCommand(recordsCmd)
	rootCmd.AddCommand(serveCmd)
}
