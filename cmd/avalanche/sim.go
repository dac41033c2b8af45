package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-avalanche/internal/config"
	"github.com/vovakirdan/tui-avalanche/internal/core"
	"github.com/vovakirdan/tui-avalanche/internal/games/rescue"
	"github.com/vovakirdan/tui-avalanche/internal/storage"
	"github.com/vovakirdan/tui-avalanche/internal/trace"
)

var (
	flagTrace      string
	flagSimSeconds float64
	flagNoRecord   bool
)

var simCmd = &cobra.Command{
	Use:   "sim [scenario]",
	Short: "Run a mission headless with the autopilot",
	Long: `Run a mission without a terminal UI. The autopilot follows the
beacon signal, probes, digs and carries the victim to the evacuation
zone using only what the HUD shows. The run is recorded with source
"sim" unless --no-record is given.

--trace writes one JSON frame per tick, zstd-compressed. Read it back
with 'avalanche trace <file>'.

Examples:
  avalanche sim
  avalanche sim treeline --seed 42
  avalanche sim couloir --difficulty hard --trace ./couloir.jsonl.zst
  avalanche sim --fps 30 --max-seconds 120`,
	Args: cobra.MaximumNArgs(1),
	Run:  runSim,
}

func init() {
	simCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom mission config YAML")
	simCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard")
	simCmd.Flags().StringVar(&flagTrace, "trace", "", "Write a compressed per-tick trace to this file")
	simCmd.Flags().Float64Var(&flagSimSeconds, "max-seconds", 600, "Give up after this much simulated time")
	simCmd.Flags().BoolVar(&flagNoRecord, "no-record", false, "Do not save the run to the database")
}

func runSim(cmd *cobra.Command, args []string) {
	scenario, err := scenarioArg(args, flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	preset, err := config.ParsePreset(flagDifficulty)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if flagFPS <= 0 {
		fmt.Fprintln(os.Stderr, "Error: --fps must be positive")
		os.Exit(1)
	}

	logger := newLogger(os.Stderr, "sim")

	game, err := rescue.Load(scenario, flagConfig, preset, rescue.WithLogger(logger))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading scenario: %v\n", err)
		os.Exit(1)
	}

	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rc := core.DefaultConfig()
	rc.TickRate = flagFPS
	rc.Seed = seed
	game.Reset(rc)

	dt := 1 / float64(flagFPS)
	maxTicks := int(flagSimSeconds * float64(flagFPS))

	var observe func(*rescue.Snapshot) error
	var tw *trace.Writer
	if flagTrace != "" {
		tw, err = trace.Create(flagTrace, trace.Header{
			Scenario:   scenario,
			Difficulty: string(preset),
			Seed:       seed,
			Step:       dt,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		observe = func(s *rescue.Snapshot) error {
			return tw.Write(s.Frame())
		}
	}

	report, simErr := rescue.Simulate(game, dt, maxTicks, observe)
	if tw != nil {
		if err := tw.Close(); err != nil && simErr == nil {
			simErr = err
		}
	}
	if simErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", simErr)
		os.Exit(1)
	}

	printReport(report, seed, preset)
	if tw != nil {
		fmt.Printf("  Trace:      %s (%d frames)\n", flagTrace, tw.Frames())
	}

	if flagNoRecord || (report.Outcome != "WIN" && report.Outcome != "LOSE") {
		return
	}
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open runs database", "err", err)
		return
	}
	defer store.Close()

	if _, err := store.SaveRun(storage.RunRecord{
		Scenario:   report.Scenario,
		Difficulty: string(preset),
		Outcome:    report.Outcome,
		Reason:     report.Reason,
		Score:      report.Score,
		TimeLeft:   report.TimeLeft,
		Elapsed:    report.Elapsed,
		ProbesUsed: report.ProbesUsed,
		Seed:       seed,
		Source:     "sim",
	}); err != nil {
		logger.Warn("could not save run", "err", err)
	}
}

func printReport(r rescue.Report, seed int64, preset config.DifficultyPreset) {
	fmt.Printf("Sim report - %s (%s)\n", r.Scenario, preset)
	fmt.Println()
	fmt.Printf("  Outcome:    %s", r.Outcome)
	if r.Reason != "" {
		fmt.Printf(" (%s)", r.Reason)
	}
	fmt.Println()
	fmt.Printf("  Seed:       %d\n", seed)
	fmt.Printf("  Ticks:      %d\n", r.Ticks)
	fmt.Printf("  Elapsed:    %.1fs\n", r.Elapsed)
	fmt.Printf("  Time left:  %.1fs\n", r.TimeLeft)
	fmt.Printf("  Probes:     %d used\n", r.ProbesUsed)
	fmt.Printf("  Score:      %d\n", r.Score)
}
