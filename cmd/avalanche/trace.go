package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-avalanche/internal/games/rescue"
	"github.com/vovakirdan/tui-avalanche/internal/trace"
)

var traceCmd = &cobra.Command{
	Use:   "trace <file>",
	Short: "Summarize a sim trace",
	Long: `Read a trace written by 'avalanche sim --trace' and print its header,
the run-state changes and the final frame.

Examples:
  avalanche trace ./couloir.jsonl.zst`,
	Args: cobra.ExactArgs(1),
	Run:  runTrace,
}

func runTrace(cmd *cobra.Command, args []string) {
	r, err := trace.Open(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer r.Close()

	h := r.Header()
	fmt.Printf("Trace - %s (%s), seed %d, step %.4fs\n", h.Scenario, h.Difficulty, h.Seed, h.Step)
	fmt.Println()

	var (
		last   rescue.Frame
		frames int
		prev   string
	)
	for {
		var f rescue.Frame
		if err := r.Next(&f); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		frames++
		phase := f.RunState + "/" + f.Submode
		if phase != prev {
			fmt.Printf("  tick %-6d %-16s timer %6.1f  probes %d  hazard %6.1f\n",
				f.Tick, phase, f.Timer, f.Probes, f.Hazard)
			prev = phase
		}
		last = f
	}

	fmt.Println()
	if frames == 0 {
		fmt.Println("No frames recorded.")
		return
	}
	fmt.Printf("Frames: %d\n", frames)
	fmt.Printf("Final:  %s", last.RunState)
	if last.Reason != "" {
		fmt.Printf(" (%s)", last.Reason)
	}
	fmt.Printf(" at (%.1f, %.1f), stamina %.2f\n", last.X, last.Z, last.Stamina)
}
