package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-avalanche/internal/registry"
	"github.com/vovakirdan/tui-avalanche/internal/storage"
)

var (
	flagLimit int
	flagClear bool
)

var recordsCmd = &cobra.Command{
	Use:   "records [scenario]",
	Short: "Show recorded runs",
	Long: `Display the best rescues and the latest runs for a scenario, or a
summary of every scenario when none is given.

Examples:
  avalanche records
  avalanche records couloir
  avalanche records couloir --limit 20
  avalanche records couloir --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runRecords,
}

func init() {
	recordsCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of runs to show")
	recordsCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete every recorded run of the scenario")
}

func runRecords(cmd *cobra.Command, args []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening runs database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if len(args) == 0 {
		if flagClear {
			fmt.Fprintln(os.Stderr, "Error: --clear needs a scenario")
			os.Exit(1)
		}
		printSummary(store)
		return
	}

	scenario := args[0]
	if flagClear {
		if err := store.ClearRuns(scenario); err != nil {
			fmt.Fprintf(os.Stderr, "Error clearing runs: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Cleared runs for %s.\n", scenario)
		return
	}

	title := scenario
	if game, err := registry.Create(scenario); err == nil {
		title = game.Title()
	}

	best, err := store.BestRuns(scenario, flagLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving runs: %v\n", err)
		os.Exit(1)
	}
	recent, err := store.RecentRuns(scenario, flagLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving runs: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Records - %s\n", title)
	fmt.Println()

	if len(recent) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'avalanche play %s' to record the first run!\n", scenario)
		return
	}

	if st, err := store.Stats(scenario); err == nil {
		fmt.Printf("Runs %d, rescued %d (%.0f%%), buried %d, out of time %d\n",
			st.Runs, st.Wins, st.WinRate()*100, st.DangerLosses, st.TimerLosses)
		fmt.Println()
	}

	fmt.Println("Best rescues:")
	if len(best) == 0 {
		fmt.Println("  none yet")
	} else {
		printRuns(best)
	}
	fmt.Println()
	fmt.Println("Latest runs:")
	printRuns(recent)
}

func printRuns(runs []storage.RunRecord) {
	fmt.Printf("  %-4s  %-14s  %-6s  %-6s  %-6s  %-6s  %-6s  %s\n",
		"Rank", "Result", "Score", "Time", "Probes", "Diff", "Source", "Date")
	fmt.Printf("  %-4s  %-14s  %-6s  %-6s  %-6s  %-6s  %-6s  %s\n",
		"----", "------", "-----", "----", "------", "----", "------", "----")
	for i, r := range runs {
		result := "rescued"
		if !r.Won() {
			result = "lost " + strings.ToLower(r.Reason)
		}
		fmt.Printf("  %-4d  %-14s  %-6d  %-6s  %-6d  %-6s  %-6s  %s\n",
			i+1, result, r.Score, fmt.Sprintf("%.1fs", r.Elapsed), r.ProbesUsed,
			r.Difficulty, r.Source, r.CreatedAt.Format("2006-01-02 15:04"))
	}
}

func printSummary(store *storage.Store) {
	all, err := store.AllStats()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving stats: %v\n", err)
		os.Exit(1)
	}
	if len(all) == 0 {
		fmt.Println("No runs recorded yet.")
		return
	}

	names := make([]string, 0, len(all))
	for name := range all {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Printf("  %-12s  %-5s  %-5s  %-6s  %-6s  %-10s  %s\n", "Scenario", "Runs", "Wins", "Buried", "Timer", "Best", "Last played")
	fmt.Printf("  %-12s  %-5s  %-5s  %-6s  %-6s  %-10s  %s\n", "--------", "----", "----", "------", "-----", "----", "-----------")
	for _, name := range names {
		st := all[name]
		fmt.Printf("  %-12s  %-5d  %-5d  %-6d  %-6d  %-10d  %s\n",
			name, st.Runs, st.Wins, st.DangerLosses, st.TimerLosses, st.HighScore,
			st.LastPlayed.Format("2006-01-02 15:04"))
	}
}
