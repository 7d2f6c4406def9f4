package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kkurian/typeattack/internal/storage"
)

var flagLeaderboard bool

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show local high scores",
	Long: `Display the top 10 runs recorded on this machine.

With --leaderboard, shows the shared leaderboard table instead. That table
is only populated on a machine running 'typeattack serve'.

Examples:
  typeattack scores
  typeattack scores --leaderboard`,
	Args: cobra.NoArgs,
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagLeaderboard, "leaderboard", false, "Show the shared leaderboard instead of local runs")
}

func runScores(cmd *cobra.Command, args []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagLeaderboard {
		printLeaderboard(store)
		return
	}
	printRuns(store)
}

func printRuns(store *storage.Store) {
	runs, err := store.TopRuns(10)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving scores: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("High Scores - TypeAttack")
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Println("Play 'typeattack play' to set the first high score!")
		return
	}

	// Print header
	fmt.Printf("  %-4s  %-8s  %-5s  %-6s  %-8s  %s\n", "Rank", "Score", "Stage", "WPM", "Accuracy", "Date")
	fmt.Printf("  %-4s  %-8s  %-5s  %-6s  %-8s  %s\n", "----", "-----", "-----", "---", "--------", "----")

	for i, run := range runs {
		dateStr := run.CreatedAt.Format("2006-01-02 15:04")
		fmt.Printf("  %-4d  %-8d  %-5d  %-6.1f  %-7.1f%%  %s\n",
			i+1, run.Score, run.Stage, run.WPM, run.Accuracy*100, dateStr)
	}

	fmt.Println()
	if best, err := store.HighScore(); err == nil {
		fmt.Printf("Best: %d\n", best)
	}
}

func printLeaderboard(store *storage.Store) {
	entries, err := store.TopLeaderboard(20)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving leaderboard: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Leaderboard - TypeAttack")
	fmt.Println()

	if len(entries) == 0 {
		fmt.Println("No submissions yet.")
		return
	}

	// Print header
	fmt.Printf("  %-4s  %-8s  %-6s  %-5s  %-8s  %s\n", "Rank", "Initials", "WPM", "Stage", "Accuracy", "Date")
	fmt.Printf("  %-4s  %-8s  %-6s  %-5s  %-8s  %s\n", "----", "--------", "---", "-----", "--------", "----")

	for i, e := range entries {
		dateStr := e.CreatedAt.Format("2006-01-02 15:04")
		fmt.Printf("  %-4d  %-8s  %-6.1f  %-5d  %-7.1f%%  %s\n",
			i+1, e.Initials, e.WPM, e.Stage, e.Accuracy, dateStr)
	}
}
