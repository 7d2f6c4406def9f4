// typeattack is a typing-trainer arcade shooter for the terminal.
//
// Usage:
//
//	typeattack play            - Start a typing session
//	typeattack stages          - Show the stage progression table
//	typeattack scores          - Show local high scores
//	typeattack verify <file>   - Recompute and check a session hash
//	typeattack serve           - Run the leaderboard server
//
// Global flags:
//
//	--fps <rate>    - Set tick rate (default: 30)
//	--seed <value>  - Set RNG seed for reproducible sessions
//	--db <path>     - Set database path (default: ~/.typeattack/typeattack.db)
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagFPS    int
	flagSeed   int64
	flagDBPath string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "typeattack",
	Short: "TypeAttack - A typing-trainer arcade shooter in your terminal",
	Long: `TypeAttack is a terminal typing trainer disguised as an arcade shooter.
Words fly across the screen; type them before they reach the left edge.

Available commands:
  play     - Start a typing session
  stages   - Show the stage progression table
  scores   - View local high scores
  verify   - Recompute a recorded session's hash
  serve    - Run the leaderboard server (HTTP and optionally SSH)

Examples:
  typeattack play
  typeattack play --difficulty hard
  typeattack stages
  typeattack scores
  typeattack verify session.json
  typeattack serve --http :8080 --ssh :23234`,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 30, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.typeattack/typeattack.db", "Path to database")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(stagesCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(serveCmd)
}
