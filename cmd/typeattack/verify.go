package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kkurian/typeattack/internal/session"
)

var verifyCmd = &cobra.Command{
	Use:   "verify <session.json> [claimed-hash]",
	Short: "Recompute and check a session hash",
	Long: `Recompute the canonical hash of a recorded session file.

The hash covers the seed, the stage reached, the word texts in sorted
order, and every keystroke with its millisecond offset. Two runs of the
same session always produce the same hash; any edit to the essentials
changes it.

With a claimed hash as the second argument, exits non-zero on mismatch.

Examples:
  typeattack verify session.json
  typeattack verify session.json 114c4e5d523e4d27...`,
	Args: cobra.RangeArgs(1, 2),
	Run:  runVerify,
}

func runVerify(cmd *cobra.Command, args []string) {
	data, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading session file: %v\n", err)
		os.Exit(1)
	}

	var snap session.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing session file: %v\n", err)
		os.Exit(1)
	}

	hash, err := session.Hash(&snap)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error hashing session: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(hash)

	if len(args) == 2 {
		claimed := strings.ToLower(strings.TrimSpace(args[1]))
		if hash != claimed {
			fmt.Fprintln(os.Stderr, "MISMATCH: claimed hash does not match session data")
			os.Exit(1)
		}
		fmt.Println("OK")
	}
}
