package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kkurian/typeattack/internal/game"
)

var stagesCmd = &cobra.Command{
	Use:   "stages",
	Short: "Show the stage progression table",
	Long:  `Lists every stage, its word tier, and how many completions advance past it.`,
	Args:  cobra.NoArgs,
	Run:   runStages,
}

func runStages(cmd *cobra.Command, args []string) {
	stages := game.Stages()

	fmt.Println("Stage progression:")
	fmt.Println()

	// Calculate column widths
	maxDescLen := len("Description")
	for _, s := range stages {
		if len(s.Description) > maxDescLen {
			maxDescLen = len(s.Description)
		}
	}

	// Print header
	fmt.Printf("  %-5s  %-*s  %-9s  %s\n", "Stage", maxDescLen, "Description", "Tier", "To advance")
	fmt.Printf("  %-5s  %-*s  %-9s  %s\n", "-----", maxDescLen, "-----------", "----", "----------")

	for _, s := range stages {
		advance := fmt.Sprintf("%d words", s.WordsToAdvance)
		if s.Index == len(stages)-1 {
			advance = "final"
		}
		fmt.Printf("  %-5d  %-*s  %-9s  %s\n", s.Index+1, maxDescLen, s.Description, s.Tier, advance)
	}

	fmt.Println()
	fmt.Println("Run 'typeattack play' to start at stage 1.")
}
