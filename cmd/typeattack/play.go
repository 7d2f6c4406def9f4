package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/kkurian/typeattack/internal/core"
	"github.com/kkurian/typeattack/internal/game"
	"github.com/kkurian/typeattack/internal/platform/audio"
	"github.com/kkurian/typeattack/internal/platform/tui"
	"github.com/kkurian/typeattack/internal/session"
	"github.com/kkurian/typeattack/internal/storage"
	"github.com/kkurian/typeattack/internal/submit"
)

var (
	flagConfig     string
	flagDifficulty string
	flagServer     string
	flagMute       bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start a typing session",
	Long: `Start a typing session.

Controls:
  a-z 0-9 etc  - Type the active word before it reaches the right edge
  Backspace    - Step back one typed letter (does not count as a mistype)
  Ctrl+P       - Pause
  Ctrl+R       - Restart (after game over or level complete)
  Esc          - Dismiss the score submission prompt
  Ctrl+C       - Quit

Difficulty options:
  easy   - Start at lowest word speed, progresses to max
  normal - Start at 30% word speed, progresses to max
  hard   - Start at 70% word speed, progresses to max
  fixed  - No progression, stays at config's initial level

Examples:
  typeattack play
  typeattack play --difficulty easy
  typeattack play --config ./my-attack.yaml
  typeattack play --server https://scores.example.com
  typeattack play --mute`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	playCmd.Flags().StringVar(&flagServer, "server", "", "Leaderboard server base URL (empty = no submission)")
	playCmd.Flags().BoolVar(&flagMute, "mute", false, "Disable audio cues")
}

func runPlay(cmd *cobra.Command, args []string) {
	// Get terminal size early so the field matches the window
	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	cfg := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}

	game.SetConfigPath(flagConfig)
	game.SetDifficultyPreset(flagDifficulty)
	g := game.New()

	// Open score storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open database: %v\n", err)
		// Continue without storage - the session still works
		store = nil
	}

	opts := tui.Options{
		Store:    store,
		Notifier: audio.Nop{},
	}

	if !flagMute {
		if beeper, audioErr := audio.NewBeeper(); audioErr == nil {
			opts.Notifier = beeper
		} else {
			fmt.Fprintf(os.Stderr, "Warning: audio unavailable: %v\n", audioErr)
		}
	}

	if flagServer != "" {
		id, idErr := session.LoadIdentity(identityDir())
		if idErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: no player identity, submission disabled: %v\n", idErr)
		} else {
			opts.Gate = submit.NewGate(id)
			opts.Client = submit.NewClient(flagServer)
		}
	}

	runErr := tui.Run(g, cfg, opts)

	opts.Notifier.Close()
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running session: %v\n", runErr)
		os.Exit(1)
	}
}

// identityDir is where the player token and nickname live, next to the
// default database.
func identityDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".typeattack"
	}
	return filepath.Join(home, ".typeattack")
}
