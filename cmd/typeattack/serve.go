package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/kkurian/typeattack/internal/leaderboard"
	"github.com/kkurian/typeattack/internal/platform/tui"
	"github.com/kkurian/typeattack/internal/storage"
)

var (
	flagHTTPAddr    string
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
	flagRateLimit   int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the leaderboard server",
	Long: `Run the leaderboard server.

The HTTP server accepts score submissions on POST /api/scores, lists the
top entries on GET /api/scores, and pushes accepted entries to websocket
clients on /ws. Every submission is re-hashed server-side; tampered or
duplicate sessions are rejected.

With --ssh, also runs an SSH server so users can play remotely. Remote
runs score into this server's local run table.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.typeattack/host_key

Examples:
  typeattack serve                         # HTTP on :8080
  typeattack serve --http :9000
  typeattack serve --ssh :23234            # HTTP plus SSH play
  typeattack serve --db ./scores.db

Users can connect with:
  ssh localhost -p 23234`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagHTTPAddr, "http", ":8080", "Leaderboard HTTP address (host:port)")
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH server address (empty = disabled)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "SSH idle timeout in minutes")
	serveCmd.Flags().IntVar(&flagRateLimit, "rate-limit", 10, "Max accepted submissions per user per hour")
}

func runServe(_ *cobra.Command, _ []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	cfg := leaderboard.DefaultConfig()
	if flagRateLimit > 0 {
		cfg.RateLimit = flagRateLimit
	}
	srv := leaderboard.NewServer(store, cfg)

	if flagSSHAddr != "" {
		sshCfg := tui.SSHServerConfig{
			Address:     flagSSHAddr,
			HostKeyPath: flagHostKey,
			DBPath:      flagDBPath,
			IdleTimeout: time.Duration(flagIdleTimeout) * time.Minute,
		}
		sshServer, sshErr := tui.NewSSHServer(sshCfg)
		if sshErr != nil {
			fmt.Fprintf(os.Stderr, "Error creating SSH server: %v\n", sshErr)
			os.Exit(1)
		}
		// The SSH server owns the interrupt handling; when it shuts down,
		// take the HTTP listener with it.
		go func() {
			if serveErr := sshServer.ListenAndServe(); serveErr != nil {
				fmt.Fprintf(os.Stderr, "SSH server error: %v\n", serveErr)
				os.Exit(1)
			}
			os.Exit(0)
		}()
		fmt.Printf("SSH server on %s (connect with: ssh localhost -p %s)\n",
			flagSSHAddr, portOf(flagSSHAddr))
	}

	fmt.Printf("Leaderboard server on %s\n", flagHTTPAddr)
	fmt.Println("Press Ctrl+C to stop")

	if err := http.ListenAndServe(flagHTTPAddr, srv.Handler()); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}

func portOf(addr string) string {
	for i := len(addr) - 1; i >= 0; i-- {
		if addr[i] == ':' {
			return addr[i+1:]
		}
	}
	return addr
}
