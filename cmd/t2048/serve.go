package main

import (
	"fmt"
	"net"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the 2048 SSH server",
	Long: `Start an SSH server that allows users to connect and play 2048.

Each SSH connection plays its own game. The save slot is per user and
all users share one leaderboard.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.t2048/host_key

Examples:
  t2048 serve                           # Listen on :23234 with auto-generated key
  t2048 serve --ssh :2222               # Listen on port 2222
  t2048 serve --host-key ./my_host_key  # Use specific host key
  t2048 serve --driver redis            # Share scores through Redis

Users can connect with:
  ssh localhost -p 23234`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 0, "Idle timeout in minutes before disconnecting")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if flagSSHAddr != "" {
		cfg.SSH.Address = flagSSHAddr
	}
	if flagHostKey != "" {
		cfg.SSH.HostKeyPath = flagHostKey
	}
	if flagIdleTimeout > 0 {
		cfg.SSH.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute
	}

	logger, err := newLogger("t2048-ssh")
	if err != nil {
		return err
	}

	store, err := openStore(cmd.Context(), cfg, logger, false)
	if err != nil {
		return err
	}
	defer closeStore(store, logger)

	server, err := tui.NewSSHServer(cfg, store, logger)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	if _, port, err := net.SplitHostPort(server.Addr()); err == nil {
		logger.Info("connect with ssh", "command", "ssh localhost -p "+port)
	}
	return server.ListenAndServe(cmd.Context())
}
