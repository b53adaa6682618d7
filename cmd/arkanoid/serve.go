package main

import (
	"context"
	"errors"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/arkanoid/internal/metrics"
	"github.com/vovakirdan/arkanoid/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagMetricsAddr string
	flagIdleTimeout time.Duration
	flagMaxSessions int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the arkanoid SSH server",
	Long: `Start an SSH server that lets users connect and play.

Each SSH connection gets its own session with a menu and its own game
workers. Scores and saves are kept per SSH user name in the shared
database. New connections are rate limited and capped by max_sessions.

With --metrics, an HTTP endpoint serves /metrics, /healthz and
/api/scores.

Examples:
  arkanoid serve
  arkanoid serve --ssh :2222
  arkanoid serve --host-key ./host_key --metrics :9090

Users can connect with:
  ssh localhost -p 2323`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH address host:port (empty = from config)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (created if missing)")
	serveCmd.Flags().StringVar(&flagMetricsAddr, "metrics", "", "Metrics HTTP address (empty = from config)")
	serveCmd.Flags().DurationVar(&flagIdleTimeout, "idle-timeout", 0, "Idle timeout before disconnecting")
	serveCmd.Flags().IntVar(&flagMaxSessions, "max-sessions", -1, "Concurrent session cap (0 = unlimited)")
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if flagSSHAddr != "" {
		host, port, err := net.SplitHostPort(flagSSHAddr)
		if err != nil {
			return err
		}
		if cfg.Server.Port, err = strconv.Atoi(port); err != nil {
			return err
		}
		cfg.Server.Host = host
	}
	if flagHostKey != "" {
		cfg.Server.HostKeyPath = flagHostKey
	}
	if flagMetricsAddr != "" {
		cfg.Server.MetricsAddr = flagMetricsAddr
	}
	if flagIdleTimeout > 0 {
		cfg.Server.IdleTimeout = flagIdleTimeout
	}
	if flagMaxSessions >= 0 {
		cfg.Server.MaxSessions = flagMaxSessions
	}

	logger := newLogger(cfg, os.Stderr)
	levels, err := loadLevels(cfg)
	if err != nil {
		return err
	}
	store, err := openStore(cfg)
	if err != nil {
		logger.Warn("could not open database, scores are off", "err", err)
		store = nil
	} else {
		defer store.Close()
	}
	m := metrics.New()

	opts := tui.SSHServerOptions{
		Config:  cfg,
		Levels:  levels,
		Metrics: m,
		Logger:  logger,
	}
	if store != nil {
		opts.Store = store
	}
	server, err := tui.NewSSHServer(opts)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Server.MetricsAddr != "" {
		rc := metrics.RouterConfig{Metrics: m, Logger: logger}
		if store != nil {
			rc.Scores = store
		}
		go func() {
			if err := metrics.Serve(ctx, cfg.Server.MetricsAddr, metrics.NewRouter(rc), logger); err != nil {
				logger.Error("metrics server", "err", err)
			}
		}()
	}

	logger.Info("connect with", "cmd", "ssh "+cfg.Server.Host+" -p "+strconv.Itoa(cfg.Server.Port))
	if err := server.ListenAndServe(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
