package tui

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"
	"golang.org/x/time/rate"

	"github.com/vovakirdan/arkanoid/internal/config"
	"github.com/vovakirdan/arkanoid/internal/level"
	"github.com/vovakirdan/arkanoid/internal/metrics"
	"github.com/vovakirdan/arkanoid/internal/sound"
	"github.com/vovakirdan/arkanoid/internal/storage"
)

// SSHServerOptions holds the dependencies of the SSH server.
type SSHServerOptions struct {
	Config  config.Config
	Levels  []level.Info
	Store   *storage.Store   // Optional
	Metrics *metrics.Metrics // Optional
	Logger  *log.Logger
}

// SSHServer wraps a Wish SSH server that runs one game per session.
type SSHServer struct {
	opts   SSHServerOptions
	addr   string
	server *ssh.Server
	gate   *gate
	logger *log.Logger
}

// gate admits new sessions under a connection rate and a session cap.
type gate struct {
	limiter *rate.Limiter
	max     int64
	active  atomic.Int64
}

func newGate(perSec float64, burst, maxSessions int) *gate {
	lim := rate.NewLimiter(rate.Inf, 0)
	if perSec > 0 {
		lim = rate.NewLimiter(rate.Limit(perSec), max(burst, 1))
	}
	return &gate{limiter: lim, max: int64(maxSessions)}
}

// enter reserves a session slot. On refusal it returns the reason.
func (g *gate) enter() (string, bool) {
	if !g.limiter.Allow() {
		return metrics.ReasonRateLimit, false
	}
	if n := g.active.Add(1); g.max > 0 && n > g.max {
		g.active.Add(-1)
		return metrics.ReasonFull, false
	}
	return "", true
}

func (g *gate) leave() { g.active.Add(-1) }

// NewSSHServer creates a new SSH server from the server config.
func NewSSHServer(opts SSHServerOptions) (*SSHServer, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	sc := opts.Config.Server

	srv := &SSHServer{
		opts:   opts,
		addr:   net.JoinHostPort(sc.Host, strconv.Itoa(sc.Port)),
		gate:   newGate(sc.RatePerSec, sc.RateBurst, sc.MaxSessions),
		logger: logger.WithPrefix("ssh"),
	}

	hostKeyPath := sc.HostKeyPath
	if hostKeyPath == "" {
		hostKeyPath = filepath.Join(config.DataDir(), "host_key")
	}
	if err := os.MkdirAll(filepath.Dir(hostKeyPath), 0o700); err != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", err)
	}

	server, err := wish.NewServer(
		wish.WithAddress(srv.addr),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(sc.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.admitMiddleware,
			srv.loggingMiddleware,
		),
	)
	if err != nil {
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}
	srv.server = server
	return srv, nil
}

// teaHandler creates a session model for each SSH session. Games
// started from its menu stop when the connection ends.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		wish.Fatalln(sshSession, "arkanoid needs an interactive terminal")
		return nil, nil
	}

	cfg := s.opts.Config
	model, err := NewSessionModel(SessionOptions{
		Game: GameOptions{
			Config:  cfg,
			Levels:  s.opts.Levels,
			Store:   s.opts.Store,
			Metrics: s.opts.Metrics,
			Player:  sshSession.User(),
			Logger:  s.logger.With("user", sshSession.User()),
			Outputs: sound.NewSilentOutputs(cfg.Sound.Channels),
		},
		FPS: cfg.Screen.FPS,
	}, pty.Window.Width, pty.Window.Height)
	if err != nil {
		s.logger.Error("could not create session", "err", err)
		wish.Fatalln(sshSession, "could not start the game")
		return nil, nil
	}
	go func() {
		<-sshSession.Context().Done()
		model.Close()
	}()

	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	}
}

// admitMiddleware refuses sessions over the rate or session limit.
func (s *SSHServer) admitMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		reason, ok := s.gate.enter()
		if !ok {
			s.logger.Warn("session refused", "reason", reason, "remote", sshSession.RemoteAddr().String())
			if s.opts.Metrics != nil {
				s.opts.Metrics.ConnectionRejected(reason)
			}
			wish.Fatalln(sshSession, "server busy, try again later")
			return
		}
		defer s.gate.leave()

		if s.opts.Metrics != nil {
			s.opts.Metrics.SessionStarted()
			defer s.opts.Metrics.SessionEnded()
		}
		next(sshSession)
	}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		start := time.Now()
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
			"dur", time.Since(start).Round(time.Second),
		)
	}
}

// ListenAndServe runs the server until ctx is cancelled.
func (s *SSHServer) ListenAndServe(ctx context.Context) error {
	s.logger.Info("starting SSH server", "address", s.addr)

	errc := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.addr
}
