// Package worker runs active objects: each worker owns a goroutine that
// sleeps on a condition variable until it has pending input, then drains
// that input through its hooks.
package worker

import (
	"errors"
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/charmbracelet/log"
)

// ErrAlreadyLaunched is returned when Launch is called twice.
var ErrAlreadyLaunched = errors.New("worker: already launched")

// Hooks is implemented by every worker.
type Hooks interface {
	// OnStart runs on the worker goroutine before the first drain.
	// An error stops this worker.
	OnStart() error
	// OnStop runs on the worker goroutine after the last drain.
	OnStop()
	// ShouldProcess reports whether any input is pending.
	ShouldProcess() bool
	// ProcessOnce handles everything that is pending.
	ProcessOnce()
}

// State is the lifecycle state of a Loop.
type State int32

// Loop states.
const (
	Idle State = iota
	Running
	Stopped
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Stopped:
		return "stopped"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Observer receives loop statistics. All methods may be called from the
// worker goroutine.
type Observer interface {
	Wake(name string)
	Drain(name string)
	Panic(name string)
}

// Loop drives one worker.
type Loop struct {
	name     string
	hooks    Hooks
	logger   *log.Logger
	observer Observer

	mu      sync.Mutex
	cond    *sync.Cond
	state   State
	running bool
	err     error
	done    chan struct{}
}

// Option configures a Loop.
type Option func(*Loop)

// WithLogger sets the logger. The loop logs through a sub-logger prefixed
// with its name.
func WithLogger(l *log.Logger) Option {
	return func(lp *Loop) {
		if l != nil {
			lp.logger = l
		}
	}
}

// WithObserver attaches loop statistics.
func WithObserver(o Observer) Option {
	return func(lp *Loop) { lp.observer = o }
}

// New creates an idle loop for hooks.
func New(name string, hooks Hooks, opts ...Option) *Loop {
	lp := &Loop{
		name:   name,
		hooks:  hooks,
		logger: log.Default(),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(lp)
	}
	lp.logger = lp.logger.WithPrefix(name)
	lp.cond = sync.NewCond(&lp.mu)
	return lp
}

// Name returns the worker name.
func (lp *Loop) Name() string { return lp.name }

// Logger returns the worker's prefixed logger.
func (lp *Loop) Logger() *log.Logger { return lp.logger }

// Launch starts the worker goroutine.
func (lp *Loop) Launch() error {
	lp.mu.Lock()
	defer lp.mu.Unlock()

	if lp.state != Idle {
		return ErrAlreadyLaunched
	}
	lp.state = Running
	lp.running = true
	go lp.run()
	return nil
}

// Interrupt wakes the worker so it re-checks ShouldProcess. Producers call
// it after filling a mailbox.
func (lp *Loop) Interrupt() {
	lp.mu.Lock()
	lp.cond.Broadcast()
	lp.mu.Unlock()
}

// Stop asks the worker to finish and waits for it. Stop on an idle loop
// marks it stopped without starting it. It is safe to call more than once.
func (lp *Loop) Stop() {
	lp.mu.Lock()
	if lp.state == Idle {
		lp.state = Stopped
		close(lp.done)
		lp.mu.Unlock()
		return
	}
	lp.running = false
	lp.cond.Broadcast()
	lp.mu.Unlock()

	<-lp.done
}

// State returns the lifecycle state.
func (lp *Loop) State() State {
	lp.mu.Lock()
	defer lp.mu.Unlock()
	return lp.state
}

// Err returns the OnStart error that stopped the worker, if any.
func (lp *Loop) Err() error {
	lp.mu.Lock()
	defer lp.mu.Unlock()
	return lp.err
}

// Done is closed once the worker goroutine has returned.
func (lp *Loop) Done() <-chan struct{} {
	return lp.done
}

func (lp *Loop) run() {
	defer close(lp.done)
	defer func() {
		lp.mu.Lock()
		lp.state = Stopped
		lp.running = false
		lp.mu.Unlock()
	}()

	if err := lp.start(); err != nil {
		lp.logger.Error("start failed", "err", err)
		lp.mu.Lock()
		lp.err = fmt.Errorf("worker %s: start: %w", lp.name, err)
		lp.mu.Unlock()
		return
	}
	lp.logger.Debug("started")

	for lp.wait() {
		for lp.isRunning() && lp.hooks.ShouldProcess() {
			lp.process()
		}
	}

	lp.stop()
	lp.logger.Debug("stopped")
}

// wait blocks until there is input or the loop is told to stop.
// It reports whether the loop is still running.
func (lp *Loop) wait() bool {
	lp.mu.Lock()
	defer lp.mu.Unlock()

	for lp.running && !lp.hooks.ShouldProcess() {
		lp.cond.Wait()
	}
	if lp.running && lp.observer != nil {
		lp.observer.Wake(lp.name)
	}
	return lp.running
}

func (lp *Loop) isRunning() bool {
	lp.mu.Lock()
	defer lp.mu.Unlock()
	return lp.running
}

func (lp *Loop) process() {
	defer func() {
		if r := recover(); r != nil {
			lp.logger.Error("panic in process", "panic", r, "stack", string(debug.Stack()))
			if lp.observer != nil {
				lp.observer.Panic(lp.name)
			}
		}
	}()
	lp.hooks.ProcessOnce()
	if lp.observer != nil {
		lp.observer.Drain(lp.name)
	}
}

func (lp *Loop) start() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return lp.hooks.OnStart()
}

func (lp *Loop) stop() {
	defer func() {
		if r := recover(); r != nil {
			lp.logger.Error("panic in stop", "panic", r)
		}
	}()
	lp.hooks.OnStop()
}
