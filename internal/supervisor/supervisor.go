package supervisor

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
)

// Announcer writes the startup notice. It runs to completion before any
// other side effect of the supervisor.
type Announcer interface {
	Announce(w io.Writer)
}

// Launcher starts the background sidecar. A returned error is treated as
// non-fatal.
type Launcher interface {
	// Launch starts the sidecar and returns without waiting for it.
	Launch(ctx context.Context) error

	// CommandString returns the sidecar command line for diagnostics.
	CommandString() string
}

// Dispatcher resolves the delegate target and performs the terminal
// hand-off.
type Dispatcher interface {
	// Resolve locates the delegate program without running it.
	Resolve() (string, error)

	// Dispatch transfers control to target with args passed through
	// unchanged. In exec mode a successful call never returns; in fallback
	// mode it returns the delegate's exit code.
	Dispatch(target string, args []string) (int, error)
}

// Callbacks contains optional hooks invoked at each step of the sequence.
// They drive metrics in supervise mode and ordering assertions in tests.
type Callbacks struct {
	// OnStateChange is called whenever the supervisor's state advances.
	OnStateChange func(oldState, newState State)

	// OnSidecarLaunched is called after the background launch attempt,
	// with nil on success (or when the sidecar is disabled).
	OnSidecarLaunched func(err error)

	// OnDelegating is called with the resolved target immediately before
	// the hand-off.
	OnDelegating func(target string, args []string)
}

// Supervisor runs the three-step entrypoint sequence.
type Supervisor struct {
	announcer  Announcer
	launcher   Launcher
	dispatcher Dispatcher
	logger     *slog.Logger
	callbacks  Callbacks

	// Invocation captured at construction; forwarded verbatim.
	args []string

	sidecarDisabled bool

	stdout io.Writer

	state   State
	stateMu sync.RWMutex
}

// Config holds configuration for creating a new Supervisor.
type Config struct {
	Announcer  Announcer
	Launcher   Launcher
	Dispatcher Dispatcher
	Logger     *slog.Logger
	Callbacks  Callbacks

	// Args is the invocation to forward to the delegate, excluding the
	// program name. May be empty.
	Args []string

	// SidecarDisabled skips the background launch step. The state machine
	// still passes through StateSidecarAttempted.
	SidecarDisabled bool

	// Stdout receives the startup notice. Defaults to os.Stdout.
	Stdout io.Writer
}

// New creates a new Supervisor with the given configuration.
func New(cfg Config) *Supervisor {
	stdout := cfg.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Supervisor{
		announcer:       cfg.Announcer,
		launcher:        cfg.Launcher,
		dispatcher:      cfg.Dispatcher,
		logger:          logger,
		callbacks:       cfg.Callbacks,
		args:            cfg.Args,
		sidecarDisabled: cfg.SidecarDisabled,
		stdout:          stdout,
		state:           StateCreated,
	}
}

// State returns the current state.
func (s *Supervisor) State() State {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.state
}

func (s *Supervisor) setState(newState State) {
	s.stateMu.Lock()
	oldState := s.state
	s.state = newState
	s.stateMu.Unlock()

	if s.callbacks.OnStateChange != nil {
		s.callbacks.OnStateChange(oldState, newState)
	}
}

// Run executes the sequence: announce, attempt the sidecar launch, dispatch
// the delegate.
//
// On unix, a successful run does not return at all: the process image is
// replaced by the delegate. A (code, nil) return only happens in fallback
// dispatch mode, where code is the delegate's exit code. A non-nil error is
// always a *DelegationError; sidecar launch failures are absorbed in-line
// as warnings.
func (s *Supervisor) Run(ctx context.Context) (int, error) {
	s.announcer.Announce(s.stdout)
	s.setState(StateAnnounced)

	var launchErr error
	if s.sidecarDisabled {
		s.logger.Info("sidecar_disabled")
	} else if err := s.launcher.Launch(ctx); err != nil {
		launchErr = &LaunchError{Err: err}
		s.logger.Warn("sidecar_launch_failed",
			"error", err,
			"cmd", s.launcher.CommandString(),
		)
	} else {
		s.logger.Info("sidecar_launched", "cmd", s.launcher.CommandString())
	}
	s.setState(StateSidecarAttempted)
	if s.callbacks.OnSidecarLaunched != nil {
		s.callbacks.OnSidecarLaunched(launchErr)
	}

	target, err := s.dispatcher.Resolve()
	if err != nil {
		s.setState(StateFailed)
		return 0, &DelegationError{Err: err}
	}

	if s.callbacks.OnDelegating != nil {
		s.callbacks.OnDelegating(target, s.args)
	}
	s.logger.Info("delegating", "target", target, "arg_count", len(s.args))

	code, err := s.dispatcher.Dispatch(target, s.args)
	if err != nil {
		s.setState(StateFailed)
		return 0, &DelegationError{Target: target, Err: err}
	}

	// Fallback mode only: the delegate ran as a child and exited.
	s.setState(StateDelegated)
	return code, nil
}
