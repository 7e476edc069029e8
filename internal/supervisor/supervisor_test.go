package supervisor

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"reflect"
	"testing"
)

// =============================================================================
// Mocks
// =============================================================================

// recorder collects the order of observable events across all mocks.
type recorder struct {
	events []string
}

func (r *recorder) record(event string) {
	r.events = append(r.events, event)
}

type mockAnnouncer struct {
	rec    *recorder
	output string
}

func (m *mockAnnouncer) Announce(w io.Writer) {
	m.rec.record("announce")
	io.WriteString(w, m.output)
}

type mockLauncher struct {
	rec *recorder
	err error
}

func (m *mockLauncher) Launch(ctx context.Context) error {
	m.rec.record("launch")
	return m.err
}

func (m *mockLauncher) CommandString() string { return "mock-sidecar --config /dev/null" }

type mockDispatcher struct {
	rec        *recorder
	target     string
	resolveErr error

	dispatchCode int
	dispatchErr  error
	gotArgs      []string
}

func (m *mockDispatcher) Resolve() (string, error) {
	m.rec.record("resolve")
	if m.resolveErr != nil {
		return "", m.resolveErr
	}
	return m.target, nil
}

func (m *mockDispatcher) Dispatch(target string, args []string) (int, error) {
	m.rec.record("dispatch")
	m.gotArgs = args
	return m.dispatchCode, m.dispatchErr
}

// newTestSupervisor wires a supervisor around the mocks with a quiet logger.
func newTestSupervisor(rec *recorder, cfg Config) *Supervisor {
	if cfg.Announcer == nil {
		cfg.Announcer = &mockAnnouncer{rec: rec, output: "notice\n"}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.Stdout == nil {
		cfg.Stdout = &bytes.Buffer{}
	}
	return New(cfg)
}

// =============================================================================
// Ordering
// =============================================================================

func TestRun_StrictOrdering(t *testing.T) {
	rec := &recorder{}
	sup := newTestSupervisor(rec, Config{
		Launcher:   &mockLauncher{rec: rec},
		Dispatcher: &mockDispatcher{rec: rec, target: "/opt/app/run.sh"},
	})

	if _, err := sup.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want := []string{"announce", "launch", "resolve", "dispatch"}
	if !reflect.DeepEqual(rec.events, want) {
		t.Errorf("event order = %v, want %v", rec.events, want)
	}
}

func TestRun_AnnounceWritesToStdoutFirst(t *testing.T) {
	rec := &recorder{}
	var stdout bytes.Buffer
	launcher := &mockLauncher{rec: rec}

	sup := newTestSupervisor(rec, Config{
		Announcer:  &mockAnnouncer{rec: rec, output: "startup notice\n"},
		Launcher:   launcher,
		Dispatcher: &mockDispatcher{rec: rec, target: "/opt/app/run.sh"},
		Stdout:     &stdout,
	})

	if _, err := sup.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if stdout.String() != "startup notice\n" {
		t.Errorf("stdout = %q, want the notice", stdout.String())
	}
	if rec.events[0] != "announce" {
		t.Errorf("first event = %q, want announce", rec.events[0])
	}
}

// =============================================================================
// Argument pass-through
// =============================================================================

func TestRun_ArgsForwardedVerbatim(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"typical", []string{"--serve", "--port=9090"}},
		{"empty", nil},
		{"order preserved", []string{"b", "a", "c", "a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			disp := &mockDispatcher{rec: rec, target: "/opt/app/run.sh"}
			sup := newTestSupervisor(rec, Config{
				Launcher:   &mockLauncher{rec: rec},
				Dispatcher: disp,
				Args:       tt.args,
			})

			if _, err := sup.Run(context.Background()); err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if !reflect.DeepEqual(disp.gotArgs, tt.args) {
				t.Errorf("dispatched args = %v, want %v", disp.gotArgs, tt.args)
			}
		})
	}
}

// =============================================================================
// Non-fatal launch isolation
// =============================================================================

func TestRun_LaunchFailureDoesNotStopDispatch(t *testing.T) {
	rec := &recorder{}
	var launchErrSeen error
	disp := &mockDispatcher{rec: rec, target: "/opt/app/run.sh"}

	sup := newTestSupervisor(rec, Config{
		Launcher:   &mockLauncher{rec: rec, err: errors.New("binary not found")},
		Dispatcher: disp,
		Callbacks: Callbacks{
			OnSidecarLaunched: func(err error) { launchErrSeen = err },
		},
	})

	code, err := sup.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v, launch failure must be non-fatal", err)
	}
	if code != 0 {
		t.Errorf("Run() code = %d, want 0", code)
	}

	var launchErr *LaunchError
	if !errors.As(launchErrSeen, &launchErr) {
		t.Errorf("OnSidecarLaunched got %v, want *LaunchError", launchErrSeen)
	}
	if rec.events[len(rec.events)-1] != "dispatch" {
		t.Errorf("dispatch not attempted after launch failure: %v", rec.events)
	}
}

func TestRun_SidecarDisabledSkipsLaunch(t *testing.T) {
	rec := &recorder{}
	var launchErrSeen = errors.New("sentinel")

	sup := newTestSupervisor(rec, Config{
		Launcher:        &mockLauncher{rec: rec},
		Dispatcher:      &mockDispatcher{rec: rec, target: "/opt/app/run.sh"},
		SidecarDisabled: true,
		Callbacks: Callbacks{
			OnSidecarLaunched: func(err error) { launchErrSeen = err },
		},
	})

	if _, err := sup.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want := []string{"announce", "resolve", "dispatch"}
	if !reflect.DeepEqual(rec.events, want) {
		t.Errorf("event order = %v, want %v (no launch)", rec.events, want)
	}
	if launchErrSeen != nil {
		t.Errorf("OnSidecarLaunched got %v, want nil when disabled", launchErrSeen)
	}
}

// =============================================================================
// Fatal delegation failures
// =============================================================================

func TestRun_ResolveFailureIsFatal(t *testing.T) {
	rec := &recorder{}
	sup := newTestSupervisor(rec, Config{
		Launcher:   &mockLauncher{rec: rec},
		Dispatcher: &mockDispatcher{rec: rec, resolveErr: errors.New("no such file")},
	})

	_, err := sup.Run(context.Background())

	var delegationErr *DelegationError
	if !errors.As(err, &delegationErr) {
		t.Fatalf("Run() error = %v, want *DelegationError", err)
	}
	if sup.State() != StateFailed {
		t.Errorf("State() = %v, want failed", sup.State())
	}
	for _, e := range rec.events {
		if e == "dispatch" {
			t.Error("dispatch attempted after failed resolution")
		}
	}
}

func TestRun_DispatchFailureIsFatal(t *testing.T) {
	rec := &recorder{}
	sup := newTestSupervisor(rec, Config{
		Launcher: &mockLauncher{rec: rec},
		Dispatcher: &mockDispatcher{
			rec:         rec,
			target:      "/opt/app/run.sh",
			dispatchErr: errors.New("permission denied"),
		},
	})

	_, err := sup.Run(context.Background())

	var delegationErr *DelegationError
	if !errors.As(err, &delegationErr) {
		t.Fatalf("Run() error = %v, want *DelegationError", err)
	}
	if delegationErr.Target != "/opt/app/run.sh" {
		t.Errorf("DelegationError.Target = %q", delegationErr.Target)
	}
	if sup.State() != StateFailed {
		t.Errorf("State() = %v, want failed", sup.State())
	}
}

// =============================================================================
// Exit code propagation (fallback dispatch mode)
// =============================================================================

func TestRun_PropagatesDelegateExitCode(t *testing.T) {
	rec := &recorder{}
	sup := newTestSupervisor(rec, Config{
		Launcher:   &mockLauncher{rec: rec},
		Dispatcher: &mockDispatcher{rec: rec, target: "/opt/app/run.sh", dispatchCode: 7},
	})

	code, err := sup.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if code != 7 {
		t.Errorf("Run() code = %d, want 7", code)
	}
	if sup.State() != StateDelegated {
		t.Errorf("State() = %v, want delegated", sup.State())
	}
}

// =============================================================================
// State machine + callbacks
// =============================================================================

func TestRun_StateTransitions(t *testing.T) {
	rec := &recorder{}
	var transitions []State

	sup := newTestSupervisor(rec, Config{
		Launcher:   &mockLauncher{rec: rec},
		Dispatcher: &mockDispatcher{rec: rec, target: "/opt/app/run.sh"},
		Callbacks: Callbacks{
			OnStateChange: func(_, newState State) {
				transitions = append(transitions, newState)
			},
		},
	})

	if _, err := sup.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want := []State{StateAnnounced, StateSidecarAttempted, StateDelegated}
	if !reflect.DeepEqual(transitions, want) {
		t.Errorf("transitions = %v, want %v", transitions, want)
	}
}

func TestRun_OnDelegatingReceivesTargetAndArgs(t *testing.T) {
	rec := &recorder{}
	var gotTarget string
	var gotArgs []string
	args := []string{"--serve", "--port=9090"}

	sup := newTestSupervisor(rec, Config{
		Launcher:   &mockLauncher{rec: rec},
		Dispatcher: &mockDispatcher{rec: rec, target: "/opt/app/run.sh"},
		Args:       args,
		Callbacks: Callbacks{
			OnDelegating: func(target string, args []string) {
				gotTarget = target
				gotArgs = args
			},
		},
	})

	if _, err := sup.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if gotTarget != "/opt/app/run.sh" {
		t.Errorf("OnDelegating target = %q", gotTarget)
	}
	if !reflect.DeepEqual(gotArgs, args) {
		t.Errorf("OnDelegating args = %v, want %v", gotArgs, args)
	}
}
