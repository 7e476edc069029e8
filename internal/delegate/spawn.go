package delegate

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
)

// spawnAndForward runs the delegate as a child process with inherited
// stdio, forwards termination signals to it, and returns its exit code.
// This preserves the observable exec contract (signal transparency,
// exit-code propagation) without literal image replacement.
func (d *Dispatcher) spawnAndForward(target string, args []string) (int, error) {
	cmd := exec.Command(target, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = d.environ()

	sigCh := make(chan os.Signal, 8)
	signal.Notify(sigCh, forwardedSignals...)
	defer signal.Stop(sigCh)

	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("start delegate %s: %w", target, err)
	}

	if d.Logger != nil {
		d.Logger.Debug("delegate_spawned", "target", target, "pid", cmd.Process.Pid)
	}

	done := make(chan struct{})
	go func() {
		for {
			select {
			case sig := <-sigCh:
				_ = cmd.Process.Signal(sig)
			case <-done:
				return
			}
		}
	}()

	err := cmd.Wait()
	close(done)

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitCode(exitErr), nil
		}
		return 0, fmt.Errorf("wait for delegate %s: %w", target, err)
	}

	return 0, nil
}

// exitCode maps a child exit to the shell convention: the child's own code,
// or 128+signal when it died to an unhandled signal.
func exitCode(exitErr *exec.ExitError) int {
	if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return 128 + int(ws.Signal())
	}
	return exitErr.ExitCode()
}
