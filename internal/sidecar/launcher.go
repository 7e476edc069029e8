// Package sidecar launches the auxiliary background service.
//
// The launch is fire-and-forget: the child is started in its own session
// with its combined output captured to a log file, and the supervisor keeps
// no handle to it. Whether the sidecar stays healthy afterwards is not this
// program's concern.
package sidecar

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/gofrs/flock"
)

// ErrAlreadyLaunched is returned when another entrypoint invocation holds
// the launch lock, meaning the sidecar was (or is being) started elsewhere.
var ErrAlreadyLaunched = errors.New("sidecar launch lock held by another process")

// Launcher starts the sidecar binary with its configuration path, capturing
// stdout and stderr to the log file. The config file is passed through as an
// opaque path: it is never opened or validated here.
type Launcher struct {
	BinaryPath string // Sidecar binary, resolved via PATH if relative
	ConfigPath string // Passed as --config
	LogPath    string // Truncated and (re)created on every launch
	LockPath   string // Advisory lock preventing a double launch
	Logger     *slog.Logger
}

// Launch starts the sidecar and returns as soon as the child is running.
// It never waits for the child to exit; a background goroutine reaps it so
// that, in supervise (no-exec) mode, the shim never accumulates a zombie.
//
// Every returned error is non-fatal by contract: callers report it and
// continue with the delegate dispatch.
func (l *Launcher) Launch(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	lock := flock.New(l.LockPath)
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire launch lock %s: %w", l.LockPath, err)
	}
	if !locked {
		return ErrAlreadyLaunched
	}
	// The lock only guards the launch step against a concurrent second
	// entrypoint; it is not held for the sidecar's lifetime.
	defer lock.Unlock()

	logFile, err := os.OpenFile(l.LogPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("open sidecar log %s: %w", l.LogPath, err)
	}

	cmd := exec.Command(l.BinaryPath, "--config", l.ConfigPath)
	cmd.Stdout = logFile
	cmd.Stderr = logFile
	cmd.Stdin = nil
	cmd.SysProcAttr = detachAttr()

	if err := cmd.Start(); err != nil {
		logFile.Close()
		return fmt.Errorf("start sidecar %s: %w", l.BinaryPath, err)
	}

	// The child holds its own copy of the log descriptor now.
	logFile.Close()

	l.Logger.Debug("sidecar_started", "pid", cmd.Process.Pid, "log", l.LogPath)

	go func() {
		// Reap only. The exit status is deliberately discarded.
		_ = cmd.Wait()
	}()

	return nil
}

// CommandString returns the sidecar command line for diagnostics.
func (l *Launcher) CommandString() string {
	return strings.Join([]string{l.BinaryPath, "--config", l.ConfigPath}, " ")
}
