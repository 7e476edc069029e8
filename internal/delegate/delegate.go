// Package delegate resolves the delegate entrypoint and transfers control
// to it.
//
// On unix the transfer is a true process-image replacement: the delegate
// inherits the supervisor's PID, file descriptors, and session, so signal
// delivery and exit-code propagation behave as if the delegate had been the
// container's entrypoint all along. Where exec is unavailable (or disabled
// with no-exec mode), the dispatcher falls back to spawning the delegate as
// a child, forwarding termination signals to it, and returning its exit
// code.
package delegate

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Dispatcher performs the terminal hand-off to the delegate entrypoint.
type Dispatcher struct {
	Dir    string   // Directory holding the delegate program
	Name   string   // Program name inside Dir
	NoExec bool     // Force the spawn/forward fallback even where exec works
	Env    []string // Delegate environment; nil means inherit os.Environ()
	Logger *slog.Logger
}

// Resolve locates the delegate program and verifies it can be executed.
// It does not run anything.
func (d *Dispatcher) Resolve() (string, error) {
	return Resolve(d.Dir, d.Name)
}

// Resolve joins dir and name and verifies the result is an executable
// regular file.
func Resolve(dir, name string) (string, error) {
	if dir == "" {
		return "", fmt.Errorf("delegate directory is empty")
	}

	target := filepath.Join(dir, name)

	fi, err := os.Stat(target)
	if err != nil {
		return "", fmt.Errorf("delegate %s: %w", target, err)
	}
	if fi.IsDir() {
		return "", fmt.Errorf("delegate %s: is a directory", target)
	}
	if err := checkExecutable(target); err != nil {
		return "", fmt.Errorf("delegate %s: %w", target, err)
	}

	return target, nil
}

// Dispatch hands control to the delegate at target, passing args through
// unchanged as its arguments.
//
// In exec mode a successful call never returns: the calling program ceases
// to exist. The (int, error) return therefore only materializes on exec
// failure, or in fallback mode, where the int is the delegate's exit code.
func (d *Dispatcher) Dispatch(target string, args []string) (int, error) {
	if !d.NoExec && execSupported {
		argv := make([]string, 0, 1+len(args))
		argv = append(argv, target)
		argv = append(argv, args...)

		// No code runs after a successful execImage.
		err := execImage(target, argv, d.environ())
		return 0, fmt.Errorf("exec %s: %w", target, err)
	}

	return d.spawnAndForward(target, args)
}

func (d *Dispatcher) environ() []string {
	if d.Env != nil {
		return d.Env
	}
	return os.Environ()
}
