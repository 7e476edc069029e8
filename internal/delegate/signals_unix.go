//go:build unix

package delegate

import (
	"os"
	"syscall"
)

// forwardedSignals are relayed to the delegate child in fallback mode.
// SIGCHLD and friends stay with the supervisor; everything a container
// runtime or operator sends for lifecycle control passes through.
var forwardedSignals = []os.Signal{
	syscall.SIGINT,
	syscall.SIGTERM,
	syscall.SIGHUP,
	syscall.SIGQUIT,
	syscall.SIGUSR1,
	syscall.SIGUSR2,
}
