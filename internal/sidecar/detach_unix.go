//go:build unix

package sidecar

import "syscall"

// detachAttr puts the sidecar in its own session so that signals delivered
// to the entrypoint's process group (the usual container shutdown path) do
// not reach it directly.
func detachAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setsid: true}
}
