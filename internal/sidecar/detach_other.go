//go:build !unix

package sidecar

import "syscall"

func detachAttr() *syscall.SysProcAttr {
	return nil
}
