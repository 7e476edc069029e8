//go:build unix

package delegate

import "golang.org/x/sys/unix"

const execSupported = true

// execImage replaces the current process image. On success it does not
// return.
func execImage(target string, argv, env []string) error {
	return unix.Exec(target, argv, env)
}

// checkExecutable verifies the current user may execute the file.
func checkExecutable(path string) error {
	return unix.Access(path, unix.X_OK)
}
