//go:build !unix

package delegate

import "errors"

const execSupported = false

func execImage(target string, argv, env []string) error {
	return errors.ErrUnsupported
}

// checkExecutable is a no-op where the execute bit has no meaning; the
// spawn fallback surfaces any real failure when it starts the program.
func checkExecutable(path string) error {
	return nil
}
