//go:build !unix

package delegate

import "os"

var forwardedSignals = []os.Signal{os.Interrupt}
