package handler

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Handlers never surface their own runtime failures to the logging
// call site; a broken handler must not crash the application that
// logs through it. Failures are written to a package-wide error
// output instead, os.Stderr by default.
var (
	errorMu     sync.Mutex
	errorOutput io.Writer = os.Stderr
)

// SetErrorOutput redirects handler-internal error reporting. Passing
// nil restores os.Stderr. It returns the previous writer so tests can
// put it back.
func SetErrorOutput(w io.Writer) io.Writer {
	errorMu.Lock()
	defer errorMu.Unlock()
	prev := errorOutput
	if w == nil {
		w = os.Stderr
	}
	errorOutput = w
	return prev
}

// reportError writes a handler failure to the error output.
func reportError(op string, err error) {
	errorMu.Lock()
	defer errorMu.Unlock()
	fmt.Fprintf(errorOutput, "logtools: %s: %v\n", op, err)
}
