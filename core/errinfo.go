package core

import (
	"fmt"
	"runtime"
	"strings"
)

// Verbosity tiers for ErrInfo rendering.
const (
	// VerbosityMessage renders the error text plus comment.
	VerbosityMessage = 1
	// VerbosityPosition adds the capture position (file, line, function).
	VerbosityPosition = 2
	// VerbosityStack adds the full call stack at capture time.
	VerbosityStack = 3
)

// ErrInfo wraps an error together with the source position and call
// stack at the point it was captured. It renders at configurable
// verbosity so that the same object can feed a one-line mail subject
// and a multi-line mail body.
type ErrInfo struct {
	Err     error
	Comment string
	Caller  CallerInfo
	// Verbosity selects the tier used by Error() and String().
	// Zero means VerbosityMessage.
	Verbosity int

	pcs []uintptr
}

// NewErrInfo captures err along with the caller's position and stack.
// The comment, if non-empty, is appended in brackets when rendering.
func NewErrInfo(err error, comment string) *ErrInfo {
	ei := &ErrInfo{
		Err:     err,
		Comment: comment,
		Caller:  GetCaller(2),
	}
	pcs := make([]uintptr, 32)
	n := runtime.Callers(2, pcs)
	ei.pcs = pcs[:n]
	return ei
}

// Render returns the error information at the given verbosity tier.
// Tiers accumulate: position output includes the message, stack output
// includes both.
func (e *ErrInfo) Render(verbosity int) string {
	var sb strings.Builder

	if e.Err != nil {
		sb.WriteString(e.Err.Error())
	} else {
		sb.WriteString("<nil>")
	}
	if e.Comment != "" {
		sb.WriteString(" [")
		sb.WriteString(e.Comment)
		sb.WriteByte(']')
	}

	if verbosity >= VerbosityPosition && e.Caller.Defined {
		fmt.Fprintf(&sb, " in file %s, line %d, function %s",
			e.Caller.File, e.Caller.Line, e.Caller.Function)
	}

	if verbosity >= VerbosityStack && len(e.pcs) > 0 {
		sb.WriteString("\n\n")
		frames := runtime.CallersFrames(e.pcs)
		for {
			frame, more := frames.Next()
			fmt.Fprintf(&sb, "%s\n\t%s:%d\n", frame.Function, frame.File, frame.Line)
			if !more {
				break
			}
		}
	}

	return sb.String()
}

// Error implements the error interface using the configured verbosity.
func (e *ErrInfo) Error() string {
	return e.Render(e.verbosity())
}

// String implements fmt.Stringer using the configured verbosity.
func (e *ErrInfo) String() string {
	return e.Render(e.verbosity())
}

// Unwrap returns the wrapped error for errors.Is / errors.As.
func (e *ErrInfo) Unwrap() error {
	return e.Err
}

func (e *ErrInfo) verbosity() int {
	if e.Verbosity <= 0 {
		return VerbosityMessage
	}
	return e.Verbosity
}
