package core

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var (
	programOnce sync.Once
	programName string
	programPID  int
	hostFull    string
	hostShort   string
)

func initProgram() {
	programName = "(unknown program)"
	if len(os.Args) > 0 && os.Args[0] != "" {
		programName = filepath.Base(os.Args[0])
	}
	programPID = os.Getpid()
	if h, err := os.Hostname(); err == nil && h != "" {
		hostFull = h
		hostShort, _, _ = strings.Cut(h, ".")
	} else {
		hostFull = "localhost"
		hostShort = "localhost"
	}
}

// Program returns the basename of the running executable.
func Program() string {
	programOnce.Do(initProgram)
	return programName
}

// PID returns the process ID of the running program.
func PID() int {
	programOnce.Do(initProgram)
	return programPID
}

// Hostname returns the short host name (everything before the first dot).
func Hostname() string {
	programOnce.Do(initProgram)
	return hostShort
}

// FQDN returns the host name as reported by the kernel. Depending on
// the system configuration this may or may not be fully qualified.
func FQDN() string {
	programOnce.Do(initProgram)
	return hostFull
}
