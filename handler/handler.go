package handler

import (
	"github.com/logtools-dev/logtools/core"
)

// Handler consumes log entries and performs an action with them
// (write to a stream, append to a file, send a mail).
type Handler interface {
	// Handle processes a log entry
	Handle(entry *core.Entry) error

	// Close closes the handler and releases resources
	Close() error
}
