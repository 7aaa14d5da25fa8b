package handler

import (
	"github.com/logtools-dev/logtools/core"
)

// MultiHandler fans a log entry out to multiple handlers.
type MultiHandler struct {
	handlers     []Handler
	recycleEntry bool
}

// NewMultiHandler creates a new multi-handler.
func NewMultiHandler(handlers ...Handler) *MultiHandler {
	m := &MultiHandler{
		handlers:     handlers,
		recycleEntry: true,
	}
	for _, h := range handlers {
		rc, ok := h.(interface{ CanRecycleEntry() bool })
		if !ok || !rc.CanRecycleEntry() {
			m.recycleEntry = false
		}
	}
	return m
}

// Handle sends the entry to all handlers. The last error wins; the
// remaining handlers still see the entry.
func (h *MultiHandler) Handle(entry *core.Entry) error {
	var lastErr error
	for _, handler := range h.handlers {
		if err := handler.Handle(entry); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

// CanRecycleEntry returns true when every child processes entries
// synchronously.
func (h *MultiHandler) CanRecycleEntry() bool {
	return h.recycleEntry
}

// Close closes all handlers.
func (h *MultiHandler) Close() error {
	var lastErr error
	for _, handler := range h.handlers {
		if err := handler.Close(); err != nil {
			lastErr = err
		}
	}
	return lastErr
}
