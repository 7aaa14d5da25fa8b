package handler

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/logtools-dev/logtools/core"
	"github.com/logtools-dev/logtools/formatter"
)

// ConsoleHandler writes formatted log entries to an io.Writer,
// synchronously by default or through a bounded queue in async mode.
type ConsoleHandler struct {
	writer          io.Writer
	formatter       formatter.Formatter
	writerFormatter formatter.WriterFormatter
	mu              sync.Mutex
	q               *asyncQueue
	stats           *Stats
}

// ConsoleConfig holds configuration for the console handler.
type ConsoleConfig struct {
	// Writer to write to (default: os.Stdout)
	Writer io.Writer
	// Formatter to use (default: TextFormatter)
	Formatter formatter.Formatter
	// Async enables asynchronous logging
	Async bool
	// BufferSize is the size of the async queue (default: 1000)
	BufferSize int
	// OverflowPolicy defines per-level overflow behavior (default: DefaultLevelPolicy)
	OverflowPolicy map[core.Level]OverflowPolicy
	// BlockTimeout is the timeout for the blocking overflow policy (default: 100ms)
	BlockTimeout time.Duration
	// DrainTimeout is the timeout for draining the queue on Close (default: 5s)
	DrainTimeout time.Duration
}

// NewConsoleHandler creates a new console handler.
func NewConsoleHandler(cfg ConsoleConfig) *ConsoleHandler {
	if cfg.Writer == nil {
		cfg.Writer = os.Stdout
	}
	if cfg.Formatter == nil {
		cfg.Formatter = formatter.NewTextFormatter(formatter.Config{})
	}

	h := &ConsoleHandler{
		writer:    cfg.Writer,
		formatter: cfg.Formatter,
		stats:     NewStats(),
	}

	// Cache WriterFormatter for the direct-write path
	h.writerFormatter, _ = cfg.Formatter.(formatter.WriterFormatter)

	if cfg.Async {
		h.q = newAsyncQueue(cfg.BufferSize, cfg.OverflowPolicy,
			cfg.BlockTimeout, cfg.DrainTimeout, h.stats, h.write)
	}

	return h
}

// Handle processes a log entry.
func (h *ConsoleHandler) Handle(entry *core.Entry) error {
	if h.q == nil {
		return h.write(entry)
	}
	return h.q.enqueue(entry)
}

// write formats and writes an entry.
func (h *ConsoleHandler) write(entry *core.Entry) error {
	if h.writerFormatter != nil {
		h.mu.Lock()
		err := h.writerFormatter.FormatTo(entry, h.writer)
		h.mu.Unlock()
		if err == nil {
			h.stats.IncrementProcessed()
		}
		return err
	}

	data, err := h.formatter.Format(entry)
	if err != nil {
		return err
	}

	h.mu.Lock()
	_, writeErr := h.writer.Write(data)
	h.mu.Unlock()

	if writeErr == nil {
		h.stats.IncrementProcessed()
	}
	return writeErr
}

// CanRecycleEntry returns true: the async queue copies the entry on
// enqueue, so the handler never retains the caller's entry.
func (h *ConsoleHandler) CanRecycleEntry() bool {
	return true
}

// Stats returns a snapshot of the current statistics.
func (h *ConsoleHandler) Stats() Snapshot {
	return h.stats.GetSnapshot()
}

// Close drains the async queue, if any.
func (h *ConsoleHandler) Close() error {
	if h.q != nil {
		h.q.close()
	}
	return nil
}
