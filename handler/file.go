package handler

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/logtools-dev/logtools/core"
	"github.com/logtools-dev/logtools/formatter"
)

// FileHandler appends formatted log entries to a file, rotating it by
// size and pruning old backups.
type FileHandler struct {
	filename        string
	file            *os.File
	formatter       formatter.Formatter
	writerFormatter formatter.WriterFormatter
	mu              sync.Mutex
	q               *asyncQueue
	maxSize         int64
	maxBackups      int
	currentSize     int64
	stats           *Stats
}

// FileConfig holds configuration for the file handler.
type FileConfig struct {
	// Filename is the path to the log file
	Filename string
	// Formatter to use (default: TextFormatter)
	Formatter formatter.Formatter
	// Async enables asynchronous logging
	Async bool
	// BufferSize is the size of the async queue (default: 1000)
	BufferSize int
	// MaxSize is the maximum size in bytes before rotation (0 = no rotation)
	MaxSize int64
	// MaxBackups is the maximum number of rotated files to retain (0 = keep all)
	MaxBackups int
	// OverflowPolicy defines per-level overflow behavior (default: DefaultLevelPolicy)
	OverflowPolicy map[core.Level]OverflowPolicy
	// BlockTimeout is the timeout for the blocking overflow policy (default: 100ms)
	BlockTimeout time.Duration
	// DrainTimeout is the timeout for draining the queue on Close (default: 5s)
	DrainTimeout time.Duration
}

// NewFileHandler creates a new file handler.
func NewFileHandler(cfg FileConfig) (*FileHandler, error) {
	if cfg.Filename == "" {
		return nil, fmt.Errorf("handler: filename is required")
	}
	if cfg.Formatter == nil {
		cfg.Formatter = formatter.NewTextFormatter(formatter.Config{})
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Filename), 0755); err != nil {
		return nil, err
	}

	file, err := os.OpenFile(cfg.Filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}

	h := &FileHandler{
		filename:    cfg.Filename,
		file:        file,
		formatter:   cfg.Formatter,
		maxSize:     cfg.MaxSize,
		maxBackups:  cfg.MaxBackups,
		currentSize: info.Size(),
		stats:       NewStats(),
	}
	h.writerFormatter, _ = cfg.Formatter.(formatter.WriterFormatter)

	if cfg.Async {
		h.q = newAsyncQueue(cfg.BufferSize, cfg.OverflowPolicy,
			cfg.BlockTimeout, cfg.DrainTimeout, h.stats, h.write)
	}

	return h, nil
}

// Handle processes a log entry.
func (h *FileHandler) Handle(entry *core.Entry) error {
	if h.q == nil {
		return h.write(entry)
	}
	return h.q.enqueue(entry)
}

func (h *FileHandler) write(entry *core.Entry) error {
	data, err := h.formatter.Format(entry)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.maxSize > 0 && h.currentSize+int64(len(data)) > h.maxSize {
		if err := h.rotate(); err != nil {
			return err
		}
	}

	n, err := h.file.Write(data)
	h.currentSize += int64(n)
	if err == nil {
		h.stats.IncrementProcessed()
	}
	return err
}

// rotate renames the current file to a timestamped backup and reopens
// a fresh one. Caller must hold h.mu.
func (h *FileHandler) rotate() error {
	if err := h.file.Close(); err != nil {
		return err
	}

	backup := fmt.Sprintf("%s.%s", h.filename, time.Now().Format("20060102-150405.000000000"))
	if err := os.Rename(h.filename, backup); err != nil {
		// The old handle is already closed; reopen so subsequent
		// writes still land somewhere instead of failing forever.
		file, openErr := os.OpenFile(h.filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if openErr == nil {
			h.file = file
		}
		return err
	}

	file, err := os.OpenFile(h.filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	h.file = file
	h.currentSize = 0

	if h.maxBackups > 0 {
		if err := h.pruneBackups(); err != nil {
			reportError("prune backups", err)
		}
	}
	return nil
}

// pruneBackups removes the oldest rotated files beyond maxBackups.
func (h *FileHandler) pruneBackups() error {
	dir := filepath.Dir(h.filename)
	base := filepath.Base(h.filename)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	var backups []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), base+".") {
			backups = append(backups, e.Name())
		}
	}
	if len(backups) <= h.maxBackups {
		return nil
	}

	// Timestamped suffixes sort chronologically.
	sort.Strings(backups)
	for _, name := range backups[:len(backups)-h.maxBackups] {
		if err := os.Remove(filepath.Join(dir, name)); err != nil {
			return err
		}
	}
	return nil
}

// CanRecycleEntry returns true: the async queue copies the entry on
// enqueue, so the handler never retains the caller's entry.
func (h *FileHandler) CanRecycleEntry() bool {
	return true
}

// Stats returns a snapshot of the current statistics.
func (h *FileHandler) Stats() Snapshot {
	return h.stats.GetSnapshot()
}

// Close drains the async queue and closes the file.
func (h *FileHandler) Close() error {
	if h.q != nil {
		h.q.close()
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.file.Close()
}
