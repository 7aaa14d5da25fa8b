package handler

import (
	"sync/atomic"

	"github.com/logtools-dev/logtools/core"
)

// OverflowPolicy defines how to handle full async queues.
type OverflowPolicy int

const (
	// DropNewest drops the newest log entry when the queue is full
	DropNewest OverflowPolicy = iota
	// DropOldest drops the oldest log entry when the queue is full
	DropOldest
	// Block blocks the caller until space is available (with timeout)
	Block
)

// String returns the string representation of the policy.
func (p OverflowPolicy) String() string {
	switch p {
	case DropNewest:
		return "DropNewest"
	case DropOldest:
		return "DropOldest"
	case Block:
		return "Block"
	default:
		return "Unknown"
	}
}

// DefaultLevelPolicy drops routine entries when the queue is full and
// blocks (with timeout) for errors and above.
func DefaultLevelPolicy() map[core.Level]OverflowPolicy {
	return map[core.Level]OverflowPolicy{
		core.DebugLevel: DropNewest,
		core.InfoLevel:  DropNewest,
		core.WarnLevel:  DropNewest,
		core.ErrorLevel: Block,
		core.FatalLevel: Block,
		core.PanicLevel: Block,
	}
}

// Stats tracks handler counters.
type Stats struct {
	// dropped counters indexed by level
	dropped [int(core.PanicLevel) + 1]uint64
	// BlockedTotal counts times logging blocked due to a full queue
	blockedTotal uint64
	// ProcessedTotal counts successfully processed entries
	processedTotal uint64
	// SuppressedTotal counts entries skipped before dispatch
	// (below threshold or inside a quiet period)
	suppressedTotal uint64
}

// NewStats creates a new Stats instance.
func NewStats() *Stats {
	return &Stats{}
}

// IncrementDropped atomically increments the dropped counter for a level.
func (s *Stats) IncrementDropped(level core.Level) {
	if level < 0 || int(level) >= len(s.dropped) {
		return
	}
	atomic.AddUint64(&s.dropped[level], 1)
}

// IncrementBlocked atomically increments the blocked counter.
func (s *Stats) IncrementBlocked() {
	atomic.AddUint64(&s.blockedTotal, 1)
}

// IncrementProcessed atomically increments the processed counter.
func (s *Stats) IncrementProcessed() {
	atomic.AddUint64(&s.processedTotal, 1)
}

// IncrementSuppressed atomically increments the suppressed counter.
func (s *Stats) IncrementSuppressed() {
	atomic.AddUint64(&s.suppressedTotal, 1)
}

// GetDropped returns the dropped count for a level.
func (s *Stats) GetDropped(level core.Level) uint64 {
	if level < 0 || int(level) >= len(s.dropped) {
		return 0
	}
	return atomic.LoadUint64(&s.dropped[level])
}

// GetBlocked returns the blocked count.
func (s *Stats) GetBlocked() uint64 {
	return atomic.LoadUint64(&s.blockedTotal)
}

// GetProcessed returns the processed count.
func (s *Stats) GetProcessed() uint64 {
	return atomic.LoadUint64(&s.processedTotal)
}

// GetSuppressed returns the suppressed count.
func (s *Stats) GetSuppressed() uint64 {
	return atomic.LoadUint64(&s.suppressedTotal)
}

// GetTotalDropped returns the dropped count across all levels.
func (s *Stats) GetTotalDropped() uint64 {
	var total uint64
	for i := range s.dropped {
		total += atomic.LoadUint64(&s.dropped[i])
	}
	return total
}

// Reset resets all counters to zero.
func (s *Stats) Reset() {
	for i := range s.dropped {
		atomic.StoreUint64(&s.dropped[i], 0)
	}
	atomic.StoreUint64(&s.blockedTotal, 0)
	atomic.StoreUint64(&s.processedTotal, 0)
	atomic.StoreUint64(&s.suppressedTotal, 0)
}

// Snapshot is a point-in-time copy of handler counters.
type Snapshot struct {
	DroppedTotal    map[core.Level]uint64
	BlockedTotal    uint64
	ProcessedTotal  uint64
	SuppressedTotal uint64
}

// GetSnapshot returns a snapshot of current statistics.
func (s *Stats) GetSnapshot() Snapshot {
	snap := Snapshot{
		DroppedTotal:    make(map[core.Level]uint64, len(s.dropped)),
		BlockedTotal:    s.GetBlocked(),
		ProcessedTotal:  s.GetProcessed(),
		SuppressedTotal: s.GetSuppressed(),
	}
	for i := range s.dropped {
		snap.DroppedTotal[core.Level(i)] = s.GetDropped(core.Level(i))
	}
	return snap
}
