package core

import (
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"
)

// Level represents the severity of a log entry.
type Level int8

const (
	// DebugLevel for detailed diagnostic output
	DebugLevel Level = iota
	// InfoLevel for general informational messages (default)
	InfoLevel
	// WarnLevel for conditions that deserve attention
	WarnLevel
	// ErrorLevel for errors
	ErrorLevel
	// FatalLevel for unrecoverable errors (causes os.Exit(1))
	FatalLevel
	// PanicLevel for panics
	PanicLevel
)

// String returns the string representation of the level.
func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	case FatalLevel:
		return "FATAL"
	case PanicLevel:
		return "PANIC"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel converts a level name to a Level. Unknown names map to
// InfoLevel.
func ParseLevel(s string) Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return DebugLevel
	case "INFO":
		return InfoLevel
	case "WARN", "WARNING":
		return WarnLevel
	case "ERROR":
		return ErrorLevel
	case "FATAL":
		return FatalLevel
	case "PANIC":
		return PanicLevel
	default:
		return InfoLevel
	}
}

// Entry represents a single log event. Formatters treat it as
// read-only; it is owned by the logger that created it.
type Entry struct {
	Time    time.Time
	Level   Level
	Message string
	Fields  []Field
	Caller  CallerInfo
	// Err carries an error attached to the entry. Handlers may use it
	// for richer rendering (the mail handler tags its subject with it).
	Err error
}

// CallerInfo identifies the source position that emitted an entry.
type CallerInfo struct {
	File      string
	ShortFile string
	Line      int
	Function  string
	Defined   bool
}

// entryPool recycles Entry objects to keep the log path allocation-free.
var entryPool = sync.Pool{
	New: func() interface{} {
		return &Entry{
			Fields: make([]Field, 0, 8),
		}
	},
}

// GetEntry retrieves a cleared Entry from the pool.
func GetEntry() *Entry {
	e := entryPool.Get().(*Entry)
	e.Time = time.Now()
	e.Fields = e.Fields[:0]
	e.Caller = CallerInfo{}
	e.Err = nil
	return e
}

// Clone returns a pooled copy of the entry with its own field slice.
// The caller of Clone owns the copy and must return it with PutEntry;
// the original stays untouched and can be recycled independently.
func (e *Entry) Clone() *Entry {
	c := GetEntry()
	c.Time = e.Time
	c.Level = e.Level
	c.Message = e.Message
	c.Caller = e.Caller
	c.Err = e.Err
	c.Fields = append(c.Fields, e.Fields...)
	return c
}

// PutEntry returns an Entry to the pool.
func PutEntry(e *Entry) {
	if e == nil {
		return
	}
	e.Fields = e.Fields[:0]
	e.Message = ""
	e.Caller = CallerInfo{}
	e.Err = nil
	entryPool.Put(e)
}

// GetCaller captures the source position skip frames above the caller.
func GetCaller(skip int) CallerInfo {
	pc, file, line, ok := runtime.Caller(skip)
	if !ok {
		return CallerInfo{}
	}

	var funcName string
	if fn := runtime.FuncForPC(pc); fn != nil {
		funcName = fn.Name()
	}

	return CallerInfo{
		File:      file,
		ShortFile: filepath.Base(file),
		Line:      line,
		Function:  funcName,
		Defined:   true,
	}
}
