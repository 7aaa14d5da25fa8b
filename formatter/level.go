package formatter

import (
	"fmt"
	"io"

	"github.com/logtools-dev/logtools/core"
)

// LevelFormatter selects a formatter based on the severity of the
// entry being rendered and falls back to a default when no formatter
// is mapped for the entry's level.
//
// The mapping is meant to be configured before the formatter is handed
// to a handler; SetLevel and RemoveLevel are not safe to call
// concurrently with Format.
type LevelFormatter struct {
	def    Formatter
	levels map[core.Level]Formatter
}

// NewLevelFormatter builds a level-aware formatter. def is used for
// every level without an explicit mapping; when def is nil, entries at
// unmapped levels render with SimplePattern. Supplying neither a
// default nor any mapping is a configuration error.
func NewLevelFormatter(def Formatter, levels map[core.Level]Formatter) (*LevelFormatter, error) {
	if def == nil && len(levels) == 0 {
		return nil, fmt.Errorf("formatter: level formatter needs a default or at least one level mapping")
	}
	if def == nil {
		// SimplePattern is a constant; it always compiles.
		def, _ = NewPatternFormatter(SimplePattern)
	}

	m := make(map[core.Level]Formatter, len(levels))
	for lvl, f := range levels {
		if f == nil {
			return nil, fmt.Errorf("formatter: nil formatter mapped for level %s", lvl)
		}
		m[lvl] = f
	}

	return &LevelFormatter{def: def, levels: m}, nil
}

// NewLevelPatternFormatter builds a level-aware formatter from format
// patterns. Every pattern is compiled up front so that a bad pattern
// surfaces here rather than at format time. An empty defaultPattern
// means SimplePattern.
func NewLevelPatternFormatter(defaultPattern string, patterns map[core.Level]string) (*LevelFormatter, error) {
	if defaultPattern == "" {
		defaultPattern = SimplePattern
	}
	def, err := NewPatternFormatter(defaultPattern)
	if err != nil {
		return nil, fmt.Errorf("formatter: default pattern: %w", err)
	}

	levels := make(map[core.Level]Formatter, len(patterns))
	for lvl, pattern := range patterns {
		f, err := NewPatternFormatter(pattern)
		if err != nil {
			return nil, fmt.Errorf("formatter: pattern for level %s: %w", lvl, err)
		}
		levels[lvl] = f
	}

	return NewLevelFormatter(def, levels)
}

// DefaultLevelPatterns maps routine levels to SimplePattern and
// warnings and above to QualifiedPattern.
func DefaultLevelPatterns() map[core.Level]string {
	return map[core.Level]string{
		core.DebugLevel: SimplePattern,
		core.InfoLevel:  SimplePattern,
		core.WarnLevel:  QualifiedPattern,
		core.ErrorLevel: QualifiedPattern,
		core.FatalLevel: QualifiedPattern,
		core.PanicLevel: QualifiedPattern,
	}
}

// SetLevel maps a formatter for a specific level, replacing any
// previous mapping.
func (f *LevelFormatter) SetLevel(level core.Level, formatter Formatter) error {
	if formatter == nil {
		return fmt.Errorf("formatter: nil formatter for level %s", level)
	}
	f.levels[level] = formatter
	return nil
}

// RemoveLevel removes the mapping for a level; entries at that level
// render with the default afterwards.
func (f *LevelFormatter) RemoveLevel(level core.Level) {
	delete(f.levels, level)
}

// Format renders the entry with the formatter mapped to its level, or
// with the default when no mapping exists.
func (f *LevelFormatter) Format(entry *core.Entry) ([]byte, error) {
	return f.pick(entry.Level).Format(entry)
}

// FormatTo renders the entry directly to the writer, using the
// selected formatter's direct path when it has one.
func (f *LevelFormatter) FormatTo(entry *core.Entry, w io.Writer) error {
	selected := f.pick(entry.Level)
	if wf, ok := selected.(WriterFormatter); ok {
		return wf.FormatTo(entry, w)
	}
	data, err := selected.Format(entry)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func (f *LevelFormatter) pick(level core.Level) Formatter {
	if selected, ok := f.levels[level]; ok {
		return selected
	}
	return f.def
}
