package formatter

import (
	"bytes"
	"io"
	"strconv"
	"time"

	"github.com/logtools-dev/logtools/core"
)

// TextFormatter formats log entries as human-readable text.
type TextFormatter struct {
	Config
}

// NewTextFormatter creates a new text formatter.
func NewTextFormatter(cfg Config) *TextFormatter {
	if cfg.TimestampFormat == "" {
		cfg.TimestampFormat = time.RFC3339
	}
	return &TextFormatter{Config: cfg}
}

// Format formats an entry as text.
func (f *TextFormatter) Format(entry *core.Entry) ([]byte, error) {
	buf := getBuffer()
	defer putBuffer(buf)

	f.formatToBuffer(entry, buf)

	result := make([]byte, buf.Len())
	copy(result, buf.Bytes())
	return result, nil
}

// FormatTo formats an entry and writes it directly to the writer.
func (f *TextFormatter) FormatTo(entry *core.Entry, w io.Writer) error {
	buf := getBuffer()

	f.formatToBuffer(entry, buf)

	_, err := w.Write(buf.Bytes())
	putBuffer(buf)
	return err
}

// pre-formatted level strings to avoid multiple WriteString calls
var levelBrackets = [...]string{
	core.DebugLevel: " [DEBUG] ",
	core.InfoLevel:  " [INFO] ",
	core.WarnLevel:  " [WARN] ",
	core.ErrorLevel: " [ERROR] ",
	core.FatalLevel: " [FATAL] ",
	core.PanicLevel: " [PANIC] ",
}

func (f *TextFormatter) formatToBuffer(entry *core.Entry, buf *bytes.Buffer) {
	// Timestamp - use AppendFormat to avoid string allocation
	buf.Write(entry.Time.AppendFormat(buf.AvailableBuffer(), f.TimestampFormat))

	if int(entry.Level) < len(levelBrackets) {
		buf.WriteString(levelBrackets[entry.Level])
	} else {
		buf.WriteString(" [UNKNOWN] ")
	}

	if f.IncludeCaller && entry.Caller.Defined {
		buf.WriteByte('[')
		buf.WriteString(entry.Caller.ShortFile)
		buf.WriteByte(':')
		buf.WriteString(strconv.Itoa(entry.Caller.Line))
		buf.WriteString("] ")
	}

	buf.WriteString(entry.Message)

	for _, field := range entry.Fields {
		buf.WriteByte(' ')
		buf.WriteString(field.Key)
		buf.WriteByte('=')
		buf.WriteString(field.StringValue())
	}

	if entry.Err != nil {
		buf.WriteString(" error=")
		buf.WriteString(entry.Err.Error())
	}

	buf.WriteByte('\n')
}
