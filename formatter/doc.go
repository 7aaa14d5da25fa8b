// Package formatter defines how log entries are serialized into bytes.
//
// It exposes two interfaces: Formatter, which returns a []byte, and
// WriterFormatter, which writes directly to an io.Writer. Handlers
// check for WriterFormatter at construction time and prefer it when
// available, eliminating the intermediate byte slice allocation on the
// write path.
//
// Four formatters are provided:
//
//   - TextFormatter renders timestamp, level bracket, message, fields
//     and the entry error as a single text line.
//   - JSONFormatter renders the same data as a JSON object without
//     reflection on the hot path.
//   - PatternFormatter renders through a text/template (with sprig
//     functions) compiled once at construction, exposing Program, PID,
//     Host, Level, Message, Caller, Err and Fields to the pattern.
//   - LevelFormatter dispatches to a different formatter per severity
//     level, falling back to a default when a level has no mapping.
//     Configuration problems (no default and no mappings, or a pattern
//     that does not parse) surface as construction errors, never at
//     format time.
//
// All implementations share a pooled bytes.Buffer; buffers larger
// than 64 KiB are not returned to the pool so a single large log line
// cannot permanently inflate memory usage.
package formatter
