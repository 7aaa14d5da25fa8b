// Package handler provides the Handler interface and its built-in
// implementations for dispatching log entries to various outputs.
//
// Handlers operate synchronously by default, invoked inline on
// whichever goroutine emits the entry. In async mode, a pooled copy
// of the entry goes to a bounded channel and a background goroutine,
// which keeps the caller's hot path fast even under slow I/O (SMTP in
// particular). Handlers never retain the caller's entry, so it can be
// recycled as soon as Handle returns.
//
// When the async queue is full, a per-level OverflowPolicy applies:
// DropNewest (default for Debug/Info/Warn), DropOldest, or Block with
// a configurable timeout (default for Error and above). Low-priority
// logs never stall the application while errors are never silently
// dropped.
//
// Built-in handlers:
//
//   - ConsoleHandler writes formatted entries to any io.Writer (default: stdout).
//   - FileHandler appends to a file with size-based rotation and backup pruning.
//   - MultiHandler fans out a single entry to multiple child handlers.
//   - MailHandler sends entries at or above a threshold level as mail
//     to configured recipients via SMTP, with retry, a configurable
//     quiet period, and subject/body rendering that surfaces attached
//     errors.
//   - ZapHandler forwards entries to an existing zap.Logger.
//
// Runtime failures inside a handler (a write error on the async path,
// a failed mail send) are never raised back into application code.
// They are written to a package-wide error output, os.Stderr unless
// redirected with SetErrorOutput, following the convention that a
// broken log handler must not crash the program that logs through it.
//
// Handlers track dropped, blocked, suppressed and processed counts via
// the Stats type, which can be queried at runtime for monitoring.
package handler
