// Package core defines the shared types used across the logtools framework.
//
// It provides the Level type for severity filtering, the Entry type
// that represents a single log event, and the Field type for
// zero-allocation structured key-value pairs. An Entry may also carry
// an error, which the mail handler uses to tag subjects and expand
// bodies.
//
// Entry objects are pooled via sync.Pool to keep the hot path
// allocation-free. Callers get an Entry with GetEntry and must return
// it with PutEntry once the handler has consumed it.
//
// ErrInfo captures an error together with the position and call stack
// at the point of capture, and renders at three verbosity tiers
// (message, position, stack).
//
// Program, PID, Hostname and FQDN identify the running process; the
// pattern formatter and the mail handler embed them in their output.
package core
