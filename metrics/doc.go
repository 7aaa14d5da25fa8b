// Package metrics exposes Prometheus counters for the mail handler
// and the async handler queues. Counters register on the default
// registry at import time; Handler() serves them over HTTP.
package metrics
