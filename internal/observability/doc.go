// Package observability provides structured logging and Prometheus metrics
// for drivel-server.
//
// This package implements:
//   - zap logger construction from LOG_LEVEL and LOG_FORMAT
//   - an HTTP request counter and latency histogram
//   - a provider call latency histogram labelled by operation and outcome
//
// A nil *Metrics is valid and records nothing.
package observability
