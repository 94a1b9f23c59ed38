// Package logging assembles structured slog loggers and formatting helpers used
// across albumpress.
//
// It owns the console and JSON handlers, centralizes level and output plumbing,
// and exposes context-aware helpers so pipeline code can tag log lines with
// the run ID, the job's source file, and the current step. An optional log file
// receives a JSON copy of every record through a fanout handler.
package logging
