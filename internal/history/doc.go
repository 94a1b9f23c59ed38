// Package history journals batch runs and their per-file outcomes in a
// SQLite database so operators can review what a run did after the fact.
//
// The journal is written by the batch control goroutine only and is never
// consulted when deciding whether a file needs work; the destination tree and
// the gate comment remain the only resume signals.
package history
