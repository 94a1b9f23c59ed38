// Package batch enumerates the source tree and schedules one pipeline job per
// matching file under a concurrency cap.
//
// A single control goroutine owns the in-flight set. It admits jobs in
// enumeration order, and when the set is full it blocks until any job
// finishes, so at most one slot reopens per admission. Outcome counters are
// atomic and satisfy Total == Processed + Ignored once a run drains.
package batch
