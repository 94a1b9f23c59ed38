package pipeline

import "time"

// Job pairs a source file with the destination it is written to.
type Job struct {
	Source string
	Dest   string
}

// Status is the terminal state of one job.
type Status string

const (
	// StatusProcessed means every configured step ran.
	StatusProcessed Status = "processed"
	// StatusIgnored means the source already carries the gate comment.
	StatusIgnored Status = "ignored"
	// StatusFailed means a step could not run; Cause says why.
	StatusFailed Status = "failed"
)

// Outcome is the result a job hands back to the orchestrator.
type Outcome struct {
	Job          Job
	Status       Status
	KeptOriginal bool
	// Stage names the step that failed.
	Stage string
	Cause error
	// ToolWarnings counts tool runs that exited non-zero.
	ToolWarnings int
	SourceSize   int64
	DestSize     int64
	Duration     time.Duration
}

// Counted reports whether the outcome counts toward Processed. Failed jobs
// are processed jobs that did not finish cleanly.
func (o Outcome) Counted() bool {
	return o.Status == StatusProcessed || o.Status == StatusFailed
}
