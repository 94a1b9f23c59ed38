package batch

import (
	"fmt"
	"sync/atomic"
)

// Counters tallies job outcomes. Every field only ever increases.
type Counters struct {
	Total        atomic.Int64
	Processed    atomic.Int64
	Ignored      atomic.Int64
	KeptOriginal atomic.Int64
	Failed       atomic.Int64
}

// Snapshot is a point-in-time copy of Counters.
type Snapshot struct {
	Total        int64
	Processed    int64
	Ignored      int64
	KeptOriginal int64
	Failed       int64
}

// Snapshot loads every counter.
func (c *Counters) Snapshot() Snapshot {
	return Snapshot{
		Total:        c.Total.Load(),
		Processed:    c.Processed.Load(),
		Ignored:      c.Ignored.Load(),
		KeptOriginal: c.KeptOriginal.Load(),
		Failed:       c.Failed.Load(),
	}
}

// Done is the number of candidates that reached a terminal state.
func (s Snapshot) Done() int64 {
	return s.Processed + s.Ignored
}

// String renders the status line shown while a batch runs.
func (s Snapshot) String() string {
	line := fmt.Sprintf("File Count:%d, Processed:%d, Ignored:%d, Keep:%d", s.Total, s.Processed, s.Ignored, s.KeptOriginal)
	if s.Failed > 0 {
		line += fmt.Sprintf(", Failed:%d", s.Failed)
	}
	return line
}
