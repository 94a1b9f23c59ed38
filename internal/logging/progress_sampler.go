package logging

// ProgressSampler suppresses repetitive progress logs while preserving signal
// when the completed share of a batch crosses a bucket boundary.
type ProgressSampler struct {
	bucketSize float64
	lastBucket int
}

// NewProgressSampler constructs a sampler that emits when the percent crosses
// bucket boundaries (default 5%).
func NewProgressSampler(bucketSize float64) *ProgressSampler {
	if bucketSize <= 0 {
		bucketSize = 5
	}
	return &ProgressSampler{bucketSize: bucketSize, lastBucket: -1}
}

// ShouldLog reports whether a progress event for done of total items should
// be logged. An unknown total (<= 0) always logs.
func (s *ProgressSampler) ShouldLog(done, total int64) bool {
	if s == nil || total <= 0 {
		return true
	}
	percent := float64(done) * 100 / float64(total)
	if percent >= 100 {
		percent = 100
	}
	bucket := int(percent / s.bucketSize)
	if bucket > s.lastBucket {
		s.lastBucket = bucket
		return true
	}
	return false
}

// Reset clears the sampler state.
func (s *ProgressSampler) Reset() {
	if s == nil {
		return
	}
	s.lastBucket = -1
}
