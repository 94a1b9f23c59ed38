package batch

import (
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"albumpress/internal/logging"
)

// NewReporter picks an in-place status line when w is a terminal and sampled
// log lines otherwise.
func NewReporter(w io.Writer, logger *slog.Logger) Reporter {
	if f, ok := w.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return NewBarReporter(w)
	}
	return NewLogReporter(logger, 5)
}

// BarReporter redraws a single status line with a progress bar.
type BarReporter struct {
	w   io.Writer
	bar *progressbar.ProgressBar
}

// NewBarReporter renders progress to w.
func NewBarReporter(w io.Writer) *BarReporter {
	return &BarReporter{w: w}
}

func (b *BarReporter) ensure(total int64) {
	if b.bar != nil {
		return
	}
	if total <= 0 {
		total = -1
	}
	b.bar = progressbar.NewOptions64(total,
		progressbar.OptionSetWriter(b.w),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionFullWidth(),
	)
}

// Update redraws the line with the current counters.
func (b *BarReporter) Update(s Snapshot) {
	b.ensure(s.Total)
	b.bar.Describe(s.String())
	_ = b.bar.Set64(s.Done())
}

// Finish draws the final counters and ends the line.
func (b *BarReporter) Finish(s Snapshot) {
	b.Update(s)
	_ = b.bar.Finish()
	_, _ = io.WriteString(b.w, "\n")
}

// LogReporter emits the status line as a log record whenever the completed
// share crosses a bucket boundary.
type LogReporter struct {
	logger  *slog.Logger
	sampler *logging.ProgressSampler
}

// NewLogReporter logs progress every bucketPercent of the batch.
func NewLogReporter(logger *slog.Logger, bucketPercent float64) *LogReporter {
	return &LogReporter{
		logger:  logging.NewComponentLogger(logger, "progress"),
		sampler: logging.NewProgressSampler(bucketPercent),
	}
}

// Update logs s when the sampler allows it.
func (l *LogReporter) Update(s Snapshot) {
	if !l.sampler.ShouldLog(s.Done(), s.Total) {
		return
	}
	l.log(s)
}

// Finish always logs the final counters.
func (l *LogReporter) Finish(s Snapshot) {
	l.log(s)
}

func (l *LogReporter) log(s Snapshot) {
	l.logger.Info(s.String(),
		logging.Int64("done", s.Done()),
		logging.Int64("total", s.Total),
		logging.String(logging.FieldEventType, "progress"),
	)
}
