package batch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"albumpress/internal/config"
	"albumpress/internal/logging"
	"albumpress/internal/pipeline"
	"albumpress/internal/services"
)

// Processor runs one job to completion.
type Processor interface {
	Process(ctx context.Context, job pipeline.Job) pipeline.Outcome
}

// Reporter renders counters while the batch runs.
type Reporter interface {
	Update(Snapshot)
	Finish(Snapshot)
}

// Recorder persists per-file outcomes. Record errors are logged and never
// stop the batch.
type Recorder interface {
	RecordOutcome(ctx context.Context, runID string, outcome pipeline.Outcome) error
}

// Stats summarizes a finished run.
type Stats struct {
	Snapshot
	RunID        string
	PeakInFlight int
	// NotStarted counts candidates skipped because the run was cancelled.
	NotStarted int64
	Elapsed    time.Duration
	Canceled   bool
}

// Option configures a Runner.
type Option func(*Runner)

// WithReporter sets the progress reporter.
func WithReporter(r Reporter) Option {
	return func(rn *Runner) {
		if r != nil {
			rn.reporter = r
		}
	}
}

// WithRecorder sets where per-file outcomes are persisted.
func WithRecorder(r Recorder) Option {
	return func(rn *Runner) { rn.recorder = r }
}

// WithLogger sets the base logger.
func WithLogger(logger *slog.Logger) Option {
	return func(rn *Runner) {
		if logger != nil {
			rn.logger = logger
		}
	}
}

// WithRunID stamps the run identifier onto logs and records.
func WithRunID(id string) Option {
	return func(rn *Runner) { rn.runID = id }
}

// Runner drives one batch.
type Runner struct {
	run       config.Run
	processor Processor
	reporter  Reporter
	recorder  Recorder
	logger    *slog.Logger
	runID     string
	counters  Counters
}

// NewRunner builds a runner for a validated run.
func NewRunner(run config.Run, processor Processor, opts ...Option) *Runner {
	r := &Runner{
		run:       run,
		processor: processor,
		reporter:  nopReporter{},
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = logging.NewComponentLogger(r.logger, "batch")
	return r
}

type completion struct {
	id      int
	outcome pipeline.Outcome
}

// Run discovers candidates and processes them. It returns an error only when
// discovery fails or ctx is cancelled; per-file failures are counted.
func (r *Runner) Run(ctx context.Context) (Stats, error) {
	start := time.Now()
	ctx = services.WithRunID(ctx, r.runID)
	logger := logging.WithContext(ctx, r.logger)

	candidates, err := Discover(r.run.SourceRoot, r.run.Extensions)
	if err != nil {
		return Stats{RunID: r.runID}, err
	}
	r.counters.Total.Store(int64(len(candidates)))
	logger.Info("batch started",
		logging.Int("candidates", len(candidates)),
		logging.Int("threads", r.run.Threads),
		logging.String("source", r.run.SourceRoot),
		logging.String("destination", r.run.DestRoot),
		logging.String(logging.FieldEventType, "batch_started"),
	)

	limit := r.run.Threads
	if limit <= 0 {
		limit = 1
	}
	done := make(chan completion, limit)
	inFlight := make(map[int]pipeline.Job, limit)
	peak := 0

	for i, src := range candidates {
		if ctx.Err() != nil {
			break
		}

		dst, err := DestinationPath(r.run.SourceRoot, r.run.DestRoot, src)
		if err != nil {
			r.tally(ctx, failedOutcome(pipeline.Job{Source: src}, "map destination", services.Wrap(services.ErrValidation, "batch", "map destination", "", err)))
			r.reporter.Update(r.counters.Snapshot())
			continue
		}
		job := pipeline.Job{Source: src, Dest: dst}

		if len(inFlight) >= limit {
			c := <-done
			delete(inFlight, c.id)
			r.tally(ctx, c.outcome)
			if ctx.Err() != nil {
				break
			}
		}

		if r.run.IgnoreExisting && exists(dst) {
			r.counters.Ignored.Add(1)
			logger.Info("file exists, ignored",
				logging.String("dest", dst),
				logging.String(logging.FieldEventType, "exists_ignored"),
			)
			r.record(ctx, pipeline.Outcome{Job: job, Status: pipeline.StatusIgnored, Stage: "exists"})
			r.reporter.Update(r.counters.Snapshot())
			continue
		}

		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			r.tally(ctx, failedOutcome(job, "create directory", services.Wrap(services.ErrIO, "batch", "create directory", filepath.Dir(dst), err)))
			r.reporter.Update(r.counters.Snapshot())
			continue
		}

		inFlight[i] = job
		if len(inFlight) > peak {
			peak = len(inFlight)
		}
		go func(id int, job pipeline.Job) {
			done <- completion{id: id, outcome: r.processor.Process(ctx, job)}
		}(i, job)

		logger.Info("processing", logging.String("dest", dst), logging.String(logging.FieldEventType, "job_started"))
		r.reporter.Update(r.counters.Snapshot())
	}

	for len(inFlight) > 0 {
		c := <-done
		delete(inFlight, c.id)
		r.tally(ctx, c.outcome)
		r.reporter.Update(r.counters.Snapshot())
	}

	snapshot := r.counters.Snapshot()
	r.reporter.Finish(snapshot)

	stats := Stats{
		Snapshot:     snapshot,
		RunID:        r.runID,
		PeakInFlight: peak,
		Elapsed:      time.Since(start),
	}
	if err := ctx.Err(); err != nil {
		stats.Canceled = true
		stats.NotStarted = snapshot.Total - snapshot.Done()
		logging.WarnWithContext(logger, "batch interrupted; remaining files were not started", "batch_canceled",
			logging.Int64("not_started", stats.NotStarted),
			logging.String(logging.FieldImpact, "destination tree is incomplete"),
			logging.String(logging.FieldErrorHint, "rerun with --ignore to resume"),
		)
		return stats, err
	}

	logger.Info("batch finished",
		logging.Int64("processed", snapshot.Processed),
		logging.Int64("ignored", snapshot.Ignored),
		logging.Int64("kept_original", snapshot.KeptOriginal),
		logging.Int64("failed", snapshot.Failed),
		logging.Duration("elapsed", stats.Elapsed),
		logging.String(logging.FieldEventType, "batch_finished"),
	)
	return stats, nil
}

// tally folds a finished job into the counters. Only the control goroutine
// calls it.
func (r *Runner) tally(ctx context.Context, out pipeline.Outcome) {
	if !out.Counted() {
		r.counters.Ignored.Add(1)
		r.record(ctx, out)
		return
	}
	r.counters.Processed.Add(1)
	switch {
	case out.Status == pipeline.StatusFailed:
		r.counters.Failed.Add(1)
	case out.KeptOriginal:
		r.counters.KeptOriginal.Add(1)
	}
	r.record(ctx, out)
}

func (r *Runner) record(ctx context.Context, out pipeline.Outcome) {
	if r.recorder == nil {
		return
	}
	// Recording must still happen for jobs drained after cancellation.
	if err := r.recorder.RecordOutcome(context.WithoutCancel(ctx), r.runID, out); err != nil {
		logging.WarnWithContext(logging.WithContext(ctx, r.logger), "history record failed", "history_write_failed",
			logging.String("source", out.Job.Source),
			logging.Error(err),
			logging.String(logging.FieldImpact, "run history is incomplete for this file"),
		)
	}
}

func failedOutcome(job pipeline.Job, stage string, err error) pipeline.Outcome {
	return pipeline.Outcome{Job: job, Status: pipeline.StatusFailed, Stage: stage, Cause: err}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

type nopReporter struct{}

func (nopReporter) Update(Snapshot) {}
func (nopReporter) Finish(Snapshot) {}
