package pipeline

import (
	"context"
	"log/slog"
	"os"
	"time"

	"albumpress/internal/config"
	"albumpress/internal/fileutil"
	"albumpress/internal/logging"
	"albumpress/internal/services"
	"albumpress/internal/services/command"
	"albumpress/internal/sizeguard"
	"albumpress/internal/timestamps"
)

const (
	stageGate       = "gate"
	stageTranscode  = "transcode"
	stageMetadata   = "metadata"
	stageCopy       = "copy"
	stageTimestamps = "timestamps"
	stageSizeGuard  = "size guard"
)

// Transcoder runs the transcode template.
type Transcoder interface {
	Transcode(ctx context.Context, template, src, dst string) (command.Result, error)
}

// MetadataTool rewrites metadata and reads the gate comment.
type MetadataTool interface {
	Rewrite(ctx context.Context, template, src, dst, comment string) (command.Result, error)
	ReadComment(ctx context.Context, path string) (string, bool, error)
}

// Pipeline processes single files for one run. It is safe for concurrent use
// because it only reads its configuration.
type Pipeline struct {
	run        config.Run
	transcoder Transcoder
	metadata   MetadataTool
	logger     *slog.Logger
	now        func() time.Time
}

// New builds a pipeline. transcoder and metadata may be nil when the run
// never needs them.
func New(run config.Run, transcoder Transcoder, metadata MetadataTool, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		run:        run,
		transcoder: transcoder,
		metadata:   metadata,
		logger:     logging.NewComponentLogger(logger, "pipeline"),
		now:        time.Now,
	}
}

// Process runs every configured step for job and reports the outcome.
func (p *Pipeline) Process(ctx context.Context, job Job) Outcome {
	start := p.now()
	ctx = services.WithJob(ctx, job.Source)
	out := p.process(ctx, job)
	out.Job = job
	out.Duration = p.now().Sub(start)
	if out.Status == StatusFailed {
		logging.ErrorWithContext(logging.WithContext(services.WithStage(ctx, out.Stage), p.logger),
			"file failed", "job_failed",
			logging.String("dest", job.Dest),
			logging.Error(out.Cause),
			logging.String("cause", services.FailureKind(out.Cause)),
			logging.String(logging.FieldErrorHint, "fix the cause and rerun with --ignore to skip finished files"),
		)
	}
	return out
}

func (p *Pipeline) process(ctx context.Context, job Job) Outcome {
	out := Outcome{Status: StatusProcessed}
	fail := func(stage string, err error) Outcome {
		out.Status = StatusFailed
		out.Stage = stage
		out.Cause = err
		return out
	}

	if p.run.Comment != "" {
		if p.metadata == nil {
			return fail(stageGate, services.Wrap(services.ErrConfiguration, stageGate, "read comment", "metadata tool not configured", nil))
		}
		current, ok, err := p.metadata.ReadComment(ctx, job.Source)
		if err != nil {
			return fail(stageGate, err)
		}
		if ok && current == p.run.Comment {
			logging.WithContext(services.WithStage(ctx, stageGate), p.logger).Info("file already has comment, ignored",
				logging.String("dest", job.Dest),
				logging.String("comment", current),
				logging.String(logging.FieldEventType, "gate_ignored"),
			)
			out.Status = StatusIgnored
			return out
		}
	}

	if p.run.NeedsFFmpeg() {
		if p.transcoder == nil {
			return fail(stageTranscode, services.Wrap(services.ErrConfiguration, stageTranscode, "run", "transcoder not configured", nil))
		}
		result, err := p.transcoder.Transcode(ctx, p.run.TranscodeArgs, job.Source, job.Dest)
		if err != nil {
			return fail(stageTranscode, err)
		}
		if result.ExitCode != 0 {
			out.ToolWarnings++
		}
	}

	if p.run.MetadataArgs != "" {
		if p.metadata == nil {
			return fail(stageMetadata, services.Wrap(services.ErrConfiguration, stageMetadata, "run", "metadata tool not configured", nil))
		}
		result, err := p.metadata.Rewrite(ctx, p.run.MetadataArgs, job.Source, job.Dest, p.run.Comment)
		if err != nil {
			return fail(stageMetadata, err)
		}
		if result.ExitCode != 0 {
			out.ToolWarnings++
		}
	}

	if p.run.PassThrough() {
		if err := fileutil.CopyFilePreserving(job.Source, job.Dest); err != nil {
			return fail(stageCopy, services.Wrap(services.ErrIO, stageCopy, "copy source", "", err))
		}
	}

	if p.run.Date != config.DateNone {
		if err := timestamps.Apply(p.run.Date, job.Source, job.Dest); err != nil {
			return fail(stageTimestamps, services.Wrap(services.ErrIO, stageTimestamps, string(p.run.Date), "", err))
		}
	}

	if p.run.KeepLarger {
		decision, err := sizeguard.Check(job.Source, job.Dest)
		if err != nil {
			return fail(stageSizeGuard, services.Wrap(services.ErrIO, stageSizeGuard, "compare sizes", "", err))
		}
		out.SourceSize, out.DestSize = decision.SourceSize, decision.DestSize
		if decision.KeptOriginal {
			out.KeptOriginal = true
			logging.WithContext(services.WithStage(ctx, stageSizeGuard), p.logger).Info("output file is larger, copied original",
				logging.String("dest", job.Dest),
				logging.Bytes("source_size", decision.SourceSize),
				logging.Bytes("output_size", decision.DestSize),
				logging.String(logging.FieldEventType, "kept_original"),
			)
		}
	} else if info, err := os.Stat(job.Dest); err == nil {
		out.DestSize = info.Size()
		if srcInfo, err := os.Stat(job.Source); err == nil {
			out.SourceSize = srcInfo.Size()
		}
	}

	return out
}
