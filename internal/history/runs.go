package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"albumpress/internal/batch"
	"albumpress/internal/config"
	"albumpress/internal/pipeline"
	"albumpress/internal/services"
)

// ErrRunNotFound is returned when a run id (or prefix) matches nothing.
var ErrRunNotFound = errors.New("run not found")

// Run is one journaled batch.
type Run struct {
	ID            string
	SourceRoot    string
	DestRoot      string
	Extensions    []string
	Threads       int
	TranscodeArgs string
	MetadataArgs  string
	Comment       string
	StartedAt     time.Time
	FinishedAt    time.Time
	Total         int64
	Processed     int64
	Ignored       int64
	KeptOriginal  int64
	Failed        int64
	NotStarted    int64
	PeakInFlight  int
	Canceled      bool
}

// Finished reports whether FinishRun was recorded for the run.
func (r Run) Finished() bool {
	return !r.FinishedAt.IsZero()
}

// FileOutcome is one journaled file result.
type FileOutcome struct {
	SourcePath   string
	DestPath     string
	Status       pipeline.Status
	Stage        string
	FailureKind  string
	ErrorMessage string
	KeptOriginal bool
	ToolWarnings int
	SourceSize   int64
	DestSize     int64
	Duration     time.Duration
	RecordedAt   time.Time
}

// StartRun journals the beginning of a batch.
func (s *Store) StartRun(ctx context.Context, id string, run config.Run, startedAt time.Time) error {
	err := s.exec(ctx,
		`INSERT INTO runs (
            id, source_root, dest_root, extensions, threads,
            transcode_args, metadata_args, comment, started_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id,
		run.SourceRoot,
		run.DestRoot,
		strings.Join(run.Extensions, ","),
		run.Threads,
		nullableString(run.TranscodeArgs),
		nullableString(run.MetadataArgs),
		nullableString(run.Comment),
		formatTime(startedAt),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// RecordOutcome journals one file result. It satisfies batch.Recorder.
func (s *Store) RecordOutcome(ctx context.Context, runID string, o pipeline.Outcome) error {
	var message string
	if o.Cause != nil {
		message = o.Cause.Error()
	}
	err := s.exec(ctx,
		`INSERT INTO file_outcomes (
            run_id, source_path, dest_path, status, stage, failure_kind, error_message,
            kept_original, tool_warnings, source_size, dest_size, duration_ms, recorded_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID,
		o.Job.Source,
		nullableString(o.Job.Dest),
		string(o.Status),
		nullableString(o.Stage),
		nullableString(services.FailureKind(o.Cause)),
		nullableString(message),
		boolToInt(o.KeptOriginal),
		o.ToolWarnings,
		o.SourceSize,
		o.DestSize,
		o.Duration.Milliseconds(),
		formatTime(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("insert outcome: %w", err)
	}
	return nil
}

// FinishRun stores the final counters of a batch.
func (s *Store) FinishRun(ctx context.Context, id string, stats batch.Stats, finishedAt time.Time) error {
	err := s.exec(ctx,
		`UPDATE runs SET
            finished_at = ?, total = ?, processed = ?, ignored = ?, kept_original = ?,
            failed = ?, not_started = ?, peak_in_flight = ?, canceled = ?
        WHERE id = ?`,
		formatTime(finishedAt),
		stats.Total,
		stats.Processed,
		stats.Ignored,
		stats.KeptOriginal,
		stats.Failed,
		stats.NotStarted,
		stats.PeakInFlight,
		boolToInt(stats.Canceled),
		id,
	)
	if err != nil {
		return fmt.Errorf("update run: %w", err)
	}
	return nil
}

const runColumns = "id, source_root, dest_root, extensions, threads, transcode_args, metadata_args, comment, started_at, finished_at, total, processed, ignored, kept_original, failed, not_started, peak_in_flight, canceled"

// ListRuns returns the most recent runs first. A limit <= 0 returns all.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY started_at DESC, id`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// GetRun resolves a full run id or a unique prefix of one.
func (s *Store) GetRun(ctx context.Context, idOrPrefix string) (Run, error) {
	idOrPrefix = strings.TrimSpace(idOrPrefix)
	if idOrPrefix == "" {
		return Run{}, fmt.Errorf("%w: empty id", ErrRunNotFound)
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM runs WHERE id = ? OR id LIKE ? ESCAPE '\' ORDER BY id LIMIT 2`,
		idOrPrefix, escapeLike(idOrPrefix)+"%")
	if err != nil {
		return Run{}, fmt.Errorf("get run: %w", err)
	}
	defer rows.Close()

	var matches []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return Run{}, fmt.Errorf("scan run: %w", err)
		}
		if run.ID == idOrPrefix {
			return run, nil
		}
		matches = append(matches, run)
	}
	if err := rows.Err(); err != nil {
		return Run{}, err
	}
	switch len(matches) {
	case 0:
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, idOrPrefix)
	case 1:
		return matches[0], nil
	default:
		return Run{}, fmt.Errorf("run id prefix %q is ambiguous", idOrPrefix)
	}
}

// RunOutcomes lists the file results of a run in recording order.
func (s *Store) RunOutcomes(ctx context.Context, runID string) ([]FileOutcome, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT source_path, dest_path, status, stage, failure_kind, error_message,
                kept_original, tool_warnings, source_size, dest_size, duration_ms, recorded_at
         FROM file_outcomes WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("list outcomes: %w", err)
	}
	defer rows.Close()

	var out []FileOutcome
	for rows.Next() {
		var (
			o           FileOutcome
			dest        sql.NullString
			status      string
			stage       sql.NullString
			kind        sql.NullString
			message     sql.NullString
			kept        int
			srcSize     sql.NullInt64
			dstSize     sql.NullInt64
			durationMS  int64
			recordedRaw string
		)
		if err := rows.Scan(&o.SourcePath, &dest, &status, &stage, &kind, &message,
			&kept, &o.ToolWarnings, &srcSize, &dstSize, &durationMS, &recordedRaw); err != nil {
			return nil, fmt.Errorf("scan outcome: %w", err)
		}
		o.DestPath = dest.String
		o.Status = pipeline.Status(status)
		o.Stage = stage.String
		o.FailureKind = kind.String
		o.ErrorMessage = message.String
		o.KeptOriginal = kept != 0
		o.SourceSize = srcSize.Int64
		o.DestSize = dstSize.Int64
		o.Duration = time.Duration(durationMS) * time.Millisecond
		if t, err := parseTimeString(recordedRaw); err == nil {
			o.RecordedAt = t
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func scanRun(scanner interface{ Scan(dest ...any) error }) (Run, error) {
	var (
		run         Run
		extensions  string
		transcode   sql.NullString
		metadata    sql.NullString
		comment     sql.NullString
		startedRaw  string
		finishedRaw sql.NullString
		canceled    int
	)
	if err := scanner.Scan(
		&run.ID,
		&run.SourceRoot,
		&run.DestRoot,
		&extensions,
		&run.Threads,
		&transcode,
		&metadata,
		&comment,
		&startedRaw,
		&finishedRaw,
		&run.Total,
		&run.Processed,
		&run.Ignored,
		&run.KeptOriginal,
		&run.Failed,
		&run.NotStarted,
		&run.PeakInFlight,
		&canceled,
	); err != nil {
		return Run{}, err
	}
	if extensions != "" {
		run.Extensions = strings.Split(extensions, ",")
	}
	run.TranscodeArgs = transcode.String
	run.MetadataArgs = metadata.String
	run.Comment = comment.String
	run.Canceled = canceled != 0
	if t, err := parseTimeString(startedRaw); err == nil {
		run.StartedAt = t
	}
	if finishedRaw.Valid {
		if t, err := parseTimeString(finishedRaw.String); err == nil {
			run.FinishedAt = t
		}
	}
	return run, nil
}

func escapeLike(value string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(value)
}
