package logging

import (
	"context"
	"log/slog"

	"albumpress/internal/services"
)

// Keys shared by every record albumpress writes. The logs command and the
// console handler rely on them.
const (
	FieldComponent = "component"
	FieldRunID     = "run_id"
	FieldJob       = "job"
	FieldStage     = "stage"
	FieldEventType = "event_type"
	FieldErrorHint = "error_hint"
	FieldImpact    = "impact"
)

// ContextFields returns the run, job and stage stored on ctx, in that order.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	var fields []slog.Attr
	add := func(key, value string, ok bool) {
		if ok {
			fields = append(fields, slog.String(key, value))
		}
	}
	id, ok := services.RunIDFromContext(ctx)
	add(FieldRunID, id, ok)
	job, ok := services.JobFromContext(ctx)
	add(FieldJob, job, ok)
	stage, ok := services.StageFromContext(ctx)
	add(FieldStage, stage, ok)
	return fields
}

// WithContext binds the fields of ctx to logger.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	if fields := ContextFields(ctx); len(fields) > 0 {
		return logger.With(toArgs(fields)...)
	}
	return logger
}
