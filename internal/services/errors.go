package services

import (
	"errors"
	"strings"
)

// Markers classify job failures. Match them with errors.Is.
var (
	ErrExternalTool  = errors.New("external tool error")
	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
	ErrNotFound      = errors.New("not found")
	ErrIO            = errors.New("file i/o error")
	ErrTransient     = errors.New("transient failure")
)

// StepError is a failure inside one pipeline step. It matches both its
// marker and its cause.
type StepError struct {
	Marker    error
	Stage     string
	Operation string
	Detail    string
	Err       error
}

func (e *StepError) Error() string {
	var b strings.Builder
	b.WriteString(e.Marker.Error())
	n := 0
	for _, part := range []string{e.Stage, e.Operation, e.Detail} {
		if part = strings.TrimSpace(part); part != "" {
			b.WriteString(": ")
			b.WriteString(part)
			n++
		}
	}
	if n == 0 {
		b.WriteString(": service failure")
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *StepError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Marker}
	}
	return []error{e.Marker, e.Err}
}

// Wrap tags err with a marker and the step it came from. A nil marker
// counts as ErrTransient; err may be nil.
func Wrap(marker error, stage, operation, detail string, err error) error {
	if marker == nil {
		marker = ErrTransient
	}
	return &StepError{Marker: marker, Stage: stage, Operation: operation, Detail: detail, Err: err}
}

// FailureKind maps a job error to the short cause label recorded in run
// history and the summary.
func FailureKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrExternalTool):
		return "tool"
	case errors.Is(err, ErrIO):
		return "io"
	case errors.Is(err, ErrValidation), errors.Is(err, ErrConfiguration), errors.Is(err, ErrNotFound):
		return "config"
	default:
		return "other"
	}
}
