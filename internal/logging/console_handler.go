package logging

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
)

// consoleHandler prints one line per record:
//
//	2024-05-01 10:00:00 INFO [pipeline] /src/a.jpg (transcode): message key=value
//
// run_id and event_type only appear at debug level.
type consoleHandler struct {
	mu        *sync.Mutex
	w         io.Writer
	level     *slog.LevelVar
	prefix    string
	bound     []field
	addSource bool
}

type field struct {
	key   string
	value slog.Value
}

func newConsoleHandler(w io.Writer, lvl *slog.LevelVar, addSource bool) slog.Handler {
	return &consoleHandler{mu: &sync.Mutex{}, w: w, level: lvl, addSource: addSource}
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *consoleHandler) Handle(_ context.Context, r slog.Record) error {
	fields := append([]field(nil), h.bound...)
	r.Attrs(func(a slog.Attr) bool {
		fields = appendAttr(fields, h.prefix, a)
		return true
	})

	var component, job, stage string
	tail := make([]field, 0, len(fields))
	seen := make(map[string]int, len(fields))
	for _, f := range fields {
		switch f.key {
		case FieldComponent:
			component = attrString(f.value)
			continue
		case FieldJob:
			job = attrString(f.value)
			continue
		case FieldStage:
			stage = attrString(f.value)
			continue
		case FieldRunID, FieldEventType:
			if r.Level >= slog.LevelInfo {
				continue
			}
		}
		// Later values replace earlier ones but keep the first position.
		if i, ok := seen[f.key]; ok {
			tail[i].value = f.value
			continue
		}
		seen[f.key] = len(tail)
		tail = append(tail, f)
	}

	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	var b strings.Builder
	b.WriteString(formatTimestamp(ts))
	b.WriteByte(' ')
	b.WriteString(levelLabel(r.Level))
	if component != "" {
		b.WriteString(" [" + component + "]")
	}
	if job != "" {
		b.WriteString(" " + job)
	}
	if stage != "" {
		b.WriteString(" (" + stage + ")")
	}
	if job != "" || stage != "" {
		b.WriteByte(':')
	}
	msg := strings.TrimSpace(r.Message)
	if msg == "" {
		msg = "(no message)"
	}
	b.WriteString(" " + msg)
	for _, f := range tail {
		b.WriteString(" " + f.key + "=" + formatValue(f.value))
	}
	if h.addSource {
		if src := r.Source(); src != nil {
			b.WriteString(" @" + filepath.Base(src.File) + ":" + strconv.Itoa(src.Line))
		}
	}
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.bound = append([]field(nil), h.bound...)
	for _, a := range attrs {
		next.bound = appendAttr(next.bound, h.prefix, a)
	}
	return &next
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.prefix = h.prefix + name + "."
	return &next
}

// appendAttr flattens groups into dotted keys.
func appendAttr(dst []field, prefix string, a slog.Attr) []field {
	if a.Equal(slog.Attr{}) {
		return dst
	}
	v := a.Value.Resolve()
	if v.Kind() == slog.KindGroup {
		if a.Key != "" {
			prefix += a.Key + "."
		}
		for _, child := range v.Group() {
			dst = appendAttr(dst, prefix, child)
		}
		return dst
	}
	if a.Key == "" {
		return dst
	}
	return append(dst, field{key: prefix + a.Key, value: v})
}

func levelLabel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return "WARN"
	case level >= slog.LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}
