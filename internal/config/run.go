package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DatePolicy selects how destination timestamps are derived from the source.
type DatePolicy string

const (
	// DateNone leaves destination timestamps as the tools produced them.
	DateNone DatePolicy = ""
	// DateCopy copies creation and modification times independently.
	DateCopy DatePolicy = "copy"
	// DateMin sets both destination times to the earlier source time.
	DateMin DatePolicy = "min"
	// DateMax sets both destination times to the later source time.
	DateMax DatePolicy = "max"
)

// ParseDatePolicy accepts copy, min, max, or an empty string.
func ParseDatePolicy(value string) (DatePolicy, error) {
	switch DatePolicy(strings.ToLower(strings.TrimSpace(value))) {
	case DateNone:
		return DateNone, nil
	case DateCopy:
		return DateCopy, nil
	case DateMin:
		return DateMin, nil
	case DateMax:
		return DateMax, nil
	default:
		return DateNone, fmt.Errorf("unsupported date policy %q (want copy, min or max)", value)
	}
}

// Run describes one batch invocation. It is built once from flags,
// validated, and then shared read-only by every job.
type Run struct {
	SourceRoot     string
	DestRoot       string
	TranscodeArgs  string
	MetadataArgs   string
	Comment        string
	IgnoreExisting bool
	Extensions     []string
	Threads        int
	Date           DatePolicy
	KeepLarger     bool
	Verbose        bool
	VeryVerbose    bool
}

// Validate normalizes the run in place and rejects unusable combinations.
// Root paths become absolute and blank extensions are dropped.
func (r *Run) Validate() error {
	if strings.TrimSpace(r.SourceRoot) == "" {
		return errors.New("--src is required")
	}
	if strings.TrimSpace(r.DestRoot) == "" {
		return errors.New("--dst is required")
	}
	src, err := expandPath(r.SourceRoot)
	if err != nil {
		return fmt.Errorf("--src: %w", err)
	}
	dst, err := expandPath(r.DestRoot)
	if err != nil {
		return fmt.Errorf("--dst: %w", err)
	}
	r.SourceRoot, r.DestRoot = src, dst
	if r.SourceRoot == r.DestRoot {
		return errors.New("--src and --dst must differ")
	}
	if rel, err := filepath.Rel(r.SourceRoot, r.DestRoot); err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
		return errors.New("--dst must not be inside --src")
	}

	exts := make([]string, 0, len(r.Extensions))
	for _, ext := range r.Extensions {
		ext = strings.TrimSpace(ext)
		if ext != "" {
			exts = append(exts, ext)
		}
	}
	if len(exts) == 0 {
		return errors.New("--ext requires at least one extension")
	}
	r.Extensions = exts

	if r.Threads <= 0 {
		return fmt.Errorf("--thread must be positive, got %d", r.Threads)
	}
	if _, err := ParseDatePolicy(string(r.Date)); err != nil {
		return fmt.Errorf("--date: %w", err)
	}
	if r.VeryVerbose {
		r.Verbose = true
	}
	return nil
}

// NeedsFFmpeg reports whether the transcoder will be invoked.
func (r Run) NeedsFFmpeg() bool { return strings.TrimSpace(r.TranscodeArgs) != "" }

// NeedsExifTool reports whether the metadata tool will be invoked.
func (r Run) NeedsExifTool() bool {
	return strings.TrimSpace(r.MetadataArgs) != "" || r.Comment != ""
}

// PassThrough reports whether files are copied unchanged because no template is set.
func (r Run) PassThrough() bool {
	return !r.NeedsFFmpeg() && strings.TrimSpace(r.MetadataArgs) == ""
}
