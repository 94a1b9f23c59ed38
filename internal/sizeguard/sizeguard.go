// Package sizeguard restores the original file when a transform made it
// larger.
package sizeguard

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"albumpress/internal/fileutil"
)

// Decision records what the guard saw and did.
type Decision struct {
	SourceSize int64
	DestSize   int64
	// KeptOriginal is true when the destination was replaced by the source.
	KeptOriginal bool
}

// Check compares src and dst. When both exist and dst is strictly larger,
// dst is replaced with a verified copy of src. A missing file on either side
// is not an error and leaves everything untouched.
func Check(src, dst string) (Decision, error) {
	srcInfo, err := os.Stat(src)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Decision{}, nil
		}
		return Decision{}, fmt.Errorf("stat source: %w", err)
	}
	dstInfo, err := os.Stat(dst)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Decision{SourceSize: srcInfo.Size()}, nil
		}
		return Decision{}, fmt.Errorf("stat destination: %w", err)
	}

	decision := Decision{SourceSize: srcInfo.Size(), DestSize: dstInfo.Size()}
	if decision.DestSize <= decision.SourceSize {
		return decision, nil
	}
	if err := fileutil.ReplaceWithVerifiedCopy(src, dst); err != nil {
		return decision, fmt.Errorf("restore original: %w", err)
	}
	decision.KeptOriginal = true
	return decision, nil
}
