//go:build !windows

package timestamps

import (
	"os"
	"time"
)

const canSetCreation = false

// Birth time is immutable on these platforms; only the modification time is
// written. A zero access time leaves it unchanged.
func setTimes(path string, _ time.Time, modified time.Time) error {
	return os.Chtimes(path, time.Time{}, modified)
}
