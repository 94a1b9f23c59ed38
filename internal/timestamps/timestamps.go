// Package timestamps copies creation and modification times from a source
// file onto its transformed output.
//
// Creation (birth) time is read from the platform where the filesystem
// records it and falls back to the modification time otherwise. It can only
// be written on Windows; elsewhere the policies apply to the modification
// time alone.
package timestamps

import (
	"fmt"
	"os"
	"time"

	"albumpress/internal/config"
)

// Times holds the two timestamps the date policies work with.
type Times struct {
	Created  time.Time
	Modified time.Time
}

// Min returns the earlier of the two timestamps.
func (t Times) Min() time.Time {
	if t.Created.Before(t.Modified) {
		return t.Created
	}
	return t.Modified
}

// Max returns the later of the two timestamps.
func (t Times) Max() time.Time {
	if t.Created.After(t.Modified) {
		return t.Created
	}
	return t.Modified
}

// Read returns the creation and modification times of path.
func Read(path string) (Times, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Times{}, err
	}
	times := Times{Created: info.ModTime(), Modified: info.ModTime()}
	if birth, ok := birthTime(path, info); ok {
		times.Created = birth
	}
	return times, nil
}

// Plan returns the times policy would write to the destination. ok is false
// for policies that leave the destination untouched.
func Plan(policy config.DatePolicy, src Times) (created, modified time.Time, ok bool) {
	switch policy {
	case config.DateCopy:
		return src.Created, src.Modified, true
	case config.DateMin:
		v := src.Min()
		return v, v, true
	case config.DateMax:
		v := src.Max()
		return v, v, true
	default:
		return time.Time{}, time.Time{}, false
	}
}

// Apply writes the timestamps chosen by policy from src onto dst. Unknown
// policies are a no-op.
func Apply(policy config.DatePolicy, src, dst string) error {
	if policy == config.DateNone {
		return nil
	}
	srcTimes, err := Read(src)
	if err != nil {
		return fmt.Errorf("read source times: %w", err)
	}
	created, modified, ok := Plan(policy, srcTimes)
	if !ok {
		return nil
	}
	if err := setTimes(dst, created, modified); err != nil {
		return fmt.Errorf("set destination times: %w", err)
	}
	return nil
}

// CanSetCreation reports whether this platform can write creation times.
func CanSetCreation() bool {
	return canSetCreation
}
