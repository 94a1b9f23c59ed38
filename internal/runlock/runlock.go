// Package runlock keeps two batches from writing into the same destination
// tree at once.
package runlock

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrLocked reports that another run holds the destination.
var ErrLocked = errors.New("destination is locked by another run")

// Lock is a held per-destination lock.
type Lock struct {
	path string
	dest string
	lock *flock.Flock
}

// PathFor returns the lock file used for destRoot inside lockDir.
func PathFor(lockDir, destRoot string) string {
	abs, err := filepath.Abs(destRoot)
	if err != nil {
		abs = destRoot
	}
	sum := sha256.Sum256([]byte(filepath.Clean(abs)))
	return filepath.Join(lockDir, hex.EncodeToString(sum[:])[:16]+".lock")
}

// Acquire takes the lock for destRoot without blocking.
func Acquire(lockDir, destRoot string) (*Lock, error) {
	if err := os.MkdirAll(lockDir, 0o755); err != nil {
		return nil, fmt.Errorf("create lock dir: %w", err)
	}
	path := PathFor(lockDir, destRoot)
	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock %s: %w", path, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s (lock %s)", ErrLocked, destRoot, path)
	}
	return &Lock{path: path, dest: destRoot, lock: fl}, nil
}

// Path is the lock file location.
func (l *Lock) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Release unlocks and removes the lock file. Safe on a nil Lock.
func (l *Lock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	if err := l.lock.Unlock(); err != nil {
		return fmt.Errorf("release lock %s: %w", l.path, err)
	}
	_ = os.Remove(l.path)
	l.lock = nil
	return nil
}
