//go:build !unix

package preflight

import (
	"errors"
	"io"
	"os"
)

// Without access(2) a directory listing is the closest read probe; write
// access surfaces on the first file the batch creates.
func checkAccess(path string, _ AccessMode) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.Readdirnames(1); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
