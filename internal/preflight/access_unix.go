//go:build unix

package preflight

import "golang.org/x/sys/unix"

func checkAccess(path string, mode AccessMode) error {
	bits := uint32(unix.R_OK | unix.X_OK)
	if mode == AccessWrite {
		bits |= unix.W_OK
	}
	return unix.Access(path, bits)
}
