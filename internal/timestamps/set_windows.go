//go:build windows

package timestamps

import (
	"time"

	"golang.org/x/sys/windows"
)

const canSetCreation = true

func setTimes(path string, created, modified time.Time) error {
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return err
	}
	h, err := windows.CreateFile(p,
		windows.FILE_WRITE_ATTRIBUTES,
		windows.FILE_SHARE_READ|windows.FILE_SHARE_WRITE,
		nil,
		windows.OPEN_EXISTING,
		windows.FILE_FLAG_BACKUP_SEMANTICS,
		0,
	)
	if err != nil {
		return err
	}
	defer windows.CloseHandle(h)

	ctime := windows.NsecToFiletime(created.UnixNano())
	mtime := windows.NsecToFiletime(modified.UnixNano())
	// nil access time leaves it unchanged.
	return windows.SetFileTime(h, &ctime, nil, &mtime)
}
