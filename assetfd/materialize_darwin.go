//go:build darwin

package assetfd

import (
	"io"
	"os"

	"golang.org/x/sys/unix"
)

// materialize copies data into an unlinked temporary file and returns a
// descriptor positioned at the start. There is no anonymous memory file on
// this platform, so the advisory name goes unused.
func materialize(_ string, data []byte) (int, error) {
	f, err := os.CreateTemp(``, `asset-`)
	if err != nil {
		return -1, err
	}
	defer f.Close()
	if err := os.Remove(f.Name()); err != nil {
		return -1, err
	}
	if _, err := f.Write(data); err != nil {
		return -1, err
	}
	fd, err := unix.FcntlInt(f.Fd(), unix.F_DUPFD_CLOEXEC, 0)
	if err != nil {
		return -1, err
	}
	if _, err := unix.Seek(fd, 0, io.SeekStart); err != nil {
		_ = unix.Close(fd)
		return -1, err
	}
	return fd, nil
}
