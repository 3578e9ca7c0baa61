//go:build linux

package assetfd

import (
	"io"

	"golang.org/x/sys/unix"
)

// materialize copies data into an anonymous in-memory file and returns a
// descriptor positioned at the start. The name is advisory.
func materialize(name string, data []byte) (int, error) {
	fd, err := unix.MemfdCreate(name, unix.MFD_CLOEXEC)
	if err != nil {
		return -1, err
	}
	for off := 0; off < len(data); {
		n, err := unix.Write(fd, data[off:])
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			_ = unix.Close(fd)
			return -1, err
		}
		off += n
	}
	if _, err := unix.Seek(fd, 0, io.SeekStart); err != nil {
		_ = unix.Close(fd)
		return -1, err
	}
	return fd, nil
}
