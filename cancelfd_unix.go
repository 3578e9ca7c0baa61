//go:build linux || darwin

package eventmux

import (
	"encoding/binary"

	"golang.org/x/sys/unix"
)

// cancelWrite makes the cancel descriptor readable. An eight byte counter
// value satisfies eventfd and is harmless for a pipe.
func cancelWrite(fd int) error {
	var buf [8]byte
	binary.NativeEndian.PutUint64(buf[:], 1)
	for {
		_, err := unix.Write(fd, buf[:])
		switch err {
		case unix.EINTR:
			continue
		case unix.EAGAIN:
			// Saturated, so the descriptor is already readable.
			return nil
		default:
			return err
		}
	}
}

// cancelDrain empties the cancel descriptor so a stale byte cannot wake a
// later armed wait. The descriptor is nonblocking; draining never sleeps.
func cancelDrain(fd int) {
	var buf [8]byte
	for {
		if _, err := unix.Read(fd, buf[:]); err != unix.EINTR && err != nil {
			return
		}
	}
}
