//go:build linux

package eventmux

import (
	"golang.org/x/sys/unix"
)

// newCancelFd creates the cancel descriptor pair (Linux). A single
// nonblocking eventfd serves as both the read and write ends.
func newCancelFd() (int, int, error) {
	fd, err := unix.Eventfd(0, unix.EFD_CLOEXEC|unix.EFD_NONBLOCK)
	return fd, fd, err
}

// closeCancelFd releases the pair; both ends are the one eventfd.
func closeCancelFd(r, _ int) {
	_ = unix.Close(r)
}
