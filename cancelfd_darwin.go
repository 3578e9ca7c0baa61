//go:build darwin

package eventmux

import (
	"syscall"
)

// newCancelFd creates the cancel descriptor pair (Darwin). A nonblocking
// close-on-exec self-pipe stands in for eventfd; the read end is returned
// first.
func newCancelFd() (int, int, error) {
	var fds [2]int
	if err := syscall.Pipe(fds[:]); err != nil {
		return 0, 0, err
	}

	cleanup := func() {
		syscall.Close(fds[0])
		syscall.Close(fds[1])
	}

	syscall.CloseOnExec(fds[0])
	syscall.CloseOnExec(fds[1])

	if err := syscall.SetNonblock(fds[0], true); err != nil {
		cleanup()
		return 0, 0, err
	}
	if err := syscall.SetNonblock(fds[1], true); err != nil {
		cleanup()
		return 0, 0, err
	}

	return fds[0], fds[1], nil
}

// closeCancelFd releases both ends of the pipe.
func closeCancelFd(r, w int) {
	_ = syscall.Close(r)
	_ = syscall.Close(w)
}
