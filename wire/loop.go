package wire

import (
	"golang.org/x/sys/unix"
)

// Source is one fd the loop polls for readability.
type Source struct {
	FD      int
	OnReady func()
}

// Loop multiplexes the backend's event fd alongside the custom
// protocols' listening socket fds with a single poll(2) call (accepted
// connections are read on their own goroutines, see Listener.Accept), matching
// spec.md §5's single-threaded event loop model ("no component yields
// mid-operation; a handler runs to completion").
type Loop struct {
	sources []Source
}

func NewLoop() *Loop { return &Loop{} }

// Add registers fd for readability polling. Returns the index, which
// Remove needs.
func (l *Loop) Add(s Source) int {
	l.sources = append(l.sources, s)
	return len(l.sources) - 1
}

// Remove drops the source previously returned by Add at idx.
func (l *Loop) Remove(idx int) {
	if idx < 0 || idx >= len(l.sources) {
		return
	}
	l.sources = append(l.sources[:idx], l.sources[idx+1:]...)
}

// RunOnce blocks up to timeoutMillis (-1 for indefinitely) for any
// source to become readable, then calls every ready source's OnReady in
// registration order. Returns the number of sources that were ready.
func (l *Loop) RunOnce(timeoutMillis int) (int, error) {
	if len(l.sources) == 0 {
		return 0, nil
	}
	pfds := make([]unix.PollFd, len(l.sources))
	for i, s := range l.sources {
		pfds[i] = unix.PollFd{Fd: int32(s.FD), Events: unix.POLLIN}
	}

	_, err := unix.Poll(pfds, timeoutMillis)
	if err != nil {
		if err == unix.EINTR {
			return 0, nil
		}
		return 0, err
	}

	ready := 0
	for i, pfd := range pfds {
		if pfd.Revents&(unix.POLLIN|unix.POLLHUP|unix.POLLERR) != 0 {
			ready++
			if l.sources[i].OnReady != nil {
				l.sources[i].OnReady()
			}
		}
	}
	return ready, nil
}
