package wire

import (
	"net"
	"os"
)

// ConnHandler processes one fully-accepted client connection until it
// disconnects. It owns the connection's lifetime and must close it
// before returning.
type ConnHandler func(conn net.Conn)

// Listener accepts connections for one of the two custom protocols
// (spec.md §6) on a Unix domain socket, handing each accepted
// connection to handler.
type Listener struct {
	ln      *net.UnixListener
	handler ConnHandler
}

// Listen binds path, unlinking any stale socket file left by a previous
// run first, the same unlink-then-bind sequence every Wayland display
// socket uses.
func Listen(path string, handler ConnHandler) (*Listener, error) {
	os.Remove(path)
	addr, err := net.ResolveUnixAddr("unix", path)
	if err != nil {
		return nil, err
	}
	ln, err := net.ListenUnix("unix", addr)
	if err != nil {
		return nil, err
	}
	return &Listener{ln: ln, handler: handler}, nil
}

// FD exposes the listening socket's descriptor so it can be registered
// as a Source in a Loop (or folded into a backend's own poll(2) loop via
// backend.Backend.AddSource).
func (l *Listener) FD() (int, error) {
	sc, err := l.ln.SyscallConn()
	if err != nil {
		return 0, err
	}
	var fd int
	if err := sc.Control(func(f uintptr) { fd = int(f) }); err != nil {
		return 0, err
	}
	return fd, nil
}

// Accept is a Source.OnReady callback: it accepts exactly one pending
// connection and dispatches it to handler on its own goroutine, since
// handler's ReadMessage loop blocks for the connection's lifetime.
// handler implementations must synchronize their own access to any
// state also reachable from the single-threaded dispatch loop (spec.md
// §5); see keybind.ServeConn/mousegrab.ServeConn's guard parameter.
func (l *Listener) Accept() {
	conn, err := l.ln.Accept()
	if err != nil {
		return
	}
	go l.handler(conn)
}

// Close stops accepting new connections.
func (l *Listener) Close() error { return l.ln.Close() }
