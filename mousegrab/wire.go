package mousegrab

import (
	"io"
	"log"
	"net"

	"github.com/friedelschoen/wlcompose/wire"
)

// Request opcodes for the mousegrabber custom protocol (spec.md §6).
const (
	opGrab uint16 = iota
	opRelease
)

// Event opcodes.
const (
	opMouseMoved uint16 = iota
	opMouseButton
	opError
)

// connClient adapts one grabber connection into a Client, framing each
// streamed event as a wire event.
type connClient struct {
	conn net.Conn
}

func (c *connClient) MouseMoved(x, y int32) {
	args := (&wire.ArgWriter{}).Int32(x).Int32(y).Bytes()
	wire.WriteMessage(c.conn, wire.Message{Opcode: opMouseMoved, Args: args})
}

func (c *connClient) MouseButton(x, y int32, pressed bool, button uint32) {
	var pressedVal uint32
	if pressed {
		pressedVal = 1
	}
	args := (&wire.ArgWriter{}).Int32(x).Int32(y).Uint32(pressedVal).Uint32(button).Bytes()
	wire.WriteMessage(c.conn, wire.Message{Opcode: opMouseButton, Args: args})
}

func writeError(conn net.Conn, code ErrorCode) {
	args := (&wire.ArgWriter{}).Uint32(uint32(code)).Bytes()
	wire.WriteMessage(conn, wire.Message{Opcode: opError, Args: args})
}

// ServeConn decodes grab()/release() requests from conn against g,
// forcibly releasing the grab on disconnect if this client still held it
// (spec.md §4.8). guard serializes every call into g against the
// single-threaded dispatch loop that also calls g.NotifyMotion/
// NotifyButton from cursor motion/button events (spec.md §5); ServeConn
// itself never touches g outside a guard call.
func ServeConn(conn net.Conn, g *Grabber, guard func(func()), logger *log.Logger) {
	defer conn.Close()

	client := &connClient{conn: conn}
	defer guard(func() { g.ReleaseForDisconnect(client) })

	for {
		msg, err := wire.ReadMessage(conn)
		if err != nil {
			if err != io.EOF && logger != nil {
				logger.Printf("mousegrab: connection closed: %v", err)
			}
			return
		}

		r := wire.NewArgReader(msg.Args)
		switch msg.Opcode {
		case opGrab:
			name, err := r.String()
			if err != nil {
				continue
			}
			var code ErrorCode
			var ok bool
			guard(func() { code, ok = g.Grab(client, name) })
			if !ok {
				writeError(conn, code)
			}
		case opRelease:
			var code ErrorCode
			var ok bool
			guard(func() { code, ok = g.Release(client) })
			if !ok {
				writeError(conn, code)
			}
		}
	}
}
