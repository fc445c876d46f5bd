package keybind

import (
	"io"
	"log"
	"net"

	"github.com/friedelschoen/wlcompose/wire"
)

// Request opcodes for the keybindings custom protocol (spec.md §6). The
// connection accepted on the socket is itself the one privileged
// controller client BindController describes, so there is no separate
// bind request: binding happens implicitly on connect, unbinding on
// disconnect.
const (
	opRegisterKey uint16 = iota
	opClearKeys
)

// opKey is the only event opcode: a filtered/forwarded key delivered to
// the bound controller.
const opKey uint16 = 0

// connSink adapts one controller connection into a Sink, framing each
// delivered key as a wire event.
type connSink struct {
	conn net.Conn
}

func (s *connSink) Key(time, keycode uint32, pressed bool, mods uint32) {
	var pressedVal uint32
	if pressed {
		pressedVal = 1
	}
	args := (&wire.ArgWriter{}).Uint32(time).Uint32(keycode).Uint32(pressedVal).Uint32(mods).Bytes()
	wire.WriteMessage(s.conn, wire.Message{Opcode: opKey, Args: args})
}

// ServeConn binds conn's client as f's controller for as long as conn
// stays open, decoding register_key/clear_keys requests, then unbinds on
// disconnect (spec.md §4.7's controller lifetime). focused reports
// whether this controller currently owns keyboard focus, per
// BindController's hook contract. guard serializes every call into f
// against the single-threaded dispatch loop that also calls f.HandleKey
// from backend input events (spec.md §5); ServeConn itself never touches
// f outside a guard call.
func ServeConn(conn net.Conn, f *Filter, focused func() bool, guard func(func()), logger *log.Logger) {
	defer conn.Close()

	sink := &connSink{conn: conn}
	guard(func() { f.BindController(sink, focused) })
	defer guard(f.Unbind)

	for {
		msg, err := wire.ReadMessage(conn)
		if err != nil {
			if err != io.EOF && logger != nil {
				logger.Printf("keybind: connection closed: %v", err)
			}
			return
		}

		r := wire.NewArgReader(msg.Args)
		switch msg.Opcode {
		case opRegisterKey:
			keycode, err1 := r.Uint32()
			mods, err2 := r.Uint32()
			if err1 != nil || err2 != nil {
				continue
			}
			guard(func() { f.RegisterKey(keycode, mods) })
		case opClearKeys:
			guard(f.ClearKeys)
		}
	}
}
