// Package wire frames the two custom protocols this compositor
// terminates server-side (mousegrabber, keybindings). The core Wayland
// globals' wire format is out of scope per spec.md §6; no retrieved
// example implements the server side of that protocol, only clients, so
// this is a minimal from-scratch framer over encoding/binary rather than
// an adaptation of any one example.
package wire

import (
	"encoding/binary"
	"errors"
	"io"
)

// Message is one decoded wl-wire-shaped request or event: a 4-byte
// object id, a 16-bit opcode, a 16-bit total-length-including-header,
// and an argument payload padded to a 4-byte boundary, matching the
// on-wire layout of every Wayland message.
type Message struct {
	ObjectID uint32
	Opcode   uint16
	Args     []byte
}

var errShortHeader = errors.New("wire: short message header")

// ReadMessage reads one framed message from r.
func ReadMessage(r io.Reader) (Message, error) {
	var hdr [8]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return Message{}, err
	}
	objID := binary.LittleEndian.Uint32(hdr[0:4])
	opcode := binary.LittleEndian.Uint16(hdr[4:6])
	size := binary.LittleEndian.Uint16(hdr[6:8])
	if size < 8 {
		return Message{}, errShortHeader
	}
	args := make([]byte, size-8)
	if len(args) > 0 {
		if _, err := io.ReadFull(r, args); err != nil {
			return Message{}, err
		}
	}
	return Message{ObjectID: objID, Opcode: opcode, Args: args}, nil
}

// WriteMessage frames and writes one message.
func WriteMessage(w io.Writer, m Message) error {
	size := 8 + len(m.Args)
	hdr := make([]byte, 8, size)
	binary.LittleEndian.PutUint32(hdr[0:4], m.ObjectID)
	binary.LittleEndian.PutUint16(hdr[4:6], m.Opcode)
	binary.LittleEndian.PutUint16(hdr[6:8], uint16(size))
	hdr = append(hdr, m.Args...)
	_, err := w.Write(hdr)
	return err
}

// ArgWriter accumulates a message's argument payload in the primitive
// types the two custom protocols actually use (uint32, int32, string).
type ArgWriter struct {
	buf []byte
}

func (a *ArgWriter) Uint32(v uint32) *ArgWriter {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	a.buf = append(a.buf, b[:]...)
	return a
}

func (a *ArgWriter) Int32(v int32) *ArgWriter { return a.Uint32(uint32(v)) }

// String appends a length-prefixed, NUL-terminated, 4-byte-padded
// string, matching the wl_string wire representation.
func (a *ArgWriter) String(s string) *ArgWriter {
	n := uint32(len(s) + 1)
	a.Uint32(n)
	a.buf = append(a.buf, s...)
	a.buf = append(a.buf, 0)
	for len(a.buf)%4 != 0 {
		a.buf = append(a.buf, 0)
	}
	return a
}

func (a *ArgWriter) Bytes() []byte { return a.buf }

// ArgReader walks a decoded message's argument payload.
type ArgReader struct {
	buf []byte
	off int
}

func NewArgReader(buf []byte) *ArgReader { return &ArgReader{buf: buf} }

func (r *ArgReader) Uint32() (uint32, error) {
	if r.off+4 > len(r.buf) {
		return 0, io.ErrUnexpectedEOF
	}
	v := binary.LittleEndian.Uint32(r.buf[r.off : r.off+4])
	r.off += 4
	return v, nil
}

func (r *ArgReader) Int32() (int32, error) {
	v, err := r.Uint32()
	return int32(v), err
}

func (r *ArgReader) String() (string, error) {
	n, err := r.Uint32()
	if err != nil {
		return "", err
	}
	if r.off+int(n) > len(r.buf) {
		return "", io.ErrUnexpectedEOF
	}
	s := string(r.buf[r.off : r.off+int(n)-1]) // drop the NUL terminator
	r.off += int(n)
	for r.off%4 != 0 {
		r.off++
	}
	return s, nil
}
