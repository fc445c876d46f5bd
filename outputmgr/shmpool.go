package outputmgr

import (
	"image"

	"golang.org/x/sys/unix"
)

// CursorPlane is the software-cursor backing buffer for one output,
// allocated the same way a client shm pool is (temp file + mmap), but
// generalized to golang.org/x/sys/unix's memfd_create so no on-disk
// tmpfile is needed.
type CursorPlane struct {
	fd     int
	data   []byte
	Size   image.Point
	Stride int
}

// NewCursorPlane allocates an ARGB8888 buffer of the given size.
func NewCursorPlane(size image.Point) (*CursorPlane, error) {
	stride := size.X * 4
	length := stride * size.Y
	if length <= 0 {
		return &CursorPlane{Size: size, Stride: stride}, nil
	}

	fd, err := unix.MemfdCreate("wlcompose-cursor", unix.MFD_CLOEXEC)
	if err != nil {
		return nil, err
	}
	if err := unix.Ftruncate(fd, int64(length)); err != nil {
		unix.Close(fd)
		return nil, err
	}
	data, err := unix.Mmap(fd, 0, length, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		unix.Close(fd)
		return nil, err
	}

	return &CursorPlane{fd: fd, data: data, Size: size, Stride: stride}, nil
}

// Pixels exposes the mapped buffer for the renderer to composite into.
func (c *CursorPlane) Pixels() []byte { return c.data }

// Close unmaps and releases the backing memfd.
func (c *CursorPlane) Close() error {
	if c.data == nil {
		return nil
	}
	err := unix.Munmap(c.data)
	c.data = nil
	unix.Close(c.fd)
	return err
}
