package render

import "github.com/daaku/swizzle"

// SwizzleARGBToABGR byte-swaps a client's wl_shm ARGB8888 buffer into the
// renderer's native ABGR8888 upload order in place. Grounded on the
// teacher's own shm-format handling in wayland.go, which negotiates
// ShmFormatAbgr8888 against the client's buffer.
func SwizzleARGBToABGR(pixels []byte) {
	swizzle.BGRA(pixels)
}
