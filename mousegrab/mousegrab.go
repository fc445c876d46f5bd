// Package mousegrab implements the cursor-override (mousegrabber)
// custom protocol of spec.md §4.8/§6: a single privileged client can
// dictate the cursor image and steal pointer input from regular clients.
package mousegrab

// ErrorCode is a protocol-level error surfaced to the requesting client
// and nothing else (spec.md §7 "Protocol error").
type ErrorCode int

const (
	ErrAlreadyGrabbed ErrorCode = iota
	ErrNotGrabbed
)

func (e ErrorCode) String() string {
	switch e {
	case ErrAlreadyGrabbed:
		return "already_grabbed"
	case ErrNotGrabbed:
		return "not_grabbed"
	default:
		return "unknown-mousegrab-error"
	}
}

// Client is the bound grabber's resource: the thing the singleton sends
// events to.
type Client interface {
	MouseMoved(x, y int32)
	MouseButton(x, y int32, pressed bool, button uint32)
}

// CursorImage is the subset of cursor.Cursor the grabber needs: read the
// image currently in effect (to restore on release) and set the
// compositor override.
type CursorImage interface {
	Image() string
	SetCompositorImage(name string)
	SetLockSoftwareCursors(bool)
}

// Grabber is the singleton of spec.md §3 Cursor-override: "the single
// grabber-client resource (or null) and the previously set cursor image".
// restored records the image in effect when the grab began; Release and
// ReleaseForDisconnect restore the cursor by clearing the compositor
// override, which hands the image back to the client-requested or
// default one, rather than by writing restored back.
type Grabber struct {
	cursor   CursorImage
	client   Client
	restored string
}

func New(cursor CursorImage) *Grabber {
	return &Grabber{cursor: cursor}
}

// Bound reports whether a client currently holds the grab, satisfying
// cursor.Overrider.
func (g *Grabber) Bound() bool { return g.client != nil }

// Grab implements the grab(cursor_name) request.
func (g *Grabber) Grab(client Client, cursorName string) (ErrorCode, bool) {
	if g.client != nil {
		return ErrAlreadyGrabbed, false
	}
	g.client = client
	g.restored = g.cursor.Image()
	g.cursor.SetCompositorImage(cursorName)
	g.cursor.SetLockSoftwareCursors(true)
	return 0, true
}

// Release implements the release() request. caller must be the current
// grabber.
func (g *Grabber) Release(caller Client) (ErrorCode, bool) {
	if g.client == nil || g.client != caller {
		return ErrNotGrabbed, false
	}
	g.cursor.SetCompositorImage("")
	g.cursor.SetLockSoftwareCursors(false)
	g.client = nil
	g.restored = ""
	return 0, true
}

// ReleaseForDisconnect forcibly releases an abruptly disconnected
// grabber client, restoring the cursor exactly as Release would.
func (g *Grabber) ReleaseForDisconnect(client Client) {
	if g.client != client {
		return
	}
	g.cursor.SetCompositorImage("")
	g.cursor.SetLockSoftwareCursors(false)
	g.client = nil
	g.restored = ""
}

// NotifyMotion streams the new cursor coordinates to the bound client,
// satisfying cursor.Overrider (spec.md §4.8 "motion events stream
// coordinates to the grabber client").
func (g *Grabber) NotifyMotion(x, y int32) {
	if g.client == nil {
		return
	}
	g.client.MouseMoved(x, y)
}

// NotifyButton streams a button event to the bound client, satisfying
// cursor.Overrider (spec.md §4.8 "button events stream (x, y,
// pressed/released, button)").
func (g *Grabber) NotifyButton(x, y int32, pressed bool, button uint32) (consumed bool) {
	if g.client == nil {
		return false
	}
	g.client.MouseButton(x, y, pressed, button)
	return true
}
