// Package server wires the view registry, output registry, seat,
// cursor, and the two custom-protocol singletons into the single
// backend.Listener spec.md §3 Server describes, and runs the
// single-threaded event loop of spec.md §5.
package server

import (
	"image"
	"log"
	"net"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/friedelschoen/wlcompose/backend"
	"github.com/friedelschoen/wlcompose/cursor"
	"github.com/friedelschoen/wlcompose/handle"
	"github.com/friedelschoen/wlcompose/keybind"
	"github.com/friedelschoen/wlcompose/layershell"
	"github.com/friedelschoen/wlcompose/mousegrab"
	"github.com/friedelschoen/wlcompose/outputmgr"
	"github.com/friedelschoen/wlcompose/render"
	"github.com/friedelschoen/wlcompose/seat"
	"github.com/friedelschoen/wlcompose/view"
	"github.com/friedelschoen/wlcompose/wire"
)

// Server is the process-wide state bundle of spec.md §3 Server.
type Server struct {
	Backend backend.Backend
	Logger  *log.Logger

	Views   *view.Registry
	Outputs *outputmgr.Registry
	Seat    *seat.Seat
	Cursor  *cursor.Cursor

	Keybind   *keybind.Filter
	Mousegrab *mousegrab.Grabber

	// protocolMu serializes every call into Keybind/Mousegrab: the
	// single-threaded backend-input path (handleKey/handleButton/
	// handleMotion) and the keybindings/mousegrabber connection
	// goroutines (keybind.ServeConn/mousegrab.ServeConn) both reach these
	// two singletons, and spec.md §5's "no component yields mid-
	// operation" guarantee only holds for the backend-input path on its
	// own; this lock extends it to the protocol sockets too.
	protocolMu sync.Mutex

	// grabbable indexes every live view by a cursor.Grabbable weak ref, so
	// an interactive move/resize started on one view cannot outlive that
	// view's destruction (spec.md §3 Grab record invariant).
	grabbable   *handle.Slab[cursor.Grabbable]
	grabRefByView map[*view.View]handle.Ref[cursor.Grabbable]

	// activeOutput is the Server's weak "active output" reference, the
	// output most recently containing the cursor (spec.md §3 Output).
	activeOutput *outputmgr.Output

	// cursorSprite is the software-cursor render target shared across
	// outputs (render/frame.go's Drawable.Geo rectangles are already
	// passed straight through in output-layout coordinates with no
	// per-output origin subtraction, so one shared sprite matches the
	// rest of the render pipeline's single-coordinate-space
	// simplification). nil if the plane failed to allocate.
	cursorSprite      *render.CursorSprite
	cursorSpriteImage string
	cursorSpriteScale float64

	Debug bool

	// ShutdownRequested is set once the Ctrl+Shift+Escape escape hatch
	// fires. Nothing in this package or in cmd/compositor reads it:
	// setting it does not stop Run or the backend's event loop.
	ShutdownRequested bool
}

// New builds a Server around backend b, wiring the cursor, seat and
// custom-protocol singletons exactly as spec.md §3 describes them.
func New(b backend.Backend, logger *log.Logger, defaultCursorImage string, debug bool) *Server {
	grabbable := handle.New[cursor.Grabbable]()
	s := &Server{
		Backend:       b,
		Logger:        logger,
		Views:         view.NewRegistry(),
		Outputs:       outputmgr.NewRegistry(),
		Seat:          seat.New(),
		Cursor:        cursor.New(grabbable, defaultCursorImage),
		grabbable:     grabbable,
		grabRefByView: make(map[*view.View]handle.Ref[cursor.Grabbable]),
		Debug:         debug,
	}
	s.Mousegrab = mousegrab.New(s.Cursor)
	s.Cursor.SetOverride(s.Mousegrab)
	s.Keybind = keybind.New(s.requestShutdown)

	if plane, err := outputmgr.NewCursorPlane(render.MaxCursorPlaneSize); err != nil {
		logger.Printf("cursor plane allocation failed, software cursor disabled: %v", err)
	} else {
		s.cursorSprite = &render.CursorSprite{Plane: plane}
	}

	s.wireUpCustomProtocols(b)
	return s
}

// withProtocolLock runs fn while holding protocolMu, the single
// synchronization point between the backend-input dispatch path and the
// custom-protocol connection goroutines (see Server.protocolMu).
func (s *Server) withProtocolLock(fn func()) {
	s.protocolMu.Lock()
	defer s.protocolMu.Unlock()
	fn()
}

// wireUpCustomProtocols binds the keybindings and mousegrabber sockets
// (spec.md §6) and folds their listening fds into b's event loop, so a
// connecting controller/grabber client is multiplexed alongside the
// backend's own sources rather than needing a polling thread of its own.
// Failures are logged and leave that protocol unreachable, the same
// degrade-gracefully behavior already used for the software-cursor
// plane above.
func (s *Server) wireUpCustomProtocols(b backend.Backend) {
	if b == nil {
		return
	}

	if ln, err := wire.Listen(protocolSocketPath("keybindings"), func(conn net.Conn) {
		keybind.ServeConn(conn, s.Keybind, controllerNeverOwnsFocus, s.withProtocolLock, s.Logger)
	}); err != nil {
		s.Logger.Printf("keybindings socket unavailable, controller protocol disabled: %v", err)
	} else if fd, err := ln.FD(); err != nil {
		s.Logger.Printf("keybindings socket fd unavailable: %v", err)
	} else {
		b.AddSource(wire.Source{FD: fd, OnReady: ln.Accept})
	}

	if ln, err := wire.Listen(protocolSocketPath("mousegrabber"), func(conn net.Conn) {
		mousegrab.ServeConn(conn, s.Mousegrab, s.withProtocolLock, s.Logger)
	}); err != nil {
		s.Logger.Printf("mousegrabber socket unavailable, cursor-override protocol disabled: %v", err)
	} else if fd, err := ln.FD(); err != nil {
		s.Logger.Printf("mousegrabber socket fd unavailable: %v", err)
	} else {
		b.AddSource(wire.Source{FD: fd, OnReady: ln.Accept})
	}
}

// controllerNeverOwnsFocus is BindController's keyboard-focus hook.
// Controller clients connect over their own side-channel socket rather
// than becoming a regular Wayland surface, so there is no surface for
// them to own keyboard focus of; spec.md §4.7's "while a controller
// client owns the keyboard focus" clause never applies here.
func controllerNeverOwnsFocus() bool { return false }

func protocolSocketPath(name string) string {
	dir := os.Getenv("XDG_RUNTIME_DIR")
	if dir == "" {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "wlcompose-"+name)
}

// requestShutdown is the keybind filter's hard-coded terminator hook. It
// only sets ShutdownRequested; it does not itself stop the server.
func (s *Server) requestShutdown() { s.ShutdownRequested = true }

// InsertView registers a freshly created, unmapped view and arms its
// weak grab handle (spec.md §4.1 "inserted at the head of the view list
// in an unmapped state").
func (s *Server) InsertView(v *view.View) {
	s.Views.Insert(v)
	s.grabRefByView[v] = s.grabbable.Insert(v)
}

// DestroyView removes v, invalidating any outstanding grab reference to
// it (spec.md §3 Grab record: "if the view is destroyed mid-grab the
// cursor returns to Passthrough").
func (s *Server) DestroyView(v *view.View) {
	if ref, ok := s.grabRefByView[v]; ok {
		s.grabbable.Remove(ref)
		delete(s.grabRefByView, v)
	}
	s.Views.Remove(v)
	s.Seat.DropPointerFocusIfTarget(v.Surface)
	s.Seat.DropKeyboardFocusIfTarget(v.Surface)
}

// MapView implements the map half of spec.md §4.1: captures the initial
// size, focuses it, and damages the outputs it now covers.
func (s *Server) MapView(v *view.View, initial image.Rectangle, pressed []uint32) {
	v.Map(initial)
	s.Outputs.DamageLayout(initial)
	s.FocusView(v, pressed)
}

// UnmapView implements the unmap half of spec.md §4.1.
func (s *Server) UnmapView(v *view.View) {
	region := v.Current
	v.Unmap()
	s.Outputs.DamageLayout(region)
}

// FocusView implements spec.md §4.2's focus sequence, forwarding the
// registry's result into damage and keeping Seat's weak keyboard-focus
// reference (spec.md §3 Seat) pointed at the now-focused view. Views.Focus
// already delivers KeyboardEnter to v.Surface itself as part of its
// deactivate/activate sequencing, so this uses AdoptKeyboardFocus rather
// than SetKeyboardFocus to update the reference (and send KeyboardLeave to
// whatever previously held it, such as a layer surface) without a second,
// duplicate enter event.
func (s *Server) FocusView(v *view.View, pressed []uint32) {
	res := s.Views.Focus(v, pressed, s.Seat.Mods())
	if res.NoOp {
		return
	}
	s.Seat.AdoptKeyboardFocus(v.Surface)
	s.Outputs.DamageLayout(res.Damage)
}

// BeginMove starts an interactive move grab for v (spec.md §4.4 row 1).
// It does not check that v holds pointer focus; any inserted view can
// start a grab.
func (s *Server) BeginMove(v *view.View) {
	if ref, ok := s.grabRefByView[v]; ok {
		s.Cursor.BeginMove(ref)
	}
}

// BeginResize starts an interactive resize grab for v.
func (s *Server) BeginResize(v *view.View, edges view.Edges) {
	if ref, ok := s.grabRefByView[v]; ok {
		s.Cursor.BeginResize(ref, edges)
	}
}

// OnHotplug implements backend.Listener: adds or removes an
// outputmgr.Output wrapper and re-derives the layer-shell arrangement
// for any output affected (spec.md §3 Output: "created on backend
// hotplug, destroyed on unplug").
func (s *Server) OnHotplug(h backend.Hotplug) {
	if h.Added != nil {
		o := outputmgr.NewOutput(h.Added)
		o.Damage.SetDebug(s.Debug, o.Bounds())
		s.Outputs.Add(o)
		o.Rearrange()
	}
	if h.Removed != nil {
		if o := s.Outputs.ByBackend(func(o *outputmgr.Output) bool { return o.Backend == h.Removed }); o != nil {
			s.Outputs.Remove(o)
		}
	}
}

// OnInput implements backend.Listener, routing each event per spec.md
// §4.4-§4.7. Ordering within a turn (input before commits before
// re-arrangement before rendering, spec.md §5) is the caller's
// responsibility: OnInput only ever mutates view/seat/cursor state, never
// touches the render pipeline directly.
func (s *Server) OnInput(e backend.Event) {
	switch ev := e.(type) {
	case backend.PointerMotionAbsoluteEvent:
		s.handleMotion(int(ev.X), int(ev.Y))
	case backend.PointerMotionEvent:
		s.handleMotion(s.Cursor.X+int(ev.DX), s.Cursor.Y+int(ev.DY))
	case backend.PointerButtonEvent:
		s.handleButton(ev.Button, ev.State == backend.ButtonPressed)
	case backend.KeyboardKeyEvent:
		s.handleKey(ev.TimeMS, ev.Keycode, ev.State == backend.KeyPressed)
	case backend.PointerAxisEvent:
		s.Seat.NotifyAxis(ev.Axis, ev.Value, ev.Source)
	}
}

func (s *Server) handleMotion(x, y int) {
	v, localX, localY, found := s.Views.ViewAt(image.Pt(x, y))

	var inPassthrough bool
	s.withProtocolLock(func() { inPassthrough = s.Cursor.Motion(x, y, found) })
	if !inPassthrough {
		return
	}

	if found {
		s.Seat.NotifyPointerAt(v.Surface, localX, localY)
	} else {
		s.Seat.ClearPointerFocus()
	}

	if out := s.Outputs.At(image.Pt(x, y)); out != nil {
		s.activeOutput = out
	}
}

func (s *Server) handleButton(button uint32, pressed bool) {
	var consumed bool
	s.withProtocolLock(func() { consumed = s.Cursor.Button(pressed, button) })
	if consumed {
		return // consumed by the mousegrabber override
	}
	if pressed {
		if v, _, _, found := s.Views.ViewAt(image.Pt(s.Cursor.X, s.Cursor.Y)); found {
			s.FocusView(v, s.Seat.PressedKeycodes())
		}
	}
}

func (s *Server) handleKey(timeMS, keycode uint32, pressed bool) {
	s.Seat.TrackKey(keycode, pressed)
	mods := s.Seat.Mods().Depressed | s.Seat.Mods().Latched
	var bound bool
	s.withProtocolLock(func() { bound = s.Keybind.HandleKey(timeMS, keycode, pressed, mods) })
	if bound {
		return
	}
	// Regular delivery already happened through seat keyboard focus; the
	// focused surface's KeyboardEnter/Leave are driven by FocusView, and
	// the raw key event itself is forwarded by the shell binding layer
	// (outside this package's boundary, spec.md §6).
}

// ActiveOutput returns the output most recently containing the cursor.
func (s *Server) ActiveOutput() *outputmgr.Output { return s.activeOutput }

// RearrangeOutput recomputes one output's layer-shell layout and
// reassigns keyboard-interactive focus if needed, per spec.md §4.3's
// "geo is recomputed whenever any member on the output commits". When no
// layer on the output wants keyboard interactivity any more, focus
// returns to the focused toplevel view rather than being left on a
// layer surface that no longer qualifies for it.
func (s *Server) RearrangeOutput(o *outputmgr.Output) {
	before := o.Usable
	o.Rearrange()
	if o.Usable != before {
		s.Outputs.DamageLayout(o.Bounds())
	}
	if l := o.KeyboardInteractiveLayer(); l != nil && l.Keyboard != nil {
		s.Seat.SetKeyboardFocus(l.Keyboard)
	} else if v := s.Views.Focused(); v != nil {
		s.Seat.SetKeyboardFocus(v.Surface)
	}
}

// refreshCursorSprite re-renders the software-cursor plane whenever the
// cursor's image name or this output's scale changed since the last
// frame (spec.md §4.9 invariant iii), and always repositions it to the
// cursor's current location. A nil cursorSprite (plane allocation
// failed in New) leaves the frame without a software cursor.
func (s *Server) refreshCursorSprite(r backend.Renderer, o *outputmgr.Output) {
	if s.cursorSprite == nil {
		return
	}
	s.cursorSprite.Pos = image.Pt(s.Cursor.X, s.Cursor.Y)

	name := s.Cursor.Image()
	if s.cursorSprite.Texture != nil && name == s.cursorSpriteImage && o.Scale == s.cursorSpriteScale {
		return
	}
	targetSize := image.Pt(
		int(float64(render.DefaultCursorSize.X)*o.Scale),
		int(float64(render.DefaultCursorSize.Y)*o.Scale),
	)
	bitmap, hotspot := render.BuildCursorBitmap(name, targetSize)
	s.cursorSprite.Refresh(r, bitmap, hotspot)
	s.cursorSpriteImage = name
	s.cursorSpriteScale = o.Scale
}

// RenderOutput drives one output's frame, per spec.md §4.9.
func (s *Server) RenderOutput(r backend.Renderer, o *outputmgr.Output) error {
	s.refreshCursorSprite(r, o)

	views := render.ViewDrawables(s.Views.Views())
	var layers [layershell.NumLayers][]render.Drawable
	for l := range o.Layers {
		layers[l] = render.LayerDrawables(o.Layers[l])
	}

	nowMillis := uint32(time.Now().UnixMilli())
	frameDone := func(ts uint32) { o.LastFrameDone = ts }

	return render.FrameOutput(r, o, views, layers, s.cursorSprite, s.Debug, nowMillis, frameDone)
}

// OnFrame implements backend.Listener: finds the outputmgr wrapper for
// the backend output that became ready and renders it.
func (s *Server) OnFrame(bo backend.Output) {
	o := s.Outputs.ByBackend(func(o *outputmgr.Output) bool { return o.Backend == bo })
	if o == nil {
		return
	}
	if err := s.RenderOutput(s.Backend.Renderer(), o); err != nil {
		s.Logger.Printf("render attach failed on output %s, skipping frame: %v", o.Name(), err)
	}
}

// Run blocks, dispatching backend events to this Server until the
// backend's Run returns (spec.md §5: "the outer event loop" is the only
// suspension point).
func (s *Server) Run() error {
	return s.Backend.Run(s)
}
