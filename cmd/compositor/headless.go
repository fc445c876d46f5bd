package main

import (
	"image"
	"os"
	"os/signal"
	"syscall"

	"github.com/friedelschoen/wlcompose/backend"
	"github.com/friedelschoen/wlcompose/wire"
)

// headlessBackend is the boundary stand-in for the DRM/libinput/EGL backend
// spec.md §1 treats as an external collaborator ("the low-level backend...
// treated as an abstract backend"). It never hot-plugs an output or emits
// input, and its renderer no-ops every draw call; it exists only so that
// cmd/compositor is a real, runnable Go binary without this repository
// reaching into kernel mode-setting or GPU driver territory. Swapping in a
// real backend means implementing backend.Backend against DRM/KMS and
// libinput and passing that to server.New instead.
type headlessBackend struct {
	socketName string
	loop       *wire.Loop
}

func newHeadlessBackend() *headlessBackend {
	return &headlessBackend{socketName: "wayland-0", loop: wire.NewLoop()}
}

// SocketName is the display socket name main sets WAYLAND_DISPLAY to. A
// real backend would bind this socket itself; the stand-in only reports
// the name a real one would pick.
func (b *headlessBackend) SocketName() string { return b.socketName }

func (b *headlessBackend) Outputs() []backend.Output { return nil }

func (b *headlessBackend) Renderer() backend.Renderer { return noopRenderer{} }

// AddSource folds an additional fd into this backend's own poll(2) loop,
// satisfying backend.Backend.AddSource. server.Server uses this to
// multiplex the keybindings/mousegrabber custom-protocol listeners
// (spec.md §6) alongside whatever else drives this loop; a real
// DRM/libinput backend would register its own fds here too instead of
// running a second dispatcher.
func (b *headlessBackend) AddSource(s wire.Source) { b.loop.Add(s) }

// Run blocks until interrupted, matching spec.md §5's "only the outer
// event loop" suspension point. The signal relay goroutine only wakes
// the poll via a pipe write; it never touches compositor state, so
// every Source's OnReady still runs on this single goroutine (spec.md
// §5: "no component yields mid-operation").
func (b *headlessBackend) Run(listener backend.Listener) error {
	_ = listener

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	r, w, err := os.Pipe()
	if err != nil {
		return err
	}
	defer r.Close()
	defer w.Close()

	shutdown := false
	b.loop.Add(wire.Source{FD: int(r.Fd()), OnReady: func() { shutdown = true }})

	go func() {
		<-sig
		w.Write([]byte{0})
	}()

	for !shutdown {
		if _, err := b.loop.RunOnce(-1); err != nil {
			return err
		}
	}
	return nil
}

type noopRenderer struct{}

func (noopRenderer) Attach(backend.Output) error                              { return nil }
func (noopRenderer) Scissor(image.Rectangle)                                  {}
func (noopRenderer) ClearScissored([4]uint8)                                  {}
func (noopRenderer) Quad(backend.Texture, image.Rectangle, backend.Transform) {}
func (noopRenderer) Commit([]image.Rectangle) error                           { return nil }

// UploadTexture is the stand-in's only non-trivial call: a real backend
// would upload pixels to the GPU here; this discards the pixels and
// keeps only size, to report it back through Texture.
func (noopRenderer) UploadTexture(pixels []byte, size image.Point, stride int) backend.Texture {
	return staticTexture{size: size}
}

type staticTexture struct{ size image.Point }

func (t staticTexture) Size() image.Point { return t.size }
