package mousegrab

import "testing"

// fakeCursor mirrors cursor.Cursor's priority rule: a non-empty
// compositor override wins over the image otherwise in effect.
type fakeCursor struct {
	image    string
	override string
	locked   bool
}

func (c *fakeCursor) Image() string {
	if c.override != "" {
		return c.override
	}
	return c.image
}
func (c *fakeCursor) SetCompositorImage(name string)  { c.override = name }
func (c *fakeCursor) SetLockSoftwareCursors(v bool)   { c.locked = v }

type fakeClient struct {
	moves   []int32
	buttons int
}

func (c *fakeClient) MouseMoved(x, y int32)                         { c.moves = append(c.moves, x, y) }
func (c *fakeClient) MouseButton(x, y int32, pressed bool, b uint32) { c.buttons++ }

func TestGrabSetsImageAndLocksSoftwareCursors(t *testing.T) {
	cur := &fakeCursor{image: "text"}
	g := New(cur)
	client := &fakeClient{}

	_, ok := g.Grab(client, "watch")
	if !ok {
		t.Fatalf("expected grab to succeed")
	}
	if cur.Image() != "watch" || !cur.locked {
		t.Fatalf("expected compositor image=watch, locked=true; got image=%q locked=%v", cur.Image(), cur.locked)
	}
}

func TestSecondGrabFailsAlreadyGrabbed(t *testing.T) {
	cur := &fakeCursor{}
	g := New(cur)
	g.Grab(&fakeClient{}, "watch")

	code, ok := g.Grab(&fakeClient{}, "hand")
	if ok || code != ErrAlreadyGrabbed {
		t.Fatalf("expected ALREADY_GRABBED, got ok=%v code=%v", ok, code)
	}
}

func TestReleaseRestoresPriorImage(t *testing.T) {
	cur := &fakeCursor{image: "text"}
	g := New(cur)
	client := &fakeClient{}
	g.Grab(client, "watch")

	_, ok := g.Release(client)
	if !ok {
		t.Fatalf("expected release to succeed")
	}
	if cur.Image() != "text" {
		t.Fatalf("expected image %q restored after release, got %q", "text", cur.Image())
	}
	if cur.locked {
		t.Fatalf("expected software cursors unlocked after release")
	}
	if g.Bound() {
		t.Fatalf("expected grabber to be unbound after release")
	}
}

func TestReleaseByWrongClientFailsNotGrabbed(t *testing.T) {
	cur := &fakeCursor{}
	g := New(cur)
	g.Grab(&fakeClient{}, "watch")

	code, ok := g.Release(&fakeClient{})
	if ok || code != ErrNotGrabbed {
		t.Fatalf("expected NOT_GRABBED for a non-owning caller")
	}
}

func TestReleaseWithoutGrabFailsNotGrabbed(t *testing.T) {
	cur := &fakeCursor{}
	g := New(cur)
	code, ok := g.Release(&fakeClient{})
	if ok || code != ErrNotGrabbed {
		t.Fatalf("expected NOT_GRABBED")
	}
}

func TestNotifyMotionAndButtonForwardToBoundClient(t *testing.T) {
	cur := &fakeCursor{}
	g := New(cur)
	client := &fakeClient{}
	g.Grab(client, "watch")

	g.NotifyMotion(5, 6)
	if len(client.moves) != 2 || client.moves[0] != 5 || client.moves[1] != 6 {
		t.Fatalf("expected motion forwarded, got %v", client.moves)
	}

	if !g.NotifyButton(5, 6, true, 1) {
		t.Fatalf("expected button to be consumed while grabbed")
	}
	if client.buttons != 1 {
		t.Fatalf("expected button forwarded")
	}
}
