// Package keybind implements the keybindings custom protocol filter of
// spec.md §4.7/§6: a privileged controller client registers
// keycode+modifier chords it wants stolen from regular clients.
package keybind

// Modifier bitmask matching the conventional XKB real-modifier layout
// (the order wl_keyboard.modifiers already reports them in); no XKB
// binding exists in the retrieved pack, so this mirrors only the bits
// spec.md's filter actually inspects.
const (
	ModShift Modifier = 1 << iota
	ModLock
	ModControl
	ModMod1
	ModMod2
	ModMod3
	ModMod4
	ModMod5
)

type Modifier = uint32

// stripped is the set of bits ignored on both sides of a match, per
// spec.md §4.7: "Modifier bits for lock and mod2 are stripped from both
// stored and queried masks so that caps-lock/num-lock do not perturb
// matching."
const stripped = ModLock | ModMod2

// terminatorMods/terminatorKeycode is the fixed Ctrl+Shift+Escape escape
// hatch of spec.md §4.7, independent of anything registered. The keycode
// is the evdev code for Escape (1), matching the values wl_keyboard.key
// reports on a standard PC keyboard.
const (
	terminatorKeycode = 1
	terminatorMods    = ModControl | ModShift
)

// Sink receives filtered key events.
type Sink interface {
	Key(time, keycode uint32, pressed bool, mods uint32)
}

// Filter is the indexed keycode -> accepted-modifier-masks set of
// spec.md §4.7.
type Filter struct {
	sets map[uint32]map[uint32]struct{}

	bound       Sink
	controller  interface{ HasKeyboardFocus() bool }
	onTerminate func()

	// filteredPress records which keycodes were stolen on their most
	// recent press, so the matching release is stolen too even if the
	// modifier mask changed in between (spec.md §9 open question iii:
	// "filter both consistently based on keycode+mask match of the
	// press").
	filteredPress map[uint32]bool
}

// New builds a Filter whose hard-coded Ctrl+Shift+Escape escape hatch
// calls onTerminate, independent of whether a controller client is ever
// bound (spec.md §4.7: "always terminates the server regardless of
// registration").
func New(onTerminate func()) *Filter {
	return &Filter{
		sets:          make(map[uint32]map[uint32]struct{}),
		filteredPress: make(map[uint32]bool),
		onTerminate:   onTerminate,
	}
}

// BindController attaches the single privileged controller client. hook
// reports whether that same client currently owns keyboard focus
// (spec.md §4.7: "while a controller client owns the keyboard focus it
// receives all key events regardless of the set").
func (f *Filter) BindController(s Sink, hook func() bool) {
	f.bound = s
	f.controller = controllerHook(hook)
}

type controllerHook func() bool

func (c controllerHook) HasKeyboardFocus() bool { return c() }

// Unbind clears the controller, e.g. on client disconnect.
func (f *Filter) Unbind() {
	f.bound = nil
	f.controller = nil
}

// Bound reports whether a controller client is currently attached.
func (f *Filter) Bound() bool { return f.bound != nil }

// RegisterKey implements the register_key request, stripping lock/mod2
// from the stored mask.
func (f *Filter) RegisterKey(keycode, mods uint32) {
	mods &^= stripped
	set, ok := f.sets[keycode]
	if !ok {
		set = make(map[uint32]struct{})
		f.sets[keycode] = set
	}
	set[mods] = struct{}{}
}

// ClearKeys implements the clear_keys request.
func (f *Filter) ClearKeys() {
	f.sets = make(map[uint32]map[uint32]struct{})
}

// matches reports whether keycode+mods (after stripping) is a registered
// chord.
func (f *Filter) matches(keycode, mods uint32) bool {
	set, ok := f.sets[keycode]
	if !ok {
		return false
	}
	_, ok = set[mods&^stripped]
	return ok
}

// HandleKey processes one wl_keyboard.key-shaped event per spec.md
// §4.7/§4.8's interplay: the hard-coded terminator always fires first
// regardless of registration; otherwise a matching registered chord (or
// any key while the controller holds keyboard focus) is forwarded to the
// controller and swallowed from regular delivery. consumed is false when
// the event must be delivered normally.
func (f *Filter) HandleKey(time, keycode uint32, pressed bool, mods uint32) (consumed bool) {
	effective := mods &^ stripped
	if pressed && keycode == terminatorKeycode && effective == terminatorMods {
		if f.onTerminate != nil {
			f.onTerminate()
		}
		return true
	}

	controllerFocused := f.controller != nil && f.controller.HasKeyboardFocus()

	if !pressed {
		if f.filteredPress[keycode] || controllerFocused {
			delete(f.filteredPress, keycode)
			if f.bound != nil {
				f.bound.Key(time, keycode, pressed, mods)
			}
			return true
		}
		return false
	}

	if f.bound == nil {
		return false
	}
	if controllerFocused {
		f.bound.Key(time, keycode, pressed, mods)
		return true
	}
	if f.matches(keycode, mods) {
		f.filteredPress[keycode] = true
		f.bound.Key(time, keycode, pressed, mods)
		return true
	}
	return false
}
