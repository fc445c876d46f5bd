package seat

// KeyboardDevice is the minimal XKB-state black box spec.md treats
// keyboards as: a modifier mask in, a keysym resolver out. This repo
// does not compile keymaps; it only tracks the pieces the compositor's
// own invariants touch (mod mask for keybindings, pressed keycodes for
// enter events). A real keymap/keysym table belongs to the backend's
// libxkbcommon binding, out of scope per spec.md §1.
type KeyboardDevice struct {
	Name string

	depressed, latched, locked, group uint32
}

func NewKeyboardDevice(name string) *KeyboardDevice {
	return &KeyboardDevice{Name: name}
}

// UpdateMods applies an incoming wl_keyboard.modifiers-shaped update and
// returns the resulting ModState.
func (k *KeyboardDevice) UpdateMods(depressed, latched, locked, group uint32) ModState {
	k.depressed, k.latched, k.locked, k.group = depressed, latched, locked, group
	return ModState{Depressed: depressed, Latched: latched, Locked: locked, Group: group}
}

func (k *KeyboardDevice) Mods() ModState {
	return ModState{Depressed: k.depressed, Latched: k.latched, Locked: k.locked, Group: k.group}
}

// EffectiveMods is the mask the keybinding filter matches against: the
// logical OR of depressed and latched, ignoring locked (caps/num lock
// must never arm or disarm a binding) and group (layout index is
// irrelevant to a physical chord).
func (k *KeyboardDevice) EffectiveMods() uint32 {
	return k.depressed | k.latched
}

// PointerDevice is a pointer input device record; spec.md does not ask
// for per-device acceleration or button remapping, so this is a bare
// identity placeholder a real backend could extend.
type PointerDevice struct {
	Name string
}

func NewPointerDevice(name string) *PointerDevice {
	return &PointerDevice{Name: name}
}
