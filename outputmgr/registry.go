package outputmgr

import "image"

// Registry is the Server's collection of live outputs.
type Registry struct {
	outputs []*Output
}

func NewRegistry() *Registry { return &Registry{} }

func (r *Registry) Add(o *Output) { r.outputs = append(r.outputs, o) }

func (r *Registry) Remove(o *Output) {
	for i, c := range r.outputs {
		if c == o {
			r.outputs = append(r.outputs[:i], r.outputs[i+1:]...)
			return
		}
	}
}

func (r *Registry) All() []*Output { return r.outputs }

// ByBackend finds the Output wrapping a given backend.Output handle.
func (r *Registry) ByBackend(find func(*Output) bool) *Output {
	for _, o := range r.outputs {
		if find(o) {
			return o
		}
	}
	return nil
}

// At returns the output whose bounds contain p, or nil. Used to track the
// Server's active-output weak reference (spec.md §3 Server, §4.4).
func (r *Registry) At(p image.Point) *Output {
	for _, o := range r.outputs {
		if p.In(o.bounds) {
			return o
		}
	}
	return nil
}

// DamageLayout fans a layout-coordinate rectangle out to every output it
// intersects, translating into each output's local coordinates (spec.md
// §4.1: "translate it into each intersecting output's coordinates, and
// accumulate into that output's damage tracker").
func (r *Registry) DamageLayout(rect image.Rectangle) {
	if rect.Empty() {
		return
	}
	for _, o := range r.outputs {
		ix := rect.Intersect(o.bounds)
		if ix.Empty() {
			continue
		}
		o.Damage.Add(ix.Sub(o.bounds.Min))
	}
}
