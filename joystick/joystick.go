// Package joystick implements the ordered, protocol-capped registry of
// attached controllers.
//
// An ordered collection keyed by index, guarded by a single RWMutex, with
// reject-on-invalid-input semantics, generalized here from robot
// connections to joystick snapshots.
package joystick

import (
	"sync"

	"driverstation/shared"
)

// Caps describes the active protocol's joystick limits.
type Caps struct {
	MaxJoystickCount int
	MaxAxes          int
	MaxButtons       int
	MaxPOVs          int
}

// Joystick is a single controller's real (host-reported) and capped
// (protocol-limited) shape plus its live input values.
type Joystick struct {
	RealNumAxes    int
	RealNumPOVs    int
	RealNumButtons int

	NumAxes    int
	NumPOVs    int
	NumButtons int

	Axes    []float64 // each in [-1, 1]
	POVs    []int     // each in {-1, 0, 45, ..., 315}
	Buttons []bool
}

func neutralJoystick(realAxes, realButtons, realPOVs int, caps Caps) *Joystick {
	numAxes := capInt(realAxes, caps.MaxAxes)
	numButtons := capInt(realButtons, caps.MaxButtons)
	numPOVs := capInt(realPOVs, caps.MaxPOVs)

	axes := make([]float64, numAxes)
	buttons := make([]bool, numButtons)
	povs := make([]int, numPOVs)
	for i := range povs {
		povs[i] = -1
	}

	return &Joystick{
		RealNumAxes:    realAxes,
		RealNumButtons: realButtons,
		RealNumPOVs:    realPOVs,
		NumAxes:        numAxes,
		NumButtons:     numButtons,
		NumPOVs:        numPOVs,
		Axes:           axes,
		Buttons:        buttons,
		POVs:           povs,
	}
}

func capInt(real, max int) int {
	if real > max {
		return max
	}
	return real
}

// Registry is the ordered sequence of registered joysticks; identity is by
// index.
type Registry struct {
	mu    sync.RWMutex
	caps  Caps
	items []*Joystick
}

// NewRegistry creates an empty registry under the given protocol caps.
func NewRegistry(caps Caps) *Registry {
	return &Registry{caps: caps}
}

// Register adds a joystick, rejecting the call if axes, buttons, and povs
// are all zero, or if the registry is already at the protocol's
// maxJoystickCount.
func (r *Registry) Register(axes, buttons, povs int) (int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if axes == 0 && buttons == 0 && povs == 0 {
		shared.DebugPrint("joystick registration rejected: all-zero shape")
		return -1, false
	}
	if len(r.items) >= r.caps.MaxJoystickCount {
		shared.DebugPrint("joystick registration rejected: registry full (%d)", r.caps.MaxJoystickCount)
		return -1, false
	}

	r.items = append(r.items, neutralJoystick(axes, buttons, povs, r.caps))
	return len(r.items) - 1, true
}

// Remove deletes the joystick at index i, shifting subsequent indices down.
func (r *Registry) Remove(i int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i < 0 || i >= len(r.items) {
		return false
	}
	r.items = append(r.items[:i], r.items[i+1:]...)
	return true
}

// Reset clears every registered joystick.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = nil
}

// Count returns the number of registered joysticks.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

// Get returns a copy of the joystick at index i.
func (r *Registry) Get(i int) (Joystick, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if i < 0 || i >= len(r.items) {
		return Joystick{}, false
	}
	return *r.items[i], true
}

// Snapshot returns a copy of every registered joystick in registry order.
func (r *Registry) Snapshot() []Joystick {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Joystick, len(r.items))
	for i, j := range r.items {
		out[i] = *j
	}
	return out
}

// UpdateAxis sets axis k of joystick i, silently discarding out-of-range
// indices.
func (r *Registry) UpdateAxis(i, k int, value float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.itemLocked(i)
	if !ok || k < 0 || k >= len(j.Axes) {
		return
	}
	if value < -1 {
		value = -1
	} else if value > 1 {
		value = 1
	}
	j.Axes[k] = value
}

// UpdateButton sets button k of joystick i, silently discarding out-of-range
// indices.
func (r *Registry) UpdateButton(i, k int, pressed bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.itemLocked(i)
	if !ok || k < 0 || k >= len(j.Buttons) {
		return
	}
	j.Buttons[k] = pressed
}

// UpdatePOV sets POV k of joystick i, silently discarding out-of-range
// indices.
func (r *Registry) UpdatePOV(i, k, angle int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.itemLocked(i)
	if !ok || k < 0 || k >= len(j.POVs) {
		return
	}
	j.POVs[k] = angle
}

func (r *Registry) itemLocked(i int) (*Joystick, bool) {
	if i < 0 || i >= len(r.items) {
		return nil, false
	}
	return r.items[i], true
}

// Reconfigure is invoked on protocol change: real-valued triples are
// preserved, capped triples are recomputed against the new caps, and live
// values reset to neutral.
func (r *Registry) Reconfigure(caps Caps) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.caps = caps
	for i, j := range r.items {
		r.items[i] = neutralJoystick(j.RealNumAxes, j.RealNumButtons, j.RealNumPOVs, caps)
	}
}
