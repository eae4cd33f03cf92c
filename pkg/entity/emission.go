// pkg/entity/emission.go
package entity

import "github.com/go-gl/mathgl/mgl32"

// EmissionTable remembers the original emission colors of a set of
// materials so lights can be switched off and restored.
type EmissionTable[K comparable] struct {
	colors  map[K]mgl32.Vec3
	keys    []K
	enabled bool
}

// NewEmissionTable returns an empty table with emission enabled.
func NewEmissionTable[K comparable]() *EmissionTable[K] {
	return &EmissionTable[K]{colors: make(map[K]mgl32.Vec3), enabled: true}
}

// Record stores the original color of k. Recording a key twice keeps the
// latest color.
func (t *EmissionTable[K]) Record(k K, color mgl32.Vec3) {
	if _, ok := t.colors[k]; !ok {
		t.keys = append(t.keys, k)
	}
	t.colors[k] = color
}

// Color returns the recorded color of k.
func (t *EmissionTable[K]) Color(k K) (mgl32.Vec3, bool) {
	c, ok := t.colors[k]
	return c, ok
}

// Current returns the color k emits right now: its recorded color when
// emission is enabled and black otherwise.
func (t *EmissionTable[K]) Current(k K) mgl32.Vec3 {
	if !t.enabled {
		return mgl32.Vec3{}
	}
	return t.colors[k]
}

// Keys returns the recorded keys in recording order.
func (t *EmissionTable[K]) Keys() []K {
	return append([]K(nil), t.keys...)
}

// Len returns the number of recorded keys.
func (t *EmissionTable[K]) Len() int { return len(t.keys) }

// Enabled reports whether emission is switched on.
func (t *EmissionTable[K]) Enabled() bool { return t.enabled }

// SetEnabled switches emission on or off and calls apply with the resulting
// color of every key.
func (t *EmissionTable[K]) SetEnabled(on bool, apply func(k K, color mgl32.Vec3)) {
	t.enabled = on
	if apply == nil {
		return
	}
	for _, k := range t.keys {
		apply(k, t.Current(k))
	}
}
