// pkg/engine/input.go
package engine

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/opd-ai/go-skyflag/pkg/physics"
)

// Control is a held flight key.
type Control int

const (
	ControlFaster Control = iota
	ControlSlower
	ControlLeft
	ControlRight
	ControlUp
	ControlDown

	controlCount
)

// Input collects the state of the flight keys and of a mouse drag. Window
// backends feed it from their callbacks.
type Input struct {
	pressed [controlCount]bool

	dragging bool
	dragLast mgl32.Vec2
}

// NewInput returns an input state with nothing pressed.
func NewInput() *Input {
	return &Input{}
}

// Press records a key going down (true) or up (false).
func (in *Input) Press(c Control, down bool) {
	if c < 0 || c >= controlCount {
		return
	}
	in.pressed[c] = down
}

// Pressed reports whether a key is held.
func (in *Input) Pressed(c Control) bool {
	if c < 0 || c >= controlCount {
		return false
	}
	return in.pressed[c]
}

// Reset releases every key and ends any drag.
func (in *Input) Reset() {
	*in = Input{}
}

// Controls folds the held keys into flight controls. Opposing keys cancel.
func (in *Input) Controls() physics.Controls {
	return physics.Controls{
		Throttle: physics.AxisFromButtons(in.pressed[ControlFaster], in.pressed[ControlSlower]),
		Turn:     physics.AxisFromButtons(in.pressed[ControlLeft], in.pressed[ControlRight]),
		Pitch:    physics.AxisFromButtons(in.pressed[ControlUp], in.pressed[ControlDown]),
	}
}

// BeginDrag starts a mouse drag at the cursor position.
func (in *Input) BeginDrag(x, y float32) {
	in.dragging = true
	in.dragLast = mgl32.Vec2{x, y}
}

// EndDrag stops the current drag.
func (in *Input) EndDrag() {
	in.dragging = false
}

// Drag moves the cursor during a drag and returns the distance from the
// previous position to the new one, reversed so that dragging right orbits
// left. ok is false when no drag is active.
func (in *Input) Drag(x, y float32) (diff mgl32.Vec2, ok bool) {
	if !in.dragging {
		return mgl32.Vec2{}, false
	}
	cur := mgl32.Vec2{x, y}
	diff = in.dragLast.Sub(cur)
	in.dragLast = cur
	return diff, true
}
