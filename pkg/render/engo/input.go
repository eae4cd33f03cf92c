// pkg/render/engo/input.go
package engo

import (
	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"

	"github.com/opd-ai/go-skyflag/pkg/engine"
)

// Button names registered with engo.Input.
const (
	buttonRenderMode = "renderMode"
	buttonEmission   = "emission"
	buttonResetZoom  = "resetZoom"
	buttonQuit       = "quit"
)

// controlBinding ties a flight control to its keys.
type controlBinding struct {
	button  string
	control engine.Control
	keys    []engo.Key
}

var controlBindings = []controlBinding{
	{"faster", engine.ControlFaster, []engo.Key{engo.KeyW}},
	{"slower", engine.ControlSlower, []engo.Key{engo.KeyS}},
	{"left", engine.ControlLeft, []engo.Key{engo.KeyA}},
	{"right", engine.ControlRight, []engo.Key{engo.KeyD}},
	{"up", engine.ControlUp, []engo.Key{engo.KeySpace}},
	{"down", engine.ControlDown, []engo.Key{engo.KeyLeftControl}},
}

// cameraBinding selects a follow mode with a number key.
type cameraBinding struct {
	button string
	mode   engine.FollowMode
	key    engo.Key
}

var cameraBindings = []cameraBinding{
	{"camera0", engine.FollowNone, engo.KeyZero},
	{"camera1", engine.FollowPlane, engo.KeyOne},
	{"camera2", engine.FollowPlanet, engo.KeyTwo},
	{"camera3", engine.FollowPlanetLookAtPlane, engo.KeyThree},
}

// InputSystem feeds keyboard and mouse state into the scene.
type InputSystem struct {
	sim *engine.Scene
}

// NewInputSystem creates a new input system
func NewInputSystem(sim *engine.Scene) *InputSystem {
	return &InputSystem{sim: sim}
}

// Priority runs input handling before the simulation step.
func (is *InputSystem) Priority() int { return 20 }

// Remove satisfies the ecs.System interface
func (is *InputSystem) Remove(basic ecs.BasicEntity) {}

// Update copies the button state into the scene input.
func (is *InputSystem) Update(dt float32) {
	for _, b := range controlBindings {
		is.sim.Input.Press(b.control, engo.Input.Button(b.button).Down())
	}

	if engo.Input.Button(buttonRenderMode).JustPressed() {
		is.sim.CycleRenderMode()
	}
	if engo.Input.Button(buttonEmission).JustPressed() {
		is.sim.ToggleEmission()
	}
	for _, b := range cameraBindings {
		if engo.Input.Button(b.button).JustPressed() {
			_ = is.sim.SetCameraFollow(b.mode) // modes in the table are valid
		}
	}
	if engo.Input.Button(buttonQuit).JustPressed() {
		engo.Exit()
	}
}

// SetupInputBindings sets up the key bindings for the scene
func SetupInputBindings() {
	for _, b := range controlBindings {
		engo.Input.RegisterButton(b.button, b.keys...)
	}
	for _, b := range cameraBindings {
		engo.Input.RegisterButton(b.button, b.key)
	}

	engo.Input.RegisterButton(buttonRenderMode, engo.KeyR)
	engo.Input.RegisterButton(buttonEmission, engo.KeyE)
	engo.Input.RegisterButton(buttonResetZoom, engo.KeyBackspace)
	engo.Input.RegisterButton(buttonQuit, engo.KeyEscape)
}
