// pkg/render/engo/camera.go
package engo

import (
	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/opd-ai/go-skyflag/pkg/engine"
)

// MapView maps world X/Z coordinates onto the window, seen from above.
type MapView struct {
	Center mgl32.Vec2 // world X/Z in the middle of the window
	Scale  float32    // pixels per world unit
	Width  float32
	Height float32
}

// WorldToScreen converts world coordinates to screen coordinates.
func (v *MapView) WorldToScreen(x, z float32) engo.Point {
	return engo.Point{
		X: (x-v.Center.X())*v.Scale + v.Width/2,
		Y: (z-v.Center.Y())*v.Scale + v.Height/2,
	}
}

// ScreenToWorld converts screen coordinates to world X/Z coordinates.
func (v *MapView) ScreenToWorld(p engo.Point) mgl32.Vec2 {
	return mgl32.Vec2{
		(p.X-v.Width/2)/v.Scale + v.Center.X(),
		(p.Y-v.Height/2)/v.Scale + v.Center.Y(),
	}
}

// CameraSystem pans the map after the followed entity and zooms it with the
// mouse wheel.
type CameraSystem struct {
	sim  *engine.Scene
	view *MapView

	// Camera properties
	zoom      float32
	minZoom   float32
	maxZoom   float32
	baseScale float32

	// Smooth following
	followSpeed float32
	smoothing   bool
	placed      bool
}

// NewCameraSystem creates a camera system driving view.
func NewCameraSystem(sim *engine.Scene, view *MapView) *CameraSystem {
	return &CameraSystem{
		sim:         sim,
		view:        view,
		zoom:        1.0,
		minZoom:     0.25,
		maxZoom:     8.0,
		baseScale:   view.Scale,
		followSpeed: 2.0,
		smoothing:   true,
	}
}

// Priority runs the camera after the simulation step.
func (cs *CameraSystem) Priority() int { return 5 }

// Remove satisfies the ecs.System interface
func (cs *CameraSystem) Remove(basic ecs.BasicEntity) {}

// Update updates the map centre and zoom
func (cs *CameraSystem) Update(dt float32) {
	if scroll := engo.Input.Mouse.ScrollY; scroll != 0 {
		cs.SetZoom(cs.zoom * (1 + scroll*0.1))
	}
	if engo.Input.Button(buttonResetZoom).JustPressed() {
		cs.SetZoom(1.0)
	}
	cs.follow(dt)
}

func (cs *CameraSystem) follow(dt float32) {
	target, ok := cs.Target()
	if !ok {
		return
	}
	if !cs.smoothing || !cs.placed {
		cs.view.Center = target
		cs.placed = true
		return
	}
	step := min(cs.followSpeed*dt, 1)
	cs.view.Center = cs.view.Center.Add(target.Sub(cs.view.Center).Mul(step))
}

// Target returns the world X/Z position the map should centre on for the
// scene's follow mode. Free camera mode keeps the map where it is.
func (cs *CameraSystem) Target() (mgl32.Vec2, bool) {
	switch cs.sim.FollowMode() {
	case engine.FollowPlane, engine.FollowPlanetLookAtPlane:
		p := cs.sim.Plane.Flight.Position
		return mgl32.Vec2{p.X(), p.Z()}, true
	case engine.FollowPlanet:
		p := cs.sim.Planet.Position
		return mgl32.Vec2{p.X(), p.Z()}, true
	}
	return mgl32.Vec2{}, false
}

// SetZoom sets the map zoom level
func (cs *CameraSystem) SetZoom(zoom float32) {
	cs.zoom = cs.clampZoom(zoom)
	cs.view.Scale = cs.baseScale * cs.zoom
}

// Zoom returns the current zoom level
func (cs *CameraSystem) Zoom() float32 {
	return cs.zoom
}

// clampZoom ensures zoom is within valid bounds
func (cs *CameraSystem) clampZoom(zoom float32) float32 {
	return min(max(zoom, cs.minZoom), cs.maxZoom)
}

// EnableSmoothing enables or disables camera smoothing
func (cs *CameraSystem) EnableSmoothing(enabled bool) {
	cs.smoothing = enabled
}
