// pkg/engine/systems.go
package engine

import (
	"github.com/EngoEngine/ecs"
)

// System priorities. Higher priorities run first: the plane moves, the
// planet turns under it and the camera catches up last.
const (
	FlightPriority = 30
	PlanetPriority = 20
	CameraPriority = 10
)

// FlightSystem moves the plane under the current controls.
type FlightSystem struct {
	scene *Scene
}

// Priority implements ecs.Prioritizer
func (fs *FlightSystem) Priority() int { return FlightPriority }

// Update satisfies the ecs.System interface
func (fs *FlightSystem) Update(dt float32) {
	s := fs.scene
	s.Plane.Move(s.controls(dt), dt)
	s.checkLimits()
}

// Remove satisfies the ecs.System interface
func (fs *FlightSystem) Remove(basic ecs.BasicEntity) {}

// PlanetSystem turns the planet about the plane's turning axis.
type PlanetSystem struct {
	scene *Scene
}

// Priority implements ecs.Prioritizer
func (ps *PlanetSystem) Priority() int { return PlanetPriority }

// Update satisfies the ecs.System interface
func (ps *PlanetSystem) Update(dt float32) {
	flight := ps.scene.Plane.Flight
	ps.scene.Planet.Rotate(flight.TurningAxis(), flight.Speed, dt)
}

// Remove satisfies the ecs.System interface
func (ps *PlanetSystem) Remove(basic ecs.BasicEntity) {}

// CameraSystem applies the camera follow mode.
type CameraSystem struct {
	scene *Scene
}

// Priority implements ecs.Prioritizer
func (cs *CameraSystem) Priority() int { return CameraPriority }

// Update satisfies the ecs.System interface
func (cs *CameraSystem) Update(dt float32) {
	s := cs.scene
	cam := s.Camera
	flight := s.Plane.Flight

	switch s.follow {
	case FollowPlane:
		cam.Follow(flight.Position)
		cam.Fov = flight.SpeedFov()
	case FollowPlanet:
		cam.SetRotation(s.Planet.Rotation.Mat3())
	case FollowPlanetLookAtPlane:
		r := s.Planet.Rotation.Mat3()
		// Rotations are orthonormal; the transpose is the inverse.
		cam.LookAt = r.Transpose().Mul3x1(flight.Position)
		cam.SetRotation(r)
	}
}

// Remove satisfies the ecs.System interface
func (cs *CameraSystem) Remove(basic ecs.BasicEntity) {}
