// pkg/engine/camera.go
package engine

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// orbitSpeed converts mouse pixels into orbit radians.
	orbitSpeed = 0.01
	// polarMargin keeps the orbit away from the poles where the view
	// direction would be parallel to the up vector.
	polarMargin = 0.01

	minOrbitDistance = 1
)

// Camera is a perspective camera looking at a point. Its position, target
// and up vector are expressed in a frame that is rotated by Rotation; the
// planet-following modes set Rotation to the planet's rotation so the camera
// turns with the world.
type Camera struct {
	Width  float32
	Height float32
	// Fov is the vertical field of view in radians.
	Fov  float32
	Near float32
	Far  float32

	Position mgl32.Vec3
	LookAt   mgl32.Vec3
	Up       mgl32.Vec3
	Rotation mgl32.Mat3
}

// NewCamera creates a camera at position looking at lookAt with +Y up.
func NewCamera(width, height, fov, near, far float32, position, lookAt mgl32.Vec3) *Camera {
	return &Camera{
		Width:    width,
		Height:   height,
		Fov:      fov,
		Near:     near,
		Far:      far,
		Position: position,
		LookAt:   lookAt,
		Up:       mgl32.Vec3{0, 1, 0},
		Rotation: mgl32.Ident3(),
	}
}

// Aspect returns width over height, or 1 for an empty viewport.
func (c *Camera) Aspect() float32 {
	if c.Width <= 0 || c.Height <= 0 {
		return 1
	}
	return c.Width / c.Height
}

// Projection returns the perspective projection matrix.
func (c *Camera) Projection() mgl32.Mat4 {
	return mgl32.Perspective(c.Fov, c.Aspect(), c.Near, c.Far)
}

// View returns the world to camera matrix.
func (c *Camera) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.LookAt, c.Up).Mul4(c.Rotation.Transpose().Mat4())
}

// WorldPosition returns the camera position in world space.
func (c *Camera) WorldPosition() mgl32.Vec3 {
	return c.Rotation.Mul3x1(c.Position)
}

// Orbit moves the camera on a sphere around LookAt. diff turns the camera
// horizontally (X) and vertically (Y); zoom scales the distance, negative
// values move closer.
func (c *Camera) Orbit(diff mgl32.Vec2, zoom float32) {
	offset := c.Position.Sub(c.LookAt)
	r := offset.Len()
	if r == 0 {
		offset = mgl32.Vec3{0, 0, 1}
		r = 1
	}

	azimuth := math32.Atan2(offset.X(), offset.Z()) + diff.X()*orbitSpeed
	polar := math32.Acos(mgl32.Clamp(offset.Y()/r, -1, 1)) + diff.Y()*orbitSpeed
	polar = mgl32.Clamp(polar, polarMargin, math32.Pi-polarMargin)
	r = max(r*(1+zoom), minOrbitDistance)

	sinPolar := math32.Sin(polar)
	c.Position = c.LookAt.Add(mgl32.Vec3{
		r * sinPolar * math32.Sin(azimuth),
		r * math32.Cos(polar),
		r * sinPolar * math32.Cos(azimuth),
	})
}

// Follow moves LookAt to pos and keeps the camera at the same offset.
func (c *Camera) Follow(pos mgl32.Vec3) {
	offset := c.Position.Sub(c.LookAt)
	c.LookAt = pos
	c.Position = pos.Add(offset)
}

// SetRotation sets the frame rotation.
func (c *Camera) SetRotation(r mgl32.Mat3) {
	c.Rotation = r
}

// ResetRotation clears the frame rotation.
func (c *Camera) ResetRotation() {
	c.Rotation = mgl32.Ident3()
}
