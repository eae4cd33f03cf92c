package engine

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func newTestCamera() *Camera {
	return NewCamera(800, 600, mgl32.DegToRad(45), 0.1, 350, mgl32.Vec3{0, 5, -15}, mgl32.Vec3{})
}

func TestCamera_ProjectionAndAspect(t *testing.T) {
	c := newTestCamera()
	assert.InDelta(t, 800.0/600.0, c.Aspect(), 1e-6)
	assert.Equal(t, mgl32.Perspective(c.Fov, 800.0/600.0, 0.1, 350), c.Projection())

	c.Height = 0
	assert.Equal(t, float32(1), c.Aspect())
}

func TestCamera_ViewWithoutRotation(t *testing.T) {
	c := newTestCamera()
	assert.True(t, c.View().ApproxEqual(mgl32.LookAtV(c.Position, c.LookAt, c.Up)))
	assert.Equal(t, c.Position, c.WorldPosition())
}

func TestCamera_RotatedViewMapsEyeToOrigin(t *testing.T) {
	c := newTestCamera()
	c.SetRotation(mgl32.Rotate3DX(0.7).Mul3(mgl32.Rotate3DY(-1.2)))

	eye := c.WorldPosition()
	got := c.View().Mul4x1(eye.Vec4(1))
	assert.True(t, got.Vec3().ApproxEqualThreshold(mgl32.Vec3{}, 1e-4), "eye maps to %v", got)

	// The world-space target lies straight ahead on -Z.
	target := c.Rotation.Mul3x1(c.LookAt)
	ahead := c.View().Mul4x1(target.Vec4(1)).Vec3()
	assert.InDelta(t, 0, ahead.X(), 1e-4)
	assert.InDelta(t, 0, ahead.Y(), 1e-4)
	assert.Less(t, ahead.Z(), float32(0))

	c.ResetRotation()
	assert.Equal(t, mgl32.Ident3(), c.Rotation)
}

func TestCamera_OrbitKeepsDistance(t *testing.T) {
	c := newTestCamera()
	dist := c.Position.Sub(c.LookAt).Len()

	c.Orbit(mgl32.Vec2{40, 0}, 0)
	assert.InDelta(t, dist, c.Position.Sub(c.LookAt).Len(), 1e-4)
	assert.InDelta(t, 5, c.Position.Y(), 1e-4, "horizontal orbit keeps the height")

	c.Orbit(mgl32.Vec2{0, -30}, 0)
	assert.InDelta(t, dist, c.Position.Sub(c.LookAt).Len(), 1e-4)
	assert.Greater(t, c.Position.Y(), float32(5), "a negative vertical diff raises the camera")
}

func TestCamera_OrbitStopsAtPoles(t *testing.T) {
	c := newTestCamera()
	c.Orbit(mgl32.Vec2{0, -1e4}, 0)

	offset := c.Position.Sub(c.LookAt)
	r := offset.Len()
	assert.Less(t, offset.Y(), r, "camera must not reach the pole")
	assert.InDelta(t, r*math32.Cos(polarMargin), offset.Y(), 1e-3)
}

func TestCamera_OrbitZoom(t *testing.T) {
	c := newTestCamera()
	dist := c.Position.Sub(c.LookAt).Len()

	c.Orbit(mgl32.Vec2{}, 0.5)
	assert.InDelta(t, dist*1.5, c.Position.Sub(c.LookAt).Len(), 1e-3)

	c.Orbit(mgl32.Vec2{}, -0.99)
	assert.InDelta(t, minOrbitDistance, c.Position.Sub(c.LookAt).Len(), 1e-4)
}

func TestCamera_OrbitFromTarget(t *testing.T) {
	c := newTestCamera()
	c.Position = c.LookAt

	c.Orbit(mgl32.Vec2{}, 0)
	assert.False(t, c.Position.ApproxEqual(c.LookAt), "camera should be pushed off its target")
	for _, v := range c.Position {
		assert.False(t, math32.IsNaN(v))
	}
}

func TestCamera_Follow(t *testing.T) {
	c := newTestCamera()
	offset := c.Position.Sub(c.LookAt)

	c.Follow(mgl32.Vec3{3, 50, 2})
	assert.Equal(t, mgl32.Vec3{3, 50, 2}, c.LookAt)
	assert.True(t, c.Position.Sub(c.LookAt).ApproxEqual(offset))
}
