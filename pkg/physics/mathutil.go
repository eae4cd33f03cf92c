// pkg/physics/mathutil.go
package physics

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	twoPi = 2 * math32.Pi

	// relaxTime is the time constant (π/4 s) with which roll, pitch and the
	// flag yaw rate decay back towards zero.
	relaxTime = math32.Pi / 4
)

// WrapAngle maps an angle in radians into (-π, π]. Angles already inside the
// range are returned unchanged.
func WrapAngle(angle float32) float32 {
	if angle > math32.Pi || angle <= -math32.Pi {
		angle = math32.Mod(angle+math32.Pi, twoPi)
		if angle <= 0 {
			angle += twoPi
		}
		angle -= math32.Pi
		// -π and π name the same heading; rounding may land on the excluded end.
		if angle <= -math32.Pi {
			angle = math32.Pi
		}
	}
	return angle
}

// relax returns the amount by which v decays over dt. Steps longer than
// relaxTime overshoot zero; callers keep dt at frame length.
func relax(v, dt float32) float32 {
	return dt * v / relaxTime
}

// Lerp interpolates linearly between a and b.
func Lerp(a, b, t float32) float32 {
	return a + t*(b-a)
}

// Clamp01 clamps t into [0, 1].
func Clamp01(t float32) float32 {
	return mgl32.Clamp(t, 0, 1)
}
