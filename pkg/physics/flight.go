// pkg/physics/flight.go
package physics

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Hand-tuned flight feel. Changing any of these changes how the plane handles.
const (
	throttleGain  = 10   // speed units per second at full throttle
	turnRate      = 0.5  // yaw radians per second
	rollGain      = 1.5  // roll impulse divisor while turning
	pitchGain     = 4    // pitch impulse divisor
	flagRollShare = 0.75 // share of the hull roll the flag mount cancels
	heightMargin  = 0.5  // pitch stops accumulating this close to a height bound

	// rotationEpsilon is the float32 machine epsilon.
	rotationEpsilon = 1.1920929e-07
)

// ErrInvalidLimits is returned when flight limits describe an empty range.
var ErrInvalidLimits = errors.New("invalid flight limits")

// Axis is a discrete control direction.
type Axis int8

const (
	Negative Axis = -1
	Neutral  Axis = 0
	Positive Axis = 1
)

// AxisFromButtons folds a pair of opposing buttons into an Axis.
func AxisFromButtons(positive, negative bool) Axis {
	var a Axis
	if positive {
		a++
	}
	if negative {
		a--
	}
	return a
}

// Controls holds the three control signals of a single tick.
type Controls struct {
	Throttle Axis // +1 faster, -1 slower
	Turn     Axis // +1 left, -1 right
	Pitch    Axis // +1 climb, -1 descend
}

// Attitude holds the plane's Euler angles in radians.
type Attitude struct {
	Yaw   float32
	Pitch float32
	Roll  float32
}

// FlightLimits bounds the flight envelope.
type FlightLimits struct {
	MinSpeed  float32
	MaxSpeed  float32
	MinHeight float32
	MaxHeight float32
	MinFov    float32 // degrees
	MaxFov    float32 // degrees
}

// DefaultFlightLimits returns the envelope of the demo plane.
func DefaultFlightLimits() FlightLimits {
	return FlightLimits{
		MinSpeed:  15,
		MaxSpeed:  50,
		MinHeight: 45,
		MaxHeight: 60,
		MinFov:    40,
		MaxFov:    65,
	}
}

// Validate reports whether the limits describe non-empty ranges.
func (l FlightLimits) Validate() error {
	if !(l.MaxSpeed > l.MinSpeed) {
		return fmt.Errorf("%w: max speed %v must exceed min speed %v", ErrInvalidLimits, l.MaxSpeed, l.MinSpeed)
	}
	if !(l.MaxHeight > l.MinHeight) {
		return fmt.Errorf("%w: max height %v must exceed min height %v", ErrInvalidLimits, l.MaxHeight, l.MinHeight)
	}
	if l.MaxFov < l.MinFov || l.MinFov <= 0 || l.MaxFov >= 180 {
		return fmt.Errorf("%w: fov range [%v, %v] degrees", ErrInvalidLimits, l.MinFov, l.MaxFov)
	}
	return nil
}

// FlightModel integrates a kinematic plane from discrete control input.
// Rotation, Transformation and FlagCounterRotation are derived and rebuilt
// on every tick.
type FlightModel struct {
	Limits   FlightLimits
	Speed    float32
	Attitude Attitude
	// YawRate is a low-pass filtered yaw delta. It only drives the flag's
	// counter-rotation and does not feed back into the heading.
	YawRate  float32
	Position mgl32.Vec3

	Rotation            mgl32.Mat4
	Transformation      mgl32.Mat4
	FlagCounterRotation mgl32.Mat4
}

// NewFlightModel creates a flight model at start moving with speed. Both are
// clamped into the limits.
func NewFlightModel(limits FlightLimits, start mgl32.Vec3, speed float32) (*FlightModel, error) {
	if err := limits.Validate(); err != nil {
		return nil, err
	}

	start[1] = mgl32.Clamp(start.Y(), limits.MinHeight, limits.MaxHeight)
	m := &FlightModel{
		Limits:              limits,
		Speed:               mgl32.Clamp(speed, limits.MinSpeed, limits.MaxSpeed),
		Position:            start,
		Rotation:            mgl32.Ident4(),
		FlagCounterRotation: mgl32.Ident4(),
	}
	m.Transformation = mgl32.Translate3D(start.X(), start.Y(), start.Z())
	return m, nil
}

// ApplyThrottle changes the speed. There is no drag: a neutral throttle
// keeps the current speed.
func (m *FlightModel) ApplyThrottle(throttle Axis, dt float32) {
	m.Speed = mgl32.Clamp(m.Speed+float32(throttle)*dt*throttleGain, m.Limits.MinSpeed, m.Limits.MaxSpeed)
}

// ApplyTurn changes the heading. Turning banks the plane; the bank and the
// flag yaw rate relax back to zero on their own.
func (m *FlightModel) ApplyTurn(turn Axis, dt float32) {
	dYaw := dt * float32(turn) * turnRate
	m.Attitude.Yaw = WrapAngle(m.Attitude.Yaw + dYaw)
	m.YawRate += dYaw - relax(m.YawRate, dt)
	m.Attitude.Roll -= dt*float32(turn)/rollGain + relax(m.Attitude.Roll, dt)

	m.Rotation = mgl32.HomogRotate3DY(m.Attitude.Yaw).Mul4(mgl32.HomogRotate3DZ(m.Attitude.Roll))

	if math32.Abs(m.Attitude.Roll) > rotationEpsilon || math32.Abs(m.YawRate) > rotationEpsilon {
		m.FlagCounterRotation = mgl32.HomogRotate3DY(-m.YawRate).Mul4(mgl32.HomogRotate3DZ(-m.Attitude.Roll * flagRollShare))
	} else {
		m.FlagCounterRotation = mgl32.Ident4()
	}
}

// ApplyPitch noses the plane up or down and moves it vertically. A negative
// pitch angle climbs.
func (m *FlightModel) ApplyPitch(pitch Axis, dt float32) {
	y := m.Position.Y()
	atFloor := pitch < 0 && y <= m.Limits.MinHeight+heightMargin
	atCeiling := pitch > 0 && y >= m.Limits.MaxHeight-heightMargin
	if !atFloor && !atCeiling {
		m.Attitude.Pitch += dt * -float32(pitch) / pitchGain
	}
	m.Attitude.Pitch -= relax(m.Attitude.Pitch, dt)

	m.Rotation = mgl32.HomogRotate3DY(m.Attitude.Yaw).
		Mul4(mgl32.HomogRotate3DZ(m.Attitude.Roll)).
		Mul4(mgl32.HomogRotate3DX(m.Attitude.Pitch))

	m.Position[1] = mgl32.Clamp(y-dt*m.Attitude.Pitch*m.Speed, m.Limits.MinHeight, m.Limits.MaxHeight)
}

// Tick advances the model by dt seconds. Throttle, turn and pitch are
// applied in that order before the transformation is rebuilt.
func (m *FlightModel) Tick(c Controls, dt float32) {
	m.ApplyThrottle(c.Throttle, dt)
	m.ApplyTurn(c.Turn, dt)
	m.ApplyPitch(c.Pitch, dt)

	m.Transformation = mgl32.Translate3D(m.Position.X(), m.Position.Y(), m.Position.Z()).Mul4(m.Rotation)
}

// TurningAxis returns the horizontal unit vector the world should rotate
// around to make the plane appear to fly along its heading.
func (m *FlightModel) TurningAxis() mgl32.Vec3 {
	return mgl32.Rotate3DY(m.Attitude.Yaw).Mul3x1(mgl32.Vec3{-1, 0, 0})
}

// SpeedFactor returns the speed normalized into [0, 1] between the limits.
func (m *FlightModel) SpeedFactor() float32 {
	return Clamp01((m.Speed - m.Limits.MinSpeed) / (m.Limits.MaxSpeed - m.Limits.MinSpeed))
}

// SpeedFov returns the camera field of view in radians for the current speed.
func (m *FlightModel) SpeedFov() float32 {
	return mgl32.DegToRad(Lerp(m.Limits.MinFov, m.Limits.MaxFov, m.SpeedFactor()))
}
