package physics

import (
	"errors"
	"math"
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFlight(t *testing.T, y, speed float32) *FlightModel {
	t.Helper()
	m, err := NewFlightModel(DefaultFlightLimits(), mgl32.Vec3{0, y, 0}, speed)
	require.NoError(t, err)
	return m
}

func TestNewFlightModelValidatesLimits(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*FlightLimits)
	}{
		{"speed range empty", func(l *FlightLimits) { l.MaxSpeed = l.MinSpeed }},
		{"height range inverted", func(l *FlightLimits) { l.MinHeight, l.MaxHeight = 60, 45 }},
		{"fov inverted", func(l *FlightLimits) { l.MinFov, l.MaxFov = 70, 40 }},
		{"fov not positive", func(l *FlightLimits) { l.MinFov = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limits := DefaultFlightLimits()
			tt.modify(&limits)
			_, err := NewFlightModel(limits, mgl32.Vec3{}, 20)
			assert.True(t, errors.Is(err, ErrInvalidLimits), "got %v", err)
		})
	}
}

func TestNewFlightModelClampsStart(t *testing.T) {
	m := newTestFlight(t, 1000, 1)
	assert.Equal(t, float32(60), m.Position.Y())
	assert.Equal(t, float32(15), m.Speed)
	assert.Equal(t, mgl32.Translate3D(0, 60, 0), m.Transformation)
	assert.Equal(t, mgl32.Ident4(), m.FlagCounterRotation)
}

func TestAxisFromButtons(t *testing.T) {
	assert.Equal(t, Positive, AxisFromButtons(true, false))
	assert.Equal(t, Negative, AxisFromButtons(false, true))
	assert.Equal(t, Neutral, AxisFromButtons(true, true))
	assert.Equal(t, Neutral, AxisFromButtons(false, false))
}

func TestThrottleClampsSpeed(t *testing.T) {
	tests := []struct {
		name     string
		start    float32
		throttle Axis
		dt       float32
		want     float32
	}{
		{"accelerate inside range", 20, Positive, 0.1, 21},
		{"brake inside range", 20, Negative, 0.1, 19},
		{"neutral keeps speed", 20, Neutral, 5, 20},
		{"accelerate past max", 49, Positive, 10, 50},
		{"brake past min", 16, Negative, 10, 15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestFlight(t, 50, tt.start)
			m.ApplyThrottle(tt.throttle, tt.dt)
			assert.InDelta(t, tt.want, m.Speed, 1e-5)
		})
	}
}

func TestSpeedFactorAndFov(t *testing.T) {
	m := newTestFlight(t, 50, 15)
	assert.Equal(t, float32(0), m.SpeedFactor())
	assert.InDelta(t, mgl32.DegToRad(40), m.SpeedFov(), 1e-6)

	m.Speed = 50
	assert.Equal(t, float32(1), m.SpeedFactor())
	assert.InDelta(t, mgl32.DegToRad(65), m.SpeedFov(), 1e-6)

	m.Speed = 32.5
	assert.InDelta(t, 0.5, m.SpeedFactor(), 1e-6)
	assert.InDelta(t, mgl32.DegToRad(52.5), m.SpeedFov(), 1e-6)
}

// Accelerating from the minimum at full throttle for 5 s reaches the maximum.
func TestFullThrottleFromMinimum(t *testing.T) {
	m := newTestFlight(t, 50, 15)
	for i := 0; i < 50; i++ {
		m.Tick(Controls{Throttle: Positive}, 0.1)
		assert.GreaterOrEqual(t, m.Speed, float32(15))
		assert.LessOrEqual(t, m.Speed, float32(50))
	}
	assert.InDelta(t, 50, m.Speed, 1e-4)
	assert.InDelta(t, 1, m.SpeedFactor(), 1e-5)
}

// Ten one second bursts from 20 would reach 120 unclamped.
func TestScenarioThrottleClampsAtMax(t *testing.T) {
	m := newTestFlight(t, 50, 20)
	require.Equal(t, float32(20), m.Speed)

	for i := 0; i < 10; i++ {
		m.ApplyThrottle(Positive, 1.0)
	}
	assert.Equal(t, float32(50), m.Speed)
	assert.Equal(t, float32(1), m.SpeedFactor())
}

// closedFormYaw wraps y0 + steps*dYaw into (-π, π] in float64.
func closedFormYaw(y0 float64, steps int, dYaw float64) float64 {
	y := math.Mod(y0+float64(steps)*dYaw+math.Pi, 2*math.Pi)
	if y <= 0 {
		y += 2 * math.Pi
	}
	return y - math.Pi
}

// angleDiff returns a-b wrapped into [-π, π].
func angleDiff(a, b float64) float64 {
	d := math.Mod(a-b, 2*math.Pi)
	if d > math.Pi {
		d -= 2 * math.Pi
	} else if d < -math.Pi {
		d += 2 * math.Pi
	}
	return d
}

// Starting just below π, a left turn crosses π on the first step.
func TestScenarioYawCrossesPi(t *testing.T) {
	m := newTestFlight(t, 50, 20)
	m.Attitude.Yaw = 3.0

	want := []float32{-3.0331853, -2.7831853, -2.5331853}
	for i, w := range want {
		m.Tick(Controls{Turn: Positive}, 0.5)
		assert.InDelta(t, w, m.Attitude.Yaw, 1e-5, "tick %d", i+1)
		assert.InDelta(t, closedFormYaw(3.0, i+1, 0.25), float64(m.Attitude.Yaw), 1e-5, "tick %d", i+1)
	}
}

func TestYawStaysWrapped(t *testing.T) {
	tests := []struct {
		name string
		turn Axis
	}{
		{"left", Positive},
		{"right", Negative},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			const (
				steps = 2000
				dt    = 0.05
			)
			dYaw := float64(tt.turn) * dt * 0.5
			m := newTestFlight(t, 50, 20)

			wraps := 0
			prev := m.Attitude.Yaw
			for i := 0; i < steps; i++ {
				m.Tick(Controls{Turn: tt.turn}, dt)
				yaw := m.Attitude.Yaw
				assert.Greater(t, yaw, float32(-math32.Pi))
				assert.LessOrEqual(t, yaw, float32(math32.Pi))
				if math32.Abs(yaw-prev) > math32.Pi {
					wraps++
				}
				prev = yaw
			}

			// One wrap per full revolution, no drift.
			wantWraps := int(math.Floor((math.Abs(float64(steps)*dYaw) + math.Pi) / (2 * math.Pi)))
			assert.Equal(t, wantWraps, wraps)
			assert.InDelta(t, 0, angleDiff(float64(m.Attitude.Yaw), closedFormYaw(0, steps, dYaw)), 1e-3)
		})
	}
}

func TestTurnBanksAndCountersFlag(t *testing.T) {
	m := newTestFlight(t, 50, 20)
	m.Tick(Controls{Turn: Positive}, 0.1)

	assert.InDelta(t, 0.05, m.Attitude.Yaw, 1e-6)
	assert.Less(t, m.Attitude.Roll, float32(0), "turning left banks with negative roll")
	assert.Greater(t, m.YawRate, float32(0))

	want := mgl32.HomogRotate3DY(-m.YawRate).Mul4(mgl32.HomogRotate3DZ(-0.75 * m.Attitude.Roll))
	assert.True(t, m.FlagCounterRotation.ApproxEqualThreshold(want, 1e-6))
}

func TestRollAndYawRateRelaxToRest(t *testing.T) {
	m := newTestFlight(t, 50, 20)
	for i := 0; i < 20; i++ {
		m.Tick(Controls{Turn: Positive}, 0.05)
	}
	heading := m.Attitude.Yaw
	require.Less(t, m.Attitude.Roll, float32(0))

	for i := 0; i < 1000; i++ {
		m.Tick(Controls{}, 0.05)
		assert.LessOrEqual(t, m.Attitude.Roll, float32(0), "roll must not flip sign at frame rate")
	}
	assert.InDelta(t, 0, m.Attitude.Roll, 1e-7)
	assert.InDelta(t, 0, m.YawRate, 1e-7)
	assert.Equal(t, heading, m.Attitude.Yaw)
	assert.Equal(t, mgl32.Ident4(), m.FlagCounterRotation)
}

// Long steps follow the literal decay formula, overshoot included.
func TestRollDecayWithLongSteps(t *testing.T) {
	m := newTestFlight(t, 50, 20)
	want := []float32{-0.6666667, -0.4845, -0.5343}
	for i, w := range want {
		m.ApplyTurn(Positive, 1)
		assert.InDelta(t, w, m.Attitude.Roll, 1e-4, "step %d", i+1)
	}
}

func TestHeightStaysClampedForAnyDt(t *testing.T) {
	tests := []struct {
		name  string
		pitch Axis
		dt    float32
	}{
		{"climb small steps", Positive, 0.016},
		{"climb huge steps", Positive, 3},
		{"descend small steps", Negative, 0.016},
		{"descend huge steps", Negative, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestFlight(t, 50, 50)
			for i := 0; i < 500; i++ {
				m.Tick(Controls{Pitch: tt.pitch}, tt.dt)
				assert.GreaterOrEqual(t, m.Position.Y(), float32(45))
				assert.LessOrEqual(t, m.Position.Y(), float32(60))
			}
		})
	}
}

// Holding the climb control for 60 s at max speed ends at the ceiling with a
// pitch that has relaxed to near zero.
func TestScenarioClimbToCeiling(t *testing.T) {
	m := newTestFlight(t, 50, 50)
	dt := float32(1.0 / 60.0)
	for i := 0; i < 60*60; i++ {
		m.Tick(Controls{Pitch: Positive}, dt)
	}
	assert.InDelta(t, 60, m.Position.Y(), 0.5)
	assert.InDelta(t, 0, m.Attitude.Pitch, 0.01)
}

func TestPitchComposesAfterYawAndRoll(t *testing.T) {
	m := newTestFlight(t, 50, 20)
	m.Tick(Controls{Turn: Positive, Pitch: Positive}, 0.1)

	want := mgl32.HomogRotate3DY(m.Attitude.Yaw).
		Mul4(mgl32.HomogRotate3DZ(m.Attitude.Roll)).
		Mul4(mgl32.HomogRotate3DX(m.Attitude.Pitch))
	assert.True(t, m.Rotation.ApproxEqualThreshold(want, 1e-6))

	wantTransform := mgl32.Translate3D(m.Position.X(), m.Position.Y(), m.Position.Z()).Mul4(want)
	assert.True(t, m.Transformation.ApproxEqualThreshold(wantTransform, 1e-5))
}

func TestTurningAxis(t *testing.T) {
	m := newTestFlight(t, 50, 20)
	axis := m.TurningAxis()
	assert.True(t, axis.ApproxEqualThreshold(mgl32.Vec3{-1, 0, 0}, 1e-6))

	m.Attitude.Yaw = math32.Pi / 2
	axis = m.TurningAxis()
	assert.InDelta(t, 0, axis.Y(), 1e-6)
	assert.InDelta(t, 1, axis.Len(), 1e-6)
	assert.True(t, axis.ApproxEqualThreshold(mgl32.Vec3{0, 0, 1}, 1e-6))
}
