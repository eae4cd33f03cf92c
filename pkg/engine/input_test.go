package engine

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opd-ai/go-skyflag/pkg/config"
	"github.com/opd-ai/go-skyflag/pkg/physics"
)

func TestInput_Controls(t *testing.T) {
	tests := []struct {
		name    string
		pressed []Control
		want    physics.Controls
	}{
		{"idle", nil, physics.Controls{}},
		{"faster", []Control{ControlFaster}, physics.Controls{Throttle: physics.Positive}},
		{"slower", []Control{ControlSlower}, physics.Controls{Throttle: physics.Negative}},
		{"left", []Control{ControlLeft}, physics.Controls{Turn: physics.Positive}},
		{"right", []Control{ControlRight}, physics.Controls{Turn: physics.Negative}},
		{"up", []Control{ControlUp}, physics.Controls{Pitch: physics.Positive}},
		{"down", []Control{ControlDown}, physics.Controls{Pitch: physics.Negative}},
		{"opposing cancel", []Control{ControlLeft, ControlRight, ControlUp}, physics.Controls{Pitch: physics.Positive}},
		{"all", []Control{ControlFaster, ControlLeft, ControlDown}, physics.Controls{Throttle: physics.Positive, Turn: physics.Positive, Pitch: physics.Negative}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := NewInput()
			for _, c := range tc.pressed {
				in.Press(c, true)
			}
			if got := in.Controls(); got != tc.want {
				t.Errorf("Controls() = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestInput_PressAndReset(t *testing.T) {
	in := NewInput()
	in.Press(ControlUp, true)
	in.Press(Control(-1), true)
	in.Press(controlCount, true)

	assert.True(t, in.Pressed(ControlUp))
	assert.False(t, in.Pressed(controlCount))

	in.Press(ControlUp, false)
	assert.False(t, in.Pressed(ControlUp))

	in.Press(ControlDown, true)
	in.BeginDrag(1, 1)
	in.Reset()
	assert.Equal(t, physics.Controls{}, in.Controls())
	_, ok := in.Drag(2, 2)
	assert.False(t, ok)
}

func TestInput_Drag(t *testing.T) {
	in := NewInput()
	_, ok := in.Drag(10, 10)
	assert.False(t, ok)

	in.BeginDrag(10, 10)
	diff, ok := in.Drag(14, 7)
	require.True(t, ok)
	assert.Equal(t, mgl32.Vec2{-4, 3}, diff)

	diff, _ = in.Drag(14, 7)
	assert.Equal(t, mgl32.Vec2{}, diff, "diff is relative to the previous position")

	in.EndDrag()
	_, ok = in.Drag(0, 0)
	assert.False(t, ok)
}

func TestFollowMode_ConfigNamesParse(t *testing.T) {
	for _, name := range config.FollowModes {
		mode, err := ParseFollowMode(name)
		require.NoError(t, err, name)
		assert.Equal(t, name, mode.String())
		assert.True(t, mode.Valid())
	}

	_, err := ParseFollowMode("orbit")
	assert.Error(t, err)
	assert.False(t, FollowMode(-1).Valid())
	assert.Equal(t, "FollowMode(9)", FollowMode(9).String())
}

func TestFollowMode_MatchesNumberKeys(t *testing.T) {
	assert.Equal(t, FollowMode(0), FollowNone)
	assert.Equal(t, FollowMode(1), FollowPlane)
	assert.Equal(t, FollowMode(2), FollowPlanet)
	assert.Equal(t, FollowMode(3), FollowPlanetLookAtPlane)
}

func TestRenderMode_Next(t *testing.T) {
	assert.Equal(t, RenderNormal, RenderColor.Next())
	assert.Equal(t, RenderColor, RenderNormal.Next())
	assert.Equal(t, "color", RenderColor.String())
	assert.Equal(t, "normal", RenderNormal.String())
	assert.Equal(t, "RenderMode(7)", RenderMode(7).String())
}
