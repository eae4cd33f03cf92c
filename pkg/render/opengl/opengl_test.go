package opengl

import (
	"context"
	"strings"
	"testing"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opd-ai/go-skyflag/pkg/asset"
	"github.com/opd-ai/go-skyflag/pkg/config"
	"github.com/opd-ai/go-skyflag/pkg/engine"
)

func newTestSim(t *testing.T) *engine.Scene {
	t.Helper()
	cfg := config.DefaultConfig()
	models := &engine.Models{
		Plane:  asset.PlaneModels(),
		Flag:   []asset.Model{asset.FlagGrid(4, 8, cfg.Flag.Width, cfg.Flag.Length())},
		Planet: asset.PlanetModels(cfg.Planet.Radius),
	}
	sim, err := engine.NewSceneFromModels(context.Background(), cfg, models, nil)
	require.NoError(t, err)
	return sim
}

func TestHandleKey_FlightControls(t *testing.T) {
	sim := newTestSim(t)

	for key, c := range controlKeys {
		assert.Equal(t, commandNone, handleKey(sim, key, glfw.Press))
		assert.True(t, sim.Input.Pressed(c), "key %v should press control %d", key, c)

		handleKey(sim, key, glfw.Repeat)
		assert.True(t, sim.Input.Pressed(c), "repeat keeps control %d down", c)

		handleKey(sim, key, glfw.Release)
		assert.False(t, sim.Input.Pressed(c), "release lifts control %d", c)
	}
}

func TestHandleKey_Actions(t *testing.T) {
	sim := newTestSim(t)

	handleKey(sim, glfw.KeyR, glfw.Press)
	assert.Equal(t, engine.RenderNormal, sim.RenderMode())
	handleKey(sim, glfw.KeyR, glfw.Repeat)
	assert.Equal(t, engine.RenderNormal, sim.RenderMode(), "repeats do not cycle")
	handleKey(sim, glfw.KeyR, glfw.Press)
	assert.Equal(t, engine.RenderColor, sim.RenderMode())

	handleKey(sim, glfw.KeyE, glfw.Press)
	assert.False(t, sim.Emission())
	handleKey(sim, glfw.KeyE, glfw.Release)
	assert.False(t, sim.Emission())

	for key, mode := range followKeys {
		handleKey(sim, key, glfw.Press)
		assert.Equal(t, mode, sim.FollowMode())
	}

	assert.Equal(t, commandScreenshot, handleKey(sim, glfw.KeyP, glfw.Press))
	assert.Equal(t, commandClose, handleKey(sim, glfw.KeyEscape, glfw.Press))
	assert.Equal(t, commandNone, handleKey(sim, glfw.KeyEscape, glfw.Release))
	assert.Equal(t, commandNone, handleKey(sim, glfw.KeyQ, glfw.Press))
}

func TestHandleMouseButton_Drag(t *testing.T) {
	sim := newTestSim(t)
	start := sim.Camera.Position

	handleMouseButton(sim, glfw.MouseButtonRight, glfw.Press, 100, 100)
	sim.DragTo(140, 100)
	assert.Equal(t, start, sim.Camera.Position, "right button does not orbit")

	handleMouseButton(sim, glfw.MouseButtonLeft, glfw.Press, 100, 100)
	sim.DragTo(140, 100)
	assert.NotEqual(t, start, sim.Camera.Position, "left drag orbits")

	moved := sim.Camera.Position
	handleMouseButton(sim, glfw.MouseButtonLeft, glfw.Release, 140, 100)
	sim.DragTo(200, 100)
	assert.Equal(t, moved, sim.Camera.Position, "release ends the drag")
}

func TestVertexData_Interleaves(t *testing.T) {
	m := asset.Model{Vertices: []asset.Vertex{
		{Position: mgl32.Vec3{1, 2, 3}, Normal: mgl32.Vec3{0, 1, 0}, UV: mgl32.Vec2{0.5, 1}},
		{Position: mgl32.Vec3{4, 5, 6}, Normal: mgl32.Vec3{1, 0, 0}},
	}}

	got := vertexData(&m)
	want := []float32{
		1, 2, 3, 0, 1, 0, 0.5, 1,
		4, 5, 6, 1, 0, 0, 0, 0,
	}
	assert.Equal(t, want, got)
}

func TestFlipRows(t *testing.T) {
	tests := []struct {
		name   string
		pix    []byte
		stride int
		height int
		want   []byte
	}{
		{"three rows", []byte{1, 1, 2, 2, 3, 3}, 2, 3, []byte{3, 3, 2, 2, 1, 1}},
		{"two rows", []byte{1, 2, 3, 4}, 2, 2, []byte{3, 4, 1, 2}},
		{"single row", []byte{1, 2}, 2, 1, []byte{1, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flipRows(tt.pix, tt.stride, tt.height)
			assert.Equal(t, tt.want, tt.pix)
		})
	}
}

func TestShaderSources(t *testing.T) {
	for name, src := range map[string]string{
		"scene":  sceneVertexShader,
		"flag":   flagVertexShader,
		"color":  colorFragmentShader,
		"normal": normalFragmentShader,
	} {
		assert.True(t, strings.HasPrefix(src, "#version 410 core"), "%s shader version", name)
		assert.True(t, strings.HasSuffix(src, "\x00"), "%s shader must be NUL terminated", name)
	}

	for _, uniform := range []string{"uAccumTime", "uWaveParams[3]", "uWaveDirections[3]", "uSpan", "uModel", "uView", "uProj"} {
		assert.Contains(t, flagVertexShader, uniform)
	}
	assert.Contains(t, colorFragmentShader, "uMaterial")
	assert.Contains(t, normalFragmentShader, "uViewPos")
	assert.Contains(t, normalFragmentShader, "isFlag")
}
