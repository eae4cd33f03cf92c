// pkg/render/opengl/window.go
package opengl

import (
	"context"
	"fmt"
	"image/png"
	"os"
	"runtime"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/opd-ai/go-skyflag/pkg/engine"
	"github.com/opd-ai/go-skyflag/pkg/logging"
)

func init() {
	// glfw must be on main thread
	runtime.LockOSThread()
}

// Options configures the window.
type Options struct {
	Title          string
	Width          int
	Height         int
	Fullscreen     bool
	ScreenshotPath string
}

// controlKeys are the keys held down to steer the plane.
var controlKeys = map[glfw.Key]engine.Control{
	glfw.KeyW:           engine.ControlFaster,
	glfw.KeyS:           engine.ControlSlower,
	glfw.KeyA:           engine.ControlLeft,
	glfw.KeyD:           engine.ControlRight,
	glfw.KeySpace:       engine.ControlUp,
	glfw.KeyLeftControl: engine.ControlDown,
}

// followKeys select the camera mode.
var followKeys = map[glfw.Key]engine.FollowMode{
	glfw.Key0: engine.FollowNone,
	glfw.Key1: engine.FollowPlane,
	glfw.Key2: engine.FollowPlanet,
	glfw.Key3: engine.FollowPlanetLookAtPlane,
}

// keyCommand is what a key event asks of the window itself.
type keyCommand int

const (
	commandNone keyCommand = iota
	commandClose
	commandScreenshot
)

// handleKey applies a key event to the scene.
func handleKey(sim *engine.Scene, key glfw.Key, action glfw.Action) keyCommand {
	if c, ok := controlKeys[key]; ok {
		sim.Input.Press(c, action == glfw.Press || action == glfw.Repeat)
		return commandNone
	}
	if action != glfw.Press {
		return commandNone
	}

	if mode, ok := followKeys[key]; ok {
		_ = sim.SetCameraFollow(mode) // modes in the table are valid
		return commandNone
	}
	switch key {
	case glfw.KeyR:
		sim.CycleRenderMode()
	case glfw.KeyE:
		sim.ToggleEmission()
	case glfw.KeyP:
		return commandScreenshot
	case glfw.KeyEscape:
		return commandClose
	}
	return commandNone
}

// handleMouseButton starts and ends camera drags with the left button.
func handleMouseButton(sim *engine.Scene, button glfw.MouseButton, action glfw.Action, x, y float64) {
	if button != glfw.MouseButtonLeft {
		return
	}
	if action == glfw.Press || action == glfw.Repeat {
		sim.Input.BeginDrag(float32(x), float32(y))
		return
	}
	sim.Input.EndDrag()
}

// Window shows a scene in a glfw window.
type Window struct {
	sim      *engine.Scene
	opts     Options
	window   *glfw.Window
	renderer *Renderer

	logger *logging.Logger
	ctx    context.Context
}

// Run opens a window, runs the scene until the window is closed and
// releases every GL resource.
func Run(sim *engine.Scene, opts Options) error {
	if opts.Title == "" {
		opts.Title = "skyflag"
	}
	if opts.ScreenshotPath == "" {
		opts.ScreenshotPath = "screenshot.png"
	}
	w := &Window{
		sim:    sim,
		opts:   opts,
		logger: logging.NewLogger(),
		ctx:    sim.Context(),
	}

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("failed to initialize glfw: %w", err)
	}
	defer glfw.Terminate()

	if err := w.open(); err != nil {
		return err
	}
	defer w.window.Destroy()

	renderer, err := NewRenderer(sim, w.window.SwapBuffers)
	if err != nil {
		return logging.WrapError(err, "creating renderer")
	}
	defer renderer.Delete()
	w.renderer = renderer

	w.loop()
	return nil
}

func (w *Window) open() error {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	var monitor *glfw.Monitor
	if w.opts.Fullscreen {
		monitor = glfw.GetPrimaryMonitor()
	}
	window, err := glfw.CreateWindow(w.opts.Width, w.opts.Height, w.opts.Title, monitor, nil)
	if err != nil {
		return fmt.Errorf("failed to create window: %w", err)
	}
	window.MakeContextCurrent()
	glfw.SwapInterval(1)

	if err := gl.Init(); err != nil {
		window.Destroy()
		return fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	w.logger.Info(w.ctx, "OpenGL context created", "version", gl.GoStr(gl.GetString(gl.VERSION)))

	window.SetKeyCallback(w.onKey)
	window.SetMouseButtonCallback(w.onMouseButton)
	window.SetCursorPosCallback(w.onCursorPos)
	window.SetScrollCallback(w.onScroll)
	window.SetFramebufferSizeCallback(w.onFramebufferSize)
	w.window = window

	fw, fh := window.GetFramebufferSize()
	w.onFramebufferSize(window, fw, fh)
	return nil
}

func (w *Window) loop() {
	w.sim.Start()
	defer w.sim.Stop()

	for !w.window.ShouldClose() {
		glfw.PollEvents()
		w.sim.Tick()
		w.sim.Render(w.renderer)
	}
	w.logger.Info(w.ctx, "Window closed", "frames", w.renderer.Frames())
}

func (w *Window) onKey(window *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
	switch handleKey(w.sim, key, action) {
	case commandClose:
		window.SetShouldClose(true)
	case commandScreenshot:
		if err := w.saveScreenshot(); err != nil {
			w.logger.Error(w.ctx, "Failed to save screenshot", err, "path", w.opts.ScreenshotPath)
		}
	}
}

func (w *Window) onMouseButton(window *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
	x, y := window.GetCursorPos()
	handleMouseButton(w.sim, button, action, x, y)
}

func (w *Window) onCursorPos(_ *glfw.Window, x, y float64) {
	w.sim.DragTo(float32(x), float32(y))
}

func (w *Window) onScroll(_ *glfw.Window, _, yoff float64) {
	w.sim.Zoom(float32(yoff))
}

func (w *Window) onFramebufferSize(_ *glfw.Window, width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
	w.sim.Resize(width, height)
}

func (w *Window) saveScreenshot() error {
	width, height := w.window.GetFramebufferSize()
	img := w.renderer.Screenshot(width, height)

	f, err := os.Create(w.opts.ScreenshotPath)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	w.logger.Info(w.ctx, "Screenshot saved", "path", w.opts.ScreenshotPath, "width", width, "height", height)
	return f.Close()
}
