// pkg/render/engo/scene.go
package engo

import (
	"context"
	"image/color"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-skyflag/pkg/engine"
	"github.com/opd-ai/go-skyflag/pkg/logging"
)

// defaultMapScale is the initial number of pixels per world unit.
const defaultMapScale = 4

// Options configures the engo window.
type Options struct {
	Title      string
	Width      int
	Height     int
	Fullscreen bool
	VSync      bool
}

// Run opens a window and shows sim until the window is closed.
func Run(sim *engine.Scene, opts Options) {
	if opts.Title == "" {
		opts.Title = "skyflag"
	}
	engo.Run(engo.RunOptions{
		Title:          opts.Title,
		Width:          opts.Width,
		Height:         opts.Height,
		Fullscreen:     opts.Fullscreen,
		VSync:          opts.VSync,
		StandardInputs: false,
	}, NewMapScene(sim))
}

// MapScene shows the scene from above in an engo window.
type MapScene struct {
	sim *engine.Scene

	assets   *AssetManager
	view     *MapView
	renderer *MapRenderer
	camera   *CameraSystem
	input    *InputSystem
	hud      *HUDSystem

	logger *logging.Logger
	ctx    context.Context
}

// NewMapScene creates a new map scene
func NewMapScene(sim *engine.Scene) *MapScene {
	return &MapScene{
		sim:    sim,
		assets: NewAssetManager(),
		view:   &MapView{Scale: defaultMapScale},
		logger: logging.NewLogger(),
		ctx:    sim.Context(),
	}
}

// Type returns the scene type (required by Engo)
func (scene *MapScene) Type() string {
	return "SkyflagMap"
}

// Preload is called before the scene starts (required by Engo)
func (scene *MapScene) Preload() {
	if err := scene.assets.Preload(); err != nil {
		scene.logger.Error(scene.ctx, "Failed to preload assets", err)
	}
}

// Setup is called when the scene starts (required by Engo)
func (scene *MapScene) Setup(u engo.Updater) {
	world, _ := u.(*ecs.World)
	common.SetBackground(color.RGBA{12, 16, 36, 255})
	SetupInputBindings()

	if err := scene.assets.LoadAssets(); err != nil {
		scene.logger.Error(scene.ctx, "Failed to load assets, falling back to shapes", err)
	}

	renderSystem := &common.RenderSystem{}
	world.AddSystem(renderSystem)

	scene.resize(engo.WindowWidth(), engo.WindowHeight())
	scene.renderer = NewMapRenderer(renderSystem, scene.assets, scene.view)
	scene.input = NewInputSystem(scene.sim)
	scene.camera = NewCameraSystem(scene.sim, scene.view)
	scene.hud = NewHUDSystem(scene.sim, renderSystem, scene.assets.Font())

	world.AddSystem(scene.input)
	world.AddSystem(&SimulationSystem{sim: scene.sim, renderer: scene.renderer})
	world.AddSystem(scene.camera)
	world.AddSystem(scene.hud)

	engo.Mailbox.Listen("WindowResizeMessage", func(m engo.Message) {
		if msg, ok := m.(engo.WindowResizeMessage); ok {
			scene.resize(float32(msg.NewWidth), float32(msg.NewHeight))
		}
	})

	scene.sim.Start()
}

func (scene *MapScene) resize(width, height float32) {
	scene.view.Width, scene.view.Height = width, height
	scene.sim.Resize(int(width), int(height))
}

// Exit is called when the scene is exiting (required by Engo)
func (scene *MapScene) Exit() {
	if scene.hud != nil {
		scene.hud.Close()
	}
	scene.sim.Stop()
	scene.logger.Info(scene.ctx, "Map window closed", "frames", scene.frames())
}

func (scene *MapScene) frames() uint64 {
	if scene.renderer == nil {
		return 0
	}
	return scene.renderer.Frames()
}

// SimulationSystem steps the scene once per engo frame and draws it.
type SimulationSystem struct {
	sim      *engine.Scene
	renderer *MapRenderer
}

// Priority runs the step after input and before the camera.
func (ss *SimulationSystem) Priority() int { return 10 }

// Remove satisfies the ecs.System interface
func (ss *SimulationSystem) Remove(basic ecs.BasicEntity) {}

// Update advances the scene by dt and renders it.
func (ss *SimulationSystem) Update(dt float32) {
	ss.sim.Update(dt)
	ss.sim.Render(ss.renderer)
}
