// pkg/engine/scene.go
package engine

import (
	"context"
	"errors"
	"time"

	"github.com/EngoEngine/ecs"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/opd-ai/go-skyflag/pkg/config"
	"github.com/opd-ai/go-skyflag/pkg/entity"
	"github.com/opd-ai/go-skyflag/pkg/event"
	"github.com/opd-ai/go-skyflag/pkg/logging"
	"github.com/opd-ai/go-skyflag/pkg/physics"
)

// MaxFrameTime caps the time step of a single update in seconds.
const MaxFrameTime float32 = 0.1

// Flight envelope bounds reported in event.LimitEvent.
const (
	LimitMinSpeed  = "min_speed"
	LimitMaxSpeed  = "max_speed"
	LimitMinHeight = "min_height"
	LimitMaxHeight = "max_height"
)

const limitCount = 4

// Scene ties the plane, the planet and the camera together and steps them
// once per frame.
type Scene struct {
	Config *config.Config
	Plane  *entity.Plane
	Planet *entity.Planet
	Camera *Camera
	Input  *Input
	// Autopilot, when set, replaces the keyboard controls.
	Autopilot *Autopilot
	EventBus  *event.Bus

	Running     bool
	CurrentTick uint64
	ElapsedTime float32 // seconds
	LastUpdate  time.Time

	follow  FollowMode
	render  RenderMode
	baseFov float32
	atLimit [limitCount]bool

	world  *ecs.World
	logger *logging.Logger
	ctx    context.Context
}

// NewScene creates a scene around an existing plane and planet. A nil bus
// gets replaced by a fresh one.
func NewScene(ctx context.Context, cfg *config.Config, plane *entity.Plane, planet *entity.Planet, bus *event.Bus) (*Scene, error) {
	if cfg == nil {
		return nil, errors.New("scene needs a configuration")
	}
	if plane == nil || planet == nil {
		return nil, errors.New("scene needs a plane and a planet")
	}
	follow, err := ParseFollowMode(cfg.Camera.FollowMode)
	if err != nil {
		return nil, err
	}
	if bus == nil {
		bus = event.NewEventBus()
	}
	if logging.SessionID(ctx) == "" {
		ctx = logging.WithSessionID(ctx, logging.NewSessionID())
	}

	baseFov := mgl32.DegToRad(cfg.Camera.Fov)
	offset := mgl32.Vec3(cfg.Camera.FollowOffset)
	s := &Scene{
		Config:   cfg,
		Plane:    plane,
		Planet:   planet,
		Camera:   NewCamera(float32(cfg.Window.Width), float32(cfg.Window.Height), baseFov, cfg.Camera.Near, cfg.Camera.Far, plane.BasePosition.Add(offset), plane.BasePosition),
		Input:    NewInput(),
		EventBus: bus,
		baseFov:  baseFov,
		logger:   logging.NewLogger(),
		ctx:      ctx,
	}

	s.world = &ecs.World{}
	s.world.AddSystem(&FlightSystem{scene: s})
	s.world.AddSystem(&PlanetSystem{scene: s})
	s.world.AddSystem(&CameraSystem{scene: s})

	s.applyFollow(follow)
	for i, c := range s.limits() {
		s.atLimit[i] = c.hit
	}
	return s, nil
}

// Context returns the scene's logging context.
func (s *Scene) Context() context.Context { return s.ctx }

// World returns the system world the scene runs on.
func (s *Scene) World() *ecs.World { return s.world }

// Start marks the scene as running
func (s *Scene) Start() {
	s.Running = true
	s.LastUpdate = time.Now()
	s.logger.Info(s.ctx, "scene started",
		"follow_mode", s.follow.String(),
		"render_mode", s.render.String(),
	)
	s.EventBus.Publish(&event.BaseEvent{
		EventType: event.SceneStarted,
		Source:    s,
	})
}

// Stop halts the scene
func (s *Scene) Stop() {
	s.Running = false
	s.logger.Info(s.ctx, "scene stopped",
		"ticks", s.CurrentTick,
		"elapsed", s.ElapsedTime,
	)
	s.EventBus.Publish(&event.BaseEvent{
		EventType: event.SceneStopped,
		Source:    s,
	})
}

// Tick advances the scene by the wall-clock time since the previous tick.
func (s *Scene) Tick() {
	s.Update(s.calculateDeltaTime())
}

// Update advances the scene by dt seconds. Non-positive steps are ignored
// and long steps are capped at MaxFrameTime.
func (s *Scene) Update(dt float32) {
	if dt <= 0 {
		return
	}
	dt = min(dt, MaxFrameTime)
	s.world.Update(dt)
	s.CurrentTick++
	s.ElapsedTime += dt
}

// calculateDeltaTime calculates the time since the last update and caps it.
func (s *Scene) calculateDeltaTime() float32 {
	now := time.Now()
	dt := float32(now.Sub(s.LastUpdate).Seconds())
	s.LastUpdate = now
	return min(dt, MaxFrameTime)
}

// Render draws the planet and then the plane with its flag.
func (s *Scene) Render(r entity.Renderer) {
	r.Clear()
	s.Planet.Render(r)
	s.Plane.Render(r)
	r.Present()
}

// FollowMode returns the active camera mode.
func (s *Scene) FollowMode() FollowMode { return s.follow }

// RenderMode returns the active shading mode.
func (s *Scene) RenderMode() RenderMode { return s.render }

// Emission reports whether the lights are on.
func (s *Scene) Emission() bool { return s.Plane.Emission() }

// CycleRenderMode switches to the next shading mode.
func (s *Scene) CycleRenderMode() RenderMode {
	prev := s.render
	s.render = prev.Next()
	s.logger.Debug(s.ctx, "render mode changed", "mode", s.render.String())
	s.EventBus.Publish(event.NewModeEvent(event.RenderModeChanged, s, s.render.String(), prev.String()))
	return s.render
}

// SetCameraFollow switches the camera mode and puts the camera back to the
// mode's start position.
func (s *Scene) SetCameraFollow(mode FollowMode) error {
	if !mode.Valid() {
		return errors.New("invalid camera follow mode: " + mode.String())
	}
	prev := s.follow
	s.applyFollow(mode)
	s.logger.Debug(s.ctx, "camera mode changed", "mode", mode.String())
	s.EventBus.Publish(event.NewModeEvent(event.CameraModeChanged, s, mode.String(), prev.String()))
	return nil
}

// ToggleEmission switches the lights of the plane and the planet together
// and returns the new state.
func (s *Scene) ToggleEmission() bool {
	on := !s.Plane.Emission()
	s.Plane.SetEmission(on)
	s.Planet.SetEmission(on)
	s.logger.Debug(s.ctx, "emission toggled", "enabled", on)
	s.EventBus.Publish(event.NewToggleEvent(event.EmissionToggled, s, on))
	return on
}

// Orbit turns the camera around its target by a mouse distance in pixels.
func (s *Scene) Orbit(diff mgl32.Vec2) {
	s.Camera.Orbit(diff, 0)
}

// Zoom moves the camera towards its target for positive scroll offsets.
func (s *Scene) Zoom(scroll float32) {
	s.Camera.Orbit(mgl32.Vec2{}, -s.Config.Camera.ZoomMultiplier*scroll)
}

// DragTo continues a mouse drag and orbits the camera by the movement.
func (s *Scene) DragTo(x, y float32) {
	if diff, ok := s.Input.Drag(x, y); ok {
		s.Orbit(diff)
	}
}

// Resize updates the camera to a new viewport size. Empty sizes, which some
// window systems report for minimized windows, are ignored.
func (s *Scene) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	s.Camera.Width = float32(width)
	s.Camera.Height = float32(height)
	s.EventBus.Publish(event.NewResizeEvent(s, width, height))
}

func (s *Scene) applyFollow(mode FollowMode) {
	c := s.Camera
	base := mgl32.Vec3(s.Config.Camera.BasePosition)

	switch mode {
	case FollowNone:
		c.Fov = s.baseFov
		c.LookAt = s.Planet.Position
		c.Position = base
		c.ResetRotation()
	case FollowPlane:
		c.LookAt = s.Plane.BasePosition
		c.Position = s.Plane.BasePosition.Add(mgl32.Vec3(s.Config.Camera.FollowOffset))
		c.ResetRotation()
	case FollowPlanet, FollowPlanetLookAtPlane:
		c.Fov = s.baseFov
		c.LookAt = s.Planet.Position
		c.Position = base
	}
	s.follow = mode
}

// controls returns this step's flight controls.
func (s *Scene) controls(dt float32) physics.Controls {
	if s.Autopilot != nil {
		return s.Autopilot.Next(dt)
	}
	return s.Input.Controls()
}

type limitCheck struct {
	name  string
	value float32
	hit   bool
}

func (s *Scene) limits() [limitCount]limitCheck {
	f := s.Plane.Flight
	l := f.Limits
	y := f.Position.Y()
	return [limitCount]limitCheck{
		{LimitMinSpeed, f.Speed, f.Speed <= l.MinSpeed},
		{LimitMaxSpeed, f.Speed, f.Speed >= l.MaxSpeed},
		{LimitMinHeight, y, y <= l.MinHeight},
		{LimitMaxHeight, y, y >= l.MaxHeight},
	}
}

// checkLimits publishes an event whenever the plane reaches a bound it was
// not at in the previous step.
func (s *Scene) checkLimits() {
	for i, c := range s.limits() {
		if c.hit && !s.atLimit[i] {
			s.logger.Debug(s.ctx, "flight limit reached", "limit", c.name, "value", c.value)
			s.EventBus.Publish(event.NewLimitEvent(s, c.name, c.value))
		}
		s.atLimit[i] = c.hit
	}
}
