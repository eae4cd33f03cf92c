// pkg/render/engo/hud.go
package engo

import (
	"fmt"
	"image/color"
	"strings"
	"sync"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/opd-ai/go-skyflag/pkg/engine"
	"github.com/opd-ai/go-skyflag/pkg/event"
)

// HUDSystem shows the flight telemetry and the latest scene events.
type HUDSystem struct {
	sim    *engine.Scene
	system renderAdder
	font   *common.Font

	text     *sprite
	lastText string

	mu          sync.Mutex
	messages    []string
	maxMessages int
	subs        []*event.Subscription

	hudColor color.Color
}

// NewHUDSystem creates a HUD for sim. A nil font disables drawing but
// the HUD still keeps its event log.
func NewHUDSystem(sim *engine.Scene, system renderAdder, font *common.Font) *HUDSystem {
	hud := &HUDSystem{
		sim:         sim,
		system:      system,
		font:        font,
		maxMessages: 5,
		hudColor:    color.RGBA{255, 255, 255, 255},
	}
	hud.subscribeToEvents()
	return hud
}

func (hud *HUDSystem) subscribeToEvents() {
	bus := hud.sim.EventBus
	hud.subs = append(hud.subs,
		bus.Subscribe(event.FlightLimitHit, func(e event.Event) {
			if le, ok := e.(*event.LimitEvent); ok {
				hud.AddMessage(fmt.Sprintf("limit %s at %.1f", le.Limit, le.Value))
			}
		}),
		bus.Subscribe(event.CameraModeChanged, hud.modeMessage("camera")),
		bus.Subscribe(event.RenderModeChanged, hud.modeMessage("render")),
		bus.Subscribe(event.EmissionToggled, func(e event.Event) {
			if te, ok := e.(*event.ToggleEvent); ok {
				hud.AddMessage("lights " + onOff(te.Enabled))
			}
		}),
	)
}

func (hud *HUDSystem) modeMessage(what string) event.Handler {
	return func(e event.Event) {
		if me, ok := e.(*event.ModeEvent); ok {
			hud.AddMessage(fmt.Sprintf("%s %s -> %s", what, me.Previous, me.Mode))
		}
	}
}

// AddMessage appends a line to the event log, dropping the oldest line
// once the log is full.
func (hud *HUDSystem) AddMessage(msg string) {
	hud.mu.Lock()
	defer hud.mu.Unlock()
	hud.messages = append(hud.messages, msg)
	if n := len(hud.messages) - hud.maxMessages; n > 0 {
		hud.messages = hud.messages[n:]
	}
}

// Messages returns a copy of the event log, oldest first.
func (hud *HUDSystem) Messages() []string {
	hud.mu.Lock()
	defer hud.mu.Unlock()
	return append([]string(nil), hud.messages...)
}

// Priority draws the HUD after the camera moved.
func (hud *HUDSystem) Priority() int { return 0 }

// Remove satisfies the ecs.System interface
func (hud *HUDSystem) Remove(basic ecs.BasicEntity) {}

// Update refreshes the HUD text.
func (hud *HUDSystem) Update(dt float32) {
	if hud.font == nil {
		return
	}
	text := hud.Text()
	if text == hud.lastText {
		return
	}
	hud.lastText = text

	if hud.text == nil {
		hud.text = &sprite{BasicEntity: ecs.NewBasic()}
		hud.text.SetShader(common.HUDShader)
		hud.text.SetZIndex(10)
		hud.text.Position = engo.Point{X: 10, Y: 10}
		hud.system.Add(&hud.text.BasicEntity, &hud.text.RenderComponent, &hud.text.SpaceComponent)
	}
	hud.text.Drawable = common.Text{Font: hud.font, Text: text}
	hud.text.Color = hud.hudColor
}

// Text returns the HUD contents for the current scene state.
func (hud *HUDSystem) Text() string {
	lines := telemetryLines(hud.sim.Snapshot())
	lines = append(lines, hud.Messages()...)
	return strings.Join(lines, "\n")
}

// Close cancels the event subscriptions.
func (hud *HUDSystem) Close() {
	for _, s := range hud.subs {
		s.Cancel()
	}
	hud.subs = nil
}

func telemetryLines(s engine.Snapshot) []string {
	return []string{
		fmt.Sprintf("speed %5.1f (%3.0f%%)  alt %5.1f", s.Speed, s.SpeedFactor*100, s.Altitude),
		fmt.Sprintf("yaw %4.0f  pitch %4.0f  roll %4.0f",
			mgl32.RadToDeg(s.Yaw), mgl32.RadToDeg(s.Pitch), mgl32.RadToDeg(s.Roll)),
		fmt.Sprintf("camera %s  render %s  lights %s", s.FollowMode, s.RenderMode, onOff(s.Emission)),
	}
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
