// pkg/render/engo/renderer.go
package engo

import (
	"image/color"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/opd-ai/go-skyflag/pkg/entity"
)

const (
	planeSpriteScale = 2
	planeSize        = 12 * planeSpriteScale
	beaconSize       = 6

	flagSamples   = 24
	flagStep      = 8
	flagAmplitude = 20 // pixels for the full wave amplitude
	flagMargin    = 40
)

var (
	beaconLit  = color.RGBA{255, 220, 80, 255}
	beaconDark = color.RGBA{70, 70, 70, 255}
	flagColor  = color.RGBA{200, 40, 40, 255}
)

// renderAdder is the part of common.RenderSystem the renderer needs.
type renderAdder interface {
	Add(basic *ecs.BasicEntity, render *common.RenderComponent, space *common.SpaceComponent)
	Remove(basic ecs.BasicEntity)
}

// sprite is a drawable entity on the map.
type sprite struct {
	ecs.BasicEntity
	common.RenderComponent
	common.SpaceComponent
}

// MapRenderer implements entity.Renderer by keeping one engo sprite per
// drawn part and moving it every frame.
type MapRenderer struct {
	system renderAdder
	assets *AssetManager
	view   *MapView

	planet  *sprite
	beacons map[entity.MaterialRef]*sprite
	plane   *sprite
	flag    []*sprite
	frames  uint64
}

// NewMapRenderer creates a renderer adding its sprites to system.
func NewMapRenderer(system renderAdder, assets *AssetManager, view *MapView) *MapRenderer {
	return &MapRenderer{
		system:  system,
		assets:  assets,
		view:    view,
		beacons: make(map[entity.MaterialRef]*sprite),
	}
}

func (r *MapRenderer) newSprite(d common.Drawable, c color.Color, z float32) *sprite {
	s := &sprite{BasicEntity: ecs.NewBasic()}
	s.RenderComponent = common.RenderComponent{Drawable: d, Color: c}
	s.RenderComponent.SetZIndex(z)
	r.system.Add(&s.BasicEntity, &s.RenderComponent, &s.SpaceComponent)
	return s
}

// Clear implements entity.Renderer. Sprites persist between frames.
func (r *MapRenderer) Clear() {}

// Present implements entity.Renderer.
func (r *MapRenderer) Present() {
	r.frames++
}

// Frames returns the number of presented frames.
func (r *MapRenderer) Frames() uint64 { return r.frames }

// RenderPlanet implements entity.Renderer. The planet is a disc; its
// emissive parts show as beacons while they face up.
func (r *MapRenderer) RenderPlanet(planet *entity.Planet) {
	if planet == nil || len(planet.Models) == 0 {
		return
	}
	lo, hi := planet.Models[0].Bounds()
	radius := (hi.X() - lo.X()) / 2
	center := planet.Position

	if r.planet == nil {
		c := color.RGBA{60, 90, 160, 255}
		if mats := planet.Models[0].Materials; len(mats) > 0 {
			c = vecColor(mats[0].Diffuse)
		}
		r.planet = r.newSprite(common.Circle{}, c, 0)
	}
	size := 2 * radius * r.view.Scale
	r.planet.Width, r.planet.Height = size, size
	r.planet.SetCenter(r.view.WorldToScreen(center.X(), center.Z()))

	lit := planet.Emission()
	for _, ref := range planet.EmissiveMaterials() {
		s, ok := r.beacons[ref]
		if !ok {
			s = r.newSprite(common.Circle{}, beaconLit, 1)
			s.Width, s.Height = beaconSize, beaconSize
			r.beacons[ref] = s
		}
		m := planet.Models[ref.Model]
		lo, hi := m.Bounds()
		p := planet.Transformation.Mul4x1(lo.Add(hi).Mul(0.5).Vec4(1)).Vec3()

		s.Hidden = p.Y() < center.Y()
		s.Color = beaconLit
		if !lit {
			s.Color = beaconDark
		}
		s.SetCenter(r.view.WorldToScreen(p.X(), p.Z()))
	}
}

// RenderPlane implements entity.Renderer.
func (r *MapRenderer) RenderPlane(plane *entity.Plane) {
	if plane == nil {
		return
	}
	if r.plane == nil {
		r.plane = r.newSprite(r.assets.PlaneSprite(), color.White, 2)
		r.plane.Scale = engo.Point{X: planeSpriteScale, Y: planeSpriteScale}
		r.plane.Width, r.plane.Height = planeSize, planeSize
	}
	f := plane.Flight
	r.plane.Rotation = headingDegrees(f.Attitude.Yaw)
	r.plane.SetCenter(r.view.WorldToScreen(f.Position.X(), f.Position.Z()))
}

// RenderFlag implements entity.Renderer. The displacement along the
// flag's centre line is drawn as a strip in the bottom left corner.
func (r *MapRenderer) RenderFlag(flag *entity.Flag) {
	if flag == nil {
		return
	}
	if r.flag == nil {
		r.flag = make([]*sprite, flagSamples)
		for i := range r.flag {
			s := r.newSprite(common.Rectangle{}, flagColor, 3)
			s.SetShader(common.HUDShader)
			s.Width, s.Height = flagStep-2, 4
			r.flag[i] = s
		}
	}

	var amplitude float32
	for _, w := range flag.Sim.Waves() {
		amplitude += math32.Abs(w.Amplitude)
	}
	if amplitude == 0 {
		amplitude = 1
	}

	baseline := r.view.Height - flagMargin
	for i, s := range r.flag {
		t := float32(i) / float32(flagSamples-1)
		z := flag.Span.Mount + t*(flag.Span.Free-flag.Span.Mount)
		d := flag.Displacement(0, z)
		s.Position = engo.Point{
			X: flagMargin/2 + float32(i*flagStep),
			Y: baseline - d/amplitude*flagAmplitude,
		}
	}
}

// headingDegrees returns the clockwise screen rotation of the plane
// sprite. An unrotated plane flies along +Z, which is down on the map.
func headingDegrees(yaw float32) float32 {
	forward := mgl32.Rotate3DY(yaw).Mul3x1(mgl32.Vec3{0, 0, 1})
	deg := mgl32.RadToDeg(math32.Atan2(forward.X(), -forward.Z()))
	if deg < 0 {
		deg += 360
	}
	return deg
}

func vecColor(v mgl32.Vec3) color.RGBA {
	ch := func(f float32) uint8 {
		return uint8(min(max(f, 0), 1)*255 + 0.5)
	}
	return color.RGBA{ch(v.X()), ch(v.Y()), ch(v.Z()), 255}
}
