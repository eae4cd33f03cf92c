package render

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/opd-ai/go-skyflag/pkg/entity"
)

// flagRows is the height of the flag profile strip.
const flagRows = 7

// headingGlyphs are indexed by the heading sector, clockwise from screen up.
var headingGlyphs = [8]rune{'^', '/', '>', '\\', 'v', '/', '<', '\\'}

// TerminalRenderer provides a simple ASCII-based rendering for terminals:
// a top-down map of the planet and the plane, a telemetry line and a side
// profile of the flag.
type TerminalRenderer struct {
	width     int
	height    int
	buffer    [][]rune
	scale     float32
	centerPos mgl32.Vec2

	out         io.Writer
	clearScreen bool
	telemetry   []string
	flag        [flagRows][]rune
}

// NewTerminalRenderer creates a new terminal renderer with the specified
// dimensions. scale is the number of world units per character.
func NewTerminalRenderer(width, height int, scale float32) *TerminalRenderer {
	r := NewTerminalRendererTo(os.Stdout, width, height, scale)
	r.clearScreen = true
	return r
}

// NewTerminalRendererTo creates a terminal renderer writing frames to w
// without clearing the screen in between.
func NewTerminalRendererTo(w io.Writer, width, height int, scale float32) *TerminalRenderer {
	width = max(width, 1)
	height = max(height, 1)
	if scale <= 0 {
		scale = 1
	}

	buffer := make([][]rune, height)
	for i := range buffer {
		buffer[i] = make([]rune, width)
	}

	r := &TerminalRenderer{
		width:  width,
		height: height,
		buffer: buffer,
		scale:  scale,
		out:    w,
	}
	for i := range r.flag {
		r.flag[i] = make([]rune, width)
	}
	r.Clear()
	return r
}

// SetCenter sets the world X/Z position shown in the middle of the map.
func (r *TerminalRenderer) SetCenter(pos mgl32.Vec2) {
	r.centerPos = pos
}

// worldToScreen converts world X/Z coordinates to screen coordinates as
// seen from above: +X to the right and +Z down.
func (r *TerminalRenderer) worldToScreen(x, z float32) (int, int) {
	screenX := int(math32.Floor((x-r.centerPos.X())/r.scale + float32(r.width)/2))
	screenY := int(math32.Floor((z-r.centerPos.Y())/r.scale + float32(r.height)/2))
	return screenX, screenY
}

func (r *TerminalRenderer) plot(x, y int, c rune) {
	if x >= 0 && x < r.width && y >= 0 && y < r.height {
		r.buffer[y][x] = c
	}
}

// Clear implements entity.Renderer
func (r *TerminalRenderer) Clear() {
	for y := range r.buffer {
		for x := range r.buffer[y] {
			r.buffer[y][x] = ' '
		}
	}
	for y := range r.flag {
		for x := range r.flag[y] {
			r.flag[y][x] = ' '
		}
	}
	r.telemetry = r.telemetry[:0]
}

// Frame returns the current frame as text.
func (r *TerminalRenderer) Frame() string {
	var sb strings.Builder
	border := "+" + strings.Repeat("-", r.width) + "+\n"

	sb.WriteString(border)
	for y := range r.buffer {
		sb.WriteString("|")
		sb.WriteString(string(r.buffer[y]))
		sb.WriteString("|\n")
	}
	sb.WriteString(border)

	for _, line := range r.telemetry {
		sb.WriteString(line)
		sb.WriteString("\n")
	}

	if r.hasFlag() {
		for y := range r.flag {
			sb.WriteString(strings.TrimRight(string(r.flag[y]), " "))
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// Present implements entity.Renderer
func (r *TerminalRenderer) Present() {
	if r.clearScreen {
		fmt.Fprint(r.out, "\033[H\033[2J")
	}
	fmt.Fprint(r.out, r.Frame())
}

// RenderPlanet implements entity.Renderer. The planet is drawn as its
// outline; emissive parts show up as '*' when lit and 'x' when dark, but
// only on the hemisphere facing up.
func (r *TerminalRenderer) RenderPlanet(planet *entity.Planet) {
	lo, hi := planet.Models[0].Bounds()
	radius := (hi.X() - lo.X()) / 2
	center := planet.Position

	for y := 0; y < r.height; y++ {
		for x := 0; x < r.width; x++ {
			wx := (float32(x)+0.5-float32(r.width)/2)*r.scale + r.centerPos.X()
			wz := (float32(y)+0.5-float32(r.height)/2)*r.scale + r.centerPos.Y()
			d := mgl32.Vec2{wx - center.X(), wz - center.Z()}.Len()
			if math32.Abs(d-radius) <= r.scale/2 {
				r.buffer[y][x] = '.'
			}
		}
	}
	cx, cy := r.worldToScreen(center.X(), center.Z())
	r.plot(cx, cy, 'O')

	glyph := '*'
	if !planet.Emission() {
		glyph = 'x'
	}
	for _, ref := range planet.EmissiveMaterials() {
		m := planet.Models[ref.Model]
		lo, hi := m.Bounds()
		p := planet.Transformation.Mul4x1(lo.Add(hi).Mul(0.5).Vec4(1)).Vec3()
		if p.Y() < center.Y() {
			continue
		}
		x, y := r.worldToScreen(p.X(), p.Z())
		r.plot(x, y, glyph)
	}
}

// RenderPlane implements entity.Renderer. The plane is drawn as an arrow
// pointing along its heading.
func (r *TerminalRenderer) RenderPlane(plane *entity.Plane) {
	f := plane.Flight
	x, y := r.worldToScreen(f.Position.X(), f.Position.Z())
	r.plot(x, y, headingGlyph(f.Attitude.Yaw))

	lights := "on"
	if !plane.Emission() {
		lights = "off"
	}
	r.telemetry = append(r.telemetry, fmt.Sprintf(
		"speed %5.1f  alt %5.1f  yaw %4.0f  pitch %4.0f  roll %4.0f  lights %s",
		f.Speed, f.Position.Y(),
		mgl32.RadToDeg(f.Attitude.Yaw), mgl32.RadToDeg(f.Attitude.Pitch), mgl32.RadToDeg(f.Attitude.Roll),
		lights,
	))
}

// RenderFlag implements entity.Renderer. It animates the cloth and plots
// the mean displacement of each slice from the mount (left) to the free
// edge (right).
func (r *TerminalRenderer) RenderFlag(flag *entity.Flag) {
	var amplitude float32
	for _, w := range flag.Sim.Waves() {
		amplitude += math32.Abs(w.Amplitude)
	}
	if amplitude == 0 {
		amplitude = 1
	}

	flag.Animate()
	profile := flagProfile(flag, r.width)

	mid := flagRows / 2
	for x, d := range profile {
		row := mid - roundInt(d/amplitude*float32(mid))
		row = min(max(row, 0), flagRows-1)
		r.flag[row][x] = '~'
	}
}

// flagProfile averages the animated displacement of the flag into width
// columns along its span. Columns no vertex falls into are interpolated
// from their neighbours.
func flagProfile(flag *entity.Flag, width int) []float32 {
	sum := make([]float32, width)
	count := make([]int, width)
	rest := flag.RestPositions()
	for i, v := range flag.Vertices {
		t := min(max(flag.Span.Taper(rest[i].Z()), 0), 1)
		x := roundInt(t * float32(width-1))
		sum[x] += v.Position.X()
		count[x]++
	}

	prev := -1
	for x := range sum {
		if count[x] == 0 {
			continue
		}
		sum[x] /= float32(count[x])
		switch {
		case prev < 0:
			for i := 0; i < x; i++ {
				sum[i] = sum[x]
			}
		case x-prev > 1:
			for i := prev + 1; i < x; i++ {
				t := float32(i-prev) / float32(x-prev)
				sum[i] = sum[prev] + t*(sum[x]-sum[prev])
			}
		}
		prev = x
	}
	if prev >= 0 {
		for i := prev + 1; i < width; i++ {
			sum[i] = sum[prev]
		}
	}
	return sum
}

func (r *TerminalRenderer) hasFlag() bool {
	for y := range r.flag {
		for _, c := range r.flag[y] {
			if c != ' ' {
				return true
			}
		}
	}
	return false
}

// headingGlyph maps a yaw angle to one of eight arrow glyphs on the map.
// The nose of an unrotated plane points along +Z, which is down.
func headingGlyph(yaw float32) rune {
	forward := mgl32.Rotate3DY(yaw).Mul3x1(mgl32.Vec3{0, 0, 1})
	// Clockwise from screen up.
	angle := math32.Atan2(forward.X(), -forward.Z())
	if angle < 0 {
		angle += 2 * math32.Pi
	}
	sector := roundInt(angle/(math32.Pi/4)) % len(headingGlyphs)
	return headingGlyphs[sector]
}

func roundInt(f float32) int {
	return int(math32.Floor(f + 0.5))
}
