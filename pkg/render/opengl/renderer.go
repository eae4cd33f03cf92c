// pkg/render/opengl/renderer.go
package opengl

import (
	"fmt"
	"image"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/opd-ai/go-skyflag/pkg/asset"
	"github.com/opd-ai/go-skyflag/pkg/engine"
	"github.com/opd-ai/go-skyflag/pkg/entity"
)

// skyColor is the framebuffer clear color.
var skyColor = [3]float32{135.0 / 255, 206.0 / 255, 235.0 / 255}

// programSet holds the mesh and flag programs of one render mode.
type programSet struct {
	scene *program
	flag  *program
}

// Renderer implements entity.Renderer with OpenGL 4.1 core. It must be
// used from the thread owning the GL context.
type Renderer struct {
	sim *engine.Scene

	programs [2]programSet // indexed by engine.RenderMode
	plane    [entity.PartCount]*mesh
	planet   []*mesh
	flag     *mesh

	swap   func()
	frames uint64
}

// NewRenderer compiles the shaders and uploads the meshes of sim. swap is
// called by Present to show the finished frame.
func NewRenderer(sim *engine.Scene, swap func()) (*Renderer, error) {
	r := &Renderer{sim: sim, swap: swap}

	fragments := [2]string{
		engine.RenderColor:  colorFragmentShader,
		engine.RenderNormal: normalFragmentShader,
	}
	for mode, fragment := range fragments {
		scene, err := newProgram(sceneVertexShader, fragment)
		if err != nil {
			r.Delete()
			return nil, fmt.Errorf("%s program: %w", engine.RenderMode(mode), err)
		}
		r.programs[mode].scene = scene

		flag, err := newProgram(flagVertexShader, fragment)
		if err != nil {
			r.Delete()
			return nil, fmt.Errorf("%s flag program: %w", engine.RenderMode(mode), err)
		}
		r.programs[mode].flag = flag
	}

	for part := range r.plane {
		r.plane[part] = uploadModel(&sim.Plane.Models[part])
	}
	for i := range sim.Planet.Models {
		r.planet = append(r.planet, uploadModel(&sim.Planet.Models[i]))
	}
	if sim.Plane.Flag != nil {
		r.flag = uploadModel(&sim.Plane.Flag.Model)
	}

	gl.Enable(gl.DEPTH_TEST)
	return r, nil
}

// Frames returns the number of presented frames.
func (r *Renderer) Frames() uint64 { return r.frames }

func (r *Renderer) current() programSet {
	mode := r.sim.RenderMode()
	if int(mode) >= len(r.programs) {
		mode = engine.RenderColor
	}
	return r.programs[mode]
}

func (r *Renderer) normalMode() bool {
	return r.sim.RenderMode() == engine.RenderNormal
}

// setCamera uploads the matrices shared by every draw.
func (r *Renderer) setCamera(p *program) {
	cam := r.sim.Camera
	p.setMat4("uProj", cam.Projection())
	p.setMat4("uView", cam.View())
	if r.normalMode() {
		p.setVec3("uViewPos", cam.WorldPosition())
	}
}

func (r *Renderer) materialSetter(p *program) func(asset.Material) {
	if r.normalMode() {
		return nil
	}
	return func(m asset.Material) {
		p.setVec3("uMaterial.diffuse", m.Diffuse)
		p.setVec3("uMaterial.emission", m.Emission)
	}
}

// Clear implements entity.Renderer.
func (r *Renderer) Clear() {
	gl.ClearColor(skyColor[0], skyColor[1], skyColor[2], 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// RenderPlane implements entity.Renderer.
func (r *Renderer) RenderPlane(plane *entity.Plane) {
	p := r.current().scene
	p.use()
	r.setCamera(p)
	if r.normalMode() {
		p.setBool("isFlag", false)
	}
	set := r.materialSetter(p)
	for part := range entity.PartCount {
		p.setMat4("uModel", plane.PartTransformation(part))
		r.plane[part].draw(plane.Models[part].Materials, set)
	}
}

// RenderPlanet implements entity.Renderer.
func (r *Renderer) RenderPlanet(planet *entity.Planet) {
	p := r.current().scene
	p.use()
	r.setCamera(p)
	if r.normalMode() {
		p.setBool("isFlag", false)
	}
	p.setMat4("uModel", planet.Transformation)
	set := r.materialSetter(p)
	for i, m := range r.planet {
		if i < len(planet.Models) {
			m.draw(planet.Models[i].Materials, set)
		}
	}
}

// RenderFlag implements entity.Renderer. The displacement is evaluated in
// the vertex shader from the simulator's uniforms.
func (r *Renderer) RenderFlag(flag *entity.Flag) {
	if r.flag == nil {
		return
	}
	p := r.current().flag
	p.use()
	r.setCamera(p)
	p.setMat4("uModel", flag.Transformation)

	u := flag.Sim.Uniforms()
	p.setFloat("uAccumTime", u.AccumTime)
	p.setVec4Array("uWaveParams", u.Params[:])
	p.setVec2Array("uWaveDirections", u.Directions[:])
	p.setVec2("uSpan", u.Span)
	if r.normalMode() {
		p.setBool("isFlag", true)
	}
	r.flag.draw(flag.Model.Materials, r.materialSetter(p))
}

// Present implements entity.Renderer.
func (r *Renderer) Present() {
	gl.BindVertexArray(0)
	gl.UseProgram(0)
	r.frames++
	if r.swap != nil {
		r.swap()
	}
}

// Screenshot reads the last presented frame of the given size.
func (r *Renderer) Screenshot(width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	if width <= 0 || height <= 0 {
		return img
	}
	gl.ReadBuffer(gl.FRONT)
	defer gl.ReadBuffer(gl.BACK)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	flipRows(img.Pix, img.Stride, height)
	return img
}

// flipRows mirrors an image buffer vertically; OpenGL rows start at the
// bottom.
func flipRows(pix []byte, stride, height int) {
	tmp := make([]byte, stride)
	for top, bottom := 0, height-1; top < bottom; top, bottom = top+1, bottom-1 {
		a := pix[top*stride : (top+1)*stride]
		b := pix[bottom*stride : (bottom+1)*stride]
		copy(tmp, a)
		copy(a, b)
		copy(b, tmp)
	}
}

// Delete frees the GPU resources.
func (r *Renderer) Delete() {
	for _, set := range r.programs {
		for _, p := range []*program{set.scene, set.flag} {
			if p != nil {
				p.delete()
			}
		}
	}
	for _, m := range r.plane {
		if m != nil {
			m.delete()
		}
	}
	for _, m := range r.planet {
		m.delete()
	}
	if r.flag != nil {
		r.flag.delete()
	}
}
