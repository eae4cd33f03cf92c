// pkg/asset/procedural.go
package asset

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Procedural meshes stand in for OBJ files when no asset directory is
// configured. Names match the object names of the shipped OBJ files.

// DefaultPlanetRadius keeps the flight band of the default flight limits
// above the surface.
const DefaultPlanetRadius float32 = 40

// FlagGrid builds a flat cols x rows cloth in the YZ plane. The mount edge
// lies on z = 0 and the free edge on z = -length; y spans [-width/2, width/2].
func FlagGrid(cols, rows int, width, length float32) Model {
	cols, rows = max(cols, 1), max(rows, 1)
	m := Model{Name: "Flag"}
	for i := 0; i <= rows; i++ {
		v := float32(i) / float32(rows)
		for j := 0; j <= cols; j++ {
			u := float32(j) / float32(cols)
			m.Vertices = append(m.Vertices, Vertex{
				Position: mgl32.Vec3{0, (u - 0.5) * width, -v * length},
				Normal:   mgl32.Vec3{1, 0, 0},
				UV:       mgl32.Vec2{u, v},
			})
		}
	}
	stride := uint32(cols + 1)
	for i := uint32(0); i < uint32(rows); i++ {
		for j := uint32(0); j < uint32(cols); j++ {
			a := i*stride + j
			b, c, d := a+1, a+stride, a+stride+1
			m.Indices = append(m.Indices, a, c, b, b, c, d)
		}
	}
	m.Materials = []Material{{Name: "FlagCloth", Diffuse: mgl32.Vec3{0.8, 0.1, 0.1}, IndexCount: len(m.Indices)}}
	return m
}

type boxPart struct {
	name     string
	center   mgl32.Vec3
	size     mgl32.Vec3
	diffuse  mgl32.Vec3
	emission mgl32.Vec3
}

var (
	metal  = mgl32.Vec3{0.55, 0.57, 0.6}
	rubber = mgl32.Vec3{0.08, 0.08, 0.08}
	paint  = mgl32.Vec3{0.85, 0.75, 0.2}
	glass  = mgl32.Vec3{0.9, 0.9, 0.9}
	white  = mgl32.Vec3{1, 1, 1}
	red    = mgl32.Vec3{1, 0, 0}
	green  = mgl32.Vec3{0, 1, 0}
)

// The plane faces +Z with +Y up, so its left wing points to +X.
var planeParts = []boxPart{
	{"Propeller", mgl32.Vec3{0, 0, 4.2}, mgl32.Vec3{3, 0.3, 0.1}, metal, mgl32.Vec3{}},
	{"WheelCarcassBack", mgl32.Vec3{0, -0.8, -5}, mgl32.Vec3{0.3, 0.6, 0.6}, metal, mgl32.Vec3{}},
	{"TyreBack", mgl32.Vec3{0, -1.2, -5}, mgl32.Vec3{0.25, 0.5, 0.5}, rubber, mgl32.Vec3{}},
	{"WheelCarcassLeft", mgl32.Vec3{1.2, -1.6, 1}, mgl32.Vec3{0.3, 0.8, 0.8}, metal, mgl32.Vec3{}},
	{"TyreLeft", mgl32.Vec3{1.2, -2.1, 1}, mgl32.Vec3{0.25, 0.7, 0.7}, rubber, mgl32.Vec3{}},
	{"WheelCarcassRight", mgl32.Vec3{-1.2, -1.6, 1}, mgl32.Vec3{0.3, 0.8, 0.8}, metal, mgl32.Vec3{}},
	{"TyreRight", mgl32.Vec3{-1.2, -2.1, 1}, mgl32.Vec3{0.25, 0.7, 0.7}, rubber, mgl32.Vec3{}},
	{"Hull", mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1.6, 1.6, 8}, paint, mgl32.Vec3{}},
	{"StrobeRudder", mgl32.Vec3{0, 1.9, -4.1}, mgl32.Vec3{0.2, 0.2, 0.2}, glass, white},
	{"LightLeftWing", mgl32.Vec3{4.5, 0, 0.6}, mgl32.Vec3{0.2, 0.2, 0.2}, glass, red},
	{"StrobeRightWing", mgl32.Vec3{-4.6, 0, 0}, mgl32.Vec3{0.2, 0.2, 0.2}, glass, white},
	{"StrobeLeftWing", mgl32.Vec3{4.6, 0, 0}, mgl32.Vec3{0.2, 0.2, 0.2}, glass, white},
	{"LightRightWing", mgl32.Vec3{-4.5, 0, 0.6}, mgl32.Vec3{0.2, 0.2, 0.2}, glass, green},
	{"LightRudder", mgl32.Vec3{0, 1.7, -4.4}, mgl32.Vec3{0.2, 0.2, 0.2}, glass, white},
	{"FlagConnector", mgl32.Vec3{0, 0, -4.6}, mgl32.Vec3{0.1, 0.1, 1.2}, metal, mgl32.Vec3{}},
}

// wing is merged into the hull model.
var wing = boxPart{"Wing", mgl32.Vec3{0, 0, 0.5}, mgl32.Vec3{9, 0.2, 1.6}, paint, mgl32.Vec3{}}

// PlaneModels returns the fifteen plane parts in load order.
func PlaneModels() []Model {
	models := make([]Model, 0, len(planeParts))
	for _, p := range planeParts {
		m := Box(p.name, p.center, p.size, p.diffuse, p.emission)
		if p.name == "Hull" {
			m = Merge(p.name, m, Box(wing.name, wing.center, wing.size, wing.diffuse, wing.emission))
		}
		models = append(models, m)
	}
	return models
}

// PlanetModels returns a sphere of the given radius and an emissive beacon
// on its north pole.
func PlanetModels(radius float32) []Model {
	return []Model{
		Sphere("Planet", radius, 16, 32, mgl32.Vec3{0.2, 0.45, 0.3}),
		Box("Beacon", mgl32.Vec3{0, radius + 0.5, 0}, mgl32.Vec3{1, 1, 1}, glass, mgl32.Vec3{1, 0.6, 0.1}),
	}
}

var boxFaces = [6]struct{ normal, u, v mgl32.Vec3 }{
	{mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0}},
	{mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, 1, 0}},
	{mgl32.Vec3{0, 1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}},
	{mgl32.Vec3{0, -1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, 1}},
	{mgl32.Vec3{0, 0, 1}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}},
	{mgl32.Vec3{0, 0, -1}, mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 1, 0}},
}

// Box builds an axis-aligned box with flat normals and a single material
// named after the model.
func Box(name string, center, size, diffuse, emission mgl32.Vec3) Model {
	half := size.Mul(0.5)
	m := Model{Name: name}
	for _, f := range boxFaces {
		base := uint32(len(m.Vertices))
		for _, c := range [4]mgl32.Vec2{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}} {
			p := f.normal.Add(f.u.Mul(c.X())).Add(f.v.Mul(c.Y()))
			m.Vertices = append(m.Vertices, Vertex{
				Position: center.Add(mgl32.Vec3{p.X() * half.X(), p.Y() * half.Y(), p.Z() * half.Z()}),
				Normal:   f.normal,
				UV:       mgl32.Vec2{(c.X() + 1) / 2, (c.Y() + 1) / 2},
			})
		}
		m.Indices = append(m.Indices, base, base+1, base+2, base, base+2, base+3)
	}
	m.Materials = []Material{{Name: name, Diffuse: diffuse, Emission: emission, IndexCount: len(m.Indices)}}
	return m
}

// Sphere builds a UV sphere centered at the origin.
func Sphere(name string, radius float32, stacks, slices int, diffuse mgl32.Vec3) Model {
	stacks, slices = max(stacks, 2), max(slices, 3)
	m := Model{Name: name}
	for i := 0; i <= stacks; i++ {
		theta := math32.Pi * float32(i) / float32(stacks)
		for j := 0; j <= slices; j++ {
			phi := 2 * math32.Pi * float32(j) / float32(slices)
			n := mgl32.Vec3{
				math32.Sin(theta) * math32.Cos(phi),
				math32.Cos(theta),
				math32.Sin(theta) * math32.Sin(phi),
			}
			m.Vertices = append(m.Vertices, Vertex{
				Position: n.Mul(radius),
				Normal:   n,
				UV:       mgl32.Vec2{float32(j) / float32(slices), float32(i) / float32(stacks)},
			})
		}
	}
	stride := uint32(slices + 1)
	for i := uint32(0); i < uint32(stacks); i++ {
		for j := uint32(0); j < uint32(slices); j++ {
			a := i*stride + j
			m.Indices = append(m.Indices, a, a+1, a+stride, a+1, a+stride+1, a+stride)
		}
	}
	m.Materials = []Material{{Name: name, Diffuse: diffuse, IndexCount: len(m.Indices)}}
	return m
}

// Merge concatenates models into one, offsetting indices and material ranges.
func Merge(name string, models ...Model) Model {
	out := Model{Name: name}
	for _, m := range models {
		base := uint32(len(out.Vertices))
		offset := len(out.Indices)
		out.Vertices = append(out.Vertices, m.Vertices...)
		for _, i := range m.Indices {
			out.Indices = append(out.Indices, base+i)
		}
		for _, mat := range m.Materials {
			mat.IndexOffset += offset
			out.Materials = append(out.Materials, mat)
		}
	}
	return out
}
