// pkg/asset/model.go
package asset

import "github.com/go-gl/mathgl/mgl32"

// Vertex is a single interleaved mesh vertex as uploaded to the GPU.
type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	UV       mgl32.Vec2
}

// Material is a contiguous index range drawn with one set of colors.
type Material struct {
	Name        string
	Diffuse     mgl32.Vec3
	Emission    mgl32.Vec3
	IndexOffset int
	IndexCount  int
}

// Emissive reports whether the material emits any light.
func (m Material) Emissive() bool {
	return m.Emission != mgl32.Vec3{}
}

// Model is an indexed triangle mesh with its materials.
type Model struct {
	Name      string
	Vertices  []Vertex
	Indices   []uint32
	Materials []Material
}

// Positions returns a copy of the vertex positions.
func (m *Model) Positions() []mgl32.Vec3 {
	out := make([]mgl32.Vec3, len(m.Vertices))
	for i, v := range m.Vertices {
		out[i] = v.Position
	}
	return out
}

// Bounds returns the axis-aligned bounding box of the model.
func (m *Model) Bounds() (lo, hi mgl32.Vec3) {
	if len(m.Vertices) == 0 {
		return lo, hi
	}
	lo, hi = m.Vertices[0].Position, m.Vertices[0].Position
	for _, v := range m.Vertices[1:] {
		for i := 0; i < 3; i++ {
			lo[i] = min(lo[i], v.Position[i])
			hi[i] = max(hi[i], v.Position[i])
		}
	}
	return lo, hi
}

var defaultDiffuse = mgl32.Vec3{0.63, 0.63, 0.63}
