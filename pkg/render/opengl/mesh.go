// pkg/render/opengl/mesh.go
package opengl

import (
	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/opd-ai/go-skyflag/pkg/asset"
)

const (
	bytesFloat32 = 4
	bytesUint32  = 4

	// floatsPerVertex is position (3), normal (3) and uv (2).
	floatsPerVertex = 8
)

// mesh is a model uploaded to the GPU. Materials stay with the entity so
// emission changes show up without a new upload.
type mesh struct {
	vao, vbo, ibo uint32
}

// vertexData interleaves the vertices of m as position, normal, uv.
func vertexData(m *asset.Model) []float32 {
	data := make([]float32, 0, len(m.Vertices)*floatsPerVertex)
	for _, v := range m.Vertices {
		data = append(data,
			v.Position[0], v.Position[1], v.Position[2],
			v.Normal[0], v.Normal[1], v.Normal[2],
			v.UV[0], v.UV[1],
		)
	}
	return data
}

// uploadModel copies m into a vertex array with its own buffers.
func uploadModel(m *asset.Model) *mesh {
	me := &mesh{}
	if len(m.Vertices) == 0 || len(m.Indices) == 0 {
		return me
	}
	data := vertexData(m)

	gl.GenVertexArrays(1, &me.vao)
	gl.BindVertexArray(me.vao)

	gl.GenBuffers(1, &me.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, me.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*bytesFloat32, gl.Ptr(data), gl.STATIC_DRAW)

	gl.GenBuffers(1, &me.ibo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, me.ibo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(m.Indices)*bytesUint32, gl.Ptr(m.Indices), gl.STATIC_DRAW)

	stride := int32(floatsPerVertex * bytesFloat32)
	gl.EnableVertexAttribArray(attribPosition)
	gl.VertexAttribPointerWithOffset(attribPosition, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(attribNormal)
	gl.VertexAttribPointerWithOffset(attribNormal, 3, gl.FLOAT, false, stride, 3*bytesFloat32)
	gl.EnableVertexAttribArray(attribUV)
	gl.VertexAttribPointerWithOffset(attribUV, 2, gl.FLOAT, false, stride, 6*bytesFloat32)

	gl.BindVertexArray(0)
	return me
}

// draw issues one draw call per material. setMaterial runs before each.
func (me *mesh) draw(materials []asset.Material, setMaterial func(asset.Material)) {
	if me.vao == 0 {
		return
	}
	gl.BindVertexArray(me.vao)
	for _, mat := range materials {
		if setMaterial != nil {
			setMaterial(mat)
		}
		gl.DrawElementsWithOffset(gl.TRIANGLES, int32(mat.IndexCount), gl.UNSIGNED_INT, uintptr(mat.IndexOffset*bytesUint32))
	}
}

func (me *mesh) delete() {
	if me.vao == 0 {
		return
	}
	gl.DeleteBuffers(1, &me.vbo)
	gl.DeleteBuffers(1, &me.ibo)
	gl.DeleteVertexArrays(1, &me.vao)
	me.vao, me.vbo, me.ibo = 0, 0, 0
}
