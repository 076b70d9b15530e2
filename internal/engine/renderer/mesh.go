package renderer

import (
	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/glbview/internal/viewer/scene"
)

// gpuMesh is the uploaded form of a scene.Geometry.
type gpuMesh struct {
	vao        uint32
	positions  uint32
	normals    uint32
	ebo        uint32
	indexCount int32
}

func uploadGeometry(g *scene.Geometry) *gpuMesh {
	m := &gpuMesh{}
	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	m.positions = uploadVec3(0, g.Positions)
	m.normals = uploadVec3(1, g.Normals)

	indices := g.Indices
	if len(indices) == 0 {
		indices = make([]uint32, len(g.Positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}
	gl.GenBuffers(1, &m.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
	if len(indices) > 0 {
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, gl.Ptr(indices), gl.STATIC_DRAW)
	}
	m.indexCount = int32(len(indices))

	gl.BindVertexArray(0)
	return m
}

func uploadVec3(location uint32, data [][3]float32) uint32 {
	var vbo uint32
	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	if len(data) > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, len(data)*12, gl.Ptr(data), gl.STATIC_DRAW)
	}
	gl.VertexAttribPointer(location, 3, gl.FLOAT, false, 12, nil)
	gl.EnableVertexAttribArray(location)
	return vbo
}

func (m *gpuMesh) delete() {
	gl.DeleteVertexArrays(1, &m.vao)
	buffers := []uint32{m.positions, m.normals, m.ebo}
	gl.DeleteBuffers(int32(len(buffers)), &buffers[0])
}

// draw issues one draw call for count indices starting at start.
func (m *gpuMesh) draw(start, count int) {
	if count <= 0 || int32(start) >= m.indexCount {
		return
	}
	count = min(count, int(m.indexCount)-start)
	gl.DrawElementsWithOffset(gl.TRIANGLES, int32(count), gl.UNSIGNED_INT, uintptr(start*4))
}

// meshCache owns uploaded geometry. Entries not drawn in a frame are freed at
// the end of it, so replaced models release their buffers.
type meshCache struct {
	entries map[*scene.Geometry]*gpuMesh
	used    map[*scene.Geometry]bool
}

func newMeshCache() *meshCache {
	return &meshCache{
		entries: make(map[*scene.Geometry]*gpuMesh),
		used:    make(map[*scene.Geometry]bool),
	}
}

func (c *meshCache) get(g *scene.Geometry, reupload bool) *gpuMesh {
	c.used[g] = true
	m, ok := c.entries[g]
	if ok && !reupload {
		return m
	}
	if ok {
		m.delete()
	}
	m = uploadGeometry(g)
	c.entries[g] = m
	return m
}

func (c *meshCache) sweep() {
	for g, m := range c.entries {
		if !c.used[g] {
			m.delete()
			delete(c.entries, g)
		}
	}
	clear(c.used)
}

func (c *meshCache) release() {
	for _, m := range c.entries {
		m.delete()
	}
	clear(c.entries)
	clear(c.used)
}
