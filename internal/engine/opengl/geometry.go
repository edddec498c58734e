package opengl

import (
	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/prism/internal/engine/gfx"
)

type geometry struct {
	vao, vbo, ebo uint32
	indexCount    int
}

func (g *geometry) IndexCount() int { return g.indexCount }

func (g *geometry) Release() {
	if g.vao != 0 {
		gl.DeleteVertexArrays(1, &g.vao)
		g.vao = 0
	}
	if g.vbo != 0 {
		gl.DeleteBuffers(1, &g.vbo)
		g.vbo = 0
	}
	if g.ebo != 0 {
		gl.DeleteBuffers(1, &g.ebo)
		g.ebo = 0
	}
}

// CreateGeometry uploads interleaved float vertices and 32-bit indices.
func (d *Device) CreateGeometry(desc gfx.GeometryDesc) (gfx.Geometry, error) {
	g := &geometry{indexCount: len(desc.Indices)}
	if len(desc.Vertices) == 0 || len(desc.Indices) == 0 {
		return nil, errEmpty("geometry")
	}

	gl.GenVertexArrays(1, &g.vao)
	gl.BindVertexArray(g.vao)

	gl.GenBuffers(1, &g.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, g.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(desc.Vertices), gl.Ptr(desc.Vertices), gl.STATIC_DRAW)

	gl.GenBuffers(1, &g.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, g.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(desc.Indices)*4, gl.Ptr(desc.Indices), gl.STATIC_DRAW)

	for _, a := range desc.Attributes {
		gl.VertexAttribPointerWithOffset(a.Location, int32(a.Components), gl.FLOAT, false, int32(desc.Stride), uintptr(a.Offset))
		gl.EnableVertexAttribArray(a.Location)
	}

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	if err := checkError("geometry"); err != nil {
		g.Release()
		return nil, err
	}
	return g, nil
}
