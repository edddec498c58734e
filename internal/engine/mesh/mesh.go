// Package mesh holds immutable GPU geometry shared between entities.
package mesh

import (
	"encoding/binary"
	"fmt"
	gomath "math"

	"go.uber.org/zap"

	"github.com/Faultbox/prism/internal/engine/gfx"
	"github.com/Faultbox/prism/internal/logger"
	"github.com/Faultbox/prism/pkg/math"
)

// Vertex is the engine's single vertex layout.
type Vertex struct {
	Position math.Vec3
	Normal   math.Vec3
	Tangent  math.Vec3
	UV       [2]float32
}

// VertexStride is the size of an encoded Vertex in bytes.
const VertexStride = 11 * 4

// Attribute locations shared with the shaders.
const (
	LocationPosition = 0
	LocationNormal   = 1
	LocationTangent  = 2
	LocationUV       = 3
)

// Attributes describes the encoded vertex layout.
var Attributes = []gfx.Attribute{
	{Location: LocationPosition, Components: 3, Offset: 0},
	{Location: LocationNormal, Components: 3, Offset: 12},
	{Location: LocationTangent, Components: 3, Offset: 24},
	{Location: LocationUV, Components: 2, Offset: 36},
}

// Geometry is CPU-side vertex and index data.
type Geometry struct {
	Vertices []Vertex
	Indices  []uint32
}

// Bounds returns the axis-aligned extent of the vertices.
func (g Geometry) Bounds() (lo, hi math.Vec3) {
	if len(g.Vertices) == 0 {
		return
	}
	lo, hi = g.Vertices[0].Position, g.Vertices[0].Position
	for _, v := range g.Vertices[1:] {
		p := v.Position
		lo = math.Vec3{X: min(lo.X, p.X), Y: min(lo.Y, p.Y), Z: min(lo.Z, p.Z)}
		hi = math.Vec3{X: max(hi.X, p.X), Y: max(hi.Y, p.Y), Z: max(hi.Z, p.Z)}
	}
	return lo, hi
}

// Encode packs the vertices little-endian in the Attributes layout.
func (g Geometry) Encode() []byte {
	out := make([]byte, 0, len(g.Vertices)*VertexStride)
	put := func(f float32) {
		out = binary.LittleEndian.AppendUint32(out, gomath.Float32bits(f))
	}
	for _, v := range g.Vertices {
		put(v.Position.X)
		put(v.Position.Y)
		put(v.Position.Z)
		put(v.Normal.X)
		put(v.Normal.Y)
		put(v.Normal.Z)
		put(v.Tangent.X)
		put(v.Tangent.Y)
		put(v.Tangent.Z)
		put(v.UV[0])
		put(v.UV[1])
	}
	return out
}

// Mesh is uploaded geometry owned by one or more entities.
// The GPU buffers are destroyed on the last Release.
type Mesh struct {
	gfx.RefCount

	name       string
	geometry   gfx.Geometry
	indexCount int
	lo, hi     math.Vec3
}

// New uploads g. The caller holds the first reference.
func New(device gfx.Device, name string, g Geometry) (*Mesh, error) {
	if len(g.Vertices) == 0 || len(g.Indices) == 0 {
		return nil, fmt.Errorf("mesh %s: no geometry", name)
	}
	for _, idx := range g.Indices {
		if int(idx) >= len(g.Vertices) {
			return nil, fmt.Errorf("mesh %s: index %d out of range (%d vertices)", name, idx, len(g.Vertices))
		}
	}

	geom, err := device.CreateGeometry(gfx.GeometryDesc{
		Vertices:   g.Encode(),
		Stride:     VertexStride,
		Attributes: Attributes,
		Indices:    g.Indices,
	})
	if err != nil {
		return nil, fmt.Errorf("mesh %s: %w", name, err)
	}

	m := &Mesh{name: name, geometry: geom, indexCount: len(g.Indices)}
	m.lo, m.hi = g.Bounds()
	m.Init(func() {
		geom.Release()
		logger.Debug("mesh destroyed", zap.String("name", name))
	})

	logger.Debug("mesh created",
		zap.String("name", name),
		zap.Int("vertices", len(g.Vertices)),
		zap.Int("indices", len(g.Indices)),
	)
	return m, nil
}

// Name returns the mesh name.
func (m *Mesh) Name() string { return m.name }

// IndexCount returns the number of indices drawn.
func (m *Mesh) IndexCount() int { return m.indexCount }

// Bounds returns the local-space extent.
func (m *Mesh) Bounds() (lo, hi math.Vec3) { return m.lo, m.hi }

// Draw issues one indexed draw with whatever programs are bound.
func (m *Mesh) Draw(ctx gfx.Context) {
	ctx.DrawIndexed(m.geometry)
}
