// Package entity places a shared mesh and material in the world.
package entity

import (
	"github.com/Faultbox/prism/internal/engine/gfx"
	"github.com/Faultbox/prism/internal/engine/lighting"
	"github.com/Faultbox/prism/internal/engine/mesh"
	"github.com/Faultbox/prism/internal/engine/transform"
	"github.com/Faultbox/prism/pkg/math"
)

// Surface is what an entity needs from its material.
// *material.Material implements it.
type Surface interface {
	Retain()
	Release()
	VertexProgram() gfx.Program
	PixelProgram() gfx.Program
	Tint() [4]float32
	Roughness() float32
	PrepareMaterial()
}

// View supplies the camera state for a draw. *camera.Camera implements it.
type View interface {
	ViewMatrix() math.Mat4
	ProjectionMatrix() math.Mat4
	Position() math.Vec3
}

// Entity owns a transform and holds references to a mesh and a surface.
type Entity struct {
	name      string
	transform *transform.Transform
	mesh      *mesh.Mesh
	surface   Surface
	released  bool
}

// New creates an entity at the origin, retaining m and s.
func New(name string, m *mesh.Mesh, s Surface) *Entity {
	m.Retain()
	s.Retain()
	return &Entity{
		name:      name,
		transform: transform.New(),
		mesh:      m,
		surface:   s,
	}
}

// Name returns the entity name.
func (e *Entity) Name() string { return e.name }

// Transform returns the entity transform for mutation.
func (e *Entity) Transform() *transform.Transform { return e.transform }

// Mesh returns the shared mesh.
func (e *Entity) Mesh() *mesh.Mesh { return e.mesh }

// Surface returns the current material.
func (e *Entity) Surface() Surface { return e.surface }

// SetMaterial swaps the material, retaining s before releasing the old one.
func (e *Entity) SetMaterial(s Surface) {
	s.Retain()
	e.surface.Release()
	e.surface = s
}

// Draw uploads the per-object and per-frame variables, binds the material
// and issues the mesh draw.
func (e *Entity) Draw(ctx gfx.Context, view View, ambient math.Vec3, lights []lighting.Light) {
	vs := e.surface.VertexProgram()
	ps := e.surface.PixelProgram()

	vs.SetMatrix4x4("world", e.transform.WorldMatrix())
	vs.SetMatrix4x4("worldInvTranspose", e.transform.WorldInverseTransposeMatrix())
	vs.SetMatrix4x4("view", view.ViewMatrix())
	vs.SetMatrix4x4("projection", view.ProjectionMatrix())
	vs.CopyAllBufferData()

	e.surface.PrepareMaterial()

	ps.SetFloat4("colorTint", e.surface.Tint())
	ps.SetFloat("roughness", e.surface.Roughness())
	ps.SetFloat3("cameraPosition", view.Position())
	ps.SetFloat3("ambient", ambient)
	ps.SetInt("lightCount", int32(lighting.Count(lights)))
	ps.SetData(lighting.BlockName, lighting.Encode(lights))
	ps.CopyAllBufferData()

	ctx.SetProgram(vs)
	ctx.SetProgram(ps)

	e.mesh.Draw(ctx)
}

// Release drops the mesh and surface references. Later calls do nothing.
func (e *Entity) Release() {
	if e.released {
		return
	}
	e.released = true
	e.mesh.Release()
	e.surface.Release()
}
