// Package sky draws a cube-mapped background behind the scene.
package sky

import (
	"fmt"
	"image"

	"github.com/Faultbox/prism/internal/engine/gfx"
	"github.com/Faultbox/prism/internal/engine/mesh"
	"github.com/Faultbox/prism/internal/engine/shaders"
	"github.com/Faultbox/prism/pkg/math"
)

// Shader variable names.
const (
	CubeMapName = "SkyCubeMap"
	SamplerName = "SkySampler"
)

// View supplies the camera matrices.
type View interface {
	ViewMatrix() math.Mat4
	ProjectionMatrix() math.Mat4
}

// Sky renders the inside of a cube at the far plane.
type Sky struct {
	mesh       *mesh.Mesh
	cubeMap    gfx.Texture
	sampler    gfx.Sampler
	rasterizer gfx.RasterizerState
	depth      gfx.DepthStencilState
	vs, ps     gfx.Program
}

// New uploads faces as a cube map and builds the sky state. The cube mesh
// is retained.
func New(device gfx.Device, cube *mesh.Mesh, faces [6]*image.RGBA) (*Sky, error) {
	s := &Sky{}
	fail := func(err error) (*Sky, error) {
		s.Release()
		return nil, fmt.Errorf("sky: %w", err)
	}

	var err error
	if s.cubeMap, err = device.CreateTextureCube(faces); err != nil {
		return fail(err)
	}
	if s.sampler, err = device.CreateSampler(gfx.SamplerDesc{
		Filter:  gfx.FilterLinear,
		Address: gfx.AddressClamp,
	}); err != nil {
		return fail(err)
	}
	// the camera is inside the cube
	if s.rasterizer, err = device.CreateRasterizerState(gfx.RasterizerDesc{Cull: gfx.CullFront}); err != nil {
		return fail(err)
	}
	// the sky sits exactly on the cleared far plane
	if s.depth, err = device.CreateDepthStencilState(gfx.DepthStencilDesc{DepthFunc: gfx.CompareLessEqual}); err != nil {
		return fail(err)
	}
	if s.vs, err = createProgram(device, gfx.VertexStage, shaders.SkyVertex); err != nil {
		return fail(err)
	}
	if s.ps, err = createProgram(device, gfx.PixelStage, shaders.SkyPixel); err != nil {
		return fail(err)
	}

	cube.Retain()
	s.mesh = cube
	return s, nil
}

func createProgram(device gfx.Device, stage gfx.Stage, name string) (gfx.Program, error) {
	src, err := shaders.Source(name)
	if err != nil {
		return nil, err
	}
	return device.CreateProgram(stage, name, src)
}

// Draw renders the sky and restores the default rasterizer and depth state.
func (s *Sky) Draw(ctx gfx.Context, view View) {
	ctx.SetRasterizerState(s.rasterizer)
	ctx.SetDepthStencilState(s.depth)

	s.vs.SetMatrix4x4("view", view.ViewMatrix())
	s.vs.SetMatrix4x4("projection", view.ProjectionMatrix())
	s.vs.CopyAllBufferData()

	s.ps.SetShaderResourceView(CubeMapName, s.cubeMap)
	s.ps.SetSamplerState(SamplerName, s.sampler)
	s.ps.CopyAllBufferData()

	ctx.SetProgram(s.vs)
	ctx.SetProgram(s.ps)
	s.mesh.Draw(ctx)

	ctx.SetRasterizerState(nil)
	ctx.SetDepthStencilState(nil)
}

// Release destroys the sky resources and drops the mesh reference.
func (s *Sky) Release() {
	for _, r := range []gfx.Releaser{s.ps, s.vs, s.depth, s.rasterizer, s.sampler, s.cubeMap} {
		if r != nil {
			r.Release()
		}
	}
	s.ps, s.vs, s.depth, s.rasterizer, s.sampler, s.cubeMap = nil, nil, nil, nil, nil, nil
	if s.mesh != nil {
		s.mesh.Release()
		s.mesh = nil
	}
}
