// Package shadow renders the directional shadow map.
package shadow

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/prism/internal/engine/gfx"
	"github.com/Faultbox/prism/internal/engine/mesh"
	"github.com/Faultbox/prism/internal/engine/shaders"
	"github.com/Faultbox/prism/internal/engine/transform"
	"github.com/Faultbox/prism/internal/logger"
	"github.com/Faultbox/prism/pkg/math"
)

// Names the main pixel program samples the shadow map under. The renderer
// binds them each frame so materials never carry them.
const (
	MapName     = "ShadowMap"
	SamplerName = "ShadowSampler"
)

// Pass defaults.
const (
	DefaultResolution           = 1024
	DefaultDepthBias            = 1000
	DefaultSlopeScaledDepthBias = 1.0
)

// Caster is anything drawn into the shadow map.
type Caster interface {
	Transform() *transform.Transform
	Mesh() *mesh.Mesh
}

// Config sets up a Pass. Zero fields take the defaults.
type Config struct {
	Resolution           int
	DepthBias            int32
	SlopeScaledDepthBias float32

	// View and Proj override the default fixed light.
	View, Proj *math.Mat4
}

// Pass owns the shadow depth target and the state used to fill it.
type Pass struct {
	target     gfx.DepthTarget
	sampler    gfx.Sampler
	rasterizer gfx.RasterizerState
	program    gfx.Program

	resolution int
	view, proj math.Mat4
}

// New creates the depth target, comparison sampler, biased rasterizer and
// shadow program.
func New(device gfx.Device, cfg Config) (*Pass, error) {
	if cfg.Resolution <= 0 {
		cfg.Resolution = DefaultResolution
	}
	if cfg.DepthBias == 0 {
		cfg.DepthBias = DefaultDepthBias
	}
	if cfg.SlopeScaledDepthBias == 0 {
		cfg.SlopeScaledDepthBias = DefaultSlopeScaledDepthBias
	}

	p := &Pass{resolution: cfg.Resolution}
	p.view, p.proj = DefaultLightMatrices()
	if cfg.View != nil {
		p.view = *cfg.View
	}
	if cfg.Proj != nil {
		p.proj = *cfg.Proj
	}

	fail := func(err error) (*Pass, error) {
		p.Release()
		return nil, err
	}

	var err error
	if p.target, err = device.CreateDepthTarget(cfg.Resolution); err != nil {
		return fail(fmt.Errorf("shadow map: %w", err))
	}
	p.sampler, err = device.CreateSampler(gfx.SamplerDesc{
		Filter:      gfx.FilterLinear,
		Address:     gfx.AddressBorder,
		BorderColor: [4]float32{1, 1, 1, 1},
		Comparison:  gfx.CompareLess,
	})
	if err != nil {
		return fail(fmt.Errorf("shadow sampler: %w", err))
	}
	p.rasterizer, err = device.CreateRasterizerState(gfx.RasterizerDesc{
		Cull:                 gfx.CullBack,
		DepthBias:            cfg.DepthBias,
		SlopeScaledDepthBias: cfg.SlopeScaledDepthBias,
	})
	if err != nil {
		return fail(fmt.Errorf("shadow rasterizer: %w", err))
	}

	src, err := shaders.Source(shaders.ShadowVertex)
	if err != nil {
		return fail(err)
	}
	if p.program, err = device.CreateProgram(gfx.VertexStage, shaders.ShadowVertex, src); err != nil {
		return fail(fmt.Errorf("shadow program: %w", err))
	}

	logger.Debug("shadow pass created",
		zap.Int("resolution", cfg.Resolution),
		zap.Int32("depthBias", cfg.DepthBias),
		zap.Float32("slopeBias", cfg.SlopeScaledDepthBias),
	)
	return p, nil
}

// Resolution returns the shadow map edge length in texels.
func (p *Pass) Resolution() int { return p.resolution }

// LightView returns the light view matrix.
func (p *Pass) LightView() math.Mat4 { return p.view }

// LightProjection returns the light projection matrix.
func (p *Pass) LightProjection() math.Mat4 { return p.proj }

// SetLightMatrices replaces the light view and projection.
func (p *Pass) SetLightMatrices(view, proj math.Mat4) {
	p.view, p.proj = view, proj
}

// Render draws every caster's depth into the shadow map, then restores the
// back buffer, default rasterizer and the restore viewport.
func (p *Pass) Render(ctx gfx.Context, casters []Caster, restore gfx.Viewport) {
	ctx.SetRenderTargets(p.target)
	ctx.ClearDepth(1)
	ctx.SetRasterizerState(p.rasterizer)
	ctx.SetViewport(gfx.Viewport{Width: p.resolution, Height: p.resolution})

	// depth only
	ctx.DisablePixelStage()
	p.program.SetMatrix4x4("view", p.view)
	p.program.SetMatrix4x4("projection", p.proj)
	ctx.SetProgram(p.program)

	for _, c := range casters {
		p.program.SetMatrix4x4("world", c.Transform().WorldMatrix())
		p.program.CopyAllBufferData()
		c.Mesh().Draw(ctx)
	}

	ctx.SetRenderTargets(nil)
	ctx.SetRasterizerState(nil)
	ctx.SetViewport(restore)
}

// BindMainInputs hands the light matrices to a main vertex program and the
// shadow map with its sampler to a main pixel program.
func (p *Pass) BindMainInputs(vs, ps gfx.Program) {
	vs.SetMatrix4x4("lightView", p.view)
	vs.SetMatrix4x4("lightProj", p.proj)
	ps.SetShaderResourceView(MapName, p.target.Texture())
	ps.SetSamplerState(SamplerName, p.sampler)
}

// Release destroys the pass resources.
func (p *Pass) Release() {
	if p.program != nil {
		p.program.Release()
		p.program = nil
	}
	if p.rasterizer != nil {
		p.rasterizer.Release()
		p.rasterizer = nil
	}
	if p.sampler != nil {
		p.sampler.Release()
		p.sampler = nil
	}
	if p.target != nil {
		p.target.Release()
		p.target = nil
	}
}

// Bounds returns the world-space box around every caster.
func Bounds(casters []Caster) AABB {
	box := EmptyAABB()
	for _, c := range casters {
		lo, hi := c.Mesh().Bounds()
		world := c.Transform().WorldMatrix()
		for i := range 8 {
			corner := lo
			if i&1 != 0 {
				corner.X = hi.X
			}
			if i&2 != 0 {
				corner.Y = hi.Y
			}
			if i&4 != 0 {
				corner.Z = hi.Z
			}
			box = box.Extend(world.TransformPoint(corner))
		}
	}
	return box
}
