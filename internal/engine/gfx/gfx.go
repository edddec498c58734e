// Package gfx defines the explicit render context the engine draws through.
//
// A Device creates GPU resources; a Context records per-frame state changes
// and draws. Every bind happens at the call site that needs it, so the frame
// pipeline can be tested against a recording implementation.
package gfx

import (
	"image"

	"github.com/Faultbox/prism/pkg/math"
)

// MaxShaderResources is the number of pixel-stage resource slots cleared at frame end.
const MaxShaderResources = 16

// Stage is a programmable pipeline stage.
type Stage int

const (
	VertexStage Stage = iota
	PixelStage
)

func (s Stage) String() string {
	switch s {
	case VertexStage:
		return "vertex"
	case PixelStage:
		return "pixel"
	default:
		return "unknown"
	}
}

// Releaser is any GPU object with an explicit lifetime.
type Releaser interface {
	Release()
}

// Geometry is an uploaded vertex + index buffer pair.
type Geometry interface {
	Releaser
	IndexCount() int
}

// Texture is a shader-readable resource view.
type Texture interface {
	Releaser
}

// Sampler is a sampler state object.
type Sampler interface {
	Releaser
}

// RasterizerState controls culling and depth bias.
type RasterizerState interface {
	Releaser
}

// DepthStencilState controls the depth test.
type DepthStencilState interface {
	Releaser
}

// DepthTarget is an offscreen depth-only render target with a readable view.
type DepthTarget interface {
	Releaser
	Size() int
	Texture() Texture
}

// Program is a compiled shader for a single stage with reflected variables.
//
// Set* calls return false when the program does not declare the name.
// Uniform writes may be staged until CopyAllBufferData.
type Program interface {
	Releaser
	Name() string
	Stage() Stage

	SetMatrix4x4(name string, m math.Mat4) bool
	SetFloat(name string, v float32) bool
	SetFloat3(name string, v math.Vec3) bool
	SetFloat4(name string, v [4]float32) bool
	SetInt(name string, v int32) bool
	SetData(name string, data []byte) bool
	SetShaderResourceView(name string, tex Texture) bool
	SetSamplerState(name string, s Sampler) bool

	// ResourceNames and SamplerNames list declared texture and sampler names.
	ResourceNames() []string
	SamplerNames() []string

	CopyAllBufferData()
}

// Viewport is a rectangle in render-target pixels.
type Viewport struct {
	X, Y          int
	Width, Height int
}

// Device creates GPU resources.
type Device interface {
	CreateGeometry(desc GeometryDesc) (Geometry, error)
	CreateTexture2D(img *image.RGBA) (Texture, error)
	CreateTextureCube(faces [6]*image.RGBA) (Texture, error)
	CreateSampler(desc SamplerDesc) (Sampler, error)
	CreateRasterizerState(desc RasterizerDesc) (RasterizerState, error)
	CreateDepthStencilState(desc DepthStencilDesc) (DepthStencilState, error)
	CreateDepthTarget(size int) (DepthTarget, error)
	CreateProgram(stage Stage, name, source string) (Program, error)
}

// Context issues state changes and draws for the current frame.
type Context interface {
	// SetRenderTargets redirects output to target's depth buffer with no color
	// output. A nil target restores the back buffer and main depth buffer.
	SetRenderTargets(target DepthTarget)
	ClearRenderTarget(color [4]float32)
	ClearDepth(depth float32)
	SetViewport(vp Viewport)

	// A nil state restores the default.
	SetRasterizerState(rs RasterizerState)
	SetDepthStencilState(ds DepthStencilState)

	// SetProgram activates p on its stage.
	SetProgram(p Program)
	DisablePixelStage()

	DrawIndexed(g Geometry)
	UnbindShaderResources(count int)
	Present(vsync bool) error

	// ReadPixels copies the back buffer, top row first.
	ReadPixels(width, height int) (*image.RGBA, error)
}
