package opengl

import (
	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/prism/internal/engine/gfx"
)

// GL has no state objects for these; the description is applied on bind.
type rasterizerState struct {
	desc gfx.RasterizerDesc
}

func (*rasterizerState) Release() {}

type depthStencilState struct {
	desc gfx.DepthStencilDesc
}

func (*depthStencilState) Release() {}

// CreateRasterizerState records a culling and depth-bias description.
func (d *Device) CreateRasterizerState(desc gfx.RasterizerDesc) (gfx.RasterizerState, error) {
	return &rasterizerState{desc: desc}, nil
}

// CreateDepthStencilState records a depth test description.
func (d *Device) CreateDepthStencilState(desc gfx.DepthStencilDesc) (gfx.DepthStencilState, error) {
	return &depthStencilState{desc: desc}, nil
}

func applyRasterizer(desc gfx.RasterizerDesc) {
	switch desc.Cull {
	case gfx.CullNone:
		gl.Disable(gl.CULL_FACE)
	case gfx.CullFront:
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.FRONT)
	default:
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.BACK)
	}

	if desc.DepthBias == 0 && desc.SlopeScaledDepthBias == 0 {
		gl.Disable(gl.POLYGON_OFFSET_FILL)
		return
	}
	gl.Enable(gl.POLYGON_OFFSET_FILL)
	gl.PolygonOffset(desc.SlopeScaledDepthBias, float32(desc.DepthBias))
}

func applyDepthStencil(desc gfx.DepthStencilDesc) {
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(compareFunc(desc.DepthFunc))
	gl.DepthMask(!desc.DisableWrite)
}
