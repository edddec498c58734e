package opengl

import (
	"fmt"
	"image"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/prism/internal/engine/gfx"
	"github.com/Faultbox/prism/internal/logger"
)

// Context issues commands on the device's GL context.
type Context struct {
	dev   *Device
	vsync *bool
}

func newContext(d *Device, width, height int) *Context {
	c := &Context{dev: d}
	gl.Viewport(0, 0, int32(width), int32(height))
	return c
}

// applyDefaults sets the state a nil rasterizer or depth state stands for.
// Front faces wind clockwise, matching the left-handed world space.
func (c *Context) applyDefaults() {
	gl.FrontFace(gl.CW)
	applyRasterizer(gfx.RasterizerDesc{})
	applyDepthStencil(gfx.DepthStencilDesc{DepthFunc: gfx.CompareLess})
	gl.Enable(gl.TEXTURE_CUBE_MAP_SEAMLESS)
}

func (c *Context) SetRenderTargets(target gfx.DepthTarget) {
	if target == nil {
		gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
		return
	}
	t, ok := target.(*depthTarget)
	if !ok {
		logger.Warn("foreign depth target ignored")
		return
	}
	gl.BindFramebuffer(gl.FRAMEBUFFER, t.fbo)
}

func (c *Context) ClearRenderTarget(color [4]float32) {
	gl.ClearColor(color[0], color[1], color[2], color[3])
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

func (c *Context) ClearDepth(depth float32) {
	// depth writes must be on for the clear to land
	gl.DepthMask(true)
	gl.ClearDepthf(depth)
	gl.Clear(gl.DEPTH_BUFFER_BIT)
}

func (c *Context) SetViewport(vp gfx.Viewport) {
	gl.Viewport(int32(vp.X), int32(vp.Y), int32(vp.Width), int32(vp.Height))
}

func (c *Context) SetRasterizerState(rs gfx.RasterizerState) {
	if s, ok := rs.(*rasterizerState); ok {
		applyRasterizer(s.desc)
		return
	}
	applyRasterizer(gfx.RasterizerDesc{})
}

func (c *Context) SetDepthStencilState(ds gfx.DepthStencilState) {
	if s, ok := ds.(*depthStencilState); ok {
		applyDepthStencil(s.desc)
		return
	}
	applyDepthStencil(gfx.DepthStencilDesc{DepthFunc: gfx.CompareLess})
}

func (c *Context) SetProgram(p gfx.Program) {
	prog, ok := p.(*program)
	if !ok {
		logger.Warn("foreign program ignored", zap.String("name", p.Name()))
		return
	}
	gl.UseProgramStages(c.dev.pipeline, glStageBit(prog.stage), prog.id)
}

func (c *Context) DisablePixelStage() {
	gl.UseProgramStages(c.dev.pipeline, gl.FRAGMENT_SHADER_BIT, 0)
}

func (c *Context) DrawIndexed(g gfx.Geometry) {
	geom, ok := g.(*geometry)
	if !ok {
		return
	}
	gl.BindVertexArray(geom.vao)
	gl.DrawElements(gl.TRIANGLES, int32(geom.indexCount), gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}

func (c *Context) UnbindShaderResources(count int) {
	for i := 0; i < count; i++ {
		gl.ActiveTexture(gl.TEXTURE0 + uint32(i))
		gl.BindTexture(gl.TEXTURE_2D, 0)
		gl.BindTexture(gl.TEXTURE_CUBE_MAP, 0)
		gl.BindSampler(uint32(i), 0)
	}
	gl.ActiveTexture(gl.TEXTURE0)
}

// Present swaps the back buffer. Running out of GPU memory is treated as a
// lost device since every resource has to be recreated to recover.
func (c *Context) Present(vsync bool) error {
	if c.vsync == nil || *c.vsync != vsync {
		if err := c.dev.swapper.SetVSync(vsync); err != nil {
			logger.Warn("failed to change VSync", zap.Bool("vsync", vsync), zap.Error(err))
		}
		c.vsync = &vsync
	}

	if code := gl.GetError(); code != gl.NO_ERROR {
		if code == gl.OUT_OF_MEMORY {
			return gfx.ErrDeviceLost
		}
		logger.Warn("GL error during frame", zap.Uint32("code", code))
	}

	c.dev.swapper.SwapBuffers()
	return nil
}

// ReadPixels copies the back buffer and flips it so row 0 is the top.
func (c *Context) ReadPixels(width, height int) (*image.RGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid read size %dx%d", width, height)
	}

	pixels := make([]byte, width*height*4)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	rowSize := width * 4
	for y := 0; y < height; y++ {
		srcOffset := (height - 1 - y) * rowSize
		copy(img.Pix[y*img.Stride:y*img.Stride+rowSize], pixels[srcOffset:srcOffset+rowSize])
	}
	return img, nil
}
