// Package opengl implements the gfx render context on OpenGL 4.1 core.
//
// Vertex and pixel programs are separable program objects combined in one
// program pipeline, which gives the per-stage binding model gfx expects.
// Texture units are assigned per variable name for the whole device so every
// program that declares the same name reads the same unit.
package opengl

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/prism/internal/engine/gfx"
	"github.com/Faultbox/prism/internal/logger"
)

// Swapper presents the back buffer. The window implements it.
type Swapper interface {
	SwapBuffers()
	SetVSync(enabled bool) error
}

// Device owns the GL pipeline object and the name-to-slot registries.
type Device struct {
	swapper  Swapper
	pipeline uint32

	textureUnits  map[string]uint32
	blockBindings map[string]uint32

	ctx *Context
}

var (
	_ gfx.Device  = (*Device)(nil)
	_ gfx.Context = (*Context)(nil)
)

// New initialises OpenGL on the current context.
// IMPORTANT: Must be called AFTER the OpenGL context is created!
func New(swapper Swapper, width, height int) (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	version := gl.GoStr(gl.GetString(gl.VERSION))
	rendererName := gl.GoStr(gl.GetString(gl.RENDERER))
	logger.Info("OpenGL initialized",
		zap.String("version", version),
		zap.String("renderer", rendererName),
	)

	d := &Device{
		swapper:       swapper,
		textureUnits:  make(map[string]uint32),
		blockBindings: make(map[string]uint32),
	}

	gl.GenProgramPipelines(1, &d.pipeline)
	gl.UseProgram(0)
	gl.BindProgramPipeline(d.pipeline)

	d.ctx = newContext(d, width, height)
	d.ctx.applyDefaults()

	return d, nil
}

// Context returns the immediate context.
func (d *Device) Context() *Context {
	return d.ctx
}

// Close deletes the pipeline object.
func (d *Device) Close() {
	logger.Info("closing OpenGL device")
	if d.pipeline != 0 {
		gl.DeleteProgramPipelines(1, &d.pipeline)
		d.pipeline = 0
	}
}

// textureUnit returns the unit reserved for a texture variable name.
func (d *Device) textureUnit(name string) (uint32, error) {
	if unit, ok := d.textureUnits[name]; ok {
		return unit, nil
	}
	unit := uint32(len(d.textureUnits))
	if unit >= gfx.MaxShaderResources {
		return 0, fmt.Errorf("%w: more than %d texture names", gfx.ErrResourceCreation, gfx.MaxShaderResources)
	}
	d.textureUnits[name] = unit
	logger.Debug("texture unit assigned", zap.String("name", name), zap.Uint32("unit", unit))
	return unit, nil
}

// blockBinding returns the binding point reserved for a uniform block name.
func (d *Device) blockBinding(name string) uint32 {
	if b, ok := d.blockBindings[name]; ok {
		return b
	}
	b := uint32(len(d.blockBindings))
	d.blockBindings[name] = b
	return b
}

// checkError turns a pending GL error into a creation failure.
func checkError(what string) error {
	if code := gl.GetError(); code != gl.NO_ERROR {
		return checkErrorCode(what, code)
	}
	return nil
}

func checkErrorCode(what string, code uint32) error {
	return fmt.Errorf("%w: %s: GL error 0x%x", gfx.ErrResourceCreation, what, code)
}
