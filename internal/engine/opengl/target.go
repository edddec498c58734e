package opengl

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/prism/internal/engine/gfx"
)

// depthTarget is a depth-only framebuffer whose texture can be sampled.
type depthTarget struct {
	fbo  uint32
	view *texture
	size int
}

func (t *depthTarget) Size() int            { return t.size }
func (t *depthTarget) Texture() gfx.Texture { return t.view }

func (t *depthTarget) Release() {
	if t.fbo != 0 {
		gl.DeleteFramebuffers(1, &t.fbo)
		t.fbo = 0
	}
	t.view.Release()
}

// CreateDepthTarget creates a square depth texture attached to its own framebuffer.
func (d *Device) CreateDepthTarget(size int) (gfx.DepthTarget, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: depth target size %d", gfx.ErrResourceCreation, size)
	}
	t := &depthTarget{size: size, view: &texture{target: gl.TEXTURE_2D}}

	gl.GenFramebuffers(1, &t.fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, t.fbo)

	gl.GenTextures(1, &t.view.id)
	gl.BindTexture(gl.TEXTURE_2D, t.view.id)
	gl.TexImage2D(
		gl.TEXTURE_2D,
		0,
		gl.DEPTH_COMPONENT24,
		int32(size),
		int32(size),
		0,
		gl.DEPTH_COMPONENT,
		gl.FLOAT,
		nil,
	)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)

	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.TEXTURE_2D, t.view.id, 0)

	// No color buffer for a depth pass
	gl.DrawBuffer(gl.NONE)
	gl.ReadBuffer(gl.NONE)

	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	if status != gl.FRAMEBUFFER_COMPLETE {
		t.Release()
		return nil, fmt.Errorf("%w: depth framebuffer incomplete (0x%x)", gfx.ErrResourceCreation, status)
	}
	return t, nil
}
