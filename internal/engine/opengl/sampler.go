package opengl

import (
	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/prism/internal/engine/gfx"
)

// TEXTURE_MAX_ANISOTROPY (core in 4.6, EXT_texture_filter_anisotropic before).
const textureMaxAnisotropy = 0x84FE

type sampler struct {
	id uint32
}

func (s *sampler) Release() {
	if s.id != 0 {
		gl.DeleteSamplers(1, &s.id)
		s.id = 0
	}
}

// CreateSampler builds a sampler object. A comparison sampler reads a depth
// texture as a shadow test instead of a colour.
func (d *Device) CreateSampler(desc gfx.SamplerDesc) (gfx.Sampler, error) {
	s := &sampler{}
	gl.GenSamplers(1, &s.id)

	switch desc.Filter {
	case gfx.FilterPoint:
		gl.SamplerParameteri(s.id, gl.TEXTURE_MIN_FILTER, gl.NEAREST_MIPMAP_NEAREST)
		gl.SamplerParameteri(s.id, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	default:
		gl.SamplerParameteri(s.id, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
		gl.SamplerParameteri(s.id, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	}
	if desc.Comparison != gfx.CompareNever {
		// depth textures carry no mips
		gl.SamplerParameteri(s.id, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
		gl.SamplerParameteri(s.id, gl.TEXTURE_COMPARE_MODE, gl.COMPARE_REF_TO_TEXTURE)
		gl.SamplerParameteri(s.id, gl.TEXTURE_COMPARE_FUNC, int32(compareFunc(desc.Comparison)))
	}
	if desc.Filter == gfx.FilterAnisotropic && desc.MaxAnisotropy > 1 {
		gl.SamplerParameterf(s.id, textureMaxAnisotropy, float32(desc.MaxAnisotropy))
	}

	wrap := int32(gl.REPEAT)
	switch desc.Address {
	case gfx.AddressClamp:
		wrap = gl.CLAMP_TO_EDGE
	case gfx.AddressBorder:
		wrap = gl.CLAMP_TO_BORDER
		border := desc.BorderColor
		gl.SamplerParameterfv(s.id, gl.TEXTURE_BORDER_COLOR, &border[0])
	}
	gl.SamplerParameteri(s.id, gl.TEXTURE_WRAP_S, wrap)
	gl.SamplerParameteri(s.id, gl.TEXTURE_WRAP_T, wrap)
	gl.SamplerParameteri(s.id, gl.TEXTURE_WRAP_R, wrap)

	// Anisotropy is an extension on 4.1; drop its error if unsupported.
	if code := gl.GetError(); code != gl.NO_ERROR && code != gl.INVALID_ENUM {
		s.Release()
		return nil, checkErrorCode("sampler", code)
	}
	return s, nil
}

func compareFunc(c gfx.CompareFunc) uint32 {
	switch c {
	case gfx.CompareLess:
		return gl.LESS
	case gfx.CompareLessEqual:
		return gl.LEQUAL
	case gfx.CompareAlways:
		return gl.ALWAYS
	default:
		return gl.NEVER
	}
}
