package opengl

import (
	"fmt"
	"image"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/prism/internal/engine/gfx"
)

type texture struct {
	id     uint32
	target uint32
}

func (t *texture) Release() {
	if t.id != 0 {
		gl.DeleteTextures(1, &t.id)
		t.id = 0
	}
}

func errEmpty(what string) error {
	return fmt.Errorf("%w: empty %s", gfx.ErrResourceCreation, what)
}

// CreateTexture2D uploads img with a full mip chain.
// Row 0 of img is the top of the texture (UV v = 0).
func (d *Device) CreateTexture2D(img *image.RGBA) (gfx.Texture, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, errEmpty("texture")
	}
	t := &texture{target: gl.TEXTURE_2D}

	gl.GenTextures(1, &t.id)
	gl.BindTexture(gl.TEXTURE_2D, t.id)
	uploadRGBA(gl.TEXTURE_2D, img)
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	if err := checkError("texture"); err != nil {
		t.Release()
		return nil, err
	}
	return t, nil
}

// CreateTextureCube uploads six square faces in +X, -X, +Y, -Y, +Z, -Z order.
func (d *Device) CreateTextureCube(faces [6]*image.RGBA) (gfx.Texture, error) {
	size := 0
	for i, f := range faces {
		if f == nil || f.Bounds().Empty() {
			return nil, errEmpty(fmt.Sprintf("cube face %d", i))
		}
		b := f.Bounds()
		if b.Dx() != b.Dy() || (size != 0 && b.Dx() != size) {
			return nil, fmt.Errorf("%w: cube face %d is %dx%d", gfx.ErrResourceCreation, i, b.Dx(), b.Dy())
		}
		size = b.Dx()
	}

	t := &texture{target: gl.TEXTURE_CUBE_MAP}
	gl.GenTextures(1, &t.id)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, t.id)
	for i, f := range faces {
		uploadRGBA(gl.TEXTURE_CUBE_MAP_POSITIVE_X+uint32(i), f)
	}
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_R, gl.CLAMP_TO_EDGE)
	gl.GenerateMipmap(gl.TEXTURE_CUBE_MAP)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, 0)

	if err := checkError("cubemap"); err != nil {
		t.Release()
		return nil, err
	}
	return t, nil
}

func uploadRGBA(target uint32, img *image.RGBA) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	pix := img.Pix
	if img.Stride != w*4 {
		pix = make([]byte, w*h*4)
		for y := 0; y < h; y++ {
			copy(pix[y*w*4:(y+1)*w*4], img.Pix[y*img.Stride:y*img.Stride+w*4])
		}
	}

	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(target, 0, gl.RGBA8, int32(w), int32(h), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pix))
}
