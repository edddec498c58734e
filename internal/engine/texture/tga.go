package texture

import (
	"errors"
	"fmt"
	"image"
)

// TGA image types this decoder reads.
const (
	tgaUncompressed = 2
	tgaRLE          = 10
)

var errTGATruncated = errors.New("TGA data truncated")

// DecodeTGA decodes an uncompressed or RLE true-color TGA image.
// TGA has no signature, so it is picked by file extension rather than image.Decode.
func DecodeTGA(data []byte) (*image.RGBA, error) {
	if len(data) < 18 {
		return nil, errTGATruncated
	}

	idLength := int(data[0])
	colorMapType := data[1]
	imageType := data[2]
	width := int(data[12]) | int(data[13])<<8
	height := int(data[14]) | int(data[15])<<8
	bpp := int(data[16])
	topToBottom := data[17]&0x20 != 0

	if colorMapType != 0 {
		return nil, fmt.Errorf("color-mapped TGA not supported")
	}
	if imageType != tgaUncompressed && imageType != tgaRLE {
		return nil, fmt.Errorf("unsupported TGA type %d", imageType)
	}
	if bpp != 24 && bpp != 32 {
		return nil, fmt.Errorf("unsupported TGA bit depth %d", bpp)
	}
	if 18+idLength > len(data) {
		return nil, errTGATruncated
	}

	r := &tgaReader{
		data:        data[18+idLength:],
		img:         image.NewRGBA(image.Rect(0, 0, width, height)),
		bytes:       bpp / 8,
		topToBottom: topToBottom,
	}

	var err error
	if imageType == tgaUncompressed {
		err = r.raw(width * height)
	} else {
		err = r.rle()
	}
	if err != nil {
		return nil, err
	}
	return r.img, nil
}

type tgaReader struct {
	data        []byte
	pos         int
	pixel       int
	img         *image.RGBA
	bytes       int
	topToBottom bool
}

// next reads one BGR(A) pixel.
func (r *tgaReader) next() ([4]byte, error) {
	if r.pos+r.bytes > len(r.data) {
		return [4]byte{}, errTGATruncated
	}
	p := r.data[r.pos : r.pos+r.bytes]
	r.pos += r.bytes

	c := [4]byte{p[2], p[1], p[0], 255}
	if r.bytes == 4 {
		c[3] = p[3]
	}
	return c, nil
}

// put writes c at the next pixel, flipping bottom-up files.
func (r *tgaReader) put(c [4]byte) {
	w, h := r.img.Rect.Dx(), r.img.Rect.Dy()
	x, y := r.pixel%w, r.pixel/w
	if !r.topToBottom {
		y = h - 1 - y
	}
	copy(r.img.Pix[r.img.PixOffset(x, y):], c[:])
	r.pixel++
}

func (r *tgaReader) total() int {
	return r.img.Rect.Dx() * r.img.Rect.Dy()
}

func (r *tgaReader) raw(count int) error {
	for i := 0; i < count && r.pixel < r.total(); i++ {
		c, err := r.next()
		if err != nil {
			return err
		}
		r.put(c)
	}
	return nil
}

func (r *tgaReader) rle() error {
	for r.pixel < r.total() {
		if r.pos >= len(r.data) {
			return errTGATruncated
		}
		packet := r.data[r.pos]
		r.pos++
		count := int(packet&0x7F) + 1

		if packet&0x80 == 0 {
			if err := r.raw(count); err != nil {
				return err
			}
			continue
		}

		c, err := r.next()
		if err != nil {
			return err
		}
		for i := 0; i < count && r.pixel < r.total(); i++ {
			r.put(c)
		}
	}
	return nil
}
