package texture

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/Faultbox/prism/pkg/math"
)

func checker() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.NRGBA{R: 255, A: 255})
	img.Set(1, 0, color.NRGBA{G: 255, A: 255})
	img.Set(0, 1, color.NRGBA{B: 255, A: 255})
	img.Set(1, 1, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	return img
}

func TestDecodeRegisteredFormats(t *testing.T) {
	encoders := map[string]func(*bytes.Buffer, image.Image) error{
		"a.png": func(b *bytes.Buffer, i image.Image) error { return png.Encode(b, i) },
		"a.tif": func(b *bytes.Buffer, i image.Image) error { return tiff.Encode(b, i, nil) },
		"a.bmp": func(b *bytes.Buffer, i image.Image) error { return bmp.Encode(b, i) },
	}
	for name, encode := range encoders {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, encode(&buf, checker()))

			img, err := Decode(name, buf.Bytes())
			require.NoError(t, err)
			assert.Equal(t, color.RGBA{G: 255, A: 255}, img.RGBAAt(1, 0))
			assert.Equal(t, color.RGBA{B: 255, A: 255}, img.RGBAAt(0, 1))
		})
	}
}

func TestDecodeGarbage(t *testing.T) {
	_, err := Decode("x.png", []byte("not an image"))
	assert.ErrorContains(t, err, "x.png")
}

func TestDecodeTGABottomUp(t *testing.T) {
	header := make([]byte, 18)
	header[2] = tgaUncompressed
	header[12], header[14] = 1, 2 // 1x2
	header[16] = 24
	// bottom row first, BGR
	data := append(header, 0, 0, 255, 255, 0, 0)

	img, err := Decode("sky.TGA", data)
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{B: 255, A: 255}, img.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{R: 255, A: 255}, img.RGBAAt(0, 1))
}

func TestDecodeTGARLE(t *testing.T) {
	header := make([]byte, 18)
	header[2] = tgaRLE
	header[12], header[14] = 3, 1
	header[16] = 32
	header[17] = 0x20
	// run of 3 identical pixels
	data := append(header, 0x82, 10, 20, 30, 40)

	img, err := DecodeTGA(data)
	require.NoError(t, err)
	for x := 0; x < 3; x++ {
		assert.Equal(t, color.RGBA{R: 30, G: 20, B: 10, A: 40}, img.RGBAAt(x, 0))
	}
}

func TestDecodeTGATruncated(t *testing.T) {
	header := make([]byte, 18)
	header[2] = tgaUncompressed
	header[12], header[14] = 4, 4
	header[16] = 24
	_, err := DecodeTGA(header)
	assert.ErrorIs(t, err, errTGATruncated)
}

func TestToRGBAOffsetsOrigin(t *testing.T) {
	src := image.NewRGBA(image.Rect(5, 5, 7, 7))
	src.SetRGBA(5, 5, color.RGBA{R: 1, A: 255})
	out := ToRGBA(src)
	assert.Equal(t, image.Rect(0, 0, 2, 2), out.Bounds())
	assert.Equal(t, uint8(1), out.RGBAAt(0, 0).R)
}

func TestSolid(t *testing.T) {
	img := Solid(color.RGBA{R: 9, A: 255}, 4)
	assert.Equal(t, 4, img.Bounds().Dx())
	assert.Equal(t, color.RGBA{R: 9, A: 255}, img.RGBAAt(3, 3))
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("#ff8000")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 255, G: 128, A: 255}, c)

	c, err = ParseColor("0.5, 0, 1")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 128, B: 255, A: 255}, c)

	c, err = ParseColor("#00000080")
	require.NoError(t, err)
	assert.Equal(t, uint8(128), c.A)

	_, err = ParseColor("red")
	assert.Error(t, err)
	_, err = ParseColor("#abc")
	assert.Error(t, err)
}

func TestCubeDirectionFaceCenters(t *testing.T) {
	want := []math.Vec3{{X: 1}, {X: -1}, {Y: 1}, {Y: -1}, {Z: 1}, {Z: -1}}
	for f, w := range want {
		assert.True(t, CubeDirection(f, 0.5, 0.5).ApproxEqual(w, 1e-6), "face %d", f)
	}
	// top row of a side face looks up
	assert.Greater(t, CubeDirection(4, 0.5, 0).Y, float32(0))
}

func TestGradientCube(t *testing.T) {
	zenith := color.RGBA{B: 255, A: 255}
	horizon := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	ground := color.RGBA{A: 255}
	faces := GradientCube(8, zenith, horizon, ground)

	top := faces[2].RGBAAt(4, 4)
	bottom := faces[3].RGBAAt(4, 4)
	assert.Greater(t, top.B, top.R, "zenith should be blue")
	assert.Less(t, bottom.R, uint8(64), "ground should be dark")
}
