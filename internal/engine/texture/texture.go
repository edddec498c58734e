// Package texture decodes image files and builds procedural images for upload.
package texture

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"path"
	"strings"

	"github.com/chewxy/math32"
	_ "golang.org/x/image/bmp"  // register BMP decoder
	_ "golang.org/x/image/tiff" // register TIFF decoder

	"github.com/Faultbox/prism/pkg/math"
)

// Decode turns file contents into an RGBA image. name is only used to
// recognise formats without a signature (TGA).
func Decode(name string, data []byte) (*image.RGBA, error) {
	if strings.EqualFold(path.Ext(name), ".tga") {
		img, err := DecodeTGA(data)
		if err != nil {
			return nil, fmt.Errorf("decoding %s: %w", name, err)
		}
		return img, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", name, err)
	}
	return ToRGBA(img), nil
}

// ToRGBA converts any image to RGBA with its origin at (0, 0).
func ToRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}

// Solid returns a size x size image of one colour.
func Solid(c color.RGBA, size int) *image.RGBA {
	size = max(size, 1)
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: c}, image.Point{}, draw.Src)
	return img
}

// ParseColor reads "#rrggbb", "#rrggbbaa" or "r,g,b[,a]" with components in 0..1.
func ParseColor(s string) (color.RGBA, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") {
		var r, g, b uint8
		a := uint8(255)
		var err error
		switch len(s) {
		case 7:
			_, err = fmt.Sscanf(s, "#%02x%02x%02x", &r, &g, &b)
		case 9:
			_, err = fmt.Sscanf(s, "#%02x%02x%02x%02x", &r, &g, &b, &a)
		default:
			err = fmt.Errorf("want 6 or 8 hex digits")
		}
		if err != nil {
			return color.RGBA{}, fmt.Errorf("color %q: %w", s, err)
		}
		return color.RGBA{R: r, G: g, B: b, A: a}, nil
	}

	parts := strings.Split(s, ",")
	if len(parts) != 3 && len(parts) != 4 {
		return color.RGBA{}, fmt.Errorf("color %q: want #hex or 3-4 components", s)
	}
	v := [4]float32{1, 1, 1, 1}
	for i, p := range parts {
		if _, err := fmt.Sscan(strings.TrimSpace(p), &v[i]); err != nil {
			return color.RGBA{}, fmt.Errorf("color %q: %w", s, err)
		}
	}
	return color.RGBA{R: unit8(v[0]), G: unit8(v[1]), B: unit8(v[2]), A: unit8(v[3])}, nil
}

func unit8(f float32) uint8 {
	return uint8(max(0, min(1, f))*255 + 0.5)
}

// Cube face order used by the GPU: +X, -X, +Y, -Y, +Z, -Z.
var cubeFaces = [6]struct{ major, s, t math.Vec3 }{
	{math.Vec3{X: 1}, math.Vec3{Z: -1}, math.Vec3{Y: -1}},
	{math.Vec3{X: -1}, math.Vec3{Z: 1}, math.Vec3{Y: -1}},
	{math.Vec3{Y: 1}, math.Vec3{X: 1}, math.Vec3{Z: 1}},
	{math.Vec3{Y: -1}, math.Vec3{X: 1}, math.Vec3{Z: -1}},
	{math.Vec3{Z: 1}, math.Vec3{X: 1}, math.Vec3{Y: -1}},
	{math.Vec3{Z: -1}, math.Vec3{X: -1}, math.Vec3{Y: -1}},
}

// CubeDirection returns the direction a cube map texel at (u, v) in 0..1 samples.
func CubeDirection(face int, u, v float32) math.Vec3 {
	f := cubeFaces[face]
	return f.major.Add(f.s.Scale(2*u - 1)).Add(f.t.Scale(2*v - 1)).Normalize()
}

// GradientCube renders a sky cube map that blends from ground through
// horizon to zenith by sample elevation.
func GradientCube(size int, zenith, horizon, ground color.RGBA) [6]*image.RGBA {
	size = max(size, 1)
	var faces [6]*image.RGBA
	for f := range faces {
		img := image.NewRGBA(image.Rect(0, 0, size, size))
		for y := 0; y < size; y++ {
			for x := 0; x < size; x++ {
				u := (float32(x) + 0.5) / float32(size)
				v := (float32(y) + 0.5) / float32(size)
				elev := CubeDirection(f, u, v).Y
				var c color.RGBA
				if elev >= 0 {
					c = lerp(horizon, zenith, math32.Sqrt(elev))
				} else {
					c = lerp(horizon, ground, math32.Sqrt(-elev))
				}
				img.SetRGBA(x, y, c)
			}
		}
		faces[f] = img
	}
	return faces
}

func lerp(a, b color.RGBA, t float32) color.RGBA {
	mix := func(x, y uint8) uint8 {
		return uint8(float32(x) + (float32(y)-float32(x))*t + 0.5)
	}
	return color.RGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: mix(a.A, b.A)}
}
