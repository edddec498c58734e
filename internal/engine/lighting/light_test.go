package lighting

import (
	"encoding/binary"
	gomath "math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/prism/pkg/math"
)

func floatAt(b []byte, off int) float32 {
	return gomath.Float32frombits(binary.LittleEndian.Uint32(b[off:]))
}

func TestEncodeLayout(t *testing.T) {
	lights := []Light{
		Directional(math.V3(0, -1, 1), math.V3(1, 1, 1), 0.75),
		Point(math.V3(-3.25, -1.5, -1), math.V3(0.2, 0.4, 1), 0.5, 3),
	}
	b := Encode(lights)
	require.Len(t, b, 2*LightStride)

	d := lights[0].Direction
	assert.InDelta(t, d.X, floatAt(b, 0), 1e-6)
	assert.InDelta(t, d.Y, floatAt(b, 4), 1e-6)
	assert.InDelta(t, d.Z, floatAt(b, 8), 1e-6)
	assert.InDelta(t, 0.75, floatAt(b, 28), 1e-6)
	assert.Equal(t, uint32(TypeDirectional), binary.LittleEndian.Uint32(b[44:]))

	p := b[LightStride:]
	assert.InDelta(t, 3, floatAt(p, 12), 1e-6)
	assert.InDelta(t, -3.25, floatAt(p, 16), 1e-6)
	assert.InDelta(t, -1.5, floatAt(p, 20), 1e-6)
	assert.InDelta(t, -1, floatAt(p, 24), 1e-6)
	assert.InDelta(t, 0.5, floatAt(p, 28), 1e-6)
	assert.InDelta(t, 0.2, floatAt(p, 32), 1e-6)
	assert.InDelta(t, 1, floatAt(p, 40), 1e-6)
	assert.Equal(t, uint32(TypePoint), binary.LittleEndian.Uint32(p[44:]))
}

func TestEncodeDropsExtraLights(t *testing.T) {
	lights := make([]Light, MaxLights+4)
	for i := range lights {
		lights[i] = Point(math.V3(float32(i), 0, 0), math.V3(1, 1, 1), 1, 1)
	}
	assert.Equal(t, MaxLights, Count(lights))
	b := Encode(lights)
	assert.Len(t, b, MaxLights*LightStride)
	assert.InDelta(t, MaxLights-1, floatAt(b, (MaxLights-1)*LightStride+16), 1e-6)
}

func TestEncodeEmpty(t *testing.T) {
	assert.Empty(t, Encode(nil))
	assert.Zero(t, Count(nil))
}

func TestConstructors(t *testing.T) {
	d := Directional(math.V3(0, -2, 0), math.V3(2, -1, 0.5), 1)
	assert.True(t, d.Direction.ApproxEqual(math.V3(0, -1, 0), 1e-6))
	assert.Equal(t, math.V3(1, 0, 0.5), d.Color)

	p := Point(math.V3(1, 2, 3), math.V3(1, 1, 1), 1, 0)
	assert.Equal(t, float32(1), p.Range, "non-positive range falls back to 1")
	assert.Equal(t, "point", p.Type.String())
}

func TestSunDirection(t *testing.T) {
	overhead := SunDirection(0, 90)
	assert.True(t, overhead.ApproxEqual(math.V3(0, -1, 0), 1e-5), "%v", overhead)

	// sun on the +Z horizon shines towards -Z
	horizon := SunDirection(0, 0)
	assert.True(t, horizon.ApproxEqual(math.V3(0, 0, -1), 1e-5), "%v", horizon)

	east := SunDirection(90, 0)
	assert.True(t, east.ApproxEqual(math.V3(-1, 0, 0), 1e-5), "%v", east)

	sun := Sun(45, 45, math.V3(1, 1, 1), 0.8)
	assert.Equal(t, TypeDirectional, sun.Type)
	assert.InDelta(t, 1, sun.Direction.Length(), 1e-5)
}
