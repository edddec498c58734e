// Package lighting describes scene lights and packs them for the GPU.
package lighting

import (
	"encoding/binary"
	gomath "math"

	"github.com/Faultbox/prism/pkg/math"
)

// MaxLights is the size of the light array in the pixel shader.
const MaxLights = 16

// LightStride is the std140 size of one light in the LightBlock.
const LightStride = 48

// BlockName is the uniform block the lights are uploaded to.
const BlockName = "LightBlock"

// Type tags which fields of a Light are meaningful.
type Type int32

const (
	// TypeDirectional uses Direction only.
	TypeDirectional Type = iota
	// TypePoint uses Position and Range.
	TypePoint
)

func (t Type) String() string {
	switch t {
	case TypeDirectional:
		return "directional"
	case TypePoint:
		return "point"
	default:
		return "unknown"
	}
}

// Light is a directional or point light.
type Light struct {
	Type      Type
	Direction math.Vec3 // travel direction, directional lights
	Position  math.Vec3 // world position, point lights
	Color     math.Vec3 // RGB, 0-1
	Intensity float32
	Range     float32 // falloff radius, point lights
}

// Directional returns a light shining along dir.
func Directional(dir, color math.Vec3, intensity float32) Light {
	return Light{
		Type:      TypeDirectional,
		Direction: dir.Normalize(),
		Color:     clampColor(color),
		Intensity: intensity,
	}
}

// Point returns a light at pos fading to zero at rng.
func Point(pos, color math.Vec3, intensity, rng float32) Light {
	if rng <= 0 {
		rng = 1
	}
	return Light{
		Type:      TypePoint,
		Position:  pos,
		Color:     clampColor(color),
		Intensity: intensity,
		Range:     rng,
	}
}

func clampColor(c math.Vec3) math.Vec3 {
	return math.Vec3{X: clamp01(c.X), Y: clamp01(c.Y), Z: clamp01(c.Z)}
}

func clamp01(f float32) float32 {
	return min(max(f, 0), 1)
}

// Count returns how many of lights fit in the shader array.
func Count(lights []Light) int {
	return min(len(lights), MaxLights)
}

// Encode packs lights in the std140 LightBlock layout:
//
//	vec3 direction; float range; vec3 position; float intensity; vec3 color; int type;
//
// Lights past MaxLights are dropped.
func Encode(lights []Light) []byte {
	n := Count(lights)
	out := make([]byte, 0, n*LightStride)
	for _, l := range lights[:n] {
		out = appendVec3(out, l.Direction)
		out = appendFloat(out, l.Range)
		out = appendVec3(out, l.Position)
		out = appendFloat(out, l.Intensity)
		out = appendVec3(out, l.Color)
		out = binary.LittleEndian.AppendUint32(out, uint32(l.Type))
	}
	return out
}

func appendFloat(b []byte, f float32) []byte {
	return binary.LittleEndian.AppendUint32(b, gomath.Float32bits(f))
}

func appendVec3(b []byte, v math.Vec3) []byte {
	b = appendFloat(b, v.X)
	b = appendFloat(b, v.Y)
	return appendFloat(b, v.Z)
}
