package shadow

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/prism/pkg/math"
)

// Default light placement used when the scene does not fit the volume to
// its bounds.
var (
	DefaultLightPosition = math.V3(0, 20, -20)
	DefaultLightTarget   = math.Vec3{}
)

// Default orthographic volume.
const (
	DefaultExtent = 7
	DefaultNear   = 0.1
	DefaultFar    = 100
)

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min, Max math.Vec3
}

// Empty reports whether the box has not been extended yet.
func (b AABB) Empty() bool {
	return b.Min.X > b.Max.X
}

// EmptyAABB returns a box that any Extend call will replace.
func EmptyAABB() AABB {
	inf := float32(math32.MaxFloat32)
	return AABB{Min: math.V3(inf, inf, inf), Max: math.V3(-inf, -inf, -inf)}
}

// Extend grows the box to contain p.
func (b AABB) Extend(p math.Vec3) AABB {
	b.Min = math.V3(min(b.Min.X, p.X), min(b.Min.Y, p.Y), min(b.Min.Z, p.Z))
	b.Max = math.V3(max(b.Max.X, p.X), max(b.Max.Y, p.Y), max(b.Max.Z, p.Z))
	return b
}

// Center returns the center point of the box.
func (b AABB) Center() math.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Radius returns the half-diagonal.
func (b AABB) Radius() float32 {
	return b.Max.Sub(b.Min).Length() / 2
}

// LightMatrices returns a left-handed view looking from pos to target and
// a size×size orthographic projection.
func LightMatrices(pos, target math.Vec3, size, near, far float32) (view, proj math.Mat4) {
	view = math.LookAtLH(pos, target, upFor(target.Sub(pos)))
	proj = math.OrthoLH(size, size, near, far)
	return view, proj
}

// DefaultLightMatrices returns the fixed light used by the default scene.
func DefaultLightMatrices() (view, proj math.Mat4) {
	return LightMatrices(DefaultLightPosition, DefaultLightTarget, DefaultExtent, DefaultNear, DefaultFar)
}

// CalculateDirectionalLightMatrix fits an orthographic light volume around
// bounds. dir is the direction the light travels.
func CalculateDirectionalLightMatrix(dir math.Vec3, bounds AABB) (view, proj math.Mat4) {
	center := bounds.Center()
	radius := max(bounds.Radius(), 0.5)
	dir = dir.Normalize()

	distance := radius * 2
	pos := center.Sub(dir.Scale(distance))

	// padding avoids clipping casters at the edge of the map
	halfSize := radius * 1.1
	view = math.LookAtLH(pos, center, upFor(dir))
	proj = math.OrthoLH(halfSize*2, halfSize*2, DefaultNear, distance+halfSize)
	return view, proj
}

func upFor(dir math.Vec3) math.Vec3 {
	if math32.Abs(dir.Normalize().Y) > 0.99 {
		return math.Forward
	}
	return math.Up
}
