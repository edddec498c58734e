// Package transform holds position, rotation and scale for scene objects
// and lazily builds their world matrices.
package transform

import (
	"github.com/Faultbox/prism/pkg/math"
)

// Transform is a position, an Euler rotation and a scale.
// The world matrices are rebuilt on first read after any change.
type Transform struct {
	position     math.Vec3
	pitchYawRoll math.Vec3
	scale        math.Vec3

	world             math.Mat4
	worldInvTranspose math.Mat4
	dirty             bool
}

// New returns a transform at the origin with unit scale and no rotation.
func New() *Transform {
	return &Transform{
		scale:             math.Vec3{X: 1, Y: 1, Z: 1},
		world:             math.Identity(),
		worldInvTranspose: math.Identity(),
	}
}

// SetPosition overwrites the position.
func (t *Transform) SetPosition(x, y, z float32) {
	t.position = math.Vec3{X: x, Y: y, Z: z}
	t.dirty = true
}

// SetRotation overwrites the rotation. Angles are in radians.
func (t *Transform) SetRotation(pitch, yaw, roll float32) {
	t.pitchYawRoll = math.Vec3{X: pitch, Y: yaw, Z: roll}
	t.dirty = true
}

// SetScale overwrites the scale.
func (t *Transform) SetScale(x, y, z float32) {
	t.scale = math.Vec3{X: x, Y: y, Z: z}
	t.dirty = true
}

// MoveAbsolute offsets the position along the world axes.
func (t *Transform) MoveAbsolute(dx, dy, dz float32) {
	t.position = t.position.Add(math.Vec3{X: dx, Y: dy, Z: dz})
	t.dirty = true
}

// MoveRelative offsets the position along the object's own axes.
func (t *Transform) MoveRelative(dx, dy, dz float32) {
	delta := t.orientation().Rotate(math.Vec3{X: dx, Y: dy, Z: dz})
	t.position = t.position.Add(delta)
	t.dirty = true
}

// Rotate adds to the rotation. Angles accumulate without wrapping.
func (t *Transform) Rotate(dPitch, dYaw, dRoll float32) {
	t.pitchYawRoll = t.pitchYawRoll.Add(math.Vec3{X: dPitch, Y: dYaw, Z: dRoll})
	t.dirty = true
}

// Scale multiplies the current scale component-wise.
func (t *Transform) Scale(x, y, z float32) {
	t.scale = t.scale.Mul(math.Vec3{X: x, Y: y, Z: z})
	t.dirty = true
}

// Position returns the current position.
func (t *Transform) Position() math.Vec3 { return t.position }

// PitchYawRoll returns the rotation as (pitch, yaw, roll) in radians.
func (t *Transform) PitchYawRoll() math.Vec3 { return t.pitchYawRoll }

// ScaleFactors returns the current scale.
func (t *Transform) ScaleFactors() math.Vec3 { return t.scale }

// Dirty reports whether the cached matrices are stale.
func (t *Transform) Dirty() bool { return t.dirty }

// WorldMatrix returns scale, then rotation, then translation.
func (t *Transform) WorldMatrix() math.Mat4 {
	t.update()
	return t.world
}

// WorldInverseTransposeMatrix returns the matrix used to transform normals.
func (t *Transform) WorldInverseTransposeMatrix() math.Mat4 {
	t.update()
	return t.worldInvTranspose
}

// Right returns the local +X axis in world space.
func (t *Transform) Right() math.Vec3 { return t.orientation().Rotate(math.Right) }

// Up returns the local +Y axis in world space.
func (t *Transform) Up() math.Vec3 { return t.orientation().Rotate(math.Up) }

// Forward returns the local +Z axis in world space.
func (t *Transform) Forward() math.Vec3 { return t.orientation().Rotate(math.Forward) }

func (t *Transform) orientation() math.Quat {
	return math.QuatFromPitchYawRoll(t.pitchYawRoll.X, t.pitchYawRoll.Y, t.pitchYawRoll.Z)
}

func (t *Transform) update() {
	if !t.dirty {
		return
	}

	s := math.Scale(t.scale.X, t.scale.Y, t.scale.Z)
	r := t.orientation().ToMat4()
	tr := math.Translate(t.position.X, t.position.Y, t.position.Z)

	t.world = tr.Mul(r).Mul(s)
	t.worldInvTranspose = t.world.Inverse().Transpose()
	t.dirty = false
}
