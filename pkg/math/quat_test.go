package math

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestQuatIdentity(t *testing.T) {
	q := QuatIdentity()
	if q.X != 0 || q.Y != 0 || q.Z != 0 || q.W != 1 {
		t.Errorf("Identity quaternion should be (0,0,0,1), got (%v,%v,%v,%v)", q.X, q.Y, q.Z, q.W)
	}
}

func TestQuatNormalize(t *testing.T) {
	q := Quat{X: 1, Y: 2, Z: 3, W: 4}
	n := q.Normalize()

	length := math.Sqrt(float64(n.X*n.X + n.Y*n.Y + n.Z*n.Z + n.W*n.W))
	if math.Abs(length-1.0) > 0.0001 {
		t.Errorf("Normalized quaternion length should be 1, got %v", length)
	}
}

func TestQuatToMat4Identity(t *testing.T) {
	m := QuatIdentity().ToMat4()
	if !m.ApproxEqual(Identity(), 0.0001) {
		t.Errorf("Identity quat should produce identity matrix, got %v", m)
	}
}

func TestQuatFromAxisAngle(t *testing.T) {
	q := QuatFromAxisAngle(Up, float32(math.Pi/2))

	expectedW := float32(math.Cos(math.Pi / 4))
	expectedY := float32(math.Sin(math.Pi / 4))

	if math.Abs(float64(q.W-expectedW)) > 0.001 {
		t.Errorf("QuatFromAxisAngle W: expected %v, got %v", expectedW, q.W)
	}
	if math.Abs(float64(q.Y-expectedY)) > 0.001 {
		t.Errorf("QuatFromAxisAngle Y: expected %v, got %v", expectedY, q.Y)
	}
}

func TestQuatRotateMatchesMatrix(t *testing.T) {
	q := QuatFromPitchYawRoll(0.3, 1.2, -0.7)
	v := Vec3{0.5, -2, 3}

	got := q.Rotate(v)
	want := q.ToMat4().TransformDirection(v)
	if !got.ApproxEqual(want, 1e-4) {
		t.Errorf("Rotate: got %v, matrix gives %v", got, want)
	}
}

func TestQuatFromPitchYawRollOrder(t *testing.T) {
	pitch, yaw, roll := float32(0.4), float32(-1.1), float32(0.9)
	q := QuatFromPitchYawRoll(pitch, yaw, roll)

	// roll, then pitch, then yaw
	oracle := mgl32.QuatRotate(yaw, mgl32.Vec3{0, 1, 0}).
		Mul(mgl32.QuatRotate(pitch, mgl32.Vec3{1, 0, 0})).
		Mul(mgl32.QuatRotate(roll, mgl32.Vec3{0, 0, 1}))

	v := Vec3{1, 2, 3}
	want := oracle.Rotate(mgl32.Vec3{1, 2, 3})
	got := q.Rotate(v)
	if !got.ApproxEqual(Vec3{want[0], want[1], want[2]}, 1e-4) {
		t.Errorf("QuatFromPitchYawRoll: got %v, want %v", got, want)
	}
}

func TestQuatPitchLooksDown(t *testing.T) {
	q := QuatFromPitchYawRoll(float32(math.Pi/2), 0, 0)
	got := q.Rotate(Forward)
	if !got.ApproxEqual(Vec3{0, -1, 0}, 1e-5) {
		t.Errorf("positive pitch should tilt forward down, got %v", got)
	}
}

func TestQuatConjugateUndoesRotation(t *testing.T) {
	q := QuatFromPitchYawRoll(0.2, 0.5, 0.1)
	v := Vec3{4, 5, 6}
	back := q.Conjugate().Rotate(q.Rotate(v))
	if !back.ApproxEqual(v, 1e-4) {
		t.Errorf("conjugate should undo the rotation, got %v", back)
	}
}
