package math

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestIdentity(t *testing.T) {
	m := Identity()
	if m[0] != 1 || m[5] != 1 || m[10] != 1 || m[15] != 1 {
		t.Error("Identity diagonal should be 1")
	}
	if m[1] != 0 || m[4] != 0 {
		t.Error("Identity off-diagonal should be 0")
	}
}

func TestMulIdentity(t *testing.T) {
	m := Translate(1, 2, 3)
	result := m.Mul(Identity())
	if result != m {
		t.Errorf("M * I should equal M, got %v", result)
	}
}

func TestMulMatchesMathGL(t *testing.T) {
	a := Translate(1, 2, 3).Mul(RotateY(0.7)).Mul(Scale(2, 3, 4))
	b := RotateX(-0.4).Mul(Translate(-5, 0.5, 9))

	want := mgl32.Mat4(a).Mul4(mgl32.Mat4(b))
	got := a.Mul(b)
	if !got.ApproxEqual(Mat4(want), 1e-4) {
		t.Errorf("Mul: got %v, want %v", got, want)
	}
}

func TestTranspose(t *testing.T) {
	m := Translate(5, 10, 15)
	tr := m.Transpose()
	if tr[3] != 5 || tr[7] != 10 || tr[11] != 15 {
		t.Errorf("Transpose should move translation to the bottom row, got %v", tr)
	}
	if tr.Transpose() != m {
		t.Error("Transpose twice should return the original")
	}
}

func TestInverseMatchesMathGL(t *testing.T) {
	m := Translate(3, -2, 1).Mul(RotateZ(0.3)).Mul(RotateX(1.1)).Mul(Scale(0.25, 0.75, 0.3))
	want := mgl32.Mat4(m).Inv()
	got := m.Inverse()
	if !got.ApproxEqual(Mat4(want), 1e-3) {
		t.Errorf("Inverse: got %v, want %v", got, want)
	}
	if !m.Mul(got).ApproxEqual(Identity(), 1e-4) {
		t.Errorf("M * inverse(M) should be identity, got %v", m.Mul(got))
	}
}

func TestInverseSingular(t *testing.T) {
	if got := Scale(0, 1, 1).Inverse(); got != Identity() {
		t.Errorf("singular inverse should fall back to identity, got %v", got)
	}
}

func TestTransformPoint(t *testing.T) {
	m := Translate(10, 20, 30)
	got := m.TransformPoint(Vec3{1, 2, 3})
	if got != (Vec3{11, 22, 33}) {
		t.Errorf("TransformPoint: got %v, want (11, 22, 33)", got)
	}
}

func TestTransformDirectionIgnoresTranslation(t *testing.T) {
	m := Translate(10, 20, 30).Mul(Scale(2, 2, 2))
	got := m.TransformDirection(Vec3{1, 2, 3})
	if got != (Vec3{2, 4, 6}) {
		t.Errorf("TransformDirection: got %v, want (2, 4, 6)", got)
	}
}

func TestRotateY90(t *testing.T) {
	m := RotateY(float32(math.Pi / 2))
	got := m.TransformPoint(Vec3{0, 0, 1})

	// +Z turns toward +X for a positive yaw
	if !got.ApproxEqual(Vec3{1, 0, 0}, 0.001) {
		t.Errorf("RotateY 90: got %v, want (1, 0, 0)", got)
	}
}

func TestPerspectiveLHDepthRange(t *testing.T) {
	near, far := float32(0.01), float32(100)
	m := PerspectiveLH(float32(math.Pi/4), 16.0/9.0, near, far)

	n := m.TransformPoint(Vec3{0, 0, near})
	f := m.TransformPoint(Vec3{0, 0, far})
	if math.Abs(float64(n.Z+1)) > 1e-3 {
		t.Errorf("near plane should map to -1, got %v", n.Z)
	}
	if math.Abs(float64(f.Z-1)) > 1e-3 {
		t.Errorf("far plane should map to 1, got %v", f.Z)
	}
	if m[11] != 1 {
		t.Errorf("left-handed perspective [11] should be 1, got %v", m[11])
	}
}

func TestPerspectiveLHAspectOnlyChangesHorizontalScale(t *testing.T) {
	a := PerspectiveLH(float32(math.Pi/4), 1, 0.01, 100)
	b := PerspectiveLH(float32(math.Pi/4), 2, 0.01, 100)
	for i := range a {
		if i == 0 {
			continue
		}
		if a[i] != b[i] {
			t.Errorf("element %d changed with aspect: %v vs %v", i, a[i], b[i])
		}
	}
	if b[0]*2 != a[0] {
		t.Errorf("horizontal scale should halve when aspect doubles: %v vs %v", a[0], b[0])
	}
}

func TestOrthoLH(t *testing.T) {
	m := OrthoLH(7, 7, 0.1, 100)
	corner := m.TransformPoint(Vec3{3.5, -3.5, 0.1})
	if !corner.ApproxEqual(Vec3{1, -1, -1}, 1e-4) {
		t.Errorf("OrthoLH corner: got %v, want (1, -1, -1)", corner)
	}
}

func TestLookToLH(t *testing.T) {
	eye := Vec3{0, 0, -5}
	m := LookToLH(eye, Forward, Up)

	if got := m.TransformPoint(eye); !got.ApproxEqual(Vec3{}, 1e-5) {
		t.Errorf("eye should map to the origin, got %v", got)
	}
	if got := m.TransformPoint(Vec3{0, 0, 0}); !got.ApproxEqual(Vec3{0, 0, 5}, 1e-5) {
		t.Errorf("point ahead should have positive view depth, got %v", got)
	}
	if got := m.TransformPoint(Vec3{1, 0, -5}); !got.ApproxEqual(Vec3{1, 0, 0}, 1e-5) {
		t.Errorf("world +X should stay view +X, got %v", got)
	}
}

func TestLookToLHParallelUp(t *testing.T) {
	m := LookToLH(Vec3{}, Vec3{0, -1, 0}, Up)
	for i, v := range m {
		if math.IsNaN(float64(v)) {
			t.Fatalf("element %d is NaN", i)
		}
	}
	if got := m.TransformPoint(Vec3{0, -2, 0}); !got.ApproxEqual(Vec3{0, 0, 2}, 1e-5) {
		t.Errorf("looking straight down: got %v, want (0, 0, 2)", got)
	}
}

func TestLookAtLH(t *testing.T) {
	eye := Vec3{0, 20, -20}
	m := LookAtLH(eye, Vec3{}, Up)
	got := m.TransformPoint(Vec3{})
	want := eye.Length()
	if got.X > 1e-4 || got.Y > 1e-4 || math.Abs(float64(got.Z-want)) > 1e-3 {
		t.Errorf("target should be straight ahead at distance %v, got %v", want, got)
	}
}
