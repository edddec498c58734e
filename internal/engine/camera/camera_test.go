package camera

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/prism/internal/engine/input"
	"github.com/Faultbox/prism/pkg/math"
)

type fakeInput struct {
	keys   map[input.Key]bool
	left   bool
	dx, dy float32
}

func (f *fakeInput) KeyDown(k input.Key) bool { return f.keys[k] }

func (f *fakeInput) MouseButtonDown(b input.MouseButton) bool {
	return b == input.MouseLeft && f.left
}

func (f *fakeInput) MouseDelta() (float32, float32) { return f.dx, f.dy }

func keys(ks ...input.Key) *fakeInput {
	f := &fakeInput{keys: map[input.Key]bool{}}
	for _, k := range ks {
		f.keys[k] = true
	}
	return f
}

func TestForwardMovesAlongLocalZ(t *testing.T) {
	c := New(math.Vec3{Z: -5}, 16.0/9.0)
	c.Update(2, keys(input.KeyW))

	assert.True(t, c.Position().ApproxEqual(math.Vec3{Z: -4}, 1e-5), "got %v", c.Position())
}

func TestStrafeAndVertical(t *testing.T) {
	c := New(math.Vec3{}, 1)
	c.Update(1, keys(input.KeyD, input.KeySpace))

	assert.True(t, c.Position().ApproxEqual(math.Vec3{X: 0.5, Y: 0.5}, 1e-5), "got %v", c.Position())

	c.Update(1, keys(input.KeyA, input.KeyX, input.KeyS))
	assert.True(t, c.Position().ApproxEqual(math.Vec3{Z: -0.5}, 1e-5), "got %v", c.Position())
}

func TestVerticalMoveIgnoresPitch(t *testing.T) {
	c := New(math.Vec3{}, 1)
	c.Transform().SetRotation(0.7, 0.3, 0)
	c.Update(1, keys(input.KeySpace))

	assert.True(t, c.Position().ApproxEqual(math.Vec3{Y: 0.5}, 1e-5), "got %v", c.Position())
}

func TestMouseLookRequiresLeftButton(t *testing.T) {
	c := New(math.Vec3{}, 1)
	in := keys()
	in.dx, in.dy = 100, 50

	c.Update(0.1, in)
	assert.Equal(t, math.Vec3{}, c.Transform().PitchYawRoll())

	in.left = true
	c.Update(0.1, in)
	pyr := c.Transform().PitchYawRoll()
	assert.InDelta(t, 50*0.2*0.1, pyr.X, 1e-5)
	assert.InDelta(t, 100*0.2*0.1, pyr.Y, 1e-5)
}

func TestPitchIsClamped(t *testing.T) {
	c := New(math.Vec3{}, 1)
	in := keys()
	in.left = true
	in.dy = 10000

	c.Update(1, in)
	assert.InDelta(t, math32.Pi/2, c.Transform().PitchYawRoll().X, 1e-6)

	in.dy = -100000
	c.Update(1, in)
	assert.InDelta(t, -math32.Pi/2, c.Transform().PitchYawRoll().X, 1e-6)
}

func TestYawIsNotClamped(t *testing.T) {
	c := New(math.Vec3{}, 1)
	in := keys()
	in.left = true
	in.dx = 1000

	c.Update(1, in)
	assert.InDelta(t, 200, c.Transform().PitchYawRoll().Y, 1e-3)
}

func TestViewLooksDownForward(t *testing.T) {
	c := New(math.Vec3{Z: -5}, 1)
	got := c.ViewMatrix().TransformPoint(math.Vec3{})
	assert.True(t, got.ApproxEqual(math.Vec3{Z: 5}, 1e-5), "origin in view space: %v", got)
}

func TestProjectionDependsOnAspectOnlyHorizontally(t *testing.T) {
	c := New(math.Vec3{}, 1)
	before := c.ProjectionMatrix()
	c.UpdateProjectionMatrix(2)
	after := c.ProjectionMatrix()

	require.NotEqual(t, before[0], after[0])
	for i := 1; i < 16; i++ {
		assert.Equal(t, before[i], after[i], "element %d", i)
	}
}

func TestOptions(t *testing.T) {
	c := New(math.Vec3{}, 1, WithMoveSpeed(4), WithMouseSensitivity(1))
	c.Update(0.5, keys(input.KeyW))
	assert.True(t, c.Position().ApproxEqual(math.Vec3{Z: 2}, 1e-5))
}
