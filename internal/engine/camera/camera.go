// Package camera provides the first-person fly camera.
package camera

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/prism/internal/engine/input"
	"github.com/Faultbox/prism/internal/engine/transform"
	"github.com/Faultbox/prism/pkg/math"
)

// Projection parameters.
const (
	FieldOfView = math32.Pi / 4
	NearPlane   = 0.01
	FarPlane    = 100.0
)

const (
	DefaultMoveSpeed        = 0.5
	DefaultMouseSensitivity = 0.2
)

// Input is the polled input the camera reads each frame.
type Input interface {
	KeyDown(k input.Key) bool
	MouseButtonDown(b input.MouseButton) bool
	MouseDelta() (dx, dy float32)
}

// Option configures a Camera.
type Option func(*Camera)

// WithMoveSpeed sets the translation speed in units per second.
func WithMoveSpeed(speed float32) Option {
	return func(c *Camera) { c.moveSpeed = speed }
}

// WithMouseSensitivity sets radians of rotation per pixel of mouse motion per second.
func WithMouseSensitivity(sens float32) Option {
	return func(c *Camera) { c.mouseSensitivity = sens }
}

// Camera is a free-flying camera driven by WASD and mouse look.
type Camera struct {
	transform *transform.Transform
	view      math.Mat4
	proj      math.Mat4

	moveSpeed        float32
	mouseSensitivity float32
}

// New creates a camera at position with the given viewport aspect ratio.
func New(position math.Vec3, aspect float32, opts ...Option) *Camera {
	c := &Camera{
		transform:        transform.New(),
		moveSpeed:        DefaultMoveSpeed,
		mouseSensitivity: DefaultMouseSensitivity,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.transform.SetPosition(position.X, position.Y, position.Z)
	c.UpdateViewMatrix()
	c.UpdateProjectionMatrix(aspect)
	return c
}

// Update applies one frame of keyboard movement and mouse look, then rebuilds the view.
func (c *Camera) Update(dt float32, in Input) {
	step := c.moveSpeed * dt

	if in.KeyDown(input.KeyW) {
		c.transform.MoveRelative(0, 0, step)
	}
	if in.KeyDown(input.KeyS) {
		c.transform.MoveRelative(0, 0, -step)
	}
	if in.KeyDown(input.KeyA) {
		c.transform.MoveRelative(-step, 0, 0)
	}
	if in.KeyDown(input.KeyD) {
		c.transform.MoveRelative(step, 0, 0)
	}
	if in.KeyDown(input.KeySpace) {
		c.transform.MoveAbsolute(0, step, 0)
	}
	if in.KeyDown(input.KeyX) {
		c.transform.MoveAbsolute(0, -step, 0)
	}

	if in.MouseButtonDown(input.MouseLeft) {
		dx, dy := in.MouseDelta()
		c.transform.Rotate(dy*c.mouseSensitivity*dt, dx*c.mouseSensitivity*dt, 0)

		// Clamp pitch so the camera never flips over the pole
		pyr := c.transform.PitchYawRoll()
		if pyr.X < -math32.Pi/2 {
			c.transform.SetRotation(-math32.Pi/2, pyr.Y, pyr.Z)
		} else if pyr.X > math32.Pi/2 {
			c.transform.SetRotation(math32.Pi/2, pyr.Y, pyr.Z)
		}
	}

	c.UpdateViewMatrix()
}

// UpdateViewMatrix rebuilds the view from the transform's position and forward axis.
func (c *Camera) UpdateViewMatrix() {
	c.view = math.LookToLH(c.transform.Position(), c.transform.Forward(), math.Up)
}

// UpdateProjectionMatrix rebuilds the projection for a new aspect ratio.
func (c *Camera) UpdateProjectionMatrix(aspect float32) {
	c.proj = math.PerspectiveLH(FieldOfView, aspect, NearPlane, FarPlane)
}

// Transform returns the camera's transform.
func (c *Camera) Transform() *transform.Transform { return c.transform }

// ViewMatrix returns the cached view matrix.
func (c *Camera) ViewMatrix() math.Mat4 { return c.view }

// ProjectionMatrix returns the cached projection matrix.
func (c *Camera) ProjectionMatrix() math.Mat4 { return c.proj }

// Position returns the camera position in world space.
func (c *Camera) Position() math.Vec3 { return c.transform.Position() }
