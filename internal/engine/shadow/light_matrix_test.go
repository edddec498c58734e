package shadow

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Faultbox/prism/pkg/math"
)

func project(view, proj math.Mat4, p math.Vec3) math.Vec3 {
	return proj.Mul(view).TransformPoint(p)
}

func inClip(p math.Vec3) bool {
	return p.X >= -1 && p.X <= 1 && p.Y >= -1 && p.Y <= 1 && p.Z >= -1 && p.Z <= 1
}

func TestDefaultLightLooksAtOrigin(t *testing.T) {
	view, proj := DefaultLightMatrices()
	center := project(view, proj, math.Vec3{})
	assert.InDelta(t, 0, center.X, 1e-5)
	assert.InDelta(t, 0, center.Y, 1e-5)
	assert.True(t, inClip(center))

	// a point at the edge of the 7 unit extent lands on the clip edge
	edge := project(view, proj, math.V3(3.5, 0, 0))
	assert.InDelta(t, 1, edge.X, 1e-4)

	// further from the light means deeper
	near := project(view, proj, math.V3(0, 1, -1))
	far := project(view, proj, math.V3(0, -1, 1))
	assert.Less(t, near.Z, far.Z)
}

func TestCalculateDirectionalLightMatrixContainsBounds(t *testing.T) {
	bounds := AABB{Min: math.V3(-4, -2.5, -1), Max: math.V3(6, 3, 7)}
	for _, dir := range []math.Vec3{
		math.V3(0, -1, 1),
		math.V3(1, -1, 0),
		math.V3(0, -1, 0),
	} {
		view, proj := CalculateDirectionalLightMatrix(dir, bounds)
		for i := range 8 {
			corner := bounds.Min
			if i&1 != 0 {
				corner.X = bounds.Max.X
			}
			if i&2 != 0 {
				corner.Y = bounds.Max.Y
			}
			if i&4 != 0 {
				corner.Z = bounds.Max.Z
			}
			p := project(view, proj, corner)
			assert.True(t, inClip(p), "dir %v corner %v -> %v", dir, corner, p)
		}
	}
}

func TestAABB(t *testing.T) {
	b := EmptyAABB()
	assert.True(t, b.Empty())
	b = b.Extend(math.V3(1, 2, 3)).Extend(math.V3(-1, 0, 1))
	assert.False(t, b.Empty())
	assert.Equal(t, math.V3(0, 1, 2), b.Center())
	assert.InDelta(t, math.V3(2, 2, 2).Length()/2, b.Radius(), 1e-6)
}
