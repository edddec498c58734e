package mesh

import (
	"github.com/Faultbox/prism/pkg/math"
)

// CalculateTangents fills each vertex tangent from the UV layout of the
// triangles that use it, orthogonalised against the vertex normal.
func CalculateTangents(vertices []Vertex, indices []uint32) {
	acc := make([]math.Vec3, len(vertices))

	for i := 0; i+2 < len(indices); i += 3 {
		i0, i1, i2 := indices[i], indices[i+1], indices[i+2]
		v0, v1, v2 := vertices[i0], vertices[i1], vertices[i2]

		e1 := v1.Position.Sub(v0.Position)
		e2 := v2.Position.Sub(v0.Position)
		du1, dv1 := v1.UV[0]-v0.UV[0], v1.UV[1]-v0.UV[1]
		du2, dv2 := v2.UV[0]-v0.UV[0], v2.UV[1]-v0.UV[1]

		det := du1*dv2 - du2*dv1
		if det == 0 {
			continue
		}
		t := e1.Scale(dv2).Sub(e2.Scale(dv1)).Scale(1 / det)

		acc[i0] = acc[i0].Add(t)
		acc[i1] = acc[i1].Add(t)
		acc[i2] = acc[i2].Add(t)
	}

	for i := range vertices {
		n := vertices[i].Normal
		t := acc[i].Sub(n.Scale(n.Dot(acc[i])))
		if t.Length() < 1e-6 {
			t = perpendicular(n)
		}
		vertices[i].Tangent = t.Normalize()
	}
}

// perpendicular returns some unit vector orthogonal to n.
func perpendicular(n math.Vec3) math.Vec3 {
	axis := math.Right
	if n.X*n.X > 0.9*n.Dot(n) {
		axis = math.Up
	}
	return n.Cross(axis).Normalize()
}
