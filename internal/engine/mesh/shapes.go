package mesh

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/prism/pkg/math"
)

// Procedural stand-ins for the model files. Every shape fits a unit box
// centred on the origin and winds front faces clockwise when viewed from
// outside in the left-handed world.

type builder struct {
	g Geometry
}

func (b *builder) vertex(p, n math.Vec3, u, v float32) uint32 {
	b.g.Vertices = append(b.g.Vertices, Vertex{Position: p, Normal: n.Normalize(), UV: [2]float32{u, v}})
	return uint32(len(b.g.Vertices) - 1)
}

// triangle appends a, b, c ordered so the face normal agrees with the
// vertex normals.
func (b *builder) triangle(i0, i1, i2 uint32) {
	v := b.g.Vertices
	face := v[i1].Position.Sub(v[i0].Position).Cross(v[i2].Position.Sub(v[i0].Position))
	normal := v[i0].Normal.Add(v[i1].Normal).Add(v[i2].Normal)
	if face.Dot(normal) < 0 {
		i1, i2 = i2, i1
	}
	b.g.Indices = append(b.g.Indices, i0, i1, i2)
}

// grid stitches a rows x cols vertex lattice starting at first.
func (b *builder) grid(first uint32, rows, cols int) {
	for r := 0; r < rows-1; r++ {
		for c := 0; c < cols-1; c++ {
			a := first + uint32(r*cols+c)
			bb := a + 1
			d := a + uint32(cols)
			e := d + 1
			b.triangle(a, bb, e)
			b.triangle(a, e, d)
		}
	}
}

// face adds a unit square centred at c facing n, with V running against up.
func (b *builder) face(c, n, up math.Vec3) {
	right := n.Cross(up)
	first := b.vertex(c.Sub(right.Scale(0.5)).Add(up.Scale(0.5)), n, 0, 0)
	b.vertex(c.Add(right.Scale(0.5)).Add(up.Scale(0.5)), n, 1, 0)
	b.vertex(c.Sub(right.Scale(0.5)).Sub(up.Scale(0.5)), n, 0, 1)
	b.vertex(c.Add(right.Scale(0.5)).Sub(up.Scale(0.5)), n, 1, 1)
	b.grid(first, 2, 2)
}

func (b *builder) finish() Geometry {
	CalculateTangents(b.g.Vertices, b.g.Indices)
	return b.g
}

// Cube returns a unit cube.
func Cube() Geometry {
	b := &builder{}
	b.face(math.Vec3{Z: -0.5}, math.Vec3{Z: -1}, math.Up)
	b.face(math.Vec3{Z: 0.5}, math.Vec3{Z: 1}, math.Up)
	b.face(math.Vec3{X: -0.5}, math.Vec3{X: -1}, math.Up)
	b.face(math.Vec3{X: 0.5}, math.Vec3{X: 1}, math.Up)
	b.face(math.Vec3{Y: 0.5}, math.Up, math.Forward)
	b.face(math.Vec3{Y: -0.5}, math.Vec3{Y: -1}, math.Vec3{Z: -1})
	return b.finish()
}

// Quad returns a unit square in the XZ plane facing +Y.
func Quad() Geometry {
	b := &builder{}
	b.face(math.Vec3{}, math.Up, math.Forward)
	return b.finish()
}

// QuadDoubleSided returns a Quad with a second face pointing down.
func QuadDoubleSided() Geometry {
	b := &builder{}
	b.face(math.Vec3{}, math.Up, math.Forward)
	b.face(math.Vec3{}, math.Vec3{Y: -1}, math.Forward)
	return b.finish()
}

// Sphere returns a UV sphere of diameter 1.
func Sphere(stacks, slices int) Geometry {
	stacks, slices = max(stacks, 2), max(slices, 3)
	b := &builder{}

	for i := 0; i <= stacks; i++ {
		phi := math32.Pi * float32(i) / float32(stacks)
		sp, cp := math32.Sincos(phi)
		for j := 0; j <= slices; j++ {
			theta := 2 * math32.Pi * float32(j) / float32(slices)
			st, ct := math32.Sincos(theta)
			n := math.Vec3{X: sp * ct, Y: cp, Z: sp * st}
			b.vertex(n.Scale(0.5), n, float32(j)/float32(slices), float32(i)/float32(stacks))
		}
	}
	b.grid(0, stacks+1, slices+1)
	b.dropDegenerate()
	return b.finish()
}

// Cylinder returns a capped cylinder of diameter 1 and height 1 along Y.
func Cylinder(slices int) Geometry {
	slices = max(slices, 3)
	b := &builder{}

	// side
	for row := 0; row < 2; row++ {
		y := 0.5 - float32(row)
		for j := 0; j <= slices; j++ {
			theta := 2 * math32.Pi * float32(j) / float32(slices)
			st, ct := math32.Sincos(theta)
			n := math.Vec3{X: ct, Z: st}
			b.vertex(math.Vec3{X: ct * 0.5, Y: y, Z: st * 0.5}, n, float32(j)/float32(slices), float32(row))
		}
	}
	b.grid(0, 2, slices+1)

	// caps
	for _, y := range []float32{0.5, -0.5} {
		n := math.Vec3{Y: y * 2}
		center := b.vertex(math.Vec3{Y: y}, n, 0.5, 0.5)
		for j := 0; j <= slices; j++ {
			theta := 2 * math32.Pi * float32(j) / float32(slices)
			st, ct := math32.Sincos(theta)
			b.vertex(math.Vec3{X: ct * 0.5, Y: y, Z: st * 0.5}, n, 0.5+ct*0.5, 0.5+st*0.5)
		}
		for j := 0; j < slices; j++ {
			b.triangle(center, center+1+uint32(j), center+2+uint32(j))
		}
	}
	return b.finish()
}

// Torus returns a ring lying in the XZ plane with outer diameter 1.
func Torus(rings, sides int) Geometry {
	rings, sides = max(rings, 3), max(sides, 3)
	const major, minor = 0.35, 0.15
	b := &builder{}

	for i := 0; i <= rings; i++ {
		u := 2 * math32.Pi * float32(i) / float32(rings)
		su, cu := math32.Sincos(u)
		center := math.Vec3{X: major * cu, Z: major * su}
		out := math.Vec3{X: cu, Z: su}
		for j := 0; j <= sides; j++ {
			v := 2 * math32.Pi * float32(j) / float32(sides)
			sv, cv := math32.Sincos(v)
			n := out.Scale(cv).Add(math.Up.Scale(sv))
			b.vertex(center.Add(n.Scale(minor)), n, float32(i)/float32(rings), float32(j)/float32(sides))
		}
	}
	b.grid(0, rings+1, sides+1)
	return b.finish()
}

// Helix returns a tube wound twice around the Y axis.
func Helix(segments, sides int) Geometry {
	segments, sides = max(segments, 4), max(sides, 3)
	const (
		radius = 0.35
		tube   = 0.08
		turns  = 2
		height = 0.8
	)
	b := &builder{}
	rise := float32(height / (turns * 2 * math32.Pi))

	for i := 0; i <= segments; i++ {
		t := turns * 2 * math32.Pi * float32(i) / float32(segments)
		st, ct := math32.Sincos(t)
		center := math.Vec3{X: radius * ct, Y: rise*t - height/2, Z: radius * st}
		along := math.Vec3{X: -radius * st, Y: rise, Z: radius * ct}.Normalize()
		inward := math.Vec3{X: -ct, Z: -st}
		side := along.Cross(inward)

		for j := 0; j <= sides; j++ {
			a := 2 * math32.Pi * float32(j) / float32(sides)
			sa, ca := math32.Sincos(a)
			n := inward.Scale(ca).Add(side.Scale(sa))
			b.vertex(center.Add(n.Scale(tube)), n, float32(i)/float32(segments), float32(j)/float32(sides))
		}
	}
	b.grid(0, segments+1, sides+1)
	return b.finish()
}

// dropDegenerate removes zero-area triangles, such as those at sphere poles.
func (b *builder) dropDegenerate() {
	v := b.g.Vertices
	kept := b.g.Indices[:0]
	for i := 0; i+2 < len(b.g.Indices); i += 3 {
		i0, i1, i2 := b.g.Indices[i], b.g.Indices[i+1], b.g.Indices[i+2]
		area := v[i1].Position.Sub(v[i0].Position).Cross(v[i2].Position.Sub(v[i0].Position)).Length()
		if area > 1e-9 {
			kept = append(kept, i0, i1, i2)
		}
	}
	b.g.Indices = kept
}

// Shape builds a named procedural shape with default tessellation.
func Shape(name string) (Geometry, bool) {
	switch name {
	case "cube":
		return Cube(), true
	case "quad":
		return Quad(), true
	case "quad_double_sided":
		return QuadDoubleSided(), true
	case "sphere":
		return Sphere(24, 48), true
	case "cylinder":
		return Cylinder(48), true
	case "torus":
		return Torus(48, 24), true
	case "helix":
		return Helix(128, 16), true
	}
	return Geometry{}, false
}
